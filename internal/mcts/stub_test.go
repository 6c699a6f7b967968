package mcts

import (
	"context"
	"fmt"
)

// moveAction names the target state reached by taking the action; graphWorld
// and graphConfig key everything off that target name, which keeps the test
// fixtures below small and easy to read.
type moveAction struct {
	target string
}

// graphWorld is a WorldModel over a small hand-described state graph, for
// scenarios where the full set of reachable states is known up front.
type graphWorld struct {
	root      string
	terminal  map[string]bool
	actionsOf map[string][]moveAction
	stepErr   error
	initErr   error
}

func (w *graphWorld) InitState(ctx context.Context) (State, error) {
	if w.initErr != nil {
		return nil, w.initErr
	}
	return w.root, nil
}

func (w *graphWorld) Step(ctx context.Context, state State, action Action) (State, Aux, error) {
	if w.stepErr != nil {
		return nil, nil, w.stepErr
	}
	m := action.(moveAction)
	return m.target, Aux{}, nil
}

func (w *graphWorld) IsTerminal(ctx context.Context, state State) (bool, error) {
	return w.terminal[state.(string)], nil
}

// graphConfig is the matching SearchConfig: rewards and fast-reward priors
// are looked up by the target state name (the reward "of arriving at X").
type graphConfig struct {
	actionsOf    map[string][]moveAction
	rewardOf     map[string]float64
	fastRewardOf map[string]float64 // nil entries fall back to rewardOf
}

func (c *graphConfig) GetActions(ctx context.Context, state State) ([]Action, error) {
	moves := c.actionsOf[state.(string)]
	out := make([]Action, len(moves))
	for i, m := range moves {
		out[i] = m
	}
	return out, nil
}

func (c *graphConfig) FastReward(state State, action Action) (float64, Details, error) {
	m := action.(moveAction)
	if c.fastRewardOf != nil {
		if r, ok := c.fastRewardOf[m.target]; ok {
			return r, nil, nil
		}
	}
	return c.rewardOf[m.target], nil, nil
}

func (c *graphConfig) Reward(ctx context.Context, state State, action Action, fastDetails Details, aux Aux) (float64, Details, error) {
	m := action.(moveAction)
	return c.rewardOf[m.target], nil, nil
}

// chainWorld is an infinite, never-terminal chain: state is the depth
// reached so far, and there is always exactly one action, "advance".
type chainWorld struct{}

type advanceAction struct{}

func (chainWorld) InitState(ctx context.Context) (State, error) { return 0, nil }

func (chainWorld) Step(ctx context.Context, state State, action Action) (State, Aux, error) {
	return state.(int) + 1, Aux{}, nil
}

func (chainWorld) IsTerminal(ctx context.Context, state State) (bool, error) { return false, nil }

type chainConfig struct {
	stepReward float64
}

func (c chainConfig) GetActions(ctx context.Context, state State) ([]Action, error) {
	return []Action{advanceAction{}}, nil
}

func (c chainConfig) FastReward(state State, action Action) (float64, Details, error) {
	return c.stepReward, nil, nil
}

func (c chainConfig) Reward(ctx context.Context, state State, action Action, fastDetails Details, aux Aux) (float64, Details, error) {
	return c.stepReward, nil, nil
}

func (m moveAction) String() string { return fmt.Sprintf("move(%s)", m.target) }
