package mcts

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// A single action leading straight to a terminal with reward 1.0: after one
// iteration with OutputMaxReward, cum_reward is 1.0 and the trace has length 2.
func TestEngine_SingleStepTerminal(t *testing.T) {
	world := &graphWorld{
		root:      "root",
		terminal:  map[string]bool{"A": true},
		actionsOf: map[string][]moveAction{"root": {{target: "A"}}},
	}
	config := &graphConfig{
		actionsOf: world.actionsOf,
		rewardOf:  map[string]float64{"A": 1.0},
	}
	engine, err := New(WithIterations(1), WithOutputStrategy(OutputMaxReward))
	require.NoError(t, err)

	result, err := engine.Search(context.Background(), world, config)
	require.NoError(t, err)
	require.Equal(t, 1.0, result.CumReward)
	require.Len(t, result.Trace.States, 2)
	require.Equal(t, "A", result.TerminalState)
}

// An infinite chain with reward 0.1 per step, depth_limit=3, n_iters=5. Since
// the chain never terminates, max_reward would report a dead end, so this
// exercises OutputLastIter instead: trajectory length <= 4, cum_reward <= 0.3.
func TestEngine_DepthLimit(t *testing.T) {
	engine, err := New(
		WithDepthLimit(3),
		WithIterations(5),
		WithOutputStrategy(OutputLastIter),
	)
	require.NoError(t, err)

	result, err := engine.Search(context.Background(), chainWorld{}, chainConfig{stepReward: 0.1})
	require.NoError(t, err)
	require.LessOrEqual(t, len(result.Trace.States), 4)
	require.LessOrEqual(t, result.CumReward, 0.3+1e-9)
}

// Two root children A (reward 1.0, terminal) and B (reward 0.0, terminal).
// With w_exp=0, after many iterations N(A) >> N(B); with a large w_exp, the
// two visit counts stay within 1 of each other.
func TestEngine_UCBExploration(t *testing.T) {
	newFixture := func() (*graphWorld, *graphConfig) {
		world := &graphWorld{
			root:     "root",
			terminal: map[string]bool{"A": true, "B": true},
			actionsOf: map[string][]moveAction{
				"root": {{target: "A"}, {target: "B"}},
			},
		}
		config := &graphConfig{
			actionsOf: world.actionsOf,
			rewardOf:  map[string]float64{"A": 1.0, "B": 0.0},
		}
		return world, config
	}

	findByReward := func(root *Node, reward float64) *Node {
		for _, c := range root.Children {
			if c.Reward == reward {
				return c
			}
		}
		t.Fatalf("no child with reward %g", reward)
		return nil
	}

	t.Run("greedy", func(t *testing.T) {
		world, config := newFixture()
		engine, err := New(WithExplorationWeight(0), WithIterations(50))
		require.NoError(t, err)
		result, err := engine.Search(context.Background(), world, config)
		require.NoError(t, err)

		a := findByReward(result.TreeState, 1.0)
		b := findByReward(result.TreeState, 0.0)
		require.Greater(t, a.N, 10*b.N)
	})

	t.Run("exploratory", func(t *testing.T) {
		world, config := newFixture()
		engine, err := New(WithExplorationWeight(1e6), WithIterations(50))
		require.NoError(t, err)
		result, err := engine.Search(context.Background(), world, config)
		require.NoError(t, err)

		a := findByReward(result.TreeState, 1.0)
		b := findByReward(result.TreeState, 0.0)
		diff := a.N - b.N
		if diff < 0 {
			diff = -diff
		}
		require.LessOrEqual(t, diff, int64(1))
	})
}

// With fast rewards [0, 1, 0], simulate_strategy=max always picks index 1;
// random picks from all three indices; sample picks index 1 with probability 1.
func TestNamedSimulateChoice(t *testing.T) {
	fastRewards := []float64{0, 1, 0}

	t.Run("max", func(t *testing.T) {
		choice, ok := namedSimulateChoice("max", nil)
		require.True(t, ok)
		for i := 0; i < 10; i++ {
			require.Equal(t, 1, choice(fastRewards))
		}
	})

	t.Run("sample", func(t *testing.T) {
		engine, err := New(WithSimulateStrategy("sample"))
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			require.Equal(t, 1, engine.cfg.simulateChoice(fastRewards))
		}
	})

	t.Run("random", func(t *testing.T) {
		engine, err := New(WithSimulateStrategy("random"))
		require.NoError(t, err)
		seen := map[int]bool{}
		for i := 0; i < 200; i++ {
			seen[engine.cfg.simulateChoice(fastRewards)] = true
		}
		require.Len(t, seen, 3)
	})

	t.Run("unknown name rejected at construction", func(t *testing.T) {
		_, err := New(WithSimulateStrategy("bogus"))
		require.ErrorIs(t, err, ErrUnknownSimulateStrategy)
	})
}

// Environment errors propagate unchanged and abort the search.
func TestEngine_EnvironmentErrorAbortsSearch(t *testing.T) {
	boom := errInjected("boom")
	world := &graphWorld{root: "root", initErr: boom}
	config := &graphConfig{}

	engine, err := New(WithIterations(1))
	require.NoError(t, err)

	_, err = engine.Search(context.Background(), world, config)
	require.Error(t, err)
	require.ErrorIs(t, err, boom)
}

// A pre-cancelled context aborts the search before any iteration runs.
func TestEngine_ContextCancellation(t *testing.T) {
	world := &graphWorld{
		root:      "root",
		terminal:  map[string]bool{"A": true},
		actionsOf: map[string][]moveAction{"root": {{target: "A"}}},
	}
	config := &graphConfig{actionsOf: world.actionsOf, rewardOf: map[string]float64{"A": 1.0}}

	engine, err := New(WithIterations(3))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Search(ctx, world, config)
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}

// Dead-end outcomes are not errors: max_reward with no terminal path yields
// an absent terminal state and -Inf cum_reward.
func TestEngine_MaxRewardDeadEnd(t *testing.T) {
	engine, err := New(WithDepthLimit(2), WithIterations(3))
	require.NoError(t, err)
	res, err := engine.Search(context.Background(), chainWorld{}, chainConfig{stepReward: 0.1})
	require.NoError(t, err)
	require.Nil(t, res.TerminalState)
	require.True(t, math.IsInf(res.CumReward, -1))
	require.Nil(t, res.TraceOfNodes)
}

type errInjected string

func (e errInjected) Error() string { return string(e) }
