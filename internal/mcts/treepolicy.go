package mcts

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// selectPath descends the tree from node by UCB1, appending every visited
// node to path, and stops when the current node has no initialized/non-empty
// children or is terminal-or-at-depth-limit. For each step taken it calls
// world_model.step as a side effect so an external environment (a browser, an
// HTTP session) tracks the selected trajectory; the returned state is
// discarded here, since authoritative state assignment happens in expand.
func (e *Engine) selectPath(ctx context.Context, node *Node) ([]*Node, error) {
	path := []*Node{node}
	for {
		cur := path[len(path)-1]
		if len(cur.Children) == 0 || e.isTerminalWithDepthLimit(cur) {
			return path, nil
		}
		next := e.uctSelect(cur)
		if _, _, err := e.world.Step(ctx, next.Parent.State, next.Action); err != nil {
			return nil, errors.Wrap(err, "mcts: world_model.step during select")
		}
		path = append(path, next)
		klog.V(2).Infof("mcts: select descended to node %d at depth %d", next.ID, next.Depth)
	}
}

// uct computes the UCB1 value of a child given its parent's visit count.
func (e *Engine) uct(child *Node) float64 {
	return child.Q() + e.cfg.wExp*math.Sqrt(math.Log(float64(child.Parent.N))/(1+float64(child.N)))
}

// uctSelect returns the first never-visited child in insertion order if one
// exists, guaranteeing every child is sampled once before UCB1 comparisons
// apply to it; otherwise it returns the argmax-UCT child.
func (e *Engine) uctSelect(node *Node) *Node {
	for _, child := range node.Children {
		if child.N == 0 {
			return child
		}
	}
	best := node.Children[0]
	bestUCT := e.uct(best)
	for _, child := range node.Children[1:] {
		if u := e.uct(child); u > bestUCT {
			best, bestUCT = child, u
		}
	}
	return best
}

// expand resolves node's state/reward/terminality if not already resolved,
// then — unless node turns out terminal — enumerates its actions and creates
// one child placeholder per action, in the order SearchConfig.GetActions
// returned them.
func (e *Engine) expand(ctx context.Context, node *Node) error {
	klog.V(2).Infof("mcts: expanding node %d", node.ID)
	if node.unresolved() {
		state, aux, err := e.world.Step(ctx, node.Parent.State, node.Action)
		if err != nil {
			return errors.Wrap(err, "mcts: world_model.step during expand")
		}
		node.State = state

		reward, details, err := e.config.Reward(ctx, node.Parent.State, node.Action, node.FastRewardDetails, aux)
		if err != nil {
			return errors.Wrap(err, "mcts: search_config.reward")
		}
		node.Reward = reward
		node.RewardDetails = details

		isTerminal, err := e.world.IsTerminal(ctx, state)
		if err != nil {
			return errors.Wrap(err, "mcts: world_model.is_terminal")
		}
		node.IsTerminal = isTerminal
	}

	if node.IsTerminal {
		return nil
	}

	actions, err := e.config.GetActions(ctx, node.State)
	if err != nil {
		return errors.Wrap(err, "mcts: search_config.get_actions")
	}

	children := make([]*Node, 0, len(actions))
	for _, action := range actions {
		fastReward, fastRewardDetails, err := e.config.FastReward(node.State, action)
		if err != nil {
			return errors.Wrap(err, "mcts: search_config.fast_reward")
		}
		child := newNode(action, node, fastReward, fastRewardDetails, e.cfg.calcQ)
		child.ID = e.newID()
		children = append(children, child)
	}
	node.Children = children
	return nil
}
