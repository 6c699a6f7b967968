package mcts

import (
	"context"

	"k8s.io/klog/v2"

	"github.com/quietloop/mctsagent/internal/generics"
)

// simulate extends path from its current tail down to a terminal,
// depth-limited, or dead-end leaf, expanding the tail first if its state is
// still unresolved. At each expanded-but-not-terminal frontier it picks the
// next child by the configured SimulateChoice over the children's fast
// rewards — a lightweight rollout policy, never the realized Reward.
func (e *Engine) simulate(ctx context.Context, path []*Node) ([]*Node, error) {
	klog.V(2).Infof("mcts: simulating from node %d", path[len(path)-1].ID)
	for {
		node := path[len(path)-1]
		if node.unresolved() {
			if err := e.expand(ctx, node); err != nil {
				return nil, err
			}
		}
		if e.isTerminalWithDepthLimit(node) || len(node.Children) == 0 {
			return path, nil
		}
		fastRewards := generics.SliceMap(node.Children, func(c *Node) float64 { return c.FastReward })
		next := node.Children[e.cfg.simulateChoice(fastRewards)]
		path = append(path, next)
	}
}

// backPropagate credits every ancestor of the leaf with the *leaf's* reward
// (not a path-sum), updating each node's incremental-mean Q and incrementing
// its N, from leaf to root. It returns the root's updated Q.
func (e *Engine) backPropagate(path []*Node) (float64, error) {
	reward := path[len(path)-1].Reward
	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		n.visit(reward)
		n.setQ((n.Q()*float64(n.N) + reward) / float64(n.N+1))
		n.N++
	}
	return path[0].Q(), nil
}
