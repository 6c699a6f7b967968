package mcts

import (
	"context"
	"math"
)

// applyOutputStrategy populates e.outputIter/e.outputCumReward for the
// strategies that are computed post-hoc over the final tree (max_reward,
// follow_max, max_visit). The streaming strategies (max_iter, last_iter,
// last_terminal_iter) are already populated by iterate as the search ran.
func (e *Engine) applyOutputStrategy(ctx context.Context) error {
	switch e.cfg.outputStrategy {
	case OutputMaxReward:
		cumReward, path := e.dfsMaxReward([]*Node{e.root})
		if cumReward == math.Inf(-1) {
			e.outputIter = nil
			e.outputCumReward = math.Inf(-1)
			return nil
		}
		e.outputIter = path
		e.outputCumReward = cumReward
	case OutputFollowMax:
		e.followMax()
	case OutputMaxVisit:
		e.maxVisit()
	}
	return nil
}

// dfsMaxReward walks resolved nodes (state != unresolved) depth-first from
// path's tail, returning the maximum cum_reward over all root-to-terminal
// paths and the path achieving it. A sub-tree with no resolved children (or
// whose tail isn't terminal and has no children at all) contributes -Inf.
func (e *Engine) dfsMaxReward(path []*Node) (float64, []*Node) {
	cur := path[len(path)-1]
	if cur.IsTerminal {
		rewards := make([]float64, len(path)-1)
		for i, n := range path[1:] {
			rewards[i] = n.Reward
		}
		return e.cfg.cumReward(rewards), path
	}
	if cur.Children == nil {
		return math.Inf(-1), path
	}
	bestReward := math.Inf(-1)
	var bestPath []*Node
	for _, child := range cur.Children {
		if child.unresolved() {
			continue
		}
		reward, candidate := e.dfsMaxReward(append(append([]*Node{}, path...), child))
		if reward > bestReward {
			bestReward, bestPath = reward, candidate
		}
	}
	return bestReward, bestPath
}

// followMax greedily descends from root, at each step choosing the resolved
// child with maximum Reward, stopping at a terminal node or one with no
// resolved children. It may leave e.outputIter ending on a non-terminal node.
//
// The cum_reward reducer is applied to the rewards of the followed path
// excluding the root, same as max_reward and max_visit.
func (e *Engine) followMax() {
	path := []*Node{e.root}
	cur := e.root
	for {
		if cur.IsTerminal {
			break
		}
		var best *Node
		for _, child := range cur.Children {
			if child.unresolved() {
				continue
			}
			if best == nil || child.Reward > best.Reward {
				best = child
			}
		}
		if best == nil {
			break
		}
		path = append(path, best)
		cur = best
	}
	e.outputIter = path
	rewards := make([]float64, len(path)-1)
	for i, n := range path[1:] {
		rewards[i] = n.Reward
	}
	e.outputCumReward = e.cfg.cumReward(rewards)
}

// maxVisit finds the terminal node with the highest N across the whole tree.
// Ties are broken by earliest creation id (lowest ID wins), an explicit,
// documented choice for an otherwise-unspecified tiebreak.
func (e *Engine) maxVisit() {
	var best *Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.IsTerminal {
			if best == nil || n.N > best.N || (n.N == best.N && n.ID < best.ID) {
				best = n
			}
			return
		}
		for _, c := range n.Children {
			if !c.unresolved() {
				walk(c)
			}
		}
	}
	walk(e.root)
	if best == nil {
		e.outputIter = nil
		e.outputCumReward = math.Inf(-1)
		return
	}
	path := pathTo(best)
	e.outputIter = path
	rewards := make([]float64, len(path)-1)
	for i, n := range path[1:] {
		rewards[i] = n.Reward
	}
	e.outputCumReward = e.cfg.cumReward(rewards)
}

// pathTo reconstructs the root-to-n path by following Parent back-references.
func pathTo(n *Node) []*Node {
	var reversed []*Node
	for cur := n; cur != nil; cur = cur.Parent {
		reversed = append(reversed, cur)
	}
	path := make([]*Node, len(reversed))
	for i, n := range reversed {
		path[len(reversed)-1-i] = n
	}
	return path
}
