package mcts

import (
	"github.com/pkg/errors"
)

// WeightPolicy selects how Aggregation credits an answer found at or under a
// node.
type WeightPolicy string

const (
	WeightEdge             WeightPolicy = "edge"
	WeightEdgeInverseDepth WeightPolicy = "edge_inverse_depth"
	WeightUniform          WeightPolicy = "uniform"
)

// RetrieveAnswer extracts a hashable answer from a terminal state, or nil if
// the state has none (in which case the node contributes nothing).
type RetrieveAnswer func(state State) any

// Aggregation collapses a finished search tree into a single hashable
// answer, crediting each distinct answer found under a node by that node's
// Reward (or a variant of it), then returning the highest-credited answer.
type Aggregation struct {
	retrieveAnswer RetrieveAnswer
	weightPolicy   WeightPolicy
}

// NewAggregation builds an Aggregation. weightPolicy must be one of
// WeightEdge, WeightEdgeInverseDepth, WeightUniform.
func NewAggregation(retrieveAnswer RetrieveAnswer, weightPolicy WeightPolicy) (*Aggregation, error) {
	switch weightPolicy {
	case WeightEdge, WeightEdgeInverseDepth, WeightUniform:
	default:
		return nil, errors.Wrapf(ErrUnknownWeightPolicy, "%q", string(weightPolicy))
	}
	return &Aggregation{retrieveAnswer: retrieveAnswer, weightPolicy: weightPolicy}, nil
}

// answerDepth records one occurrence of an answer at a given tree depth,
// surfaced from a subtree visit so an ancestor can credit it once per
// distinct answer (edge/edge_inverse_depth) while averaging its depths
// (edge_inverse_depth).
type answerDepth struct {
	answer any
	depth  int
}

// Aggregate walks tree, from its root, crediting every distinct answer
// reachable under a terminal node by the configured WeightPolicy, and
// returns the answer with the highest total credit, or nil if no node
// produced an answer.
func (a *Aggregation) Aggregate(tree *Node) any {
	credit := make(map[any]float64)

	var visit func(cur *Node) []answerDepth
	visit = func(cur *Node) []answerDepth {
		if cur.unresolved() {
			return nil
		}
		if cur.IsTerminal {
			answer := a.retrieveAnswer(cur.State)
			if answer == nil {
				return nil
			}
			switch a.weightPolicy {
			case WeightEdge:
				credit[answer] += cur.Reward
			case WeightEdgeInverseDepth:
				credit[answer] += cur.Reward / float64(cur.Depth)
			case WeightUniform:
				credit[answer] += 1.0
			}
			return []answerDepth{{answer: answer, depth: cur.Depth}}
		}

		depthsByAnswer := make(map[any][]int)
		var subtreeAnswers []answerDepth
		for _, child := range cur.Children {
			childInfo := visit(child)
			subtreeAnswers = append(subtreeAnswers, childInfo...)
			for _, ad := range childInfo {
				depthsByAnswer[ad.answer] = append(depthsByAnswer[ad.answer], ad.depth)
			}
		}
		for answer, depths := range depthsByAnswer {
			switch a.weightPolicy {
			case WeightEdge:
				credit[answer] += cur.Reward
			case WeightEdgeInverseDepth:
				credit[answer] += cur.Reward / meanInt(depths)
			case WeightUniform:
				// uniform credits only leaves.
			}
		}
		return subtreeAnswers
	}
	visit(tree)

	if len(credit) == 0 {
		return nil
	}
	return argmaxAnswer(credit)
}

func meanInt(xs []int) float64 {
	var sum int
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

// argmaxAnswer returns the key with the highest value in credit. Answer
// values are arbitrary and not always comparable, so a tie keeps whichever
// entry iteration happened to see first.
func argmaxAnswer(credit map[any]float64) any {
	type scored struct {
		answer any
		score  float64
	}
	entries := make([]scored, 0, len(credit))
	for k, v := range credit {
		entries = append(entries, scored{k, v})
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if e.score > best.score {
			best = e
		}
	}
	return best.answer
}
