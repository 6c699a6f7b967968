package mcts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func answerOf(state State) any {
	s, ok := state.(string)
	if !ok {
		return nil
	}
	return s
}

func buildAnswerTree() *Node {
	root := newRoot("root", Mean)
	x := newNode(moveAction{"x"}, root, 0, nil, Mean)
	x.State, x.IsTerminal, x.Reward, x.Depth = "x", true, 0.8, 1
	y := newNode(moveAction{"y"}, root, 0, nil, Mean)
	y.State, y.IsTerminal, y.Reward, y.Depth = "y", true, 0.2, 1
	root.Children = []*Node{x, y}
	return root
}

// Two terminal answers x (reward 0.8) and y (reward 0.2); weight_policy=edge
// credits each answer by its own terminal reward, so x wins.
func TestAggregate_EdgePolicy(t *testing.T) {
	agg, err := NewAggregation(answerOf, WeightEdge)
	require.NoError(t, err)

	got := agg.Aggregate(buildAnswerTree())
	require.Equal(t, "x", got)
}

// edge_inverse_depth divides the credited reward by the answer's (mean) depth
// before comparing; with both answers at the same depth, the ranking is
// unchanged from edge.
func TestAggregate_EdgeInverseDepthPolicy(t *testing.T) {
	agg, err := NewAggregation(answerOf, WeightEdgeInverseDepth)
	require.NoError(t, err)

	got := agg.Aggregate(buildAnswerTree())
	require.Equal(t, "x", got)
}

// uniform credits one point per occurrence regardless of reward, so a
// repeated lower-reward answer can outrank a single higher-reward one.
func TestAggregate_UniformPolicyCountsOccurrences(t *testing.T) {
	root := newRoot("root", Mean)
	y1 := newNode(moveAction{"y1"}, root, 0, nil, Mean)
	y1.State, y1.IsTerminal, y1.Reward, y1.Depth = "y", true, 0.2, 1
	y2 := newNode(moveAction{"y2"}, root, 0, nil, Mean)
	y2.State, y2.IsTerminal, y2.Reward, y2.Depth = "y", true, 0.2, 1
	x := newNode(moveAction{"x"}, root, 0, nil, Mean)
	x.State, x.IsTerminal, x.Reward, x.Depth = "x", true, 0.8, 1
	root.Children = []*Node{y1, y2, x}

	agg, err := NewAggregation(answerOf, WeightUniform)
	require.NoError(t, err)

	got := agg.Aggregate(root)
	require.Equal(t, "y", got)
}

// A tree with no terminal nodes (or where retrieveAnswer returns nil
// everywhere) produces an empty credit map, a dead end reported as nil.
func TestAggregate_NoAnswersIsNil(t *testing.T) {
	root := newRoot("root", Mean)
	child := newNode(moveAction{"c"}, root, 0, nil, Mean)
	child.State = "c" // resolved, not terminal, never expanded further
	root.Children = []*Node{child}

	agg, err := NewAggregation(answerOf, WeightEdge)
	require.NoError(t, err)

	require.Nil(t, agg.Aggregate(root))
}

// An unresolved child contributes nothing and is not descended into.
func TestAggregate_SkipsUnresolvedNodes(t *testing.T) {
	root := newRoot("root", Mean)
	pending := newNode(moveAction{"pending"}, root, 0.5, nil, Mean)
	root.Children = []*Node{pending}

	agg, err := NewAggregation(answerOf, WeightEdge)
	require.NoError(t, err)

	require.Nil(t, agg.Aggregate(root))
}

func TestNewAggregation_RejectsUnknownWeightPolicy(t *testing.T) {
	_, err := NewAggregation(answerOf, WeightPolicy("bogus"))
	require.ErrorIs(t, err, ErrUnknownWeightPolicy)
}
