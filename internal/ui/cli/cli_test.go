package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quietloop/mctsagent/internal/mcts"
)

// oneShotWorld has a single action from root straight to a terminal, just
// enough to grow a tree worth printing.
type oneShotWorld struct{}

func (oneShotWorld) InitState(ctx context.Context) (mcts.State, error) { return "root", nil }

func (oneShotWorld) Step(ctx context.Context, state mcts.State, action mcts.Action) (mcts.State, mcts.Aux, error) {
	return "leaf", mcts.Aux{}, nil
}

func (oneShotWorld) IsTerminal(ctx context.Context, state mcts.State) (bool, error) {
	return state == "leaf", nil
}

type oneShotConfig struct{}

func (oneShotConfig) GetActions(ctx context.Context, state mcts.State) ([]mcts.Action, error) {
	if state == "leaf" {
		return nil, nil
	}
	return []mcts.Action{"advance"}, nil
}

func (oneShotConfig) FastReward(state mcts.State, action mcts.Action) (float64, mcts.Details, error) {
	return 1.0, nil, nil
}

func (oneShotConfig) Reward(ctx context.Context, state mcts.State, action mcts.Action, fastDetails mcts.Details, aux mcts.Aux) (float64, mcts.Details, error) {
	return 1.0, nil, nil
}

func TestPrintTree_IncludesEveryNodeID(t *testing.T) {
	engine, err := mcts.New(mcts.WithIterations(3), mcts.WithDepthLimit(2))
	require.NoError(t, err)

	result, err := engine.Search(context.Background(), oneShotWorld{}, oneShotConfig{})
	require.NoError(t, err)

	out := PrintTree(result.TreeState, mcts.DefaultNodeVisualizer, -1)
	require.Contains(t, out, "id=0")
	require.Contains(t, out, "id=1")
}

func TestFormatNode_FieldsAreCentered(t *testing.T) {
	n := &mcts.Node{ID: 3, Depth: 1}
	fields := mcts.DefaultNodeVisualizer(n)
	formatted := formatNode(n, func(*mcts.Node) map[string]any { return fields })
	require.True(t, strings.Contains(formatted, "id=3"))
	require.True(t, strings.HasPrefix(formatted, centerString("id=3", fieldWidth)))
}
