package mcts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quietloop/mctsagent/internal/parameters"
)

func TestOptionsFromParams_Defaults(t *testing.T) {
	params := parameters.Params{}
	opts, err := OptionsFromParams(params)
	require.NoError(t, err)

	engine, err := New(opts...)
	require.NoError(t, err)
	require.Equal(t, 1.0, engine.cfg.wExp)
	require.Equal(t, 5, engine.cfg.depthLimit)
	require.Equal(t, 10, engine.cfg.nIters)
	require.Equal(t, OutputMaxReward, engine.cfg.outputStrategy)
}

func TestOptionsFromParams_OverridesAndConsumesKeys(t *testing.T) {
	params := parameters.NewFromConfigString("w_exp=2.5,depth_limit=8,n_iters=50,output_strategy=follow_max")
	opts, err := OptionsFromParams(params)
	require.NoError(t, err)
	require.Empty(t, params, "recognized keys should be popped")

	engine, err := New(opts...)
	require.NoError(t, err)
	require.Equal(t, 2.5, engine.cfg.wExp)
	require.Equal(t, 8, engine.cfg.depthLimit)
	require.Equal(t, 50, engine.cfg.nIters)
	require.Equal(t, OutputFollowMax, engine.cfg.outputStrategy)
}

func TestOptionsFromParams_UnknownOutputStrategyRejected(t *testing.T) {
	params := parameters.Params{"output_strategy": "bogus"}
	opts, err := OptionsFromParams(params)
	require.NoError(t, err) // parsing the string itself never fails

	_, err = New(opts...)
	require.ErrorIs(t, err, ErrUnknownOutputStrategy)
}
