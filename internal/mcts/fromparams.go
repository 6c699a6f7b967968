package mcts

import (
	"github.com/quietloop/mctsagent/internal/parameters"
)

// OptionsFromParams parses the subset of Engine options representable as
// plain strings out of params — a "key=value,key2=value2" config string
// typically sourced from a CLI flag — consuming each recognized key with
// parameters.PopParamOr. Callable
// options (CumReward, CalcQ, a custom SimulateChoice, Aggregator,
// NodeVisualizer) have no string form and must be supplied as separate
// Options by the caller.
func OptionsFromParams(params parameters.Params) ([]Option, error) {
	var opts []Option

	wExp, err := parameters.PopParamOr(params, "w_exp", 1.0)
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithExplorationWeight(wExp))

	depthLimit, err := parameters.PopParamOr(params, "depth_limit", 5)
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithDepthLimit(depthLimit))

	nIters, err := parameters.PopParamOr(params, "n_iters", 10)
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithIterations(nIters))

	simulateStrategy, err := parameters.PopParamOr(params, "simulate_strategy", "random")
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithSimulateStrategy(simulateStrategy))

	outputStrategy, err := parameters.PopParamOr(params, "output_strategy", string(OutputMaxReward))
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithOutputStrategy(OutputStrategy(outputStrategy)))

	uctWithFastReward, err := parameters.PopParamOr(params, "uct_with_fast_reward", true)
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithUCTFastRewardHint(uctWithFastReward))

	outputTraceInEachIter, err := parameters.PopParamOr(params, "output_trace_in_each_iter", false)
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithTraceInEachIteration(outputTraceInEachIter))

	return opts, nil
}
