package mcts

import "github.com/pkg/errors"

// Configuration errors, returned by New when an option is self-contradictory.
// Check with errors.Is; pkg/errors preserves Unwrap so the standard library's
// errors.Is/As work against values built with errors.New/Wrap here.
var (
	// ErrUnknownOutputStrategy is returned when OutputStrategy names a strategy
	// not in {max_reward, follow_max, max_visit, max_iter, last_iter, last_terminal_iter}.
	ErrUnknownOutputStrategy = errors.New("mcts: unknown output strategy")

	// ErrUnknownSimulateStrategy is returned when SimulateStrategy names a
	// strategy not in {max, sample, random} and is not a callable.
	ErrUnknownSimulateStrategy = errors.New("mcts: unknown simulate strategy")

	// ErrUnknownWeightPolicy is returned by NewAggregation when weightPolicy is
	// not in {edge, edge_inverse_depth, uniform}.
	ErrUnknownWeightPolicy = errors.New("mcts: unknown aggregator weight policy")

	// ErrInvalidDepthLimit is returned when DepthLimit <= 0: a non-positive
	// depth limit would make select stop at the root before an action is ever
	// taken, so back_propagate would read the root's never-computed Reward.
	ErrInvalidDepthLimit = errors.New("mcts: depth limit must be positive")

	// ErrInvalidIterations is returned when NIters <= 0.
	ErrInvalidIterations = errors.New("mcts: n_iters must be positive")
)
