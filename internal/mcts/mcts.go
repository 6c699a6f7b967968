// Package mcts implements a generic Monte Carlo Tree Search engine that drives
// an agent exploring action trajectories produced by a pluggable WorldModel and
// scored by a pluggable SearchConfig.
//
// The engine grows a search tree from a root state, balances exploration and
// exploitation with UCB1, rolls out to a leaf with a configurable default
// policy, and back-propagates value statistics. It runs for a fixed number of
// iterations and then selects an output trajectory according to the chosen
// OutputStrategy. An optional Aggregator condenses the final tree into a
// single hashable answer.
//
// The engine itself never touches a network, a browser, or a file: it only
// calls into the WorldModel and SearchConfig it is given. See the sibling
// internal/webworld package for a concrete collaborator pair that drives a
// web-navigation agent.
package mcts

import (
	"context"
)

// State is whatever the WorldModel says it is: a board position, a web page,
// a partial answer. The engine never inspects it.
type State any

// Action is whatever the SearchConfig enumerates as a legal move from a State.
type Action any

// Details carries diagnostic/auxiliary data alongside a reward, returned
// from FastReward and Reward respectively.
type Details map[string]any

// Aux is the opaque side-channel a WorldModel may hand back from Step, merged
// into the SearchConfig.Reward call so the real reward needn't recompute
// anything the step already derived.
type Aux map[string]any

// WorldModel produces States, advances them by Action, and decides terminality.
// Every method may block; all take a context.Context so a caller can bound the
// whole search with a deadline (see Engine.Search).
type WorldModel interface {
	// InitState returns the root state of a new search.
	InitState(ctx context.Context) (State, error)

	// Step advances state by applying action, returning the resulting state and
	// an opaque aux payload that SearchConfig.Reward may consume.
	Step(ctx context.Context, state State, action Action) (next State, aux Aux, err error)

	// IsTerminal reports whether state has no further actions worth exploring.
	IsTerminal(ctx context.Context, state State) (bool, error)
}

// SearchConfig enumerates actions and scores them, both cheaply (FastReward,
// used as a UCT/rollout prior before a child's state is even known) and
// precisely (Reward, computed once the child's state is resolved).
type SearchConfig interface {
	// GetActions enumerates the legal actions from state. Order defines the
	// order children are created in, which in turn defines the unvisited-first
	// selection order.
	GetActions(ctx context.Context, state State) ([]Action, error)

	// FastReward is a synchronous prior estimate of taking action from state,
	// computed before the resulting state is known. It must not block.
	FastReward(state State, action Action) (float64, Details, error)

	// Reward computes the realized one-step reward of having taken action from
	// state, now that the resulting state is known. fastRewardDetails is the
	// Details returned earlier by FastReward for the same (state, action); aux
	// is whatever WorldModel.Step handed back for the same transition.
	Reward(ctx context.Context, state State, action Action, fastRewardDetails Details, aux Aux) (float64, Details, error)
}
