package mcts

import (
	"math/rand"

	"github.com/pkg/errors"
)

// CumReward reduces the per-step rewards of a trajectory (root excluded) to a
// single scalar. The default is Sum.
type CumReward func(rewards []float64) float64

// CalcQ reduces a node's history of per-visit rewards to a Q estimate. Kept
// for diagnostic/history purposes; the canonical UCT path always uses the
// node's incremental-mean Q (see back_propagate), never CalcQ.
type CalcQ func(rewards []float64) float64

// SimulateChoice picks an index into a list of fast rewards during rollout.
type SimulateChoice func(fastRewards []float64) int

// NodeVisualizer renders a node for external diagnostics (logging, the
// cmd/mctsagent tree printer).
type NodeVisualizer func(n *Node) map[string]any

// OutputStrategy selects how the driver picks the final trajectory once all
// iterations have run. See result.go for the semantics of each value.
type OutputStrategy string

const (
	OutputMaxReward        OutputStrategy = "max_reward"
	OutputFollowMax        OutputStrategy = "follow_max"
	OutputMaxVisit         OutputStrategy = "max_visit"
	OutputMaxIter          OutputStrategy = "max_iter"
	OutputLastIter         OutputStrategy = "last_iter"
	OutputLastTerminalIter OutputStrategy = "last_terminal_iter"
)

func (s OutputStrategy) valid() bool {
	switch s {
	case OutputMaxReward, OutputFollowMax, OutputMaxVisit, OutputMaxIter, OutputLastIter, OutputLastTerminalIter:
		return true
	default:
		return false
	}
}

// Sum is the default CumReward: the total of the per-step rewards.
func Sum(rewards []float64) float64 {
	var total float64
	for _, r := range rewards {
		total += r
	}
	return total
}

// Mean is the default CalcQ: the arithmetic mean of per-visit rewards.
func Mean(rewards []float64) float64 {
	if len(rewards) == 0 {
		return 0
	}
	return Sum(rewards) / float64(len(rewards))
}

func argmax(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}

// namedSimulateChoice resolves the three built-in named rollout strategies.
// "sample" performs a categorical sample with probabilities equal to the
// fast-reward vector; the caller is responsible for the non-negativity and
// normalization that implies.
func namedSimulateChoice(name string, rng *rand.Rand) (SimulateChoice, bool) {
	switch name {
	case "max":
		return func(xs []float64) int { return argmax(xs) }, true
	case "sample":
		return func(xs []float64) int {
			r := rng.Float64()
			var cum float64
			for i, x := range xs {
				cum += x
				if r <= cum {
					return i
				}
			}
			return len(xs) - 1
		}, true
	case "random":
		return func(xs []float64) int { return rng.Intn(len(xs)) }, true
	default:
		return nil, false
	}
}

// DefaultNodeVisualizer renders the fields a caller inspecting a node would
// want for diagnostics.
func DefaultNodeVisualizer(n *Node) map[string]any {
	return map[string]any{
		"id":          n.ID,
		"depth":       n.Depth,
		"action":      n.Action,
		"n":           n.N,
		"q":           n.Q(),
		"is_terminal": n.IsTerminal,
		"fast_reward": n.FastReward,
		"reward":      n.Reward,
	}
}

// config holds the resolved, validated set of Engine options.
type config struct {
	wExp                  float64
	depthLimit            int
	nIters                int
	cumReward             CumReward
	calcQ                 CalcQ
	simulateChoice        SimulateChoice
	outputStrategy        OutputStrategy
	uctWithFastRewardHint bool
	outputTraceInEachIter bool
	aggregator            *Aggregation
	nodeVisualizer        NodeVisualizer
	rng                   *rand.Rand
}

func defaultConfig() *config {
	return &config{
		wExp:                  1.0,
		depthLimit:            5,
		nIters:                10,
		cumReward:             Sum,
		calcQ:                 Mean,
		simulateChoice:        nil, // resolved to "random" below once rng is known
		outputStrategy:        OutputMaxReward,
		uctWithFastRewardHint: true,
		nodeVisualizer:        DefaultNodeVisualizer,
		rng:                   rand.New(rand.NewSource(1)),
	}
}

// Option configures an Engine at construction time. Options are applied in
// order, so a later WithSimulateStrategy overrides an earlier one.
type Option func(*config) error

// WithExplorationWeight sets w_exp, the exploration coefficient in the UCT
// formula. Default 1.0.
func WithExplorationWeight(w float64) Option {
	return func(c *config) error {
		c.wExp = w
		return nil
	}
}

// WithDepthLimit sets the hard cap on path length. Default 5.
func WithDepthLimit(limit int) Option {
	return func(c *config) error {
		if limit <= 0 {
			return errors.Wrapf(ErrInvalidDepthLimit, "got %d", limit)
		}
		c.depthLimit = limit
		return nil
	}
}

// WithIterations sets n_iters, the number of iterate() calls per Search.
// Default 10.
func WithIterations(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return errors.Wrapf(ErrInvalidIterations, "got %d", n)
		}
		c.nIters = n
		return nil
	}
}

// WithCumReward overrides the reducer from per-step rewards to a scalar.
// Default Sum.
func WithCumReward(fn CumReward) Option {
	return func(c *config) error {
		c.cumReward = fn
		return nil
	}
}

// WithCalcQ overrides the diagnostic Q-history reducer. Default Mean. Note
// this never affects the canonical incremental-mean Q used during search.
func WithCalcQ(fn CalcQ) Option {
	return func(c *config) error {
		c.calcQ = fn
		return nil
	}
}

// WithSimulateStrategy selects the rollout policy by name ("max", "sample",
// "random"). A custom SimulateChoice is supplied with WithSimulateChoiceFunc.
func WithSimulateStrategy(name string) Option {
	return func(c *config) error {
		choice, ok := namedSimulateChoice(name, c.rng)
		if !ok {
			return errors.Wrapf(ErrUnknownSimulateStrategy, "%q", name)
		}
		c.simulateChoice = choice
		return nil
	}
}

// WithSimulateChoiceFunc supplies a custom rollout policy directly.
func WithSimulateChoiceFunc(fn SimulateChoice) Option {
	return func(c *config) error {
		c.simulateChoice = fn
		return nil
	}
}

// WithOutputStrategy selects how the final trajectory is chosen. Default
// OutputMaxReward.
func WithOutputStrategy(strategy OutputStrategy) Option {
	return func(c *config) error {
		if !strategy.valid() {
			return errors.Wrapf(ErrUnknownOutputStrategy, "%q", string(strategy))
		}
		c.outputStrategy = strategy
		return nil
	}
}

// WithUCTFastRewardHint records uct_with_fast_reward for diagnostic and
// compatibility purposes only. The canonical selection rule always visits
// unvisited children first regardless of this flag; it is never consulted by
// uctSelect.
func WithUCTFastRewardHint(v bool) Option {
	return func(c *config) error {
		c.uctWithFastRewardHint = v
		return nil
	}
}

// WithTraceInEachIteration enables accumulation of a per-iteration snapshot
// of the selected path and a shallow copy of the root, in Result.
func WithTraceInEachIteration(v bool) Option {
	return func(c *config) error {
		c.outputTraceInEachIter = v
		return nil
	}
}

// WithAggregator attaches an answer-aggregation pass run after the search
// completes.
func WithAggregator(agg *Aggregation) Option {
	return func(c *config) error {
		c.aggregator = agg
		return nil
	}
}

// WithNodeVisualizer overrides how nodes are rendered for diagnostics.
func WithNodeVisualizer(fn NodeVisualizer) Option {
	return func(c *config) error {
		c.nodeVisualizer = fn
		return nil
	}
}

// WithRandSource overrides the source of randomness used by the "sample" and
// "random" simulate strategies, for reproducible tests. It applies to the
// default strategy and to one selected by a later WithSimulateStrategy; a
// strategy selected by an earlier WithSimulateStrategy keeps the source it
// was built with.
func WithRandSource(rng *rand.Rand) Option {
	return func(c *config) error {
		c.rng = rng
		return nil
	}
}

func newConfig(opts []Option) (*config, error) {
	c := defaultConfig()
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.simulateChoice == nil {
		choice, _ := namedSimulateChoice("random", c.rng)
		c.simulateChoice = choice
	}
	return c, nil
}
