package mcts

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Result bundles everything a Search invocation produced: the chosen output
// trajectory (terminal_state, cum_reward, trace, trace_of_nodes), the whole
// tree (tree_state), and the optional per-iteration and aggregation extras.
type Result struct {
	// TerminalState is the last state of the chosen trajectory, or nil if the
	// output strategy found no suitable trajectory. That absence is a dead-end
	// outcome, not an error.
	TerminalState State

	// CumReward is, for max_reward, follow_max and max_visit, the reducer
	// applied to the chosen trajectory's per-step rewards (root excluded); for
	// max_iter, last_iter and last_terminal_iter, the root's Q as returned by
	// back-propagation in the iteration that recorded the trajectory. It is
	// math.Inf(-1) if TerminalState is nil.
	CumReward float64

	// Trace is (states along the chosen path, actions from the second node on).
	Trace Trace

	// TraceOfNodes is the chosen path itself, root included.
	TraceOfNodes []*Node

	// TreeState is the root of the whole search tree.
	TreeState *Node

	// TraceInEachIter holds one []*Node snapshot per iteration, only when
	// WithTraceInEachIteration(true) was set.
	TraceInEachIter []TraceNodes

	// TreeStateAfterEachIter holds, for each iteration recorded in
	// TraceInEachIter, a shallow copy of the root as it stood after that
	// iteration; the nodes below it are shared with the live tree.
	TreeStateAfterEachIter []*Node

	// AggregatedResult is the output of the configured Aggregator, if any.
	AggregatedResult any
}

// Trace is the chosen trajectory as parallel state and action slices.
type Trace struct {
	States  []State
	Actions []Action
}

// TraceNodes is a snapshot of the node path selected during one iteration.
type TraceNodes []*Node

// Engine runs MCTS searches. An Engine is not safe for concurrent use by
// multiple goroutines calling Search at once — each Search invocation resets
// the engine's node-id counter and root. Independent Engine values (e.g.
// cmd/mctsagent's bench subcommand, one Engine per goroutine) are safe.
type Engine struct {
	cfg *config

	world  WorldModel
	config SearchConfig

	root *Node

	nextID int64

	outputIter      []*Node
	outputCumReward float64

	traceInEachIter        []TraceNodes
	treeStateAfterEachIter []*Node
}

// New constructs an Engine from options, validating configuration eagerly so
// construction-time mistakes (an unknown OutputStrategy, an unknown named
// simulate strategy) are reported before any search runs.
func New(opts ...Option) (*Engine, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

func (e *Engine) newID() int64 {
	id := e.nextID
	e.nextID++
	return id
}

// Search runs the engine's configured number of iterations from a freshly
// initialized root, then applies the output strategy and, if configured, the
// aggregator. ctx bounds every collaborator call; cancelling it aborts the
// current iteration with ctx.Err() wrapped with call-site context.
func (e *Engine) Search(ctx context.Context, world WorldModel, searchConfig SearchConfig) (*Result, error) {
	e.nextID = 0
	e.world = world
	e.config = searchConfig
	e.outputCumReward = math.Inf(-1)
	e.outputIter = nil
	e.traceInEachIter = nil
	e.treeStateAfterEachIter = nil

	initState, err := world.InitState(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "mcts: world_model.init_state")
	}
	e.root = newRoot(initState, e.cfg.calcQ)
	e.root.ID = e.newID()

	if e.cfg.outputTraceInEachIter {
		e.traceInEachIter = make([]TraceNodes, 0, e.cfg.nIters)
		e.treeStateAfterEachIter = make([]*Node, 0, e.cfg.nIters)
	}

	start := time.Now()
	for iter := 0; iter < e.cfg.nIters; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "mcts: search aborted at iteration %d", iter)
		}
		if _, err := e.iterate(ctx, e.root); err != nil {
			return nil, errors.Wrapf(err, "mcts: iteration %d", iter)
		}
	}
	if klog.V(1).Enabled() {
		elapsed := time.Since(start)
		var perSec float64
		if elapsed > 0 {
			perSec = float64(e.cfg.nIters) / elapsed.Seconds()
		}
		klog.V(1).Infof("mcts: search ran %d iterations in %s (%.1f iterations/sec)",
			e.cfg.nIters, elapsed, perSec)
	}

	if err := e.applyOutputStrategy(ctx); err != nil {
		return nil, err
	}

	result := e.buildResult()
	if e.cfg.aggregator != nil {
		result.AggregatedResult = e.cfg.aggregator.Aggregate(result.TreeState)
	}
	return result, nil
}

// iterate executes exactly one MCTS iteration starting at node and returns
// the selected (and possibly rollout-extended) path.
func (e *Engine) iterate(ctx context.Context, node *Node) ([]*Node, error) {
	path, err := e.selectPath(ctx, node)
	if err != nil {
		return nil, err
	}

	tail := path[len(path)-1]
	if !e.isTerminalWithDepthLimit(tail) {
		if err := e.expand(ctx, tail); err != nil {
			return nil, err
		}
		path, err = e.simulate(ctx, path)
		if err != nil {
			return nil, err
		}
	}

	cumReward, err := e.backPropagate(path)
	if err != nil {
		return nil, err
	}

	tail = path[len(path)-1]
	switch e.cfg.outputStrategy {
	case OutputMaxIter:
		if tail.IsTerminal && cumReward > e.outputCumReward {
			e.outputCumReward = cumReward
			e.outputIter = path
		}
	case OutputLastIter:
		e.outputCumReward = cumReward
		e.outputIter = path
	case OutputLastTerminalIter:
		if tail.IsTerminal {
			e.outputCumReward = cumReward
			e.outputIter = path
		}
	}

	if e.cfg.outputTraceInEachIter {
		snapshot := make(TraceNodes, len(path))
		copy(snapshot, path)
		e.traceInEachIter = append(e.traceInEachIter, snapshot)
		rootSnapshot := *e.root
		e.treeStateAfterEachIter = append(e.treeStateAfterEachIter, &rootSnapshot)
	}

	klog.V(2).Infof("mcts: iteration done, path depth=%d cum_reward=%g", tail.Depth, cumReward)
	return path, nil
}

// isTerminalWithDepthLimit returns is_terminal OR depth >= depth_limit.
func (e *Engine) isTerminalWithDepthLimit(n *Node) bool {
	return n.IsTerminal || n.Depth >= e.cfg.depthLimit
}

func (e *Engine) buildResult() *Result {
	result := &Result{
		TreeState: e.root,
		CumReward: e.outputCumReward,
	}
	if e.cfg.outputTraceInEachIter {
		result.TraceInEachIter = e.traceInEachIter
		result.TreeStateAfterEachIter = e.treeStateAfterEachIter
	}
	if e.outputIter == nil {
		result.CumReward = math.Inf(-1)
		return result
	}
	result.TraceOfNodes = e.outputIter
	result.TerminalState = e.outputIter[len(e.outputIter)-1].State

	states := make([]State, len(e.outputIter))
	for i, n := range e.outputIter {
		states[i] = n.State
	}
	actions := make([]Action, 0, len(e.outputIter)-1)
	for _, n := range e.outputIter[1:] {
		actions = append(actions, n.Action)
	}
	result.Trace = Trace{States: states, Actions: actions}
	return result
}
