package mcts

// unresolved sentinel: a freshly expanded child has no State yet, only an
// Action and a fast-reward prior. expand resolves it on first visit.
type unresolvedState struct{}

// Node is a vertex of the search tree. Fields are exported so a node_visualizer
// callback (see DefaultNodeVisualizer) and tests can read them directly; the
// engine is the only code that mutates them.
type Node struct {
	ID int64

	// State is nil until the node has been resolved by expand. It is never nil
	// for the root, which is resolved immediately by Engine.Search.
	State State

	// Action is the move taken from Parent to reach this node. Nil at the root.
	Action Action

	// Parent is a non-owning back-reference; nil at the root.
	Parent *Node

	// Children is nil until this node has been expanded at least once, and
	// empty once the node is known terminal.
	Children []*Node

	Depth int

	IsTerminal bool

	FastReward        float64
	FastRewardDetails Details

	// Reward is the realized one-step reward, valid once State is resolved.
	// It reads as FastReward until expand overwrites it.
	Reward        float64
	RewardDetails Details

	N int64
	q float64

	// calcQ is retained for diagnostic/history purposes only; the canonical Q
	// update in backPropagate (defaultpolicy.go) is an incremental mean and
	// never calls calcQ. cumRewards accumulates the per-visit rewards calcQ
	// would reduce over, were a caller to use it.
	calcQ      func([]float64) float64
	cumRewards []float64
}

// newNode allocates a child placeholder: state is unresolved, fastReward is
// the prior supplied by SearchConfig.FastReward at creation time.
func newNode(action Action, parent *Node, fastReward float64, fastRewardDetails Details, calcQ func([]float64) float64) *Node {
	depth := 0
	if parent != nil {
		depth = parent.Depth + 1
	}
	return &Node{
		Action:            action,
		Parent:            parent,
		Depth:             depth,
		FastReward:        fastReward,
		FastRewardDetails: fastRewardDetails,
		Reward:            fastReward,
		calcQ:             calcQ,
	}
}

// newRoot builds the root node: its State is already resolved by the caller
// (Engine.Search), it has no action, parent, or fast reward prior.
func newRoot(state State, calcQ func([]float64) float64) *Node {
	return &Node{
		State: state,
		calcQ: calcQ,
	}
}

// unresolved reports whether this node's state has not yet been computed by expand.
func (n *Node) unresolved() bool {
	return n.State == nil
}

// Q is the running mean of rewards observed during back-propagations through
// this node; it reads as 0 until the first visit.
func (n *Node) Q() float64 {
	if n.N == 0 {
		return 0
	}
	return n.q
}

// setQ overwrites the running mean directly; used only by back_propagate.
func (n *Node) setQ(v float64) {
	n.q = v
}

// visit records one more back-propagation through this node with the given
// leaf reward, keeping cumRewards (for calcQ-based diagnostics) in sync.
func (n *Node) visit(reward float64) {
	n.cumRewards = append(n.cumRewards, reward)
}
