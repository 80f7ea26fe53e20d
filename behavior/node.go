// Package behavior implements a small behavior tree: a shared blackboard,
// composite nodes and a condition-gated decorator. State values are those of
// github.com/joeycumines/go-behaviortree, so trees can be mixed with that
// library's nodes.
package behavior

import bt "github.com/joeycumines/go-behaviortree"

// State is the result of evaluating a node.
type State = bt.Status

const (
	Running = bt.Running
	Success = bt.Success
	Failure = bt.Failure
)

// Node is anything that can be evaluated once per tick.
type Node interface {
	Evaluate() State
}

// Func adapts a plain function to Node.
type Func func() State

func (f Func) Evaluate() State {
	if f == nil {
		return Failure
	}
	return f()
}

// Inverter swaps Success and Failure. Running passes through.
type Inverter struct {
	Child Node
}

func NewInverter(child Node) *Inverter {
	return &Inverter{Child: child}
}

func (n *Inverter) Evaluate() State {
	if n.Child == nil {
		return Success
	}
	switch n.Child.Evaluate() {
	case Success:
		return Failure
	case Running:
		return Running
	default:
		return Success
	}
}
