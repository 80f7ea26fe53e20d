package behavior

import (
	"errors"

	bt "github.com/joeycumines/go-behaviortree"
)

var ErrNilNode = errors.New("behavior: nil node")

// ToTree exposes n as a go-behaviortree node so it can be ticked by
// bt.NewTicker or composed with bt.Sequence and friends.
func ToTree(n Node) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		if n == nil {
			return bt.Failure, ErrNilNode
		}
		return n.Evaluate(), nil
	})
}

// FromTree wraps a go-behaviortree node. A tick error is reported as Failure
// and kept for Err.
func FromTree(n bt.Node) *TreeNode {
	return &TreeNode{node: n}
}

type TreeNode struct {
	node bt.Node
	err  error
}

func (t *TreeNode) Evaluate() State {
	status, err := t.node.Tick()
	t.err = err
	if err != nil {
		return Failure
	}
	return status
}

// Err returns the error from the most recent tick.
func (t *TreeNode) Err() error {
	return t.err
}
