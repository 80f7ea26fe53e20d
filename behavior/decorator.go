package behavior

// DefaultRunningKey is the blackboard key WaitUntilConditionComplete uses
// when none is given.
const DefaultRunningKey = "isRunning"

// WaitUntilConditionComplete checks Condition once, then keeps evaluating
// Action on later ticks without re-checking until Action finishes. The armed
// flag lives in the blackboard under Key, so each instance needs its own key.
type WaitUntilConditionComplete struct {
	Condition Node
	Action    Node
	Key       string
	bb        *Blackboard
}

func NewWaitUntilConditionComplete(bb *Blackboard, condition, action Node, key string) *WaitUntilConditionComplete {
	if key == "" {
		key = DefaultRunningKey
	}
	if !bb.Contains(key) {
		bb.Set(key, false)
	}
	return &WaitUntilConditionComplete{
		Condition: condition,
		Action:    action,
		Key:       key,
		bb:        bb,
	}
}

// Armed reports whether Action is in progress.
func (d *WaitUntilConditionComplete) Armed() bool {
	return Get[bool](d.bb, d.Key)
}

func (d *WaitUntilConditionComplete) Evaluate() State {
	if !d.Armed() {
		if d.Condition.Evaluate() != Success {
			return Failure
		}
		d.bb.Set(d.Key, true)
	}
	state := d.Action.Evaluate()
	if state != Running {
		d.bb.Set(d.Key, false)
	}
	return state
}
