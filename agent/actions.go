package agent

import (
	"math/rand/v2"

	"github.com/milk9111/sentinel/behavior"
	"github.com/milk9111/sentinel/common"
)

// SelectNextTarget advances through the pose list stored under TargetsKey
// and writes the selection to Key. It always succeeds.
type SelectNextTarget struct {
	Key        string
	TargetsKey string
	bb         *behavior.Blackboard
	index      int
}

func NewSelectNextTarget(bb *behavior.Blackboard, key string) *SelectNextTarget {
	return &SelectNextTarget{Key: key, TargetsKey: KeyTargets, bb: bb}
}

func (a *SelectNextTarget) Evaluate() behavior.State {
	targets := behavior.Get[[]*common.Pose](a.bb, a.TargetsKey)
	if len(targets) == 0 {
		return behavior.Success
	}
	a.index++
	if a.index >= len(targets) {
		a.index = 0
	}
	a.bb.Set(a.Key, targets[a.index])
	return behavior.Success
}

// Index is the position of the current selection.
func (a *SelectNextTarget) Index() int {
	return a.index
}

// Wait fails until a randomly drawn delay in [Min, Max) has elapsed, then
// succeeds once and draws a new delay.
type Wait struct {
	Min, Max  float64
	clock     common.Clock
	rng       *rand.Rand
	remaining float64
}

func NewWait(clock common.Clock, rng *rand.Rand, minDelay, maxDelay float64) *Wait {
	w := &Wait{Min: minDelay, Max: maxDelay, clock: clock, rng: rng}
	w.remaining = w.sample()
	return w
}

func (a *Wait) sample() float64 {
	if a.Max <= a.Min || a.rng == nil {
		return a.Min
	}
	return a.Min + a.rng.Float64()*(a.Max-a.Min)
}

func (a *Wait) Evaluate() behavior.State {
	a.remaining -= a.clock.DeltaTime()
	if a.remaining <= 0 {
		a.remaining = a.sample()
		return behavior.Success
	}
	return behavior.Failure
}

// Remaining is the time left on the current countdown.
func (a *Wait) Remaining() float64 {
	return a.remaining
}

// ResetFlags clears every listed boolean flag and succeeds.
type ResetFlags struct {
	Keys []string
	bb   *behavior.Blackboard
}

func NewResetFlags(bb *behavior.Blackboard, keys ...string) *ResetFlags {
	return &ResetFlags{Keys: keys, bb: bb}
}

func (a *ResetFlags) Evaluate() behavior.State {
	for _, k := range a.Keys {
		a.bb.Set(k, false)
	}
	return behavior.Success
}
