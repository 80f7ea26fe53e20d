package behavior

import (
	"errors"
	"testing"

	bt "github.com/joeycumines/go-behaviortree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stub returns scripted states and counts evaluations. Once the script runs
// out it repeats the last state.
type stub struct {
	script []State
	calls  int
}

func (s *stub) Evaluate() State {
	i := min(s.calls, len(s.script)-1)
	s.calls++
	return s.script[i]
}

func always(state State) *stub {
	return &stub{script: []State{state}}
}

func TestSequence(t *testing.T) {
	cases := []struct {
		name      string
		children  []State
		want      State
		evaluated int
	}{
		{"all_success", []State{Success, Success, Success}, Success, 3},
		{"stops_at_running", []State{Success, Running, Success}, Running, 2},
		{"stops_at_failure", []State{Failure, Success}, Failure, 1},
		{"empty", nil, Success, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			children, stubs := build(c.children)
			assert.Equal(t, c.want, NewSequence(children...).Evaluate())
			assert.Equal(t, c.evaluated, evaluated(stubs))
		})
	}
}

func TestSelector(t *testing.T) {
	cases := []struct {
		name      string
		children  []State
		want      State
		evaluated int
	}{
		{"all_failure", []State{Failure, Failure}, Failure, 2},
		{"stops_at_running", []State{Failure, Running, Success}, Running, 2},
		{"stops_at_success", []State{Success, Failure}, Success, 1},
		{"empty", nil, Failure, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			children, stubs := build(c.children)
			assert.Equal(t, c.want, NewSelector(children...).Evaluate())
			assert.Equal(t, c.evaluated, evaluated(stubs))
		})
	}
}

func TestSequenceHasNoMemory(t *testing.T) {
	first := always(Success)
	second := &stub{script: []State{Running, Success}}
	seq := NewSequence(first, second)

	assert.Equal(t, Running, seq.Evaluate())
	assert.Equal(t, Success, seq.Evaluate())
	assert.Equal(t, 2, first.calls, "first child re-evaluated on the second tick")
}

func TestPersistentSelectorResumes(t *testing.T) {
	a := always(Failure)
	b := &stub{script: []State{Running, Running, Success}}
	c := always(Success)
	sel := NewPersistentSelector(a, b, c)

	assert.Equal(t, Running, sel.Evaluate())
	assert.Equal(t, 1, sel.Current())
	assert.Equal(t, Running, sel.Evaluate())
	assert.Equal(t, Success, sel.Evaluate())
	assert.Equal(t, 0, sel.Current())

	assert.Equal(t, 1, a.calls, "resumed ticks skip earlier children")
	assert.Equal(t, 0, c.calls)
}

func TestPersistentSelectorFullFailureResets(t *testing.T) {
	a := &stub{script: []State{Failure, Success}}
	b := &stub{script: []State{Running, Failure}}
	sel := NewPersistentSelector(a, b)

	assert.Equal(t, Running, sel.Evaluate())
	assert.Equal(t, Failure, sel.Evaluate())
	assert.Equal(t, 0, sel.Current())
	assert.Equal(t, Success, sel.Evaluate())
	assert.Equal(t, 2, a.calls)
}

func TestParallelEvaluatesEveryChild(t *testing.T) {
	cases := []struct {
		name     string
		children []State
		want     State
	}{
		{"failure_wins", []State{Running, Failure, Success}, Failure},
		{"running", []State{Success, Running}, Running},
		{"all_success", []State{Success, Success}, Success},
		{"empty", nil, Success},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			children, stubs := build(c.children)
			assert.Equal(t, c.want, NewParallel(children...).Evaluate())
			assert.Equal(t, len(c.children), evaluated(stubs))
		})
	}
}

func TestInverter(t *testing.T) {
	assert.Equal(t, Failure, NewInverter(always(Success)).Evaluate())
	assert.Equal(t, Success, NewInverter(always(Failure)).Evaluate())
	assert.Equal(t, Running, NewInverter(always(Running)).Evaluate())
}

func TestWaitUntilConditionComplete(t *testing.T) {
	bb := NewBlackboard()
	cond := &stub{script: []State{Failure, Success, Failure}}
	action := &stub{script: []State{Running, Running, Success}}
	d := NewWaitUntilConditionComplete(bb, cond, action, "")

	assert.True(t, bb.Contains(DefaultRunningKey))
	assert.False(t, d.Armed())

	assert.Equal(t, Failure, d.Evaluate(), "condition not met")
	assert.Equal(t, 0, action.calls)

	assert.Equal(t, Running, d.Evaluate())
	assert.True(t, d.Armed())

	// Condition now fails but is not consulted while armed.
	assert.Equal(t, Running, d.Evaluate())
	assert.Equal(t, Success, d.Evaluate())
	assert.Equal(t, 2, cond.calls)
	assert.False(t, d.Armed())

	assert.Equal(t, Failure, d.Evaluate(), "re-checks once disarmed")
}

func TestWaitUntilConditionCompleteDisarmsOnFailure(t *testing.T) {
	bb := NewBlackboard()
	d := NewWaitUntilConditionComplete(bb, always(Success), &stub{script: []State{Running, Failure}}, "gate")

	assert.Equal(t, Running, d.Evaluate())
	assert.True(t, Get[bool](bb, "gate"))
	assert.Equal(t, Failure, d.Evaluate())
	assert.False(t, Get[bool](bb, "gate"))
}

func TestBlackboard(t *testing.T) {
	bb := NewBlackboard()
	assert.Equal(t, 0, Get[int](bb, "missing"))
	assert.Nil(t, bb.Value("missing"))

	bb.Set("speed", 2.5)
	bb.Set("name", "sentinel")
	bb.Set("speed", 3.0)
	assert.Equal(t, 3.0, Get[float64](bb, "speed"))
	assert.Equal(t, "", Get[string](bb, "speed"), "mistyped read yields zero value")

	_, ok := Lookup[int](bb, "name")
	assert.False(t, ok)
	assert.Equal(t, []string{"name", "speed"}, bb.Keys())

	bb.Delete("name")
	assert.False(t, bb.Contains("name"))
	bb.Clear()
	assert.Equal(t, 0, bb.Len())
}

func TestTreeInterop(t *testing.T) {
	a := always(Success)
	b := always(Running)
	tree := bt.New(bt.Sequence, ToTree(a), ToTree(b))

	status, err := tree.Tick()
	require.NoError(t, err)
	assert.Equal(t, Running, status)

	wrapped := FromTree(tree)
	assert.Equal(t, NewSequence(a, b).Evaluate(), wrapped.Evaluate())

	boom := errors.New("boom")
	failing := FromTree(bt.New(func([]bt.Node) (bt.Status, error) { return bt.Success, boom }))
	assert.Equal(t, Failure, failing.Evaluate())
	assert.ErrorIs(t, failing.Err(), boom)

	_, err = ToTree(nil).Tick()
	assert.ErrorIs(t, err, ErrNilNode)
}

func build(states []State) ([]Node, []*stub) {
	nodes := make([]Node, len(states))
	stubs := make([]*stub, len(states))
	for i, s := range states {
		stubs[i] = always(s)
		nodes[i] = stubs[i]
	}
	return nodes, stubs
}

func evaluated(stubs []*stub) int {
	n := 0
	for _, s := range stubs {
		n += s.calls
	}
	return n
}
