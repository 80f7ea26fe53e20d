package agent

import (
	"testing"

	"github.com/milk9111/sentinel/behavior"
	"github.com/milk9111/sentinel/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewControllerRequiresDeps(t *testing.T) {
	r := newRig(common.Vec3{})

	d := r.deps(nil, nil)
	d.Pose = nil
	_, err := NewController(d, Options{})
	assert.ErrorIs(t, err, ErrNoPose)

	d = r.deps(nil, nil)
	d.Pathfinder = nil
	_, err = NewController(d, Options{})
	assert.ErrorIs(t, err, ErrNoPathfinder)

	d = r.deps(nil, nil)
	d.Clock = nil
	_, err = NewController(d, Options{})
	assert.ErrorIs(t, err, ErrNoClock)

	_, err = NewController(r.deps(nil, nil), Options{Gate: "sometimes"})
	assert.Error(t, err)

	_, err = NewController(r.deps(nil, nil), Options{Gate: GateScript, GateScript: []byte(`result := `)})
	assert.Error(t, err)
}

func TestControllerPatrolsToWaypoint(t *testing.T) {
	r := newRig(common.Vec3{})
	tracked := common.NewPose(common.Vec3{X: 9, Z: 9})
	c, err := NewController(r.deps(tracked, mission(true)), Options{Name: "east"})
	require.NoError(t, err)
	defer c.Close()

	target := common.NewPose(common.Vec3{X: 5})
	c.SetTargets([]*common.Pose{target})

	bb := c.Blackboard()
	for i := 0; i < 300 && !behavior.Get[bool](bb, DoneKey(0)); i++ {
		r.step(0.1, func() { c.Tick() })
	}
	require.True(t, behavior.Get[bool](bb, DoneKey(0)), "move reported success")
	assert.Less(t, common.Distance(r.pose.Position, target.Position), DefaultWaypointEpsilon)
	assert.Equal(t, "east", c.Name())
}

func TestControllerUnreachableWaypoint(t *testing.T) {
	r := newRig(common.Vec3{X: 2, Z: 2})
	c, err := NewController(r.deps(nil, mission(true)), Options{Gate: GateAlways})
	require.NoError(t, err)
	c.SetTargets([]*common.Pose{common.NewPose(common.Vec3{X: 50})})

	before := *r.pose
	for i := 0; i < 20; i++ {
		var state behavior.State
		r.step(0.1, func() { state = c.Tick() })
		assert.Equal(t, behavior.Failure, state)
	}
	assert.Equal(t, before, *r.pose)
	assert.Equal(t, behavior.Failure, c.LastState())
}

func TestControllerMissionGate(t *testing.T) {
	r := newRig(common.Vec3{})
	c, err := NewController(r.deps(nil, mission(false)), Options{})
	require.NoError(t, err)
	c.SetTargets([]*common.Pose{common.NewPose(common.Vec3{X: 3})})

	before := *r.pose
	for i := 0; i < 20; i++ {
		r.step(0.1, func() { c.Tick() })
	}
	assert.Equal(t, before, *r.pose)
	assert.Nil(t, r.finder.Target())
	assert.False(t, behavior.Get[bool](c.Blackboard(), KeyMissionArmed))
}

func TestControllerChasesSeenTarget(t *testing.T) {
	r := newRig(common.Vec3{})
	tracked := common.NewPose(common.Vec3{X: 0.5, Z: 0.5})
	c, err := NewController(r.deps(tracked, mission(true)), Options{})
	require.NoError(t, err)
	c.SetTargets([]*common.Pose{common.NewPose(common.Vec3{X: 5, Z: 5})})

	assert.Equal(t, behavior.Running, c.Tick())
	bb := c.Blackboard()
	assert.Same(t, tracked, behavior.Get[*common.Pose](bb, KeyCurrentTarget))
	assert.True(t, behavior.Get[bool](bb, KeyChasing))
	assert.Same(t, tracked, r.finder.Target())
}

func TestControllerCycleLayout(t *testing.T) {
	r := newRig(common.Vec3{})
	c, err := NewController(r.deps(nil, mission(true)), Options{Patrol: PatrolCycle, WaitMin: 0.1, WaitMax: 0.1})
	require.NoError(t, err)
	a := common.NewPose(common.Vec3{X: 2})
	b := common.NewPose(common.Vec3{X: 2, Z: 2})
	c.SetTargets([]*common.Pose{a, b})
	assert.Same(t, a, behavior.Get[*common.Pose](c.Blackboard(), KeyPatrolTarget))

	visitedB := false
	for i := 0; i < 400 && !visitedB; i++ {
		r.step(0.1, func() { c.Tick() })
		visitedB = common.Distance(r.pose.Position, b.Position) < DefaultArrivalEpsilon
	}
	assert.True(t, visitedB)
}

func TestControllerCloseClearsState(t *testing.T) {
	r := newRig(common.Vec3{})
	c, err := NewController(r.deps(nil, mission(true)), Options{})
	require.NoError(t, err)
	c.SetTargets([]*common.Pose{common.NewPose(common.Vec3{X: 1})})
	assert.NotEqual(t, "", c.ID().String())

	c.Close()
	assert.Equal(t, 0, c.Blackboard().Len())
	assert.Equal(t, behavior.Failure, c.Tick())
	assert.NotPanics(t, func() { r.finder.FindPath(r.pose.Position, common.Vec3{X: 3}) })
}

func TestControllerWithoutTargetsOnlyWatches(t *testing.T) {
	r := newRig(common.Vec3{})
	c, err := NewController(r.deps(common.NewPose(common.Vec3{X: 8}), mission(true)), Options{})
	require.NoError(t, err)
	assert.Empty(t, c.Targets())
	assert.Equal(t, behavior.Failure, c.Tick())
}
