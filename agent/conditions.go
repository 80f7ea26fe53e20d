package agent

import (
	"github.com/milk9111/sentinel/behavior"
	"github.com/milk9111/sentinel/common"
)

const (
	DefaultSightRadius    = 1.0
	DefaultArrivalEpsilon = 0.5
)

// MissionFlags exposes shared mission progress.
type MissionFlags interface {
	FirstObjectiveSolved() bool
}

// Vision reports whether the tracked target entered an agent's view by some
// means other than distance.
type Vision interface {
	Seen() bool
}

// TargetSeen succeeds when the tracked pose is within Radius of the agent or
// Vision reports a sighting. On success it writes the tracked pose to Key so
// a chase Move can pick it up in the same tick.
type TargetSeen struct {
	Radius  float64
	Key     string
	Vision  Vision
	bb      *behavior.Blackboard
	agent   *common.Pose
	tracked *common.Pose
}

func NewTargetSeen(bb *behavior.Blackboard, agent, tracked *common.Pose, radius float64) *TargetSeen {
	if radius <= 0 {
		radius = DefaultSightRadius
	}
	return &TargetSeen{
		Radius:  radius,
		Key:     KeyCurrentTarget,
		bb:      bb,
		agent:   agent,
		tracked: tracked,
	}
}

func (c *TargetSeen) Evaluate() behavior.State {
	if c.agent == nil || c.tracked == nil {
		return behavior.Failure
	}
	seen := common.Distance(c.agent.Position, c.tracked.Position) <= c.Radius
	if !seen && c.Vision != nil {
		seen = c.Vision.Seen()
	}
	if !seen {
		return behavior.Failure
	}
	c.bb.Set(c.Key, c.tracked)
	return behavior.Success
}

// TargetReached succeeds when the pose stored under Key is closer than
// Epsilon to the agent.
type TargetReached struct {
	Key     string
	Epsilon float64
	bb      *behavior.Blackboard
	agent   *common.Pose
}

func NewTargetReached(bb *behavior.Blackboard, agent *common.Pose, key string) *TargetReached {
	return &TargetReached{Key: key, Epsilon: DefaultArrivalEpsilon, bb: bb, agent: agent}
}

func (c *TargetReached) Evaluate() behavior.State {
	target := behavior.Get[*common.Pose](c.bb, c.Key)
	if target == nil || c.agent == nil {
		return behavior.Failure
	}
	if common.Distance(c.agent.Position, target.Position) < c.Epsilon {
		return behavior.Success
	}
	return behavior.Failure
}

// MissionSolved succeeds when the first-objective flag equals Want.
type MissionSolved struct {
	Want  bool
	flags MissionFlags
}

func NewMissionSolved(flags MissionFlags, want bool) *MissionSolved {
	return &MissionSolved{Want: want, flags: flags}
}

func (c *MissionSolved) Evaluate() behavior.State {
	if c.flags == nil {
		return behavior.Failure
	}
	if c.flags.FirstObjectiveSolved() == c.Want {
		return behavior.Success
	}
	return behavior.Failure
}

// IsDone succeeds when the boolean flag under Key is set.
type IsDone struct {
	Key string
	bb  *behavior.Blackboard
}

func NewIsDone(bb *behavior.Blackboard, key string) *IsDone {
	return &IsDone{Key: key, bb: bb}
}

func (c *IsDone) Evaluate() behavior.State {
	if behavior.Get[bool](c.bb, c.Key) {
		return behavior.Success
	}
	return behavior.Failure
}

// NewIsNotDone succeeds while the flag under key is unset.
func NewIsNotDone(bb *behavior.Blackboard, key string) behavior.Node {
	return behavior.NewInverter(NewIsDone(bb, key))
}
