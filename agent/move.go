package agent

import (
	"log/slog"
	"math"

	"github.com/milk9111/sentinel/behavior"
	"github.com/milk9111/sentinel/common"
	"github.com/milk9111/sentinel/navigation"
)

const (
	DefaultWalkSpeed       = 1.0
	DefaultRunSpeed        = 5.0
	DefaultWaypointEpsilon = 0.1
	DefaultTurnRate        = 10.0
)

// Move walks the agent along the pathfinder's path to a target.
//
// Each tick the target must be reachable or Move fails without touching the
// pose. A target the pathfinder is not tracking yet is handed over and Move
// reports Running until the next repath delivers a path. Once the last
// waypoint is reached Move succeeds and, if DoneKey is set, raises that flag.
type Move struct {
	Speed    float64
	DoneKey  string
	Epsilon  float64
	TurnRate float64

	bb      *behavior.Blackboard
	agent   *common.Pose
	finder  *navigation.Pathfinder
	clock   common.Clock
	resolve func() *common.Pose
	logger  *slog.Logger

	bound     *common.Pose
	index     int
	following bool
	waypoint  common.Vec3
	stop      func()
}

// MoveConfig carries what every Move needs.
type MoveConfig struct {
	Blackboard *behavior.Blackboard
	Agent      *common.Pose
	Pathfinder *navigation.Pathfinder
	Clock      common.Clock
	Logger     *slog.Logger
	Speed      float64
	DoneKey    string
}

// NewMove returns a Move bound to a fixed target pose.
func NewMove(cfg MoveConfig, target *common.Pose) *Move {
	return newMove(cfg, func() *common.Pose { return target })
}

// NewMoveToKey returns a Move whose target is read from the blackboard on
// every tick.
func NewMoveToKey(cfg MoveConfig, key string) *Move {
	bb := cfg.Blackboard
	return newMove(cfg, func() *common.Pose {
		return behavior.Get[*common.Pose](bb, key)
	})
}

func newMove(cfg MoveConfig, resolve func() *common.Pose) *Move {
	m := &Move{
		Speed:    cfg.Speed,
		DoneKey:  cfg.DoneKey,
		Epsilon:  DefaultWaypointEpsilon,
		TurnRate: DefaultTurnRate,
		bb:       cfg.Blackboard,
		agent:    cfg.Agent,
		finder:   cfg.Pathfinder,
		clock:    cfg.Clock,
		resolve:  resolve,
		logger:   cfg.Logger,
	}
	if m.Speed <= 0 {
		m.Speed = DefaultWalkSpeed
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.stop = m.finder.OnPathUpdated(m.onPathUpdated)
	return m
}

func (m *Move) onPathUpdated(ev navigation.PathUpdated) {
	if ev.Target == nil || ev.Target != m.bound {
		return
	}
	m.reset()
}

func (m *Move) reset() {
	m.index = 0
	m.following = false
}

// Close stops listening for path updates.
func (m *Move) Close() {
	if m.stop != nil {
		m.stop()
		m.stop = nil
	}
}

func (m *Move) Evaluate() behavior.State {
	target := m.resolve()
	if target == nil {
		m.reset()
		return behavior.Failure
	}
	if !m.finder.IsReachable(target.Position) {
		if m.following {
			m.logger.Debug("move target unreachable", "target", target.Position)
		}
		m.reset()
		return behavior.Failure
	}
	if m.finder.Target() != target {
		m.finder.SetTarget(target)
		m.finder.RequestRepath()
		m.bound = target
		m.reset()
		return behavior.Running
	}
	m.bound = target

	path := m.finder.Path()
	if len(path) == 0 {
		return behavior.Running
	}
	if !m.following || m.index >= len(path) {
		m.index = closestWaypoint(path, m.agent.Position)
		m.following = true
	}
	m.waypoint = path[m.index]

	if common.Distance(m.agent.Position, m.waypoint) < m.Epsilon {
		m.index++
		if m.index >= len(path) {
			if m.DoneKey != "" {
				m.bb.Set(m.DoneKey, true)
			}
			m.reset()
			return behavior.Success
		}
		m.waypoint = path[m.index]
	}

	dt := m.clock.DeltaTime()
	m.face(m.waypoint, dt)
	m.agent.Position = common.MoveTowards(m.agent.Position, m.waypoint, m.Speed*dt)
	return behavior.Running
}

// face turns the agent about +Y toward p.
func (m *Move) face(p common.Vec3, dt float64) {
	dir := p.Sub(m.agent.Position).Flat()
	if dir.Len() < 1e-9 {
		return
	}
	want := common.QuatFromYaw(common.LookYaw(dir))
	m.agent.Rotation = common.Slerp(m.agent.Rotation, want, math.Min(1, dt*m.TurnRate))
}

func closestWaypoint(path []common.Vec3, from common.Vec3) int {
	best, bestDist := 0, math.Inf(1)
	for i, p := range path {
		if d := common.Distance(from, p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
