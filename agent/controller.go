package agent

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/milk9111/sentinel/behavior"
	"github.com/milk9111/sentinel/common"
	"github.com/milk9111/sentinel/navigation"
)

var (
	ErrNoPose       = errors.New("agent: pose is required")
	ErrNoPathfinder = errors.New("agent: pathfinder is required")
	ErrNoClock      = errors.New("agent: clock is required")
)

// PatrolLayout selects how waypoints are visited.
type PatrolLayout string

const (
	// PatrolSequence visits every waypoint once per round, then waits.
	PatrolSequence PatrolLayout = "sequence"
	// PatrolCycle visits one waypoint, waits, then selects the next.
	PatrolCycle PatrolLayout = "cycle"
)

// GateMode selects the condition that arms the whole tree.
type GateMode string

const (
	GateSolved   GateMode = "solved"
	GateUnsolved GateMode = "unsolved"
	GateAlways   GateMode = "always"
	GateScript   GateMode = "script"
)

// Deps are the collaborators a controller is wired to.
type Deps struct {
	Pose       *common.Pose
	Pathfinder *navigation.Pathfinder
	Tracked    *common.Pose
	Mission    MissionFlags
	Clock      common.Clock
	Rand       *rand.Rand
	Vision     Vision
	Logger     *slog.Logger
}

// Options tune the tree. Zero values take defaults.
type Options struct {
	Name        string
	WalkSpeed   float64
	RunSpeed    float64
	SightRadius float64
	WaitMin     float64
	WaitMax     float64
	Patrol      PatrolLayout
	Gate        GateMode
	// GateScript is tengo source used when Gate is GateScript.
	GateScript []byte
	ScriptKeys []string
}

const (
	defaultWaitMin = 2.0
	defaultWaitMax = 5.0
)

// Controller owns one agent's blackboard and behavior tree.
type Controller struct {
	id      uuid.UUID
	name    string
	deps    Deps
	opts    Options
	bb      *behavior.Blackboard
	root    behavior.Node
	gate    behavior.Node
	moves   []*Move
	targets []*common.Pose
	last    behavior.State
	logger  *slog.Logger
}

func NewController(deps Deps, opts Options) (*Controller, error) {
	switch {
	case deps.Pose == nil:
		return nil, ErrNoPose
	case deps.Pathfinder == nil:
		return nil, ErrNoPathfinder
	case deps.Clock == nil:
		return nil, ErrNoClock
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	opts = opts.withDefaults()

	id := uuid.New()
	c := &Controller{
		id:     id,
		name:   opts.Name,
		deps:   deps,
		opts:   opts,
		bb:     behavior.NewBlackboard(),
		logger: deps.Logger.With("agent", opts.Name, "id", id.String()),
	}
	c.bb.Set(KeyAgentPose, deps.Pose)
	if deps.Tracked != nil {
		c.bb.Set(KeyTracked, deps.Tracked)
	}

	gate, err := c.buildGate()
	if err != nil {
		return nil, err
	}
	c.gate = gate
	c.rebuild()
	return c, nil
}

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = "sentinel"
	}
	if o.WalkSpeed <= 0 {
		o.WalkSpeed = DefaultWalkSpeed
	}
	if o.RunSpeed <= 0 {
		o.RunSpeed = DefaultRunSpeed
	}
	if o.SightRadius <= 0 {
		o.SightRadius = DefaultSightRadius
	}
	if o.WaitMin <= 0 && o.WaitMax <= 0 {
		o.WaitMin, o.WaitMax = defaultWaitMin, defaultWaitMax
	}
	if o.Patrol == "" {
		o.Patrol = PatrolSequence
	}
	if o.Gate == "" {
		o.Gate = GateSolved
	}
	return o
}

func (c *Controller) buildGate() (behavior.Node, error) {
	switch c.opts.Gate {
	case GateSolved:
		return NewMissionSolved(c.deps.Mission, true), nil
	case GateUnsolved:
		return NewMissionSolved(c.deps.Mission, false), nil
	case GateAlways:
		return behavior.Func(func() behavior.State { return behavior.Success }), nil
	case GateScript:
		return NewScriptCondition(c.name, c.opts.GateScript, c.bb, c.deps.Mission, c.opts.ScriptKeys, c.logger)
	default:
		return nil, fmt.Errorf("agent: unknown gate mode %q", c.opts.Gate)
	}
}

// SetTargets replaces the patrol waypoints and rebuilds the tree.
func (c *Controller) SetTargets(targets []*common.Pose) {
	c.targets = append([]*common.Pose(nil), targets...)
	c.rebuild()
	c.deps.Pathfinder.RequestRepath()
}

func (c *Controller) rebuild() {
	for _, m := range c.moves {
		m.Close()
	}
	c.moves = nil
	for _, k := range c.bb.Keys() {
		if k == KeyMissionArmed || k == KeyChasing || strings.HasPrefix(k, keyDonePrefix) {
			c.bb.Delete(k)
		}
	}

	c.bb.Set(KeyTargets, c.targets)
	if len(c.targets) > 0 {
		c.bb.Set(KeyPatrolTarget, c.targets[0])
	} else {
		c.bb.Delete(KeyPatrolTarget)
	}

	seen := NewTargetSeen(c.bb, c.deps.Pose, c.deps.Tracked, c.opts.SightRadius)
	seen.Vision = c.deps.Vision
	chase := c.newMoveToKey(KeyCurrentTarget, c.opts.RunSpeed)
	watch := []behavior.Node{behavior.NewWaitUntilConditionComplete(c.bb, seen, chase, KeyChasing)}
	if patrol := c.buildPatrol(); patrol != nil {
		watch = append(watch, patrol)
	}
	c.root = behavior.NewWaitUntilConditionComplete(c.bb, c.gate, behavior.NewSelector(watch...), KeyMissionArmed)

	c.logger.Debug("behavior tree built", "targets", len(c.targets), "patrol", c.opts.Patrol)
}

func (c *Controller) buildPatrol() behavior.Node {
	if len(c.targets) == 0 {
		return nil
	}
	wait := NewWait(c.deps.Clock, c.deps.Rand, c.opts.WaitMin, c.opts.WaitMax)

	if c.opts.Patrol == PatrolCycle {
		return behavior.NewSequence(
			behavior.NewSelector(
				NewTargetReached(c.bb, c.deps.Pose, KeyPatrolTarget),
				c.newMoveToKey(KeyPatrolTarget, c.opts.WalkSpeed),
			),
			wait,
			NewSelectNextTarget(c.bb, KeyPatrolTarget),
		)
	}

	steps := make([]behavior.Node, 0, len(c.targets)+2)
	keys := make([]string, len(c.targets))
	for i, target := range c.targets {
		keys[i] = DoneKey(i)
		c.bb.Set(keys[i], false)
		move := NewMove(c.moveConfig(c.opts.WalkSpeed, keys[i]), target)
		c.moves = append(c.moves, move)
		steps = append(steps, behavior.NewSelector(NewIsDone(c.bb, keys[i]), move))
	}
	steps = append(steps, wait, NewResetFlags(c.bb, keys...))
	return behavior.NewSequence(steps...)
}

func (c *Controller) moveConfig(speed float64, doneKey string) MoveConfig {
	return MoveConfig{
		Blackboard: c.bb,
		Agent:      c.deps.Pose,
		Pathfinder: c.deps.Pathfinder,
		Clock:      c.deps.Clock,
		Logger:     c.logger,
		Speed:      speed,
		DoneKey:    doneKey,
	}
}

func (c *Controller) newMoveToKey(key string, speed float64) *Move {
	m := NewMoveToKey(c.moveConfig(speed, ""), key)
	c.moves = append(c.moves, m)
	return m
}

// Tick evaluates the tree once. The result is informational.
func (c *Controller) Tick() behavior.State {
	if c.root == nil {
		return behavior.Failure
	}
	state := c.root.Evaluate()
	if state != c.last {
		c.logger.Debug("tree state changed", "from", c.last, "to", state)
	}
	c.last = state
	return state
}

// Close unregisters path listeners and clears the blackboard.
func (c *Controller) Close() {
	for _, m := range c.moves {
		m.Close()
	}
	c.moves = nil
	c.root = nil
	c.bb.Clear()
}

func (c *Controller) ID() uuid.UUID {
	return c.id
}

func (c *Controller) Name() string {
	return c.name
}

func (c *Controller) Blackboard() *behavior.Blackboard {
	return c.bb
}

func (c *Controller) Targets() []*common.Pose {
	return c.targets
}

func (c *Controller) Pathfinder() *navigation.Pathfinder {
	return c.deps.Pathfinder
}

func (c *Controller) Pose() *common.Pose {
	return c.deps.Pose
}

// LastState is the result of the most recent Tick.
func (c *Controller) LastState() behavior.State {
	return c.last
}
