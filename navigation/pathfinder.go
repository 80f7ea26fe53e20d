package navigation

import (
	"log/slog"

	"github.com/milk9111/sentinel/common"
)

const (
	DefaultUpdateInterval      = 0.5
	DefaultTargetMoveThreshold = 0.1
	DefaultPathTolerance       = 0.1
)

// PathUpdated announces a new path for Target. An empty Path means no path
// exists.
type PathUpdated struct {
	Target *common.Pose
	Path   []common.Vec3
}

func (e PathUpdated) Found() bool {
	return len(e.Path) > 0
}

// PathfinderConfig tunes the repath guard. Zero fields take defaults.
type PathfinderConfig struct {
	Costs               Costs
	UpdateInterval      float64
	TargetMoveThreshold float64
	PathTolerance       float64
	Logger              *slog.Logger
}

type listener struct {
	id int
	fn func(PathUpdated)
}

// Pathfinder keeps a path from an agent to a target current as the target
// moves and the grid changes.
type Pathfinder struct {
	grid   *Grid
	agent  *common.Pose
	target *common.Pose

	costs         Costs
	interval      float64
	moveThreshold float64
	tolerance     float64

	timer         float64
	seenBuilds    int
	lastTargetPos common.Vec3
	needsRepath   bool
	path          []common.Vec3
	lastPath      []common.Vec3

	listeners  []listener
	nextListen int
	logger     *slog.Logger
}

func NewPathfinder(grid *Grid, agent *common.Pose, cfg PathfinderConfig) *Pathfinder {
	pf := &Pathfinder{
		grid:          grid,
		agent:         agent,
		costs:         cfg.Costs.orDefault(),
		interval:      cfg.UpdateInterval,
		moveThreshold: cfg.TargetMoveThreshold,
		tolerance:     cfg.PathTolerance,
		logger:        cfg.Logger,
	}
	if pf.interval <= 0 {
		pf.interval = DefaultUpdateInterval
	}
	if pf.moveThreshold <= 0 {
		pf.moveThreshold = DefaultTargetMoveThreshold
	}
	if pf.tolerance <= 0 {
		pf.tolerance = DefaultPathTolerance
	}
	if pf.logger == nil {
		pf.logger = slog.Default()
	}
	if agent != nil {
		pf.lastTargetPos = agent.Position
	}
	if grid != nil {
		pf.seenBuilds = grid.Builds()
	}
	return pf
}

func (pf *Pathfinder) Grid() *Grid {
	return pf.grid
}

func (pf *Pathfinder) Costs() Costs {
	return pf.costs
}

func (pf *Pathfinder) Agent() *common.Pose {
	return pf.agent
}

func (pf *Pathfinder) Target() *common.Pose {
	return pf.target
}

// SetTarget binds a new target. The stored path belonged to the previous
// target, so it is dropped.
func (pf *Pathfinder) SetTarget(t *common.Pose) {
	if t == pf.target {
		return
	}
	pf.target = t
	pf.path = nil
	pf.lastPath = nil
}

func (pf *Pathfinder) RequestRepath() {
	pf.needsRepath = true
}

func (pf *Pathfinder) NeedsRepath() bool {
	return pf.needsRepath
}

// Path returns the stored path for the current target. Callers must not
// modify it.
func (pf *Pathfinder) Path() []common.Vec3 {
	return pf.path
}

// OnPathUpdated registers fn for PathUpdated events and returns a func that
// removes it.
func (pf *Pathfinder) OnPathUpdated(fn func(PathUpdated)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	pf.nextListen++
	id := pf.nextListen
	pf.listeners = append(pf.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range pf.listeners {
			if l.id == id {
				pf.listeners = append(pf.listeners[:i:i], pf.listeners[i+1:]...)
				return
			}
		}
	}
}

func (pf *Pathfinder) notify(path []common.Vec3) {
	ev := PathUpdated{Target: pf.target, Path: path}
	for _, l := range append([]listener(nil), pf.listeners...) {
		l.fn(ev)
	}
}

// Update advances the repath timer by dt. Once the interval has elapsed it
// repaths if the target moved, a repath was requested, or the grid changed.
// A grid change is one HasChanged confirms or any rebuild since the last
// repath.
func (pf *Pathfinder) Update(dt float64) {
	if pf.target == nil || pf.agent == nil || pf.grid == nil {
		return
	}
	pf.timer += dt
	if pf.timer < pf.interval {
		return
	}
	pf.timer = 0

	moved := common.Distance(pf.target.Position, pf.lastTargetPos) > pf.moveThreshold
	rebuilt := pf.grid.Builds() != pf.seenBuilds
	if !moved && !pf.needsRepath && !rebuilt && !pf.grid.HasChanged() {
		return
	}
	pf.FindPath(pf.agent.Position, pf.target.Position)
	pf.lastTargetPos = pf.target.Position
	pf.seenBuilds = pf.grid.Builds()
	pf.needsRepath = false
}

// FindPath searches from start to target, stores the result and notifies
// listeners when it differs from the last announced path. A failed search
// clears the stored path and always announces an empty one.
func (pf *Pathfinder) FindPath(start, target common.Vec3) bool {
	if pf.grid == nil {
		return false
	}
	cells, ok := pf.searchCells(start, target)
	if !ok {
		pf.logger.Debug("no path", "start", start, "target", target)
		pf.path = nil
		pf.lastPath = nil
		pf.notify(nil)
		return false
	}

	path := make([]common.Vec3, len(cells))
	for i, c := range cells {
		path[i] = c.World
	}
	pf.path = path
	if pathsEqual(path, pf.lastPath, pf.tolerance) {
		return true
	}
	pf.lastPath = path
	pf.logger.Debug("path updated", "waypoints", len(path))
	pf.notify(path)
	return true
}

// IsReachable reports whether a path from the agent to p exists. Nothing is
// stored and no event fires.
func (pf *Pathfinder) IsReachable(p common.Vec3) bool {
	if pf.grid == nil || pf.agent == nil {
		return false
	}
	_, ok := pf.searchCells(pf.agent.Position, p)
	return ok
}

func (pf *Pathfinder) searchCells(start, target common.Vec3) ([]*Cell, bool) {
	if !pf.grid.IsInside(target) {
		return nil, false
	}
	from := pf.grid.CellFromWorld(start)
	to := pf.grid.CellFromWorld(target)
	if !pf.grid.search(from, to, pf.costs) {
		return nil, false
	}
	return pf.grid.retrace(from, to), true
}

func pathsEqual(a, b []common.Vec3, tolerance float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if common.Distance(a[i], b[i]) > tolerance {
			return false
		}
	}
	return true
}
