package agent

import (
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/milk9111/sentinel/common"
	"github.com/milk9111/sentinel/navigation"
)

type mission bool

func (m mission) FirstObjectiveSolved() bool { return bool(m) }

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// flatGrid returns an open w x 1 x d grid of unit cells with cell (x,0,z) at
// world (x,0,z).
func flatGrid(w, d int) *navigation.Grid {
	frame := common.Pose{
		Position: common.Vec3{X: float64(w-1) / 2, Z: float64(d-1) / 2},
		Rotation: common.Identity,
	}
	return navigation.NewGrid(frame, navigation.GridConfig{
		Extent:     common.Vec3{X: float64(w), Y: 1, Z: float64(d)},
		NodeRadius: 0.5,
		Logger:     quietLogger,
	}, nil)
}

type rig struct {
	clock  *common.StepClock
	pose   *common.Pose
	finder *navigation.Pathfinder
}

func newRig(start common.Vec3) *rig {
	pose := common.NewPose(start)
	return &rig{
		clock:  &common.StepClock{},
		pose:   pose,
		finder: navigation.NewPathfinder(flatGrid(10, 10), pose, navigation.PathfinderConfig{Logger: quietLogger}),
	}
}

// step advances the clock, runs fn as the AI pass, then the repath pass.
func (r *rig) step(dt float64, fn func()) {
	r.clock.Advance(dt)
	fn()
	r.finder.Update(dt)
}

func (r *rig) deps(tracked *common.Pose, flags MissionFlags) Deps {
	return Deps{
		Pose:       r.pose,
		Pathfinder: r.finder,
		Tracked:    tracked,
		Mission:    flags,
		Clock:      r.clock,
		Rand:       rand.New(rand.NewPCG(1, 2)),
		Logger:     quietLogger,
	}
}
