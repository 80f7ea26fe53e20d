package navigation

import (
	"math"

	"github.com/milk9111/sentinel/common"
)

// fakeQuery treats every point as grounded unless blocked says otherwise.
type fakeQuery struct {
	blocked  map[Coord]bool
	noGround map[Coord]bool
	// flips holds per-coord scripted overlap results consumed one per sample.
	flips map[Coord][]bool
	calls int
}

func newFakeQuery() *fakeQuery {
	return &fakeQuery{
		blocked:  map[Coord]bool{},
		noGround: map[Coord]bool{},
		flips:    map[Coord][]bool{},
	}
}

// key maps a world point back to the unit lattice used by openGrid.
func key(p common.Vec3) Coord {
	return Coord{X: int(math.Round(p.X)), Y: int(math.Round(p.Y)), Z: int(math.Round(p.Z))}
}

func (q *fakeQuery) OverlapsUnwalkable(center common.Vec3, radius float64) bool {
	q.calls++
	k := key(center)
	if script := q.flips[k]; len(script) > 0 {
		q.flips[k] = script[1:]
		return script[0]
	}
	return q.blocked[k]
}

func (q *fakeQuery) ProbeGround(origin common.Vec3, maxDistance float64, layer Layer) bool {
	return !q.noGround[key(origin)]
}

// openGrid returns a w x h x d grid of unit cells whose cell (x,y,z) sits at
// world (x,y,z).
func openGrid(w, h, d int, q SpatialQuery) *Grid {
	frame := common.Pose{
		Position: common.Vec3{X: float64(w-1) / 2, Y: float64(h-1) / 2, Z: float64(d-1) / 2},
		Rotation: common.Identity,
	}
	return NewGrid(frame, GridConfig{
		Extent:     common.Vec3{X: float64(w), Y: float64(h), Z: float64(d)},
		NodeRadius: 0.5,
	}, q)
}

func chebyshev(a, b Coord) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y), abs(a.Z-b.Z))
}

func at(x, y, z int) common.Vec3 {
	return common.Vec3{X: float64(x), Y: float64(y), Z: float64(z)}
}
