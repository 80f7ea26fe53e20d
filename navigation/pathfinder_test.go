package navigation

import (
	"math/rand/v2"
	"testing"

	"github.com/milk9111/sentinel/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCostsDistance(t *testing.T) {
	c := DefaultCosts
	cases := []struct {
		a, b Coord
		want int
	}{
		{Coord{}, Coord{}, 0},
		{Coord{}, Coord{X: 3}, 30},
		{Coord{}, Coord{X: 2, Z: 2}, 28},
		{Coord{}, Coord{X: 1, Y: 1, Z: 1}, 17},
		{Coord{}, Coord{X: 3, Y: 2, Z: 1}, 41},
		{Coord{}, Coord{X: 1, Y: 3, Z: 2}, 41},
		{Coord{X: 5, Y: 1}, Coord{Z: 2}, 17 + 14 + 30},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Distance(tc.a, tc.b), "%v -> %v", tc.a, tc.b)
		assert.Equal(t, tc.want, c.Distance(tc.b, tc.a))
	}
}

func TestFindPathOpenGridLength(t *testing.T) {
	g := openGrid(8, 2, 8, nil)
	agent := common.NewPose(at(0, 0, 0))
	pf := NewPathfinder(g, agent, PathfinderConfig{})

	targets := []Coord{{X: 7, Z: 7}, {X: 5, Y: 1, Z: 2}, {X: 3}, {Y: 1}, {X: 1, Z: 6}}
	for _, target := range targets {
		require.True(t, pf.FindPath(agent.Position, at(target.X, target.Y, target.Z)))
		path := pf.Path()
		assert.Len(t, path, chebyshev(Coord{}, target)+1, "target %v", target)
		assert.Equal(t, at(0, 0, 0), path[0])
		assert.Equal(t, at(target.X, target.Y, target.Z), path[len(path)-1])
	}
}

func TestFindPathSameCell(t *testing.T) {
	g := openGrid(4, 1, 4, nil)
	agent := common.NewPose(at(2, 0, 2))
	pf := NewPathfinder(g, agent, PathfinderConfig{})

	require.True(t, pf.FindPath(agent.Position, common.Vec3{X: 2.2, Z: 1.9}))
	assert.Equal(t, []common.Vec3{at(2, 0, 2)}, pf.Path())
}

func TestFindPathAvoidsObstacles(t *testing.T) {
	q := newFakeQuery()
	// Wall along x=2 with a gap at z=4.
	for z := 0; z < 4; z++ {
		q.blocked[Coord{X: 2, Z: z}] = true
	}
	g := openGrid(5, 1, 5, q)
	agent := common.NewPose(at(0, 0, 0))
	pf := NewPathfinder(g, agent, PathfinderConfig{})

	require.True(t, pf.FindPath(agent.Position, at(4, 0, 0)))
	for _, p := range pf.Path() {
		assert.True(t, g.CellFromWorld(p).Walkable, "waypoint %v", p)
	}
	assert.Contains(t, pf.Path(), at(2, 0, 4))
}

func TestFindPathFailureAnnouncesEmptyPath(t *testing.T) {
	q := newFakeQuery()
	for _, c := range []Coord{{X: 3, Z: 2}, {X: 3, Z: 4}, {X: 2, Z: 3}, {X: 4, Z: 3}, {X: 2, Z: 2}, {X: 4, Z: 4}, {X: 2, Z: 4}, {X: 4, Z: 2}} {
		q.blocked[c] = true
	}
	g := openGrid(6, 1, 6, q)
	agent := common.NewPose(at(0, 0, 0))
	target := common.NewPose(at(3, 0, 3))
	pf := NewPathfinder(g, agent, PathfinderConfig{})
	pf.SetTarget(target)

	var events []PathUpdated
	pf.OnPathUpdated(func(ev PathUpdated) { events = append(events, ev) })

	require.True(t, pf.FindPath(agent.Position, at(5, 0, 5)))
	require.Len(t, events, 1)
	assert.True(t, events[0].Found())
	assert.Same(t, target, events[0].Target)

	assert.False(t, pf.FindPath(agent.Position, target.Position))
	require.Len(t, events, 2)
	assert.False(t, events[1].Found())
	assert.Empty(t, pf.Path())

	assert.False(t, pf.FindPath(agent.Position, at(40, 0, 0)))
	assert.Len(t, events, 3)
}

func TestFindPathSuppressesEqualPaths(t *testing.T) {
	g := openGrid(6, 1, 6, nil)
	agent := common.NewPose(at(0, 0, 0))
	pf := NewPathfinder(g, agent, PathfinderConfig{})

	count := 0
	unsubscribe := pf.OnPathUpdated(func(PathUpdated) { count++ })

	pf.FindPath(agent.Position, at(4, 0, 0))
	pf.FindPath(agent.Position, at(4, 0, 0))
	assert.Equal(t, 1, count)

	pf.FindPath(agent.Position, at(4, 0, 3))
	assert.Equal(t, 2, count)

	// A failed search resets the comparison so the same path is announced again.
	pf.FindPath(agent.Position, at(-10, 0, 0))
	pf.FindPath(agent.Position, at(4, 0, 3))
	assert.Equal(t, 4, count)

	unsubscribe()
	pf.FindPath(agent.Position, at(1, 0, 1))
	assert.Equal(t, 4, count)
}

func TestIsReachableMatchesSearch(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 20; trial++ {
		q := newFakeQuery()
		for x := 0; x < 8; x++ {
			for z := 0; z < 8; z++ {
				if (x != 0 || z != 0) && rng.Float64() < 0.35 {
					q.blocked[Coord{X: x, Z: z}] = true
				}
			}
		}
		g := openGrid(8, 1, 8, q)
		agent := common.NewPose(at(0, 0, 0))
		pf := NewPathfinder(g, agent, PathfinderConfig{})
		flood := floodFill(g, Coord{})

		for x := 0; x < 8; x++ {
			for z := 0; z < 8; z++ {
				p := at(x, 0, z)
				reachable := pf.IsReachable(p)
				found := pf.FindPath(agent.Position, p)
				assert.Equal(t, reachable, found, "trial %d cell %d,%d", trial, x, z)
				assert.Equal(t, flood[Coord{X: x, Z: z}], found, "trial %d cell %d,%d", trial, x, z)
				if found {
					assert.GreaterOrEqual(t, len(pf.Path()), chebyshev(Coord{}, Coord{X: x, Z: z})+1)
				}
			}
		}
	}
}

// floodFill marks every walkable cell connected to from.
func floodFill(g *Grid, from Coord) map[Coord]bool {
	seen := map[Coord]bool{}
	start, ok := g.Cell(from)
	if !ok || !start.Walkable {
		return seen
	}
	stack := []*Cell{start}
	seen[from] = true
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range g.Neighbours(c) {
			if n.Walkable && !seen[n.Coord] {
				seen[n.Coord] = true
				stack = append(stack, n)
			}
		}
	}
	return seen
}

func TestIsReachableStoresNothing(t *testing.T) {
	g := openGrid(4, 1, 4, nil)
	agent := common.NewPose(at(0, 0, 0))
	pf := NewPathfinder(g, agent, PathfinderConfig{})
	fired := false
	pf.OnPathUpdated(func(PathUpdated) { fired = true })

	assert.True(t, pf.IsReachable(at(3, 0, 3)))
	assert.False(t, pf.IsReachable(at(9, 0, 9)))
	assert.False(t, fired)
	assert.Empty(t, pf.Path())
}

func TestUpdateRepathGuard(t *testing.T) {
	q := newFakeQuery()
	g := openGrid(8, 1, 8, q)
	agent := common.NewPose(at(0, 0, 0))
	target := common.NewPose(at(5, 0, 0))
	pf := NewPathfinder(g, agent, PathfinderConfig{})
	pf.SetTarget(target)

	var events []PathUpdated
	pf.OnPathUpdated(func(ev PathUpdated) { events = append(events, ev) })

	pf.Update(0.2)
	assert.Empty(t, events, "interval not elapsed")

	pf.Update(0.3)
	require.Len(t, events, 1, "target moved from the agent's position")
	assert.Len(t, events[0].Path, 6)

	pf.Update(0.5)
	assert.Len(t, events, 1, "nothing changed")

	target.Position = at(5, 0, 4)
	pf.Update(0.5)
	require.Len(t, events, 2)
	assert.Equal(t, at(5, 0, 4), events[1].Path[len(events[1].Path)-1])

	agent.Position = at(2, 0, 4)
	pf.RequestRepath()
	assert.True(t, pf.NeedsRepath())
	pf.Update(0.5)
	require.Len(t, events, 3)
	assert.False(t, pf.NeedsRepath())
	assert.Equal(t, at(2, 0, 4), events[2].Path[0])

	q.blocked[Coord{X: 4, Z: 4}] = true
	q.blocked[Coord{X: 3, Z: 4}] = true
	g.Initialize()
	q.blocked[Coord{X: 5, Z: 4}] = true
	pf.Update(0.5)
	require.Len(t, events, 4, "grid change confirmed")
	assert.False(t, events[3].Found())
}

func TestUpdateRepathsAfterRebuild(t *testing.T) {
	q := newFakeQuery()
	g := openGrid(8, 1, 3, q)
	agent := common.NewPose(at(0, 0, 1))
	target := common.NewPose(at(4, 0, 1))
	pf := NewPathfinder(g, agent, PathfinderConfig{})
	pf.SetTarget(target)

	var events []PathUpdated
	pf.OnPathUpdated(func(ev PathUpdated) { events = append(events, ev) })

	pf.Update(0.5)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Path, at(2, 0, 1))

	q.blocked[Coord{X: 2, Z: 1}] = true
	g.Initialize()
	require.False(t, g.HasChanged(), "rebuild refreshes the snapshot")

	pf.Update(0.5)
	require.Len(t, events, 2, "rebuilt grid must trigger a repath")
	assert.True(t, events[1].Found())
	assert.NotContains(t, events[1].Path, at(2, 0, 1))

	pf.Update(0.5)
	assert.Len(t, events, 2, "a rebuild is only seen once")
}

func cellsAt(t *testing.T, g *Grid, points ...common.Vec3) []*Cell {
	t.Helper()
	cells := make([]*Cell, len(points))
	for i, p := range points {
		cells[i] = g.CellFromWorld(p)
		require.NotNil(t, cells[i])
	}
	return cells
}

func TestFindCellsBreaksTiesByInsertionOrder(t *testing.T) {
	q := newFakeQuery()
	q.blocked[Coord{X: 1, Z: 1}] = true
	g := openGrid(3, 1, 3, q)

	// (1,0,0) and (1,0,2) tie on F and H; the one opened first wins.
	path := g.FindCells(g.CellFromWorld(at(0, 0, 1)), g.CellFromWorld(at(2, 0, 1)), DefaultCosts)
	assert.Equal(t, cellsAt(t, g, at(0, 0, 1), at(1, 0, 0), at(2, 0, 1)), path)

	pf := NewPathfinder(g, common.NewPose(at(0, 0, 1)), PathfinderConfig{})
	require.True(t, pf.FindPath(at(0, 0, 1), at(2, 0, 1)))
	assert.Equal(t, []common.Vec3{at(0, 0, 1), at(1, 0, 0), at(2, 0, 1)}, pf.Path())
}

func TestFindCellsPrefersLowerHeuristicOnEqualF(t *testing.T) {
	g := openGrid(3, 1, 2, nil)

	// (1,0,0) is opened before (1,0,1) with the same F but a larger H.
	path := g.FindCells(g.CellFromWorld(at(0, 0, 0)), g.CellFromWorld(at(2, 0, 1)), DefaultCosts)
	assert.Equal(t, cellsAt(t, g, at(0, 0, 0), at(1, 0, 1), at(2, 0, 1)), path)
}

func TestSetTargetDropsStalePath(t *testing.T) {
	g := openGrid(4, 1, 4, nil)
	agent := common.NewPose(at(0, 0, 0))
	pf := NewPathfinder(g, agent, PathfinderConfig{})
	a, b := common.NewPose(at(3, 0, 0)), common.NewPose(at(0, 0, 3))

	pf.SetTarget(a)
	pf.FindPath(agent.Position, a.Position)
	require.NotEmpty(t, pf.Path())

	pf.SetTarget(a)
	assert.NotEmpty(t, pf.Path())
	pf.SetTarget(b)
	assert.Empty(t, pf.Path())
	assert.Same(t, b, pf.Target())
}
