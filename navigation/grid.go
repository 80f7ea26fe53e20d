package navigation

import (
	"log/slog"
	"math"

	"github.com/milk9111/sentinel/common"
)

// Layer is a physics category bit mask.
type Layer uint32

const (
	LayerWalkable Layer = 1 << iota
	LayerUnwalkable
)

// SpatialQuery answers the two physics questions the grid needs.
type SpatialQuery interface {
	// OverlapsUnwalkable reports whether any unwalkable geometry intersects
	// the sphere at center.
	OverlapsUnwalkable(center common.Vec3, radius float64) bool
	// ProbeGround casts straight down from origin and reports whether
	// geometry on layer is hit within maxDistance.
	ProbeGround(origin common.Vec3, maxDistance float64, layer Layer) bool
}

const (
	defaultConfirmations = 3
	defaultNodeRadius    = 0.5
)

// GridConfig sizes a grid. Extent is the world-space size along the frame's
// right, up and forward axes.
type GridConfig struct {
	Extent        common.Vec3
	NodeRadius    float64
	UnitRadius    float64
	WalkableLayer Layer
	// Confirmations is how many re-samples must agree before HasChanged
	// reports a flipped cell.
	Confirmations int
	Logger        *slog.Logger
}

// Coord addresses a cell.
type Coord struct {
	X, Y, Z int
}

// Cell is one grid node. Search fields are only meaningful while stamp
// matches the grid's current search id.
type Cell struct {
	Walkable bool
	World    common.Vec3
	Coord    Coord

	index  int
	G, H   int
	parent int
	stamp  uint64
	open   bool
	closed bool
	heap   int
	seq    int
}

// F is the total estimated cost G+H.
func (c *Cell) F() int {
	return c.G + c.H
}

// Grid is a fixed 3D lattice of cells flattened into one slice.
type Grid struct {
	cfg      GridConfig
	frame    common.Pose
	query    SpatialQuery
	diameter float64
	size     Coord
	cells    []Cell
	snapshot []bool
	searchID uint64
	builds   int
	logger   *slog.Logger
}

// NewGrid builds and initializes a grid centered on frame.
func NewGrid(frame common.Pose, cfg GridConfig, query SpatialQuery) *Grid {
	if cfg.NodeRadius <= 0 {
		cfg.NodeRadius = defaultNodeRadius
	}
	if cfg.Confirmations <= 0 {
		cfg.Confirmations = defaultConfirmations
	}
	if cfg.WalkableLayer == 0 {
		cfg.WalkableLayer = LayerWalkable
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	g := &Grid{
		cfg:    cfg,
		frame:  frame,
		query:  query,
		logger: logger.With("component", "grid"),
	}
	g.Initialize()
	return g
}

// Initialize rebuilds every cell and the change-detection snapshot.
func (g *Grid) Initialize() {
	g.diameter = g.cfg.NodeRadius * 2
	g.size = Coord{
		X: axisCells(g.cfg.Extent.X, g.diameter),
		Y: axisCells(g.cfg.Extent.Y, g.diameter),
		Z: axisCells(g.cfg.Extent.Z, g.diameter),
	}

	right, up, fwd := g.frame.Right(), g.frame.Up(), g.frame.Forward()
	origin := g.frame.Position.
		Sub(right.Scale(g.cfg.Extent.X / 2)).
		Sub(up.Scale(g.cfg.Extent.Y / 2)).
		Sub(fwd.Scale(g.cfg.Extent.Z / 2))

	n := g.size.X * g.size.Y * g.size.Z
	g.cells = make([]Cell, n)
	g.snapshot = make([]bool, n)
	r := g.cfg.NodeRadius
	walkable := 0
	for x := 0; x < g.size.X; x++ {
		for y := 0; y < g.size.Y; y++ {
			for z := 0; z < g.size.Z; z++ {
				idx := g.indexOf(x, y, z)
				world := origin.
					Add(right.Scale(float64(x)*g.diameter + r)).
					Add(up.Scale(float64(y)*g.diameter + r)).
					Add(fwd.Scale(float64(z)*g.diameter + r))
				ok := g.sample(world)
				g.cells[idx] = Cell{
					Walkable: ok,
					World:    world,
					Coord:    Coord{X: x, Y: y, Z: z},
					index:    idx,
					parent:   -1,
				}
				g.snapshot[idx] = ok
				if ok {
					walkable++
				}
			}
		}
	}
	g.searchID = 0
	g.builds++
	g.logger.Debug("grid initialized",
		"size", g.size,
		"cells", n,
		"walkable", walkable,
	)
}

func axisCells(extent, diameter float64) int {
	if diameter <= 0 {
		return 1
	}
	return max(1, int(math.RoundToEven(extent/diameter)))
}

func (g *Grid) indexOf(x, y, z int) int {
	return (x*g.size.Y+y)*g.size.Z + z
}

// sample runs the full walkability test at a world position.
func (g *Grid) sample(world common.Vec3) bool {
	if g.query == nil {
		return true
	}
	if g.query.OverlapsUnwalkable(world, g.cfg.NodeRadius+g.cfg.UnitRadius) {
		return false
	}
	origin := world.Add(common.Up.Scale(g.cfg.NodeRadius * 0.5))
	return g.query.ProbeGround(origin, g.diameter*1.5, g.cfg.WalkableLayer)
}

// HasChanged reports whether any cell's walkability differs from the
// snapshot taken at the last Initialize. A differing sample only counts once
// Confirmations further samples agree with it. The snapshot is not updated.
func (g *Grid) HasChanged() bool {
	for i := range g.cells {
		c := &g.cells[i]
		current := g.sample(c.World)
		if current == g.snapshot[i] {
			continue
		}
		confirmed := true
		for n := 0; n < g.cfg.Confirmations; n++ {
			if g.sample(c.World) != current {
				confirmed = false
				break
			}
		}
		if confirmed {
			g.logger.Debug("grid change confirmed", "coord", c.Coord, "walkable", current)
			return true
		}
	}
	return false
}

// Neighbours returns the up to 26 cells adjacent to c, in x, y, z order.
func (g *Grid) Neighbours(c *Cell) []*Cell {
	if c == nil {
		return nil
	}
	out := make([]*Cell, 0, 26)
	g.eachNeighbour(c, func(n *Cell) {
		out = append(out, n)
	})
	return out
}

func (g *Grid) eachNeighbour(c *Cell, fn func(*Cell)) {
	for dx := -1; dx <= 1; dx++ {
		x := c.Coord.X + dx
		if x < 0 || x >= g.size.X {
			continue
		}
		for dy := -1; dy <= 1; dy++ {
			y := c.Coord.Y + dy
			if y < 0 || y >= g.size.Y {
				continue
			}
			for dz := -1; dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				z := c.Coord.Z + dz
				if z < 0 || z >= g.size.Z {
					continue
				}
				fn(&g.cells[g.indexOf(x, y, z)])
			}
		}
	}
}

// CellFromWorld returns the cell nearest p. Points outside the grid clamp to
// the boundary cells.
func (g *Grid) CellFromWorld(p common.Vec3) *Cell {
	if len(g.cells) == 0 {
		return nil
	}
	local := g.frame.InverseTransformPoint(p)
	x := axisIndex(local.X, g.cfg.Extent.X, g.size.X)
	y := axisIndex(local.Y, g.cfg.Extent.Y, g.size.Y)
	z := axisIndex(local.Z, g.cfg.Extent.Z, g.size.Z)
	return &g.cells[g.indexOf(x, y, z)]
}

func axisIndex(local, extent float64, n int) int {
	if extent <= 0 || n <= 1 {
		return 0
	}
	pct := common.Clamp01((local + extent/2) / extent)
	return int(math.RoundToEven(float64(n-1) * pct))
}

// IsInside reports whether p lies within the grid's oriented bounds.
func (g *Grid) IsInside(p common.Vec3) bool {
	local := g.frame.InverseTransformPoint(p)
	return math.Abs(local.X) <= g.cfg.Extent.X/2 &&
		math.Abs(local.Y) <= g.cfg.Extent.Y/2 &&
		math.Abs(local.Z) <= g.cfg.Extent.Z/2
}

// Cell returns the cell at c.
func (g *Grid) Cell(c Coord) (*Cell, bool) {
	if c.X < 0 || c.Y < 0 || c.Z < 0 || c.X >= g.size.X || c.Y >= g.size.Y || c.Z >= g.size.Z {
		return nil, false
	}
	return &g.cells[g.indexOf(c.X, c.Y, c.Z)], true
}

func (g *Grid) Size() Coord {
	return g.size
}

func (g *Grid) Diameter() float64 {
	return g.diameter
}

func (g *Grid) Frame() common.Pose {
	return g.frame
}

func (g *Grid) Config() GridConfig {
	return g.cfg
}

// Builds counts Initialize calls.
func (g *Grid) Builds() int {
	return g.builds
}

// WalkableCount returns the number of walkable cells in the current build.
func (g *Grid) WalkableCount() int {
	n := 0
	for i := range g.cells {
		if g.cells[i].Walkable {
			n++
		}
	}
	return n
}

// Reconfigure replaces the frame and sizing and rebuilds. Logger and
// Confirmations carry over when cfg leaves them unset.
func (g *Grid) Reconfigure(frame common.Pose, cfg GridConfig) {
	if cfg.NodeRadius <= 0 {
		cfg.NodeRadius = defaultNodeRadius
	}
	if cfg.Logger == nil {
		cfg.Logger = g.cfg.Logger
	}
	if cfg.Confirmations <= 0 {
		cfg.Confirmations = g.cfg.Confirmations
	}
	if cfg.WalkableLayer == 0 {
		cfg.WalkableLayer = g.cfg.WalkableLayer
	}
	g.frame = frame
	g.cfg = cfg
	g.Initialize()
}
