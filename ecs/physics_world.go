package ecs

import (
	"log/slog"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/sentinel/common"
	"github.com/milk9111/sentinel/navigation"
)

// PhysicsWorld answers spatial queries against static geometry kept in a
// Chipmunk space. The space is the world's horizontal plane: world X maps
// to cp X and world Z to cp Y. Each shape carries its vertical extent.
type PhysicsWorld struct {
	space  *cp.Space
	shapes map[int]*cp.Shape
	nextID int
	logger *slog.Logger
}

// verticalBand is stored in shape.UserData.
type verticalBand struct {
	minY, maxY float64
}

func NewPhysicsWorld(logger *slog.Logger) *PhysicsWorld {
	if logger == nil {
		logger = slog.Default()
	}
	return &PhysicsWorld{
		space:  cp.NewSpace(),
		shapes: make(map[int]*cp.Shape),
		logger: logger.With("component", "physics"),
	}
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	return pw.space
}

func (pw *PhysicsWorld) add(shape *cp.Shape, layer navigation.Layer, band verticalBand) int {
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(layer), cp.ALL_CATEGORIES))
	shape.UserData = band
	pw.space.AddShape(shape)
	pw.nextID++
	pw.shapes[pw.nextID] = shape
	return pw.nextID
}

// AddObstacleBox adds an axis-aligned unwalkable box and returns its id.
func (pw *PhysicsWorld) AddObstacleBox(center, size common.Vec3) int {
	bb := cp.BB{
		L: center.X - size.X/2,
		B: center.Z - size.Z/2,
		R: center.X + size.X/2,
		T: center.Z + size.Z/2,
	}
	id := pw.add(cp.NewBox2(pw.space.StaticBody, bb, 0), navigation.LayerUnwalkable, verticalBand{
		minY: center.Y - size.Y/2,
		maxY: center.Y + size.Y/2,
	})
	pw.logger.Debug("obstacle added", "id", id, "center", center, "size", size)
	return id
}

// AddObstacleCylinder adds an upright unwalkable cylinder standing on base.
func (pw *PhysicsWorld) AddObstacleCylinder(base common.Vec3, radius, height float64) int {
	shape := cp.NewCircle(pw.space.StaticBody, radius, cp.Vector{X: base.X, Y: base.Z})
	return pw.add(shape, navigation.LayerUnwalkable, verticalBand{minY: base.Y, maxY: base.Y + height})
}

// AddFloor adds a walkable rectangle at center.Y, turned by yaw about +Y.
func (pw *PhysicsWorld) AddFloor(center common.Vec3, width, depth, yaw float64) int {
	rot := common.QuatFromYaw(yaw)
	corners := []common.Vec3{
		{X: -width / 2, Z: -depth / 2},
		{X: width / 2, Z: -depth / 2},
		{X: width / 2, Z: depth / 2},
		{X: -width / 2, Z: depth / 2},
	}
	verts := make([]cp.Vector, len(corners))
	for i, c := range corners {
		p := center.Add(rot.Rotate(c))
		verts[i] = cp.Vector{X: p.X, Y: p.Z}
	}
	shape := cp.NewPolyShapeRaw(pw.space.StaticBody, len(verts), verts, 0)
	id := pw.add(shape, navigation.LayerWalkable, verticalBand{minY: center.Y, maxY: center.Y})
	pw.logger.Debug("floor added", "id", id, "center", center, "width", width, "depth", depth)
	return id
}

// Remove deletes a shape added earlier.
func (pw *PhysicsWorld) Remove(id int) bool {
	shape, ok := pw.shapes[id]
	if !ok {
		return false
	}
	pw.space.RemoveShape(shape)
	delete(pw.shapes, id)
	return true
}

func (pw *PhysicsWorld) Len() int {
	return len(pw.shapes)
}

func queryFilter(layer navigation.Layer) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(layer))
}

// OverlapsUnwalkable reports whether a sphere touches any unwalkable shape.
func (pw *PhysicsWorld) OverlapsUnwalkable(center common.Vec3, radius float64) bool {
	p := cp.Vector{X: center.X, Y: center.Z}
	hit := false
	pw.space.BBQuery(cp.NewBBForCircle(p, radius), queryFilter(navigation.LayerUnwalkable), func(shape *cp.Shape, _ interface{}) {
		if hit {
			return
		}
		band, ok := shape.UserData.(verticalBand)
		if !ok {
			return
		}
		dy := 0.0
		if center.Y < band.minY {
			dy = band.minY - center.Y
		} else if center.Y > band.maxY {
			dy = center.Y - band.maxY
		}
		if dy > radius {
			return
		}
		planar := math.Sqrt(radius*radius - dy*dy)
		if shape.PointQuery(p).Distance <= planar {
			hit = true
		}
	}, nil)
	return hit
}

// ProbeGround casts down from origin and reports whether a shape on layer
// lies under it within maxDistance.
func (pw *PhysicsWorld) ProbeGround(origin common.Vec3, maxDistance float64, layer navigation.Layer) bool {
	p := cp.Vector{X: origin.X, Y: origin.Z}
	hit := false
	pw.space.BBQuery(cp.NewBBForCircle(p, 0), queryFilter(layer), func(shape *cp.Shape, _ interface{}) {
		if hit {
			return
		}
		band, ok := shape.UserData.(verticalBand)
		if !ok {
			return
		}
		top := band.maxY
		if top > origin.Y || origin.Y-top > maxDistance {
			return
		}
		if shape.PointQuery(p).Distance <= 0 {
			hit = true
		}
	}, nil)
	return hit
}
