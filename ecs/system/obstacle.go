package system

import (
	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
)

// ObstacleSystem adds and removes timed obstacles in the physics world.
// Grids notice the change through their own HasChanged checks.
type ObstacleSystem struct{}

func NewObstacleSystem() *ObstacleSystem {
	return &ObstacleSystem{}
}

func (s *ObstacleSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}
	now := w.Elapsed()
	ecs.ForEach(w, component.ObstacleComponent.Kind(), func(e ecs.Entity, o *component.Obstacle) {
		want := now >= o.AppearAt && (o.VanishAt <= 0 || now < o.VanishAt)
		switch {
		case want && !o.Present:
			o.ShapeID = pw.AddObstacleBox(o.Center, o.Size)
			o.Present = true
		case !want && o.Present:
			pw.Remove(o.ShapeID)
			o.ShapeID = 0
			o.Present = false
		}
	})
}
