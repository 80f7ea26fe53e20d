package system

import (
	"math"

	"github.com/milk9111/sentinel/common"
	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
)

// VisionSystem latches a sighting when the player stands inside a
// sentinel's view cone. Sightings stay latched until reset elsewhere.
type VisionSystem struct{}

func NewVisionSystem() *VisionSystem {
	return &VisionSystem{}
}

func (s *VisionSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	playerEnt, _, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	player, ok := ecs.Get(w, playerEnt, component.TransformComponent.Kind())
	if !ok || player.Pose == nil {
		return
	}
	ecs.ForEach2(w, component.VisionComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, v *component.Vision, t *component.Transform) {
		if v.Sightings == nil || t.Pose == nil || v.Sightings.Seen() {
			return
		}
		if inCone(t.Pose, player.Pose.Position, v.Range, v.FOV) {
			v.Sightings.Trigger()
		}
	})
}

// inCone tests p against a horizontal cone of the given range and full
// angle in front of pose.
func inCone(pose *common.Pose, p common.Vec3, rng, fov float64) bool {
	to := p.Sub(pose.Position).Flat()
	dist := to.Len()
	if dist > rng {
		return false
	}
	if dist == 0 || fov >= 2*math.Pi {
		return true
	}
	fwd := pose.Forward().Flat().Normalize()
	cos := fwd.Dot(to.Scale(1 / dist))
	return cos >= math.Cos(fov/2)
}
