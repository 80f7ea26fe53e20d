package system

import (
	"github.com/milk9111/sentinel/common"
	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
)

// RouteSystem moves scripted entities, such as the tracked player, along
// their routes.
type RouteSystem struct{}

func NewRouteSystem() *RouteSystem {
	return &RouteSystem{}
}

func (s *RouteSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach2(w, component.RouteComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, r *component.Route, t *component.Transform) {
		if t.Pose == nil || r.Speed <= 0 {
			return
		}
		budget := r.Speed * dt
		// At most one lap per step, so a degenerate looping route ends.
		for legs := 0; legs < len(r.Points) && budget > 0 && !r.Done(); legs++ {
			target := r.Points[r.Next]
			d := common.Distance(t.Pose.Position, target)
			if d > budget {
				t.Pose.Position = common.MoveTowards(t.Pose.Position, target, budget)
				return
			}
			t.Pose.Position = target
			budget -= d
			r.Next++
			if r.Done() && r.Loop {
				r.Next = 0
			}
		}
	})
}
