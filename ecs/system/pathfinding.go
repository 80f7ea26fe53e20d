package system

import (
	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
)

// PathfindingSystem advances every pathfinder's repath guard. It runs after
// the AI pass, so paths requested this step reach Move leaves next step.
type PathfindingSystem struct{}

func NewPathfindingSystem() *PathfindingSystem {
	return &PathfindingSystem{}
}

func (ps *PathfindingSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach(w, component.NavigatorComponent.Kind(), func(e ecs.Entity, nav *component.Navigator) {
		if nav.Pathfinder == nil {
			return
		}
		nav.Pathfinder.Update(dt)
	})
}
