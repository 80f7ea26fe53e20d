package system

import (
	"log/slog"

	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
	"github.com/milk9111/sentinel/navigation"
)

const defaultGridUpdateInterval = 0.5

// GridSystem rebuilds real-time grids whose walkable surface changed.
type GridSystem struct {
	logger *slog.Logger
}

func NewGridSystem(logger *slog.Logger) *GridSystem {
	if logger == nil {
		logger = slog.Default()
	}
	return &GridSystem{logger: logger}
}

func (s *GridSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach(w, component.NavGridComponent.Kind(), func(e ecs.Entity, ng *component.NavGrid) {
		if ng.Grid == nil || !ng.RealTime {
			return
		}
		interval := ng.UpdateInterval
		if interval <= 0 {
			interval = defaultGridUpdateInterval
		}
		ng.Timer += dt
		if ng.Timer < interval {
			return
		}
		ng.Timer = 0
		if !ng.Grid.HasChanged() {
			return
		}
		Rebuild(w, e, ng.Grid)
		s.logger.Debug("grid rebuilt", "entity", uint64(e), "walkable", ng.Grid.WalkableCount())
	})
}

// Rebuild re-initializes g and records the rebuild in the world queue.
func Rebuild(w *ecs.World, e ecs.Entity, g *navigation.Grid) {
	g.Initialize()
	w.Events().Push(ecs.Event{
		Type:   ecs.EventGridRebuilt,
		Entity: e,
		Data:   g.WalkableCount(),
	})
}
