package system

import (
	"log/slog"

	"github.com/milk9111/sentinel/behavior"
	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
)

// AISystem ticks every behavior tree once per step.
type AISystem struct {
	logger *slog.Logger
	last   map[ecs.Entity]behavior.State
}

func NewAISystem(logger *slog.Logger) *AISystem {
	if logger == nil {
		logger = slog.Default()
	}
	return &AISystem{logger: logger, last: make(map[ecs.Entity]behavior.State)}
}

func (s *AISystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	ecs.ForEach(w, component.BrainComponent.Kind(), func(e ecs.Entity, brain *component.Brain) {
		if brain.Controller == nil {
			return
		}
		state := brain.Controller.Tick()
		if prev, ok := s.last[e]; ok && prev == state {
			return
		}
		s.last[e] = state
		s.logger.Debug("tree state", "entity", uint64(e), "agent", brain.Controller.Name(), "state", state)
		w.Events().Push(ecs.Event{Type: ecs.EventStateChange, Entity: e, Data: state})
	})
}
