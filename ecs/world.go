package ecs

import (
	"github.com/milk9111/sentinel/common"
	"github.com/milk9111/sentinel/ecs/component"
)

// System updates a world once per simulation step.
type System interface {
	Update(w *World)
}

// World owns entities, their components, the step clock and the physics
// space used for spatial queries.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	clock    common.StepClock
	events   EventQueue
	physics  *PhysicsWorld
}

func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// Advance starts a new step of dt seconds.
func (w *World) Advance(dt float64) {
	w.clock.Advance(dt)
}

// DeltaTime is the length of the current step. It makes World a
// common.Clock.
func (w *World) DeltaTime() float64 {
	return w.clock.DeltaTime()
}

// Elapsed is the simulated time since the world was created.
func (w *World) Elapsed() float64 {
	return w.clock.Elapsed()
}

func (w *World) Events() *EventQueue {
	return &w.events
}

func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	w.physics = pw
}

func (w *World) PhysicsWorld() *PhysicsWorld {
	return w.physics
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes e and all of its components.
func DestroyEntity(w *World, e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e)
	}
	return w.entities.destroy(e)
}

func IsAlive(w *World, e Entity) bool {
	return w.entities.isAlive(e)
}

// Entities lists every live entity in slot order.
func Entities(w *World) []Entity {
	return w.entities.list()
}
