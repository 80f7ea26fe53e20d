// Package game assembles a scenario into a running simulation: the ECS
// world, the physics space, one grid, the sentinels with their trees and
// pathfinders, and the tracked player.
package game

import (
	"errors"
	"log/slog"
	"math/rand/v2"

	"github.com/milk9111/sentinel/agent"
	"github.com/milk9111/sentinel/behavior"
	"github.com/milk9111/sentinel/common"
	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
	"github.com/milk9111/sentinel/ecs/system"
	"github.com/milk9111/sentinel/events"
	"github.com/milk9111/sentinel/navigation"
	"github.com/milk9111/sentinel/prefabs"
)

const reloadBuffer = 8

var ErrNoFloor = errors.New("game: scenario has no floor")

// Options configure a Game. Zero values are usable.
type Options struct {
	Logger *slog.Logger
	// Bus receives every step event when set.
	Bus  *events.Bus
	Seed uint64
}

// Sentinel is one patrolling agent and the handles the game keeps to it.
type Sentinel struct {
	Entity     ecs.Entity
	Name       string
	Pose       *common.Pose
	Controller *agent.Controller
	Pathfinder *navigation.Pathfinder
	Sightings  *agent.Sightings
}

type Game struct {
	world     *ecs.World
	physics   *ecs.PhysicsWorld
	scheduler *ecs.Scheduler
	obstacles *system.ObstacleSystem
	mission   *Mission
	scenario  prefabs.ScenarioSpec

	gridEntity ecs.Entity
	grid       *navigation.Grid
	gridSpec   prefabs.GridSpec

	sentinels []*Sentinel
	byEntity  map[ecs.Entity]*Sentinel
	player    *common.Pose

	reload chan string
	bus    *events.Bus
	rng    *rand.Rand
	ticks  int
	logger *slog.Logger
}

func New(scenario prefabs.ScenarioSpec, opts Options) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	world := ecs.NewWorld()
	physics := ecs.NewPhysicsWorld(logger)
	world.SetPhysicsWorld(physics)

	g := &Game{
		world:     world,
		physics:   physics,
		obstacles: system.NewObstacleSystem(),
		mission:   &Mission{},
		scenario:  scenario,
		byEntity:  make(map[ecs.Entity]*Sentinel),
		reload:    make(chan string, reloadBuffer),
		bus:       opts.Bus,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger:    logger.With("scenario", scenario.Name),
	}
	g.mission.SetFirstObjectiveSolved(scenario.Mission.Solved)

	if err := g.build(); err != nil {
		g.Close()
		return nil, err
	}

	g.scheduler = ecs.NewScheduler(
		g.obstacles,
		system.NewGridSystem(logger),
		system.NewRouteSystem(),
		system.NewVisionSystem(),
		system.NewAISystem(logger),
		system.NewPathfindingSystem(),
	)
	g.logger.Info("scenario loaded",
		"sentinels", len(g.sentinels),
		"cells", g.grid.Size(),
		"walkable", g.grid.WalkableCount(),
	)
	return g, nil
}

// Update runs one simulation step of dt seconds and returns the events it
// produced. Pending reloads are applied first.
func (g *Game) Update(dt float64) []ecs.Event {
	g.drainReloads()

	g.world.Advance(dt)
	if at := g.scenario.Mission.SolveAt; at > 0 && !g.mission.FirstObjectiveSolved() && g.world.Elapsed() >= at {
		g.mission.SetFirstObjectiveSolved(true)
		g.logger.Info("first objective solved", "time", g.world.Elapsed())
	}
	g.scheduler.Update(g.world)
	g.ticks++

	evs := g.world.Events().Drain()
	g.publish(evs)
	return evs
}

func (g *Game) publish(evs []ecs.Event) {
	if g.bus == nil {
		return
	}
	now := g.world.Elapsed()
	for _, ev := range evs {
		var err error
		switch data := ev.Data.(type) {
		case navigation.PathUpdated:
			msg := events.PathMessage{
				Agent: g.agentName(ev.Entity),
				Time:  now,
				Path:  data.Path,
				Found: data.Found(),
			}
			if data.Target != nil {
				pos := data.Target.Position
				msg.Target = &pos
			}
			err = g.bus.PublishPath(msg)
		case behavior.State:
			err = g.bus.PublishState(events.StateMessage{
				Agent: g.agentName(ev.Entity),
				Time:  now,
				State: data.String(),
			})
		case int:
			if ev.Type == ecs.EventGridRebuilt {
				err = g.bus.PublishGrid(events.GridMessage{Time: now, Walkable: data})
			}
		}
		if err != nil {
			g.logger.Warn("publish failed", "event", ev.Type, "err", err)
		}
	}
}

func (g *Game) agentName(e ecs.Entity) string {
	if s, ok := g.byEntity[e]; ok {
		return s.Name
	}
	return ""
}

// Close releases listeners and tree resources. The game is unusable after.
func (g *Game) Close() {
	ecs.ForEach(g.world, component.NavigatorComponent.Kind(), func(_ ecs.Entity, nav *component.Navigator) {
		if nav.Unsubscribe != nil {
			nav.Unsubscribe()
			nav.Unsubscribe = nil
		}
	})
	for _, s := range g.sentinels {
		if s.Controller != nil {
			s.Controller.Close()
		}
	}
	for e := range g.byEntity {
		ecs.DestroyEntity(g.world, e)
	}
}

func (g *Game) World() *ecs.World {
	return g.world
}

func (g *Game) Physics() *ecs.PhysicsWorld {
	return g.physics
}

func (g *Game) Grid() *navigation.Grid {
	return g.grid
}

func (g *Game) Mission() *Mission {
	return g.mission
}

func (g *Game) Sentinels() []*Sentinel {
	return append([]*Sentinel(nil), g.sentinels...)
}

// Sentinel finds a sentinel by name.
func (g *Game) Sentinel(name string) (*Sentinel, bool) {
	for _, s := range g.sentinels {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Player is the tracked pose, or nil when the scenario has no player.
func (g *Game) Player() *common.Pose {
	return g.player
}

func (g *Game) Ticks() int {
	return g.ticks
}

func (g *Game) Elapsed() float64 {
	return g.world.Elapsed()
}
