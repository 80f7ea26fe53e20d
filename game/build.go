package game

import (
	"fmt"
	"math"
	"sort"

	"github.com/milk9111/sentinel/agent"
	"github.com/milk9111/sentinel/common"
	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
	"github.com/milk9111/sentinel/navigation"
	"github.com/milk9111/sentinel/prefabs"
)

func (g *Game) build() error {
	sc := g.scenario
	if len(sc.Floors) == 0 {
		return ErrNoFloor
	}
	for _, f := range sc.Floors {
		floor := f.Floor()
		g.physics.AddFloor(floor.Center, floor.Width, floor.Depth, floor.Yaw)
	}
	for _, o := range sc.Obstacles {
		e := ecs.CreateEntity(g.world)
		if err := ecs.Add(g.world, e, component.ObstacleComponent.Kind(), &component.Obstacle{
			Center:   o.Center,
			Size:     o.Size,
			AppearAt: o.AppearAt,
			VanishAt: o.VanishAt,
		}); err != nil {
			return fmt.Errorf("game: obstacle: %w", err)
		}
	}
	// Obstacles present at time zero must exist before the grid samples.
	g.obstacles.Update(g.world)

	if err := g.buildGrid(); err != nil {
		return err
	}
	if err := g.buildPlayer(); err != nil {
		return err
	}

	pfSpec, err := sc.ResolvePathfinder()
	if err != nil {
		return err
	}
	for i, placement := range sc.Sentinels {
		if err := g.buildSentinel(i, placement, pfSpec); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) buildGrid() error {
	spec, err := g.scenario.ResolveGrid()
	if err != nil {
		return err
	}
	g.gridSpec = spec
	frame, cfg := g.gridConfig(spec)
	g.grid = navigation.NewGrid(frame, cfg, g.physics)

	g.gridEntity = ecs.CreateEntity(g.world)
	return ecs.Add(g.world, g.gridEntity, component.NavGridComponent.Kind(), &component.NavGrid{
		Grid:           g.grid,
		RealTime:       spec.RealTime,
		UpdateInterval: spec.UpdateInterval,
	})
}

func (g *Game) gridConfig(spec prefabs.GridSpec) (common.Pose, navigation.GridConfig) {
	frame, extent := spec.Frame(&g.scenario.Floors[0])
	cfg := spec.Config()
	cfg.Extent = extent
	cfg.Logger = g.logger
	return frame, cfg
}

func (g *Game) buildPlayer() error {
	p := g.scenario.Player
	if p == nil {
		return nil
	}
	g.player = common.NewPose(p.Position)
	e := ecs.CreateEntity(g.world)
	if err := ecs.Add(g.world, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return err
	}
	if err := ecs.Add(g.world, e, component.TransformComponent.Kind(), &component.Transform{Pose: g.player}); err != nil {
		return err
	}
	if len(p.Route) == 0 {
		return nil
	}
	return ecs.Add(g.world, e, component.RouteComponent.Kind(), &component.Route{
		Points: append([]common.Vec3(nil), p.Route...),
		Speed:  p.Speed,
		Loop:   p.Loop,
	})
}

func (g *Game) buildSentinel(i int, placement prefabs.SentinelPlacement, pfSpec prefabs.PathfinderSpec) error {
	spec, err := placement.ResolveSentinel()
	if err != nil {
		return err
	}
	if spec.Name == "" {
		spec.Name = "sentinel"
	}
	if _, taken := g.Sentinel(spec.Name); taken {
		spec.Name = fmt.Sprintf("%s-%d", spec.Name, i)
	}
	var script []byte
	if spec.GateScript != "" {
		script, err = prefabs.LoadScript(spec.GateScript)
		if err != nil {
			return fmt.Errorf("game: sentinel %s: load script %s: %w", spec.Name, spec.GateScript, err)
		}
	}

	pose := &common.Pose{
		Position: placement.Position,
		Rotation: common.QuatFromYaw(placement.Yaw * math.Pi / 180),
	}
	pfCfg := pfSpec.Config()
	pfCfg.Logger = g.logger.With("agent", spec.Name)
	pf := navigation.NewPathfinder(g.grid, pose, pfCfg)

	s := &Sentinel{
		Entity:     ecs.CreateEntity(g.world),
		Name:       spec.Name,
		Pose:       pose,
		Pathfinder: pf,
	}
	deps := agent.Deps{
		Pose:       pose,
		Pathfinder: pf,
		Tracked:    g.player,
		Mission:    g.mission,
		Clock:      g.world,
		Rand:       g.rng,
		Logger:     g.logger,
	}
	if spec.Vision.Range > 0 {
		s.Sightings = &agent.Sightings{}
		deps.Vision = s.Sightings
	}
	ctrl, err := agent.NewController(deps, spec.Options(script))
	if err != nil {
		return fmt.Errorf("game: sentinel %s: %w", spec.Name, err)
	}
	s.Controller = ctrl
	g.sentinels = append(g.sentinels, s)
	g.byEntity[s.Entity] = s

	for order, wp := range placement.Waypoints {
		we := ecs.CreateEntity(g.world)
		if err := ecs.Add(g.world, we, component.WaypointComponent.Kind(), &component.Waypoint{Owner: spec.Name, Order: order}); err != nil {
			return err
		}
		if err := ecs.Add(g.world, we, component.TransformComponent.Kind(), &component.Transform{Pose: common.NewPose(wp)}); err != nil {
			return err
		}
	}
	ctrl.SetTargets(g.waypoints(spec.Name))

	e := s.Entity
	unsubscribe := pf.OnPathUpdated(func(ev navigation.PathUpdated) {
		g.world.Events().Push(ecs.Event{Type: ecs.EventPathUpdated, Entity: e, Data: ev})
	})
	adds := []error{
		ecs.Add(g.world, e, component.TransformComponent.Kind(), &component.Transform{Pose: pose}),
		ecs.Add(g.world, e, component.BrainComponent.Kind(), &component.Brain{Controller: ctrl}),
		ecs.Add(g.world, e, component.NavigatorComponent.Kind(), &component.Navigator{Pathfinder: pf, Unsubscribe: unsubscribe}),
	}
	if s.Sightings != nil {
		adds = append(adds, ecs.Add(g.world, e, component.VisionComponent.Kind(), &component.Vision{
			Range:     spec.Vision.Range,
			FOV:       spec.FOVRadians(),
			Sightings: s.Sightings,
		}))
	}
	for _, err := range adds {
		if err != nil {
			return fmt.Errorf("game: sentinel %s: %w", spec.Name, err)
		}
	}
	g.logger.Debug("sentinel spawned", "agent", spec.Name, "position", pose.Position, "waypoints", len(placement.Waypoints))
	return nil
}

// waypoints returns the patrol poses owned by name in patrol order.
func (g *Game) waypoints(name string) []*common.Pose {
	type entry struct {
		order int
		pose  *common.Pose
	}
	var found []entry
	ecs.ForEach2(g.world, component.WaypointComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, wp *component.Waypoint, t *component.Transform) {
		if wp.Owner == name {
			found = append(found, entry{order: wp.Order, pose: t.Pose})
		}
	})
	sort.SliceStable(found, func(i, j int) bool { return found[i].order < found[j].order })
	out := make([]*common.Pose, len(found))
	for i, f := range found {
		out[i] = f.pose
	}
	return out
}
