package game

import (
	"context"
	"path/filepath"

	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
	"github.com/milk9111/sentinel/prefabs"
)

// RequestReload queues a changed prefab path. It never blocks; requests
// beyond the buffer are dropped since the next one re-reads the same file.
func (g *Game) RequestReload(path string) bool {
	select {
	case g.reload <- path:
		return true
	default:
		g.logger.Warn("reload dropped", "path", path)
		return false
	}
}

// Watch forwards watcher events to the reload queue until ctx ends or the
// watcher closes.
func (g *Game) Watch(ctx context.Context, w *prefabs.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-w.Events:
			if !ok {
				return
			}
			g.RequestReload(path)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			g.logger.Warn("watch failed", "err", err)
		}
	}
}

func (g *Game) drainReloads() {
	for {
		select {
		case path := <-g.reload:
			g.applyReload(path)
		default:
			return
		}
	}
}

// applyReload re-reads the grid prefab and rebuilds the grid in place.
// Other files are logged and ignored.
func (g *Game) applyReload(path string) {
	name := filepath.Base(path)
	if g.scenario.Grid != nil || name != gridFile(g.scenario) {
		g.logger.Debug("reload ignored", "path", path)
		return
	}
	spec, err := prefabs.LoadSpec[prefabs.GridSpec](name)
	if err != nil {
		g.logger.Warn("grid reload failed", "path", path, "err", err)
		return
	}
	g.gridSpec = spec
	frame, cfg := g.gridConfig(spec)
	g.grid.Reconfigure(frame, cfg)
	if ng, ok := ecs.Get(g.world, g.gridEntity, component.NavGridComponent.Kind()); ok {
		ng.RealTime = spec.RealTime
		ng.UpdateInterval = spec.UpdateInterval
		ng.Timer = 0
	}
	g.world.Events().Push(ecs.Event{Type: ecs.EventGridRebuilt, Entity: g.gridEntity, Data: g.grid.WalkableCount()})
	for _, s := range g.sentinels {
		s.Pathfinder.RequestRepath()
	}
	g.logger.Info("grid reloaded", "size", g.grid.Size(), "walkable", g.grid.WalkableCount())
}

func gridFile(sc prefabs.ScenarioSpec) string {
	if sc.GridSpec == "" {
		return prefabs.GridFile
	}
	return filepath.Base(sc.GridSpec)
}
