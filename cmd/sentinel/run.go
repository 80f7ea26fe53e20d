package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/milk9111/sentinel/behavior"
	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/events"
	"github.com/milk9111/sentinel/game"
	"github.com/milk9111/sentinel/navigation"
	"github.com/milk9111/sentinel/prefabs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scenario",
	Long: `Run steps the scenario and prints path, grid and behavior state events.
With --realtime the simulation is paced at --tps; otherwise --ticks steps
run as fast as possible.`,
	RunE: runScenario,
}

func init() {
	flags := runCmd.Flags()
	flags.Int("tps", game.DefaultTPS, "simulation steps per second")
	flags.Int("ticks", 600, "steps to run; 0 runs until interrupted (realtime only)")
	flags.Bool("realtime", false, "pace steps on a wall-clock ticker")
	flags.Bool("watch", false, "reload the grid prefab when it changes on disk")
	flags.Uint64("seed", 0, "random seed for patrol waits; 0 picks one")
	for _, name := range []string{"tps", "ticks", "realtime", "watch", "seed"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

func runScenario(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := events.NewBus(nil)
	defer bus.Close()

	g, logger, err := newGame(game.Options{Bus: bus, Seed: viper.GetUint64("seed")})
	if err != nil {
		return err
	}
	defer g.Close()

	if viper.GetBool("watch") {
		dirs := []string{prefabs.Dir}
		if scripts := filepath.Join(prefabs.Dir, "scripts"); dirExists(scripts) {
			dirs = append(dirs, scripts)
		}
		w, err := prefabs.NewWatcher(logger, dirs...)
		if err != nil {
			return fmt.Errorf("watch %s: %w", prefabs.Dir, err)
		}
		defer w.Close()
		go g.Watch(ctx, w)
	}

	out := cmd.OutOrStdout()
	report := func(tick int, evs []ecs.Event) {
		for _, ev := range evs {
			name := ""
			for _, s := range g.Sentinels() {
				if s.Entity == ev.Entity {
					name = s.Name
				}
			}
			switch data := ev.Data.(type) {
			case navigation.PathUpdated:
				fmt.Fprintf(out, "%6.2fs %-10s path found=%v waypoints=%d\n", g.Elapsed(), name, data.Found(), len(data.Path))
			case behavior.State:
				fmt.Fprintf(out, "%6.2fs %-10s state=%s\n", g.Elapsed(), name, data)
			case int:
				fmt.Fprintf(out, "%6.2fs %-10s grid rebuilt walkable=%d\n", g.Elapsed(), "grid", data)
			}
		}
	}

	tps := viper.GetInt("tps")
	ticks := viper.GetInt("ticks")
	if viper.GetBool("realtime") {
		err = g.Run(ctx, game.RunOptions{TPS: tps, MaxTicks: ticks, OnStep: report})
	} else {
		if tps <= 0 {
			tps = game.DefaultTPS
		}
		dt := 1 / float64(tps)
		for i := 0; i < ticks && ctx.Err() == nil; i++ {
			report(i+1, g.Update(dt))
		}
	}
	if err != nil {
		return err
	}

	for _, s := range g.Sentinels() {
		p := s.Pose.Position
		fmt.Fprintf(out, "%s at (%.2f, %.2f, %.2f) state=%s\n", s.Name, p.X, p.Y, p.Z, s.Controller.LastState())
	}
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

