package main

import (
	"fmt"

	"github.com/milk9111/sentinel/common"
	"github.com/milk9111/sentinel/game"
	"github.com/milk9111/sentinel/navigation"
	"github.com/spf13/cobra"
)

var pathCmd = &cobra.Command{
	Use:   "path <from-x> <from-y> <from-z> <to-x> <to-y> <to-z>",
	Short: "Search one path on the scenario grid",
	Args:  cobra.ExactArgs(6),
	RunE: func(cmd *cobra.Command, args []string) error {
		var v [6]float64
		for i, a := range args {
			if _, err := fmt.Sscanf(a, "%g", &v[i]); err != nil {
				return fmt.Errorf("argument %d: %q is not a number", i+1, a)
			}
		}
		from := common.Vec3{X: v[0], Y: v[1], Z: v[2]}
		to := common.Vec3{X: v[3], Y: v[4], Z: v[5]}

		g, _, err := newGame(game.Options{Seed: 1})
		if err != nil {
			return err
		}
		defer g.Close()

		costs := navigation.DefaultCosts
		if sentinels := g.Sentinels(); len(sentinels) > 0 {
			costs = sentinels[0].Pathfinder.Costs()
		}

		out := cmd.OutOrStdout()
		path, ok := searchPath(g.Grid(), costs, from, to)
		if !ok {
			fmt.Fprintln(out, "no path")
			return nil
		}
		for _, p := range path {
			fmt.Fprintf(out, "%.2f %.2f %.2f\n", p.X, p.Y, p.Z)
		}
		return nil
	},
}

// searchPath runs one search between the cells nearest from and to.
func searchPath(grid *navigation.Grid, costs navigation.Costs, from, to common.Vec3) ([]common.Vec3, bool) {
	if !grid.IsInside(to) {
		return nil, false
	}
	cells := grid.FindCells(grid.CellFromWorld(from), grid.CellFromWorld(to), costs)
	if cells == nil {
		return nil, false
	}
	path := make([]common.Vec3, len(cells))
	for i, c := range cells {
		path[i] = c.World
	}
	return path, true
}
