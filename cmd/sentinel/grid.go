package main

import (
	"fmt"
	"strings"

	"github.com/milk9111/sentinel/game"
	"github.com/milk9111/sentinel/navigation"
	"github.com/spf13/cobra"
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Print the scenario grid's walkability, one map per layer",
	RunE: func(cmd *cobra.Command, _ []string) error {
		g, _, err := newGame(game.Options{Seed: 1})
		if err != nil {
			return err
		}
		defer g.Close()

		grid := g.Grid()
		size := grid.Size()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "size %dx%dx%d diameter %.2f walkable %d\n", size.X, size.Y, size.Z, grid.Diameter(), grid.WalkableCount())
		fmt.Fprint(out, renderGrid(grid))
		return nil
	},
}

// renderGrid draws each Y layer top-down with +Z up the page.
func renderGrid(grid *navigation.Grid) string {
	size := grid.Size()
	var b strings.Builder
	for y := 0; y < size.Y; y++ {
		fmt.Fprintf(&b, "layer %d\n", y)
		for z := size.Z - 1; z >= 0; z-- {
			for x := 0; x < size.X; x++ {
				c, _ := grid.Cell(navigation.Coord{X: x, Y: y, Z: z})
				if c.Walkable {
					b.WriteByte('.')
				} else {
					b.WriteByte('#')
				}
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}
