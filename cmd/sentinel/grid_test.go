package main

import (
	"testing"

	"github.com/milk9111/sentinel/common"
	"github.com/milk9111/sentinel/navigation"
	"github.com/stretchr/testify/assert"
)

type blocked map[[2]int]bool

func (b blocked) OverlapsUnwalkable(c common.Vec3, _ float64) bool {
	return b[[2]int{int(c.X), int(c.Z)}]
}

func (blocked) ProbeGround(common.Vec3, float64, navigation.Layer) bool {
	return true
}

func TestRenderGrid(t *testing.T) {
	frame := common.Pose{Position: common.Vec3{X: 1, Z: 0.5}, Rotation: common.Identity}
	grid := navigation.NewGrid(frame, navigation.GridConfig{
		Extent:     common.Vec3{X: 3, Y: 1, Z: 2},
		NodeRadius: 0.5,
	}, blocked{{2, 1}: true})

	assert.Equal(t, "layer 0\n..#\n...\n", renderGrid(grid))
}

func TestSearchPath(t *testing.T) {
	frame := common.Pose{Position: common.Vec3{X: 1, Z: 1}, Rotation: common.Identity}
	grid := navigation.NewGrid(frame, navigation.GridConfig{
		Extent:     common.Vec3{X: 3, Y: 1, Z: 3},
		NodeRadius: 0.5,
	}, blocked{{1, 0}: true})

	path, ok := searchPath(grid, navigation.DefaultCosts, common.Vec3{}, common.Vec3{X: 2})
	assert.True(t, ok)
	assert.Equal(t, []common.Vec3{{}, {X: 1, Z: 1}, {X: 2}}, path)

	_, ok = searchPath(grid, navigation.DefaultCosts, common.Vec3{}, common.Vec3{X: 5})
	assert.False(t, ok, "target outside the grid")

	walled := navigation.NewGrid(frame, navigation.GridConfig{
		Extent:     common.Vec3{X: 3, Y: 1, Z: 3},
		NodeRadius: 0.5,
	}, blocked{{1, 0}: true, {1, 1}: true, {1, 2}: true})
	_, ok = searchPath(walled, navigation.DefaultCosts, common.Vec3{}, common.Vec3{X: 2})
	assert.False(t, ok)
}
