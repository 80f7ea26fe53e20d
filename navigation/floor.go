package navigation

import "github.com/milk9111/sentinel/common"

const defaultFloorHeight = 1.0

// Floor is a rectangular region on the horizontal plane, such as a room's
// detected floor.
type Floor struct {
	Center common.Vec3
	Width  float64
	Depth  float64
	Yaw    float64
}

// GridFromFloor returns a frame and extent that cover floor: centered on it,
// turned by its yaw only, height tall.
func GridFromFloor(floor Floor, height float64) (common.Pose, common.Vec3) {
	if height <= 0 {
		height = defaultFloorHeight
	}
	frame := common.Pose{
		Position: floor.Center,
		Rotation: common.QuatFromYaw(floor.Yaw),
	}
	return frame, common.Vec3{X: floor.Width, Y: height, Z: floor.Depth}
}
