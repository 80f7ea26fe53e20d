package component

import "github.com/milk9111/sentinel/common"

// Transform holds the pose handle shared with pathfinders and trees.
type Transform struct {
	Pose *common.Pose
}

var TransformComponent = NewComponent[Transform]()
