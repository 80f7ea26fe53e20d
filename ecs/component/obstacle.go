package component

import "github.com/milk9111/sentinel/common"

// Obstacle is unwalkable geometry that exists between AppearAt and VanishAt
// seconds of simulated time. VanishAt <= 0 means it never goes away.
type Obstacle struct {
	Center   common.Vec3
	Size     common.Vec3
	AppearAt float64
	VanishAt float64

	ShapeID int
	Present bool
}

var ObstacleComponent = NewComponent[Obstacle]()
