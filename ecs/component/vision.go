package component

import "github.com/milk9111/sentinel/agent"

// Vision is a sentinel's view cone. FOV is the full cone angle in radians.
type Vision struct {
	Range     float64
	FOV       float64
	Sightings *agent.Sightings
}

var VisionComponent = NewComponent[Vision]()
