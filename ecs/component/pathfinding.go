package component

import "github.com/milk9111/sentinel/navigation"

// Navigator keeps an agent's pathfinder and the listener that mirrors its
// events into the world queue.
type Navigator struct {
	Pathfinder  *navigation.Pathfinder
	Unsubscribe func()
}

var NavigatorComponent = NewComponent[Navigator]()
