package component

// Waypoint is a patrol point owned by a named sentinel.
type Waypoint struct {
	Owner string
	Order int
}

var WaypointComponent = NewComponent[Waypoint]()
