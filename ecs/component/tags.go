package component

// PlayerTag marks the tracked target.
type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()
