package component

import "github.com/milk9111/sentinel/navigation"

// NavGrid owns a walkable grid. A RealTime grid is re-checked every
// UpdateInterval seconds and rebuilt on a confirmed change.
type NavGrid struct {
	Grid           *navigation.Grid
	RealTime       bool
	UpdateInterval float64
	Timer          float64
}

var NavGridComponent = NewComponent[NavGrid]()
