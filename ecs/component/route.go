package component

import "github.com/milk9111/sentinel/common"

// Route walks an entity through Points at Speed units per second.
type Route struct {
	Points []common.Vec3
	Speed  float64
	Loop   bool
	Next   int
}

// Done reports whether a non-looping route has reached its last point.
func (r *Route) Done() bool {
	return r.Next >= len(r.Points)
}

var RouteComponent = NewComponent[Route]()
