package agent

// Sightings latches a trigger-style sighting: once the tracked target enters
// an agent's vision volume it stays seen until Reset.
type Sightings struct {
	seen bool
}

func (s *Sightings) Trigger() {
	s.seen = true
}

func (s *Sightings) Reset() {
	s.seen = false
}

func (s *Sightings) Seen() bool {
	return s != nil && s.seen
}
