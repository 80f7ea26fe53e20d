package common

// Clock reports the duration of the current simulation step in seconds.
type Clock interface {
	DeltaTime() float64
}

// StepClock is a manually advanced Clock.
type StepClock struct {
	dt      float64
	elapsed float64
}

// Advance starts a new step of length dt.
func (c *StepClock) Advance(dt float64) {
	if dt < 0 {
		dt = 0
	}
	c.dt = dt
	c.elapsed += dt
}

func (c *StepClock) DeltaTime() float64 {
	if c == nil {
		return 0
	}
	return c.dt
}

func (c *StepClock) Elapsed() float64 {
	if c == nil {
		return 0
	}
	return c.elapsed
}
