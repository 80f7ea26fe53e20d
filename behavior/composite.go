package behavior

// Sequence evaluates children in order and returns the first result that is
// not Success. It keeps no memory between ticks.
type Sequence struct {
	Children []Node
}

func NewSequence(children ...Node) *Sequence {
	return &Sequence{Children: children}
}

func (s *Sequence) Evaluate() State {
	for _, child := range s.Children {
		if state := child.Evaluate(); state != Success {
			return state
		}
	}
	return Success
}

// Selector evaluates children in order and returns the first result that is
// not Failure.
type Selector struct {
	Children []Node
}

func NewSelector(children ...Node) *Selector {
	return &Selector{Children: children}
}

func (s *Selector) Evaluate() State {
	for _, child := range s.Children {
		if state := child.Evaluate(); state != Failure {
			return state
		}
	}
	return Failure
}

// PersistentSelector is a Selector that resumes at the child which last
// returned Running.
type PersistentSelector struct {
	Children []Node
	current  int
}

func NewPersistentSelector(children ...Node) *PersistentSelector {
	return &PersistentSelector{Children: children}
}

func (s *PersistentSelector) Evaluate() State {
	for s.current < len(s.Children) {
		switch s.Children[s.current].Evaluate() {
		case Running:
			return Running
		case Success:
			s.current = 0
			return Success
		}
		s.current++
	}
	s.current = 0
	return Failure
}

// Current is the index evaluation will resume from.
func (s *PersistentSelector) Current() int {
	return s.current
}

// Parallel evaluates every child on every tick. It fails if any child
// failed, runs if any child is running, and succeeds otherwise.
type Parallel struct {
	Children []Node
}

func NewParallel(children ...Node) *Parallel {
	return &Parallel{Children: children}
}

func (p *Parallel) Evaluate() State {
	failed, running := false, false
	for _, child := range p.Children {
		switch child.Evaluate() {
		case Failure:
			failed = true
		case Running:
			running = true
		}
	}
	switch {
	case failed:
		return Failure
	case running:
		return Running
	default:
		return Success
	}
}
