package ecs

// Event is something that happened during a step, collected for whoever
// drains the queue afterwards.
type Event struct {
	Type   string
	Entity Entity
	Data   any
}

const (
	EventPathUpdated = "path_updated"
	EventGridRebuilt = "grid_rebuilt"
	EventStateChange = "state_changed"
)

// EventQueue is a FIFO of step events.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) Push(evt Event) {
	q.items = append(q.items, evt)
}

// Drain returns all queued events and empties the queue.
func (q *EventQueue) Drain() []Event {
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	return len(q.items)
}
