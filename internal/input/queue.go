package input

// Queue buffers events between host callbacks and the next tick. It is owned
// by the UI thread.
type Queue struct {
	events []Event
}

// Push appends ev.
func (q *Queue) Push(ev Event) { q.events = append(q.events, ev) }

// Len returns the number of pending events.
func (q *Queue) Len() int { return len(q.events) }

// Drain returns the pending events in arrival order and empties the queue.
func (q *Queue) Drain() []Event {
	evs := q.events
	q.events = nil
	return evs
}
