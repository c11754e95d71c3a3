// Package input defines the window-system independent events delivered to the scene.
package input

// EventType identifies the kind of an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventResize
	EventKeyDown
	EventPointerMove
	EventPointerButton
	EventScroll
	EventRedraw
)

// Button identifies a pointer button.
type Button uint8

const (
	ButtonOther Button = iota
	ButtonPrimary
	ButtonSecondary
	ButtonMiddle
)

// Key identifies the few keys the viewer reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
)

// Event is a processed host event. Only the fields relevant to Type are set.
type Event struct {
	Type EventType

	// Pointer position in window-logical coordinates
	X, Y float64

	Button  Button
	Pressed bool

	Scroll ScrollDelta

	Width  int
	Height int

	Key Key
}

// Queue collects events between two polls. Hosts push from their native
// callbacks; the application drains once per frame.
type Queue struct {
	events []Event
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		events: make([]Event, 0, 16),
	}
}

// Push appends an event.
func (q *Queue) Push(e Event) {
	q.events = append(q.events, e)
}

// Events returns the pending events.
func (q *Queue) Events() []Event {
	return q.events
}

// Reset drops all pending events, keeping the backing storage.
func (q *Queue) Reset() {
	q.events = q.events[:0]
}

// QuitRequested reports whether a quit event or Escape is pending.
func (q *Queue) QuitRequested() bool {
	for _, e := range q.events {
		if e.Type == EventQuit {
			return true
		}
		if e.Type == EventKeyDown && e.Key == KeyEscape {
			return true
		}
	}
	return false
}
