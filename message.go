package arbor

import (
	"fmt"
	"sync"
)

// Direction tells whether a message is a request or a notification.
type Direction uint8

const (
	// ToWidget asks the destination to become some state.
	ToWidget Direction = iota
	// FromWidget reports that the destination's state actually changed.
	FromWidget
)

func (d Direction) String() string {
	if d == FromWidget {
		return "FromWidget"
	}
	return "ToWidget"
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == FromWidget {
		return ToWidget
	}
	return FromWidget
}

// Message is a routed record addressed to a node. Everything except the
// handled flag is fixed at construction; handlers that want to report a
// state change push a reversed copy instead of editing the original.
//
// The payload is one of the message structs declared next to each widget
// family (Visibility, TileContent, TreeExpand, ...). Use MessageAs to read it.
type Message struct {
	data          any
	destination   Handle
	direction     Direction
	handled       bool
	performLayout bool
}

// NewMessage builds a message. Widget families wrap this in typed
// constructors; external collaborators may define their own payload types.
func NewMessage(destination Handle, direction Direction, data any) *Message {
	return &Message{data: data, destination: destination, direction: direction}
}

// Data returns the payload.
func (m *Message) Data() any { return m.data }

// Destination returns the addressed node.
func (m *Message) Destination() Handle { return m.destination }

// Direction returns the message direction.
func (m *Message) Direction() Direction { return m.direction }

// Handled reports whether a handler has fully processed the message.
func (m *Message) Handled() bool { return m.handled }

// SetHandled marks the message as processed. Ancestors still see it while
// it bubbles, but should not act on it as unprocessed.
func (m *Message) SetHandled(handled bool) { m.handled = handled }

// PerformLayout reports whether layout must converge before delivery.
func (m *Message) PerformLayout() bool { return m.performLayout }

// WithLayout returns m flagged to run layout before delivery.
func (m *Message) WithLayout() *Message {
	m.performLayout = true
	return m
}

// Reverse returns a copy with the opposite direction and a cleared handled
// flag. This is how a handler echoes an applied ToWidget request.
func (m *Message) Reverse() *Message {
	return &Message{
		data:          m.data,
		destination:   m.destination,
		direction:     m.direction.Reverse(),
		performLayout: m.performLayout,
	}
}

// IsFor reports whether m is addressed to h with direction d.
func (m *Message) IsFor(h Handle, d Direction) bool {
	return m.destination == h && m.direction == d
}

func (m *Message) String() string {
	return fmt.Sprintf("%T%+v -> %s (%s)", m.data, m.data, m.destination, m.direction)
}

// MessageAs returns the payload of m as T. It is the single fallible
// payload cast; handlers switch on it rather than chaining assertions.
func MessageAs[T any](m *Message) (T, bool) {
	v, ok := m.data.(T)
	return v, ok
}

// --- Bus ---

// Sender is the write side of a message bus. It is the only part of the UI
// that may be used from other goroutines.
type Sender interface {
	Send(m *Message)
}

// Bus is a FIFO message queue. Pushes are safe from any goroutine; popping
// belongs to the frame loop. Messages pushed while the queue is being
// drained are delivered in the same drain.
type Bus struct {
	mu    sync.Mutex
	queue []*Message
	head  int
}

// Send appends m to the queue.
func (b *Bus) Send(m *Message) {
	if m == nil {
		return
	}
	b.mu.Lock()
	b.queue = append(b.queue, m)
	b.mu.Unlock()
}

// Poll pops the oldest message.
func (b *Bus) Poll() (*Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.head >= len(b.queue) {
		return nil, false
	}
	m := b.queue[b.head]
	b.queue[b.head] = nil
	b.head++
	if b.head == len(b.queue) {
		b.queue = b.queue[:0]
		b.head = 0
	}
	return m, true
}

// Peek returns the oldest message without removing it.
func (b *Bus) Peek() (*Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.head >= len(b.queue) {
		return nil, false
	}
	return b.queue[b.head], true
}

// Len returns the number of pending messages.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue) - b.head
}
