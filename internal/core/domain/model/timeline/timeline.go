// Package timeline models the merged status timeline of an order.
package timeline

import "tracking/internal/core/domain/model/kernel"

// Event is one entry of a merged timeline.
type Event struct {
	StatusLabel string
	Timestamp   kernel.Timestamp
}

// NewEvent builds a timeline event.
func NewEvent(label string, ts kernel.Timestamp) Event {
	return Event{StatusLabel: label, Timestamp: ts}
}

// Key identifies duplicates: two events with the same label and the same
// rendered timestamp are the same entry.
type Key struct {
	StatusLabel string
	Rendered    string
}

func (e Event) Key() Key {
	return Key{StatusLabel: e.StatusLabel, Rendered: e.Timestamp.String()}
}
