// Package event carries UI refresh and persistence notifications between
// the core and its front ends.
package event

import "context"

// Capacity bounds the queue. Senders block once it is full.
const Capacity = 1000

type Kind int

const (
	RebuildTrayMenu Kind = iota
	SaveConfig
	ClipboardChanged
	PinnedClipsChanged
)

func (k Kind) String() string {
	switch k {
	case RebuildTrayMenu:
		return "rebuild-tray-menu"
	case SaveConfig:
		return "save-config"
	case ClipboardChanged:
		return "clipboard-changed"
	case PinnedClipsChanged:
		return "pinned-clips-changed"
	}
	return "unknown"
}

// Event is a notification. ID is the clip concerned, when there is one.
type Event struct {
	Kind Kind
	ID   int64
}

type Bus struct {
	ch chan Event
}

func NewBus() *Bus {
	return &Bus{ch: make(chan Event, Capacity)}
}

// Send queues e, waiting for room or for ctx to end.
func (b *Bus) Send(ctx context.Context, e Event) error {
	select {
	case b.ch <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySend queues e unless the bus is full.
func (b *Bus) TrySend(e Event) bool {
	select {
	case b.ch <- e:
		return true
	default:
		return false
	}
}

// Events is the receive side. A bus has a single consumer.
func (b *Bus) Events() <-chan Event {
	return b.ch
}
