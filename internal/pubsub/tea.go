package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Batch is the message a Feed delivers: the newest queued event and how many
// older ones it replaced.
type Batch[T any] struct {
	Latest  Event[T]
	Skipped int
}

// Feed drives a Bubble Tea program from one subscription. A view only ever
// shows the newest event, so events queued while the program was busy are
// collapsed into a single Batch instead of being redrawn one by one.
type Feed[T any] struct {
	ctx    context.Context
	events <-chan Event[T]
}

// NewFeed subscribes to sub for the lifetime of ctx.
func NewFeed[T any](ctx context.Context, sub Subscriber[T]) *Feed[T] {
	return &Feed[T]{ctx: ctx, events: sub.Subscribe(ctx)}
}

// Next returns a command that blocks until at least one event is queued and
// then yields a Batch. It yields nil once ctx is done or the subscription is
// closed. Handle the Batch and call Next again to keep receiving.
func (f *Feed[T]) Next() tea.Cmd {
	return func() tea.Msg {
		var b Batch[T]
		select {
		case <-f.ctx.Done():
			return nil
		case ev, ok := <-f.events:
			if !ok {
				return nil
			}
			b.Latest = ev
		}
		for {
			select {
			case ev, ok := <-f.events:
				if !ok {
					return b
				}
				b.Latest = ev
				b.Skipped++
			default:
				return b
			}
		}
	}
}
