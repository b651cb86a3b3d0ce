package pubsub

import "context"

// ContinuousListener wraps a broker subscription with a blocking receive
// that distinguishes delivery from shutdown.
type ContinuousListener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// NewContinuousListener creates a new listener that subscribes to the broker.
// The subscription is automatically cleaned up when the context is cancelled.
func NewContinuousListener[T any](ctx context.Context, broker *Broker[T]) *ContinuousListener[T] {
	return &ContinuousListener[T]{
		ctx: ctx,
		ch:  broker.Subscribe(ctx),
	}
}

// Next blocks until the next event arrives. The second return is false when
// the context is cancelled or the broker closes the subscription.
func (l *ContinuousListener[T]) Next() (Event[T], bool) {
	select {
	case <-l.ctx.Done():
		return Event[T]{}, false
	case event, ok := <-l.ch:
		if !ok {
			return Event[T]{}, false
		}
		return event, true
	}
}

// Events exposes the subscription channel for use in select loops.
func (l *ContinuousListener[T]) Events() <-chan Event[T] {
	return l.ch
}
