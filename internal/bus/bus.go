// Package bus is the in-process event bus. Publishers run on the dispatch
// goroutine, so nothing in here is allowed to block.
package bus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

var _ctx = context.Background()

// SetContext sets the context handed to subscriber callbacks.
func SetContext(ctx context.Context) {
	_ctx = ctx
}

var subs = make(map[string][]func(ctx context.Context, T any))

// Subscribe registers a callback for every published event of type T.
// Callbacks run synchronously on the publisher's goroutine and must not
// block; hand slow work a Hub mailbox instead.
func Subscribe[T any](name string, fn func(ctx context.Context, event T) error) {
	topic := fmt.Sprintf("%T", *new(T))
	subs[topic] = append(subs[topic], func(ctx context.Context, event any) {
		if err := fn(ctx, event.(T)); err != nil {
			slog.Error("Failed to handle event", "package", "bus", "name", name, "error", err)
		}
	})
}

// Publish delivers the event to every subscriber of its type.
func Publish[T any](event T) {
	for _, fn := range subs[fmt.Sprintf("%T", event)] {
		fn(_ctx, event)
	}
}

// Hub fans events of one type out to dynamic subscribers. Every
// subscriber owns a one-slot mailbox: a consumer that stops receiving
// only ever loses stale events, never stalls the publisher.
type Hub[T any] struct {
	mu   sync.Mutex
	subs map[*chan T]struct{}
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{
		subs: make(map[*chan T]struct{}),
	}
}

// Broadcast places the event in every subscriber mailbox without
// blocking. A full mailbox is drained first so the slot always holds the
// latest event.
func (h *Hub[T]) Broadcast(ctx context.Context, event T) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		select {
		case *sub <- event:
			continue
		default:
		}
		select {
		case <-*sub:
		default:
		}
		// The hub is the only sender, so the slot is free now.
		*sub <- event
	}

	return nil
}

// Register wires the hub as a bus subscriber for its event type.
func (h *Hub[T]) Register() *Hub[T] {
	Subscribe("bus.Hub", h.Broadcast)
	return h
}

// Subscribe adds a mailbox and returns it with its cancel function.
func (h *Hub[T]) Subscribe() (<-chan T, func()) {
	h.mu.Lock()
	c := make(chan T, 1)

	key := &c
	h.subs[key] = struct{}{}
	h.mu.Unlock()

	return c, func() {
		h.mu.Lock()
		delete(h.subs, key)
		h.mu.Unlock()
	}
}
