package messaging

import (
	"context"
	"errors"
	"sync"
)

// ErrBusClosed is returned when publishing on a closed bus
var ErrBusClosed = errors.New("command bus is closed")

// Handler receives decoded commands
type Handler func(Command)

// Bus carries commands from senders to the daemon
type Bus interface {
	Publish(ctx context.Context, cmd Command) error
	Subscribe(h Handler) (unsubscribe func() error, err error)
	Close() error
}

// LocalBus delivers commands to in-process subscribers synchronously
type LocalBus struct {
	mu       sync.RWMutex
	handlers map[int]Handler
	next     int
	closed   bool
}

// NewLocalBus creates an in-process bus
func NewLocalBus() *LocalBus {
	return &LocalBus{handlers: make(map[int]Handler)}
}

func (b *LocalBus) Publish(ctx context.Context, cmd Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := cmd.Validate(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}
	for _, h := range b.handlers {
		h(cmd)
	}
	return nil
}

func (b *LocalBus) Subscribe(h Handler) (func() error, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBusClosed
	}

	id := b.next
	b.next++
	b.handlers[id] = h
	return func() error {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
		return nil
	}, nil
}

func (b *LocalBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = make(map[int]Handler)
	return nil
}
