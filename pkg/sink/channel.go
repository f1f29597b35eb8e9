package sink

import (
	"context"
	"fmt"
	"sync"
)

// Channel is an in-memory Sink backed by a buffered channel. It stands in for
// the framework's collector in local runs and tests.
type Channel struct {
	messages chan Message
	mu       sync.Mutex
	closed   bool
}

func NewChannel(buffer int) *Channel {
	return &Channel{
		messages: make(chan Message, buffer),
	}
}

func (c *Channel) Emit(ctx context.Context, key string, fields map[string]any) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("sink is closed")
	}
	c.mu.Unlock()

	select {
	case c.messages <- Message{Key: key, Fields: fields}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Channel) Ping(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("sink is closed")
	}
	return nil
}

// Messages exposes the receive side of the channel.
func (c *Channel) Messages() <-chan Message {
	return c.messages
}

// Drain closes the sink and collects everything buffered so far.
func (c *Channel) Drain() []Message {
	_ = c.Close()
	drained := make([]Message, 0, len(c.messages))
	for msg := range c.messages {
		drained = append(drained, msg)
	}
	return drained
}

func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.messages)
	return nil
}
