package netio

import (
	"github.com/rs/zerolog"
)

// LoopbackChannel is the channel a party uses to send to itself: a FIFO
// packet queue satisfying the same Channel contract as a peer connection.
// Callers never Recv before Send on a loopback channel under the
// protocol's lock-step discipline (spec.md §4.5), so an empty queue on
// Recv surfaces ErrEmptyBuffer rather than blocking.
type LoopbackChannel struct {
	queue  []Packet
	log    zerolog.Logger
	closed bool
}

// NewLoopbackChannel constructs an empty loopback queue.
func NewLoopbackChannel(log zerolog.Logger) *LoopbackChannel {
	return &LoopbackChannel{log: log}
}

// Send enqueues p.
func (c *LoopbackChannel) Send(p Packet) error {
	if c.closed {
		return ErrClosed
	}
	c.queue = append(c.queue, p)
	c.log.Debug().Int("bytes", p.Len()).Msg("sent packet to self")
	return nil
}

// Recv dequeues the oldest packet, or returns ErrEmptyBuffer if none is
// queued.
func (c *LoopbackChannel) Recv() (Packet, error) {
	if c.closed {
		return Packet{}, ErrClosed
	}
	if len(c.queue) == 0 {
		return Packet{}, ErrEmptyBuffer
	}
	p := c.queue[0]
	c.queue = c.queue[1:]
	c.log.Debug().Msg("received packet from self")
	return p, nil
}

// Close clears the queue and marks the channel terminal.
func (c *LoopbackChannel) Close() error {
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	c.queue = nil
	return nil
}
