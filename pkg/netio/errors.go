package netio

import "errors"

// ErrTimeout is returned when the client side of a connection exhausts its
// connect-retry budget (spec.md §4.6).
var ErrTimeout = errors.New("netio: connect timeout exceeded")

// ErrEmptyBuffer is returned by the loopback channel's Recv when its FIFO
// queue has nothing buffered. Under the protocol's lock-step discipline a
// party never calls Recv on its own loopback before it has Send'd to it,
// so surfacing this rather than blocking is itself the invariant check.
var ErrEmptyBuffer = errors.New("netio: loopback buffer is empty")

// ErrClosed is returned by any operation attempted on a channel after
// Close: spec.md §3 makes close terminal.
var ErrClosed = errors.New("netio: channel is closed")
