package field

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Sample draws a uniformly random Element from the bytes produced by r.
// The core never picks its own randomness source: r is the external
// collaborator capability spec.md §1 carves out, so tests can supply a
// deterministic reader and production code can supply crypto/rand.Reader.
func Sample(r io.Reader) (Element, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Element{}, fmt.Errorf("field: sampling random element: %w", err)
	}
	return New(binary.LittleEndian.Uint64(buf[:])), nil
}
