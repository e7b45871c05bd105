package netio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// lengthPrefixSize is the width of the frame's length prefix: 8 bytes,
// matching the 64-bit machine word the protocol fixes per spec.md §4.5.
const lengthPrefixSize = 8

// writeFrame writes payload as length (8-byte LE) || payload. A short
// Write is itself an error on a blocking stream, so unlike readFrame there
// is no retry loop needed here; io.Writer's contract guarantees it either
// writes all of p or returns an error.
func writeFrame(w io.Writer, payload []byte) error {
	var lenBuf [lengthPrefixSize]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(payload)))

	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("netio: writing frame length: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("netio: writing frame payload: %w", err)
	}
	return nil
}

// readFrame reads a length-prefixed frame, retrying partial reads until
// the declared number of payload bytes is filled or the stream errors.
func readFrame(r io.Reader) ([]byte, error) {
	var lenBuf [lengthPrefixSize]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("netio: reading frame length: %w", err)
	}

	length := binary.LittleEndian.Uint64(lenBuf[:])
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("netio: reading frame payload: %w", err)
	}
	return payload, nil
}
