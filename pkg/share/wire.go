package share

import (
	"encoding/binary"
	"fmt"

	"github.com/shamirmpc/mpcnode/pkg/field"
)

// WireSize is the fixed encoded length of a Share: one little-endian
// uint64 for the value, one for the degree. spec.md §6 requires a single
// canonical encoding every party agrees on; this is it.
const WireSize = 16

// Marshal encodes s as 16 bytes: value (8 bytes LE) || degree (8 bytes LE).
func (s Share) Marshal() []byte {
	buf := make([]byte, WireSize)
	binary.LittleEndian.PutUint64(buf[0:8], s.Value.Uint64())
	binary.LittleEndian.PutUint64(buf[8:16], uint64(s.Degree))
	return buf
}

// Unmarshal decodes a Share from its 16-byte wire encoding. It returns an
// error — a protocol violation per spec.md §7 — if buf is the wrong length.
func Unmarshal(buf []byte) (Share, error) {
	if len(buf) != WireSize {
		return Share{}, fmt.Errorf("share: malformed packet: want %d bytes, got %d", WireSize, len(buf))
	}
	value := field.New(binary.LittleEndian.Uint64(buf[0:8]))
	degree := binary.LittleEndian.Uint64(buf[8:16])
	return Share{Value: value, Degree: int(degree)}, nil
}
