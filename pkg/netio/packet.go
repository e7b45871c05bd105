// Package netio implements the framed, authenticated message transport
// between MPC parties: Packet, the Channel abstraction (TCP+TLS and
// loopback variants), and the length-prefixed wire framing spec.md §4.5
// specifies. pkg/network composes N of these channels into a full mesh.
package netio

// Packet is an owned byte buffer, the unit of transmission on the
// transport layer. Its length is always known from context (either the
// frame length prefix on the wire, or len() for an in-memory packet).
type Packet struct {
	buf []byte
}

// NewPacket wraps buf as a Packet. The caller gives up ownership of buf.
func NewPacket(buf []byte) Packet {
	return Packet{buf: buf}
}

// Bytes returns the packet's payload.
func (p Packet) Bytes() []byte { return p.buf }

// Len returns the payload length.
func (p Packet) Len() int { return len(p.buf) }
