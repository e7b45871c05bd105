package netio

import (
	"crypto/tls"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog"
)

// Channel is a bidirectional, reliable, ordered byte stream to one peer,
// carrying length-prefixed Packets. Two variants satisfy it: TLSChannel
// (authenticated TCP+TLS) and LoopbackChannel (an in-process FIFO). A
// channel's lifecycle is constructed -> active -> closed; every operation
// after Close fails with ErrClosed.
type Channel interface {
	Send(p Packet) error
	Recv() (Packet, error)
	Close() error
}

// TLSChannel is the authenticated TCP+TLS peer variant. After the TLS
// handshake completes, the identity exchange (spec.md §4.5) runs once:
// the dialing side writes its local party ID as an 8-byte little-endian
// integer, and the accepting side reads exactly 8 bytes to learn which
// network slot the new connection belongs in.
type TLSChannel struct {
	conn   *tls.Conn
	log    zerolog.Logger
	closed bool
}

// DialAsClient performs the client side of connection establishment: it
// repeatedly attempts a TLS-wrapped TCP dial to addr, backing off by
// sleepTime between attempts, until it either succeeds or the total
// elapsed time exceeds timeout (at which point it returns ErrTimeout).
// Once connected, it writes localID as the identity-exchange prefix.
func DialAsClient(addr string, localID int, tlsConfig *tls.Config, timeout, sleepTime time.Duration, log zerolog.Logger) (*TLSChannel, error) {
	deadline := time.Now().Add(timeout)

	for {
		dialer := &net.Dialer{}
		if timeout > 0 {
			dialer.Deadline = deadline
		}
		conn, err := tls.DialWithDialer(dialer, "tcp", addr, tlsConfig)
		if err == nil {
			if err := writeIdentity(conn, localID); err != nil {
				conn.Close()
				return nil, fmt.Errorf("netio: sending identity to %s: %w", addr, err)
			}
			log.Info().Str("addr", addr).Int("local_id", localID).Msg("connected as client")
			return &TLSChannel{conn: conn, log: log}, nil
		}

		if time.Now().After(deadline) {
			log.Error().Str("addr", addr).Err(err).Msg("connect timeout exceeded")
			return nil, ErrTimeout
		}
		log.Debug().Str("addr", addr).Err(err).Msg("connect attempt failed, retrying")
		time.Sleep(sleepTime)
	}
}

// AcceptAsServer performs the server side: accepts the next incoming
// connection on listener, completes the TLS server handshake, then reads
// the 8-byte identity prefix the client sent. It returns the channel and
// the remote party's declared ID so the caller can place it into the
// correct Network slot.
func AcceptAsServer(listener net.Listener, tlsConfig *tls.Config, log zerolog.Logger) (*TLSChannel, int, error) {
	rawConn, err := listener.Accept()
	if err != nil {
		return nil, 0, fmt.Errorf("netio: accepting connection: %w", err)
	}

	conn := tls.Server(rawConn, tlsConfig)
	if err := conn.Handshake(); err != nil {
		conn.Close()
		return nil, 0, fmt.Errorf("netio: TLS server handshake: %w", err)
	}

	remoteID, err := readIdentity(conn)
	if err != nil {
		conn.Close()
		return nil, 0, fmt.Errorf("netio: reading peer identity: %w", err)
	}

	log.Info().Str("addr", rawConn.RemoteAddr().String()).Int("remote_id", remoteID).Msg("accepted connection as server")
	return &TLSChannel{conn: conn, log: log}, remoteID, nil
}

func writeIdentity(w io.Writer, id int) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(id))
	_, err := w.Write(buf[:])
	return err
}

func readIdentity(r io.Reader) (int, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int(binary.LittleEndian.Uint64(buf[:])), nil
}

// Send frames and writes p to the underlying TLS connection.
func (c *TLSChannel) Send(p Packet) error {
	if c.closed {
		return ErrClosed
	}
	if err := writeFrame(c.conn, p.Bytes()); err != nil {
		c.log.Error().Err(err).Msg("error writing packet")
		return err
	}
	c.log.Debug().Int("bytes", p.Len()).Msg("sent packet")
	return nil
}

// Recv reads one complete frame from the underlying TLS connection,
// retrying partial reads until the declared payload length is filled.
func (c *TLSChannel) Recv() (Packet, error) {
	if c.closed {
		return Packet{}, ErrClosed
	}
	payload, err := readFrame(c.conn)
	if err != nil {
		c.log.Error().Err(err).Msg("error receiving packet")
		return Packet{}, err
	}
	c.log.Debug().Int("bytes", len(payload)).Msg("received packet")
	return NewPacket(payload), nil
}

// Close sends a graceful TLS close-notify and marks the channel terminal.
func (c *TLSChannel) Close() error {
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	err := c.conn.Close()
	c.log.Info().Msg("channel closed")
	return err
}
