package netio_test

import (
	"bytes"
	"crypto/tls"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamirmpc/mpcnode/internal/tlsutil"
	"github.com/shamirmpc/mpcnode/pkg/netio"
)

func TestLoopbackFIFOOrdering(t *testing.T) {
	ch := netio.NewLoopbackChannel(zerolog.Nop())

	for i := 0; i < 5; i++ {
		require.NoError(t, ch.Send(netio.NewPacket([]byte{byte(i)})))
	}

	for i := 0; i < 5; i++ {
		p, err := ch.Recv()
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(i)}, p.Bytes())
	}
}

func TestLoopbackRecvOnEmptyReturnsError(t *testing.T) {
	ch := netio.NewLoopbackChannel(zerolog.Nop())
	_, err := ch.Recv()
	assert.ErrorIs(t, err, netio.ErrEmptyBuffer)
}

func TestLoopbackOperationsFailAfterClose(t *testing.T) {
	ch := netio.NewLoopbackChannel(zerolog.Nop())
	require.NoError(t, ch.Close())

	assert.ErrorIs(t, ch.Send(netio.NewPacket(nil)), netio.ErrClosed)
	_, err := ch.Recv()
	assert.ErrorIs(t, err, netio.ErrClosed)
}

// TestTLSChannelFramingRoundTrip stands up a real TLS-authenticated TCP
// pair using the self-signed test credentials from internal/tlsutil, and
// checks that a 1 MiB payload survives Send/Recv byte-for-byte
// (spec.md §8, scenario 5).
func TestTLSChannelFramingRoundTrip(t *testing.T) {
	pair, err := tlsutil.NewSelfSignedPair("127.0.0.1")
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	serverCh := make(chan *netio.TLSChannel, 1)
	serverErr := make(chan error, 1)
	go func() {
		ch, _, err := netio.AcceptAsServer(listener, pair.ServerTLSConfig(), zerolog.Nop())
		serverCh <- ch
		serverErr <- err
	}()

	clientCh, err := netio.DialAsClient(listener.Addr().String(), 7, pair.ClientTLSConfig(), 5*time.Second, 10*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	defer clientCh.Close()

	require.NoError(t, <-serverErr)
	server := <-serverCh
	defer server.Close()

	payload := bytes.Repeat([]byte{0x5A}, 1<<20)
	require.NoError(t, clientCh.Send(netio.NewPacket(payload)))

	got, err := server.Recv()
	require.NoError(t, err)
	assert.Equal(t, payload, got.Bytes())
}

// TestConnectTimeout checks that DialAsClient gives up with ErrTimeout
// when nothing is listening, after roughly the configured timeout
// (spec.md §8, scenario 6).
func TestConnectTimeout(t *testing.T) {
	pair, err := tlsutil.NewSelfSignedPair("127.0.0.1")
	require.NoError(t, err)

	// Reserve a port, then close the listener so nothing answers it.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	listener.Close()

	start := time.Now()
	_, err = netio.DialAsClient(addr, 0, pair.ClientTLSConfig(), 100*time.Millisecond, 10*time.Millisecond, zerolog.Nop())
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, netio.ErrTimeout)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
}

func TestTLSConfigRejectsWrongServerName(t *testing.T) {
	// A client TLS config pinned to the wrong server name must fail the
	// handshake; this is the "asserting the server name derived from the
	// peer's IP" requirement in spec.md §4.5.
	pair, err := tlsutil.NewSelfSignedPair("127.0.0.1")
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		tls.Server(conn, pair.ServerTLSConfig()).Handshake()
	}()

	wrongConfig := pair.ClientTLSConfig()
	wrongConfig.ServerName = "not-the-right-host"

	_, err = netio.DialAsClient(listener.Addr().String(), 0, wrongConfig, 200*time.Millisecond, 10*time.Millisecond, zerolog.Nop())
	assert.Error(t, err)
}
