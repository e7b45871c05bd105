// Package network assembles N netio.Channels (one per party, the local
// slot a loopback) into the full-mesh Network spec.md §3/§4.6 describes.
package network

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/rs/zerolog"

	"github.com/shamirmpc/mpcnode/pkg/netio"
)

// Network is an ordered collection of exactly N channels, one per party
// index 0..N-1. The channel at the local party's own index is a loopback;
// every other index is a TLS peer channel. Lifecycle: Create performs the
// full-mesh handshake, after which the network is active until Close.
type Network struct {
	id       int
	channels []netio.Channel
	listener net.Listener
	log      zerolog.Logger
}

// Credentials bundles the TLS material the core consumes as a
// ready-made pair, per spec.md §1: a config for the listening (server)
// role and one for the dialing (client) role.
type Credentials struct {
	ServerTLSConfig *tls.Config
	ClientTLSConfig *tls.Config
}

// Create builds the Network for party id out of cfg: it deterministically
// assigns connection roles to avoid double-connect (spec.md §4.6) —
// parties with a lower index are dialed as a client, parties with a
// higher index are accepted as a server, and id's own slot becomes a
// loopback channel — then runs the handshake for every peer in turn,
// strictly sequentially, per the single-threaded execution model of
// spec.md §5.
func Create(id int, cfg Config, creds Credentials, log zerolog.Logger) (*Network, error) {
	n := cfg.N()
	if id < 0 || id >= n {
		return nil, fmt.Errorf("network: party id %d out of range [0, %d)", id, n)
	}

	listener, err := net.Listen("tcp", cfg.ListenAddr(id))
	if err != nil {
		return nil, fmt.Errorf("network: listening on %s: %w", cfg.ListenAddr(id), err)
	}
	log.Info().Str("addr", cfg.ListenAddr(id)).Msg("network listening")

	channels := make([]netio.Channel, n)

	for j := 0; j < id; j++ {
		log.Info().Int("peer", j).Msg("connecting as client")
		ch, err := netio.DialAsClient(cfg.Addr(j), id, creds.ClientTLSConfig, cfg.Timeout, cfg.SleepTime, log)
		if err != nil {
			listener.Close()
			return nil, fmt.Errorf("network: connecting to peer %d: %w", j, err)
		}
		channels[j] = ch
	}

	channels[id] = netio.NewLoopbackChannel(log)

	for j := id + 1; j < n; j++ {
		log.Info().Int("expected_peer", j).Msg("accepting as server")
		ch, remoteID, err := netio.AcceptAsServer(listener, creds.ServerTLSConfig, log)
		if err != nil {
			listener.Close()
			return nil, fmt.Errorf("network: accepting a peer: %w", err)
		}
		if remoteID < 0 || remoteID >= n || remoteID == id {
			listener.Close()
			return nil, fmt.Errorf("network: peer announced invalid id %d", remoteID)
		}
		channels[remoteID] = ch
	}

	return &Network{id: id, channels: channels, listener: listener, log: log}, nil
}

// SendTo delivers p to party j's channel.
func (net *Network) SendTo(p netio.Packet, j int) error {
	if j < 0 || j >= len(net.channels) {
		return fmt.Errorf("network: party index %d out of range", j)
	}
	return net.channels[j].Send(p)
}

// RecvFrom reads one packet from party j's channel.
func (net *Network) RecvFrom(j int) (netio.Packet, error) {
	if j < 0 || j >= len(net.channels) {
		return netio.Packet{}, fmt.Errorf("network: party index %d out of range", j)
	}
	return net.channels[j].Recv()
}

// Send delivers p to every party, including the local loopback, in index
// order.
func (net *Network) Send(p netio.Packet) error {
	for i, ch := range net.channels {
		if err := ch.Send(p); err != nil {
			return fmt.Errorf("network: sending to party %d: %w", i, err)
		}
	}
	return nil
}

// Recv reads one packet from every party, in index order.
func (net *Network) Recv() ([]netio.Packet, error) {
	packets := make([]netio.Packet, len(net.channels))
	for i, ch := range net.channels {
		p, err := ch.Recv()
		if err != nil {
			return nil, fmt.Errorf("network: receiving from party %d: %w", i, err)
		}
		packets[i] = p
	}
	return packets, nil
}

// N returns the number of parties in the network.
func (net *Network) N() int { return len(net.channels) }

// ID returns the local party's index.
func (net *Network) ID() int { return net.id }

// Close closes every channel and the local listener. It attempts to close
// everything even if an individual close fails, returning the first
// error encountered.
func (net *Network) Close() error {
	var firstErr error
	for i, ch := range net.channels {
		if err := ch.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("network: closing channel %d: %w", i, err)
		}
	}
	if err := net.listener.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("network: closing listener: %w", err)
	}
	net.log.Info().Msg("network closed")
	return firstErr
}
