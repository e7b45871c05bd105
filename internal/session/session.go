// Package session implements the session driver spec.md §2/§9 describes:
// thin glue that sequences input sharing, iterated multiplication, reveal,
// and reconstruction on top of pkg/share, pkg/mpc, and pkg/network. It
// carries no protocol logic of its own beyond the composition order.
package session

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/shamirmpc/mpcnode/pkg/field"
	"github.com/shamirmpc/mpcnode/pkg/mpc"
	"github.com/shamirmpc/mpcnode/pkg/netio"
	"github.com/shamirmpc/mpcnode/pkg/share"
)

// Transport is everything the session driver needs from the transport
// layer: per-peer addressing plus the network-wide broadcast/gather used
// for the input and reveal phases.
type Transport interface {
	SendTo(p netio.Packet, j int) error
	RecvFrom(j int) (netio.Packet, error)
	Send(p netio.Packet) error
	Recv() ([]netio.Packet, error)
	N() int
	ID() int
}

// Params are the per-session parameters a party supplies: its own secret
// input and the corruption threshold, both external-collaborator inputs
// per spec.md §6 (the CLI surface) that the driver itself does not
// validate beyond what spec.md requires structurally.
type Params struct {
	Threshold int
	Input     uint64
}

// Run executes one MPC session to completion over net: each party shares
// its own input, exchanges shares with every peer, folds its share of the
// running product through N-1 multiplication subprotocol rounds (in
// forward party order — see SPEC_FULL.md's Open Question resolution, §9),
// then broadcasts its final share and reconstructs the revealed product.
func Run(params Params, net Transport, rng io.Reader, log zerolog.Logger) (field.Element, error) {
	n := net.N()
	if 2*params.Threshold+1 > n {
		return field.Element{}, fmt.Errorf("session: threshold %d requires at least %d parties, network has %d", params.Threshold, 2*params.Threshold+1, n)
	}

	log.Info().Uint64("input", params.Input).Msg("computing shamir shares of local input")
	ownShares, err := share.ShareSecret(field.New(params.Input), n, params.Threshold, rng)
	if err != nil {
		return field.Element{}, fmt.Errorf("session: sharing input: %w", err)
	}

	log.Info().Msg("exchanging input shares with every party")
	inputShares, err := exchange(net, ownShares)
	if err != nil {
		return field.Element{}, fmt.Errorf("session: exchanging input shares: %w", err)
	}

	log.Info().Msg("running multiplication protocol to fold all inputs into one product share")
	recombination := mpc.RecombinationVector(n)
	product := inputShares[0]
	for i := 1; i < n; i++ {
		product, err = mpc.Multiply(product, inputShares[i], params.Threshold, recombination, rng, net, log)
		if err != nil {
			return field.Element{}, fmt.Errorf("session: multiplying in party %d's input: %w", i, err)
		}
	}

	log.Info().Msg("revealing the product share to every party")
	resultShares, err := reveal(net, product)
	if err != nil {
		return field.Element{}, fmt.Errorf("session: revealing result: %w", err)
	}

	result := share.Reconstruct(resultShares)
	log.Info().Uint64("result", result.Uint64()).Msg("reconstructed session result")
	return result, nil
}

// exchange sends ownShares[j] to party j for every j and collects one
// share back from every party, placed at its sender's index.
func exchange(net Transport, ownShares []share.Share) ([]share.Share, error) {
	n := net.N()
	for j, s := range ownShares {
		if err := net.SendTo(netio.NewPacket(s.Marshal()), j); err != nil {
			return nil, fmt.Errorf("sending share to party %d: %w", j, err)
		}
	}

	received := make([]share.Share, n)
	for i := 0; i < n; i++ {
		packet, err := net.RecvFrom(i)
		if err != nil {
			return nil, fmt.Errorf("receiving share from party %d: %w", i, err)
		}
		s, err := share.Unmarshal(packet.Bytes())
		if err != nil {
			return nil, fmt.Errorf("decoding share from party %d: %w", i, err)
		}
		received[i] = s
	}
	return received, nil
}

// reveal broadcasts the local final share to every party and gathers
// theirs in return, ready for reconstruction.
func reveal(net Transport, final share.Share) ([]share.Share, error) {
	if err := net.Send(netio.NewPacket(final.Marshal())); err != nil {
		return nil, fmt.Errorf("broadcasting final share: %w", err)
	}

	packets, err := net.Recv()
	if err != nil {
		return nil, fmt.Errorf("gathering final shares: %w", err)
	}

	shares := make([]share.Share, len(packets))
	for i, p := range packets {
		s, err := share.Unmarshal(p.Bytes())
		if err != nil {
			return nil, fmt.Errorf("decoding final share from party %d: %w", i, err)
		}
		shares[i] = s
	}
	return shares, nil
}
