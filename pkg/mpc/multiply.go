// Package mpc implements the interactive degree-reduction multiplication
// subprotocol (spec.md §4.4): the Ben-Or-Goldwasser-Wigderson /
// Gennaro-Rabin-Rabin style step that turns two degree-t shares of A and B
// into a fresh degree-t share of A*B, composing pkg/share's local algebra
// with pkg/network's transport.
package mpc

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/shamirmpc/mpcnode/pkg/field"
	"github.com/shamirmpc/mpcnode/pkg/lagrange"
	"github.com/shamirmpc/mpcnode/pkg/netio"
	"github.com/shamirmpc/mpcnode/pkg/share"
)

// Transport is the subset of *network.Network the multiplication
// subprotocol needs: send to and receive from every party by index. It is
// expressed as an interface so tests can drive the protocol over an
// in-memory mesh without real sockets.
type Transport interface {
	SendTo(p netio.Packet, j int) error
	RecvFrom(j int) (netio.Packet, error)
	N() int
}

// RecombinationVector returns the Lagrange coefficients L_i(0) over nodes
// 1..n — the constants, depending only on n, that recombine n shares of an
// (at most degree n-1) polynomial into its value at 0. Step 4 of the
// multiplication subprotocol uses exactly this vector, and since it
// depends only on n it can be (and is) computed once per session rather
// than once per multiplication.
func RecombinationVector(n int) []field.Element {
	return lagrange.Basis(share.Nodes(n), field.Zero())
}

// Multiply runs the degree-reduction subprotocol to turn the local party's
// degree-t shares a (of A) and b (of B) into a degree-t share of A*B,
// given the precomputed recombination vector for n parties. r supplies the
// randomness for re-sharing the local product share.
//
// Steps, per spec.md §4.4:
//  1. Locally compute h = a*b, a degree-2t share of A*B.
//  2. Re-share h.Value as a fresh degree-t secret, producing n sub-shares,
//     and send sub-share j to party j (including a loopback send to self).
//  3. Receive one sub-share from every party, including self.
//  4. Recombine: the output share is Σ λ_i * H_i, the same Lagrange
//     coefficients for every party since they depend only on n.
func Multiply(a, b share.Share, threshold int, recombination []field.Element, r io.Reader, net Transport, log zerolog.Logger) (share.Share, error) {
	n := net.N()
	if len(recombination) != n {
		return share.Share{}, fmt.Errorf("mpc: recombination vector length %d does not match network size %d", len(recombination), n)
	}

	h := a.Multiply(b)
	log.Debug().Int("degree", h.Degree).Msg("computed local product share")

	hShares, err := share.ShareSecret(h.Value, n, threshold, r)
	if err != nil {
		return share.Share{}, fmt.Errorf("mpc: re-sharing product: %w", err)
	}

	log.Info().Msg("sending re-shared product shares to every party")
	for j, s := range hShares {
		if err := net.SendTo(netio.NewPacket(s.Marshal()), j); err != nil {
			return share.Share{}, fmt.Errorf("mpc: sending sub-share to party %d: %w", j, err)
		}
	}

	log.Info().Msg("receiving re-shared product shares from every party")
	received := make([]share.Share, n)
	for i := 0; i < n; i++ {
		packet, err := net.RecvFrom(i)
		if err != nil {
			return share.Share{}, fmt.Errorf("mpc: receiving sub-share from party %d: %w", i, err)
		}
		s, err := share.Unmarshal(packet.Bytes())
		if err != nil {
			return share.Share{}, fmt.Errorf("mpc: decoding sub-share from party %d: %w", i, err)
		}
		received[i] = s
	}

	result := received[0].MultiplyConst(recombination[0])
	for i := 1; i < n; i++ {
		result = result.Add(received[i].MultiplyConst(recombination[i]))
	}

	log.Debug().Int("degree", result.Degree).Msg("recombined output share")
	return result, nil
}
