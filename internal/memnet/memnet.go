// Package memnet provides an in-process, goroutine-safe stand-in for
// pkg/network's Network, used by tests that want to drive the MPC layer
// across many virtual parties without opening real sockets. Each party's
// view satisfies mpc.Transport and session.Transport.
package memnet

import (
	"fmt"

	"github.com/shamirmpc/mpcnode/pkg/netio"
)

// Mesh holds one FIFO mailbox per (sender, receiver) pair among n virtual
// parties.
type Mesh struct {
	n       int
	mailbox [][]chan netio.Packet
}

// NewMesh builds a fully connected mesh of n virtual parties, with each
// mailbox buffered to 1024 packets so sends do not block on a slow peer in
// a test; a send to a mailbox already holding 1024 packets blocks.
func NewMesh(n int) *Mesh {
	m := &Mesh{n: n, mailbox: make([][]chan netio.Packet, n)}
	for i := range m.mailbox {
		m.mailbox[i] = make([]chan netio.Packet, n)
		for j := range m.mailbox[i] {
			m.mailbox[i][j] = make(chan netio.Packet, 1024)
		}
	}
	return m
}

// View returns party id's Transport-shaped view into the mesh.
func (m *Mesh) View(id int) *View {
	return &View{id: id, mesh: m}
}

// View is one party's window into a shared Mesh.
type View struct {
	id   int
	mesh *Mesh
}

// SendTo enqueues p into the mailbox from this party to j.
func (v *View) SendTo(p netio.Packet, j int) error {
	if j < 0 || j >= v.mesh.n {
		return fmt.Errorf("memnet: party index %d out of range", j)
	}
	v.mesh.mailbox[v.id][j] <- p
	return nil
}

// RecvFrom blocks until a packet that party j addressed to this party is
// available.
func (v *View) RecvFrom(j int) (netio.Packet, error) {
	if j < 0 || j >= v.mesh.n {
		return netio.Packet{}, fmt.Errorf("memnet: party index %d out of range", j)
	}
	return <-v.mesh.mailbox[j][v.id], nil
}

// Send delivers p to every party, including self, in index order.
func (v *View) Send(p netio.Packet) error {
	for j := 0; j < v.mesh.n; j++ {
		if err := v.SendTo(p, j); err != nil {
			return err
		}
	}
	return nil
}

// Recv reads one packet from every party, in index order.
func (v *View) Recv() ([]netio.Packet, error) {
	packets := make([]netio.Packet, v.mesh.n)
	for i := 0; i < v.mesh.n; i++ {
		p, err := v.RecvFrom(i)
		if err != nil {
			return nil, err
		}
		packets[i] = p
	}
	return packets, nil
}

// N returns the number of virtual parties in the mesh.
func (v *View) N() int { return v.mesh.n }

// ID returns this view's party index.
func (v *View) ID() int { return v.id }
