// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pneusim

import (
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// A Port is identified by the component it belongs to and its key in that
// component's port list.
//
type Port struct {
	ID  ID
	Key string
}

// String returns the port in "id.key" form, as accepted by ParseWires.
//
func (p Port) String() string {
	return strconv.Itoa(int(p.ID)) + "." + p.Key
}

func comparePorts(a, b Port) int {
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	case a.Key < b.Key:
		return -1
	case a.Key > b.Key:
		return 1
	}
	return 0
}

// PortSet is a set of ports.
//
type PortSet map[Port]struct{}

// Has returns true if p is in the set.
//
func (s PortSet) Has(p Port) bool {
	_, ok := s[p]
	return ok
}

// Sorted returns the ports in the set ordered by component ID then key.
//
func (s PortSet) Sorted() []Port {
	ps := make([]Port, 0, len(s))
	for p := range s {
		ps = append(ps, p)
	}
	slices.SortFunc(ps, comparePorts)
	return ps
}

// ConnectionID identifies a connection.
//
type ConnectionID = uuid.UUID

// A Connection is an undirected wire between two ports. From and To have no
// meaning beyond storage order.
//
type Connection struct {
	ID   ConnectionID
	From Port
	To   Port
}

// Other returns the endpoint of c that is not p, and whether p is an endpoint
// of c at all.
//
func (c *Connection) Other(p Port) (Port, bool) {
	switch p {
	case c.From:
		return c.To, true
	case c.To:
		return c.From, true
	}
	return Port{}, false
}

// wiring is the adjacency list of the wire graph, over port numbers.
type wiring [][]int

// newWiring builds the wire graph. Connections referencing an unknown component
// or a port key that the component does not have are dropped.
//
func newWiring(x *portIndex, conns []Connection) wiring {
	w := make(wiring, x.count())
	for i := range conns {
		a, b := x.lookup(conns[i].From), x.lookup(conns[i].To)
		if a < 0 || b < 0 {
			continue
		}
		w[a] = append(w[a], b)
		if a != b {
			w[b] = append(w[b], a)
		}
	}
	return w
}

// connected returns true if port number n has at least one valid wire.
func (w wiring) connected(n int) bool {
	return n >= 0 && len(w[n]) > 0
}
