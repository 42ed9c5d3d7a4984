// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pneusim

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// A Diagram is the live collection of components and connections.
//
// Diagram methods are not safe for concurrent use. Once a Simulator runs on a
// Diagram from another goroutine, edit it through Simulator.Edit.
//
type Diagram struct {
	comps   []Component // registration order
	byID    map[ID]Component
	conns   []Connection
	nextID  ID
	letters int // next cylinder letter, 0 = A
}

// NewDiagram returns an empty diagram.
//
func NewDiagram() *Diagram {
	return &Diagram{
		byID:   make(map[ID]Component),
		nextID: 1,
	}
}

// Add registers c with the diagram and returns its new ID. Cylinders without
// a letter are given the next free one.
//
// Add panics if c is already registered.
//
func (d *Diagram) Add(c Component) ID {
	id := d.nextID
	if err := d.Insert(id, c); err != nil {
		panic(err)
	}
	return id
}

// Insert registers c under the given ID. It is used to restore components
// from a saved project and fails if the ID is not positive or already in use.
//
func (d *Diagram) Insert(id ID, c Component) error {
	b := c.Common()
	switch {
	case b.id != 0:
		return errors.Errorf("component %d already registered", b.id)
	case id <= 0:
		return errors.Errorf("invalid component id %d", id)
	case d.byID[id] != nil:
		return errors.Errorf("duplicate component id %d", id)
	}
	b.id = id
	if id >= d.nextID {
		d.nextID = id + 1
	}
	if cyl, ok := c.(Cylinder); ok {
		p := cyl.piston()
		if p.Letter == "" {
			p.Letter = d.NextLetter()
		} else {
			d.reserveLetter(p.Letter)
		}
	}
	d.comps = append(d.comps, c)
	d.byID[id] = c
	return nil
}

// Remove unregisters the component with the given ID together with all the
// connections that reference it. It returns false if there is no such
// component.
//
func (d *Diagram) Remove(id ID) bool {
	c := d.byID[id]
	if c == nil {
		return false
	}
	delete(d.byID, id)
	for i, cc := range d.comps {
		if cc == c {
			d.comps = append(d.comps[:i], d.comps[i+1:]...)
			break
		}
	}
	conns := d.conns[:0]
	for _, cn := range d.conns {
		if cn.From.ID != id && cn.To.ID != id {
			conns = append(conns, cn)
		}
	}
	d.conns = conns
	return true
}

// Component returns the component with the given ID, or nil.
//
func (d *Diagram) Component(id ID) Component {
	return d.byID[id]
}

// Components returns the registered components in registration order.
//
func (d *Diagram) Components() []Component {
	return append([]Component(nil), d.comps...)
}

// Cylinders returns the registered cylinders in registration order.
//
func (d *Diagram) Cylinders() []Cylinder {
	var cs []Cylinder
	for _, c := range d.comps {
		if cyl, ok := c.(Cylinder); ok {
			cs = append(cs, cyl)
		}
	}
	return cs
}

// Connect wires two ports and returns the connection ID.
//
// Ports are not checked: connections that do not resolve to an existing port
// are kept but ignored by the solver until they do.
//
func (d *Diagram) Connect(a, b Port) ConnectionID {
	id := uuid.New()
	d.conns = append(d.conns, Connection{ID: id, From: a, To: b})
	return id
}

// Disconnect removes a connection. It returns false if there is no such
// connection.
//
func (d *Diagram) Disconnect(id ConnectionID) bool {
	for i := range d.conns {
		if d.conns[i].ID == id {
			d.conns = append(d.conns[:i], d.conns[i+1:]...)
			return true
		}
	}
	return false
}

// Connections returns the connections in creation order.
//
func (d *Diagram) Connections() []Connection {
	return append([]Connection(nil), d.conns...)
}

// Wires returns the connections attached to port p.
//
func (d *Diagram) Wires(p Port) []Connection {
	var cs []Connection
	for _, c := range d.conns {
		if c.From == p || c.To == p {
			cs = append(cs, c)
		}
	}
	return cs
}

// Solve computes the pressurized ports of the diagram. See Solve.
//
func (d *Diagram) Solve(sig SignalReader) PortSet {
	return Solve(d.comps, d.conns, sig)
}

// NextLetter allocates the next cylinder letter: A, B, ... Z, then AA, AB...
//
func (d *Diagram) NextLetter() string {
	l := letterName(d.letters)
	d.letters++
	return l
}

func letterName(n int) string {
	var b []byte
	for {
		b = append([]byte{byte('A' + n%26)}, b...)
		n = n/26 - 1
		if n < 0 {
			return string(b)
		}
	}
}

// reserveLetter makes sure that NextLetter will not return l or any letter
// allocated before it.
func (d *Diagram) reserveLetter(l string) {
	l = strings.ToUpper(l)
	n := -1
	for _, r := range l {
		if r < 'A' || r > 'Z' {
			return
		}
		n = (n+1)*26 + int(r-'A')
	}
	if n+1 > d.letters {
		d.letters = n + 1
	}
}

func (d *Diagram) lookup(id ID) (Component, error) {
	c := d.byID[id]
	if c == nil {
		return nil, errors.Wrapf(ErrUnknownComponent, "component %d", id)
	}
	return c, nil
}
