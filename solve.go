// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pneusim

// DefaultSourceBar is the nominal supply pressure of a Source whose Bar field
// is not set. It is for display only.
//
const DefaultSourceBar = 6.0

// Pressures maps pressurized ports to the highest supply pressure (in bar)
// reaching them. Ports that are not pressurized are absent.
//
type Pressures map[Port]float64

// Set returns the set of pressurized ports.
//
func (p Pressures) Set() PortSet {
	s := make(PortSet, len(p))
	for k := range p {
		s[k] = struct{}{}
	}
	return s
}

// A flood is the state of one pressure computation.
//
// Every port carries a level: 0 for vented ports, the supply pressure of the
// strongest source reaching it otherwise. Levels only ever go up, which
// guarantees that the fixed point is reached in a finite number of passes.
//
type flood struct {
	x       *portIndex
	w       wiring
	level   []float64
	queue   []int
	sig     SignalReader
	changed bool
	passes  int
}

func newFlood(comps []Component, conns []Connection, sig SignalReader) *flood {
	if sig == nil {
		sig = Signals(nil)
	}
	x := newPortIndex(comps)
	return &flood{
		x:     x,
		w:     newWiring(x, conns),
		level: make([]float64, x.count()),
		sig:   sig,
	}
}

// raise sets the level of port number n to at least v.
func (f *flood) raise(n int, v float64) {
	if n < 0 || !(v > f.level[n]) {
		return
	}
	f.level[n] = v
	f.queue = append(f.queue, n)
	f.changed = true
}

func (f *flood) at(id ID, key string) int {
	return f.x.lookup(Port{id, key})
}

func (f *flood) levelAt(n int) float64 {
	if n < 0 {
		return 0
	}
	return f.level[n]
}

// pressurized returns true if the given port is pressurized.
func (f *flood) pressurized(id ID, key string) bool {
	return f.levelAt(f.at(id, key)) > 0
}

// fed returns true if any port wired to the given port is pressurized.
func (f *flood) fed(id ID, key string) bool {
	n := f.at(id, key)
	if n < 0 {
		return false
	}
	for _, o := range f.w[n] {
		if f.level[o] > 0 {
			return true
		}
	}
	return false
}

// supply makes a port a pressure source.
func (f *flood) supply(id ID, key string, bar float64) {
	f.raise(f.at(id, key), bar)
}

// couple opens a two-way path between ports a and b of the same component.
func (f *flood) couple(id ID, a, b string) {
	na, nb := f.at(id, a), f.at(id, b)
	v := max(f.levelAt(na), f.levelAt(nb))
	if v > 0 {
		f.raise(na, v)
		f.raise(nb, v)
	}
}

// imply raises port out of component id to v. Nothing flows back from out.
func (f *flood) imply(id ID, out string, v float64) {
	if v > 0 {
		f.raise(f.at(id, out), v)
	}
}

// spread floods the wire graph from every port queued since the last call.
func (f *flood) spread() {
	for len(f.queue) > 0 {
		n := f.queue[0]
		f.queue = f.queue[1:]
		v := f.level[n]
		for _, o := range f.w[n] {
			f.raise(o, v)
		}
	}
}

// run iterates component rules and wire flooding until a full pass leaves
// every level unchanged.
func (f *flood) run(comps []Component) {
	for {
		f.changed = false
		f.passes++
		for _, c := range comps {
			c.conduct(f)
		}
		f.spread()
		if !f.changed {
			return
		}
	}
}

func (f *flood) pressures() Pressures {
	p := make(Pressures)
	for n, v := range f.level {
		if v > 0 {
			p[f.x.port(n)] = v
		}
	}
	return p
}

func solve(comps []Component, conns []Connection, sig SignalReader) *flood {
	f := newFlood(comps, conns, sig)
	f.run(comps)
	return f
}

// Solve computes the set of pressurized ports for the given components and
// connections. It is a pure function of its arguments: the discrete state of
// the components and, for limit switches bound to a sensor, the signal table.
//
// Connections that reference a missing component or port are ignored.
//
func Solve(comps []Component, conns []Connection, sig SignalReader) PortSet {
	return solve(comps, conns, sig).pressures().Set()
}

// SolveBar is like Solve but also reports the nominal pressure reaching each
// pressurized port. A port fed by several sources gets the highest value.
//
func SolveBar(comps []Component, conns []Connection, sig SignalReader) Pressures {
	return solve(comps, conns, sig).pressures()
}
