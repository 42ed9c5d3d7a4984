// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pneusim

// A portIndex maps ports to dense port numbers, allocated in component order
// then port order.
//
type portIndex struct {
	m     map[Port]int
	ports []Port
}

func newPortIndex(comps []Component) *portIndex {
	x := &portIndex{m: make(map[Port]int)}
	for _, c := range comps {
		id := c.ID()
		for _, k := range c.Ports() {
			x.alloc(Port{id, k})
		}
	}
	return x
}

// alloc allocates a number for p and returns it. Duplicates keep their first
// number.
//
func (x *portIndex) alloc(p Port) int {
	if n, ok := x.m[p]; ok {
		return n
	}
	n := len(x.ports)
	x.m[p] = n
	x.ports = append(x.ports, p)
	return n
}

// lookup returns the number allocated to p, or -1 if p does not exist.
//
func (x *portIndex) lookup(p Port) int {
	if n, ok := x.m[p]; ok {
		return n
	}
	return -1
}

func (x *portIndex) count() int { return len(x.ports) }

func (x *portIndex) port(n int) Port { return x.ports[n] }
