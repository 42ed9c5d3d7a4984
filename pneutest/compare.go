// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package pneutest provides utility functions for testing pneumatic circuits.
//
package pneutest

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/db47h/pneusim"
	"github.com/google/go-cmp/cmp"
)

// Build returns a new diagram with the given components, added in order, then
// wired according to the wire list. See pneusim.ParseWires for the syntax.
// Component IDs start at 1, so the wire list can refer to the n-th component
// as n.
//
func Build(t testing.TB, wires string, comps ...pneusim.Component) *pneusim.Diagram {
	t.Helper()
	d := pneusim.NewDiagram()
	for _, c := range comps {
		d.Add(c)
	}
	if _, err := d.ConnectWires(wires); err != nil {
		t.Fatal(err)
	}
	return d
}

// Ports parses a space or comma separated list of ports in "id.key" form and
// returns them as a set.
//
func Ports(t testing.TB, list string) pneusim.PortSet {
	t.Helper()
	s := make(pneusim.PortSet)
	for _, f := range strings.FieldsFunc(list, func(r rune) bool { return r == ' ' || r == ',' }) {
		id, key, ok := strings.Cut(f, ".")
		n, err := strconv.Atoi(id)
		if !ok || err != nil || key == "" {
			t.Fatalf("invalid port %q", f)
		}
		s[pneusim.Port{ID: pneusim.ID(n), Key: key}] = struct{}{}
	}
	return s
}

// ComparePorts fails the test if got and want differ.
//
func ComparePorts(t testing.TB, want, got pneusim.PortSet) {
	t.Helper()
	if diff := cmp.Diff(want.Sorted(), got.Sorted()); diff != "" {
		t.Errorf("pressurized ports mismatch (-want +got):\n%s", diff)
	}
}

// CompareSolve solves the diagram n times with components and connections
// shuffled, and connection endpoints swapped at random, and checks that every
// run gives the same result as the diagram in its registration order.
//
func CompareSolve(t testing.TB, d *pneusim.Diagram, sig pneusim.SignalReader, n int) {
	t.Helper()

	want := d.Solve(sig)
	comps, conns := d.Components(), d.Connections()
	rnd := rand.New(rand.NewSource(int64(len(comps))<<16 | int64(len(conns))))

	for i := 0; i < n; i++ {
		rnd.Shuffle(len(comps), func(i, j int) { comps[i], comps[j] = comps[j], comps[i] })
		rnd.Shuffle(len(conns), func(i, j int) { conns[i], conns[j] = conns[j], conns[i] })
		for k := range conns {
			if rnd.Intn(2) == 0 {
				conns[k].From, conns[k].To = conns[k].To, conns[k].From
			}
		}
		got := pneusim.Solve(comps, conns, sig)
		if diff := cmp.Diff(want.Sorted(), got.Sorted()); diff != "" {
			t.Fatalf("run %d: solve depends on order (-want +got):\n%s", i, diff)
		}
	}
}

// CheckWires checks that both ends of every connection of d have the same
// state in the pressurized set ps. Connections with a dangling end are
// skipped.
//
func CheckWires(t testing.TB, d *pneusim.Diagram, ps pneusim.PortSet) {
	t.Helper()
	for _, c := range d.Connections() {
		if !hasPort(d, c.From) || !hasPort(d, c.To) {
			continue
		}
		if ps.Has(c.From) != ps.Has(c.To) {
			t.Errorf("wire %v-%v: %v=%v, %v=%v", c.From, c.To, c.From, ps.Has(c.From), c.To, ps.Has(c.To))
		}
	}
}

func hasPort(d *pneusim.Diagram, p pneusim.Port) bool {
	c := d.Component(p.ID)
	if c == nil {
		return false
	}
	for _, k := range c.Ports() {
		if k == p.Key {
			return true
		}
	}
	return false
}

// RunUntil ticks s by dt until cond returns true or n ticks have run. It
// returns the number of ticks run and whether cond was met.
//
func RunUntil(s *pneusim.Simulator, dt float64, n int, cond func() bool) (int, bool) {
	for i := 0; i < n; i++ {
		if cond() {
			return i, true
		}
		s.Tick(dt)
	}
	return n, cond()
}
