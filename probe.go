// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pneusim

import "github.com/pkg/errors"

// A probe is called at the end of every tick that advanced the simulation.
type probe func(s *Simulator)

// Probe registers fn to be called with the simulated time and the state of
// port p at the end of every tick that advances the simulation.
//
// Probes run while the simulator is locked: fn must not call any Simulator
// method.
//
func (s *Simulator) Probe(p Port, fn func(t float64, pressurized bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probes = append(s.probes, func(s *Simulator) {
		fn(s.time, s.pressure(p) > 0)
	})
}

// ProbePosition registers fn to be called with the simulated time and the
// piston position of cylinder id. See Probe.
//
func (s *Simulator) ProbePosition(id ID, fn func(t float64, pos float64)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.d.lookup(id)
	if err != nil {
		return err
	}
	cyl, ok := c.(Cylinder)
	if !ok {
		return errors.Errorf("component %d is a %s, not a cylinder", id, c.Kind())
	}
	s.probes = append(s.probes, func(s *Simulator) {
		fn(s.time, cyl.Position())
	})
	return nil
}

// ProbeSignal registers fn to be called with the simulated time and the value
// of the named signal. See Probe.
//
func (s *Simulator) ProbeSignal(key string, fn func(t float64, value bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probes = append(s.probes, func(s *Simulator) {
		fn(s.time, s.sig.Signal(key))
	})
}

func (s *Simulator) notify() {
	for _, p := range s.probes {
		p(s)
	}
}
