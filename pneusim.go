// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pneusim

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Errors returned by the Simulator intent API.
//
var (
	ErrUnknownComponent = errors.New("unknown component")
	ErrNotPlaying       = errors.New("manual operation requires PLAY mode")
	ErrNotEditing       = errors.New("operation requires STOP mode")
	ErrNotToggleable    = errors.New("component cannot be toggled")
	ErrSensorBound      = errors.New("limit valve is bound to a sensor")
)

// Mode is the scheduler mode.
//
type Mode int

// Scheduler modes.
//
const (
	// Stop clears pressure and keeps every component in its default state.
	// Diagrams should only be edited in this mode.
	Stop Mode = iota
	// Play runs ticks and allows manual operation of valves.
	Play
	// Pause freezes the simulation. The last computed pressure stays visible.
	Pause
)

func (m Mode) String() string {
	switch m {
	case Play:
		return "play"
	case Pause:
		return "pause"
	}
	return "stop"
}

// Config holds the simulation constants. Zero fields select the defaults.
//
type Config struct {
	// Speed is the piston speed in strokes per second.
	Speed float64
	// MaxDt caps the time step of a tick, in seconds.
	MaxDt float64
	// StepDt is the time step used by Step, in seconds.
	StepDt float64
	// FrameInterval is the tick period of Run.
	FrameInterval time.Duration
}

// DefaultConfig returns the default simulation constants.
//
func DefaultConfig() Config {
	return Config{
		Speed:         DefaultSpeed,
		MaxDt:         0.05,
		StepDt:        0.02,
		FrameInterval: 16 * time.Millisecond,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Speed <= 0 {
		c.Speed = d.Speed
	}
	if c.MaxDt <= 0 {
		c.MaxDt = d.MaxDt
	}
	if c.StepDt <= 0 {
		c.StepDt = d.StepDt
	}
	if c.FrameInterval <= 0 {
		c.FrameInterval = d.FrameInterval
	}
	return c
}

// A stepper carries the inputs of the state transitions of one tick.
//
type stepper struct {
	f     *flood
	dt    float64
	speed float64
	sig   SignalTable
}

func (s *stepper) pressurized(id ID, key string) bool { return s.f.pressurized(id, key) }
func (s *stepper) fed(id ID, key string) bool         { return s.f.fed(id, key) }

// preparer is implemented by components that sync with the signal table before
// pressure is computed.
type preparer interface {
	prepare(sig SignalReader)
}

// Simulator runs a Diagram.
//
// Each tick goes through the following phases, in order:
//
//	1. limit switches bound to a sensor pick up the signal table.
//	2. pressure is computed from the current valve states.
//	3. pilot driven valves update their state from that pressure.
//	4. cylinders move according to that pressure and publish their
//	   position signals.
//
// Changes made in phases 3 and 4 show in pressure on the next tick only.
//
// All Simulator methods are safe for concurrent use. Each call, ticks
// included, runs as a single critical section.
//
type Simulator struct {
	mu     sync.Mutex
	d      *Diagram
	sig    SignalTable
	cfg    Config
	mode   Mode
	last   *flood // nil when pressure is cleared
	steps  uint64
	time   float64
	probes []probe
}

// NewSimulator returns a new simulator for d in Stop mode. If sig is nil, a
// new Signals table is used.
//
// All components of d are reset to their default state.
//
func NewSimulator(d *Diagram, sig SignalTable, cfg Config) *Simulator {
	if sig == nil {
		sig = make(Signals)
	}
	s := &Simulator{
		d:   d,
		sig: sig,
		cfg: cfg.withDefaults(),
	}
	s.reset()
	return s
}

// Diagram returns the simulated diagram. See Edit for concurrent access.
//
func (s *Simulator) Diagram() *Diagram { return s.d }

// Config returns the simulation constants in use.
//
func (s *Simulator) Config() Config { return s.cfg }

// Edit calls fn with the diagram while holding the simulator lock.
//
func (s *Simulator) Edit(fn func(d *Diagram)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.d)
}

// Mode returns the current mode.
//
func (s *Simulator) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// CanEdit returns true if the diagram can be edited, that is in Stop mode.
//
func (s *Simulator) CanEdit() bool {
	return s.Mode() == Stop
}

// SetMode changes the mode. Switching to Stop resets the simulation.
//
func (s *Simulator) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m == s.mode {
		return
	}
	zap.S().Debugw("mode change", "from", s.mode, "to", m)
	if m == Stop {
		s.reset()
		return
	}
	s.mode = m
}

// Reset switches to Stop mode and restores every component to its default
// state: 5/2 valves in state 1, 3/2 valves inactive, cylinders at their rest
// position. Pressure is cleared.
//
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Simulator) reset() {
	s.mode = Stop
	s.last = nil
	for _, c := range s.d.comps {
		c.reset(s.sig)
	}
}

// Tick advances the simulation by dt seconds. dt is clamped to
// [0, Config.MaxDt]. Outside of Play mode, Tick does not change any state.
//
func (s *Simulator) Tick(dt float64) {
	if !(dt > 0) {
		dt = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick(min(dt, s.cfg.MaxDt), s.mode == Play)
}

// Step runs exactly one tick of Config.StepDt seconds, whatever the mode. The
// mode is left unchanged.
//
func (s *Simulator) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick(s.cfg.StepDt, true)
}

func (s *Simulator) tick(dt float64, running bool) {
	if !running {
		if s.mode == Stop {
			s.last = nil
		}
		return
	}
	comps := s.d.comps
	for _, c := range comps {
		if p, ok := c.(preparer); ok {
			p.prepare(s.sig)
		}
	}
	s.last = solve(comps, s.d.conns, s.sig)
	st := &stepper{f: s.last, dt: dt, speed: s.cfg.Speed, sig: s.sig}
	for _, c := range comps {
		c.advance(st)
	}
	s.steps++
	s.time += dt
	s.notify()
}

// Run ticks the simulation every Config.FrameInterval until ctx is done, using
// the measured time between ticks as dt. It returns ctx.Err().
//
func (s *Simulator) Run(ctx context.Context) error {
	t := time.NewTicker(s.cfg.FrameInterval)
	defer t.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-t.C:
			s.Tick(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Steps returns the number of ticks that advanced the simulation since it was
// created.
//
func (s *Simulator) Steps() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.steps
}

// Elapsed returns the simulated time in seconds.
//
func (s *Simulator) Elapsed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.time
}

// Pressurized returns a snapshot of the ports pressurized on the last tick.
// It is empty in Stop mode, except right after a Step, until the next Tick or
// Reset.
//
func (s *Simulator) Pressurized() PortSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return PortSet{}
	}
	return s.last.pressures().Set()
}

// IsPressurized returns true if port p was pressurized on the last tick.
//
func (s *Simulator) IsPressurized(p Port) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pressure(p) > 0
}

// Pressure returns the nominal pressure in bar of port p on the last tick.
//
func (s *Simulator) Pressure(p Port) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pressure(p)
}

func (s *Simulator) pressure(p Port) float64 {
	if s.last == nil {
		return 0
	}
	return s.last.levelAt(s.last.x.lookup(p))
}

// ActiveConnections returns the IDs of the connections with both ends
// pressurized on the last tick. It is always empty in Stop mode, even after a
// Step.
//
func (s *Simulator) ActiveConnections() []ConnectionID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || s.mode == Stop {
		return nil
	}
	var ids []ConnectionID
	for _, c := range s.d.conns {
		if s.pressure(c.From) > 0 && s.pressure(c.To) > 0 {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Unconnected returns the pressurized ports that have no valid wire attached,
// sorted. Those are usually wiring mistakes: air escaping from a source or a
// valve output left open.
//
func (s *Simulator) Unconnected() []Port {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	ps := make(PortSet)
	for n, v := range s.last.level {
		if v > 0 && !s.last.w.connected(n) {
			ps[s.last.x.port(n)] = struct{}{}
		}
	}
	return ps.Sorted()
}

// Signal returns the value of the named signal.
//
func (s *Simulator) Signal(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sig.Signal(key)
}

// SetSignal sets the value of the named signal.
//
func (s *Simulator) SetSignal(key string, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sig.SetSignal(key, value)
}

// RequestToggle operates a valve by hand: it flips the state of a Valve52, or
// the latch of a Limit32 that is not bound to a sensor. It is only allowed in
// Play mode.
//
func (s *Simulator) RequestToggle(id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.d.lookup(id)
	if err != nil {
		return err
	}
	if s.mode != Play {
		zap.S().Warnw("toggle rejected", "id", id, "mode", s.mode)
		return errors.Wrapf(ErrNotPlaying, "toggle component %d", id)
	}
	switch v := c.(type) {
	case *Valve52:
		v.State = 1 - normState(v.State)
	case *Limit32:
		if v.SensorKey != "" {
			return errors.Wrapf(ErrSensorBound, "toggle component %d", id)
		}
		v.SetManual(!v.manual)
	default:
		return errors.Wrapf(ErrNotToggleable, "toggle %s %d", c.Kind(), id)
	}
	return nil
}

// SetPressed holds (true) or releases (false) a push button valve.
//
func (s *Simulator) SetPressed(id ID, pressed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.d.lookup(id)
	if err != nil {
		return err
	}
	v, ok := c.(*Push32)
	if !ok {
		return errors.Wrapf(ErrNotToggleable, "press %s %d", c.Kind(), id)
	}
	v.Active = pressed
	return nil
}

// BindSensor binds a limit valve to a signal key. An empty key unbinds it.
//
func (s *Simulator) BindSensor(id ID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.d.lookup(id)
	if err != nil {
		return err
	}
	v, ok := c.(*Limit32)
	if !ok {
		return errors.Wrapf(ErrNotToggleable, "bind %s %d", c.Kind(), id)
	}
	v.Bind(key)
	v.prepare(s.sig)
	return nil
}

// Remove removes a component and its connections from the diagram. The
// position signals of a removed cylinder are cleared.
//
func (s *Simulator) Remove(id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.d.lookup(id)
	if err != nil {
		return err
	}
	if cyl, ok := c.(Cylinder); ok {
		cyl.piston().unpublish(s.sig)
	}
	s.d.Remove(id)
	return nil
}

// SetLetter renames a cylinder. The signals of the previous letter are cleared
// and the current position is published under the new one.
//
func (s *Simulator) SetLetter(id ID, letter string) error {
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
	p := cyl.piston()
	p.unpublish(s.sig)
	p.Letter = letter
	s.d.reserveLetter(letter)
	p.publish(s.sig)
	return nil
}

// SetSingleMode changes the mode of a single acting cylinder and moves it to
// its new rest position. It is only allowed in Stop mode.
//
func (s *Simulator) SetSingleMode(id ID, m SingleMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.d.lookup(id)
	if err != nil {
		return err
	}
	if s.mode != Stop {
		return errors.Wrapf(ErrNotEditing, "set mode of component %d", id)
	}
	cyl, ok := c.(*CylinderSingle)
	if !ok {
		return errors.Errorf("component %d is a %s, not a single acting cylinder", id, c.Kind())
	}
	cyl.SetMode(m)
	cyl.publish(s.sig)
	return nil
}
