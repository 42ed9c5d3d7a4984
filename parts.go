// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pneusim

import "go.uber.org/zap"

// common port keys
const (
	pOut = "OUT"
	pP   = "P"
	pA   = "A"
	pB   = "B"
	pIn  = "IN"
	p1   = "1"
	p2   = "2"
	p3   = "3"
	p4   = "4"
	p5   = "5"
	p12  = "12"
	p14  = "14"
	pCap = "Cap"
	pRod = "Rod"
	pJ   = "J"
)

var (
	portsSource  = []string{pOut, pP}
	portsValve52 = []string{p1, p2, p3, p4, p5, p12, p14}
	portsAir32   = []string{p1, p2, p3, p12}
	ports32      = []string{p1, p2, p3}
	portsLogic   = []string{pA, pB, pOut}
	portsInOut   = []string{pIn, pOut}
	portsJ       = []string{pJ}
)

// ports returns a copy of ps so that callers cannot alter the shared tables.
func ports(ps []string) []string {
	return append([]string(nil), ps...)
}

// Source is a pressure supply. Its OUT port (and the legacy alias P) is
// pressurized whenever the simulation computes pressure.
//
//	Ports: OUT, P
//
type Source struct {
	Base
	passive
	// Bar is the nominal supply pressure, for display only.
	// Values <= 0 and NaN select DefaultSourceBar.
	Bar float64
}

// NewSource returns a new Source at DefaultSourceBar.
//
func NewSource() *Source { return &Source{Bar: DefaultSourceBar} }

func (*Source) Kind() Kind      { return KindSource }
func (*Source) Ports() []string { return ports(portsSource) }

func (s *Source) conduct(f *flood) {
	bar := s.Bar
	if !(bar > 0) {
		bar = DefaultSourceBar
	}
	f.supply(s.id, pOut, bar)
	f.supply(s.id, pP, bar)
}

// Valve52 is a 5 port, 2 position directional valve with pilot ports 12 and 14.
//
//	Ports: 1 (supply), 2, 4 (outputs), 3, 5 (exhausts), 12, 14 (pilots)
//	State 0: 1-4
//	State 1: 1-2
//
// Pilots are edge triggered: a rising edge on 12 selects state 1, a rising edge
// on 14 selects state 0. When both rise on the same tick, 12 wins and the valve
// ends in state 1, even if it already was in state 1 and the rising 14 alone
// would have switched it to 0.
//
type Valve52 struct {
	Base
	// State is 0 or 1. Any non-zero value is treated as 1.
	State int

	pilot12, pilot14 bool // pilot levels seen on the previous tick
}

// NewValve52 returns a new Valve52 in its default state 1.
//
func NewValve52() *Valve52 { return &Valve52{State: 1} }

func (*Valve52) Kind() Kind      { return KindValve52 }
func (*Valve52) Ports() []string { return ports(portsValve52) }

// SetState sets the valve state. Any non-zero s selects state 1.
//
func (v *Valve52) SetState(s int) {
	v.State = normState(s)
}

func normState(s int) int {
	if s != 0 {
		return 1
	}
	return 0
}

func (v *Valve52) conduct(f *flood) {
	if v.State == 0 {
		f.couple(v.id, p1, p4)
	} else {
		f.couple(v.id, p1, p2)
	}
}

func (v *Valve52) advance(s *stepper) {
	on12, on14 := s.pressurized(v.id, p12), s.pressurized(v.id, p14)
	switch {
	case on12 && !v.pilot12:
		v.switchTo(1, p12)
	case on14 && !v.pilot14:
		v.switchTo(0, p14)
	}
	v.pilot12, v.pilot14 = on12, on14
}

func (v *Valve52) switchTo(state int, pilot string) {
	if normState(v.State) == state {
		return
	}
	v.State = state
	zap.S().Debugw("valve52 switched", "id", v.id, "state", state, "pilot", pilot)
}

func (v *Valve52) reset(SignalTable) {
	v.State = 1
	v.pilot12, v.pilot14 = false, false
}

// spool3 implements the 3/2 valve body shared by AirValve32, Limit32 and
// Push32: 2-1 when active, 2-3 otherwise.
func spool3(f *flood, id ID, active bool) {
	if active {
		f.couple(id, p2, p1)
	} else {
		f.couple(id, p2, p3)
	}
}

// AirValve32 is a pilot operated 3/2 valve with spring return.
//
//	Ports: 1 (supply), 2 (output), 3 (exhaust), 12 (pilot)
//	Active: 2-1, inactive: 2-3
//
// The pilot is level triggered: the valve is active on the tick following
// every tick where 12 is pressurized.
//
type AirValve32 struct {
	Base
	Active bool
}

func (*AirValve32) Kind() Kind      { return KindAirValve32 }
func (*AirValve32) Ports() []string { return ports(portsAir32) }

func (v *AirValve32) conduct(f *flood) { spool3(f, v.id, v.Active) }

func (v *AirValve32) advance(s *stepper) {
	on := s.pressurized(v.id, p12)
	if on != v.Active {
		v.Active = on
		zap.S().Debugw("airValve32 switched", "id", v.id, "active", on)
	}
}

func (v *AirValve32) reset(SignalTable) { v.Active = false }

// Limit32 is a 3/2 limit switch valve with spring return.
//
//	Ports: 1 (supply), 2 (output), 3 (exhaust)
//	Active: 2-1, inactive: 2-3
//
// When bound to a sensor key, the valve follows that signal. Otherwise it is
// operated by hand and stays latched until toggled again.
//
type Limit32 struct {
	Base
	// Active is the current valve position.
	Active bool
	// SensorKey is the bound signal key, empty when operated by hand.
	SensorKey string

	manual bool
}

func (*Limit32) Kind() Kind      { return KindLimit32 }
func (*Limit32) Ports() []string { return ports(ports32) }

// Bind binds the valve to the given signal key, normalized with SensorKey. An
// empty key unbinds it and restores the manual latch.
//
func (v *Limit32) Bind(key string) {
	v.SensorKey = SensorKey(key)
	if v.SensorKey == "" {
		v.Active = v.manual
	}
}

// Manual returns the state of the manual latch.
//
func (v *Limit32) Manual() bool { return v.manual }

// SetManual sets the manual latch. It only shows on Active while the valve is
// not bound to a sensor.
//
func (v *Limit32) SetManual(on bool) {
	v.manual = on
	if v.SensorKey == "" {
		v.Active = on
	}
}

// sensed returns the valve position dictated by its sensor or manual latch.
func (v *Limit32) sensed(sig SignalReader) bool {
	if v.SensorKey != "" {
		return sig.Signal(v.SensorKey)
	}
	return v.manual
}

func (v *Limit32) conduct(f *flood) { spool3(f, v.id, v.sensed(f.sig)) }

// prepare syncs Active with the sensor before pressure is computed.
func (v *Limit32) prepare(sig SignalReader) {
	on := v.sensed(sig)
	if on != v.Active {
		v.Active = on
		zap.S().Debugw("limit32 switched", "id", v.id, "active", on, "sensor", v.SensorKey)
	}
}

func (*Limit32) advance(*stepper) {}

func (v *Limit32) reset(SignalTable) {
	v.manual = false
	v.Active = false
}

// Push32 is a momentary push button 3/2 valve. It is active only while held.
//
//	Ports: 1 (supply), 2 (output), 3 (exhaust)
//	Active: 2-1, inactive: 2-3
//
type Push32 struct {
	Base
	Active bool
}

func (*Push32) Kind() Kind      { return KindPush32 }
func (*Push32) Ports() []string { return ports(ports32) }

func (v *Push32) conduct(f *flood) { spool3(f, v.id, v.Active) }

func (*Push32) advance(*stepper) {}

func (v *Push32) reset(SignalTable) { v.Active = false }

// AndValve is a two pressure valve: OUT is pressurized when both A and B are.
// OUT never feeds back into A or B.
//
//	Ports: A, B, OUT
//
type AndValve struct {
	Base
	passive
}

func (*AndValve) Kind() Kind      { return KindAnd }
func (*AndValve) Ports() []string { return ports(portsLogic) }

func (v *AndValve) conduct(f *flood) {
	f.imply(v.id, pOut, min(f.levelAt(f.at(v.id, pA)), f.levelAt(f.at(v.id, pB))))
}

// OrValve is a shuttle valve: OUT is pressurized when A or B is.
// OUT never feeds back into A or B.
//
//	Ports: A, B, OUT
//
type OrValve struct {
	Base
	passive
}

func (*OrValve) Kind() Kind      { return KindOr }
func (*OrValve) Ports() []string { return ports(portsLogic) }

func (v *OrValve) conduct(f *flood) {
	f.imply(v.id, pOut, max(f.levelAt(f.at(v.id, pA)), f.levelAt(f.at(v.id, pB))))
}

// CheckValve lets pressure through from IN to OUT only.
//
//	Ports: IN, OUT
//
type CheckValve struct {
	Base
	passive
}

func (*CheckValve) Kind() Kind      { return KindCheck }
func (*CheckValve) Ports() []string { return ports(portsInOut) }

func (v *CheckValve) conduct(f *flood) {
	f.imply(v.id, pOut, f.levelAt(f.at(v.id, pIn)))
}

// Restrictor is a flow restrictor. Flow rates are not modeled, so it conducts
// like a plain wire between IN and OUT.
//
//	Ports: IN, OUT
//
type Restrictor struct {
	Base
	passive
}

func (*Restrictor) Kind() Kind      { return KindRestrictor }
func (*Restrictor) Ports() []string { return ports(portsInOut) }

func (v *Restrictor) conduct(f *flood) { f.couple(v.id, pIn, pOut) }

// Junction fans a wire out to several others through its single port J.
//
type Junction struct {
	Base
	passive
}

func (*Junction) Kind() Kind      { return KindJunction }
func (*Junction) Ports() []string { return ports(portsJ) }

// A junction port only takes part in the wire graph.
func (*Junction) conduct(*flood) {}
