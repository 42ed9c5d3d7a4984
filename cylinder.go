// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pneusim

import (
	"math"

	"go.uber.org/zap"
)

// DefaultSpeed is the nominal piston speed, in strokes per second.
//
const DefaultSpeed = 0.8

// A Cylinder is a component with a piston position.
//
type Cylinder interface {
	Component
	// Position returns the piston position, 0 when fully retracted and 1 when
	// fully extended.
	Position() float64
	// SetPos moves the piston. The position is clamped to [0, 1].
	SetPos(pos float64)
	// Name returns the cylinder letter.
	Name() string

	piston() *Piston
}

// Piston holds the state shared by cylinders.
//
type Piston struct {
	// Pos is the piston position in [0, 1].
	Pos float64
	// Letter names the cylinder. Its lower case form prefixes the cylinder's
	// position signals: "a0" when A is retracted, "a1" when extended.
	Letter string
}

// Position implements Cylinder.
//
func (p *Piston) Position() float64 { return p.Pos }

// SetPos implements Cylinder.
//
func (p *Piston) SetPos(pos float64) { p.Pos = clamp01(pos) }

// Name implements Cylinder.
//
func (p *Piston) Name() string { return p.Letter }

func (p *Piston) piston() *Piston { return p }

// stroke moves the piston toward target at the stepper's speed, then
// publishes its position signals.
func (p *Piston) stroke(s *stepper, id ID, target float64) {
	from := p.Pos
	switch {
	case target > p.Pos:
		p.Pos = clamp01(p.Pos + s.speed*s.dt)
	case target < p.Pos:
		p.Pos = clamp01(p.Pos - s.speed*s.dt)
	}
	if p.Pos != from && (p.Pos == 0 || p.Pos == 1) {
		zap.S().Debugw("cylinder reached end of stroke", "id", id, "letter", p.Letter, "pos", p.Pos)
	}
	p.publish(s.sig)
}

// publish writes the position signals of the piston.
func (p *Piston) publish(sig SignalTable) {
	if p.Letter == "" || sig == nil {
		return
	}
	k0, k1 := signalKeys(p.Letter)
	sig.SetSignal(k0, p.Pos <= 0)
	sig.SetSignal(k1, p.Pos >= 1)
}

// unpublish clears the position signals of the piston.
func (p *Piston) unpublish(sig SignalTable) {
	if p.Letter == "" || sig == nil {
		return
	}
	k0, k1 := signalKeys(p.Letter)
	sig.SetSignal(k0, false)
	sig.SetSignal(k1, false)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 1:
		return 1
	}
	return v
}

// CylinderDouble is a double acting cylinder. It extends when only Cap is fed,
// retracts when only Rod is fed and holds its position otherwise.
//
//	Ports: Cap, Rod
//
type CylinderDouble struct {
	Base
	Piston
}

// NewCylinderDouble returns a retracted double acting cylinder.
//
func NewCylinderDouble(letter string) *CylinderDouble {
	return &CylinderDouble{Piston: Piston{Letter: letter}}
}

func (*CylinderDouble) Kind() Kind      { return KindCylinderDouble }
func (*CylinderDouble) Ports() []string { return []string{pCap, pRod} }

func (*CylinderDouble) conduct(*flood) {}

func (c *CylinderDouble) advance(s *stepper) {
	capFed, rodFed := s.fed(c.id, pCap), s.fed(c.id, pRod)
	target := c.Pos
	switch {
	case capFed && !rodFed:
		target = 1
	case rodFed && !capFed:
		target = 0
	}
	c.stroke(s, c.id, target)
}

func (c *CylinderDouble) reset(sig SignalTable) {
	c.Pos = 0
	c.publish(sig)
}

// SingleMode selects how a single acting cylinder reacts to pressure on A.
//
type SingleMode int

// Single acting modes.
//
const (
	// Push extends while A is fed and springs back otherwise.
	Push SingleMode = iota
	// Pull retracts while A is fed and springs back out otherwise.
	Pull
)

func (m SingleMode) String() string {
	if m == Pull {
		return "pull"
	}
	return "push"
}

// ParseSingleMode parses "push" or "pull". Anything else is Push.
//
func ParseSingleMode(s string) SingleMode {
	if s == "pull" {
		return Pull
	}
	return Push
}

// CylinderSingle is a single acting cylinder with spring return.
//
//	Ports: A
//
type CylinderSingle struct {
	Base
	Piston
	Mode SingleMode
	// NormallyExtended selects the rest position used on reset.
	NormallyExtended bool
}

// NewCylinderSingle returns a single acting cylinder at rest in the given mode.
// Pull mode cylinders are normally extended.
//
func NewCylinderSingle(m SingleMode) *CylinderSingle {
	c := &CylinderSingle{}
	c.SetMode(m)
	return c
}

// SetMode sets the mode, the matching rest position, and moves the piston to
// it.
//
func (c *CylinderSingle) SetMode(m SingleMode) {
	c.Mode = m
	c.NormallyExtended = m == Pull
	c.Pos = c.rest()
}

func (c *CylinderSingle) rest() float64 {
	if c.NormallyExtended {
		return 1
	}
	return 0
}

func (*CylinderSingle) Kind() Kind      { return KindCylinderSingle }
func (*CylinderSingle) Ports() []string { return []string{pA} }

func (*CylinderSingle) conduct(*flood) {}

func (c *CylinderSingle) advance(s *stepper) {
	fed := s.fed(c.id, pA)
	if c.Mode == Pull {
		fed = !fed
	}
	target := 0.0
	if fed {
		target = 1
	}
	c.stroke(s, c.id, target)
}

func (c *CylinderSingle) reset(sig SignalTable) {
	c.Pos = c.rest()
	c.publish(sig)
}
