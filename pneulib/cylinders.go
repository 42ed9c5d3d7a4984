// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pneulib

import (
	"github.com/db47h/pneusim"
)

// Axis is a double acting cylinder driven by a 5/2 valve, with one limit
// switch at each end of its stroke.
//
// The valve is wired so that state 1 retracts the cylinder (2 -> Rod) and state
// 0 extends it (4 -> Cap).
//
type Axis struct {
	Valve     pneusim.ID
	Cylinder  pneusim.ID
	Retracted pneusim.ID // limit switch bound to "<letter>0"
	Extended  pneusim.ID // limit switch bound to "<letter>1"
	Letter    string
}

// axis adds an Axis supplied from port supply. The limit switch outputs are
// left unconnected.
func axis(d *pneusim.Diagram, supply pneusim.Port) (*Axis, *pneusim.Valve52, *pneusim.Limit32, *pneusim.Limit32) {
	v := pneusim.NewValve52()
	cyl := pneusim.NewCylinderDouble("")
	l0, l1 := &pneusim.Limit32{}, &pneusim.Limit32{}
	a := &Axis{
		Valve:     d.Add(v),
		Cylinder:  d.Add(cyl),
		Retracted: d.Add(l0),
		Extended:  d.Add(l1),
		Letter:    cyl.Name(),
	}
	k := pneusim.SensorKey(a.Letter)
	l0.Bind(k + "0")
	l1.Bind(k + "1")
	wire(d,
		supply, v.Port(p1),
		supply, l0.Port(p1),
		supply, l1.Port(p1),
		v.Port(p2), cyl.Port(pRod),
		v.Port(p4), cyl.Port(pCap),
	)
	return a, v, l0, l1
}

// Reciprocating is a double acting cylinder that cycles between its end
// positions for as long as air is supplied.
//
type Reciprocating struct {
	Source pneusim.ID
	Axis
}

// NewReciprocating returns a reciprocating cylinder. The retracted limit
// switch pilots the valve to extend, the extended one pilots it back.
//
//	Source -> Valve52.1, Limit32(a0).1, Limit32(a1).1
//	Valve52.2 -> Rod, Valve52.4 -> Cap
//	Limit32(a0).2 -> Valve52.14
//	Limit32(a1).2 -> Valve52.12
//
func NewReciprocating(d *pneusim.Diagram) *Reciprocating {
	src := pneusim.NewSource()
	r := &Reciprocating{Source: d.Add(src)}
	a, v, l0, l1 := axis(d, src.Port(pOut))
	r.Axis = *a
	wire(d,
		l0.Port(p2), v.Port(p14),
		l1.Port(p2), v.Port(p12),
	)
	return r
}

// Sequence runs two double acting cylinders through the A+ B+ A- B- cycle.
//
type Sequence struct {
	Source   pneusim.ID
	Junction pneusim.ID
	A, B     Axis
}

// NewSequence returns a two cylinder A+ B+ A- B- sequence supplied through a
// junction.
//
//	b0 -> A+ (valve A.14)
//	a1 -> B+ (valve B.14)
//	b1 -> A- (valve A.12)
//	a0 -> B- (valve B.12)
//
func NewSequence(d *pneusim.Diagram) *Sequence {
	src := pneusim.NewSource()
	j := &pneusim.Junction{}
	s := &Sequence{
		Source:   d.Add(src),
		Junction: d.Add(j),
	}
	wire(d, src.Port(pOut), j.Port(pJ))
	a, va, a0, a1 := axis(d, j.Port(pJ))
	b, vb, b0, b1 := axis(d, j.Port(pJ))
	s.A, s.B = *a, *b
	wire(d,
		b0.Port(p2), va.Port(p14),
		a1.Port(p2), vb.Port(p14),
		b1.Port(p2), va.Port(p12),
		a0.Port(p2), vb.Port(p12),
	)
	return s
}
