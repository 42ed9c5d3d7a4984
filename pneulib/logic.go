// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package pneulib provides a library of ready made pneumatic circuits for
// pneusim.
//
// Copyright 2018 Denis Bernard <db047h@gmail.com>
//
// This package is licensed under the MIT license. See license text in the LICENSE file.
//
package pneulib

import (
	"github.com/db47h/pneusim"
)

// common port keys
const (
	pOut = "OUT"
	pA   = "A"
	pB   = "B"
	p1   = "1"
	p2   = "2"
	p4   = "4"
	p12  = "12"
	p14  = "14"
	pCap = "Cap"
	pRod = "Rod"
	pJ   = "J"
)

// wire connects a list of port pairs.
func wire(d *pneusim.Diagram, ports ...pneusim.Port) {
	if len(ports)%2 != 0 {
		panic("odd number of ports")
	}
	for i := 0; i < len(ports); i += 2 {
		d.Connect(ports[i], ports[i+1])
	}
}

// Gate is a single acting cylinder driven through a logic valve by two push
// buttons.
//
type Gate struct {
	Source   pneusim.ID
	Left     pneusim.ID // push button on input A
	Right    pneusim.ID // push button on input B
	Logic    pneusim.ID
	Cylinder pneusim.ID
}

func gate(d *pneusim.Diagram, logic pneusim.Component) *Gate {
	src := pneusim.NewSource()
	l, r := &pneusim.Push32{}, &pneusim.Push32{}
	cyl := pneusim.NewCylinderSingle(pneusim.Push)
	g := &Gate{
		Source:   d.Add(src),
		Left:     d.Add(l),
		Right:    d.Add(r),
		Logic:    d.Add(logic),
		Cylinder: d.Add(cyl),
	}
	lb := logic.Common()
	wire(d,
		src.Port(pOut), l.Port(p1),
		src.Port(pOut), r.Port(p1),
		l.Port(p2), lb.Port(pA),
		r.Port(p2), lb.Port(pB),
		lb.Port(pOut), cyl.Port(pA),
	)
	return g
}

// TwoHand returns a two hand safety control: the cylinder extends only while
// both push buttons are held.
//
//	Source -> Push32 x2 -> AndValve -> CylinderSingle
//
func TwoHand(d *pneusim.Diagram) *Gate {
	return gate(d, &pneusim.AndValve{})
}

// Either returns a cylinder that extends while any of the two push buttons is
// held.
//
//	Source -> Push32 x2 -> OrValve -> CylinderSingle
//
func Either(d *pneusim.Diagram) *Gate {
	return gate(d, &pneusim.OrValve{})
}

// Relay is a single acting cylinder fed through a pilot operated valve.
//
type Relay struct {
	Source   pneusim.ID
	Button   pneusim.ID
	Valve    pneusim.ID
	Cylinder pneusim.ID
}

// PilotRelay returns a push button that drives a single acting cylinder
// through an AirValve32. The cylinder lags the button by one tick.
//
//	Source -> Push32 -> AirValve32.12
//	Source -> AirValve32.1, AirValve32.2 -> CylinderSingle
//
func PilotRelay(d *pneusim.Diagram, m pneusim.SingleMode) *Relay {
	src := pneusim.NewSource()
	btn := &pneusim.Push32{}
	v := &pneusim.AirValve32{}
	cyl := pneusim.NewCylinderSingle(m)
	r := &Relay{
		Source:   d.Add(src),
		Button:   d.Add(btn),
		Valve:    d.Add(v),
		Cylinder: d.Add(cyl),
	}
	wire(d,
		src.Port(pOut), btn.Port(p1),
		btn.Port(p2), v.Port(p12),
		src.Port(pOut), v.Port(p1),
		v.Port(p2), cyl.Port(pA),
	)
	return r
}
