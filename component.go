// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pneusim

import "strconv"

// ID identifies a component within a Diagram. Valid IDs are > 0.
//
type ID int

// Kind enumerates the component variants.
//
type Kind int

// Component kinds.
//
const (
	KindSource Kind = iota
	KindValve52
	KindAirValve32
	KindLimit32
	KindPush32
	KindAnd
	KindOr
	KindCheck
	KindRestrictor
	KindCylinderDouble
	KindCylinderSingle
	KindJunction
	kindCount
)

var kindNames = [...]string{
	KindSource:         "source",
	KindValve52:        "valve52",
	KindAirValve32:     "airValve32",
	KindLimit32:        "limit32",
	KindPush32:         "push32",
	KindAnd:            "andValve",
	KindOr:             "orValve",
	KindCheck:          "checkValve",
	KindRestrictor:     "restrictor",
	KindCylinderDouble: "cylDouble",
	KindCylinderSingle: "cylSingle",
	KindJunction:       "junction",
}

// String returns the type tag used for k in project files.
//
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// ParseKind returns the Kind for the given type tag. Legacy tags "cylinder"
// and "cylinderSingle" are accepted.
//
func ParseKind(tag string) (Kind, bool) {
	switch tag {
	case "cylinder":
		return KindCylinderDouble, true
	case "cylinderSingle":
		return KindCylinderSingle, true
	}
	for k, n := range kindNames {
		if n == tag {
			return Kind(k), true
		}
	}
	return 0, false
}

// A Component is a node of a pneumatic diagram.
//
// The set of implementations is closed: the unexported methods make sure that
// only the types of this package satisfy the interface, and that a new kind
// cannot be added without saying how it conducts pressure, how it advances on
// a tick and how it resets.
//
type Component interface {
	// ID returns the component ID. It is 0 until the component is added to a
	// Diagram.
	ID() ID
	// Kind returns the component variant.
	Kind() Kind
	// Ports returns the port keys of the component, in a fixed order.
	Ports() []string
	// Common returns the fields shared by all components.
	Common() *Base

	// conduct applies the internal connectivity rules of the component.
	conduct(f *flood)
	// advance applies state transitions from the last computed pressure.
	advance(s *stepper)
	// reset restores the default state.
	reset(sig SignalTable)
}

// Base holds the fields common to all components.
//
type Base struct {
	id ID
	// X and Y belong to the editor. The simulator never reads them.
	X, Y float64
}

// ID returns the component ID.
//
func (b *Base) ID() ID { return b.id }

// Common returns b.
//
func (b *Base) Common() *Base { return b }

// Port returns the port with the given key on that component.
//
func (b *Base) Port(key string) Port { return Port{b.id, key} }

// passive is embedded by components without state.
type passive struct{}

func (passive) advance(*stepper)  {}
func (passive) reset(SignalTable) {}

// New returns a new component of the given kind in its default state.
//
func New(k Kind) Component {
	switch k {
	case KindSource:
		return NewSource()
	case KindValve52:
		return NewValve52()
	case KindAirValve32:
		return &AirValve32{}
	case KindLimit32:
		return &Limit32{}
	case KindPush32:
		return &Push32{}
	case KindAnd:
		return &AndValve{}
	case KindOr:
		return &OrValve{}
	case KindCheck:
		return &CheckValve{}
	case KindRestrictor:
		return &Restrictor{}
	case KindCylinderDouble:
		return &CylinderDouble{}
	case KindCylinderSingle:
		return NewCylinderSingle(Push)
	case KindJunction:
		return &Junction{}
	}
	panic("unknown component kind " + k.String())
}
