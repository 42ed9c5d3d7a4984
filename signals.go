// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pneusim

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// A SignalReader reads named boolean signals. Unknown keys read as false.
//
type SignalReader interface {
	Signal(key string) bool
}

// A SignalTable is a SignalReader that can also be written to.
//
// Cylinders write "<letter>0" and "<letter>1" when they reach their retracted
// and extended positions. Limit switches bound to a sensor key read them.
//
type SignalTable interface {
	SignalReader
	SetSignal(key string, value bool)
}

// Signals is a map based SignalTable. A nil Signals is a valid, always false,
// SignalReader.
//
type Signals map[string]bool

// Signal implements SignalReader.
//
func (s Signals) Signal(key string) bool { return s[key] }

// SetSignal implements SignalTable.
//
func (s Signals) SetSignal(key string, value bool) { s[key] = value }

// Keys returns the keys of all signals ever set, sorted.
//
func (s Signals) Keys() []string {
	ks := maps.Keys(s)
	slices.Sort(ks)
	return ks
}

// SensorKey normalizes a sensor key: surrounding white space is removed and
// letters are lower-cased.
//
func SensorKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// signalKeys returns the retracted and extended signal keys for a cylinder
// letter.
func signalKeys(letter string) (k0, k1 string) {
	l := strings.ToLower(letter)
	return l + "0", l + "1"
}
