// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pneusim

import (
	"strconv"

	"github.com/pkg/errors"
)

// A Wire is a pair of ports to connect.
//
type Wire struct {
	From, To Port
}

// ParseWires parses a wire list and returns the individual wires. The syntax
// is a comma separated list of port pairs:
//
//	1.OUT=2.1, 2.2=3.Cap
//
// A port is written as the component ID, a dot, then the port key. Port keys
// are made of letters and digits. White space is allowed around ports, '=' and
// commas. An empty string or a trailing comma is valid.
//
func ParseWires(s string) ([]Wire, error) {
	var ws []Wire
	p := wireParser{in: s}
	for {
		p.skipSpace()
		if p.eof() {
			return ws, nil
		}
		from, err := p.port()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.accept('=') {
			return nil, p.errorf("expected '='")
		}
		p.skipSpace()
		to, err := p.port()
		if err != nil {
			return nil, err
		}
		ws = append(ws, Wire{from, to})
		p.skipSpace()
		if p.eof() {
			return ws, nil
		}
		if !p.accept(',') {
			return nil, p.errorf("expected comma or end of input")
		}
	}
}

type wireParser struct {
	in  string
	pos int
}

func (p *wireParser) eof() bool { return p.pos >= len(p.in) }

func (p *wireParser) accept(c byte) bool {
	if !p.eof() && p.in[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *wireParser) skipSpace() {
	for !p.eof() {
		switch p.in[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *wireParser) span(ok func(c byte) bool) string {
	start := p.pos
	for !p.eof() && ok(p.in[p.pos]) {
		p.pos++
	}
	return p.in[start:p.pos]
}

func (p *wireParser) port() (Port, error) {
	start := p.pos
	digits := p.span(isDigit)
	if digits == "" {
		return Port{}, p.errorf("expected component id")
	}
	id, err := strconv.Atoi(digits)
	if err != nil || id <= 0 {
		p.pos = start
		return Port{}, p.errorf("invalid component id %q", digits)
	}
	if !p.accept('.') {
		return Port{}, p.errorf("expected '.' after component id")
	}
	key := p.span(isKeyChar)
	if key == "" {
		return Port{}, p.errorf("expected port key")
	}
	return Port{ID(id), key}, nil
}

func (p *wireParser) errorf(format string, args ...interface{}) error {
	args = append([]interface{}{p.in, p.pos + 1}, args...)
	return errors.Errorf("in %q at pos %d: "+format, args...)
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isKeyChar(c byte) bool {
	return isDigit(c) || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// ConnectAll connects every wire in ws and returns the new connection IDs in
// the same order.
//
func (d *Diagram) ConnectAll(ws []Wire) []ConnectionID {
	ids := make([]ConnectionID, len(ws))
	for i, w := range ws {
		ids[i] = d.Connect(w.From, w.To)
	}
	return ids
}

// ConnectWires parses the wire list s and connects the wires. See ParseWires
// for the syntax. Nothing is connected if s does not parse.
//
func (d *Diagram) ConnectWires(s string) ([]ConnectionID, error) {
	ws, err := ParseWires(s)
	if err != nil {
		return nil, errors.Wrap(err, "parse wires")
	}
	return d.ConnectAll(ws), nil
}
