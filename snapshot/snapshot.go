// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package snapshot reads and writes pneusim diagrams as JSON project files.
//
// Only the simulation relevant data is kept. Editor data such as wire routing
// guides is ignored when reading.
//
package snapshot

import (
	"encoding/json"
	"io"

	"github.com/db47h/pneusim"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Version is the project file format version written by Save.
//
const Version = 18

// A Project is the serialized form of a diagram.
//
type Project struct {
	Version int    `json:"version"`
	Comps   []Comp `json:"comps"`
	Conns   []Conn `json:"conns"`
}

// A Comp is a serialized component. Optional fields only apply to some kinds.
//
type Comp struct {
	ID   int     `json:"id"`
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`

	State            *int     `json:"state,omitempty"`  // valve52
	Active           *bool    `json:"active,omitempty"` // airValve32, limit32, push32
	Sensor           string   `json:"sensor,omitempty"` // limit32
	Pos              *float64 `json:"pos,omitempty"`    // cylinders
	Letter           string   `json:"letter,omitempty"` // cylinders
	Mode             string   `json:"mode,omitempty"`   // cylSingle
	NormallyExtended *bool    `json:"normallyExtended,omitempty"`
	Bar              float64  `json:"bar,omitempty"` // source
}

// An Endpoint is a serialized port.
//
type Endpoint struct {
	ID   int    `json:"id"`
	Port string `json:"port"`
}

// A Conn is a serialized connection.
//
type Conn struct {
	From Endpoint `json:"from"`
	To   Endpoint `json:"to"`
}

// Save returns the project for diagram d.
//
func Save(d *pneusim.Diagram) *Project {
	p := &Project{Version: Version}
	for _, c := range d.Components() {
		p.Comps = append(p.Comps, saveComp(c))
	}
	for _, c := range d.Connections() {
		p.Conns = append(p.Conns, Conn{
			From: Endpoint{int(c.From.ID), c.From.Key},
			To:   Endpoint{int(c.To.ID), c.To.Key},
		})
	}
	return p
}

func saveComp(c pneusim.Component) Comp {
	b := c.Common()
	sc := Comp{ID: int(c.ID()), Type: c.Kind().String(), X: b.X, Y: b.Y}
	switch v := c.(type) {
	case *pneusim.Source:
		sc.Bar = v.Bar
	case *pneusim.Valve52:
		sc.State = ptr(v.State)
	case *pneusim.AirValve32:
		sc.Active = ptr(v.Active)
	case *pneusim.Push32:
		sc.Active = ptr(v.Active)
	case *pneusim.Limit32:
		sc.Sensor = v.SensorKey
		if v.SensorKey == "" {
			sc.Active = ptr(v.Manual())
		} else {
			sc.Active = ptr(v.Active)
		}
	case *pneusim.CylinderDouble:
		sc.Pos, sc.Letter = ptr(v.Pos), v.Letter
	case *pneusim.CylinderSingle:
		sc.Pos, sc.Letter = ptr(v.Pos), v.Letter
		sc.Mode = v.Mode.String()
		sc.NormallyExtended = ptr(v.NormallyExtended)
	}
	return sc
}

func ptr[T any](v T) *T { return &v }

// Load builds a new diagram from project p.
//
// Components of an unknown type are skipped, as are the connections that
// reference them. Component IDs are preserved unless invalid or duplicated,
// in which case the component gets a new ID. Out of range values are clamped.
//
func Load(p *Project) (*pneusim.Diagram, error) {
	if p == nil {
		return nil, errors.New("nil project")
	}
	if p.Version > Version {
		zap.S().Warnw("project file format is newer than supported", "version", p.Version, "supported", Version)
	}
	d := pneusim.NewDiagram()
	ids := make(map[int]pneusim.ID, len(p.Comps))
	for i := range p.Comps {
		sc := &p.Comps[i]
		k, ok := pneusim.ParseKind(sc.Type)
		if !ok {
			zap.S().Warnw("skipping component of unknown type", "id", sc.ID, "type", sc.Type)
			continue
		}
		c := pneusim.New(k)
		loadComp(c, sc)
		id := pneusim.ID(sc.ID)
		if err := d.Insert(id, c); err != nil {
			id = d.Add(c)
			zap.S().Warnw("component renumbered", "id", sc.ID, "new", id, "reason", err)
		}
		if _, dup := ids[sc.ID]; !dup {
			ids[sc.ID] = id
		}
	}
	for _, cn := range p.Conns {
		from, ok1 := ids[cn.From.ID]
		to, ok2 := ids[cn.To.ID]
		if !ok1 || !ok2 {
			zap.S().Warnw("dropping dangling connection", "from", cn.From, "to", cn.To)
			continue
		}
		d.Connect(pneusim.Port{ID: from, Key: cn.From.Port}, pneusim.Port{ID: to, Key: cn.To.Port})
	}
	return d, nil
}

func loadComp(c pneusim.Component, sc *Comp) {
	b := c.Common()
	b.X, b.Y = sc.X, sc.Y
	active := sc.Active != nil && *sc.Active
	switch v := c.(type) {
	case *pneusim.Source:
		if sc.Bar > 0 {
			v.Bar = sc.Bar
		}
	case *pneusim.Valve52:
		if sc.State != nil {
			v.SetState(*sc.State)
		}
	case *pneusim.AirValve32:
		v.Active = active
	case *pneusim.Push32:
		v.Active = active
	case *pneusim.Limit32:
		v.Bind(sc.Sensor)
		if v.SensorKey == "" {
			v.SetManual(active)
		} else {
			v.Active = active
		}
	case *pneusim.CylinderDouble:
		v.Letter = sc.Letter
		if sc.Pos != nil {
			v.SetPos(*sc.Pos)
		}
	case *pneusim.CylinderSingle:
		v.Letter = sc.Letter
		v.SetMode(pneusim.ParseSingleMode(sc.Mode))
		if sc.NormallyExtended != nil {
			v.NormallyExtended = *sc.NormallyExtended
		}
		if sc.Pos != nil {
			v.SetPos(*sc.Pos)
		}
	}
}

// Read decodes a project from r.
//
func Read(r io.Reader) (*Project, error) {
	var p Project
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, errors.Wrap(err, "decode project")
	}
	return &p, nil
}

// Write encodes p to w.
//
func Write(w io.Writer, p *Project) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(p), "encode project")
}
