package snapshot_test

import (
	"bytes"
	"strings"
	"testing"

	pn "github.com/db47h/pneusim"
	"github.com/db47h/pneusim/pneulib"
	"github.com/db47h/pneusim/pneutest"
	"github.com/db47h/pneusim/snapshot"
	"github.com/google/go-cmp/cmp"
)

func roundTrip(t *testing.T, d *pn.Diagram) *pn.Diagram {
	t.Helper()
	var buf bytes.Buffer
	if err := snapshot.Write(&buf, snapshot.Save(d)); err != nil {
		t.Fatal(err)
	}
	p, err := snapshot.Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	d2, err := snapshot.Load(p)
	if err != nil {
		t.Fatal(err)
	}
	return d2
}

func TestRoundTrip(t *testing.T) {
	d := pn.NewDiagram()
	seq := pneulib.NewSequence(d)
	pneulib.TwoHand(d)
	pneulib.PilotRelay(d, pn.Pull)
	src := pn.NewSource()
	src.Bar = 4.5
	src.X, src.Y = 120, -40
	d.Add(src)
	d.Add(&pn.CheckValve{})
	d.Add(&pn.Restrictor{})

	sig := make(pn.Signals)
	s := pn.NewSimulator(d, sig, pn.Config{})
	s.SetMode(pn.Play)
	for i := 0; i < 40; i++ {
		s.Tick(0.05)
	}
	s.SetMode(pn.Pause)
	if d.Component(seq.A.Cylinder).(pn.Cylinder).Position() == 0 {
		t.Fatal("sequence did not start")
	}

	d2 := roundTrip(t, d)
	if diff := cmp.Diff(snapshot.Save(d), snapshot.Save(d2)); diff != "" {
		t.Fatalf("project mismatch (-want +got):\n%s", diff)
	}
	pneutest.ComparePorts(t, d.Solve(sig), d2.Solve(sig))

	// letter allocation resumes after the loaded letters
	c := pn.NewCylinderDouble("")
	d2.Add(c)
	if c.Name() != "E" {
		t.Fatalf("next letter = %q, expected E", c.Name())
	}
}

const legacy = `{
  "version": 17,
  "comps": [
    {"id": 3, "type": "source", "x": 10, "y": 20},
    {"id": 5, "type": "valve52", "state": 0},
    {"id": 6, "type": "cylinder", "pos": 3, "letter": "B"},
    {"id": 7, "type": "teleporter"},
    {"id": 5, "type": "limit32", "sensor": " B1", "active": true},
    {"id": 0, "type": "cylinderSingle", "mode": "pull"}
  ],
  "conns": [
    {"from": {"id": 3, "port": "OUT"}, "to": {"id": 5, "port": "1"}, "guides": [[1, 2]]},
    {"from": {"id": 5, "port": "4"}, "to": {"id": 6, "port": "Cap"}},
    {"from": {"id": 7, "port": "A"}, "to": {"id": 3, "port": "OUT"}}
  ]
}`

func TestLoad_legacy(t *testing.T) {
	p, err := snapshot.Read(strings.NewReader(legacy))
	if err != nil {
		t.Fatal(err)
	}
	d, err := snapshot.Load(p)
	if err != nil {
		t.Fatal(err)
	}
	var kinds []string
	for _, c := range d.Components() {
		kinds = append(kinds, c.Kind().String())
	}
	if diff := cmp.Diff([]string{"source", "valve52", "cylDouble", "limit32", "cylSingle"}, kinds); diff != "" {
		t.Fatalf("kinds (-want +got):\n%s", diff)
	}
	if src := d.Component(3); src == nil || src.Common().X != 10 || src.Common().Y != 20 {
		t.Fatal("source not restored at id 3")
	}
	v, ok := d.Component(5).(*pn.Valve52)
	if !ok || v.State != 0 {
		t.Fatal("valve52 not restored at id 5")
	}
	cyl, ok := d.Component(6).(*pn.CylinderDouble)
	if !ok || cyl.Position() != 1 || cyl.Name() != "B" {
		t.Fatal("legacy cylinder not restored")
	}
	if len(d.Connections()) != 2 {
		t.Fatalf("connections: %v", d.Connections())
	}

	// renumbered components
	var lim *pn.Limit32
	var single *pn.CylinderSingle
	for _, c := range d.Components() {
		switch c := c.(type) {
		case *pn.Limit32:
			lim = c
		case *pn.CylinderSingle:
			single = c
		}
	}
	if lim.ID() <= 6 || single.ID() <= 6 || lim.ID() == single.ID() {
		t.Fatalf("renumbered ids: %d, %d", lim.ID(), single.ID())
	}
	if lim.SensorKey != "b1" || !lim.Active {
		t.Fatalf("limit32: sensor %q, active %v", lim.SensorKey, lim.Active)
	}
	if single.Mode != pn.Pull || !single.NormallyExtended || single.Position() != 1 || single.Name() != "C" {
		t.Fatalf("cylSingle: %+v", single)
	}

	ps := d.Solve(nil)
	pneutest.ComparePorts(t, pneutest.Ports(t, "3.OUT 3.P 5.1 5.4 6.Cap"), ps)
}

func TestLoad_nil(t *testing.T) {
	if _, err := snapshot.Load(nil); err == nil {
		t.Fatal("no error")
	}
	if _, err := snapshot.Read(strings.NewReader("{")); err == nil {
		t.Fatal("no error on truncated input")
	}
}
