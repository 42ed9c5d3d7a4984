package pneusim_test

import (
	"testing"

	pn "github.com/db47h/pneusim"
	"github.com/google/go-cmp/cmp"
)

func TestDiagram_addRemove(t *testing.T) {
	d := pn.NewDiagram()
	src, v, cyl := pn.NewSource(), pn.NewValve52(), pn.NewCylinderDouble("")
	for i, c := range []pn.Component{src, v, cyl} {
		if id := d.Add(c); id != pn.ID(i+1) || c.ID() != id {
			t.Fatalf("component %d: got id %d", i, id)
		}
	}
	c1 := d.Connect(src.Port("OUT"), v.Port("1"))
	c2 := d.Connect(v.Port("2"), cyl.Port("Rod"))
	c3 := d.Connect(v.Port("4"), cyl.Port("Cap"))
	if c1 == c2 || c2 == c3 {
		t.Fatal("duplicate connection IDs")
	}
	if ws := d.Wires(v.Port("2")); len(ws) != 1 || ws[0].ID != c2 {
		t.Fatalf("wires on valve port 2: %v", ws)
	}
	if o, ok := d.Connections()[1].Other(cyl.Port("Rod")); !ok || o != v.Port("2") {
		t.Fatalf("Other = %v, %v", o, ok)
	}

	if !d.Disconnect(c1) || d.Disconnect(c1) {
		t.Fatal("Disconnect")
	}
	if !d.Remove(cyl.ID()) || d.Remove(cyl.ID()) {
		t.Fatal("Remove")
	}
	if d.Component(cyl.ID()) != nil || len(d.Cylinders()) != 0 {
		t.Fatal("removed cylinder still registered")
	}
	if len(d.Connections()) != 0 {
		t.Fatalf("connections left: %v", d.Connections())
	}
	if id := d.Add(pn.NewSource()); id != 4 {
		t.Fatalf("IDs reused after Remove: got %d", id)
	}
}

func TestDiagram_insert(t *testing.T) {
	d := pn.NewDiagram()
	src := pn.NewSource()
	if err := d.Insert(10, src); err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		name string
		id   pn.ID
		c    pn.Component
	}{
		{"registered", 11, src},
		{"zero", 0, pn.NewSource()},
		{"negative", -1, pn.NewSource()},
		{"duplicate", 10, pn.NewSource()},
	} {
		if err := d.Insert(tc.id, tc.c); err == nil {
			t.Errorf("%s: no error", tc.name)
		}
	}
	if id := d.Add(pn.NewSource()); id != 11 {
		t.Fatalf("next id after Insert(10) = %d", id)
	}
}

func TestDiagram_letters(t *testing.T) {
	d := pn.NewDiagram()
	var got []string
	for i := 0; i < 28; i++ {
		c := pn.NewCylinderSingle(pn.Push)
		d.Add(c)
		got = append(got, c.Name())
	}
	if got[0] != "A" || got[25] != "Z" || got[26] != "AA" || got[27] != "AB" {
		t.Fatalf("letters: %v", got)
	}

	d = pn.NewDiagram()
	d.Add(pn.NewCylinderDouble("C"))
	c := pn.NewCylinderDouble("")
	d.Add(c)
	if c.Name() != "D" {
		t.Fatalf("letter after C = %q", c.Name())
	}
	var names []string
	for _, c := range d.Cylinders() {
		names = append(names, c.Name())
	}
	if diff := cmp.Diff([]string{"C", "D"}, names); diff != "" {
		t.Fatal(diff)
	}
}

func TestKind(t *testing.T) {
	for k := pn.KindSource; k <= pn.KindJunction; k++ {
		c := pn.New(k)
		if c.Kind() != k {
			t.Errorf("New(%v).Kind() = %v", k, c.Kind())
		}
		if pk, ok := pn.ParseKind(k.String()); !ok || pk != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), pk, ok)
		}
		ps := c.Ports()
		ps[0] = "mutated"
		if c.Ports()[0] == "mutated" {
			t.Errorf("%v: Ports returns a shared slice", k)
		}
	}
	for tag, k := range map[string]pn.Kind{"cylinder": pn.KindCylinderDouble, "cylinderSingle": pn.KindCylinderSingle} {
		if pk, ok := pn.ParseKind(tag); !ok || pk != k {
			t.Errorf("ParseKind(%q) = %v, %v", tag, pk, ok)
		}
	}
	if _, ok := pn.ParseKind("flux capacitor"); ok {
		t.Error("ParseKind accepted an unknown tag")
	}
}

func TestCylinder_setPos(t *testing.T) {
	c := pn.NewCylinderDouble("A")
	for _, tc := range []struct{ in, want float64 }{{-1, 0}, {0.25, 0.25}, {2, 1}} {
		c.SetPos(tc.in)
		if c.Position() != tc.want {
			t.Errorf("SetPos(%v): got %v", tc.in, c.Position())
		}
	}
	v := pn.NewValve52()
	v.SetState(7)
	if v.State != 1 {
		t.Errorf("SetState(7): state = %d", v.State)
	}
}
