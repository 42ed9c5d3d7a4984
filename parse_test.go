package pneusim_test

import (
	"strings"
	"testing"

	pn "github.com/db47h/pneusim"
	"github.com/google/go-cmp/cmp"
)

func TestParseWires(t *testing.T) {
	p := func(id pn.ID, key string) pn.Port { return pn.Port{ID: id, Key: key} }
	data := []struct {
		in  string
		out []pn.Wire
		err string
	}{
		{"", nil, ""},
		{"  ", nil, ""},
		{"1.OUT=2.1", []pn.Wire{{p(1, "OUT"), p(2, "1")}}, ""},
		{"1.OUT=2.1, 2.2 = 3.Cap,", []pn.Wire{{p(1, "OUT"), p(2, "1")}, {p(2, "2"), p(3, "Cap")}}, ""},
		{"\t12.14=7.J\n", []pn.Wire{{p(12, "14"), p(7, "J")}}, ""},
		{"1.OUT 2.1", nil, "pos 7: expected '='"},
		{"OUT=2.1", nil, "pos 1: expected component id"},
		{"0.OUT=2.1", nil, "pos 1: invalid component id"},
		{"1OUT=2.1", nil, "pos 2: expected '.'"},
		{"1.=2.1", nil, "pos 3: expected port key"},
		{"1.OUT=2.1;", nil, "pos 10: expected comma or end of input"},
		{"1.OUT=", nil, "pos 7: expected component id"},
	}
	for _, d := range data {
		t.Run(d.in, func(t *testing.T) {
			ws, err := pn.ParseWires(d.in)
			if d.err != "" {
				if err == nil || !strings.Contains(err.Error(), d.err) {
					t.Fatalf("expected error %q, got %v", d.err, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(d.out, ws); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestConnectWires(t *testing.T) {
	d := pn.NewDiagram()
	if _, err := d.ConnectWires("1.OUT=2.1, 2.2"); err == nil {
		t.Fatal("no error on bad wire list")
	}
	if len(d.Connections()) != 0 {
		t.Fatal("bad wire list partially connected")
	}
	ids, err := d.ConnectWires("1.OUT=2.1, 2.2=3.A")
	if err != nil {
		t.Fatal(err)
	}
	cs := d.Connections()
	if len(ids) != 2 || cs[0].ID != ids[0] || cs[1].ID != ids[1] {
		t.Fatalf("ids = %v, connections = %v", ids, cs)
	}
	if cs[1].From.String() != "2.2" || cs[1].To.String() != "3.A" {
		t.Fatalf("connection = %v-%v", cs[1].From, cs[1].To)
	}
}
