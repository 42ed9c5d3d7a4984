package trace_test

import (
	"bytes"
	"strings"
	"testing"

	pn "github.com/db47h/pneusim"
	"github.com/db47h/pneusim/pneulib"
	"github.com/db47h/pneusim/trace"
)

func TestRecorder(t *testing.T) {
	d := pn.NewDiagram()
	r := pneulib.NewReciprocating(d)
	s := pn.NewSimulator(d, nil, pn.Config{})

	var rec trace.Recorder
	if err := rec.Cylinders(s); err != nil {
		t.Fatal(err)
	}
	pilot := pn.Port{ID: r.Valve, Key: "14"}
	rec.Ports(s, pilot)
	rec.Signals(s, "a0", "a1")

	s.SetMode(pn.Play)
	const n = 60
	for i := 0; i < n; i++ {
		s.Tick(0.05)
	}

	ss := rec.Series()
	var names []string
	for _, s := range ss {
		names = append(names, s.Name)
		if len(s.T) != n || len(s.V) != n {
			t.Fatalf("%s: %d samples, expected %d", s.Name, len(s.T), n)
		}
	}
	if strings.Join(names, " ") != "A "+pilot.String()+" a0 a1" {
		t.Fatalf("series: %v", names)
	}
	pos := ss[0]
	if pos.T[0] != 0.05 || pos.V[0] != 0 {
		t.Fatalf("first sample: t=%v, pos=%v", pos.T[0], pos.V[0])
	}
	var top bool
	for _, v := range pos.V {
		top = top || v == 1
	}
	if !top {
		t.Fatal("cylinder never reached the end of its stroke")
	}
	// the valve pilot goes up on the first tick
	if ss[1].V[0] != 1 {
		t.Fatal("pilot 14 not recorded")
	}

	var buf bytes.Buffer
	if err := rec.Render(&buf, "reciprocating"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "reciprocating") {
		t.Fatal("chart title missing from output")
	}
}
