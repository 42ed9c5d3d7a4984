package pneutest_test

import (
	"testing"

	pn "github.com/db47h/pneusim"
	"github.com/db47h/pneusim/pneulib"
	"github.com/db47h/pneusim/pneutest"
)

func TestCompareSolve(t *testing.T) {
	d := pneutest.Build(t, "1.OUT=2.1, 2.2=3.A, 1.OUT=3.B, 3.OUT=4.IN, 4.OUT=5.J, 5.J=6.A",
		pn.NewSource(), &pn.Push32{Active: true}, &pn.AndValve{}, &pn.CheckValve{}, &pn.Junction{},
		pn.NewCylinderSingle(pn.Push))
	ps := d.Solve(nil)
	pneutest.ComparePorts(t, pneutest.Ports(t, "1.OUT,1.P, 2.1 2.2 3.A 3.B 3.OUT 4.IN 4.OUT 5.J 6.A"), ps)
	pneutest.CheckWires(t, d, ps)
	pneutest.CompareSolve(t, d, nil, 10)
}

func TestRunUntil(t *testing.T) {
	d := pn.NewDiagram()
	pneulib.NewReciprocating(d)
	s := pn.NewSimulator(d, nil, pn.Config{})
	if n, ok := pneutest.RunUntil(s, 0.05, 10, func() bool { return true }); n != 0 || !ok {
		t.Fatalf("RunUntil(true) = %d, %v", n, ok)
	}
	if n, ok := pneutest.RunUntil(s, 0.05, 10, func() bool { return s.Signal("a1") }); n != 10 || ok {
		t.Fatalf("RunUntil in STOP = %d, %v", n, ok)
	}
	if s.Steps() != 0 {
		t.Fatal("simulation advanced in STOP")
	}
}
