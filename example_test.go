package pneusim_test

import (
	"fmt"

	pn "github.com/db47h/pneusim"
	"github.com/db47h/pneusim/pneulib"
	"github.com/db47h/pneusim/pneutest"
)

func ExampleSolve() {
	d := pn.NewDiagram()
	src := pn.NewSource()
	push := &pn.Push32{Active: true}
	and := &pn.AndValve{}
	d.Add(src)
	d.Add(push)
	d.Add(and)
	d.ConnectWires("1.OUT=2.1, 2.2=3.A, 1.OUT=3.B")

	for _, p := range d.Solve(nil).Sorted() {
		fmt.Println(p)
	}
	// Output:
	// 1.OUT
	// 1.P
	// 2.1
	// 2.2
	// 3.A
	// 3.B
	// 3.OUT
}

func ExampleSimulator() {
	d := pn.NewDiagram()
	pneulib.NewReciprocating(d)
	sim := pn.NewSimulator(d, nil, pn.Config{Speed: 1})
	sim.SetMode(pn.Play)

	// 1/32 s ticks at one stroke per second: 32 ticks per stroke, plus one
	// tick for the valve to switch.
	const dt = 1.0 / 32
	n, _ := pneutest.RunUntil(sim, dt, 100, func() bool { return sim.Signal("a1") })
	fmt.Println("a1 after", n, "ticks")
	n, _ = pneutest.RunUntil(sim, dt, 100, func() bool { return sim.Signal("a0") })
	fmt.Println("a0 after", n, "ticks")
	// Output:
	// a1 after 33 ticks
	// a0 after 33 ticks
}
