/*
Package pneusim provides a simulation engine for pneumatic circuit diagrams.

A diagram is built from components (pressure sources, 5/2 and 3/2 valves,
logic valves, cylinders and junctions) whose named ports are connected by
wires. On every tick, the simulator computes which ports carry supply pressure
by flooding the wire graph from the sources, through the internal paths that
each valve opens given its current state. Pilot ports and cylinder limit
signals then update valve states and cylinder positions for the next tick.

Feedback is delayed by one tick: a valve whose own output drives
its pilot line sees the change on the next tick only. This turns every
feedback loop into a discrete-time recurrence that always settles within a
tick.

The package does not render anything. An editor registers components with a
Diagram, drives a Simulator and reads back pressurized ports, valve states and
cylinder positions.
*/
package pneusim
