// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command pneusim runs a pneumatic diagram from a project file or from one of
// the built-in demo circuits.
//
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/db47h/pneusim"
	"github.com/db47h/pneusim/pneulib"
	"github.com/db47h/pneusim/snapshot"
	"github.com/db47h/pneusim/trace"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// demo builds a demo circuit in d and returns the IDs of the push buttons to
// hold down while it runs.
type demo func(d *pneusim.Diagram) []pneusim.ID

var demos = map[string]demo{
	"reciprocating": func(d *pneusim.Diagram) []pneusim.ID {
		pneulib.NewReciprocating(d)
		return nil
	},
	"sequence": func(d *pneusim.Diagram) []pneusim.ID {
		pneulib.NewSequence(d)
		return nil
	},
	"twohand": func(d *pneusim.Diagram) []pneusim.ID {
		g := pneulib.TwoHand(d)
		return []pneusim.ID{g.Left, g.Right}
	},
	"either": func(d *pneusim.Diagram) []pneusim.ID {
		g := pneulib.Either(d)
		return []pneusim.ID{g.Left}
	},
	"relay": func(d *pneusim.Diagram) []pneusim.ID {
		r := pneulib.PilotRelay(d, pneusim.Push)
		return []pneusim.ID{r.Button}
	},
}

func demoNames() string {
	ns := make([]string, 0, len(demos))
	for n := range demos {
		ns = append(ns, n)
	}
	sort.Strings(ns)
	return strings.Join(ns, ", ")
}

func load(project, name string) (*pneusim.Diagram, []pneusim.ID, error) {
	if project != "" {
		f, err := os.Open(project)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		p, err := snapshot.Read(f)
		if err != nil {
			return nil, nil, errors.Wrap(err, project)
		}
		d, err := snapshot.Load(p)
		return d, nil, err
	}
	fn, ok := demos[name]
	if !ok {
		return nil, nil, errors.Errorf("unknown demo %q, available: %s", name, demoNames())
	}
	d := pneusim.NewDiagram()
	return d, fn(d), nil
}

func save(name string, d *pneusim.Diagram) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err = snapshot.Write(f, snapshot.Save(d)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func chart(name string, r *trace.Recorder, title string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err = r.Render(f, title); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	defer zap.S().Sync()
	level := zap.LevelFlag("log-level", zap.InfoLevel, "set log level")
	project := flag.String("project", "", "load the diagram from this project `file`")
	demoName := flag.String("demo", "reciprocating", "built-in demo circuit: "+demoNames())
	ticks := flag.Int("ticks", 500, "number of ticks to run")
	dt := flag.Float64("dt", 0.02, "tick time step in seconds")
	speed := flag.Float64("speed", pneusim.DefaultSpeed, "piston speed in strokes per second")
	realtime := flag.Duration("run", 0, "run in real time for this `duration` instead of a fixed number of ticks")
	chartFile := flag.String("chart", "", "write an HTML trace chart to `file`")
	saveFile := flag.String("save", "", "write the final diagram state to project `file`")
	flag.Parse()

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(*level)
	dev, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(dev)

	d, held, err := load(*project, *demoName)
	if err != nil {
		zap.S().Fatalw("load diagram", "err", err)
	}

	sim := pneusim.NewSimulator(d, nil, pneusim.Config{Speed: *speed})
	var rec trace.Recorder
	if *chartFile != "" {
		if err = rec.Cylinders(sim); err != nil {
			zap.S().Fatalw("trace", "err", err)
		}
	}
	sim.SetMode(pneusim.Play)
	for _, id := range held {
		if err = sim.SetPressed(id, true); err != nil {
			zap.S().Fatalw("press button", "id", id, "err", err)
		}
	}

	if *realtime > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), *realtime)
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		err = sim.Run(ctx)
		stop()
		cancel()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			zap.S().Fatalw("run", "err", err)
		}
	} else {
		for i := 0; i < *ticks; i++ {
			sim.Tick(*dt)
		}
	}

	zap.S().Infow("simulation done", "steps", sim.Steps(), "elapsed", time.Duration(sim.Elapsed()*float64(time.Second)))
	for _, c := range d.Cylinders() {
		zap.S().Infow("cylinder", "id", c.ID(), "letter", c.Name(), "pos", c.Position())
	}
	if ps := sim.Unconnected(); len(ps) > 0 {
		zap.S().Warnw("pressurized ports left open", "ports", ps)
	}

	if *chartFile != "" {
		title := *demoName
		if *project != "" {
			title = *project
		}
		if err = chart(*chartFile, &rec, title); err != nil {
			zap.S().Fatalw("write chart", "err", err)
		}
	}
	if *saveFile != "" {
		sim.SetMode(pneusim.Pause)
		if err = save(*saveFile, d); err != nil {
			zap.S().Fatalw("save project", "err", err)
		}
	}
}
