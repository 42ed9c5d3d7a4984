// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package trace records the evolution of a pneusim simulation over time and
// renders it as an HTML line chart.
//
package trace

import (
	"io"
	"strconv"
	"sync"

	"github.com/db47h/pneusim"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/pkg/errors"
)

// A Series is a sequence of samples. Boolean values are recorded as 0 or 1.
//
type Series struct {
	Name string
	T    []float64 // simulated time, in seconds
	V    []float64
}

// A Recorder collects series from simulator probes. It is safe to render a
// Recorder while the simulator runs.
//
type Recorder struct {
	mu     sync.Mutex
	series []*Series
}

func (r *Recorder) add(name string) *Series {
	s := &Series{Name: name}
	r.series = append(r.series, s)
	return s
}

func (r *Recorder) record(s *Series, t, v float64) {
	r.mu.Lock()
	s.T = append(s.T, t)
	s.V = append(s.V, v)
	r.mu.Unlock()
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Cylinders records the position of every cylinder of the simulated diagram,
// under the cylinder letter.
//
func (r *Recorder) Cylinders(s *pneusim.Simulator) error {
	var cs []pneusim.Cylinder
	s.Edit(func(d *pneusim.Diagram) { cs = d.Cylinders() })
	for _, c := range cs {
		r.mu.Lock()
		ser := r.add(c.Name())
		r.mu.Unlock()
		if err := s.ProbePosition(c.ID(), func(t, pos float64) { r.record(ser, t, pos) }); err != nil {
			return errors.Wrapf(err, "probe cylinder %s", c.Name())
		}
	}
	return nil
}

// Ports records the pressurization of the given ports.
//
func (r *Recorder) Ports(s *pneusim.Simulator, ports ...pneusim.Port) {
	for _, p := range ports {
		r.mu.Lock()
		ser := r.add(p.String())
		r.mu.Unlock()
		s.Probe(p, func(t float64, on bool) { r.record(ser, t, b2f(on)) })
	}
}

// Signals records the value of the given signals.
//
func (r *Recorder) Signals(s *pneusim.Simulator, keys ...string) {
	for _, k := range keys {
		r.mu.Lock()
		ser := r.add(k)
		r.mu.Unlock()
		s.ProbeSignal(k, func(t float64, v bool) { r.record(ser, t, b2f(v)) })
	}
}

// Series returns a copy of the recorded series, in registration order.
//
func (r *Recorder) Series() []Series {
	r.mu.Lock()
	defer r.mu.Unlock()
	ss := make([]Series, len(r.series))
	for i, s := range r.series {
		ss[i] = Series{
			Name: s.Name,
			T:    append([]float64(nil), s.T...),
			V:    append([]float64(nil), s.V...),
		}
	}
	return ss
}

// Render writes an HTML page with one line chart of all the recorded series.
//
func (r *Recorder) Render(w io.Writer, title string) error {
	ss := r.Series()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "cylinder positions and pressure over time",
		}),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
			Bottom: "20",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:        "t (s)",
			SplitNumber: 20,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Min: 0,
			Max: 1,
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
	)

	var axis []string
	for _, s := range ss {
		if len(s.T) > len(axis) {
			axis = axis[:0]
			for _, t := range s.T {
				axis = append(axis, strconv.FormatFloat(t, 'f', 3, 64))
			}
		}
	}
	line.SetXAxis(axis)
	for _, s := range ss {
		items := make([]opts.LineData, len(s.V))
		for i, v := range s.V {
			items[i] = opts.LineData{Value: v}
		}
		line.AddSeries(s.Name, items)
	}

	page := components.NewPage()
	page.AddCharts(line)
	return errors.Wrap(page.Render(w), "render trace")
}
