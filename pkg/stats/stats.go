// Package stats collects simple streaming latency statistics for the CLI
// and the batch writer.
package stats

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Latencies are recorded into the histogram in microseconds; reports are in
// milliseconds.
const (
	histMin     = 1
	histMax     = int64(time.Hour / time.Microsecond)
	histSigFigs = 3
)

// Group collects streaming summary statistics over request latencies.
type Group struct {
	Min   float64
	Max   float64
	Mean  float64
	Sum   float64
	Count int64

	// used for stddev calculations
	m      float64
	s      float64
	StdDev float64

	hist *hdrhistogram.Histogram
}

// NewGroup returns an empty Group. All float fields are in milliseconds.
func NewGroup() *Group {
	return &Group{
		hist: hdrhistogram.New(histMin, histMax, histSigFigs),
	}
}

// Push updates the Group with a new latency measurement.
func (g *Group) Push(lat time.Duration) {
	n := float64(lat) / float64(time.Millisecond)
	_ = g.hist.RecordValue(int64(lat / time.Microsecond))

	if g.Count == 0 {
		g.Min = n
		g.Max = n
		g.Mean = n
		g.Sum = n
		g.Count = 1

		g.m = n
		g.s = 0.0
		g.StdDev = 0.0
		return
	}

	if n < g.Min {
		g.Min = n
	}
	if n > g.Max {
		g.Max = n
	}

	g.Sum += n

	// constant-space mean update:
	sum := g.Mean*float64(g.Count) + n
	g.Mean = sum / float64(g.Count+1)
	g.Count++

	oldM := g.m
	g.m += (n - oldM) / float64(g.Count)
	g.s += (n - oldM) * (n - g.m)
	g.StdDev = math.Sqrt(g.s / (float64(g.Count) - 1.0))
}

// Median returns the 50th percentile latency in milliseconds.
func (g *Group) Median() float64 {
	if g.Count == 0 {
		return 0
	}
	return float64(g.hist.ValueAtQuantile(50.0)) / 1e3
}

// Quantiles returns the latency quantiles in milliseconds, keyed q0 through
// q100.
func (g *Group) Quantiles() map[string]float64 {
	mp := map[string]float64{
		"q0": 0, "q50": 0, "q95": 0, "q99": 0, "q999": 0, "q100": 0,
	}
	if g.hist.TotalCount() == 0 {
		return mp
	}
	mp["q0"] = float64(g.hist.ValueAtQuantile(0.0)) / 1e3
	mp["q50"] = float64(g.hist.ValueAtQuantile(50.0)) / 1e3
	mp["q95"] = float64(g.hist.ValueAtQuantile(95.0)) / 1e3
	mp["q99"] = float64(g.hist.ValueAtQuantile(99.0)) / 1e3
	mp["q999"] = float64(g.hist.ValueAtQuantile(99.9)) / 1e3
	mp["q100"] = float64(g.hist.ValueAtQuantile(100.0)) / 1e3
	return mp
}

// String makes a simple description of a Group.
func (g *Group) String() string {
	return fmt.Sprintf("min: %8.2fms, med: %8.2fms, mean: %8.2fms, max: %7.2fms, stddev: %8.2fms, sum: %5.1fsec, count: %d",
		g.Min, g.Median(), g.Mean, g.Max, g.StdDev, g.Sum/1e3, g.Count)
}

// Write prints the Group's one-line summary to w.
func (g *Group) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n", g.String())
	return err
}
