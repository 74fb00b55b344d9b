// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import "math"

// SerialBox is an orthogonal box for single-partition runs. A zero length in
// any dimension makes that dimension non-periodic.
type SerialBox struct {
	L     [3]float64 // box lengths; 0 = non-periodic dimension
	Atoms *Atoms
}

// Wrap implements Box.Wrap
func (o *SerialBox) Wrap() {
	if o.Atoms == nil {
		return
	}
	for i := 0; i < o.Atoms.Nlocal; i++ {
		for j := 0; j < 3; j++ {
			if o.L[j] > 0 {
				o.Atoms.X[i][j] -= o.L[j] * math.Floor(o.Atoms.X[i][j]/o.L[j])
			}
		}
	}
}

// Changed implements Box.Changed; a serial box never changes shape
func (o *SerialBox) Changed() bool { return false }

// ResetGeometry implements Box.ResetGeometry
func (o *SerialBox) ResetGeometry() {}

// MinimumImage implements Box.MinimumImage
func (o *SerialBox) MinimumImage(d []float64) {
	for j := 0; j < 3; j++ {
		if o.L[j] > 0 {
			d[j] -= o.L[j] * math.Round(d[j]/o.L[j])
		}
	}
}

// SerialDecomp is the trivial decomposition of a single-partition run: there
// is nothing to exchange and no ghost halo to maintain.
type SerialDecomp struct{}

// Setup implements Decomposition.Setup
func (o SerialDecomp) Setup() {}

// ForwardExchange implements Decomposition.ForwardExchange
func (o SerialDecomp) ForwardExchange() {}

// Exchange implements Decomposition.Exchange
func (o SerialDecomp) Exchange() {}

// Borders implements Decomposition.Borders
func (o SerialDecomp) Borders() {}

// ReverseReduce implements Decomposition.ReverseReduce
func (o SerialDecomp) ReverseReduce() {}

// StepNeighbor is a cadence-driven neighbor subsystem. The actual list
// construction is delegated to BuildFn (may be nil); CheckFn implements the
// distance check when the cadence demands one (nil = always rebuild when due).
type StepNeighbor struct {
	BuildFn func()      // rebuilds the neighbor lists
	CheckFn func() bool // displacement check; nil = assume rebuild needed

	cad    Cadence
	last   int64 // step of last build (-1 = never built)
	asked  int64 // step of last positive Decide
	builds int
}

// NewStepNeighbor returns a neighbor subsystem with the given cadence
func NewStepNeighbor(cad Cadence, buildFn func()) (o *StepNeighbor) {
	o = new(StepNeighbor)
	o.cad = cad
	o.BuildFn = buildFn
	o.last = -1
	o.asked = -1
	return
}

// Decide implements Neighbor.Decide
func (o *StepNeighbor) Decide(step int64) bool {
	due := false
	if o.last < 0 {
		due = true
	} else if o.cad.Every > 0 {
		since := step - o.last
		if since >= int64(o.cad.Every) && since >= int64(o.cad.Delay) {
			if o.cad.DistCheck && o.CheckFn != nil {
				due = o.CheckFn()
			} else {
				due = true
			}
		}
	}
	if due {
		o.asked = step
	}
	return due
}

// SetupBins implements Neighbor.SetupBins
func (o *StepNeighbor) SetupBins() {}

// Build implements Neighbor.Build. Direct builds (setup path, without a
// preceding Decide) anchor the cadence at step zero.
func (o *StepNeighbor) Build() {
	if o.BuildFn != nil {
		o.BuildFn()
	}
	if o.asked > o.last {
		o.last = o.asked
	} else if o.last < 0 {
		o.last = 0
	}
	o.builds++
}

// Builds implements Neighbor.Builds
func (o *StepNeighbor) Builds() int { return o.builds }

// ResetBuilds implements Neighbor.ResetBuilds
func (o *StepNeighbor) ResetBuilds() { o.builds = 0 }

// Cadence implements Neighbor.Cadence
func (o *StepNeighbor) Cadence() Cadence { return o.cad }

// SetCadence implements Neighbor.SetCadence
func (o *StepNeighbor) SetCadence(c Cadence) { o.cad = c }
