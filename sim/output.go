// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import "github.com/cpmech/gosl/io"

// Output defines the output subsystem as seen by the minimization core. The
// core only schedules and triggers it; formats are not its concern.
type Output interface {
	Setup(step int64)     // emit initial state at the start of a run
	ForceNext(step int64) // make the given step the next due step
	Write(step int64)     // emit state if the given step is due
	PerAtomNorm() bool    // normalize reported energies by total atom count?
}

// Thermo is a minimal thermodynamic-output printer: one line every Every
// steps via LineFn, rank-0 only (gate with Verbose).
type Thermo struct {
	Every   int64                    // print every this many steps; 0 = setup/final only
	Norm    bool                     // per-atom energy normalization
	Verbose bool                     // print at all (callers gate on rank 0)
	LineFn  func(step int64) string  // formats one status line

	next int64
}

// NewThermo returns a thermo printer
func NewThermo(every int64, norm, verbose bool, lineFn func(step int64) string) (o *Thermo) {
	o = new(Thermo)
	o.Every = every
	o.Norm = norm
	o.Verbose = verbose
	o.LineFn = lineFn
	o.next = -1
	return
}

// Setup implements Output.Setup
func (o *Thermo) Setup(step int64) {
	o.emit(step)
	if o.Every > 0 {
		o.next = step + o.Every
	}
}

// ForceNext implements Output.ForceNext
func (o *Thermo) ForceNext(step int64) {
	o.next = step
}

// Write implements Output.Write
func (o *Thermo) Write(step int64) {
	if o.next < 0 || step < o.next {
		return
	}
	o.emit(step)
	if o.Every > 0 {
		o.next = step + o.Every
	} else {
		o.next = -1
	}
}

// PerAtomNorm implements Output.PerAtomNorm
func (o *Thermo) PerAtomNorm() bool { return o.Norm }

func (o *Thermo) emit(step int64) {
	if !o.Verbose || o.LineFn == nil {
		return
	}
	io.Pf("%s\n", o.LineFn(step))
}
