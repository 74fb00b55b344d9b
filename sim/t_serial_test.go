// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_serial01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("serial01. periodic wrap and minimum image")

	atoms := NewAtoms(2, 0)
	atoms.X[0] = []float64{11.5, -0.5, 3.0}
	atoms.X[1] = []float64{4.0, 2.0, -7.0}
	box := &SerialBox{L: [3]float64{10, 10, 0}, Atoms: atoms}

	box.Wrap()
	chk.Array(tst, "x0 wrapped", 1e-15, atoms.X[0], []float64{1.5, 9.5, 3.0})
	chk.Array(tst, "x1 wrapped", 1e-15, atoms.X[1], []float64{4.0, 2.0, -7.0})

	d := []float64{6.0, -6.0, 6.0}
	box.MinimumImage(d)
	chk.Array(tst, "minimum image", 1e-15, d, []float64{-4.0, 4.0, 6.0})

	if box.Changed() {
		tst.Errorf("a serial box never changes shape")
	}
}

func Test_serial02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("serial02. reneighboring cadence decisions")

	builds := 0
	n := NewStepNeighbor(Cadence{Every: 2, Delay: 4, DistCheck: false}, func() { builds++ })

	// never built: always due
	if !n.Decide(0) {
		tst.Errorf("first decision must be positive")
		return
	}
	n.Build()
	chk.Int(tst, "builds after first", n.Builds(), 1)
	chk.Int(tst, "callback ran", builds, 1)

	// delay not yet satisfied
	for step := int64(1); step < 4; step++ {
		if n.Decide(step) {
			tst.Errorf("step %d is within the delay window", step)
			return
		}
	}

	// delay and every both satisfied
	if !n.Decide(4) {
		tst.Errorf("step 4 should be due (delay=4, every=2)")
		return
	}
	n.Build()
	if n.Decide(5) {
		tst.Errorf("step 5 is too soon after the step-4 build")
		return
	}

	chk.Int(tst, "total builds", n.Builds(), 2)
	n.ResetBuilds()
	chk.Int(tst, "builds reset", n.Builds(), 0)
}

func Test_serial03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("serial03. distance check can veto a due rebuild")

	due := false
	n := NewStepNeighbor(Cadence{Every: 1, DistCheck: true}, nil)
	n.CheckFn = func() bool { return due }

	// direct build (setup path) anchors the cadence
	n.Build()
	if n.Decide(1) {
		tst.Errorf("check vetoed: step 1 must not be due")
		return
	}
	due = true
	if !n.Decide(2) {
		tst.Errorf("check passed: step 2 must be due")
		return
	}
	n.Build()

	// cadence can be swapped and read back
	cad := Cadence{Every: 10, Delay: 2, DistCheck: false}
	n.SetCadence(cad)
	if n.Cadence() != cad {
		tst.Errorf("cadence round-trip failed: %v", n.Cadence())
	}
}
