// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_compute01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("compute01. every-N demand schedule")

	val := 3.5
	c := NewStepCompute(5, Needs{Energy: true}, func() float64 { return val })

	chk.Int(tst, "served initially", int(c.LastServed()), -1)
	if c.MatchStep(3) {
		tst.Errorf("step 3 should not match every=5")
		return
	}
	if !c.MatchStep(5) {
		tst.Errorf("step 5 should match every=5")
		return
	}
	chk.Int(tst, "served @5", int(c.LastServed()), 5)
	if !c.MatchStep(10) {
		tst.Errorf("step 10 should match every=5")
		return
	}
	chk.Float64(tst, "scalar", 1e-17, c.Scalar(), 3.5)
}

func Test_compute02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("compute02. matching is idempotent within a step")

	c := NewStepCompute(2, Needs{Virial: true}, nil)

	if !c.MatchStep(4) {
		tst.Errorf("step 4 should match every=2")
		return
	}
	// a second query in the same step matches but does not re-serve
	if !c.MatchStep(4) {
		tst.Errorf("repeated match in the same step must still answer true")
		return
	}
	chk.Int(tst, "served @4", int(c.LastServed()), 4)

	// nil scalar callback answers zero
	chk.Float64(tst, "scalar nil fn", 1e-17, c.Scalar(), 0)
}

func Test_compute03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("compute03. forcing overrides the schedule once")

	c := NewStepCompute(0, Needs{EnergyAtom: true}, nil)

	// every=0: never due on its own
	for step := int64(1); step <= 4; step++ {
		if c.MatchStep(step) {
			tst.Errorf("every=0 consumer matched step %d without forcing", step)
			return
		}
	}

	c.ForceNext(7)
	if c.MatchStep(6) {
		tst.Errorf("forcing step 7 must not make step 6 due")
		return
	}
	if !c.MatchStep(7) {
		tst.Errorf("forced step 7 should match")
		return
	}
	chk.Int(tst, "served @7", int(c.LastServed()), 7)

	// the force is consumed
	if c.MatchStep(8) {
		tst.Errorf("force must not persist past the forced step")
	}
}
