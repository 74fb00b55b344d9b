// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package min

import "math"

// CG is the Polak-Ribiere conjugate-gradient style with line minimization
type CG struct {
	lineSearch
}

// register style
func init() {
	allocators["cg"] = func(m *Min) Minimizer {
		o := new(CG)
		o.m = m
		return o
	}
}

// InitStyle implements Minimizer.InitStyle
func (o *CG) InitStyle() {}

// SetupStyle implements Minimizer.SetupStyle
func (o *CG) SetupStyle() (err error) {
	return o.setup()
}

// Search implements Minimizer.Search
func (o *CG) Search() bool { return true }

// Iterate performs up to n conjugate-gradient iterations
func (o *CG) Iterate(n int) StopReason {
	m := o.m
	st := m.Sim.State

	// initial search direction is steepest descent
	o.saveDir()
	gg := m.FnormSqr()
	if gg == 0 {
		return StopZeroForce
	}

	for iter := 0; iter < n; iter++ {
		st.Step++
		m.NIter++

		// line minimization along h
		ePrev := m.ECurrent
		eNew, stop, failed := o.linemin(m.ECurrent)
		m.ECurrent = eNew
		if failed {
			return stop
		}

		// energy tolerance criterion
		if math.Abs(m.ECurrent-ePrev) < m.Etol*0.5*(math.Abs(m.ECurrent)+math.Abs(ePrev)+epsEnergy) {
			return StopEnergyTol
		}

		// force tolerance criterion
		fdotf := m.FnormSqr()
		if fdotf < m.Ftol*m.Ftol {
			return StopForceTol
		}

		// Polak-Ribiere conjugation using the previous force g
		fdotg := o.fdotg()
		beta := math.Max(0, (fdotf-fdotg)/gg)
		gg = fdotf
		if gg == 0 {
			return StopZeroForce
		}
		o.updateDir(beta)

		m.Sim.Out.Write(st.Step)

		if m.MaxEval > 0 && m.NEval >= m.MaxEval {
			return StopMaxEval
		}
	}
	return StopMaxIter
}
