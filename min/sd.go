// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package min

import "math"

// SD is the steepest-descent style: the search direction is reset to the
// force every iteration, with the same line minimization as CG
type SD struct {
	lineSearch
}

// register style
func init() {
	allocators["sd"] = func(m *Min) Minimizer {
		o := new(SD)
		o.m = m
		return o
	}
}

// InitStyle implements Minimizer.InitStyle
func (o *SD) InitStyle() {}

// SetupStyle implements Minimizer.SetupStyle
func (o *SD) SetupStyle() (err error) {
	return o.setup()
}

// Search implements Minimizer.Search
func (o *SD) Search() bool { return true }

// Iterate performs up to n steepest-descent iterations
func (o *SD) Iterate(n int) StopReason {
	m := o.m
	st := m.Sim.State

	for iter := 0; iter < n; iter++ {
		st.Step++
		m.NIter++

		// search direction is the current force
		o.saveDir()

		ePrev := m.ECurrent
		eNew, stop, failed := o.linemin(m.ECurrent)
		m.ECurrent = eNew
		if failed {
			return stop
		}

		if math.Abs(m.ECurrent-ePrev) < m.Etol*0.5*(math.Abs(m.ECurrent)+math.Abs(ePrev)+epsEnergy) {
			return StopEnergyTol
		}

		fdotf := m.FnormSqr()
		if fdotf < m.Ftol*m.Ftol {
			return StopForceTol
		}

		m.Sim.Out.Write(st.Step)

		if m.MaxEval > 0 && m.NEval >= m.MaxEval {
			return StopMaxEval
		}
	}
	return StopMaxIter
}
