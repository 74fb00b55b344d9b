// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package min

import "math"

// FnormSqr computes ||force||_2^2 of the whole optimization state vector:
// sum of squares over the local atom partition and local per-atom extra DOFs,
// combined by a distributed sum-reduction, plus the squares of the
// single-owner global extra DOFs. Pure function of current force state.
func (o *Min) FnormSqr() float64 {
	a := o.Sim.Atoms
	local := 0.0
	for i := 0; i < a.Nlocal; i++ {
		for j := 0; j < 3; j++ {
			local += a.F[i][j] * a.F[i][j]
		}
	}
	for _, s := range o.reg.slots {
		for i := 0; i < s.nlen; i++ {
			local += s.f[i] * s.f[i]
		}
	}

	total := o.Sim.Red.SumFloat(local)

	for i := 0; i < o.nExtraGlobal; i++ {
		total += o.fextra[i] * o.fextra[i]
	}
	return total
}

// FnormInf computes ||force||_inf of the whole optimization state vector via
// local maxima, a distributed max-reduction and the global extra DOFs
func (o *Min) FnormInf() float64 {
	a := o.Sim.Atoms
	local := 0.0
	for i := 0; i < a.Nlocal; i++ {
		for j := 0; j < 3; j++ {
			local = math.Max(math.Abs(a.F[i][j]), local)
		}
	}
	for _, s := range o.reg.slots {
		for i := 0; i < s.nlen; i++ {
			local = math.Max(math.Abs(s.f[i]), local)
		}
	}

	total := o.Sim.Red.MaxFloat(local)

	for i := 0; i < o.nExtraGlobal; i++ {
		total = math.Max(math.Abs(o.fextra[i]), total)
	}
	return total
}
