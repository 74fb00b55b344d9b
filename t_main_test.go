// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"math"
	"testing"

	"github.com/cpmech/gomd/sim"
	"github.com/cpmech/gosl/chk"
)

func Test_lj01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lj01. pair forces stay finite for coincident atoms")

	// two atoms at the same position: the interaction is skipped
	atoms := sim.NewAtoms(2, 0)
	pair := &ljPair{atoms: atoms, eps: 1, sigma: 1}
	pair.Compute(1, 0)

	for i := 0; i < 2; i++ {
		for k := 0; k < 3; k++ {
			if math.IsNaN(atoms.F[i][k]) || math.IsInf(atoms.F[i][k], 0) {
				tst.Errorf("non-finite force F[%d][%d] = %v", i, k, atoms.F[i][k])
				return
			}
		}
	}
	chk.Float64(tst, "energy", 1e-15, pair.energy, 0)

	// separated inside the potential minimum: repulsion pushes the pair apart
	atoms.X[1][0] = 1.0
	pair.Compute(1, 0)
	if atoms.F[0][0] >= 0 || atoms.F[1][0] <= 0 {
		tst.Errorf("forces are not repulsive at r < r_min: F0x=%g F1x=%g",
			atoms.F[0][0], atoms.F[1][0])
	}
}
