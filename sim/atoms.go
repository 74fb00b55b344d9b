// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sim holds the simulation state shared by all subsystems and the
// narrow contracts of the collaborators consumed by the minimization core:
// spatial decomposition/communication, neighboring, force-field contributors,
// diagnostic consumers, modifiers and output.
package sim

import "github.com/cpmech/gosl/utl"

// Atoms holds the locally-owned partition of atoms plus the replicated ghost halo.
// Positions and forces of owned atoms live in rows [0,Nlocal); ghost replicas in
// rows [Nlocal,Nlocal+Nghost). The Tag of an atom is its global id and survives
// migration and reordering.
type Atoms struct {

	// counts
	Nlocal int   // number of atoms owned by this partition
	Nghost int   // number of ghost (boundary-replica) atoms
	Natoms int64 // total number of atoms across all partitions

	// per-atom state
	Tag []int       // [cap] global ids; preserved by the decomposition across migration
	X   [][]float64 // [cap][3] positions
	F   [][]float64 // [cap][3] forces (negative gradient)

	// optional per-atom state; cleared by the evaluation pipeline when present
	Torque  [][]float64 // [cap][3] torques; nil unless the atom model carries them
	ErForce []float64   // [cap] electron forces; nil unless the model carries them

	// model flags
	Molecular bool // system has bonded terms (bond/angle/dihedral/improper)

	// spatial sorting (load balancing); SortFunc is provided by the decomposition
	SortFreq int    // sort every this many steps; 0 disables sorting
	NextSort int64  // next step at which to sort
	SortFunc func() // reorders owned atoms in place; may be nil
}

// NewAtoms allocates atom buffers with capacity for nlocal owned atoms plus
// nghostMax ghost replicas. Tags default to the row index.
func NewAtoms(nlocal, nghostMax int) (o *Atoms) {
	o = new(Atoms)
	o.Nlocal = nlocal
	o.Natoms = int64(nlocal)
	n := nlocal + nghostMax
	o.Tag = make([]int, n)
	for i := 0; i < n; i++ {
		o.Tag[i] = i
	}
	o.X = utl.Alloc(n, 3)
	o.F = utl.Alloc(n, 3)
	return
}

// Nall returns the number of force rows touched by clearing and reduction:
// owned plus ghosts when the Newton (third-law) ghost accounting is on,
// owned only otherwise.
func (o *Atoms) Nall(newton bool) int {
	if newton {
		return o.Nlocal + o.Nghost
	}
	return o.Nlocal
}

// SortDue tells whether a spatial sort is due at the given step
func (o *Atoms) SortDue(step int64) bool {
	return o.SortFreq > 0 && step >= o.NextSort
}

// Sort reorders owned atoms for locality and schedules the next sort
func (o *Atoms) Sort(step int64) {
	if o.SortFunc != nil {
		o.SortFunc()
	}
	o.NextSort = step + int64(o.SortFreq)
}
