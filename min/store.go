// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package min

import (
	"github.com/cpmech/gomd/sim"
	"github.com/cpmech/gosl/utl"
)

// store is the temporary state-storage fixture of a minimization run. It owns
// the un-wrapped reference positions and the per-atom work vectors requested
// by styles; it is created at Init and removed at Cleanup so nothing persists
// into subsequent runs.
type store struct {
	atoms *sim.Atoms
	box   sim.Box
	x0    [][]float64 // [nlocal][3] reference positions (periodic-crossing aware)
	vecs  [][]float64 // style-requested flat per-atom vectors
	npers []int       // components per atom of each vector
}

// newStore returns the fixture sized for the current partition
func newStore(atoms *sim.Atoms, box sim.Box) (o *store) {
	o = new(store)
	o.atoms = atoms
	o.box = box
	o.x0 = utl.Alloc(atoms.Nlocal, 3)
	return
}

// addVector allocates a flat per-atom work vector with nper components per
// atom and returns its id
func (o *store) addVector(nper int) int {
	o.vecs = append(o.vecs, make([]float64, nper*o.atoms.Nlocal))
	o.npers = append(o.npers, nper)
	return len(o.vecs) - 1
}

// vector returns the work vector with the given id
func (o *store) vector(id int) []float64 {
	return o.vecs[id]
}

// growTo resizes the fixture after migration changed the owned-atom count.
// Migration of vector contents rides with the decomposition's exchange
// (atom identity via Tag); here only the local capacity is adjusted.
func (o *store) growTo(nlocal int) {
	if nlocal <= len(o.x0) {
		return
	}
	x0 := utl.Alloc(nlocal, 3)
	copy(x0, o.x0)
	o.x0 = x0
	for id := range o.vecs {
		v := make([]float64, o.npers[id]*nlocal)
		copy(v, o.vecs[id])
		o.vecs[id] = v
	}
}

// saveCoords snapshots current positions into the reference coordinates
func (o *store) saveCoords() {
	for i := 0; i < o.atoms.Nlocal; i++ {
		copy(o.x0[i], o.atoms.X[i])
	}
}

// resetCoords re-anchors the reference coordinates after a periodic wrap so
// that displacements x-x0 remain minimum-image consistent
func (o *store) resetCoords() {
	var d [3]float64
	for i := 0; i < o.atoms.Nlocal; i++ {
		for j := 0; j < 3; j++ {
			d[j] = o.atoms.X[i][j] - o.x0[i][j]
		}
		o.box.MinimumImage(d[:])
		for j := 0; j < 3; j++ {
			o.x0[i][j] = o.atoms.X[i][j] - d[j]
		}
	}
}
