// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package min

import "github.com/cpmech/gomd/sim"

// slot is one registered per-atom extra-DOF record. The variable and force
// buffers are owned and sized by the registering plugin; x and f are the
// references harvested on the last evaluation.
type slot struct {
	owner   sim.ExtraDOFOwner // registering plugin
	perAtom int               // components per atom
	nlen    int               // current buffer length (perAtom * nlocal)
	maxStep float64           // upper bound for single-component step clamping
	x       []float64         // harvested variable buffer
	f       []float64         // harvested force buffer
}

// registry is the bookkeeping of auxiliary per-atom optimization variables.
// Registration is the only way new DOFs enter the optimization vector;
// registration order defines the DOF layout used by line search and clamping.
type registry struct {
	slots []slot
}

// register grows the registry by one slot and returns its stable handle.
// Handles are zero-based and remain valid until reset.
func (o *registry) register(owner sim.ExtraDOFOwner, perAtom int, maxStep float64) int {
	o.slots = append(o.slots, slot{owner: owner, perAtom: perAtom, maxStep: maxStep})
	return len(o.slots) - 1
}

// reset frees all slots; done only at the start of a new minimization
func (o *registry) reset() {
	o.slots = nil
}

// n returns the number of registered per-atom extra DOFs
func (o *registry) n() int {
	return len(o.slots)
}

// harvest invokes every owner's callback to refresh the variable and force
// buffer references and lengths
func (o *registry) harvest() {
	for m := range o.slots {
		s := &o.slots[m]
		s.x, s.f = s.owner.HarvestXF(m)
		s.nlen = len(s.x)
	}
}
