// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package min

// EnergyForce evaluates the potential energy and forces at the current state.
// Atoms may migrate when a structural reneighboring is due; otherwise only a
// lightweight forward exchange of known ghost positions runs. Forces are an
// output side effect in the shared buffers (the negative gradient); per-atom
// extra-DOF forces land in the owners' buffers and global extra-DOF forces in
// fextra. resetRef asks for the un-wrapped reference positions to be reset,
// which happens only when a rebuild actually occurred (the rebuild decision
// and the caller's intent are kept as two explicit conditions in refresh).
func (o *Min) EnergyForce(resetRef bool) (energy float64) {
	s := o.Sim
	st := s.State

	// reneighbor or communicate; the minimizer moved atoms either way
	didRebuild := s.Neigh.Decide(st.Step)
	if !didRebuild {
		s.Decomp.ForwardExchange()
	} else {
		if s.Mods.HasPreExchange() {
			s.Mods.PreExchange()
		}
		s.Box.Wrap()
		if s.Box.Changed() {
			s.Box.ResetGeometry()
			s.Decomp.Setup()
			s.Neigh.SetupBins()
		}
		s.Decomp.Exchange()
		if s.Atoms.SortDue(st.Step) {
			s.Atoms.Sort(st.Step)
		}
		s.Decomp.Borders()
		s.Neigh.Build()
	}

	flags := o.evSet(st.Step)
	o.forceClear()

	if s.Mods.HasPreForce() {
		s.Mods.PreForce(flags.Virial)
	}

	for _, c := range s.Force.Contribs(s.Atoms.Molecular) {
		c.Compute(flags.Energy, flags.Virial)
	}
	if s.Force.KSpace != nil {
		s.Force.KSpace.Compute(flags.Energy, flags.Virial)
	}

	if s.Force.Newton {
		s.Decomp.ReverseReduce()
	}

	// refresh per-atom extra-DOF variable/force buffers from their owners
	o.reg.harvest()

	if s.Mods.HasPostForce() {
		s.Mods.PostForce(flags.Virial)
	}

	energy = o.energyTotal()

	// atoms migrated if a rebuild ran; re-anchor references and aliases
	if didRebuild {
		if resetRef {
			o.fix.resetCoords()
		}
		o.refreshAliases()
	}

	o.NEval++
	return
}

// forceClear zeroes forces on owned and (with Newton accounting) ghost atoms,
// plus torque and electron-force buffers when the atom model carries them
func (o *Min) forceClear() {
	a := o.Sim.Atoms
	nall := a.Nall(o.Sim.Force.Newton)
	for i := 0; i < nall; i++ {
		a.F[i][0] = 0
		a.F[i][1] = 0
		a.F[i][2] = 0
	}
	if o.torqueFlag {
		for i := 0; i < nall; i++ {
			a.Torque[i][0] = 0
			a.Torque[i][1] = 0
			a.Torque[i][2] = 0
		}
	}
	if o.erforceFlag {
		for i := 0; i < nall; i++ {
			a.ErForce[i] = 0
		}
	}
}
