// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package min

import "github.com/cpmech/gomd/sim"

// Energy/virial flag encodings passed to force-field contributors:
//   eflag = 1 : global energy only (always demanded during minimization)
//   eflag = 3 : global and per-atom energy
//   vflag = 0 : no virial
//   vflag = 1 : global virial via sum over all pairwise interactions
//   vflag = 2 : global virial via F dot r including ghost atoms
//   vflag += 4: per-atom virial

// EvalFlags tells contributors which diagnostic granularities are active this
// iteration; derived each step, never persisted.
type EvalFlags struct {
	Energy int
	Virial int
}

// consumerRec pairs a diagnostic consumer with the granularities it needs;
// the list is rebuilt by evSetup and read-only during an iteration
type consumerRec struct {
	c     sim.Compute
	needs sim.Needs
}

// evSetup rebuilds the diagnostic-consumer records from the modifier
// collection; called at Init and whenever the consumer set changes
func (o *Min) evSetup() {
	o.consumers = nil
	for _, c := range o.Sim.Mods.Computes {
		o.consumers = append(o.consumers, consumerRec{c: c, needs: c.Needs()})
	}
}

// evSet derives the evaluation flags for the given step. Global energy is
// always demanded; per-atom energy/virial only when a consumer's schedule
// matches the step; the global-virial method is fixed per minimization by the
// force field's Newton convention. MatchStep is invoked exactly once per
// consumer so served markers advance once per step.
func (o *Min) evSet(step int64) (flags EvalFlags) {
	eatom, vglobal, vatom := false, false, false
	for _, r := range o.consumers {
		if !r.c.MatchStep(step) {
			continue
		}
		if r.needs.EnergyAtom {
			eatom = true
		}
		if r.needs.Virial {
			vglobal = true
		}
		if r.needs.VirialAtom {
			vatom = true
		}
	}

	st := o.Sim.State
	flags.Energy = 1
	st.EnergyStep = step
	if eatom {
		flags.Energy += 2
		st.EnergyAtomStep = step
	}
	if vglobal {
		flags.Virial = o.virialStyle
		st.VirialStep = step
	}
	if vatom {
		flags.Virial += 4
		st.VirialAtomStep = step
	}
	return
}
