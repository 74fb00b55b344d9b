// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package min

import (
	"testing"

	"github.com/cpmech/gomd/sim"
	"github.com/cpmech/gosl/chk"
)

func schedulerSim(newton bool) (*sim.Simulation, *sim.StepCompute, *sim.StepCompute, *sim.StepCompute) {
	atoms := newAtoms3()
	pair := &constPair{atoms: atoms, fx: 1}
	simu := testSim(atoms, pair, func() float64 { return pair.e })
	simu.Force.Newton = newton

	pe := simu.Mods.Computes[0].(*sim.StepCompute) // global energy, every step
	peAtom := sim.NewStepCompute(3, sim.Needs{EnergyAtom: true, VirialAtom: true}, nil)
	press := sim.NewStepCompute(2, sim.Needs{Virial: true}, nil)
	simu.Mods.Computes = append(simu.Mods.Computes, peAtom, press)
	return simu, pe, peAtom, press
}

func Test_sched01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sched01. demand-driven energy/virial flags")

	simu, _, _, _ := schedulerSim(false)
	m, err := New(simu, "cg")
	if err != nil {
		tst.Errorf("New failed:\n%v", err)
		return
	}
	if err = m.Init(); err != nil {
		tst.Errorf("Init failed:\n%v", err)
		return
	}

	// step 1: only global energy (always demanded)
	flags := m.evSet(1)
	chk.Int(tst, "eflag @1", flags.Energy, 1)
	chk.Int(tst, "vflag @1", flags.Virial, 0)

	// step 2: pressure consumer matches; Newton off means pairwise-sum method
	flags = m.evSet(2)
	chk.Int(tst, "eflag @2", flags.Energy, 1)
	chk.Int(tst, "vflag @2", flags.Virial, 1)

	// step 3: per-atom consumer matches
	flags = m.evSet(3)
	chk.Int(tst, "eflag @3", flags.Energy, 3)
	chk.Int(tst, "vflag @3", flags.Virial, 4)

	// step 6: both match
	flags = m.evSet(6)
	chk.Int(tst, "eflag @6", flags.Energy, 3)
	chk.Int(tst, "vflag @6", flags.Virial, 5)
}

func Test_sched02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sched02. virial method fixed by Newton accounting")

	simu, _, _, _ := schedulerSim(true)
	m, err := New(simu, "cg")
	if err != nil {
		tst.Errorf("New failed:\n%v", err)
		return
	}
	if err = m.Init(); err != nil {
		tst.Errorf("Init failed:\n%v", err)
		return
	}

	flags := m.evSet(2)
	chk.Int(tst, "vflag @2 (newton)", flags.Virial, 2)
	flags = m.evSet(6)
	chk.Int(tst, "vflag @6 (newton)", flags.Virial, 6)
}

func Test_sched03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sched03. served markers advance once per step")

	simu, pe, peAtom, _ := schedulerSim(false)
	m, err := New(simu, "cg")
	if err != nil {
		tst.Errorf("New failed:\n%v", err)
		return
	}
	if err = m.Init(); err != nil {
		tst.Errorf("Init failed:\n%v", err)
		return
	}

	m.evSet(3)
	chk.Int(tst, "pe served @3", int(pe.LastServed()), 3)
	chk.Int(tst, "peAtom served @3", int(peAtom.LastServed()), 3)

	// calling twice in the same step must not double-advance
	m.evSet(3)
	chk.Int(tst, "pe served again @3", int(pe.LastServed()), 3)

	// no per-atom demand on non-matching steps
	flags := m.evSet(4)
	chk.Int(tst, "eflag @4", flags.Energy, 1)
	chk.Int(tst, "peAtom served @4", int(peAtom.LastServed()), 3)
}
