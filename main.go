// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Gomd demo driver: relaxes a jittered Lennard-Jones cluster with the
// energy-minimization engine. Production force fields, decompositions,
// neighbor subsystems and message-passing reducers plug in through the
// contracts in package sim; this driver runs a single partition.
package main

import (
	"math"

	"github.com/cpmech/gomd/min"
	"github.com/cpmech/gomd/sim"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/rnd"
)

// rminSqr is the squared separation below which pair interactions are skipped;
// coincident atoms would otherwise produce non-finite forces
const rminSqr = 1e-12

// ljPair is a toy all-pairs Lennard-Jones contributor for the demo
type ljPair struct {
	atoms  *sim.Atoms
	eps    float64
	sigma  float64
	energy float64
}

// Compute implements sim.ForceContrib
func (o *ljPair) Compute(eflag, vflag int) {
	o.energy = 0
	a := o.atoms
	s2 := o.sigma * o.sigma
	var d [3]float64
	for i := 0; i < a.Nlocal; i++ {
		for j := i + 1; j < a.Nlocal; j++ {
			r2 := 0.0
			for k := 0; k < 3; k++ {
				d[k] = a.X[i][k] - a.X[j][k]
				r2 += d[k] * d[k]
			}
			if r2 < rminSqr {
				continue
			}
			sr6 := math.Pow(s2/r2, 3)
			o.energy += 4 * o.eps * sr6 * (sr6 - 1)
			fmag := 24 * o.eps * sr6 * (2*sr6 - 1) / r2
			for k := 0; k < 3; k++ {
				a.F[i][k] += fmag * d[k]
				a.F[j][k] -= fmag * d[k]
			}
		}
	}
}

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v\n", err)
		}
	}()

	// input parameters
	side := io.ArgToInt(0, 3)        // atoms per cube side
	style := io.ArgToString(1, "cg") // minimization style
	etol := io.ArgToFloat(2, 0)      // energy tolerance
	ftol := io.ArgToFloat(3, 1e-6)   // force tolerance
	maxiter := io.ArgToInt(4, 1000)  // iteration budget
	verbose := io.ArgToBool(5, true) // show messages

	if verbose {
		io.PfWhite("\nGomd -- energy minimization demo\n\n")
		io.Pf("%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"atoms per cube side", "side", side,
			"minimization style", "style", style,
			"energy tolerance", "etol", etol,
			"force tolerance", "ftol", ftol,
			"iteration budget", "maxiter", maxiter,
			"show messages", "verbose", verbose,
		))
	}

	// jittered cubic cluster
	natoms := side * side * side
	atoms := sim.NewAtoms(natoms, 0)
	rnd.Init(1234)
	spacing := 1.2 // units of sigma
	n := 0
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			for k := 0; k < side; k++ {
				atoms.X[n][0] = spacing*float64(i) + rnd.Float64(-0.05, 0.05)
				atoms.X[n][1] = spacing*float64(j) + rnd.Float64(-0.05, 0.05)
				atoms.X[n][2] = spacing*float64(k) + rnd.Float64(-0.05, 0.05)
				n++
			}
		}
	}

	// collaborators (serial; a distributed run swaps in a real decomposition
	// and a message-passing-backed reducer)
	pair := &ljPair{atoms: atoms, eps: 1, sigma: 1}
	pe := sim.NewStepCompute(1, sim.Needs{Energy: true}, func() float64 { return pair.energy })
	mods := &sim.ModifierSet{Computes: []sim.Compute{pe}}
	thermo := sim.NewThermo(10, false, verbose, nil)
	simu := &sim.Simulation{
		Atoms:   atoms,
		State:   sim.NewState(),
		Box:     &sim.SerialBox{Atoms: atoms},
		Decomp:  sim.SerialDecomp{},
		Neigh:   sim.NewStepNeighbor(sim.Cadence{Every: 1, DistCheck: true}, nil),
		Force:   &sim.ForceField{Pair: pair},
		Mods:    mods,
		Out:     thermo,
		Red:     sim.Serial{},
		Verbose: verbose,
	}

	// minimization engine
	m, err := min.New(simu, style)
	if err != nil {
		chk.Panic("cannot allocate minimizer:\n%v", err)
	}
	m.Etol = etol
	m.Ftol = ftol
	thermo.LineFn = func(step int64) string {
		return io.Sf("step=%6d  energy=%18.10f  fnorm=%14.6e", step, m.ECurrent, math.Sqrt(m.FnormSqr()))
	}

	// run
	if err = m.Init(); err != nil {
		chk.Panic("Init failed:\n%v", err)
	}
	if err = m.Setup(); err != nil {
		chk.Panic("Setup failed:\n%v", err)
	}
	if err = m.Run(maxiter); err != nil {
		chk.Panic("Run failed:\n%v", err)
	}
	m.Cleanup()

	// report
	if verbose {
		io.Pf("\nstopped because: %s\n", m.Message)
		io.Pf("iterations / evaluations = %d / %d\n", m.NIter, m.NEval)
		io.Pf("energy:  initial=%.10f  final=%.10f\n", m.EInitial, m.EFinal)
		io.Pf("fnorm2:  initial=%.6e  final=%.6e\n", m.Fnorm2Init, m.Fnorm2Final)
		io.PfGreen("\ndone\n")
	}
}
