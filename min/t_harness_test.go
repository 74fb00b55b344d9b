// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package min

import (
	"math"

	"github.com/cpmech/gomd/sim"
)

// constPair applies a constant force to every owned atom and reports a fixed
// energy; it records the flags of its last invocation
type constPair struct {
	atoms  *sim.Atoms
	fx     float64
	e      float64
	calls  int
	lastEF int
	lastVF int
}

func (o *constPair) Compute(eflag, vflag int) {
	o.calls++
	o.lastEF = eflag
	o.lastVF = vflag
	for i := 0; i < o.atoms.Nlocal; i++ {
		o.atoms.F[i][0] += o.fx
	}
}

// tetherPair tethers every atom to a target position with stiffness k,
// giving the quadratic bowl E = sum 0.5*k*|x-xt|^2
type tetherPair struct {
	atoms *sim.Atoms
	xt    [][]float64
	k     float64
	e     float64
	calls int
}

func (o *tetherPair) Compute(eflag, vflag int) {
	o.calls++
	o.e = 0
	for i := 0; i < o.atoms.Nlocal; i++ {
		for j := 0; j < 3; j++ {
			d := o.atoms.X[i][j] - o.xt[i][j]
			o.e += 0.5 * o.k * d * d
			o.atoms.F[i][j] -= o.k * d
		}
	}
}

// extraOwner is a contributor owning one per-atom extra variable per request
type extraOwner struct {
	atoms    *sim.Atoms
	nreq     int
	maxStep  float64
	handles  []int
	x, f     []float64
	harvests int
	commits  int
}

func (o *extraOwner) Compute(eflag, vflag int) {}

func (o *extraOwner) RequestDOFs(reg sim.Registrar) {
	o.handles = o.handles[:0]
	for k := 0; k < o.nreq; k++ {
		o.handles = append(o.handles, reg.Register(o, 1, o.maxStep))
	}
	n := o.nreq * o.atoms.Nlocal
	o.x = make([]float64, n)
	o.f = make([]float64, n)
}

func (o *extraOwner) HarvestXF(slot int) (x, f []float64) {
	o.harvests++
	n := o.atoms.Nlocal
	return o.x[slot*n : (slot+1)*n], o.f[slot*n : (slot+1)*n]
}

func (o *extraOwner) CommitX(slot int) {
	o.commits++
}

// globalMod contributes one global scalar variable with quadratic energy
// 0.5*k*(val-target)^2
type globalMod struct {
	val    float64
	stored float64
	target float64
	k      float64
}

func (o *globalMod) Name() string { return "globalmod" }

func (o *globalMod) DOF() int { return 1 }

func (o *globalMod) EnergyForce(f []float64) float64 {
	f[0] = -o.k * (o.val - o.target)
	return 0.5 * o.k * (o.val - o.target) * (o.val - o.target)
}

func (o *globalMod) Store() { o.stored = o.val }

func (o *globalMod) Restore() { o.val = o.stored }

func (o *globalMod) Step(alpha float64, h []float64) { o.val = o.stored + alpha*h[0] }

// noSearch is a damped-dynamics-like style without a line search
type noSearch struct{}

func (o noSearch) InitStyle()               {}
func (o noSearch) SetupStyle() (err error)  { return }
func (o noSearch) Iterate(n int) StopReason { return StopMaxIter }
func (o noSearch) Search() bool             { return false }

func init() {
	allocators["nosearch"] = func(m *Min) Minimizer { return noSearch{} }
}

// peerRed simulates a multi-partition reduction by folding in the other
// partitions' pre-computed local contributions
type peerRed struct {
	peerSum float64
	peerMax float64
}

func (o peerRed) SumFloat(x float64) float64 { return x + o.peerSum }
func (o peerRed) MaxFloat(x float64) float64 { return math.Max(x, o.peerMax) }
func (o peerRed) SumInt(x int64) int64       { return x }
func (o peerRed) Rank() int                  { return 0 }
func (o peerRed) Size() int                  { return 2 }

// newAtoms3 returns three atoms on a line
func newAtoms3() *sim.Atoms {
	atoms := sim.NewAtoms(3, 0)
	for i := 0; i < 3; i++ {
		atoms.X[i][0] = float64(i)
	}
	return atoms
}

// newTether returns a quadratic-bowl pair with targets displaced from the
// current positions of the given atoms
func newTether(atoms *sim.Atoms, k, offset float64) *tetherPair {
	xt := make([][]float64, atoms.Nlocal)
	for i := 0; i < atoms.Nlocal; i++ {
		xt[i] = []float64{atoms.X[i][0] + offset, atoms.X[i][1] - offset, atoms.X[i][2] + 2*offset}
	}
	return &tetherPair{atoms: atoms, xt: xt, k: k}
}

// testSim assembles a serial single-partition simulation around the given pair
// contributor and energy callback
func testSim(atoms *sim.Atoms, pair sim.ForceContrib, scalarFn func() float64) *sim.Simulation {
	pe := sim.NewStepCompute(1, sim.Needs{Energy: true}, scalarFn)
	return &sim.Simulation{
		Atoms:  atoms,
		State:  sim.NewState(),
		Box:    &sim.SerialBox{Atoms: atoms},
		Decomp: sim.SerialDecomp{},
		Neigh:  sim.NewStepNeighbor(sim.Cadence{Every: 1, DistCheck: true}, nil),
		Force:  &sim.ForceField{Pair: pair},
		Mods:   &sim.ModifierSet{Computes: []sim.Compute{pe}},
		Out:    sim.NewThermo(0, false, false, nil),
		Red:    sim.Serial{},
	}
}
