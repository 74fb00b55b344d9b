// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package min implements the energy-minimization orchestration engine: the
// lifecycle state machine, the per-iteration evaluation pipeline, the
// extra-DOF registry, the energy/virial scheduler and the distributed norm
// calculator. The search-direction/step-size algorithm is pluggable.
package min

import (
	"math"

	"github.com/cpmech/gomd/sim"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// lifecycle phases
const (
	phaseNew = iota
	phaseInit
	phaseSetup
	phaseCleaned
)

// Min drives the iterative reduction of the potential-energy functional. It
// owns the evaluation pipeline, the extra-DOF registry, the energy/virial
// scheduler and the norm calculator, and delegates the actual search to a
// pluggable Minimizer style.
type Min struct {

	// collaborators
	Sim *sim.Simulation

	// configuration
	DMax      float64 // maximum single-coordinate step size
	LineStyle int     // 0=backtracking line search, 1=quadratic line search
	Etol      float64 // energy stopping tolerance (0 disables)
	Ftol      float64 // force stopping tolerance (0 disables)
	MaxEval   int     // force-evaluation budget (0 = unlimited)

	// pluggable style
	StyleName string
	style     Minimizer

	// scheduler state
	consumers   []consumerRec
	virialStyle int
	peCompute   sim.Compute

	// extra degrees of freedom
	reg          registry
	nExtraGlobal int
	fextra       la.Vector // forces on global extra DOFs; owned here

	// temporary state fixture
	fix *store

	// force-clearing flags
	torqueFlag  bool
	erforceFlag bool

	// neighbor cadence snapshot (restored at Cleanup)
	prevCad sim.Cadence

	// counters
	NIter     int   // iterations performed
	NEval     int   // force evaluations performed
	NDofTotal int64 // total DOFs of the minimization problem

	// convergence metrics and reporting snapshots
	ECurrent      float64
	EInitial      float64
	EFinal        float64
	Fnorm2Init    float64
	FnormInfInit  float64
	Fnorm2Final   float64
	FnormInfFinal float64

	// outcome
	Reason  StopReason
	Message string

	phase int
}

// New returns a minimization engine using the named style. Unknown styles and
// incomplete simulations are fatal configuration errors.
func New(simu *sim.Simulation, styleName string) (o *Min, err error) {
	if err = simu.Check(); err != nil {
		return nil, err
	}
	alloc, ok := allocators[styleName]
	if !ok {
		return nil, chk.Err("cannot find minimization style named %q", styleName)
	}
	o = new(Min)
	o.Sim = simu
	o.DMax = 0.1
	o.StyleName = styleName
	o.style = alloc(o)
	return
}

// Register implements sim.Registrar: force-field plugins call it to add
// per-atom variables to the optimization state vector. The returned handle is
// stable until the registry is reset at the next Init.
func (o *Min) Register(owner sim.ExtraDOFOwner, perAtom int, maxStep float64) int {
	return o.reg.register(owner, perAtom, maxStep)
}

// Init initializes the minimization: allocates the temporary state fixture,
// resets the extra-DOF registry and diagnostic-consumer records, finds the
// required potential-energy consumer, fixes the virial accounting convention,
// overrides the reneighboring cadence (with a one-time warning) and delegates
// style initialization.
func (o *Min) Init() (err error) {
	if o.phase != phaseNew && o.phase != phaseCleaned {
		return chk.Err("minimization Init called twice without Cleanup")
	}
	s := o.Sim

	// temporary fixture for atom-based quantities; removed at Cleanup
	o.fix = newStore(s.Atoms, s.Box)

	// clear extra global and per-atom DOFs; plugins re-request during the scan below
	o.nExtraGlobal = 0
	o.fextra = nil
	o.reg.reset()
	for _, c := range s.Force.Contribs(s.Atoms.Molecular) {
		if r, ok := c.(sim.ExtraDOFRequester); ok {
			r.RequestDOFs(o)
		}
	}
	if s.Force.KSpace != nil {
		if r, ok := s.Force.KSpace.(sim.ExtraDOFRequester); ok {
			r.RequestDOFs(o)
		}
	}

	// virial method: pairwise sum without Newton, F dot r over ghosts with it
	if s.Force.Newton {
		o.virialStyle = 2
	} else {
		o.virialStyle = 1
	}

	// diagnostic-consumer records
	s.Mods.Refresh()
	o.evSetup()

	// required potential-energy consumer
	o.peCompute, err = s.Mods.FindEnergyCompute()
	if err != nil {
		return
	}

	// arrays to clear besides forces
	o.torqueFlag = s.Atoms.Torque != nil
	o.erforceFlag = s.Atoms.ErForce != nil

	// minimization requires exact per-step geometry
	o.prevCad = s.Neigh.Cadence()
	want := sim.Cadence{Every: 1, Delay: 0, DistCheck: true}
	if o.prevCad != want && s.ShowMsg() {
		io.PfYel("warning: resetting reneighboring criteria during minimization\n")
	}
	s.Neigh.SetCadence(want)

	o.NIter = 0
	o.NEval = 0

	o.style.InitStyle()
	o.phase = phaseInit
	return
}

// Setup prepares the full run: sizes global extra-DOF storage, lets the style
// allocate its vectors, runs one evaluation pass with a structural rebuild and
// snapshots the initial energy and norms
func (o *Min) Setup() (err error) {
	if o.phase != phaseInit {
		return chk.Err("minimization Setup requires Init first")
	}
	s := o.Sim
	if s.ShowMsg() {
		io.Pf("setting up minimization ...\n")
	}

	if err = o.setupBookkeeping(); err != nil {
		return
	}

	// acquire ghosts and build neighbor lists
	o.setupComm()
	o.refreshAliases()

	// one full evaluation with setup hooks
	o.setupEval()
	s.Out.Setup(s.State.Step)

	o.EInitial = o.ECurrent
	o.Fnorm2Init = math.Sqrt(o.FnormSqr())
	o.FnormInfInit = o.FnormInf()
	o.phase = phaseSetup
	return
}

// SetupMinimal is the lightweight variant of Setup: no message and no output
// setup. rebuild selects whether the full migration/rebuild sequence runs
// before the force calculation. Coming straight from Init, the one-time
// bookkeeping (style storage, global extra-DOF sizing) still runs.
func (o *Min) SetupMinimal(rebuild bool) (err error) {
	if o.phase != phaseInit && o.phase != phaseSetup {
		return chk.Err("minimization SetupMinimal requires Init first")
	}
	if o.phase == phaseInit {
		if err = o.setupBookkeeping(); err != nil {
			return
		}
	}
	if rebuild {
		o.setupComm()
	}
	o.refreshAliases()
	o.setupEval()
	o.EInitial = o.ECurrent
	o.Fnorm2Init = math.Sqrt(o.FnormSqr())
	o.FnormInfInit = o.FnormInf()
	o.phase = phaseSetup
	return
}

// Iterate delegates up to n iterations to the style. The orchestrator never
// decides convergence; the style reports why it stopped.
func (o *Min) Iterate(n int) (StopReason, error) {
	if o.phase != phaseSetup {
		return StopInternal, chk.Err("minimization Iterate requires Setup first")
	}
	return o.style.Iterate(n), nil
}

// Run performs the minimization for up to n iterations and translates the
// stop condition. On a true stopping condition (anything but the exhausted
// iteration budget) it forces all output/diagnostic consumers due, re-evaluates
// once with reference reset enabled to guarantee consistent flags, and signals
// the output subsystem to emit final state.
func (o *Min) Run(n int) (err error) {
	s := o.Sim
	s.State.NSteps = n

	o.Reason, err = o.Iterate(n)
	if err != nil {
		return
	}
	o.Message = o.Reason.String()

	if o.Reason != StopMaxIter {
		s.State.NSteps = o.NIter
		if !s.State.RestrictOutput {
			s.Out.ForceNext(s.State.Step)
		}
		s.Mods.ForceNextAll(s.State.Step)
		o.ECurrent = o.EnergyForce(true)
		s.Out.Write(s.State.Step)
	}

	if s.ShowMsg() {
		io.Pf("minimization stopped: %s\n", o.Message)
	}
	return
}

// Cleanup snapshots the final metrics, restores the reneighboring cadence and
// removes the temporary state fixture. A no-op unless Init ran (there is no
// cadence snapshot to restore before that).
func (o *Min) Cleanup() {
	if o.phase != phaseInit && o.phase != phaseSetup {
		return
	}
	o.EFinal = o.ECurrent
	o.Fnorm2Final = math.Sqrt(o.FnormSqr())
	o.FnormInfFinal = o.FnormInf()

	o.Sim.Neigh.SetCadence(o.prevCad)

	o.fix = nil
	o.phase = phaseCleaned
}

// NExtraAtom returns the number of registered per-atom extra DOFs
func (o *Min) NExtraAtom() int { return o.reg.n() }

// NExtraGlobal returns the number of global extra DOFs
func (o *Min) NExtraGlobal() int { return o.nExtraGlobal }

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// setupBookkeeping runs the once-per-Init setup shared by Setup and
// SetupMinimal: sizes global extra-DOF storage, lets the style allocate its
// vectors, rejects non-search styles with extra DOFs before any force
// evaluation, and counts the total DOFs of the problem
func (o *Min) setupBookkeeping() (err error) {
	s := o.Sim

	// global extra DOFs reported by the modifier collection
	o.nExtraGlobal = s.Mods.GlobalDOF()
	if o.nExtraGlobal > 0 {
		o.fextra = la.NewVector(o.nExtraGlobal)
	}

	// style storage; also where styles alias extra-DOF vectors
	if err = o.style.SetupStyle(); err != nil {
		return
	}

	if (o.nExtraGlobal > 0 || o.reg.n() > 0) && !o.style.Search() {
		return chk.Err("cannot minimize with extra degrees of freedom using a non-search style %q", o.StyleName)
	}

	// total DOFs: atoms plus per-atom extras (reduced), plus global extras
	ndofme := int64(3 * s.Atoms.Nlocal)
	for _, sl := range o.reg.slots {
		ndofme += int64(sl.perAtom * s.Atoms.Nlocal)
	}
	o.NDofTotal = s.Red.SumInt(ndofme) + int64(o.nExtraGlobal)
	return
}

// setupComm runs the full domain/communication/neighboring setup: periodic
// wrap, decomposition geometry, migration, ghost acquisition, list build
func (o *Min) setupComm() {
	s := o.Sim
	s.Box.Wrap()
	s.Box.ResetGeometry()
	s.Decomp.Setup()
	s.Neigh.SetupBins()
	s.Decomp.Exchange()
	if s.Atoms.SortDue(s.State.Step) {
		s.Atoms.Sort(s.State.Step)
	}
	s.Decomp.Borders()
	s.Neigh.Build()
	s.Neigh.ResetBuilds()
}

// setupEval computes all forces once using the setup variants of the modifier
// hooks and assembles the current energy
func (o *Min) setupEval() {
	s := o.Sim
	flags := o.evSet(s.State.Step)
	o.forceClear()
	s.Mods.PreForce(flags.Virial)
	for _, c := range s.Force.Contribs(s.Atoms.Molecular) {
		c.Compute(flags.Energy, flags.Virial)
	}
	if s.Force.KSpace != nil {
		s.Force.KSpace.Setup()
		s.Force.KSpace.Compute(flags.Energy, flags.Virial)
	}
	if s.Force.Newton {
		s.Decomp.ReverseReduce()
	}
	o.reg.harvest()
	s.Mods.SetupHooks(flags.Virial)
	o.NEval++
	o.ECurrent = o.energyTotal()
}

// energyTotal assembles the scalar objective: the energy consumer's value plus
// the global extra-DOF contribution (which also fills fextra), normalized per
// atom when the output subsystem requests it
func (o *Min) energyTotal() (energy float64) {
	s := o.Sim
	energy = o.peCompute.Scalar()
	if o.nExtraGlobal > 0 {
		energy += s.Mods.GlobalEnergyForce(o.fextra)
	}
	if s.Out.PerAtomNorm() {
		energy /= float64(s.Atoms.Natoms)
	}
	return
}

// refreshAliases re-acquires buffer references into the (possibly reallocated
// or reordered) atom arrays after migration: the fixture grows to the new
// owned-atom count and the extra-DOF buffers are re-harvested from their owners
func (o *Min) refreshAliases() {
	o.fix.growTo(o.Sim.Atoms.Nlocal)
	o.reg.harvest()
}
