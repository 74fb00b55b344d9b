// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package min

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// line-search constants
const (
	alphaMaxFactor = 1.0     // initial trial step factor
	alphaReduce    = 0.5     // backoff factor on rejected steps
	backtrackSlope = 0.4     // sufficient-decrease slope
	quadraticTol   = 0.1     // relative-error acceptance for the quadratic fit
	emach          = 1.0e-8  // machine-tolerance floor for energy decreases
	epsEnergy      = 1.0e-8  // guard for relative energy-tolerance tests
)

// lineSearch holds the machinery shared by search-capable styles: the search
// direction and previous-force vectors over the full optimization state vector
// (atoms, per-atom extras, global extras) and the two line minimizers.
type lineSearch struct {
	m *Min

	// flat per-atom vectors in the state fixture (3 components per atom)
	gID int // previous force
	hID int // search direction

	// per-slot vectors for per-atom extra DOFs, parallel to the registry
	x0eIDs []int
	geIDs  []int
	heIDs  []int

	// global extra DOFs (the owners keep the variables; Store/Step move them)
	gextra la.Vector
	hextra la.Vector

	linemin func(e0 float64) (eNew float64, stop StopReason, failed bool)
}

// setup allocates the style vectors; called from SetupStyle after all extra
// DOFs have been registered
func (o *lineSearch) setup() (err error) {
	m := o.m
	o.gID = m.fix.addVector(3)
	o.hID = m.fix.addVector(3)

	o.x0eIDs = nil
	o.geIDs = nil
	o.heIDs = nil
	for _, s := range m.reg.slots {
		o.x0eIDs = append(o.x0eIDs, m.fix.addVector(s.perAtom))
		o.geIDs = append(o.geIDs, m.fix.addVector(s.perAtom))
		o.heIDs = append(o.heIDs, m.fix.addVector(s.perAtom))
	}

	if m.nExtraGlobal > 0 {
		o.gextra = la.NewVector(m.nExtraGlobal)
		o.hextra = la.NewVector(m.nExtraGlobal)
	}

	if m.LineStyle == 1 {
		o.linemin = o.lineminQuadratic
	} else {
		o.linemin = o.lineminBacktrack
	}
	return
}

// saveDir sets both the previous-force vector and the search direction to the
// current force (steepest-descent restart)
func (o *lineSearch) saveDir() {
	m := o.m
	a := m.Sim.Atoms
	g := m.fix.vector(o.gID)
	h := m.fix.vector(o.hID)
	for i := 0; i < a.Nlocal; i++ {
		for j := 0; j < 3; j++ {
			g[3*i+j] = a.F[i][j]
			h[3*i+j] = a.F[i][j]
		}
	}
	for k, s := range m.reg.slots {
		ge := m.fix.vector(o.geIDs[k])
		he := m.fix.vector(o.heIDs[k])
		for i := 0; i < s.nlen; i++ {
			ge[i] = s.f[i]
			he[i] = s.f[i]
		}
	}
	if m.nExtraGlobal > 0 {
		copy(o.gextra, m.fextra)
		copy(o.hextra, m.fextra)
	}
}

// updateDir applies the conjugation g=f, h=g+beta*h; when the new direction
// is not downhill the search restarts along g
func (o *lineSearch) updateDir(beta float64) {
	m := o.m
	a := m.Sim.Atoms
	g := m.fix.vector(o.gID)
	h := m.fix.vector(o.hID)
	for i := 0; i < a.Nlocal; i++ {
		for j := 0; j < 3; j++ {
			g[3*i+j] = a.F[i][j]
			h[3*i+j] = g[3*i+j] + beta*h[3*i+j]
		}
	}
	for k, s := range m.reg.slots {
		ge := m.fix.vector(o.geIDs[k])
		he := m.fix.vector(o.heIDs[k])
		for i := 0; i < s.nlen; i++ {
			ge[i] = s.f[i]
			he[i] = ge[i] + beta*he[i]
		}
	}
	if m.nExtraGlobal > 0 {
		for i := 0; i < m.nExtraGlobal; i++ {
			o.gextra[i] = m.fextra[i]
			o.hextra[i] = o.gextra[i] + beta*o.hextra[i]
		}
	}

	// reinitialize if the conjugate direction lost descent
	if o.gdoth() <= 0 {
		o.saveDir()
	}
}

// dot products over the full optimization state vector ///////////////////////////////////////////

func (o *lineSearch) dotWithForce(vecID int, extIDs []int, extra la.Vector) float64 {
	m := o.m
	a := m.Sim.Atoms
	v := m.fix.vector(vecID)
	local := 0.0
	for i := 0; i < a.Nlocal; i++ {
		for j := 0; j < 3; j++ {
			local += a.F[i][j] * v[3*i+j]
		}
	}
	for k, s := range m.reg.slots {
		ve := m.fix.vector(extIDs[k])
		for i := 0; i < s.nlen; i++ {
			local += s.f[i] * ve[i]
		}
	}
	total := m.Sim.Red.SumFloat(local)
	if m.nExtraGlobal > 0 {
		total += la.VecDot(m.fextra, extra)
	}
	return total
}

// fdoth returns force dot search-direction, reduced over all partitions
func (o *lineSearch) fdoth() float64 {
	return o.dotWithForce(o.hID, o.heIDs, o.hextra)
}

// fdotg returns force dot previous-force, reduced over all partitions
func (o *lineSearch) fdotg() float64 {
	return o.dotWithForce(o.gID, o.geIDs, o.gextra)
}

// gdoth returns previous-force dot search-direction, reduced over all partitions
func (o *lineSearch) gdoth() float64 {
	m := o.m
	a := m.Sim.Atoms
	g := m.fix.vector(o.gID)
	h := m.fix.vector(o.hID)
	local := 0.0
	for i := 0; i < a.Nlocal; i++ {
		for j := 0; j < 3; j++ {
			local += g[3*i+j] * h[3*i+j]
		}
	}
	for k, s := range m.reg.slots {
		ge := m.fix.vector(o.geIDs[k])
		he := m.fix.vector(o.heIDs[k])
		for i := 0; i < s.nlen; i++ {
			local += ge[i] * he[i]
		}
	}
	total := m.Sim.Red.SumFloat(local)
	if m.nExtraGlobal > 0 {
		total += la.VecDot(o.gextra, o.hextra)
	}
	return total
}

// step bound and trial moves /////////////////////////////////////////////////////////////////////

// alphaBound returns the largest step keeping every coordinate move within its
// clamp: DMax for atom and global coordinates, the registered per-slot bound
// for per-atom extras. Returns 0 when the direction is identically zero.
func (o *lineSearch) alphaBound() float64 {
	m := o.m
	a := m.Sim.Atoms
	h := m.fix.vector(o.hID)

	local := 0.0
	for i := 0; i < 3*a.Nlocal; i++ {
		local = math.Max(math.Abs(h[i]), local)
	}
	hmax := m.Sim.Red.MaxFloat(local)

	alpha := math.Inf(1)
	if hmax > 0 {
		alpha = m.DMax / hmax
	}

	for k, s := range m.reg.slots {
		he := m.fix.vector(o.heIDs[k])
		local = 0.0
		for i := 0; i < s.nlen; i++ {
			local = math.Max(math.Abs(he[i]), local)
		}
		hmaxe := m.Sim.Red.MaxFloat(local)
		hmax = math.Max(hmax, hmaxe)
		if hmaxe > 0 {
			alpha = math.Min(alpha, s.maxStep/hmaxe)
		}
	}

	for i := 0; i < m.nExtraGlobal; i++ {
		habs := math.Abs(o.hextra[i])
		hmax = math.Max(hmax, habs)
		if habs > 0 {
			alpha = math.Min(alpha, m.DMax/habs)
		}
	}

	if hmax == 0 {
		return 0
	}
	return alpha
}

// saveOrigin records the line-search origin: reference coordinates, per-atom
// extra variables and global extra variables
func (o *lineSearch) saveOrigin() {
	m := o.m
	m.fix.saveCoords()
	for k, s := range m.reg.slots {
		x0e := m.fix.vector(o.x0eIDs[k])
		copy(x0e, s.x[:s.nlen])
	}
	m.Sim.Mods.GlobalStore()
}

// moveTo places the whole state vector at origin + alpha*direction
func (o *lineSearch) moveTo(alpha float64) {
	m := o.m
	a := m.Sim.Atoms
	h := m.fix.vector(o.hID)
	for i := 0; i < a.Nlocal; i++ {
		for j := 0; j < 3; j++ {
			a.X[i][j] = m.fix.x0[i][j] + alpha*h[3*i+j]
		}
	}
	for k, s := range m.reg.slots {
		x0e := m.fix.vector(o.x0eIDs[k])
		he := m.fix.vector(o.heIDs[k])
		for i := 0; i < s.nlen; i++ {
			s.x[i] = x0e[i] + alpha*he[i]
		}
		s.owner.CommitX(k)
	}
	if m.nExtraGlobal > 0 {
		m.Sim.Mods.GlobalStep(alpha, o.hextra)
	}
}

// restoreOrigin moves back to the line-search origin and re-evaluates so that
// forces are consistent with the restored state
func (o *lineSearch) restoreOrigin() float64 {
	o.moveTo(0)
	o.m.Sim.Mods.GlobalRestore()
	return o.m.EnergyForce(false)
}

// line minimizers ////////////////////////////////////////////////////////////////////////////////

// lineminBacktrack minimizes the energy along the search direction with a
// backtracking search: start at the clamp-limited step and halve until the
// sufficient-decrease condition holds
func (o *lineSearch) lineminBacktrack(e0 float64) (eNew float64, stop StopReason, failed bool) {
	m := o.m

	fdothall := o.fdoth()
	if m.Sim.Out.PerAtomNorm() {
		fdothall /= float64(m.Sim.Atoms.Natoms)
	}
	if fdothall <= 0 {
		return e0, StopNotDownhill, true
	}

	alphaMax := o.alphaBound()
	if alphaMax == 0 {
		return e0, StopZeroForce, true
	}

	o.saveOrigin()

	alpha := math.Min(alphaMaxFactor, alphaMax)
	for {
		o.moveTo(alpha)
		eNew = m.EnergyForce(true)

		deIdeal := -backtrackSlope * alpha * fdothall
		if eNew-e0 <= deIdeal {
			return eNew, 0, false
		}

		alpha *= alphaReduce
		deIdeal = -backtrackSlope * alpha * fdothall
		if alpha <= 0 || deIdeal >= -emach {
			eNew = o.restoreOrigin()
			return eNew, StopZeroAlpha, true
		}
	}
}

// lineminQuadratic minimizes along the search direction by fitting a parabola
// through the energies and projected forces of consecutive trial steps,
// falling back to backtracking acceptance when the fit is unreliable
func (o *lineSearch) lineminQuadratic(e0 float64) (eNew float64, stop StopReason, failed bool) {
	m := o.m

	fdothall := o.fdoth()
	if m.Sim.Out.PerAtomNorm() {
		fdothall /= float64(m.Sim.Atoms.Natoms)
	}
	if fdothall <= 0 {
		return e0, StopNotDownhill, true
	}

	alphaMax := o.alphaBound()
	if alphaMax == 0 {
		return e0, StopZeroForce, true
	}

	o.saveOrigin()

	alphaPrev := 0.0
	fhPrev := fdothall
	ePrev := e0
	alpha := math.Min(alphaMaxFactor, alphaMax)
	for {
		o.moveTo(alpha)
		eNew = m.EnergyForce(true)

		fhCurr := o.fdoth()
		if m.Sim.Out.PerAtomNorm() {
			fhCurr /= float64(m.Sim.Atoms.Natoms)
		}

		// secant estimate of the parabola minimum
		denom := fhCurr - fhPrev
		if denom == 0 {
			eNew = o.restoreOrigin()
			return eNew, StopZeroQuad, true
		}
		alpha0 := alpha - (alpha-alphaPrev)*fhCurr/denom

		// trust the fit only if the parabola reproduces the previous energy
		relerr := math.Abs(1 - (0.5*(alpha-alphaPrev)*(fhPrev+fhCurr)+eNew)/(ePrev+epsEnergy))
		if relerr <= quadraticTol && alpha0 > 0 && alpha0 < alphaMax {
			o.moveTo(alpha0)
			eNew = m.EnergyForce(true)
			if eNew-e0 < emach {
				return eNew, 0, false
			}
		}

		deIdeal := -backtrackSlope * alpha * fdothall
		if eNew-e0 <= deIdeal {
			return eNew, 0, false
		}

		alphaPrev = alpha
		fhPrev = fhCurr
		ePrev = eNew
		alpha *= alphaReduce
		deIdeal = -backtrackSlope * alpha * fdothall
		if alpha <= 0 || deIdeal >= -emach {
			eNew = o.restoreOrigin()
			return eNew, StopZeroAlpha, true
		}
	}
}
