// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

// ForceContrib defines a force-field contributor (pair, bond, angle, dihedral,
// improper). Compute accumulates forces directly into Atoms.F; eflag and vflag
// tell which energy/virial granularities must be tallied this call.
type ForceContrib interface {
	Compute(eflag, vflag int)
}

// LongRange defines a long-range (k-space) solver; Setup must be called once
// before the first Compute after the box or charges changed.
type LongRange interface {
	ForceContrib
	Setup()
}

// ForceField bundles the registered force-field contributors. Any contributor
// may be nil (e.g. no bonded terms). Bonded contributors run only when the
// atom model is molecular.
type ForceField struct {
	Pair     ForceContrib
	Bond     ForceContrib
	Angle    ForceContrib
	Dihedral ForceContrib
	Improper ForceContrib
	KSpace   LongRange
	Newton   bool // third-law reduced ghost accounting (requires reverse reduction)
}

// Contribs returns the non-nil contributors in invocation order, honoring the
// molecular flag for bonded terms. KSpace is excluded (it needs Setup).
func (o *ForceField) Contribs(molecular bool) (list []ForceContrib) {
	if o.Pair != nil {
		list = append(list, o.Pair)
	}
	if molecular {
		for _, c := range []ForceContrib{o.Bond, o.Angle, o.Dihedral, o.Improper} {
			if c != nil {
				list = append(list, c)
			}
		}
	}
	return
}

// ExtraDOFOwner defines force-field plugins owning auxiliary per-atom
// optimization variables. The plugin owns and sizes the underlying buffers;
// the core reads/writes only through these callbacks.
type ExtraDOFOwner interface {

	// HarvestXF returns the current variable and force buffers for the given
	// registry slot. Buffer lengths may change after migration.
	HarvestXF(slot int) (x, f []float64)

	// CommitX notifies the owner that the variable buffer of the given slot
	// was updated in place (e.g. by a line-search move)
	CommitX(slot int)
}

// Registrar is implemented by the minimization core; plugins call Register to
// extend the optimization state vector with extra per-atom variables.
// Registration order defines the DOF layout and must be reproducible.
type Registrar interface {
	Register(owner ExtraDOFOwner, perAtom int, maxStep float64) (handle int)
}

// ExtraDOFRequester is implemented by contributors that need extra per-atom
// optimization variables; RequestDOFs is invoked once at minimization init.
type ExtraDOFRequester interface {
	RequestDOFs(reg Registrar)
}
