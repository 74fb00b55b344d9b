// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import "github.com/cpmech/gosl/chk"

// Modifier defines constraint/fix plugins hooked into the evaluation pipeline.
// Optional capabilities are discovered by type assertion (see interfaces below).
type Modifier interface {
	Name() string
}

// PreExchanger defines modifiers invoked before atom migration
type PreExchanger interface {
	MinPreExchange()
}

// PreForcer defines modifiers invoked after force clearing, before contributors
type PreForcer interface {
	MinPreForce(vflag int)
}

// PostForcer defines modifiers invoked after all contributors and reductions
type PostForcer interface {
	MinPostForce(vflag int)
}

// SetupHooker defines modifiers with a one-time setup hook run at the end of
// the minimization setup force evaluation
type SetupHooker interface {
	MinSetup(vflag int)
}

// GlobalDOFOwner defines modifiers contributing global scalar variables to the
// optimization state vector (e.g. box relaxation). The owner holds the
// variables; the core only sizes a flat force buffer from DOF counts.
type GlobalDOFOwner interface {
	DOF() int                                // number of global scalar variables
	EnergyForce(f []float64) (energy float64) // fills forces on the variables; returns their energy contribution
	Store()                                   // snapshot current variable values
	Restore()                                 // restore snapshotted values
	Step(alpha float64, h []float64)          // move variables: stored + alpha*h
}

// ModifierSet holds all modifiers and diagnostic consumers of a run and
// dispatches pipeline hooks to the modifiers implementing them.
type ModifierSet struct {
	Mods     []Modifier // constraint/fix plugins
	Computes []Compute  // diagnostic consumers

	// subsets rebuilt by Refresh; read-only during an iteration
	preExchange []PreExchanger
	preForce    []PreForcer
	postForce   []PostForcer
	setupHooks  []SetupHooker
	globals     []GlobalDOFOwner
}

// Refresh rebuilds the capability subsets; must be called whenever the
// modifier set changes and before a minimization starts
func (o *ModifierSet) Refresh() {
	o.preExchange = nil
	o.preForce = nil
	o.postForce = nil
	o.setupHooks = nil
	o.globals = nil
	for _, m := range o.Mods {
		if c, ok := m.(PreExchanger); ok {
			o.preExchange = append(o.preExchange, c)
		}
		if c, ok := m.(PreForcer); ok {
			o.preForce = append(o.preForce, c)
		}
		if c, ok := m.(PostForcer); ok {
			o.postForce = append(o.postForce, c)
		}
		if c, ok := m.(SetupHooker); ok {
			o.setupHooks = append(o.setupHooks, c)
		}
		if c, ok := m.(GlobalDOFOwner); ok {
			o.globals = append(o.globals, c)
		}
	}
}

// HasPreExchange tells whether any modifier hooks before migration
func (o *ModifierSet) HasPreExchange() bool { return len(o.preExchange) > 0 }

// HasPreForce tells whether any modifier hooks before force contributors
func (o *ModifierSet) HasPreForce() bool { return len(o.preForce) > 0 }

// HasPostForce tells whether any modifier hooks after force contributors
func (o *ModifierSet) HasPostForce() bool { return len(o.postForce) > 0 }

// PreExchange runs all pre-exchange hooks
func (o *ModifierSet) PreExchange() {
	for _, m := range o.preExchange {
		m.MinPreExchange()
	}
}

// PreForce runs all pre-force hooks
func (o *ModifierSet) PreForce(vflag int) {
	for _, m := range o.preForce {
		m.MinPreForce(vflag)
	}
}

// PostForce runs all post-force hooks
func (o *ModifierSet) PostForce(vflag int) {
	for _, m := range o.postForce {
		m.MinPostForce(vflag)
	}
}

// SetupHooks runs all one-time setup hooks
func (o *ModifierSet) SetupHooks(vflag int) {
	for _, m := range o.setupHooks {
		m.MinSetup(vflag)
	}
}

// GlobalDOF returns the total number of global extra variables reported by
// the modifiers. The sum defines the layout of the flat global buffers:
// owners are sliced in Mods order.
func (o *ModifierSet) GlobalDOF() (n int) {
	for _, m := range o.globals {
		n += m.DOF()
	}
	return
}

// GlobalEnergyForce fills f with the forces on all global extra variables and
// returns their total energy contribution. len(f) must equal GlobalDOF().
func (o *ModifierSet) GlobalEnergyForce(f []float64) (energy float64) {
	offset := 0
	for _, m := range o.globals {
		n := m.DOF()
		energy += m.EnergyForce(f[offset : offset+n])
		offset += n
	}
	return
}

// GlobalStore snapshots all global extra variables
func (o *ModifierSet) GlobalStore() {
	for _, m := range o.globals {
		m.Store()
	}
}

// GlobalRestore restores all global extra variables from their snapshots
func (o *ModifierSet) GlobalRestore() {
	for _, m := range o.globals {
		m.Restore()
	}
}

// GlobalStep moves all global extra variables to stored + alpha*h
func (o *ModifierSet) GlobalStep(alpha float64, h []float64) {
	offset := 0
	for _, m := range o.globals {
		n := m.DOF()
		m.Step(alpha, h[offset:offset+n])
		offset += n
	}
}

// FindEnergyCompute returns the diagnostic consumer providing the global
// potential energy scalar. Its absence is a fatal configuration error.
func (o *ModifierSet) FindEnergyCompute() (Compute, error) {
	for _, c := range o.Computes {
		if c.Needs().Energy {
			return c, nil
		}
	}
	return nil, chk.Err("minimization could not find a potential-energy compute")
}

// ForceNextAll makes the given step a due step for every consumer that
// supports forcing (used before hardwired final output)
func (o *ModifierSet) ForceNextAll(step int64) {
	type forcer interface{ ForceNext(step int64) }
	for _, c := range o.Computes {
		if f, ok := c.(forcer); ok {
			f.ForceNext(step)
		}
	}
}
