// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import "github.com/cpmech/gosl/chk"

// State holds the global timestep bookkeeping of a run
type State struct {
	Step           int64 // current simulation step
	NSteps         int   // number of steps of the current run request
	RestrictOutput bool  // do not hardwire dump/restart output on early stop

	// steps at which each diagnostic granularity was last demanded
	EnergyStep     int64
	EnergyAtomStep int64
	VirialStep     int64
	VirialAtomStep int64
}

// NewState returns timestep bookkeeping with markers cleared
func NewState() (o *State) {
	o = new(State)
	o.EnergyStep = -1
	o.EnergyAtomStep = -1
	o.VirialStep = -1
	o.VirialAtomStep = -1
	return
}

// Simulation bundles the simulation state and all collaborators consumed by
// the minimization core
type Simulation struct {
	Atoms   *Atoms
	State   *State
	Box     Box
	Decomp  Decomposition
	Neigh   Neighbor
	Force   *ForceField
	Mods    *ModifierSet
	Out     Output
	Red     Reducer
	Verbose bool
}

// ShowMsg tells whether this process should print messages
func (o *Simulation) ShowMsg() bool {
	return o.Verbose && o.Red.Rank() == 0
}

// Check returns an error if any required collaborator is missing
func (o *Simulation) Check() error {
	switch {
	case o.Atoms == nil:
		return chk.Err("simulation is missing the atom partition")
	case o.State == nil:
		return chk.Err("simulation is missing the timestep state")
	case o.Box == nil:
		return chk.Err("simulation is missing the box geometry")
	case o.Decomp == nil:
		return chk.Err("simulation is missing the decomposition subsystem")
	case o.Neigh == nil:
		return chk.Err("simulation is missing the neighbor subsystem")
	case o.Force == nil:
		return chk.Err("simulation is missing the force field")
	case o.Mods == nil:
		return chk.Err("simulation is missing the modifier collection")
	case o.Out == nil:
		return chk.Err("simulation is missing the output subsystem")
	case o.Red == nil:
		return chk.Err("simulation is missing the reducer")
	}
	return nil
}
