// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

// Cadence holds the reneighboring criteria of the neighbor subsystem
type Cadence struct {
	Every     int  // attempt rebuild every this many steps
	Delay     int  // wait at least this many steps since last rebuild
	DistCheck bool // rebuild only if atoms moved further than the skin allows
}

// Neighbor defines the neighbor-list subsystem. The core never inspects the
// list data structures; it only drives rebuild decisions and cadence.
type Neighbor interface {
	Decide(step int64) bool // is a structural rebuild due at this step?
	SetupBins()             // re-derive binning after the box geometry changed
	Build()                 // rebuild the neighbor lists
	Builds() int            // number of builds since last reset
	ResetBuilds()           // zero the build counter
	Cadence() Cadence       // current reneighboring criteria
	SetCadence(c Cadence)   // override reneighboring criteria
}

// Decomposition defines the spatial decomposition and inter-partition
// communication subsystem. All operations are collective: every partition in
// the group must invoke them in the same relative order. Atom identity (Tag)
// must be preserved across migration.
type Decomposition interface {
	Setup()           // re-derive decomposition geometry from the current box
	ForwardExchange() // send up-to-date positions of already-known ghost atoms
	Exchange()        // migrate atoms that left this partition's sub-domain
	Borders()         // rebuild the ghost halo
	ReverseReduce()   // fold ghost-atom partial forces back into their owners
}

// Box defines the simulation box geometry operations used by the core
type Box interface {
	Wrap()                    // apply periodic wrap to owned atoms
	Changed() bool            // did the box shape/size change since last reset?
	ResetGeometry()           // re-derive box bounds (e.g. for shrink-wrapped dims)
	MinimumImage(d []float64) // adjust a displacement to its minimum periodic image
}
