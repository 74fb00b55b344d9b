// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package min

// Minimizer implements the actual search-direction/step-size algorithm. It is
// the only pluggable piece the core does not specify: styles call back into
// the registry, the evaluation pipeline and the norm calculator.
type Minimizer interface {
	InitStyle()                    // style-specific initialization (at Min.Init)
	SetupStyle() (err error)       // allocate style storage; request extra DOFs
	Iterate(n int) StopReason      // run up to n iterations; report why it stopped
	Search() bool                  // does this style perform a line search?
}

// allocators holds all available minimizer styles
var allocators = make(map[string]func(m *Min) Minimizer)
