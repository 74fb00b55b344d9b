// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package min

// StopReason is the closed enumeration of reasons a minimization stopped.
// Stop reasons are not errors.
type StopReason int

const (
	StopMaxIter     StopReason = iota // exhausted requested iteration budget
	StopMaxEval                       // exhausted force-evaluation budget
	StopEnergyTol                     // energy tolerance satisfied
	StopForceTol                      // force tolerance satisfied
	StopNotDownhill                   // search direction is not a descent direction
	StopZeroAlpha                     // line-search step collapsed to zero
	StopZeroForce                     // force vector is already zero
	StopZeroQuad                      // degenerate quadratic line-search factors
	StopTrustRegion                   // trust region collapsed below a usable size
	StopInternal                      // algorithm-specific internal failure
)

var stopStrings = []string{
	"max iterations",
	"max force evaluations",
	"energy tolerance",
	"force tolerance",
	"search direction is not downhill",
	"linesearch alpha is zero",
	"forces are zero",
	"quadratic factors are zero",
	"trust region too small",
	"minimizer error",
}

// String returns the human-readable stopping reason
func (o StopReason) String() string {
	if o < 0 || int(o) >= len(stopStrings) {
		return "unknown"
	}
	return stopStrings[o]
}
