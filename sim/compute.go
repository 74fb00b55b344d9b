// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

// Needs tells which diagnostic granularities a consumer requires
type Needs struct {
	Energy     bool // global potential energy
	EnergyAtom bool // per-atom energy
	Virial     bool // global virial (pressure)
	VirialAtom bool // per-atom virial
}

// Compute defines a diagnostic consumer. MatchStep answers whether the
// consumer needs data at the given step and, when it does, advances the
// consumer's last-served marker; calling it twice in the same step must not
// double-advance (idempotent per step).
type Compute interface {
	MatchStep(step int64) bool
	Scalar() float64
	Needs() Needs
}

// StepCompute is a diagnostic consumer with an every-N demand schedule and a
// scalar value callback. It is the standard potential-energy consumer of a
// minimization run (Need.Energy set, Every=1).
type StepCompute struct {
	Every    int64          // demand data every this many steps; 0 = only when forced
	Need     Needs          // granularities required
	ScalarFn func() float64 // current scalar value (e.g. accumulated energy)

	next   int64 // next explicitly-forced step (-1 = none)
	served int64 // last step served (idempotence marker)
}

// NewStepCompute returns a consumer demanding data every 'every' steps
func NewStepCompute(every int64, need Needs, scalarFn func() float64) (o *StepCompute) {
	o = new(StepCompute)
	o.Every = every
	o.Need = need
	o.ScalarFn = scalarFn
	o.next = -1
	o.served = -1
	return
}

// MatchStep implements Compute.MatchStep
func (o *StepCompute) MatchStep(step int64) bool {
	match := o.next == step
	if !match && o.Every > 0 && step%o.Every == 0 {
		match = true
	}
	if match && o.served != step {
		o.served = step
		if o.next == step {
			o.next = -1
		}
	}
	return match
}

// Scalar implements Compute.Scalar
func (o *StepCompute) Scalar() float64 {
	if o.ScalarFn == nil {
		return 0
	}
	return o.ScalarFn()
}

// Needs implements Compute.Needs
func (o *StepCompute) Needs() Needs {
	return o.Need
}

// ForceNext makes the given step a due step regardless of the schedule
func (o *StepCompute) ForceNext(step int64) {
	o.next = step
}

// LastServed returns the last step this consumer was served at (-1 = never)
func (o *StepCompute) LastServed() int64 {
	return o.served
}
