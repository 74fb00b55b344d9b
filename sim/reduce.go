// Copyright 2021 The Gomd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

// Reducer combines scalars across all partitions. All calls are collective and
// blocking: every partition must invoke them in the same relative order.
// Multi-process drivers supply an implementation backed by their message-passing
// runtime (an MPI allreduce per call); single-partition runs use Serial.
type Reducer interface {
	SumFloat(x float64) float64 // sum-reduction of x over all partitions
	MaxFloat(x float64) float64 // max-reduction of x over all partitions
	SumInt(x int64) int64       // sum-reduction of an integer count
	Rank() int                  // this partition's id
	Size() int                  // number of partitions
}

// Serial is the single-partition reducer (identity operations)
type Serial struct{}

// SumFloat implements Reducer.SumFloat
func (o Serial) SumFloat(x float64) float64 { return x }

// MaxFloat implements Reducer.MaxFloat
func (o Serial) MaxFloat(x float64) float64 { return x }

// SumInt implements Reducer.SumInt
func (o Serial) SumInt(x int64) int64 { return x }

// Rank implements Reducer.Rank
func (o Serial) Rank() int { return 0 }

// Size implements Reducer.Size
func (o Serial) Size() int { return 1 }
