/*
 *	Copyright 2024 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

// Package kernels implements an algebra of covariance functions ("kernels") for
// kernel-based statistical models, e.g. Gaussian processes.
//
// A Kernel evaluates a covariance value on a pair of input vectors, optionally
// restricted to a subset of the input columns (its "active dims"), and delegates
// batched evaluation (Gram and cross-covariance matrices) to a pluggable
// computations.Engine.
//
// Kernels compose: Sum and Product build flat combination kernels from any mix of
// leaves and composites, and Add / Mul additionally lift plain scalars into the
// algebra through the Constant kernel:
//
//	k := kernels.Add(kernels.NewRBF(), 0.5)       // RBF plus a constant offset.
//	k2 := kernels.Mul(k, kernels.NewConstant(2))  // ... scaled by a learnable 2.
//	cov := k2.Gram(x)                             // x shaped [batch_size, num_dims].
//
// Kernel structure is immutable after construction; only parameter slots (e.g.
// Constant.SetValue) are mutated, by a training loop, between evaluations.
package kernels

import (
	"github.com/pkg/errors"

	"github.com/gomlx/gpkernels/kernels/computations"
	"github.com/gomlx/gpkernels/types/tensors"
)

// Kernel is a covariance function: the unit of composition of this package.
//
// The one method every concrete kernel must provide itself is Evaluate; everything
// else is inherited by embedding Base. Evaluate must be a pure function of the
// inputs and the kernel's parameter state.
//
// Evaluate receives full-width input vectors and is responsible for slicing its
// own active dims (Base.SliceVector). Gram and CrossCovariance receive batched
// inputs shaped `[batch_size, num_dims]`.
type Kernel interface {
	computations.PairwiseKernel

	// NumDims returns the number of input columns the kernel consumes after slicing.
	NumDims() int

	// ActiveDims returns the canonical selector of the input columns consumed.
	ActiveDims() ActiveDims

	// Name returns the kernel's display name. No semantic effect.
	Name() string

	// SliceInput applies the active dims to the trailing axis of an arbitrarily
	// batched input.
	SliceInput(x *tensors.Tensor) *tensors.Tensor

	// CrossCovariance returns the `[N, M]` pairwise evaluation matrix for inputs
	// shaped `[N, D]` and `[M, D]`. Delegated to the kernel's engine.
	CrossCovariance(x, y *tensors.Tensor) *tensors.Tensor

	// Gram returns the `[N, N]` covariance matrix for an input shaped `[N, D]`.
	// Delegated to the kernel's engine.
	Gram(x *tensors.Tensor) *tensors.Tensor
}

// Distribution is the minimal view of a probability distribution a kernel may
// report as its spectral density. gonum's distuv distributions satisfy it.
type Distribution interface {
	Prob(x float64) float64
	Rand() float64
}

// SpectralDensityProvider is the optional capability of kernels with a known
// Fourier-domain form.
type SpectralDensityProvider interface {
	SpectralDensity() Distribution
}

// SpectralDensity returns the kernel's spectral density, or nil if the kernel
// does not provide one.
func SpectralDensity(k Kernel) Distribution {
	if provider, ok := k.(SpectralDensityProvider); ok {
		return provider.SpectralDensity()
	}
	return nil
}

// Base provides the common kernel machinery: active-dims bookkeeping, input
// slicing and engine delegation. Concrete kernels embed it (by value) and call
// initBase on construction.
//
// Base.Evaluate throws ErrNotImplemented: the embedding kernel must provide its
// own.
type Base struct {
	nDims  int
	active ActiveDims
	engine computations.Engine
	name   string

	// owner is the embedding kernel, so engine delegation calls back the concrete
	// Evaluate instead of Base's.
	owner computations.PairwiseKernel
}

// initBase wires the embedding kernel and sets the defaults: active dims
// DimCount(1) and a fresh Dense engine. Each kernel owns an independent default
// engine; sharing one requires injecting it explicitly with a WithEngine setter.
func (b *Base) initBase(owner computations.PairwiseKernel, name string) {
	b.owner = owner
	b.name = name
	b.engine = computations.Dense{}
	b.nDims, b.active = normalizeActiveDims(DimCount(1))
}

// setActiveDims normalizes and installs the selector. Construction phase only.
func (b *Base) setActiveDims(ad ActiveDims) {
	b.nDims, b.active = normalizeActiveDims(ad)
}

// setEngine installs the batched-evaluation engine. Construction phase only.
func (b *Base) setEngine(engine computations.Engine) {
	b.engine = engine
}

// setName replaces the display name. Construction phase only.
func (b *Base) setName(name string) {
	b.name = name
}

// NumDims implements Kernel.
func (b *Base) NumDims() int { return b.nDims }

// ActiveDims implements Kernel.
func (b *Base) ActiveDims() ActiveDims { return b.active }

// Name implements Kernel.
func (b *Base) Name() string { return b.name }

// Engine returns the kernel's batched-evaluation engine.
func (b *Base) Engine() computations.Engine { return b.engine }

// Evaluate throws ErrNotImplemented: every concrete kernel must provide its own.
func (b *Base) Evaluate(x, y []float64) float64 {
	panic(errors.Wrapf(ErrNotImplemented, "kernel %q", b.name))
}

// SliceInput applies the kernel's active dims to the trailing axis of an
// arbitrarily batched input, returning a tensor whose trailing axis has exactly
// NumDims columns -- or the input unchanged for the pass-through DimCount form.
func (b *Base) SliceInput(x *tensors.Tensor) *tensors.Tensor {
	return b.active.apply(x)
}

// SliceVector applies the kernel's active dims to a single input vector. Concrete
// kernels call it at the top of their Evaluate.
func (b *Base) SliceVector(x []float64) []float64 {
	return b.active.applyVector(x)
}

// CrossCovariance implements Kernel, delegating to the engine.
func (b *Base) CrossCovariance(x, y *tensors.Tensor) *tensors.Tensor {
	return b.engine.CrossCovariance(b.owner, x, y)
}

// Gram implements Kernel, delegating to the engine.
func (b *Base) Gram(x *tensors.Tensor) *tensors.Tensor {
	return b.engine.Gram(b.owner, x)
}
