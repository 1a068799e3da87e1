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

package kernels

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/gomlx/gpkernels/kernels/computations"
)

// RBF is the radial basis function (squared exponential) kernel:
//
//	k(x, y) = σ² exp(-½ ‖(x-y)/ℓ‖²)
//
// with variance σ² and isotropic lengthscale ℓ, both learnable parameter slots.
type RBF struct {
	Base
	variance    float64
	lengthscale float64
}

// Compile-time checks.
var (
	_ Kernel                  = (*RBF)(nil)
	_ SpectralDensityProvider = (*RBF)(nil)
)

// NewRBF returns an RBF kernel with unit variance and lengthscale.
func NewRBF() *RBF {
	k := &RBF{variance: 1, lengthscale: 1}
	k.initBase(k, "RBF")
	return k
}

// WithActiveDims sets the input columns the kernel consumes. Returns the kernel
// for chaining; construction phase only.
func (k *RBF) WithActiveDims(ad ActiveDims) *RBF {
	k.setActiveDims(ad)
	return k
}

// WithEngine sets the batched-evaluation engine. Returns the kernel for chaining;
// construction phase only.
func (k *RBF) WithEngine(engine computations.Engine) *RBF {
	k.setEngine(engine)
	return k
}

// WithName sets the display name. Returns the kernel for chaining.
func (k *RBF) WithName(name string) *RBF {
	k.setName(name)
	return k
}

// WithVariance sets the initial variance σ². Returns the kernel for chaining.
func (k *RBF) WithVariance(variance float64) *RBF {
	k.variance = variance
	return k
}

// WithLengthscale sets the initial lengthscale ℓ. Returns the kernel for chaining.
func (k *RBF) WithLengthscale(lengthscale float64) *RBF {
	k.lengthscale = lengthscale
	return k
}

// Variance returns the current variance parameter.
func (k *RBF) Variance() float64 { return k.variance }

// SetVariance updates the variance parameter slot.
func (k *RBF) SetVariance(variance float64) { k.variance = variance }

// Lengthscale returns the current lengthscale parameter.
func (k *RBF) Lengthscale() float64 { return k.lengthscale }

// SetLengthscale updates the lengthscale parameter slot.
func (k *RBF) SetLengthscale(lengthscale float64) { k.lengthscale = lengthscale }

// Evaluate implements Kernel.
func (k *RBF) Evaluate(x, y []float64) float64 {
	xs := k.SliceVector(x)
	ys := k.SliceVector(y)
	sum := 0.0
	for ii := range xs {
		d := (xs[ii] - ys[ii]) / k.lengthscale
		sum += d * d
	}
	return k.variance * math.Exp(-0.5*sum)
}

// SpectralDensity implements SpectralDensityProvider: the Fourier transform of
// an RBF kernel is a zero-mean normal with σ = 1/ℓ.
func (k *RBF) SpectralDensity() Distribution {
	return distuv.Normal{Mu: 0, Sigma: 1 / k.lengthscale}
}

// White is the white-noise kernel: variance for identical (sliced) inputs, zero
// otherwise.
type White struct {
	Base
	variance float64
}

// Compile-time check.
var _ Kernel = (*White)(nil)

// NewWhite returns a White kernel with unit variance.
func NewWhite() *White {
	k := &White{variance: 1}
	k.initBase(k, "White")
	return k
}

// WithActiveDims sets the input columns the kernel consumes. Returns the kernel
// for chaining; construction phase only.
func (k *White) WithActiveDims(ad ActiveDims) *White {
	k.setActiveDims(ad)
	return k
}

// WithEngine sets the batched-evaluation engine. Returns the kernel for chaining;
// construction phase only.
func (k *White) WithEngine(engine computations.Engine) *White {
	k.setEngine(engine)
	return k
}

// WithVariance sets the initial variance. Returns the kernel for chaining.
func (k *White) WithVariance(variance float64) *White {
	k.variance = variance
	return k
}

// Variance returns the current variance parameter.
func (k *White) Variance() float64 { return k.variance }

// SetVariance updates the variance parameter slot.
func (k *White) SetVariance(variance float64) { k.variance = variance }

// Evaluate implements Kernel.
func (k *White) Evaluate(x, y []float64) float64 {
	if slices.Equal(k.SliceVector(x), k.SliceVector(y)) {
		return k.variance
	}
	return 0
}
