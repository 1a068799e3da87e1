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
	"fmt"
	"slices"

	"github.com/pkg/errors"

	"github.com/gomlx/gpkernels/types"
	"github.com/gomlx/gpkernels/types/tensors"
)

// activeDimsForm tags the variant of an ActiveDims selector.
type activeDimsForm int8

const (
	formInvalid activeDimsForm = iota
	formIndices
	formCount
	formRange
)

// ActiveDims selects which trailing-axis columns of the input a kernel consumes.
//
// There are three forms:
//
//   - DimIndices(1, 3): an explicit list of columns, gathered in the given order.
//   - DimCount(k): declares the kernel consumes k columns. Slicing with this form is
//     a pass-through -- the count is advisory, enforced only by downstream shape
//     checks, not an actual column restriction.
//   - DimRange(start, stop), optionally chained with .Stride(step): a half-open
//     range of columns.
//
// The zero value is invalid; kernels not configured with WithActiveDims default
// to DimCount(1).
type ActiveDims struct {
	form        activeDimsForm
	indices     []int
	count       int
	start, stop int
	strideValue int
}

// DimIndices returns an ActiveDims selecting the given trailing-axis columns.
// Indices must be unique and non-negative.
func DimIndices(indices ...int) ActiveDims {
	return ActiveDims{form: formIndices, indices: slices.Clone(indices)}
}

// DimCount returns an ActiveDims declaring the kernel consumes the first n columns.
// Note slicing with this form is a pass-through (see ActiveDims).
func DimCount(n int) ActiveDims {
	return ActiveDims{form: formCount, count: n}
}

// DimRange returns an ActiveDims selecting the half-open column range `[start, stop)`.
// Chain with Stride to select every step-th column.
func DimRange(start, stop int) ActiveDims {
	return ActiveDims{form: formRange, start: start, stop: stop}
}

// Stride returns a copy of the ActiveDims with the range stride set to step.
// Only meaningful for the DimRange form.
func (ad ActiveDims) Stride(step int) ActiveDims {
	ad2 := ad
	ad2.strideValue = step
	return ad2
}

// String implements fmt.Stringer.
func (ad ActiveDims) String() string {
	switch ad.form {
	case formIndices:
		return fmt.Sprintf("DimIndices(%v)", ad.indices)
	case formCount:
		return fmt.Sprintf("DimCount(%d)", ad.count)
	case formRange:
		if ad.strideValue > 1 {
			return fmt.Sprintf("DimRange(%d, %d).Stride(%d)", ad.start, ad.stop, ad.strideValue)
		}
		return fmt.Sprintf("DimRange(%d, %d)", ad.start, ad.stop)
	}
	return "ActiveDims(invalid)"
}

// step returns the range stride, defaulting to 1.
func (ad ActiveDims) step() int {
	if ad.strideValue == 0 {
		return 1
	}
	return ad.strideValue
}

// normalizeActiveDims converts a user-facing selector into its canonical form and
// the number of columns it selects. Pure, called once at kernel construction.
//
// It throws ErrInvalidSelector for the zero value, negative or duplicate indices,
// non-positive counts, empty or backwards ranges and non-positive strides.
func normalizeActiveDims(ad ActiveDims) (nDims int, canonical ActiveDims) {
	switch ad.form {
	case formIndices:
		if len(ad.indices) == 0 {
			panic(errors.Wrap(ErrInvalidSelector, "DimIndices requires at least one index"))
		}
		seen := types.MakeSet[int](len(ad.indices))
		for _, index := range ad.indices {
			if index < 0 {
				panic(errors.Wrapf(ErrInvalidSelector, "%s: indices must be non-negative", ad))
			}
			if seen.Has(index) {
				panic(errors.Wrapf(ErrInvalidSelector, "%s: index %d is repeated", ad, index))
			}
			seen.Insert(index)
		}
		return len(ad.indices), ad

	case formCount:
		if ad.count <= 0 {
			panic(errors.Wrapf(ErrInvalidSelector, "%s: count must be positive", ad))
		}
		return ad.count, ad

	case formRange:
		step := ad.step()
		if step <= 0 {
			panic(errors.Wrapf(ErrInvalidSelector, "%s: stride must be positive", ad))
		}
		if ad.start < 0 || ad.stop <= ad.start {
			panic(errors.Wrapf(ErrInvalidSelector, "%s: range must be non-negative and non-empty", ad))
		}
		nDims = (ad.stop - ad.start) / step
		if nDims == 0 {
			panic(errors.Wrapf(ErrInvalidSelector, "%s: range selects no columns", ad))
		}
		canonical = ad
		canonical.strideValue = step
		return nDims, canonical
	}
	panic(errors.Wrapf(ErrInvalidSelector, "%s", ad))
}

// apply slices the trailing axis of a batched tensor according to the selector.
// The DimCount form is a pass-through.
func (ad ActiveDims) apply(x *tensors.Tensor) *tensors.Tensor {
	switch ad.form {
	case formIndices:
		return x.GatherColumns(ad.indices)
	case formCount:
		return x
	case formRange:
		return x.SliceColumns(ad.start, ad.stop, ad.step())
	}
	panic(errors.Wrapf(ErrInvalidSelector, "%s", ad))
}

// applyVector slices a single input vector according to the selector. Same
// semantics as apply, on a raw trailing-axis row.
func (ad ActiveDims) applyVector(x []float64) []float64 {
	switch ad.form {
	case formIndices:
		out := make([]float64, len(ad.indices))
		for ii, index := range ad.indices {
			out[ii] = x[index]
		}
		return out
	case formCount:
		return x
	case formRange:
		step := ad.step()
		out := make([]float64, (ad.stop-ad.start)/step)
		for ii := range out {
			out[ii] = x[ad.start+ii*step]
		}
		return out
	}
	panic(errors.Wrapf(ErrInvalidSelector, "%s", ad))
}
