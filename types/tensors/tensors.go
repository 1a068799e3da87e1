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

// Package tensors implements a `Tensor`, a representation of a multi-dimensional array
// of float64 values, stored flat in row-major order.
//
// It is the array currency of the gpkernels module: batched kernel inputs are rank-2
// tensors shaped `[batch_size, num_dims]`, covariance matrices are rank-2 outputs, and
// kernels slice their active dimensions out of the trailing axis.
//
// There are various ways to construct a Tensor from local data:
//
//   - FromShape(shape Shape): creates a tensor with the given shape, and zero values.
//   - FromScalarAndDimensions[T Number](value T, dimensions ...int): creates a Tensor
//     with the given dimensions, filled with the scalar value given.
//   - FromFlatDataAndDimensions[T Number](data []T, dimensions ...int): creates a Tensor
//     with the given dimensions, and set the flattened values with the given data.
//   - FromVector[T Number](values []T) and FromMatrix[T Number](rows [][]T): shortcuts
//     for the common rank-1 and rank-2 cases. Matrix rows must all have the same length.
//
// ## Glossary
//
//   - Rank: number of axes (dimensions) of a Tensor.
//   - Axis: the index of a dimension on a multidimensional Tensor.
//   - Dimension: the size of the Tensor in one of its axes.
//   - Scalar: a shape with no axes, only a single value.
package tensors

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// Number are the Go numeric types accepted by the generic tensor constructors.
// Values are converted to float64, the only dtype stored by this package.
type Number interface {
	constraints.Float | constraints.Integer
}

// Shape represents the shape of a Tensor: the dimension of each of its axes.
//
// Use MakeShape to create a new shape.
type Shape struct {
	Dimensions []int
}

// MakeShape returns a Shape structure filled with the values given.
func MakeShape(dimensions ...int) Shape {
	s := Shape{Dimensions: slices.Clone(dimensions)}
	for _, dim := range dimensions {
		if dim <= 0 {
			exceptions.Panicf("tensors.MakeShape(%v): cannot create a shape with an axis with dimension <= 0", dimensions)
		}
	}
	return s
}

// Rank of the shape, that is, the number of dimensions.
func (s Shape) Rank() int { return len(s.Dimensions) }

// IsScalar returns whether the shape represents a scalar, that is there are no dimensions (rank==0).
func (s Shape) IsScalar() bool { return s.Rank() == 0 }

// Dim returns the dimension of the given axis. axis can take negative numbers, in which
// case it counts from the end -- so axis=-1 refers to the last axis.
// Like with slice indexing, it panics for an out-of-bound axis.
func (s Shape) Dim(axis int) int {
	adjustedAxis := axis
	if adjustedAxis < 0 {
		adjustedAxis += s.Rank()
	}
	if adjustedAxis < 0 || adjustedAxis >= s.Rank() {
		exceptions.Panicf("Shape.Dim(%d) out-of-bounds for rank %d (shape=%s)", axis, s.Rank(), s)
	}
	return s.Dimensions[adjustedAxis]
}

// Size returns the number of elements stored for this shape: the product of all dimensions.
// A scalar has size 1.
func (s Shape) Size() int {
	size := 1
	for _, dim := range s.Dimensions {
		size *= dim
	}
	return size
}

// Eq compares two shapes for equality.
func (s Shape) Eq(other Shape) bool {
	return slices.Equal(s.Dimensions, other.Dimensions)
}

// String implements stringer, pretty-prints the shape.
func (s Shape) String() string {
	if s.IsScalar() {
		return "[]"
	}
	parts := make([]string, len(s.Dimensions))
	for ii, dim := range s.Dimensions {
		parts[ii] = fmt.Sprintf("%d", dim)
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, " "))
}

// Tensor represents a multidimensional array (from scalar with 0 dimensions, to arbitrarily
// large dimensions) of float64 values, defined by its shape and its content, stored as a
// flat (1D) slice in row-major order.
type Tensor struct {
	shape Shape
	flat  []float64
}

// FromShape returns a Tensor with the given shape, with the data initialized with zeros.
func FromShape(shape Shape) *Tensor {
	return &Tensor{shape: shape, flat: make([]float64, shape.Size())}
}

// FromScalar returns a rank-0 Tensor holding the single value given.
func FromScalar[T Number](value T) *Tensor {
	return &Tensor{shape: Shape{}, flat: []float64{float64(value)}}
}

// FromScalarAndDimensions creates a Tensor with the given dimensions, filled with the
// scalar value given.
func FromScalarAndDimensions[T Number](value T, dimensions ...int) *Tensor {
	t := FromShape(MakeShape(dimensions...))
	v := float64(value)
	for ii := range t.flat {
		t.flat[ii] = v
	}
	return t
}

// FromFlatDataAndDimensions creates a Tensor with the given dimensions, and sets the
// flattened values with the given data. The length of data must match the size of
// the shape created with the given dimensions.
func FromFlatDataAndDimensions[T Number](data []T, dimensions ...int) *Tensor {
	shape := MakeShape(dimensions...)
	if len(data) != shape.Size() {
		exceptions.Panicf("tensors.FromFlatDataAndDimensions(%v): data has %d values, shape %s requires %d",
			dimensions, len(data), shape, shape.Size())
	}
	t := &Tensor{shape: shape, flat: make([]float64, len(data))}
	for ii, value := range data {
		t.flat[ii] = float64(value)
	}
	return t
}

// FromVector creates a rank-1 Tensor with the given values.
func FromVector[T Number](values []T) *Tensor {
	return FromFlatDataAndDimensions(values, len(values))
}

// FromMatrix creates a rank-2 Tensor from the given rows. All rows must have the
// same length, and there must be at least one row with at least one element.
func FromMatrix[T Number](rows [][]T) *Tensor {
	if len(rows) == 0 || len(rows[0]) == 0 {
		panic(errors.New("tensors.FromMatrix: rows must be non-empty and regular"))
	}
	numCols := len(rows[0])
	t := FromShape(MakeShape(len(rows), numCols))
	for ii, row := range rows {
		if len(row) != numCols {
			exceptions.Panicf("tensors.FromMatrix: row %d has %d values, previous rows have %d -- rows must be regular",
				ii, len(row), numCols)
		}
		for jj, value := range row {
			t.flat[ii*numCols+jj] = float64(value)
		}
	}
	return t
}

// Shape of the Tensor.
func (t *Tensor) Shape() Shape { return t.shape }

// Rank returns the rank of the tensor's shape.
// It is a shortcut to `Tensor.Shape().Rank()`.
func (t *Tensor) Rank() int { return t.shape.Rank() }

// IsScalar returns whether the tensor represents a scalar value.
func (t *Tensor) IsScalar() bool { return t.shape.IsScalar() }

// Size returns the number of elements stored.
func (t *Tensor) Size() int { return t.shape.Size() }

// ConstFlatData returns the flat row-major data of the tensor.
// The returned slice is owned by the Tensor and must not be modified -- see MutableFlatData.
func (t *Tensor) ConstFlatData() []float64 {
	t.assertValid()
	return t.flat
}

// MutableFlatData returns the flat row-major data of the tensor for in-place mutation.
func (t *Tensor) MutableFlatData() []float64 {
	t.assertValid()
	return t.flat
}

// Value returns the element at the given indices, one per axis.
func (t *Tensor) Value(indices ...int) float64 {
	t.assertValid()
	if len(indices) != t.Rank() {
		exceptions.Panicf("Tensor.Value(%v): tensor has rank %d, %d indices given", indices, t.Rank(), len(indices))
	}
	pos := 0
	for axis, index := range indices {
		dim := t.shape.Dimensions[axis]
		if index < 0 || index >= dim {
			exceptions.Panicf("Tensor.Value(%v): index for axis %d out-of-bounds for shape %s", indices, axis, t.shape)
		}
		pos = pos*dim + index
	}
	return t.flat[pos]
}

// NumRows returns the product of all leading (batch) dimensions, that is, the number
// of trailing-axis vectors stored. Scalars have no rows and panic.
func (t *Tensor) NumRows() int {
	t.assertValid()
	if t.IsScalar() {
		panic(errors.New("Tensor.NumRows: tensor is a scalar, it has no rows"))
	}
	return t.Size() / t.shape.Dim(-1)
}

// Row returns a view (not a copy) of the i-th trailing-axis vector, with leading
// batch axes flattened: a `[2, 3, 5]` tensor has 6 rows of 5 values each.
func (t *Tensor) Row(i int) []float64 {
	numCols := t.shape.Dim(-1)
	if i < 0 || i >= t.NumRows() {
		exceptions.Panicf("Tensor.Row(%d) out-of-bounds, tensor shaped %s has %d rows", i, t.shape, t.NumRows())
	}
	return t.flat[i*numCols : (i+1)*numCols]
}

// GatherColumns returns a new Tensor with the given trailing-axis columns gathered,
// in the given order, preserving all leading batch axes. Indices may repeat.
func (t *Tensor) GatherColumns(indices []int) *Tensor {
	t.assertValid()
	numCols := t.shape.Dim(-1)
	for _, index := range indices {
		if index < 0 || index >= numCols {
			exceptions.Panicf("Tensor.GatherColumns(%v): column out-of-bounds for shape %s", indices, t.shape)
		}
	}
	newDims := slices.Clone(t.shape.Dimensions)
	newDims[len(newDims)-1] = len(indices)
	out := FromShape(MakeShape(newDims...))
	for row := range t.NumRows() {
		src := t.Row(row)
		dst := out.Row(row)
		for ii, index := range indices {
			dst[ii] = src[index]
		}
	}
	return out
}

// SliceColumns returns a new Tensor keeping `(stop-start)/step` trailing-axis columns,
// starting at `start` and stepping by `step`, preserving all leading batch axes.
func (t *Tensor) SliceColumns(start, stop, step int) *Tensor {
	t.assertValid()
	numCols := t.shape.Dim(-1)
	if step <= 0 || start < 0 || stop > numCols || stop <= start {
		exceptions.Panicf("Tensor.SliceColumns(%d, %d, %d): invalid range for shape %s", start, stop, step, t.shape)
	}
	count := (stop - start) / step
	indices := make([]int, count)
	for ii := range indices {
		indices[ii] = start + ii*step
	}
	return t.GatherColumns(indices)
}

// Stack creates a rank-1 Tensor from the given scalar values, in order.
func Stack(values []float64) *Tensor {
	return FromFlatDataAndDimensions(values, len(values))
}

// Equal checks weak equality: whether the two tensors have the same shape and values.
func (t *Tensor) Equal(other *Tensor) bool {
	t.assertValid()
	other.assertValid()
	return t.shape.Eq(other.shape) && slices.Equal(t.flat, other.flat)
}

// InDelta checks whether the two tensors have the same shape and all values within
// delta of each other.
func (t *Tensor) InDelta(other *Tensor, delta float64) bool {
	t.assertValid()
	other.assertValid()
	if !t.shape.Eq(other.shape) {
		return false
	}
	for ii, value := range t.flat {
		diff := value - other.flat[ii]
		if diff < -delta || diff > delta {
			return false
		}
	}
	return true
}

// String converts to string, pretty-printing shape and flat values.
func (t *Tensor) String() string {
	t.assertValid()
	return fmt.Sprintf("%s: %v", t.shape, t.flat)
}

func (t *Tensor) assertValid() {
	if t == nil {
		panic(errors.New("Tensor is nil"))
	}
	if len(t.flat) != t.shape.Size() {
		panic(errors.New("Tensor storage doesn't match its shape, was it initialized with one of the tensors.From* constructors?"))
	}
}
