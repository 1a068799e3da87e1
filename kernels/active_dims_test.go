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
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/require"

	"github.com/gomlx/gpkernels/types/tensors"
)

func TestNormalizeIndices(t *testing.T) {
	for _, indices := range [][]int{{0}, {2, 0, 5}, {1, 3}} {
		nDims, canonical := normalizeActiveDims(DimIndices(indices...))
		require.Equal(t, len(indices), nDims)
		require.Equal(t, DimIndices(indices...), canonical)
	}

	require.Panics(t, func() { normalizeActiveDims(DimIndices()) })
	require.Panics(t, func() { normalizeActiveDims(DimIndices(-1)) })
	require.Panics(t, func() { normalizeActiveDims(DimIndices(1, 2, 1)) })
}

func TestNormalizeCount(t *testing.T) {
	for _, count := range []int{1, 3, 17} {
		nDims, canonical := normalizeActiveDims(DimCount(count))
		require.Equal(t, count, nDims)
		require.Equal(t, DimCount(count), canonical)
	}
	require.Panics(t, func() { normalizeActiveDims(DimCount(0)) })
	require.Panics(t, func() { normalizeActiveDims(DimCount(-2)) })
}

func TestNormalizeRange(t *testing.T) {
	nDims, canonical := normalizeActiveDims(DimRange(1, 4))
	require.Equal(t, 3, nDims)
	require.Equal(t, DimRange(1, 4).Stride(1), canonical)

	// nDims is (stop-start)/step, integer floor division.
	nDims, _ = normalizeActiveDims(DimRange(0, 5).Stride(2))
	require.Equal(t, 2, nDims)
	nDims, _ = normalizeActiveDims(DimRange(0, 6).Stride(2))
	require.Equal(t, 3, nDims)

	require.Panics(t, func() { normalizeActiveDims(DimRange(3, 3)) })
	require.Panics(t, func() { normalizeActiveDims(DimRange(4, 2)) })
	require.Panics(t, func() { normalizeActiveDims(DimRange(-1, 2)) })
	require.Panics(t, func() { normalizeActiveDims(DimRange(0, 4).Stride(-1)) })
	require.Panics(t, func() { normalizeActiveDims(DimRange(0, 1).Stride(2)) })
}

func TestNormalizeInvalidForm(t *testing.T) {
	err := exceptions.TryCatch[error](func() { normalizeActiveDims(ActiveDims{}) })
	require.ErrorIs(t, err, ErrInvalidSelector)
}

func TestSliceInput(t *testing.T) {
	x := tensors.FromMatrix([][]float64{{1, 2, 3, 4}, {5, 6, 7, 8}})

	// Index list gathers columns in order.
	k := NewConstant(1).WithActiveDims(DimIndices(3, 1))
	require.Equal(t, 2, k.NumDims())
	require.True(t, k.SliceInput(x).Equal(tensors.FromMatrix([][]float64{{4, 2}, {8, 6}})))

	// Count form is a pass-through: the count is advisory only.
	k = NewConstant(1).WithActiveDims(DimCount(3))
	require.Equal(t, 3, k.NumDims())
	require.True(t, k.SliceInput(x).Equal(x))

	// Range form keeps (stop-start)/step columns.
	k = NewConstant(1).WithActiveDims(DimRange(0, 4).Stride(2))
	require.Equal(t, 2, k.NumDims())
	require.True(t, k.SliceInput(x).Equal(tensors.FromMatrix([][]float64{{1, 3}, {5, 7}})))

	// Batch axes compose: slicing applies to the trailing axis only.
	batched := tensors.FromFlatDataAndDimensions([]int{1, 2, 3, 4, 5, 6, 7, 8}, 2, 2, 2)
	k = NewConstant(1).WithActiveDims(DimIndices(0))
	sliced := k.SliceInput(batched)
	require.True(t, sliced.Shape().Eq(tensors.MakeShape(2, 2, 1)))
	require.Equal(t, []float64{1, 3, 5, 7}, sliced.ConstFlatData())
}

func TestActiveDimsString(t *testing.T) {
	require.Equal(t, "DimIndices([0 2])", DimIndices(0, 2).String())
	require.Equal(t, "DimCount(4)", DimCount(4).String())
	require.Equal(t, "DimRange(1, 5)", DimRange(1, 5).String())
	require.Equal(t, "DimRange(1, 5).Stride(2)", DimRange(1, 5).Stride(2).String())
}
