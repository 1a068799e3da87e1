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

package computations

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gomlx/gpkernels/types/tensors"
)

// dotKernel is a linear kernel on full-width inputs, enough to exercise the engine.
type dotKernel struct{}

func (dotKernel) Evaluate(x, y []float64) float64 {
	sum := 0.0
	for ii := range x {
		sum += x[ii] * y[ii]
	}
	return sum
}

func TestDenseCrossCovariance(t *testing.T) {
	x := tensors.FromMatrix([][]float64{{1, 0}, {0, 1}, {1, 1}})
	y := tensors.FromMatrix([][]float64{{2, 0}, {0, 3}})
	cross := Dense{}.CrossCovariance(dotKernel{}, x, y)
	require.True(t, cross.Equal(tensors.FromMatrix([][]float64{{2, 0}, {0, 3}, {2, 3}})))

	// Shape checks: inputs must be rank-2 with matching trailing axes.
	require.Panics(t, func() {
		Dense{}.CrossCovariance(dotKernel{}, x, tensors.FromVector([]float64{1, 2}))
	})
	require.Panics(t, func() {
		Dense{}.CrossCovariance(dotKernel{}, x, tensors.FromMatrix([][]float64{{1, 2, 3}}))
	})
}

func TestDenseGram(t *testing.T) {
	x := tensors.FromMatrix([][]float64{{1, 0}, {0, 2}, {1, 1}})
	gram := Dense{}.Gram(dotKernel{}, x)
	want := tensors.FromMatrix([][]float64{
		{1, 0, 1},
		{0, 4, 2},
		{1, 2, 2},
	})
	require.True(t, gram.Equal(want))

	// Gram and CrossCovariance(x, x) agree.
	cross := Dense{}.CrossCovariance(dotKernel{}, x, x)
	require.True(t, gram.Equal(cross))

	require.Panics(t, func() { Dense{}.Gram(dotKernel{}, tensors.FromVector([]float64{1})) })
}

func TestDenseGramSymmetry(t *testing.T) {
	x := tensors.FromMatrix([][]float64{{0.3, -1}, {2, 0.5}, {-0.7, 0.9}, {1, 1}})
	gram := Dense{}.Gram(dotKernel{}, x)
	n := gram.Shape().Dim(0)
	for i := range n {
		for j := range n {
			require.Equal(t, gram.Value(i, j), gram.Value(j, i))
		}
	}
}
