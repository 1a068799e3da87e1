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
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gomlx/gpkernels/types/tensors"
)

func randomBatch(rng *rand.Rand, numRows, numDims int) *tensors.Tensor {
	out := tensors.FromShape(tensors.MakeShape(numRows, numDims))
	flat := out.MutableFlatData()
	for ii := range flat {
		flat[ii] = rng.NormFloat64()
	}
	return out
}

func TestParallelMatchesDense(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	x := randomBatch(rng, 37, 3)
	y := randomBatch(rng, 11, 3)

	for _, workers := range []int{0, 1, 3, 64} {
		parallel := Parallel{MaxParallelism: workers}
		require.True(t, parallel.Gram(dotKernel{}, x).Equal(Dense{}.Gram(dotKernel{}, x)),
			"Gram mismatch with MaxParallelism=%d", workers)
		require.True(t, parallel.CrossCovariance(dotKernel{}, x, y).Equal(Dense{}.CrossCovariance(dotKernel{}, x, y)),
			"CrossCovariance mismatch with MaxParallelism=%d", workers)
	}

	require.Panics(t, func() { Parallel{}.Gram(dotKernel{}, tensors.FromVector([]float64{1})) })
	require.Panics(t, func() {
		Parallel{}.CrossCovariance(dotKernel{}, x, tensors.FromMatrix([][]float64{{1, 2}}))
	})
}
