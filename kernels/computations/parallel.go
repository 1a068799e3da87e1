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
	"runtime"
	"sync"

	"k8s.io/klog/v2"

	"github.com/gomlx/gpkernels/types/tensors"
)

// Parallel is a Dense-equivalent Engine that shards output rows across
// goroutines. Safe because kernel evaluation is pure: no evaluation order is
// observable.
//
// The zero value uses runtime.NumCPU() workers.
type Parallel struct {
	// MaxParallelism is a soft target on the number of worker goroutines.
	// 0 means runtime.NumCPU().
	MaxParallelism int
}

// Compile-time check.
var _ Engine = Parallel{}

func (p Parallel) workers(numRows int) int {
	workers := p.MaxParallelism
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return min(workers, numRows)
}

// CrossCovariance implements Engine. Same result as Dense.CrossCovariance.
func (p Parallel) CrossCovariance(kernel PairwiseKernel, x, y *tensors.Tensor) *tensors.Tensor {
	assertBatchedPair(x, y)
	n, m := x.Shape().Dim(0), y.Shape().Dim(0)
	workers := p.workers(n)
	klog.V(2).Infof("Parallel.CrossCovariance: %d x %d evaluations on %d workers", n, m, workers)
	out := tensors.FromShape(tensors.MakeShape(n, m))
	flat := out.MutableFlatData()
	p.forEachRow(n, workers, func(i int) {
		xRow := x.Row(i)
		for j := range m {
			flat[i*m+j] = kernel.Evaluate(xRow, y.Row(j))
		}
	})
	return out
}

// Gram implements Engine. Same result as Dense.Gram, upper triangle mirrored.
func (p Parallel) Gram(kernel PairwiseKernel, x *tensors.Tensor) *tensors.Tensor {
	if x.Rank() != 2 {
		return Dense{}.Gram(kernel, x) // Panics with the shape error.
	}
	n := x.Shape().Dim(0)
	workers := p.workers(n)
	klog.V(2).Infof("Parallel.Gram: %d x %d evaluations (symmetric) on %d workers", n, n, workers)
	out := tensors.FromShape(tensors.MakeShape(n, n))
	flat := out.MutableFlatData()
	p.forEachRow(n, workers, func(i int) {
		xRow := x.Row(i)
		for j := i; j < n; j++ {
			value := kernel.Evaluate(xRow, x.Row(j))
			flat[i*n+j] = value
			flat[j*n+i] = value
		}
	})
	return out
}

// forEachRow runs fn for every row in [0, numRows), interleaving rows across
// workers -- for Gram the upper-triangle rows shrink, interleaving balances them.
func (p Parallel) forEachRow(numRows, workers int, fn func(i int)) {
	if workers <= 1 {
		for i := range numRows {
			fn(i)
		}
		return
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for worker := range workers {
		go func() {
			defer wg.Done()
			for i := worker; i < numRows; i += workers {
				fn(i)
			}
		}()
	}
	wg.Wait()
}
