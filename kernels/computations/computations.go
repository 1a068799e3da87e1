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

// Package computations defines the Engine strategy that turns a kernel's pairwise
// evaluation into batched covariance matrices, plus Dense, the default engine.
//
// A kernel delegates its Gram and CrossCovariance calls to an Engine; the engine
// calls back the kernel's Evaluate for input pairs. Engines that exploit structure
// (low-rank, sparse, ...) can be injected in place of Dense.
package computations

import (
	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"

	"github.com/gomlx/gpkernels/types/tensors"
)

// PairwiseKernel is the narrow view of a kernel an Engine needs: the covariance
// function on a single pair of input vectors.
//
// The vectors are full-width rows of the batched input; kernels slice their own
// active dimensions.
type PairwiseKernel interface {
	Evaluate(x, y []float64) float64
}

// Engine computes batched covariance matrices for a kernel.
//
// Implementations must treat the kernel as read-only and may evaluate pairs in
// any order: kernel evaluation is pure.
type Engine interface {
	// CrossCovariance returns the pairwise evaluation matrix, shaped `[N, M]`, for
	// inputs x shaped `[N, D]` and y shaped `[M, D]`.
	CrossCovariance(kernel PairwiseKernel, x, y *tensors.Tensor) *tensors.Tensor

	// Gram returns the covariance matrix of x, shaped `[N, N]`, for x shaped `[N, D]`.
	// Expected symmetric positive semi-definite when the kernel is a valid
	// covariance function.
	Gram(kernel PairwiseKernel, x *tensors.Tensor) *tensors.Tensor
}

// Dense is the default Engine: it evaluates the kernel for every pair of inputs,
// making no structural assumptions. Gram only evaluates the upper triangle and
// mirrors it.
//
// Dense is stateless, its zero value is ready to use.
type Dense struct{}

// Compile-time check.
var _ Engine = Dense{}

// CrossCovariance implements Engine.
func (Dense) CrossCovariance(kernel PairwiseKernel, x, y *tensors.Tensor) *tensors.Tensor {
	assertBatchedPair(x, y)
	n, m := x.Shape().Dim(0), y.Shape().Dim(0)
	klog.V(2).Infof("Dense.CrossCovariance: %d x %d evaluations", n, m)
	out := tensors.FromShape(tensors.MakeShape(n, m))
	flat := out.MutableFlatData()
	for i := range n {
		xRow := x.Row(i)
		for j := range m {
			flat[i*m+j] = kernel.Evaluate(xRow, y.Row(j))
		}
	}
	return out
}

// Gram implements Engine.
func (Dense) Gram(kernel PairwiseKernel, x *tensors.Tensor) *tensors.Tensor {
	if x.Rank() != 2 {
		exceptions.Panicf("Dense.Gram: input must be shaped [batch_size, num_dims], got %s", x.Shape())
	}
	n := x.Shape().Dim(0)
	klog.V(2).Infof("Dense.Gram: %d x %d evaluations (symmetric)", n, n)
	out := tensors.FromShape(tensors.MakeShape(n, n))
	flat := out.MutableFlatData()
	for i := range n {
		xRow := x.Row(i)
		for j := i; j < n; j++ {
			value := kernel.Evaluate(xRow, x.Row(j))
			flat[i*n+j] = value
			flat[j*n+i] = value
		}
	}
	return out
}

func assertBatchedPair(x, y *tensors.Tensor) {
	if x.Rank() != 2 || y.Rank() != 2 {
		exceptions.Panicf("engine inputs must be shaped [batch_size, num_dims], got %s and %s",
			x.Shape(), y.Shape())
	}
	if x.Shape().Dim(-1) != y.Shape().Dim(-1) {
		exceptions.Panicf("engine inputs must have the same trailing num_dims, got %s and %s",
			x.Shape(), y.Shape())
	}
}
