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
	"slices"

	"github.com/pkg/errors"

	"github.com/gomlx/gpkernels/kernels/computations"
	"github.com/gomlx/gpkernels/types/tensors"
)

// ReduceOp tags how a Combination reduces its children's results.
type ReduceOp int8

const (
	// ReduceSum adds the children's results.
	ReduceSum ReduceOp = iota

	// ReduceProduct multiplies the children's results.
	ReduceProduct
)

// String implements fmt.Stringer.
func (op ReduceOp) String() string {
	switch op {
	case ReduceSum:
		return "Sum"
	case ReduceProduct:
		return "Product"
	}
	return "InvalidReduceOp"
}

// reduce folds the stacked children results. Both ops are associative and
// commutative, so the order only pins down floating-point rounding.
func (op ReduceOp) reduce(stacked *tensors.Tensor) float64 {
	values := stacked.ConstFlatData()
	switch op {
	case ReduceSum:
		total := 0.0
		for _, value := range values {
			total += value
		}
		return total
	case ReduceProduct:
		total := 1.0
		for _, value := range values {
			total *= value
		}
		return total
	}
	panic(errors.Errorf("invalid ReduceOp(%d)", op))
}

// Combination is a kernel built by reducing its children's results with an
// associative operator, sum or product.
//
// Construction flattens children of the same reduction kind, so homogeneous
// chains stay one level deep: Sum(Sum(a, b), c) has the three children a, b, c.
// A child of the other kind is kept nested, unchanged.
type Combination struct {
	Base
	kernels []Kernel
	op      ReduceOp
}

// Compile-time check.
var _ Kernel = (*Combination)(nil)

// Sum returns the kernel adding the operands' results. Operands that are
// themselves sums are flattened in place.
func Sum(operands ...Kernel) *Combination {
	return newCombination(ReduceSum, operands)
}

// Product returns the kernel multiplying the operands' results. Operands that
// are themselves products are flattened in place.
func Product(operands ...Kernel) *Combination {
	return newCombination(ReduceProduct, operands)
}

// newCombination validates the operands and flattens same-kind composites.
// Pure and idempotent: rebuilding a logically identical tree yields a
// structurally identical Combination.
func newCombination(op ReduceOp, operands []Kernel) *Combination {
	if len(operands) == 0 {
		panic(errors.Wrapf(ErrInvalidOperand, "%s of no kernels", op))
	}
	flat := make([]Kernel, 0, len(operands))
	for _, kernel := range operands {
		if kernel == nil {
			panic(errors.Wrapf(ErrInvalidOperand, "%s given a nil operand", op))
		}
		if combination, ok := kernel.(*Combination); ok && combination.op == op {
			flat = append(flat, combination.kernels...)
		} else {
			flat = append(flat, kernel)
		}
	}
	c := &Combination{kernels: flat, op: op}
	c.initBase(c, op.String())
	return c
}

// Add combines the operands into a sum kernel. Each operand must be a Kernel or
// a numeric scalar -- scalars are lifted with NewConstant. Anything else throws
// ErrInvalidOperand. Addition is commutative: operand order does not change the
// result.
func Add(operands ...any) *Combination {
	return newCombination(ReduceSum, liftOperands(ReduceSum, operands))
}

// Mul combines the operands into a product kernel, lifting numeric scalars with
// NewConstant, like Add.
func Mul(operands ...any) *Combination {
	return newCombination(ReduceProduct, liftOperands(ReduceProduct, operands))
}

// liftOperands converts the loosely-typed operands of Add and Mul to kernels.
func liftOperands(op ReduceOp, operands []any) []Kernel {
	lifted := make([]Kernel, len(operands))
	for ii, operand := range operands {
		switch value := operand.(type) {
		case Kernel:
			lifted[ii] = value
		case float64:
			lifted[ii] = NewConstant(value)
		case float32:
			lifted[ii] = NewConstant(float64(value))
		case int:
			lifted[ii] = NewConstant(float64(value))
		case int32:
			lifted[ii] = NewConstant(float64(value))
		case int64:
			lifted[ii] = NewConstant(float64(value))
		default:
			panic(errors.Wrapf(ErrInvalidOperand, "%s operand #%d is a %T", op, ii, operand))
		}
	}
	return lifted
}

// WithEngine sets the batched-evaluation engine used by the combination's own
// Gram and CrossCovariance. Children keep their engines -- they are only called
// back through Evaluate here. Construction phase only.
func (c *Combination) WithEngine(engine computations.Engine) *Combination {
	c.setEngine(engine)
	return c
}

// WithName sets the display name. Returns the kernel for chaining.
func (c *Combination) WithName(name string) *Combination {
	c.setName(name)
	return c
}

// Kernels returns the combination's children, in evaluation order.
// The returned slice is a copy, the combination structure is immutable.
func (c *Combination) Kernels() []Kernel {
	return slices.Clone(c.kernels)
}

// NumKernels returns the number of children.
func (c *Combination) NumKernels() int { return len(c.kernels) }

// Op returns the bound reduction operator.
func (c *Combination) Op() ReduceOp { return c.op }

// Evaluate implements Kernel: each child's result is computed in child order,
// stacked, and reduced with the bound operator.
func (c *Combination) Evaluate(x, y []float64) float64 {
	stacked := make([]float64, len(c.kernels))
	for ii, kernel := range c.kernels {
		stacked[ii] = kernel.Evaluate(x, y)
	}
	return c.op.reduce(tensors.Stack(stacked))
}
