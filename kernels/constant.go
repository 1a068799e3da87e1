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

import "github.com/gomlx/gpkernels/kernels/computations"

// Constant is a kernel that evaluates to a constant for all inputs. The scalar
// value is a model hyperparameter and can be learned during training.
//
// It is also the implicit wrapper lifting bare scalars into the kernel algebra
// when they are combined with a kernel through Add or Mul.
type Constant struct {
	Base
	value float64
}

// Compile-time check.
var _ Kernel = (*Constant)(nil)

// NewConstant returns a Constant kernel with the given initial value.
func NewConstant(value float64) *Constant {
	c := &Constant{value: value}
	c.initBase(c, "Constant")
	return c
}

// WithActiveDims sets the input columns the kernel consumes. Returns the kernel
// for chaining; construction phase only.
func (c *Constant) WithActiveDims(ad ActiveDims) *Constant {
	c.setActiveDims(ad)
	return c
}

// WithEngine sets the batched-evaluation engine. Returns the kernel for chaining;
// construction phase only.
func (c *Constant) WithEngine(engine computations.Engine) *Constant {
	c.setEngine(engine)
	return c
}

// WithName sets the display name. Returns the kernel for chaining.
func (c *Constant) WithName(name string) *Constant {
	c.setName(name)
	return c
}

// Evaluate implements Kernel: it ignores both inputs and returns the current
// scalar value.
func (c *Constant) Evaluate(x, y []float64) float64 {
	return c.value
}

// Value returns the current scalar value. This is the kernel's parameter slot.
func (c *Constant) Value() float64 { return c.value }

// SetValue updates the scalar value. Called by training loops between
// evaluations, never concurrently with one.
func (c *Constant) SetValue(value float64) { c.value = value }
