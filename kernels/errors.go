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

import "github.com/pkg/errors"

// Errors thrown (in an `exceptions` sense, they are delivered with panic) by kernel
// construction and evaluation. They signal configuration or programming mistakes and
// are never recovered from by this package. Use errors.Is on a recovered value to
// discriminate.
var (
	// ErrInvalidSelector is thrown when an ActiveDims selector is not one of the
	// three valid forms (index list, count, range).
	ErrInvalidSelector = errors.New("active dims must be a list of indices, a count or a range")

	// ErrInvalidOperand is thrown when a combination operand is not a Kernel
	// instance (or a numeric scalar, for the lifting entry points Add and Mul).
	ErrInvalidOperand = errors.New("can only combine Kernel instances")

	// ErrNotImplemented is thrown when Evaluate is called on the embeddable Base:
	// the concrete kernel failed to implement the one required method.
	ErrNotImplemented = errors.New("kernel does not implement Evaluate")
)
