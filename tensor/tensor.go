// Copyright 2026 bitgate. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for bitgate's float32 CPU
// tensors.
//
// Example:
//
//	w := tensor.Zeros(tensor.Shape{4, 593})
//	x, err := tensor.FromSlice(bits, tensor.Shape{1, 593})
package tensor

import (
	"github.com/bitgate-ml/bitgate/internal/tensor"
)

// Shape represents the dimensions of a tensor.
// Example: Shape{4, 593} represents a 2D tensor with dimensions 4×593.
type Shape = tensor.Shape

// Tensor is a dense row-major float32 tensor.
type Tensor = tensor.Tensor

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return tensor.Zeros(shape)
}

// Full creates a tensor with every element set to value.
func Full(shape Shape, value float32) *Tensor {
	return tensor.Full(shape, value)
}

// FromSlice creates a tensor from a Go slice.
//
// Example:
//
//	data := []float32{1, 0, 1, 1, 0, 1}
//	x, err := tensor.FromSlice(data, tensor.Shape{2, 3})
func FromSlice(data []float32, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}
