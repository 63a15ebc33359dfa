// Copyright 2025 Spikeflow ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the dense float32 tensors that
// carry signals through a spiking network: input frames, spike trains,
// membrane potentials, and weight matrices.
//
// Example:
//
//	x := tensor.Zeros(tensor.Shape{1, 4})
//	y, err := tensor.FromSlice([]float32{0, 1, 0, 1}, tensor.Shape{1, 4})
package tensor

import (
	"github.com/spikeflow-ml/spikeflow/internal/tensor"
)

// Shape represents the dimensions of a tensor.
// Example: Shape{1, 4} represents one row of four signal values.
type Shape = tensor.Shape

// Tensor is a dense row-major float32 tensor.
type Tensor = tensor.Tensor

// New creates a zero-initialized tensor with the given shape.
func New(shape Shape) (*Tensor, error) {
	return tensor.New(shape)
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return tensor.Zeros(shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return tensor.Ones(shape)
}

// Full creates a tensor filled with a specific value.
func Full(shape Shape, value float32) *Tensor {
	return tensor.Full(shape, value)
}

// Scalar creates a 0-d tensor holding a single value.
func Scalar(value float32) *Tensor {
	return tensor.Scalar(value)
}

// FromSlice creates a tensor from a flat row-major slice.
func FromSlice(data []float32, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// Randn creates a tensor with values drawn from a standard normal distribution.
func Randn(shape Shape) *Tensor {
	return tensor.Randn(shape)
}

// Rand creates a tensor with values drawn uniformly from [0, 1).
func Rand(shape Shape) *Tensor {
	return tensor.Rand(shape)
}
