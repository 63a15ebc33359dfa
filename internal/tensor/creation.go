package tensor

import (
	"fmt"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	t, err := New(shape)
	if err != nil {
		panic(err) // Shape validation should prevent this
	}
	return t
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return Full(shape, 1)
}

// Full creates a tensor filled with a specific value.
func Full(shape Shape, value float32) *Tensor {
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// Scalar creates a 0-d tensor holding a single value.
func Scalar(value float32) *Tensor {
	t := Zeros(Shape{})
	t.data[0] = value
	return t
}

// FromSlice creates a tensor from a flat row-major slice.
// The slice is copied; the data length must match the shape.
func FromSlice(data []float32, shape Shape) (*Tensor, error) {
	t, err := New(shape)
	if err != nil {
		return nil, err
	}
	if len(data) != len(t.data) {
		return nil, fmt.Errorf("data length %d does not match shape %s (%d elements)",
			len(data), shape, shape.NumElements())
	}
	copy(t.data, data)
	return t, nil
}

// Randn creates a tensor with values drawn from a standard normal distribution.
// Note: uses math/rand, which is appropriate for simulation, not cryptography.
func Randn(shape Shape) *Tensor {
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = float32(rand.NormFloat64())
	}
	return t
}

// Rand creates a tensor with values drawn uniformly from [0, 1).
func Rand(shape Shape) *Tensor {
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = rand.Float32()
	}
	return t
}
