// Package tensor provides dense float32 tensors for spiking network signals.
//
// A spiking simulator feeds one input frame per timestep and reads back
// spike trains, membrane potentials, and weight matrices. All of those are
// small dense float32 arrays, so this package deliberately supports exactly
// one dtype and one device: row-major float32 on the host.
package tensor

import (
	"fmt"
	"strings"
)

// Tensor is a dense row-major float32 tensor.
type Tensor struct {
	shape Shape
	data  []float32
}

// New creates a zero-initialized tensor with the given shape.
func New(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Tensor{
		shape: shape.Clone(),
		data:  make([]float32, shape.NumElements()),
	}, nil
}

// Shape returns the tensor's dimensions. Callers must not mutate it.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Data returns the underlying row-major buffer. Mutating it mutates the tensor.
func (t *Tensor) Data() []float32 {
	return t.data
}

// NumElements returns the total element count.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// At returns the element at the given multi-dimensional index.
func (t *Tensor) At(indices ...int) float32 {
	return t.data[t.flatIndex(indices)]
}

// Set assigns the element at the given multi-dimensional index.
func (t *Tensor) Set(value float32, indices ...int) {
	t.data[t.flatIndex(indices)] = value
}

func (t *Tensor) flatIndex(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("tensor: got %d indices for %d-d tensor", len(indices), len(t.shape)))
	}
	strides := t.shape.ComputeStrides()
	flat := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index %d out of range for dimension %d (size %d)", idx, i, t.shape[i]))
		}
		flat += idx * strides[i]
	}
	return flat
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	data := make([]float32, len(t.data))
	copy(data, t.data)
	return &Tensor{shape: t.shape.Clone(), data: data}
}

// Sum returns the sum of all elements.
func (t *Tensor) Sum() float32 {
	var sum float32
	for _, v := range t.data {
		sum += v
	}
	return sum
}

// String returns a compact representation for logging and test failures.
func (t *Tensor) String() string {
	vals := make([]string, len(t.data))
	for i, v := range t.data {
		vals[i] = fmt.Sprintf("%g", v)
	}
	return fmt.Sprintf("Tensor%s[%s]", t.shape, strings.Join(vals, " "))
}

// Equal reports whether two tensors have the same shape and elements.
func (t *Tensor) Equal(other *Tensor) bool {
	if other == nil || !t.shape.Equal(other.shape) {
		return false
	}
	for i, v := range t.data {
		if v != other.data[i] {
			return false
		}
	}
	return true
}
