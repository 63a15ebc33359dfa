package snn

import (
	"github.com/spikeflow-ml/spikeflow/internal/graph"
	"github.com/spikeflow-ml/spikeflow/internal/tensor"
)

// Frame is one timestep's worth of input. Exactly one field is set: Input
// carries a raw frame for the model's input placeholder; Feed carries a
// complete feed mapping that bypasses the placeholder entirely.
type Frame struct {
	Input *tensor.Tensor
	Feed  graph.Feed
}

// DataSource produces a lazy sequence of input frames. The run loop consumes
// it exactly once, front to back; restart semantics are the caller's concern.
type DataSource interface {
	// Next returns the next frame, or ok == false once the source is exhausted.
	Next() (frame Frame, ok bool)
}

// SourceFunc adapts a function to the DataSource interface.
type SourceFunc func() (Frame, bool)

// Next calls f.
func (f SourceFunc) Next() (Frame, bool) { return f() }

// Frames returns a finite DataSource over raw input tensors.
func Frames(inputs ...*tensor.Tensor) DataSource {
	i := 0
	return SourceFunc(func() (Frame, bool) {
		if i >= len(inputs) {
			return Frame{}, false
		}
		frame := Frame{Input: inputs[i]}
		i++
		return frame, true
	})
}

// FeedFrames returns a finite DataSource over full feed mappings.
func FeedFrames(feeds ...graph.Feed) DataSource {
	i := 0
	return SourceFunc(func() (Frame, bool) {
		if i >= len(feeds) {
			return Frame{}, false
		}
		frame := Frame{Feed: feeds[i]}
		i++
		return frame, true
	})
}

// Repeat returns a DataSource yielding the same raw frame n times.
// n < 0 yields forever.
func Repeat(input *tensor.Tensor, n int) DataSource {
	i := 0
	return SourceFunc(func() (Frame, bool) {
		if n >= 0 && i >= n {
			return Frame{}, false
		}
		i++
		return Frame{Input: input}, true
	})
}

// Generate returns a DataSource yielding n frames produced by gen, which
// receives the step index. n < 0 yields forever.
func Generate(n int, gen func(step int) *tensor.Tensor) DataSource {
	i := 0
	return SourceFunc(func() (Frame, bool) {
		if n >= 0 && i >= n {
			return Frame{}, false
		}
		frame := Frame{Input: gen(i)}
		i++
		return frame, true
	})
}
