// Package neurons implements neuron layer models for spiking networks.
//
// Provided models:
//   - Identity: passthrough, output equals the accumulated input
//   - LIF: leaky integrate-and-fire with per-session membrane state
//
// Both satisfy snn.NeuronLayer. The composition algorithm in the snn package
// treats them as black boxes: it only accumulates inputs, asks for a compile,
// and reads the resulting output signal.
package neurons

import (
	"github.com/spikeflow-ml/spikeflow/internal/graph"
	"github.com/spikeflow-ml/spikeflow/internal/tensor"
)

// base carries the bookkeeping every neuron layer shares: identity, widths,
// and input accumulation. The effective input is the element-wise sum of all
// registered signals.
type base struct {
	name    string
	inputN  int
	outputN int

	added  []*graph.Node
	input  *graph.Node
	output *graph.Node
}

// Name returns the layer's identifier.
func (b *base) Name() string { return b.name }

// InputN returns the expected input signal width.
func (b *base) InputN() int { return b.inputN }

// OutputN returns the output signal width.
func (b *base) OutputN() int { return b.outputN }

// Output returns the compiled output signal, nil before compile.
func (b *base) Output() *graph.Node { return b.output }

// Input returns the combined input signal, nil before compile.
func (b *base) Input() *graph.Node { return b.input }

// AddInput registers one more incoming signal.
func (b *base) AddInput(signal *graph.Node) {
	b.added = append(b.added, signal)
}

// combineInputs sums the registered signals into the layer's effective
// input. A layer nothing feeds into sees silence: a zero row.
func (b *base) combineInputs(g *graph.Graph) *graph.Node {
	if len(b.added) == 0 {
		b.input = g.Const(tensor.Zeros(tensor.Shape{1, b.inputN}))
		return b.input
	}
	combined := b.added[0]
	for _, s := range b.added[1:] {
		combined = g.Add(combined, s)
	}
	b.input = combined
	return combined
}
