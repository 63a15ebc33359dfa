// Package synapse implements connection layers that carry one neuron
// layer's spikes to another through a weighted, buffered pathway.
package synapse

import (
	"fmt"

	"github.com/spikeflow-ml/spikeflow/internal/graph"
	"github.com/spikeflow-ml/spikeflow/internal/snn"
	"github.com/spikeflow-ml/spikeflow/internal/tensor"
)

// Simple is a weighted synapse with a one-step transmission buffer.
//
// The buffer variable is the connection's output stage: it exists before
// the source layer is wired, so the target always reads what the source
// produced one step earlier (axonal delay of one tick). Each step the
// steady-state update stores the weighted source spikes into the buffer,
// optionally on top of a decayed remainder:
//
//	buffer <- buffer*decay + spikes @ W
//
// The update also records the raw pre- and post-synaptic activity into
// trace variables so learning rules can compute weight updates in a
// separate session run without re-feeding inputs.
type Simple struct {
	name     string
	from, to snn.NeuronLayer
	weights  *tensor.Tensor
	decay    float32

	w      *graph.Node // weight matrix variable [from.OutputN, to.InputN]
	buffer *graph.Node // transmission buffer variable [1, to.InputN]
	output *graph.Node
	input  *graph.Node
	update *graph.Node

	pre        *graph.Node // last pre-synaptic activity variable [1, from.OutputN]
	post       *graph.Node // last post-synaptic activity variable [1, to.OutputN]
	preUpdate  *graph.Node
	postUpdate *graph.Node
}

// New creates a weighted synapse from one layer to another. weights must
// have shape [from.OutputN, to.InputN]; decay in [0, 1) keeps that fraction
// of the buffer each step (0 means a pure one-step delay line).
func New(name string, from, to snn.NeuronLayer, weights *tensor.Tensor, decay float32) (*Simple, error) {
	want := tensor.Shape{from.OutputN(), to.InputN()}
	if weights == nil || !weights.Shape().Equal(want) {
		got := tensor.Shape(nil)
		if weights != nil {
			got = weights.Shape()
		}
		return nil, fmt.Errorf("synapse: %q: weights shape %s, want %s", name, got, want)
	}
	if decay < 0 || decay >= 1 {
		return nil, fmt.Errorf("synapse: %q: decay %g out of range [0, 1)", name, decay)
	}
	return &Simple{
		name:    name,
		from:    from,
		to:      to,
		weights: weights.Clone(),
		decay:   decay,
	}, nil
}

// NewRandom creates a synapse with weights drawn from N(0, scale²).
func NewRandom(name string, from, to snn.NeuronLayer, scale float32, decay float32) (*Simple, error) {
	w := tensor.Randn(tensor.Shape{from.OutputN(), to.InputN()})
	for i, v := range w.Data() {
		w.Data()[i] = v * scale
	}
	return New(name, from, to, w, decay)
}

// Name returns the connection's identifier.
func (c *Simple) Name() string { return c.name }

// From returns the source layer.
func (c *Simple) From() snn.NeuronLayer { return c.from }

// To returns the target layer.
func (c *Simple) To() snn.NeuronLayer { return c.to }

// Output returns the signal delivered to the target: the buffer read.
func (c *Simple) Output() *graph.Node { return c.output }

// SetInput binds the source layer's compiled output.
func (c *Simple) SetInput(signal *graph.Node) { c.input = signal }

// Weights returns the weight variable node, for learning rules.
func (c *Simple) Weights() *graph.Node { return c.w }

// PreTrace returns the variable holding the last pre-synaptic activity.
func (c *Simple) PreTrace() *graph.Node { return c.pre }

// PostTrace returns the variable holding the last post-synaptic activity.
func (c *Simple) PostTrace() *graph.Node { return c.post }

// CompileOutputNode builds the buffer and its read point. Runs before any
// neuron layer compiles, so it must not touch the source layer.
func (c *Simple) CompileOutputNode(g *graph.Graph) error {
	c.buffer = g.Variable(c.name+"/buffer", tensor.Zeros(tensor.Shape{1, c.to.InputN()}))
	c.output = g.Identity(c.buffer)
	return nil
}

// Compile builds the steady-state buffer update and the activity traces.
// The composer calls it under the data-dependency barrier, after every
// neuron layer has compiled.
func (c *Simple) Compile(g *graph.Graph) error {
	if c.input == nil {
		return fmt.Errorf("synapse: %q: input not bound", c.name)
	}

	c.w = g.Variable(c.name+"/w", c.weights)
	weighted := g.MatMul(c.input, c.w)

	next := weighted
	if c.decay > 0 {
		next = g.Add(g.MulScalar(c.buffer, c.decay), weighted)
	}
	c.update = g.Assign(c.buffer, next)

	c.pre = g.Variable(c.name+"/pre", tensor.Zeros(tensor.Shape{1, c.from.OutputN()}))
	c.post = g.Variable(c.name+"/post", tensor.Zeros(tensor.Shape{1, c.to.OutputN()}))
	c.preUpdate = g.Assign(c.pre, c.input)
	c.postUpdate = g.Assign(c.post, c.to.Output())
	return nil
}

// Ops exposes the delivered signal and the state updates. Fetching the
// updates each step is what advances the buffer and the traces.
func (c *Simple) Ops() map[string]*graph.Node {
	return map[string]*graph.Node{
		"output": c.output,
		"buffer": c.update,
		"pre":    c.preUpdate,
		"post":   c.postUpdate,
	}
}
