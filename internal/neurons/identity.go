package neurons

import (
	"github.com/spikeflow-ml/spikeflow/internal/graph"
)

// Identity is a stateless passthrough layer: its output is exactly its
// accumulated input. Useful as a probe point and as the simplest possible
// neuron model in tests and demos.
type Identity struct {
	base
}

// NewIdentity creates a passthrough layer of width n.
func NewIdentity(name string, n int) *Identity {
	return &Identity{base: base{name: name, inputN: n, outputN: n}}
}

// Compile fixes the layer's output to its combined input.
func (l *Identity) Compile(g *graph.Graph) error {
	l.output = g.Identity(l.combineInputs(g))
	return nil
}

// Ops exposes the layer's per-step output.
func (l *Identity) Ops() map[string]*graph.Node {
	return map[string]*graph.Node{"output": l.output}
}
