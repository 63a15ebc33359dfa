package snn

import (
	"fmt"

	"github.com/spikeflow-ml/spikeflow/internal/graph"
)

// Composite aggregates ordered neuron layers, connections, and learning
// rules, and behaves as a single NeuronLayer: its input feeds the first
// neuron layer, its output is the last neuron layer's output, and anything
// can happen in between. Composites nest, since a Composite is itself a
// NeuronLayer.
type Composite struct {
	name          string
	neuronLayers  []NeuronLayer
	connections   []ConnectionLayer
	learningRules []LearningRule

	added  []*graph.Node
	input  *graph.Node
	output *graph.Node
}

// NewComposite creates a composite from already-ordered parts.
func NewComposite(name string, layers []NeuronLayer, conns []ConnectionLayer, rules []LearningRule) *Composite {
	return &Composite{
		name:          name,
		neuronLayers:  layers,
		connections:   conns,
		learningRules: rules,
	}
}

// Name returns the composite's identifier.
func (c *Composite) Name() string { return c.name }

// InputN delegates to the first neuron layer.
func (c *Composite) InputN() int { return c.neuronLayers[0].InputN() }

// OutputN delegates to the last neuron layer.
func (c *Composite) OutputN() int { return c.neuronLayers[len(c.neuronLayers)-1].OutputN() }

// Output returns the compiled output: the last neuron layer's output,
// regardless of connection topology. Nil before Compile.
func (c *Composite) Output() *graph.Node { return c.output }

// AddInput registers one more incoming signal for the composite.
func (c *Composite) AddInput(signal *graph.Node) {
	c.added = append(c.added, signal)
}

// Input returns the composite's combined input signal, defined by Compile.
func (c *Composite) Input() *graph.Node { return c.input }

// NeuronLayers returns the ordered neuron layer sequence.
func (c *Composite) NeuronLayers() []NeuronLayer { return c.neuronLayers }

// Connections returns the ordered connection sequence.
func (c *Composite) Connections() []ConnectionLayer { return c.connections }

// LearningRules returns the ordered learning rule sequence.
func (c *Composite) LearningRules() []LearningRule { return c.learningRules }

// Compile wires the composite into g in a single ordered pass:
//
//  1. Every connection's output stage is built first, independent of its
//     source, and queued against the position of its target layer.
//  2. The composite's own input routes into the first neuron layer only.
//  3. Queued connection outputs are delivered to their target layers, in
//     the order the connections were added.
//  4. Neuron layers compile in sequence order; afterwards every layer,
//     nested composites included, has a fixed output.
//  5. A control-dependency barrier over every layer's combined input keeps
//     the session from letting a connection read a layer's output before
//     that layer's own inputs for the step are materialized.
//  6. Under the barrier, each connection binds to its source's output and
//     compiles its steady-state update.
//  7. Learning rules compile against the now-complete graph.
//  8. The composite's output becomes the last neuron layer's output.
func (c *Composite) Compile(g *graph.Graph) error {
	if len(c.neuronLayers) == 0 {
		return fmt.Errorf("%w (composite %q)", ErrNoNeuronLayers, c.name)
	}

	c.input = combineSignals(g, c.added)

	// Connection output stages first, queued by target position.
	connTos := make(map[int][]*graph.Node)
	for _, conn := range c.connections {
		if err := conn.CompileOutputNode(g); err != nil {
			return fmt.Errorf("snn: compile output node of connection %q: %w", conn.Name(), err)
		}
		idx, err := c.layerIndex(conn.To())
		if err != nil {
			return fmt.Errorf("connection %q: %w", conn.Name(), err)
		}
		connTos[idx] = append(connTos[idx], conn.Output())
	}

	// The external input feeds the first neuron layer exclusively.
	if c.input != nil {
		c.neuronLayers[0].AddInput(c.input)
	}

	// Every neuron layer can receive synaptic inputs.
	for i, nl := range c.neuronLayers {
		for _, signal := range connTos[i] {
			nl.AddInput(signal)
		}
	}

	for _, nl := range c.neuronLayers {
		if err := nl.Compile(g); err != nil {
			return fmt.Errorf("snn: compile neuron layer %q: %w", nl.Name(), err)
		}
	}

	// Barrier: all compiled layer inputs must be observed before any
	// connection reads a layer's output, or the session could evaluate a
	// connection's state update against a half-assembled step.
	var layerInputs []*graph.Node
	for _, nl := range c.neuronLayers {
		if in := nl.Input(); in != nil {
			layerInputs = append(layerInputs, in)
		}
	}
	err := g.WithControlDependencies(layerInputs, func() error {
		for _, conn := range c.connections {
			conn.SetInput(conn.From().Output())
			if err := conn.Compile(g); err != nil {
				return fmt.Errorf("snn: compile connection %q: %w", conn.Name(), err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, rule := range c.learningRules {
		if err := rule.Compile(g); err != nil {
			return fmt.Errorf("snn: compile learning rule %q: %w", rule.Name(), err)
		}
	}

	c.output = c.neuronLayers[len(c.neuronLayers)-1].Output()
	return nil
}

// Ops merges every member's per-step fetches into one mapping. Direct
// children contribute their op names as-is under "<layer>/<op>"; a nested
// composite's entries keep their inner path.
func (c *Composite) Ops() map[string]*graph.Node {
	ops := make(map[string]*graph.Node)
	for _, nl := range c.neuronLayers {
		mergeOps(ops, nl.Name(), nl.Ops())
	}
	for _, conn := range c.connections {
		mergeOps(ops, conn.Name(), conn.Ops())
	}
	for _, rule := range c.learningRules {
		mergeOps(ops, rule.Name(), rule.Ops())
	}
	return ops
}

func mergeOps(dst map[string]*graph.Node, prefix string, src map[string]*graph.Node) {
	for op, node := range src {
		dst[prefix+"/"+op] = node
	}
}

// allLearningRules collects this composite's rules plus those of nested
// composites, depth first in registration order.
func (c *Composite) allLearningRules() []LearningRule {
	var rules []LearningRule
	for _, nl := range c.neuronLayers {
		if nested, ok := nl.(*Composite); ok {
			rules = append(rules, nested.allLearningRules()...)
		}
	}
	return append(rules, c.learningRules...)
}

// layerIndex resolves a layer back-reference to its position in the
// neuron-layer sequence by identity.
func (c *Composite) layerIndex(target NeuronLayer) (int, error) {
	for i, nl := range c.neuronLayers {
		if nl == target {
			return i, nil
		}
	}
	name := "<nil>"
	if target != nil {
		name = target.Name()
	}
	return 0, fmt.Errorf("%w (layer %q, composite %q)", ErrLayerNotFound, name, c.name)
}

// combineSignals sums the registered input signals into one node.
// Returns nil when nothing was registered.
func combineSignals(g *graph.Graph, signals []*graph.Node) *graph.Node {
	if len(signals) == 0 {
		return nil
	}
	combined := signals[0]
	for _, s := range signals[1:] {
		combined = g.Add(combined, s)
	}
	return combined
}
