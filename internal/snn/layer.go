// Package snn composes neuron layers, synaptic connections, and learning
// rules into a single executable computation graph, and drives that graph
// step by step through simulated time.
//
// The package defines the capability contracts the composer works against:
//   - NeuronLayer: produces an output signal from accumulated input signals
//   - ConnectionLayer: transforms one layer's output into another's input
//   - LearningRule: produces parameter-update operations on demand
//   - Composite: an ordered aggregate of all three that is itself a NeuronLayer
//   - Model: the root composite owning the graph, input placeholder, and run loop
//
// The numeric behavior of individual layers lives in the neurons, synapse,
// and learning packages; this package only wires them together with correct
// data dependencies.
package snn

import (
	"errors"

	"github.com/spikeflow-ml/spikeflow/internal/graph"
)

// Composition and lifecycle errors.
var (
	// ErrNoNeuronLayers is returned when compiling a composite with no neuron layers.
	ErrNoNeuronLayers = errors.New("snn: composite must contain at least one neuron layer")
	// ErrLayerNotFound is returned when a connection targets a layer outside
	// its owning composite's neuron-layer sequence.
	ErrLayerNotFound = errors.New("snn: connection target layer not found in composite")
	// ErrCompiled is returned by mutators and Compile once a model is compiled.
	ErrCompiled = errors.New("snn: model is already compiled")
	// ErrNotCompiled is returned when running a model that was never compiled.
	ErrNotCompiled = errors.New("snn: model is not compiled")
	// ErrDuplicateName is returned when a registered name collides with any
	// previously registered neuron layer, connection, or learning rule.
	ErrDuplicateName = errors.New("snn: duplicate registration name")
)

// Layer is the capability shared by primitive neuron layers and composites:
// a named unit with declared signal widths and, after compile, a fixed
// output signal.
type Layer interface {
	// Name returns the layer's identifier, unique within a model.
	Name() string
	// InputN returns the expected width of the layer's input signal.
	InputN() int
	// OutputN returns the width of the layer's output signal.
	OutputN() int
	// Output returns the layer's compiled output signal.
	// It is nil before Compile and fixed afterwards.
	Output() *graph.Node
}

// NeuronLayer is a Layer that accumulates input signals and compiles them
// into an output signal. A Composite satisfies it too, so composites nest.
type NeuronLayer interface {
	Layer

	// AddInput registers one more incoming signal. All signals registered
	// before Compile are combined into the layer's effective input.
	AddInput(signal *graph.Node)

	// Input returns the combined input signal. Defined by Compile; the
	// composer uses it as the data-dependency barrier anchor.
	Input() *graph.Node

	// Compile builds the layer's output from its accumulated inputs.
	Compile(g *graph.Graph) error

	// Ops returns the per-step fetches this layer exposes, keyed by op name.
	Ops() map[string]*graph.Node
}

// ConnectionLayer transforms a source layer's output into an additional
// input for a target layer. Its output stage is compiled before the source
// is wired (modeling a transmission buffer), then bound to the source and
// finished once every neuron layer is compiled.
type ConnectionLayer interface {
	// Name returns the connection's identifier, unique within a model.
	Name() string
	// From returns the layer the connection reads from.
	From() NeuronLayer
	// To returns the layer the connection feeds.
	To() NeuronLayer

	// CompileOutputNode builds the connection's output-producing sub-node.
	// It runs before any neuron layer is compiled, so it must not touch the
	// source layer's output. Output is defined afterwards.
	CompileOutputNode(g *graph.Graph) error

	// Output returns the signal delivered to the target layer.
	Output() *graph.Node

	// SetInput binds the source layer's compiled output as the connection's
	// input. Called by the composer once all neuron layers are compiled.
	SetInput(signal *graph.Node)

	// Compile builds the connection's steady-state update from its bound input.
	Compile(g *graph.Graph) error

	// Ops returns the per-step fetches this connection exposes.
	Ops() map[string]*graph.Node
}

// LearningRule computes parameter updates for connections or layers it was
// configured against. Compile runs after every layer and connection in the
// owning composite is compiled.
type LearningRule interface {
	// Name returns the rule's identifier, unique within a model.
	Name() string

	// Compile builds the rule's update operations against the compiled model.
	Compile(g *graph.Graph) error

	// Ops returns the per-step fetches this rule exposes. May be empty.
	Ops() map[string]*graph.Node

	// LearningOps returns the update operations to evaluate when the rule is
	// applied, keyed by op name.
	LearningOps() map[string]*graph.Node
}
