// Copyright 2025 Spikeflow ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package snn provides the public API for composing and running spiking
// neural network models.
//
// A model is built from three kinds of parts, all registered in order:
// neuron layers (the neurons package), connections between them (the synapse
// package), and learning rules over connections (the learning package).
// Compile wires everything into one executable graph; RunTime then drives it
// through simulated time, one input frame per step:
//
//	in := neurons.NewLIF("in", 4, neurons.LIFConfig{})
//	out := neurons.NewLIF("out", 4, neurons.LIFConfig{})
//	syn, _ := synapse.NewRandom("in_to_out", in, out, 0.5, 0)
//
//	m, _ := snn.CompiledModel(tensor.Shape{1, 4},
//	    []snn.NeuronLayer{in, out},
//	    []snn.ConnectionLayer{syn},
//	    nil)
//
//	_ = m.RunTime(source, func(step int, g *graph.Graph, sess *graph.Session, results snn.StepResults) error {
//	    fmt.Println(step, results["out"]["output"])
//	    return nil
//	})
package snn

import (
	"github.com/spikeflow-ml/spikeflow/internal/graph"
	"github.com/spikeflow-ml/spikeflow/internal/snn"
	"github.com/spikeflow-ml/spikeflow/internal/tensor"
)

// Layer is the capability shared by neuron layers and composites.
type Layer = snn.Layer

// NeuronLayer accumulates input signals and compiles them into an output signal.
type NeuronLayer = snn.NeuronLayer

// ConnectionLayer transforms a source layer's output into an input for a target layer.
type ConnectionLayer = snn.ConnectionLayer

// LearningRule computes parameter updates for connections it was configured against.
type LearningRule = snn.LearningRule

// Composite aggregates layers, connections, and rules, and is itself a NeuronLayer.
type Composite = snn.Composite

// Model is the root composite owning the graph, input placeholder, and run loop.
type Model = snn.Model

// Frame is one timestep's worth of input.
type Frame = snn.Frame

// DataSource produces a lazy sequence of input frames.
type DataSource = snn.DataSource

// SourceFunc adapts a function to the DataSource interface.
type SourceFunc = snn.SourceFunc

// StepResults maps entity names to their per-step computed values.
type StepResults = snn.StepResults

// StepCallback is invoked synchronously after each timestep.
type StepCallback = snn.StepCallback

// Composition and lifecycle errors.
var (
	ErrNoNeuronLayers = snn.ErrNoNeuronLayers
	ErrLayerNotFound  = snn.ErrLayerNotFound
	ErrCompiled       = snn.ErrCompiled
	ErrNotCompiled    = snn.ErrNotCompiled
	ErrDuplicateName  = snn.ErrDuplicateName
)

// NewModel creates an empty model expecting input frames of the given shape.
func NewModel(inputShape tensor.Shape) *Model {
	return snn.NewModel(inputShape)
}

// CompiledModel creates a model from full part lists and compiles it.
func CompiledModel(inputShape tensor.Shape, layers []NeuronLayer, conns []ConnectionLayer, rules []LearningRule) (*Model, error) {
	return snn.CompiledModel(inputShape, layers, conns, rules)
}

// NewComposite creates a composite from already-ordered parts.
func NewComposite(name string, layers []NeuronLayer, conns []ConnectionLayer, rules []LearningRule) *Composite {
	return snn.NewComposite(name, layers, conns, rules)
}

// Frames returns a finite DataSource over raw input tensors.
func Frames(inputs ...*tensor.Tensor) DataSource {
	return snn.Frames(inputs...)
}

// FeedFrames returns a finite DataSource over full feed mappings.
func FeedFrames(feeds ...graph.Feed) DataSource {
	return snn.FeedFrames(feeds...)
}

// Repeat returns a DataSource yielding the same raw frame n times.
func Repeat(input *tensor.Tensor, n int) DataSource {
	return snn.Repeat(input, n)
}

// Generate returns a DataSource yielding n frames produced by gen.
func Generate(n int, gen func(step int) *tensor.Tensor) DataSource {
	return snn.Generate(n, gen)
}
