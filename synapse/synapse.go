// Copyright 2025 Spikeflow ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package synapse provides connection layer implementations.
//
// Simple is a dense weighted connection with a one-step delivery delay: the
// signal computed at step t reaches the target layer at step t+1. It also
// tracks pre- and post-synaptic activity traces that learning rules consume.
package synapse

import (
	"github.com/spikeflow-ml/spikeflow/internal/snn"
	"github.com/spikeflow-ml/spikeflow/internal/synapse"
	"github.com/spikeflow-ml/spikeflow/internal/tensor"
)

// Simple is a dense weighted connection with a one-step buffer delay.
type Simple = synapse.Simple

// New creates a connection with the given weight matrix of shape
// {from.OutputN(), to.InputN()}. decay in [0, 1) mixes the previous buffered
// value into the next one; zero disables decay.
func New(name string, from, to snn.NeuronLayer, weights *tensor.Tensor, decay float32) (*Simple, error) {
	return synapse.New(name, from, to, weights, decay)
}

// NewRandom creates a connection with weights drawn uniformly from [0, scale).
func NewRandom(name string, from, to snn.NeuronLayer, scale float32, decay float32) (*Simple, error) {
	return synapse.NewRandom(name, from, to, scale, decay)
}
