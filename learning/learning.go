// Copyright 2025 Spikeflow ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package learning provides learning rules that update connection weights
// from the activity traces recorded by synapses.
//
// Rules are registered on a model alongside layers and connections; their
// updates only run when Model.Learn is called, typically from a step
// callback every K steps.
package learning

import (
	"github.com/spikeflow-ml/spikeflow/internal/learning"
	"github.com/spikeflow-ml/spikeflow/internal/synapse"
)

// Hebbian strengthens weights in proportion to pre and post co-activity.
type Hebbian = learning.Hebbian

// Oja is Hebbian learning with a decay term that keeps weights bounded.
type Oja = learning.Oja

// NewHebbian creates a Hebbian rule over syn with the given learning rate.
func NewHebbian(name string, syn *synapse.Simple, rate float32) *Hebbian {
	return learning.NewHebbian(name, syn, rate)
}

// NewOja creates an Oja rule over syn with the given learning rate.
func NewOja(name string, syn *synapse.Simple, rate float32) *Oja {
	return learning.NewOja(name, syn, rate)
}
