// Copyright 2025 Spikeflow ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package neurons provides ready-made neuron layer implementations.
//
// Identity passes its summed input straight through, which is useful for
// input layers and for probing signals inside a composite. LIF implements
// leaky integrate-and-fire dynamics with a per-neuron membrane potential:
//
//	layer := neurons.NewLIF("hidden", 64, neurons.LIFConfig{
//	    Decay:     0.95,
//	    Threshold: 1.0,
//	    Reset:     0.0,
//	})
package neurons

import "github.com/spikeflow-ml/spikeflow/internal/neurons"

// Identity is a passthrough layer whose output equals its summed input.
type Identity = neurons.Identity

// LIF is a layer of leaky integrate-and-fire neurons.
type LIF = neurons.LIF

// LIFConfig holds the membrane dynamics parameters for a LIF layer.
type LIFConfig = neurons.LIFConfig

// NewIdentity creates a passthrough layer of n neurons.
func NewIdentity(name string, n int) *Identity {
	return neurons.NewIdentity(name, n)
}

// NewLIF creates a LIF layer of n neurons. A zero-valued cfg selects
// DefaultLIFConfig.
func NewLIF(name string, n int, cfg LIFConfig) *LIF {
	return neurons.NewLIF(name, n, cfg)
}

// DefaultLIFConfig returns the parameters used when a zero config is given.
func DefaultLIFConfig() LIFConfig {
	return neurons.DefaultLIFConfig()
}
