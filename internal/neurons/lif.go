package neurons

import (
	"fmt"

	"github.com/spikeflow-ml/spikeflow/internal/graph"
	"github.com/spikeflow-ml/spikeflow/internal/tensor"
)

// LIFConfig holds the leaky integrate-and-fire parameters, applied to every
// neuron in the layer.
type LIFConfig struct {
	// Decay is the per-step membrane leak factor in [0, 1).
	Decay float32
	// Threshold is the membrane potential at which a neuron fires.
	Threshold float32
	// Reset is the membrane potential after a spike.
	Reset float32
}

// DefaultLIFConfig returns the parameters used when a zero config is given.
func DefaultLIFConfig() LIFConfig {
	return LIFConfig{Decay: 0.9, Threshold: 1.0, Reset: 0.0}
}

// LIF is a layer of leaky integrate-and-fire neurons. Each step the membrane
// potential leaks, integrates the input, and any neuron at or above threshold
// emits a 1 on the output and resets:
//
//	v' = v*decay + input
//	spike = v' >= threshold
//	v  <- reset where spiked, v' elsewhere
//
// Membrane state lives in a session variable, so separate runs start fresh.
type LIF struct {
	base
	cfg LIFConfig

	v       *graph.Node // membrane potential variable
	vUpdate *graph.Node // assignment producing the post-step potential
}

// NewLIF creates a LIF layer of n neurons. A zero-valued cfg selects
// DefaultLIFConfig.
func NewLIF(name string, n int, cfg LIFConfig) *LIF {
	if cfg == (LIFConfig{}) {
		cfg = DefaultLIFConfig()
	}
	return &LIF{
		base: base{name: name, inputN: n, outputN: n},
		cfg:  cfg,
	}
}

// Config returns the layer's parameters.
func (l *LIF) Config() LIFConfig { return l.cfg }

// Compile builds the integrate, fire, and reset operations.
func (l *LIF) Compile(g *graph.Graph) error {
	if l.cfg.Decay < 0 || l.cfg.Decay >= 1 {
		return fmt.Errorf("neurons: layer %q: decay %g out of range [0, 1)", l.name, l.cfg.Decay)
	}

	input := l.combineInputs(g)
	shape := tensor.Shape{1, l.outputN}

	l.v = g.Variable(l.name+"/v", tensor.Full(shape, l.cfg.Reset))

	integrated := g.Add(g.MulScalar(l.v, l.cfg.Decay), input)
	fired := g.GreaterEqual(integrated, g.Const(tensor.Full(shape, l.cfg.Threshold)))
	next := g.Where(fired, g.Const(tensor.Full(shape, l.cfg.Reset)), integrated)

	l.vUpdate = g.Assign(l.v, next)
	l.output = fired
	return nil
}

// Ops exposes the spike train and the post-step membrane potential. Fetching
// "v" is what advances the membrane state each step.
func (l *LIF) Ops() map[string]*graph.Node {
	return map[string]*graph.Node{
		"output": l.output,
		"v":      l.vUpdate,
	}
}
