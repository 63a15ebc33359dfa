package config

import (
	"fmt"

	"github.com/spikeflow-ml/spikeflow/internal/learning"
	"github.com/spikeflow-ml/spikeflow/internal/neurons"
	"github.com/spikeflow-ml/spikeflow/internal/snn"
	"github.com/spikeflow-ml/spikeflow/internal/synapse"
	"github.com/spikeflow-ml/spikeflow/internal/tensor"
)

// Build constructs and compiles a model from the topology. Layer order in
// the config is registration order, so the first declared layer receives the
// external input and the last one defines the model output.
func (c *Config) Build() (*snn.Model, error) {
	m := snn.NewModel(tensor.Shape(c.InputShape))

	layers := make(map[string]snn.NeuronLayer, len(c.Layers))
	for _, spec := range c.Layers {
		nl, err := buildLayer(spec)
		if err != nil {
			return nil, err
		}
		layers[spec.Name] = nl
		if err := m.AddNeuronLayer(nl); err != nil {
			return nil, err
		}
	}

	conns := make(map[string]*synapse.Simple, len(c.Connections))
	for _, spec := range c.Connections {
		scale := spec.WeightScale
		if scale == 0 {
			scale = 0.5
		}
		syn, err := synapse.NewRandom(spec.Name, layers[spec.From], layers[spec.To], scale, spec.Decay)
		if err != nil {
			return nil, err
		}
		conns[spec.Name] = syn
		if err := m.AddConnection(syn); err != nil {
			return nil, err
		}
	}

	for _, spec := range c.LearningRules {
		rule, err := buildRule(spec, conns[spec.Connection])
		if err != nil {
			return nil, err
		}
		if err := m.AddLearningRule(rule); err != nil {
			return nil, err
		}
	}

	if err := m.Compile(); err != nil {
		return nil, err
	}
	return m, nil
}

func buildLayer(spec LayerSpec) (snn.NeuronLayer, error) {
	switch spec.Type {
	case "identity":
		return neurons.NewIdentity(spec.Name, spec.N), nil
	case "lif":
		cfg := neurons.LIFConfig{Decay: spec.Decay, Threshold: spec.Threshold, Reset: spec.Reset}
		return neurons.NewLIF(spec.Name, spec.N, cfg), nil
	default:
		return nil, fmt.Errorf("config: layer %q: unknown type %q", spec.Name, spec.Type)
	}
}

func buildRule(spec RuleSpec, syn *synapse.Simple) (snn.LearningRule, error) {
	rate := spec.Rate
	if rate == 0 {
		rate = 0.01
	}
	switch spec.Type {
	case "hebbian":
		return learning.NewHebbian(spec.Name, syn, rate), nil
	case "oja":
		return learning.NewOja(spec.Name, syn, rate), nil
	default:
		return nil, fmt.Errorf("config: learning rule %q: unknown type %q", spec.Name, spec.Type)
	}
}
