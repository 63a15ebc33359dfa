package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spikeflow-ml/spikeflow/internal/config"
	"github.com/spikeflow-ml/spikeflow/internal/graph"
	"github.com/spikeflow-ml/spikeflow/internal/snn"
	"github.com/spikeflow-ml/spikeflow/internal/tensor"
)

const topology = `
input_shape: [1, 2]
layers:
  - name: in
    type: identity
    n: 2
  - name: out
    type: lif
    n: 2
    decay: 0.9
    threshold: 0.5
connections:
  - name: in_to_out
    from: in
    to: out
    weight_scale: 0.4
learning_rules:
  - name: hebb
    type: hebbian
    connection: in_to_out
    rate: 0.05
`

func TestParse_Valid(t *testing.T) {
	cfg, err := config.Parse([]byte(topology))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, cfg.InputShape)
	require.Len(t, cfg.Layers, 2)
	assert.Equal(t, "lif", cfg.Layers[1].Type)
	require.Len(t, cfg.Connections, 1)
	require.Len(t, cfg.LearningRules, 1)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no input shape", `layers: [{name: a, type: identity, n: 1}]`},
		{"no layers", `input_shape: [1, 2]`},
		{"unknown layer type", `
input_shape: [1, 1]
layers: [{name: a, type: sigmoid, n: 1}]`},
		{"duplicate layer", `
input_shape: [1, 1]
layers: [{name: a, type: identity, n: 1}, {name: a, type: identity, n: 1}]`},
		{"connection to unknown layer", `
input_shape: [1, 1]
layers: [{name: a, type: identity, n: 1}]
connections: [{name: c, from: a, to: ghost}]`},
		{"rule on unknown connection", `
input_shape: [1, 1]
layers: [{name: a, type: identity, n: 1}]
learning_rules: [{name: r, type: hebbian, connection: ghost}]`},
		{"unknown rule type", `
input_shape: [1, 1]
layers: [{name: a, type: identity, n: 1}, {name: b, type: identity, n: 1}]
connections: [{name: c, from: a, to: b}]
learning_rules: [{name: r, type: backprop, connection: c}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestBuild_RunsEndToEnd(t *testing.T) {
	cfg, err := config.Parse([]byte(topology))
	require.NoError(t, err)

	m, err := cfg.Build()
	require.NoError(t, err)

	in, err := tensor.FromSlice([]float32{1, 1}, tensor.Shape{1, 2})
	require.NoError(t, err)

	steps := 0
	err = m.RunTime(snn.Repeat(in, 5), func(step int, g *graph.Graph, sess *graph.Session, results snn.StepResults) error {
		steps++
		require.Contains(t, results, "in")
		require.Contains(t, results, "out")
		require.Contains(t, results, "in_to_out")
		require.Contains(t, results, "hebb")

		if _, err := m.Learn(sess); err != nil {
			return err
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 5, steps)
}
