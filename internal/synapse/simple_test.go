package synapse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spikeflow-ml/spikeflow/internal/graph"
	"github.com/spikeflow-ml/spikeflow/internal/neurons"
	"github.com/spikeflow-ml/spikeflow/internal/snn"
	"github.com/spikeflow-ml/spikeflow/internal/synapse"
	"github.com/spikeflow-ml/spikeflow/internal/tensor"
)

func row(t *testing.T, vals ...float32) *tensor.Tensor {
	t.Helper()
	x, err := tensor.FromSlice(vals, tensor.Shape{1, len(vals)})
	require.NoError(t, err)
	return x
}

func TestNew_ValidatesWeights(t *testing.T) {
	a := neurons.NewIdentity("a", 2)
	b := neurons.NewIdentity("b", 3)

	if _, err := synapse.New("c", a, b, tensor.Zeros(tensor.Shape{2, 3}), 0); err != nil {
		t.Fatalf("New() with matching weights: %v", err)
	}
	if _, err := synapse.New("c", a, b, tensor.Zeros(tensor.Shape{3, 2}), 0); err == nil {
		t.Error("New() should reject transposed weight shape")
	}
	if _, err := synapse.New("c", a, b, nil, 0); err == nil {
		t.Error("New() should reject nil weights")
	}
	if _, err := synapse.New("c", a, b, tensor.Zeros(tensor.Shape{2, 3}), 1.0); err == nil {
		t.Error("New() should reject decay >= 1")
	}
}

// The buffer gives exactly one step of transmission delay, and the weight
// matrix is applied to the source spikes.
func TestSimple_DelayAndWeighting(t *testing.T) {
	a := neurons.NewIdentity("a", 2)
	b := neurons.NewIdentity("b", 2)
	w, err := tensor.FromSlice([]float32{
		2, 0,
		0, 3,
	}, tensor.Shape{2, 2})
	require.NoError(t, err)
	conn, err := synapse.New("a_to_b", a, b, w, 0)
	require.NoError(t, err)

	m, err := snn.CompiledModel(tensor.Shape{1, 2},
		[]snn.NeuronLayer{a, b},
		[]snn.ConnectionLayer{conn},
		nil)
	require.NoError(t, err)

	inputs := []*tensor.Tensor{row(t, 1, 1), row(t, 0, 0)}
	wantB := []*tensor.Tensor{row(t, 0, 0), row(t, 2, 3)}

	err = m.RunTime(snn.Frames(inputs...), func(step int, g *graph.Graph, sess *graph.Session, results snn.StepResults) error {
		assert.True(t, results["b"]["output"].Equal(wantB[step]),
			"step %d: b = %v, want %v", step, results["b"]["output"], wantB[step])
		return nil
	})
	require.NoError(t, err)
}

// With decay, the buffer keeps a fraction of its previous value.
func TestSimple_BufferDecay(t *testing.T) {
	a := neurons.NewIdentity("a", 1)
	b := neurons.NewIdentity("b", 1)
	conn, err := synapse.New("c", a, b, tensor.Ones(tensor.Shape{1, 1}), 0.5)
	require.NoError(t, err)

	m, err := snn.CompiledModel(tensor.Shape{1, 1},
		[]snn.NeuronLayer{a, b},
		[]snn.ConnectionLayer{conn},
		nil)
	require.NoError(t, err)

	// Single pulse at step 0, then silence. Buffer after step k:
	//   step 0: 0*0.5 + 1 = 1        (b sees 0)
	//   step 1: 1*0.5 + 0 = 0.5      (b sees 1)
	//   step 2: 0.5*0.5 + 0 = 0.25   (b sees 0.5)
	inputs := []*tensor.Tensor{row(t, 1), row(t, 0), row(t, 0), row(t, 0)}
	wantB := []float32{0, 1, 0.5, 0.25}

	err = m.RunTime(snn.Frames(inputs...), func(step int, g *graph.Graph, sess *graph.Session, results snn.StepResults) error {
		assert.InDelta(t, wantB[step], results["b"]["output"].At(0, 0), 1e-6, "step %d", step)
		return nil
	})
	require.NoError(t, err)
}

// Activity traces must hold the current step's pre and post activity after
// the step completes, so learning rules can read them from the callback.
func TestSimple_Traces(t *testing.T) {
	a := neurons.NewIdentity("a", 1)
	b := neurons.NewIdentity("b", 1)
	conn, err := synapse.New("c", a, b, tensor.Ones(tensor.Shape{1, 1}), 0)
	require.NoError(t, err)

	m, err := snn.CompiledModel(tensor.Shape{1, 1},
		[]snn.NeuronLayer{a, b},
		[]snn.ConnectionLayer{conn},
		nil)
	require.NoError(t, err)

	err = m.RunTime(snn.Frames(row(t, 5)), func(step int, g *graph.Graph, sess *graph.Session, results snn.StepResults) error {
		assert.Equal(t, float32(5), results["c"]["pre"].At(0, 0), "pre trace")
		assert.Equal(t, float32(0), results["c"]["post"].At(0, 0), "post trace (b still silent)")
		return nil
	})
	require.NoError(t, err)
}
