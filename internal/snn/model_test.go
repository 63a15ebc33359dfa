package snn_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spikeflow-ml/spikeflow/internal/graph"
	"github.com/spikeflow-ml/spikeflow/internal/snn"
	"github.com/spikeflow-ml/spikeflow/internal/tensor"
)

func frame(t *testing.T, vals ...float32) *tensor.Tensor {
	t.Helper()
	x, err := tensor.FromSlice(vals, tensor.Shape{1, len(vals)})
	require.NoError(t, err)
	return x
}

// Scenario: one passthrough layer, no connections, no rules. Three frames
// yield exactly three in-order callbacks whose results echo the inputs.
func TestModel_RunTime_Passthrough(t *testing.T) {
	m := snn.NewModel(tensor.Shape{1, 4})
	require.NoError(t, m.AddNeuronLayer(newPassLayer("n", 4)))
	require.NoError(t, m.Compile())

	inputs := []*tensor.Tensor{
		frame(t, 1, 2, 3, 4),
		frame(t, 5, 6, 7, 8),
		frame(t, 0, 0, 0, 1),
	}

	var steps []int
	err := m.RunTime(snn.Frames(inputs...), func(step int, g *graph.Graph, sess *graph.Session, results snn.StepResults) error {
		steps = append(steps, step)
		require.Len(t, results, 1)
		out := results["n"]["output"]
		require.NotNil(t, out)
		assert.True(t, out.Equal(inputs[step]), "step %d: output %v != input %v", step, out, inputs[step])
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, steps)
}

// Scenario: chain A -> conn -> B. The connection's per-step value must
// depend only on A's previous output, never the current step's, because the
// barrier orders the buffer read before the buffer update.
func TestModel_RunTime_ConnectionDelay(t *testing.T) {
	a := newPassLayer("a", 2)
	b := newPassLayer("b", 2)
	conn := newBufConn("a_to_b", a, b)

	m, err := snn.CompiledModel(tensor.Shape{1, 2},
		[]snn.NeuronLayer{a, b},
		[]snn.ConnectionLayer{conn},
		nil)
	require.NoError(t, err)

	inputs := []*tensor.Tensor{
		frame(t, 1, 10),
		frame(t, 2, 20),
		frame(t, 3, 30),
	}

	err = m.RunTime(snn.Frames(inputs...), func(step int, g *graph.Graph, sess *graph.Session, results snn.StepResults) error {
		require.Contains(t, results, "a")
		require.Contains(t, results, "b")
		require.Contains(t, results, "a_to_b")

		// A passes the current frame through.
		assert.True(t, results["a"]["output"].Equal(inputs[step]), "step %d: a", step)

		// B sees the connection's buffered value: zero at step 0, then the
		// previous frame.
		want := tensor.Zeros(tensor.Shape{1, 2})
		if step > 0 {
			want = inputs[step-1]
		}
		assert.True(t, results["b"]["output"].Equal(want),
			"step %d: b = %v, want %v", step, results["b"]["output"], want)
		assert.True(t, results["a_to_b"]["output"].Equal(want), "step %d: conn", step)
		return nil
	})
	require.NoError(t, err)
}

// Scenario: a full feed mapping bypasses the input placeholder entirely.
func TestModel_RunTime_FullFeed(t *testing.T) {
	m := snn.NewModel(tensor.Shape{1, 4})
	require.NoError(t, m.AddNeuronLayer(newPassLayer("n", 4)))
	require.NoError(t, m.Compile())

	feed := graph.Feed{m.InputNode(): frame(t, 9, 9, 9, 9)}
	calls := 0
	err := m.RunTime(snn.FeedFrames(feed), func(step int, g *graph.Graph, sess *graph.Session, results snn.StepResults) error {
		calls++
		assert.True(t, results["n"]["output"].Equal(frame(t, 9, 9, 9, 9)))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestModel_RunTime_ShapeMismatch(t *testing.T) {
	m := snn.NewModel(tensor.Shape{1, 4})
	require.NoError(t, m.AddNeuronLayer(newPassLayer("n", 4)))
	require.NoError(t, m.Compile())

	bad := tensor.Zeros(tensor.Shape{1, 3})
	err := m.RunTime(snn.Frames(bad), func(step int, g *graph.Graph, sess *graph.Session, results snn.StepResults) error {
		t.Fatal("callback must not run for a failed step")
		return nil
	})
	require.Error(t, err)
}

func TestModel_RunTime_CallbackErrorAborts(t *testing.T) {
	m := snn.NewModel(tensor.Shape{1, 1})
	require.NoError(t, m.AddNeuronLayer(newPassLayer("n", 1)))
	require.NoError(t, m.Compile())

	boom := errors.New("boom")
	calls := 0
	err := m.RunTime(snn.Repeat(frame(t, 1), 10), func(step int, g *graph.Graph, sess *graph.Session, results snn.StepResults) error {
		calls++
		if step == 1 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls, "loop must stop at the failing step")
}

func TestModel_ContinueRunTime_RejectsFullFeed(t *testing.T) {
	m := snn.NewModel(tensor.Shape{1, 1})
	require.NoError(t, m.AddNeuronLayer(newPassLayer("n", 1)))
	require.NoError(t, m.Compile())

	feed := graph.Feed{m.InputNode(): frame(t, 1)}
	err := m.ContinueRunTime(snn.FeedFrames(feed), func(step int, g *graph.Graph, sess *graph.Session, results snn.StepResults) error {
		return nil
	})
	require.Error(t, err)

	// Raw frames still run.
	calls := 0
	err = m.ContinueRunTime(snn.Frames(frame(t, 1), frame(t, 2)), func(step int, g *graph.Graph, sess *graph.Session, results snn.StepResults) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestModel_Learn_TwoRules(t *testing.T) {
	m := snn.NewModel(tensor.Shape{1, 1})
	require.NoError(t, m.AddNeuronLayer(newPassLayer("n", 1)))
	require.NoError(t, m.AddLearningRule(newConstRule("hebb", 2)))
	require.NoError(t, m.AddLearningRule(newConstRule("oja", 3)))
	require.NoError(t, m.Compile())

	err := m.RunTime(snn.Frames(frame(t, 1)), func(step int, g *graph.Graph, sess *graph.Session, results snn.StepResults) error {
		updates, err := m.Learn(sess)
		require.NoError(t, err)
		require.Len(t, updates, 2)
		assert.Equal(t, float32(2), updates["hebb"]["delta"].At())
		assert.Equal(t, float32(3), updates["oja"]["delta"].At())

		// Rules with no per-step ops still appear in results by name.
		require.Contains(t, results, "hebb")
		require.Contains(t, results, "oja")
		assert.Empty(t, results["hebb"])
		return nil
	})
	require.NoError(t, err)
}

func TestModel_Compile_Twice(t *testing.T) {
	m := snn.NewModel(tensor.Shape{1, 1})
	require.NoError(t, m.AddNeuronLayer(newPassLayer("n", 1)))
	require.NoError(t, m.Compile())
	assert.ErrorIs(t, m.Compile(), snn.ErrCompiled)
}

func TestModel_Compile_Empty(t *testing.T) {
	m := snn.NewModel(tensor.Shape{1, 1})
	assert.ErrorIs(t, m.Compile(), snn.ErrNoNeuronLayers)
}

func TestModel_RunTime_NotCompiled(t *testing.T) {
	m := snn.NewModel(tensor.Shape{1, 1})
	err := m.RunTime(snn.Frames(), func(step int, g *graph.Graph, sess *graph.Session, results snn.StepResults) error {
		return nil
	})
	assert.ErrorIs(t, err, snn.ErrNotCompiled)
}

func TestModel_Register_DuplicateName(t *testing.T) {
	m := snn.NewModel(tensor.Shape{1, 1})
	require.NoError(t, m.AddNeuronLayer(newPassLayer("x", 1)))
	assert.ErrorIs(t, m.AddConnection(newBufConn("x", newPassLayer("p", 1), newPassLayer("q", 1))), snn.ErrDuplicateName)
	assert.ErrorIs(t, m.AddLearningRule(newConstRule("x", 0)), snn.ErrDuplicateName)
}

func TestModel_Register_AfterCompile(t *testing.T) {
	m := snn.NewModel(tensor.Shape{1, 1})
	require.NoError(t, m.AddNeuronLayer(newPassLayer("x", 1)))
	require.NoError(t, m.Compile())
	assert.ErrorIs(t, m.AddNeuronLayer(newPassLayer("y", 1)), snn.ErrCompiled)
}

// Variable state persists across steps within one run but resets between
// runs, since each run opens and initializes a fresh session.
func TestModel_RunTime_FreshSessionPerRun(t *testing.T) {
	a := newPassLayer("a", 1)
	b := newPassLayer("b", 1)
	conn := newBufConn("c", a, b)
	m, err := snn.CompiledModel(tensor.Shape{1, 1}, []snn.NeuronLayer{a, b}, []snn.ConnectionLayer{conn}, nil)
	require.NoError(t, err)

	runOnce := func() []float32 {
		var seen []float32
		err := m.RunTime(snn.Frames(frame(t, 1), frame(t, 2)), func(step int, g *graph.Graph, sess *graph.Session, results snn.StepResults) error {
			seen = append(seen, results["b"]["output"].At(0, 0))
			return nil
		})
		require.NoError(t, err)
		return seen
	}

	first := runOnce()
	second := runOnce()
	assert.Equal(t, []float32{0, 1}, first)
	assert.Equal(t, first, second, "a fresh run must start from initial variable state")
}

func ExampleModel_RunTime() {
	layer := newPassLayer("n", 2)
	m, err := snn.CompiledModel(tensor.Shape{1, 2}, []snn.NeuronLayer{layer}, nil, nil)
	if err != nil {
		panic(err)
	}

	in, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{1, 2})
	_ = m.RunTime(snn.Frames(in), func(step int, g *graph.Graph, sess *graph.Session, results snn.StepResults) error {
		fmt.Println(step, results["n"]["output"])
		return nil
	})
	// Output: 0 Tensor(1, 2)[1 2]
}
