package snn_test

import (
	"github.com/spikeflow-ml/spikeflow/internal/graph"
	"github.com/spikeflow-ml/spikeflow/internal/snn"
	"github.com/spikeflow-ml/spikeflow/internal/tensor"
)

// passLayer is a minimal passthrough neuron layer: its output is the sum of
// its accumulated inputs. Stands in for the external neuron collaborators.
type passLayer struct {
	name   string
	n      int
	added  []*graph.Node
	input  *graph.Node
	output *graph.Node
}

func newPassLayer(name string, n int) *passLayer {
	return &passLayer{name: name, n: n}
}

func (l *passLayer) Name() string           { return l.name }
func (l *passLayer) InputN() int            { return l.n }
func (l *passLayer) OutputN() int           { return l.n }
func (l *passLayer) Output() *graph.Node    { return l.output }
func (l *passLayer) Input() *graph.Node     { return l.input }
func (l *passLayer) AddInput(s *graph.Node) { l.added = append(l.added, s) }
func (l *passLayer) Added() []*graph.Node   { return l.added }

func (l *passLayer) Compile(g *graph.Graph) error {
	if len(l.added) == 0 {
		l.input = g.Const(tensor.Zeros(tensor.Shape{1, l.n}))
	} else {
		l.input = l.added[0]
		for _, s := range l.added[1:] {
			l.input = g.Add(l.input, s)
		}
	}
	l.output = g.Identity(l.input)
	return nil
}

func (l *passLayer) Ops() map[string]*graph.Node {
	return map[string]*graph.Node{"output": l.output}
}

// bufConn is a one-step buffered connection: its output reads a buffer
// variable built before wiring, and its steady-state update stores the
// source layer's output into the buffer.
type bufConn struct {
	name     string
	from, to snn.NeuronLayer
	buffer   *graph.Node
	output   *graph.Node
	input    *graph.Node
	update   *graph.Node
}

func newBufConn(name string, from, to snn.NeuronLayer) *bufConn {
	return &bufConn{name: name, from: from, to: to}
}

func (c *bufConn) Name() string           { return c.name }
func (c *bufConn) From() snn.NeuronLayer  { return c.from }
func (c *bufConn) To() snn.NeuronLayer    { return c.to }
func (c *bufConn) Output() *graph.Node    { return c.output }
func (c *bufConn) SetInput(s *graph.Node) { c.input = s }

func (c *bufConn) CompileOutputNode(g *graph.Graph) error {
	c.buffer = g.Variable(c.name+"/buffer", tensor.Zeros(tensor.Shape{1, c.to.InputN()}))
	c.output = g.Identity(c.buffer)
	return nil
}

func (c *bufConn) Compile(g *graph.Graph) error {
	c.update = g.Assign(c.buffer, c.input)
	return nil
}

func (c *bufConn) Ops() map[string]*graph.Node {
	return map[string]*graph.Node{"output": c.output, "update": c.update}
}

// constRule is a learning rule whose update op yields a fixed value.
type constRule struct {
	name  string
	value float32
	op    *graph.Node
}

func newConstRule(name string, value float32) *constRule {
	return &constRule{name: name, value: value}
}

func (r *constRule) Name() string { return r.name }

func (r *constRule) Compile(g *graph.Graph) error {
	r.op = g.Const(tensor.Scalar(r.value))
	return nil
}

func (r *constRule) Ops() map[string]*graph.Node { return nil }

func (r *constRule) LearningOps() map[string]*graph.Node {
	return map[string]*graph.Node{"delta": r.op}
}
