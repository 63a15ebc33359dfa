// Package graph implements the deferred computation-graph engine the network
// compiler targets.
//
// The engine follows the classic build-then-run split:
//   - Graph: a static dag of Nodes, built once by the model compiler
//   - Node: one operation (placeholder, variable, arithmetic, assignment)
//   - Session: per-run mutable variable state plus an evaluator
//
// A Graph is immutable once built and can be evaluated by any number of
// Sessions. One Session.Run call evaluates each reachable node at most once;
// assignment nodes mutate session variable state when they execute, which is
// why evaluation order between independent reads and assignments matters and
// why WithControlDependencies exists.
//
// Usage:
//
//	g := graph.New()
//	x := g.Placeholder("x", tensor.Shape{1, 4})
//	v := g.Variable("v", tensor.Zeros(tensor.Shape{1, 4}))
//	sum := g.Add(x, v)
//	step := g.Assign(v, sum)
//
//	sess := graph.NewSession(g)
//	defer sess.Close()
//	sess.InitVariables()
//	out, err := sess.Run([]*graph.Node{step}, graph.Feed{x: frame})
package graph

import (
	"fmt"

	"github.com/spikeflow-ml/spikeflow/internal/tensor"
)

// Op identifies the operation a Node performs.
type Op string

// Supported operations.
const (
	OpPlaceholder  Op = "placeholder"
	OpVariable     Op = "variable"
	OpConst        Op = "const"
	OpIdentity     Op = "identity"
	OpAdd          Op = "add"
	OpSub          Op = "sub"
	OpMul          Op = "mul"
	OpDiv          Op = "div"
	OpAddScalar    Op = "add_scalar"
	OpMulScalar    Op = "mul_scalar"
	OpMatMul       Op = "matmul"
	OpTranspose    Op = "transpose"
	OpGreaterEqual Op = "greater_equal"
	OpWhere        Op = "where"
	OpSum          Op = "sum"
	OpAssign       Op = "assign"
	OpAssignAdd    Op = "assign_add"
)

// Node is one operation in a Graph. Nodes are created through Graph builder
// methods and are immutable afterwards.
type Node struct {
	graph  *Graph
	id     int
	op     Op
	name   string
	shape  tensor.Shape
	inputs []*Node
	ctrl   []*Node // control dependencies: evaluated before this node

	value  *tensor.Tensor // const value or variable initializer
	scalar float32        // operand for scalar ops
	target *Node          // variable mutated by assign ops
}

// Op returns the node's operation kind.
func (n *Node) Op() Op { return n.op }

// Name returns the node's name. Only placeholders and variables carry one.
func (n *Node) Name() string { return n.name }

// Shape returns the static shape of the node's result.
func (n *Node) Shape() tensor.Shape { return n.shape }

// Graph is a static directed acyclic graph of operations.
//
// Builder methods panic on structural misuse (nil operands, operand shape
// mismatches): those are construction bugs in the layer implementations,
// not recoverable runtime conditions. Run-time failures (unfed placeholders,
// frame shape mismatches) are returned as errors by Session.Run.
type Graph struct {
	nodes     []*Node
	vars      []*Node
	ctrlStack [][]*Node
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{}
}

// NumNodes returns the number of nodes built so far.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// Variables returns every variable node, in creation order.
func (g *Graph) Variables() []*Node {
	out := make([]*Node, len(g.vars))
	copy(out, g.vars)
	return out
}

// WithControlDependencies runs fn with deps active: every node created inside
// fn will not be evaluated by a session until every node in deps has been
// evaluated in the same Run call. Scopes nest; fn's error is returned as-is.
func (g *Graph) WithControlDependencies(deps []*Node, fn func() error) error {
	for _, dep := range deps {
		if dep == nil {
			panic("graph: nil control dependency")
		}
	}
	g.ctrlStack = append(g.ctrlStack, deps)
	defer func() {
		g.ctrlStack = g.ctrlStack[:len(g.ctrlStack)-1]
	}()
	return fn()
}

// newNode registers a node, attaching any active control dependencies.
func (g *Graph) newNode(op Op, name string, shape tensor.Shape, inputs ...*Node) *Node {
	for _, in := range inputs {
		if in == nil {
			panic(fmt.Sprintf("graph: nil input to %s node", op))
		}
		if in.graph != g {
			panic(fmt.Sprintf("graph: input to %s node belongs to a different graph", op))
		}
	}
	n := &Node{
		graph:  g,
		id:     len(g.nodes),
		op:     op,
		name:   name,
		shape:  shape.Clone(),
		inputs: inputs,
	}
	for _, scope := range g.ctrlStack {
		n.ctrl = append(n.ctrl, scope...)
	}
	g.nodes = append(g.nodes, n)
	return n
}
