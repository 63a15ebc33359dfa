package graph

import (
	"fmt"

	"github.com/spikeflow-ml/spikeflow/internal/tensor"
)

// Placeholder declares a named input that must be fed on every Run.
func (g *Graph) Placeholder(name string, shape tensor.Shape) *Node {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("graph: placeholder %q: %v", name, err))
	}
	return g.newNode(OpPlaceholder, name, shape)
}

// Variable declares named mutable per-session state with an initial value.
// Reading the node yields the session's current value; Assign and AssignAdd
// replace it.
func (g *Graph) Variable(name string, init *tensor.Tensor) *Node {
	if init == nil {
		panic(fmt.Sprintf("graph: variable %q: nil initializer", name))
	}
	n := g.newNode(OpVariable, name, init.Shape())
	n.value = init.Clone()
	g.vars = append(g.vars, n)
	return n
}

// Const embeds a fixed value in the graph.
func (g *Graph) Const(value *tensor.Tensor) *Node {
	if value == nil {
		panic("graph: nil const value")
	}
	n := g.newNode(OpConst, "", value.Shape())
	n.value = value.Clone()
	return n
}

// Identity passes its input through unchanged. Useful for giving a stable
// read point to a variable, and as an anchor for control dependencies.
func (g *Graph) Identity(x *Node) *Node {
	return g.newNode(OpIdentity, "", x.mustShape(), x)
}

// Add returns element-wise a + b. Shapes must match.
func (g *Graph) Add(a, b *Node) *Node {
	return g.elementwise(OpAdd, a, b)
}

// Sub returns element-wise a - b. Shapes must match.
func (g *Graph) Sub(a, b *Node) *Node {
	return g.elementwise(OpSub, a, b)
}

// Mul returns element-wise a * b. Shapes must match.
func (g *Graph) Mul(a, b *Node) *Node {
	return g.elementwise(OpMul, a, b)
}

// Div returns element-wise a / b. Shapes must match.
func (g *Graph) Div(a, b *Node) *Node {
	return g.elementwise(OpDiv, a, b)
}

// AddScalar returns x + s applied element-wise.
func (g *Graph) AddScalar(x *Node, s float32) *Node {
	n := g.newNode(OpAddScalar, "", x.mustShape(), x)
	n.scalar = s
	return n
}

// MulScalar returns x * s applied element-wise.
func (g *Graph) MulScalar(x *Node, s float32) *Node {
	n := g.newNode(OpMulScalar, "", x.mustShape(), x)
	n.scalar = s
	return n
}

// MatMul returns the matrix product of two 2-d nodes: [m, k] @ [k, n] -> [m, n].
func (g *Graph) MatMul(a, b *Node) *Node {
	as, bs := a.mustShape(), b.mustShape()
	if len(as) != 2 || len(bs) != 2 {
		panic(fmt.Sprintf("graph: matmul requires 2-d operands, got %s and %s", as, bs))
	}
	if as[1] != bs[0] {
		panic(fmt.Sprintf("graph: matmul inner dimensions disagree: %s @ %s", as, bs))
	}
	return g.newNode(OpMatMul, "", tensor.Shape{as[0], bs[1]}, a, b)
}

// Transpose returns the transpose of a 2-d node.
func (g *Graph) Transpose(x *Node) *Node {
	xs := x.mustShape()
	if len(xs) != 2 {
		panic(fmt.Sprintf("graph: transpose requires a 2-d operand, got %s", xs))
	}
	return g.newNode(OpTranspose, "", tensor.Shape{xs[1], xs[0]}, x)
}

// GreaterEqual returns an element-wise 0/1 mask for a >= b. Shapes must match.
func (g *Graph) GreaterEqual(a, b *Node) *Node {
	return g.elementwise(OpGreaterEqual, a, b)
}

// Where selects elements: mask != 0 picks from a, otherwise from b.
// All three shapes must match.
func (g *Graph) Where(mask, a, b *Node) *Node {
	ms, as, bs := mask.mustShape(), a.mustShape(), b.mustShape()
	if !ms.Equal(as) || !as.Equal(bs) {
		panic(fmt.Sprintf("graph: where operand shapes disagree: %s, %s, %s", ms, as, bs))
	}
	return g.newNode(OpWhere, "", as, mask, a, b)
}

// Sum reduces a node to a scalar by summing all elements.
func (g *Graph) Sum(x *Node) *Node {
	x.mustShape()
	return g.newNode(OpSum, "", tensor.Shape{}, x)
}

// Assign replaces a variable's session value with value and yields the new
// value. The variable itself is not a data input: reading it elsewhere in the
// same run is ordered only by control dependencies.
func (g *Graph) Assign(variable, value *Node) *Node {
	return g.assignOp(OpAssign, variable, value)
}

// AssignAdd adds value into a variable's session value and yields the result.
func (g *Graph) AssignAdd(variable, value *Node) *Node {
	return g.assignOp(OpAssignAdd, variable, value)
}

func (g *Graph) assignOp(op Op, variable, value *Node) *Node {
	if variable == nil || variable.op != OpVariable {
		panic(fmt.Sprintf("graph: %s target must be a variable node", op))
	}
	vs, xs := variable.shape, value.mustShape()
	if !vs.Equal(xs) {
		panic(fmt.Sprintf("graph: %s to variable %q: shape %s does not match value shape %s",
			op, variable.name, vs, xs))
	}
	n := g.newNode(op, "", vs, value)
	n.target = variable
	return n
}

func (g *Graph) elementwise(op Op, a, b *Node) *Node {
	as, bs := a.mustShape(), b.mustShape()
	if !as.Equal(bs) {
		panic(fmt.Sprintf("graph: %s operand shapes disagree: %s vs %s", op, as, bs))
	}
	return g.newNode(op, "", as, a, b)
}

func (n *Node) mustShape() tensor.Shape {
	if n == nil {
		panic("graph: nil node")
	}
	return n.shape
}
