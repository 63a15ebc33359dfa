package graph

import (
	"errors"
	"fmt"

	"github.com/spikeflow-ml/spikeflow/internal/tensor"
)

// Session evaluation errors.
var (
	// ErrSessionClosed is returned when running a closed session.
	ErrSessionClosed = errors.New("graph: session is closed")
	// ErrUninitialized is returned when a variable is read before InitVariables.
	ErrUninitialized = errors.New("graph: variables not initialized")
)

// Feed maps placeholder nodes to the values fed for one Run call.
type Feed map[*Node]*tensor.Tensor

// Session holds the mutable variable state needed to evaluate a Graph.
// A session is single-threaded; one Run call completes before the next starts.
type Session struct {
	g      *Graph
	vars   map[*Node]*tensor.Tensor
	inited bool
	closed bool
}

// NewSession creates a session for the given graph. Variables hold no values
// until InitVariables is called.
func NewSession(g *Graph) *Session {
	return &Session{
		g:    g,
		vars: make(map[*Node]*tensor.Tensor),
	}
}

// InitVariables resets every variable to its declared initial value.
func (s *Session) InitVariables() {
	for _, v := range s.g.vars {
		s.vars[v] = v.value.Clone()
	}
	s.inited = true
}

// Close releases the session's variable state. Further Run calls fail with
// ErrSessionClosed. Close is idempotent.
func (s *Session) Close() error {
	s.vars = nil
	s.closed = true
	return nil
}

// Run evaluates the fetched nodes against the feed and returns their values
// in fetch order.
//
// Each reachable node is evaluated at most once per call. A node's control
// dependencies are evaluated before the node itself; beyond that, evaluation
// follows data edges in fetch order. Assignment nodes replace their target
// variable's session value when they execute: a variable read memoized before
// the assignment keeps the pre-assignment snapshot.
func (s *Session) Run(fetches []*Node, feed Feed) ([]*tensor.Tensor, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	for ph, val := range feed {
		if ph == nil || val == nil {
			return nil, fmt.Errorf("graph: nil entry in feed")
		}
		if ph.op != OpPlaceholder {
			return nil, fmt.Errorf("graph: fed node %s is not a placeholder", ph.op)
		}
		if !val.Shape().Equal(ph.shape) {
			return nil, fmt.Errorf("graph: shape mismatch: placeholder %q expects %s, got %s",
				ph.name, ph.shape, val.Shape())
		}
	}

	ev := &evaluator{sess: s, feed: feed, memo: make(map[*Node]*tensor.Tensor)}
	results := make([]*tensor.Tensor, len(fetches))
	for i, n := range fetches {
		if n == nil {
			return nil, fmt.Errorf("graph: nil fetch at index %d", i)
		}
		if n.graph != s.g {
			return nil, fmt.Errorf("graph: fetch at index %d belongs to a different graph", i)
		}
		val, err := ev.eval(n)
		if err != nil {
			return nil, err
		}
		results[i] = val
	}
	return results, nil
}

// evaluator is the per-Run state: one memo table, one feed.
type evaluator struct {
	sess *Session
	feed Feed
	memo map[*Node]*tensor.Tensor
}

func (ev *evaluator) eval(n *Node) (*tensor.Tensor, error) {
	if val, ok := ev.memo[n]; ok {
		return val, nil
	}

	// Control dependencies run first; their values are discarded.
	for _, dep := range n.ctrl {
		if _, err := ev.eval(dep); err != nil {
			return nil, err
		}
	}

	ins := make([]*tensor.Tensor, len(n.inputs))
	for i, in := range n.inputs {
		val, err := ev.eval(in)
		if err != nil {
			return nil, err
		}
		ins[i] = val
	}

	val, err := ev.compute(n, ins)
	if err != nil {
		return nil, err
	}
	ev.memo[n] = val
	return val, nil
}

func (ev *evaluator) compute(n *Node, ins []*tensor.Tensor) (*tensor.Tensor, error) {
	switch n.op {
	case OpPlaceholder:
		val, ok := ev.feed[n]
		if !ok {
			return nil, fmt.Errorf("graph: placeholder %q was not fed", n.name)
		}
		return val, nil

	case OpVariable:
		if !ev.sess.inited {
			return nil, fmt.Errorf("%w: variable %q read before InitVariables", ErrUninitialized, n.name)
		}
		return ev.sess.vars[n], nil

	case OpConst:
		return n.value, nil

	case OpIdentity:
		return ins[0], nil

	case OpAdd:
		return zip(ins[0], ins[1], func(a, b float32) float32 { return a + b }), nil
	case OpSub:
		return zip(ins[0], ins[1], func(a, b float32) float32 { return a - b }), nil
	case OpMul:
		return zip(ins[0], ins[1], func(a, b float32) float32 { return a * b }), nil
	case OpDiv:
		return zip(ins[0], ins[1], func(a, b float32) float32 { return a / b }), nil
	case OpGreaterEqual:
		return zip(ins[0], ins[1], func(a, b float32) float32 {
			if a >= b {
				return 1
			}
			return 0
		}), nil

	case OpAddScalar:
		return mapElems(ins[0], func(v float32) float32 { return v + n.scalar }), nil
	case OpMulScalar:
		return mapElems(ins[0], func(v float32) float32 { return v * n.scalar }), nil

	case OpMatMul:
		return matmul(ins[0], ins[1]), nil

	case OpTranspose:
		return transpose2d(ins[0]), nil

	case OpWhere:
		mask, a, b := ins[0], ins[1], ins[2]
		out := tensor.Zeros(a.Shape())
		md, ad, bd, od := mask.Data(), a.Data(), b.Data(), out.Data()
		for i := range od {
			if md[i] != 0 {
				od[i] = ad[i]
			} else {
				od[i] = bd[i]
			}
		}
		return out, nil

	case OpSum:
		return tensor.Scalar(ins[0].Sum()), nil

	case OpAssign:
		if !ev.sess.inited {
			return nil, fmt.Errorf("%w: assign to variable %q before InitVariables", ErrUninitialized, n.target.name)
		}
		val := ins[0].Clone()
		ev.sess.vars[n.target] = val
		return val, nil

	case OpAssignAdd:
		if !ev.sess.inited {
			return nil, fmt.Errorf("%w: assign to variable %q before InitVariables", ErrUninitialized, n.target.name)
		}
		val := zip(ev.sess.vars[n.target], ins[0], func(a, b float32) float32 { return a + b })
		ev.sess.vars[n.target] = val
		return val, nil

	default:
		return nil, fmt.Errorf("graph: unknown op %q", n.op)
	}
}

func zip(a, b *tensor.Tensor, f func(a, b float32) float32) *tensor.Tensor {
	out := tensor.Zeros(a.Shape())
	ad, bd, od := a.Data(), b.Data(), out.Data()
	for i := range od {
		od[i] = f(ad[i], bd[i])
	}
	return out
}

func mapElems(x *tensor.Tensor, f func(v float32) float32) *tensor.Tensor {
	out := tensor.Zeros(x.Shape())
	xd, od := x.Data(), out.Data()
	for i := range od {
		od[i] = f(xd[i])
	}
	return out
}

func matmul(a, b *tensor.Tensor) *tensor.Tensor {
	as, bs := a.Shape(), b.Shape()
	m, k, n := as[0], as[1], bs[1]
	out := tensor.Zeros(tensor.Shape{m, n})
	ad, bd, od := a.Data(), b.Data(), out.Data()
	for i := 0; i < m; i++ {
		for l := 0; l < k; l++ {
			av := ad[i*k+l]
			if av == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				od[i*n+j] += av * bd[l*n+j]
			}
		}
	}
	return out
}

func transpose2d(x *tensor.Tensor) *tensor.Tensor {
	xs := x.Shape()
	rows, cols := xs[0], xs[1]
	out := tensor.Zeros(tensor.Shape{cols, rows})
	xd, od := x.Data(), out.Data()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			od[j*rows+i] = xd[i*cols+j]
		}
	}
	return out
}
