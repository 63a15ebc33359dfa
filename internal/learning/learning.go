// Package learning implements plasticity rules that adjust synapse weights
// from recorded pre- and post-synaptic activity.
//
// Rules compile after the rest of the model, read only session variables
// (the synapse's activity traces and weight matrix), and expose their weight
// updates through LearningOps. Applying an update is the caller's choice:
// Model.Learn evaluates the ops, typically from inside a run callback.
package learning

import (
	"fmt"

	"github.com/spikeflow-ml/spikeflow/internal/graph"
	"github.com/spikeflow-ml/spikeflow/internal/synapse"
	"github.com/spikeflow-ml/spikeflow/internal/tensor"
)

// Hebbian strengthens weights between co-active neurons:
//
//	dW = rate * preᵀ @ post
type Hebbian struct {
	name string
	syn  *synapse.Simple
	rate float32

	update *graph.Node
}

// NewHebbian creates a Hebbian rule adjusting the given synapse's weights.
func NewHebbian(name string, syn *synapse.Simple, rate float32) *Hebbian {
	return &Hebbian{name: name, syn: syn, rate: rate}
}

// Name returns the rule's identifier.
func (r *Hebbian) Name() string { return r.name }

// Compile builds the weight-update operation against the compiled synapse.
func (r *Hebbian) Compile(g *graph.Graph) error {
	pre, post, w := r.syn.PreTrace(), r.syn.PostTrace(), r.syn.Weights()
	if pre == nil || post == nil || w == nil {
		return fmt.Errorf("learning: rule %q: synapse %q is not compiled", r.name, r.syn.Name())
	}
	dw := g.MulScalar(g.MatMul(g.Transpose(pre), post), r.rate)
	r.update = g.AssignAdd(w, dw)
	return nil
}

// Ops returns no per-step fetches: the rule only acts when applied.
func (r *Hebbian) Ops() map[string]*graph.Node { return nil }

// LearningOps exposes the weight update; evaluating it applies one step of
// plasticity and yields the updated weights.
func (r *Hebbian) LearningOps() map[string]*graph.Node {
	return map[string]*graph.Node{"w": r.update}
}

// Oja is the self-normalizing Hebbian variant:
//
//	dW_ij = rate * post_j * (pre_i - post_j * W_ij)
//
// The subtractive term keeps weights bounded without an explicit clamp.
type Oja struct {
	name string
	syn  *synapse.Simple
	rate float32

	update *graph.Node
}

// NewOja creates an Oja rule adjusting the given synapse's weights.
func NewOja(name string, syn *synapse.Simple, rate float32) *Oja {
	return &Oja{name: name, syn: syn, rate: rate}
}

// Name returns the rule's identifier.
func (r *Oja) Name() string { return r.name }

// Compile builds the weight-update operation against the compiled synapse.
func (r *Oja) Compile(g *graph.Graph) error {
	pre, post, w := r.syn.PreTrace(), r.syn.PostTrace(), r.syn.Weights()
	if pre == nil || post == nil || w == nil {
		return fmt.Errorf("learning: rule %q: synapse %q is not compiled", r.name, r.syn.Name())
	}

	fromN := pre.Shape()[1]
	hebb := g.MatMul(g.Transpose(pre), post)

	// Broadcast post² across weight rows: ones column @ post² row.
	ones := g.Const(tensor.Ones(tensor.Shape{fromN, 1}))
	postSq := g.MatMul(ones, g.Mul(post, post))
	forget := g.Mul(w, postSq)

	dw := g.MulScalar(g.Sub(hebb, forget), r.rate)
	r.update = g.AssignAdd(w, dw)
	return nil
}

// Ops returns no per-step fetches: the rule only acts when applied.
func (r *Oja) Ops() map[string]*graph.Node { return nil }

// LearningOps exposes the weight update.
func (r *Oja) LearningOps() map[string]*graph.Node {
	return map[string]*graph.Node{"w": r.update}
}
