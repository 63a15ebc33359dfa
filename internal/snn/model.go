package snn

import (
	"fmt"
	"sort"

	"github.com/spikeflow-ml/spikeflow/internal/graph"
	"github.com/spikeflow-ml/spikeflow/internal/tensor"
)

// inputName is the placeholder name of the model's external input.
const inputName = "I"

// StepResults maps every registered neuron layer, connection, and learning
// rule name to that entity's computed per-step values, keyed by op name.
type StepResults map[string]map[string]*tensor.Tensor

// StepCallback is invoked synchronously after each timestep, strictly before
// the next frame is pulled from the data source. step starts at 0 and
// increments by one. A non-nil error aborts the run; the session is still
// released before the error surfaces.
type StepCallback func(step int, g *graph.Graph, sess *graph.Session, results StepResults) error

// Model is the top-level composite: it owns the input placeholder, the
// compiled graph, and the time-stepping run loop.
//
// Lifecycle: construct empty, register parts with the Add mutators, call
// Compile exactly once, then call RunTime any number of times. Each run opens
// a fresh session against the same compiled graph; the graph is never rebuilt.
type Model struct {
	Composite

	inputShape tensor.Shape
	g          *graph.Graph
	modelInput *graph.Node
	compiled   bool
	names      map[string]bool
}

// NewModel creates an empty model expecting external input frames of the
// given shape.
func NewModel(inputShape tensor.Shape) *Model {
	return &Model{
		Composite:  Composite{name: "top"},
		inputShape: inputShape.Clone(),
		names:      make(map[string]bool),
	}
}

// CompiledModel creates a model from full part lists and compiles it.
// Convenience one-shot constructor.
func CompiledModel(inputShape tensor.Shape, layers []NeuronLayer, conns []ConnectionLayer, rules []LearningRule) (*Model, error) {
	m := NewModel(inputShape)
	for _, nl := range layers {
		if err := m.AddNeuronLayer(nl); err != nil {
			return nil, err
		}
	}
	for _, conn := range conns {
		if err := m.AddConnection(conn); err != nil {
			return nil, err
		}
	}
	for _, rule := range rules {
		if err := m.AddLearningRule(rule); err != nil {
			return nil, err
		}
	}
	if err := m.Compile(); err != nil {
		return nil, err
	}
	return m, nil
}

// InputShape returns the declared shape of external input frames.
func (m *Model) InputShape() tensor.Shape { return m.inputShape }

// Graph returns the compiled graph, or nil before Compile.
func (m *Model) Graph() *graph.Graph { return m.g }

// InputNode returns the model's input placeholder, or nil before Compile.
func (m *Model) InputNode() *graph.Node { return m.modelInput }

// AddNeuronLayer appends a neuron layer. Registration order is significant:
// the first layer added receives the external input, the last one defines
// the model output.
func (m *Model) AddNeuronLayer(nl NeuronLayer) error {
	if err := m.register(nl.Name()); err != nil {
		return err
	}
	m.neuronLayers = append(m.neuronLayers, nl)
	return nil
}

// AddConnection appends a connection layer.
func (m *Model) AddConnection(conn ConnectionLayer) error {
	if err := m.register(conn.Name()); err != nil {
		return err
	}
	m.connections = append(m.connections, conn)
	return nil
}

// AddLearningRule appends a learning rule.
func (m *Model) AddLearningRule(rule LearningRule) error {
	if err := m.register(rule.Name()); err != nil {
		return err
	}
	m.learningRules = append(m.learningRules, rule)
	return nil
}

// register enforces pre-compile mutation and name uniqueness across all
// three entity kinds.
func (m *Model) register(name string) error {
	if m.compiled {
		return fmt.Errorf("%w: cannot register %q", ErrCompiled, name)
	}
	if name == "" {
		return fmt.Errorf("snn: registration name must not be empty")
	}
	if m.names[name] {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	m.names[name] = true
	return nil
}

// Compile allocates the graph, declares the input placeholder, and compiles
// the composite tree into it. Compile is a one-time transition: a second
// call returns ErrCompiled.
func (m *Model) Compile() error {
	if m.compiled {
		return ErrCompiled
	}

	g := graph.New()
	m.modelInput = g.Placeholder(inputName, m.inputShape)
	m.AddInput(m.modelInput)

	if err := m.Composite.Compile(g); err != nil {
		return err
	}

	m.g = g
	m.compiled = true
	return nil
}

// RunTime evaluates the compiled graph once per frame produced by source.
//
// Raw frames feed the model's input placeholder and must match InputShape.
// Full-feed frames bypass the placeholder and are passed to the session
// verbatim. After each evaluation the callback runs with the step index, the
// graph, the live session, and the step's results; a callback error aborts
// the run. One session is held open for the whole loop and released on every
// exit path. Only batch size 1 per step is supported.
func (m *Model) RunTime(source DataSource, callback StepCallback) error {
	return m.runLoop(source, callback, true)
}

// ContinueRunTime is RunTime without the full-feed branch: every frame must
// be a raw input frame.
func (m *Model) ContinueRunTime(source DataSource, callback StepCallback) error {
	return m.runLoop(source, callback, false)
}

func (m *Model) runLoop(source DataSource, callback StepCallback, allowFullFeed bool) error {
	if !m.compiled {
		return ErrNotCompiled
	}

	plan := m.opsPlan()

	sess := graph.NewSession(m.g)
	defer sess.Close()
	sess.InitVariables()

	for step := 0; ; step++ {
		frame, ok := source.Next()
		if !ok {
			return nil
		}

		var feed graph.Feed
		switch {
		case frame.Feed != nil:
			if !allowFullFeed {
				return fmt.Errorf("snn: step %d: full-feed frames require RunTime", step)
			}
			feed = frame.Feed
		case frame.Input != nil:
			feed = graph.Feed{m.modelInput: frame.Input}
		default:
			return fmt.Errorf("snn: step %d: empty frame", step)
		}

		values, err := sess.Run(plan.nodes, feed)
		if err != nil {
			return fmt.Errorf("snn: step %d: %w", step, err)
		}

		if err := callback(step, m.g, sess, plan.gather(values)); err != nil {
			return err
		}
	}
}

// Learn evaluates every learning rule's update operations in the given
// session, nested composites included, and returns each rule's results keyed
// by rule name. Designed to be called from inside a RunTime callback.
func (m *Model) Learn(sess *graph.Session) (map[string]map[string]*tensor.Tensor, error) {
	rules := m.allLearningRules()
	out := make(map[string]map[string]*tensor.Tensor, len(rules))
	for _, rule := range rules {
		ops := rule.LearningOps()
		names := sortedOpNames(ops)
		nodes := make([]*graph.Node, len(names))
		for i, op := range names {
			nodes[i] = ops[op]
		}
		values, err := sess.Run(nodes, nil)
		if err != nil {
			return nil, fmt.Errorf("snn: learn rule %q: %w", rule.Name(), err)
		}
		ruleOut := make(map[string]*tensor.Tensor, len(names))
		for i, op := range names {
			ruleOut[op] = values[i]
		}
		out[rule.Name()] = ruleOut
	}
	return out, nil
}

// opsPlan flattens every registered entity's fetches into one deterministic
// fetch list plus the bookkeeping to fold session results back into a
// two-level StepResults mapping.
type opsPlan struct {
	all      []string // every registered entity, ops or not
	entities []string
	opNames  []string
	nodes    []*graph.Node
}

func (m *Model) opsPlan() *opsPlan {
	plan := &opsPlan{}
	for _, nl := range m.neuronLayers {
		plan.add(nl.Name(), nl.Ops())
	}
	for _, conn := range m.connections {
		plan.add(conn.Name(), conn.Ops())
	}
	for _, rule := range m.learningRules {
		plan.add(rule.Name(), rule.Ops())
	}
	return plan
}

func (p *opsPlan) add(entity string, ops map[string]*graph.Node) {
	p.all = append(p.all, entity)
	for _, op := range sortedOpNames(ops) {
		p.entities = append(p.entities, entity)
		p.opNames = append(p.opNames, op)
		p.nodes = append(p.nodes, ops[op])
	}
}

func (p *opsPlan) gather(values []*tensor.Tensor) StepResults {
	results := make(StepResults, len(p.all))
	for _, entity := range p.all {
		results[entity] = make(map[string]*tensor.Tensor)
	}
	for i, entity := range p.entities {
		results[entity][p.opNames[i]] = values[i]
	}
	return results
}

func sortedOpNames(ops map[string]*graph.Node) []string {
	names := make([]string, 0, len(ops))
	for op := range ops {
		names = append(names, op)
	}
	sort.Strings(names)
	return names
}
