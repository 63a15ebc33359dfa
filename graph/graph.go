// Copyright 2025 Spikeflow ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph provides the public API for the deferred computation-graph
// engine: build a node graph once, then evaluate it repeatedly through
// sessions with per-run variable state.
//
// Example:
//
//	g := graph.New()
//	x := g.Placeholder("x", tensor.Shape{1, 4})
//	y := g.MulScalar(x, 2)
//
//	sess := graph.NewSession(g)
//	defer sess.Close()
//	sess.InitVariables()
//	out, err := sess.Run([]*graph.Node{y}, graph.Feed{x: frame})
package graph

import (
	"github.com/spikeflow-ml/spikeflow/internal/graph"
)

// Graph is a static directed acyclic graph of operations.
type Graph = graph.Graph

// Node is one operation in a Graph.
type Node = graph.Node

// Op identifies the operation a Node performs.
type Op = graph.Op

// Session evaluates a Graph with per-run variable state.
type Session = graph.Session

// Feed maps placeholder nodes to the values fed for one Run call.
type Feed = graph.Feed

// Session evaluation errors.
var (
	ErrSessionClosed = graph.ErrSessionClosed
	ErrUninitialized = graph.ErrUninitialized
)

// New creates an empty graph.
func New() *Graph {
	return graph.New()
}

// NewSession creates a session for the given graph.
func NewSession(g *Graph) *Session {
	return graph.NewSession(g)
}
