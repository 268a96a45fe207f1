// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package expr describes tensor computations as an expression DAG.
//
// Nodes are stored in a Builder, an append-only arena keyed by ids.ID, and manipulated through lightweight
// Expr handles. Copying an Expr shares the node, so the same subexpression can be used by many parents and
// is compiled only once.
//
// Go has no operator overloading, so operators are functions:
//
//	b := expr.NewBuilder()
//	x := b.Placeholder("x", shapes.Make(dtypes.Float32, 3))
//	y := expr.Add(expr.Vector(b, []float32{1, 2, 3}), x.Read())
//
// Invalid constructions panic (GoMLX style) with an error wrapping ErrTypeMismatch. Use
// exceptions.TryCatch[error] to convert those panics to errors.
package expr

import (
	"sync"

	"github.com/gomlx/exprgraph/pkg/core/ids"
	"github.com/pkg/errors"
)

// Builder is the arena holding the nodes of an expression DAG.
//
// It is safe for concurrent use.
type Builder struct {
	seq *ids.Sequence

	mu    sync.RWMutex
	nodes map[ids.ID]Node
	order []ids.ID

	// reads maps variable ids to their memoized Identity read node.
	reads map[ids.ID]ids.ID
}

// NewBuilder creates a Builder drawing its ids from ids.Default.
func NewBuilder() *Builder {
	return NewBuilderWithSequence(ids.Default)
}

// NewBuilderWithSequence creates a Builder drawing its ids from seq. Tests use it for deterministic ids.
//
// Many builders may share a sequence, in which case their ids don't collide.
func NewBuilderWithSequence(seq *ids.Sequence) *Builder {
	if seq == nil {
		panic(errors.New("expr.NewBuilderWithSequence: nil sequence"))
	}
	return &Builder{
		seq:   seq,
		nodes: make(map[ids.ID]Node),
		reads: make(map[ids.ID]ids.ID),
	}
}

// Node returns the node with the given id, if it was created by this Builder.
func (b *Builder) Node(id ids.ID) (Node, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	node, found := b.nodes[id]
	return node, found
}

// Has returns whether the id was created by this Builder.
func (b *Builder) Has(id ids.ID) bool {
	_, found := b.Node(id)
	return found
}

// NumNodes returns the number of nodes created so far.
func (b *Builder) NumNodes() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order)
}

// Nodes returns all nodes in creation order. Since constructors take existing handles, this is also
// a topological order.
func (b *Builder) Nodes() []Node {
	b.mu.RLock()
	defer b.mu.RUnlock()
	nodes := make([]Node, len(b.order))
	for ii, id := range b.order {
		nodes[ii] = b.nodes[id]
	}
	return nodes
}

// add allocates an id, creates the node with newNode and stores it.
func (b *Builder) add(newNode func(base nodeBase) Node, base nodeBase) Expr {
	base.id = b.seq.Next()
	node := newNode(base)
	b.mu.Lock()
	b.nodes[base.id] = node
	b.order = append(b.order, base.id)
	b.mu.Unlock()
	return Expr{builder: b, id: base.id}
}

// checkExprs panics with ErrTypeMismatch if any of the exprs is invalid or belongs to a different builder.
// It returns the common builder.
func checkExprs(opName string, exprs ...Expr) *Builder {
	var b *Builder
	for ii, e := range exprs {
		if !e.Ok() {
			typeMismatchf("%s: operand #%d is not a valid expression", opName, ii)
		}
		if b == nil {
			b = e.builder
		} else if e.builder != b {
			typeMismatchf("%s: operand #%d (%s) was created by a different Builder", opName, ii, e.id)
		}
	}
	return b
}
