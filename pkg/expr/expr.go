// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package expr

import (
	"github.com/gomlx/exprgraph/pkg/core/ids"
	"github.com/gomlx/exprgraph/pkg/core/shapes"
	"github.com/gomlx/gopjrt/dtypes"
)

// Ref is anything identifying a node by its id: Expr, PlaceholderRef and VariableRef.
type Ref interface {
	ID() ids.ID
}

// Expr is a handle to a node of a Builder. It is a small value, copy it freely: copies refer to the same node.
//
// The zero value is invalid.
type Expr struct {
	builder *Builder
	id      ids.ID
}

// ID of the node.
func (e Expr) ID() ids.ID { return e.id }

// Builder that owns the node.
func (e Expr) Builder() *Builder { return e.builder }

// Ok returns whether the handle refers to a node.
func (e Expr) Ok() bool { return e.builder != nil && e.id.IsValid() }

// Node returns the node referred to. It panics for an invalid handle.
func (e Expr) Node() Node {
	if !e.Ok() {
		typeMismatchf("invalid expression handle")
	}
	node, _ := e.builder.Node(e.id)
	return node
}

// Shape returns the declared shape of the node.
func (e Expr) Shape() shapes.Shape { return e.Node().Shape() }

// DType returns the declared dtype of the node.
func (e Expr) DType() dtypes.DType { return e.Shape().DType }

// Rank returns the declared rank of the node.
func (e Expr) Rank() int { return e.Shape().Rank() }

// String implements fmt.Stringer, using the same format as Builder.Describe for one node.
func (e Expr) String() string {
	if !e.Ok() {
		return "<invalid expr>"
	}
	return DescribeNode(e.Node())
}

// PlaceholderRef is the lightweight reference to a placeholder, used to feed it.
type PlaceholderRef ids.ID

// ID implements Ref.
func (r PlaceholderRef) ID() ids.ID { return ids.ID(r) }

// VariableRef is the lightweight reference to a variable, used by optimizers and initializers.
type VariableRef ids.ID

// ID implements Ref.
func (r VariableRef) ID() ids.ID { return ids.ID(r) }

// Placeholder is the handle returned by Builder.Placeholder.
type Placeholder struct {
	expr Expr
	name string
}

// Read returns the expression with the fed value.
func (p Placeholder) Read() Expr { return p.expr }

// Ref returns the reference used to feed the placeholder.
func (p Placeholder) Ref() PlaceholderRef { return PlaceholderRef(p.expr.id) }

// Name of the placeholder.
func (p Placeholder) Name() string { return p.name }

// Shape of the placeholder.
func (p Placeholder) Shape() shapes.Shape { return p.expr.Shape() }

// Variable is the handle returned by Builder.Variable.
type Variable struct {
	expr Expr
	name string
}

// Expr returns the raw variable node. It compiles to a variable element, which can't be fetched.
// Use Read to use the variable's value in computations.
func (v Variable) Expr() Expr { return v.expr }

// Ref returns the reference used by optimizers and initializers.
func (v Variable) Ref() VariableRef { return VariableRef(v.expr.id) }

// Name of the variable.
func (v Variable) Name() string { return v.name }

// Shape of the variable.
func (v Variable) Shape() shapes.Shape { return v.expr.Shape() }

// Read returns an expression with the current value of the variable.
//
// It is an Identity over the variable node, created on the first call: all calls return the same expression.
func (v Variable) Read() Expr {
	b := v.expr.builder
	if b == nil {
		typeMismatchf("Variable.Read: invalid variable handle")
	}
	b.mu.RLock()
	readID, found := b.reads[v.expr.id]
	b.mu.RUnlock()
	if found {
		return Expr{builder: b, id: readID}
	}
	read := Identity(v.expr)
	b.mu.Lock()
	defer b.mu.Unlock()
	if readID, found = b.reads[v.expr.id]; found {
		// Another goroutine won: the extra Identity node is left unused.
		return Expr{builder: b, id: readID}
	}
	b.reads[v.expr.id] = read.id
	return read
}
