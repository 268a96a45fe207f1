// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"github.com/gomlx/exprgraph/backends"
	"github.com/gomlx/exprgraph/pkg/core/shapes"
)

// Variable implements backends.Variable. Its value lives in each Session's storage.
type Variable struct {
	name    string
	shape   shapes.Shape
	builder *Builder

	// read is the OpTypeVariableRead node, initializer the OpTypeAssign node of the initial value.
	read, initializer *Node
}

var _ backends.Variable = (*Variable)(nil)

// Name implements backends.Variable.
func (v *Variable) Name() string { return v.name }

// Shape implements backends.Variable.
func (v *Variable) Shape() shapes.Shape { return v.shape }

// Output implements backends.Variable.
func (v *Variable) Output() backends.Op { return v.read }

// Initializer implements backends.Variable.
func (v *Variable) Initializer() backends.Op { return v.initializer }

// String implements fmt.Stringer.
func (v *Variable) String() string { return v.name + v.shape.String() }

// assign creates a node that, when executed, stores value in the variable.
func (v *Variable) assign(value *Node) *Node {
	n := v.builder.newNode(backends.OpTypeAssign, shapes.Invalid(), value)
	n.data = v
	return n
}
