// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"github.com/gomlx/exprgraph/backends"
	"github.com/gomlx/exprgraph/pkg/core/ids"
	"github.com/gomlx/exprgraph/pkg/core/shapes"
)

// ElementKind enumerates the kinds of compiled elements.
type ElementKind int

//go:generate go tool enumer -type=ElementKind -linecomment -output=gen_elementkind_enumer.go elements.go

const (
	OperationKind ElementKind = iota // Operation
	VariableKind                     // Variable
	OptimizerKind                    // Optimizer
)

// Element is the result of compiling one expression node: *Operation, *Variable or *Optimizer.
type Element interface {
	// ID of the expression node compiled.
	ID() ids.ID

	// Kind of the element.
	Kind() ElementKind

	isElement()
}

// Operation is a stateless computed value, with one output.
type Operation struct {
	id ids.ID

	// Op is the backend output.
	Op backends.Op

	// Shape as computed by the backend.
	Shape shapes.Shape
}

func (e *Operation) ID() ids.ID        { return e.id }
func (e *Operation) Kind() ElementKind { return OperationKind }
func (e *Operation) isElement()        {}

// Variable is a stateful slot. It exposes its current value as output and an initializer target.
type Variable struct {
	id ids.ID

	// Backend variable.
	Backend backends.Variable
}

func (e *Variable) ID() ids.ID        { return e.id }
func (e *Variable) Kind() ElementKind { return VariableKind }
func (e *Variable) isElement()        {}

// Name of the variable.
func (e *Variable) Name() string { return e.Backend.Name() }

// Shape of the variable.
func (e *Variable) Shape() shapes.Shape { return e.Backend.Shape() }

// Output reads the current value of the variable.
func (e *Variable) Output() backends.Op { return e.Backend.Output() }

// Initializer assigns the initial value to the variable, when used as a target.
func (e *Variable) Initializer() backends.Op { return e.Backend.Initializer() }

// Optimizer is an update step bound to the variables it updates. It has no readable output.
type Optimizer struct {
	id ids.ID

	// Update is the op to use as a target to run one step.
	Update backends.Op

	// Variables are the compiled variables given to the optimizer.
	Variables []*Variable

	// Touched are all backend variables the update reads or writes, including the optimizer slots.
	// All of them must be initialized before the update runs.
	Touched []backends.Variable
}

func (e *Optimizer) ID() ids.ID        { return e.id }
func (e *Optimizer) Kind() ElementKind { return OptimizerKind }
func (e *Optimizer) isElement()        {}
