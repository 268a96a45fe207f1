// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package compiler translates expression DAGs (package expr) into backend ops.
//
// A Compiler memoizes every compiled node by id: each node is compiled at most once, so a subexpression
// shared by many parents creates its backend ops only once. Compilation is lazy and recursive, triggered
// by the resolution methods (Compile, Output, Operation, Variable, ...).
//
// A Compiler is not safe for concurrent use. Once the graph is complete, Finish transfers the compiled
// elements to a Program, used by package session.
package compiler

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/exprgraph/backends"
	"github.com/gomlx/exprgraph/pkg/core/ids"
	"github.com/gomlx/exprgraph/pkg/expr"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ErrFinished is returned by any method of a Compiler after Finish was called.
var ErrFinished = errors.New("compiler already finished")

// Compiler owns a backend builder and the cache of compiled elements.
type Compiler struct {
	exprs    *expr.Builder
	builder  backends.Builder
	elements map[ids.ID]Element
	order    []ids.ID
	finished bool
}

// New creates a Compiler for the expressions of exprs, using a new backend builder with the given name.
func New(backend backends.Backend, exprs *expr.Builder, name string) *Compiler {
	return NewWithBuilder(backend.Builder(name), exprs)
}

// NewWithBuilder creates a Compiler for the expressions of exprs, over the given backend builder.
func NewWithBuilder(builder backends.Builder, exprs *expr.Builder) *Compiler {
	return &Compiler{
		exprs:    exprs,
		builder:  builder,
		elements: make(map[ids.ID]Element),
	}
}

// Exprs returns the expression builder being compiled.
func (c *Compiler) Exprs() *expr.Builder { return c.exprs }

// Backend returns the backend builder.
func (c *Compiler) Backend() backends.Builder { return c.builder }

// NumElements returns the number of elements compiled so far.
func (c *Compiler) NumElements() int { return len(c.order) }

// Lookup returns the element compiled for id, without compiling it.
func (c *Compiler) Lookup(id ids.ID) (Element, bool) {
	element, found := c.elements[id]
	return element, found
}

// Elements returns the compiled elements, in compilation order.
func (c *Compiler) Elements() []Element {
	elements := make([]Element, len(c.order))
	for ii, id := range c.order {
		elements[ii] = c.elements[id]
	}
	return elements
}

// Compile makes sure all refs are compiled. Compiling an id a second time is a no-op.
func (c *Compiler) Compile(refs ...expr.Ref) error {
	for _, ref := range refs {
		if _, err := c.resolve(ref.ID()); err != nil {
			return err
		}
	}
	return nil
}

// Element returns the compiled element for ref, compiling it if needed.
func (c *Compiler) Element(ref expr.Ref) (Element, error) {
	return c.resolve(ref.ID())
}

// Output returns the backend output of an Operation or of a Variable (its current value).
// It fails with expr.ErrNoReadableOutput for an Optimizer.
func (c *Compiler) Output(ref expr.Ref) (backends.Op, error) {
	return c.output(ref.ID())
}

// Operation returns the compiled Operation for ref. It fails with expr.ErrTypeMismatch for other kinds.
func (c *Compiler) Operation(ref expr.Ref) (*Operation, error) {
	element, err := c.resolve(ref.ID())
	if err != nil {
		return nil, err
	}
	op, ok := element.(*Operation)
	if !ok {
		return nil, kindMismatch(element, OperationKind)
	}
	return op, nil
}

// Variable returns the compiled Variable for ref. It fails with expr.ErrTypeMismatch for other kinds.
func (c *Compiler) Variable(ref expr.Ref) (*Variable, error) {
	element, err := c.resolve(ref.ID())
	if err != nil {
		return nil, err
	}
	v, ok := element.(*Variable)
	if !ok {
		return nil, kindMismatch(element, VariableKind)
	}
	return v, nil
}

// Optimizer returns the compiled Optimizer for ref. It fails with expr.ErrTypeMismatch for other kinds.
func (c *Compiler) Optimizer(ref expr.Ref) (*Optimizer, error) {
	element, err := c.resolve(ref.ID())
	if err != nil {
		return nil, err
	}
	opt, ok := element.(*Optimizer)
	if !ok {
		return nil, kindMismatch(element, OptimizerKind)
	}
	return opt, nil
}

// VariableByRef returns the Variable already compiled for ref. It doesn't compile: it fails with
// expr.ErrUnknownExpression if the variable was not compiled yet.
func (c *Compiler) VariableByRef(ref expr.VariableRef) (*Variable, error) {
	if c.finished {
		return nil, errors.WithStack(ErrFinished)
	}
	element, found := c.elements[ref.ID()]
	if !found {
		return nil, errors.Wrapf(expr.ErrUnknownExpression, "variable %s was not compiled", ref.ID())
	}
	v, ok := element.(*Variable)
	if !ok {
		return nil, kindMismatch(element, VariableKind)
	}
	return v, nil
}

// Program is the frozen result of a Compiler: its compiled elements and the backend session bound to them.
type Program struct {
	// Session is the backend session executing the graph.
	Session backends.Session

	// Name of the backend builder.
	Name string

	elements map[ids.ID]Element
	order    []ids.ID
}

// Lookup returns the element compiled for id.
func (p *Program) Lookup(id ids.ID) (Element, bool) {
	element, found := p.elements[id]
	return element, found
}

// Elements returns the compiled elements, in compilation order.
func (p *Program) Elements() []Element {
	elements := make([]Element, len(p.order))
	for ii, id := range p.order {
		elements[ii] = p.elements[id]
	}
	return elements
}

// Finish ends the build phase: it creates the backend session and moves the compiled elements to the
// returned Program. The Compiler can't be used afterwards.
func (c *Compiler) Finish() (*Program, error) {
	if c.finished {
		return nil, errors.WithStack(ErrFinished)
	}
	session, err := c.builder.NewSession()
	if err != nil {
		return nil, expr.NewBackendError(err, "creating session")
	}
	program := &Program{
		Session:  session,
		Name:     c.builder.Name(),
		elements: c.elements,
		order:    c.order,
	}
	c.finished = true
	c.elements = nil
	c.order = nil
	klog.V(1).Infof("compiler %q finished with %d elements", program.Name, len(program.order))
	return program, nil
}

func kindMismatch(element Element, want ElementKind) error {
	return errors.Wrapf(expr.ErrTypeMismatch, "%s was compiled to a %s, not to a %s", element.ID(), element.Kind(), want)
}

// output resolves id and returns its readable output.
func (c *Compiler) output(id ids.ID) (backends.Op, error) {
	element, err := c.resolve(id)
	if err != nil {
		return nil, err
	}
	switch e := element.(type) {
	case *Operation:
		return e.Op, nil
	case *Variable:
		return e.Output(), nil
	case *Optimizer:
		return nil, errors.Wrapf(expr.ErrNoReadableOutput, "%s: cannot read an optimizer's output", id)
	}
	return nil, errors.Errorf("%s: unknown element type %T", id, element)
}

// resolve returns the element for id, compiling the node on a cache miss.
func (c *Compiler) resolve(id ids.ID) (Element, error) {
	if c.finished {
		return nil, errors.WithStack(ErrFinished)
	}
	if element, found := c.elements[id]; found {
		return element, nil
	}
	node, found := c.exprs.Node(id)
	if !found {
		return nil, errors.Wrapf(expr.ErrUnknownExpression, "%s was not created by the expression builder", id)
	}

	var element Element
	var err error
	panicErr := exceptions.TryCatch[error](func() { element, err = c.compileNode(node) })
	if panicErr != nil {
		err = expr.NewBackendError(panicErr, "compiling "+expr.DescribeNode(node))
	}
	if err != nil {
		return nil, err
	}
	if _, found := c.elements[id]; found {
		// Only possible if the DAG had a cycle, which the append-only builder doesn't allow.
		return nil, errors.Errorf("%s compiled twice", id)
	}
	c.elements[id] = element
	c.order = append(c.order, id)
	klog.V(2).Infof("compiled %s to %s", expr.DescribeNode(node), element.Kind())
	return element, nil
}
