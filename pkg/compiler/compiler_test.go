// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"testing"

	"github.com/gomlx/exprgraph/backends"
	"github.com/gomlx/exprgraph/internal/backendtest"
	"github.com/gomlx/exprgraph/pkg/core/shapes"
	"github.com/gomlx/exprgraph/pkg/expr"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCompiler(t *testing.T) (*Compiler, *backendtest.Builder, *expr.Builder) {
	counting := backendtest.New(t.Name())
	exprs := expr.NewBuilder()
	return NewWithBuilder(counting, exprs), counting, exprs
}

func TestCompileIsMemoized(t *testing.T) {
	c, counting, b := newTestCompiler(t)
	sum := expr.Add(expr.Vector(b, []float32{1, 2, 3}), expr.Vector(b, []float32{4, 5, 6}))

	require.NoError(t, c.Compile(sum))
	numConstructions := counting.NumConstructions()
	assert.Equal(t, 3, numConstructions)
	assert.Equal(t, 3, c.NumElements())

	op1, err := c.Output(sum)
	require.NoError(t, err)
	require.NoError(t, c.Compile(sum, sum))
	op2, err := c.Output(sum)
	require.NoError(t, err)
	assert.Equal(t, op1, op2)
	assert.Equal(t, numConstructions, counting.NumConstructions())

	operation, err := c.Operation(sum)
	require.NoError(t, err)
	assert.Equal(t, "(Float32)[3]", operation.Shape.String())
	assert.Equal(t, sum.ID(), operation.ID())
}

func TestSharedChildCompiledOnce(t *testing.T) {
	c, counting, b := newTestCompiler(t)
	x := expr.Vector(b, []float32{1, 2})
	y := expr.Vector(b, []float32{3, 4})
	shared := expr.Square(x)
	p1, p2 := expr.Add(shared, y), expr.Sub(y, shared)

	require.NoError(t, c.Compile(p1, p2))
	assert.Equal(t, 2, counting.Count("Constant"))
	assert.Equal(t, 1, counting.Count("Unary"))
	assert.Equal(t, 2, counting.Count("Binary"))

	elements := c.Elements()
	require.Len(t, elements, 5)
	assert.Equal(t, p2.ID(), elements[4].ID())
	_, found := c.Lookup(shared.ID())
	assert.True(t, found)
}

func TestElementViews(t *testing.T) {
	c, counting, b := newTestCompiler(t)
	w := b.Variable("w", expr.Vector(b, []float32{1, 2}))
	loss := expr.ReduceSum(expr.Square(w.Read()))
	update := expr.GradientDescent(expr.Scalar(b, float32(0.1))).Minimize(loss, w.Ref())
	require.NoError(t, c.Compile(update))
	numElements, numConstructions := c.NumElements(), counting.NumConstructions()

	v, err := c.Variable(w.Expr())
	require.NoError(t, err)
	assert.Equal(t, "w", v.Name())
	assert.Equal(t, VariableKind, v.Kind())
	output, err := c.Output(w.Expr())
	require.NoError(t, err)
	assert.Equal(t, v.Output(), output)
	byRef, err := c.VariableByRef(w.Ref())
	require.NoError(t, err)
	assert.Same(t, v, byRef)

	_, err = c.Operation(w.Expr())
	require.True(t, errors.Is(err, expr.ErrTypeMismatch), "got %v", err)
	_, err = c.Variable(loss)
	require.True(t, errors.Is(err, expr.ErrTypeMismatch), "got %v", err)
	_, err = c.VariableByRef(expr.VariableRef(loss.ID()))
	require.True(t, errors.Is(err, expr.ErrTypeMismatch), "got %v", err)
	_, err = c.Output(update)
	require.True(t, errors.Is(err, expr.ErrNoReadableOutput), "got %v", err)
	_, err = c.Operation(update)
	require.True(t, errors.Is(err, expr.ErrTypeMismatch), "got %v", err)

	opt, err := c.Optimizer(update)
	require.NoError(t, err)
	assert.Equal(t, OptimizerKind, opt.Kind())
	require.Len(t, opt.Variables, 1)
	assert.Same(t, v, opt.Variables[0])
	assert.Len(t, opt.Touched, 1)

	// Mismatched requests have no side effects.
	assert.Equal(t, numElements, c.NumElements())
	assert.Equal(t, numConstructions, counting.NumConstructions())
}

func TestUnknownExpressions(t *testing.T) {
	c, _, b := newTestCompiler(t)
	other := expr.NewBuilder()
	foreign := expr.Scalar(other, 1.0)
	_, err := c.Output(foreign)
	require.True(t, errors.Is(err, expr.ErrUnknownExpression), "got %v", err)

	// Optimizer over a variable that was never compiled.
	w := b.Variable("w", expr.Scalar(b, float32(1)))
	c2 := expr.Scalar(b, float32(2))
	loss := expr.Square(c2)
	update := expr.Minimize(loss, w.Ref())
	_, err = c.VariableByRef(w.Ref())
	require.True(t, errors.Is(err, expr.ErrUnknownExpression), "got %v", err)
	err = c.Compile(update)
	require.True(t, errors.Is(err, expr.ErrUnknownExpression), "got %v", err)
	_, found := c.Lookup(update.ID())
	assert.False(t, found)
}

func TestBackendErrors(t *testing.T) {
	c, _, b := newTestCompiler(t)
	badCount := expr.Constant(b, []float32{1, 2, 3}, 2, 2)
	err := c.Compile(badCount)
	require.Error(t, err)
	assert.True(t, expr.IsBackendError(err), "got %v", err)
	assert.Contains(t, err.Error(), "require 4")
	_, found := c.Lookup(badCount.ID())
	assert.False(t, found)

	mismatched := expr.Add(expr.Vector(b, []float32{1, 2, 3}), expr.Vector(b, []float32{1, 2}))
	err = c.Compile(mismatched)
	var backendErr *expr.BackendError
	require.True(t, errors.As(err, &backendErr), "got %v", err)
	assert.Contains(t, backendErr.Context, "Elementwise[Add]")
	assert.Contains(t, backendErr.Unwrap().Error(), "incompatible shapes")

	ints := expr.Constant(b, []int{1, 2}, 2)
	assert.True(t, expr.IsBackendError(c.Compile(ints)))

	// Errors propagate to parents, and the compiler keeps working.
	parent := expr.Neg(mismatched)
	assert.True(t, expr.IsBackendError(c.Compile(parent)))
	require.NoError(t, c.Compile(expr.Scalar(b, 1.0)))
}

func TestCompileRandomAndFunctions(t *testing.T) {
	c, counting, b := newTestCompiler(t)
	r := expr.RandomUniform(b, dtypes.Float32, 2, 3)
	product := expr.MatMul(r, expr.Constant(b, []float32{1, 1, 1}, 3, 1))
	y := expr.Sigmoid(expr.Tanh(product))
	require.NoError(t, c.Compile(y))
	assert.Equal(t, 1, counting.Count("Random"))
	assert.Equal(t, 2, counting.Count("Constant"))
	operation, err := c.Operation(y)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, operation.Shape.Dimensions)

	scalarNormal := expr.RandomStandardNormal(b, dtypes.Float64)
	operation, err = c.Operation(scalarNormal)
	require.NoError(t, err)
	assert.True(t, operation.Shape.IsScalar())

	p := b.Placeholder("p", shapes.Make(dtypes.Float32, 2, 1))
	require.NoError(t, c.Compile(expr.Div(y, p.Read())))
	assert.Equal(t, 1, counting.Count("Placeholder"))
}

func TestFinish(t *testing.T) {
	c, counting, b := newTestCompiler(t)
	x := expr.Vector(b, []float64{1, 2})
	require.NoError(t, c.Compile(x))

	program, err := c.Finish()
	require.NoError(t, err)
	require.NotNil(t, program.Session)
	assert.Equal(t, t.Name(), program.Name)
	assert.Equal(t, 1, counting.Count("NewSession"))
	element, found := program.Lookup(x.ID())
	require.True(t, found)
	assert.Equal(t, OperationKind, element.Kind())
	assert.Len(t, program.Elements(), 1)

	results, err := program.Session.Run(nil, []backends.Op{element.(*Operation).Op}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, results[0].Value())

	_, err = c.Finish()
	require.True(t, errors.Is(err, ErrFinished))
	require.True(t, errors.Is(c.Compile(x), ErrFinished))
	_, err = c.VariableByRef(expr.VariableRef(x.ID()))
	require.True(t, errors.Is(err, ErrFinished))
}
