// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package expr

import (
	"slices"

	"github.com/gomlx/exprgraph/pkg/core/shapes"
	"github.com/gomlx/exprgraph/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"
)

// Constant creates a constant with the flat values in row-major order and the given dimensions.
// flat is copied.
//
// The number of values is only checked against the dimensions when the constant is compiled.
func Constant[T dtypes.Supported](b *Builder, flat []T, dimensions ...int) Expr {
	dtype := dtypes.FromGenericsType[T]()
	return b.add(func(base nodeBase) Node {
		return &ConstantNode{nodeBase: base, Flat: slices.Clone(flat)}
	}, nodeBase{shape: shapes.Make(dtype, dimensions...)})
}

// Scalar creates a scalar constant.
func Scalar[T dtypes.Supported](b *Builder, value T) Expr {
	return Constant(b, []T{value})
}

// Vector creates a rank-1 constant.
func Vector[T dtypes.Supported](b *Builder, values []T) Expr {
	return Constant(b, values, len(values))
}

// ConstantFromTensor creates a constant with a copy of the tensor's values.
func ConstantFromTensor(b *Builder, t *tensors.Tensor) Expr {
	shape := t.Shape()
	return b.add(func(base nodeBase) Node {
		return &ConstantNode{nodeBase: base, Flat: t.Clone().Flat()}
	}, nodeBase{shape: shape.Clone()})
}

// ConstantFromValue creates a constant from a Go scalar or (nested) slice, see tensors.FromAnyValue.
func ConstantFromValue(b *Builder, value any) Expr {
	return ConstantFromTensor(b, tensors.FromAnyValue(value))
}

// Placeholder creates a named input slot. It must be fed a value of the given shape on every run that uses it.
func (b *Builder) Placeholder(name string, shape shapes.Shape) Placeholder {
	if !shape.Ok() {
		typeMismatchf("Placeholder(%q): invalid shape", name)
	}
	e := b.add(func(base nodeBase) Node {
		return &PlaceholderNode{nodeBase: base, Name: name}
	}, nodeBase{shape: shape.Clone()})
	return Placeholder{expr: e, name: name}
}

// Variable creates a named persistent variable with the shape of initial, which provides its initial value.
func (b *Builder) Variable(name string, initial Expr) Variable {
	if checkExprs("Variable("+name+")", initial) != b {
		typeMismatchf("Variable(%q): initial value was created by a different Builder", name)
	}
	shape := initial.Shape()
	if !shape.Ok() {
		typeMismatchf("Variable(%q): initial value %s has no output", name, initial.id)
	}
	e := b.add(func(base nodeBase) Node {
		return &VariableNode{nodeBase: base, Name: name, Initial: initial.id}
	}, nodeBase{shape: shape.Clone()})
	return Variable{expr: e, name: name}
}

func random(b *Builder, fn NullaryFn, dtype dtypes.DType, dimensions []int) Expr {
	if !dtype.IsFloat() {
		typeMismatchf("%s: dtype must be a float, got %s", fn, dtype)
	}
	return b.add(func(base nodeBase) Node {
		return &NullaryNode{nodeBase: base, Fn: fn}
	}, nodeBase{shape: shapes.Make(dtype, dimensions...)})
}

// RandomStandardNormal creates a generator of normally distributed values with mean 0 and standard deviation 1.
// A new value is generated on every run.
func RandomStandardNormal(b *Builder, dtype dtypes.DType, dimensions ...int) Expr {
	return random(b, RandomStandardNormalFn, dtype, dimensions)
}

// RandomUniform creates a generator of uniformly distributed values in [0, 1).
// A new value is generated on every run.
func RandomUniform(b *Builder, dtype dtypes.DType, dimensions ...int) Expr {
	return random(b, RandomUniformFn, dtype, dimensions)
}
