// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package expr

import (
	"sync"
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/exprgraph/pkg/core/ids"
	"github.com/gomlx/exprgraph/pkg/core/shapes"
	"github.com/gomlx/exprgraph/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireTypeMismatch checks that fn panics with an error wrapping ErrTypeMismatch.
func requireTypeMismatch(t *testing.T, fn func()) {
	t.Helper()
	err := exceptions.TryCatch[error](fn)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTypeMismatch), "expected ErrTypeMismatch, got %v", err)
}

func TestConstants(t *testing.T) {
	b := NewBuilderWithSequence(ids.NewSequence(10))
	flat := []float32{1, 2, 3, 4, 5, 6}
	c := Constant(b, flat, 2, 3)
	assert.Equal(t, ids.ID(10), c.ID())
	assert.Equal(t, "(Float32)[2 3]", c.Shape().String())
	assert.Equal(t, KindConstant, c.Node().Kind())
	assert.Empty(t, c.Node().Inputs())

	// Values are copied.
	flat[0] = 100
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, c.Node().(*ConstantNode).Flat)

	s := Scalar(b, int64(7))
	assert.Equal(t, 0, s.Rank())
	assert.Equal(t, dtypes.Int64, s.DType())

	v := Vector(b, []float64{1, 2})
	assert.Equal(t, []int{2}, v.Shape().Dimensions)

	fromValue := ConstantFromValue(b, [][]int32{{1, 2}, {3, 4}})
	assert.Equal(t, "(Int32)[2 2]", fromValue.Shape().String())
	assert.Equal(t, []int32{1, 2, 3, 4}, fromValue.Node().(*ConstantNode).Flat)

	fromTensor := ConstantFromTensor(b, tensors.FromScalar(float32(3)))
	assert.True(t, fromTensor.Shape().IsScalar())

	// Mismatched counts are accepted here, they are reported when compiling.
	bad := Constant(b, []float32{1, 2, 3}, 2, 2)
	assert.Equal(t, 4, bad.Shape().Size())
	assert.Equal(t, 6, b.NumNodes())
}

func TestPlaceholdersAndVariables(t *testing.T) {
	b := NewBuilderWithSequence(ids.NewSequence(1))
	p := b.Placeholder("x", shapes.Make(dtypes.Float32, 3))
	assert.Equal(t, "x", p.Name())
	assert.Equal(t, p.Read().ID(), p.Ref().ID())
	assert.Equal(t, KindPlaceholder, p.Read().Node().Kind())

	initial := Vector(b, []float32{4, 5, 6})
	v := b.Variable("w", initial)
	assert.Equal(t, "w", v.Name())
	assert.Equal(t, "(Float32)[3]", v.Shape().String())
	node := v.Expr().Node().(*VariableNode)
	assert.Equal(t, initial.ID(), node.Initial)
	assert.Equal(t, []ids.ID{initial.ID()}, node.Inputs())

	// Read is memoized: the same Identity node every time.
	read := v.Read()
	assert.Equal(t, read.ID(), v.Read().ID())
	unary := read.Node().(*UnaryNode)
	assert.Equal(t, IdentityFn, unary.Fn)
	assert.Equal(t, v.Expr().ID(), unary.Operand)
	assert.Equal(t, v.Ref().ID(), v.Expr().ID())

	requireTypeMismatch(t, func() { b.Placeholder("bad", shapes.Invalid()) })
	other := NewBuilder()
	requireTypeMismatch(t, func() { other.Variable("foreign", initial) })
}

func TestConcurrentReads(t *testing.T) {
	b := NewBuilder()
	v := b.Variable("w", Scalar(b, float32(1)))
	var wg sync.WaitGroup
	readIDs := make([]ids.ID, 16)
	for ii := range readIDs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			readIDs[ii] = v.Read().ID()
			_ = Add(v.Read(), Scalar(b, float32(ii)))
		}()
	}
	wg.Wait()
	for _, id := range readIDs {
		assert.Equal(t, readIDs[0], id)
	}
}

func TestUnaryFunctions(t *testing.T) {
	b := NewBuilder()
	x := Constant(b, []float32{1, 2, 3, 4}, 2, 2)
	for fn, f := range map[UnaryFn]func(Expr) Expr{
		NegFn: Neg, IdentityFn: Identity, SquareFn: Square, TanhFn: Tanh, ExpFn: Exp, LogFn: Log,
		SigmoidFn: Sigmoid, SqrtFn: Sqrt,
	} {
		y := f(x)
		assert.Equal(t, fn, y.Node().(*UnaryNode).Fn)
		assert.True(t, x.Shape().Equal(y.Shape()), "%s changed the shape to %s", fn, y.Shape())
	}
	assert.True(t, ReduceSum(x).Shape().IsScalar())
	assert.Equal(t, dtypes.Float32, ReduceMean(x).DType())

	// Declared output shapes may differ from the operand.
	declared := UnaryAs(IdentityFn, x, shapes.Make(dtypes.Float32, 4))
	assert.Equal(t, []int{4}, declared.Shape().Dimensions)

	i := Vector(b, []int32{1, 2})
	assert.Equal(t, dtypes.Int32, Neg(i).DType())
	requireTypeMismatch(t, func() { Tanh(i) })
	requireTypeMismatch(t, func() { Neg(Expr{}) })
}

func TestMatMul(t *testing.T) {
	b := NewBuilder()
	lhs := Constant(b, []float32{1, 2, 3, 4, 5, 6}, 2, 3)
	rhs := Constant(b, []float32{1, 2, 3}, 3, 1)
	product := MatMul(lhs, rhs)
	assert.Equal(t, KindBinary, product.Node().Kind())
	assert.Equal(t, []int{2, 1}, product.Shape().Dimensions)

	requireTypeMismatch(t, func() { MatMul(lhs, Vector(b, []float32{1, 2, 3})) })
	requireTypeMismatch(t, func() { MatMul(lhs, Constant(b, []float64{1, 2, 3}, 3, 1)) })
}

func TestElementwise(t *testing.T) {
	b := NewBuilder()
	x := Vector(b, []float32{1, 2, 3})
	y := Vector(b, []float32{4, 5, 6})
	for op, f := range map[ElementwiseOp]func(Expr, Expr) Expr{AddOp: Add, SubOp: Sub, MulOp: Mul, DivOp: Div} {
		z := f(x, y)
		node := z.Node().(*ElementwiseNode)
		assert.Equal(t, op, node.Op)
		assert.Equal(t, []ids.ID{x.ID(), y.ID()}, node.Inputs())
	}

	// Same rank, different dimensions: accepted, the engine decides.
	z := Add(x, Vector(b, []float32{1, 2}))
	assert.Equal(t, []int{3}, z.Shape().Dimensions)

	requireTypeMismatch(t, func() { Add(x, Vector(b, []float64{1, 2, 3})) })
	requireTypeMismatch(t, func() { Mul(x, Scalar(b, float32(2))) })
	other := NewBuilder()
	requireTypeMismatch(t, func() { Add(x, Vector(other, []float32{1, 2, 3})) })

	// Sharing: the same child id referenced by two parents.
	shared := Square(x)
	p1, p2 := Add(shared, y), Sub(y, shared)
	assert.Equal(t, shared.ID(), p1.Node().Inputs()[0])
	assert.Equal(t, shared.ID(), p2.Node().Inputs()[1])
}

func TestScalarLike(t *testing.T) {
	b := NewBuilder()
	for _, dtype := range []dtypes.DType{dtypes.Float16, dtypes.Float32, dtypes.Float64, dtypes.Int32, dtypes.Int64} {
		x := b.Placeholder("x", shapes.Make(dtype, 2))
		s := ScalarLike(x.Read(), 2)
		assert.Equal(t, dtype, s.DType())
		assert.True(t, s.Shape().IsScalar())
	}
}

func TestRandom(t *testing.T) {
	b := NewBuilder()
	r := RandomUniform(b, dtypes.Float64, 3, 2)
	node := r.Node().(*NullaryNode)
	assert.Equal(t, RandomUniformFn, node.Fn)
	assert.Equal(t, "(Float64)[3 2]", r.Shape().String())
	assert.Equal(t, RandomStandardNormalFn, RandomStandardNormal(b, dtypes.Float32).Node().(*NullaryNode).Fn)
	requireTypeMismatch(t, func() { RandomUniform(b, dtypes.Int32, 2) })
}

func TestMinimize(t *testing.T) {
	b := NewBuilder()
	w := b.Variable("w", Vector(b, []float32{1, 2}))
	loss := ReduceSum(Square(w.Read()))
	lr := Scalar(b, float32(0.5))

	update := AdaDelta().LearningRate(lr).Rho(Scalar(b, float32(0.9))).LearningRate(lr).WithName("ada").
		Minimize(loss, w.Ref())
	node := update.Node().(*MinimizeNode)
	assert.Equal(t, AdaDeltaOptimizer, node.Optimizer)
	assert.Equal(t, "ada", node.Name)
	assert.Equal(t, loss.ID(), node.Loss)
	assert.Equal(t, []VariableRef{w.Ref()}, node.Variables)
	require.Len(t, node.Hyperparameters, 2)
	assert.Equal(t, HyperLearningRate, node.Hyperparameters[0].Name)
	assert.Equal(t, HyperRho, node.Hyperparameters[1].Name)
	assert.Len(t, node.Inputs(), 3)
	assert.False(t, update.Shape().Ok())

	assert.Equal(t, AdaDeltaOptimizer, Minimize(loss, w.Ref()).Node().(*MinimizeNode).Optimizer)
	gd := GradientDescent(Expr{}).Minimize(loss, w.Ref()).Node().(*MinimizeNode)
	assert.Equal(t, GradientDescentOptimizer, gd.Optimizer)
	assert.Empty(t, gd.Hyperparameters)
	adam := Adam().Beta1(lr).Beta2(lr).Epsilon(lr).Minimize(loss, w.Ref()).Node().(*MinimizeNode)
	assert.Len(t, adam.Hyperparameters, 3)

	requireTypeMismatch(t, func() { AdaDelta().LearningRate(Vector(b, []float32{1})) })
	requireTypeMismatch(t, func() { Minimize(loss) })
	requireTypeMismatch(t, func() { Minimize(ReduceSum(Vector(b, []int32{1})), w.Ref()) })
}

func TestBuilderNodes(t *testing.T) {
	seq := ids.NewSequence(1)
	b1, b2 := NewBuilderWithSequence(seq), NewBuilderWithSequence(seq)
	x := Scalar(b1, 1.0)
	y := Scalar(b2, 2.0)
	assert.NotEqual(t, x.ID(), y.ID())
	assert.True(t, b1.Has(x.ID()))
	assert.False(t, b1.Has(y.ID()))
	_, found := b2.Node(x.ID())
	assert.False(t, found)

	z := Add(x, Neg(x))
	nodes := b1.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, z.ID(), nodes[2].ID())
	assert.Equal(t, "<invalid expr>", Expr{}.String())
	assert.Contains(t, z.String(), "Elementwise[Add] (Float64)")
}

func TestEnumNames(t *testing.T) {
	assert.Equal(t, "Elementwise", KindElementwise.String())
	assert.Equal(t, "ReduceMean", ReduceMeanFn.String())
	assert.Equal(t, "RandomUniform", RandomUniformFn.String())
	assert.Equal(t, "MatMul", MatMulFn.String())
	assert.Equal(t, "Div", DivOp.String())
	assert.Equal(t, "GradientDescent", GradientDescentOptimizer.String())
	assert.Equal(t, "UnaryFn(99)", UnaryFn(99).String())

	fn, err := UnaryFnString("sigmoid")
	require.NoError(t, err)
	assert.Equal(t, SigmoidFn, fn)
	_, err = UnaryFnString("Cosh")
	require.Error(t, err)
	assert.Len(t, UnaryFnValues(), 10)
	for _, fn := range UnaryFnValues() {
		assert.Equal(t, fn >= TanhFn, fn.FloatOnly(), "%s", fn)
	}

	b := NewBuilder()
	x := Vector(b, []float32{1, 2})
	requireTypeMismatch(t, func() { UnaryAs(UnaryFn(99), x, x.Shape()) })
	requireTypeMismatch(t, func() { Unary(UnaryFn(-1), x) })
}
