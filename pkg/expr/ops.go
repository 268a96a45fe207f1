package expr

import (
	"github.com/gomlx/exprgraph/pkg/core/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/x448/float16"
)

// Unary applies fn to x. The output has the shape of x, or is a scalar for reductions.
func Unary(fn UnaryFn, x Expr) Expr {
	checkExprs(fn.String(), x)
	shape := x.Shape()
	if !shape.Ok() {
		typeMismatchf("%s: operand %s has no output", fn, x.id)
	}
	if fn.FloatOnly() && !shape.DType.IsFloat() {
		typeMismatchf("%s: operand must be a float, got %s", fn, shape)
	}
	if fn.IsReduction() {
		shape = shapes.Make(shape.DType)
	}
	return UnaryAs(fn, x, shape)
}

// UnaryAs applies fn to x, declaring the output shape explicitly.
//
// The declared shape is not checked here: if it differs from what the engine computes, fetched values
// carry the engine's shape.
func UnaryAs(fn UnaryFn, x Expr, output shapes.Shape) Expr {
	b := checkExprs(fn.String(), x)
	if !fn.IsAUnaryFn() {
		typeMismatchf("unknown unary function %s", fn)
	}
	return b.add(func(base nodeBase) Node {
		return &UnaryNode{nodeBase: base, Fn: fn, Operand: x.id}
	}, nodeBase{shape: output.Clone()})
}

// Neg returns -x.
func Neg(x Expr) Expr { return Unary(NegFn, x) }

// Identity returns x. It is mostly useful to create a new node with the same value.
func Identity(x Expr) Expr { return Unary(IdentityFn, x) }

// Square returns x².
func Square(x Expr) Expr { return Unary(SquareFn, x) }

// ReduceSum returns the scalar sum of all elements of x.
func ReduceSum(x Expr) Expr { return Unary(ReduceSumFn, x) }

// ReduceMean returns the scalar mean of all elements of x.
func ReduceMean(x Expr) Expr { return Unary(ReduceMeanFn, x) }

// Tanh returns the hyperbolic tangent of x.
func Tanh(x Expr) Expr { return Unary(TanhFn, x) }

// Exp returns e^x.
func Exp(x Expr) Expr { return Unary(ExpFn, x) }

// Log returns the natural logarithm of x.
func Log(x Expr) Expr { return Unary(LogFn, x) }

// Sigmoid returns 1/(1+e^-x).
func Sigmoid(x Expr) Expr { return Unary(SigmoidFn, x) }

// Sqrt returns the square root of x.
func Sqrt(x Expr) Expr { return Unary(SqrtFn, x) }

// MatMul returns the matrix product of lhs [m, k] and rhs [k, n], with shape [m, n].
//
// Operand ranks are checked, their contracting dimensions are checked by the engine.
func MatMul(lhs, rhs Expr) Expr {
	b := checkExprs("MatMul", lhs, rhs)
	lhsShape, rhsShape := lhs.Shape(), rhs.Shape()
	if lhsShape.DType != rhsShape.DType {
		typeMismatchf("MatMul: operands have different dtypes %s and %s", lhsShape.DType, rhsShape.DType)
	}
	if lhsShape.Rank() != 2 || rhsShape.Rank() != 2 {
		typeMismatchf("MatMul: operands must have rank 2, got %s and %s", lhsShape, rhsShape)
	}
	output := shapes.Make(lhsShape.DType, lhsShape.Dimensions[0], rhsShape.Dimensions[1])
	return b.add(func(base nodeBase) Node {
		return &BinaryNode{nodeBase: base, Fn: MatMulFn, LHS: lhs.id, RHS: rhs.id}
	}, nodeBase{shape: output})
}

// Elementwise applies op to lhs and rhs. Both must have the same dtype and rank.
//
// Dimensions are not compared: a mismatch is reported by the engine when compiling.
func Elementwise(op ElementwiseOp, lhs, rhs Expr) Expr {
	b := checkExprs(op.String(), lhs, rhs)
	lhsShape, rhsShape := lhs.Shape(), rhs.Shape()
	if !lhsShape.Ok() || !rhsShape.Ok() {
		typeMismatchf("%s: operands %s and %s must have an output", op, lhs.id, rhs.id)
	}
	if lhsShape.DType != rhsShape.DType {
		typeMismatchf("%s: operands have different dtypes %s and %s", op, lhsShape.DType, rhsShape.DType)
	}
	if lhsShape.Rank() != rhsShape.Rank() {
		typeMismatchf("%s: operands have different ranks %d and %d", op, lhsShape.Rank(), rhsShape.Rank())
	}
	return b.add(func(base nodeBase) Node {
		return &ElementwiseNode{nodeBase: base, Op: op, LHS: lhs.id, RHS: rhs.id}
	}, nodeBase{shape: lhsShape.Clone()})
}

// Add returns lhs + rhs.
func Add(lhs, rhs Expr) Expr { return Elementwise(AddOp, lhs, rhs) }

// Sub returns lhs - rhs.
func Sub(lhs, rhs Expr) Expr { return Elementwise(SubOp, lhs, rhs) }

// Mul returns lhs * rhs.
func Mul(lhs, rhs Expr) Expr { return Elementwise(MulOp, lhs, rhs) }

// Div returns lhs / rhs.
func Div(lhs, rhs Expr) Expr { return Elementwise(DivOp, lhs, rhs) }

// ScalarLike returns a scalar constant with the dtype of x. It is useful for hyperparameters.
func ScalarLike(x Expr, value float64) Expr {
	b := checkExprs("ScalarLike", x)
	switch x.DType() {
	case dtypes.Float16:
		return Scalar(b, float16.Fromfloat32(float32(value)))
	case dtypes.Float32:
		return Scalar(b, float32(value))
	case dtypes.Float64:
		return Scalar(b, value)
	case dtypes.Int32:
		return Scalar(b, int32(value))
	case dtypes.Int64:
		return Scalar(b, int64(value))
	}
	typeMismatchf("ScalarLike: unsupported dtype %s", x.DType())
	return Expr{}
}
