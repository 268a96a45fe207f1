package simplego

import (
	"github.com/gomlx/exprgraph/backends"
	"github.com/gomlx/exprgraph/pkg/core/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// isSupportedDType returns whether executors are implemented for the dtype.
func isSupportedDType(dtype dtypes.DType) bool {
	switch dtype {
	case dtypes.Float16, dtypes.Float32, dtypes.Float64, dtypes.Int32, dtypes.Int64:
		return true
	}
	return false
}

// unaryOpShape returns the output shape of a unary op.
func unaryOpShape(opType backends.OpType, operand shapes.Shape) (shapes.Shape, error) {
	if !isSupportedDType(operand.DType) {
		return shapes.Invalid(), errors.Errorf("%s: dtype %s not supported", opType, operand.DType)
	}
	switch opType {
	case backends.OpTypeIdentity, backends.OpTypeNeg, backends.OpTypeSquare:
		return operand.Clone(), nil
	case backends.OpTypeTanh, backends.OpTypeExp, backends.OpTypeLog, backends.OpTypeSigmoid, backends.OpTypeSqrt:
		if !operand.DType.IsFloat() {
			return shapes.Invalid(), errors.Errorf("%s: requires a float operand, got %s", opType, operand)
		}
		return operand.Clone(), nil
	case backends.OpTypeReduceSum, backends.OpTypeReduceMean:
		return shapes.Make(operand.DType), nil
	case backends.OpTypeTranspose:
		if operand.Rank() != 2 {
			return shapes.Invalid(), errors.Errorf("%s: requires a rank-2 operand, got %s", opType, operand)
		}
		return shapes.Make(operand.DType, operand.Dimensions[1], operand.Dimensions[0]), nil
	}
	return shapes.Invalid(), errors.Errorf("%s is not a unary op", opType)
}

// binaryOpShape returns the output shape of MatMul or of an elementwise op.
//
// Elementwise ops take operands of equal shapes, or a scalar and a tensor.
func binaryOpShape(opType backends.OpType, lhs, rhs shapes.Shape) (shapes.Shape, error) {
	if lhs.DType != rhs.DType {
		return shapes.Invalid(), errors.Errorf("%s: operands have different dtypes %s and %s", opType, lhs, rhs)
	}
	if !isSupportedDType(lhs.DType) {
		return shapes.Invalid(), errors.Errorf("%s: dtype %s not supported", opType, lhs.DType)
	}
	if opType == backends.OpTypeMatMul {
		if lhs.Rank() != 2 || rhs.Rank() != 2 {
			return shapes.Invalid(), errors.Errorf("%s: requires rank-2 operands, got %s and %s", opType, lhs, rhs)
		}
		if lhs.Dimensions[1] != rhs.Dimensions[0] {
			return shapes.Invalid(), errors.Errorf("%s: contracting dimensions don't match for %s and %s", opType, lhs, rhs)
		}
		return shapes.Make(lhs.DType, lhs.Dimensions[0], rhs.Dimensions[1]), nil
	}
	if !opType.IsElementwiseBinary() {
		return shapes.Invalid(), errors.Errorf("%s is not a binary op", opType)
	}
	switch {
	case lhs.EqualDimensions(rhs):
		return lhs.Clone(), nil
	case lhs.IsScalar():
		return rhs.Clone(), nil
	case rhs.IsScalar():
		return lhs.Clone(), nil
	}
	return shapes.Invalid(), errors.Errorf("%s: incompatible shapes %s and %s", opType, lhs, rhs)
}
