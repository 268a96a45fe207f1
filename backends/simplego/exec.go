package simplego

import (
	"math"

	"github.com/gomlx/exprgraph/backends"
	"github.com/gomlx/exprgraph/internal/workerspool"
	"github.com/gomlx/exprgraph/pkg/core/shapes"
	"github.com/gomlx/exprgraph/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"github.com/x448/float16"
	"golang.org/x/exp/constraints"
)

// supportedNumeric are the Go types of the non-half-precision dtypes executed natively.
type supportedNumeric interface {
	float32 | float64 | int32 | int64
}

// number is the constraint of the kernels.
type number interface {
	constraints.Integer | constraints.Float
}

// compute evaluates a stateless node given the values of its inputs.
func compute(workers *workerspool.Pool, node *Node, inputs []*tensors.Tensor) (*tensors.Tensor, error) {
	if node.shape.DType == dtypes.Float16 {
		// Half precision is computed in float32.
		inputs32 := make([]*tensors.Tensor, len(inputs))
		for ii, input := range inputs {
			inputs32[ii] = convertTensor(input, dtypes.Float32)
		}
		node32 := *node
		node32.shape = shapes.Make(dtypes.Float32, node.shape.Dimensions...)
		output32, err := compute(workers, &node32, inputs32)
		if err != nil {
			return nil, err
		}
		return convertTensor(output32, dtypes.Float16), nil
	}

	output := tensors.FromShape(node.shape)
	var err error
	switch node.shape.DType {
	case dtypes.Float32:
		err = computeTyped[float32](workers, node, inputs, output)
	case dtypes.Float64:
		err = computeTyped[float64](workers, node, inputs, output)
	case dtypes.Int32:
		err = computeTyped[int32](workers, node, inputs, output)
	case dtypes.Int64:
		err = computeTyped[int64](workers, node, inputs, output)
	default:
		err = errors.Errorf("dtype %s not supported", node.shape.DType)
	}
	if err != nil {
		return nil, err
	}
	return output, nil
}

func computeTyped[T supportedNumeric](workers *workerspool.Pool, node *Node, inputs []*tensors.Tensor, output *tensors.Tensor) error {
	out := tensors.Flat[T](output)
	opType := node.opType
	switch {
	case opType == backends.OpTypeTranspose:
		transposeKernel(tensors.Flat[T](inputs[0]), inputs[0].Shape().Dimensions, out)
		return nil
	case opType == backends.OpTypeBroadcastTo:
		fillKernel(out, tensors.Flat[T](inputs[0])[0])
		return nil
	case opType.IsUnary():
		return unaryKernel(opType, tensors.Flat[T](inputs[0]), out)
	case opType == backends.OpTypeMatMul:
		lhsDims := inputs[0].Shape().Dimensions
		lhs, rhs, n := tensors.Flat[T](inputs[0]), tensors.Flat[T](inputs[1]), node.shape.Dimensions[1]
		m, k := lhsDims[0], lhsDims[1]
		minRows := max(1, minMatMulOpsPerTask/max(1, k*n))
		workers.ParallelFor(m, minRows, func(start, end int) {
			matMulKernel(lhs[start*k:end*k], rhs, end-start, k, n, out[start*n:end*n])
		})
		return nil
	case opType.IsElementwiseBinary():
		return binaryKernel(opType, tensors.Flat[T](inputs[0]), tensors.Flat[T](inputs[1]), out)
	}
	return errors.Errorf("op %s not implemented", opType)
}

func unaryKernel[T number](opType backends.OpType, operand, out []T) error {
	switch opType {
	case backends.OpTypeIdentity:
		copy(out, operand)
	case backends.OpTypeNeg:
		for ii, x := range operand {
			out[ii] = -x
		}
	case backends.OpTypeSquare:
		for ii, x := range operand {
			out[ii] = x * x
		}
	case backends.OpTypeTanh:
		for ii, x := range operand {
			out[ii] = T(math.Tanh(float64(x)))
		}
	case backends.OpTypeExp:
		for ii, x := range operand {
			out[ii] = T(math.Exp(float64(x)))
		}
	case backends.OpTypeLog:
		for ii, x := range operand {
			out[ii] = T(math.Log(float64(x)))
		}
	case backends.OpTypeSigmoid:
		for ii, x := range operand {
			out[ii] = T(1 / (1 + math.Exp(-float64(x))))
		}
	case backends.OpTypeSqrt:
		for ii, x := range operand {
			out[ii] = T(math.Sqrt(float64(x)))
		}
	case backends.OpTypeReduceSum:
		var sum T
		for _, x := range operand {
			sum += x
		}
		out[0] = sum
	case backends.OpTypeReduceMean:
		if len(operand) == 0 {
			return errors.New("ReduceMean of an empty tensor")
		}
		var sum T
		for _, x := range operand {
			sum += x
		}
		out[0] = sum / T(len(operand))
	default:
		return errors.Errorf("unary op %s not implemented", opType)
	}
	return nil
}

// binaryKernel applies an elementwise op. Either side may be a scalar broadcast to the other.
func binaryKernel[T number](opType backends.OpType, lhs, rhs, out []T) error {
	lhsStride, rhsStride := 1, 1
	if len(lhs) == 1 && len(out) != 1 {
		lhsStride = 0
	}
	if len(rhs) == 1 && len(out) != 1 {
		rhsStride = 0
	}
	switch opType {
	case backends.OpTypeAdd:
		for ii := range out {
			out[ii] = lhs[ii*lhsStride] + rhs[ii*rhsStride]
		}
	case backends.OpTypeSub:
		for ii := range out {
			out[ii] = lhs[ii*lhsStride] - rhs[ii*rhsStride]
		}
	case backends.OpTypeMul:
		for ii := range out {
			out[ii] = lhs[ii*lhsStride] * rhs[ii*rhsStride]
		}
	case backends.OpTypeDiv:
		var zero T
		isInt := T(1)/T(2) == zero
		for ii := range out {
			divisor := rhs[ii*rhsStride]
			if isInt && divisor == zero {
				return errors.New("integer division by zero")
			}
			out[ii] = lhs[ii*lhsStride] / divisor
		}
	default:
		return errors.Errorf("binary op %s not implemented", opType)
	}
	return nil
}

// minMatMulOpsPerTask is the minimum number of multiply-adds of the rows of a matrix multiplication
// handled by one worker.
const minMatMulOpsPerTask = 1 << 16

// matMulKernel multiplies lhs[m, k] by rhs[k, n] into out[m, n].
func matMulKernel[T number](lhs, rhs []T, m, k, n int, out []T) {
	for row := range m {
		outRow := out[row*n : (row+1)*n]
		for ii := range outRow {
			outRow[ii] = 0
		}
		for contract := range k {
			x := lhs[row*k+contract]
			rhsRow := rhs[contract*n : (contract+1)*n]
			for col, y := range rhsRow {
				outRow[col] += x * y
			}
		}
	}
}

// transposeKernel transposes a rank-2 operand.
func transposeKernel[T number](operand []T, dims []int, out []T) {
	rows, cols := dims[0], dims[1]
	for row := range rows {
		for col := range cols {
			out[col*rows+row] = operand[row*cols+col]
		}
	}
}

func fillKernel[T number](out []T, value T) {
	for ii := range out {
		out[ii] = value
	}
}

// convertTensor converts between the float dtypes.
func convertTensor(t *tensors.Tensor, dtype dtypes.DType) *tensors.Tensor {
	if t.DType() == dtype {
		return t
	}
	output := tensors.FromShape(shapes.Make(dtype, t.Shape().Dimensions...))
	for ii, v := range t.Float64s() {
		setFromFloat64(output, ii, v)
	}
	return output
}

// setFromFloat64 sets the element idx of t, converting value to t's dtype.
func setFromFloat64(t *tensors.Tensor, idx int, value float64) {
	switch flat := t.Flat().(type) {
	case []float16.Float16:
		flat[idx] = float16.Fromfloat32(float32(value))
	case []float32:
		flat[idx] = float32(value)
	case []float64:
		flat[idx] = value
	case []int32:
		flat[idx] = int32(value)
	case []int64:
		flat[idx] = int64(value)
	}
}
