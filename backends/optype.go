package backends

// OpType is an enum of the operations a Builder can be asked to create.
//
// Backends may create other internal ops (for gradients or optimizer updates) that are not listed here.
type OpType int

//go:generate go tool enumer -type=OpType -trimprefix=OpType -output=gen_optype_enumer.go optype.go

const (
	OpTypeInvalid OpType = iota
	OpTypeConstant
	OpTypePlaceholder
	OpTypeVariableRead
	OpTypeAssign
	OpTypeGroup

	// Nullary generators: they take their shape as a constant vector.

	OpTypeRandomNormal
	OpTypeRandomUniform

	// Unary: elementwise transforms and reductions.

	OpTypeIdentity
	OpTypeNeg
	OpTypeSquare
	OpTypeTanh
	OpTypeExp
	OpTypeLog
	OpTypeSigmoid
	OpTypeSqrt
	OpTypeReduceSum
	OpTypeReduceMean
	OpTypeTranspose
	OpTypeBroadcastTo

	// Binary structural.

	OpTypeMatMul

	// Elementwise binary.

	OpTypeAdd
	OpTypeSub
	OpTypeMul
	OpTypeDiv

	// OpTypeLast should always be kept the last, it is used as a counter/marker.
	OpTypeLast
)

// IsUnary returns whether the op is one of the unary ops accepted by Builder.Unary.
func (op OpType) IsUnary() bool {
	return op >= OpTypeIdentity && op <= OpTypeTranspose
}

// IsElementwiseBinary returns whether the op is one of Add, Sub, Mul or Div.
func (op OpType) IsElementwiseBinary() bool {
	return op >= OpTypeAdd && op <= OpTypeDiv
}

// IsRandom returns whether the op is one of the nullary random generators.
func (op OpType) IsRandom() bool {
	return op == OpTypeRandomNormal || op == OpTypeRandomUniform
}
