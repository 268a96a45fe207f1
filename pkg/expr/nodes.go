// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package expr

import (
	"github.com/gomlx/exprgraph/pkg/core/ids"
	"github.com/gomlx/exprgraph/pkg/core/shapes"
)

// NodeKind enumerates the closed set of node kinds.
type NodeKind int

//go:generate go tool enumer -type=NodeKind -trimprefix=Kind -output=gen_nodekind_enumer.go nodes.go

const (
	KindInvalid NodeKind = iota
	KindConstant
	KindPlaceholder
	KindVariable
	KindNullary
	KindUnary
	KindBinary
	KindElementwise
	KindMinimize
)

// Node is the immutable description of how to produce one tensor value.
//
// The set of implementations is closed: *ConstantNode, *PlaceholderNode, *VariableNode, *NullaryNode,
// *UnaryNode, *BinaryNode, *ElementwiseNode and *MinimizeNode. Consumers use an exhaustive type switch.
type Node interface {
	// ID of the node, unique within its Builder's Sequence.
	ID() ids.ID

	// Kind of the node.
	Kind() NodeKind

	// Shape is the declared dtype and dimensions. MinimizeNode has no output and returns shapes.Invalid().
	Shape() shapes.Shape

	// Inputs are the ids of the child nodes, in a fixed order.
	Inputs() []ids.ID

	isNode()
}

type nodeBase struct {
	id    ids.ID
	shape shapes.Shape
}

func (n *nodeBase) ID() ids.ID          { return n.id }
func (n *nodeBase) Shape() shapes.Shape { return n.shape }
func (n *nodeBase) isNode()             {}

// ConstantNode embeds materialized values: a flat slice of a Go type matching the dtype, in row-major order.
//
// The number of values is not checked against the dimensions here, that is done when compiling.
type ConstantNode struct {
	nodeBase
	Flat any
}

func (n *ConstantNode) Kind() NodeKind   { return KindConstant }
func (n *ConstantNode) Inputs() []ids.ID { return nil }

// PlaceholderNode is a named external-input slot.
type PlaceholderNode struct {
	nodeBase
	Name string
}

func (n *PlaceholderNode) Kind() NodeKind   { return KindPlaceholder }
func (n *PlaceholderNode) Inputs() []ids.ID { return nil }

// VariableNode is a named persistent slot, initialized from the Initial expression.
type VariableNode struct {
	nodeBase
	Name    string
	Initial ids.ID
}

func (n *VariableNode) Kind() NodeKind   { return KindVariable }
func (n *VariableNode) Inputs() []ids.ID { return []ids.ID{n.Initial} }

// NullaryNode is a function parameterized only by its shape, e.g. a random generator.
type NullaryNode struct {
	nodeBase
	Fn NullaryFn
}

func (n *NullaryNode) Kind() NodeKind   { return KindNullary }
func (n *NullaryNode) Inputs() []ids.ID { return nil }

// UnaryNode applies a transform to one operand.
type UnaryNode struct {
	nodeBase
	Fn      UnaryFn
	Operand ids.ID
}

func (n *UnaryNode) Kind() NodeKind   { return KindUnary }
func (n *UnaryNode) Inputs() []ids.ID { return []ids.ID{n.Operand} }

// BinaryNode is a structural binary function, whose operands may differ in rank.
type BinaryNode struct {
	nodeBase
	Fn       BinaryFn
	LHS, RHS ids.ID
}

func (n *BinaryNode) Kind() NodeKind   { return KindBinary }
func (n *BinaryNode) Inputs() []ids.ID { return []ids.ID{n.LHS, n.RHS} }

// ElementwiseNode is an elementwise binary operator over operands of the same dtype and rank.
type ElementwiseNode struct {
	nodeBase
	Op       ElementwiseOp
	LHS, RHS ids.ID
}

func (n *ElementwiseNode) Kind() NodeKind   { return KindElementwise }
func (n *ElementwiseNode) Inputs() []ids.ID { return []ids.ID{n.LHS, n.RHS} }

// Hyperparameter of an optimizer, given as a scalar expression.
type Hyperparameter struct {
	Name  string
	Value ids.ID
}

// MinimizeNode is a terminal node: one optimizer step over Loss, updating Variables.
// It has no readable output.
type MinimizeNode struct {
	nodeBase
	Optimizer OptimizerType

	// Name prefixes the optimizer's slot variables. If empty the lowercased optimizer type is used.
	Name string

	Loss            ids.ID
	Variables       []VariableRef
	Hyperparameters []Hyperparameter
}

func (n *MinimizeNode) Kind() NodeKind { return KindMinimize }

// Inputs returns the loss followed by the hyperparameters. Variables are references, not inputs.
func (n *MinimizeNode) Inputs() []ids.ID {
	inputs := make([]ids.ID, 0, 1+len(n.Hyperparameters))
	inputs = append(inputs, n.Loss)
	for _, hp := range n.Hyperparameters {
		inputs = append(inputs, hp.Value)
	}
	return inputs
}

// NullaryFn enumerates the nullary functions.
type NullaryFn int

//go:generate go tool enumer -type=NullaryFn -linecomment -output=gen_nullaryfn_enumer.go nodes.go

const (
	RandomStandardNormalFn NullaryFn = iota // RandomStandardNormal
	RandomUniformFn                         // RandomUniform
)

// UnaryFn enumerates the unary functions.
type UnaryFn int

//go:generate go tool enumer -type=UnaryFn -linecomment -output=gen_unaryfn_enumer.go nodes.go

const (
	NegFn        UnaryFn = iota // Neg
	IdentityFn                  // Identity
	SquareFn                    // Square
	ReduceSumFn                 // ReduceSum
	ReduceMeanFn                // ReduceMean
	TanhFn                      // Tanh
	ExpFn                       // Exp
	LogFn                       // Log
	SigmoidFn                   // Sigmoid
	SqrtFn                      // Sqrt
)

// IsReduction returns whether the function reduces its operand to a scalar.
func (fn UnaryFn) IsReduction() bool { return fn == ReduceSumFn || fn == ReduceMeanFn }

// FloatOnly returns whether the function is only defined for float operands.
func (fn UnaryFn) FloatOnly() bool { return fn >= TanhFn && fn <= SqrtFn }

// BinaryFn enumerates the structural binary functions.
type BinaryFn int

//go:generate go tool enumer -type=BinaryFn -linecomment -output=gen_binaryfn_enumer.go nodes.go

const (
	MatMulFn BinaryFn = iota // MatMul
)

// ElementwiseOp enumerates the elementwise binary operators.
type ElementwiseOp int

//go:generate go tool enumer -type=ElementwiseOp -linecomment -output=gen_elementwiseop_enumer.go nodes.go

const (
	AddOp ElementwiseOp = iota // Add
	SubOp                      // Sub
	MulOp                      // Mul
	DivOp                      // Div
)

// OptimizerType enumerates the optimizers of a MinimizeNode.
type OptimizerType int

//go:generate go tool enumer -type=OptimizerType -linecomment -output=gen_optimizertype_enumer.go nodes.go

const (
	AdaDeltaOptimizer        OptimizerType = iota // AdaDelta
	GradientDescentOptimizer                      // GradientDescent
	AdamOptimizer                                 // Adam
)
