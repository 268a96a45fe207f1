package simplego

import (
	"reflect"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/exprgraph/backends"
	"github.com/gomlx/exprgraph/pkg/core/shapes"
	"github.com/gomlx/exprgraph/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"
	"k8s.io/klog/v2"
)

// Builder keeps track of the computation graph being defined.
type Builder struct {
	name    string
	backend *Backend

	// sealed is set once a session was created: no more nodes can be added.
	sealed bool

	// nodes are only created when their inputs have already been created. So this is a natural DAG (Directed Acyclic Graph)
	// ordering of the graph. The session relies on this invariance.
	nodes []*Node

	variables []*Variable
}

// Compile-time check.
var _ backends.Builder = (*Builder)(nil)

// Name implements backends.Builder.
func (b *Builder) Name() string {
	return b.name
}

// NumNodes returns the number of nodes created so far, including internal ones.
func (b *Builder) NumNodes() int {
	return len(b.nodes)
}

// Node in the SimpleGo computation graph.
type Node struct {
	// builderIdx in Builder.nodes
	builderIdx int
	inputs     []*Node

	opType  backends.OpType
	shape   shapes.Shape
	builder *Builder

	// data for the specific node type:
	//
	//   - OpTypeConstant: *tensors.Tensor with the value.
	//   - OpTypePlaceholder: string with the name.
	//   - OpTypeVariableRead, OpTypeAssign: *Variable.
	data any
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	return n.opType.String() + n.shape.String()
}

// newNode adds a new node of the given opType and shape to the Builder graph.
// It's used by the other ops when creating new nodes.
func (b *Builder) newNode(opType backends.OpType, shape shapes.Shape, inputs ...*Node) *Node {
	n := &Node{
		builder:    b,
		opType:     opType,
		builderIdx: len(b.nodes),
		shape:      shape,
		inputs:     slices.Clone(inputs),
	}
	b.nodes = append(b.nodes, n)
	return n
}

// checkOps validates that the ops are from SimpleGo and from this builder.
// It also checks that no session was created yet.
func (b *Builder) checkOps(opName string, ops ...backends.Op) []*Node {
	if b == nil {
		exceptions.Panicf("%s: Builder is nil (!?), cannot build a graph", opName)
	}
	if b.sealed {
		exceptions.Panicf("cannot add new op (%s) to Builder %q, a session was already created for it", opName, b.name)
	}
	return b.toNodes(opName, ops...)
}

// toNodes converts ops to nodes, checking they belong to this builder.
func (b *Builder) toNodes(opName string, ops ...backends.Op) []*Node {
	nodes := make([]*Node, len(ops))
	var ok bool
	for idx, op := range ops {
		if op == nil {
			exceptions.Panicf("%s: input op #%d is nil!?", opName, idx)
		}
		nodes[idx], ok = op.(*Node)
		if !ok {
			exceptions.Panicf("cannot use input op #%d (%T) in backend %q that was created on a different backend for %s",
				idx, op, b.backend.Name(), opName)
		}
		if nodes[idx].builder != b {
			exceptions.Panicf("%s: input op #%d was created with a different builder (%q), cannot use it with builder %q",
				opName, idx, nodes[idx].builder.name, b.name)
		}
	}
	return nodes
}

// catch converts the exceptions thrown while building into returned errors.
func catch[T any](fn func() T) (result T, err error) {
	err = exceptions.TryCatch[error](func() { result = fn() })
	return
}

// OpShape returns the shape of a computation Op.
func (b *Builder) OpShape(op backends.Op) (shapes.Shape, error) {
	return catch(func() shapes.Shape {
		return b.toNodes("OpShape", op)[0].shape
	})
}

// Constant implements backends.Builder.
func (b *Builder) Constant(flat any, dimensions ...int) (backends.Op, error) {
	return catch(func() backends.Op {
		b.checkOps("Constant")
		return b.addConstant(flat, dimensions...)
	})
}

func (b *Builder) addConstant(flat any, dimensions ...int) *Node {
	dtype, flatLen := checkFlat(flat)
	if !isSupportedDType(dtype) {
		exceptions.Panicf("Constant: dtype %s not supported by backend %q", dtype, BackendName)
	}
	for _, dim := range dimensions {
		if dim < 0 {
			exceptions.Panicf("Constant: negative dimension in %v", dimensions)
		}
	}
	shape := shapes.Make(dtype, dimensions...)
	if flatLen != shape.Size() {
		exceptions.Panicf("Constant: flat values has %d elements, but dimensions %v require %d",
			flatLen, dimensions, shape.Size())
	}
	value := tensors.FromShape(shape)
	reflect.Copy(reflect.ValueOf(value.Flat()), reflect.ValueOf(flat))
	n := b.newNode(backends.OpTypeConstant, shape)
	n.data = value
	return n
}

// scalarConstant creates a scalar constant of the given dtype from a float64 value.
func (b *Builder) scalarConstant(dtype dtypes.DType, value float64) *Node {
	t := tensors.FromShape(shapes.Make(dtype))
	setFromFloat64(t, 0, value)
	n := b.newNode(backends.OpTypeConstant, t.Shape())
	n.data = t
	return n
}

// zerosConstant creates a constant filled with zeros.
func (b *Builder) zerosConstant(shape shapes.Shape) *Node {
	n := b.newNode(backends.OpTypeConstant, shape)
	n.data = tensors.FromShape(shape)
	return n
}

// checkFlat throws an exception if flat is not a slice of one of the dtypes supported.
// It returns the supported dtype and the length of the flat slice.
func checkFlat(flat any) (dtypes.DType, int) {
	flatType := reflect.TypeOf(flat)
	if flatType == nil || flatType.Kind() != reflect.Slice {
		exceptions.Panicf("flat data should be a slice, got %T", flat)
	}
	dtype := dtypes.FromGoType(flatType.Elem())
	if dtype == dtypes.InvalidDType {
		exceptions.Panicf("flat is a slice of %s, not a valid data type", flatType.Elem())
	}
	if flatType.Elem().Kind() == reflect.Int {
		exceptions.Panicf("flat is a slice of int, use int32 or int64 explicitly")
	}
	return dtype, reflect.ValueOf(flat).Len()
}

// Placeholder implements backends.Builder.
func (b *Builder) Placeholder(name string, shape shapes.Shape) (backends.Op, error) {
	return catch(func() backends.Op {
		b.checkOps("Placeholder")
		checkShape("Placeholder", shape)
		n := b.newNode(backends.OpTypePlaceholder, shape.Clone())
		n.data = name
		return n
	})
}

func checkShape(opName string, shape shapes.Shape) {
	if !shape.Ok() {
		exceptions.Panicf("%s: invalid shape", opName)
	}
	if !isSupportedDType(shape.DType) {
		exceptions.Panicf("%s: dtype %s not supported by backend %q", opName, shape.DType, BackendName)
	}
}

// Variable implements backends.Builder.
func (b *Builder) Variable(name string, shape shapes.Shape, initialValue backends.Op) (backends.Variable, error) {
	return catch(func() backends.Variable {
		initial := b.checkOps("Variable", initialValue)[0]
		checkShape("Variable", shape)
		if !initial.shape.Equal(shape) {
			exceptions.Panicf("Variable %q of shape %s: initial value has shape %s", name, shape, initial.shape)
		}
		return b.addVariable(name, shape, initial)
	})
}

func (b *Builder) addVariable(name string, shape shapes.Shape, initial *Node) *Variable {
	v := &Variable{name: name, shape: shape.Clone(), builder: b}
	v.read = b.newNode(backends.OpTypeVariableRead, v.shape)
	v.read.data = v
	v.initializer = b.newNode(backends.OpTypeAssign, shapes.Invalid(), initial)
	v.initializer.data = v
	b.variables = append(b.variables, v)
	klog.V(2).Infof("%s: created variable %q %s", b.name, name, shape)
	return v
}

// Random implements backends.Builder.
func (b *Builder) Random(opType backends.OpType, shapeOp backends.Op, dtype dtypes.DType) (backends.Op, error) {
	return catch(func() backends.Op {
		shapeNode := b.checkOps(opType.String(), shapeOp)[0]
		if !opType.IsRandom() {
			exceptions.Panicf("Random: %s is not a random generator op", opType)
		}
		if !dtype.IsFloat() || !isSupportedDType(dtype) {
			exceptions.Panicf("%s: dtype must be a supported float, got %s", opType, dtype)
		}
		if shapeNode.opType != backends.OpTypeConstant || shapeNode.shape.DType != dtypes.Int64 || shapeNode.shape.Rank() != 1 {
			exceptions.Panicf("%s: shape must be given as a constant Int64 vector, got %s", opType, shapeNode)
		}
		dims := tensors.Flat[int64](shapeNode.data.(*tensors.Tensor))
		intDims := make([]int, len(dims))
		for ii, dim := range dims {
			if dim < 0 {
				exceptions.Panicf("%s: negative dimension in %v", opType, dims)
			}
			intDims[ii] = int(dim)
		}
		return b.newNode(opType, shapes.Make(dtype, intDims...), shapeNode)
	})
}

// Unary implements backends.Builder.
func (b *Builder) Unary(opType backends.OpType, operand backends.Op) (backends.Op, error) {
	return catch(func() backends.Op {
		if !opType.IsUnary() {
			exceptions.Panicf("Unary: %s is not a unary op", opType)
		}
		return b.addUnaryOp(opType, b.checkOps(opType.String(), operand)[0])
	})
}

// addUnaryOp adds a generic unary op.
func (b *Builder) addUnaryOp(opType backends.OpType, operand *Node) *Node {
	shape, err := unaryOpShape(opType, operand.shape)
	if err != nil {
		panic(err)
	}
	return b.newNode(opType, shape, operand)
}

// Binary implements backends.Builder.
func (b *Builder) Binary(opType backends.OpType, lhs, rhs backends.Op) (backends.Op, error) {
	return catch(func() backends.Op {
		if opType != backends.OpTypeMatMul && !opType.IsElementwiseBinary() {
			exceptions.Panicf("Binary: %s is not a binary op", opType)
		}
		inputs := b.checkOps(opType.String(), lhs, rhs)
		return b.addBinaryOp(opType, inputs[0], inputs[1])
	})
}

// addBinaryOp adds a generic binary op.
func (b *Builder) addBinaryOp(opType backends.OpType, lhs, rhs *Node) *Node {
	shape, err := binaryOpShape(opType, lhs.shape, rhs.shape)
	if err != nil {
		panic(err)
	}
	return b.newNode(opType, shape, lhs, rhs)
}

// broadcastTo broadcasts a scalar to the given shape.
func (b *Builder) broadcastTo(scalar *Node, shape shapes.Shape) *Node {
	if scalar.shape.Equal(shape) {
		return scalar
	}
	if !scalar.shape.IsScalar() || scalar.shape.DType != shape.DType {
		exceptions.Panicf("BroadcastTo: can only broadcast a scalar of the same dtype, got %s to %s", scalar.shape, shape)
	}
	return b.newNode(backends.OpTypeBroadcastTo, shape.Clone(), scalar)
}

// group creates a node that, when used as a target, executes all its inputs.
func (b *Builder) group(inputs ...*Node) *Node {
	return b.newNode(backends.OpTypeGroup, shapes.Invalid(), inputs...)
}

// NewSession implements backends.Builder. After a session is created no more nodes can be added, but
// more sessions, each with its own variable storage, can be created.
func (b *Builder) NewSession() (backends.Session, error) {
	b.sealed = true
	klog.V(1).Infof("%s: new session over %d nodes and %d variables", b.name, len(b.nodes), len(b.variables))
	return newSession(b), nil
}
