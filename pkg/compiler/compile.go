package compiler

import (
	"github.com/gomlx/exprgraph/backends"
	"github.com/gomlx/exprgraph/pkg/core/ids"
	"github.com/gomlx/exprgraph/pkg/expr"
	"github.com/pkg/errors"
)

// compileNode emits the backend ops for one node. Children are resolved through the cache.
func (c *Compiler) compileNode(node expr.Node) (Element, error) {
	switch n := node.(type) {
	case *expr.ConstantNode:
		op, err := c.builder.Constant(n.Flat, n.Shape().Dimensions...)
		return c.newOperation(n, op, err)

	case *expr.PlaceholderNode:
		op, err := c.builder.Placeholder(n.Name, n.Shape())
		return c.newOperation(n, op, err)

	case *expr.VariableNode:
		initial, err := c.output(n.Initial)
		if err != nil {
			return nil, errors.WithMessagef(err, "initial value of variable %q", n.Name)
		}
		v, err := c.builder.Variable(n.Name, n.Shape(), initial)
		if err != nil {
			return nil, expr.NewBackendError(err, "compiling "+expr.DescribeNode(n))
		}
		return &Variable{id: n.ID(), Backend: v}, nil

	case *expr.NullaryNode:
		opType, err := nullaryOpType(n.Fn)
		if err != nil {
			return nil, err
		}
		shape := n.Shape()
		dims := make([]int64, shape.Rank())
		for ii, dim := range shape.Dimensions {
			dims[ii] = int64(dim)
		}
		dimsOp, err := c.builder.Constant(dims, len(dims))
		if err != nil {
			return nil, expr.NewBackendError(err, "compiling shape of "+expr.DescribeNode(n))
		}
		op, err := c.builder.Random(opType, dimsOp, shape.DType)
		return c.newOperation(n, op, err)

	case *expr.UnaryNode:
		opType, err := unaryOpType(n.Fn)
		if err != nil {
			return nil, err
		}
		operand, err := c.output(n.Operand)
		if err != nil {
			return nil, err
		}
		op, err := c.builder.Unary(opType, operand)
		return c.newOperation(n, op, err)

	case *expr.BinaryNode:
		if n.Fn != expr.MatMulFn {
			return nil, errors.Errorf("%s: unknown binary function %s", n.ID(), n.Fn)
		}
		lhs, rhs, err := c.outputs2(n.LHS, n.RHS)
		if err != nil {
			return nil, err
		}
		op, err := c.builder.Binary(backends.OpTypeMatMul, lhs, rhs)
		return c.newOperation(n, op, err)

	case *expr.ElementwiseNode:
		opType, err := elementwiseOpType(n.Op)
		if err != nil {
			return nil, err
		}
		lhs, rhs, err := c.outputs2(n.LHS, n.RHS)
		if err != nil {
			return nil, err
		}
		op, err := c.builder.Binary(opType, lhs, rhs)
		return c.newOperation(n, op, err)

	case *expr.MinimizeNode:
		return c.compileMinimize(n)
	}
	return nil, errors.Errorf("%s: unknown node type %T", node.ID(), node)
}

// newOperation creates the Operation element for op, or wraps err as a backend error.
func (c *Compiler) newOperation(node expr.Node, op backends.Op, err error) (Element, error) {
	if err != nil {
		return nil, expr.NewBackendError(err, "compiling "+expr.DescribeNode(node))
	}
	shape, err := c.builder.OpShape(op)
	if err != nil {
		return nil, expr.NewBackendError(err, "reading shape of "+expr.DescribeNode(node))
	}
	return &Operation{id: node.ID(), Op: op, Shape: shape}, nil
}

func (c *Compiler) outputs2(lhsID, rhsID ids.ID) (lhs, rhs backends.Op, err error) {
	lhs, err = c.output(lhsID)
	if err != nil {
		return
	}
	rhs, err = c.output(rhsID)
	return
}

// compileMinimize resolves the loss, the hyperparameters and the already compiled variables, and creates
// the optimizer step.
func (c *Compiler) compileMinimize(n *expr.MinimizeNode) (Element, error) {
	config := backends.OptimizerConfig{Name: n.Name, Hyperparameters: make(map[string]backends.Op)}
	switch n.Optimizer {
	case expr.AdaDeltaOptimizer:
		config.Type = backends.OptimizerAdaDelta
	case expr.GradientDescentOptimizer:
		config.Type = backends.OptimizerGradientDescent
	case expr.AdamOptimizer:
		config.Type = backends.OptimizerAdam
	default:
		return nil, errors.Errorf("%s: unknown optimizer %s", n.ID(), n.Optimizer)
	}

	loss, err := c.output(n.Loss)
	if err != nil {
		return nil, errors.WithMessagef(err, "loss of %s", n.ID())
	}
	for _, hp := range n.Hyperparameters {
		name, found := hyperparameterNames[hp.Name]
		if !found {
			name = hp.Name // Let the backend report it.
		}
		config.Hyperparameters[name], err = c.output(hp.Value)
		if err != nil {
			return nil, errors.WithMessagef(err, "hyperparameter %q of %s", hp.Name, n.ID())
		}
	}

	variables := make([]*Variable, len(n.Variables))
	backendVars := make([]backends.Variable, len(n.Variables))
	for ii, ref := range n.Variables {
		v, err := c.VariableByRef(ref)
		if err != nil {
			return nil, errors.WithMessagef(err, "variable #%d of %s", ii, n.ID())
		}
		variables[ii] = v
		backendVars[ii] = v.Backend
	}

	update, touched, err := c.builder.Minimize(config, loss, backendVars)
	if err != nil {
		return nil, expr.NewBackendError(err, "compiling "+expr.DescribeNode(n))
	}
	return &Optimizer{id: n.ID(), Update: update, Variables: variables, Touched: touched}, nil
}

var hyperparameterNames = map[string]string{
	expr.HyperLearningRate: backends.HyperLearningRate,
	expr.HyperRho:          backends.HyperRho,
	expr.HyperEpsilon:      backends.HyperEpsilon,
	expr.HyperBeta1:        backends.HyperBeta1,
	expr.HyperBeta2:        backends.HyperBeta2,
}

func nullaryOpType(fn expr.NullaryFn) (backends.OpType, error) {
	switch fn {
	case expr.RandomStandardNormalFn:
		return backends.OpTypeRandomNormal, nil
	case expr.RandomUniformFn:
		return backends.OpTypeRandomUniform, nil
	}
	return backends.OpTypeInvalid, errors.Errorf("unknown nullary function %s", fn)
}

func unaryOpType(fn expr.UnaryFn) (backends.OpType, error) {
	switch fn {
	case expr.NegFn:
		return backends.OpTypeNeg, nil
	case expr.IdentityFn:
		return backends.OpTypeIdentity, nil
	case expr.SquareFn:
		return backends.OpTypeSquare, nil
	case expr.ReduceSumFn:
		return backends.OpTypeReduceSum, nil
	case expr.ReduceMeanFn:
		return backends.OpTypeReduceMean, nil
	case expr.TanhFn:
		return backends.OpTypeTanh, nil
	case expr.ExpFn:
		return backends.OpTypeExp, nil
	case expr.LogFn:
		return backends.OpTypeLog, nil
	case expr.SigmoidFn:
		return backends.OpTypeSigmoid, nil
	case expr.SqrtFn:
		return backends.OpTypeSqrt, nil
	}
	return backends.OpTypeInvalid, errors.Errorf("unknown unary function %s", fn)
}

func elementwiseOpType(op expr.ElementwiseOp) (backends.OpType, error) {
	switch op {
	case expr.AddOp:
		return backends.OpTypeAdd, nil
	case expr.SubOp:
		return backends.OpTypeSub, nil
	case expr.MulOp:
		return backends.OpTypeMul, nil
	case expr.DivOp:
		return backends.OpTypeDiv, nil
	}
	return backends.OpTypeInvalid, errors.Errorf("unknown elementwise op %s", op)
}
