// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/exprgraph/backends"
	"github.com/gomlx/exprgraph/pkg/core/shapes"
)

// gradients adds to the graph the gradient of loss with respect to each of the wrt nodes, using
// reverse-mode autodiff. A non-scalar loss is first reduced by sum.
//
// Nodes in wrt that the loss doesn't depend on get a nil gradient.
func (b *Builder) gradients(loss *Node, wrt []*Node) []*Node {
	if !loss.shape.DType.IsFloat() {
		exceptions.Panicf("gradients: loss must be a float, got %s", loss.shape)
	}
	if !loss.shape.IsScalar() {
		loss = b.addUnaryOp(backends.OpTypeReduceSum, loss)
	}

	// Nodes created below have a higher index, so considering only the first numNodes is safe.
	numNodes := loss.builderIdx + 1
	dependsOnWrt := make([]bool, numNodes)
	for _, node := range wrt {
		if node.builderIdx < numNodes {
			dependsOnWrt[node.builderIdx] = true
		}
	}
	for idx := range numNodes {
		for _, input := range b.nodes[idx].inputs {
			if dependsOnWrt[input.builderIdx] {
				dependsOnWrt[idx] = true
				break
			}
		}
	}

	// vjps[idx] is the accumulated vector-jacobian product of the loss with respect to node idx.
	vjps := make([]*Node, numNodes)
	vjps[loss.builderIdx] = b.scalarConstant(loss.shape.DType, 1)
	for idx := loss.builderIdx; idx >= 0; idx-- {
		node := b.nodes[idx]
		v := vjps[idx]
		if v == nil || !dependsOnWrt[idx] || len(node.inputs) == 0 {
			continue
		}
		inputVJPs := b.vjp(node, v)
		for ii, input := range node.inputs {
			if inputVJPs == nil || inputVJPs[ii] == nil || !dependsOnWrt[input.builderIdx] {
				continue
			}
			if previous := vjps[input.builderIdx]; previous != nil {
				vjps[input.builderIdx] = b.add(previous, inputVJPs[ii])
			} else {
				vjps[input.builderIdx] = inputVJPs[ii]
			}
		}
	}

	grads := make([]*Node, len(wrt))
	for ii, node := range wrt {
		if node.builderIdx < numNodes {
			grads[ii] = vjps[node.builderIdx]
		}
	}
	return grads
}

// vjp returns the vector-jacobian product for each of node's inputs, given the one of node's output (v).
func (b *Builder) vjp(node *Node, v *Node) []*Node {
	dtype := node.shape.DType
	inputs := node.inputs
	switch node.opType {
	case backends.OpTypeIdentity:
		return []*Node{v}
	case backends.OpTypeNeg:
		return []*Node{b.neg(v)}
	case backends.OpTypeSquare:
		// d(x²) = 2x
		return []*Node{b.mul(b.mul(v, inputs[0]), b.scalarConstant(dtype, 2))}
	case backends.OpTypeTanh:
		// dtanh(x) = 1 - tanh(x)², and node is tanh(x).
		one := b.scalarConstant(dtype, 1)
		return []*Node{b.mul(v, b.sub(one, b.mul(node, node)))}
	case backends.OpTypeExp:
		return []*Node{b.mul(v, node)}
	case backends.OpTypeLog:
		return []*Node{b.div(v, inputs[0])}
	case backends.OpTypeSigmoid:
		one := b.scalarConstant(dtype, 1)
		return []*Node{b.mul(v, b.mul(node, b.sub(one, node)))}
	case backends.OpTypeSqrt:
		return []*Node{b.div(v, b.mul(b.scalarConstant(dtype, 2), node))}
	case backends.OpTypeReduceSum:
		return []*Node{b.broadcastTo(v, inputs[0].shape)}
	case backends.OpTypeReduceMean:
		scale := b.scalarConstant(dtype, 1/float64(max(inputs[0].shape.Size(), 1)))
		return []*Node{b.broadcastTo(b.mul(v, scale), inputs[0].shape)}
	case backends.OpTypeTranspose:
		return []*Node{b.transpose(v)}
	case backends.OpTypeBroadcastTo:
		return []*Node{b.reduceSum(v)}
	case backends.OpTypeMatMul:
		lhs, rhs := inputs[0], inputs[1]
		return []*Node{
			b.matMul(v, b.transpose(rhs)),
			b.matMul(b.transpose(lhs), v),
		}
	case backends.OpTypeAdd:
		return []*Node{b.reduceTo(v, inputs[0].shape), b.reduceTo(v, inputs[1].shape)}
	case backends.OpTypeSub:
		return []*Node{b.reduceTo(v, inputs[0].shape), b.reduceTo(b.neg(v), inputs[1].shape)}
	case backends.OpTypeMul:
		lhs, rhs := inputs[0], inputs[1]
		return []*Node{b.reduceTo(b.mul(v, rhs), lhs.shape), b.reduceTo(b.mul(v, lhs), rhs.shape)}
	case backends.OpTypeDiv:
		lhs, rhs := inputs[0], inputs[1]
		// d(l/r)/dr = -l/r²
		return []*Node{
			b.reduceTo(b.div(v, rhs), lhs.shape),
			b.reduceTo(b.neg(b.div(b.mul(v, lhs), b.mul(rhs, rhs))), rhs.shape),
		}
	case backends.OpTypeRandomNormal, backends.OpTypeRandomUniform:
		// The only input is the shape.
		return nil
	}
	exceptions.Panicf("gradient of %s not implemented", node.opType)
	return nil
}

// reduceTo undoes a scalar broadcast: if shape is a scalar and v is not, v is reduced by sum.
func (b *Builder) reduceTo(v *Node, shape shapes.Shape) *Node {
	if shape.IsScalar() && !v.shape.IsScalar() {
		return b.reduceSum(v)
	}
	return v
}

func (b *Builder) add(lhs, rhs *Node) *Node { return b.addBinaryOp(backends.OpTypeAdd, lhs, rhs) }
func (b *Builder) sub(lhs, rhs *Node) *Node { return b.addBinaryOp(backends.OpTypeSub, lhs, rhs) }
func (b *Builder) mul(lhs, rhs *Node) *Node { return b.addBinaryOp(backends.OpTypeMul, lhs, rhs) }
func (b *Builder) div(lhs, rhs *Node) *Node { return b.addBinaryOp(backends.OpTypeDiv, lhs, rhs) }
func (b *Builder) matMul(lhs, rhs *Node) *Node {
	return b.addBinaryOp(backends.OpTypeMatMul, lhs, rhs)
}
func (b *Builder) neg(x *Node) *Node       { return b.addUnaryOp(backends.OpTypeNeg, x) }
func (b *Builder) square(x *Node) *Node    { return b.addUnaryOp(backends.OpTypeSquare, x) }
func (b *Builder) sqrt(x *Node) *Node      { return b.addUnaryOp(backends.OpTypeSqrt, x) }
func (b *Builder) reduceSum(x *Node) *Node { return b.addUnaryOp(backends.OpTypeReduceSum, x) }
func (b *Builder) transpose(x *Node) *Node { return b.addUnaryOp(backends.OpTypeTranspose, x) }
