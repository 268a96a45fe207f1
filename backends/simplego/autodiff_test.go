package simplego

import (
	"testing"

	"github.com/gomlx/exprgraph/backends"
	"github.com/gomlx/exprgraph/pkg/core/tensors"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradientsOf builds loss from the given constants, computes the gradients and evaluates them.
func gradientsOf(t *testing.T, makeLoss func(b *Builder, inputs []*Node) *Node, inputs ...*tensors.Tensor) []*tensors.Tensor {
	b := newTestBuilder(t)
	nodes := make([]*Node, len(inputs))
	for ii, input := range inputs {
		nodes[ii] = must.M1(b.Constant(input.Flat(), input.Shape().Dimensions...)).(*Node)
	}
	loss := makeLoss(b, nodes)
	var grads []*Node
	err := catchErr(func() { grads = b.gradients(loss, nodes) })
	require.NoError(t, err)
	fetches := make([]backends.Op, len(grads))
	for ii, grad := range grads {
		require.NotNil(t, grad, "input #%d got no gradient", ii)
		fetches[ii] = grad
	}
	return runOnce(t, b, nil, fetches...)
}

func catchErr(fn func()) error {
	_, err := catch(func() bool { fn(); return true })
	return err
}

func TestGradientTanh(t *testing.T) {
	grads := gradientsOf(t, func(b *Builder, inputs []*Node) *Node {
		return b.addUnaryOp(backends.OpTypeTanh, inputs[0]) // Non-scalar loss is reduced by sum.
	}, tensors.FromFlatDataAndDimensions([]float64{0, 0.5}, 2))
	assert.InDeltaSlice(t, []float64{1, 0.7864477329659274}, grads[0].Value(), 1e-12)
}

func TestGradientMatMul(t *testing.T) {
	grads := gradientsOf(t, func(b *Builder, inputs []*Node) *Node {
		return b.reduceSum(b.matMul(inputs[0], inputs[1]))
	},
		tensors.FromFlatDataAndDimensions([]float32{1, 2, 3, 4}, 2, 2),
		tensors.FromFlatDataAndDimensions([]float32{5, 6}, 2, 1))
	assert.Equal(t, [][]float32{{5, 6}, {5, 6}}, grads[0].Value())
	assert.Equal(t, [][]float32{{4}, {6}}, grads[1].Value())
}

func TestGradientBinaryOps(t *testing.T) {
	// loss = l/r + l*r - r, with scalars l=6 and r=2.
	grads := gradientsOf(t, func(b *Builder, inputs []*Node) *Node {
		l, r := inputs[0], inputs[1]
		return b.sub(b.add(b.div(l, r), b.mul(l, r)), r)
	}, tensors.FromScalar(6.0), tensors.FromScalar(2.0))
	assert.InDelta(t, 0.5+2, grads[0].Value(), 1e-12)     // 1/r + r
	assert.InDelta(t, -1.5+6-1, grads[1].Value(), 1e-12) // -l/r² + l - 1
}

func TestGradientBroadcastAndReductions(t *testing.T) {
	// loss = mean(x * s) + sum(square(x)) with x=[1, 2, 3, 4] and scalar s=2.
	grads := gradientsOf(t, func(b *Builder, inputs []*Node) *Node {
		x, s := inputs[0], inputs[1]
		return b.add(b.addUnaryOp(backends.OpTypeReduceMean, b.mul(x, s)), b.reduceSum(b.square(x)))
	}, tensors.FromFlatDataAndDimensions([]float64{1, 2, 3, 4}, 4), tensors.FromScalar(2.0))
	assert.InDeltaSlice(t, []float64{2.5, 4.5, 6.5, 8.5}, grads[0].Value(), 1e-12) // s/4 + 2x
	assert.InDelta(t, 2.5, grads[1].Value(), 1e-12)                                 // mean(x)
}

func TestGradientUnaryOps(t *testing.T) {
	grads := gradientsOf(t, func(b *Builder, inputs []*Node) *Node {
		x := inputs[0]
		exp := b.addUnaryOp(backends.OpTypeExp, x)
		log := b.addUnaryOp(backends.OpTypeLog, x)
		sigmoid := b.addUnaryOp(backends.OpTypeSigmoid, x)
		return b.add(b.add(b.add(exp, log), sigmoid), b.sqrt(x))
	}, tensors.FromScalar(1.0))
	// e + 1 + sigmoid(1)*(1-sigmoid(1)) + 1/(2*sqrt(1))
	assert.InDelta(t, 2.718281828459045+1+0.19661193324148185+0.5, grads[0].Value(), 1e-12)
}

func TestGradientUnreachable(t *testing.T) {
	b := newTestBuilder(t)
	x := must.M1(b.Constant([]float32{1}, 1)).(*Node)
	y := must.M1(b.Constant([]float32{2}, 1)).(*Node)
	loss := b.square(x)
	grads := b.gradients(loss, []*Node{x, y})
	assert.NotNil(t, grads[0])
	assert.Nil(t, grads[1])

	integer := must.M1(b.Constant([]int32{1}, 1)).(*Node)
	require.Error(t, catchErr(func() { b.gradients(integer, []*Node{integer}) }))
}
