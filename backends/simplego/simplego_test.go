// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"testing"

	"github.com/gomlx/exprgraph/backends"
	"github.com/gomlx/exprgraph/pkg/core/shapes"
	"github.com/gomlx/exprgraph/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func newTestBuilder(t *testing.T) *Builder {
	backend, err := New("seed=42")
	require.NoError(t, err)
	return backend.Builder(t.Name()).(*Builder)
}

// runOnce creates a session and fetches the given ops.
func runOnce(t *testing.T, b *Builder, feeds []backends.Feed, fetches ...backends.Op) []*tensors.Tensor {
	session, err := b.NewSession()
	require.NoError(t, err)
	defer session.Finalize()
	results, err := session.Run(feeds, fetches, nil)
	require.NoError(t, err)
	return results
}

func TestConfig(t *testing.T) {
	backend, err := backends.NewWithConfig("go:seed=7")
	require.NoError(t, err)
	assert.Equal(t, BackendName, backend.Name())
	assert.Equal(t, uint64(7), backend.(*Backend).seed)

	_, err = New("color=blue")
	require.ErrorContains(t, err, "unknown configuration")
	_, err = New("seed=abc")
	require.Error(t, err)

	backend, err = backends.NewWithConfig("go")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), backend.(*Backend).seed)
	assert.Contains(t, backends.List(), BackendName)

	backend, err = New("parallelism=3")
	require.NoError(t, err)
	assert.Equal(t, 3, backend.(*Backend).workers.MaxParallelism())
	_, err = New("parallelism=-2")
	require.ErrorContains(t, err, "invalid parallelism")
}

func TestParallelMatMul(t *testing.T) {
	const m, k, n = 256, 256, 64
	lhs, rhs := make([]float64, m*k), make([]float64, k*n)
	for ii := range lhs {
		lhs[ii] = float64(ii%7 - 3)
	}
	for ii := range rhs {
		rhs[ii] = float64(ii%5 - 2)
	}
	var products [][]float64
	for _, config := range []string{"parallelism=0", "parallelism=4", "parallelism=-1"} {
		backend, err := New(config)
		require.NoError(t, err)
		b := backend.Builder(config).(*Builder)
		product := must.M1(b.Binary(backends.OpTypeMatMul,
			must.M1(b.Constant(lhs, m, k)), must.M1(b.Constant(rhs, k, n))))
		results := runOnce(t, b, nil, product)
		products = append(products, tensors.Flat[float64](results[0]))
	}
	var want float64
	for contract := range k {
		want += lhs[(m-1)*k+contract] * rhs[contract*n+n-1]
	}
	assert.Equal(t, want, products[0][m*n-1])
	assert.Equal(t, products[0], products[1])
	assert.Equal(t, products[0], products[2])
}

func TestConstantAndPlaceholder(t *testing.T) {
	b := newTestBuilder(t)
	x := must.M1(b.Constant([]float32{1, 2, 3}, 3))
	shape := must.M1(b.OpShape(x))
	assert.Equal(t, "(Float32)[3]", shape.String())

	_, err := b.Constant([]float32{1, 2, 3}, 2, 2)
	require.ErrorContains(t, err, "require 4")
	_, err = b.Constant([]string{"a"}, 1)
	require.Error(t, err)
	_, err = b.Constant(7)
	require.Error(t, err)

	p := must.M1(b.Placeholder("p", shapes.Make(dtypes.Float32, 3)))
	sum := must.M1(b.Binary(backends.OpTypeAdd, x, p))
	results := runOnce(t, b, []backends.Feed{{Op: p, Value: tensors.FromFlatDataAndDimensions([]float32{4, 5, 6}, 3)}}, sum)
	assert.Equal(t, []float32{5, 7, 9}, results[0].Value())
}

func TestShapeErrors(t *testing.T) {
	b := newTestBuilder(t)
	x := must.M1(b.Constant([]float32{1, 2, 3}, 3))
	y := must.M1(b.Constant([]float32{1, 2}, 2))
	z := must.M1(b.Constant([]float64{1, 2, 3}, 3))
	i := must.M1(b.Constant([]int32{1, 2, 3}, 3))

	_, err := b.Binary(backends.OpTypeAdd, x, y)
	require.ErrorContains(t, err, "incompatible shapes")
	_, err = b.Binary(backends.OpTypeMul, x, z)
	require.ErrorContains(t, err, "different dtypes")
	_, err = b.Binary(backends.OpTypeMatMul, x, x)
	require.ErrorContains(t, err, "rank-2")
	_, err = b.Unary(backends.OpTypeTanh, i)
	require.ErrorContains(t, err, "float")
	_, err = b.Unary(backends.OpTypeAdd, x)
	require.Error(t, err)

	other := newTestBuilder(t)
	_, err = other.Unary(backends.OpTypeNeg, x)
	require.ErrorContains(t, err, "different builder")
}

func TestUnaryOps(t *testing.T) {
	b := newTestBuilder(t)
	x := must.M1(b.Constant([]float64{0, 0.5, 1, 4}, 4))
	ops := []backends.OpType{backends.OpTypeTanh, backends.OpTypeExp, backends.OpTypeSqrt, backends.OpTypeSquare,
		backends.OpTypeNeg, backends.OpTypeSigmoid, backends.OpTypeReduceSum, backends.OpTypeReduceMean}
	fetches := make([]backends.Op, len(ops))
	for ii, op := range ops {
		fetches[ii] = must.M1(b.Unary(op, x))
	}
	results := runOnce(t, b, nil, fetches...)
	assert.InDeltaSlice(t, []float64{0, 0.46211715726, 0.76159415595, 0.99932929973}, results[0].Value(), 1e-9)
	assert.InDeltaSlice(t, []float64{1, 1.6487212707, 2.7182818285, 54.598150033}, results[1].Value(), 1e-8)
	assert.Equal(t, []float64{0, 0.7071067811865476, 1, 2}, results[2].Value())
	assert.Equal(t, []float64{0, 0.25, 1, 16}, results[3].Value())
	assert.Equal(t, []float64{0, -0.5, -1, -4}, results[4].Value())
	assert.InDeltaSlice(t, []float64{0.5, 0.6224593312, 0.7310585786, 0.9820137900}, results[5].Value(), 1e-9)
	assert.Equal(t, 5.5, results[6].Value())
	assert.Equal(t, 1.375, results[7].Value())
}

func TestMatMulAndTranspose(t *testing.T) {
	b := newTestBuilder(t)
	lhs := must.M1(b.Constant([]float32{1, 2, 3, 4, 5, 6}, 2, 3))
	rhs := must.M1(b.Constant([]float32{1, 0, 0, 1, 1, 1}, 3, 2))
	product := must.M1(b.Binary(backends.OpTypeMatMul, lhs, rhs))
	transposed := must.M1(b.Unary(backends.OpTypeTranspose, lhs))
	shape := must.M1(b.OpShape(product))
	assert.Equal(t, []int{2, 2}, shape.Dimensions)

	results := runOnce(t, b, nil, product, transposed)
	assert.Equal(t, [][]float32{{4, 5}, {10, 11}}, results[0].Value())
	assert.Equal(t, [][]float32{{1, 4}, {2, 5}, {3, 6}}, results[1].Value())
}

func TestIntegerOps(t *testing.T) {
	b := newTestBuilder(t)
	x := must.M1(b.Constant([]int64{7, -8}, 2))
	two := must.M1(b.Constant([]int64{2}))
	div := must.M1(b.Binary(backends.OpTypeDiv, x, two))
	results := runOnce(t, b, nil, div)
	assert.Equal(t, []int64{3, -4}, results[0].Value())

	b = newTestBuilder(t)
	x = must.M1(b.Constant([]int32{1}, 1))
	zero := must.M1(b.Constant([]int32{0}))
	div = must.M1(b.Binary(backends.OpTypeDiv, x, zero))
	session := must.M1(b.NewSession())
	_, err := session.Run(nil, []backends.Op{div}, nil)
	require.ErrorContains(t, err, "division by zero")
}

func TestFloat16(t *testing.T) {
	b := newTestBuilder(t)
	x := must.M1(b.Constant([]float16.Float16{float16.Fromfloat32(1), float16.Fromfloat32(2)}, 2))
	sum := must.M1(b.Binary(backends.OpTypeAdd, x, x))
	results := runOnce(t, b, nil, sum)
	assert.Equal(t, dtypes.Float16, results[0].DType())
	assert.Equal(t, []float64{2, 4}, results[0].Float64s())
}

func TestRandom(t *testing.T) {
	b := newTestBuilder(t)
	dims := must.M1(b.Constant([]int64{100, 10}, 2))
	normal := must.M1(b.Random(backends.OpTypeRandomNormal, dims, dtypes.Float32))
	uniform := must.M1(b.Random(backends.OpTypeRandomUniform, dims, dtypes.Float64))
	assert.Equal(t, "(Float32)[100 10]", must.M1(b.OpShape(normal)).String())

	_, err := b.Random(backends.OpTypeRandomNormal, dims, dtypes.Int32)
	require.Error(t, err)
	notConstant := must.M1(b.Unary(backends.OpTypeNeg, dims))
	_, err = b.Random(backends.OpTypeRandomNormal, notConstant, dtypes.Float32)
	require.ErrorContains(t, err, "constant")

	results := runOnce(t, b, nil, normal, uniform)
	var mean float64
	for _, v := range results[0].Float64s() {
		mean += v
	}
	mean /= 1000
	assert.InDelta(t, 0.0, mean, 0.15)
	for _, v := range results[1].Float64s() {
		require.True(t, v >= 0 && v < 1)
	}
}

func TestVariables(t *testing.T) {
	b := newTestBuilder(t)
	initial := must.M1(b.Constant([]float32{4, 5, 6}, 3))
	v := must.M1(b.Variable("v", shapes.Make(dtypes.Float32, 3), initial))
	_, err := b.Variable("bad", shapes.Make(dtypes.Float32, 2), initial)
	require.Error(t, err)

	one := must.M1(b.Constant([]float32{1}))
	p := must.M1(b.Placeholder("p", shapes.Make(dtypes.Float32)))
	increment := v.(*Variable).assign(b.add(v.Output().(*Node), b.mul(one.(*Node), p.(*Node))))

	session := must.M1(b.NewSession())
	defer session.Finalize()

	// Reading before initialization fails.
	_, err = session.Run(nil, []backends.Op{v.Output()}, nil)
	require.ErrorContains(t, err, "not initialized")
	_, err = session.Run(nil, []backends.Op{v.Initializer()}, nil)
	require.ErrorContains(t, err, "no value")

	_, err = session.Run(nil, nil, []backends.Op{v.Initializer()})
	require.NoError(t, err)

	fed := []backends.Feed{{Op: p, Value: tensors.FromScalar(float32(10))}}
	results, err := session.Run(fed, []backends.Op{v.Output()}, []backends.Op{increment})
	require.NoError(t, err)
	// Reads observe the value before the run.
	assert.Equal(t, []float32{4, 5, 6}, results[0].Value())

	results, err = session.Run(nil, []backends.Op{v.Output()}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float32{14, 15, 16}, results[0].Value())

	// A failed run, here for a missing feed, doesn't change any variable.
	_, err = session.Run(nil, nil, []backends.Op{increment})
	require.ErrorContains(t, err, "not fed")
	results, err = session.Run(nil, []backends.Op{v.Output()}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float32{14, 15, 16}, results[0].Value())

	// Fetched values are copies.
	tensors.Flat[float32](results[0])[0] = 1000
	results, err = session.Run(nil, []backends.Op{v.Output()}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float32{14, 15, 16}, results[0].Value())
	assert.Equal(t, 5, session.(*Session).NumRuns())

	// No more nodes after a session was created.
	_, err = b.Constant([]float32{1}, 1)
	require.ErrorContains(t, err, "session was already created")
}

func TestFeedOverridesValue(t *testing.T) {
	b := newTestBuilder(t)
	x := must.M1(b.Constant([]float32{1, 2}, 2))
	y := must.M1(b.Unary(backends.OpTypeSquare, x))
	session := must.M1(b.NewSession())

	results, err := session.Run([]backends.Feed{{Op: x, Value: tensors.FromFlatDataAndDimensions([]float32{3, 4}, 2)}},
		[]backends.Op{y}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float32{9, 16}, results[0].Value())

	_, err = session.Run([]backends.Feed{{Op: x, Value: tensors.FromScalar(float32(3))}}, []backends.Op{y}, nil)
	require.Error(t, err)

	session.Finalize()
	_, err = session.Run(nil, []backends.Op{y}, nil)
	require.ErrorContains(t, err, "finalized")
}
