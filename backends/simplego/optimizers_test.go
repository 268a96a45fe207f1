// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"math"
	"testing"

	"github.com/gomlx/exprgraph/backends"
	"github.com/gomlx/exprgraph/pkg/core/shapes"
	"github.com/gomlx/exprgraph/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quadraticStep builds loss = sum((w - 3)²) with w initialized to `initial`, runs the initializers
// and `steps` optimizer steps, and returns w's final value and the number of touched variables.
func quadraticStep(t *testing.T, config backends.OptimizerConfig, initial []float64, steps int) ([]float64, int) {
	b := newTestBuilder(t)
	initialOp := must.M1(b.Constant(initial, len(initial)))
	w := must.M1(b.Variable("w", shapes.Make(dtypes.Float64, len(initial)), initialOp))
	three := must.M1(b.Constant([]float64{3}))
	diff := must.M1(b.Binary(backends.OpTypeSub, w.Output(), three))
	loss := must.M1(b.Unary(backends.OpTypeSquare, diff))
	update, touched, err := b.Minimize(config, loss, []backends.Variable{w})
	require.NoError(t, err)

	session := must.M1(b.NewSession())
	defer session.Finalize()
	initializers := make([]backends.Op, len(touched))
	for ii, v := range touched {
		initializers[ii] = v.Initializer()
	}
	_, err = session.Run(nil, nil, initializers)
	require.NoError(t, err)
	for range steps {
		_, err = session.Run(nil, nil, []backends.Op{update})
		require.NoError(t, err)
	}
	results, err := session.Run(nil, []backends.Op{w.Output()}, nil)
	require.NoError(t, err)
	return tensors.Flat[float64](results[0]), len(touched)
}

func TestGradientDescent(t *testing.T) {
	config := backends.OptimizerConfig{Type: backends.OptimizerGradientDescent}
	w, numTouched := quadraticStep(t, config, []float64{0, 1}, 1)
	assert.Equal(t, 1, numTouched)
	// grad = 2 * (w - 3) = [-6, -4], w -= 0.01 * grad
	assert.InDeltaSlice(t, []float64{0.06, 1.04}, w, 1e-12)

	// Many steps converge to the minimum.
	w, _ = quadraticStep(t, config, []float64{0, 1}, 1000)
	assert.InDeltaSlice(t, []float64{3, 3}, w, 1e-6)
}

func TestGradientDescentLearningRate(t *testing.T) {
	b := newTestBuilder(t)
	w := must.M1(b.Variable("w", shapes.Make(dtypes.Float32, 1), must.M1(b.Constant([]float32{0}, 1))))
	loss := must.M1(b.Unary(backends.OpTypeNeg, w.Output()))
	lr := must.M1(b.Constant([]float32{0.5}))
	update, touched, err := b.Minimize(backends.OptimizerConfig{
		Type:            backends.OptimizerGradientDescent,
		Hyperparameters: map[string]backends.Op{backends.HyperLearningRate: lr},
	}, loss, []backends.Variable{w})
	require.NoError(t, err)
	session := must.M1(b.NewSession())
	_, err = session.Run(nil, nil, []backends.Op{touched[0].Initializer()})
	require.NoError(t, err)
	results, err := session.Run(nil, []backends.Op{w.Output()}, []backends.Op{update})
	require.NoError(t, err)
	assert.Equal(t, []float32{0}, results[0].Value())
	results, err = session.Run(nil, []backends.Op{w.Output()}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5}, results[0].Value())
}

func TestAdaDelta(t *testing.T) {
	w, numTouched := quadraticStep(t, backends.OptimizerConfig{Type: backends.OptimizerAdaDelta}, []float64{0}, 1)
	assert.Equal(t, 3, numTouched) // w plus two accumulators.

	grad := -6.0
	rho, epsilon, lr := DefaultAdaDeltaRho, DefaultAdaDeltaEpsilon, DefaultAdaDeltaLearningRate
	accum := (1 - rho) * grad * grad
	update := math.Sqrt(epsilon) / math.Sqrt(accum+epsilon) * grad
	assert.InDelta(t, -lr*update, w[0], 1e-15)
	assert.NotEqual(t, 0.0, w[0])
}

func TestAdam(t *testing.T) {
	w, numTouched := quadraticStep(t, backends.OptimizerConfig{Type: backends.OptimizerAdam}, []float64{0}, 1)
	assert.Equal(t, 5, numTouched) // w plus four slots.

	grad := -6.0
	beta1, beta2 := DefaultAdamBeta1, DefaultAdamBeta2
	m := (1 - beta1) * grad
	u := (1 - beta2) * grad * grad
	stepSize := DefaultAdamLearningRate * math.Sqrt(1-beta2) / (1 - beta1)
	assert.InDelta(t, -stepSize*m/(math.Sqrt(u)+DefaultAdamEpsilon), w[0], 1e-12)

	w, _ = quadraticStep(t, backends.OptimizerConfig{Type: backends.OptimizerAdam}, []float64{0}, 100)
	assert.Greater(t, w[0], 0.05)
}

func TestMinimizeErrors(t *testing.T) {
	b := newTestBuilder(t)
	w := must.M1(b.Variable("w", shapes.Make(dtypes.Float32, 1), must.M1(b.Constant([]float32{0}, 1))))
	unrelated := must.M1(b.Variable("u", shapes.Make(dtypes.Float32, 1), must.M1(b.Constant([]float32{0}, 1))))
	loss := must.M1(b.Unary(backends.OpTypeSquare, w.Output()))
	f64 := must.M1(b.Constant([]float64{0.5}))

	_, _, err := b.Minimize(backends.OptimizerConfig{}, loss, nil)
	require.ErrorContains(t, err, "no variables")
	_, _, err = b.Minimize(backends.OptimizerConfig{}, loss, []backends.Variable{unrelated})
	require.ErrorContains(t, err, "affect the loss")
	_, _, err = b.Minimize(backends.OptimizerConfig{
		Hyperparameters: map[string]backends.Op{backends.HyperBeta1: f64},
	}, loss, []backends.Variable{w})
	require.ErrorContains(t, err, "doesn't take hyperparameter")
	_, _, err = b.Minimize(backends.OptimizerConfig{
		Hyperparameters: map[string]backends.Op{backends.HyperRho: f64},
	}, loss, []backends.Variable{w})
	require.ErrorContains(t, err, "dtype")

	// Variables that don't affect the loss are still returned, but not updated.
	_, touched, err := b.Minimize(backends.OptimizerConfig{Type: backends.OptimizerGradientDescent}, loss,
		[]backends.Variable{w, unrelated})
	require.NoError(t, err)
	assert.Len(t, touched, 2)
}
