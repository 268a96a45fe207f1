// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/exprgraph/backends"
	"k8s.io/klog/v2"
)

// Default hyperparameters of the optimizers.
const (
	DefaultGradientDescentLearningRate = 0.01

	DefaultAdaDeltaLearningRate = 0.001
	DefaultAdaDeltaRho          = 0.95
	DefaultAdaDeltaEpsilon      = 1e-8

	DefaultAdamLearningRate = 0.001
	DefaultAdamBeta1        = 0.9
	DefaultAdamBeta2        = 0.999
	DefaultAdamEpsilon      = 1e-7
)

var knownHyperparameters = map[backends.OptimizerType][]string{
	backends.OptimizerGradientDescent: {backends.HyperLearningRate},
	backends.OptimizerAdaDelta:        {backends.HyperLearningRate, backends.HyperRho, backends.HyperEpsilon},
	backends.OptimizerAdam: {backends.HyperLearningRate, backends.HyperBeta1, backends.HyperBeta2,
		backends.HyperEpsilon},
}

// Minimize implements backends.Builder.
func (b *Builder) Minimize(config backends.OptimizerConfig, lossOp backends.Op, variables []backends.Variable) (
	update backends.Op, touched []backends.Variable, err error) {
	err = exceptions.TryCatch[error](func() {
		update, touched = b.minimize(config, lossOp, variables)
	})
	if err != nil {
		return nil, nil, err
	}
	return update, touched, nil
}

// optimizerStep holds the state used while building the update of one variable.
type optimizerStep struct {
	b       *Builder
	config  backends.OptimizerConfig
	hyper   map[string]*Node
	prefix  string
	assigns []*Node
	slots   []backends.Variable
}

func (b *Builder) minimize(config backends.OptimizerConfig, lossOp backends.Op, variables []backends.Variable) (*Node, []backends.Variable) {
	loss := b.checkOps("Minimize", lossOp)[0]
	known, found := knownHyperparameters[config.Type]
	if !found {
		exceptions.Panicf("Minimize: unknown optimizer %s", config.Type)
	}
	if len(variables) == 0 {
		exceptions.Panicf("Minimize: no variables to optimize")
	}
	vars := make([]*Variable, len(variables))
	reads := make([]*Node, len(variables))
	for ii, variable := range variables {
		v, ok := variable.(*Variable)
		if !ok || v.builder != b {
			exceptions.Panicf("Minimize: variable #%d (%v) was not created by builder %q", ii, variable, b.name)
		}
		if !v.shape.DType.IsFloat() {
			exceptions.Panicf("Minimize: variable %q must be a float, got %s", v.name, v.shape)
		}
		vars[ii] = v
		reads[ii] = v.read
	}

	step := &optimizerStep{
		b:      b,
		config: config,
		hyper:  make(map[string]*Node, len(config.Hyperparameters)),
		prefix: config.Name,
	}
	if step.prefix == "" {
		step.prefix = strings.ToLower(config.Type.String())
	}
	for name, op := range config.Hyperparameters {
		isKnown := false
		for _, knownName := range known {
			isKnown = isKnown || knownName == name
		}
		if !isKnown {
			exceptions.Panicf("Minimize: optimizer %s doesn't take hyperparameter %q, valid ones are %v", config.Type, name, known)
		}
		node := b.checkOps("Minimize("+name+")", op)[0]
		if !node.shape.IsScalar() {
			exceptions.Panicf("Minimize: hyperparameter %q must be a scalar, got %s", name, node.shape)
		}
		step.hyper[name] = node
	}

	grads := b.gradients(loss, reads)
	numUpdated := 0
	for ii, v := range vars {
		grad := grads[ii]
		if grad == nil {
			klog.Warningf("Minimize: variable %q doesn't affect the loss, it won't be updated by %s", v.name, config.Type)
			continue
		}
		numUpdated++
		switch config.Type {
		case backends.OptimizerGradientDescent:
			step.gradientDescent(v, grad)
		case backends.OptimizerAdaDelta:
			step.adaDelta(v, grad)
		case backends.OptimizerAdam:
			step.adam(v, grad)
		}
	}
	if numUpdated == 0 {
		exceptions.Panicf("Minimize: none of the %d variables affect the loss", len(vars))
	}

	touched := make([]backends.Variable, 0, len(variables)+len(step.slots))
	touched = append(touched, variables...)
	touched = append(touched, step.slots...)
	klog.V(1).Infof("%s: %s over %d variables, %d slot variables", b.name, config.Type, len(vars), len(step.slots))
	return b.group(step.assigns...), touched
}

// hyperparameter returns the configured hyperparameter, or a constant with its default value.
func (s *optimizerStep) hyperparameter(v *Variable, name string, defaultValue float64) *Node {
	if node, found := s.hyper[name]; found {
		if node.shape.DType != v.shape.DType {
			exceptions.Panicf("Minimize: hyperparameter %q has dtype %s, but variable %q has dtype %s",
				name, node.shape.DType, v.name, v.shape.DType)
		}
		return node
	}
	return s.b.scalarConstant(v.shape.DType, defaultValue)
}

// slot creates an optimizer variable associated with v, initialized with initial, or zeros if nil.
func (s *optimizerStep) slot(v *Variable, name string, initial *Node) *Variable {
	if initial == nil {
		initial = s.b.zerosConstant(v.shape)
	}
	slot := s.b.addVariable(fmt.Sprintf("%s/%s/%s", v.name, s.prefix, name), initial.shape, initial)
	s.slots = append(s.slots, slot)
	return slot
}

// gradientDescent: v -= lr * grad
func (s *optimizerStep) gradientDescent(v *Variable, grad *Node) {
	b := s.b
	lr := s.hyperparameter(v, backends.HyperLearningRate, DefaultGradientDescentLearningRate)
	s.assigns = append(s.assigns, v.assign(b.sub(v.read, b.mul(lr, grad))))
}

// adaDelta follows "ADADELTA: An Adaptive Learning Rate Method", M. D. Zeiler, 2012:
//
//	accum = rho * accum + (1 - rho) * grad²
//	update = sqrt(accumUpdate + epsilon) / sqrt(accum + epsilon) * grad
//	accumUpdate = rho * accumUpdate + (1 - rho) * update²
//	v -= lr * update
func (s *optimizerStep) adaDelta(v *Variable, grad *Node) {
	b := s.b
	lr := s.hyperparameter(v, backends.HyperLearningRate, DefaultAdaDeltaLearningRate)
	rho := s.hyperparameter(v, backends.HyperRho, DefaultAdaDeltaRho)
	epsilon := s.hyperparameter(v, backends.HyperEpsilon, DefaultAdaDeltaEpsilon)
	accum := s.slot(v, "accum", nil)
	accumUpdate := s.slot(v, "accum_update", nil)

	oneMinusRho := b.sub(b.scalarConstant(v.shape.DType, 1), rho)
	newAccum := b.add(b.mul(rho, accum.read), b.mul(oneMinusRho, b.square(grad)))
	update := b.mul(b.div(b.sqrt(b.add(accumUpdate.read, epsilon)), b.sqrt(b.add(newAccum, epsilon))), grad)
	newAccumUpdate := b.add(b.mul(rho, accumUpdate.read), b.mul(oneMinusRho, b.square(update)))
	s.assigns = append(s.assigns,
		accum.assign(newAccum),
		accumUpdate.assign(newAccumUpdate),
		v.assign(b.sub(v.read, b.mul(lr, update))))
}

// adam follows "Adam: A Method for Stochastic Optimization", Kingma & Ba, 2014:
//
//	m = beta1 * m + (1 - beta1) * grad
//	u = beta2 * u + (1 - beta2) * grad²
//	v -= lr * sqrt(1 - beta2^t) / (1 - beta1^t) * m / (sqrt(u) + epsilon)
//
// The powers beta^t are kept in scalar slots, updated on every step.
func (s *optimizerStep) adam(v *Variable, grad *Node) {
	b := s.b
	dtype := v.shape.DType
	lr := s.hyperparameter(v, backends.HyperLearningRate, DefaultAdamLearningRate)
	beta1 := s.hyperparameter(v, backends.HyperBeta1, DefaultAdamBeta1)
	beta2 := s.hyperparameter(v, backends.HyperBeta2, DefaultAdamBeta2)
	epsilon := s.hyperparameter(v, backends.HyperEpsilon, DefaultAdamEpsilon)
	mean := s.slot(v, "mean", nil)
	uncentered := s.slot(v, "uncentered_variance", nil)
	beta1Power := s.slot(v, "beta1_power", beta1)
	beta2Power := s.slot(v, "beta2_power", beta2)

	one := b.scalarConstant(dtype, 1)
	newMean := b.add(b.mul(beta1, mean.read), b.mul(b.sub(one, beta1), grad))
	newUncentered := b.add(b.mul(beta2, uncentered.read), b.mul(b.sub(one, beta2), b.square(grad)))
	stepSize := b.div(b.mul(lr, b.sqrt(b.sub(one, beta2Power.read))), b.sub(one, beta1Power.read))
	delta := b.div(b.mul(stepSize, newMean), b.add(b.sqrt(newUncentered), epsilon))
	s.assigns = append(s.assigns,
		mean.assign(newMean),
		uncentered.assign(newUncentered),
		v.assign(b.sub(v.read, delta)),
		beta1Power.assign(b.mul(beta1Power.read, beta1)),
		beta2Power.assign(b.mul(beta2Power.read, beta2)))
}
