// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package expr

import (
	"slices"

	"github.com/gomlx/exprgraph/pkg/core/shapes"
)

// Names of the optimizer hyperparameters.
const (
	HyperLearningRate = "learning_rate"
	HyperRho          = "rho"
	HyperEpsilon      = "epsilon"
	HyperBeta1        = "beta1"
	HyperBeta2        = "beta2"
)

// Optimizer configures a Minimize node. Create it with AdaDelta, GradientDescent or Adam, set optional
// hyperparameters and call Minimize:
//
//	update := expr.AdaDelta().LearningRate(expr.Scalar(b, float32(0.1))).Minimize(loss, w.Ref())
//
// Hyperparameters are scalar expressions with the dtype of the variables. Missing ones take the engine defaults.
type Optimizer struct {
	optimizerType OptimizerType
	name          string
	hyper         []Hyperparameter
	values        []Expr
}

// AdaDelta returns the default optimizer, see "ADADELTA: An Adaptive Learning Rate Method", M. D. Zeiler, 2012.
// It takes LearningRate, Rho and Epsilon.
func AdaDelta() *Optimizer {
	return &Optimizer{optimizerType: AdaDeltaOptimizer}
}

// GradientDescent returns plain gradient descent with the given learning rate. It takes only LearningRate.
//
// learningRate can be the zero Expr, in which case the engine default is used.
func GradientDescent(learningRate Expr) *Optimizer {
	o := &Optimizer{optimizerType: GradientDescentOptimizer}
	if learningRate.Ok() {
		o.LearningRate(learningRate)
	}
	return o
}

// Adam returns the Adam optimizer. It takes LearningRate, Beta1, Beta2 and Epsilon.
func Adam() *Optimizer {
	return &Optimizer{optimizerType: AdamOptimizer}
}

// Type of the optimizer.
func (o *Optimizer) Type() OptimizerType { return o.optimizerType }

// WithName sets the prefix of the slot variables created by the optimizer. The default is the lowercased type.
func (o *Optimizer) WithName(name string) *Optimizer {
	o.name = name
	return o
}

// With sets the hyperparameter with the given name, replacing any previous value.
func (o *Optimizer) With(name string, value Expr) *Optimizer {
	checkExprs("Optimizer."+name, value)
	if shape := value.Shape(); !shape.IsScalar() {
		typeMismatchf("%s hyperparameter %q must be a scalar, got %s", o.optimizerType, name, shape)
	}
	for ii, hp := range o.hyper {
		if hp.Name == name {
			o.hyper[ii].Value = value.id
			o.values[ii] = value
			return o
		}
	}
	o.hyper = append(o.hyper, Hyperparameter{Name: name, Value: value.id})
	o.values = append(o.values, value)
	return o
}

// LearningRate sets the learning rate.
func (o *Optimizer) LearningRate(value Expr) *Optimizer { return o.With(HyperLearningRate, value) }

// Rho sets AdaDelta's decay rate.
func (o *Optimizer) Rho(value Expr) *Optimizer { return o.With(HyperRho, value) }

// Epsilon sets the small constant preventing divisions by zero.
func (o *Optimizer) Epsilon(value Expr) *Optimizer { return o.With(HyperEpsilon, value) }

// Beta1 sets Adam's decay rate of the mean.
func (o *Optimizer) Beta1(value Expr) *Optimizer { return o.With(HyperBeta1, value) }

// Beta2 sets Adam's decay rate of the uncentered variance.
func (o *Optimizer) Beta2(value Expr) *Optimizer { return o.With(HyperBeta2, value) }

// Minimize creates the node of one optimizer step over loss, updating the referenced variables.
// It is a terminal node: use it as a target, its output can't be read.
//
// The variables must be compiled before (or by) the node is.
func (o *Optimizer) Minimize(loss Expr, variables ...VariableRef) Expr {
	b := checkExprs("Minimize", append([]Expr{loss}, o.values...)...)
	if !loss.DType().IsFloat() {
		typeMismatchf("Minimize: loss must be a float, got %s", loss.Shape())
	}
	if len(variables) == 0 {
		typeMismatchf("Minimize: no variables to optimize")
	}
	return b.add(func(base nodeBase) Node {
		return &MinimizeNode{
			nodeBase:        base,
			Optimizer:       o.optimizerType,
			Name:            o.name,
			Loss:            loss.id,
			Variables:       slices.Clone(variables),
			Hyperparameters: slices.Clone(o.hyper),
		}
	}, nodeBase{shape: shapes.Invalid()})
}

// Minimize is a shortcut for AdaDelta().Minimize(loss, variables...).
func Minimize(loss Expr, variables ...VariableRef) Expr {
	return AdaDelta().Minimize(loss, variables...)
}
