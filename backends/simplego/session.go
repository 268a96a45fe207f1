// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"math/rand/v2"
	"sync"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/exprgraph/backends"
	"github.com/gomlx/exprgraph/pkg/core/tensors"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Session implements backends.Session: it executes the nodes of a Builder and holds the values
// of its variables.
type Session struct {
	builder *Builder

	// mu serializes runs.
	mu        sync.Mutex
	storage   map[*Variable]*tensors.Tensor
	rng       *rand.Rand
	finalized bool
	numRuns   int
}

var _ backends.Session = (*Session)(nil)

func newSession(builder *Builder) *Session {
	seed := builder.backend.seed
	return &Session{
		builder: builder,
		storage: make(map[*Variable]*tensors.Tensor),
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Finalize implements backends.Session.
func (s *Session) Finalize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storage = nil
	s.finalized = true
}

// NumRuns returns the number of successful runs.
func (s *Session) NumRuns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.numRuns
}

// Run implements backends.Session.
//
// Only the nodes needed by the fetches and targets are evaluated, in builder order. Fed nodes take the fed
// value and their inputs are not evaluated. Variable reads observe the values from before the run, and
// assignments are committed only if every node succeeded.
func (s *Session) Run(feeds []backends.Feed, fetches []backends.Op, targets []backends.Op) (results []*tensors.Tensor, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return nil, errors.Errorf("session for %q was finalized", s.builder.name)
	}
	err = exceptions.TryCatch[error](func() {
		results = s.run(feeds, fetches, targets)
	})
	if err != nil {
		return nil, err
	}
	s.numRuns++
	return results, nil
}

func (s *Session) run(feeds []backends.Feed, fetches []backends.Op, targets []backends.Op) []*tensors.Tensor {
	b := s.builder
	fetchNodes := b.toNodes("Run(fetches)", fetches...)
	targetNodes := b.toNodes("Run(targets)", targets...)
	for _, node := range fetchNodes {
		if !node.shape.Ok() {
			exceptions.Panicf("Run: %s has no value to fetch, use it as a target instead", node)
		}
	}

	numNodes := len(b.nodes)
	values := make([]*tensors.Tensor, numNodes)
	fed := make([]bool, numNodes)
	for ii, feed := range feeds {
		node := b.toNodes("Run(feeds)", feed.Op)[0]
		if !node.shape.Ok() {
			exceptions.Panicf("Run: feed #%d: %s has no value and cannot be fed", ii, node)
		}
		if feed.Value == nil || !feed.Value.Shape().Equal(node.shape) {
			exceptions.Panicf("Run: feed #%d for %s got value %s", ii, node, feed.Value)
		}
		values[node.builderIdx] = feed.Value
		fed[node.builderIdx] = true
	}

	// Mark the nodes needed: inputs always have a lower index than their users.
	needed := make([]bool, numNodes)
	for _, node := range fetchNodes {
		needed[node.builderIdx] = true
	}
	for _, node := range targetNodes {
		needed[node.builderIdx] = true
	}
	for idx := numNodes - 1; idx >= 0; idx-- {
		if !needed[idx] || fed[idx] {
			continue
		}
		for _, input := range b.nodes[idx].inputs {
			needed[input.builderIdx] = true
		}
	}

	pending := make(map[*Variable]*tensors.Tensor)
	numEvaluated := 0
	for idx, node := range b.nodes {
		if !needed[idx] || fed[idx] {
			continue
		}
		numEvaluated++
		switch node.opType {
		case backends.OpTypeAssign:
			pending[node.data.(*Variable)] = values[node.inputs[0].builderIdx]
		case backends.OpTypeGroup:
			// Executing the inputs is all there is to it.
		default:
			values[idx] = s.evaluate(node, values)
		}
	}

	for v, value := range pending {
		s.storage[v] = value.Clone()
	}
	results := make([]*tensors.Tensor, len(fetchNodes))
	for ii, node := range fetchNodes {
		results[ii] = values[node.builderIdx].Clone()
	}
	klog.V(2).Infof("%s: run evaluated %d nodes, %d feeds, %d fetches, %d targets, %d variables assigned",
		b.name, numEvaluated, len(feeds), len(fetches), len(targets), len(pending))
	return results
}

// evaluate a node that has a value, given the values of the nodes before it.
func (s *Session) evaluate(node *Node, values []*tensors.Tensor) *tensors.Tensor {
	switch node.opType {
	case backends.OpTypeConstant:
		return node.data.(*tensors.Tensor)
	case backends.OpTypePlaceholder:
		exceptions.Panicf("placeholder %q %s was not fed", node.data.(string), node.shape)
	case backends.OpTypeVariableRead:
		v := node.data.(*Variable)
		value, found := s.storage[v]
		if !found {
			exceptions.Panicf("variable %q was not initialized, run its initializer first", v.name)
		}
		return value
	case backends.OpTypeRandomNormal, backends.OpTypeRandomUniform:
		output := tensors.FromShape(node.shape)
		for ii := range output.Size() {
			if node.opType == backends.OpTypeRandomNormal {
				setFromFloat64(output, ii, s.rng.NormFloat64())
			} else {
				setFromFloat64(output, ii, s.rng.Float64())
			}
		}
		return output
	}
	inputs := make([]*tensors.Tensor, len(node.inputs))
	for ii, input := range node.inputs {
		inputs[ii] = values[input.builderIdx]
	}
	output, err := compute(s.builder.backend.workers, node, inputs)
	if err != nil {
		panic(errors.WithMessagef(err, "while executing node #%d %s", node.builderIdx, node))
	}
	return output
}
