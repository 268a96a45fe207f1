// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package backendtest provides a backends.Builder decorator that counts the ops created and the runs executed.
//
// It is used by tests to check that memoized compilation doesn't create duplicate backend state.
package backendtest

import (
	"sync"

	"github.com/gomlx/exprgraph/backends"
	_ "github.com/gomlx/exprgraph/backends/default"
	"github.com/gomlx/exprgraph/pkg/core/shapes"
	"github.com/gomlx/exprgraph/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/janpfeifer/must"
)

// Builder wraps a backends.Builder, counting the calls to its construction methods, including failed ones.
type Builder struct {
	backends.Builder

	mu       sync.Mutex
	counts   map[string]int
	sessions []*Session
}

var _ backends.Builder = (*Builder)(nil)

// Wrap returns a counting decorator around builder.
func Wrap(builder backends.Builder) *Builder {
	return &Builder{Builder: builder, counts: make(map[string]int)}
}

// New creates a counting builder over the default "go" engine with a fixed seed.
func New(name string) *Builder {
	backend := must.M1(backends.NewWithConfig("go:seed=42"))
	return Wrap(backend.Builder(name))
}

func (b *Builder) count(method string) {
	b.mu.Lock()
	b.counts[method]++
	b.mu.Unlock()
}

// Count returns the number of calls to the given method, e.g. "Constant".
func (b *Builder) Count(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts[method]
}

// NumConstructions returns the total number of calls to the methods creating ops or variables.
func (b *Builder) NumConstructions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for method, count := range b.counts {
		if method != "NewSession" {
			total += count
		}
	}
	return total
}

// Constant implements backends.Builder.
func (b *Builder) Constant(flat any, dimensions ...int) (backends.Op, error) {
	b.count("Constant")
	return b.Builder.Constant(flat, dimensions...)
}

// Placeholder implements backends.Builder.
func (b *Builder) Placeholder(name string, shape shapes.Shape) (backends.Op, error) {
	b.count("Placeholder")
	return b.Builder.Placeholder(name, shape)
}

// Variable implements backends.Builder.
func (b *Builder) Variable(name string, shape shapes.Shape, initialValue backends.Op) (backends.Variable, error) {
	b.count("Variable")
	return b.Builder.Variable(name, shape, initialValue)
}

// Random implements backends.Builder.
func (b *Builder) Random(opType backends.OpType, shapeOp backends.Op, dtype dtypes.DType) (backends.Op, error) {
	b.count("Random")
	return b.Builder.Random(opType, shapeOp, dtype)
}

// Unary implements backends.Builder.
func (b *Builder) Unary(opType backends.OpType, operand backends.Op) (backends.Op, error) {
	b.count("Unary")
	return b.Builder.Unary(opType, operand)
}

// Binary implements backends.Builder.
func (b *Builder) Binary(opType backends.OpType, lhs, rhs backends.Op) (backends.Op, error) {
	b.count("Binary")
	return b.Builder.Binary(opType, lhs, rhs)
}

// Minimize implements backends.Builder.
func (b *Builder) Minimize(config backends.OptimizerConfig, loss backends.Op, variables []backends.Variable) (
	backends.Op, []backends.Variable, error) {
	b.count("Minimize")
	return b.Builder.Minimize(config, loss, variables)
}

// NewSession implements backends.Builder. The returned session counts its runs.
func (b *Builder) NewSession() (backends.Session, error) {
	b.count("NewSession")
	session, err := b.Builder.NewSession()
	if err != nil {
		return nil, err
	}
	counting := &Session{Session: session}
	b.mu.Lock()
	b.sessions = append(b.sessions, counting)
	b.mu.Unlock()
	return counting, nil
}

// NumRuns returns the total number of runs over all sessions created by this builder.
func (b *Builder) NumRuns() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, s := range b.sessions {
		total += s.NumRuns()
	}
	return total
}

// Session wraps a backends.Session, counting the calls to Run.
type Session struct {
	backends.Session

	mu      sync.Mutex
	numRuns int
}

// Run implements backends.Session.
func (s *Session) Run(feeds []backends.Feed, fetches []backends.Op, targets []backends.Op) ([]*tensors.Tensor, error) {
	s.mu.Lock()
	s.numRuns++
	s.mu.Unlock()
	return s.Session.Run(feeds, fetches, targets)
}

// NumRuns returns the number of calls to Run.
func (s *Session) NumRuns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.numRuns
}
