// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package session runs compiled expression graphs.
//
// A Session is created by consuming a compiler.Compiler: it takes over the compiled elements, frozen from
// then on, and binds a backend session to them. Each Run executes the feeds, fetches and targets assembled
// in a RunArgs:
//
//	s, err := session.New(c)
//	err = s.RunInitializers()
//	args := s.NewRunArgs()
//	err = s.AddFeed(args, x.Ref(), tensors.FromFlatDataAndDimensions([]float32{4, 5, 6}, 3))
//	token, err := s.RequestFetch(args, y)
//	results, err := s.Run(args)
//	value, err := results.Fetch(token)
//
// A failed Run leaves the session usable, and variables unchanged.
package session

import (
	"cmp"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/exprgraph/backends"
	"github.com/gomlx/exprgraph/pkg/compiler"
	"github.com/gomlx/exprgraph/pkg/core/ids"
	"github.com/gomlx/exprgraph/pkg/core/tensors"
	"github.com/gomlx/exprgraph/pkg/expr"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ErrFinalized is returned by Run after Finalize was called.
var ErrFinalized = errors.New("session was finalized")

// Session executes a compiled graph. Runs are serialized by the backend.
type Session struct {
	id        uuid.UUID
	program   *compiler.Program
	backend   backends.Session
	finalized atomic.Bool
}

// New consumes the compiler c: it can't be used after this. Everything to be run must have been compiled.
func New(c *compiler.Compiler) (*Session, error) {
	program, err := c.Finish()
	if err != nil {
		return nil, err
	}
	s := &Session{
		id:      uuid.New(),
		program: program,
		backend: program.Session,
	}
	klog.V(1).Infof("%s: created over %d compiled elements", s, len(program.Elements()))
	return s, nil
}

// ID returns the unique id of the session.
func (s *Session) ID() uuid.UUID { return s.id }

// String implements fmt.Stringer.
func (s *Session) String() string {
	return fmt.Sprintf("session %s (%q)", s.id, s.program.Name)
}

// Finalize releases the backend storage of the variables. The Session can't be used afterwards.
func (s *Session) Finalize() {
	if s.finalized.Swap(true) {
		return
	}
	s.backend.Finalize()
	klog.V(1).Infof("%s: finalized", s)
}

// lookup returns the element compiled for ref.
func (s *Session) lookup(ref expr.Ref) (compiler.Element, error) {
	element, found := s.program.Lookup(ref.ID())
	if !found {
		return nil, errors.Wrapf(expr.ErrUnknownExpression, "%s was not compiled before the session was created", ref.ID())
	}
	return element, nil
}

// elementsByID returns the compiled elements sorted by id.
func (s *Session) elementsByID() []compiler.Element {
	elements := s.program.Elements()
	slices.SortFunc(elements, func(a, b compiler.Element) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return elements
}

// RunArgs accumulates the feeds, fetches and targets of one Run. Create it with Session.NewRunArgs.
type RunArgs struct {
	session *Session
	feeds   []backends.Feed
	fedIDs  map[ids.ID]bool
	fetches []backends.Op
	targets []backends.Op
}

// NewRunArgs returns empty arguments for a Run.
func (s *Session) NewRunArgs() *RunArgs {
	return &RunArgs{session: s, fedIDs: make(map[ids.ID]bool)}
}

// NumFeeds returns the number of feeds added.
func (args *RunArgs) NumFeeds() int { return len(args.feeds) }

// NumFetches returns the number of fetches requested.
func (args *RunArgs) NumFetches() int { return len(args.fetches) }

// NumTargets returns the number of targets added.
func (args *RunArgs) NumTargets() int { return len(args.targets) }

func (s *Session) checkArgs(args *RunArgs) error {
	if args == nil || args.session != s {
		return errors.New("RunArgs were not created by this session")
	}
	return nil
}

// AddFeed feeds value to the referenced placeholder for the Run of args. The value must have the declared
// dtype and rank. Feeding the same placeholder twice replaces the value.
//
// It fails with expr.ErrNotAPlaceholder for variables and optimizers.
func (s *Session) AddFeed(args *RunArgs, ref expr.Ref, value *tensors.Tensor) error {
	if err := s.checkArgs(args); err != nil {
		return err
	}
	element, err := s.lookup(ref)
	if err != nil {
		return err
	}
	operation, ok := element.(*compiler.Operation)
	if !ok {
		return errors.Wrapf(expr.ErrNotAPlaceholder, "can't feed %s, it was compiled to a %s", ref.ID(), element.Kind())
	}
	if value == nil {
		return errors.Errorf("nil value fed to %s", ref.ID())
	}
	if shape := value.Shape(); shape.DType != operation.Shape.DType || shape.Rank() != operation.Shape.Rank() {
		return errors.Wrapf(expr.ErrTypeMismatch, "value %s fed to %s, which has shape %s", shape, ref.ID(), operation.Shape)
	}
	if args.fedIDs[ref.ID()] {
		for ii := range args.feeds {
			if args.feeds[ii].Op == operation.Op {
				args.feeds[ii].Value = value
			}
		}
		return nil
	}
	args.fedIDs[ref.ID()] = true
	args.feeds = append(args.feeds, backends.Feed{Op: operation.Op, Value: value})
	return nil
}

// FetchToken identifies a fetch requested with Session.RequestFetch, to be redeemed with Results.Fetch.
type FetchToken struct {
	args  *RunArgs
	index int
}

// RequestFetch requests the output of ref to be returned by the Run of args.
//
// It fails with expr.ErrNoReadableOutput for optimizers, and with expr.ErrTypeMismatch for the raw node of a
// variable: fetch expr.Variable.Read instead.
func (s *Session) RequestFetch(args *RunArgs, ref expr.Ref) (FetchToken, error) {
	if err := s.checkArgs(args); err != nil {
		return FetchToken{}, err
	}
	element, err := s.lookup(ref)
	if err != nil {
		return FetchToken{}, err
	}
	switch e := element.(type) {
	case *compiler.Operation:
		token := FetchToken{args: args, index: len(args.fetches)}
		args.fetches = append(args.fetches, e.Op)
		return token, nil
	case *compiler.Variable:
		return FetchToken{}, errors.Wrapf(expr.ErrTypeMismatch,
			"can't fetch variable %q (%s) directly, fetch its Read() expression", e.Name(), ref.ID())
	case *compiler.Optimizer:
		return FetchToken{}, errors.Wrapf(expr.ErrNoReadableOutput, "can't fetch %s: cannot read an optimizer's output", ref.ID())
	}
	return FetchToken{}, errors.Errorf("unknown element type %T", element)
}

// AddTarget requests ref to be executed for its side effects by the Run of args: typically an optimizer
// update. It fails with expr.ErrTypeMismatch for variables, use AddInitializer for those.
func (s *Session) AddTarget(args *RunArgs, ref expr.Ref) error {
	if err := s.checkArgs(args); err != nil {
		return err
	}
	element, err := s.lookup(ref)
	if err != nil {
		return err
	}
	switch e := element.(type) {
	case *compiler.Operation:
		args.targets = append(args.targets, e.Op)
	case *compiler.Optimizer:
		args.targets = append(args.targets, e.Update)
	case *compiler.Variable:
		return errors.Wrapf(expr.ErrTypeMismatch, "variable %q (%s) can't be a target, use AddInitializer", e.Name(), ref.ID())
	default:
		return errors.Errorf("unknown element type %T", element)
	}
	return nil
}

// AddInitializer adds the initializer of the referenced variable as a target of the Run of args.
func (s *Session) AddInitializer(args *RunArgs, ref expr.VariableRef) error {
	if err := s.checkArgs(args); err != nil {
		return err
	}
	element, err := s.lookup(ref)
	if err != nil {
		return err
	}
	v, ok := element.(*compiler.Variable)
	if !ok {
		return errors.Wrapf(expr.ErrTypeMismatch, "%s was compiled to a %s, not to a Variable", ref.ID(), element.Kind())
	}
	args.targets = append(args.targets, v.Initializer())
	return nil
}

// Results of a Run.
type Results struct {
	args   *RunArgs
	values []*tensors.Tensor
}

// Len returns the number of fetched values.
func (r *Results) Len() int { return len(r.values) }

// Fetch returns the value requested with token.
func (r *Results) Fetch(token FetchToken) (*tensors.Tensor, error) {
	if token.args != r.args || token.index < 0 || token.index >= len(r.values) {
		return nil, errors.New("fetch token was not requested for this run")
	}
	return r.values[token.index], nil
}

// MustFetch is like Fetch, but panics on error.
func (r *Results) MustFetch(token FetchToken) *tensors.Tensor {
	value, err := r.Fetch(token)
	if err != nil {
		panic(err)
	}
	return value
}

// Run executes one evaluation of the feeds, fetches and targets in args. Each call is independent: only
// the variables, held by the backend, change across runs.
//
// Backend failures, e.g. a placeholder that needed a feed, are returned as *expr.BackendError.
func (s *Session) Run(args *RunArgs) (*Results, error) {
	if err := s.checkArgs(args); err != nil {
		return nil, err
	}
	if s.finalized.Load() {
		return nil, errors.WithStack(ErrFinalized)
	}
	values, err := s.backend.Run(args.feeds, args.fetches, args.targets)
	if err != nil {
		return nil, expr.NewBackendError(err, "running "+s.String())
	}
	if klog.V(2).Enabled() {
		var fetchedBytes uintptr
		for _, value := range values {
			fetchedBytes += value.Memory()
		}
		klog.Infof("%s: ran with %d feeds, %d fetches (%s) and %d targets", s, len(args.feeds), len(args.fetches),
			humanize.Bytes(uint64(fetchedBytes)), len(args.targets))
	}
	return &Results{args: args, values: values}, nil
}

// RunInitializers runs, in one backend run, the initializers of every compiled variable, and of every
// variable touched by a compiled optimizer, including its slots.
//
// If there is nothing to initialize, it doesn't run anything.
func (s *Session) RunInitializers() error {
	if s.finalized.Load() {
		return errors.WithStack(ErrFinalized)
	}
	var targets []backends.Op
	seen := make(map[backends.Variable]bool)
	addInitializer := func(v backends.Variable) {
		if seen[v] {
			return
		}
		seen[v] = true
		targets = append(targets, v.Initializer())
	}
	for _, element := range s.elementsByID() {
		switch e := element.(type) {
		case *compiler.Variable:
			addInitializer(e.Backend)
		case *compiler.Optimizer:
			for _, v := range e.Touched {
				addInitializer(v)
			}
		}
	}
	if len(targets) == 0 {
		klog.V(1).Infof("%s: no variables to initialize", s)
		return nil
	}
	klog.V(1).Infof("%s: running %d initializers", s, len(targets))
	if _, err := s.backend.Run(nil, nil, targets); err != nil {
		return expr.NewBackendError(err, "initializing variables of "+s.String())
	}
	return nil
}
