// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package ids allocates the unique identifiers given to expression nodes.
//
// A Sequence is safe for concurrent use. The package-level Default sequence is shared by every
// builder that doesn't ask for its own, so ids are unique process-wide unless a Sequence is
// explicitly injected (usually in tests, to get deterministic ids).
package ids

import (
	"strconv"
	"sync/atomic"
)

// ID identifies one expression node. It is also the memoization key used by the compiler.
type ID int64

// Invalid is never returned by a Sequence.
const Invalid ID = 0

// String implements fmt.Stringer.
func (id ID) String() string {
	return "#" + strconv.FormatInt(int64(id), 10)
}

// IsValid returns whether id was issued by some Sequence.
func (id ID) IsValid() bool { return id > Invalid }

// Sequence is a monotonically increasing id generator. Ids are never reused.
type Sequence struct {
	first int64
	last  atomic.Int64
}

// NewSequence returns a Sequence whose first id is `first`.
//
// It panics if first is not positive, since Invalid (0) and negative ids are reserved.
func NewSequence(first int64) *Sequence {
	if first <= 0 {
		panic("ids.NewSequence: first id must be positive")
	}
	s := &Sequence{first: first}
	s.last.Store(first - 1)
	return s
}

// Next returns a fresh id.
func (s *Sequence) Next() ID {
	return ID(s.last.Add(1))
}

// Last returns the most recently issued id, or Invalid if none was issued yet.
func (s *Sequence) Last() ID {
	last := s.last.Load()
	if last < s.first {
		return Invalid
	}
	return ID(last)
}

// Default is the process-wide sequence.
var Default = NewSequence(1)

// Next returns a fresh id from the Default sequence.
func Next() ID { return Default.Next() }
