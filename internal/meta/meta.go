// Package meta implements the metavariable store: the only mutable
// state in the elaborator. Entries are inserted unsolved and mutated
// to solved exactly once; they are never deleted, so a meta's index
// remains a stable, permanent identifier for its lifetime.
package meta

import (
	"fmt"

	"github.com/example/mltt-elab/internal/core"
	"github.com/example/mltt-elab/internal/domain"
)

// Span is an opaque source-location token recorded with an unsolved
// meta for diagnostics. Source-location rendering itself is out of
// scope for this module (spec.md section 1); Span is passed through
// unexamined.
type Span interface{}

// Entry is the state of one metavariable: either still unsolved (with
// its origin span and expected type recorded for diagnostics) or
// solved to a value.
type Entry struct {
	Solved      bool
	Origin      Span
	ExpectedTy  domain.Value
	Value       domain.Value // only meaningful when Solved
}

// Store is the mutable registry of metavariables. The zero value is
// ready to use.
type Store struct {
	entries []Entry
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// AddUnsolved inserts a fresh unsolved meta and returns its index.
// Indices are assigned monotonically.
func (s *Store) AddUnsolved(origin Span, expectedTy domain.Value) core.MetaIndex {
	index := core.MetaIndex(len(s.entries))
	s.entries = append(s.entries, Entry{Origin: origin, ExpectedTy: expectedTy})
	return index
}

// AddSolved records a solution for an unsolved meta. It panics if the
// meta is already solved or doesn't exist: the unifier must never
// attempt to solve the same meta twice, and the checker must never
// pass an index it didn't obtain from AddUnsolved.
func (s *Store) AddSolved(index core.MetaIndex, value domain.Value) {
	e := s.mustEntry(index)
	if e.Solved {
		panic(fmt.Sprintf("meta: ?%d is already solved", index))
	}
	e.Solved = true
	e.Value = value
	s.entries[index] = *e
}

// Lookup returns the current entry for index.
func (s *Store) Lookup(index core.MetaIndex) Entry {
	return *s.mustEntry(index)
}

func (s *Store) mustEntry(index core.MetaIndex) *Entry {
	if int(index) >= len(s.entries) {
		panic(fmt.Sprintf("meta: no such metavariable ?%d", index))
	}
	return &s.entries[index]
}

// Unsolved returns the indices of every metavariable that has not yet
// been solved, in insertion order. Used by the post-elaboration pass
// (spec.md section 4.H) to surface UnsolvedMeta errors.
func (s *Store) Unsolved() []core.MetaIndex {
	var out []core.MetaIndex
	for i, e := range s.entries {
		if !e.Solved {
			out = append(out, core.MetaIndex(i))
		}
	}
	return out
}

// Len reports the number of metavariables ever created.
func (s *Store) Len() int { return len(s.entries) }
