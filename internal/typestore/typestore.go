// Package typestore canonicalizes FunctionTypes (spec.md C14) so that
// indirect-call type-equality checks in the executor are an O(1) pointer
// compare, rather than an elementwise slice comparison on every
// call_indirect.
package typestore

import (
	"sync"

	"github.com/wazcore/wazcore/internal/wasm"
)

// Store canonicalizes FunctionType values by their String() key, grounded
// on the teacher's own `typeIDs map[string]FunctionTypeID` pattern: the
// first FunctionType seen for a given (params, results) pair becomes the
// canonical instance; every subsequent structurally-identical type is
// rewritten to point at it.
type Store struct {
	mu         sync.Mutex
	byKey      map[string]*wasm.FunctionType
}

// New creates an empty Store.
func New() *Store {
	return &Store{byKey: map[string]*wasm.FunctionType{}}
}

// Canonicalize returns the canonical *wasm.FunctionType structurally equal
// to t: the same pointer for every call with an equal signature. t.Cache()
// is invoked on first sight of a signature so slot sizes are always
// populated on the returned pointer.
func (s *Store) Canonicalize(t *wasm.FunctionType) *wasm.FunctionType {
	key := t.String()

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.byKey[key]; ok {
		return existing
	}
	t.Cache()
	s.byKey[key] = t
	return t
}

// Count returns how many distinct signatures have been canonicalized —
// exposed for diagnostics/tests, mirroring the teacher's
// Engine.CompiledModuleCount style introspection.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byKey)
}
