// Package global implements the global runtime (spec.md C4): a single
// mutable-or-immutable value cell with type-checked writes.
package global

import (
	"fmt"

	"github.com/wazcore/wazcore/api"
	"github.com/wazcore/wazcore/internal/value"
)

// Global is one instantiated global variable.
type Global struct {
	kind    value.Kind
	mutable bool
	val     value.Value
}

// New creates a Global of the given kind and mutability, initialized to init.
func New(kind api.ValueType, mutable bool, init value.Value) *Global {
	return &Global{kind: value.KindFromValueType(kind), mutable: mutable, val: init}
}

// Kind returns the global's declared value kind.
func (g *Global) Kind() value.Kind { return g.kind }

// Mutable reports whether Set is permitted.
func (g *Global) Mutable() bool { return g.mutable }

// Get returns the current value.
func (g *Global) Get() value.Value { return g.val }

// Set overwrites the value. It panics (a programmer error, not a trap — the
// byte-code verifier must already guarantee this per spec.md §4) if g is
// immutable or v's kind does not match g's declared kind.
func (g *Global) Set(v value.Value) {
	if !g.mutable {
		panic("global: write to immutable global")
	}
	if v.Kind() != g.kind {
		panic(fmt.Sprintf("global: kind mismatch: have %s want %s", v.Kind(), g.kind))
	}
	g.val = v
}
