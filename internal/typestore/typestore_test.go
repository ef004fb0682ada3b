package typestore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazcore/wazcore/api"
	"github.com/wazcore/wazcore/internal/wasm"
)

func TestCanonicalizeDedupesStructurallyEqualTypes(t *testing.T) {
	s := New()
	a := s.Canonicalize(&wasm.FunctionType{Params: []api.ValueType{api.ValueTypeI32}, Results: []api.ValueType{api.ValueTypeI32}})
	b := s.Canonicalize(&wasm.FunctionType{Params: []api.ValueType{api.ValueTypeI32}, Results: []api.ValueType{api.ValueTypeI32}})
	require.Same(t, a, b)
	require.Equal(t, 1, s.Count())
}

func TestCanonicalizeDistinguishesDifferentTypes(t *testing.T) {
	s := New()
	a := s.Canonicalize(&wasm.FunctionType{Params: []api.ValueType{api.ValueTypeI32}})
	b := s.Canonicalize(&wasm.FunctionType{Params: []api.ValueType{api.ValueTypeI64}})
	require.NotSame(t, a, b)
	require.Equal(t, 2, s.Count())
}

func TestCanonicalizePopulatesCache(t *testing.T) {
	s := New()
	a := s.Canonicalize(&wasm.FunctionType{Params: []api.ValueType{api.ValueTypeI64, api.ValueTypeI32}})
	require.Equal(t, 8+4, a.ParamStackSize())
}
