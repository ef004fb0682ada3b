package jitshim_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazcore/wazcore/api"
	"github.com/wazcore/wazcore/internal/instance"
	"github.com/wazcore/wazcore/internal/jitshim"
	"github.com/wazcore/wazcore/internal/value"
	"github.com/wazcore/wazcore/internal/wasm"
)

type stubCompiler struct {
	compiles map[*instance.DefinedFunction]instance.CallEntry
}

func (c stubCompiler) Compile(fn *instance.DefinedFunction) (instance.CallEntry, bool) {
	entry, ok := c.compiles[fn]
	return entry, ok
}

func constEntry(n int32) instance.CallEntry {
	return func(_ *instance.ExecutionState, _ *instance.DefinedFunction, _ []value.Value) []value.Value {
		return []value.Value{value.I32(n)}
	}
}

func interpretStub(_ *instance.ExecutionState, _ *instance.DefinedFunction, _ []value.Value) []value.Value {
	return []value.Value{value.I32(-1)}
}

// TestCompileWithFallbackPrefersCompilerThenFallsBack checks that a
// Compiler's verdict wins per function, and that declined functions still
// get a working entry rather than being left nil.
func TestCompileWithFallbackPrefersCompilerThenFallsBack(t *testing.T) {
	ft := &wasm.FunctionType{Results: []api.ValueType{api.ValueTypeI32}}
	ft.Cache()

	mod := &wasm.Module{}
	inst := instance.New("m", mod)
	compiled := &instance.DefinedFunction{FuncType: ft, Inst: inst}
	declined := &instance.DefinedFunction{FuncType: ft, Inst: inst}
	inst.Functions = []instance.Function{compiled, declined}

	jitshim.CompileWithFallback(inst, stubCompiler{compiles: map[*instance.DefinedFunction]instance.CallEntry{
		compiled: constEntry(42),
	}}, interpretStub)

	out := compiled.Call(instance.NewExecutionState(), nil)
	require.Equal(t, int32(42), out[0].I32())

	out = declined.Call(instance.NewExecutionState(), nil)
	require.Equal(t, int32(-1), out[0].I32())
}

// TestCompileWithFallbackNilCompiler checks the nil-Compiler shorthand.
func TestCompileWithFallbackNilCompiler(t *testing.T) {
	ft := &wasm.FunctionType{Results: []api.ValueType{api.ValueTypeI32}}
	ft.Cache()
	mod := &wasm.Module{}
	inst := instance.New("m", mod)
	fn := &instance.DefinedFunction{FuncType: ft, Inst: inst}
	inst.Functions = []instance.Function{fn}

	jitshim.CompileWithFallback(inst, nil, interpretStub)

	out := fn.Call(instance.NewExecutionState(), nil)
	require.Equal(t, int32(-1), out[0].I32())
}
