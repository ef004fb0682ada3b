package instance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazcore/wazcore/api"
	"github.com/wazcore/wazcore/internal/value"
	"github.com/wazcore/wazcore/internal/wasm"
)

func TestBuildExportsAndGetExport(t *testing.T) {
	ft := &wasm.FunctionType{}
	mod := &wasm.Module{
		ExportSection: []*wasm.Export{
			{Name: "f", Type: api.ExternTypeFunc, Index: 0},
		},
	}
	inst := New("test", mod)
	fn := &DefinedFunction{FuncType: ft, Inst: inst}
	inst.Functions = []Function{fn}
	inst.BuildExports()

	got, err := inst.ExportedFunction("f")
	require.NoError(t, err)
	require.Same(t, fn, got)

	_, err = inst.ExportedFunction("missing")
	require.Error(t, err)

	_, err = inst.GetExport("f", api.ExternTypeMemory)
	require.Error(t, err)
}

func TestFuncRefRoundTrip(t *testing.T) {
	mod := &wasm.Module{}
	inst := New("test", mod)
	fn := &DefinedFunction{FuncType: &wasm.FunctionType{}, Inst: inst}
	inst.Functions = []Function{fn}

	ref := inst.FuncRefOf(0)
	require.False(t, ref.IsNull())

	resolved, ok := inst.ResolveFuncRef(ref)
	require.True(t, ok)
	require.Same(t, fn, resolved)

	_, ok = inst.ResolveFuncRef(value.NullRef)
	require.False(t, ok)
}

func TestDefinedFunctionCallBeforeCompilePanics(t *testing.T) {
	fn := &DefinedFunction{FuncType: &wasm.FunctionType{}}
	require.Panics(t, func() { fn.Call(NewExecutionState(), nil) })
}

func TestImportedFunctionCall(t *testing.T) {
	ft := &wasm.FunctionType{Params: []api.ValueType{api.ValueTypeI32}, Results: []api.ValueType{api.ValueTypeI32}}
	fn := &ImportedFunction{
		FuncType: ft,
		Host: func(es *ExecutionState, args, results []value.Value, env any) {
			results[0] = value.I32(args[0].I32() + env.(int32))
		},
		Env: int32(10),
	}
	out := fn.Call(NewExecutionState(), []value.Value{value.I32(5)})
	require.Equal(t, int32(15), out[0].I32())
}
