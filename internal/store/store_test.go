package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazcore/wazcore/api"
	"github.com/wazcore/wazcore/internal/bytecode"
	"github.com/wazcore/wazcore/internal/instance"
	"github.com/wazcore/wazcore/internal/store"
	"github.com/wazcore/wazcore/internal/wasm"
)

// TestInstantiateCrossModuleLinking builds two modules by hand: "env"
// exports a one-page memory and a mutable i32 global; "main" imports both,
// writes an active data segment into the imported memory, and runs a start
// function that bumps the imported global before an exported function
// reads the segment's first byte back out. This exercises import
// resolution, active-segment materialization, and the start function in
// one pass (spec.md §4.5).
func TestInstantiateCrossModuleLinking(t *testing.T) {
	i32Type := &wasm.FunctionType{Results: []api.ValueType{api.ValueTypeI32}}
	i32Type.Cache()

	envModule := &wasm.Module{
		MemorySection: []*wasm.MemoryType{{Limits: wasm.Limits{Min: 1}}},
		GlobalSection: []*wasm.Global{
			{
				Type: &wasm.GlobalType{ValType: api.ValueTypeI32, Mutable: true},
				Init: &wasm.ConstantExpression{Opcode: wasm.OpcodeI32Const, Literal: uint64(uint32(10))},
			},
		},
		ExportSection: []*wasm.Export{
			{Name: "mem", Type: api.ExternTypeMemory, Index: 0},
			{Name: "counter", Type: api.ExternTypeGlobal, Index: 0},
		},
	}

	voidType := &wasm.FunctionType{}
	voidType.Cache()

	startCode := &wasm.Code{
		RequiredStackSize: 8,
		Ops: []bytecode.Instruction{
			{Op: bytecode.OpGlobalGet32, Index: 0, Dst: 0},
			{Op: bytecode.OpConstI32, Dst: 4, ImmI64: 1},
			{Op: bytecode.OpI32Add, Src1: 0, Src2: 4, Dst: 0},
			{Op: bytecode.OpGlobalSet32, Index: 0, Src1: 0},
			{Op: bytecode.OpEnd},
		},
	}
	readByte0Code := &wasm.Code{
		RequiredStackSize: 8,
		Ops: []bytecode.Instruction{
			{Op: bytecode.OpConstI32, Dst: 0, ImmI64: 0},
			{Op: bytecode.OpI32Load8U, Index: 0, Src1: 0, Dst: 4},
			{Op: bytecode.OpEnd},
		},
	}

	startIdx := wasm.Index(0)
	mainModule := &wasm.Module{
		TypeSection: []*wasm.FunctionType{voidType, i32Type},
		ImportSection: []*wasm.Import{
			{Module: "env", Name: "mem", Type: api.ExternTypeMemory, DescMemory: &wasm.MemoryType{Limits: wasm.Limits{Min: 1}}},
			{Module: "env", Name: "counter", Type: api.ExternTypeGlobal, DescGlobal: &wasm.GlobalType{ValType: api.ValueTypeI32, Mutable: true}},
		},
		FunctionSection: []wasm.Index{0, 1},
		CodeSection:     []*wasm.Code{startCode, readByte0Code},
		DataSection: []*wasm.DataSegment{
			{Bytes: []byte{7, 8, 9, 10}, OffsetExpr: &wasm.ConstantExpression{Opcode: wasm.OpcodeI32Const, Literal: 0}},
		},
		StartSection: &startIdx,
		ExportSection: []*wasm.Export{
			{Name: "readByte0", Type: api.ExternTypeFunc, Index: 1},
		},
	}

	s := store.New(store.NewConfig())

	envInst, err := s.Instantiate("env", envModule)
	require.NoError(t, err)

	mainInst, err := s.Instantiate("main", mainModule)
	require.NoError(t, err)

	fn, err := mainInst.ExportedFunction("readByte0")
	require.NoError(t, err)

	out := fn.Call(instance.NewExecutionState(), nil)
	require.Equal(t, int32(7), out[0].I32())
	require.Equal(t, int32(11), envInst.Globals[0].Get().I32())
}

// TestInstantiateDuplicateNameRejected checks the name-reservation guard.
func TestInstantiateDuplicateNameRejected(t *testing.T) {
	s := store.New(store.NewConfig())
	mod := &wasm.Module{}
	_, err := s.Instantiate("dup", mod)
	require.NoError(t, err)
	_, err = s.Instantiate("dup", mod)
	require.Error(t, err)
}

// TestInstantiateMissingImportRejected checks that resolving against a
// never-registered module module produces a plain error, not a panic.
func TestInstantiateMissingImportRejected(t *testing.T) {
	s := store.New(store.NewConfig())
	mod := &wasm.Module{
		ImportSection: []*wasm.Import{
			{Module: "nope", Name: "thing", Type: api.ExternTypeMemory, DescMemory: &wasm.MemoryType{}},
		},
	}
	_, err := s.Instantiate("m", mod)
	require.Error(t, err)

	// The reserved name must have been released so a retry after fixing the
	// dependency can succeed.
	_, ok := s.Instance("m")
	require.False(t, ok)
}
