//go:build amd64 && cgo

// Package bench benchmarks this engine's interpreter against two independent
// production WebAssembly runtimes, wasmtime and wasmer, on the same
// workload. Neither dependency is imported outside this directory or
// internal/interpreter's cross-validation test; both are benchmark/test-only
// per their own upstream go.mod convention.
package bench

import (
	"github.com/bytecodealliance/wasmtime-go/v3"
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/wazcore/wazcore/api"
	"github.com/wazcore/wazcore/internal/bytecode"
	"github.com/wazcore/wazcore/internal/instance"
	"github.com/wazcore/wazcore/internal/store"
	"github.com/wazcore/wazcore/internal/value"
	"github.com/wazcore/wazcore/internal/wasm"
)

// addOneWasm is the binary encoding of a single exported function "add1":
// (i32) -> i32 returning its argument plus one. Hand-assembled; see
// internal/interpreter/crossvalidate_test.go for the byte-by-byte layout
// notes, reused here unchanged so all three engines run the identical
// module.
var addOneWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x06, 0x01, 0x60, 0x01, 0x7f, 0x01, 0x7f,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x08, 0x01, 0x04, 'a', 'd', 'd', '1', 0x00, 0x00,
	0x0a, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x41, 0x01, 0x6a, 0x0b,
}

// ownAddOneModule builds the structural equivalent of addOneWasm directly
// as this engine's own *wasm.Module, skipping binary decoding entirely
// (this engine accepts already-parsed modules; decoding wasm bytes is out
// of its scope).
func ownAddOneModule() *wasm.Module {
	i32Ret := &wasm.FunctionType{Params: []api.ValueType{api.ValueTypeI32}, Results: []api.ValueType{api.ValueTypeI32}}
	i32Ret.Cache()
	return &wasm.Module{
		TypeSection:     []*wasm.FunctionType{i32Ret},
		FunctionSection: []wasm.Index{0},
		CodeSection: []*wasm.Code{{
			RequiredStackSize: 8,
			Ops: []bytecode.Instruction{
				{Op: bytecode.OpConstI32, Dst: 4, ImmI64: 1},
				{Op: bytecode.OpI32Add, Src1: 0, Src2: 4, Dst: 4},
				{Op: bytecode.OpEnd},
			},
		}},
		ExportSection: []*wasm.Export{{Name: "add1", Type: api.ExternTypeFunc, Index: 0}},
	}
}

// ownAddOne instantiates ownAddOneModule and returns a closure calling
// "add1", matching the call shape the wasmtime/wasmer helpers below expose.
func ownAddOne() (func(int32) int32, error) {
	s := store.New(store.NewConfig())
	inst, err := s.Instantiate("bench", ownAddOneModule())
	if err != nil {
		return nil, err
	}
	fn, err := inst.ExportedFunction("add1")
	if err != nil {
		return nil, err
	}
	return func(x int32) int32 {
		out := fn.Call(instance.NewExecutionState(), []value.Value{value.I32(x)})
		return out[0].I32()
	}, nil
}

func wasmtimeAddOne() (func(int32) int32, error) {
	engine := wasmtime.NewEngine()
	st := wasmtime.NewStore(engine)
	mod, err := wasmtime.NewModule(engine, addOneWasm)
	if err != nil {
		return nil, err
	}
	inst, err := wasmtime.NewInstance(st, mod, nil)
	if err != nil {
		return nil, err
	}
	fn := inst.GetExport(st, "add1").Func()
	return func(x int32) int32 {
		out, err := fn.Call(st, x)
		if err != nil {
			panic(err)
		}
		return out.(int32)
	}, nil
}

func wasmerAddOne() (func(int32) int32, error) {
	engine := wasmer.NewEngine()
	st := wasmer.NewStore(engine)
	mod, err := wasmer.NewModule(st, addOneWasm)
	if err != nil {
		return nil, err
	}
	inst, err := wasmer.NewInstance(mod, wasmer.NewImportObject())
	if err != nil {
		return nil, err
	}
	fn, err := inst.Exports.GetRawFunction("add1")
	if err != nil {
		return nil, err
	}
	return func(x int32) int32 {
		out, err := fn.Call(x)
		if err != nil {
			panic(err)
		}
		return out.(int32)
	}, nil
}
