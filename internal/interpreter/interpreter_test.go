package interpreter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazcore/wazcore/api"
	"github.com/wazcore/wazcore/internal/bytecode"
	"github.com/wazcore/wazcore/internal/exception"
	"github.com/wazcore/wazcore/internal/instance"
	"github.com/wazcore/wazcore/internal/interpreter"
	"github.com/wazcore/wazcore/internal/table"
	"github.com/wazcore/wazcore/internal/trap"
	"github.com/wazcore/wazcore/internal/value"
	"github.com/wazcore/wazcore/internal/wasm"
)

func i32i32_i32() *wasm.FunctionType {
	ft := &wasm.FunctionType{
		Params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
		Results: []api.ValueType{api.ValueTypeI32},
	}
	ft.Cache()
	return ft
}

// TestFibonacciByRecursion builds fib(n) as a hand-assembled, self-calling
// DefinedFunction and checks it against the first ten Fibonacci numbers.
func TestFibonacciByRecursion(t *testing.T) {
	ft := &wasm.FunctionType{Params: []api.ValueType{api.ValueTypeI32}, Results: []api.ValueType{api.ValueTypeI32}}
	ft.Cache()

	const resultOff = 44
	code := &wasm.Code{
		RequiredStackSize: 48,
		Ops: []bytecode.Instruction{
			{Op: bytecode.OpConstI32, Dst: 4, ImmI64: 2},
			{Op: bytecode.OpI32LtS, Src1: 0, Src2: 4, Dst: 8},
			{Op: bytecode.OpJumpIfFalse, Src1: 8, ImmI64: 5},
			{Op: bytecode.OpMove32, Src1: 0, Dst: resultOff},
			{Op: bytecode.OpReturn},
			{Op: bytecode.OpConstI32, Dst: 12, ImmI64: 1},
			{Op: bytecode.OpI32Sub, Src1: 0, Src2: 12, Dst: 16},
			{Op: bytecode.OpMove32, Src1: 16, Dst: 20},
			{Op: bytecode.OpCall, Index: 0, ParamOffsets: []int{20}, ResultOffsets: []int{24}},
			{Op: bytecode.OpConstI32, Dst: 28, ImmI64: 2},
			{Op: bytecode.OpI32Sub, Src1: 0, Src2: 28, Dst: 32},
			{Op: bytecode.OpMove32, Src1: 32, Dst: 36},
			{Op: bytecode.OpCall, Index: 0, ParamOffsets: []int{36}, ResultOffsets: []int{40}},
			{Op: bytecode.OpI32Add, Src1: 24, Src2: 40, Dst: resultOff},
			{Op: bytecode.OpEnd},
		},
	}

	mod := &wasm.Module{}
	inst := instance.New("fib", mod)
	fn := &instance.DefinedFunction{Code: code, FuncType: ft, Inst: inst, DebugName: "fib"}
	inst.Functions = []instance.Function{fn}
	interpreter.Compile(inst)

	want := []int32{0, 1, 1, 2, 3, 5, 8, 13, 21, 34}
	for n, w := range want {
		es := instance.NewExecutionState()
		out := fn.Call(es, []value.Value{value.I32(int32(n))})
		require.Equal(t, w, out[0].I32(), "fib(%d)", n)
	}
}

func buildDivFunc(op bytecode.Opcode) *instance.DefinedFunction {
	ft := i32i32_i32()
	code := &wasm.Code{
		RequiredStackSize: 12,
		Ops: []bytecode.Instruction{
			{Op: op, Src1: 0, Src2: 4, Dst: 8},
			{Op: bytecode.OpEnd},
		},
	}
	mod := &wasm.Module{}
	inst := instance.New("div", mod)
	fn := &instance.DefinedFunction{Code: code, FuncType: ft, Inst: inst}
	inst.Functions = []instance.Function{fn}
	interpreter.Compile(inst)
	return fn
}

func TestIntegerDivideOverflowAndDivideByZero(t *testing.T) {
	fn := buildDivFunc(bytecode.OpI32DivS)

	result := trap.Run(func() {
		fn.Call(instance.NewExecutionState(), []value.Value{value.I32(-2147483648), value.I32(-1)})
	})
	require.True(t, result.Trapped())
	require.Equal(t, trap.ReasonIntegerOverflow, result.Unwind.(*trap.Error).Reason)

	result = trap.Run(func() {
		fn.Call(instance.NewExecutionState(), []value.Value{value.I32(10), value.I32(0)})
	})
	require.True(t, result.Trapped())
	require.Equal(t, trap.ReasonIntegerDivideByZero, result.Unwind.(*trap.Error).Reason)

	var out []value.Value
	result = trap.Run(func() {
		out = fn.Call(instance.NewExecutionState(), []value.Value{value.I32(7), value.I32(2)})
	})
	require.False(t, result.Trapped())
	require.Equal(t, int32(3), out[0].I32())
}

// TestCallIndirectTypeMismatch exercises the three call_indirect traps:
// type mismatch, uninitialized element, and undefined element.
func TestCallIndirectTypeMismatch(t *testing.T) {
	i32Ret := &wasm.FunctionType{Results: []api.ValueType{api.ValueTypeI32}}
	i32Ret.Cache()
	f64Ret := &wasm.FunctionType{Results: []api.ValueType{api.ValueTypeF64}}
	f64Ret.Cache()

	mod := &wasm.Module{TypeSection: []*wasm.FunctionType{i32Ret, f64Ret}}
	inst := instance.New("indirect", mod)

	target := &instance.DefinedFunction{
		Code:     &wasm.Code{RequiredStackSize: 4, Ops: []bytecode.Instruction{{Op: bytecode.OpConstI32, Dst: 0, ImmI64: 9}, {Op: bytecode.OpEnd}}},
		FuncType: i32Ret,
		Inst:     inst,
	}
	caller := &instance.DefinedFunction{FuncType: &wasm.FunctionType{Results: []api.ValueType{api.ValueTypeI32}}, Inst: inst}
	caller.FuncType.Cache()

	tbl := table.New(api.ValueTypeFuncref, 2, 2)
	inst.Functions = []instance.Function{target, caller}
	inst.Tables = []*table.Table{tbl}
	tbl.Set(0, inst.FuncRefOf(0))

	callOK := &wasm.Code{
		RequiredStackSize: 8,
		Ops: []bytecode.Instruction{
			{Op: bytecode.OpConstI32, Dst: 0, ImmI64: 0},
			{Op: bytecode.OpCallIndirect, Index: 0, Src1: 0, Index2: 0, ParamOffsets: nil, ResultOffsets: []int{4}},
			{Op: bytecode.OpMove32, Src1: 4, Dst: 4},
			{Op: bytecode.OpEnd},
		},
	}
	callMismatch := &wasm.Code{
		RequiredStackSize: 8,
		Ops: []bytecode.Instruction{
			{Op: bytecode.OpConstI32, Dst: 0, ImmI64: 0},
			{Op: bytecode.OpCallIndirect, Index: 0, Src1: 0, Index2: 1, ResultOffsets: nil},
			{Op: bytecode.OpEnd},
		},
	}
	callUninit := &wasm.Code{
		RequiredStackSize: 8,
		Ops: []bytecode.Instruction{
			{Op: bytecode.OpConstI32, Dst: 0, ImmI64: 1},
			{Op: bytecode.OpCallIndirect, Index: 0, Src1: 0, Index2: 0},
			{Op: bytecode.OpEnd},
		},
	}
	callUndefined := &wasm.Code{
		RequiredStackSize: 8,
		Ops: []bytecode.Instruction{
			{Op: bytecode.OpConstI32, Dst: 0, ImmI64: 5},
			{Op: bytecode.OpCallIndirect, Index: 0, Src1: 0, Index2: 0},
			{Op: bytecode.OpEnd},
		},
	}

	run := func(code *wasm.Code) trap.Result {
		caller.Code = code
		caller.Entry = nil
		interpreter.Compile(inst)
		return trap.Run(func() { caller.Call(instance.NewExecutionState(), nil) })
	}

	res := run(callOK)
	require.False(t, res.Trapped())

	res = run(callMismatch)
	require.True(t, res.Trapped())
	require.Equal(t, trap.ReasonIndirectCallTypeMismatch, res.Unwind.(*trap.Error).Reason)

	res = run(callUninit)
	require.True(t, res.Trapped())
	require.Equal(t, trap.ReasonUninitializedElement, res.Unwind.(*trap.Error).Reason)

	res = run(callUndefined)
	require.True(t, res.Trapped())
	require.Equal(t, trap.ReasonUndefinedElement, res.Unwind.(*trap.Error).Reason)
}

// TestUserExceptionCaughtInSameFunction exercises throw/try_table-style
// catch resolution within a single function's Catches list.
func TestUserExceptionCaughtInSameFunction(t *testing.T) {
	payloadType := &wasm.FunctionType{Params: []api.ValueType{api.ValueTypeI32}}
	tag := exception.New(payloadType)

	mod := &wasm.Module{}
	inst := instance.New("exc", mod)
	inst.Tags = []*exception.Tag{tag}

	const resultOff = 8
	code := &wasm.Code{
		RequiredStackSize: 12,
		Catches: []wasm.CatchInfo{
			{TryStart: 0, TryEnd: 2, TagIndex: 0, CatchStart: 3, StackSizeToBe: 4},
		},
		Ops: []bytecode.Instruction{
			{Op: bytecode.OpConstI32, Dst: 0, ImmI64: 42},
			{Op: bytecode.OpThrow, Index: 0, Src1: 0},
			{Op: bytecode.OpEnd},
			{Op: bytecode.OpMove32, Src1: 4, Dst: resultOff},
			{Op: bytecode.OpEnd},
		},
	}
	ft := &wasm.FunctionType{Results: []api.ValueType{api.ValueTypeI32}}
	ft.Cache()
	fn := &instance.DefinedFunction{Code: code, FuncType: ft, Inst: inst}
	inst.Functions = []instance.Function{fn}
	interpreter.Compile(inst)

	out := fn.Call(instance.NewExecutionState(), nil)
	require.Equal(t, int32(42), out[0].I32())
}

// TestUncaughtExceptionPropagatesAsTrapRunResult verifies an exception with
// no matching Catches clause unwinds out through trap.Run, same channel as
// a built-in trap.
func TestUncaughtExceptionPropagatesAsTrapRunResult(t *testing.T) {
	payloadType := &wasm.FunctionType{}
	tag := exception.New(payloadType)

	mod := &wasm.Module{}
	inst := instance.New("exc2", mod)
	inst.Tags = []*exception.Tag{tag}

	code := &wasm.Code{
		RequiredStackSize: 4,
		Ops: []bytecode.Instruction{
			{Op: bytecode.OpThrow, Index: 0, Src1: 0},
			{Op: bytecode.OpEnd},
		},
	}
	ft := &wasm.FunctionType{}
	ft.Cache()
	fn := &instance.DefinedFunction{Code: code, FuncType: ft, Inst: inst}
	inst.Functions = []instance.Function{fn}
	interpreter.Compile(inst)

	result := trap.Run(func() { fn.Call(instance.NewExecutionState(), nil) })
	require.True(t, result.Trapped())
	exc, ok := result.Unwind.(*exception.Exception)
	require.True(t, ok)
	require.True(t, exc.IsUser())
}
