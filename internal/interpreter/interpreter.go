// Package interpreter implements the byte-code executor and call-protocol
// glue (spec.md C11/C12): a stack-allocated, offset-addressed dispatch loop
// over internal/bytecode.Instruction, running against a byte-array frame
// sized at compile time, with no implicit operand stack.
//
// Dispatch is a dense Go switch (spec.md §4.4's "otherwise, a dense switch
// on opcode is used" fallback) — Go offers no portable way to take the
// address of a switch-case label, so the computed-goto fast path the spec
// describes for C/C++ hosts has no idiomatic Go equivalent; this is a
// deliberate standard-library-shaped choice, not a missing feature.
package interpreter

import (
	"github.com/wazcore/wazcore/internal/bytecode"
	"github.com/wazcore/wazcore/internal/exception"
	"github.com/wazcore/wazcore/internal/instance"
	"github.com/wazcore/wazcore/internal/value"
	"github.com/wazcore/wazcore/internal/wasm"
)

// Compile installs the interpreter's call entry on every DefinedFunction of
// inst. There is no machine-code generation here — "compilation" is just
// wiring the function up to Run, since the offset-addressed instruction
// stream is already the engine's native representation (spec.md's
// ModuleFunction is produced upstream of this package, by the out-of-scope
// parser/validator's lowering step).
func Compile(inst *instance.Instance) {
	for _, fn := range inst.Functions {
		if df, ok := fn.(*instance.DefinedFunction); ok {
			df.Entry = Run
		}
	}
}

// Run is the interpreter's CallEntry (spec.md C12 step 4: "enter the
// interpreter on the callee's byte-code"). It allocates the callee's frame,
// copies params in by kind, executes the instruction stream, and returns
// results read back out by kind.
func Run(es *instance.ExecutionState, self *instance.DefinedFunction, params []value.Value) []value.Value {
	code := self.Code
	buf := make([]byte, code.RequiredStackSize)
	writeParams(buf, self.FuncType.ParamKinds(), params)
	constOff := self.FuncType.ParamStackSize()
	for _, lt := range code.LocalTypes {
		constOff += value.KindFromValueType(lt).SlotSize()
	}
	copy(buf[constOff:], code.ConstantData)

	if len(code.Catches) == 0 {
		pc := 0
		dispatch(es, self, buf, code, &pc)
	} else {
		runWithCatch(es, self, buf, code)
	}
	return readResults(buf, self.FuncType.ResultKinds())
}

// writeParams places params into the frame's leading parameter slots, in
// declaration order, per spec.md §3's stack-slot layout.
func writeParams(buf []byte, kinds []value.Kind, params []value.Value) {
	off := 0
	for i, k := range kinds {
		writeSlot(buf, off, k, params[i])
		off += k.SlotSize()
	}
}

// readResults reads the function's result area — the frame bytes
// immediately following params+locals+constants+scratch, laid out
// contiguously by result kind. Code.RequiredStackSize already accounts for
// this area; its start is RequiredStackSize minus the total result size.
func readResults(buf []byte, kinds []value.Kind) []value.Value {
	total := value.SlotSizeOf(kinds)
	off := len(buf) - total
	results := make([]value.Value, len(kinds))
	for i, k := range kinds {
		results[i] = readSlot(buf, off, k)
		off += k.SlotSize()
	}
	return results
}

func writeSlot(buf []byte, off int, k value.Kind, v value.Value) {
	switch k {
	case value.KindI32:
		value.WriteI32(buf, off, v.I32())
	case value.KindI64:
		value.WriteI64(buf, off, v.I64())
	case value.KindF32:
		value.WriteF32(buf, off, v.F32())
	case value.KindF64:
		value.WriteF64(buf, off, v.F64())
	case value.KindV128:
		value.WriteV128(buf, off, v.V128())
	case value.KindFuncRef, value.KindExternRef:
		value.WriteRef(buf, off, v.Ref())
	}
}

func readSlot(buf []byte, off int, k value.Kind) value.Value {
	switch k {
	case value.KindI32:
		return value.I32(value.ReadI32(buf, off))
	case value.KindI64:
		return value.I64(value.ReadI64(buf, off))
	case value.KindF32:
		return value.F32(value.ReadF32(buf, off))
	case value.KindF64:
		return value.F64(value.ReadF64(buf, off))
	case value.KindV128:
		return value.FromV128(value.ReadV128(buf, off))
	case value.KindFuncRef:
		return value.FuncRef(value.ReadRef(buf, off))
	case value.KindExternRef:
		return value.ExternRef(value.ReadRef(buf, off))
	}
	panic("interpreter: readSlot of void kind")
}

// dispatch runs code's instruction stream starting at *pc until an
// OpEnd/OpReturn (normal completion: pc is left past the last executed
// instruction and dispatch returns), or a panic (trap or user exception)
// propagates out — in which case *pc is left pointing at the instruction
// that raised it, which is exactly what a catch-frame search in an
// enclosing Run invocation (see runWithCatch) needs to test against
// CatchInfo's [TryStart, TryEnd) range.
func dispatch(es *instance.ExecutionState, self *instance.DefinedFunction, buf []byte, code *wasm.Code, pc *int) {
	ops := code.Ops
	for *pc < len(ops) {
		ins := &ops[*pc]
		switch ins.Op {
		case bytecode.OpEnd, bytecode.OpReturn:
			return
		case bytecode.OpJump:
			*pc = int(ins.ImmI64)
			continue
		case bytecode.OpJumpIfTrue:
			if value.ReadI32(buf, ins.Src1) != 0 {
				*pc = int(ins.ImmI64)
				continue
			}
		case bytecode.OpJumpIfFalse:
			if value.ReadI32(buf, ins.Src1) == 0 {
				*pc = int(ins.ImmI64)
				continue
			}
		case bytecode.OpBrTable:
			idx := value.ReadU32(buf, ins.Src1)
			if int(idx) >= len(ins.Targets)-1 {
				idx = uint32(len(ins.Targets) - 1)
			}
			*pc = ins.Targets[idx]
			continue
		default:
			execOne(es, self, buf, ins, *pc)
		}
		*pc++
	}
}

// runWithCatch wraps dispatch in a recover loop that consults self.Code's
// CatchInfo list whenever a *exception.Exception (never a built-in trap,
// per spec.md §4.7) propagates out of the current try region (spec.md
// §4.7's "Catching inside wasm").
func runWithCatch(es *instance.ExecutionState, self *instance.DefinedFunction, buf []byte, code *wasm.Code) {
	pc := 0
	for {
		done := stepUntilCaughtOrDone(es, self, buf, code, &pc)
		if done {
			return
		}
		// pc was rewritten to the matching CatchInfo's CatchStart; loop to
		// resume dispatch from there.
	}
}

// stepUntilCaughtOrDone runs one dispatch segment. It returns true when
// dispatch completed normally; it returns false (having advanced *pc to a
// handler) when an exception was caught here. A trap, or an exception with
// no matching clause, is re-panicked to the caller (the outer Run/Call or
// an enclosing try region up the Go call stack).
func stepUntilCaughtOrDone(es *instance.ExecutionState, self *instance.DefinedFunction, buf []byte, code *wasm.Code, pc *int) (done bool) {
	caught := false
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			exc, ok := r.(*exception.Exception)
			if !ok {
				panic(r) // built-in trap: never caught inside wasm.
			}
			for _, c := range code.Catches {
				if *pc < c.TryStart || *pc >= c.TryEnd {
					continue
				}
				if !c.CatchAll && !(exc.IsUser() && exc.Tag == self.Inst.Tags[c.TagIndex]) {
					continue
				}
				if !c.CatchAll {
					copy(buf[c.StackSizeToBe:], exc.Payload)
				}
				*pc = c.CatchStart
				caught = true
				return
			}
			panic(r) // no clause in this function matches; propagate.
		}()
		dispatch(es, self, buf, code, pc)
	}()
	return !caught
}
