package interpreter

import (
	"github.com/wazcore/wazcore/internal/bytecode"
	"github.com/wazcore/wazcore/internal/instance"
	"github.com/wazcore/wazcore/internal/trap"
	"github.com/wazcore/wazcore/internal/value"
)

// execOne runs a single non-control instruction (dispatch already handled
// OpJump/OpJumpIfTrue/OpJumpIfFalse/OpBrTable/OpEnd/OpReturn itself, since
// those mutate pc directly).
func execOne(es *instance.ExecutionState, self *instance.DefinedFunction, buf []byte, ins *bytecode.Instruction, pc int) {
	switch ins.Op {
	case bytecode.OpConstI32:
		value.WriteI32(buf, ins.Dst, int32(ins.ImmI64))
	case bytecode.OpConstI64:
		value.WriteI64(buf, ins.Dst, ins.ImmI64)
	case bytecode.OpConstF32:
		value.WriteI32(buf, ins.Dst, int32(ins.ImmI64))
	case bytecode.OpConstF64:
		value.WriteI64(buf, ins.Dst, ins.ImmI64)
	case bytecode.OpConstV128:
		value.WriteV128(buf, ins.Dst, value.V128(ins.ImmV128))
	case bytecode.OpConstRefNull:
		value.WriteRef(buf, ins.Dst, value.NullRef)
	case bytecode.OpMove32:
		value.WriteU32(buf, ins.Dst, value.ReadU32(buf, ins.Src1))
	case bytecode.OpMove64:
		value.WriteU64(buf, ins.Dst, value.ReadU64(buf, ins.Src1))
	case bytecode.OpMove128:
		value.WriteV128(buf, ins.Dst, value.ReadV128(buf, ins.Src1))

	case bytecode.OpSelect:
		// Select has three operands (val1, val2, cond) but Instruction only
		// carries Dst/Src1/Src2; the condition's frame offset rides in Index,
		// reusing the module-index field as a plain byte offset here.
		cond := value.ReadI32(buf, int(ins.Index))
		if cond != 0 {
			value.WriteU64(buf, ins.Dst, value.ReadU64(buf, ins.Src1))
		} else {
			value.WriteU64(buf, ins.Dst, value.ReadU64(buf, ins.Src2))
		}
	case bytecode.OpUnreachable:
		trap.Throw(trap.ReasonUnreachable)

	case bytecode.OpThrow:
		execThrow(es, self, buf, ins, pc)
	case bytecode.OpCall, bytecode.OpCallIndirect:
		execCall(es, self, buf, ins)

	default:
		if execNumeric(buf, ins) {
			return
		}
		if execMemory(self.Inst, buf, ins) {
			return
		}
		if execTable(self.Inst, es, buf, ins) {
			return
		}
		if execGlobal(self.Inst, buf, ins) {
			return
		}
		if execSIMD(buf, ins) {
			return
		}
		panic("interpreter: unhandled opcode")
	}
}
