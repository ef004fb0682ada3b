package interpreter

import (
	"github.com/wazcore/wazcore/internal/bytecode"
	"github.com/wazcore/wazcore/internal/instance"
	"github.com/wazcore/wazcore/internal/value"
)

// execGlobal handles global.get/global.set, split by slot width since the
// frame has no notion of a global's Kind at the instruction-operand level.
func execGlobal(inst *instance.Instance, buf []byte, ins *bytecode.Instruction) bool {
	switch ins.Op {
	case bytecode.OpGlobalGet32, bytecode.OpGlobalGet64, bytecode.OpGlobalGetRef:
		g := inst.Globals[ins.Index].Get()
		writeGlobalValue(buf, ins.Dst, g)
	case bytecode.OpGlobalGet128:
		value.WriteV128(buf, ins.Dst, inst.Globals[ins.Index].Get().V128())
	case bytecode.OpGlobalSet32:
		g := inst.Globals[ins.Index]
		g.Set(readGlobalValue(buf, ins.Src1, g.Kind()))
	case bytecode.OpGlobalSet64, bytecode.OpGlobalSetRef:
		g := inst.Globals[ins.Index]
		g.Set(readGlobalValue(buf, ins.Src1, g.Kind()))
	case bytecode.OpGlobalSet128:
		g := inst.Globals[ins.Index]
		g.Set(value.FromV128(value.ReadV128(buf, ins.Src1)))
	default:
		return false
	}
	return true
}

func writeGlobalValue(buf []byte, off int, v value.Value) {
	switch v.Kind() {
	case value.KindI64:
		value.WriteI64(buf, off, v.I64())
	case value.KindF64:
		value.WriteF64(buf, off, v.F64())
	case value.KindFuncRef, value.KindExternRef:
		value.WriteRef(buf, off, v.Ref())
	case value.KindI32:
		value.WriteI32(buf, off, v.I32())
	case value.KindF32:
		value.WriteF32(buf, off, v.F32())
	}
}

func readGlobalValue(buf []byte, off int, kind value.Kind) value.Value {
	switch kind {
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
	panic("interpreter: readGlobalValue of void kind")
}
