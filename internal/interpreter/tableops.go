package interpreter

import (
	"github.com/wazcore/wazcore/internal/bytecode"
	"github.com/wazcore/wazcore/internal/instance"
	"github.com/wazcore/wazcore/internal/table"
	"github.com/wazcore/wazcore/internal/value"
)

func tableAt(inst *instance.Instance, idx uint32) *table.Table { return inst.Tables[idx] }

// execTable handles the table.* opcode family plus ref.func/ref.is_null
// (which read through the owning Instance's function table, not a table
// object itself). Reports false for anything outside this family.
func execTable(inst *instance.Instance, es *instance.ExecutionState, buf []byte, ins *bytecode.Instruction) bool {
	switch ins.Op {
	case bytecode.OpTableGet:
		i := value.ReadU32(buf, ins.Src1)
		value.WriteRef(buf, ins.Dst, tableAt(inst, ins.Index).Get(i))
	case bytecode.OpTableSet:
		i := value.ReadU32(buf, ins.Src1)
		r := value.ReadRef(buf, ins.Src2)
		tableAt(inst, ins.Index).Set(i, r)
	case bytecode.OpTableGrow:
		delta := value.ReadU32(buf, ins.Src1)
		initRef := value.ReadRef(buf, ins.Src2)
		old, ok := tableAt(inst, ins.Index).Grow(delta, initRef)
		if !ok {
			value.WriteI32(buf, ins.Dst, -1)
		} else {
			value.WriteI32(buf, ins.Dst, int32(old))
		}
	case bytecode.OpTableSize:
		value.WriteI32(buf, ins.Dst, int32(tableAt(inst, ins.Index).Size()))
	case bytecode.OpTableCopy:
		n, src, dst := value.ReadU32(buf, ins.Src2), value.ReadU32(buf, ins.Src1), value.ReadU32(buf, ins.Dst)
		tableAt(inst, ins.Index).Copy(tableAt(inst, ins.Index2), n, src, dst)
	case bytecode.OpTableFill:
		n, ref, start := value.ReadU32(buf, ins.Src2), value.ReadRef(buf, ins.Src1), value.ReadU32(buf, ins.Dst)
		tableAt(inst, ins.Index).Fill(start, ref, n)
	case bytecode.OpTableInit:
		n, src, dst := value.ReadU32(buf, ins.Src2), value.ReadU32(buf, ins.Src1), value.ReadU32(buf, ins.Dst)
		seg := inst.ElementSegments[ins.Index2]
		tableAt(inst, ins.Index).Init(func(i int) value.Ref { return seg.Get(i) }, uint32(seg.Size()), dst, src, n)
	case bytecode.OpElemDrop:
		inst.ElementSegments[ins.Index].Drop()
	case bytecode.OpRefFunc:
		value.WriteRef(buf, ins.Dst, inst.FuncRefOf(ins.Index))
	case bytecode.OpRefIsNull:
		r := value.ReadRef(buf, ins.Src1)
		value.WriteI32(buf, ins.Dst, boolI32(r.IsNull()))
	default:
		return false
	}
	return true
}
