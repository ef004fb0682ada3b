package interpreter

import (
	"github.com/wazcore/wazcore/internal/bytecode"
	"github.com/wazcore/wazcore/internal/instance"
	"github.com/wazcore/wazcore/internal/memory"
	"github.com/wazcore/wazcore/internal/value"
)

func memAt(inst *instance.Instance, idx uint32) *memory.Memory { return inst.Memories[idx] }

// execMemory handles load/store and the bulk-memory family. Reports false
// for anything outside those families.
func execMemory(inst *instance.Instance, buf []byte, ins *bytecode.Instruction) bool {
	switch ins.Op {
	case bytecode.OpI32Load:
		value.WriteI32(buf, ins.Dst, value.ReadI32(doLoad(inst, buf, ins, 4), 0))
	case bytecode.OpI32Load8S:
		value.WriteI32(buf, ins.Dst, int32(int8(doLoad(inst, buf, ins, 1)[0])))
	case bytecode.OpI32Load8U:
		value.WriteI32(buf, ins.Dst, int32(doLoad(inst, buf, ins, 1)[0]))
	case bytecode.OpI32Load16S:
		value.WriteI32(buf, ins.Dst, int32(int16(value.ReadU32(pad(doLoad(inst, buf, ins, 2)), 0))))
	case bytecode.OpI32Load16U:
		value.WriteI32(buf, ins.Dst, int32(uint16(value.ReadU32(pad(doLoad(inst, buf, ins, 2)), 0))))
	case bytecode.OpI64Load:
		value.WriteI64(buf, ins.Dst, value.ReadI64(doLoad(inst, buf, ins, 8), 0))
	case bytecode.OpI64Load8S:
		value.WriteI64(buf, ins.Dst, int64(int8(doLoad(inst, buf, ins, 1)[0])))
	case bytecode.OpI64Load8U:
		value.WriteI64(buf, ins.Dst, int64(doLoad(inst, buf, ins, 1)[0]))
	case bytecode.OpI64Load16S:
		value.WriteI64(buf, ins.Dst, int64(int16(value.ReadU32(pad(doLoad(inst, buf, ins, 2)), 0))))
	case bytecode.OpI64Load16U:
		value.WriteI64(buf, ins.Dst, int64(uint16(value.ReadU32(pad(doLoad(inst, buf, ins, 2)), 0))))
	case bytecode.OpI64Load32S:
		value.WriteI64(buf, ins.Dst, int64(value.ReadI32(doLoad(inst, buf, ins, 4), 0)))
	case bytecode.OpI64Load32U:
		value.WriteI64(buf, ins.Dst, int64(value.ReadU32(doLoad(inst, buf, ins, 4), 0)))
	case bytecode.OpF32Load:
		value.WriteF32(buf, ins.Dst, value.ReadF32(doLoad(inst, buf, ins, 4), 0))
	case bytecode.OpF64Load:
		value.WriteF64(buf, ins.Dst, value.ReadF64(doLoad(inst, buf, ins, 8), 0))
	case bytecode.OpV128Load:
		value.WriteV128(buf, ins.Dst, value.ReadV128(doLoad(inst, buf, ins, 16), 0))

	case bytecode.OpI32Store:
		var tmp [4]byte
		value.WriteI32(tmp[:], 0, value.ReadI32(buf, ins.Src2))
		doStore(inst, buf, ins, tmp[:])
	case bytecode.OpI32Store8:
		doStore(inst, buf, ins, []byte{byte(value.ReadI32(buf, ins.Src2))})
	case bytecode.OpI32Store16:
		var tmp [2]byte
		v := uint16(value.ReadI32(buf, ins.Src2))
		tmp[0], tmp[1] = byte(v), byte(v>>8)
		doStore(inst, buf, ins, tmp[:])
	case bytecode.OpI64Store:
		var tmp [8]byte
		value.WriteI64(tmp[:], 0, value.ReadI64(buf, ins.Src2))
		doStore(inst, buf, ins, tmp[:])
	case bytecode.OpI64Store8:
		doStore(inst, buf, ins, []byte{byte(value.ReadI64(buf, ins.Src2))})
	case bytecode.OpI64Store16:
		v := uint16(value.ReadI64(buf, ins.Src2))
		doStore(inst, buf, ins, []byte{byte(v), byte(v >> 8)})
	case bytecode.OpI64Store32:
		var tmp [4]byte
		value.WriteI32(tmp[:], 0, int32(value.ReadI64(buf, ins.Src2)))
		doStore(inst, buf, ins, tmp[:])
	case bytecode.OpF32Store:
		var tmp [4]byte
		value.WriteF32(tmp[:], 0, value.ReadF32(buf, ins.Src2))
		doStore(inst, buf, ins, tmp[:])
	case bytecode.OpF64Store:
		var tmp [8]byte
		value.WriteF64(tmp[:], 0, value.ReadF64(buf, ins.Src2))
		doStore(inst, buf, ins, tmp[:])
	case bytecode.OpV128Store:
		var tmp [16]byte
		value.WriteV128(tmp[:], 0, value.ReadV128(buf, ins.Src2))
		doStore(inst, buf, ins, tmp[:])

	case bytecode.OpMemorySize:
		value.WriteI32(buf, ins.Dst, int32(memAt(inst, ins.Index).SizePages()))
	case bytecode.OpMemoryGrow:
		delta := value.ReadU32(buf, ins.Src1)
		old, ok := memAt(inst, ins.Index).Grow(delta)
		if !ok {
			value.WriteI32(buf, ins.Dst, -1)
		} else {
			value.WriteI32(buf, ins.Dst, int32(old))
		}
	case bytecode.OpMemoryInit:
		n, src, dst := value.ReadU32(buf, ins.Src2), value.ReadU32(buf, ins.Src1), value.ReadU32(buf, ins.Dst)
		memAt(inst, ins.Index).Init(inst.DataSegments[ins.Index2].Bytes(), dst, src, n)
	case bytecode.OpMemoryCopy:
		n, src, dst := value.ReadU32(buf, ins.Src2), value.ReadU32(buf, ins.Src1), value.ReadU32(buf, ins.Dst)
		memAt(inst, ins.Index).Copy(dst, src, n)
	case bytecode.OpMemoryFill:
		n, val, dst := value.ReadU32(buf, ins.Src2), byte(value.ReadI32(buf, ins.Src1)), value.ReadU32(buf, ins.Dst)
		memAt(inst, ins.Index).Fill(dst, val, n)
	case bytecode.OpDataDrop:
		inst.DataSegments[ins.Index].Drop()

	default:
		return false
	}
	return true
}

func doLoad(inst *instance.Instance, buf []byte, ins *bytecode.Instruction, width uint32) []byte {
	mem := memAt(inst, ins.Index)
	addr := uint64(value.ReadU32(buf, ins.Src1))
	return mem.ByteSlice(addr, ins.MemArg, width)
}

func doStore(inst *instance.Instance, buf []byte, ins *bytecode.Instruction, data []byte) {
	mem := memAt(inst, ins.Index)
	addr := uint64(value.ReadU32(buf, ins.Src1))
	mem.Store(addr, ins.MemArg, data)
}

// pad widens a 2-byte slice to 4 bytes so value.ReadU32 (which always reads
// 4 bytes) can be reused for the 16-bit load-and-extend opcodes.
func pad(b []byte) []byte {
	out := make([]byte, 4)
	copy(out, b)
	return out
}
