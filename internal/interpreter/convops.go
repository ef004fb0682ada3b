package interpreter

import (
	"math"

	"github.com/wazcore/wazcore/internal/bytecode"
	"github.com/wazcore/wazcore/internal/trap"
	"github.com/wazcore/wazcore/internal/value"
)

// execConversion handles the numeric conversion family (wrap/extend/demote/
// promote/convert/trunc/truncSat/reinterpret). Reports false if ins.Op is
// not a conversion, so the caller (execNumeric) can report "unhandled" up
// to execOne's own family chain.
func execConversion(buf []byte, ins *bytecode.Instruction) bool {
	switch ins.Op {
	case bytecode.OpI32WrapI64:
		value.WriteI32(buf, ins.Dst, int32(value.ReadI64(buf, ins.Src1)))
	case bytecode.OpI64ExtendI32S:
		value.WriteI64(buf, ins.Dst, int64(value.ReadI32(buf, ins.Src1)))
	case bytecode.OpI64ExtendI32U:
		value.WriteI64(buf, ins.Dst, int64(uint32(value.ReadI32(buf, ins.Src1))))
	case bytecode.OpI32Extend8S:
		value.WriteI32(buf, ins.Dst, int32(int8(value.ReadI32(buf, ins.Src1))))
	case bytecode.OpI32Extend16S:
		value.WriteI32(buf, ins.Dst, int32(int16(value.ReadI32(buf, ins.Src1))))
	case bytecode.OpI64Extend8S:
		value.WriteI64(buf, ins.Dst, int64(int8(value.ReadI64(buf, ins.Src1))))
	case bytecode.OpI64Extend16S:
		value.WriteI64(buf, ins.Dst, int64(int16(value.ReadI64(buf, ins.Src1))))
	case bytecode.OpI64Extend32S:
		value.WriteI64(buf, ins.Dst, int64(int32(value.ReadI64(buf, ins.Src1))))
	case bytecode.OpF32DemoteF64:
		value.WriteF32(buf, ins.Dst, float32(value.ReadF64(buf, ins.Src1)))
	case bytecode.OpF64PromoteF32:
		value.WriteF64(buf, ins.Dst, float64(value.ReadF32(buf, ins.Src1)))
	case bytecode.OpF32ConvertI32S:
		value.WriteF32(buf, ins.Dst, float32(value.ReadI32(buf, ins.Src1)))
	case bytecode.OpF32ConvertI32U:
		value.WriteF32(buf, ins.Dst, float32(uint32(value.ReadI32(buf, ins.Src1))))
	case bytecode.OpF32ConvertI64S:
		value.WriteF32(buf, ins.Dst, float32(value.ReadI64(buf, ins.Src1)))
	case bytecode.OpF32ConvertI64U:
		value.WriteF32(buf, ins.Dst, float32(uint64(value.ReadI64(buf, ins.Src1))))
	case bytecode.OpF64ConvertI32S:
		value.WriteF64(buf, ins.Dst, float64(value.ReadI32(buf, ins.Src1)))
	case bytecode.OpF64ConvertI32U:
		value.WriteF64(buf, ins.Dst, float64(uint32(value.ReadI32(buf, ins.Src1))))
	case bytecode.OpF64ConvertI64S:
		value.WriteF64(buf, ins.Dst, float64(value.ReadI64(buf, ins.Src1)))
	case bytecode.OpF64ConvertI64U:
		value.WriteF64(buf, ins.Dst, float64(uint64(value.ReadI64(buf, ins.Src1))))

	case bytecode.OpI32TruncF32S:
		value.WriteI32(buf, ins.Dst, truncToI32(float64(value.ReadF32(buf, ins.Src1)), math.MinInt32, math.MaxInt32))
	case bytecode.OpI32TruncF32U:
		value.WriteI32(buf, ins.Dst, int32(truncToU32(float64(value.ReadF32(buf, ins.Src1)))))
	case bytecode.OpI32TruncF64S:
		value.WriteI32(buf, ins.Dst, truncToI32(value.ReadF64(buf, ins.Src1), math.MinInt32, math.MaxInt32))
	case bytecode.OpI32TruncF64U:
		value.WriteI32(buf, ins.Dst, int32(truncToU32(value.ReadF64(buf, ins.Src1))))
	case bytecode.OpI64TruncF32S:
		value.WriteI64(buf, ins.Dst, truncToI64(float64(value.ReadF32(buf, ins.Src1))))
	case bytecode.OpI64TruncF32U:
		value.WriteI64(buf, ins.Dst, int64(truncToU64(float64(value.ReadF32(buf, ins.Src1)))))
	case bytecode.OpI64TruncF64S:
		value.WriteI64(buf, ins.Dst, truncToI64(value.ReadF64(buf, ins.Src1)))
	case bytecode.OpI64TruncF64U:
		value.WriteI64(buf, ins.Dst, int64(truncToU64(value.ReadF64(buf, ins.Src1))))

	case bytecode.OpI32TruncSatF32S:
		value.WriteI32(buf, ins.Dst, truncSatToI32(float64(value.ReadF32(buf, ins.Src1))))
	case bytecode.OpI32TruncSatF32U:
		value.WriteI32(buf, ins.Dst, int32(truncSatToU32(float64(value.ReadF32(buf, ins.Src1)))))
	case bytecode.OpI32TruncSatF64S:
		value.WriteI32(buf, ins.Dst, truncSatToI32(value.ReadF64(buf, ins.Src1)))
	case bytecode.OpI32TruncSatF64U:
		value.WriteI32(buf, ins.Dst, int32(truncSatToU32(value.ReadF64(buf, ins.Src1))))
	case bytecode.OpI64TruncSatF32S:
		value.WriteI64(buf, ins.Dst, truncSatToI64(float64(value.ReadF32(buf, ins.Src1))))
	case bytecode.OpI64TruncSatF32U:
		value.WriteI64(buf, ins.Dst, int64(truncSatToU64(float64(value.ReadF32(buf, ins.Src1)))))
	case bytecode.OpI64TruncSatF64S:
		value.WriteI64(buf, ins.Dst, truncSatToI64(value.ReadF64(buf, ins.Src1)))
	case bytecode.OpI64TruncSatF64U:
		value.WriteI64(buf, ins.Dst, int64(truncSatToU64(value.ReadF64(buf, ins.Src1))))

	case bytecode.OpI32ReinterpretF32:
		value.WriteI32(buf, ins.Dst, int32(math.Float32bits(value.ReadF32(buf, ins.Src1))))
	case bytecode.OpI64ReinterpretF64:
		value.WriteI64(buf, ins.Dst, int64(math.Float64bits(value.ReadF64(buf, ins.Src1))))
	case bytecode.OpF32ReinterpretI32:
		value.WriteF32(buf, ins.Dst, math.Float32frombits(uint32(value.ReadI32(buf, ins.Src1))))
	case bytecode.OpF64ReinterpretI64:
		value.WriteF64(buf, ins.Dst, math.Float64frombits(uint64(value.ReadI64(buf, ins.Src1))))

	default:
		return false
	}
	return true
}

// truncToI32/truncToI64/truncToU32/truncToU64 implement the non-saturating
// trunc family: NaN traps invalid_conversion_to_integer, while infinities
// and any finite value outside the target range trap integer_overflow, per
// spec.md's conversion row.
func truncToI32(f float64, lo, hi float64) int32 {
	checkTruncable(f)
	if f <= lo-1 || f >= hi+1 {
		trap.Throw(trap.ReasonIntegerOverflow)
	}
	return int32(f)
}

func truncToU32(f float64) uint32 {
	checkTruncable(f)
	if f < 0 || f >= math.MaxUint32+1 {
		trap.Throw(trap.ReasonIntegerOverflow)
	}
	return uint32(f)
}

func truncToI64(f float64) int64 {
	checkTruncable(f)
	if f < math.MinInt64 || f >= math.MaxInt64+1 {
		trap.Throw(trap.ReasonIntegerOverflow)
	}
	return int64(f)
}

func truncToU64(f float64) uint64 {
	checkTruncable(f)
	if f < 0 || f >= math.MaxUint64 {
		trap.Throw(trap.ReasonIntegerOverflow)
	}
	return uint64(f)
}

func checkTruncable(f float64) {
	if math.IsNaN(f) {
		trap.Throw(trap.ReasonInvalidConversionToInteger)
	}
	if math.IsInf(f, 0) {
		trap.Throw(trap.ReasonIntegerOverflow)
	}
}

// The *Sat variants never trap: NaN becomes 0, out-of-range clamps to the
// nearest representable bound, per the saturating-truncation proposal.
func truncSatToI32(f float64) int32 {
	if math.IsNaN(f) {
		return 0
	}
	if f <= math.MinInt32 {
		return math.MinInt32
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(f)
}

func truncSatToU32(f float64) uint32 {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(f)
}

func truncSatToI64(f float64) int64 {
	if math.IsNaN(f) {
		return 0
	}
	if f <= math.MinInt64 {
		return math.MinInt64
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(f)
}

func truncSatToU64(f float64) uint64 {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(f)
}
