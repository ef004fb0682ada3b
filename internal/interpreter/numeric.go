package interpreter

import (
	"math"
	"math/bits"

	"github.com/wazcore/wazcore/internal/bytecode"
	"github.com/wazcore/wazcore/internal/trap"
	"github.com/wazcore/wazcore/internal/value"
)

// execNumeric handles the const-free arithmetic/compare/unary/conversion
// opcode families. It reports false for anything outside those families so
// execOne can fall through to the next handler.
func execNumeric(buf []byte, ins *bytecode.Instruction) bool {
	switch ins.Op {
	case bytecode.OpI32Add, bytecode.OpI32Sub, bytecode.OpI32Mul,
		bytecode.OpI32DivS, bytecode.OpI32DivU, bytecode.OpI32RemS, bytecode.OpI32RemU,
		bytecode.OpI32And, bytecode.OpI32Or, bytecode.OpI32Xor,
		bytecode.OpI32Shl, bytecode.OpI32ShrS, bytecode.OpI32ShrU,
		bytecode.OpI32Rotl, bytecode.OpI32Rotr:
		binI32(buf, ins)
	case bytecode.OpI64Add, bytecode.OpI64Sub, bytecode.OpI64Mul,
		bytecode.OpI64DivS, bytecode.OpI64DivU, bytecode.OpI64RemS, bytecode.OpI64RemU,
		bytecode.OpI64And, bytecode.OpI64Or, bytecode.OpI64Xor,
		bytecode.OpI64Shl, bytecode.OpI64ShrS, bytecode.OpI64ShrU,
		bytecode.OpI64Rotl, bytecode.OpI64Rotr:
		binI64(buf, ins)
	case bytecode.OpF32Add, bytecode.OpF32Sub, bytecode.OpF32Mul, bytecode.OpF32Div,
		bytecode.OpF32Min, bytecode.OpF32Max, bytecode.OpF32Copysign:
		binF32(buf, ins)
	case bytecode.OpF64Add, bytecode.OpF64Sub, bytecode.OpF64Mul, bytecode.OpF64Div,
		bytecode.OpF64Min, bytecode.OpF64Max, bytecode.OpF64Copysign:
		binF64(buf, ins)
	case bytecode.OpI32Eq, bytecode.OpI32Ne, bytecode.OpI32LtS, bytecode.OpI32LtU,
		bytecode.OpI32GtS, bytecode.OpI32GtU, bytecode.OpI32LeS, bytecode.OpI32LeU,
		bytecode.OpI32GeS, bytecode.OpI32GeU:
		cmpI32(buf, ins)
	case bytecode.OpI64Eq, bytecode.OpI64Ne, bytecode.OpI64LtS, bytecode.OpI64LtU,
		bytecode.OpI64GtS, bytecode.OpI64GtU, bytecode.OpI64LeS, bytecode.OpI64LeU,
		bytecode.OpI64GeS, bytecode.OpI64GeU:
		cmpI64(buf, ins)
	case bytecode.OpF32Eq, bytecode.OpF32Ne, bytecode.OpF32Lt, bytecode.OpF32Gt,
		bytecode.OpF32Le, bytecode.OpF32Ge:
		cmpF32(buf, ins)
	case bytecode.OpF64Eq, bytecode.OpF64Ne, bytecode.OpF64Lt, bytecode.OpF64Gt,
		bytecode.OpF64Le, bytecode.OpF64Ge:
		cmpF64(buf, ins)
	case bytecode.OpI32Clz, bytecode.OpI32Ctz, bytecode.OpI32Popcnt, bytecode.OpI32Eqz:
		unaryI32(buf, ins)
	case bytecode.OpI64Clz, bytecode.OpI64Ctz, bytecode.OpI64Popcnt, bytecode.OpI64Eqz:
		unaryI64(buf, ins)
	case bytecode.OpF32Neg, bytecode.OpF32Abs, bytecode.OpF32Sqrt, bytecode.OpF32Ceil,
		bytecode.OpF32Floor, bytecode.OpF32Trunc, bytecode.OpF32Nearest:
		unaryF32(buf, ins)
	case bytecode.OpF64Neg, bytecode.OpF64Abs, bytecode.OpF64Sqrt, bytecode.OpF64Ceil,
		bytecode.OpF64Floor, bytecode.OpF64Trunc, bytecode.OpF64Nearest:
		unaryF64(buf, ins)
	default:
		return execConversion(buf, ins)
	}
	return true
}

func binI32(buf []byte, ins *bytecode.Instruction) {
	a, b := value.ReadI32(buf, ins.Src1), value.ReadI32(buf, ins.Src2)
	var r int32
	switch ins.Op {
	case bytecode.OpI32Add:
		r = a + b
	case bytecode.OpI32Sub:
		r = a - b
	case bytecode.OpI32Mul:
		r = a * b
	case bytecode.OpI32DivS:
		if b == 0 {
			trap.Throw(trap.ReasonIntegerDivideByZero)
		}
		if a == math.MinInt32 && b == -1 {
			trap.Throw(trap.ReasonIntegerOverflow)
		}
		r = a / b
	case bytecode.OpI32DivU:
		ua, ub := uint32(a), uint32(b)
		if ub == 0 {
			trap.Throw(trap.ReasonIntegerDivideByZero)
		}
		r = int32(ua / ub)
	case bytecode.OpI32RemS:
		if b == 0 {
			trap.Throw(trap.ReasonIntegerDivideByZero)
		}
		if a == math.MinInt32 && b == -1 {
			r = 0
		} else {
			r = a % b
		}
	case bytecode.OpI32RemU:
		ua, ub := uint32(a), uint32(b)
		if ub == 0 {
			trap.Throw(trap.ReasonIntegerDivideByZero)
		}
		r = int32(ua % ub)
	case bytecode.OpI32And:
		r = a & b
	case bytecode.OpI32Or:
		r = a | b
	case bytecode.OpI32Xor:
		r = a ^ b
	case bytecode.OpI32Shl:
		r = a << (uint32(b) & 31)
	case bytecode.OpI32ShrS:
		r = a >> (uint32(b) & 31)
	case bytecode.OpI32ShrU:
		r = int32(uint32(a) >> (uint32(b) & 31))
	case bytecode.OpI32Rotl:
		r = int32(bits.RotateLeft32(uint32(a), int(b&31)))
	case bytecode.OpI32Rotr:
		r = int32(bits.RotateLeft32(uint32(a), -int(b&31)))
	}
	value.WriteI32(buf, ins.Dst, r)
}

func binI64(buf []byte, ins *bytecode.Instruction) {
	a, b := value.ReadI64(buf, ins.Src1), value.ReadI64(buf, ins.Src2)
	var r int64
	switch ins.Op {
	case bytecode.OpI64Add:
		r = a + b
	case bytecode.OpI64Sub:
		r = a - b
	case bytecode.OpI64Mul:
		r = a * b
	case bytecode.OpI64DivS:
		if b == 0 {
			trap.Throw(trap.ReasonIntegerDivideByZero)
		}
		if a == math.MinInt64 && b == -1 {
			trap.Throw(trap.ReasonIntegerOverflow)
		}
		r = a / b
	case bytecode.OpI64DivU:
		ua, ub := uint64(a), uint64(b)
		if ub == 0 {
			trap.Throw(trap.ReasonIntegerDivideByZero)
		}
		r = int64(ua / ub)
	case bytecode.OpI64RemS:
		if b == 0 {
			trap.Throw(trap.ReasonIntegerDivideByZero)
		}
		if a == math.MinInt64 && b == -1 {
			r = 0
		} else {
			r = a % b
		}
	case bytecode.OpI64RemU:
		ua, ub := uint64(a), uint64(b)
		if ub == 0 {
			trap.Throw(trap.ReasonIntegerDivideByZero)
		}
		r = int64(ua % ub)
	case bytecode.OpI64And:
		r = a & b
	case bytecode.OpI64Or:
		r = a | b
	case bytecode.OpI64Xor:
		r = a ^ b
	case bytecode.OpI64Shl:
		r = a << (uint64(b) & 63)
	case bytecode.OpI64ShrS:
		r = a >> (uint64(b) & 63)
	case bytecode.OpI64ShrU:
		r = int64(uint64(a) >> (uint64(b) & 63))
	case bytecode.OpI64Rotl:
		r = int64(bits.RotateLeft64(uint64(a), int(b&63)))
	case bytecode.OpI64Rotr:
		r = int64(bits.RotateLeft64(uint64(a), -int(b&63)))
	}
	value.WriteI64(buf, ins.Dst, r)
}

func binF32(buf []byte, ins *bytecode.Instruction) {
	a, b := value.ReadF32(buf, ins.Src1), value.ReadF32(buf, ins.Src2)
	var r float32
	switch ins.Op {
	case bytecode.OpF32Add:
		r = value.CanonicalizeNaN32(a + b)
	case bytecode.OpF32Sub:
		r = value.CanonicalizeNaN32(a - b)
	case bytecode.OpF32Mul:
		r = value.CanonicalizeNaN32(a * b)
	case bytecode.OpF32Div:
		r = value.CanonicalizeNaN32(a / b)
	case bytecode.OpF32Min:
		r = value.MinF32(a, b)
	case bytecode.OpF32Max:
		r = value.MaxF32(a, b)
	case bytecode.OpF32Copysign:
		r = float32(math.Copysign(float64(a), float64(b)))
	}
	value.WriteF32(buf, ins.Dst, r)
}

func binF64(buf []byte, ins *bytecode.Instruction) {
	a, b := value.ReadF64(buf, ins.Src1), value.ReadF64(buf, ins.Src2)
	var r float64
	switch ins.Op {
	case bytecode.OpF64Add:
		r = value.CanonicalizeNaN64(a + b)
	case bytecode.OpF64Sub:
		r = value.CanonicalizeNaN64(a - b)
	case bytecode.OpF64Mul:
		r = value.CanonicalizeNaN64(a * b)
	case bytecode.OpF64Div:
		r = value.CanonicalizeNaN64(a / b)
	case bytecode.OpF64Min:
		r = value.MinF64(a, b)
	case bytecode.OpF64Max:
		r = value.MaxF64(a, b)
	case bytecode.OpF64Copysign:
		r = math.Copysign(a, b)
	}
	value.WriteF64(buf, ins.Dst, r)
}

func boolI32(c bool) int32 {
	if c {
		return 1
	}
	return 0
}

func cmpI32(buf []byte, ins *bytecode.Instruction) {
	a, b := value.ReadI32(buf, ins.Src1), value.ReadI32(buf, ins.Src2)
	ua, ub := uint32(a), uint32(b)
	var r bool
	switch ins.Op {
	case bytecode.OpI32Eq:
		r = a == b
	case bytecode.OpI32Ne:
		r = a != b
	case bytecode.OpI32LtS:
		r = a < b
	case bytecode.OpI32LtU:
		r = ua < ub
	case bytecode.OpI32GtS:
		r = a > b
	case bytecode.OpI32GtU:
		r = ua > ub
	case bytecode.OpI32LeS:
		r = a <= b
	case bytecode.OpI32LeU:
		r = ua <= ub
	case bytecode.OpI32GeS:
		r = a >= b
	case bytecode.OpI32GeU:
		r = ua >= ub
	}
	value.WriteI32(buf, ins.Dst, boolI32(r))
}

func cmpI64(buf []byte, ins *bytecode.Instruction) {
	a, b := value.ReadI64(buf, ins.Src1), value.ReadI64(buf, ins.Src2)
	ua, ub := uint64(a), uint64(b)
	var r bool
	switch ins.Op {
	case bytecode.OpI64Eq:
		r = a == b
	case bytecode.OpI64Ne:
		r = a != b
	case bytecode.OpI64LtS:
		r = a < b
	case bytecode.OpI64LtU:
		r = ua < ub
	case bytecode.OpI64GtS:
		r = a > b
	case bytecode.OpI64GtU:
		r = ua > ub
	case bytecode.OpI64LeS:
		r = a <= b
	case bytecode.OpI64LeU:
		r = ua <= ub
	case bytecode.OpI64GeS:
		r = a >= b
	case bytecode.OpI64GeU:
		r = ua >= ub
	}
	value.WriteI32(buf, ins.Dst, boolI32(r))
}

func cmpF32(buf []byte, ins *bytecode.Instruction) {
	a, b := value.ReadF32(buf, ins.Src1), value.ReadF32(buf, ins.Src2)
	var r bool
	switch ins.Op {
	case bytecode.OpF32Eq:
		r = a == b
	case bytecode.OpF32Ne:
		r = a != b
	case bytecode.OpF32Lt:
		r = a < b
	case bytecode.OpF32Gt:
		r = a > b
	case bytecode.OpF32Le:
		r = a <= b
	case bytecode.OpF32Ge:
		r = a >= b
	}
	value.WriteI32(buf, ins.Dst, boolI32(r))
}

func cmpF64(buf []byte, ins *bytecode.Instruction) {
	a, b := value.ReadF64(buf, ins.Src1), value.ReadF64(buf, ins.Src2)
	var r bool
	switch ins.Op {
	case bytecode.OpF64Eq:
		r = a == b
	case bytecode.OpF64Ne:
		r = a != b
	case bytecode.OpF64Lt:
		r = a < b
	case bytecode.OpF64Gt:
		r = a > b
	case bytecode.OpF64Le:
		r = a <= b
	case bytecode.OpF64Ge:
		r = a >= b
	}
	value.WriteI32(buf, ins.Dst, boolI32(r))
}

func unaryI32(buf []byte, ins *bytecode.Instruction) {
	a := value.ReadI32(buf, ins.Src1)
	var r int32
	switch ins.Op {
	case bytecode.OpI32Clz:
		r = int32(bits.LeadingZeros32(uint32(a)))
	case bytecode.OpI32Ctz:
		r = int32(bits.TrailingZeros32(uint32(a)))
	case bytecode.OpI32Popcnt:
		r = int32(bits.OnesCount32(uint32(a)))
	case bytecode.OpI32Eqz:
		r = boolI32(a == 0)
	}
	value.WriteI32(buf, ins.Dst, r)
}

func unaryI64(buf []byte, ins *bytecode.Instruction) {
	a := value.ReadI64(buf, ins.Src1)
	switch ins.Op {
	case bytecode.OpI64Clz:
		value.WriteI64(buf, ins.Dst, int64(bits.LeadingZeros64(uint64(a))))
	case bytecode.OpI64Ctz:
		value.WriteI64(buf, ins.Dst, int64(bits.TrailingZeros64(uint64(a))))
	case bytecode.OpI64Popcnt:
		value.WriteI64(buf, ins.Dst, int64(bits.OnesCount64(uint64(a))))
	case bytecode.OpI64Eqz:
		value.WriteI32(buf, ins.Dst, boolI32(a == 0))
	}
}

func unaryF32(buf []byte, ins *bytecode.Instruction) {
	a := value.ReadF32(buf, ins.Src1)
	var r float32
	switch ins.Op {
	case bytecode.OpF32Neg:
		r = -a
	case bytecode.OpF32Abs:
		r = float32(math.Abs(float64(a)))
	case bytecode.OpF32Sqrt:
		r = value.CanonicalizeNaN32(float32(math.Sqrt(float64(a))))
	case bytecode.OpF32Ceil:
		r = float32(math.Ceil(float64(a)))
	case bytecode.OpF32Floor:
		r = float32(math.Floor(float64(a)))
	case bytecode.OpF32Trunc:
		r = float32(math.Trunc(float64(a)))
	case bytecode.OpF32Nearest:
		r = float32(math.RoundToEven(float64(a)))
	}
	value.WriteF32(buf, ins.Dst, r)
}

func unaryF64(buf []byte, ins *bytecode.Instruction) {
	a := value.ReadF64(buf, ins.Src1)
	var r float64
	switch ins.Op {
	case bytecode.OpF64Neg:
		r = -a
	case bytecode.OpF64Abs:
		r = math.Abs(a)
	case bytecode.OpF64Sqrt:
		r = value.CanonicalizeNaN64(math.Sqrt(a))
	case bytecode.OpF64Ceil:
		r = math.Ceil(a)
	case bytecode.OpF64Floor:
		r = math.Floor(a)
	case bytecode.OpF64Trunc:
		r = math.Trunc(a)
	case bytecode.OpF64Nearest:
		r = math.RoundToEven(a)
	}
	value.WriteF64(buf, ins.Dst, r)
}
