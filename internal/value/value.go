// Package value implements the WebAssembly value model (spec.md C1): tagged
// and untagged representations of the seven value kinds, stack-slot widths,
// and canonical-NaN arithmetic helpers.
//
// The abstraction strictly forbids mixing kinds: calling an accessor for the
// wrong Kind panics with a programmer-error message, matching the "never a
// silent coercion" rule in spec.md §4.1.
package value

import (
	"math"

	"github.com/wazcore/wazcore/api"
)

// Kind is the tag of a Value.
type Kind byte

const (
	KindI32 Kind = iota
	KindI64
	KindF32
	KindF64
	KindV128
	KindFuncRef
	KindExternRef
	// KindVoid is the pseudo-kind used in signatures with no result; it never
	// tags a live Value.
	KindVoid
)

func (k Kind) String() string {
	switch k {
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindV128:
		return "v128"
	case KindFuncRef:
		return "funcref"
	case KindExternRef:
		return "externref"
	case KindVoid:
		return "void"
	}
	return "unknown"
}

// KindFromValueType maps an api.ValueType to its runtime Kind.
func KindFromValueType(t api.ValueType) Kind {
	switch t {
	case api.ValueTypeI32:
		return KindI32
	case api.ValueTypeI64:
		return KindI64
	case api.ValueTypeF32:
		return KindF32
	case api.ValueTypeF64:
		return KindF64
	case api.ValueTypeV128:
		return KindV128
	case api.ValueTypeFuncref:
		return KindFuncRef
	case api.ValueTypeExternref:
		return KindExternRef
	case api.ValueTypeVoid:
		return KindVoid
	}
	panic("value: unknown ValueType " + string(rune(t)))
}

// SlotSize returns the fixed number of bytes a value of Kind k occupies on a
// function frame, per spec.md §3's stack-slot layout table. Reference kinds
// occupy one machine word (8 bytes on all targets this engine supports).
func (k Kind) SlotSize() int {
	switch k {
	case KindI32, KindF32:
		return 4
	case KindI64, KindF64:
		return 8
	case KindV128:
		return 16
	case KindFuncRef, KindExternRef:
		return 8
	default:
		panic("value: SlotSize of void")
	}
}

// SlotSizeOf sums SlotSize over a sequence of value kinds — used to compute
// FunctionType's precomputed param/result stack sizes (spec.md §3).
func SlotSizeOf(kinds []Kind) int {
	total := 0
	for _, k := range kinds {
		total += k.SlotSize()
	}
	return total
}

// Canonical quiet-NaN bit patterns, reproduced from original_source's
// Value.h so min/max/arithmetic NaN results are bit-identical to the
// reference engine, not merely "a" quiet NaN.
const (
	canonicalNaN32Bits uint32 = 0x7fc00000
	canonicalNaN64Bits uint64 = 0x7ff8000000000000
)

// CanonicalNaN32 is the canonical quiet NaN for f32 results.
func CanonicalNaN32() float32 { return math.Float32frombits(canonicalNaN32Bits) }

// CanonicalNaN64 is the canonical quiet NaN for f64 results.
func CanonicalNaN64() float64 { return math.Float64frombits(canonicalNaN64Bits) }

// V128 is a 128-bit SIMD vector, stored as two 64-bit lanes in host-native
// word order; byte-within-lane order is little-endian on little-endian
// hosts (see ReadV128/WriteV128 for the big-endian adjustment).
type V128 [2]uint64

// Ref is a reference value: either the null sentinel (Handle == 0) or an
// opaque Store-assigned handle identifying a Function or host object.
// Reference kinds never carry a raw Go pointer so that Table/Global/frame
// slots can be copied as plain 64-bit words, matching the "1 machine word"
// slot rule in spec.md §3.
type Ref uint64

// NullRef is the distinguished null reference sentinel.
const NullRef Ref = 0

// IsNull reports whether r is the null sentinel.
func (r Ref) IsNull() bool { return r == NullRef }

// Value is a tagged WebAssembly value. The zero Value is an I32 zero.
type Value struct {
	kind Kind
	lo   uint64 // i32 (zero-extended), i64, f32 (as bits), f64 (as bits), ref handle
	v128 V128   // only populated when kind == KindV128
}

// Kind returns v's tag.
func (v Value) Kind() Kind { return v.kind }

func I32(x int32) Value  { return Value{kind: KindI32, lo: uint64(uint32(x))} }
func U32(x uint32) Value { return Value{kind: KindI32, lo: uint64(x)} }
func I64(x int64) Value  { return Value{kind: KindI64, lo: uint64(x)} }
func U64(x uint64) Value { return Value{kind: KindI64, lo: x} }
func F32(x float32) Value {
	return Value{kind: KindF32, lo: uint64(math.Float32bits(x))}
}
func F64(x float64) Value { return Value{kind: KindF64, lo: math.Float64bits(x)} }
func FromV128(x V128) Value {
	return Value{kind: KindV128, v128: x}
}
func FuncRef(h Ref) Value   { return Value{kind: KindFuncRef, lo: uint64(h)} }
func ExternRef(h Ref) Value { return Value{kind: KindExternRef, lo: uint64(h)} }

func mustKind(v Value, want Kind) {
	if v.kind != want {
		panic("value: asKind mismatch: have " + v.kind.String() + " want " + want.String())
	}
}

// I32 returns the signed 32-bit interpretation of v. Panics if v is not KindI32.
func (v Value) I32() int32 { mustKind(v, KindI32); return int32(uint32(v.lo)) }

// U32 returns the unsigned 32-bit interpretation of v. Panics if v is not KindI32.
func (v Value) U32() uint32 { mustKind(v, KindI32); return uint32(v.lo) }

// I64 returns the signed 64-bit interpretation of v. Panics if v is not KindI64.
func (v Value) I64() int64 { mustKind(v, KindI64); return int64(v.lo) }

// U64 returns the unsigned 64-bit interpretation of v. Panics if v is not KindI64.
func (v Value) U64() uint64 { mustKind(v, KindI64); return v.lo }

// F32 returns the float32 interpretation of v. Panics if v is not KindF32.
func (v Value) F32() float32 { mustKind(v, KindF32); return math.Float32frombits(uint32(v.lo)) }

// F64 returns the float64 interpretation of v. Panics if v is not KindF64.
func (v Value) F64() float64 { mustKind(v, KindF64); return math.Float64frombits(v.lo) }

// V128 returns the raw lanes of v. Panics if v is not KindV128.
func (v Value) V128() V128 { mustKind(v, KindV128); return v.v128 }

// Ref returns the reference handle of v. Panics if v is not a reference kind.
func (v Value) Ref() Ref {
	if v.kind != KindFuncRef && v.kind != KindExternRef {
		panic("value: Ref() of non-reference kind " + v.kind.String())
	}
	return Ref(v.lo)
}

// Equal reports whether v and o are equal. Values of different kinds are
// never equal. V128 lanes compare bytewise, matching the "SIMD lanes compare
// bytewise" rule in spec.md §4.1; integer and reference payloads compare
// bitwise. Floats compare as IEEE-754 numbers: NaN is unequal to itself and
// +0 equals -0.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind == KindV128 {
		return v.v128 == o.v128
	}
	if v.kind == KindF32 {
		return v.F32() == o.F32()
	}
	if v.kind == KindF64 {
		return v.F64() == o.F64()
	}
	return v.lo == o.lo
}
