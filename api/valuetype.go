// Package api defines the value and type vocabulary shared between the
// embedding host and the runtime core: value kinds, external kinds, and the
// float bit-pattern conversion helpers a host needs to pass f32/f64
// arguments across the call boundary.
package api

import (
	"fmt"
	"math"
)

// ValueType is one of the seven WebAssembly value kinds, plus the
// pseudo-kind Void used only in signatures with no result.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-valtype
type ValueType = byte

const (
	// ValueTypeI32 is a 32-bit integer.
	ValueTypeI32 ValueType = 0x7f
	// ValueTypeI64 is a 64-bit integer.
	ValueTypeI64 ValueType = 0x7e
	// ValueTypeF32 is a 32-bit floating point number.
	ValueTypeF32 ValueType = 0x7d
	// ValueTypeF64 is a 64-bit floating point number.
	ValueTypeF64 ValueType = 0x7c
	// ValueTypeV128 is a 128-bit SIMD vector.
	ValueTypeV128 ValueType = 0x7b
	// ValueTypeFuncref is a reference to a function.
	ValueTypeFuncref ValueType = 0x70
	// ValueTypeExternref is an opaque reference to a host object.
	ValueTypeExternref ValueType = 0x6f
	// ValueTypeVoid is used only in FunctionType.Results to mean "no result".
	// It never appears as a stack slot.
	ValueTypeVoid ValueType = 0x40
)

// ValueTypeName returns the WebAssembly text-format name of t, or "unknown".
func ValueTypeName(t ValueType) string {
	switch t {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	case ValueTypeV128:
		return "v128"
	case ValueTypeFuncref:
		return "funcref"
	case ValueTypeExternref:
		return "externref"
	case ValueTypeVoid:
		return "void"
	}
	return "unknown"
}

// ExternType classifies imports and exports.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#external-types%E2%91%A0
type ExternType = byte

const (
	ExternTypeFunc   ExternType = 0x00
	ExternTypeTable  ExternType = 0x01
	ExternTypeMemory ExternType = 0x02
	ExternTypeGlobal ExternType = 0x03
	ExternTypeTag    ExternType = 0x04
)

// ExternTypeName returns the text-format field name of the given ExternType.
func ExternTypeName(et ExternType) string {
	switch et {
	case ExternTypeFunc:
		return "func"
	case ExternTypeTable:
		return "table"
	case ExternTypeMemory:
		return "memory"
	case ExternTypeGlobal:
		return "global"
	case ExternTypeTag:
		return "tag"
	}
	return fmt.Sprintf("%#x", et)
}

// EncodeF32 encodes a float32 as a uint64 stack representation, bit-identical
// in the low 32 bits.
func EncodeF32(v float32) uint64 {
	return uint64(math.Float32bits(v))
}

// DecodeF32 is the inverse of EncodeF32.
func DecodeF32(v uint64) float32 {
	return math.Float32frombits(uint32(v))
}

// EncodeF64 encodes a float64 as its raw uint64 bit pattern.
func EncodeF64(v float64) uint64 {
	return math.Float64bits(v)
}

// DecodeF64 is the inverse of EncodeF64.
func DecodeF64(v uint64) float64 {
	return math.Float64frombits(v)
}
