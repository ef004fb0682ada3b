package value

import (
	"encoding/binary"
	"math"
	"math/bits"
)

// nativeBigEndian reports whether the host is big-endian. V128 lane bytes
// are defined little-endian-within-lane on the wire (spec.md §4.1); on a
// big-endian host the executor must byte-swap during SIMD lane access.
var nativeBigEndian = func() bool {
	const i uint32 = 1
	b := [4]byte{}
	binary.NativeEndian.PutUint32(b[:], i)
	return b[0] != 1
}()

// IsBigEndianHost reports whether the running host is big-endian.
func IsBigEndianHost() bool { return nativeBigEndian }

// ReadI32 reads a little-endian i32 from buf at byte offset off.
func ReadI32(buf []byte, off int) int32 { return int32(binary.LittleEndian.Uint32(buf[off:])) }

// WriteI32 writes v little-endian into buf at byte offset off.
func WriteI32(buf []byte, off int, v int32) { binary.LittleEndian.PutUint32(buf[off:], uint32(v)) }

// ReadU32 reads a little-endian u32 from buf at byte offset off.
func ReadU32(buf []byte, off int) uint32 { return binary.LittleEndian.Uint32(buf[off:]) }

// WriteU32 writes v little-endian into buf at byte offset off.
func WriteU32(buf []byte, off int, v uint32) { binary.LittleEndian.PutUint32(buf[off:], v) }

// ReadI64 reads a little-endian i64 from buf at byte offset off.
func ReadI64(buf []byte, off int) int64 { return int64(binary.LittleEndian.Uint64(buf[off:])) }

// WriteI64 writes v little-endian into buf at byte offset off.
func WriteI64(buf []byte, off int, v int64) { binary.LittleEndian.PutUint64(buf[off:], uint64(v)) }

// ReadU64 reads a little-endian u64 from buf at byte offset off.
func ReadU64(buf []byte, off int) uint64 { return binary.LittleEndian.Uint64(buf[off:]) }

// WriteU64 writes v little-endian into buf at byte offset off.
func WriteU64(buf []byte, off int, v uint64) { binary.LittleEndian.PutUint64(buf[off:], v) }

// ReadF32 reads a little-endian f32 from buf at byte offset off.
func ReadF32(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

// WriteF32 writes v little-endian into buf at byte offset off.
func WriteF32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

// ReadF64 reads a little-endian f64 from buf at byte offset off.
func ReadF64(buf []byte, off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[off:]))
}

// WriteF64 writes v little-endian into buf at byte offset off.
func WriteF64(buf []byte, off int, v float64) {
	binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(v))
}

// ReadV128 reads 16 bytes as two 64-bit lanes, swapping each lane's bytes on
// a big-endian host so that lane-indexed element access matches the wire's
// little-endian-within-lane convention (spec.md §4.1 / §4.4 SIMD row).
func ReadV128(buf []byte, off int) V128 {
	lo := binary.LittleEndian.Uint64(buf[off:])
	hi := binary.LittleEndian.Uint64(buf[off+8:])
	if nativeBigEndian {
		lo, hi = bits.ReverseBytes64(lo), bits.ReverseBytes64(hi)
	}
	return V128{lo, hi}
}

// WriteV128 is the inverse of ReadV128.
func WriteV128(buf []byte, off int, v V128) {
	lo, hi := v[0], v[1]
	if nativeBigEndian {
		lo, hi = bits.ReverseBytes64(lo), bits.ReverseBytes64(hi)
	}
	binary.LittleEndian.PutUint64(buf[off:], lo)
	binary.LittleEndian.PutUint64(buf[off+8:], hi)
}

// ReadRef reads a reference handle (one machine word on the wire: 8 bytes)
// from buf at byte offset off.
func ReadRef(buf []byte, off int) Ref { return Ref(binary.LittleEndian.Uint64(buf[off:])) }

// WriteRef writes a reference handle into buf at byte offset off.
func WriteRef(buf []byte, off int, r Ref) { binary.LittleEndian.PutUint64(buf[off:], uint64(r)) }

// MinF32 implements WebAssembly f32.min: canonical NaN if either operand is
// NaN, and -0 < +0 for tie-breaking, per spec.md's float binary-op row.
func MinF32(a, b float32) float32 {
	if math.IsNaN(float64(a)) || math.IsNaN(float64(b)) {
		return CanonicalNaN32()
	}
	if a == 0 && b == 0 {
		// -0 is "lesser" than +0 for min.
		if math.Signbit(float64(a)) {
			return a
		}
		return b
	}
	if a < b {
		return a
	}
	return b
}

// MaxF32 implements WebAssembly f32.max: canonical NaN if either operand is
// NaN, and +0 > -0 for tie-breaking.
func MaxF32(a, b float32) float32 {
	if math.IsNaN(float64(a)) || math.IsNaN(float64(b)) {
		return CanonicalNaN32()
	}
	if a == 0 && b == 0 {
		if math.Signbit(float64(a)) {
			return b
		}
		return a
	}
	if a > b {
		return a
	}
	return b
}

// MinF64 is the float64 analogue of MinF32.
func MinF64(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return CanonicalNaN64()
	}
	if a == 0 && b == 0 {
		if math.Signbit(a) {
			return a
		}
		return b
	}
	if a < b {
		return a
	}
	return b
}

// MaxF64 is the float64 analogue of MaxF32.
func MaxF64(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return CanonicalNaN64()
	}
	if a == 0 && b == 0 {
		if math.Signbit(a) {
			return b
		}
		return a
	}
	if a > b {
		return a
	}
	return b
}

// CanonicalizeNaN32 replaces any NaN payload with the canonical quiet NaN,
// leaving non-NaN values untouched. Used by arithmetic ops that can produce
// a NaN result (add/sub/mul/div/sqrt) to guarantee deterministic output.
func CanonicalizeNaN32(v float32) float32 {
	if math.IsNaN(float64(v)) {
		return CanonicalNaN32()
	}
	return v
}

// CanonicalizeNaN64 is the float64 analogue of CanonicalizeNaN32.
func CanonicalizeNaN64(v float64) float64 {
	if math.IsNaN(v) {
		return CanonicalNaN64()
	}
	return v
}
