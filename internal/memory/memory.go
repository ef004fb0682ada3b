// Package memory implements the linear-memory runtime (spec.md C2): one
// zero-filled byte buffer per memory, page-granularity growth, and
// bounds-checked load/store/bulk operations.
package memory

import (
	"github.com/wazcore/wazcore/internal/trap"
)

// PageSize is the unit of linear memory growth, per spec.md §6.
const PageSize = 65536

// Memory is one instantiated linear memory.
type Memory struct {
	buffer   []byte
	maxBytes uint32
	shared   bool
}

// New allocates a zero-filled Memory of initialPages pages, capped at
// maxPages. maxPages of 0 allows no growth at all; the cap is stored as
// maxPages*PageSize bytes in a uint32.
func New(initialPages, maxPages uint32, shared bool) *Memory {
	return &Memory{
		buffer:   make([]byte, uint64(initialPages)*PageSize),
		maxBytes: maxPages * PageSize,
		shared:   shared,
	}
}

// SizeInBytes returns the current buffer length.
func (m *Memory) SizeInBytes() uint32 { return uint32(len(m.buffer)) }

// SizePages returns the current size in pages.
func (m *Memory) SizePages() uint32 { return uint32(len(m.buffer)) / PageSize }

// MaxBytes returns the maximum byte size this memory may grow to.
func (m *Memory) MaxBytes() uint32 { return m.maxBytes }

// IsShared reports the module-declared shared flag. The core provides no
// atomics or cross-thread semantics for shared memories (spec.md §5
// Non-goals); the flag is carried for the validator / embedding host only.
func (m *Memory) IsShared() bool { return m.shared }

// Buffer exposes the raw backing buffer. Callers (the executor, bulk ops,
// and the host ABI) are trusted to respect the bounds they already checked;
// this is the single seam where the byte slice escapes the package.
func (m *Memory) Buffer() []byte { return m.buffer }

// Grow attempts to grow the memory by deltaPages pages. On success it
// returns the old size in pages; on failure (would exceed max, or deltaPages
// too large to address) it returns (0, false) and leaves the memory
// unchanged, per spec.md §8's Memory.grow property.
func (m *Memory) Grow(deltaPages uint32) (oldPages uint32, ok bool) {
	oldSize := uint64(len(m.buffer))
	newSize := oldSize + uint64(deltaPages)*PageSize
	if newSize > uint64(m.maxBytes) {
		return 0, false
	}
	newBuf := make([]byte, newSize)
	copy(newBuf, m.buffer)
	// newBuf's tail past oldSize is already zero (make zero-fills), matching
	// the "new bytes == 0" invariant.
	m.buffer = newBuf
	return uint32(oldSize / PageSize), true
}

// boundsCheck verifies effective = addr+offset, width fits within the
// buffer, catching 64-bit overflow. It never mutates the buffer.
func (m *Memory) boundsCheck(addr uint64, offset uint32, width uint32) (effective uint64, ok bool) {
	effective = addr + uint64(offset)
	if effective < addr {
		return 0, false // addr+offset overflowed 64 bits
	}
	end := effective + uint64(width)
	if end < effective || end > uint64(len(m.buffer)) {
		return 0, false
	}
	return effective, true
}

// Load copies width bytes from addr+offset into out (len(out) must equal
// width), trapping out_of_bounds_memory_access on any OOB condition.
func (m *Memory) Load(addr uint64, offset uint32, width uint32, out []byte) {
	eff, ok := m.boundsCheck(addr, offset, width)
	if !ok {
		trap.Throw(trap.ReasonOutOfBoundsMemoryAccess)
	}
	copy(out, m.buffer[eff:eff+uint64(width)])
}

// Store copies len(in) bytes from in into addr+offset, trapping on OOB.
func (m *Memory) Store(addr uint64, offset uint32, in []byte) {
	width := uint32(len(in))
	eff, ok := m.boundsCheck(addr, offset, width)
	if !ok {
		trap.Throw(trap.ReasonOutOfBoundsMemoryAccess)
	}
	copy(m.buffer[eff:eff+uint64(width)], in)
}

// ByteSlice returns a live sub-slice of the buffer for direct read/write by
// the interpreter's opcode handlers. It bounds-checks addr+offset, width
// itself and traps out_of_bounds_memory_access on failure. Mutating the
// returned slice mutates the memory.
func (m *Memory) ByteSlice(addr uint64, offset uint32, width uint32) []byte {
	eff, ok := m.boundsCheck(addr, offset, width)
	if !ok {
		trap.Throw(trap.ReasonOutOfBoundsMemoryAccess)
	}
	return m.buffer[eff : eff+uint64(width)]
}

// CheckRange traps out_of_bounds_memory_access if [start, start+n) is not
// entirely within the buffer; it performs no I/O. Bulk operations
// (Init/Copy/Fill) use this to validate their whole range before writing
// anything, per spec.md §4.2's "check precedes any write" rule.
func (m *Memory) CheckRange(start, n uint64) {
	end := start + n
	if end < start || end > uint64(len(m.buffer)) {
		trap.Throw(trap.ReasonOutOfBoundsMemoryAccess)
	}
}

// Init copies n bytes from a data segment's bytes (starting at srcOffset)
// into this memory (starting at dstOffset). The whole range of both source
// and destination is checked before any byte is copied.
func (m *Memory) Init(data []byte, dstOffset, srcOffset, n uint32) {
	m.CheckRange(uint64(dstOffset), uint64(n))
	srcEnd := uint64(srcOffset) + uint64(n)
	if srcEnd < uint64(srcOffset) || srcEnd > uint64(len(data)) {
		trap.Throw(trap.ReasonOutOfBoundsMemoryAccess)
	}
	copy(m.buffer[dstOffset:uint64(dstOffset)+uint64(n)], data[srcOffset:srcEnd])
}

// Copy performs an overlap-safe intra-memory memmove of n bytes from src to
// dst, trapping on OOB before copying anything.
func (m *Memory) Copy(dst, src, n uint32) {
	m.CheckRange(uint64(dst), uint64(n))
	m.CheckRange(uint64(src), uint64(n))
	// Go's builtin copy is already overlap-safe for forward overlaps; for a
	// dst/src memmove either direction, copy() on overlapping slices of the
	// same underlying array behaves like memmove (per the language spec).
	copy(m.buffer[dst:uint64(dst)+uint64(n)], m.buffer[src:uint64(src)+uint64(n)])
}

// Fill sets n bytes starting at dst to b, trapping on OOB before writing
// anything.
func (m *Memory) Fill(dst uint32, b byte, n uint32) {
	m.CheckRange(uint64(dst), uint64(n))
	region := m.buffer[dst : uint64(dst)+uint64(n)]
	for i := range region {
		region[i] = b
	}
}
