// Package table implements the table runtime (spec.md C3): a bounds-checked
// array of funcref or externref slots supporting grow/get/set/copy/fill and
// element-segment init.
package table

import (
	"github.com/wazcore/wazcore/api"
	"github.com/wazcore/wazcore/internal/trap"
	"github.com/wazcore/wazcore/internal/value"
)

// Table is one instantiated table.
type Table struct {
	elemKind api.ValueType
	slots    []value.Ref
	max      uint32
}

// New allocates a Table of initialSize null slots, capped at maxSize.
func New(elemKind api.ValueType, initialSize, maxSize uint32) *Table {
	return &Table{
		elemKind: elemKind,
		slots:    make([]value.Ref, initialSize),
		max:      maxSize,
	}
}

// ElemKind returns the table's declared element kind.
func (t *Table) ElemKind() api.ValueType { return t.elemKind }

// Size returns the current slot count.
func (t *Table) Size() uint32 { return uint32(len(t.slots)) }

// Max returns the table's maximum size.
func (t *Table) Max() uint32 { return t.max }

// Get returns the reference at index i, trapping out_of_bounds_table_access
// if i is out of range.
func (t *Table) Get(i uint32) value.Ref {
	if i >= uint32(len(t.slots)) {
		trap.Throw(trap.ReasonOutOfBoundsTableAccess)
	}
	return t.slots[i]
}

// Set stores ref at index i. The caller (the byte-code verifier, per
// spec.md §4.3) is responsible for ensuring ref's kind matches ElemKind;
// Set itself only bounds-checks.
func (t *Table) Set(i uint32, ref value.Ref) {
	if i >= uint32(len(t.slots)) {
		trap.Throw(trap.ReasonOutOfBoundsTableAccess)
	}
	t.slots[i] = ref
}

// Grow attempts to grow the table by delta slots, filling new slots with
// initRef. On success it returns the old size; on failure (would exceed
// Max) it returns (0, false) and leaves the table unchanged.
func (t *Table) Grow(delta uint32, initRef value.Ref) (oldSize uint32, ok bool) {
	old := uint64(len(t.slots))
	newSize := old + uint64(delta)
	if newSize > uint64(t.max) {
		return 0, false
	}
	newSlots := make([]value.Ref, newSize)
	copy(newSlots, t.slots)
	for i := old; i < newSize; i++ {
		newSlots[i] = initRef
	}
	t.slots = newSlots
	return uint32(old), true
}

func (t *Table) checkRange(start uint32, n uint32, size uint32) {
	end := uint64(start) + uint64(n)
	if end > uint64(size) {
		trap.Throw(trap.ReasonOutOfBoundsTableAccess)
	}
}

// Copy copies n references, overlap-safe, from src (within srcTable) to dst
// (within t). srcTable may be t itself (intra-table copy). The whole range
// of both tables is checked before any slot is written.
func (t *Table) Copy(srcTable *Table, n, srcStart, dstStart uint32) {
	t.checkRange(dstStart, n, t.Size())
	srcTable.checkRange(srcStart, n, srcTable.Size())
	if srcTable == t {
		copy(t.slots[dstStart:uint64(dstStart)+uint64(n)], t.slots[srcStart:uint64(srcStart)+uint64(n)])
		return
	}
	copy(t.slots[dstStart:uint64(dstStart)+uint64(n)], srcTable.slots[srcStart:uint64(srcStart)+uint64(n)])
}

// Fill sets n slots starting at start to ref, trapping on OOB before
// writing anything.
func (t *Table) Fill(start uint32, ref value.Ref, n uint32) {
	t.checkRange(start, n, t.Size())
	region := t.slots[start : uint64(start)+uint64(n)]
	for i := range region {
		region[i] = ref
	}
}

// ElementResolver returns the reference for the i-th entry of an element
// segment. The Store passes the segment's Get, whose entries it already
// resolved from function indices to value.Ref handles at instantiation
// (SPEC_FULL.md's supplemented-feature note on element segments).
type ElementResolver func(i int) value.Ref

// Init materializes n references from an element segment's resolver
// (starting at srcStart) into this table (starting at dstStart). The whole
// range is checked up-front, per spec.md §4.3.
func (t *Table) Init(resolve ElementResolver, segmentLen uint32, dstStart, srcStart, n uint32) {
	t.checkRange(dstStart, n, t.Size())
	srcEnd := uint64(srcStart) + uint64(n)
	if srcEnd > uint64(segmentLen) {
		trap.Throw(trap.ReasonOutOfBoundsTableAccess)
	}
	for i := uint32(0); i < n; i++ {
		t.slots[dstStart+i] = resolve(int(srcStart + i))
	}
}
