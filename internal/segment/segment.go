// Package segment implements passive/active data & element segment runtime
// state (spec.md C5): the drop flag and the post-drop "report size 0,
// reject init" behavior. Segment materialization itself happens in
// package store during instantiation; this package only models the
// segment's own runtime lifecycle.
package segment

import (
	"github.com/wazcore/wazcore/internal/value"
)

// Data is one instantiated data segment.
type Data struct {
	bytes   []byte
	dropped bool
}

// NewData wraps the segment's raw bytes. Ownership of bytes transfers to Data.
func NewData(bytes []byte) *Data { return &Data{bytes: bytes} }

// Size returns 0 if dropped, else the segment's byte length — "dropped
// segments report size 0" (spec.md §3).
func (d *Data) Size() int {
	if d.dropped {
		return 0
	}
	return len(d.bytes)
}

// Bytes returns the segment's data, or nil if dropped.
func (d *Data) Bytes() []byte {
	if d.dropped {
		return nil
	}
	return d.bytes
}

// Dropped reports whether Drop has been called.
func (d *Data) Dropped() bool { return d.dropped }

// Drop marks the segment dropped. Monotonic: dropping an already-dropped
// segment is a no-op, matching spec.md §3's "once dropped, stays dropped".
func (d *Data) Drop() { d.dropped = true }

// Element is one instantiated element segment. It holds resolved
// reference values (funcref handles or externref handles), materialized by
// the Store at instantiation time for active and passive segments alike.
type Element struct {
	refs    []value.Ref
	dropped bool
}

// NewElement wraps a segment's already-resolved reference list.
func NewElement(refs []value.Ref) *Element { return &Element{refs: refs} }

// Size returns 0 if dropped, else the element count.
func (e *Element) Size() int {
	if e.dropped {
		return 0
	}
	return len(e.refs)
}

// Refs returns the segment's resolved references, or nil if dropped.
func (e *Element) Refs() []value.Ref {
	if e.dropped {
		return nil
	}
	return e.refs
}

// Dropped reports whether Drop has been called.
func (e *Element) Dropped() bool { return e.dropped }

// Drop marks the segment dropped; monotonic, like Data.Drop.
func (e *Element) Drop() { e.dropped = true }

// Get returns the i-th resolved reference. The interpreter's table.init
// opcode bounds-checks against Size before calling this, so Get itself does
// not trap — a true spec.md §4.3 trap happens at the Table.Init call site.
func (e *Element) Get(i int) value.Ref { return e.refs[i] }
