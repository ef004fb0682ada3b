// Package exception implements tags and exception values (spec.md C7): a
// Tag is a typed exception selector; an Exception carries either a
// human-readable message (a trap wrapper used nowhere outside interop with
// the generic error path) or a Tag plus a packed payload raised by `throw`.
package exception

import (
	"fmt"

	"github.com/wazcore/wazcore/internal/wasm"
)

// Tag is a typed exception selector: its FunctionType's Params describe the
// payload shape. Two tags are equal iff they are the same object (spec.md
// §3): comparisons must use pointer identity, never Tag.Type.Equals.
type Tag struct {
	Type *wasm.FunctionType
}

// New creates a Tag over the given payload type (a FunctionType whose
// Results are ignored — only Params carry meaning for a tag).
func New(payloadType *wasm.FunctionType) *Tag {
	payloadType.Cache()
	return &Tag{Type: payloadType}
}

// Frame is one entry of the diagnostic trace captured when an Exception is
// constructed: an opaque per-activation identifier and the program counter
// active in it at throw time. The interpreter's call frame assigns FrameID;
// this package does not depend on the interpreter to avoid a import cycle.
type Frame struct {
	FrameID uint64
	PC      int
}

// Exception is either a built-in exception (message only, used when a trap
// needs to be represented as an Exception value rather than a trap.Error —
// e.g. when it crosses an imported-function boundary as a regular error) or
// a user exception (Tag + raw payload bytes in stack-slot layout).
type Exception struct {
	// Message is set for a built-in exception; empty for a user exception.
	Message string
	// Tag/Payload are set for a user exception (Tag non-nil).
	Tag     *Tag
	Payload []byte

	// Trace is the (frame, pc) list captured at construction, innermost
	// first, kept for diagnostics (spec.md §4.7); the interpreter's catch
	// search does not read it.
	Trace []Frame
}

// NewBuiltin creates a built-in exception carrying only a message.
func NewBuiltin(message string) *Exception {
	return &Exception{Message: message}
}

// NewUser creates a user exception for tag t with the given packed payload.
// trace is the captured (frame, pc) list, innermost activation first.
func NewUser(t *Tag, payload []byte, trace []Frame) *Exception {
	return &Exception{Tag: t, Payload: payload, Trace: trace}
}

// IsUser reports whether e was raised by `throw` (as opposed to being a
// built-in message wrapper).
func (e *Exception) IsUser() bool { return e.Tag != nil }

// PCAt returns the program counter this exception's Trace recorded for
// frameID, and whether an entry was found. It is a diagnostic lookup; the
// interpreter's catch search keeps each frame's pc itself and does not call
// it.
func (e *Exception) PCAt(frameID uint64) (pc int, ok bool) {
	for _, f := range e.Trace {
		if f.FrameID == frameID {
			return f.PC, true
		}
	}
	return 0, false
}

func (e *Exception) Error() string {
	if e.Tag != nil {
		return fmt.Sprintf("uncaught exception (tag payload %d bytes)", len(e.Payload))
	}
	return e.Message
}

// Throw panics with e, entering the same unwind channel trap.Throw uses
// (package trap's Run recovers any error-implementing panic value). The
// interpreter's inner catch-frame search type-switches the recovered value
// back to *Exception when it needs Tag/Payload/Trace.
func Throw(e *Exception) {
	panic(e)
}
