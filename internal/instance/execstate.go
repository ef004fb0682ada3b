package instance

import (
	"sync/atomic"

	"github.com/wazcore/wazcore/internal/trap"
)

// CallStackCeiling bounds the depth of nested wasm/host calls, substituting
// for a native-stack-pointer threshold probe (spec.md §4.6 step 1): Go's
// goroutine stack grows and shrinks automatically, so there is no fixed
// "stack pointer vs. threshold" comparison to make; instead this engine
// counts activations explicitly and traps once the count would reach the
// ceiling, the same tradeoff the teacher engine documents for its own
// CallStackCeiling build option.
const CallStackCeiling = 2000

var frameIDCounter uint64

// ExecutionState is the per-activation chain link used for the call-stack
// depth check and for the (frame, pc) trace an Exception captures at
// construction, per spec.md §3/§4.7. It mirrors original_source's
// ExecutionState parent-chaining.
type ExecutionState struct {
	Parent  *ExecutionState
	Depth   int
	FrameID uint64
}

// NewExecutionState creates the root of a call chain, used once per
// outermost call from the host (e.g. the Store's start-function call).
func NewExecutionState() *ExecutionState {
	return &ExecutionState{FrameID: atomic.AddUint64(&frameIDCounter, 1)}
}

// Child pushes a new activation, trapping call_stack_exhausted if the
// resulting depth would reach CallStackCeiling (spec.md §4.6 step 1).
func (es *ExecutionState) Child() *ExecutionState {
	if es.Depth+1 >= CallStackCeiling {
		trap.Throw(trap.ReasonCallStackExhausted)
	}
	return &ExecutionState{
		Parent:  es,
		Depth:   es.Depth + 1,
		FrameID: atomic.AddUint64(&frameIDCounter, 1),
	}
}
