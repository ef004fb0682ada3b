package interpreter

import (
	"github.com/wazcore/wazcore/internal/bytecode"
	"github.com/wazcore/wazcore/internal/exception"
	"github.com/wazcore/wazcore/internal/instance"
)

// execThrow raises a user exception (spec.md §4.7's `throw`): the tag's
// declared payload shape determines how many bytes are copied out of the
// frame's scratch area at ins.Src1 into the exception's own payload buffer.
// Go's panic/recover naturally preserves each ancestor Run invocation's own
// pc local across the unwind (see runWithCatch), so — unlike the C++
// original — the single (frameID, pc) entry recorded here is purely for
// diagnostics, never consulted by the catch search itself.
func execThrow(es *instance.ExecutionState, self *instance.DefinedFunction, buf []byte, ins *bytecode.Instruction, pc int) {
	tag := self.Inst.Tags[ins.Index]
	size := tag.Type.ParamStackSize()
	payload := make([]byte, size)
	copy(payload, buf[ins.Src1:ins.Src1+size])

	trace := []exception.Frame{{FrameID: es.FrameID, PC: pc}}
	exception.Throw(exception.NewUser(tag, payload, trace))
}
