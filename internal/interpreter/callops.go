package interpreter

import (
	"github.com/wazcore/wazcore/internal/bytecode"
	"github.com/wazcore/wazcore/internal/instance"
	"github.com/wazcore/wazcore/internal/trap"
	"github.com/wazcore/wazcore/internal/value"
)

// execCall implements call and call_indirect (spec.md §4.6's call
// protocol): parameters are gathered from the caller's frame by offset,
// the callee is invoked through the Function interface (so a defined or
// an imported function are indistinguishable to the caller), and results
// are scattered back into the caller's frame by offset. This is the
// idiomatic-Go realization of the byte-copy call convention: the transfer
// is still strictly offset-addressed on both ends, but the in-flight
// values ride as typed value.Value rather than as an untyped byte range,
// matching how Go functions actually pass arguments.
func execCall(es *instance.ExecutionState, self *instance.DefinedFunction, buf []byte, ins *bytecode.Instruction) {
	var target instance.Function
	if ins.Op == bytecode.OpCall {
		target = self.Inst.Functions[ins.Index]
	} else {
		tbl := tableAt(self.Inst, ins.Index)
		idx := value.ReadU32(buf, ins.Src1)
		if idx >= tbl.Size() {
			trap.Throw(trap.ReasonUndefinedElement)
		}
		ref := tbl.Get(idx)
		if ref.IsNull() {
			trap.Throwf(trap.ReasonUninitializedElement, "uninitialized element %d", idx)
		}
		fn, ok := self.Inst.ResolveFuncRef(ref)
		if !ok {
			trap.Throw(trap.ReasonUndefinedElement)
		}
		declared := self.Inst.Module.TypeSection[ins.Index2]
		if fn.Type() != declared {
			trap.Throw(trap.ReasonIndirectCallTypeMismatch)
		}
		target = fn
	}

	ft := target.Type()
	params := make([]value.Value, len(ft.ParamKinds()))
	for i, k := range ft.ParamKinds() {
		params[i] = readSlot(buf, ins.ParamOffsets[i], k)
	}

	child := es.Child()
	results := target.Call(child, params)

	for i, k := range ft.ResultKinds() {
		writeSlot(buf, ins.ResultOffsets[i], k, results[i])
	}
}
