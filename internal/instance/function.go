// Package instance implements the Function capability (spec.md C6) and the
// Instance model (spec.md C9): the per-instantiation binding of a Module to
// concrete Function/Table/Memory/Global/Tag/segment objects.
//
// Function and Instance live in one package — like the teacher's own
// internal/wasm package, which defines FunctionInstance and ModuleInstance
// together — because DefinedFunction is defined as "ModuleFunction +
// Instance" (spec.md §3) and the two types are never meaningfully used
// apart.
package instance

import (
	"github.com/wazcore/wazcore/internal/value"
	"github.com/wazcore/wazcore/internal/wasm"
)

// Function is the capability both DefinedFunction and ImportedFunction
// implement: a common call contract regardless of what is behind it
// (spec.md §3's "Function (capability)").
type Function interface {
	Type() *wasm.FunctionType
	// Call invokes the function with already-typed parameter Values,
	// returning typed result Values. es tracks call-stack depth and the
	// diagnostic frame chain; a trap or uncaught exception is signaled by
	// panicking (see package trap / package exception); Call has no error
	// return. A programmer error such as calling a DefinedFunction before
	// compilation also panics.
	Call(es *ExecutionState, params []value.Value) []value.Value
}

// Listener is an optional observation hook an embedding host can register
// on an Instance to watch calls and traps without altering behavior —
// mirroring the teacher's experimental.FunctionListener, kept out of the
// hot path unless set (spec.md's ambient stack carries no logging
// framework; this is the one, error-return-free seam for it).
type Listener interface {
	BeforeCall(es *ExecutionState, fn Function, params []value.Value)
	AfterCall(es *ExecutionState, fn Function, results []value.Value, unwind error)
}

// CallEntry is the compiled call target the byte-code executor installs on
// a DefinedFunction once it has compiled the function's Code (spec.md
// C12's "invokes either the interpreter or the JIT entry point"). Keeping
// this a plain function type — rather than an interface implemented by the
// interpreter package — lets package instance stay a dependency-free leaf:
// the interpreter (and, if ever added, a JIT backend honoring C13's
// boundary) depend on instance, not the reverse.
type CallEntry func(es *ExecutionState, self *DefinedFunction, params []value.Value) []value.Value

// DefinedFunction is a module-defined function: byte-code-bearing Code plus
// the Instance it was instantiated into (spec.md §3).
type DefinedFunction struct {
	Code     *wasm.Code
	FuncType *wasm.FunctionType
	Inst     *Instance
	// Idx is this function's position in the module's function index
	// namespace (imports first); used for RefFunc / table.init resolution
	// and for debug/diagnostic naming.
	Idx wasm.Index
	// DebugName augments traces with a module.function label.
	DebugName string

	// Entry is nil until the owning engine (internal/interpreter, or a
	// future JIT backend) compiles Code and installs its call target.
	Entry CallEntry
}

// Type implements Function.
func (f *DefinedFunction) Type() *wasm.FunctionType { return f.FuncType }

// Call implements Function by delegating to the compiled Entry.
func (f *DefinedFunction) Call(es *ExecutionState, params []value.Value) (results []value.Value) {
	if f.Entry == nil {
		panic("instance: DefinedFunction " + f.DebugName + " called before compilation")
	}
	l := f.Inst.Listener
	if l == nil {
		return f.Entry(es, f, params)
	}
	l.BeforeCall(es, f, params)
	defer func() {
		r := recover()
		if r == nil {
			l.AfterCall(es, f, results, nil)
			return
		}
		if uw, ok := r.(error); ok {
			l.AfterCall(es, f, nil, uw)
		}
		panic(r)
	}()
	results = f.Entry(es, f, params)
	return results
}

// HostFunc is the host callback ABI (spec.md §6): given the current
// ExecutionState, a slice of exactly len(Type().Params) argument Values,
// and a slice of exactly len(Type().Results) result Values to populate
// in-place, plus the opaque env pointer supplied at registration. A host
// function signals a trap by calling trap.Throw/Throwf directly — there is
// no error return, matching spec.md §6's "may signal a trap by calling the
// runtime's throw entry."
type HostFunc func(es *ExecutionState, args, results []value.Value, env any)

// ImportedFunction is a host-provided function (spec.md §3).
type ImportedFunction struct {
	FuncType  *wasm.FunctionType
	Host      HostFunc
	Env       any
	DebugName string

	// Listener, if set, observes this host function's calls the same way
	// Instance.Listener observes defined-function calls; imports have no
	// owning Instance of their own, so the hook lives here directly.
	Listener Listener
}

// Type implements Function.
func (f *ImportedFunction) Type() *wasm.FunctionType { return f.FuncType }

// Call implements Function by invoking the host callback.
func (f *ImportedFunction) Call(es *ExecutionState, params []value.Value) (results []value.Value) {
	results = make([]value.Value, len(f.FuncType.Results))
	l := f.Listener
	if l == nil {
		f.Host(es, params, results, f.Env)
		return results
	}
	l.BeforeCall(es, f, params)
	defer func() {
		r := recover()
		if r == nil {
			l.AfterCall(es, f, results, nil)
			return
		}
		if uw, ok := r.(error); ok {
			l.AfterCall(es, f, nil, uw)
		}
		panic(r)
	}()
	f.Host(es, params, results, f.Env)
	return results
}
