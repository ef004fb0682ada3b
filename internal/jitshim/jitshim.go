// Package jitshim defines the boundary a hypothetical JIT backend (spec.md
// C13) would have to satisfy to plug into the same call protocol and trap
// taxonomy the interpreter uses. There is no code generation here — actual
// register allocation and machine-code emission for amd64/arm64 is the
// "separate concern" spec.md §1 calls out, with no consumer inside this
// engine's scope (see DESIGN.md's "Dropped teacher dependency" entry for
// why the teacher's assembler dependency is not wired here).
package jitshim

import "github.com/wazcore/wazcore/internal/instance"

// Compiler is the shape a JIT backend registers under: given a module's
// Code, it returns a CallEntry ready to install on a DefinedFunction, the
// same contract internal/interpreter.Run satisfies. A backend that cannot
// compile a particular function (an opcode outside what it lowers, for
// instance) returns ok == false so the caller can fall back to the
// interpreter for that one function — mirroring the teacher's own
// per-function tiering between its baseline and optimizing engines.
type Compiler interface {
	Compile(fn *instance.DefinedFunction) (entry instance.CallEntry, ok bool)
}

// CompileWithFallback installs an entry on every DefinedFunction of inst,
// preferring c's compiled entry and falling back to interpretEntry (the
// interpreter's own CallEntry, internal/interpreter.Run) for any function c
// declines. Passing a nil Compiler installs interpretEntry everywhere,
// equivalent to internal/interpreter.Compile on its own.
func CompileWithFallback(inst *instance.Instance, c Compiler, interpretEntry instance.CallEntry) {
	for _, fn := range inst.Functions {
		df, ok := fn.(*instance.DefinedFunction)
		if !ok {
			continue
		}
		if c != nil {
			if entry, ok := c.Compile(df); ok {
				df.Entry = entry
				continue
			}
		}
		df.Entry = interpretEntry
	}
}
