// Package wasmdebug builds human-readable diagnostics for module linking
// and trap reporting: a stable function-name formatter and a stack-trace
// error builder an embedding host can use when a recovered trap or
// exception needs to be surfaced as a regular Go error (CLI tools, test
// shells), without requiring package trap or package exception themselves
// to carry any formatting logic.
package wasmdebug

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wazcore/wazcore/api"
)

// FuncName renders a stable "module.function" label for diagnostics. A
// function with no recorded name falls back to "$<index>", matching the
// text-format convention for an unnamed function.
func FuncName(moduleName, funcName string, funcIdx uint32) string {
	if funcName == "" {
		funcName = "$" + strconv.Itoa(int(funcIdx))
	}
	return moduleName + "." + funcName
}

// signature appends a WebAssembly text-format-ish signature to name, e.g.
// "mod.fn(i32,i64) f32" or "mod.fn() (i32,i64)" for multiple results.
func signature(name string, paramTypes, resultTypes []api.ValueType) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, p := range paramTypes {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(api.ValueTypeName(p))
	}
	b.WriteByte(')')
	switch len(resultTypes) {
	case 0:
	case 1:
		b.WriteByte(' ')
		b.WriteString(api.ValueTypeName(resultTypes[0]))
	default:
		b.WriteString(" (")
		for i, r := range resultTypes {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(api.ValueTypeName(r))
		}
		b.WriteByte(')')
	}
	return b.String()
}

// ErrorBuilder accumulates a call-frame trace (innermost call added first,
// outermost added last is not assumed — frames print in the order added)
// and renders it alongside a recovered panic value as one formatted error.
type ErrorBuilder interface {
	// AddFrame records one call-stack frame's signature.
	AddFrame(name string, paramTypes, resultTypes []api.ValueType)
	// FromRecovered wraps recovered (typically the result of a recover()
	// call at a Trap.Run boundary) with the accumulated frame trace.
	// errors.Unwrap on the result returns recovered unchanged.
	FromRecovered(recovered error) error
}

type errorBuilder struct {
	frames []string
}

// NewErrorBuilder creates an empty ErrorBuilder.
func NewErrorBuilder() ErrorBuilder {
	return &errorBuilder{}
}

func (b *errorBuilder) AddFrame(name string, paramTypes, resultTypes []api.ValueType) {
	b.frames = append(b.frames, signature(name, paramTypes, resultTypes))
}

func (b *errorBuilder) FromRecovered(recovered error) error {
	return &tracedError{cause: recovered, frames: b.frames}
}

type tracedError struct {
	cause  error
	frames []string
}

func (e *tracedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (recovered during execution)\nstack trace:", e.cause.Error())
	for _, f := range e.frames {
		b.WriteString("\n\t")
		b.WriteString(f)
	}
	return b.String()
}

func (e *tracedError) Unwrap() error { return e.cause }
