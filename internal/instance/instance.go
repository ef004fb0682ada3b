package instance

import (
	"fmt"

	"github.com/wazcore/wazcore/api"
	"github.com/wazcore/wazcore/internal/exception"
	"github.com/wazcore/wazcore/internal/global"
	"github.com/wazcore/wazcore/internal/memory"
	"github.com/wazcore/wazcore/internal/segment"
	"github.com/wazcore/wazcore/internal/table"
	"github.com/wazcore/wazcore/internal/value"
	"github.com/wazcore/wazcore/internal/wasm"
)

// Instance is one instantiated module: concrete Function/Table/Memory/
// Global/Tag objects, plus segment runtime state, bound together per
// spec.md §3's Instance. Slices are index-correlated with the module's
// index namespaces (imports first, then definitions).
type Instance struct {
	Name   string
	Module *wasm.Module

	Functions []Function
	Tables    []*table.Table
	Memories  []*memory.Memory
	Globals   []*global.Global
	Tags      []*exception.Tag

	DataSegments    []*segment.Data
	ElementSegments []*segment.Element

	Exports map[string]*Export

	// Listener, if set, observes every DefinedFunction.Call on this
	// instance (spec.md's ambient-stack diagnostic seam); nil by default.
	Listener Listener
}

// Export is a resolved export entry: exactly one of the pointer fields is
// non-nil, matching the ExternType in Type.
type Export struct {
	Type     api.ExternType
	Function Function
	Table    *table.Table
	Memory   *memory.Memory
	Global   *global.Global
	Tag      *exception.Tag
}

// New creates an empty Instance shell; Functions/Tables/... are populated by
// the Store's instantiation algorithm (package store), which owns the
// ordering and import-resolution logic (spec.md §4.5).
func New(name string, module *wasm.Module) *Instance {
	return &Instance{Name: name, Module: module, Exports: map[string]*Export{}}
}

// BuildExports resolves the module's export section against already
// populated Functions/Tables/Memories/Globals/Tags — a linear scan of the
// export table by name, per spec.md §4.5.
func (i *Instance) BuildExports() {
	i.Exports = make(map[string]*Export, len(i.Module.ExportSection))
	for _, exp := range i.Module.ExportSection {
		var e *Export
		switch exp.Type {
		case api.ExternTypeFunc:
			e = &Export{Type: exp.Type, Function: i.Functions[exp.Index]}
		case api.ExternTypeTable:
			e = &Export{Type: exp.Type, Table: i.Tables[exp.Index]}
		case api.ExternTypeMemory:
			e = &Export{Type: exp.Type, Memory: i.Memories[exp.Index]}
		case api.ExternTypeGlobal:
			e = &Export{Type: exp.Type, Global: i.Globals[exp.Index]}
		case api.ExternTypeTag:
			e = &Export{Type: exp.Type, Tag: i.Tags[exp.Index]}
		default:
			continue
		}
		i.Exports[exp.Name] = e
	}
}

// GetExport returns the export registered under name, erroring if absent or
// of the wrong kind (spec.md §4.5).
func (i *Instance) GetExport(name string, want api.ExternType) (*Export, error) {
	e, ok := i.Exports[name]
	if !ok {
		return nil, fmt.Errorf("%q is not exported in module %q", name, i.Name)
	}
	if e.Type != want {
		return nil, fmt.Errorf("export %q in module %q is a %s, not a %s",
			name, i.Name, api.ExternTypeName(e.Type), api.ExternTypeName(want))
	}
	return e, nil
}

// ExportedFunction is a convenience wrapper over GetExport for the common
// case of resolving a callable export.
func (i *Instance) ExportedFunction(name string) (Function, error) {
	e, err := i.GetExport(name, api.ExternTypeFunc)
	if err != nil {
		return nil, err
	}
	return e.Function, nil
}

// FuncRefOf returns a value.Ref identifying the funcIdx-th function in the
// index namespace, for ref.func / active-element materialization. The null
// sentinel is returned for an out-of-range index (callers are expected to
// have already validated the index at parse time).
func (i *Instance) FuncRefOf(funcIdx wasm.Index) value.Ref {
	if int(funcIdx) >= len(i.Functions) {
		return value.NullRef
	}
	// Function handles are modeled as 1-based so the zero value remains the
	// null sentinel; ResolveFuncRef (see below) maps a handle back to the
	// underlying Function.
	return value.Ref(funcIdx + 1)
}

// ResolveFuncRef maps a value.Ref produced by FuncRefOf back to the
// concrete Function it denotes. Used by call_indirect and by host code
// holding an exported funcref.
func (i *Instance) ResolveFuncRef(r value.Ref) (Function, bool) {
	if r.IsNull() {
		return nil, false
	}
	idx := int(r) - 1
	if idx < 0 || idx >= len(i.Functions) {
		return nil, false
	}
	return i.Functions[idx], true
}
