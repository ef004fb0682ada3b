// Package wasm defines the data model produced by the (out of scope) binary
// parser/validator: the shape of a decoded WebAssembly Module and its
// section entries. Nothing in this package executes code; it is the
// interchange format between the parser and the Store/Instance subsystems.
package wasm

import (
	"strings"

	"github.com/wazcore/wazcore/api"
	"github.com/wazcore/wazcore/internal/bytecode"
	"github.com/wazcore/wazcore/internal/value"
)

// Index is a position in one of a module's index namespaces (imports first).
type Index = uint32

// FunctionType is a function signature: parameter kinds and result kinds.
//
// Two FunctionTypes are defined to compare equal iff their param and result
// sequences are elementwise equal (spec.md §3); actual O(1) equality is
// provided by internal/typestore's canonicalization, not by this struct.
type FunctionType struct {
	Params  []api.ValueType
	Results []api.ValueType

	// cached, computed once by Cache and consulted by the call protocol.
	cached         bool
	paramStackSize int
	resultStackSize int
	paramKinds     []value.Kind
	resultKinds    []value.Kind
}

// Cache precomputes ParamStackSize/ResultStackSize/ParamKinds/ResultKinds.
// Idempotent; the Store calls this once per distinct FunctionType during
// TypeStore canonicalization (spec.md §3 invariant: "precomputed once and
// cached").
func (t *FunctionType) Cache() {
	if t.cached {
		return
	}
	t.paramKinds = kindsOf(t.Params)
	t.resultKinds = kindsOf(t.Results)
	t.paramStackSize = value.SlotSizeOf(t.paramKinds)
	t.resultStackSize = value.SlotSizeOf(t.resultKinds)
	t.cached = true
}

func kindsOf(vts []api.ValueType) []value.Kind {
	if len(vts) == 0 {
		return nil
	}
	out := make([]value.Kind, len(vts))
	for i, vt := range vts {
		out[i] = value.KindFromValueType(vt)
	}
	return out
}

// ParamStackSize returns the number of stack bytes a caller must materialize
// for a call of this type. Cache must have been called first.
func (t *FunctionType) ParamStackSize() int { return t.paramStackSize }

// ResultStackSize returns the number of stack bytes a callee's result area
// occupies. Cache must have been called first.
func (t *FunctionType) ResultStackSize() int { return t.resultStackSize }

// ParamKinds returns the runtime Kind of each parameter. Cache must have
// been called first.
func (t *FunctionType) ParamKinds() []value.Kind { return t.paramKinds }

// ResultKinds returns the runtime Kind of each result. Cache must have been
// called first.
func (t *FunctionType) ResultKinds() []value.Kind { return t.resultKinds }

// Equals reports structural equality (elementwise param/result kind
// equality), independent of canonicalization.
func (t *FunctionType) Equals(o *FunctionType) bool {
	if t == o {
		return true
	}
	if o == nil {
		return false
	}
	return string(t.Params) == string(o.Params) && string(t.Results) == string(o.Results)
}

// String renders a stable key such as "i32i64_f32", used both for display
// and as the canonicalization key in internal/typestore.
func (t *FunctionType) String() string {
	var b strings.Builder
	if len(t.Params) == 0 {
		b.WriteString("null")
	}
	for _, p := range t.Params {
		b.WriteString(api.ValueTypeName(p))
	}
	b.WriteByte('_')
	if len(t.Results) == 0 {
		b.WriteString("null")
	}
	for _, r := range t.Results {
		b.WriteString(api.ValueTypeName(r))
	}
	return b.String()
}

// Limits describes the min/optional-max pair shared by Memory and Table
// declarations.
type Limits struct {
	Min uint32
	Max *uint32 // nil means unbounded
}

// MemoryType declares a memory import/definition in page units.
type MemoryType struct {
	Limits
	Shared bool
}

// TableType declares a table import/definition. ElemKind is either
// api.ValueTypeFuncref or api.ValueTypeExternref.
type TableType struct {
	Limits
	ElemKind api.ValueType
}

// GlobalType declares a global's value kind and mutability.
type GlobalType struct {
	ValType api.ValueType
	Mutable bool
}

// TagType declares an exception tag's payload shape (always void results).
type TagType struct {
	Type *FunctionType
}

// ConstantExpression is a minimal constant-expression: global.get of an
// earlier import, or a literal. The (out of scope) parser evaluates the
// full const-expr grammar; this struct carries just enough for Instance
// construction to evaluate it against a partially built instance.
type ConstantExpression struct {
	// Opcode is either OpcodeI32Const/I64Const/F32Const/F64Const/RefNull/
	// RefFunc or OpcodeGlobalGet.
	Opcode byte
	// Literal holds the immediate for *Const opcodes, encoded as the 64-bit
	// wire representation (sign/zero-extended, or bit pattern for floats).
	Literal uint64
	// GlobalIndex is valid when Opcode == OpcodeGlobalGet.
	GlobalIndex Index
	// FuncIndex is valid when Opcode == OpcodeRefFunc.
	FuncIndex Index
}

const (
	OpcodeI32Const byte = iota
	OpcodeI64Const
	OpcodeF32Const
	OpcodeF64Const
	OpcodeGlobalGet
	OpcodeRefNull
	OpcodeRefFunc
)

// Import describes one entry of the module's import section.
type Import struct {
	Module, Name string
	Type         api.ExternType
	DescFunc     Index // index into the module's type section, when Type == ExternTypeFunc
	DescTable    *TableType
	DescMemory   *MemoryType
	DescGlobal   *GlobalType
	DescTag      *TagType
}

// Export describes one entry of the module's export section.
type Export struct {
	Name  string
	Type  api.ExternType
	Index Index
}

// Global is a module-defined (non-imported) global.
type Global struct {
	Type *GlobalType
	Init *ConstantExpression
}

// CatchInfo binds a try region's instruction-index span to a tag (or
// catch-all) and the handler it jumps to, per spec.md §3. TryStart/TryEnd/
// CatchStart are indices into Code.Ops (the "byte-code offset" of spec.md
// is realized here as an instruction index, since this engine's internal
// encoding is a slice of fixed Instruction values rather than a packed byte
// stream).
type CatchInfo struct {
	TryStart, TryEnd int
	// TagIndex is the module-indexed tag this clause catches; CatchAll is
	// used instead for a catch_all clause.
	TagIndex Index
	CatchAll bool
	// CatchStart is the instruction index control resumes at.
	CatchStart int
	// StackSizeToBe is the byte size the operand working area is rolled
	// back to before the payload (if any) is written above it.
	StackSizeToBe int
}

// Code is a module-defined function's body: byte-code plus metadata needed
// to size its frame, per spec.md §3's ModuleFunction.
type Code struct {
	// LocalTypes holds the declared local variable kinds, in order,
	// following the parameters.
	LocalTypes []api.ValueType
	// Ops is the function's instruction stream, in this engine's
	// offset-addressed internal op encoding (see internal/bytecode).
	Ops []bytecode.Instruction
	// ConstantData holds literal pool bytes appended after locals in the
	// frame, per spec.md §3.
	ConstantData []byte
	// RequiredStackSize is params + locals + constants + operand scratch,
	// precomputed by the (out of scope) compilation step that produced Ops.
	RequiredStackSize int
	Catches           []CatchInfo
}

// DataSegment is a data section entry (active or passive).
type DataSegment struct {
	Bytes []byte
	// OffsetExpr is non-nil for an active segment (index 0 memory, as this
	// spec covers WebAssembly 1.0 single-memory modules).
	OffsetExpr *ConstantExpression
}

// IsActive reports whether d is materialized during instantiation.
func (d *DataSegment) IsActive() bool { return d.OffsetExpr != nil }

// ElementSegment is an element section entry (active or passive).
type ElementSegment struct {
	ElemKind api.ValueType
	// Init holds one constant expression (ref.func/ref.null) per element;
	// the Store evaluates them during instantiation.
	Init []ConstantExpression
	// TableIndex/OffsetExpr are non-nil for an active segment.
	TableIndex *Index
	OffsetExpr *ConstantExpression
}

// IsActive reports whether e is materialized during instantiation.
func (e *ElementSegment) IsActive() bool { return e.OffsetExpr != nil }

// Features is a bitmask of optional WebAssembly proposals, carried in the
// Store's Config. The executor does not consult it: opcodes of a proposal
// whose bit is clear still run (validation proper is out of scope).
type Features uint32

const (
	FeatureSIMD Features = 1 << iota
	FeatureReferenceTypes
	FeatureBulkMemory
	FeatureMultiValue
	FeatureExceptionHandling
	FeatureTailCall
)

// FeaturesAll enables every extension this spec covers.
const FeaturesAll = FeatureSIMD | FeatureReferenceTypes | FeatureBulkMemory |
	FeatureMultiValue | FeatureExceptionHandling | FeatureTailCall

// Has reports whether f contains all bits of want.
func (f Features) Has(want Features) bool { return f&want == want }

// Module is the decoded, not-yet-instantiated representation of a
// WebAssembly binary: the output shape of the (out of scope) parser.
type Module struct {
	TypeSection   []*FunctionType
	ImportSection []*Import

	// FunctionSection[i] is the TypeSection index of the i-th
	// module-defined (non-imported) function.
	FunctionSection []Index
	CodeSection     []*Code

	TableSection  []*TableType
	MemorySection []*MemoryType
	GlobalSection []*Global
	TagSection    []*TagType

	ExportSection []*Export
	// StartSection, if non-nil, is the function index called automatically
	// at the end of instantiation.
	StartSection *Index

	ElementSection []*ElementSegment
	DataSection    []*DataSegment

	// NameSection carries the optional debug name, used only for error
	// messages / stack traces.
	NameSection string
}

// ImportedFunctionCount returns how many ImportSection entries are funcs.
func (m *Module) ImportedFunctionCount() int {
	n := 0
	for _, im := range m.ImportSection {
		if im.Type == api.ExternTypeFunc {
			n++
		}
	}
	return n
}

// ImportedTableCount returns how many ImportSection entries are tables.
func (m *Module) ImportedTableCount() int {
	n := 0
	for _, im := range m.ImportSection {
		if im.Type == api.ExternTypeTable {
			n++
		}
	}
	return n
}

// ImportedMemoryCount returns how many ImportSection entries are memories.
func (m *Module) ImportedMemoryCount() int {
	n := 0
	for _, im := range m.ImportSection {
		if im.Type == api.ExternTypeMemory {
			n++
		}
	}
	return n
}

// ImportedGlobalCount returns how many ImportSection entries are globals.
func (m *Module) ImportedGlobalCount() int {
	n := 0
	for _, im := range m.ImportSection {
		if im.Type == api.ExternTypeGlobal {
			n++
		}
	}
	return n
}

// ImportedTagCount returns how many ImportSection entries are tags.
func (m *Module) ImportedTagCount() int {
	n := 0
	for _, im := range m.ImportSection {
		if im.Type == api.ExternTypeTag {
			n++
		}
	}
	return n
}

// TypeOfFunction resolves the FunctionType of the funcIdx-th function in the
// function index namespace (imports first), consulting ImportSection for
// imports and FunctionSection/TypeSection for module-defined functions.
func (m *Module) TypeOfFunction(funcIdx Index) *FunctionType {
	importedCount := Index(m.ImportedFunctionCount())
	if funcIdx < importedCount {
		seen := Index(0)
		for _, im := range m.ImportSection {
			if im.Type != api.ExternTypeFunc {
				continue
			}
			if seen == funcIdx {
				return m.TypeSection[im.DescFunc]
			}
			seen++
		}
		return nil
	}
	defIdx := funcIdx - importedCount
	if int(defIdx) >= len(m.FunctionSection) {
		return nil
	}
	return m.TypeSection[m.FunctionSection[defIdx]]
}
