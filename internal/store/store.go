// Package store implements the Store capability (spec.md C10): the
// process-wide registry of instantiated modules and the Instantiate
// algorithm that turns a decoded Module plus its resolved imports into a
// linked, running Instance.
//
// Store is the one place spec.md's two error channels meet: resolution
// failures (a missing import, a signature mismatch) are reported as a
// plain Go error, while anything that goes wrong once instantiation starts
// actually running code — a global initializer that traps, an active
// segment that lands out of bounds, a failing start function — unwinds via
// the same panic/recover protocol package trap defines for ordinary
// execution. Instantiate does not recover those panics; callers that want
// them as a trap.Result should wrap the call in trap.Run themselves, same
// as any other call into the engine.
package store

import (
	"fmt"
	"sync"

	"github.com/wazcore/wazcore/api"
	"github.com/wazcore/wazcore/internal/exception"
	"github.com/wazcore/wazcore/internal/global"
	"github.com/wazcore/wazcore/internal/instance"
	"github.com/wazcore/wazcore/internal/interpreter"
	"github.com/wazcore/wazcore/internal/memory"
	"github.com/wazcore/wazcore/internal/segment"
	"github.com/wazcore/wazcore/internal/table"
	"github.com/wazcore/wazcore/internal/typestore"
	"github.com/wazcore/wazcore/internal/value"
	"github.com/wazcore/wazcore/internal/wasm"
)

// Config carries the Features bitmask of optional proposals and the
// execution engine selector. The Store records Config but does not consult
// Features: no opcode family is rejected when its feature bit is clear.
// Like the teacher's own RuntimeConfig, Config is immutable: each WithXXX
// method returns a modified copy rather than mutating the receiver.
type Config struct {
	Features wasm.Features
	Engine   EngineKind
}

// EngineKind selects the compilation backend a Store uses for newly
// instantiated modules, mirroring the teacher's own engine-selector split
// between its interpreter and JIT compilers (config.go). Only the
// interpreter is implemented; see internal/jitshim for the boundary a JIT
// backend would plug into.
type EngineKind int

const (
	EngineInterpreter EngineKind = iota
)

// NewConfig returns a Config accepting every proposal this engine
// implements (spec.md §9's covered extensions), running on the
// interpreter.
func NewConfig() Config {
	return Config{Features: wasm.FeaturesAll, Engine: EngineInterpreter}
}

// WithFeatures returns a copy of c whose Features field is exactly f, e.g.
// Config{}.WithFeatures(0) to record that no optional proposal is enabled.
func (c Config) WithFeatures(f wasm.Features) Config {
	c.Features = f
	return c
}

// Store owns every Instance created through it and the canonical
// FunctionType table shared across them, per spec.md §3's "Store (runtime
// object)". The zero Store is not usable; construct one with New.
type Store struct {
	config Config
	types  *typestore.Store

	mu        sync.RWMutex
	instances map[string]*instance.Instance
}

// New creates an empty Store under the given configuration.
func New(cfg Config) *Store {
	return &Store{
		config:    cfg,
		types:     typestore.New(),
		instances: map[string]*instance.Instance{},
	}
}

// Instance looks up a previously instantiated module by the name it was
// registered under, for use resolving another module's imports or for a
// host driving calls directly.
func (s *Store) Instance(name string) (*instance.Instance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instances[name]
	return inst, ok
}

// Instantiate runs spec.md §4.5's instantiation algorithm: resolve imports
// against already-registered instances, canonicalize types, allocate
// functions/tables/memories/globals/tags in import-then-defined order,
// evaluate global initializers, materialize and then drop active element
// and data segments, run the start function if present, and finally
// register the new Instance for later linking.
//
// The returned error is non-nil only for link-time failures (duplicate
// name, unresolved import, signature/limits mismatch) — never for a trap
// raised while running initializer or start code, which instead propagates
// as an ordinary panic per package trap's convention.
func (s *Store) Instantiate(name string, module *wasm.Module) (*instance.Instance, error) {
	s.mu.Lock()
	if _, dup := s.instances[name]; dup {
		s.mu.Unlock()
		return nil, fmt.Errorf("module %q has already been instantiated", name)
	}
	// Reserve the name immediately so concurrent Instantiate calls cannot
	// race to register the same one twice; released again on any
	// resolution-time failure below.
	s.instances[name] = nil
	s.mu.Unlock()

	ok := false
	defer func() {
		if !ok {
			s.mu.Lock()
			delete(s.instances, name)
			s.mu.Unlock()
		}
	}()

	for i, t := range module.TypeSection {
		module.TypeSection[i] = s.types.Canonicalize(t)
	}

	inst := instance.New(name, module)

	if err := s.resolveImports(module, inst); err != nil {
		return nil, err
	}

	s.allocateTables(module, inst)
	s.allocateMemories(module, inst)
	if err := s.allocateGlobals(module, inst); err != nil {
		return nil, err
	}
	s.allocateTags(module, inst)
	s.allocateFunctions(module, inst)

	interpreter.Compile(inst)

	s.materializeElements(module, inst)
	s.materializeData(module, inst)

	inst.BuildExports()

	if module.StartSection != nil {
		start := inst.Functions[*module.StartSection]
		start.Call(instance.NewExecutionState(), nil)
	}

	s.mu.Lock()
	s.instances[name] = inst
	s.mu.Unlock()
	ok = true
	return inst, nil
}

// resolveImports looks up each ImportSection entry against an
// already-registered instance's exports, checking the signature/limits
// compatibility spec.md §4.5 requires, and appends the resolved objects to
// inst's index-namespace slices (imports always occupy the low indices).
func (s *Store) resolveImports(module *wasm.Module, inst *instance.Instance) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for idx, imp := range module.ImportSection {
		from, ok := s.instances[imp.Module]
		if !ok || from == nil {
			return fmt.Errorf("import[%d] %s.%s: module %q not instantiated", idx, imp.Module, imp.Name, imp.Module)
		}
		exp, err := from.GetExport(imp.Name, imp.Type)
		if err != nil {
			return fmt.Errorf("import[%d]: %w", idx, err)
		}
		switch imp.Type {
		case api.ExternTypeFunc:
			want := module.TypeSection[imp.DescFunc]
			if !want.Equals(exp.Function.Type()) {
				return fmt.Errorf("import[%d] %s.%s: signature mismatch: want %s, have %s",
					idx, imp.Module, imp.Name, want, exp.Function.Type())
			}
			inst.Functions = append(inst.Functions, exp.Function)
		case api.ExternTypeTable:
			if err := checkLimits(imp.DescTable.Limits, exp.Table.Size(), exp.Table.Max()); err != nil {
				return fmt.Errorf("import[%d] %s.%s: %w", idx, imp.Module, imp.Name, err)
			}
			inst.Tables = append(inst.Tables, exp.Table)
		case api.ExternTypeMemory:
			if err := checkLimits(imp.DescMemory.Limits, exp.Memory.SizePages(), memMax(exp.Memory)); err != nil {
				return fmt.Errorf("import[%d] %s.%s: %w", idx, imp.Module, imp.Name, err)
			}
			inst.Memories = append(inst.Memories, exp.Memory)
		case api.ExternTypeGlobal:
			if exp.Global.Mutable() != imp.DescGlobal.Mutable {
				return fmt.Errorf("import[%d] %s.%s: mutability mismatch", idx, imp.Module, imp.Name)
			}
			if exp.Global.Kind() != value.KindFromValueType(imp.DescGlobal.ValType) {
				return fmt.Errorf("import[%d] %s.%s: value type mismatch", idx, imp.Module, imp.Name)
			}
			inst.Globals = append(inst.Globals, exp.Global)
		case api.ExternTypeTag:
			inst.Tags = append(inst.Tags, exp.Tag)
		}
	}
	return nil
}

func memMax(m *memory.Memory) uint32 { return m.MaxBytes() / memory.PageSize }

func checkLimits(want wasm.Limits, actualMin uint32, actualMax uint32) error {
	if want.Min > actualMin {
		return fmt.Errorf("minimum size mismatch: %d > %d", want.Min, actualMin)
	}
	if want.Max != nil {
		if actualMax == 0 {
			return fmt.Errorf("maximum size mismatch: %d, but actual has no max", *want.Max)
		}
		if *want.Max < actualMax {
			return fmt.Errorf("maximum size mismatch: %d < %d", *want.Max, actualMax)
		}
	}
	return nil
}

func (s *Store) allocateTables(module *wasm.Module, inst *instance.Instance) {
	for _, tt := range module.TableSection {
		max := tt.Max
		if max == nil {
			def := ^uint32(0)
			max = &def
		}
		inst.Tables = append(inst.Tables, table.New(tt.ElemKind, tt.Min, *max))
	}
}

// maxAddressablePages is the hard ceiling on linear memory size WebAssembly
// 1.0 imposes (a 32-bit address space, in 64KiB pages): 2^32 / 65536.
const maxAddressablePages = 1 << 16

func (s *Store) allocateMemories(module *wasm.Module, inst *instance.Instance) {
	for _, mt := range module.MemorySection {
		max := mt.Max
		if max == nil {
			def := uint32(maxAddressablePages)
			max = &def
		}
		inst.Memories = append(inst.Memories, memory.New(mt.Min, *max, mt.Shared))
	}
}

func (s *Store) allocateGlobals(module *wasm.Module, inst *instance.Instance) error {
	for i, g := range module.GlobalSection {
		v, err := evalConstExpr(inst, g.Init, value.KindFromValueType(g.Type.ValType))
		if err != nil {
			return fmt.Errorf("global[%d] initializer: %w", i, err)
		}
		inst.Globals = append(inst.Globals, global.New(g.Type.ValType, g.Type.Mutable, v))
	}
	return nil
}

func (s *Store) allocateTags(module *wasm.Module, inst *instance.Instance) {
	for _, tt := range module.TagSection {
		inst.Tags = append(inst.Tags, exception.New(tt.Type))
	}
}

func (s *Store) allocateFunctions(module *wasm.Module, inst *instance.Instance) {
	importedCount := wasm.Index(len(inst.Functions))
	for i, code := range module.CodeSection {
		idx := importedCount + wasm.Index(i)
		ft := module.TypeSection[module.FunctionSection[i]]
		inst.Functions = append(inst.Functions, &instance.DefinedFunction{
			Code:      code,
			FuncType:  ft,
			Inst:      inst,
			Idx:       idx,
			DebugName: fmt.Sprintf("%s.func[%d]", inst.Name, idx),
		})
	}
}

// evalConstExpr evaluates a module-level constant expression (spec.md §4.5:
// i32/i64/f32/f64 const, ref.null, ref.func, or global.get of a
// previously-defined import) against a partially-built Instance. kindHint
// disambiguates ref.null, whose wire encoding names a reftype but whose
// ConstantExpression here carries no separate kind field.
func evalConstExpr(inst *instance.Instance, e *wasm.ConstantExpression, kindHint value.Kind) (value.Value, error) {
	switch e.Opcode {
	case wasm.OpcodeI32Const:
		return value.I32(int32(uint32(e.Literal))), nil
	case wasm.OpcodeI64Const:
		return value.I64(int64(e.Literal)), nil
	case wasm.OpcodeF32Const:
		return value.F32(api.DecodeF32(e.Literal)), nil
	case wasm.OpcodeF64Const:
		return value.F64(api.DecodeF64(e.Literal)), nil
	case wasm.OpcodeRefNull:
		switch kindHint {
		case value.KindExternRef:
			return value.ExternRef(value.NullRef), nil
		default:
			return value.FuncRef(value.NullRef), nil
		}
	case wasm.OpcodeRefFunc:
		return value.FuncRef(inst.FuncRefOf(e.FuncIndex)), nil
	case wasm.OpcodeGlobalGet:
		if int(e.GlobalIndex) >= len(inst.Globals) {
			return value.Value{}, fmt.Errorf("global.get index %d out of range", e.GlobalIndex)
		}
		return inst.Globals[e.GlobalIndex].Get(), nil
	default:
		return value.Value{}, fmt.Errorf("unknown constant expression opcode %d", e.Opcode)
	}
}

// materializeElements evaluates every element segment's Init list into
// resolved value.Ref entries and, for active segments, writes them into
// their declared table immediately — then drops them, since an active
// segment behaves exactly as if elem.drop ran the instant instantiation
// finished (spec.md §4.5's supplemented bulk-memory note).
// A trap raised resolving or writing an active segment propagates as a
// panic, same as any other instantiation-time trap.
func (s *Store) materializeElements(module *wasm.Module, inst *instance.Instance) {
	for i, es := range module.ElementSection {
		refs := make([]value.Ref, len(es.Init))
		for j := range es.Init {
			v, err := evalConstExpr(inst, &es.Init[j], value.KindFromValueType(es.ElemKind))
			if err != nil {
				panic(fmt.Sprintf("element[%d][%d]: %v", i, j, err))
			}
			refs[j] = v.Ref()
		}
		elem := segment.NewElement(refs)
		inst.ElementSegments = append(inst.ElementSegments, elem)

		if es.OffsetExpr == nil {
			continue
		}
		off, err := evalConstExpr(inst, es.OffsetExpr, value.KindI32)
		if err != nil {
			panic(fmt.Sprintf("element[%d] offset: %v", i, err))
		}
		tbl := inst.Tables[*es.TableIndex]
		tbl.Init(elem.Get, uint32(len(refs)), uint32(off.I32()), 0, uint32(len(refs)))
		elem.Drop()
	}
}

// materializeData mirrors materializeElements for the data section: an
// active segment is copied into memory 0 and then dropped immediately,
// matching real bulk-memory semantics rather than leaving it permanently
// readable by data.drop.
func (s *Store) materializeData(module *wasm.Module, inst *instance.Instance) {
	for i, ds := range module.DataSection {
		d := segment.NewData(ds.Bytes)
		inst.DataSegments = append(inst.DataSegments, d)

		if ds.OffsetExpr == nil {
			continue
		}
		off, err := evalConstExpr(inst, ds.OffsetExpr, value.KindI32)
		if err != nil {
			panic(fmt.Sprintf("data[%d] offset: %v", i, err))
		}
		mem := inst.Memories[0]
		mem.Init(d.Bytes(), uint32(off.I32()), 0, uint32(len(ds.Bytes)))
		d.Drop()
	}
}
