// Package bytecode defines the internal, offset-addressed instruction
// encoding the byte-code executor (spec.md C11) dispatches on: the output
// shape produced by the (out of scope) parser/validator's lowering step,
// analogous to the teacher's internal/wazeroir intermediate representation.
//
// Every Instruction carries plain integer operand *offsets* into the
// current frame rather than operating on an implicit value stack, per
// spec.md §4.4: "There is no value stack; the 'stack' is an in-frame
// scratch area whose layout is fully determined at parse time."
package bytecode

// Opcode identifies an instruction's family and exact operation.
type Opcode uint16

const (
	// Const / Move
	OpConstI32 Opcode = iota
	OpConstI64
	OpConstF32
	OpConstF64
	OpConstV128
	OpConstRefNull
	OpMove32
	OpMove64
	OpMove128

	// Binary integer
	OpI32Add
	OpI32Sub
	OpI32Mul
	OpI32DivS
	OpI32DivU
	OpI32RemS
	OpI32RemU
	OpI32And
	OpI32Or
	OpI32Xor
	OpI32Shl
	OpI32ShrS
	OpI32ShrU
	OpI32Rotl
	OpI32Rotr
	OpI64Add
	OpI64Sub
	OpI64Mul
	OpI64DivS
	OpI64DivU
	OpI64RemS
	OpI64RemU
	OpI64And
	OpI64Or
	OpI64Xor
	OpI64Shl
	OpI64ShrS
	OpI64ShrU
	OpI64Rotl
	OpI64Rotr

	// Binary float
	OpF32Add
	OpF32Sub
	OpF32Mul
	OpF32Div
	OpF32Min
	OpF32Max
	OpF32Copysign
	OpF64Add
	OpF64Sub
	OpF64Mul
	OpF64Div
	OpF64Min
	OpF64Max
	OpF64Copysign

	// Compare
	OpI32Eq
	OpI32Ne
	OpI32LtS
	OpI32LtU
	OpI32GtS
	OpI32GtU
	OpI32LeS
	OpI32LeU
	OpI32GeS
	OpI32GeU
	OpI64Eq
	OpI64Ne
	OpI64LtS
	OpI64LtU
	OpI64GtS
	OpI64GtU
	OpI64LeS
	OpI64LeU
	OpI64GeS
	OpI64GeU
	OpF32Eq
	OpF32Ne
	OpF32Lt
	OpF32Gt
	OpF32Le
	OpF32Ge
	OpF64Eq
	OpF64Ne
	OpF64Lt
	OpF64Gt
	OpF64Le
	OpF64Ge

	// Unary
	OpI32Clz
	OpI32Ctz
	OpI32Popcnt
	OpI32Eqz
	OpI64Clz
	OpI64Ctz
	OpI64Popcnt
	OpI64Eqz
	OpF32Neg
	OpF32Abs
	OpF32Sqrt
	OpF32Ceil
	OpF32Floor
	OpF32Trunc
	OpF32Nearest
	OpF64Neg
	OpF64Abs
	OpF64Sqrt
	OpF64Ceil
	OpF64Floor
	OpF64Trunc
	OpF64Nearest

	// Conversions
	OpI32WrapI64
	OpI64ExtendI32S
	OpI64ExtendI32U
	OpI32Extend8S
	OpI32Extend16S
	OpI64Extend8S
	OpI64Extend16S
	OpI64Extend32S
	OpF32DemoteF64
	OpF64PromoteF32
	OpF32ConvertI32S
	OpF32ConvertI32U
	OpF32ConvertI64S
	OpF32ConvertI64U
	OpF64ConvertI32S
	OpF64ConvertI32U
	OpF64ConvertI64S
	OpF64ConvertI64U
	OpI32TruncF32S
	OpI32TruncF32U
	OpI32TruncF64S
	OpI32TruncF64U
	OpI64TruncF32S
	OpI64TruncF32U
	OpI64TruncF64S
	OpI64TruncF64U
	OpI32TruncSatF32S
	OpI32TruncSatF32U
	OpI32TruncSatF64S
	OpI32TruncSatF64U
	OpI64TruncSatF32S
	OpI64TruncSatF32U
	OpI64TruncSatF64S
	OpI64TruncSatF64U
	OpI32ReinterpretF32
	OpI64ReinterpretF64
	OpF32ReinterpretI32
	OpF64ReinterpretI64

	// SIMD (representative subset, see DESIGN.md)
	OpV128Splat32
	OpV128Splat64
	OpV128ExtractLane32
	OpV128ExtractLane64
	OpV128ReplaceLane32
	OpV128ReplaceLane64
	OpI32x4Add
	OpI32x4Sub
	OpF32x4Add
	OpF32x4Min
	OpF32x4Max
	OpV128And
	OpV128Or
	OpV128Xor
	OpV128Not
	OpV128Bitselect
	OpV128AnyTrue

	// Load / Store
	OpI32Load
	OpI32Load8S
	OpI32Load8U
	OpI32Load16S
	OpI32Load16U
	OpI64Load
	OpI64Load8S
	OpI64Load8U
	OpI64Load16S
	OpI64Load16U
	OpI64Load32S
	OpI64Load32U
	OpF32Load
	OpF64Load
	OpV128Load
	OpI32Store
	OpI32Store8
	OpI32Store16
	OpI64Store
	OpI64Store8
	OpI64Store16
	OpI64Store32
	OpF32Store
	OpF64Store
	OpV128Store

	// Control
	OpJump
	OpJumpIfTrue
	OpJumpIfFalse
	OpBrTable
	OpSelect
	OpUnreachable
	OpReturn
	OpEnd

	// Globals
	OpGlobalGet32
	OpGlobalGet64
	OpGlobalGet128
	OpGlobalGetRef
	OpGlobalSet32
	OpGlobalSet64
	OpGlobalSet128
	OpGlobalSetRef

	// Tables
	OpTableGet
	OpTableSet
	OpTableGrow
	OpTableSize
	OpTableCopy
	OpTableFill
	OpTableInit
	OpElemDrop
	OpRefFunc
	OpRefIsNull

	// Memory
	OpMemorySize
	OpMemoryGrow
	OpMemoryInit
	OpMemoryCopy
	OpMemoryFill
	OpDataDrop

	// Calls
	OpCall
	OpCallIndirect

	// Exceptions
	OpThrow
)

// Instruction is one decoded, offset-addressed operation. Not every field
// is meaningful for every Opcode; the executor's dispatch switch reads only
// the fields its family needs.
type Instruction struct {
	Op Opcode

	// Operand byte offsets into the current frame. Most opcodes use a
	// subset of Dst/Src1/Src2.
	Dst, Src1, Src2 int

	// ImmI64 carries a literal (Const*), a lane index (SIMD extract/replace
	// lane), or an absolute jump target, i.e. an index into the instruction
	// slice (Jump family), depending on Op.
	ImmI64 int64

	// ImmV128 carries the literal for OpConstV128.
	ImmV128 [2]uint64

	// Index is a module-indexed operand: global/table/memory/function/tag
	// index, depending on Op (table.copy's destination table, call_indirect's
	// table, the bulk ops' memory or table).
	Index uint32
	// Index2 is a second module-indexed operand: table.copy's source table,
	// call_indirect's type index, memory.init's data segment, or table.init's
	// element segment.
	Index2 uint32

	// MemArg carries the static offset for Load/Store opcodes.
	MemArg uint32

	// Targets carries the jump-table instruction indices for OpBrTable (last entry is
	// the default arm); ParamOffsets/ResultOffsets carry the caller-frame
	// offset table for OpCall/OpCallIndirect (spec.md §4.6).
	Targets       []int
	ParamOffsets  []int
	ResultOffsets []int
}
