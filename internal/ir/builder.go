package ir

// Builder is the capability surface for populating one block. Every
// operation appends exactly one entry to the value table and/or the
// instruction list and returns a handle valid in that same block.
// Handles issued earlier are never invalidated. No cross-operand type
// checking happens here; operand mismatches surface at emission.
type Builder interface {
	CreateValue(v ValueInfo) ValueID
	CreateInst(inst Instr)
	CreateBlock() BlockID
	CreateIf(cond ValueID) BlockID
	Nested(id BlockID) (*Block, error)
	RequireImport(name string)

	ConstInt(v uint64) ValueID
	ConstFloat(v float64) ValueID
	ConstDouble(v float64) ValueID
	ConstBool(v bool) ValueID
	ConstString(v string) ValueID
	ConstChar(v rune) ValueID
	NamedRef(name string) ValueID
	NamedRefProps(name string, props []NamedProp) ValueID
	UseNamed(n Named) ValueID

	CTypeBool() AbiType
	CTypeChar() AbiType
	CTypeUint8() AbiType
	CTypeUint16() AbiType
	CTypeUint32() AbiType
	CTypeUint64() AbiType
	CTypeUintptr() AbiType
	CTypeInt8() AbiType
	CTypeInt16() AbiType
	CTypeInt32() AbiType
	CTypeInt64() AbiType
	CTypeIntptr() AbiType

	Add(l, r ValueID) ValueID
	Sub(l, r ValueID) ValueID
	Mul(l, r ValueID) ValueID
	Div(l, r ValueID) ValueID
	Mod(l, r ValueID) ValueID
	BitAnd(l, r ValueID) ValueID
	BitOr(l, r ValueID) ValueID
	BitXor(l, r ValueID) ValueID
	BitNot(v ValueID) ValueID
	BitLeft(l, r ValueID) ValueID
	BitRight(l, r ValueID) ValueID
	TestEq(l, r ValueID) ValueID
	TestNeq(l, r ValueID) ValueID
	TestGt(l, r ValueID) ValueID
	TestGtEq(l, r ValueID) ValueID
	TestLt(l, r ValueID) ValueID
	TestLtEq(l, r ValueID) ValueID
	Not(v ValueID) ValueID
	Or(l, r ValueID) ValueID
	And(l, r ValueID) ValueID

	Jmp(target BlockID)
	Set(dst, src ValueID)
	Call(callee ValueID, args ...ValueID)
	CallValue(callee ValueID, args ...ValueID) ValueID
	Return(v ValueID)
	ReturnVoid()
}

var _ Builder = (*Block)(nil)

// BasicProp returns a plain field accessor.
func BasicProp(name string) NamedProp {
	return NamedProp{Kind: NamedPropBasic, Name: name}
}

// StaticProp returns a static-scope accessor. Not every backend can
// render one; the C backend rejects it at emission.
func StaticProp(name string) NamedProp {
	return NamedProp{Kind: NamedPropStatic, Name: name}
}

// PointerProp returns a through-pointer field accessor.
func PointerProp(name string) NamedProp {
	return NamedProp{Kind: NamedPropPointer, Name: name}
}

// IndexProp returns a subscript accessor; the index is a value in the
// owning block's table.
func IndexProp(index ValueID) NamedProp {
	return NamedProp{Kind: NamedPropIndex, Index: index}
}

// ConstInt appends an unsigned integer literal.
func (b *Block) ConstInt(v uint64) ValueID {
	return b.CreateValue(ValueInfo{Kind: ValueInt, Int: v})
}

// ConstFloat appends a single-precision float literal.
func (b *Block) ConstFloat(v float64) ValueID {
	return b.CreateValue(ValueInfo{Kind: ValueFloat, Float: v})
}

// ConstDouble appends a double-precision float literal.
func (b *Block) ConstDouble(v float64) ValueID {
	return b.CreateValue(ValueInfo{Kind: ValueDouble, Float: v})
}

// ConstBool appends a boolean literal.
func (b *Block) ConstBool(v bool) ValueID {
	return b.CreateValue(ValueInfo{Kind: ValueBool, Bool: v})
}

// ConstString appends a string literal.
func (b *Block) ConstString(v string) ValueID {
	return b.CreateValue(ValueInfo{Kind: ValueString, Str: v})
}

// ConstChar appends a character literal.
func (b *Block) ConstChar(v rune) ValueID {
	return b.CreateValue(ValueInfo{Kind: ValueChar, Char: v})
}

// NamedRef appends a property-less symbol reference.
func (b *Block) NamedRef(name string) ValueID {
	return b.CreateValue(ValueInfo{Kind: ValueNamed, Named: NewNamed(name)})
}

// NamedRefProps appends a symbol reference with an accessor chain.
func (b *Block) NamedRefProps(name string, props []NamedProp) ValueID {
	return b.CreateValue(ValueInfo{Kind: ValueNamed, Named: NewNamedProps(name, props)})
}

// UseNamed appends an existing Named reference as a value.
func (b *Block) UseNamed(n Named) ValueID {
	return b.CreateValue(ValueInfo{Kind: ValueNamed, Named: n})
}

// CTypeBool returns the C bool type. The target needs stdbool.h.
func (b *Block) CTypeBool() AbiType {
	b.RequireImport("stdbool.h")
	return PlainType("bool")
}

// CTypeChar returns the C char type.
func (b *Block) CTypeChar() AbiType {
	return PlainType("char")
}

func (b *Block) fixedWidth(name string) AbiType {
	b.RequireImport("stdint.h")
	return PlainType(name)
}

// CTypeUint8 returns the C uint8_t type. The target needs stdint.h.
func (b *Block) CTypeUint8() AbiType { return b.fixedWidth("uint8_t") }

// CTypeUint16 returns the C uint16_t type. The target needs stdint.h.
func (b *Block) CTypeUint16() AbiType { return b.fixedWidth("uint16_t") }

// CTypeUint32 returns the C uint32_t type. The target needs stdint.h.
func (b *Block) CTypeUint32() AbiType { return b.fixedWidth("uint32_t") }

// CTypeUint64 returns the C uint64_t type. The target needs stdint.h.
func (b *Block) CTypeUint64() AbiType { return b.fixedWidth("uint64_t") }

// CTypeUintptr returns the unsigned pointer-sized integer type.
func (b *Block) CTypeUintptr() AbiType { return b.fixedWidth("uintptr_t") }

// CTypeInt8 returns the C int8_t type. The target needs stdint.h.
func (b *Block) CTypeInt8() AbiType { return b.fixedWidth("int8_t") }

// CTypeInt16 returns the C int16_t type. The target needs stdint.h.
func (b *Block) CTypeInt16() AbiType { return b.fixedWidth("int16_t") }

// CTypeInt32 returns the C int32_t type. The target needs stdint.h.
func (b *Block) CTypeInt32() AbiType { return b.fixedWidth("int32_t") }

// CTypeInt64 returns the C int64_t type. The target needs stdint.h.
func (b *Block) CTypeInt64() AbiType { return b.fixedWidth("int64_t") }

// CTypeIntptr returns the signed pointer-sized integer type.
func (b *Block) CTypeIntptr() AbiType { return b.fixedWidth("intptr_t") }

func (b *Block) exprValue(op Opcode, args ...ValueID) ValueID {
	return b.CreateValue(ValueInfo{Kind: ValueInstr, Instr: Instr{Opcode: op, Args: args}})
}

// Add appends l + r as an expression value.
func (b *Block) Add(l, r ValueID) ValueID { return b.exprValue(OpAdd, l, r) }

// Sub appends l - r as an expression value.
func (b *Block) Sub(l, r ValueID) ValueID { return b.exprValue(OpSub, l, r) }

// Mul appends l * r as an expression value.
func (b *Block) Mul(l, r ValueID) ValueID { return b.exprValue(OpMul, l, r) }

// Div appends l / r as an expression value.
func (b *Block) Div(l, r ValueID) ValueID { return b.exprValue(OpDiv, l, r) }

// Mod appends the remainder of l / r as an expression value.
func (b *Block) Mod(l, r ValueID) ValueID { return b.exprValue(OpMod, l, r) }

// BitAnd appends the bitwise AND of l and r.
func (b *Block) BitAnd(l, r ValueID) ValueID { return b.exprValue(OpBitAnd, l, r) }

// BitOr appends the bitwise OR of l and r.
func (b *Block) BitOr(l, r ValueID) ValueID { return b.exprValue(OpBitOr, l, r) }

// BitXor appends the bitwise XOR of l and r.
func (b *Block) BitXor(l, r ValueID) ValueID { return b.exprValue(OpBitXor, l, r) }

// BitNot appends the bitwise complement of v.
func (b *Block) BitNot(v ValueID) ValueID { return b.exprValue(OpBitNot, v) }

// BitLeft appends l shifted left by r.
func (b *Block) BitLeft(l, r ValueID) ValueID { return b.exprValue(OpBitLeft, l, r) }

// BitRight appends l shifted right by r.
func (b *Block) BitRight(l, r ValueID) ValueID { return b.exprValue(OpBitRight, l, r) }

// TestEq appends the equality test of l and r.
func (b *Block) TestEq(l, r ValueID) ValueID { return b.exprValue(OpTestEq, l, r) }

// TestNeq appends the inequality test of l and r.
func (b *Block) TestNeq(l, r ValueID) ValueID { return b.exprValue(OpTestNeq, l, r) }

// TestGt appends the greater-than test of l and r.
func (b *Block) TestGt(l, r ValueID) ValueID { return b.exprValue(OpTestGt, l, r) }

// TestGtEq appends the greater-or-equal test of l and r.
func (b *Block) TestGtEq(l, r ValueID) ValueID { return b.exprValue(OpTestGtEq, l, r) }

// TestLt appends the less-than test of l and r.
func (b *Block) TestLt(l, r ValueID) ValueID { return b.exprValue(OpTestLt, l, r) }

// TestLtEq appends the less-or-equal test of l and r.
func (b *Block) TestLtEq(l, r ValueID) ValueID { return b.exprValue(OpTestLtEq, l, r) }

// Not appends the boolean negation of v.
func (b *Block) Not(v ValueID) ValueID { return b.exprValue(OpNot, v) }

// Or appends the boolean OR of l and r.
func (b *Block) Or(l, r ValueID) ValueID { return b.exprValue(OpOr, l, r) }

// And appends the boolean AND of l and r.
func (b *Block) And(l, r ValueID) ValueID { return b.exprValue(OpAnd, l, r) }

// Jmp appends an unconditional jump to a function-level block. The
// target is first materialized as a block-valued table entry.
func (b *Block) Jmp(target BlockID) {
	v := b.CreateValue(ValueInfo{Kind: ValueBlock, Block: target})
	b.CreateInst(Instr{Opcode: OpJmp, Args: []ValueID{v}})
}

// Set appends an assignment statement, dst = src.
func (b *Block) Set(dst, src ValueID) {
	b.CreateInst(Instr{Opcode: OpSet, Args: []ValueID{dst, src}})
}

func callArgs(callee ValueID, args []ValueID) []ValueID {
	out := make([]ValueID, 0, len(args)+1)
	out = append(out, callee)
	return append(out, args...)
}

// Call appends a call statement whose result is discarded.
func (b *Block) Call(callee ValueID, args ...ValueID) {
	b.CreateInst(Instr{Opcode: OpCall, Args: callArgs(callee, args)})
}

// CallValue appends a call as an expression value, so the result can be
// used as an operand elsewhere.
func (b *Block) CallValue(callee ValueID, args ...ValueID) ValueID {
	return b.CreateValue(ValueInfo{
		Kind:  ValueInstr,
		Instr: Instr{Opcode: OpCall, Args: callArgs(callee, args)},
	})
}

// Return appends a return statement carrying v.
func (b *Block) Return(v ValueID) {
	b.CreateInst(Instr{Opcode: OpRet, Args: []ValueID{v}})
}

// ReturnVoid appends a bare return statement.
func (b *Block) ReturnVoid() {
	b.CreateInst(Instr{Opcode: OpRet})
}
