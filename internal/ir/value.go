package ir

// ValueKind enumerates the variants a table entry may hold.
type ValueKind uint8

const (
	// ValueInt is an unsigned integer literal.
	ValueInt ValueKind = iota
	// ValueFloat is a single-precision floating point literal.
	ValueFloat
	// ValueDouble is a double-precision floating point literal.
	ValueDouble
	// ValueBool is a boolean literal.
	ValueBool
	// ValueString is a string literal.
	ValueString
	// ValueChar is a character literal.
	ValueChar
	// ValueNamed is a symbol reference with an accessor chain.
	ValueNamed
	// ValueBlock is a reference to a block, used as a branch target.
	ValueBlock
	// ValueInstr is an embedded instruction; instructions stored as
	// values form expression trees rendered inline at their use sites.
	ValueInstr
)

// ValueInfo is one entry in a block's value table. Kind selects which
// payload field is meaningful.
type ValueInfo struct {
	Kind ValueKind

	Int   uint64
	Float float64
	Bool  bool
	Str   string
	Char  rune
	Named Named
	Block BlockID
	Instr Instr
}
