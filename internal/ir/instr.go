package ir

// Opcode identifies which operation an instruction performs. The set is
// closed; the backend dispatches over it exhaustively.
type Opcode uint8

const (
	OpAdd Opcode = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitLeft
	OpBitRight
	OpBitNot
	OpTestEq
	OpTestNeq
	OpTestGt
	OpTestGtEq
	OpTestLt
	OpTestLtEq
	OpNot
	OpOr
	OpAnd
	OpJmp
	OpSet
	OpCall
	OpRet
)

var opcodeNames = [...]string{
	OpAdd:      "add",
	OpSub:      "sub",
	OpMul:      "mul",
	OpDiv:      "div",
	OpMod:      "mod",
	OpBitAnd:   "bit_and",
	OpBitOr:    "bit_or",
	OpBitXor:   "bit_xor",
	OpBitLeft:  "bit_left",
	OpBitRight: "bit_right",
	OpBitNot:   "bit_not",
	OpTestEq:   "test_eq",
	OpTestNeq:  "test_neq",
	OpTestGt:   "test_gt",
	OpTestGtEq: "test_gt_eq",
	OpTestLt:   "test_lt",
	OpTestLtEq: "test_lt_eq",
	OpNot:      "not",
	OpOr:       "or",
	OpAnd:      "and",
	OpJmp:      "jmp",
	OpSet:      "set",
	OpCall:     "call",
	OpRet:      "ret",
}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}
	return "unknown"
}

// Instr is one operation: an opcode plus its ordered operand handles.
// Arity is fixed per opcode, except Call (operand 0 is the callee, the
// rest are arguments) and Ret (zero or one operand).
type Instr struct {
	Opcode Opcode
	Args   []ValueID
}
