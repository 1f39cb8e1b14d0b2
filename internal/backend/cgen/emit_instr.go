package cgen

import (
	"fmt"
	"strings"

	"quill/internal/ir"
)

// instr renders one instruction as an expression or statement body,
// without a trailing semicolon. Operand handles resolve against the
// block the instruction lives in.
func (fe *funcEmitter) instr(inst *ir.Instr, b *ir.Block) (string, error) {
	switch inst.Opcode {
	case ir.OpAdd:
		return fe.binary(inst, b, " + ")
	case ir.OpSub:
		return fe.binary(inst, b, " - ")
	case ir.OpMul:
		return fe.binary(inst, b, " * ")
	case ir.OpDiv:
		return fe.binary(inst, b, " / ")
	case ir.OpMod:
		return fe.binary(inst, b, " % ")
	case ir.OpBitAnd:
		return fe.binary(inst, b, " & ")
	case ir.OpBitOr:
		return fe.binary(inst, b, " | ")
	case ir.OpBitXor:
		return fe.binary(inst, b, " ^ ")
	case ir.OpBitLeft:
		return fe.binary(inst, b, " << ")
	case ir.OpBitRight:
		return fe.binary(inst, b, " >> ")
	case ir.OpBitNot:
		return fe.unary(inst, b, "~")
	case ir.OpTestEq:
		return fe.binary(inst, b, " == ")
	case ir.OpTestNeq:
		return fe.binary(inst, b, " != ")
	case ir.OpTestGt:
		return fe.binary(inst, b, " > ")
	case ir.OpTestGtEq:
		return fe.binary(inst, b, " >= ")
	case ir.OpTestLt:
		return fe.binary(inst, b, " < ")
	case ir.OpTestLtEq:
		return fe.binary(inst, b, " <= ")
	case ir.OpNot:
		return fe.unary(inst, b, "!")
	case ir.OpOr:
		return fe.binary(inst, b, " || ")
	case ir.OpAnd:
		return fe.binary(inst, b, " && ")
	case ir.OpJmp:
		target, err := fe.operand(inst, 0, b)
		if err != nil {
			return "", err
		}
		return "goto " + target, nil
	case ir.OpSet:
		return fe.binary(inst, b, " = ")
	case ir.OpCall:
		return fe.call(inst, b)
	case ir.OpRet:
		if len(inst.Args) == 0 {
			return "return", nil
		}
		v, err := fe.operand(inst, 0, b)
		if err != nil {
			return "", err
		}
		return "return " + v, nil
	}
	return "", fmt.Errorf("function %s: unknown opcode %d", fe.f.Name, inst.Opcode)
}

func (fe *funcEmitter) binary(inst *ir.Instr, b *ir.Block, op string) (string, error) {
	l, err := fe.operand(inst, 0, b)
	if err != nil {
		return "", err
	}
	r, err := fe.operand(inst, 1, b)
	if err != nil {
		return "", err
	}
	return l + op + r, nil
}

func (fe *funcEmitter) unary(inst *ir.Instr, b *ir.Block, op string) (string, error) {
	v, err := fe.operand(inst, 0, b)
	if err != nil {
		return "", err
	}
	return op + v, nil
}

// call renders `callee(arg1, ..., argk)`; operand 0 is the callee.
func (fe *funcEmitter) call(inst *ir.Instr, b *ir.Block) (string, error) {
	callee, err := fe.operand(inst, 0, b)
	if err != nil {
		return "", err
	}
	args := make([]string, 0, len(inst.Args)-1)
	for i := 1; i < len(inst.Args); i++ {
		arg, err := fe.operand(inst, i, b)
		if err != nil {
			return "", err
		}
		args = append(args, arg)
	}
	return callee + "(" + strings.Join(args, ", ") + ")", nil
}

// operand resolves and renders the i-th operand of an instruction. A
// missing operand is reported as an invalid handle rather than a panic.
func (fe *funcEmitter) operand(inst *ir.Instr, i int, b *ir.Block) (string, error) {
	if i >= len(inst.Args) {
		return "", &InvalidHandleError{
			Handle:    int32(i),
			Table:     "operand",
			Container: fmt.Sprintf("function %s, %s instruction", fe.f.Name, inst.Opcode),
		}
	}
	return fe.value(inst.Args[i], b)
}
