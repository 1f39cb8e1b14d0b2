package cgen

import (
	"fmt"

	"quill/internal/ir"
)

// checkCallReuse enforces the single-use-calls policy: within each value
// table, a value whose rendering emits a call may be referenced by at
// most one use site. References come from statement operands,
// embedded-instruction operands, named index accessors and nested-block
// conditions.
func (fe *funcEmitter) checkCallReuse() error {
	for _, b := range fe.f.Blocks {
		if err := fe.checkBlockCallReuse(b); err != nil {
			return err
		}
	}
	return nil
}

func (fe *funcEmitter) checkBlockCallReuse(b *ir.Block) error {
	counts := make([]int, len(b.Values))

	countID := func(id ir.ValueID) {
		if id >= 0 && int(id) < len(counts) {
			counts[id]++
		}
	}
	countInstr := func(inst *ir.Instr) {
		for _, arg := range inst.Args {
			countID(arg)
		}
	}

	for i := range b.Instrs {
		countInstr(&b.Instrs[i])
	}
	for i := range b.Values {
		v := &b.Values[i]
		switch v.Kind {
		case ir.ValueInstr:
			countInstr(&v.Instr)
		case ir.ValueNamed:
			for _, p := range v.Named.Props {
				if p.Kind == ir.NamedPropIndex {
					countID(p.Index)
				}
			}
		}
	}
	countNestedConds(b, countID)

	emitsCall := callReachability(b)
	for i := range b.Values {
		if emitsCall[i] && counts[i] > 1 {
			return &CallReuseError{
				Value:     ir.ValueID(i),
				Container: fmt.Sprintf("function %s", fe.f.Name),
			}
		}
	}

	// Nested blocks own their own tables; check them independently.
	return fe.checkNestedCallReuse(b)
}

// callReachability marks every value whose rendering emits a call: call
// values themselves, embedded instructions with a call anywhere in
// their operand tree, and named references whose index values reach
// one. Sharing any such value duplicates the call's side effect, so
// the check must see through pure wrappers.
func callReachability(b *ir.Block) []bool {
	reaches := make([]bool, len(b.Values))
	state := make([]uint8, len(b.Values)) // 0 unvisited, 1 in progress, 2 done

	var visit func(id ir.ValueID) bool
	visit = func(id ir.ValueID) bool {
		if id < 0 || int(id) >= len(b.Values) {
			return false
		}
		switch state[id] {
		case 2:
			return reaches[id]
		case 1:
			// Cycle guard; malformed tables fail at emission instead.
			return false
		}
		state[id] = 1

		v := &b.Values[id]
		r := false
		switch v.Kind {
		case ir.ValueInstr:
			r = v.Instr.Opcode == ir.OpCall
			for _, arg := range v.Instr.Args {
				if visit(arg) {
					r = true
				}
			}
		case ir.ValueNamed:
			for _, p := range v.Named.Props {
				if p.Kind == ir.NamedPropIndex && visit(p.Index) {
					r = true
				}
			}
		}

		state[id] = 2
		reaches[id] = r
		return r
	}

	for i := range b.Values {
		visit(ir.ValueID(i))
	}
	return reaches
}

// countNestedConds counts condition references made by a block's direct
// nested structure, which resolve in this block's table.
func countNestedConds(b *ir.Block, countID func(ir.ValueID)) {
	for _, nb := range b.Blocks {
		if nb.Kind == ir.BlockIf {
			countID(nb.Cond)
		}
		for _, arm := range nb.Elses {
			if arm.Kind == ir.BlockIf {
				countID(arm.Cond)
			}
		}
	}
}

func (fe *funcEmitter) checkNestedCallReuse(b *ir.Block) error {
	for _, nb := range b.Blocks {
		if err := fe.checkBlockCallReuse(nb); err != nil {
			return err
		}
		for _, arm := range nb.Elses {
			if err := fe.checkBlockCallReuse(arm); err != nil {
				return err
			}
		}
		if nb.Else != nil {
			if err := fe.checkBlockCallReuse(nb.Else); err != nil {
				return err
			}
		}
	}
	return nil
}
