package cgen

import (
	"fmt"
	"strconv"

	"quill/internal/ir"
)

// value renders one value-table entry. Embedded instructions recurse,
// so an expression tree renders in a single pass.
func (fe *funcEmitter) value(id ir.ValueID, b *ir.Block) (string, error) {
	if id < 0 || int(id) >= len(b.Values) {
		return "", &InvalidHandleError{
			Handle:    int32(id),
			Table:     "value",
			Container: fmt.Sprintf("function %s (table size %d)", fe.f.Name, len(b.Values)),
		}
	}
	v := &b.Values[id]

	switch v.Kind {
	case ir.ValueInt:
		return strconv.FormatUint(v.Int, 10), nil
	case ir.ValueFloat:
		// Single precision: shortest text that round-trips as float32.
		return strconv.FormatFloat(v.Float, 'g', -1, 32), nil
	case ir.ValueDouble:
		return strconv.FormatFloat(v.Float, 'g', -1, 64), nil
	case ir.ValueBool:
		return strconv.FormatBool(v.Bool), nil
	case ir.ValueString:
		return `"` + v.Str + `"`, nil
	case ir.ValueChar:
		return "'" + string(v.Char) + "'", nil
	case ir.ValueBlock:
		return fmt.Sprintf("block%d", v.Block), nil
	case ir.ValueNamed:
		return fe.named(&v.Named, b)
	case ir.ValueInstr:
		return fe.instr(&v.Instr, b)
	}
	return "", fmt.Errorf("function %s: unknown value kind %d", fe.f.Name, v.Kind)
}

// named renders a symbol reference and its accessor chain left to
// right. Index accessors resolve their value in the owning block's
// table; static-scope accessors have no C form and abort emission.
func (fe *funcEmitter) named(n *ir.Named, b *ir.Block) (string, error) {
	out := n.Name
	for i := range n.Props {
		p := &n.Props[i]
		switch p.Kind {
		case ir.NamedPropBasic:
			out += "." + p.Name
		case ir.NamedPropPointer:
			out += "->" + p.Name
		case ir.NamedPropIndex:
			idx, err := fe.value(p.Index, b)
			if err != nil {
				return "", err
			}
			out += "[" + idx + "]"
		case ir.NamedPropStatic:
			return "", &UnsupportedConstructError{
				Construct: "static-scope accessor",
				Name:      n.Name,
			}
		}
	}
	return out, nil
}

// abiType renders a type descriptor at a declaration site. Type names
// carry no value table, so index accessors cannot appear here.
func (fe *funcEmitter) abiType(t ir.AbiType) (string, error) {
	name := t.Name.Name
	for i := range t.Name.Props {
		p := &t.Name.Props[i]
		switch p.Kind {
		case ir.NamedPropBasic:
			name += "." + p.Name
		case ir.NamedPropPointer:
			name += "->" + p.Name
		case ir.NamedPropIndex:
			return "", &InvalidHandleError{
				Handle:    int32(p.Index),
				Table:     "value",
				Container: fmt.Sprintf("function %s, type name %s", fe.f.Name, t.Name.Name),
			}
		case ir.NamedPropStatic:
			return "", &UnsupportedConstructError{
				Construct: "static-scope accessor",
				Name:      t.Name.Name,
			}
		}
	}

	switch t.Shape {
	case ir.ShapePointer:
		return name + "*", nil
	case ir.ShapeArray:
		if t.ArraySize >= 0 {
			return fmt.Sprintf("%s[%d]", name, t.ArraySize), nil
		}
		return name + "[]", nil
	default:
		return name, nil
	}
}
