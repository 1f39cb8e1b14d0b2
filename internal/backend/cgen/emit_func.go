package cgen

import (
	"fmt"
	"strings"

	"quill/internal/ir"
)

type funcEmitter struct {
	emitter *Emitter
	f       *ir.Function
	imports []string
}

// CompileFunction renders one function to C and reports the imports its
// blocks require, deduplicated in first-seen order. A function with no
// blocks renders as a bare prototype.
func (e *Emitter) CompileFunction(f *ir.Function) (string, []string, error) {
	fe := &funcEmitter{emitter: e, f: f}

	header, err := fe.signature()
	if err != nil {
		return "", nil, err
	}
	if len(f.Blocks) == 0 {
		return header, nil, nil
	}

	if e.opts.Policy == ExprSingleUseCalls {
		if err := fe.checkCallReuse(); err != nil {
			return "", nil, err
		}
	}

	var buf strings.Builder
	buf.WriteString(header)
	buf.WriteString(" {\n")

	for _, name := range f.VarOrder {
		decl, err := fe.abiType(f.VarTypes[name])
		if err != nil {
			return "", nil, err
		}
		buf.WriteString(decl)
		buf.WriteString(" ")
		buf.WriteString(name)
		buf.WriteString(";\n")
	}

	labeled := make([]string, 0, len(f.Blocks))
	for i, b := range f.Blocks {
		fe.collectImports(b)
		body, err := fe.blockBody(b)
		if err != nil {
			return "", nil, err
		}
		labeled = append(labeled, fmt.Sprintf("block%d: {\n%s}\n", i, body))
	}
	buf.WriteString(strings.Join(labeled, "\n"))
	buf.WriteString("}")

	return buf.String(), fe.imports, nil
}

func (fe *funcEmitter) signature() (string, error) {
	ret, err := fe.abiType(fe.f.Signature.Returns)
	if err != nil {
		return "", err
	}
	params := make([]string, 0, len(fe.f.Signature.Params))
	for _, p := range fe.f.Signature.Params {
		t, err := fe.abiType(p.Type)
		if err != nil {
			return "", err
		}
		params = append(params, t+" "+p.Name)
	}
	return fmt.Sprintf("%s %s(%s)", ret, fe.f.Name, strings.Join(params, ", ")), nil
}

// blockBody renders a block's statements followed by its nested blocks.
// Statements end with `;`; nested conditionals lower to if/else chains.
func (fe *funcEmitter) blockBody(b *ir.Block) (string, error) {
	var buf strings.Builder

	stmts := make([]string, 0, len(b.Instrs))
	for i := range b.Instrs {
		text, err := fe.instr(&b.Instrs[i], b)
		if err != nil {
			return "", err
		}
		stmts = append(stmts, text)
	}
	if len(stmts) > 0 {
		buf.WriteString(strings.Join(stmts, ";\n"))
		buf.WriteString(";\n")
	}

	for _, nb := range b.Blocks {
		text, err := fe.nestedBlock(nb, b)
		if err != nil {
			return "", err
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

// nestedBlock lowers one nested block. Conditional blocks render as an
// if/else-if/else chain; their conditions resolve in the parent block's
// value table, their bodies in their own.
func (fe *funcEmitter) nestedBlock(b, parent *ir.Block) (string, error) {
	body, err := fe.blockBody(b)
	if err != nil {
		return "", err
	}

	if b.Kind != ir.BlockIf {
		return "{\n" + body + "}\n", nil
	}

	cond, err := fe.value(b.Cond, parent)
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	fmt.Fprintf(&buf, "if (%s) {\n%s}", cond, body)

	for _, arm := range b.Elses {
		armCond, err := fe.value(arm.Cond, parent)
		if err != nil {
			return "", err
		}
		armBody, err := fe.blockBody(arm)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&buf, " else if (%s) {\n%s}", armCond, armBody)
	}
	if b.Else != nil {
		elseBody, err := fe.blockBody(b.Else)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&buf, " else {\n%s}", elseBody)
	}
	buf.WriteString("\n")
	return buf.String(), nil
}

// collectImports folds a block's imports, then its nested structure's,
// into the function list in first-seen order.
func (fe *funcEmitter) collectImports(b *ir.Block) {
	fe.imports = MergeImports(fe.imports, b.Imports)
	for _, nb := range b.Blocks {
		fe.collectImports(nb)
	}
	for _, arm := range b.Elses {
		fe.collectImports(arm)
	}
	if b.Else != nil {
		fe.collectImports(b.Else)
	}
}
