package cgen

import (
	"strings"

	"quill/internal/ir"
)

// ExprPolicy decides what happens when an embedded instruction value is
// referenced from more than one use site. Each use re-renders the whole
// sub-expression, which is harmless for pure arithmetic but duplicates
// the side effect of a call.
type ExprPolicy uint8

const (
	// ExprRecompute re-renders shared sub-expressions at every use site.
	ExprRecompute ExprPolicy = iota
	// ExprSingleUseCalls rejects emission when a call-valued expression
	// is referenced more than once.
	ExprSingleUseCalls
)

// Options configures the backend.
type Options struct {
	Policy ExprPolicy
}

// Result is a fully rendered module: the output source and the imports
// it needs, in first-seen order.
type Result struct {
	Source  string
	Imports []string
}

// Emitter lowers a completed ir.Module to C source text. Emission is a
// pure read-only traversal: the module is never mutated, and rendering
// the same module twice yields byte-identical output.
type Emitter struct {
	mod  *ir.Module
	opts Options
}

// New returns an emitter over the given module.
func New(mod *ir.Module, opts Options) *Emitter {
	return &Emitter{mod: mod, opts: opts}
}

// EmitModule renders every function in declaration order and prefixes
// the deduplicated include list.
func EmitModule(mod *ir.Module, opts Options) (Result, error) {
	return New(mod, opts).Emit()
}

// Emit renders the emitter's module.
func (e *Emitter) Emit() (Result, error) {
	texts := make([]string, 0, len(e.mod.Funcs))
	var imports []string
	for _, f := range e.mod.Funcs {
		text, fnImports, err := e.CompileFunction(f)
		if err != nil {
			return Result{}, err
		}
		texts = append(texts, text)
		imports = MergeImports(imports, fnImports)
	}
	return Result{
		Source:  Assemble(texts, imports),
		Imports: imports,
	}, nil
}

// Assemble joins rendered function texts under an include header. Each
// import becomes one `#include <name>` line; the header is separated
// from the bodies by a blank line and omitted entirely when no imports
// are required.
func Assemble(funcTexts, imports []string) string {
	var buf strings.Builder
	for _, name := range imports {
		buf.WriteString("#include <")
		buf.WriteString(name)
		buf.WriteString(">\n")
	}
	if len(imports) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString(strings.Join(funcTexts, "\n"))
	return buf.String()
}

// MergeImports appends names from next not already present, preserving
// first-seen order.
func MergeImports(have, next []string) []string {
	for _, name := range next {
		seen := false
		for _, h := range have {
			if h == name {
				seen = true
				break
			}
		}
		if !seen {
			have = append(have, name)
		}
	}
	return have
}
