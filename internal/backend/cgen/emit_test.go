package cgen_test

import (
	"errors"
	"strings"
	"testing"

	"quill/internal/backend/cgen"
	"quill/internal/ir"
)

func emit(t *testing.T, mod *ir.Module) cgen.Result {
	t.Helper()
	res, err := cgen.EmitModule(mod, cgen.Options{})
	if err != nil {
		t.Fatalf("EmitModule: %v", err)
	}
	return res
}

func singleBlockFunc(t *testing.T, name string) (*ir.Module, *ir.Function, *ir.Block) {
	t.Helper()
	mod := ir.NewModule()
	fn := ir.NewFunction(name, ir.NewSignature())
	b, err := fn.UseBlock(fn.CreateBlock())
	if err != nil {
		t.Fatal(err)
	}
	mod.DefineFunction(fn)
	return mod, fn, b
}

// TestEmitAssignment covers the canonical demo shape: an int variable
// assigned the sum of two constants, printed via printf.
func TestEmitAssignment(t *testing.T) {
	mod, fn, b := singleBlockFunc(t, "main")
	fn.Signature.Returns = ir.PlainType("int")
	v := fn.DeclareVar("v", ir.PlainType("int"))

	b.RequireImport("stdio.h")
	sum := b.Add(b.ConstInt(21), b.ConstInt(21))
	b.Set(b.UseNamed(v.Named()), sum)
	b.Call(b.NamedRef("printf"), b.ConstString("%d"), b.UseNamed(v.Named()))

	res := emit(t, mod)

	if !strings.HasPrefix(res.Source, "#include <stdio.h>\n\n") {
		t.Errorf("missing include header:\n%s", res.Source)
	}
	for _, want := range []string{
		"int main() {",
		"int v;",
		"block0: {",
		"v = 21 + 21;",
		`printf("%d", v);`,
	} {
		if !strings.Contains(res.Source, want) {
			t.Errorf("output missing %q:\n%s", want, res.Source)
		}
	}
	if len(res.Imports) != 1 || res.Imports[0] != "stdio.h" {
		t.Errorf("imports = %v, want [stdio.h]", res.Imports)
	}
}

// TestOpcodeRenderings locks the opcode-to-syntax table.
func TestOpcodeRenderings(t *testing.T) {
	binary := []struct {
		name string
		op   func(b *ir.Block, l, r ir.ValueID) ir.ValueID
		want string
	}{
		{"add", (*ir.Block).Add, "a + b"},
		{"sub", (*ir.Block).Sub, "a - b"},
		{"mul", (*ir.Block).Mul, "a * b"},
		{"div", (*ir.Block).Div, "a / b"},
		{"mod", (*ir.Block).Mod, "a % b"},
		{"bit_and", (*ir.Block).BitAnd, "a & b"},
		{"bit_or", (*ir.Block).BitOr, "a | b"},
		{"bit_xor", (*ir.Block).BitXor, "a ^ b"},
		{"bit_left", (*ir.Block).BitLeft, "a << b"},
		{"bit_right", (*ir.Block).BitRight, "a >> b"},
		{"test_eq", (*ir.Block).TestEq, "a == b"},
		{"test_neq", (*ir.Block).TestNeq, "a != b"},
		{"test_gt", (*ir.Block).TestGt, "a > b"},
		{"test_gt_eq", (*ir.Block).TestGtEq, "a >= b"},
		{"test_lt", (*ir.Block).TestLt, "a < b"},
		{"test_lt_eq", (*ir.Block).TestLtEq, "a <= b"},
		{"or", (*ir.Block).Or, "a || b"},
		{"and", (*ir.Block).And, "a && b"},
	}
	for _, tc := range binary {
		t.Run(tc.name, func(t *testing.T) {
			mod, fn, b := singleBlockFunc(t, "f")
			dst := fn.DeclareVar("x", ir.PlainType("int"))
			l := b.NamedRef("a")
			r := b.NamedRef("b")
			b.Set(b.UseNamed(dst.Named()), tc.op(b, l, r))

			res := emit(t, mod)
			if !strings.Contains(res.Source, "x = "+tc.want+";") {
				t.Errorf("output missing %q:\n%s", tc.want, res.Source)
			}
		})
	}

	unary := []struct {
		name string
		op   func(b *ir.Block, v ir.ValueID) ir.ValueID
		want string
	}{
		{"bit_not", (*ir.Block).BitNot, "x = ~a;"},
		{"not", (*ir.Block).Not, "x = !a;"},
	}
	for _, tc := range unary {
		t.Run(tc.name, func(t *testing.T) {
			mod, fn, b := singleBlockFunc(t, "f")
			dst := fn.DeclareVar("x", ir.PlainType("int"))
			b.Set(b.UseNamed(dst.Named()), tc.op(b, b.NamedRef("a")))

			res := emit(t, mod)
			if !strings.Contains(res.Source, tc.want) {
				t.Errorf("output missing %q:\n%s", tc.want, res.Source)
			}
		})
	}
}

func TestCallRendering(t *testing.T) {
	mod, _, b := singleBlockFunc(t, "g")
	callee := b.NamedRef("f")
	b.Call(callee, b.NamedRef("a"), b.NamedRef("b"), b.NamedRef("c"))

	res := emit(t, mod)
	if !strings.Contains(res.Source, "f(a, b, c);") {
		t.Errorf("call missing:\n%s", res.Source)
	}
}

// TestCallValueAsOperand checks icall semantics: the call renders
// identically but is usable as an operand elsewhere.
func TestCallValueAsOperand(t *testing.T) {
	mod, fn, b := singleBlockFunc(t, "g")
	dst := fn.DeclareVar("x", ir.PlainType("int"))
	result := b.CallValue(b.NamedRef("f"), b.NamedRef("a"))
	b.Set(b.UseNamed(dst.Named()), b.Add(result, b.ConstInt(1)))

	res := emit(t, mod)
	if !strings.Contains(res.Source, "x = f(a) + 1;") {
		t.Errorf("embedded call missing:\n%s", res.Source)
	}
}

func TestJmpAndReturnRendering(t *testing.T) {
	mod := ir.NewModule()
	fn := ir.NewFunction("f", ir.NewSignature())
	b0 := fn.CreateBlock()
	b1 := fn.CreateBlock()

	first, _ := fn.UseBlock(b0)
	first.Jmp(b1)
	second, _ := fn.UseBlock(b1)
	second.ReturnVoid()
	mod.DefineFunction(fn)

	res := emit(t, mod)
	for _, want := range []string{"goto block1;", "block1: {", "return;"} {
		if !strings.Contains(res.Source, want) {
			t.Errorf("output missing %q:\n%s", want, res.Source)
		}
	}
}

func TestReturnValueRendering(t *testing.T) {
	mod, fn, b := singleBlockFunc(t, "f")
	fn.Signature.Returns = ir.PlainType("int")
	b.Return(b.ConstInt(42))

	res := emit(t, mod)
	if !strings.Contains(res.Source, "return 42;") {
		t.Errorf("output missing return:\n%s", res.Source)
	}
}

// TestPrototype checks that a zero-block function renders as its bare
// signature, with no body.
func TestPrototype(t *testing.T) {
	mod := ir.NewModule()
	sig := ir.NewSignature()
	sig.AddParam("a", ir.PlainType("int"))
	sig.AddParam("s", ir.PointerType("char"))
	mod.DefineFunction(ir.NewFunction("ext", sig))

	res := emit(t, mod)
	if res.Source != "void ext(int a, char* s)" {
		t.Errorf("prototype = %q", res.Source)
	}
	if len(res.Imports) != 0 {
		t.Errorf("prototype produced imports: %v", res.Imports)
	}
}

func TestAbiTypeRendering(t *testing.T) {
	tests := []struct {
		name string
		t    ir.AbiType
		want string
	}{
		{"plain", ir.PlainType("int"), "int x;"},
		{"pointer", ir.PointerType("char"), "char* x;"},
		{"sized_array", ir.ArrayType("int", 4), "int[4] x;"},
		{"implicit_array", ir.ArrayType("int", ir.ArrayImplicitSize), "int[] x;"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mod, fn, b := singleBlockFunc(t, "f")
			fn.DeclareVar("x", tc.t)
			b.ReturnVoid()

			res := emit(t, mod)
			if !strings.Contains(res.Source, tc.want) {
				t.Errorf("output missing %q:\n%s", tc.want, res.Source)
			}
		})
	}
}

func TestNamedAccessorChain(t *testing.T) {
	mod, _, b := singleBlockFunc(t, "f")
	idx := b.ConstInt(3)
	target := b.NamedRefProps("obj", []ir.NamedProp{
		ir.BasicProp("field"),
		ir.PointerProp("next"),
		ir.IndexProp(idx),
	})
	b.Set(target, b.ConstInt(1))

	res := emit(t, mod)
	if !strings.Contains(res.Source, "obj.field->next[3] = 1;") {
		t.Errorf("accessor chain missing:\n%s", res.Source)
	}
}

// TestStaticAccessorFails checks the capability gap: a static-scope
// accessor aborts emission with a typed error and no partial output.
func TestStaticAccessorFails(t *testing.T) {
	mod, _, b := singleBlockFunc(t, "f")
	v := b.NamedRefProps("Sym", []ir.NamedProp{ir.StaticProp("member")})
	b.Return(v)

	_, err := cgen.EmitModule(mod, cgen.Options{})
	var unsupported *cgen.UnsupportedConstructError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want UnsupportedConstructError", err)
	}
	if unsupported.Name != "Sym" {
		t.Errorf("error names %q, want Sym", unsupported.Name)
	}
}

// TestInvalidHandle checks that an out-of-range operand reports a typed
// error instead of panicking.
func TestInvalidHandle(t *testing.T) {
	mod, _, b := singleBlockFunc(t, "f")
	b.CreateInst(ir.Instr{Opcode: ir.OpRet, Args: []ir.ValueID{99}})

	_, err := cgen.EmitModule(mod, cgen.Options{})
	var invalid *cgen.InvalidHandleError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want InvalidHandleError", err)
	}
	if invalid.Handle != 99 {
		t.Errorf("error handle = %d, want 99", invalid.Handle)
	}
}

func TestMissingOperandIsInvalidHandle(t *testing.T) {
	mod, _, b := singleBlockFunc(t, "f")
	b.CreateInst(ir.Instr{Opcode: ir.OpSet, Args: []ir.ValueID{b.ConstInt(1)}})

	_, err := cgen.EmitModule(mod, cgen.Options{})
	var invalid *cgen.InvalidHandleError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want InvalidHandleError", err)
	}
}

// TestImportDedupAcrossFunctions checks that the module-level include
// list is deduplicated in first-seen order across functions.
func TestImportDedupAcrossFunctions(t *testing.T) {
	mod := ir.NewModule()

	first := ir.NewFunction("a", ir.NewSignature())
	b, _ := first.UseBlock(first.CreateBlock())
	b.RequireImport("stdio.h")
	b.RequireImport("stdint.h")
	b.ReturnVoid()
	mod.DefineFunction(first)

	second := ir.NewFunction("b", ir.NewSignature())
	b2, _ := second.UseBlock(second.CreateBlock())
	b2.RequireImport("stdlib.h")
	b2.RequireImport("stdio.h")
	b2.ReturnVoid()
	mod.DefineFunction(second)

	res := emit(t, mod)
	want := []string{"stdio.h", "stdint.h", "stdlib.h"}
	if len(res.Imports) != len(want) {
		t.Fatalf("imports = %v, want %v", res.Imports, want)
	}
	for i := range want {
		if res.Imports[i] != want[i] {
			t.Errorf("imports[%d] = %q, want %q", i, res.Imports[i], want[i])
		}
	}
	if strings.Count(res.Source, "#include <stdio.h>") != 1 {
		t.Errorf("stdio.h included more than once:\n%s", res.Source)
	}
}

// TestIdempotence checks that emission carries no hidden mutable state.
func TestIdempotence(t *testing.T) {
	mod, fn, b := singleBlockFunc(t, "main")
	fn.DeclareVar("v", ir.PlainType("int"))
	b.RequireImport("stdio.h")
	b.Set(b.NamedRef("v"), b.Add(b.ConstInt(1), b.ConstInt(2)))
	b.ReturnVoid()

	first := emit(t, mod)
	second := emit(t, mod)
	if first.Source != second.Source {
		t.Errorf("emission is not idempotent:\n--- first\n%s\n--- second\n%s", first.Source, second.Source)
	}
}

func TestNestedIfElseLowering(t *testing.T) {
	mod, _, b := singleBlockFunc(t, "f")
	cond := b.TestGt(b.NamedRef("x"), b.ConstInt(0))
	altCond := b.TestLt(b.NamedRef("x"), b.ConstInt(0))

	ifID := b.CreateIf(cond)
	nb, err := b.Nested(ifID)
	if err != nil {
		t.Fatal(err)
	}
	nb.Set(nb.NamedRef("sign"), nb.ConstInt(1))

	arm := nb.CreateElseIf(altCond)
	arm.Set(arm.NamedRef("sign"), arm.BitNot(arm.ConstInt(0)))

	tail := nb.CreateElse()
	tail.Set(tail.NamedRef("sign"), tail.ConstInt(0))

	res := emit(t, mod)
	for _, want := range []string{
		"if (x > 0) {\nsign = 1;\n}",
		"else if (x < 0) {\nsign = ~0;\n}",
		"else {\nsign = 0;\n}",
	} {
		if !strings.Contains(res.Source, want) {
			t.Errorf("output missing %q:\n%s", want, res.Source)
		}
	}
}

func TestNestedBasicBlockRendersScope(t *testing.T) {
	mod, _, b := singleBlockFunc(t, "f")
	id := b.CreateBlock()
	nb, err := b.Nested(id)
	if err != nil {
		t.Fatal(err)
	}
	nb.Set(nb.NamedRef("x"), nb.ConstInt(5))

	res := emit(t, mod)
	if !strings.Contains(res.Source, "{\nx = 5;\n}") {
		t.Errorf("nested scope missing:\n%s", res.Source)
	}
}

// TestCallReusePolicy checks both settings of the expression policy
// against a call value referenced from two use sites.
func TestCallReusePolicy(t *testing.T) {
	build := func() *ir.Module {
		mod, fn, b := singleBlockFunc(t, "f")
		fn.DeclareVar("x", ir.PlainType("int"))
		fn.DeclareVar("y", ir.PlainType("int"))
		result := b.CallValue(b.NamedRef("g"))
		b.Set(b.NamedRef("x"), result)
		b.Set(b.NamedRef("y"), result)
		return mod
	}

	// The default policy re-renders the call at each use site.
	res, err := cgen.EmitModule(build(), cgen.Options{Policy: cgen.ExprRecompute})
	if err != nil {
		t.Fatalf("recompute policy: %v", err)
	}
	if strings.Count(res.Source, "g()") != 2 {
		t.Errorf("expected the call at both use sites:\n%s", res.Source)
	}

	_, err = cgen.EmitModule(build(), cgen.Options{Policy: cgen.ExprSingleUseCalls})
	var reuse *cgen.CallReuseError
	if !errors.As(err, &reuse) {
		t.Fatalf("err = %v, want CallReuseError", err)
	}
}

// TestFloatConstantPrecision checks that single- and double-precision
// constants format at their own width: a float32 must not pick up
// trailing digits the type cannot represent.
func TestFloatConstantPrecision(t *testing.T) {
	mod, fn, b := singleBlockFunc(t, "f")
	fn.DeclareVar("s", ir.PlainType("float"))
	fn.DeclareVar("d", ir.PlainType("double"))
	b.Set(b.NamedRef("s"), b.ConstFloat(1.0/3.0))
	b.Set(b.NamedRef("d"), b.ConstDouble(1.0/3.0))

	res := emit(t, mod)
	for _, want := range []string{
		"s = 0.33333334;",
		"d = 0.3333333333333333;",
	} {
		if !strings.Contains(res.Source, want) {
			t.Errorf("output missing %q:\n%s", want, res.Source)
		}
	}
}

// TestSharedExprContainingCallRejected checks that the strict policy
// sees through pure wrappers: a call embedded inside a shared
// arithmetic expression still duplicates its side effect per use site,
// so sharing the wrapper must be rejected too.
func TestSharedExprContainingCallRejected(t *testing.T) {
	build := func() (*ir.Module, ir.ValueID) {
		mod, fn, b := singleBlockFunc(t, "f")
		fn.DeclareVar("x", ir.PlainType("int"))
		fn.DeclareVar("y", ir.PlainType("int"))
		call := b.CallValue(b.NamedRef("g"))
		sum := b.Add(call, b.ConstInt(1))
		b.Set(b.NamedRef("x"), sum)
		b.Set(b.NamedRef("y"), sum)
		return mod, sum
	}

	// Default policy: the wrapped call renders at both use sites.
	mod, _ := build()
	res, err := cgen.EmitModule(mod, cgen.Options{Policy: cgen.ExprRecompute})
	if err != nil {
		t.Fatalf("recompute policy: %v", err)
	}
	for _, want := range []string{"x = g() + 1;", "y = g() + 1;"} {
		if !strings.Contains(res.Source, want) {
			t.Errorf("output missing %q:\n%s", want, res.Source)
		}
	}

	mod, sum := build()
	_, err = cgen.EmitModule(mod, cgen.Options{Policy: cgen.ExprSingleUseCalls})
	var reuse *cgen.CallReuseError
	if !errors.As(err, &reuse) {
		t.Fatalf("err = %v, want CallReuseError", err)
	}
	if reuse.Value != sum {
		t.Errorf("error names value %d, want the shared wrapper %d", reuse.Value, sum)
	}
}

// TestSharedIndexReachingCallRejected covers the other embedding path:
// a named reference whose index expression carries a call.
func TestSharedIndexReachingCallRejected(t *testing.T) {
	mod, fn, b := singleBlockFunc(t, "f")
	fn.DeclareVar("x", ir.PlainType("int"))
	fn.DeclareVar("y", ir.PlainType("int"))
	idx := b.CallValue(b.NamedRef("g"))
	elem := b.NamedRefProps("arr", []ir.NamedProp{ir.IndexProp(idx)})
	b.Set(b.NamedRef("x"), elem)
	b.Set(b.NamedRef("y"), elem)

	_, err := cgen.EmitModule(mod, cgen.Options{Policy: cgen.ExprSingleUseCalls})
	var reuse *cgen.CallReuseError
	if !errors.As(err, &reuse) {
		t.Fatalf("err = %v, want CallReuseError", err)
	}
}

// TestPureExprReuseAllowed checks that the strict policy still accepts
// repeated use of pure arithmetic expressions.
func TestPureExprReuseAllowed(t *testing.T) {
	mod, fn, b := singleBlockFunc(t, "f")
	fn.DeclareVar("x", ir.PlainType("int"))
	fn.DeclareVar("y", ir.PlainType("int"))
	sum := b.Add(b.ConstInt(1), b.ConstInt(2))
	b.Set(b.NamedRef("x"), sum)
	b.Set(b.NamedRef("y"), sum)

	if _, err := cgen.EmitModule(mod, cgen.Options{Policy: cgen.ExprSingleUseCalls}); err != nil {
		t.Fatalf("pure reuse rejected: %v", err)
	}
}

func TestFunctionsEmitInDeclarationOrder(t *testing.T) {
	mod := ir.NewModule()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		mod.DefineFunction(ir.NewFunction(name, ir.NewSignature()))
	}

	res := emit(t, mod)
	zeta := strings.Index(res.Source, "zeta")
	alpha := strings.Index(res.Source, "alpha")
	mid := strings.Index(res.Source, "mid")
	if !(zeta < alpha && alpha < mid) {
		t.Errorf("functions out of order:\n%s", res.Source)
	}
}
