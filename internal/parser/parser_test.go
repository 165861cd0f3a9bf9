package parser

import (
	"errors"
	"testing"

	"github.com/cwbudde/formulaengine/internal/ast"
	"github.com/cwbudde/formulaengine/internal/ferrors"
	"github.com/cwbudde/formulaengine/internal/registry"
)

func testRegistries(t *testing.T) (*registry.FunctionRegistry, *registry.ConstantRegistry) {
	t.Helper()
	fr := registry.NewFunctionRegistry()
	cr := registry.NewConstantRegistry()

	must := func(err error) {
		if err != nil {
			t.Fatalf("unexpected registration error: %v", err)
		}
	}
	must(fr.Register(registry.FunctionInfo{Name: "max", Arity: 2, IsIdempotent: true, IsOverwritable: false}))
	must(fr.Register(registry.FunctionInfo{Name: "sin", Arity: 1, IsIdempotent: true, IsOverwritable: false}))
	must(fr.Register(registry.FunctionInfo{Name: "sum", Variadic: true, IsIdempotent: true, IsOverwritable: false}))
	must(cr.Register(registry.ConstantInfo{Name: "pi", Value: 3.14159, IsOverwritable: false}))
	return fr, cr
}

func parse(t *testing.T, src string) ast.Operation {
	t.Helper()
	fr, cr := testRegistries(t)
	tree, err := Parse(src, fr, cr)
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", src, err)
	}
	return tree
}

func TestParse_OperatorPrecedence(t *testing.T) {
	tree := parse(t, "2+3*4")
	want := "(2 + (3 * 4))"
	if got := tree.String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParse_PowerRightAssociative(t *testing.T) {
	tree := parse(t, "2^3^2")
	want := "(2 ^ (3 ^ 2))"
	if got := tree.String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParse_UnaryMinusBindsLooserThanPower(t *testing.T) {
	tree := parse(t, "-2^2")
	want := "(-(2 ^ 2))"
	if got := tree.String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParse_UnaryMinusBindsTighterThanProduct(t *testing.T) {
	tree := parse(t, "-2*3")
	want := "((-2) * 3)"
	if got := tree.String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParse_UnaryMinusAfterOperatorAndBracket(t *testing.T) {
	tree := parse(t, "3-(-2)")
	want := "(3 - (-2))"
	if got := tree.String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParse_FunctionCallAndArity(t *testing.T) {
	tree := parse(t, "max(1,2)")
	if got, want := tree.String(), "max(1, 2)"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParse_VariadicFunctionAcceptsOneOrMore(t *testing.T) {
	tree := parse(t, "sum(1,2,3)")
	fn, ok := tree.(*ast.Function)
	if !ok || len(fn.Args) != 3 {
		t.Fatalf("expected 3-arg sum call, got %v", tree)
	}
}

func TestParse_VariadicFunctionRejectsZeroArgs(t *testing.T) {
	fr, cr := testRegistries(t)
	_, err := Parse("sum()", fr, cr)
	if err == nil {
		t.Fatal("expected error for zero-arg variadic call")
	}
}

func TestParse_ArityMismatch(t *testing.T) {
	fr, cr := testRegistries(t)

	if _, err := Parse("max(1)", fr, cr); err == nil {
		t.Fatal("expected arity error for max(1)")
	}
	if _, err := Parse("sin(1,2)", fr, cr); err == nil {
		t.Fatal("expected arity error for sin(1,2)")
	}
}

func TestParse_UnknownFunction(t *testing.T) {
	fr, cr := testRegistries(t)
	_, err := Parse("bogus(1)", fr, cr)
	if err == nil {
		t.Fatal("expected error for unknown function")
	}
	if !errors.Is(err, ferrors.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestParse_MismatchedBrackets(t *testing.T) {
	fr, cr := testRegistries(t)
	cases := []string{"(2+3", "2+3)", "max(1,2"}
	for _, c := range cases {
		if _, err := Parse(c, fr, cr); err == nil {
			t.Fatalf("%s: expected mismatched-bracket error", c)
		}
	}
}

func TestParse_EmptySubExpression(t *testing.T) {
	fr, cr := testRegistries(t)
	if _, err := Parse("()", fr, cr); err == nil {
		t.Fatal("expected empty sub-expression error")
	}
}

func TestParse_TrailingOperator(t *testing.T) {
	fr, cr := testRegistries(t)
	if _, err := Parse("2+", fr, cr); err == nil {
		t.Fatal("expected trailing-operator error")
	}
}

func TestParse_CaseInsensitiveIdentifiers(t *testing.T) {
	fr, cr := testRegistries(t)
	a, err := Parse("SIN(PI)", fr, cr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Parse("sin(pi)", fr, cr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.String() != b.String() {
		t.Fatalf("expected identical parse trees, got %q vs %q", a, b)
	}
}

func TestParse_VariableVsConstantResolution(t *testing.T) {
	fr, cr := testRegistries(t)
	tree, err := Parse("pi + x", fr, cr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bin := tree.(*ast.Binary)
	if _, ok := bin.Left.(*ast.Constant); !ok {
		t.Fatalf("expected 'pi' to resolve to a Constant, got %T", bin.Left)
	}
	v, ok := bin.Right.(*ast.Variable)
	if !ok || v.Name != "x" {
		t.Fatalf("expected 'x' to resolve to Variable(x), got %v", bin.Right)
	}
}
