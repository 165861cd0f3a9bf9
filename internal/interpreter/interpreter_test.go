package interpreter

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/formulaengine/internal/ast"
	"github.com/cwbudde/formulaengine/internal/builtins"
	"github.com/cwbudde/formulaengine/internal/ferrors"
	"github.com/cwbudde/formulaengine/internal/parser"
	"github.com/cwbudde/formulaengine/internal/registry"
)

func newEngine(t *testing.T) (*Interpreter, *registry.FunctionRegistry, *registry.ConstantRegistry) {
	t.Helper()
	fr := registry.NewFunctionRegistry()
	cr := registry.NewConstantRegistry()
	builtins.RegisterDefaultFunctions(fr)
	builtins.RegisterDefaultConstants(cr)
	return New(fr), fr, cr
}

func evalText(t *testing.T, src string, env Environment) float64 {
	t.Helper()
	interp, fr, cr := newEngine(t)
	tree, err := parser.Parse(src, fr, cr)
	if err != nil {
		t.Fatalf("%s: parse error: %v", src, err)
	}
	got, err := interp.Eval(tree, env)
	if err != nil {
		t.Fatalf("%s: eval error: %v", src, err)
	}
	return got
}

func TestInterpreter_EndToEndScenarios(t *testing.T) {
	cases := []struct {
		src  string
		env  Environment
		want float64
	}{
		{"2+3*4", nil, 14.0},
		{"2^3^2", nil, 512.0},
		{"-2^2", nil, -4.0},
		{"ifmore(a,0,b,c)", Environment{"a": 1, "b": 10, "c": 20}, 10.0},
		{"logn(8,2)+sqrt(abs(-9))", nil, 6.0},
		{"x*x + 2*x + 1", Environment{"x": 3}, 16.0},
	}

	for _, c := range cases {
		got := evalText(t, c.src, c.env)
		if got != c.want {
			t.Fatalf("%s: expected %v, got %v", c.src, c.want, got)
		}
	}
}

func TestInterpreter_SinPiWithinTolerance(t *testing.T) {
	got := evalText(t, "sin(pi)", nil)
	if math.Abs(got) > 1e-12 {
		t.Fatalf("expected sin(pi) within 1e-12 of 0, got %v", got)
	}
}

func TestInterpreter_UnboundVariable(t *testing.T) {
	interp, fr, cr := newEngine(t)
	tree, err := parser.Parse("x+1", fr, cr)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, err = interp.Eval(tree, Environment{})
	if err == nil {
		t.Fatal("expected unbound-variable error")
	}
	if !errors.Is(err, ferrors.ErrEvaluation) {
		t.Fatalf("expected ErrEvaluation, got %v", err)
	}
}

func TestInterpreter_DivideByZeroSemantics(t *testing.T) {
	if got := evalText(t, "1/0", nil); !math.IsInf(got, 1) {
		t.Fatalf("expected +Inf, got %v", got)
	}
	if got := evalText(t, "-1/0", nil); !math.IsInf(got, -1) {
		t.Fatalf("expected -Inf, got %v", got)
	}
	if got := evalText(t, "0/0", nil); !math.IsNaN(got) {
		t.Fatalf("expected NaN, got %v", got)
	}
}

func TestInterpreter_ModSignFollowsDividend(t *testing.T) {
	if got := evalText(t, "-7%3", nil); got != -1 {
		t.Fatalf("expected -1, got %v", got)
	}
}

func TestInterpreter_UnaryNeg(t *testing.T) {
	tree := &ast.Unary{Op: ast.Neg, Child: &ast.Constant{Value: 5}}
	interp, _, _ := newEngine(t)
	got, err := interp.Eval(tree, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != -5 {
		t.Fatalf("expected -5, got %v", got)
	}
}
