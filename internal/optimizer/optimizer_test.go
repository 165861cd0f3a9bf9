package optimizer

import (
	"testing"

	"github.com/cwbudde/formulaengine/internal/ast"
	"github.com/cwbudde/formulaengine/internal/builtins"
	"github.com/cwbudde/formulaengine/internal/interpreter"
	"github.com/cwbudde/formulaengine/internal/parser"
	"github.com/cwbudde/formulaengine/internal/registry"
)

func newTestRegistries() (*registry.FunctionRegistry, *registry.ConstantRegistry) {
	fr := registry.NewFunctionRegistry()
	cr := registry.NewConstantRegistry()
	builtins.RegisterDefaultFunctions(fr)
	builtins.RegisterDefaultConstants(cr)
	return fr, cr
}

func TestOptimizer_FoldsPureConstantSubtree(t *testing.T) {
	fr, cr := newTestRegistries()
	tree, err := parser.Parse("2+3*4", fr, cr)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	opt := New(fr)
	folded := opt.Optimize(tree)

	c, ok := folded.(*ast.Constant)
	if !ok {
		t.Fatalf("expected fully folded Constant, got %T (%v)", folded, folded)
	}
	if c.Value != 14 {
		t.Fatalf("expected 14, got %v", c.Value)
	}
}

func TestOptimizer_LeavesVariableDependentSubtreeAlone(t *testing.T) {
	fr, cr := newTestRegistries()
	tree, err := parser.Parse("x*x + 2*x + 1", fr, cr)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	opt := New(fr)
	folded := opt.Optimize(tree)

	// The "2*x" subtree cannot fold (x is a variable) but "2" and "1"
	// constants inside it should remain as-is; the whole tree must not
	// collapse to a single Constant.
	if _, ok := folded.(*ast.Constant); ok {
		t.Fatal("did not expect the whole tree to fold away a free variable")
	}
}

func TestOptimizer_SoundnessMatchesUnoptimizedEval(t *testing.T) {
	fr, cr := newTestRegistries()
	interp := interpreter.New(fr)
	opt := New(fr)

	formulas := []string{
		"2+3*4",
		"x*x + 2*x + 1",
		"sin(pi)+cos(0)",
		"max(1+1, 3*1)",
		"-2^2 + x",
	}
	env := interpreter.Environment{"x": 5}

	for _, f := range formulas {
		tree, err := parser.Parse(f, fr, cr)
		if err != nil {
			t.Fatalf("%s: unexpected parse error: %v", f, err)
		}
		want, err := interp.Eval(tree, env)
		if err != nil {
			t.Fatalf("%s: unexpected eval error: %v", f, err)
		}
		got, err := interp.Eval(opt.Optimize(tree), env)
		if err != nil {
			t.Fatalf("%s: unexpected eval error on optimized tree: %v", f, err)
		}
		if want != got && !(isNaN(want) && isNaN(got)) {
			t.Fatalf("%s: optimizer changed result: unoptimized=%v optimized=%v", f, want, got)
		}
	}
}

func isNaN(f float64) bool { return f != f }
