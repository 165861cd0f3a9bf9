package ast

import "testing"

func TestOperation_String(t *testing.T) {
	tree := &Binary{
		Op:   Add,
		Left: &Constant{Value: 2},
		Right: &Binary{
			Op:    Mul,
			Left:  &Constant{Value: 3},
			Right: &Variable{Name: "x"},
		},
	}

	want := "(2 + (3 * x))"
	if got := tree.String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFunction_String(t *testing.T) {
	fn := &Function{Name: "max", Args: []Operation{&Constant{Value: 1}, &Constant{Value: 2}}, IsIdempotent: true}
	if got, want := fn.String(), "max(1, 2)"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
