package lexer

import (
	"testing"

	"github.com/cwbudde/formulaengine/internal/token"
)

func TestLexer_Identifier(t *testing.T) {
	l := New("x1 + _foo")

	tok, _ := l.NextToken()
	if tok.Kind != token.Identifier || tok.Text != "x1" {
		t.Fatalf("expected Identifier(x1), got %v", tok)
	}

	plus, _ := l.NextToken()
	if plus.Kind != token.Operation || plus.Text != "+" {
		t.Fatalf("expected '+', got %v", plus)
	}

	tok2, _ := l.NextToken()
	if tok2.Kind != token.Identifier || tok2.Text != "_foo" {
		t.Fatalf("expected Identifier(_foo), got %v", tok2)
	}
}

func TestLexer_WhitespaceInsignificant(t *testing.T) {
	l := New("  \t2\n+\n3  ")
	var kinds []token.Kind
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Kind == token.EOF {
			break
		}
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{token.Integer, token.Operation, token.Integer}
	if len(kinds) != len(want) {
		t.Fatalf("expected %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, kinds)
		}
	}
}
