// Package parser builds an Operation tree (internal/ast) from a token
// stream, resolving operator precedence and function/constant names
// along the way (spec.md §4.3).
//
// Grounded on go-dws's internal/parser: a Pratt parser with one
// parseExpression(precedence) entry point recursing through
// prefix/infix handling (see internal/parser/expressions.go's
// parseExpression/precedences table). The formula grammar needs only
// a handful of prefix/infix cases, so they are inlined as a switch
// rather than the teacher's prefixParseFns/infixParseFns maps — the
// same precedence-climbing algorithm spec.md §4.3 describes as
// "shunting-yard augmented for functions and unary minus" produces an
// identical parse for this grammar; a Pratt parser is the equivalent,
// idiomatic-Go rendering of it and is what the teacher itself uses.
package parser

import (
	"strings"

	"github.com/cwbudde/formulaengine/internal/ast"
	"github.com/cwbudde/formulaengine/internal/ferrors"
	"github.com/cwbudde/formulaengine/internal/lexer"
	"github.com/cwbudde/formulaengine/internal/registry"
	"github.com/cwbudde/formulaengine/internal/token"
)

// Binding powers. Higher binds tighter for infix operators. Unary
// minus is resolved by the recursion threshold passed to its operand
// (see unaryOperandPrecedence below), not by a table entry of its own.
const (
	precLowest  = 0
	precSum     = 1 // + -
	precProduct = 2 // * / %
	precPower   = 3 // ^ (right-assoc)

	// unaryOperandPrecedence is the minimum precedence a unary minus's
	// operand parse continues through. Set between precSum and
	// precPower so unary minus binds tighter than + - but the operand
	// still absorbs a following ^: "-2^2" parses as -(2^2) = -4.0,
	// matching spec.md §8's worked example (and ordinary math
	// convention), even though spec.md §4.3's precedence table lists
	// unary minus above ^ by level number.
	unaryOperandPrecedence = precProduct
)

// Parser builds an Operation tree from a Lexer's token stream.
type Parser struct {
	lex       *lexer.Lexer
	functions *registry.FunctionRegistry
	constants *registry.ConstantRegistry
	source    string
	cur       token.Token
}

// New creates a Parser reading from lex, resolving identifiers against
// functions and constants.
func New(lex *lexer.Lexer, functions *registry.FunctionRegistry, constants *registry.ConstantRegistry) (*Parser, error) {
	p := &Parser{
		lex:       lex,
		functions: functions,
		constants: constants,
		source:    lex.Source(),
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse is the convenience entry point: tokenizes and parses source in
// full, failing if trailing input remains after a complete expression.
func Parse(source string, functions *registry.FunctionRegistry, constants *registry.ConstantRegistry, opts ...lexer.Option) (ast.Operation, error) {
	p, err := New(lexer.New(source, opts...), functions, constants)
	if err != nil {
		return nil, err
	}
	root, err := p.ParseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != token.EOF {
		return nil, p.errorf("unexpected token %q", p.cur.Text)
	}
	return root, nil
}

func (p *Parser) advance() error {
	tok, err := p.lex.NextToken()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return ferrors.NewParseError(p.cur.Pos, p.source, format, args...)
}

// ParseExpression parses a complete sub-expression, consuming infix
// operators whose precedence is at least minPrec.
func (p *Parser) ParseExpression(minPrec int) (ast.Operation, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		op, prec, rightAssoc, ok := p.currentBinaryOp()
		if !ok || prec < minPrec {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		nextMin := prec + 1
		if rightAssoc {
			nextMin = prec
		}
		right, err := p.ParseExpression(nextMin)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}

	return left, nil
}

func (p *Parser) currentBinaryOp() (op ast.BinaryOp, prec int, rightAssoc bool, ok bool) {
	if p.cur.Kind != token.Operation {
		return 0, 0, false, false
	}
	switch p.cur.Text {
	case "+":
		return ast.Add, precSum, false, true
	case "-":
		return ast.Sub, precSum, false, true
	case "*":
		return ast.Mul, precProduct, false, true
	case "/":
		return ast.Div, precProduct, false, true
	case "%":
		return ast.Mod, precProduct, false, true
	case "^":
		return ast.Pow, precPower, true, true
	default:
		return 0, 0, false, false
	}
}

// parsePrefix parses one operand: a literal, a parenthesized group, a
// function call, a variable/constant identifier, or a unary minus.
// This is the only place a '-' is read as unary: it is called exactly
// at formula start, immediately after a binary operator, immediately
// after '(', and immediately after an argument separator — the
// positions spec.md §4.3 lists for unary-minus disambiguation.
func (p *Parser) parsePrefix() (ast.Operation, error) {
	tok := p.cur

	switch tok.Kind {
	case token.Integer, token.FloatingPoint:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Constant{Value: tok.Numeric}, nil

	case token.Operation:
		if tok.Text != "-" {
			return nil, p.errorf("unexpected operator %q", tok.Text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		child, err := p.ParseExpression(unaryOperandPrecedence)
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.Neg, Child: child}, nil

	case token.LeftBracket:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind == token.RightBracket {
			return nil, p.errorf("empty sub-expression")
		}
		inner, err := p.ParseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		if p.cur.Kind != token.RightBracket {
			return nil, p.errorf("expected closing bracket")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil

	case token.Identifier:
		return p.parseIdentifier(tok)

	default:
		return nil, p.errorf("unexpected token %q", tok.Text)
	}
}

func (p *Parser) parseIdentifier(tok token.Token) (ast.Operation, error) {
	name := strings.ToLower(tok.Text)
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.cur.Kind == token.LeftBracket {
		return p.parseFunctionCall(name, tok.Pos)
	}

	if c, ok := p.constants.Lookup(name); ok {
		return &ast.Constant{Value: c.Value}, nil
	}
	return &ast.Variable{Name: name}, nil
}

func (p *Parser) parseFunctionCall(name string, namePos token.Position) (ast.Operation, error) {
	info, ok := p.functions.Lookup(name)
	if !ok {
		return nil, ferrors.NewParseError(namePos, p.source, "unknown function %q", name)
	}

	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}

	var args []ast.Operation
	if p.cur.Kind != token.RightBracket {
		for {
			arg, err := p.ParseExpression(precLowest)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.cur.Kind == token.ArgumentSeparator {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}

	if p.cur.Kind != token.RightBracket {
		return nil, p.errorf("expected closing bracket in call to %q", name)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if info.Variadic {
		if len(args) < 1 {
			return nil, ferrors.NewParseError(namePos, p.source,
				"function %s expects at least 1 argument, got %d", name, len(args))
		}
	} else if len(args) != info.Arity {
		return nil, ferrors.NewParseError(namePos, p.source,
			"function %s expects %d arguments, got %d", name, info.Arity, len(args))
	}

	return &ast.Function{Name: name, Args: args, IsIdempotent: info.IsIdempotent}, nil
}
