// Package lexer turns formula text into a token stream.
//
// Grounded on github.com/cwbudde/go-dws's internal/lexer: a rune-at-a-
// time scanner tracking a rune-counted position, with a LexerOption-
// configured constructor. The formula reader's grammar is far smaller
// (six arithmetic operators, no keywords, no strings) so the token set
// collapses accordingly, but the scanning style — readChar/peekChar
// over a rune position, one exported NextToken — is the same.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/cwbudde/formulaengine/internal/ferrors"
	"github.com/cwbudde/formulaengine/internal/locale"
	"github.com/cwbudde/formulaengine/internal/token"
)

// Lexer is a rune scanner over a formula's source text.
type Lexer struct {
	input   string
	seps    locale.Separators
	ch      rune
	position int // rune index of ch
	readPos int // byte index of the next rune to read
}

// Option configures a Lexer at construction.
type Option func(*Lexer)

// WithSeparators overrides the default '.'/ ',' punctuation, e.g. for
// a culture whose decimal separator is ','.
func WithSeparators(seps locale.Separators) Option {
	return func(l *Lexer) { l.seps = seps }
}

// New creates a Lexer over input. Default separators are '.' for
// decimals and ',' between function arguments.
func New(input string, opts ...Option) *Lexer {
	l := &Lexer{input: input, seps: locale.Default}
	for _, opt := range opts {
		opt(l)
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.position = l.readPos
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.position = l.readPos
	l.readPos += size
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// NextToken reads and returns the next token. Repeated calls after
// EOF continue to return EOF tokens.
func (l *Lexer) NextToken() (token.Token, error) {
	l.skipWhitespace()

	start := token.Position(l.position)

	if l.position >= len(l.input) {
		return token.Token{Kind: token.EOF, Pos: start}, nil
	}

	switch {
	case unicode.IsDigit(l.ch):
		return l.readNumber(start)
	case isIdentStart(l.ch):
		return l.readIdentifier(start)
	case l.ch == '(':
		l.readChar()
		return token.Token{Kind: token.LeftBracket, Text: "(", Pos: start}, nil
	case l.ch == ')':
		l.readChar()
		return token.Token{Kind: token.RightBracket, Text: ")", Pos: start}, nil
	case l.ch == l.seps.ArgSep:
		l.readChar()
		return token.Token{Kind: token.ArgumentSeparator, Text: string(l.seps.ArgSep), Pos: start}, nil
	case isOperatorRune(l.ch):
		ch := l.ch
		l.readChar()
		return token.Token{Kind: token.Operation, Text: string(ch), Pos: start}, nil
	default:
		bad := l.ch
		l.readChar()
		return token.Token{}, ferrors.NewParseError(start, l.input,
			"unrecognized character %q", bad)
	}
}

func isOperatorRune(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '%', '^':
		return true
	}
	return false
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// readNumber scans an Integer or FloatingPoint literal. The decimal
// separator is locale-dependent; everything else (digit runs, an
// optional exponent) is fixed.
func (l *Lexer) readNumber(start token.Position) (token.Token, error) {
	startByte := l.position
	isFloat := false

	for unicode.IsDigit(l.ch) {
		l.readChar()
	}

	if l.ch == l.seps.Decimal && unicode.IsDigit(l.peekChar()) {
		isFloat = true
		l.readChar() // consume separator
		for unicode.IsDigit(l.ch) {
			l.readChar()
		}
	}

	if (l.ch == 'e' || l.ch == 'E') && l.exponentFollows() {
		isFloat = true
		l.readChar() // e/E
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for unicode.IsDigit(l.ch) {
			l.readChar()
		}
	}

	text := l.input[startByte:l.position]
	normalized := text
	if isFloat {
		normalized = replaceRune(text, l.seps.Decimal, '.')
	}

	value, err := parseFloat(normalized)
	if err != nil {
		return token.Token{}, ferrors.NewParseError(start, l.input,
			"invalid numeric literal %q", text)
	}

	kind := token.Integer
	if isFloat {
		kind = token.FloatingPoint
	}

	return token.Token{
		Kind:     kind,
		Text:     text,
		Pos:      start,
		Numeric:  value,
		HasValue: true,
	}, nil
}

// exponentFollows reports whether the rune at l.ch ('e'/'E') begins a
// well-formed exponent: an optional sign then at least one digit.
func (l *Lexer) exponentFollows() bool {
	peek := l.peekChar()
	if peek == '+' || peek == '-' {
		// look one rune further, past the sign
		_, size := utf8.DecodeRuneInString(l.input[l.readPos:])
		after := l.readPos + size
		if after >= len(l.input) {
			return false
		}
		r, _ := utf8.DecodeRuneInString(l.input[after:])
		return unicode.IsDigit(r)
	}
	return unicode.IsDigit(peek)
}

func (l *Lexer) readIdentifier(start token.Position) (token.Token, error) {
	startByte := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	text := l.input[startByte:l.position]
	return token.Token{Kind: token.Identifier, Text: text, Pos: start}, nil
}
