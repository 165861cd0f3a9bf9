package lexer

// Source returns the original formula text, for error rendering by
// downstream stages (the AST builder attaches it to ParseErrors so
// they can draw a caret under the offending rune).
func (l *Lexer) Source() string { return l.input }
