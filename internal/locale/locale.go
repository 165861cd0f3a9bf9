// Package locale resolves a culture/language tag into the punctuation
// a formula's token reader needs: the decimal separator used inside
// numeric literals and the argument separator used between function
// call arguments.
//
// x/text ships no public "decimal separator for this BCP-47 tag"
// lookup (that data lives behind the CLDR-backed number formatters in
// golang.org/x/text/number, which format rather than expose
// separators). Resolution here canonicalizes and matches the caller's
// tag with golang.org/x/text/language the way the rest of the x/text
// ecosystem does, then consults a small table of the locale families
// that use a comma decimal separator; everything else defaults to the
// common '.'/ ',' pairing.
package locale

import (
	"golang.org/x/text/language"
)

// Separators is the punctuation pair a Lexer uses to read numeric
// literals and function-call argument lists.
type Separators struct {
	Decimal  rune
	ArgSep   rune
	Language language.Tag
}

// Default is the punctuation used when no locale is specified:
// '.' for decimals, ',' between arguments.
var Default = Separators{Decimal: '.', ArgSep: ',', Language: language.Und}

// commaDecimalBase is the set of base languages whose customary
// decimal separator is ',' (and whose argument separator therefore
// moves to ';' to stay unambiguous). This mirrors the long-standing
// .NET NumberFormatInfo split the formula engine's culture model is
// patterned on.
var commaDecimalBase = map[language.Base]bool{}

func init() {
	for _, tag := range []string{
		"de", "fr", "es", "it", "pt", "nl", "ru", "pl", "tr", "sv",
		"da", "fi", "nb", "cs", "sk", "ro", "hu", "el", "uk", "bg",
	} {
		base, _ := language.ParseBase(tag)
		commaDecimalBase[base] = true
	}
}

// Resolve parses a BCP-47 locale tag (e.g. "de-DE", "fr", "en-US")
// and returns its decimal/argument separator pair. An empty or
// unparseable tag returns Default.
func Resolve(tag string) Separators {
	if tag == "" {
		return Default
	}

	parsed, err := language.Parse(tag)
	if err != nil {
		return Default
	}

	base, conf := parsed.Base()
	if conf == language.No {
		return Default
	}

	if commaDecimalBase[base] {
		return Separators{Decimal: ',', ArgSep: ';', Language: parsed}
	}
	return Separators{Decimal: '.', ArgSep: ',', Language: parsed}
}
