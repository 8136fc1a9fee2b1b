package keyword

import (
	"strings"
	"unicode"
)

// textEscaper mirrors HTML text-node serialization: only these four
// characters are rewritten, quotes are left alone.
var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"\u00a0", "&nbsp;",
	"<", "&lt;",
	">", "&gt;",
)

// Sanitize escapes s as plain HTML text.
func Sanitize(s string) string {
	return textEscaper.Replace(s)
}

// Tokens sanitizes raw, splits it on commas and trims each token. Empty
// tokens are preserved.
func Tokens(raw string) []string {
	parts := strings.Split(Sanitize(raw), ",")
	for i, p := range parts {
		parts[i] = strings.TrimFunc(p, isTrimSpace)
	}
	return parts
}

// isTrimSpace reports whether r is ECMAScript WhiteSpace or LineTerminator,
// the set String.prototype.trim removes. Unlike unicode.IsSpace it includes
// U+FEFF and excludes U+0085.
func isTrimSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u00a0', '\ufeff', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}
