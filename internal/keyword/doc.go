// Package keyword turns the comma-separated keyword field into a single
// whole-word pattern and extracts matches from recognized text.
//
// The field value is escaped as plain text (the way an HTML text node is
// serialized), split on commas, trimmed and joined into one alternation:
//
//	\b(?:tok1|tok2|...)\b
//
// The pattern is compiled with ECMAScript semantics via regexp2 and tokens
// are used verbatim as regex syntax. \b is an ASCII word boundary: only
// [A-Za-z0-9_] are word characters, so "cat" matches inside "écat" and
// "über" never matches on its own. Empty
// tokens are kept: an empty field compiles to \b(?:)\b, which matches the
// empty string at every word boundary.
//
// Field holds the single active Pattern. It starts unset (matches nothing)
// and is replaced wholesale on every Blur.
package keyword
