package keyword

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// asciiBoundary is \b restricted to ASCII word characters. regexp2 treats
// every Unicode letter as a word character, even in ECMAScript mode.
const asciiBoundary = `(?:(?<=[A-Za-z0-9_])(?![A-Za-z0-9_])|(?<![A-Za-z0-9_])(?=[A-Za-z0-9_]))`

// Pattern is a compiled whole-word keyword matcher. A nil *Pattern is the
// unset pattern and matches nothing.
type Pattern struct {
	tokens []string
	expr   string
	re     *regexp2.Regexp
}

// Compile builds the pattern for a raw keyword field value. timeout bounds a
// single FindAll; zero means no limit.
func Compile(raw string, timeout time.Duration) (*Pattern, error) {
	tokens := Tokens(raw)
	alt := `(?:` + strings.Join(tokens, "|") + `)`
	expr := `\b` + alt + `\b`

	re, err := regexp2.Compile(asciiBoundary+alt+asciiBoundary, regexp2.ECMAScript)
	if err != nil {
		return nil, fmt.Errorf("compile keyword pattern %q: %w", expr, err)
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}

	return &Pattern{tokens: tokens, expr: expr, re: re}, nil
}

// String returns the regular expression source in \b form.
func (p *Pattern) String() string {
	if p == nil {
		return ""
	}
	return p.expr
}

// Tokens returns a copy of the keyword tokens the pattern was built from.
func (p *Pattern) Tokens() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.tokens...)
}

// FindAll returns every non-overlapping match in text, left to right.
// After an empty match the search resumes one character further on.
func (p *Pattern) FindAll(text string) ([]string, error) {
	if p == nil {
		return nil, nil
	}

	var found []string
	m, err := p.re.FindStringMatch(text)
	for m != nil && err == nil {
		found = append(found, m.String())
		m, err = p.re.FindNextMatch(m)
	}
	if err != nil {
		return found, fmt.Errorf("match keywords: %w", err)
	}
	return found, nil
}
