package keyword

import (
	"reflect"
	"sync"
	"testing"
	"time"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "cat, dog", "cat, dog"},
		{"markup", "<b>cat</b>", "&lt;b&gt;cat&lt;/b&gt;"},
		{"ampersand", "R&D", "R&amp;D"},
		{"quotes untouched", `"cat" 'dog'`, `"cat" 'dog'`},
		{"non-breaking space", "cat\u00a0dog", "cat&nbsp;dog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokens(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"cat, dog , fish", []string{"cat", "dog", "fish"}},
		{"", []string{""}},
		{"cat,,dog", []string{"cat", "", "dog"}},
		{" solo ", []string{"solo"}},
		{"\ufeffcat, dog\u2028", []string{"cat", "dog"}},
		{"\u0085cat", []string{"\u0085cat"}},
		{"\u3000cat\t", []string{"cat"}},
	}

	for _, tt := range tests {
		if got := Tokens(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokens(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompile_Expression(t *testing.T) {
	p, err := Compile("cat, dog , fish", 0)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if got, want := p.String(), `\b(?:cat|dog|fish)\b`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := p.Tokens(); !reflect.DeepEqual(got, []string{"cat", "dog", "fish"}) {
		t.Errorf("Tokens() = %q", got)
	}
}

func TestFindAll_WholeWords(t *testing.T) {
	p, err := Compile("cat, dog , fish", 0)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	text := "category cat doggy dog\nfish catfish fish."
	got, err := p.FindAll(text)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}

	want := []string{"cat", "dog", "fish", "fish"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindAll = %q, want %q", got, want)
	}
}

// Only [A-Za-z0-9_] count as word characters at a boundary.
func TestFindAll_ASCIIWordBoundary(t *testing.T) {
	tests := []struct {
		keywords string
		text     string
		want     []string
	}{
		{"cat", "écat", []string{"cat"}},
		{"cat", "caté", []string{"cat"}},
		{"über", "über", nil},
		{"über", "x über", nil},
		{"caf", "café", []string{"caf"}},
		{"café", "café au lait", nil},
		{"cat", "_cat cat9 cat", []string{"cat"}},
		{"cat$", "cat\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.keywords+"/"+tt.text, func(t *testing.T) {
			p, err := Compile(tt.keywords, 0)
			if err != nil {
				t.Fatalf("Compile failed: %v", err)
			}
			got, err := p.FindAll(tt.text)
			if err != nil {
				t.Fatalf("FindAll failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindAll(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestFindAll_CaseSensitive(t *testing.T) {
	p, err := Compile("Invoice", 0)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	got, _ := p.FindAll("invoice INVOICE Invoice")
	if !reflect.DeepEqual(got, []string{"Invoice"}) {
		t.Errorf("FindAll = %q, want [Invoice]", got)
	}
}

func TestFindAll_NoMatch(t *testing.T) {
	p, err := Compile("zebra", 0)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	got, err := p.FindAll("nothing to see here")
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("FindAll = %q, want empty", got)
	}
}

// An empty field compiles to \b(?:)\b. It yields one empty match per word
// boundary, the same result a global ECMAScript match produces.
func TestFindAll_EmptyKeywordMatchesEveryBoundary(t *testing.T) {
	p, err := Compile("", 0)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if got, want := p.String(), `\b(?:)\b`; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}

	got, err := p.FindAll("cat sat")
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if want := []string{"", "", "", ""}; !reflect.DeepEqual(got, want) {
		t.Errorf("FindAll = %q, want four empty matches", got)
	}

	got, _ = p.FindAll("   ")
	if len(got) != 0 {
		t.Errorf("text without word characters: got %q, want no matches", got)
	}
}

func TestFindAll_LeadingEmptyTokenShadowsKeyword(t *testing.T) {
	p, err := Compile(", cat", 0)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	got, _ := p.FindAll("cat")
	if want := []string{"", ""}; !reflect.DeepEqual(got, want) {
		t.Errorf("FindAll = %q, want %q", got, want)
	}
}

func TestFindAll_SanitizedAmpersand(t *testing.T) {
	p, err := Compile("R&D", 0)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	got, _ := p.FindAll("R&D budget")
	if len(got) != 0 {
		t.Errorf("raw ampersand should not match the escaped keyword, got %q", got)
	}
	got, _ = p.FindAll("R&amp;D budget")
	if !reflect.DeepEqual(got, []string{"R&amp;D"}) {
		t.Errorf("FindAll = %q, want [R&amp;D]", got)
	}
}

func TestCompile_InvalidExpression(t *testing.T) {
	if _, err := Compile("cat, (dog", 0); err == nil {
		t.Fatal("expected compile error for unbalanced group")
	}
}

func TestNilPatternMatchesNothing(t *testing.T) {
	var p *Pattern
	got, err := p.FindAll("cat dog")
	if err != nil || got != nil {
		t.Errorf("nil pattern: got %q, %v", got, err)
	}
	if p.String() != "" {
		t.Errorf("nil pattern String() = %q", p.String())
	}
}

func TestField_UnsetUntilBlur(t *testing.T) {
	f := NewField(time.Second)
	if f.Pattern() != nil {
		t.Fatal("new field should have no pattern")
	}

	got, err := f.FindAll("cat")
	if err != nil || len(got) != 0 {
		t.Errorf("unset field: got %q, %v", got, err)
	}

	if _, err := f.Blur("cat"); err != nil {
		t.Fatalf("Blur failed: %v", err)
	}
	got, _ = f.FindAll("cat")
	if !reflect.DeepEqual(got, []string{"cat"}) {
		t.Errorf("FindAll after blur = %q", got)
	}
	if f.Value() != "cat" {
		t.Errorf("Value() = %q", f.Value())
	}
}

func TestField_BlurReplacesPattern(t *testing.T) {
	f := NewField(0)
	f.Blur("cat")
	f.Blur("dog")

	got, _ := f.FindAll("cat dog")
	if !reflect.DeepEqual(got, []string{"dog"}) {
		t.Errorf("FindAll = %q, want [dog]", got)
	}
}

func TestField_InvalidBlurKeepsPrevious(t *testing.T) {
	f := NewField(0)
	if _, err := f.Blur("cat"); err != nil {
		t.Fatalf("Blur failed: %v", err)
	}

	p, err := f.Blur("(")
	if err == nil {
		t.Fatal("expected error for invalid keyword expression")
	}
	if p == nil || p.String() != `\b(?:cat)\b` {
		t.Errorf("Blur should return the still-active pattern, got %q", p.String())
	}
	if f.Value() != "(" {
		t.Errorf("Value() = %q, want the raw text", f.Value())
	}

	got, _ := f.FindAll("cat")
	if !reflect.DeepEqual(got, []string{"cat"}) {
		t.Errorf("previous pattern should remain active, got %q", got)
	}
}

func TestField_ConcurrentBlurAndMatch(t *testing.T) {
	f := NewField(0)
	f.Blur("cat")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			f.Blur("cat, dog")
		}()
		go func() {
			defer wg.Done()
			if _, err := f.FindAll("cat dog"); err != nil {
				t.Errorf("FindAll failed: %v", err)
			}
		}()
	}
	wg.Wait()
}
