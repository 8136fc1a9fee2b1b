package keyword

import (
	"sync"
	"time"
)

// Field is the keyword input: the last raw value it was blurred with and
// the single active Pattern derived from it. Safe for concurrent use.
type Field struct {
	timeout time.Duration

	mu      sync.RWMutex
	value   string
	pattern *Pattern
}

// NewField returns an unset field. timeout is passed to every compiled Pattern.
func NewField(timeout time.Duration) *Field {
	return &Field{timeout: timeout}
}

// Blur recompiles the active pattern from raw. On a compile error the
// previous pattern stays active and the error is returned.
func (f *Field) Blur(raw string) (*Pattern, error) {
	p, err := Compile(raw, f.timeout)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = raw
	if err != nil {
		return f.pattern, err
	}
	f.pattern = p
	return p, nil
}

// Value returns the raw text the field was last blurred with.
func (f *Field) Value() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.value
}

// Pattern returns the active pattern, or nil when unset.
func (f *Field) Pattern() *Pattern {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.pattern
}

// FindAll matches text against the active pattern.
func (f *Field) FindAll(text string) ([]string, error) {
	return f.Pattern().FindAll(text)
}
