package ocr

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrLifecycle is returned when a lifecycle step is called out of order.
	ErrLifecycle = errors.New("worker lifecycle step out of order")

	// ErrNotInitialized is returned when a worker is asked to recognize
	// before Initialize has completed.
	ErrNotInitialized = errors.New("worker not initialized")

	// ErrRecognitionFailed wraps every error produced while running a job.
	ErrRecognitionFailed = errors.New("recognition failed")
)

// Result is the output of one recognition job.
type Result struct {
	JobID    string `json:"job_id"`
	WorkerID string `json:"worker_id"`
	Text     string `json:"text"`
}

// Worker is a single recognition engine instance. A Worker runs one
// Recognize call at a time; the Scheduler guarantees that.
type Worker interface {
	Load(ctx context.Context) error
	LoadLanguage(ctx context.Context, lang string) error
	Initialize(ctx context.Context, lang string) error
	Recognize(ctx context.Context, image []byte) (string, error)
	Terminate() error
}

// Setup brings w up: Load, LoadLanguage and Initialize, in that order.
func Setup(ctx context.Context, w Worker, lang string) error {
	if err := w.Load(ctx); err != nil {
		return fmt.Errorf("load worker: %w", err)
	}
	if err := w.LoadLanguage(ctx, lang); err != nil {
		return fmt.Errorf("load language %s: %w", lang, err)
	}
	if err := w.Initialize(ctx, lang); err != nil {
		return fmt.Errorf("initialize %s: %w", lang, err)
	}
	return nil
}

// State is a worker's position in its lifecycle.
type State int

const (
	StateCreated State = iota
	StateLoaded
	StateLanguageLoaded
	StateInitialized
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateLoaded:
		return "loaded"
	case StateLanguageLoaded:
		return "language-loaded"
	case StateInitialized:
		return "initialized"
	case StateTerminated:
		return "terminated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// lifecycle tracks a worker's state and the language it loaded.
type lifecycle struct {
	mu    sync.Mutex
	state State
	lang  string
}

func (l *lifecycle) current() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// step moves from `from` to `to`, running fn in between. The state only
// advances if fn succeeds.
func (l *lifecycle) step(from, to State, fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != from {
		return fmt.Errorf("%w: %s requires %s, worker is %s", ErrLifecycle, to, from, l.state)
	}
	if fn != nil {
		if err := fn(); err != nil {
			return err
		}
	}
	l.state = to
	return nil
}

func (l *lifecycle) load() error { return l.step(StateCreated, StateLoaded, nil) }

func (l *lifecycle) loadLanguage(lang string, fn func() error) error {
	return l.step(StateLoaded, StateLanguageLoaded, func() error {
		if fn != nil {
			if err := fn(); err != nil {
				return err
			}
		}
		l.lang = lang
		return nil
	})
}

func (l *lifecycle) initialize(lang string, fn func() error) error {
	return l.step(StateLanguageLoaded, StateInitialized, func() error {
		if lang != l.lang {
			return fmt.Errorf("%w: initialize %q but loaded %q", ErrLifecycle, lang, l.lang)
		}
		if fn != nil {
			return fn()
		}
		return nil
	})
}

func (l *lifecycle) ready() error {
	if s := l.current(); s != StateInitialized {
		return fmt.Errorf("%w: worker is %s", ErrNotInitialized, s)
	}
	return nil
}

func (l *lifecycle) terminate() {
	l.mu.Lock()
	l.state = StateTerminated
	l.mu.Unlock()
}
