package intake

import (
	"errors"
	"time"
)

// FileResult is the outcome for one file of a batch.
type FileResult struct {
	Index   int      `json:"index"`
	Name    string   `json:"name"`
	EntryID string   `json:"entry_id,omitempty"`
	Matches []string `json:"matches,omitempty"`

	PreviewErr   error `json:"-"`
	RecognizeErr error `json:"-"`
}

// Err returns the first stage error for the file, or nil.
func (r FileResult) Err() error {
	if r.PreviewErr != nil {
		return r.PreviewErr
	}
	return r.RecognizeErr
}

// Recognized reports whether the file made it through recognition.
func (r FileResult) Recognized() bool {
	return r.EntryID != "" && r.PreviewErr == nil && r.RecognizeErr == nil && r.Matches != nil
}

// BatchResult is the aggregate outcome of a batch.
type BatchResult struct {
	ID string `json:"id"`

	// Skipped is set for an empty batch, which changes nothing.
	Skipped bool `json:"skipped"`

	// Success is true when every preview and recognition succeeded and the
	// recognition queue was empty when the batch finished.
	Success bool `json:"success"`

	// QueueLen is the recognition queue depth observed at the end of the batch.
	QueueLen int `json:"queue_len"`

	Files    []FileResult `json:"files"`
	Started  time.Time    `json:"started"`
	Finished time.Time    `json:"finished"`
}

// Err joins every per-file error.
func (b BatchResult) Err() error {
	var errs []error
	for _, f := range b.Files {
		if err := f.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Matches returns every match of the batch in submission order.
func (b BatchResult) Matches() []string {
	var out []string
	for _, f := range b.Files {
		out = append(out, f.Matches...)
	}
	return out
}
