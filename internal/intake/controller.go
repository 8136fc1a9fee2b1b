package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/ocr-keyword-mcp/internal/imaging"
	"github.com/ironsheep/ocr-keyword-mcp/internal/keyword"
	"github.com/ironsheep/ocr-keyword-mcp/internal/ocr"
	"github.com/ironsheep/ocr-keyword-mcp/internal/view"
)

// DefaultErrorFlash is how long a failed batch shows the error class.
const DefaultErrorFlash = 3 * time.Second

// DefaultBatchHistory is how many finished batch results Batch can return.
const DefaultBatchHistory = 100

// ErrQueueNotEmpty is reported when every job succeeded but the recognition
// queue still held jobs when the batch finished.
var ErrQueueNotEmpty = errors.New("recognition queue not empty")

// Previewer decodes a file and inserts it into the gallery.
type Previewer interface {
	Preview(ctx context.Context, f imaging.FileHandle) (*imaging.Entry, error)
}

// Recognizer runs recognition jobs. *ocr.Scheduler satisfies it.
type Recognizer interface {
	AddJob(ctx context.Context, action string, image []byte) (ocr.Result, error)
	QueueLen() int
}

// Controller owns the surface and drives batches through it.
type Controller struct {
	surface    *view.Surface
	previews   Previewer
	recognizer Recognizer
	keywords   *keyword.Field
	logger     *slog.Logger
	errorFlash time.Duration
	after      func(time.Duration, func())

	mu       sync.Mutex
	batches  map[string]*BatchResult
	finished []string
	history  int
	running  map[string]bool
	wg       sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithErrorFlash sets how long the error class stays after a failed batch.
func WithErrorFlash(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.errorFlash = d
		}
	}
}

// WithBatchHistory sets how many finished batch results are kept. Older
// results are dropped first.
func WithBatchHistory(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.history = n
		}
	}
}

// New returns a controller driving surface.
func New(surface *view.Surface, previews Previewer, recognizer Recognizer, keywords *keyword.Field, opts ...Option) *Controller {
	c := &Controller{
		surface:    surface,
		previews:   previews,
		recognizer: recognizer,
		keywords:   keywords,
		logger:     slog.Default(),
		errorFlash: DefaultErrorFlash,
		after:      func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		batches:    make(map[string]*BatchResult),
		history:    DefaultBatchHistory,
		running:    make(map[string]bool),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Surface returns the surface the controller drives.
func (c *Controller) Surface() *view.Surface { return c.surface }

// Keywords returns the keyword field.
func (c *Controller) Keywords() *keyword.Field { return c.keywords }

// BlurKeywords recompiles the keyword pattern from raw, as when the keyword
// input loses focus.
func (c *Controller) BlurKeywords(raw string) (*keyword.Pattern, error) {
	p, err := c.keywords.Blur(raw)
	if err != nil {
		c.logger.Warn("keyword pattern rejected, keeping previous", "value", raw, "error", err)
		return p, err
	}
	c.logger.Debug("keyword pattern compiled", "pattern", p.String())
	return p, nil
}

// RunBatch processes files and blocks until the batch has finished. An
// empty file list is a no-op.
func (c *Controller) RunBatch(ctx context.Context, files []imaging.FileHandle) BatchResult {
	id := uuid.NewString()
	if len(files) == 0 {
		return c.skip(id)
	}
	c.track(id)
	return c.run(ctx, id, files)
}

// Start runs the batch in the background and returns its ID. Use Batch to
// look up the result and Wait to block until all started batches finish.
func (c *Controller) Start(ctx context.Context, files []imaging.FileHandle) string {
	id := uuid.NewString()
	if len(files) == 0 {
		c.skip(id)
		return id
	}

	c.track(id)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(ctx, id, files)
	}()
	return id
}

// Batch returns the result of a finished batch. running is true while the
// batch is still in flight; ok is false for unknown IDs and for results
// that have aged out of the batch history.
func (c *Controller) Batch(id string) (res BatchResult, running bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running[id] {
		return BatchResult{ID: id}, true, true
	}
	r, ok := c.batches[id]
	if !ok {
		return BatchResult{}, false, false
	}
	return *r, false, true
}

// Wait blocks until every batch started with Start has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) track(id string) {
	c.mu.Lock()
	c.running[id] = true
	c.mu.Unlock()
}

func (c *Controller) store(res BatchResult) {
	c.mu.Lock()
	delete(c.running, res.ID)
	c.batches[res.ID] = &res
	c.finished = append(c.finished, res.ID)
	for len(c.finished) > c.history {
		delete(c.batches, c.finished[0])
		c.finished[0] = ""
		c.finished = c.finished[1:]
	}
	c.mu.Unlock()
}

func (c *Controller) skip(id string) BatchResult {
	now := time.Now()
	res := BatchResult{ID: id, Skipped: true, Started: now, Finished: now}
	c.store(res)
	c.logger.Debug("empty batch ignored", "batch_id", id)
	return res
}

func (c *Controller) run(ctx context.Context, id string, files []imaging.FileHandle) BatchResult {
	res := BatchResult{
		ID:      id,
		Files:   make([]FileResult, len(files)),
		Started: time.Now(),
	}
	for i, f := range files {
		res.Files[i] = FileResult{Index: i, Name: f.Name()}
	}

	c.surface.ClearMatches()
	c.surface.AddClass(view.ClassProcessing)
	c.surface.SetInputDisabled(true)
	c.surface.SetStatus(fmt.Sprintf("processing %d file(s)", len(files)))
	c.logger.Info("batch started", "batch_id", id, "files", len(files))

	entries, err := c.previewAll(ctx, files, res.Files)
	if err == nil {
		err = c.recognizeAll(ctx, entries, res.Files)
	}

	res.QueueLen = c.recognizer.QueueLen()
	if err == nil && res.QueueLen != 0 {
		err = fmt.Errorf("%w: %d job(s) waiting", ErrQueueNotEmpty, res.QueueLen)
	}
	res.Success = err == nil
	res.Finished = time.Now()

	c.finish(res, err)
	c.store(res)
	return res
}

// previewAll previews every file concurrently and waits for all of them.
// It returns the first error encountered.
func (c *Controller) previewAll(ctx context.Context, files []imaging.FileHandle, results []FileResult) ([]*imaging.Entry, error) {
	entries := make([]*imaging.Entry, len(files))

	var g errgroup.Group
	for i, f := range files {
		g.Go(func() error {
			e, err := c.previews.Preview(ctx, f)
			if err != nil {
				results[i].PreviewErr = err
				return err
			}
			results[i].EntryID = e.ID
			entries[i] = e
			return nil
		})
	}
	return entries, g.Wait()
}

// recognizeAll recognizes every entry concurrently, appending matches to
// the surface as each job completes.
func (c *Controller) recognizeAll(ctx context.Context, entries []*imaging.Entry, results []FileResult) error {
	var g errgroup.Group
	for i, e := range entries {
		g.Go(func() error {
			out, err := c.recognizer.AddJob(ctx, ocr.ActionRecognize, e.Data)
			if err != nil {
				c.logger.Error("recognition failed", "entry_id", e.ID, "name", e.Name, "error", err)
				results[i].RecognizeErr = err
				return err
			}

			matches, err := c.keywords.FindAll(out.Text)
			if err != nil {
				c.logger.Error("keyword matching failed", "entry_id", e.ID, "name", e.Name, "error", err)
				results[i].RecognizeErr = err
				return err
			}

			results[i].Matches = append([]string{}, matches...)
			c.surface.AppendMatches(matches...)
			c.logger.Debug("image recognized",
				"entry_id", e.ID,
				"job_id", out.JobID,
				"worker_id", out.WorkerID,
				"matches", len(matches),
			)
			return nil
		})
	}
	return g.Wait()
}

func (c *Controller) finish(res BatchResult, err error) {
	if err == nil {
		c.surface.RemoveClass(view.ClassProcessing)
		c.surface.SetInputDisabled(false)
		c.surface.SetStatus("ready")
		c.logger.Info("batch finished",
			"batch_id", res.ID,
			"files", len(res.Files),
			"matches", len(res.Matches()),
			"duration_ms", res.Finished.Sub(res.Started).Milliseconds(),
		)
		return
	}

	c.logger.Error("batch failed", "batch_id", res.ID, "error", err)
	c.surface.AddClass(view.ClassError)
	c.after(c.errorFlash, func() {
		c.surface.RemoveClass(view.ClassError)
	})
	c.surface.RemoveClass(view.ClassProcessing)
	c.surface.SetInputDisabled(false)
	c.surface.SetStatus("error: " + err.Error())
}
