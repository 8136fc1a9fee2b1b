package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var (
	// ErrUnsupportedMediaType is returned for files that are neither JPEG nor PNG.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrReadFailed is returned when a file cannot be opened or read in full.
	ErrReadFailed = errors.New("read failed")

	// ErrDecodeFailed is returned when file contents are not a decodable image.
	ErrDecodeFailed = errors.New("decode failed")
)

// Entry is a decoded image in the gallery.
type Entry struct {
	// ID uniquely identifies the entry for the lifetime of the gallery.
	ID string `json:"id"`

	// Name is the file name the image was read from.
	Name string `json:"name"`

	// MediaType is the declared type of the source file.
	MediaType string `json:"media_type"`

	// Data holds the original encoded bytes; these are what gets recognized.
	Data []byte `json:"-"`

	// Image is the decoded, orientation-corrected bitmap.
	Image image.Image `json:"-"`

	// Thumbnail is Image scaled to fit the builder's thumbnail size.
	Thumbnail image.Image `json:"-"`

	// Placeholder is a "#rrggbb" colour shown while the thumbnail loads.
	Placeholder string `json:"placeholder"`
}

// Width returns the decoded image width in pixels.
func (e *Entry) Width() int { return e.Image.Bounds().Dx() }

// Height returns the decoded image height in pixels.
func (e *Entry) Height() int { return e.Image.Bounds().Dy() }

// DataURL renders the original bytes as a data: URL.
func (e *Entry) DataURL() string {
	return "data:" + e.MediaType + ";base64," + base64.StdEncoding.EncodeToString(e.Data)
}

// Builder reads, decodes and inserts previews into a Gallery.
type Builder struct {
	gallery   *Gallery
	thumbSize int
	maxBytes  int64
	logger    *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithThumbnailSize sets the longest thumbnail side in pixels.
func WithThumbnailSize(px int) BuilderOption {
	return func(b *Builder) {
		if px > 0 {
			b.thumbSize = px
		}
	}
}

// WithMaxBytes caps how many bytes of a single file are read.
func WithMaxBytes(n int64) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.maxBytes = n
		}
	}
}

// WithLogger sets the builder's logger.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder returns a Builder that inserts into g.
func NewBuilder(g *Gallery, opts ...BuilderOption) *Builder {
	b := &Builder{
		gallery:   g,
		thumbSize: 160,
		maxBytes:  32 << 20,
		logger:    slog.Default(),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Preview reads f, decodes it and appends the result to the gallery as soon
// as decoding finishes.
//
// The media type is checked before the file is opened; a rejected file never
// reaches the reader. Read and decode failures leave the gallery untouched.
func (b *Builder) Preview(ctx context.Context, f FileHandle) (*Entry, error) {
	if !Supported(f.MediaType()) {
		return nil, fmt.Errorf("%w: %q (%s)", ErrUnsupportedMediaType, f.MediaType(), f.Name())
	}

	data, err := b.read(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFailed, f.Name(), err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailed, f.Name(), err)
	}

	thumb := Thumbnail(img, b.thumbSize)
	entry := &Entry{
		ID:          uuid.NewString(),
		Name:        f.Name(),
		MediaType:   f.MediaType(),
		Data:        data,
		Image:       img,
		Thumbnail:   thumb,
		Placeholder: Placeholder(thumb),
	}
	b.gallery.Insert(entry)

	b.logger.Debug("preview ready",
		"id", entry.ID,
		"name", entry.Name,
		"width", entry.Width(),
		"height", entry.Height(),
	)
	return entry, nil
}

func (b *Builder) read(ctx context.Context, f FileHandle) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(ctxReader{ctx: ctx, r: rc}, b.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > b.maxBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", b.maxBytes)
	}
	return data, nil
}

// ctxReader stops reading once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
