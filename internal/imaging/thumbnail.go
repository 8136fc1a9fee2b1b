package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// ThumbnailResult is an encoded gallery thumbnail.
type ThumbnailResult struct {
	ID          string `json:"id"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// DataURL renders the thumbnail as a data: URL.
func (r *ThumbnailResult) DataURL() string {
	return "data:" + r.MimeType + ";base64," + r.ImageBase64
}

// Thumbnail scales img so its longest side is at most size pixels, keeping
// the aspect ratio. Images already small enough are copied, not enlarged.
func Thumbnail(img image.Image, size int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= size && h <= size {
		return imaging.Clone(img)
	}

	if w >= h {
		h = max(1, h*size/w)
		w = size
	} else {
		w = max(1, w*size/h)
		h = size
	}
	return transform.Resize(img, w, h, transform.Linear)
}

// Placeholder returns the average colour of img as "#rrggbb". Fully
// transparent images yield "#000000".
func Placeholder(img image.Image) string {
	avg := imaging.Resize(img, 1, 1, imaging.Box)
	c, ok := colorful.MakeColor(avg.At(0, 0))
	if !ok {
		return colorful.Color{}.Hex()
	}
	return c.Hex()
}

// EncodeThumbnail encodes e's thumbnail as a base64 PNG.
func EncodeThumbnail(e *Entry) (*ThumbnailResult, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, e.Thumbnail, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	b := e.Thumbnail.Bounds()
	return &ThumbnailResult{
		ID:          e.ID,
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    MediaTypePNG,
	}, nil
}
