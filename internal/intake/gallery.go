package intake

import (
	"github.com/ironsheep/ocr-keyword-mcp/internal/imaging"
	"github.com/ironsheep/ocr-keyword-mcp/internal/view"
)

// GalleryItem converts a gallery entry to its surface list item.
func GalleryItem(e *imaging.Entry) view.GalleryItem {
	return view.GalleryItem{
		ID:          e.ID,
		Name:        e.Name,
		MediaType:   e.MediaType,
		Width:       e.Width(),
		Height:      e.Height(),
		Placeholder: e.Placeholder,
	}
}

// NewGallery returns a gallery whose inserts are mirrored onto s.
func NewGallery(s *view.Surface) *imaging.Gallery {
	return imaging.NewGallery(func(e *imaging.Entry) {
		s.AppendGallery(GalleryItem(e))
	})
}
