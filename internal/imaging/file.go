package imaging

import (
	"bytes"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Accepted media types. Anything else is rejected before the file is read.
const (
	MediaTypeJPEG = "image/jpeg"
	MediaTypePNG  = "image/png"
)

// FileHandle is a file introduced by the user: a named blob with a declared
// media type. The declared type is trusted as given; it is not sniffed.
type FileHandle interface {
	Name() string
	MediaType() string
	Open() (io.ReadCloser, error)
}

// PathFile is a file on disk. Its declared type comes from the extension,
// the way a browser file picker labels a selection.
type PathFile struct {
	Path string
	Type string
}

// NewPathFile returns a PathFile whose type is derived from path's extension.
func NewPathFile(path string) *PathFile {
	return &PathFile{Path: path, Type: MediaTypeFor(path)}
}

func (f *PathFile) Name() string      { return filepath.Base(f.Path) }
func (f *PathFile) MediaType() string { return f.Type }

func (f *PathFile) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// BytesFile is a file supplied inline.
type BytesFile struct {
	FileName string
	Type     string
	Data     []byte
}

func (f *BytesFile) Name() string      { return f.FileName }
func (f *BytesFile) MediaType() string { return f.Type }

func (f *BytesFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.Data)), nil
}

// MediaTypeFor returns the media type registered for path's extension,
// without parameters, or "" when none is known.
func MediaTypeFor(path string) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if t == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	return t
}

// Supported reports whether mediaType is one the preview builder accepts.
func Supported(mediaType string) bool {
	return mediaType == MediaTypeJPEG || mediaType == MediaTypePNG
}
