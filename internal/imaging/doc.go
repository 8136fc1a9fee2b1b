// Package imaging turns user-supplied files into gallery previews.
//
// A FileHandle is a named blob with a declared media type, either a path on
// disk (PathFile) or inline bytes (BytesFile). The Builder accepts only
// image/jpeg and image/png; any other declared type is rejected before the
// file is opened. Accepted files are read, decoded with EXIF orientation
// applied, reduced to a thumbnail and inserted into a Gallery.
//
// # Errors
//
// Preview failures wrap one of three sentinels so callers can tell them apart
// with errors.Is:
//   - ErrUnsupportedMediaType: the declared type is not JPEG or PNG
//   - ErrReadFailed: the file could not be opened, read, or was too large
//   - ErrDecodeFailed: the bytes are not a decodable image
//
// A failed preview never produces a gallery entry.
//
// # Thread Safety
//
// Gallery and Builder are safe for concurrent use. Entries are immutable once
// inserted; the gallery keeps them until Clear is called.
package imaging
