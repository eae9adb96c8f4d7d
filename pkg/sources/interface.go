package sources

import (
	"io"
	"path/filepath"
	"strings"

	"comicpdf/pkg/data"
)

// Source yields the pages of one chapter in natural order.
type Source interface {
	// Pages returns the accepted image entries, naturally sorted.
	Pages() ([]string, error)
	// Open returns the content of one page entry.
	Open(name string) (io.ReadCloser, error)
	Close() error
}

// Open returns the page source matching the chapter's storage.
func Open(chapter data.Chapter) (Source, error) {
	if chapter.Archive {
		return OpenArchive(chapter.Path)
	}
	return OpenFolder(chapter.Path), nil
}

// imageExtensions is the accepted page format set, matched
// case-insensitively against the file extension.
var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".bmp":  {},
	".gif":  {},
	".tiff": {},
	".tif":  {},
	".webp": {},
}

// IsImageFile reports whether a filename carries an accepted image
// extension.
func IsImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := imageExtensions[ext]
	return ok
}
