package sources

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"comicpdf/pkg/data"
)

// excludedFolders are reserved tooling directories that are never
// treated as chapters, matched case-insensitively.
var excludedFolders = map[string]struct{}{
	"build":       {},
	"dist":        {},
	"__pycache__": {},
	".git":        {},
	".vscode":     {},
}

// Scan enumerates the chapters directly under root: every subfolder
// not on the exclusion list, plus every zip archive. outputExt (".pdf"
// or ".epub") determines the destination path beside each chapter and
// whether the chapter counts as already converted. Chapters are
// returned in natural order so runs are reproducible.
func Scan(root, outputExt string) ([]data.Chapter, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, &data.ScanError{Root: root, Err: err}
	}

	var chapters []data.Chapter
	seen := map[string]struct{}{}
	for _, entry := range entries {
		name := entry.Name()

		var chapter data.Chapter
		switch {
		case entry.IsDir():
			if _, reserved := excludedFolders[strings.ToLower(name)]; reserved {
				continue
			}
			chapter = data.Chapter{Name: name, Path: filepath.Join(root, name)}
		case strings.EqualFold(filepath.Ext(name), ".zip"):
			stem := strings.TrimSuffix(name, filepath.Ext(name))
			chapter = data.Chapter{Name: stem, Path: filepath.Join(root, name), Archive: true}
		default:
			continue
		}

		// A folder and an archive with the same stem would race for
		// the same output file; the first entry wins.
		if _, dup := seen[chapter.Name]; dup {
			continue
		}
		seen[chapter.Name] = struct{}{}

		chapter.OutputPath = filepath.Join(root, chapter.Name+outputExt)
		if _, err := os.Stat(chapter.OutputPath); err == nil {
			chapter.Converted = true
		}
		chapters = append(chapters, chapter)
	}

	sort.Slice(chapters, func(i, j int) bool {
		return NaturalLess(chapters[i].Name, chapters[j].Name)
	})
	return chapters, nil
}

// FolderSource reads pages from a chapter directory.
type FolderSource struct {
	dir string
}

func OpenFolder(dir string) *FolderSource {
	return &FolderSource{dir: dir}
}

func (s *FolderSource) Pages() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var pages []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if IsImageFile(name) {
			pages = append(pages, name)
		}
	}

	SortNatural(pages)
	return pages, nil
}

func (s *FolderSource) Open(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.dir, name))
}

func (s *FolderSource) Close() error { return nil }
