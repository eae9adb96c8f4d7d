package sources

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// ArchiveSource reads pages from a zip archive without extracting it.
type ArchiveSource struct {
	reader *zip.ReadCloser
}

func OpenArchive(zipPath string) (*ArchiveSource, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return &ArchiveSource{reader: reader}, nil
}

func (s *ArchiveSource) Pages() ([]string, error) {
	var pages []string
	for _, file := range s.reader.File {
		name := file.Name
		if strings.HasSuffix(name, "/") || file.FileInfo().IsDir() {
			continue
		}
		base := path.Base(name)
		if strings.HasPrefix(base, ".") {
			continue
		}
		if IsImageFile(base) {
			pages = append(pages, name)
		}
	}

	// Entries may sit inside a top-level folder; order by basename.
	sort.Slice(pages, func(i, j int) bool {
		return NaturalLess(path.Base(pages[i]), path.Base(pages[j]))
	})
	return pages, nil
}

func (s *ArchiveSource) Open(name string) (io.ReadCloser, error) {
	for _, file := range s.reader.File {
		if file.Name == name {
			return file.Open()
		}
	}
	return nil, fmt.Errorf("entry %s not found in archive", name)
}

func (s *ArchiveSource) Close() error {
	return s.reader.Close()
}
