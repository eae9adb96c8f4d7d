package integrations

import (
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-shiori/go-epub"

	"comicpdf/pkg/data"
)

// EPUBBuilder composes one chapter into an EPUB with one full-width
// image per page, for readers that prefer ebook files over PDFs.
type EPUBBuilder struct {
	chapter data.Chapter
	book    *epub.Epub
	tempDir string
	content strings.Builder
	pages   int
}

func NewEPUBBuilder() *EPUBBuilder {
	return &EPUBBuilder{}
}

func (b *EPUBBuilder) Init(chapter data.Chapter) error {
	if chapter.OutputPath == "" {
		return fmt.Errorf("chapter %s has no output path", chapter.Name)
	}

	book, err := epub.NewEpub(chapter.Name)
	if err != nil {
		return fmt.Errorf("failed to create EPUB: %w", err)
	}
	book.SetLang("en")

	tempDir, err := os.MkdirTemp("", "comicpdf-epub-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}

	b.chapter = chapter
	b.book = book
	b.tempDir = tempDir
	b.content.Reset()
	b.pages = 0
	return nil
}

func (b *EPUBBuilder) Next(page Page) error {
	// go-epub pulls images from file paths, so stage the normalized
	// page in the temp directory first.
	name := fmt.Sprintf("page-%04d.jpg", b.pages+1)
	staged := filepath.Join(b.tempDir, name)

	f, err := os.Create(staged)
	if err != nil {
		return fmt.Errorf("failed to stage page %s: %w", page.Name, err)
	}
	if err := jpeg.Encode(f, page.Image, &jpeg.Options{Quality: jpegQuality}); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode page %s: %w", page.Name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to stage page %s: %w", page.Name, err)
	}

	internalPath, err := b.book.AddImage(staged, name)
	if err != nil {
		return fmt.Errorf("failed to add page %s: %w", page.Name, err)
	}

	b.pages++
	b.content.WriteString(fmt.Sprintf(
		`<div class="page"><img src="%s" alt="Page %d" style="width:100%%;height:auto;"/></div>%s`,
		internalPath, b.pages, "\n",
	))
	return nil
}

// Abort drops the staged pages of an abandoned chapter.
func (b *EPUBBuilder) Abort() {
	if b.tempDir != "" {
		os.RemoveAll(b.tempDir)
		b.tempDir = ""
	}
}

func (b *EPUBBuilder) Done() (string, error) {
	defer os.RemoveAll(b.tempDir)

	if b.pages == 0 {
		return "", fmt.Errorf("chapter %s has no pages", b.chapter.Name)
	}

	if _, err := b.book.AddSection(b.content.String(), b.chapter.Name, "", ""); err != nil {
		return "", fmt.Errorf("failed to add section: %w", err)
	}

	dest := b.chapter.OutputPath
	tmp := dest + ".tmp"

	if err := b.book.Write(tmp); err != nil {
		os.Remove(tmp)
		return "", &data.WriteError{Chapter: b.chapter.Name, Path: dest, Err: err}
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return "", &data.WriteError{Chapter: b.chapter.Name, Path: dest, Err: err}
	}

	return dest, nil
}
