package integrations

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"os"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"comicpdf/pkg/data"
)

// jpegQuality for re-encoding normalized pages into the document.
const jpegQuality = 90

// PDFBuilder composes one chapter into a multi-page PDF, one page per
// image at its native pixel size (1px = 1pt). The document is built in
// memory, written to a temp file, validated, and renamed into place so
// a reader never observes a truncated PDF.
type PDFBuilder struct {
	chapter data.Chapter
	pdf     *gofpdf.Fpdf
	pages   int
}

func NewPDFBuilder() *PDFBuilder {
	return &PDFBuilder{}
}

func (b *PDFBuilder) Init(chapter data.Chapter) error {
	if chapter.OutputPath == "" {
		return fmt.Errorf("chapter %s has no output path", chapter.Name)
	}
	b.chapter = chapter
	b.pdf = nil
	b.pages = 0
	return nil
}

func (b *PDFBuilder) Next(page Page) error {
	w, h := float64(page.Width), float64(page.Height)
	if w <= 0 || h <= 0 {
		return fmt.Errorf("page %s has empty dimensions", page.Name)
	}

	if b.pdf == nil {
		b.pdf = gofpdf.NewCustom(&gofpdf.InitType{
			UnitStr: "pt",
			Size:    gofpdf.SizeType{Wd: w, Ht: h},
		})
		b.pdf.SetMargins(0, 0, 0)
		b.pdf.SetAutoPageBreak(false, 0)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, page.Image, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("failed to encode page %s: %w", page.Name, err)
	}

	b.pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})

	name := fmt.Sprintf("page-%04d", b.pages)
	opts := gofpdf.ImageOptions{ImageType: "JPG"}
	b.pdf.RegisterImageOptionsReader(name, opts, &buf)
	b.pdf.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")

	if b.pdf.Err() {
		return fmt.Errorf("failed to add page %s: %v", page.Name, b.pdf.Error())
	}

	b.pages++
	return nil
}

// Abort discards the in-memory document. Nothing touches disk before
// Done, so dropping the reference is enough.
func (b *PDFBuilder) Abort() {
	b.pdf = nil
	b.pages = 0
}

func (b *PDFBuilder) Done() (string, error) {
	if b.pages == 0 {
		return "", fmt.Errorf("chapter %s has no pages", b.chapter.Name)
	}

	dest := b.chapter.OutputPath
	tmp := dest + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return "", &data.WriteError{Chapter: b.chapter.Name, Path: dest, Err: err}
	}

	if err := b.pdf.OutputAndClose(f); err != nil {
		os.Remove(tmp)
		return "", &data.WriteError{Chapter: b.chapter.Name, Path: dest, Err: err}
	}

	if err := api.ValidateFile(tmp, model.NewDefaultConfiguration()); err != nil {
		os.Remove(tmp)
		return "", &data.WriteError{Chapter: b.chapter.Name, Path: dest,
			Err: fmt.Errorf("output failed validation: %w", err)}
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return "", &data.WriteError{Chapter: b.chapter.Name, Path: dest, Err: err}
	}

	return dest, nil
}
