package services

import (
	"archive/zip"
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"comicpdf/pkg/data"
)

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

func makeChapter(t *testing.T, root, name string, pages ...string) {
	t.Helper()

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create chapter dir: %v", err)
	}
	for _, page := range pages {
		if err := os.WriteFile(filepath.Join(dir, page), testPNG(t, 20, 30), 0644); err != nil {
			t.Fatalf("Failed to write page %s: %v", page, err)
		}
	}
}

func drainProgress(c *Converter) {
	go func() {
		for range c.Progress() {
		}
	}()
}

func TestRunConvertsAllChapters(t *testing.T) {
	root := t.TempDir()
	makeChapter(t, root, "300", "0001.png", "0002.png")
	makeChapter(t, root, "301", "0001.png")

	converter := NewConverter(Options{Root: root})
	drainProgress(converter)

	report, err := converter.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Converted() != 2 {
		t.Errorf("Expected 2 converted chapters, got %d", report.Converted())
	}

	count, err := api.PageCountFile(filepath.Join(root, "300.pdf"))
	if err != nil {
		t.Fatalf("300.pdf unreadable: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 300.pdf to have 2 pages, got %d", count)
	}

	count, err = api.PageCountFile(filepath.Join(root, "301.pdf"))
	if err != nil {
		t.Fatalf("301.pdf unreadable: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 301.pdf to have 1 page, got %d", count)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	root := t.TempDir()
	makeChapter(t, root, "300", "0001.png")

	first := NewConverter(Options{Root: root})
	drainProgress(first)
	report, err := first.Run()
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	if report.Converted() != 1 {
		t.Fatalf("Expected 1 conversion on first run, got %d", report.Converted())
	}

	stat, err := os.Stat(filepath.Join(root, "300.pdf"))
	if err != nil {
		t.Fatalf("Output missing after first run: %v", err)
	}
	firstModTime := stat.ModTime()

	second := NewConverter(Options{Root: root})
	drainProgress(second)
	report, err = second.Run()
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if report.Converted() != 0 {
		t.Errorf("Expected 0 conversions on second run, got %d", report.Converted())
	}
	if report.Skipped() != 1 {
		t.Errorf("Expected 1 skipped chapter on second run, got %d", report.Skipped())
	}

	stat, err = os.Stat(filepath.Join(root, "300.pdf"))
	if err != nil {
		t.Fatalf("Output missing after second run: %v", err)
	}
	if !stat.ModTime().Equal(firstModTime) {
		t.Error("Expected existing PDF to be left untouched")
	}
}

func TestRunIsolatesChapterFailures(t *testing.T) {
	root := t.TempDir()
	makeChapter(t, root, "100", "0001.png")
	makeChapter(t, root, "200")
	if err := os.WriteFile(filepath.Join(root, "200", "0001.png"), []byte("corrupt"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt page: %v", err)
	}
	makeChapter(t, root, "300", "0001.png")

	converter := NewConverter(Options{Root: root})
	drainProgress(converter)

	report, err := converter.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Converted() != 2 {
		t.Errorf("Expected 2 converted chapters, got %d", report.Converted())
	}

	failed := report.Failed()
	if len(failed) != 1 {
		t.Fatalf("Expected 1 failed chapter, got %d", len(failed))
	}
	if failed[0].Chapter.Name != "200" {
		t.Errorf("Expected chapter '200' to fail, got '%s'", failed[0].Chapter.Name)
	}

	var decodeErr *data.DecodeError
	if !errors.As(failed[0].Err, &decodeErr) {
		t.Fatalf("Expected DecodeError, got %T: %v", failed[0].Err, failed[0].Err)
	}
	if decodeErr.Page != "0001.png" {
		t.Errorf("Expected failing page '0001.png', got '%s'", decodeErr.Page)
	}

	// The broken chapter must not leave a partial output behind.
	if _, err := os.Stat(filepath.Join(root, "200.pdf")); !os.IsNotExist(err) {
		t.Error("Expected no output for failed chapter")
	}
	for _, name := range []string{"100.pdf", "300.pdf"} {
		if _, err := os.Stat(filepath.Join(root, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}
}

func TestDecodeFailureAbortsWholeChapter(t *testing.T) {
	root := t.TempDir()
	makeChapter(t, root, "300", "0001.png", "0003.png")
	if err := os.WriteFile(filepath.Join(root, "300", "0002.png"), []byte("corrupt"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt page: %v", err)
	}

	converter := NewConverter(Options{Root: root})
	drainProgress(converter)

	report, err := converter.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// No PDF with silently missing pages.
	if report.Converted() != 0 {
		t.Errorf("Expected 0 conversions, got %d", report.Converted())
	}
	if _, err := os.Stat(filepath.Join(root, "300.pdf")); !os.IsNotExist(err) {
		t.Error("Expected no output for chapter with an undecodable page")
	}
}

func TestRunSkipsEmptyChapters(t *testing.T) {
	root := t.TempDir()
	makeChapter(t, root, "300")
	if err := os.WriteFile(filepath.Join(root, "300", "notes.txt"), []byte("n"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	converter := NewConverter(Options{Root: root})
	drainProgress(converter)

	report, err := converter.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Skipped() != 1 {
		t.Errorf("Expected 1 skipped chapter, got %d", report.Skipped())
	}
	if _, err := os.Stat(filepath.Join(root, "300.pdf")); !os.IsNotExist(err) {
		t.Error("Expected no output for empty chapter")
	}
}

func TestRunUnreadableRootIsFatal(t *testing.T) {
	converter := NewConverter(Options{Root: filepath.Join(t.TempDir(), "missing")})
	drainProgress(converter)

	_, err := converter.Run()
	if err == nil {
		t.Fatal("Expected fatal error for unreadable root")
	}

	var scanErr *data.ScanError
	if !errors.As(err, &scanErr) {
		t.Errorf("Expected ScanError, got %T: %v", err, err)
	}
}

func TestRunConvertsZipArchive(t *testing.T) {
	root := t.TempDir()

	f, err := os.Create(filepath.Join(root, "302.zip"))
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}
	w := zip.NewWriter(f)
	for _, name := range []string{"0001.png", "0002.png"} {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to add entry: %v", err)
		}
		if _, err := entry.Write(testPNG(t, 20, 30)); err != nil {
			t.Fatalf("Failed to write entry: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finalize archive: %v", err)
	}
	f.Close()

	converter := NewConverter(Options{Root: root})
	drainProgress(converter)

	report, err := converter.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Converted() != 1 {
		t.Fatalf("Expected 1 converted chapter, got %d", report.Converted())
	}

	count, err := api.PageCountFile(filepath.Join(root, "302.pdf"))
	if err != nil {
		t.Fatalf("302.pdf unreadable: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 pages, got %d", count)
	}
}

func TestRunEPUBFormat(t *testing.T) {
	root := t.TempDir()
	makeChapter(t, root, "300", "0001.png")

	converter := NewConverter(Options{Root: root, Format: "epub"})
	drainProgress(converter)

	report, err := converter.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Converted() != 1 {
		t.Fatalf("Expected 1 converted chapter, got %d", report.Converted())
	}

	if _, err := os.Stat(filepath.Join(root, "300.epub")); err != nil {
		t.Errorf("Expected 300.epub to exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "300.pdf")); !os.IsNotExist(err) {
		t.Error("Expected no PDF output in EPUB mode")
	}
}

func TestFailedEPUBChapterLeavesNoStaging(t *testing.T) {
	root := t.TempDir()
	makeChapter(t, root, "200", "0001.png")
	if err := os.WriteFile(filepath.Join(root, "200", "0002.png"), []byte("corrupt"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt page: %v", err)
	}

	// Redirect temp files so stale staging dirs are detectable.
	scratch := t.TempDir()
	t.Setenv("TMPDIR", scratch)

	converter := NewConverter(Options{Root: root, Format: "epub"})
	drainProgress(converter)

	report, err := converter.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(report.Failed()) != 1 {
		t.Fatalf("Expected 1 failed chapter, got %d", len(report.Failed()))
	}

	leftovers, err := os.ReadDir(scratch)
	if err != nil {
		t.Fatalf("Failed to read scratch dir: %v", err)
	}
	if len(leftovers) != 0 {
		t.Errorf("Expected no staging dirs after failed chapter, found %d", len(leftovers))
	}
}

func TestRunParallelJobs(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"1", "2", "3", "4", "5"} {
		makeChapter(t, root, name, "0001.png", "0002.png")
	}

	converter := NewConverter(Options{Root: root, Jobs: 3})
	drainProgress(converter)

	report, err := converter.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Converted() != 5 {
		t.Errorf("Expected 5 converted chapters, got %d", report.Converted())
	}

	for _, name := range []string{"1", "2", "3", "4", "5"} {
		count, err := api.PageCountFile(filepath.Join(root, name+".pdf"))
		if err != nil {
			t.Fatalf("%s.pdf unreadable: %v", name, err)
		}
		if count != 2 {
			t.Errorf("Expected %s.pdf to have 2 pages, got %d", name, count)
		}
	}
}

func TestProgressChannelClosesAfterRun(t *testing.T) {
	root := t.TempDir()
	makeChapter(t, root, "300", "0001.png")

	converter := NewConverter(Options{Root: root})

	done := make(chan []Progress)
	go func() {
		var events []Progress
		for p := range converter.Progress() {
			events = append(events, p)
		}
		done <- events
	}()

	if _, err := converter.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	events := <-done
	if len(events) == 0 {
		t.Fatal("Expected progress events")
	}

	sawLoading, sawDone := false, false
	for _, p := range events {
		if p.Status == data.StatusLoading && p.Chapter == "300" {
			sawLoading = true
		}
		if p.Status == data.StatusDone && p.Chapter == "300" {
			sawDone = true
		}
	}
	if !sawLoading || !sawDone {
		t.Errorf("Expected loading and done events, got %+v", events)
	}
}

func TestUniformSizeProducesUniformPages(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "300")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create chapter dir: %v", err)
	}
	// Two pages at 20x30, one odd page at 40x10.
	for _, name := range []string{"0001.png", "0002.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), testPNG(t, 20, 30), 0644); err != nil {
			t.Fatalf("Failed to write page: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "0003.png"), testPNG(t, 40, 10), 0644); err != nil {
		t.Fatalf("Failed to write page: %v", err)
	}

	converter := NewConverter(Options{Root: root, UniformSize: true})
	drainProgress(converter)

	report, err := converter.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Converted() != 1 {
		t.Fatalf("Expected 1 converted chapter, got %d", report.Converted())
	}

	count, err := api.PageCountFile(filepath.Join(root, "300.pdf"))
	if err != nil {
		t.Fatalf("300.pdf unreadable: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 pages, got %d", count)
	}
}
