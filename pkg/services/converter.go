package services

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"comicpdf/pkg/data"
	"comicpdf/pkg/integrations"
	"comicpdf/pkg/sources"
)

// sampleLimit caps how many page headers are read to pick the uniform
// page size.
const sampleLimit = 10

// Progress is one update from a running conversion.
type Progress struct {
	Chapter     string
	CurrentPage int
	TotalPages  int
	Status      string // data.Status* value
	Output      string
	Err         error
}

// Options configures a conversion run.
type Options struct {
	Root         string
	Format       string // "pdf" or "epub"
	Jobs         int    // concurrent chapters, 1 = strictly sequential
	UniformSize  bool
	ResizeMethod string // "fit", "fill" or "stretch"
}

// Converter walks a root directory and composes one document per
// chapter. A Converter is good for a single Run; the progress channel
// is closed when the run finishes.
type Converter struct {
	opts         Options
	progressChan chan Progress
}

func NewConverter(opts Options) *Converter {
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.Format == "" {
		opts.Format = "pdf"
	}
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	if opts.ResizeMethod == "" {
		opts.ResizeMethod = integrations.ResizeFit
	}
	return &Converter{
		opts:         opts,
		progressChan: make(chan Progress, 100),
	}
}

// Progress returns the channel carrying conversion updates.
func (c *Converter) Progress() <-chan Progress {
	return c.progressChan
}

// Scan lists the chapters under the configured root.
func (c *Converter) Scan() ([]data.Chapter, error) {
	return sources.Scan(c.opts.Root, c.outputExt())
}

// Run scans the root and converts every pending chapter. A scan
// failure is fatal; everything after that is isolated per chapter and
// collected into the report.
func (c *Converter) Run() (*data.Report, error) {
	chapters, err := c.Scan()
	if err != nil {
		close(c.progressChan)
		return nil, err
	}
	return c.RunChapters(chapters), nil
}

// RunChapters converts the given chapters and closes the progress
// channel when done. Chapters marked converted are skipped, failures
// never stop the remaining chapters.
func (c *Converter) RunChapters(chapters []data.Chapter) *data.Report {
	defer close(c.progressChan)

	report := &data.Report{}

	if c.opts.Jobs == 1 {
		for _, chapter := range chapters {
			report.Add(c.ConvertChapter(chapter))
		}
		return report
	}

	var mu sync.Mutex
	var eg errgroup.Group
	eg.SetLimit(c.opts.Jobs)
	for _, chapter := range chapters {
		eg.Go(func() error {
			result := c.ConvertChapter(chapter)
			mu.Lock()
			report.Add(result)
			mu.Unlock()
			return nil
		})
	}
	eg.Wait()

	return report
}

// ConvertChapter runs the pipeline for one chapter: list pages, decode
// and normalize each in natural order, and stream them into the
// output builder.
func (c *Converter) ConvertChapter(chapter data.Chapter) data.Result {
	if chapter.Converted {
		c.sendProgress(Progress{Chapter: chapter.Name, Status: data.StatusSkipped, Output: chapter.OutputPath})
		return data.Result{Chapter: chapter, Status: data.StatusSkipped, Output: chapter.OutputPath}
	}

	result, err := c.convert(chapter)
	if err != nil {
		c.sendProgress(Progress{Chapter: chapter.Name, Status: data.StatusFailed, Err: err})
		return data.Result{Chapter: chapter, Status: data.StatusFailed, Err: err}
	}

	c.sendProgress(Progress{
		Chapter:    chapter.Name,
		Status:     result.Status,
		Output:     result.Output,
		TotalPages: result.Pages,
	})
	return result
}

func (c *Converter) convert(chapter data.Chapter) (data.Result, error) {
	src, err := sources.Open(chapter)
	if err != nil {
		return data.Result{}, err
	}
	defer src.Close()

	pages, err := src.Pages()
	if err != nil {
		return data.Result{}, fmt.Errorf("failed to list pages: %w", err)
	}
	if len(pages) == 0 {
		// Folders with no images are not an error, just nothing to do.
		return data.Result{Chapter: chapter, Status: data.StatusSkipped}, nil
	}

	var targetW, targetH int
	uniform := false
	if c.opts.UniformSize {
		targetW, targetH, uniform = integrations.SampleSize(src, pages, sampleLimit)
	}

	builder := c.newBuilder()
	if err := builder.Init(chapter); err != nil {
		return data.Result{}, err
	}

	for i, name := range pages {
		c.sendProgress(Progress{
			Chapter:     chapter.Name,
			CurrentPage: i + 1,
			TotalPages:  len(pages),
			Status:      data.StatusLoading,
		})

		page, err := c.loadPage(src, name)
		if err != nil {
			builder.Abort()
			return data.Result{}, &data.DecodeError{Chapter: chapter.Name, Page: name, Err: err}
		}
		if uniform {
			page = integrations.ResizePage(page, targetW, targetH, c.opts.ResizeMethod)
		}

		if err := builder.Next(page); err != nil {
			builder.Abort()
			return data.Result{}, err
		}
	}

	c.sendProgress(Progress{
		Chapter:    chapter.Name,
		TotalPages: len(pages),
		Status:     data.StatusComposing,
	})

	output, err := builder.Done()
	if err != nil {
		return data.Result{}, err
	}

	return data.Result{
		Chapter: chapter,
		Status:  data.StatusDone,
		Pages:   len(pages),
		Output:  output,
	}, nil
}

func (c *Converter) loadPage(src sources.Source, name string) (integrations.Page, error) {
	rc, err := src.Open(name)
	if err != nil {
		return integrations.Page{}, err
	}
	defer rc.Close()
	return integrations.DecodePage(name, rc)
}

func (c *Converter) newBuilder() integrations.Builder {
	if c.opts.Format == "epub" {
		return integrations.NewEPUBBuilder()
	}
	return integrations.NewPDFBuilder()
}

func (c *Converter) outputExt() string {
	if c.opts.Format == "epub" {
		return ".epub"
	}
	return ".pdf"
}

// sendProgress publishes an update without ever blocking conversion.
func (c *Converter) sendProgress(progress Progress) {
	select {
	case c.progressChan <- progress:
	default:
		// Channel full, skip this update
	}
}
