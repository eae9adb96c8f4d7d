package components

import (
	"fmt"
	"strings"

	"comicpdf/pkg/app/styles"
	"comicpdf/pkg/data"
	"comicpdf/pkg/services"
)

// ConvertTracker renders the chapters currently being converted.
// Finished and skipped chapters drop off; failures stay visible until
// the next Clear so errors are not lost in the scroll.
type ConvertTracker struct {
	active map[string]*services.Progress
	width  int
}

func NewConvertTracker(width int) *ConvertTracker {
	return &ConvertTracker{
		active: make(map[string]*services.Progress),
		width:  width,
	}
}

func (t *ConvertTracker) Update(progress services.Progress) {
	switch progress.Status {
	case data.StatusDone, data.StatusSkipped:
		delete(t.active, progress.Chapter)
	default:
		prog := progress // Copy
		t.active[progress.Chapter] = &prog
	}
}

func (t *ConvertTracker) Clear() {
	t.active = make(map[string]*services.Progress)
}

func (t *ConvertTracker) HasActive() bool {
	return len(t.active) > 0
}

func (t *ConvertTracker) View() string {
	if len(t.active) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Converting"))
	b.WriteString("\n\n")

	for _, progress := range t.active {
		b.WriteString(styles.TextStyle.Render(progress.Chapter))
		b.WriteString("\n")

		statusText := progress.Status
		if progress.TotalPages > 0 && progress.Status == data.StatusLoading {
			percentage := float64(progress.CurrentPage) / float64(progress.TotalPages) * 100
			statusText = fmt.Sprintf("%s (%d/%d pages - %.0f%%)",
				progress.Status, progress.CurrentPage, progress.TotalPages, percentage)

			bar := renderProgressBar(progress.CurrentPage, progress.TotalPages, t.width-4)
			b.WriteString(bar)
			b.WriteString("\n")
		}

		statusStyle := styles.StatusStyle(progress.Status)
		b.WriteString(statusStyle.Render(statusText))
		b.WriteString("\n")

		if progress.Err != nil {
			errMsg := styles.StatusError.Render(fmt.Sprintf("Error: %s", progress.Err))
			b.WriteString(errMsg)
			b.WriteString("\n")
		}

		b.WriteString("\n")
	}

	return b.String()
}

func renderProgressBar(current, total, width int) string {
	if total == 0 {
		return ""
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return styles.ProgressBarStyle.Render(bar)
}
