package screens

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"comicpdf/pkg/app/components"
	"comicpdf/pkg/app/styles"
	"comicpdf/pkg/data"
	"comicpdf/pkg/services"
	"comicpdf/pkg/sources"
)

type LibraryScreen struct {
	opts        services.Options
	chapterList *components.ChapterList
	tracker     *components.ConvertTracker

	converting bool
	progress   <-chan services.Progress
	runDone    chan *data.Report
	summary    string

	width  int
	height int
	err    error
}

func NewLibraryScreen(opts services.Options) *LibraryScreen {
	return &LibraryScreen{
		opts:        opts,
		chapterList: components.NewChapterList(),
		tracker:     components.NewConvertTracker(60),
	}
}

func (s *LibraryScreen) Init() tea.Cmd {
	return s.loadChapters
}

func (s *LibraryScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.chapterList.Width = msg.Width - 4
		s.chapterList.Height = msg.Height - 10

	case tea.KeyMsg:
		if s.converting {
			break // Keys are inert while a run is in flight
		}
		switch msg.String() {
		case "up", "k":
			s.chapterList.Prev()
		case "down", "j":
			s.chapterList.Next()
		case "r":
			return s, s.loadChapters
		case "enter":
			selected := s.chapterList.Selected()
			if selected != nil && !selected.Chapter.Converted && selected.Pages > 0 {
				return s, s.startConversion([]data.Chapter{selected.Chapter})
			}
		case "a":
			pending := s.chapterList.Pending()
			if len(pending) > 0 {
				return s, s.startConversion(pending)
			}
		}

	case chaptersLoadedMsg:
		s.chapterList.SetItems(msg.items)
		s.err = msg.err

	case progressMsg:
		s.tracker.Update(services.Progress(msg))
		return s, s.waitForProgress()

	case convertDoneMsg:
		s.converting = false
		s.tracker.Clear()
		s.summary = summarize(msg.report)
		return s, s.loadChapters
	}

	return s, nil
}

func (s *LibraryScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render("Chapters")

	var errorMsg string
	if s.err != nil {
		errorMsg = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err)) + "\n\n"
	}

	var summaryMsg string
	if s.summary != "" {
		summaryMsg = styles.SubtitleStyle.Render(s.summary) + "\n\n"
	}

	body := s.chapterList.View()
	if s.converting {
		body = s.tracker.View()
	}

	help := styles.HelpStyle.Render(
		"↑/k: up • ↓/j: down • enter: convert chapter • a: convert all • r: refresh • q: quit",
	)

	return fmt.Sprintf("%s\n\n%s%s%s\n%s", header, errorMsg, summaryMsg, body, help)
}

// loadChapters scans the root and counts pages per chapter.
func (s *LibraryScreen) loadChapters() tea.Msg {
	chapters, err := services.NewConverter(s.opts).Scan()
	if err != nil {
		return chaptersLoadedMsg{err: err}
	}

	items := make([]components.ChapterItem, 0, len(chapters))
	for _, chapter := range chapters {
		items = append(items, components.ChapterItem{
			Chapter: chapter,
			Pages:   countPages(chapter),
		})
	}
	return chaptersLoadedMsg{items: items}
}

func (s *LibraryScreen) startConversion(chapters []data.Chapter) tea.Cmd {
	converter := services.NewConverter(s.opts)
	s.progress = converter.Progress()
	s.runDone = make(chan *data.Report, 1)
	s.converting = true
	s.summary = ""

	runDone := s.runDone
	go func() {
		runDone <- converter.RunChapters(chapters)
	}()

	return s.waitForProgress()
}

// waitForProgress relays the next converter event into the Update
// loop; once the channel closes the final report is ready.
func (s *LibraryScreen) waitForProgress() tea.Cmd {
	progress := s.progress
	runDone := s.runDone
	return func() tea.Msg {
		p, ok := <-progress
		if !ok {
			return convertDoneMsg{report: <-runDone}
		}
		return progressMsg(p)
	}
}

func countPages(chapter data.Chapter) int {
	src, err := sources.Open(chapter)
	if err != nil {
		return 0
	}
	defer src.Close()

	pages, err := src.Pages()
	if err != nil {
		return 0
	}
	return len(pages)
}

func summarize(report *data.Report) string {
	if report == nil {
		return ""
	}
	return fmt.Sprintf("%d converted, %d skipped, %d failed",
		report.Converted(), report.Skipped(), len(report.Failed()))
}

// Messages
type chaptersLoadedMsg struct {
	items []components.ChapterItem
	err   error
}

type progressMsg services.Progress

type convertDoneMsg struct {
	report *data.Report
}
