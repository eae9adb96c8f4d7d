package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"comicpdf/pkg/app/styles"
	"comicpdf/pkg/data"
)

type ChapterItem struct {
	Chapter data.Chapter
	Pages   int
}

type ChapterList struct {
	Items         []ChapterItem
	SelectedIndex int
	Width         int
	Height        int
}

func NewChapterList() *ChapterList {
	return &ChapterList{
		Items:         []ChapterItem{},
		SelectedIndex: 0,
		Width:         80,
		Height:        20,
	}
}

func (l *ChapterList) SetItems(items []ChapterItem) {
	l.Items = items
	if l.SelectedIndex >= len(items) && len(items) > 0 {
		l.SelectedIndex = len(items) - 1
	}
	if len(items) == 0 {
		l.SelectedIndex = 0
	}
}

func (l *ChapterList) Next() {
	if len(l.Items) == 0 {
		return
	}
	l.SelectedIndex++
	if l.SelectedIndex >= len(l.Items) {
		l.SelectedIndex = 0
	}
}

func (l *ChapterList) Prev() {
	if len(l.Items) == 0 {
		return
	}
	l.SelectedIndex--
	if l.SelectedIndex < 0 {
		l.SelectedIndex = len(l.Items) - 1
	}
}

func (l *ChapterList) Selected() *ChapterItem {
	if len(l.Items) == 0 || l.SelectedIndex >= len(l.Items) {
		return nil
	}
	return &l.Items[l.SelectedIndex]
}

// Pending returns the chapters that still need converting.
func (l *ChapterList) Pending() []data.Chapter {
	var pending []data.Chapter
	for _, item := range l.Items {
		if !item.Chapter.Converted && item.Pages > 0 {
			pending = append(pending, item.Chapter)
		}
	}
	return pending
}

func (l *ChapterList) View() string {
	if len(l.Items) == 0 {
		emptyMsg := styles.MutedStyle.Render("No chapters found under this root")
		return lipgloss.Place(l.Width, l.Height, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	var b strings.Builder

	for i, item := range l.Items {
		cardStyle := styles.CardStyle
		if i == l.SelectedIndex {
			cardStyle = styles.ActiveCardStyle
		}

		title := styles.TitleStyle.Render(item.Chapter.Name)

		storage := "folder"
		if item.Chapter.Archive {
			storage = "zip archive"
		}
		info := styles.MutedStyle.Render(
			fmt.Sprintf("%d pages • %s", item.Pages, storage),
		)

		statusText := "pending"
		statusStyle := styles.MutedStyle
		switch {
		case item.Chapter.Converted:
			statusText = "converted"
			statusStyle = styles.StatusDone
		case item.Pages == 0:
			statusText = "no pages"
		}
		status := statusStyle.Render(statusText)

		cardContent := lipgloss.JoinVertical(
			lipgloss.Left,
			title,
			info,
			status,
		)

		card := cardStyle.Width(l.Width - 4).Render(cardContent)
		b.WriteString(card)
		b.WriteString("\n")
	}

	return b.String()
}
