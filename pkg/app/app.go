package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"comicpdf/pkg/app/screens"
	"comicpdf/pkg/services"
)

type App struct {
	opts services.Options
}

func NewApp(opts services.Options) *App {
	return &App{opts: opts}
}

func (a *App) Run() error {
	model := screens.NewRootScreen(a.opts)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
