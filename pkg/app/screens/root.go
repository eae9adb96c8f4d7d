package screens

import (
	tea "github.com/charmbracelet/bubbletea"

	"comicpdf/pkg/services"
)

// RootScreen owns the top-level key handling and delegates everything
// else to the library screen.
type RootScreen struct {
	library *LibraryScreen

	width  int
	height int
}

func NewRootScreen(opts services.Options) *RootScreen {
	return &RootScreen{
		library: NewLibraryScreen(opts),
	}
}

func (r *RootScreen) Init() tea.Cmd {
	return r.library.Init()
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return r, tea.Quit
		}
	}

	newModel, cmd := r.library.Update(msg)
	r.library = newModel.(*LibraryScreen)
	return r, cmd
}

func (r *RootScreen) View() string {
	return r.library.View()
}
