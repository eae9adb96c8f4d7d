package cmd

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"comicpdf/pkg/services"
	"comicpdf/pkg/sources"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the chapters under the root",
	Long:  "Display every chapter folder and zip archive under the root in a formatted table",
	Run: func(cmd *cobra.Command, args []string) {
		root, _ := cmd.Flags().GetString("root")

		converter := services.NewConverter(services.Options{Root: root})
		chapters, err := converter.Scan()
		if err != nil {
			cobra.CheckErr(err)
		}

		if len(chapters) == 0 {
			fmt.Println("📂 No chapters found. Each subfolder or zip archive of the root counts as one chapter.")
			return
		}

		columns := []table.Column{
			{Title: "Chapter", Width: 40},
			{Title: "Storage", Width: 12},
			{Title: "Pages", Width: 8},
			{Title: "Status", Width: 12},
		}

		rows := []table.Row{}
		for _, chapter := range chapters {
			storage := "folder"
			if chapter.Archive {
				storage = "zip"
			}

			pages := "?"
			if src, err := sources.Open(chapter); err == nil {
				if names, err := src.Pages(); err == nil {
					pages = fmt.Sprintf("%d", len(names))
				}
				src.Close()
			}

			status := "pending"
			if chapter.Converted {
				status = "converted"
			}

			rows = append(rows, table.Row{
				truncateString(chapter.Name, 38),
				storage,
				pages,
				status,
			})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(false),
			table.WithHeight(len(rows)),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(false)
		t.SetStyles(s)

		fmt.Printf("\n📂 %s (%d chapters)\n\n", root, len(chapters))
		fmt.Println(t.View())
	},
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
