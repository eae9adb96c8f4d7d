package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"comicpdf/pkg/app"
	"comicpdf/pkg/services"
)

var rootCmd = &cobra.Command{
	Use:   "comicpdf",
	Short: "Turn folders of comic pages into PDFs",
	Long:  "Scan a directory of comic chapters and compose one PDF per folder, with a TUI or plain CLI",
	Run: func(cmd *cobra.Command, args []string) {
		// Launch TUI by default
		root, _ := cmd.Flags().GetString("root")
		a := app.NewApp(services.Options{Root: root})
		if err := a.Run(); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("root", "r", ".", "Directory containing the chapter folders")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(listCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
