package cmd

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"comicpdf/pkg/data"
	"comicpdf/pkg/services"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert every pending chapter under the root",
	Long:  "Scan the root directory and compose one document per chapter folder or zip archive, skipping chapters whose output already exists",
	Run: func(cmd *cobra.Command, args []string) {
		root, _ := cmd.Flags().GetString("root")
		format, _ := cmd.Flags().GetString("format")
		jobs, _ := cmd.Flags().GetInt("jobs")
		uniformSize, _ := cmd.Flags().GetBool("uniform-size")
		resizeMethod, _ := cmd.Flags().GetString("resize-method")

		if format != "pdf" && format != "epub" {
			cobra.CheckErr(fmt.Errorf("unknown format %q (want pdf or epub)", format))
		}
		if jobs < 1 {
			jobs = 1
		}

		converter := services.NewConverter(services.Options{
			Root:         root,
			Format:       format,
			Jobs:         jobs,
			UniformSize:  uniformSize,
			ResizeMethod: resizeMethod,
		})

		done := make(chan struct{})
		if jobs == 1 {
			go reportWithBars(converter.Progress(), done)
		} else {
			go reportWithLines(converter.Progress(), done)
		}

		report, err := converter.Run()
		<-done
		if err != nil {
			cobra.CheckErr(err)
		}

		printSummary(report)
	},
}

// reportWithBars renders one progress bar per chapter. Only safe when
// chapters convert one at a time.
func reportWithBars(progress <-chan services.Progress, done chan<- struct{}) {
	defer close(done)

	bars := map[string]*progressbar.ProgressBar{}
	for p := range progress {
		switch p.Status {
		case data.StatusLoading:
			bar, ok := bars[p.Chapter]
			if !ok {
				bar = progressbar.NewOptions(p.TotalPages,
					progressbar.OptionSetDescription(p.Chapter),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(40),
					progressbar.OptionThrottle(65*time.Millisecond),
					progressbar.OptionOnCompletion(func() {
						fmt.Println()
					}),
				)
				bars[p.Chapter] = bar
			}
			bar.Set(p.CurrentPage)
		case data.StatusComposing:
			if bar, ok := bars[p.Chapter]; ok {
				bar.Finish()
			}
		case data.StatusDone:
			fmt.Printf("✓ %s → %s\n", p.Chapter, p.Output)
		case data.StatusSkipped:
			fmt.Printf("− %s (skipped)\n", p.Chapter)
		case data.StatusFailed:
			fmt.Printf("✗ %s: %s\n", p.Chapter, p.Err)
		}
	}
}

// reportWithLines prints one line per event. Interleaved bars are
// unreadable with concurrent chapters, plain lines are not.
func reportWithLines(progress <-chan services.Progress, done chan<- struct{}) {
	defer close(done)

	for p := range progress {
		switch p.Status {
		case data.StatusLoading:
			if p.CurrentPage == 1 {
				fmt.Printf("  %s: %d pages\n", p.Chapter, p.TotalPages)
			}
		case data.StatusDone:
			fmt.Printf("✓ %s → %s\n", p.Chapter, p.Output)
		case data.StatusSkipped:
			fmt.Printf("− %s (skipped)\n", p.Chapter)
		case data.StatusFailed:
			fmt.Printf("✗ %s: %s\n", p.Chapter, p.Err)
		}
	}
}

func printSummary(report *data.Report) {
	failed := report.Failed()
	fmt.Printf("\nConverted %d, skipped %d, failed %d\n",
		report.Converted(), report.Skipped(), len(failed))

	for _, res := range failed {
		fmt.Printf("  ✗ %s: %s\n", res.Chapter.Name, res.Err)
	}
}

func init() {
	convertCmd.Flags().StringP("format", "f", "pdf", "Output format (pdf or epub)")
	convertCmd.Flags().IntP("jobs", "j", 1, "Number of chapters to convert in parallel")
	convertCmd.Flags().Bool("uniform-size", false, "Resize every page to the chapter's most common dimensions")
	convertCmd.Flags().String("resize-method", "fit", "How to fit pages when --uniform-size is set (fit, fill or stretch)")
}
