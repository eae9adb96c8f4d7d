package data

// Chapter lifecycle states, as reported on the progress channel and
// shown in the TUI.
const (
	StatusPending   = "pending"
	StatusLoading   = "loading"
	StatusComposing = "composing"
	StatusDone      = "done"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// Chapter is one unit of work: a subfolder (or zip archive) of page
// images that produces a single output document.
type Chapter struct {
	Name       string // folder or archive stem, also the output file stem
	Path       string // path to the folder or .zip archive
	Archive    bool   // chapter is a zip archive rather than a folder
	OutputPath string // destination <root>/<name>.pdf (or .epub)
	Converted  bool   // output already exists on disk
}

// Result records the outcome of one chapter conversion.
type Result struct {
	Chapter Chapter
	Status  string // StatusDone, StatusSkipped or StatusFailed
	Pages   int
	Output  string
	Err     error
}

// Report accumulates per-chapter results for the end-of-run summary.
type Report struct {
	Results []Result
}

func (r *Report) Add(res Result) {
	r.Results = append(r.Results, res)
}

// Converted returns the number of chapters that produced an output file.
func (r *Report) Converted() int {
	return r.count(StatusDone)
}

// Skipped returns the number of chapters left alone because their
// output already existed or they contained no pages.
func (r *Report) Skipped() int {
	return r.count(StatusSkipped)
}

// Failed returns the results of chapters that were abandoned.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			failed = append(failed, res)
		}
	}
	return failed
}

func (r *Report) count(status string) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}
