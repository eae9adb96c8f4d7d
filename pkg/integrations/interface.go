package integrations

import "comicpdf/pkg/data"

// Builder streams the decoded pages of one chapter into an output
// document. Init is called once, Next once per page in order, and Done
// finalizes the file and returns its path. Abort releases any staging
// state when the chapter is abandoned before Done.
type Builder interface {
	Init(chapter data.Chapter) error
	Next(page Page) error
	Done() (string, error)
	Abort()
}
