package data

import "fmt"

// ScanError means the root directory could not be read. It is fatal
// and aborts the run before any chapter is processed.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("failed to scan %s: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// DecodeError means one page image could not be decoded. The whole
// chapter is abandoned so the output never silently misses pages.
type DecodeError struct {
	Chapter string
	Page    string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("chapter %s: failed to decode %s: %v", e.Chapter, e.Page, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// WriteError means the output document could not be written. The
// chapter is abandoned but the run continues with the next one.
type WriteError struct {
	Chapter string
	Path    string
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("chapter %s: failed to write %s: %v", e.Chapter, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
