package ingest

import "fmt"

// StreamError reports that the input could not be read. It is the only error
// the parser returns; malformed citation text never produces one.
type StreamError struct {
	// Line is the number of lines read successfully before the failure.
	Line int
	Err  error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("ingest: read failed after line %d: %v", e.Line, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }
