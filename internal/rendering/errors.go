// Package rendering lays resolved sections out into a document, in either the
// single-column or the sidebar layout.
package rendering

import "fmt"

// BackendError reports that no document could be created at all. It is the
// only error a render returns before any output exists.
type BackendError struct {
	Message string
	Cause   error
}

func (e *BackendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document backend unavailable: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("document backend unavailable: %s", e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}

// RenderError represents a failure writing the finished document
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
