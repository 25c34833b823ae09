// Package structure decides the final section order and titles, and infers
// a structure descriptor from a reference document's headings.
package structure

import "fmt"

// InferError represents a reference document that could not be read or parsed
type InferError struct {
	Source  string
	Message string
	Cause   error
}

func (e *InferError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("infer error: %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("infer error: %s: %s", e.Source, e.Message)
}

func (e *InferError) Unwrap() error {
	return e.Cause
}
