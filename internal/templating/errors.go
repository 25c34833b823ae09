// Package templating loads template descriptors, repairs invalid fields and
// parses seed keywords.
package templating

import "fmt"

// LoadError represents an error reading or decoding a template file
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("load error: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
