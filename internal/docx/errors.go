package docx

import "fmt"

// StyleNotFoundError is returned when a named style is absent from the document.
type StyleNotFoundError struct {
	Name string
}

func (e *StyleNotFoundError) Error() string {
	return fmt.Sprintf("style not found: %q", e.Name)
}

// PackageError represents a failure writing or reading the document package.
type PackageError struct {
	Message string
	Cause   error
}

func (e *PackageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("package error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("package error: %s", e.Message)
}

func (e *PackageError) Unwrap() error {
	return e.Cause
}
