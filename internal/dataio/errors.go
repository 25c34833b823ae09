package dataio

import "fmt"

// ReadError represents a failure to read an input file
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read error: %s: %v", e.Path, e.Cause)
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}

// DecodeError represents a file that was read but could not be parsed
type DecodeError struct {
	Path   string
	Format string
	Cause  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decode error: invalid %s: %v", e.Format, e.Cause)
	}
	return fmt.Sprintf("decode error: %s: invalid %s: %v", e.Path, e.Format, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// WriteError represents a failure to write an output file
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write error: %s: %v", e.Path, e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}
