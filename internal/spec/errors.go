package spec

import "fmt"

// ErrorCode categorizes loader and transformation errors.
type ErrorCode string

const (
	InputError      ErrorCode = "InputError"
	NetworkError    ErrorCode = "NetworkError"
	ParseError      ErrorCode = "ParseError"
	ValidationError ErrorCode = "ValidationError"
	ConversionError ErrorCode = "ConversionError"

	// Input defects found while building the view model.
	MissingIdentifier   ErrorCode = "MissingIdentifier"
	UnresolvedReference ErrorCode = "UnresolvedReference"
	InvalidOperation    ErrorCode = "InvalidOperation"
	InvalidParameter    ErrorCode = "InvalidParameter"
	DuplicateMethodName ErrorCode = "DuplicateMethodName"
)

// SpecError is a structured error with optional location and JSON Pointer.
type SpecError struct {
	Code        ErrorCode
	Message     string
	Location    string // file path or URL
	JSONPointer string // e.g. "#/paths/~1pets/get"
	Cause       error
}

func (e *SpecError) Error() string { return e.Message }
func (e *SpecError) Unwrap() error { return e.Cause }

func defectf(code ErrorCode, pointer, format string, args ...any) *SpecError {
	return &SpecError{Code: code, JSONPointer: pointer, Message: fmt.Sprintf(format, args...)}
}
