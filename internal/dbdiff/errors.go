package dbdiff

import (
	"errors"
	"fmt"
)

// Error is the single kind of fatal error a comparison run returns.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the database or file involved, if any.
	Path string

	// ArtifactID is set for extraction errors.
	ArtifactID int64

	// Err is the underlying cause.
	Err error
}

// ErrorCode categorizes fatal comparison errors.
type ErrorCode string

const (
	// ErrCodeSetup covers a missing input database, an unreadable schema
	// or a malformed expected table.
	ErrCodeSetup ErrorCode = "SETUP"

	// ErrCodeExtraction indicates the attributes of one artifact could not
	// be read.
	ErrCodeExtraction ErrorCode = "EXTRACTION"

	// ErrCodeIO indicates a dump, diff or temp file could not be written.
	ErrCodeIO ErrorCode = "IO"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsSetupError returns true if err is a setup error.
func IsSetupError(err error) bool {
	return hasCode(err, ErrCodeSetup)
}

// IsExtractionError returns true if err is an extraction error.
func IsExtractionError(err error) bool {
	return hasCode(err, ErrCodeExtraction)
}

// IsIOError returns true if err is an I/O error.
func IsIOError(err error) bool {
	return hasCode(err, ErrCodeIO)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

func setupError(path, message string, err error) *Error {
	return &Error{Code: ErrCodeSetup, Message: message, Path: path, Err: err}
}

func ioError(path, message string, err error) *Error {
	return &Error{Code: ErrCodeIO, Message: message, Path: path, Err: err}
}

func extractionError(path string, artifactID int64, err error) *Error {
	return &Error{
		Code:       ErrCodeExtraction,
		Message:    fmt.Sprintf("could not read attributes of artifact id #%d", artifactID),
		Path:       path,
		ArtifactID: artifactID,
		Err:        err,
	}
}
