package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrFileNotFound indicates the configuration file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")

	// ErrUnsupportedFormat indicates a file extension with no decoder.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrValidationFailed indicates a setting holds an invalid value.
	ErrValidationFailed = errors.New("validation failed")
)

// ParseError is a config file that could not be decoded.
type ParseError struct {
	Source string
	Format string
	// Line and Column are 1-based and zero when the decoder gives no position.
	Line, Column int
	Err          error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: invalid %s: %v", e.Source, e.Line, e.Column, e.Format, e.Err)
	}
	return fmt.Sprintf("%s: invalid %s: %v", e.Source, e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError describes one invalid setting.
type ValidationError struct {
	// Path is the dotted setting path, e.g. history.max_depth.
	Path string
	// Message describes the problem.
	Message string
	// Value is the invalid value.
	Value any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Path, e.Message, e.Value)
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
