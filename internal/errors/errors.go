package errors

import (
	"errors"
	"fmt"
	"time"
)

// Error types for the term recognition core
type ErrorType string

const (
	// Recognition errors
	ErrorTypeNoText         ErrorType = "no_text"
	ErrorTypeExtraction     ErrorType = "extraction"
	ErrorTypeClassification ErrorType = "classification"

	// Caller misuse
	ErrorTypeBusy           ErrorType = "busy"
	ErrorTypeNotInitialized ErrorType = "not_initialized"

	// Configuration errors
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeVocabulary ErrorType = "vocabulary"
)

var (
	// ErrNoText is reported when text extraction produced nothing but whitespace.
	ErrNoText = errors.New("no text found in image")

	// ErrBusy is returned when a classification is requested while another one
	// is still in flight on the same adapter.
	ErrBusy = errors.New("classification already in progress")

	// ErrNotInitialized is returned when the classifier has no score source attached.
	ErrNotInitialized = errors.New("classifier not initialized, please wait for model to load")
)

// ExtractionError wraps a failure of the upstream text extraction collaborator
type ExtractionError struct {
	Type       ErrorType
	Image      string
	Underlying error
	Timestamp  time.Time
}

// NewExtractionError creates a new extraction error for the given image handle
func NewExtractionError(image string, err error) *ExtractionError {
	return &ExtractionError{
		Type:       ErrorTypeExtraction,
		Image:      image,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	if e.Image != "" {
		return fmt.Sprintf("text extraction failed for %s: %v", e.Image, e.Underlying)
	}
	return fmt.Sprintf("text extraction failed: %v", e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *ExtractionError) Unwrap() error {
	return e.Underlying
}

// ClassificationError represents a failure producing or adapting classifier scores
type ClassificationError struct {
	Type       ErrorType
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewClassificationError creates a new classification error
func NewClassificationError(op string, err error) *ClassificationError {
	return &ClassificationError{
		Type:       ErrorTypeClassification,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ClassificationError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Type, e.Operation, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ClassificationError) Unwrap() error {
	return e.Underlying
}

// VocabularyError represents a problem building or loading a vocabulary table
type VocabularyError struct {
	Type       ErrorType
	Path       string
	Category   string
	Underlying error
	Timestamp  time.Time
}

// NewVocabularyError creates a new vocabulary error
func NewVocabularyError(path, category string, err error) *VocabularyError {
	return &VocabularyError{
		Type:       ErrorTypeVocabulary,
		Path:       path,
		Category:   category,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *VocabularyError) Error() string {
	switch {
	case e.Path != "" && e.Category != "":
		return fmt.Sprintf("vocabulary %s: category %q: %v", e.Path, e.Category, e.Underlying)
	case e.Path != "":
		return fmt.Sprintf("vocabulary %s: %v", e.Path, e.Underlying)
	case e.Category != "":
		return fmt.Sprintf("vocabulary category %q: %v", e.Category, e.Underlying)
	}
	return fmt.Sprintf("vocabulary: %v", e.Underlying)
}

// Unwrap returns the underlying error
func (e *VocabularyError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// ErrorOrNil returns nil when no errors were collected
func (e *MultiError) ErrorOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}

// IsCallerMisuse reports whether err signals a misuse of the API (busy or
// uninitialized classifier) rather than a recognition failure.
func IsCallerMisuse(err error) bool {
	return errors.Is(err, ErrBusy) || errors.Is(err, ErrNotInitialized)
}
