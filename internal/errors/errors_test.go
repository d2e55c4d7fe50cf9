package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestExtractionError(t *testing.T) {
	underlying := errors.New("camera frame unreadable")
	err := NewExtractionError("file:///tmp/capture.jpg", underlying)

	if err.Type != ErrorTypeExtraction {
		t.Errorf("Expected Type to be ErrorTypeExtraction, got %v", err.Type)
	}

	if !errors.Is(err, underlying) {
		t.Errorf("Expected error to unwrap to underlying error")
	}

	expectedMsg := "text extraction failed for file:///tmp/capture.jpg: camera frame unreadable"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}

	anonymous := NewExtractionError("", underlying)
	if anonymous.Error() != "text extraction failed: camera frame unreadable" {
		t.Errorf("Unexpected message without image: %q", anonymous.Error())
	}
}

func TestClassificationError(t *testing.T) {
	underlying := errors.New("length mismatch")
	err := NewClassificationError("adapt", underlying)

	if err.Type != ErrorTypeClassification {
		t.Errorf("Expected Type to be ErrorTypeClassification, got %v", err.Type)
	}

	if !errors.Is(err, underlying) {
		t.Errorf("Expected error to unwrap to underlying error")
	}

	expectedMsg := "classification adapt failed: length mismatch"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
}

func TestVocabularyError(t *testing.T) {
	underlying := errors.New("no surface forms")

	tests := []struct {
		path     string
		category string
		expected string
	}{
		{"terms.kdl", "stack", `vocabulary terms.kdl: category "stack": no surface forms`},
		{"terms.kdl", "", "vocabulary terms.kdl: no surface forms"},
		{"", "stack", `vocabulary category "stack": no surface forms`},
		{"", "", "vocabulary: no surface forms"},
	}

	for _, tc := range tests {
		err := NewVocabularyError(tc.path, tc.category, underlying)
		if err.Error() != tc.expected {
			t.Errorf("Expected %q, got %q", tc.expected, err.Error())
		}
		if !errors.Is(err, underlying) {
			t.Errorf("Expected error to unwrap to underlying error")
		}
	}
}

func TestConfigError(t *testing.T) {
	underlying := errors.New("must be within [0,1]")
	err := NewConfigError("matching.fuzzy_threshold", "1.5", underlying)

	expectedMsg := "config error for field matching.fuzzy_threshold (value 1.5): must be within [0,1]"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}

	if !errors.Is(err, underlying) {
		t.Errorf("Expected error to unwrap to underlying error")
	}
}

func TestMultiError(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	multi := NewMultiError([]error{err1, nil, err2})
	if len(multi.Errors) != 2 {
		t.Fatalf("Expected nil errors to be filtered, got %d errors", len(multi.Errors))
	}

	if !errors.Is(multi, err1) || !errors.Is(multi, err2) {
		t.Errorf("Expected multi error to match both wrapped errors")
	}

	if NewMultiError(nil).ErrorOrNil() != nil {
		t.Errorf("Expected ErrorOrNil to return nil for empty multi error")
	}

	single := NewMultiError([]error{err1})
	if single.Error() != "first" {
		t.Errorf("Expected single error message, got %q", single.Error())
	}
}

func TestIsCallerMisuse(t *testing.T) {
	if !IsCallerMisuse(ErrBusy) {
		t.Error("ErrBusy should be caller misuse")
	}
	if !IsCallerMisuse(fmt.Errorf("classify: %w", ErrNotInitialized)) {
		t.Error("wrapped ErrNotInitialized should be caller misuse")
	}
	if IsCallerMisuse(NewExtractionError("", errors.New("boom"))) {
		t.Error("extraction errors are not caller misuse")
	}
}
