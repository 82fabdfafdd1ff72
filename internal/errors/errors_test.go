package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "error with wrapped error",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "failed to read file",
				Err:     errors.New("file not found"),
			},
			expected: "input: failed to read file: file not found",
		},
		{
			name: "error without wrapped error",
			appError: &AppError{
				Type:    ErrorTypeParsing,
				Message: "JSON syntax error at offset 4",
				Err:     nil,
			},
			expected: "parsing: JSON syntax error at offset 4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("wrapped error")
	appErr := &AppError{
		Type:    ErrorTypeInput,
		Message: "test message",
		Err:     wrappedErr,
	}

	result := appErr.Unwrap()
	assert.Equal(t, wrappedErr, result)
}

func TestAppError_Is(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		target   error
		expected bool
	}{
		{
			name: "same type",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target: &AppError{
				Type:    ErrorTypeInput,
				Message: "different message",
				Err:     errors.New("some error"),
			},
			expected: true,
		},
		{
			name: "different type",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target: &AppError{
				Type:    ErrorTypeParsing,
				Message: "test message",
				Err:     nil,
			},
			expected: false,
		},
		{
			name: "not an AppError",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target:   errors.New("standard error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Is(tt.target)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestUserFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "input error",
			err:      NewInputError("failed to read file", nil),
			expected: "Input error: failed to read file",
		},
		{
			name:     "parsing error",
			err:      NewParsingError("invalid JSON syntax", nil),
			expected: "JSON parsing error: invalid JSON syntax",
		},
		{
			name:     "build error",
			err:      NewBuildError("no records found in 'empty.json'", nil),
			expected: "Conversion error: no records found in 'empty.json'",
		},
		{
			name:     "output error",
			err:      NewOutputError("failed to save workbook", nil),
			expected: "Output error: failed to save workbook",
		},
		{
			name:     "config error",
			err:      NewConfigError("chunk must be at least 1", nil),
			expected: "Configuration error: chunk must be at least 1",
		},
		{
			name:     "wrapped app error",
			err:      fmt.Errorf("batch: %w", NewInputError("file 'a.txt' skipped", ErrInvalidExtension)),
			expected: "Input error: file 'a.txt' skipped",
		},
		{
			name:     "standard error - invalid extension",
			err:      ErrInvalidExtension,
			expected: "Error: Invalid file format. Please provide a JSON file.",
		},
		{
			name:     "standard error - no JSON files",
			err:      ErrNoJSONFiles,
			expected: "Error: No JSON files found in the input directory.",
		},
		{
			name:     "standard error - empty input",
			err:      ErrEmptyInput,
			expected: "Error: The input is empty. Please provide valid JSON data.",
		},
		{
			name:     "standard error - invalid JSON",
			err:      ErrInvalidJSON,
			expected: "Error: The input contains invalid JSON. Please check your JSON syntax.",
		},
		{
			name:     "unknown error",
			err:      errors.New("some unknown error"),
			expected: "Error: some unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := UserFriendlyError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAppError_ErrorsIsSentinel(t *testing.T) {
	err := NewInputError("input file 'a.json' is empty", ErrFileEmpty)
	assert.True(t, errors.Is(err, ErrFileEmpty))
	assert.True(t, errors.Is(err, &AppError{Type: ErrorTypeInput}))
	assert.False(t, errors.Is(err, &AppError{Type: ErrorTypeOutput}))
}
