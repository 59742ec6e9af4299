package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// AppError is the error shape surfaced to HTTP and CLI callers
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap attaches a message to err, keeping the code of an inner AppError if there is one
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf is Wrap with a formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode attaches a code to err
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// GetCode returns the outermost AppError code in the chain, or CodeUnknown
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeDatabaseError   = "DATABASE_ERROR"
	CodeDatasetError    = "DATASET_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeIncompleteInput = "INCOMPLETE_INPUT"
	CodeModelInvocation = "MODEL_INVOCATION_ERROR"
	CodeNotReady        = "NOT_READY"
	CodeUnknown         = "UNKNOWN"
)

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{Code: CodeDatabaseError, Message: message, Cause: cause}
}

func DatasetError(message string, cause error) *AppError {
	return &AppError{Code: CodeDatasetError, Message: message, Cause: cause}
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// IncompleteInput reports the features that still need an answer
func IncompleteInput(missing []string, cause error) *AppError {
	return &AppError{
		Code:    CodeIncompleteInput,
		Message: fmt.Sprintf("please answer all questions before predicting (missing: %s)", strings.Join(missing, ", ")),
		Cause:   cause,
	}
}

func ModelInvocation(cause error) *AppError {
	return &AppError{Code: CodeModelInvocation, Message: "prediction error", Cause: cause}
}

// NotReady reports that no trained model has been published yet
func NotReady(cause error) *AppError {
	return &AppError{Code: CodeNotReady, Message: "model is not trained yet", Cause: cause}
}
