package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Encoding errors
	ErrUnseenValue   = errors.New("unseen categorical value")
	ErrUnknownColumn = errors.New("unknown column")
	ErrOrdinalRange  = errors.New("ordinal out of range")

	// Questionnaire errors
	ErrIncompleteInput = errors.New("incomplete input")
	ErrInvalidAnswer   = errors.New("invalid answer")
	ErrSessionNotFound = errors.New("session not found")
	ErrNoQuestion      = errors.New("no question for feature")

	// Model errors
	ErrModelInvocation  = errors.New("model invocation failed")
	ErrNotTrained       = errors.New("model not trained")
	ErrNotReady         = errors.New("predictor not ready")
	ErrInsufficientData = errors.New("insufficient data for training")

	// History errors
	ErrPredictionNotFound = errors.New("prediction not found")
)

// Error constructors with context
func NewUnseenValueError(column, value string) error {
	return fmt.Errorf("%w %q for column %s", ErrUnseenValue, value, column)
}

func NewUnknownColumnError(column string) error {
	return fmt.Errorf("%w: %s", ErrUnknownColumn, column)
}

func NewInvalidAnswerError(feature, reason string) error {
	return fmt.Errorf("%w for %s: %s", ErrInvalidAnswer, feature, reason)
}

// Error checking helpers
func IsUnseenValue(err error) bool {
	return errors.Is(err, ErrUnseenValue)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrIncompleteInput) ||
		errors.Is(err, ErrInvalidAnswer) ||
		errors.Is(err, ErrNoQuestion)
}
