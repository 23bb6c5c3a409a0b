package extraction

import (
	"errors"
	"fmt"
)

// ErrorType defines the category of an error
type ErrorType string

// Error types
const (
	StrategyError ErrorType = "strategy"
	PanicError    ErrorType = "panic"
)

// ErrNoBody is returned by strategies that need a body element when the
// document has none.
var ErrNoBody = errors.New("document has no body")

// Error carries the category and origin of a failure inside a strategy.
type Error struct {
	Type    ErrorType
	Func    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("[%s:%s] %v", e.Type, e.Func, e.Err)
	}
	return fmt.Sprintf("[%s:%s] %s: %v", e.Type, e.Func, e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with context information
func WrapError(err error, errorType ErrorType, funcName, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Type: errorType, Func: funcName, Message: message, Err: err}
}

// WrapStrategyError wraps an error returned by a strategy
func WrapStrategyError(err error, strategy, message string) error {
	return WrapError(err, StrategyError, strategy, message)
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errorType
}

// IsStrategyError returns true if the error came out of a strategy
func IsStrategyError(err error) bool {
	return IsErrorType(err, StrategyError)
}

// IsPanicError returns true if the error is a recovered panic
func IsPanicError(err error) bool {
	return IsErrorType(err, PanicError)
}
