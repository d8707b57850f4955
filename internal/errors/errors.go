package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrInvalidString   = errors.New("msgpack string was not UTF-8")
	ErrInvalidInteger  = errors.New("msgpack integer was not encodable in 64 bits")
	ErrMapKeyNotString = errors.New("map key is not a string")
	ErrNonFiniteFloat  = errors.New("float is NaN or infinite")
	ErrInvalidCode     = errors.New("invalid msgpack code")
	ErrTooDeep         = errors.New("msgpack value is nested too deeply")
	ErrFileNotFound    = errors.New("file not found")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i or pipe msgpack data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput           ErrorType = "input"
	ErrorTypeConfig          ErrorType = "config"
	ErrorTypeDecode          ErrorType = "decode"
	ErrorTypeInvalidString   ErrorType = "invalid_string"
	ErrorTypeInvalidInteger  ErrorType = "invalid_integer"
	ErrorTypeMapKeyNotString ErrorType = "map_key_not_string"
	ErrorTypeNonFiniteFloat  ErrorType = "non_finite_float"
	ErrorTypeOutput          ErrorType = "output"
	ErrorTypeUnknown         ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	// Value is the offending value, when the error is about one.
	Value interface{}
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	// Check if target is also an *AppError and if the types match
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// TypeOf returns the ErrorType of the first AppError in err's chain.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeUnknown
}

// NewInputError creates a new error related to opening or reading input
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to the configuration file
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// NewDecodeError creates a new error for malformed or truncated msgpack input
func NewDecodeError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeDecode,
		Message: message,
		Err:     err,
	}
}

// NewInvalidStringError creates a new error for a string that is not UTF-8
func NewInvalidStringError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidString,
		Message: message,
		Err:     ErrInvalidString,
	}
}

// NewInvalidIntegerError creates a new error for an integer with no 64-bit
// representation. The integer is kept in Value.
func NewInvalidIntegerError(value fmt.Stringer) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInteger,
		Message: fmt.Sprintf("integer %s has no 64-bit representation", value),
		Err:     ErrInvalidInteger,
		Value:   value,
	}
}

// NewMapKeyNotStringError creates a new error for a map key of a non-string type
func NewMapKeyNotStringError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeMapKeyNotString,
		Message: message,
		Err:     ErrMapKeyNotString,
	}
}

// NewNonFiniteFloatError creates a new error for NaN or infinite floats
func NewNonFiniteFloatError(value float64) *AppError {
	return &AppError{
		Type:    ErrorTypeNonFiniteFloat,
		Message: fmt.Sprintf("cannot represent %v in JSON", value),
		Err:     ErrNonFiniteFloat,
		Value:   value,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeDecode:
			if appErr.Err != nil {
				return fmt.Sprintf("msgpack decode error: %s: %v", appErr.Message, appErr.Err)
			}
			return fmt.Sprintf("msgpack decode error: %s", appErr.Message)
		case ErrorTypeInvalidString:
			return fmt.Sprintf("Invalid string: %s", appErr.Message)
		case ErrorTypeInvalidInteger:
			return fmt.Sprintf("Invalid integer: %s", appErr.Message)
		case ErrorTypeMapKeyNotString:
			return fmt.Sprintf("Map key is not a string: %s", appErr.Message)
		case ErrorTypeNonFiniteFloat:
			return fmt.Sprintf("Non-finite float: %s", appErr.Message)
		case ErrorTypeOutput:
			if appErr.Err != nil {
				return fmt.Sprintf("Output error: %s: %v", appErr.Message, appErr.Err)
			}
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe msgpack data to stdin."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
