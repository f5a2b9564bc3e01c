package service

// ValidationError reports an invalid request, surfaced to the caller
// synchronously before any I/O happens.
type ValidationError struct {
	message string
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) ValidationError {
	return ValidationError{message: message}
}

// Error returns the error message.
func (e ValidationError) Error() string {
	return e.message
}
