package services

import "fmt"

// ValidationError marks a request rejected before it touched storage.
// Its message is safe to send back to the client.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}
