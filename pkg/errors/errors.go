package errors

import (
	"fmt"
	"runtime"
	"strings"
)

// Error carries an HTTP-shaped code alongside the message so the handler
// layer can map model failures to responses without string matching.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
	Stack   string `json:"stack,omitempty"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithCode creates a new error with code
func WithCode(code int, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Stack:   captureStack(),
	}
}

// WithCodef creates a new error with code and formatted message
func WithCodef(code int, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(),
	}
}

// Wrap wraps an error with message
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
		Stack:   captureStack(),
	}
}

// New creates a new error
func New(message string) *Error {
	return &Error{
		Message: message,
		Stack:   captureStack(),
	}
}

func captureStack() string {
	buf := make([]byte, 1024)
	n := runtime.Stack(buf, false)
	stack := string(buf[:n])

	// drop the captureStack frames themselves
	lines := strings.Split(stack, "\n")
	if len(lines) > 6 {
		stack = strings.Join(lines[6:], "\n")
	}
	return strings.TrimSpace(stack)
}

// GetCode returns the error code, or 0 for foreign errors.
func GetCode(err error) int {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return 0
}

// GetMessage returns the error message
func GetMessage(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// Cause returns the underlying error
func Cause(err error) error {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Err != nil {
			err = e.Err
		} else {
			return err
		}
	}
	return err
}
