package dom

import (
	"errors"
	"fmt"
)

// DOMError represents a DOM exception with a name and message.
type DOMError struct {
	Name    string
	Message string
}

func (e *DOMError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Common DOM error names.
const (
	NotFoundErrorName         = "NotFoundError"
	HierarchyRequestErrorName = "HierarchyRequestError"
	NotSupportedErrorName     = "NotSupportedError"
	SyntaxErrorName           = "SyntaxError"
	InvalidCharacterErrorName = "InvalidCharacterError"
	IndexSizeErrorName        = "IndexSizeError"
)

// ErrIndexSize creates an IndexSizeError for out-of-range text offsets.
func ErrIndexSize(message string) *DOMError {
	return &DOMError{Name: IndexSizeErrorName, Message: message}
}

// ErrNotFound creates a NotFoundError. It is returned when a node passed as
// the reference or old child of a mutation is not a child of the receiver.
func ErrNotFound(message string) *DOMError {
	return &DOMError{Name: NotFoundErrorName, Message: message}
}

// ErrHierarchyRequest creates a HierarchyRequestError.
func ErrHierarchyRequest(message string) *DOMError {
	return &DOMError{Name: HierarchyRequestErrorName, Message: message}
}

// ErrNotSupported creates a NotSupportedError.
func ErrNotSupported(message string) *DOMError {
	return &DOMError{Name: NotSupportedErrorName, Message: message}
}

// ErrSyntax creates a SyntaxError.
func ErrSyntax(message string) *DOMError {
	return &DOMError{Name: SyntaxErrorName, Message: message}
}

// ErrInvalidCharacter creates an InvalidCharacterError.
func ErrInvalidCharacter(message string) *DOMError {
	return &DOMError{Name: InvalidCharacterErrorName, Message: message}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	return hasName(err, NotFoundErrorName)
}

// IsHierarchyRequest reports whether err is a HierarchyRequestError.
func IsHierarchyRequest(err error) bool {
	return hasName(err, HierarchyRequestErrorName)
}

func hasName(err error, name string) bool {
	var domErr *DOMError
	return errors.As(err, &domErr) && domErr.Name == name
}

// ListenerError wraps a failure raised by an event listener during dispatch.
// A panic inside the listener is converted into a ListenerError as well.
type ListenerError struct {
	EventType string
	Phase     EventPhase
	Err       error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener for %q failed during %s: %v", e.EventType, e.Phase, e.Err)
}

// Unwrap returns the underlying listener failure.
func (e *ListenerError) Unwrap() error {
	return e.Err
}
