package marketplace

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport matches failures to reach the marketplace (network, timeout)
	ErrTransport = errors.New("marketplace transport failure")
	// ErrUnexpectedStatus matches non-200 responses
	ErrUnexpectedStatus = errors.New("marketplace returned unexpected status")
	// ErrMalformedPage matches bodies that are not a page document or lack content
	ErrMalformedPage = errors.New("marketplace returned malformed page")
	// ErrInvalidStatus is returned for an order status outside the marketplace enumeration
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidPage is returned for a negative page index
	ErrInvalidPage = errors.New("invalid page index")
)

// FailureKind classifies a failed page fetch
type FailureKind string

const (
	FailureTransport FailureKind = "transport"
	FailureStatus    FailureKind = "status"
	FailureDecode    FailureKind = "decode"
	// FailureRequest is a page request rejected before it was sent
	FailureRequest FailureKind = "request"
)

// FetchError is the tagged failure returned by FetchPage
type FetchError struct {
	Kind       FailureKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == FailureStatus {
		return fmt.Sprintf("marketplace %s failure (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("marketplace %s failure: %v", e.Kind, e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause to errors.Is
func (e *FetchError) Unwrap() []error {
	errs := make([]error, 0, 2)
	switch e.Kind {
	case FailureTransport:
		errs = append(errs, ErrTransport)
	case FailureStatus:
		errs = append(errs, ErrUnexpectedStatus)
	case FailureDecode:
		errs = append(errs, ErrMalformedPage)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
