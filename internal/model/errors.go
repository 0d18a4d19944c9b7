package model

import "fmt"

// BindingError reports malformed client input. It maps to 400.
type BindingError struct {
	Message string // client-facing summary
	Detail  string
	Err     error
}

func (e *BindingError) Error() string {
	if e.Detail == "" {
		return e.Message
	}
	return e.Message + ": " + e.Detail
}

func (e *BindingError) Unwrap() error { return e.Err }

// NewBindingError creates a BindingError whose detail is taken from err.
func NewBindingError(message string, err error) *BindingError {
	be := &BindingError{Message: message, Err: err}
	if err != nil {
		be.Detail = err.Error()
	}
	return be
}

// DownstreamError reports a failure of the scraper collaborator. It maps to
// 502 and its Message is shown to the client verbatim.
type DownstreamError struct {
	Op      string // "search" or "product"
	Message string
	Err     error
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *DownstreamError) Unwrap() error { return e.Err }

// EncodeError reports that a successful collaborator result could not be
// serialized. It maps to 500.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return "encode result: " + e.Err.Error()
}

func (e *EncodeError) Unwrap() error { return e.Err }
