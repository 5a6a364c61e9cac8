package domain

import (
	"errors"
	"fmt"
)

// ErrOutOfRange returned when a payout row index doesn't exist
var ErrOutOfRange = errors.New("index out of range")

// ErrInvalidRate returned for negative or non-finite payout rates
var ErrInvalidRate = errors.New("invalid payout rate")

// ErrNoArticle returned when an article index doesn't exist in the session
var ErrNoArticle = errors.New("article not found")

// UpstreamError is returned when the news provider responds with a non-ok status
type UpstreamError struct {
	Status  string
	Code    string
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("upstream error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("upstream error: %s", e.Message)
}

// TransportError is returned when the news provider can't be reached or its response can't be read
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusOf maps a fetch error to its status, nil error means success
func StatusOf(err error) FetchStatus {
	if err == nil {
		return FetchOK
	}
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return FetchUpstreamError
	}
	return FetchTransportError
}
