package services

import (
	"fmt"
	"net/http"

	"github.com/desertthunder/trackfetch/internal/shared"
)

// OutcomeKind enumerates the ways a search request can end.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeAuthFailure
	OutcomeClientError
	OutcomeServerError
	OutcomeTransportFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeAuthFailure:
		return "auth_failure"
	case OutcomeClientError:
		return "client_error"
	case OutcomeServerError:
		return "server_error"
	case OutcomeTransportFailure:
		return "transport_failure"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the classified result of one search request.
//
// Body is set only for [OutcomeSuccess], Cause only for [OutcomeTransportFailure].
type Outcome struct {
	Kind       OutcomeKind
	StatusCode int
	Body       []byte
	Cause      error
}

// Classify maps a response status onto an [Outcome].
func Classify(status int, body []byte) Outcome {
	switch {
	case status == http.StatusOK:
		return Outcome{Kind: OutcomeSuccess, StatusCode: status, Body: body}
	case status == http.StatusUnauthorized:
		return Outcome{Kind: OutcomeAuthFailure, StatusCode: status}
	case status >= 400 && status < 500:
		return Outcome{Kind: OutcomeClientError, StatusCode: status}
	default:
		return Outcome{Kind: OutcomeServerError, StatusCode: status}
	}
}

// TransportFailure wraps err as an [OutcomeTransportFailure].
func TransportFailure(err error) Outcome {
	return Outcome{Kind: OutcomeTransportFailure, Cause: err}
}

// Err returns nil for success and a wrapped sentinel error otherwise.
func (o Outcome) Err() error {
	switch o.Kind {
	case OutcomeSuccess:
		return nil
	case OutcomeAuthFailure:
		return fmt.Errorf("%w: status %d", shared.ErrUnauthorized, o.StatusCode)
	case OutcomeClientError, OutcomeServerError:
		return &StatusError{StatusCode: o.StatusCode, Kind: o.Kind}
	default:
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, o.Cause)
	}
}

// StatusError reports a response status the pipeline has no handling for.
type StatusError struct {
	StatusCode int
	Kind       OutcomeKind
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %d %s (%s)", shared.ErrUnexpectedStatus, e.StatusCode, http.StatusText(e.StatusCode), e.Kind)
}

func (e *StatusError) Unwrap() error {
	return shared.ErrUnexpectedStatus
}
