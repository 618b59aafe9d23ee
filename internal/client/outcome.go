package client

import (
	"fmt"

	"github.com/manufgue/Monitor/internal/model"
)

// OutcomeKind tags the classification of a single endpoint fetch.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeUnauthorized
	OutcomeNotFound
	OutcomeServerError
	OutcomeTransport
	OutcomeMalformed
)

// String returns a short lower-case label for the kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeNotFound:
		return "not found"
	case OutcomeServerError:
		return "server error"
	case OutcomeTransport:
		return "transport"
	case OutcomeMalformed:
		return "malformed"
	}
	return "unknown"
}

// Outcome is the terminal classification of one fetch against one region.
// Per-endpoint failures travel through here, never through Go error returns;
// the engine absorbs them into the run result.
type Outcome struct {
	Kind    OutcomeKind
	Records []model.PctRecord // OutcomeSuccess only
	Status  int               // HTTP status for OutcomeNotFound and OutcomeServerError
	Title   string            // structured error title, when the body carried one
	Message string            // structured error message, or a raw body excerpt
	Err     error             // cause for OutcomeTransport and OutcomeMalformed
}

// Success wraps decoded records.
func Success(records []model.PctRecord) Outcome {
	return Outcome{Kind: OutcomeSuccess, Records: records}
}

// Unauthorized marks a session rejection (HTTP 401).
func Unauthorized() Outcome {
	return Outcome{Kind: OutcomeUnauthorized, Status: 401}
}

// NotFound carries the structured title/message of a 404 body, or the raw
// text when the body had no structure.
func NotFound(title, message string) Outcome {
	return Outcome{Kind: OutcomeNotFound, Status: 404, Title: title, Message: message}
}

// ServerError covers any other non-2xx status.
func ServerError(status int, body string) Outcome {
	return Outcome{Kind: OutcomeServerError, Status: status, Message: body}
}

// Transport marks a connection-level failure, including per-call timeouts.
func Transport(err error) Outcome {
	return Outcome{Kind: OutcomeTransport, Err: err}
}

// Malformed marks a 2xx body that could not be decoded into records.
func Malformed(err error) Outcome {
	return Outcome{Kind: OutcomeMalformed, Err: err}
}

// Failed reports whether the outcome is anything but a success.
func (o Outcome) Failed() bool {
	return o.Kind != OutcomeSuccess
}

// Describe renders a one-line human-readable account of the outcome, used by
// status surfaces when a single fetch is reported to the user.
func (o Outcome) Describe() string {
	switch o.Kind {
	case OutcomeSuccess:
		return fmt.Sprintf("%d records", len(o.Records))
	case OutcomeUnauthorized:
		return "unauthorized: session rejected"
	case OutcomeNotFound:
		switch {
		case o.Title != "" && o.Message != "":
			return fmt.Sprintf("not found: %s: %s", o.Title, o.Message)
		case o.Message != "":
			return fmt.Sprintf("not found: %s", o.Message)
		default:
			return "not found"
		}
	case OutcomeServerError:
		return fmt.Sprintf("server error: status %d: %s", o.Status, o.Message)
	case OutcomeTransport:
		return fmt.Sprintf("transport failure: %v", o.Err)
	case OutcomeMalformed:
		return fmt.Sprintf("malformed response: %v", o.Err)
	}
	return "unknown outcome"
}
