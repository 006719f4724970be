package relay

import "fmt"

// TransportError wraps a failure in the HTTP layer itself: connection
// errors, timeouts, non-2xx responses, undecodable bodies.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("relay: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteServiceError means the relay answered but reported success=false
// in its response envelope.
type RemoteServiceError struct {
	Op      string
	Message string
}

func (e *RemoteServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("relay: %s: service reported failure: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("relay: %s: service reported failure", e.Op)
}

// IncompleteResponseError means the relay reported success but the response
// is missing a field the caller needs, e.g. an upload without a URL.
type IncompleteResponseError struct {
	Op      string
	Missing string
}

func (e *IncompleteResponseError) Error() string {
	return fmt.Sprintf("relay: %s: response missing %s", e.Op, e.Missing)
}
