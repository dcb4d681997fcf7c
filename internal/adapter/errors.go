package adapter

import "errors"

var (
	// ErrNetworkUnavailable marks a transport-level failure: the request
	// never reached the server or the server could not answer (5xx).
	// Transient; callers queue or retry.
	ErrNetworkUnavailable = errors.New("network unavailable")
	// ErrTimeout marks a request that ran out of time. Transient.
	ErrTimeout = errors.New("request timed out")
	// ErrRemoteRejected marks a definitive server rejection (4xx other than
	// the cases below). Not transient; callers roll back, never retry.
	ErrRemoteRejected = errors.New("remote rejected request")
	// ErrUnauthorized is returned on HTTP 401.
	ErrUnauthorized = errors.New("client unauthorized")
	// ErrNotFound is returned on HTTP 404.
	ErrNotFound = errors.New("not found")
)

// IsTransient reports whether err describes a failure that may succeed on a
// later attempt. Transient failures are queued or retried; everything else is
// definitive and must be rolled back.
func IsTransient(err error) bool {
	return errors.Is(err, ErrNetworkUnavailable) || errors.Is(err, ErrTimeout)
}
