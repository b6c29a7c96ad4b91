package errors

import "fmt"

var (
	ErrWorkerPanic          = fmt.Errorf("worker panic")
	ErrCapacityExceeded     = fmt.Errorf("participant capacity exceeded")
	ErrUnknownParticipant   = fmt.Errorf("unknown participant")
	ErrTransportSendFailure = fmt.Errorf("transport send failure")
	ErrMalformedEvent       = fmt.Errorf("malformed event")
	ErrRouterStopped        = fmt.Errorf("router stopped")
	ErrUnauthorized         = fmt.Errorf("unauthorized")
	ErrInvalidDisplayName   = fmt.Errorf("invalid display name")
	ErrArchiveUnavailable   = fmt.Errorf("chat archive not configured")

	// External request/response collaborator failures.
	ErrNetwork           = fmt.Errorf("network error")
	ErrMalformedResponse = fmt.Errorf("malformed response")
)

// ServerError is returned when the remote collaborator answers with a non 2xx status.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server error: status %d", e.Status)
	}
	return fmt.Sprintf("server error: status %d: %s", e.Status, e.Body)
}
