package transport

import "fmt"

// Status describes how a send/receive exchange ended. It is internal
// bookkeeping; callers of the engine only ever see flags and lists.
type Status int

const (
	// StatusOK means every datagram was sent
	StatusOK Status = iota

	// StatusTimedOut means the receive window closed with no further
	// replies. This is the normal end of a discovery cycle.
	StatusTimedOut

	// StatusCanceled means the context ended the exchange early
	StatusCanceled

	// StatusTransportError means a send or receive failed
	StatusTransportError
)

// String returns the status name
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTimedOut:
		return "timed-out"
	case StatusCanceled:
		return "canceled"
	case StatusTransportError:
		return "transport-error"
	default:
		return fmt.Sprintf("Status(%d)", s)
	}
}
