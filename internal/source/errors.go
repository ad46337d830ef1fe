package source

import (
	"errors"
	"fmt"

	"github.com/five82/stockboard/internal/inventory"
)

// TransportError wraps a failure to get any response at all: connection
// refused, DNS failure, timeout, or cancellation.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPStatusError reports a response outside the 2xx range.
type HTTPStatusError struct {
	StatusCode int
	URL        string
}

// Error renders the message shown verbatim in the dashboard.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// Error kinds used as log fields and metric labels.
const (
	KindTransport  = "transport"
	KindHTTPStatus = "http_status"
	KindDecode     = "decode"
	KindUnknown    = "unknown"
)

// Kind classifies err into one of the Kind constants.
func Kind(err error) string {
	var (
		transportErr *TransportError
		statusErr    *HTTPStatusError
		decodeErr    *inventory.DecodeError
	)
	switch {
	case errors.As(err, &statusErr):
		return KindHTTPStatus
	case errors.As(err, &decodeErr):
		return KindDecode
	case errors.As(err, &transportErr):
		return KindTransport
	default:
		return KindUnknown
	}
}

// StatusCode extracts the HTTP status from err, or 0 when err is not an
// HTTPStatusError.
func StatusCode(err error) int {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
