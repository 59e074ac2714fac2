package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"flowci-console/internal/application/request"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Transport performs one call against the remote API. A non-2xx reply is
// returned as a Response; an error means no usable reply was received.
type Transport interface {
	Perform(ctx context.Context, call request.Call) (Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, call request.Call) (Response, error)

// Perform calls f.
func (f TransportFunc) Perform(ctx context.Context, call request.Call) (Response, error) {
	return f(ctx, call)
}

// Response is the raw reply of the remote API.
type Response struct {
	Status int
	Data   []byte
}

// OK reports a 2xx status.
func (r Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// TransportError is the failure detail of a call: either a non-2xx status
// with its body, or the cause that prevented a reply (StatusCode is 0 then).
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request_failed: %v", e.Err)
	}
	if e.StatusCode == http.StatusBadRequest {
		return fmt.Sprintf("bad_request:%s", e.Body)
	}
	return fmt.Sprintf("request_failed:%d", e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

// GRPCStatus maps the failure onto a gRPC status so callers can classify it
// with status.Code.
func (e *TransportError) GRPCStatus() *status.Status {
	return status.New(e.code(), e.Error())
}

func (e *TransportError) code() codes.Code {
	if e.StatusCode == 0 {
		switch {
		case errors.Is(e.Err, context.Canceled):
			return codes.Canceled
		case errors.Is(e.Err, context.DeadlineExceeded):
			return codes.DeadlineExceeded
		default:
			return codes.Unavailable
		}
	}

	switch e.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusConflict:
		return codes.AlreadyExists
	case http.StatusPreconditionFailed:
		return codes.FailedPrecondition
	case http.StatusTooManyRequests:
		return codes.ResourceExhausted
	case http.StatusNotImplemented:
		return codes.Unimplemented
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return codes.Unavailable
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return codes.DeadlineExceeded
	}
	if e.StatusCode >= 500 {
		return codes.Internal
	}
	return codes.Unknown
}

// IsRetryable reports whether a caller may reasonably try the call again.
// The dispatcher itself never retries.
func IsRetryable(err error) bool {
	var te *TransportError
	if !errors.As(err, &te) {
		return false
	}
	switch status.Code(te) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return true
	default:
		return false
	}
}
