package fit

import (
	"context"
	"net/http"
)

// TransportRequest is an outbound call prepared by the advisor.
type TransportRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// RawResponse is whatever the scorer answered, regardless of status.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport performs the network call on behalf of the advisor. It must
// return an error only when no response was received, and must wrap failures
// that happen before the request is sent with ErrBuildRequest.
type Transport interface {
	Send(ctx context.Context, req *TransportRequest) (*RawResponse, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req *TransportRequest) (*RawResponse, error)

func (f TransportFunc) Send(ctx context.Context, req *TransportRequest) (*RawResponse, error) {
	return f(ctx, req)
}
