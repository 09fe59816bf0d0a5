package scorer

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/fit-advisor/internal/fit"
	"github.com/spigell/fit-advisor/internal/utils"
)

const (
	acceptEncoding  = "gzip"
	requestIDHeader = "X-Request-ID"
	// Scorer answers are small; anything bigger is not a prediction.
	maxBodySize = 1 << 20
)

// Send performs req and returns the raw answer whatever its status. Errors
// mean no usable response was received; failures before sending are wrapped
// with fit.ErrBuildRequest. A non-2xx answer whose body cannot be read is
// returned with a nil body.
func (c *Client) Send(ctx context.Context, req *fit.TransportRequest) (*fit.RawResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is nil", fit.ErrBuildRequest)
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fit.ErrBuildRequest, err)
	}

	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq = c.setHeaders(httpReq)

	resp, err := c.request(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return nil, fmt.Errorf("read response body: %w", err)
		}
		// The status alone still classifies a failed answer.
		c.logger.Warn("unreadable error response from scorer",
			zap.String("request_id", httpReq.Header.Get(requestIDHeader)),
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		data = nil
	}

	c.logger.Debug("got response from scorer",
		zap.String("request_id", httpReq.Header.Get(requestIDHeader)),
		zap.Int("status", resp.StatusCode),
		zap.Int("body_length", len(data)),
		zap.String("body_preview", utils.CompactForLog(string(data), c.MaxLogLength)),
	)

	return &fit.RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       data,
	}, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("request_id", req.Header.Get(requestIDHeader)),
	)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", acceptEncoding)
	if req.Header.Get(requestIDHeader) == "" {
		req.Header.Set(requestIDHeader, uuid.NewString())
	}

	return req
}

// readBody reads the whole body, decompressing gzip. Setting Accept-Encoding
// ourselves disables the transparent decompression of net/http.
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	return io.ReadAll(io.LimitReader(reader, maxBodySize))
}
