package fit

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/spigell/fit-advisor/internal/logger"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8000"
	DefaultTimeout = 5000 * time.Millisecond

	predictPath = "/predict"
	healthPath  = "/"
	contentType = "application/json"
)

//go:embed response.schema.json
var responseSchemaJSON string

var responseSchema = jsonschema.MustCompileString("response.schema.json", responseSchemaJSON)

// Config locates the scorer.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Advisor calls the external scorer and turns its answers into Results. It
// keeps no per-call state and is safe for concurrent use.
type Advisor struct {
	cfg       Config
	transport Transport
	logger    *zap.Logger
}

// New creates an Advisor. A nil log disables logging.
func New(cfg Config, transport Transport, log *zap.Logger) *Advisor {
	return &Advisor{
		cfg:       cfg.withDefaults(),
		transport: transport,
		logger:    logger.OrNop(log),
	}
}

func (a *Advisor) Config() Config { return a.cfg }

// Invoke sends req to the scorer. Every failure is returned inside the
// Result; Invoke itself never fails or panics.
func (a *Advisor) Invoke(ctx context.Context, req Request) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Failed(newUnknownError(fmt.Errorf("transport panic: %v", r)))
		}
	}()

	body, err := json.Marshal(req)
	if err != nil {
		return Failed(newUnknownError(fmt.Errorf("encode request: %w", err)))
	}

	raw, fail := a.send(ctx, http.MethodPost, predictPath, body)
	if fail != nil {
		a.logFailure(req, fail)
		return Failed(fail)
	}

	resp, err := decodeResponse(raw.Body)
	if err != nil {
		fail = newUnknownError(err)
		a.logFailure(req, fail)
		return Failed(fail)
	}

	result = Succeeded(resp)
	_, tier, _ := result.Success()
	a.logger.Debug("fit prediction received",
		logger.PredictionFields(req.ProductDetails.FitCategory.String(), resp.PredictedFit, string(tier), "")...,
	)

	return result
}

// Health is the outcome of a scorer health probe.
type Health struct {
	Up     bool            `json:"up"`
	Status int             `json:"status,omitempty"`
	Body   json.RawMessage `json:"data,omitempty"`
	Err    *Error          `json:"error,omitempty"`
}

// CheckHealth probes the scorer root. Any 2xx answer with a body counts as up.
func (a *Advisor) CheckHealth(ctx context.Context) (health Health) {
	defer func() {
		if r := recover(); r != nil {
			health = Health{Err: newUnknownError(fmt.Errorf("transport panic: %v", r))}
		}
	}()

	raw, fail := a.send(ctx, http.MethodGet, healthPath, nil)
	if fail != nil {
		return Health{Status: fail.Status, Err: fail}
	}

	body := bytes.TrimSpace(raw.Body)
	if len(body) == 0 {
		return Health{Status: raw.StatusCode, Err: newUnknownError(errors.New("empty health response"))}
	}

	if !json.Valid(body) {
		body, _ = json.Marshal(string(body))
	}

	return Health{Up: true, Status: raw.StatusCode, Body: body}
}

// send performs one bounded call and classifies transport and status
// failures. A nil *Error means a 2xx response.
func (a *Advisor) send(ctx context.Context, method, path string, body []byte) (*RawResponse, *Error) {
	if a.transport == nil {
		return nil, newUnknownError(errors.New("transport is not configured"))
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	header := http.Header{}
	if body != nil {
		header.Set("Content-Type", contentType)
	}

	raw, err := a.transport.Send(ctx, &TransportRequest{
		Method: method,
		URL:    a.cfg.BaseURL + path,
		Header: header,
		Body:   body,
	})
	if err != nil {
		if errors.Is(err, ErrBuildRequest) {
			return nil, newUnknownError(err)
		}
		return nil, newNetworkError(err)
	}
	if raw == nil {
		return nil, newUnknownError(errors.New("transport returned no response"))
	}

	if raw.StatusCode < 200 || raw.StatusCode > 299 {
		return raw, newAPIError(raw.StatusCode, errorDetail(raw.Body))
	}

	return raw, nil
}

func (a *Advisor) logFailure(req Request, fail *Error) {
	fields := logger.PredictionFields(req.ProductDetails.FitCategory.String(), "", "", string(fail.Kind))
	fields = append(fields, zap.Int("status", fail.Status), zap.Error(fail))
	a.logger.Warn("fit prediction failed", fields...)
}

func decodeResponse(body []byte) (Response, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	if err := responseSchema.Validate(doc); err != nil {
		return Response{}, fmt.Errorf("unrecognized response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}

// errorDetail extracts the upstream explanation from an error body. Like the
// scorer's clients it prefers "detail", then "message", skipping empty values.
func errorDetail(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}

	for _, key := range []string{"detail", "message"} {
		v := gjson.GetBytes(body, key)
		switch v.Type {
		case gjson.String:
			if v.Str != "" {
				return v.Str
			}
		case gjson.Number:
			if v.Num != 0 {
				return v.Raw
			}
		case gjson.True, gjson.JSON:
			return v.Raw
		}
	}

	return ""
}
