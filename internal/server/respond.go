package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"

	"github.com/spigell/fit-advisor/internal/fit"
	"github.com/spigell/fit-advisor/internal/store"
	"github.com/spigell/fit-advisor/internal/storefront"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf(format, args...)})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrAlreadyExists),
		errors.Is(err, store.ErrInvalid),
		errors.Is(err, fit.ErrUnknownCategory):
		return http.StatusBadRequest
	case errors.Is(err, storefront.ErrIncompleteMeasurements),
		errors.Is(err, fit.ErrMissingMeasurement),
		errors.Is(err, fit.ErrUnexpectedMeasurement):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the public message for err, using fallback for
// internal failures.
func errorMessage(err error, notFound, fallback string) string {
	switch statusFor(err) {
	case http.StatusNotFound:
		return notFound
	case http.StatusInternalServerError:
		return fallback
	default:
		return err.Error()
	}
}

func pathID(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return uint(id), nil
}

// decodeBody reads a JSON object into out. Numbers may be sent as strings
// ("91.5"), the way form-backed clients post them; a blank string leaves an
// optional number unset.
func decodeBody(w http.ResponseWriter, r *http.Request, out any) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}

	md, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       blankNumberAsNil,
		Result:           out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := md.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	return raw, nil
}

// blankNumberAsNil turns "" into nil for optional numeric fields, so a blank
// measurement stays NULL instead of becoming 0.
func blankNumberAsNil(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Ptr {
		return data, nil
	}
	if strings.TrimSpace(reflect.ValueOf(data).String()) != "" {
		return data, nil
	}

	switch to.Elem().Kind() {
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return nil, nil
	}
	return data, nil
}

// decimalField reads an optional money value sent as a number or a string.
func decimalField(raw map[string]any, key string) (*decimal.Decimal, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}

	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = t
	default:
		return nil, fmt.Errorf("%s must be a number", key)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return &d, nil
}
