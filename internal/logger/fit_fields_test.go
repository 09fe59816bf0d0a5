package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  fit_category  ", Value: "  dresses  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "fit_category" || fields[0].String != "dresses" {
		t.Fatalf("unexpected category field: %+v", fields[0])
	}

	empty := StringFields()
	if len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	enriched := WithFields(logger, zap.String("foo", "bar"))
	enriched.Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx["foo"] != "bar" {
		t.Fatalf("expected field to be bar, got %q", ctx["foo"])
	}

	enriched = WithFields(nil, zap.String("baz", "qux"))
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}

	// Ensure logging with the fallback logger does not panic.
	enriched.Info("another log")
}

func TestPredictionFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	logger.Info("success", PredictionFields("upper_fitted", "Perfect Fit", "High", "")...)
	logger.Info("failure", PredictionFields("dresses", "", "", "network_error")...)

	entries := observed.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	success := entries[0].ContextMap()
	if success[FieldCategory] != "upper_fitted" || success[FieldPredictedFit] != "Perfect Fit" || success[FieldConfidence] != "High" {
		t.Fatalf("unexpected success fields: %v", success)
	}
	if _, ok := success[FieldErrorKind]; ok {
		t.Fatalf("empty error kind must be omitted")
	}

	failure := entries[1].ContextMap()
	if len(failure) != 2 || failure[FieldErrorKind] != "network_error" {
		t.Fatalf("unexpected failure fields: %v", failure)
	}
}

func TestEntityFields(t *testing.T) {
	fields := EntityFields(7, 0)
	if len(fields) != 1 || fields[0].Key != FieldUserID {
		t.Fatalf("unexpected fields: %+v", fields)
	}

	if len(EntityFields(0, 0)) != 0 {
		t.Fatalf("expected no fields for zero ids")
	}
}

func TestNew(t *testing.T) {
	for _, json := range []bool{false, true} {
		logger, err := New("fit-advisor", json, true)
		if err != nil {
			t.Fatalf("json=%v: unexpected error: %v", json, err)
		}
		if !logger.Core().Enabled(zapcore.DebugLevel) {
			t.Fatalf("json=%v: expected debug level to be enabled", json)
		}
	}

	logger, err := New("", false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug must be disabled by default")
	}
}
