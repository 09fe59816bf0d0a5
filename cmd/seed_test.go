package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/fit-advisor/internal/fit"
	"github.com/spigell/fit-advisor/internal/store"
)

const seedYAML = `
users:
  - email: ana@example.com
    name: Ana
    measurements:
      bust: 91
      waist: 78
      hip: 99
  - email: ben@example.com
products:
  - name: Oxford shirt
    fit_category: upper_fitted
    chest: 92
    waist: 80
    price: "49.90"
  - name: Slip dress
    fit_category: dresses
    chest: 88
    waist: 72
    hip: 98
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing seed file: %v", err)
	}
	return path
}

func TestApplySeed(t *testing.T) {
	ctx := context.Background()

	file, err := loadSeedFile(writeSeed(t, seedYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	db, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer db.Close()

	report, err := applySeed(ctx, db, file, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Users != 2 || report.Measurements != 1 || report.Products != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}

	m, err := db.GetMeasurements(ctx, 1)
	if err != nil {
		t.Fatalf("measurements not stored: %v", err)
	}
	if got := m.Values(); got[fit.Hip] != 99 {
		t.Fatalf("unexpected measurements: %v", got)
	}

	dresses, err := db.ListProducts(ctx, store.ProductFilter{Categories: []fit.Category{fit.DressesCategory}})
	if err != nil || len(dresses) != 1 {
		t.Fatalf("expected one dress, got %v (%v)", dresses, err)
	}

	// A second run changes nothing.
	report, err = applySeed(ctx, db, file, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.SkippedUsers != 2 || report.Users != 0 || report.SkippedProducts != 2 || report.Products != 0 {
		t.Fatalf("unexpected report on rerun: %+v", report)
	}

	all, err := db.ListProducts(ctx, store.ProductFilter{})
	if err != nil || len(all) != 2 {
		t.Fatalf("expected two products after rerun, got %d (%v)", len(all), err)
	}
}

func TestLoadSeedFileRejectsUnknownFields(t *testing.T) {
	_, err := loadSeedFile(writeSeed(t, "products:\n  - name: Tee\n    category: upper_loose\n"))
	if err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestApplySeedRejectsUnknownCategory(t *testing.T) {
	db, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer db.Close()

	file := &SeedFile{Products: []SeedProduct{{Name: "Cape", FitCategory: "capes"}}}
	if _, err := applySeed(context.Background(), db, file, zap.NewNop()); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestParseMeasurements(t *testing.T) {
	got, err := parseMeasurements(map[string]string{" Bust ": "91.5", "waist": "78"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[fit.Bust] != 91.5 || got[fit.Waist] != 78 {
		t.Fatalf("unexpected measurements: %v", got)
	}

	if _, err := parseMeasurements(map[string]string{"hip": "wide"}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID("12"); err != nil || id != 12 {
		t.Fatalf("unexpected result: %d %v", id, err)
	}
	for _, raw := range []string{"", "0", "-1", "abc"} {
		if _, err := parseID(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
