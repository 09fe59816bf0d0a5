package fit

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestBuildRequestUpperFittedEchoesInputs(t *testing.T) {
	req, err := BuildRequest(UpperFittedCategory,
		Measurements{Bust: 91, Waist: 78},
		Measurements{Chest: 92, Waist: 80},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.ProductDetails.FitCategory != "upper_fitted" {
		t.Fatalf("unexpected category: %q", req.ProductDetails.FitCategory)
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	expected := `{"user_profile":{"user_bust_cm":91,"user_waist_cm":78},"product_details":{"fit_category":"upper_fitted","product_chest_cm":92,"product_waist_cm":80}}`
	if string(data) != expected {
		t.Fatalf("unexpected payload:\n got %s\nwant %s", data, expected)
	}
}

func TestBuildRequestPopulatesRequiredFieldsOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		category Category
		user     Measurements
		product  Measurements
		expect   string
	}{
		{
			name:     "upper loose",
			category: UpperLooseCategory,
			user:     Measurements{Bust: 100.5},
			product:  Measurements{Chest: 110},
			expect:   `{"user_profile":{"user_bust_cm":100.5},"product_details":{"fit_category":"upper_loose","product_chest_cm":110}}`,
		},
		{
			name:     "lower fitted",
			category: LowerFittedCategory,
			user:     Measurements{Waist: 70, Hip: 95},
			product:  Measurements{Waist: 71, Hip: 96},
			expect:   `{"user_profile":{"user_waist_cm":70,"user_hip_cm":95},"product_details":{"fit_category":"lower_fitted","product_waist_cm":71,"product_hip_cm":96}}`,
		},
		{
			name:     "lower loose keeps negative values",
			category: LowerLooseCategory,
			user:     Measurements{Waist: -1, Hip: 0},
			product:  Measurements{Waist: 200, Hip: 0.001},
			expect:   `{"user_profile":{"user_waist_cm":-1,"user_hip_cm":0},"product_details":{"fit_category":"lower_loose","product_waist_cm":200,"product_hip_cm":0.001}}`,
		},
		{
			name:     "dresses",
			category: DressesCategory,
			user:     Measurements{Bust: 88, Waist: 70, Hip: 96},
			product:  Measurements{Chest: 90, Waist: 72, Hip: 98},
			expect:   `{"user_profile":{"user_bust_cm":88,"user_waist_cm":70,"user_hip_cm":96},"product_details":{"fit_category":"dresses","product_chest_cm":90,"product_waist_cm":72,"product_hip_cm":98}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req, err := BuildRequest(tt.category, tt.user, tt.product)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			data, err := json.Marshal(req)
			if err != nil {
				t.Fatalf("marshal request: %v", err)
			}
			if string(data) != tt.expect {
				t.Fatalf("unexpected payload:\n got %s\nwant %s", data, tt.expect)
			}
		})
	}
}

func TestBuildRequestRejectsWrongKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		category Category
		user     Measurements
		product  Measurements
		expect   error
	}{
		{
			name:     "unknown category",
			category: "hats",
			user:     Measurements{Bust: 1},
			product:  Measurements{Chest: 1},
			expect:   ErrUnknownCategory,
		},
		{
			name:     "missing user key",
			category: UpperFittedCategory,
			user:     Measurements{Bust: 91},
			product:  Measurements{Chest: 92, Waist: 80},
			expect:   ErrMissingMeasurement,
		},
		{
			name:     "missing product key",
			category: DressesCategory,
			user:     Measurements{Bust: 88, Waist: 70, Hip: 96},
			product:  Measurements{Chest: 90, Waist: 72},
			expect:   ErrMissingMeasurement,
		},
		{
			name:     "unexpected user key",
			category: UpperLooseCategory,
			user:     Measurements{Bust: 91, Hip: 100},
			product:  Measurements{Chest: 92},
			expect:   ErrUnexpectedMeasurement,
		},
		{
			name:     "chest is not a user measurement",
			category: UpperLooseCategory,
			user:     Measurements{Chest: 91},
			product:  Measurements{Chest: 92},
			expect:   ErrMissingMeasurement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := BuildRequest(tt.category, tt.user, tt.product)
			if !errors.Is(err, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, err)
			}
		})
	}
}

func TestBuildRequestDoesNotAliasInputs(t *testing.T) {
	user := Measurements{Bust: 91}
	product := Measurements{Chest: 92}

	req, err := BuildRequest(UpperLooseCategory, user, product)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user[Bust] = 10
	product[Chest] = 10

	if *req.UserProfile.BustCM != 91 || *req.ProductDetails.ChestCM != 92 {
		t.Fatalf("request changed after inputs were modified: %+v", req)
	}

	other, _ := BuildRequest(UpperLooseCategory, Measurements{Bust: 91}, Measurements{Chest: 92})
	if other.UserProfile.BustCM == req.UserProfile.BustCM {
		t.Fatalf("expected every call to allocate fresh values")
	}
}

func TestCategoryHelpers(t *testing.T) {
	req := Dress(88, 70, 96, 90, 72, 98)
	if req.ProductDetails.FitCategory != DressesCategory {
		t.Fatalf("unexpected category: %s", req.ProductDetails.FitCategory)
	}
	if *req.UserProfile.HipCM != 96 || *req.ProductDetails.ChestCM != 90 {
		t.Fatalf("unexpected values: %+v", req)
	}

	loose := UpperLoose(100, 110)
	if loose.UserProfile.WaistCM != nil || loose.ProductDetails.HipCM != nil {
		t.Fatalf("upper loose request must only carry bust and chest")
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("  Lower_Loose ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != LowerLooseCategory {
		t.Fatalf("unexpected category: %s", c)
	}

	if _, err := ParseCategory("shoes"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected unknown category error, got %v", err)
	}
}

func TestMeasurementsOnly(t *testing.T) {
	all := Measurements{Bust: 90, Waist: 70, Hip: 95}

	got, err := all.Only(LowerFittedCategory.UserKeys())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[Waist] != 70 || got[Hip] != 95 {
		t.Fatalf("unexpected selection: %v", got)
	}

	if _, err := (Measurements{Waist: 70}).Only(DressesCategory.UserKeys()); !errors.Is(err, ErrMissingMeasurement) {
		t.Fatalf("expected missing measurement, got %v", err)
	}
}
