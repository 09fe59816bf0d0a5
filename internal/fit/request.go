package fit

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// UserProfile is the user half of the scorer payload. Only the fields the
// category requires are set.
type UserProfile struct {
	BustCM  *float64 `json:"user_bust_cm,omitempty"`
	WaistCM *float64 `json:"user_waist_cm,omitempty"`
	HipCM   *float64 `json:"user_hip_cm,omitempty"`
}

// ProductDetails is the garment half of the scorer payload.
type ProductDetails struct {
	FitCategory Category `json:"fit_category"`
	ChestCM     *float64 `json:"product_chest_cm,omitempty"`
	WaistCM     *float64 `json:"product_waist_cm,omitempty"`
	HipCM       *float64 `json:"product_hip_cm,omitempty"`
}

// Request is the body sent to the scorer's /predict endpoint.
type Request struct {
	UserProfile    UserProfile    `json:"user_profile"`
	ProductDetails ProductDetails `json:"product_details"`
}

// BuildRequest validates that user and product hold exactly the measurements
// the category requires and returns a freshly allocated request. Values are
// passed through as given.
func BuildRequest(category Category, user, product Measurements) (Request, error) {
	if !category.Valid() {
		return Request{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	req := requirements[category]
	if err := checkKeys("user", user, req.user); err != nil {
		return Request{}, err
	}
	if err := checkKeys("product", product, req.product); err != nil {
		return Request{}, err
	}

	var r Request
	for _, k := range req.user {
		v := user[k]
		switch k {
		case Bust:
			r.UserProfile.BustCM = &v
		case Waist:
			r.UserProfile.WaistCM = &v
		case Hip:
			r.UserProfile.HipCM = &v
		}
	}

	r.ProductDetails.FitCategory = category
	for _, k := range req.product {
		v := product[k]
		switch k {
		case Chest:
			r.ProductDetails.ChestCM = &v
		case Waist:
			r.ProductDetails.WaistCM = &v
		case Hip:
			r.ProductDetails.HipCM = &v
		}
	}

	return r, nil
}

func checkKeys(side string, got Measurements, want []Measurement) error {
	var missing, unexpected []string
	for _, k := range want {
		if _, ok := got[k]; !ok {
			missing = append(missing, string(k))
		}
	}
	for k := range got {
		if !slices.Contains(want, k) {
			unexpected = append(unexpected, string(k))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s %s", ErrMissingMeasurement, side, strings.Join(missing, ", "))
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		return fmt.Errorf("%w: %s %s", ErrUnexpectedMeasurement, side, strings.Join(unexpected, ", "))
	}
	return nil
}

// UpperFitted builds a request for t-shirts, blouses and similar garments.
func UpperFitted(userBust, userWaist, productChest, productWaist float64) Request {
	r, _ := BuildRequest(UpperFittedCategory,
		Measurements{Bust: userBust, Waist: userWaist},
		Measurements{Chest: productChest, Waist: productWaist},
	)
	return r
}

// UpperLoose builds a request for hoodies and oversized shirts.
func UpperLoose(userBust, productChest float64) Request {
	r, _ := BuildRequest(UpperLooseCategory,
		Measurements{Bust: userBust},
		Measurements{Chest: productChest},
	)
	return r
}

// LowerFitted builds a request for jeans, leggings and similar garments.
func LowerFitted(userWaist, userHip, productWaist, productHip float64) Request {
	r, _ := BuildRequest(LowerFittedCategory,
		Measurements{Waist: userWaist, Hip: userHip},
		Measurements{Waist: productWaist, Hip: productHip},
	)
	return r
}

// LowerLoose builds a request for joggers and palazzos.
func LowerLoose(userWaist, userHip, productWaist, productHip float64) Request {
	r, _ := BuildRequest(LowerLooseCategory,
		Measurements{Waist: userWaist, Hip: userHip},
		Measurements{Waist: productWaist, Hip: productHip},
	)
	return r
}

// Dress builds a request for dresses.
func Dress(userBust, userWaist, userHip, productChest, productWaist, productHip float64) Request {
	r, _ := BuildRequest(DressesCategory,
		Measurements{Bust: userBust, Waist: userWaist, Hip: userHip},
		Measurements{Chest: productChest, Waist: productWaist, Hip: productHip},
	)
	return r
}
