package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/fit-advisor/internal/fit"
	"github.com/spigell/fit-advisor/internal/logger"
	"github.com/spigell/fit-advisor/internal/storefront"
)

type fitPredictionBody struct {
	UserID    uint `mapstructure:"userId"`
	ProductID uint `mapstructure:"productId"`
}

type fitPredictionResponse struct {
	Success    bool               `json:"success"`
	Prediction *fit.Response      `json:"prediction,omitempty"`
	Confidence fit.ConfidenceTier `json:"confidence,omitempty"`
	Error      *fit.Error         `json:"error,omitempty"`
	Message    string             `json:"message"`
	Cached     bool               `json:"cached,omitempty"`
}

// handleFitPrediction answers 200 with the prediction, or 502 when the scorer
// failed. Store and input problems use the usual 4xx codes.
func handleFitPrediction(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body fitPredictionBody
		if _, err := decodeBody(w, r, &body); err != nil {
			writeJSON(w, http.StatusBadRequest, fitPredictionResponse{Message: err.Error()})
			return
		}
		if body.UserID == 0 || body.ProductID == 0 {
			writeJSON(w, http.StatusBadRequest, fitPredictionResponse{Message: "userId and productId are required"})
			return
		}

		prediction, err := deps.Advisor.Predict(r.Context(), body.UserID, body.ProductID)
		if err != nil {
			status := statusFor(err)
			if status == http.StatusInternalServerError {
				deps.Logger.Error("fit prediction failed",
					append(logger.EntityFields(body.UserID, body.ProductID), zap.Error(err))...,
				)
			}
			writeJSON(w, status, fitPredictionResponse{
				Message: errorMessage(err, notFoundMessage(err), "Failed to get fit prediction"),
			})
			return
		}

		if resp, tier, ok := prediction.Result.Success(); ok {
			writeJSON(w, http.StatusOK, fitPredictionResponse{
				Success:    true,
				Prediction: &resp,
				Confidence: tier,
				Message:    prediction.Message,
				Cached:     prediction.Cached,
			})
			return
		}

		fail, _ := prediction.Result.Failure()
		writeJSON(w, http.StatusBadGateway, fitPredictionResponse{
			Error:   fail,
			Message: prediction.Message,
		})
	}
}

func notFoundMessage(err error) string {
	if errors.Is(err, storefront.ErrProductNotFound) {
		return "Product not found"
	}
	return "User measurements not found"
}

// handleRecommendations accepts ?category= and ?min_confidence= overrides.
func handleRecommendations(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "id")
		if err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		opts := deps.Recommend
		q := r.URL.Query()
		if raw := q.Get("category"); raw != "" {
			opts.Categories, err = storefront.ParseCategories(raw)
			if err != nil {
				httpError(w, http.StatusBadRequest, "%v", err)
				return
			}
		}
		if raw := q.Get("min_confidence"); raw != "" {
			opts.MinConfidence, err = fit.ParseConfidence(raw)
			if err != nil {
				httpError(w, http.StatusBadRequest, "%v", err)
				return
			}
		}

		recs, err := deps.Advisor.Recommend(r.Context(), userID, opts)
		if err != nil {
			status := statusFor(err)
			if status == http.StatusInternalServerError {
				deps.Logger.Error("recommendation failed",
					append(logger.EntityFields(userID, 0), zap.Error(err))...,
				)
			}
			httpError(w, status, "%s", errorMessage(err, "User measurements not found", "Failed to build recommendations"))
			return
		}
		writeJSON(w, http.StatusOK, recs)
	}
}

func handleScorerHealth(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := deps.Scorer.CheckHealth(r.Context())
		status := http.StatusOK
		if !health.Up {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, health)
	}
}
