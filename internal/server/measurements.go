package server

import (
	"net/http"

	"github.com/spigell/fit-advisor/internal/store"
)

type createMeasurementsBody struct {
	UserID                  uint `mapstructure:"userId"`
	store.MeasurementsInput `mapstructure:",squash"`
}

func handleCreateMeasurements(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createMeasurementsBody
		if _, err := decodeBody(w, r, &body); err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}
		if body.UserID == 0 {
			httpError(w, http.StatusBadRequest, "userId is required")
			return
		}

		m, err := deps.Store.CreateMeasurements(r.Context(), body.UserID, body.MeasurementsInput)
		if err != nil {
			msg := errorMessage(err, "User not found", "Failed to create measurements")
			if statusFor(err) == http.StatusBadRequest {
				msg = "User already has measurements"
			}
			httpError(w, statusFor(err), "%s", msg)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

func handleGetMeasurements(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "userId")
		if err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		m, err := deps.Store.GetMeasurements(r.Context(), userID)
		if err != nil {
			httpError(w, statusFor(err), "%s", errorMessage(err, "User measurements not found", "Failed to fetch measurements"))
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func handleUpdateMeasurements(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "userId")
		if err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}
		var in store.MeasurementsInput
		if _, err := decodeBody(w, r, &in); err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		m, err := deps.Store.UpdateMeasurements(r.Context(), userID, in)
		if err != nil {
			httpError(w, statusFor(err), "%s", errorMessage(err, "User measurements not found", "Failed to update measurements"))
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func handleDeleteMeasurements(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "userId")
		if err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		if err := deps.Store.DeleteMeasurements(r.Context(), userID); err != nil {
			httpError(w, statusFor(err), "%s", errorMessage(err, "User measurements not found", "Failed to delete measurements"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Measurements deleted successfully"})
	}
}
