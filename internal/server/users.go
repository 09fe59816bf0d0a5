package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/fit-advisor/internal/store"
)

func handleCreateUser(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in store.UserInput
		if _, err := decodeBody(w, r, &in); err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		user, err := deps.Store.CreateUser(r.Context(), in)
		if err != nil {
			if statusFor(err) == http.StatusInternalServerError {
				deps.Logger.Error("create user failed", zap.Error(err))
			}
			httpError(w, statusFor(err), "%s", errorMessage(err, "User not found", "Failed to create user"))
			return
		}
		writeJSON(w, http.StatusCreated, user)
	}
}

func handleListUsers(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := deps.Store.ListUsers(r.Context())
		if err != nil {
			deps.Logger.Error("list users failed", zap.Error(err))
			httpError(w, http.StatusInternalServerError, "Failed to fetch users")
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}

func handleGetUser(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		user, err := deps.Store.GetUser(r.Context(), id)
		if err != nil {
			httpError(w, statusFor(err), "%s", errorMessage(err, "User not found", "Failed to fetch user"))
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func handleUpdateUser(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}
		var in store.UserInput
		if _, err := decodeBody(w, r, &in); err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		user, err := deps.Store.UpdateUser(r.Context(), id, in)
		if err != nil {
			httpError(w, statusFor(err), "%s", errorMessage(err, "User not found", "Failed to update user"))
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func handleDeleteUser(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		if err := deps.Store.DeleteUser(r.Context(), id); err != nil {
			httpError(w, statusFor(err), "%s", errorMessage(err, "User not found", "Failed to delete user"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
	}
}
