package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/fit-advisor/internal/store"
	"github.com/spigell/fit-advisor/internal/storefront"
)

func decodeProduct(w http.ResponseWriter, r *http.Request) (store.ProductInput, error) {
	var in store.ProductInput
	raw, err := decodeBody(w, r, &in)
	if err != nil {
		return in, err
	}
	in.Price, err = decimalField(raw, "price")
	return in, err
}

func handleCreateProduct(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := decodeProduct(w, r)
		if err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		product, err := deps.Store.CreateProduct(r.Context(), in)
		if err != nil {
			if statusFor(err) == http.StatusInternalServerError {
				deps.Logger.Error("create product failed", zap.Error(err))
			}
			httpError(w, statusFor(err), "%s", errorMessage(err, "Product not found", "Failed to create product"))
			return
		}
		writeJSON(w, http.StatusCreated, product)
	}
}

// handleListProducts accepts an optional comma separated ?category= filter.
func handleListProducts(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := storefront.ParseCategories(r.URL.Query().Get("category"))
		if err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		products, err := deps.Store.ListProducts(r.Context(), store.ProductFilter{Categories: categories})
		if err != nil {
			deps.Logger.Error("list products failed", zap.Error(err))
			httpError(w, http.StatusInternalServerError, "Failed to fetch products")
			return
		}
		writeJSON(w, http.StatusOK, products)
	}
}

func handleGetProduct(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		product, err := deps.Store.GetProduct(r.Context(), id)
		if err != nil {
			httpError(w, statusFor(err), "%s", errorMessage(err, "Product not found", "Failed to fetch product"))
			return
		}
		writeJSON(w, http.StatusOK, product)
	}
}

func handleUpdateProduct(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}
		in, err := decodeProduct(w, r)
		if err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		product, err := deps.Store.UpdateProduct(r.Context(), id, in)
		if err != nil {
			httpError(w, statusFor(err), "%s", errorMessage(err, "Product not found", "Failed to update product"))
			return
		}
		writeJSON(w, http.StatusOK, product)
	}
}

func handleDeleteProduct(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		if err := deps.Store.DeleteProduct(r.Context(), id); err != nil {
			httpError(w, statusFor(err), "%s", errorMessage(err, "Product not found", "Failed to delete product"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
	}
}
