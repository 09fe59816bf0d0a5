// Package server exposes the catalog, measurements and fit predictions over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/spigell/fit-advisor/internal/fit"
	"github.com/spigell/fit-advisor/internal/logger"
	"github.com/spigell/fit-advisor/internal/store"
	"github.com/spigell/fit-advisor/internal/storefront"
)

const maxRequestBodySize = 1 << 20

// Repository is the store surface used by the CRUD handlers.
type Repository interface {
	CreateUser(ctx context.Context, in store.UserInput) (*store.User, error)
	ListUsers(ctx context.Context) ([]store.User, error)
	GetUser(ctx context.Context, id uint) (*store.User, error)
	UpdateUser(ctx context.Context, id uint, in store.UserInput) (*store.User, error)
	DeleteUser(ctx context.Context, id uint) error

	CreateProduct(ctx context.Context, in store.ProductInput) (*store.Product, error)
	ListProducts(ctx context.Context, filter store.ProductFilter) ([]store.Product, error)
	GetProduct(ctx context.Context, id uint) (*store.Product, error)
	UpdateProduct(ctx context.Context, id uint, in store.ProductInput) (*store.Product, error)
	DeleteProduct(ctx context.Context, id uint) error

	CreateMeasurements(ctx context.Context, userID uint, in store.MeasurementsInput) (*store.Measurements, error)
	GetMeasurements(ctx context.Context, userID uint) (*store.Measurements, error)
	UpdateMeasurements(ctx context.Context, userID uint, in store.MeasurementsInput) (*store.Measurements, error)
	DeleteMeasurements(ctx context.Context, userID uint) error
}

// Advisor answers fit questions about stored entities.
type Advisor interface {
	Predict(ctx context.Context, userID, productID uint) (storefront.Prediction, error)
	Recommend(ctx context.Context, userID uint, opts storefront.RecommendOptions) (storefront.Recommendations, error)
}

// HealthChecker probes the scorer.
type HealthChecker interface {
	CheckHealth(ctx context.Context) fit.Health
}

type Deps struct {
	Store     Repository
	Advisor   Advisor
	Scorer    HealthChecker
	Logger    *zap.Logger
	Recommend storefront.RecommendOptions
}

// NewHandler builds the API router.
func NewHandler(deps Deps) http.Handler {
	deps.Logger = logger.OrNop(deps.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(deps.Logger))

	r.Get("/", handleRoot)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", handleCreateUser(deps))
		r.Get("/users", handleListUsers(deps))
		r.Get("/users/{id}", handleGetUser(deps))
		r.Put("/users/{id}", handleUpdateUser(deps))
		r.Delete("/users/{id}", handleDeleteUser(deps))
		r.Get("/users/{id}/recommendations", handleRecommendations(deps))

		r.Post("/products", handleCreateProduct(deps))
		r.Get("/products", handleListProducts(deps))
		r.Get("/products/{id}", handleGetProduct(deps))
		r.Put("/products/{id}", handleUpdateProduct(deps))
		r.Delete("/products/{id}", handleDeleteProduct(deps))

		r.Post("/measurements", handleCreateMeasurements(deps))
		r.Get("/measurements/{userId}", handleGetMeasurements(deps))
		r.Put("/measurements/{userId}", handleUpdateMeasurements(deps))
		r.Delete("/measurements/{userId}", handleDeleteMeasurements(deps))

		r.Post("/fit-prediction", handleFitPrediction(deps))
		r.Get("/scorer/health", handleScorerHealth(deps))
	})

	return r
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Backend is running ✅"))
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			log.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
