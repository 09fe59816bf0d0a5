// Package storefront answers fit questions about stored users and products.
package storefront

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/fit-advisor/internal/cache"
	"github.com/spigell/fit-advisor/internal/fit"
	"github.com/spigell/fit-advisor/internal/logger"
	"github.com/spigell/fit-advisor/internal/store"
)

const (
	DefaultCacheTTL = 10 * time.Minute

	cacheKeyPrefix = "prediction:"
)

var (
	ErrIncompleteMeasurements = errors.New("incomplete measurements")
	ErrProductNotFound        = errors.New("product not found")
)

// Repository is the part of the store the service reads.
type Repository interface {
	GetMeasurements(ctx context.Context, userID uint) (*store.Measurements, error)
	GetProduct(ctx context.Context, id uint) (*store.Product, error)
	ListProducts(ctx context.Context, filter store.ProductFilter) ([]store.Product, error)
}

// Predictor asks the scorer about one request.
type Predictor interface {
	Invoke(ctx context.Context, req fit.Request) fit.Result
}

type Options struct {
	Cache    cache.Cache
	CacheTTL time.Duration
	Logger   *zap.Logger
}

type Service struct {
	repo      Repository
	predictor Predictor
	cache     cache.Cache
	ttl       time.Duration
	logger    *zap.Logger
}

func New(repo Repository, predictor Predictor, opts Options) *Service {
	s := &Service{
		repo:      repo,
		predictor: predictor,
		cache:     opts.Cache,
		ttl:       opts.CacheTTL,
		logger:    logger.OrNop(opts.Logger),
	}
	if s.cache == nil {
		s.cache = cache.Nop{}
	}
	if s.ttl <= 0 {
		s.ttl = DefaultCacheTTL
	}
	return s
}

// Prediction is the storefront view of a single fit prediction.
type Prediction struct {
	Result  fit.Result
	Message string
	Cached  bool
}

// Predict scores the product for the user. Store lookups and incomplete
// measurements are returned as errors; scorer failures stay inside the
// Result.
func (s *Service) Predict(ctx context.Context, userID, productID uint) (Prediction, error) {
	log := logger.WithFields(s.logger, logger.EntityFields(userID, productID)...)

	m, err := s.repo.GetMeasurements(ctx, userID)
	if err != nil {
		return Prediction{}, fmt.Errorf("user measurements: %w", err)
	}
	product, err := s.repo.GetProduct(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		return Prediction{}, fmt.Errorf("%w: %w", ErrProductNotFound, err)
	}
	if err != nil {
		return Prediction{}, fmt.Errorf("product: %w", err)
	}

	req, err := buildRequest(m.Values(), product)
	if err != nil {
		return Prediction{}, err
	}

	result, cached := s.evaluate(ctx, log, req)

	return Prediction{
		Result:  result,
		Message: fit.GenerateMessage(result),
		Cached:  cached,
	}, nil
}

// Evaluate scores a request through the cache. It satisfies catalog.Evaluator.
func (s *Service) Evaluate(ctx context.Context, req fit.Request) fit.Result {
	result, _ := s.evaluate(ctx, s.logger, req)
	return result
}

func (s *Service) evaluate(ctx context.Context, log *zap.Logger, req fit.Request) (fit.Result, bool) {
	key, err := cacheKey(req)
	if err != nil {
		log.Debug("prediction is not cacheable", zap.Error(err))
		return s.predictor.Invoke(ctx, req), false
	}

	if value, ok := s.cache.Get(ctx, key); ok {
		var resp fit.Response
		if err := json.Unmarshal([]byte(value), &resp); err == nil {
			log.Debug("prediction served from cache", zap.String("key", key))
			return fit.Succeeded(resp), true
		}
		log.Warn("dropping unreadable cache entry", zap.String("key", key))
	}

	result := s.predictor.Invoke(ctx, req)

	// Only successes are cached; a failing scorer is asked again next time.
	if resp, _, ok := result.Success(); ok {
		data, err := json.Marshal(resp)
		if err == nil {
			err = s.cache.Set(ctx, key, string(data), s.ttl)
		}
		if err != nil {
			log.Warn("caching prediction failed", zap.Error(err))
		}
	}

	return result, false
}

func buildRequest(user fit.Measurements, product *store.Product) (fit.Request, error) {
	category := product.FitCategory
	if !category.Valid() {
		return fit.Request{}, fmt.Errorf("%w: %q", fit.ErrUnknownCategory, category)
	}

	u, err := user.Only(category.UserKeys())
	if err != nil {
		return fit.Request{}, fmt.Errorf("%w: user %w", ErrIncompleteMeasurements, err)
	}
	g, err := product.Measurements().Only(category.ProductKeys())
	if err != nil {
		return fit.Request{}, fmt.Errorf("%w: product %w", ErrIncompleteMeasurements, err)
	}

	return fit.BuildRequest(category, u, g)
}

func cacheKey(req fit.Request) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return cacheKeyPrefix + hex.EncodeToString(sum[:]), nil
}
