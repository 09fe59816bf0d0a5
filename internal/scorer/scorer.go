package scorer

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/fit-advisor/internal/logger"
)

const (
	userAgent = "spigell/fit-advisor"
	// Upper bound for a single call. The advisor applies its own, usually
	// shorter, deadline through the request context.
	clientTimeout = 30 * time.Second

	defaultMaxLogLength = 200
)

// Client is a fit.Transport over net/http.
type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	// MaxLogLength bounds body previews in debug logs.
	MaxLogLength int
}

// New creates a Client. token is optional and sent as a bearer token.
func New(log *zap.Logger, token string) *Client {
	return &Client{
		token: strings.TrimSpace(token),
		HTTPClient: &http.Client{
			Timeout: clientTimeout,
		},
		logger:       logger.OrNop(log),
		UserAgent:    userAgent,
		MaxLogLength: defaultMaxLogLength,
	}
}
