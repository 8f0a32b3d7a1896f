package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/grupoterra/cotizador-api/internal/config"
	"github.com/grupoterra/cotizador-api/pkg/logger"
)

// Rate is a USD conversion rate with its provenance.
type Rate struct {
	Value     float64   `json:"value"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

// RateProvider fetches the current exchange rate from an external source.
type RateProvider interface {
	FetchRate(ctx context.Context) (*Rate, error)
}

// ExchangeRateService caches the provider's rate for a short window so a
// burst of sessions does not hammer the upstream.
type ExchangeRateService struct {
	provider RateProvider
	cacheTTL time.Duration

	mu       sync.Mutex
	cached   *Rate
	cachedAt time.Time
}

// NewExchangeRateService creates a new exchange rate service
func NewExchangeRateService(provider RateProvider) *ExchangeRateService {
	return &ExchangeRateService{
		provider: provider,
		cacheTTL: 15 * time.Minute,
	}
}

// CurrentRate returns the cached rate, refreshing from the provider when the
// cache window lapsed. A provider failure with a warm cache serves the stale
// value rather than blocking the session.
func (s *ExchangeRateService) CurrentRate(ctx context.Context) (*Rate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && time.Since(s.cachedAt) < s.cacheTTL {
		return s.cached, nil
	}

	rate, err := s.provider.FetchRate(ctx)
	if err != nil {
		if s.cached != nil {
			logger.Warn("exchange rate refresh failed, serving stale value", "error", err)
			return s.cached, nil
		}
		return nil, ErrRateUnavailable
	}

	s.cached = rate
	s.cachedAt = time.Now()
	return rate, nil
}

// httpRateProvider reads the rate from a JSON endpoint.
type httpRateProvider struct {
	url    string
	client *http.Client
}

// NewHTTPRateProvider creates a provider against the configured endpoint
func NewHTTPRateProvider(cfg *config.Config) RateProvider {
	return &httpRateProvider{
		url: cfg.ExchangeRateURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type rateResponse struct {
	Rate   float64 `json:"rate"`
	Source string  `json:"source"`
}

func (p *httpRateProvider) FetchRate(ctx context.Context) (*Rate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange rate endpoint returned %d", resp.StatusCode)
	}

	var body rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	if body.Rate <= 0 {
		return nil, fmt.Errorf("exchange rate endpoint returned invalid rate %f", body.Rate)
	}

	source := body.Source
	if source == "" {
		source = "BCH"
	}

	return &Rate{
		Value:     body.Rate,
		Source:    source,
		FetchedAt: time.Now(),
	}, nil
}
