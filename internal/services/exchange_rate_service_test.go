package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/grupoterra/cotizador-api/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestHTTPRateProvider_FetchRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"rate": 24.7531, "source": "BCH"}`))
	}))
	defer server.Close()

	provider := NewHTTPRateProvider(&config.Config{ExchangeRateURL: server.URL})
	rate, err := provider.FetchRate(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 24.7531, rate.Value)
	assert.Equal(t, "BCH", rate.Source)
	assert.False(t, rate.FetchedAt.IsZero())
}

func TestHTTPRateProvider_RejectsInvalidRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rate": 0}`))
	}))
	defer server.Close()

	provider := NewHTTPRateProvider(&config.Config{ExchangeRateURL: server.URL})
	_, err := provider.FetchRate(context.Background())
	assert.Error(t, err)
}

func TestHTTPRateProvider_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	provider := NewHTTPRateProvider(&config.Config{ExchangeRateURL: server.URL})
	_, err := provider.FetchRate(context.Background())
	assert.Error(t, err)
}

type stubRateProvider struct {
	rate  *Rate
	err   error
	calls int
}

func (p *stubRateProvider) FetchRate(ctx context.Context) (*Rate, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.rate, nil
}

func TestExchangeRateService_CachesRate(t *testing.T) {
	provider := &stubRateProvider{rate: &Rate{Value: 24.75, Source: "BCH"}}
	svc := NewExchangeRateService(provider)

	first, err := svc.CurrentRate(context.Background())
	assert.NoError(t, err)
	second, err := svc.CurrentRate(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.calls, "second read must come from cache")
}

func TestExchangeRateService_ServesStaleOnFailure(t *testing.T) {
	provider := &stubRateProvider{rate: &Rate{Value: 24.75, Source: "BCH"}}
	svc := NewExchangeRateService(provider)

	_, err := svc.CurrentRate(context.Background())
	assert.NoError(t, err)

	svc.cacheTTL = 0
	provider.err = errors.New("upstream down")

	rate, err := svc.CurrentRate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 24.75, rate.Value)
}

func TestExchangeRateService_ColdCacheFailure(t *testing.T) {
	provider := &stubRateProvider{err: errors.New("upstream down")}
	svc := NewExchangeRateService(provider)

	_, err := svc.CurrentRate(context.Background())
	assert.ErrorIs(t, err, ErrRateUnavailable)
}
