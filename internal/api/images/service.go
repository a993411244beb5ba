package images

import (
	"context"
	"log/slog"

	"github.com/d8app/d8-backend/app/observability/metrics"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Provider is one photo source in the priority-ordered fallback chain.
// Resolve returns an empty string when the provider is unconfigured,
// over quota, or has no photo for the query.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, q Query) string
	Status() ProviderStatus
}

// ProviderStatus is the advisory quota report for one provider.
type ProviderStatus struct {
	Configured    bool   `json:"configured"`
	CallsInWindow int    `json:"calls_in_window"`
	RateLimit     int    `json:"rate_limit"`
	Period        string `json:"period"`
}

// Service resolves a best-effort photo URL for a named place by walking
// the provider chain, short-circuiting on the first hit. Outcomes,
// including misses, are memoized per composite key for the life of the
// process.
type Service struct {
	logger    *slog.Logger
	providers []Provider
	cache     *cache.Cache
}

// Options carries the provider credentials and tuning knobs.
type Options struct {
	GooglePlacesKey    string
	PexelsKey          string
	UnsplashKey        string
	PlacesSearchRadius int
}

func NewService(opts Options, logger *slog.Logger) *Service {
	providers := []Provider{
		newGooglePlacesProvider(opts.GooglePlacesKey, opts.PlacesSearchRadius, logger),
		newPexelsProvider(opts.PexelsKey, logger),
		newUnsplashProvider(opts.UnsplashKey, logger),
	}
	return newServiceWithProviders(providers, logger)
}

func newServiceWithProviders(providers []Provider, logger *slog.Logger) *Service {
	return &Service{
		logger:    logger,
		providers: providers,
		cache:     cache.New(cache.NoExpiration, 0),
	}
}

// ResolveImageURL returns a photo URL for the query, or an empty string
// when no provider can supply one. No placeholder substitution happens
// on total failure.
func (s *Service) ResolveImageURL(ctx context.Context, q Query) string {
	metrics.Get().ImageLookupsTotal.Add(ctx, 1)

	key := q.cacheKey()
	if cached, found := s.cache.Get(key); found {
		metrics.Get().ImageCacheHitsTotal.Add(ctx, 1)
		if url, ok := cached.(string); ok {
			return url
		}
	}

	imageURL := ""
	for _, provider := range s.providers {
		imageURL = provider.Resolve(ctx, q)
		metrics.Get().ImageProviderCallsTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("provider", provider.Name())))
		if imageURL != "" {
			s.logger.DebugContext(ctx, "Resolved image URL",
				slog.String("provider", provider.Name()),
				slog.String("name", q.Name),
			)
			break
		}
	}

	s.cache.Set(key, imageURL, cache.NoExpiration)
	return imageURL
}

// Status reports the advisory quota state of every provider.
func (s *Service) Status() map[string]ProviderStatus {
	status := make(map[string]ProviderStatus, len(s.providers))
	for _, provider := range s.providers {
		status[provider.Name()] = provider.Status()
	}
	return status
}
