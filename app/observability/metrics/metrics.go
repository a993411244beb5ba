package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	RecommendationRequestsTotal metric.Int64Counter
	RecommendationsReturned     metric.Int64Counter
	AIRequestDurationSeconds    metric.Float64Histogram
	AIRequestErrorsTotal        metric.Int64Counter
	ImageLookupsTotal           metric.Int64Counter
	ImageCacheHitsTotal         metric.Int64Counter
	ImageProviderCallsTotal     metric.Int64Counter
	GeocodeRequestsTotal        metric.Int64Counter
}

var (
	// Global instance of AppMetrics (initialized once)
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("d8-backend")
		var err error
		m := &AppMetrics{}

		m.RecommendationRequestsTotal, err = meter.Int64Counter(
			"recommendation_requests_total",
			metric.WithDescription("Total number of recommendation requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create recommendation_requests_total: %v", err)
		}

		m.RecommendationsReturned, err = meter.Int64Counter(
			"recommendations_returned_total",
			metric.WithDescription("Total number of recommendation records returned to clients"),
			metric.WithUnit("{recommendation}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create recommendations_returned_total: %v", err)
		}

		m.AIRequestDurationSeconds, err = meter.Float64Histogram(
			"ai_request_duration_seconds",
			metric.WithDescription("Duration of completion-API round trips in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ai_request_duration_seconds: %v", err)
		}

		m.AIRequestErrorsTotal, err = meter.Int64Counter(
			"ai_request_errors_total",
			metric.WithDescription("Total number of completion-API call failures"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ai_request_errors_total: %v", err)
		}

		m.ImageLookupsTotal, err = meter.Int64Counter(
			"image_lookups_total",
			metric.WithDescription("Total number of image URL resolutions requested"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create image_lookups_total: %v", err)
		}

		m.ImageCacheHitsTotal, err = meter.Int64Counter(
			"image_cache_hits_total",
			metric.WithDescription("Total number of image lookups served from the in-process cache"),
			metric.WithUnit("{hit}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create image_cache_hits_total: %v", err)
		}

		m.ImageProviderCallsTotal, err = meter.Int64Counter(
			"image_provider_calls_total",
			metric.WithDescription("Total number of outbound photo-provider API calls"),
			metric.WithUnit("{call}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create image_provider_calls_total: %v", err)
		}

		m.GeocodeRequestsTotal, err = meter.Int64Counter(
			"geocode_requests_total",
			metric.WithDescription("Total number of reverse-geocoding calls"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create geocode_requests_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics.Get called before metrics.InitAppMetrics")
	}
	return appMetrics
}
