package recommendation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/d8app/d8-backend/app/observability/metrics"
	"github.com/d8app/d8-backend/internal/api/images"
	"github.com/d8app/d8-backend/internal/types"
)

// CompletionClient is the single round trip the service needs from the
// completion API.
type CompletionClient interface {
	GenerateCompletion(ctx context.Context, systemMessage, prompt string) (string, error)
}

// Geocoder converts coordinates to a human-readable location label.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, latitude, longitude float64) string
}

// ImageResolver returns a best-effort photo URL for a named place, or
// empty when none can be found.
type ImageResolver interface {
	ResolveImageURL(ctx context.Context, q images.Query) string
}

// Service turns a date request into typed recommendations: prompt
// construction, one completion round trip, best-effort JSON extraction,
// and image enrichment.
type Service struct {
	logger   *slog.Logger
	ai       CompletionClient // nil when no completion-API key is configured
	geocoder Geocoder
	images   ImageResolver
}

func NewService(ai CompletionClient, geocoder Geocoder, imageResolver ImageResolver, logger *slog.Logger) *Service {
	return &Service{
		logger:   logger,
		ai:       ai,
		geocoder: geocoder,
		images:   imageResolver,
	}
}

// Configured reports whether the completion API is usable.
func (s *Service) Configured() bool {
	return s.ai != nil
}

// ResolveLocation returns the location label the prompt should embed.
// Reverse geocoding runs only for the "Current Location" sentinel with
// coordinates present; a failed lookup yields "Unknown Location", which
// the handlers reject before any paid API call.
func (s *Service) ResolveLocation(ctx context.Context, req *types.DateRequest) string {
	if req.Location == types.CurrentLocation && req.HasCoordinates() {
		resolved := s.geocoder.ReverseGeocode(ctx, *req.Latitude, *req.Longitude)
		s.logger.InfoContext(ctx, "Resolved coordinates to location",
			slog.Float64("latitude", *req.Latitude),
			slog.Float64("longitude", *req.Longitude),
			slog.String("location", resolved),
		)
		return resolved
	}
	return req.Location
}

// FetchRecommendations runs the meal/activity prompt through the
// completion API and returns every recommendation it can recover.
func (s *Service) FetchRecommendations(ctx context.Context, req *types.DateRequest, location string) ([]types.Recommendation, error) {
	prompt := buildPrompt(req, location)
	return s.fetch(ctx, req, prompt)
}

// FetchExploreIdeas runs the mixed restaurants-plus-activities prompt.
func (s *Service) FetchExploreIdeas(ctx context.Context, req *types.DateRequest, location string) ([]types.Recommendation, error) {
	prompt := buildExplorePrompt(req, location)
	return s.fetch(ctx, req, prompt)
}

func (s *Service) fetch(ctx context.Context, req *types.DateRequest, prompt string) ([]types.Recommendation, error) {
	if s.ai == nil {
		return nil, fmt.Errorf("completion API is not configured")
	}

	txt, err := s.ai.GenerateCompletion(ctx, systemMessageFor(req.DateType), prompt)
	if err != nil {
		return nil, fmt.Errorf("completion call failed: %w", err)
	}

	objs, err := extractRecommendationObjects(txt)
	if err != nil {
		return nil, err
	}

	recommendations := make([]types.Recommendation, 0, len(objs))
	for _, obj := range objs {
		rec := recommendationFromObject(obj)
		rec.ImageURL = s.resolveImage(ctx, req, rec)
		recommendations = append(recommendations, rec)
	}

	metrics.Get().RecommendationsReturned.Add(ctx, int64(len(recommendations)))
	s.logger.InfoContext(ctx, "Parsed recommendations from completion response",
		slog.Int("count", len(recommendations)))
	return recommendations, nil
}

func (s *Service) resolveImage(ctx context.Context, req *types.DateRequest, rec types.Recommendation) string {
	if s.images == nil {
		return ""
	}
	q := images.Query{
		Name:     rec.Name,
		Category: rec.CuisineType,
		Location: req.Location,
		Address:  rec.Address,
	}
	if req.HasCoordinates() {
		q.Latitude = req.Latitude
		q.Longitude = req.Longitude
	}
	return s.images.ResolveImageURL(ctx, q)
}

// Paginate slices recommendations into fixed-size pages. Pages are
// 1-based; out-of-range pages yield an empty slice.
func Paginate(recs []types.Recommendation, page, perPage int) []types.Recommendation {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(recs) {
		return []types.Recommendation{}
	}
	end := start + perPage
	if end > len(recs) {
		end = len(recs)
	}
	return recs[start:end]
}
