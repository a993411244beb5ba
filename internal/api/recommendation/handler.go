package recommendation

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/d8app/d8-backend/app/observability/metrics"
	"github.com/d8app/d8-backend/internal/api"
	"github.com/d8app/d8-backend/internal/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const itemsPerPage = 10

const locationUnavailableMessage = "Location unavailable - please enable location services or connect to WiFi"

// Recommender is the service surface the handler composes.
type Recommender interface {
	Configured() bool
	ResolveLocation(ctx context.Context, req *types.DateRequest) string
	FetchRecommendations(ctx context.Context, req *types.DateRequest, location string) ([]types.Recommendation, error)
	FetchExploreIdeas(ctx context.Context, req *types.DateRequest, location string) ([]types.Recommendation, error)
}

// SearchRecorder persists search queries for users that send a user id.
type SearchRecorder interface {
	RecordSearch(userID string, query types.DateRequest) error
}

type Handler struct {
	service  Recommender
	recorder SearchRecorder
	logger   *slog.Logger
}

func NewHandler(service Recommender, recorder SearchRecorder, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		recorder: recorder,
		logger:   logger,
	}
}

// queryDescription summarizes the request for the query_used field.
func queryDescription(req *types.DateRequest) string {
	desc := string(req.DateType)
	if req.DateType == types.DateTypeMeal && len(req.MealTimes) > 0 {
		desc += " " + req.MealTimes[0]
	} else if req.DateType == types.DateTypeActivity && len(req.ActivityTypes) > 0 {
		desc += " " + req.ActivityTypes[0]
	}
	return desc
}

func degradedResponse(queryUsed string, start time.Time) types.RecommendationResponse {
	return types.RecommendationResponse{
		Recommendations: []types.Recommendation{},
		TotalFound:      0,
		QueryUsed:       queryUsed,
		ProcessingTime:  time.Since(start).Seconds(),
	}
}

// GetRecommendations handles POST /recommendations: paginated
// AI-powered suggestions for a meal or activity date.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	l := h.logger.With(slog.String("handler", "GetRecommendations"))

	var req types.DateRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	l.InfoContext(ctx, "Received recommendation request",
		slog.String("date_type", string(req.DateType)),
		slog.String("location", req.Location),
		slog.Int("page", req.Page),
	)

	h.recordSearch(ctx, &req)

	// Unknown location means the client could not resolve a position;
	// reject before any paid API call.
	if req.Location == types.UnknownLocation {
		l.InfoContext(ctx, "Rejecting request with unknown location")
		h.writeResult(w, r, "recommendations", "rejected", degradedResponse(locationUnavailableMessage, start))
		return
	}

	if !h.service.Configured() {
		l.WarnContext(ctx, "No completion API key configured")
		h.writeResult(w, r, "recommendations", "no_api_key",
			degradedResponse(fmt.Sprintf("No API key available for %s", queryDescription(&req)), start))
		return
	}

	location := h.service.ResolveLocation(ctx, &req)
	if location == types.UnknownLocation {
		l.InfoContext(ctx, "Rejecting request whose coordinates resolved to unknown location")
		h.writeResult(w, r, "recommendations", "rejected", degradedResponse(locationUnavailableMessage, start))
		return
	}

	all, err := h.service.FetchRecommendations(ctx, &req, location)
	if err != nil {
		l.ErrorContext(ctx, "Recommendation fetch failed", slog.Any("error", err))
		h.writeResult(w, r, "recommendations", "ai_error",
			degradedResponse(fmt.Sprintf("AI service error: %s", err), start))
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageRecs := Paginate(all, page, itemsPerPage)

	l.InfoContext(ctx, "Returning recommendations",
		slog.Int("returned", len(pageRecs)),
		slog.Int("total_found", len(all)),
	)
	h.writeResult(w, r, "recommendations", "ok", types.RecommendationResponse{
		Recommendations: pageRecs,
		TotalFound:      len(all),
		QueryUsed:       fmt.Sprintf("AI-powered recommendations for %s (page %d)", queryDescription(&req), page),
		ProcessingTime:  time.Since(start).Seconds(),
	})
}

// GetExploreIdeas handles POST /explore: a single fixed batch mixing
// restaurant- and activity-style results.
func (h *Handler) GetExploreIdeas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	l := h.logger.With(slog.String("handler", "GetExploreIdeas"))

	var req types.DateRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	l.InfoContext(ctx, "Received explore request", slog.String("location", req.Location))

	h.recordSearch(ctx, &req)

	if req.Location == types.UnknownLocation {
		l.InfoContext(ctx, "Rejecting explore request with unknown location")
		h.writeResult(w, r, "explore", "rejected", degradedResponse(locationUnavailableMessage, start))
		return
	}

	if !h.service.Configured() {
		l.WarnContext(ctx, "No completion API key configured")
		h.writeResult(w, r, "explore", "no_api_key",
			degradedResponse("No API key available for explore ideas", start))
		return
	}

	location := h.service.ResolveLocation(ctx, &req)
	if location == types.UnknownLocation {
		l.InfoContext(ctx, "Rejecting explore request whose coordinates resolved to unknown location")
		h.writeResult(w, r, "explore", "rejected", degradedResponse(locationUnavailableMessage, start))
		return
	}

	ideas, err := h.service.FetchExploreIdeas(ctx, &req, location)
	if err != nil {
		l.ErrorContext(ctx, "Explore fetch failed", slog.Any("error", err))
		h.writeResult(w, r, "explore", "ai_error",
			degradedResponse(fmt.Sprintf("AI service error: %s", err), start))
		return
	}

	l.InfoContext(ctx, "Returning explore ideas", slog.Int("count", len(ideas)))
	h.writeResult(w, r, "explore", "ok", types.RecommendationResponse{
		Recommendations: ideas,
		TotalFound:      len(ideas),
		QueryUsed:       fmt.Sprintf("Explore ideas for %s", location),
		ProcessingTime:  time.Since(start).Seconds(),
	})
}

// recordSearch is best effort; a failed write never affects the
// response.
func (h *Handler) recordSearch(ctx context.Context, req *types.DateRequest) {
	if h.recorder == nil || req.UserID == "" {
		return
	}
	if err := h.recorder.RecordSearch(req.UserID, *req); err != nil {
		h.logger.WarnContext(ctx, "Failed to record search history",
			slog.String("user_id", req.UserID), slog.Any("error", err))
	}
}

func (h *Handler) writeResult(w http.ResponseWriter, r *http.Request, endpoint, outcome string, resp types.RecommendationResponse) {
	metrics.Get().RecommendationRequestsTotal.Add(r.Context(), 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("outcome", outcome),
	))
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}
