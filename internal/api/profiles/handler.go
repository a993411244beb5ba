package profiles

import (
	"log/slog"
	"net/http"

	"github.com/d8app/d8-backend/internal/api"
	"github.com/d8app/d8-backend/internal/types"
)

type Handler struct {
	store  *Store
	logger *slog.Logger
}

func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// RecordFeedback handles POST /feedback.
func (h *Handler) RecordFeedback(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "RecordFeedback"))

	var req types.FeedbackRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID == "" || req.RecommendationID == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "user_id and recommendation_id are required")
		return
	}
	switch req.FeedbackType {
	case "positive", "negative", "neutral":
	default:
		api.ErrorResponse(w, r, http.StatusBadRequest, "feedback_type must be positive, negative or neutral")
		return
	}

	if err := h.store.RecordFeedback(req.UserID, req.RecommendationID, req.FeedbackType, req.Rating, req.Comments); err != nil {
		l.ErrorContext(r.Context(), "Failed to record feedback", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to record feedback")
		return
	}

	// Learning hooks are currently no-ops; calling through keeps the
	// history partitioning exercised.
	if err := h.store.LearnFromFeedback(req.UserID); err != nil {
		l.WarnContext(r.Context(), "Failed to update preferences from feedback", slog.Any("error", err))
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{"success": true})
}

// RecordInteraction handles POST /interactions.
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "RecordInteraction"))

	var req types.InteractionRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "user_id is required")
		return
	}
	switch req.InteractionType {
	case "view", "click":
	default:
		api.ErrorResponse(w, r, http.StatusBadRequest, "interaction_type must be view or click")
		return
	}

	if err := h.store.RecordInteraction(req.UserID, req.InteractionType); err != nil {
		l.ErrorContext(r.Context(), "Failed to record interaction", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to record interaction")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{"success": true})
}
