package profiles

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postBody(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestRecordFeedbackHandler(t *testing.T) {
	store := newTestStore(t)
	h := NewHandler(store, testLogger())

	t.Run("valid feedback succeeds", func(t *testing.T) {
		rr := postBody(t, h.RecordFeedback, "/feedback", map[string]any{
			"user_id":           "user-1",
			"recommendation_id": "rec-1",
			"feedback_type":     "positive",
			"rating":            4.5,
		})
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"success": true}`, rr.Body.String())

		prefs := store.GetOrCreate("user-1")
		assert.Equal(t, 1, prefs.TotalFeedbackGiven)
	})

	t.Run("missing user id is rejected", func(t *testing.T) {
		rr := postBody(t, h.RecordFeedback, "/feedback", map[string]any{
			"recommendation_id": "rec-1",
			"feedback_type":     "positive",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown feedback type is rejected", func(t *testing.T) {
		rr := postBody(t, h.RecordFeedback, "/feedback", map[string]any{
			"user_id":           "user-1",
			"recommendation_id": "rec-1",
			"feedback_type":     "meh",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestRecordInteractionHandler(t *testing.T) {
	store := newTestStore(t)
	h := NewHandler(store, testLogger())

	t.Run("view is counted", func(t *testing.T) {
		rr := postBody(t, h.RecordInteraction, "/interactions", map[string]any{
			"user_id":          "user-1",
			"interaction_type": "view",
		})
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 1, store.GetOrCreate("user-1").TotalRecommendationsViewed)
	})

	t.Run("unknown interaction type is rejected", func(t *testing.T) {
		rr := postBody(t, h.RecordInteraction, "/interactions", map[string]any{
			"user_id":          "user-1",
			"interaction_type": "hover",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing user id is rejected", func(t *testing.T) {
		rr := postBody(t, h.RecordInteraction, "/interactions", map[string]any{
			"interaction_type": "view",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
