package profiles

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d8app/d8-backend/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), testLogger())
	require.NoError(t, err)
	return store
}

func TestStore_RecordSearchPersists(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, testLogger())
	require.NoError(t, err)

	query := types.DateRequest{DateType: types.DateTypeMeal, Location: "Boston, MA"}
	require.NoError(t, store.RecordSearch("user-1", query))

	// A fresh store must see the persisted file.
	reloaded, err := NewStore(dir, testLogger())
	require.NoError(t, err)
	prefs := reloaded.GetOrCreate("user-1")
	require.Len(t, prefs.SearchHistory, 1)
	assert.Equal(t, "Boston, MA", prefs.SearchHistory[0].Query.Location)
	assert.NotNil(t, prefs.LastActive)
}

func TestStore_RecordFeedback(t *testing.T) {
	store := newTestStore(t)

	rating := 4.5
	require.NoError(t, store.RecordFeedback("user-1", "rec-1", "positive", &rating, "great spot"))
	require.NoError(t, store.RecordFeedback("user-1", "rec-2", "negative", nil, ""))

	prefs := store.GetOrCreate("user-1")
	assert.Equal(t, 2, prefs.TotalFeedbackGiven)
	require.Len(t, prefs.FeedbackHistory, 2)
	assert.Equal(t, "positive", prefs.FeedbackHistory[0].FeedbackType)
	assert.Equal(t, "rec-2", prefs.FeedbackHistory[1].RecommendationID)
}

func TestStore_RecordInteraction(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordInteraction("user-1", "view"))
	require.NoError(t, store.RecordInteraction("user-1", "view"))
	require.NoError(t, store.RecordInteraction("user-1", "click"))

	prefs := store.GetOrCreate("user-1")
	assert.Equal(t, 2, prefs.TotalRecommendationsViewed)
	assert.Equal(t, 1, prefs.TotalRecommendationsClicked)
}

func TestStore_DefaultsOnFirstReference(t *testing.T) {
	store := newTestStore(t)

	prefs := store.GetOrCreate("new-user")
	assert.Equal(t, "new-user", prefs.UserID)
	assert.Equal(t, 10, prefs.MaxTravelDistance)
	assert.NotNil(t, prefs.FavoriteCuisines)
	assert.Zero(t, prefs.TotalFeedbackGiven)
}

func TestStore_SaveSanitizesUserID(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, testLogger())
	require.NoError(t, err)

	require.NoError(t, store.RecordInteraction("../escape", "view"))

	_, err = os.Stat(filepath.Join(dir, "escape.json"))
	assert.NoError(t, err, "path segments must be stripped from the filename")
}

func TestStore_LearnFromFeedbackIgnoresOldEntries(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordFeedback("user-1", "rec-1", "positive", nil, ""))
	// No feedback in the window is a no-op, not an error.
	require.NoError(t, store.LearnFromFeedback("user-1"))
	require.NoError(t, store.LearnFromFeedback("user-without-feedback"))
}

func TestPersonalizationScore(t *testing.T) {
	store := newTestStore(t)
	store.mu.Lock()
	prefs := store.getOrCreateLocked("user-1")
	prefs.FavoriteCuisines["italian"] = 1.0
	prefs.PreferredPriceRanges["medium"] = 1.0
	prefs.PreferredNeighborhoods["north end"] = 1.0
	prefs.AvoidedCuisines = append(prefs.AvoidedCuisines, "fast food")
	store.mu.Unlock()

	t.Run("matching recommendation scores high", func(t *testing.T) {
		score := store.PersonalizationScore("user-1", types.Recommendation{
			CuisineType: "Italian",
			PriceLevel:  "medium",
			Location:    "North End, Boston",
		})
		assert.InDelta(t, 0.7, score, 1e-9)
	})

	t.Run("avoided cuisine scores zero", func(t *testing.T) {
		score := store.PersonalizationScore("user-1", types.Recommendation{
			CuisineType: "Fast Food",
			PriceLevel:  "low",
		})
		assert.Equal(t, 0.0, score)
	})

	t.Run("unknown user scores neutral", func(t *testing.T) {
		score := store.PersonalizationScore("stranger", types.Recommendation{CuisineType: "italian"})
		assert.Equal(t, 0.0, score)
	})
}

func TestPersonalizeRecommendations(t *testing.T) {
	store := newTestStore(t)
	store.mu.Lock()
	prefs := store.getOrCreateLocked("user-1")
	prefs.FavoriteCuisines["thai"] = 1.0
	store.mu.Unlock()

	recs := []types.Recommendation{
		{Name: "Burger Spot", CuisineType: "american"},
		{Name: "Thai Palace", CuisineType: "thai"},
		{Name: "Diner", CuisineType: "american"},
	}

	ordered := store.PersonalizeRecommendations("user-1", recs)
	require.Len(t, ordered, 3)
	assert.Equal(t, "Thai Palace", ordered[0].Name)
	// Equal scores keep their original relative order.
	assert.Equal(t, "Burger Spot", ordered[1].Name)
	assert.Equal(t, "Diner", ordered[2].Name)
}
