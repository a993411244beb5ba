package recommendation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/d8app/d8-backend/app/observability/metrics"
	"github.com/d8app/d8-backend/internal/api/images"
	"github.com/d8app/d8-backend/internal/types"
)

func TestMain(m *testing.M) {
	metrics.InitAppMetrics()
	m.Run()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Mocks ---

type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) GenerateCompletion(ctx context.Context, systemMessage, prompt string) (string, error) {
	args := m.Called(ctx, systemMessage, prompt)
	return args.String(0), args.Error(1)
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) ReverseGeocode(ctx context.Context, latitude, longitude float64) string {
	args := m.Called(ctx, latitude, longitude)
	return args.String(0)
}

type MockImageResolver struct {
	mock.Mock
}

func (m *MockImageResolver) ResolveImageURL(ctx context.Context, q images.Query) string {
	args := m.Called(ctx, q)
	return args.String(0)
}

func floatPtr(v float64) *float64 { return &v }

// --- Tests ---

func TestResolveLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("passes explicit location through", func(t *testing.T) {
		geocoder := new(MockGeocoder)
		svc := NewService(nil, geocoder, nil, testLogger())

		req := &types.DateRequest{Location: "Boston, MA"}
		assert.Equal(t, "Boston, MA", svc.ResolveLocation(ctx, req))
		geocoder.AssertNotCalled(t, "ReverseGeocode")
	})

	t.Run("geocodes current location with coordinates", func(t *testing.T) {
		geocoder := new(MockGeocoder)
		geocoder.On("ReverseGeocode", ctx, 42.36, -71.05).Return("Boston, Massachusetts")
		svc := NewService(nil, geocoder, nil, testLogger())

		req := &types.DateRequest{
			Location:  types.CurrentLocation,
			Latitude:  floatPtr(42.36),
			Longitude: floatPtr(-71.05),
		}
		assert.Equal(t, "Boston, Massachusetts", svc.ResolveLocation(ctx, req))
		geocoder.AssertExpectations(t)
	})

	t.Run("current location without coordinates stays as is", func(t *testing.T) {
		geocoder := new(MockGeocoder)
		svc := NewService(nil, geocoder, nil, testLogger())

		req := &types.DateRequest{Location: types.CurrentLocation}
		assert.Equal(t, types.CurrentLocation, svc.ResolveLocation(ctx, req))
		geocoder.AssertNotCalled(t, "ReverseGeocode")
	})
}

func TestFetchRecommendations(t *testing.T) {
	ctx := context.Background()
	req := &types.DateRequest{
		DateType:  types.DateTypeMeal,
		Location:  "Boston, MA",
		MealTimes: []string{"dinner"},
	}

	t.Run("parses completion into typed recommendations", func(t *testing.T) {
		ai := new(MockCompletionClient)
		ai.On("GenerateCompletion", ctx, mock.Anything, mock.Anything).
			Return("```json\n[{\"name\": \"Luigi's\", \"cuisine_type\": \"italian\"}]\n```", nil)
		resolver := new(MockImageResolver)
		resolver.On("ResolveImageURL", ctx, mock.Anything).Return("https://img.example/1.jpg")

		svc := NewService(ai, new(MockGeocoder), resolver, testLogger())
		recs, err := svc.FetchRecommendations(ctx, req, "Boston, MA")
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "Luigi's", recs[0].Name)
		assert.Equal(t, "https://img.example/1.jpg", recs[0].ImageURL)
		ai.AssertExpectations(t)
	})

	t.Run("completion error is wrapped", func(t *testing.T) {
		ai := new(MockCompletionClient)
		ai.On("GenerateCompletion", ctx, mock.Anything, mock.Anything).
			Return("", errors.New("quota exceeded"))

		svc := NewService(ai, new(MockGeocoder), nil, testLogger())
		_, err := svc.FetchRecommendations(ctx, req, "Boston, MA")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("unparseable completion is an error", func(t *testing.T) {
		ai := new(MockCompletionClient)
		ai.On("GenerateCompletion", ctx, mock.Anything, mock.Anything).
			Return("I have no suggestions today.", nil)

		svc := NewService(ai, new(MockGeocoder), nil, testLogger())
		_, err := svc.FetchRecommendations(ctx, req, "Boston, MA")
		assert.Error(t, err)
	})

	t.Run("nil client errors", func(t *testing.T) {
		svc := NewService(nil, new(MockGeocoder), nil, testLogger())
		assert.False(t, svc.Configured())
		_, err := svc.FetchRecommendations(ctx, req, "Boston, MA")
		assert.Error(t, err)
	})
}

func TestFetchExploreIdeas(t *testing.T) {
	ctx := context.Background()
	ai := new(MockCompletionClient)
	ai.On("GenerateCompletion", ctx, mock.Anything, mock.Anything).
		Return(`[{"name": "Harbor Walk"}, {"name": "Museum of Fine Arts"}]`, nil)

	svc := NewService(ai, new(MockGeocoder), nil, testLogger())
	recs, err := svc.FetchExploreIdeas(ctx, &types.DateRequest{Location: "Boston, MA"}, "Boston, MA")
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestPaginate(t *testing.T) {
	recs := make([]types.Recommendation, 15)
	for i := range recs {
		recs[i].Name = fmt.Sprintf("place-%d", i)
	}

	t.Run("first page is full", func(t *testing.T) {
		page := Paginate(recs, 1, 10)
		require.Len(t, page, 10)
		assert.Equal(t, "place-0", page[0].Name)
		assert.Equal(t, "place-9", page[9].Name)
	})

	t.Run("last page is partial", func(t *testing.T) {
		page := Paginate(recs, 2, 10)
		require.Len(t, page, 5)
		assert.Equal(t, "place-10", page[0].Name)
	})

	t.Run("out of range page is empty", func(t *testing.T) {
		assert.Empty(t, Paginate(recs, 3, 10))
	})

	t.Run("page below one clamps to first", func(t *testing.T) {
		assert.Len(t, Paginate(recs, 0, 10), 10)
	})
}
