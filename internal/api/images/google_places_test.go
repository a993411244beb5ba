package images

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlacesProvider(srvURL string) *googlePlacesProvider {
	p := newGooglePlacesProvider("test-key", 1000, testLogger())
	p.searchURL = srvURL
	return p
}

func coordQuery() Query {
	lat, lon := 42.36, -71.05
	return Query{
		Name:      "Luigi's",
		Category:  "italian",
		Location:  "Boston, MA",
		Address:   "12 Salem St, Boston, MA",
		Latitude:  &lat,
		Longitude: &lon,
	}
}

func TestGooglePlaces_ResolveFirstQueryHit(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("query"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "1000", r.URL.Query().Get("radius"))
		json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"results": []map[string]any{
				{"photos": []map[string]any{{"photo_reference": "ref-1"}}},
			},
		})
	}))
	defer srv.Close()

	p := newTestPlacesProvider(srv.URL)
	url := p.Resolve(context.Background(), coordQuery())

	require.Len(t, queries, 1)
	assert.Equal(t, "Luigi's Boston, MA", queries[0])
	assert.Contains(t, url, "photo_reference=ref-1")
	assert.Contains(t, url, "maxwidth=400")
	assert.Equal(t, 1, p.window.used())
}

func TestGooglePlaces_RetryLadder(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("query"))
		json.NewEncoder(w).Encode(map[string]any{"status": "ZERO_RESULTS", "results": []any{}})
	}))
	defer srv.Close()

	p := newTestPlacesProvider(srv.URL)
	url := p.Resolve(context.Background(), coordQuery())

	assert.Equal(t, "", url)
	assert.Equal(t, []string{
		"Luigi's Boston, MA",
		"Luigi's Boston",
		"italian restaurant Boston, MA",
		"italian restaurant Boston",
	}, queries)
	assert.Equal(t, 4, p.window.used())
}

func TestGooglePlaces_SkippedWithoutKeyOrCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))
	defer srv.Close()

	noKey := newGooglePlacesProvider("", 1000, testLogger())
	noKey.searchURL = srv.URL
	assert.Equal(t, "", noKey.Resolve(context.Background(), coordQuery()))

	p := newTestPlacesProvider(srv.URL)
	assert.Equal(t, "", p.Resolve(context.Background(), Query{Name: "Luigi's"}))
}

func TestGooglePlaces_QuotaStopsRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected once the quota is reached")
	}))
	defer srv.Close()

	p := newTestPlacesProvider(srv.URL)
	p.window = newCallWindow(0, time.Hour)

	assert.Equal(t, "", p.Resolve(context.Background(), coordQuery()))
}
