package images

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	placesSearchURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	placesPhotoURL  = "https://maps.googleapis.com/maps/api/place/photo"

	placesQuota  = 100000
	placesWindow = 30 * 24 * time.Hour
)

// googlePlacesProvider resolves real venue photos through the Google
// Places text search. It needs coordinates; queries without them are
// passed to the next provider in the chain.
type googlePlacesProvider struct {
	apiKey       string
	searchRadius int
	searchURL    string
	photoBaseURL string
	httpClient   *http.Client
	window       *callWindow
	logger       *slog.Logger
}

func newGooglePlacesProvider(apiKey string, searchRadius int, logger *slog.Logger) *googlePlacesProvider {
	if searchRadius <= 0 {
		searchRadius = 1000
	}
	return &googlePlacesProvider{
		apiKey:       apiKey,
		searchRadius: searchRadius,
		searchURL:    placesSearchURL,
		photoBaseURL: placesPhotoURL,
		httpClient:   &http.Client{Timeout: 5 * time.Second},
		window:       newCallWindow(placesQuota, placesWindow),
		logger:       logger,
	}
}

func (p *googlePlacesProvider) Name() string { return "google_places" }

func (p *googlePlacesProvider) Status() ProviderStatus {
	return ProviderStatus{
		Configured:    p.apiKey != "",
		CallsInWindow: p.window.used(),
		RateLimit:     placesQuota,
		Period:        "monthly",
	}
}

// Resolve tries progressively looser search queries: the place name
// with location context, the name with the address-derived city, then a
// generic "{category} restaurant" phrase with each location variant.
func (p *googlePlacesProvider) Resolve(ctx context.Context, q Query) string {
	if p.apiKey == "" || !q.HasCoordinates() {
		return ""
	}

	queries := []string{}
	if q.Location != "" {
		queries = append(queries, fmt.Sprintf("%s %s", q.Name, q.Location))
	} else {
		queries = append(queries, q.Name)
	}
	if city := addressCity(q.Address); city != "" {
		queries = append(queries, fmt.Sprintf("%s %s", q.Name, city))
	}
	generic := fmt.Sprintf("%s restaurant", q.Category)
	if q.Location != "" {
		queries = append(queries, fmt.Sprintf("%s %s", generic, q.Location))
	}
	if city := addressCity(q.Address); city != "" {
		queries = append(queries, fmt.Sprintf("%s %s", generic, city))
	}

	for _, query := range queries {
		if !p.window.allow() {
			p.logger.WarnContext(ctx, "Google Places quota reached, skipping provider")
			return ""
		}
		if photoURL := p.search(ctx, query, *q.Latitude, *q.Longitude); photoURL != "" {
			return photoURL
		}
	}
	return ""
}

type placesSearchResponse struct {
	Results []struct {
		Photos []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
	} `json:"results"`
	Status string `json:"status"`
}

func (p *googlePlacesProvider) search(ctx context.Context, query string, latitude, longitude float64) string {
	params := url.Values{}
	params.Set("query", query)
	params.Set("location", fmt.Sprintf("%f,%f", latitude, longitude))
	params.Set("radius", fmt.Sprintf("%d", p.searchRadius))
	params.Set("key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", p.searchURL, params.Encode()), nil)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to build Places search request", slog.Any("error", err))
		return ""
	}

	resp, err := p.httpClient.Do(req)
	p.window.record(1)
	if err != nil {
		p.logger.WarnContext(ctx, "Google Places search failed", slog.Any("error", err))
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.WarnContext(ctx, "Google Places returned non-200 status", slog.Int("status", resp.StatusCode))
		return ""
	}

	var data placesSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		p.logger.WarnContext(ctx, "Failed to decode Places response", slog.Any("error", err))
		return ""
	}

	for _, result := range data.Results {
		if len(result.Photos) > 0 && result.Photos[0].PhotoReference != "" {
			return p.photoURL(result.Photos[0].PhotoReference)
		}
	}
	return ""
}

// photoURL builds the photo fetch URL for a reference; the URL itself
// is returned to the client, which loads the image directly.
func (p *googlePlacesProvider) photoURL(reference string) string {
	params := url.Values{}
	params.Set("maxwidth", "400")
	params.Set("photo_reference", reference)
	params.Set("key", p.apiKey)
	return fmt.Sprintf("%s?%s", p.photoBaseURL, params.Encode())
}
