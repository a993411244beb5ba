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
	pexelsSearchURL   = "https://api.pexels.com/v1/search"
	unsplashSearchURL = "https://api.unsplash.com/search/photos"

	pexelsQuota   = 200
	unsplashQuota = 50
	stockRateHour = time.Hour
)

// pexelsProvider serves generic category photos from the Pexels search
// API.
type pexelsProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	window     *callWindow
	logger     *slog.Logger
}

func newPexelsProvider(apiKey string, logger *slog.Logger) *pexelsProvider {
	return &pexelsProvider{
		apiKey:     apiKey,
		baseURL:    pexelsSearchURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		window:     newCallWindow(pexelsQuota, stockRateHour),
		logger:     logger,
	}
}

func (p *pexelsProvider) Name() string { return "pexels" }

func (p *pexelsProvider) Status() ProviderStatus {
	return ProviderStatus{
		Configured:    p.apiKey != "",
		CallsInWindow: p.window.used(),
		RateLimit:     pexelsQuota,
		Period:        "hourly",
	}
}

type pexelsSearchResponse struct {
	Photos []struct {
		Src struct {
			Medium string `json:"medium"`
		} `json:"src"`
	} `json:"photos"`
}

func (p *pexelsProvider) Resolve(ctx context.Context, q Query) string {
	if p.apiKey == "" {
		return ""
	}
	if !p.window.allow() {
		p.logger.WarnContext(ctx, "Pexels quota reached, skipping provider")
		return ""
	}

	params := url.Values{}
	params.Set("query", q.searchQuery())
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, params.Encode()), nil)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to build Pexels request", slog.Any("error", err))
		return ""
	}
	req.Header.Set("Authorization", p.apiKey)

	resp, err := p.httpClient.Do(req)
	p.window.record(1)
	if err != nil {
		p.logger.WarnContext(ctx, "Pexels search failed", slog.Any("error", err))
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.WarnContext(ctx, "Pexels returned non-200 status", slog.Int("status", resp.StatusCode))
		return ""
	}

	var data pexelsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		p.logger.WarnContext(ctx, "Failed to decode Pexels response", slog.Any("error", err))
		return ""
	}
	if len(data.Photos) > 0 {
		return data.Photos[0].Src.Medium
	}
	return ""
}

// unsplashProvider is the second stock-photo fallback.
type unsplashProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	window     *callWindow
	logger     *slog.Logger
}

func newUnsplashProvider(apiKey string, logger *slog.Logger) *unsplashProvider {
	return &unsplashProvider{
		apiKey:     apiKey,
		baseURL:    unsplashSearchURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		window:     newCallWindow(unsplashQuota, stockRateHour),
		logger:     logger,
	}
}

func (p *unsplashProvider) Name() string { return "unsplash" }

func (p *unsplashProvider) Status() ProviderStatus {
	return ProviderStatus{
		Configured:    p.apiKey != "",
		CallsInWindow: p.window.used(),
		RateLimit:     unsplashQuota,
		Period:        "hourly",
	}
}

type unsplashSearchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

func (p *unsplashProvider) Resolve(ctx context.Context, q Query) string {
	if p.apiKey == "" {
		return ""
	}
	if !p.window.allow() {
		p.logger.WarnContext(ctx, "Unsplash quota reached, skipping provider")
		return ""
	}

	params := url.Values{}
	params.Set("query", q.searchQuery())
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, params.Encode()), nil)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to build Unsplash request", slog.Any("error", err))
		return ""
	}
	req.Header.Set("Authorization", fmt.Sprintf("Client-ID %s", p.apiKey))

	resp, err := p.httpClient.Do(req)
	p.window.record(1)
	if err != nil {
		p.logger.WarnContext(ctx, "Unsplash search failed", slog.Any("error", err))
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.WarnContext(ctx, "Unsplash returned non-200 status", slog.Int("status", resp.StatusCode))
		return ""
	}

	var data unsplashSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		p.logger.WarnContext(ctx, "Failed to decode Unsplash response", slog.Any("error", err))
		return ""
	}
	if len(data.Results) > 0 {
		return data.Results[0].URLs.Regular
	}
	return ""
}
