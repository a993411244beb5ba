package images

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPexelsResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pexels-key", r.Header.Get("Authorization"))
		assert.Equal(t, "italian restaurant pasta food Boston", r.URL.Query().Get("query"))
		w.Write([]byte(`{"photos": [{"src": {"medium": "https://images.pexels.com/1-medium.jpg"}}]}`))
	}))
	defer srv.Close()

	p := newPexelsProvider("pexels-key", testLogger())
	p.baseURL = srv.URL

	url := p.Resolve(context.Background(), Query{Category: "italian", Location: "Boston, MA"})
	assert.Equal(t, "https://images.pexels.com/1-medium.jpg", url)
	assert.Equal(t, 1, p.window.used())
}

func TestPexelsResolve_EmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"photos": []}`))
	}))
	defer srv.Close()

	p := newPexelsProvider("pexels-key", testLogger())
	p.baseURL = srv.URL

	assert.Equal(t, "", p.Resolve(context.Background(), Query{Category: "thai"}))
}

func TestUnsplashResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Client-ID unsplash-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"results": [{"urls": {"regular": "https://images.unsplash.com/1.jpg"}}]}`))
	}))
	defer srv.Close()

	p := newUnsplashProvider("unsplash-key", testLogger())
	p.baseURL = srv.URL

	url := p.Resolve(context.Background(), Query{Category: "outdoor"})
	assert.Equal(t, "https://images.unsplash.com/1.jpg", url)
}

func TestStockProviders_UnconfiguredSkipWithoutRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))
	defer srv.Close()

	pexels := newPexelsProvider("", testLogger())
	pexels.baseURL = srv.URL
	assert.Equal(t, "", pexels.Resolve(context.Background(), Query{Category: "thai"}))

	unsplash := newUnsplashProvider("", testLogger())
	unsplash.baseURL = srv.URL
	assert.Equal(t, "", unsplash.Resolve(context.Background(), Query{Category: "thai"}))
}
