package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocodeParsesCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "rua das flores 12-34", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"title":"Rua das Flores, 12-34","position":{"lat":-16.6868,"lng":-49.2647}},
			{"title":"Rua das Flores","position":{"lat":-16.7,"lng":-49.2}}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	candidates, err := c.Geocode(context.Background(), "rua das flores 12-34")
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "Rua das Flores, 12-34", candidates[0].Label)
	assert.Equal(t, -16.6868, candidates[0].Latitude)
	assert.Equal(t, -49.2647, candidates[0].Longitude)
}

func TestGeocodeZeroCandidatesIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	candidates, err := c.Geocode(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestGeocodeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Geocode(context.Background(), "rua a")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGeocodeTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, "")
	_, err := c.Geocode(context.Background(), "rua a")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGeocodeCachesSuccessfulLookups(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"items":[{"title":"Rua A","position":{"lat":-16.1,"lng":-49.1}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Geocode(context.Background(), "rua a")
	require.NoError(t, err)
	_, err = c.Geocode(context.Background(), "rua a")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}
