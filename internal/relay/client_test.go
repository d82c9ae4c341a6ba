package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "rotas.xlsx", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"filename":"rotas.xlsx","rows":2,"data":[
			{"Destination Address":"Rua A","Geo_Latitude":-16.1,"Geo_Longitude":-49.1},
			{"Destination Address":"Rua B","Geo_Latitude":"Not found","Geo_Longitude":"Not found"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.Upload(context.Background(), "rotas.xlsx", strings.NewReader("fake sheet bytes"))
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Rows)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "Rua A", resp.Data[0].BestAddress())
	assert.Equal(t, "Not found", resp.Data[1].Latitude())
}

func TestUploadRelayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Upload(context.Background(), "rotas.xlsx", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestUploadMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>error</html>"},
		{"missing data field", `{"filename":"rotas.xlsx","rows":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL)
			_, err := c.Upload(context.Background(), "rotas.xlsx", strings.NewReader("x"))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestUploadTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Upload(context.Background(), "rotas.xlsx", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnavailable)
}
