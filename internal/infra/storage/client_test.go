package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptd/internal/domain"
)

const catalogBody = `{
	"status": 200,
	"data": [
		{
			"file_name": "a.txt",
			"size": 10,
			"content_type": "text/plain",
			"updated": "2024-01-01T00:00:00Z",
			"expires_at": "2024-01-01T01:00:00Z",
			"signed_url": "http://x/a"
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{CatalogURL: server.URL, Timeout: 2 * time.Second}, nil, nil)
}

func TestClient_ListArtifacts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(catalogBody))
	})

	artifacts, err := client.ListArtifacts(context.Background())
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "a.txt", artifacts[0].FileName)
	assert.Equal(t, int64(10), artifacts[0].Size)
	assert.Equal(t, "http://x/a", artifacts[0].SignedURL)
}

func TestClient_ListArtifacts_EmptyData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":200,"data":[]}`))
	})

	artifacts, err := client.ListArtifacts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, artifacts)
}

func TestClient_ListArtifacts_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.ListArtifacts(context.Background())
	require.Error(t, err)
	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeUnavailable, code)
}

func TestClient_ListArtifacts_BadEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "wrong status field", body: `{"status":500,"data":[],"message":"down"}`},
		{name: "missing data field", body: `{"status":200}`},
		{name: "not json", body: `<html>nope</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.ListArtifacts(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedEnvelope)
		})
	}
}

func TestClient_ListArtifacts_ConnectionRefused(t *testing.T) {
	client := NewClient(Config{CatalogURL: "http://127.0.0.1:1", Timeout: time.Second}, nil, nil)

	_, err := client.ListArtifacts(context.Background())
	require.Error(t, err)
	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeUnavailable, code)
}

func TestClient_FetchContent(t *testing.T) {
	content := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("You are a helpful assistant."))
	}))
	t.Cleanup(content.Close)

	client := NewClient(Config{CatalogURL: "http://unused", Timeout: time.Second}, nil, nil)
	got, err := client.FetchContent(context.Background(), content.URL)
	require.NoError(t, err)
	assert.Equal(t, "You are a helpful assistant.", got)
}

func TestClient_FetchContent_Failure(t *testing.T) {
	content := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "expired", http.StatusForbidden)
	}))
	t.Cleanup(content.Close)

	client := NewClient(Config{CatalogURL: "http://unused", Timeout: time.Second}, nil, nil)
	_, err := client.FetchContent(context.Background(), content.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestClient_FetchContent_EmptyURL(t *testing.T) {
	client := NewClient(Config{}, nil, nil)
	_, err := client.FetchContent(context.Background(), "  ")
	require.Error(t, err)
	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeInvalidArgument, code)
}

func TestClient_SetCatalogURL(t *testing.T) {
	client := NewClient(Config{CatalogURL: "http://first"}, nil, nil)
	client.SetCatalogURL("http://second")
	assert.Equal(t, "http://second", client.CatalogURL())

	client.SetCatalogURL("   ")
	assert.Equal(t, "http://second", client.CatalogURL())
}

func TestClient_Defaults(t *testing.T) {
	client := NewClient(Config{}, nil, nil)
	assert.Equal(t, domain.DefaultCatalogURL, client.CatalogURL())
}
