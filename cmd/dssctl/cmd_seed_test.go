package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCommandPostsPaths(t *testing.T) {
	var (
		mu       sync.Mutex
		received []seedPath
		nextID   int64 = 10
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/paths", r.URL.Path)
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))

		var body seedPath
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		received = append(received, body)
		nextID++
		id := nextID
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]int64{"id": id})
	}))
	defer srv.Close()

	out, err := execute(t, "seed", "--catalog", writeCatalog(t, testCatalogYAML), "--api", srv.URL+"/", "--token", "s3cret")
	require.NoError(t, err)

	require.Len(t, received, 2)
	assert.Equal(t, "Trade-in", received[0].Name)
	assert.Equal(t, 0.4, received[0].Weights.Age)
	assert.Equal(t, "Resale", received[1].Name)
	assert.Contains(t, out, `created "Trade-in" as path 11`)
	assert.Contains(t, out, `created "Resale" as path 12`)
}

func TestSeedCommandSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := execute(t, "seed", "--catalog", writeCatalog(t, testCatalogYAML), "--api", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestSeedCommandDryRun(t *testing.T) {
	out, err := execute(t, "seed", "--catalog", writeCatalog(t, testCatalogYAML), "--api", "http://127.0.0.1:1", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, `would create "Trade-in" (0.30/0.30/0.40)`)
}

func TestSeedCommandEmptyCatalog(t *testing.T) {
	_, err := execute(t, "seed", "--catalog", writeCatalog(t, "models: []\n"), "--dry-run")
	assert.Error(t, err)
}
