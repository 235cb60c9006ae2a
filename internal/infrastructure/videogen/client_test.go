package videogen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func videoServer(t *testing.T, pollsUntilReady int32, finalStatus string) *httptest.Server {
	t.Helper()
	var polls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/videos", func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Prompt)
		json.NewEncoder(w).Encode(jobResponse{ID: "job-1", Status: "processing"})
	})
	mux.HandleFunc("GET /v1/videos/job-1", func(w http.ResponseWriter, r *http.Request) {
		resp := jobResponse{ID: "job-1", Status: "processing"}
		if polls.Add(1) >= pollsUntilReady {
			resp.Status = finalStatus
			resp.URL = "https://cdn.example/job-1.mp4"
			resp.DurationSeconds = 42
			resp.Error = "prompt rejected"
		}
		json.NewEncoder(w).Encode(resp)
	})
	return httptest.NewServer(mux)
}

func TestGeneratePollsUntilReady(t *testing.T) {
	srv := videoServer(t, 3, "ready")
	defer srv.Close()

	c := NewClient(srv.URL, time.Millisecond, time.Second)
	result, err := c.Generate(context.Background(), "sunset over the bakery")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/job-1.mp4", result.URL)
	assert.Equal(t, 42, result.DurationSeconds)
}

func TestGenerateReportsUpstreamFailure(t *testing.T) {
	srv := videoServer(t, 2, "failed")
	defer srv.Close()

	c := NewClient(srv.URL, time.Millisecond, time.Second)
	_, err := c.Generate(context.Background(), "sunset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt rejected")
}

func TestGenerateTimesOut(t *testing.T) {
	srv := videoServer(t, 1<<30, "ready")
	defer srv.Close()

	c := NewClient(srv.URL, time.Millisecond, 10*time.Millisecond)
	_, err := c.Generate(context.Background(), "sunset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestGenerateSubmitErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Millisecond, time.Second)
	_, err := c.Generate(context.Background(), "sunset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestGenerateHonoursContextCancel(t *testing.T) {
	srv := videoServer(t, 1<<30, "ready")
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, time.Millisecond, time.Second)
	_, err := c.Generate(ctx, "sunset")
	assert.ErrorIs(t, err, context.Canceled)
}
