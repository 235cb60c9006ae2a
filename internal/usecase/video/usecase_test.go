package video

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/videogen"
)

type fakeVideoRepo struct {
	videos []*domain.Video
}

func (r *fakeVideoRepo) GetByID(_ context.Context, id string) (*domain.Video, error) {
	for _, v := range r.videos {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, domain.ErrVideoNotFound
}

func (r *fakeVideoRepo) Create(_ context.Context, v *domain.Video) error {
	r.videos = append(r.videos, v)
	return nil
}

func (r *fakeVideoRepo) UpdateStatus(_ context.Context, id string, status domain.VideoStatus, url string, durationSeconds int, errorMessage string) error {
	for _, v := range r.videos {
		if v.ID == id {
			v.Status = status
			if url != "" {
				v.URL = url
			}
			if durationSeconds > 0 {
				v.DurationSeconds = durationSeconds
			}
			v.ErrorMessage = errorMessage
			return nil
		}
	}
	return domain.ErrVideoNotFound
}

func generationServer(status string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/videos", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "job-1", "status": "processing"})
	})
	mux.HandleFunc("GET /v1/videos/job-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":               "job-1",
			"status":           status,
			"url":              "https://cdn.example/job-1.mp4",
			"duration_seconds": 33,
			"error":            "renderer crashed",
		})
	})
	return httptest.NewServer(mux)
}

func TestGenerateRecordsReadyResult(t *testing.T) {
	srv := generationServer("ready")
	defer srv.Close()

	repo := &fakeVideoRepo{videos: []*domain.Video{{ID: "v1", Prompt: "sunset", Status: domain.VideoPending}}}
	uc := NewUsecase(repo, videogen.NewClient(srv.URL, time.Millisecond, time.Second), zap.NewNop())

	require.NoError(t, uc.Generate(context.Background(), "v1"))

	v := repo.videos[0]
	assert.Equal(t, domain.VideoReady, v.Status)
	assert.Equal(t, "https://cdn.example/job-1.mp4", v.URL)
	assert.Equal(t, 33, v.DurationSeconds)
	assert.Empty(t, v.ErrorMessage)
}

func TestGenerateRecordsFailureWithoutRetry(t *testing.T) {
	srv := generationServer("failed")
	defer srv.Close()

	repo := &fakeVideoRepo{videos: []*domain.Video{{ID: "v1", Prompt: "sunset", Status: domain.VideoPending}}}
	uc := NewUsecase(repo, videogen.NewClient(srv.URL, time.Millisecond, time.Second), zap.NewNop())

	// A nil return keeps the queue from retrying; the failure lives on the row.
	require.NoError(t, uc.Generate(context.Background(), "v1"))

	v := repo.videos[0]
	assert.Equal(t, domain.VideoFailed, v.Status)
	assert.Contains(t, v.ErrorMessage, "renderer crashed")
}

func TestGenerateReadyVideoIsNoOp(t *testing.T) {
	repo := &fakeVideoRepo{videos: []*domain.Video{{
		ID: "v1", Status: domain.VideoReady, URL: "https://cdn.example/old.mp4",
	}}}
	uc := NewUsecase(repo, videogen.NewClient("http://unreachable.invalid", time.Millisecond, time.Second), zap.NewNop())

	require.NoError(t, uc.Generate(context.Background(), "v1"))
	assert.Equal(t, "https://cdn.example/old.mp4", repo.videos[0].URL)
}

func TestGenerateUnknownVideo(t *testing.T) {
	uc := NewUsecase(&fakeVideoRepo{}, videogen.NewClient("http://unreachable.invalid", time.Millisecond, time.Second), zap.NewNop())
	assert.ErrorIs(t, uc.Generate(context.Background(), "missing"), domain.ErrVideoNotFound)
}
