package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velmark/vitrine-display-service/internal/app/background"
	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/jobqueue"
)

// VideoHandler creates video records and hands generation to the job
// process. Re-triggering a failed video is the same enqueue call again.
type VideoHandler struct {
	videos domain.VideoRepository
	queue  *jobqueue.Queue
}

func NewVideoHandler(videos domain.VideoRepository, queue *jobqueue.Queue) *VideoHandler {
	return &VideoHandler{videos: videos, queue: queue}
}

type createVideoRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

func (h *VideoHandler) Create(c *gin.Context) {
	var req createVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v := &domain.Video{Prompt: req.Prompt}
	if err := h.videos.Create(c.Request.Context(), v); err != nil {
		respondError(c, err)
		return
	}
	if err := h.enqueueGeneration(c, v.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *VideoHandler) Get(c *gin.Context) {
	v, err := h.videos.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Regenerate re-queues generation for a video stuck in failed.
func (h *VideoHandler) Regenerate(c *gin.Context) {
	v, err := h.videos.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.enqueueGeneration(c, v.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

func (h *VideoHandler) enqueueGeneration(c *gin.Context, videoID string) error {
	return h.queue.Enqueue(c.Request.Context(), background.TaskGenerateVideo,
		background.GenerateVideoPayload{VideoID: videoID},
		jobqueue.WithDedupKey(background.TaskGenerateVideo+":"+videoID),
		jobqueue.WithMaxAttempts(1),
	)
}
