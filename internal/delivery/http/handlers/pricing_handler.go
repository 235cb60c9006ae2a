package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/velmark/vitrine-display-service/internal/app/background"
	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/jobqueue"
)

// PricingHandler exposes the manual price run, the settings surface and
// the price history audit trail.
type PricingHandler struct {
	queue    *jobqueue.Queue
	settings domain.SettingsRepository
	history  domain.PriceHistoryRepository
}

func NewPricingHandler(queue *jobqueue.Queue, settings domain.SettingsRepository, history domain.PriceHistoryRepository) *PricingHandler {
	return &PricingHandler{queue: queue, settings: settings, history: history}
}

// TriggerUpdate enqueues a manual price run for the job process.
func (h *PricingHandler) TriggerUpdate(c *gin.Context) {
	err := h.queue.Enqueue(c.Request.Context(), background.TaskUpdatePrices,
		background.UpdatePricesPayload{Manual: true},
		jobqueue.WithDedupKey(background.TaskUpdatePrices),
		jobqueue.WithMaxAttempts(3),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

func (h *PricingHandler) GetInterval(c *gin.Context) {
	pi, err := h.settings.GetPriceInterval(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pi)
}

func (h *PricingHandler) SetInterval(c *gin.Context) {
	var pi domain.PriceInterval
	if err := c.ShouldBindJSON(&pi); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.settings.SetPriceInterval(c.Request.Context(), pi); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pi)
}

func (h *PricingHandler) History(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	entries, err := h.history.ListByProduct(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
