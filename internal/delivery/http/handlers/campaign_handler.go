package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/usecase/campaign"
)

type CampaignHandler struct {
	uc        *campaign.Usecase
	campaigns domain.CampaignRepository
}

func NewCampaignHandler(uc *campaign.Usecase, campaigns domain.CampaignRepository) *CampaignHandler {
	return &CampaignHandler{uc: uc, campaigns: campaigns}
}

type scheduleCampaignRequest struct {
	VideoID          string `json:"videoId" binding:"required"`
	ScheduledAt      string `json:"scheduledAt" binding:"required"`
	CountdownSeconds int    `json:"countdownSeconds"`
	Highlight        *struct {
		ProductID                string `json:"productId" binding:"required"`
		PromotionalPrice         int64  `json:"promotionalPrice" binding:"required"`
		HighlightDurationSeconds int    `json:"highlightDurationSeconds" binding:"required"`
	} `json:"highlight"`
}

func (h *CampaignHandler) Schedule(c *gin.Context) {
	var req scheduleCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scheduledAt must be RFC3339"})
		return
	}

	cmp := &domain.VideoCampaign{
		VideoID:          req.VideoID,
		ScheduledAt:      scheduledAt,
		CountdownSeconds: req.CountdownSeconds,
	}
	if req.Highlight != nil {
		cmp.Highlight = &domain.Highlight{
			ProductID:        req.Highlight.ProductID,
			PromotionalPrice: req.Highlight.PromotionalPrice,
			DurationSeconds:  req.Highlight.HighlightDurationSeconds,
		}
	}

	if err := h.uc.Schedule(c.Request.Context(), cmp); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cmp)
}

func (h *CampaignHandler) Get(c *gin.Context) {
	cmp, err := h.campaigns.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

func (h *CampaignHandler) Cancel(c *gin.Context) {
	if err := h.uc.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(domain.StatusCancelled)})
}
