package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/pkg/clock"
)

// StateHandler answers the on-demand state query display clients use to
// reconcile after missed notifications.
type StateHandler struct {
	campaigns domain.CampaignRepository
	ads       domain.QuickAdRepository
	products  domain.ProductRepository
	videos    domain.VideoRepository
	clock     clock.Clock
}

func NewStateHandler(
	campaigns domain.CampaignRepository,
	ads domain.QuickAdRepository,
	products domain.ProductRepository,
	videos domain.VideoRepository,
	clk clock.Clock,
) *StateHandler {
	return &StateHandler{campaigns: campaigns, ads: ads, products: products, videos: videos, clock: clk}
}

type displayState struct {
	ActiveCampaign *activeCampaignState `json:"activeCampaign,omitempty"`
	PlayingQuickAd *domain.QuickAd      `json:"playingQuickAd,omitempty"`
	Products       []*domain.Product    `json:"products"`
	Timestamp      time.Time            `json:"timestamp"`
}

type activeCampaignState struct {
	*domain.VideoCampaign
	VideoURL string `json:"videoUrl,omitempty"`
}

func (h *StateHandler) State(c *gin.Context) {
	ctx := c.Request.Context()
	now := h.clock.Now()

	state := displayState{Timestamp: now}

	active, err := h.campaigns.ActiveCampaign(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	if active != nil {
		acs := &activeCampaignState{VideoCampaign: active}
		if video, err := h.videos.GetByID(ctx, active.VideoID); err == nil {
			acs.VideoURL = video.URL
		}
		state.ActiveCampaign = acs
	}

	// "Playing" for quick ads is derived, never stored.
	ads, err := h.ads.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	for _, ad := range ads {
		if ad.PlayingAt(now) {
			state.PlayingQuickAd = ad
			break
		}
	}

	products, err := h.products.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	state.Products = products

	c.JSON(http.StatusOK, state)
}
