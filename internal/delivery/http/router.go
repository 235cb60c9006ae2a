package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/velmark/vitrine-display-service/internal/delivery/http/handlers"
)

// Handlers groups everything the route table needs.
type Handlers struct {
	Stream    *handlers.StreamHandler
	State     *handlers.StateHandler
	Products  *handlers.ProductHandler
	Campaigns *handlers.CampaignHandler
	QuickAds  *handlers.QuickAdHandler
	Videos    *handlers.VideoHandler
	Pricing   *handlers.PricingHandler
	Logger    *zap.Logger
}

// Setup registers all HTTP routes on the engine.
func Setup(r *gin.Engine, h Handlers) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	api.GET("/display/stream", h.Stream.Stream)
	api.GET("/display/state", h.State.State)

	api.GET("/products", h.Products.List)
	api.POST("/products", h.Products.Create)
	api.GET("/products/:id", h.Products.Get)
	api.GET("/products/:id/price-history", h.Pricing.History)

	api.POST("/prices/update", h.Pricing.TriggerUpdate)
	api.GET("/settings/price-interval", h.Pricing.GetInterval)
	api.PUT("/settings/price-interval", h.Pricing.SetInterval)

	api.POST("/campaigns", h.Campaigns.Schedule)
	api.GET("/campaigns/:id", h.Campaigns.Get)
	api.POST("/campaigns/:id/cancel", h.Campaigns.Cancel)

	api.POST("/quick-ads", h.QuickAds.Create)
	api.POST("/quick-ads/:id/play", h.QuickAds.Play)

	api.POST("/videos", h.Videos.Create)
	api.GET("/videos/:id", h.Videos.Get)
	api.POST("/videos/:id/generate", h.Videos.Regenerate)
}
