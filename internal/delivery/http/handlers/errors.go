package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velmark/vitrine-display-service/internal/domain"
)

// respondError maps domain errors onto the error taxonomy: validation 400,
// conflict 409, not-found 404, everything else 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrScreenBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCampaignNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrQuickAdNotFound),
		errors.Is(err, domain.ErrVideoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidPricing),
		errors.Is(err, domain.ErrInvalidCampaign),
		errors.Is(err, domain.ErrInvalidQuickAd),
		errors.Is(err, domain.ErrInvalidSetting):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
