package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/usecase/quickad"
)

type QuickAdHandler struct {
	uc *quickad.Usecase
}

func NewQuickAdHandler(uc *quickad.Usecase) *QuickAdHandler {
	return &QuickAdHandler{uc: uc}
}

type createQuickAdRequest struct {
	Name             string  `json:"name" binding:"required"`
	ProductID        *string `json:"productId"`
	PromotionalPrice *int64  `json:"promotionalPrice"`
	Text             string  `json:"text"`
	Price            *int64  `json:"price"`
	DurationSeconds  int     `json:"durationSeconds" binding:"required,min=1"`
}

func (h *QuickAdHandler) Create(c *gin.Context) {
	var req createQuickAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ad := &domain.QuickAd{
		Name:             req.Name,
		ProductID:        req.ProductID,
		PromotionalPrice: req.PromotionalPrice,
		Text:             req.Text,
		Price:            req.Price,
		DurationSeconds:  req.DurationSeconds,
	}
	if err := h.uc.Create(c.Request.Context(), ad); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ad)
}

// Play pushes the ad to the display; a busy screen answers 409.
func (h *QuickAdHandler) Play(c *gin.Context) {
	ad, err := h.uc.Play(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ad)
}
