package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velmark/vitrine-display-service/internal/domain"
)

type ProductHandler struct {
	products domain.ProductRepository
}

func NewProductHandler(products domain.ProductRepository) *ProductHandler {
	return &ProductHandler{products: products}
}

type createProductRequest struct {
	Name                  string  `json:"name" binding:"required"`
	BasePrice             int64   `json:"basePrice" binding:"required,min=1"`
	MinPrice              int64   `json:"minPrice" binding:"required,min=1"`
	MaxPrice              int64   `json:"maxPrice" binding:"required,min=1"`
	PricingMode           string  `json:"pricingMode"`
	IncreaseBasePercent   float64 `json:"increaseBasePercent"`
	IncreaseRandomPercent float64 `json:"increaseRandomPercent"`
	DecreaseBasePercent   float64 `json:"decreaseBasePercent"`
	DecreaseRandomPercent float64 `json:"decreaseRandomPercent"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mode := domain.PricingMode(req.PricingMode)
	if mode == "" {
		mode = domain.PricingOff
	}
	p := &domain.Product{
		Name:                  req.Name,
		BasePrice:             req.BasePrice,
		CurrentPrice:          req.BasePrice,
		PreviousPrice:         req.BasePrice,
		MinPrice:              req.MinPrice,
		MaxPrice:              req.MaxPrice,
		PricingMode:           mode,
		IncreaseBasePercent:   req.IncreaseBasePercent,
		IncreaseRandomPercent: req.IncreaseRandomPercent,
		DecreaseBasePercent:   req.DecreaseBasePercent,
		DecreaseRandomPercent: req.DecreaseRandomPercent,
	}
	if err := p.ValidatePricing(); err != nil {
		respondError(c, err)
		return
	}
	if err := h.products.Create(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
