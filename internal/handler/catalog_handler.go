package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-board-api/internal/dto"
	"github.com/noah-isme/sma-board-api/pkg/response"
)

type catalogService interface {
	Languages() []dto.LanguageItem
	Categories(ctx context.Context, lang string) ([]dto.CategoryItem, error)
}

// CatalogHandler exposes the fixed language and category catalogs.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// Languages godoc
// @Summary List languages
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /languages [get]
func (h *CatalogHandler) Languages(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Languages())
}

// Categories godoc
// @Summary List categories
// @Tags Catalog
// @Produce json
// @Param lang query string false "Label language, defaults to the stored preference"
// @Success 200 {object} response.Envelope
// @Router /categories [get]
func (h *CatalogHandler) Categories(c *gin.Context) {
	items, err := h.service.Categories(c.Request.Context(), c.Query("lang"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}
