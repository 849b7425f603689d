package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marvinkos/pawstore/internal/catalog"
)

// CatalogHandler serves the static category taxonomy.
type CatalogHandler struct{}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// ListCategories handles GET /api/v1/catalog/categories.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": catalog.Categories()})
}

// GetCategory handles GET /api/v1/catalog/categories/:slug.
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	slug := c.Param("slug")

	category, ok := catalog.BySlug(slug)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Category not found",
		})
		return
	}

	c.JSON(http.StatusOK, category)
}
