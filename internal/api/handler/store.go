package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marvinkos/pawstore/internal/repository"
	"github.com/marvinkos/pawstore/internal/service"
)

// StoreHandler handles store and product endpoints.
type StoreHandler struct {
	products  *repository.ProductRepository
	provision *service.ProvisionService
}

// NewStoreHandler creates a new store handler.
func NewStoreHandler(products *repository.ProductRepository, provision *service.ProvisionService) *StoreHandler {
	return &StoreHandler{products: products, provision: provision}
}

type provisionRequest struct {
	Subdomain string `json:"subdomain" binding:"required"`
}

// ProvisionSubdomain handles POST /api/v1/stores/:id/subdomain.
func (h *StoreHandler) ProvisionSubdomain(c *gin.Context) {
	storeID := c.Param("id")

	var req provisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	store, err := h.provision.Provision(c.Request.Context(), storeID, req.Subdomain)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, repository.ErrStoreNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, store)
}

// GetProduct handles GET /api/v1/stores/:id/products/:productID.
func (h *StoreHandler) GetProduct(c *gin.Context) {
	storeID := c.Param("id")
	productID := c.Param("productID")

	product, err := h.products.GetByID(c.Request.Context(), storeID, productID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repository.ErrProductNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}
