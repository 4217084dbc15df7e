package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCatalog handles GET /api/v1/catalog - the channels, products and payment methods an order may use
func GetCatalog(c *gin.Context) {
	svc, ok := orderService(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    svc.Catalog(),
	})
}
