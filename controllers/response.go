package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/canoasgas/pedidos-api/services"
	"github.com/gin-gonic/gin"
)

// respondError writes the standard failure envelope
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

var notFoundMessages = map[string]string{
	"ORDER_NOT_FOUND":  "Order not found",
	"CLIENT_NOT_FOUND": "Client not found",
}

// respondServiceError maps a service error onto the HTTP error envelope.
// notFoundCode names the missing resource (ORDER_NOT_FOUND, CLIENT_NOT_FOUND).
func respondServiceError(c *gin.Context, err error, notFoundCode string) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    services.CodeValidation,
				"message": validationErr.Message,
				"details": gin.H{"field": validationErr.Field},
			},
		})
	case errors.Is(err, services.ErrOrderCreationFailed):
		respondError(c, http.StatusInternalServerError, services.CodeOrderCreationFailed, "Failed to create order")
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, notFoundCode, notFoundMessages[notFoundCode])
	case errors.Is(err, services.ErrConflict):
		respondError(c, http.StatusConflict, services.CodeConflict, "A client with this name already exists")
	default:
		log.Printf("Request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		respondError(c, http.StatusInternalServerError, services.CodePersistence, "Database operation failed")
	}
}

// respondBindError reports a request body or query that could not be parsed
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    services.CodeValidation,
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// orderService returns the process-wide order service or answers 503
func orderService(c *gin.Context) (*services.OrderService, bool) {
	svc := services.GetOrderService()
	if svc == nil {
		respondError(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Order service is not initialized")
		return nil, false
	}
	return svc, true
}

// parseLimit reads the optional ?limit= query parameter
func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		respondError(c, http.StatusBadRequest, services.CodeValidation, "limit must be a non-negative integer")
		return 0, false
	}
	return limit, true
}

// parseID reads the :id path parameter
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid order ID")
		return 0, false
	}
	return uint(id), true
}
