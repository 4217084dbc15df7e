package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PreviewMessages handles POST /api/v1/messages/preview - renders both
// texts for an order form without storing anything
func PreviewMessages(c *gin.Context) {
	svc, ok := orderService(c)
	if !ok {
		return
	}

	var req SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	messages, err := svc.PreviewMessages(req.input())
	if err != nil {
		respondServiceError(c, err, "ORDER_NOT_FOUND")
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
	})
}
