package controllers

import (
	"net/http"

	"github.com/canoasgas/pedidos-api/services"
	"github.com/gin-gonic/gin"
)

// EditClientRequest represents the request body for editing a client
type EditClientRequest struct {
	OldName string `json:"old_name" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// RecallClient handles GET /api/v1/clients/recall?name= - data is null for an unknown name
func RecallClient(c *gin.Context) {
	svc, ok := orderService(c)
	if !ok {
		return
	}

	client, err := svc.RecallClient(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondServiceError(c, err, "CLIENT_NOT_FOUND")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    client,
	})
}

// SearchClients handles GET /api/v1/clients?q=
func SearchClients(c *gin.Context) {
	svc, ok := orderService(c)
	if !ok {
		return
	}

	clients, err := svc.SearchClients(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondServiceError(c, err, "CLIENT_NOT_FOUND")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    clients,
	})
}

// EditClient handles PUT /api/v1/clients - renames and updates the client named old_name
func EditClient(c *gin.Context) {
	svc, ok := orderService(c)
	if !ok {
		return
	}

	var req EditClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	client, err := svc.EditClient(c.Request.Context(), req.OldName, services.ClientInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		respondServiceError(c, err, "CLIENT_NOT_FOUND")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    client,
	})
}
