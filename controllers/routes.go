package controllers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the order desk endpoints on the /api/v1 group
func RegisterRoutes(v1 *gin.RouterGroup) {
	v1.POST("/orders", SubmitOrder)
	v1.GET("/orders", ListOrders)
	v1.GET("/orders/export", ExportOrders)
	v1.GET("/orders/:id", GetOrder)
	v1.DELETE("/orders/:id", DeleteOrder)

	v1.GET("/clients", SearchClients)
	v1.GET("/clients/recall", RecallClient)
	v1.PUT("/clients", EditClient)

	v1.POST("/messages/preview", PreviewMessages)
	v1.GET("/catalog", GetCatalog)
	v1.POST("/reports", ArchiveReport)
}
