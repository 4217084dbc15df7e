package controllers

import (
	"net/http"
	"strconv"

	"github.com/canoasgas/pedidos-api/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SubmitOrderRequest represents the order form as posted by the desk
type SubmitOrderRequest struct {
	ClientName     string           `json:"client_name" binding:"required"`
	Phone          string           `json:"phone"`
	Address        string           `json:"address" binding:"required"`
	Channel        string           `json:"channel" binding:"required"`
	Product        string           `json:"product" binding:"required"`
	Info           string           `json:"info"`
	DeliveryPerson string           `json:"delivery_person"`
	PaymentMethod  string           `json:"payment_method" binding:"required"`
	Value          *decimal.Decimal `json:"value"`
	ValueFormatted string           `json:"value_formatted"`
}

func (r SubmitOrderRequest) input() services.OrderInput {
	return services.OrderInput{
		ClientName:     r.ClientName,
		Phone:          r.Phone,
		Address:        r.Address,
		Channel:        r.Channel,
		Product:        r.Product,
		Info:           r.Info,
		DeliveryPerson: r.DeliveryPerson,
		PaymentMethod:  r.PaymentMethod,
		Value:          r.Value,
		ValueFormatted: r.ValueFormatted,
	}
}

// SubmitOrder handles POST /api/v1/orders - stores an order with both generated messages
func SubmitOrder(c *gin.Context) {
	svc, ok := orderService(c)
	if !ok {
		return
	}

	var req SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := svc.SubmitOrder(c.Request.Context(), req.input())
	if err != nil {
		respondServiceError(c, err, "ORDER_NOT_FOUND")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - newest orders first, ?q= filters by name or address
func ListOrders(c *gin.Context) {
	svc, ok := orderService(c)
	if !ok {
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	orders, err := svc.ListOrders(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondServiceError(c, err, "ORDER_NOT_FOUND")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"count":   len(orders),
	})
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	svc, ok := orderService(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	order, err := svc.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "ORDER_NOT_FOUND")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// DeleteOrder handles DELETE /api/v1/orders/:id - removes the order and its messages
func DeleteOrder(c *gin.Context) {
	svc, ok := orderService(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := svc.DeleteOrder(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "ORDER_NOT_FOUND")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"id": id},
	})
}

// ExportOrders handles GET /api/v1/orders/export - the order history as a spreadsheet-ready CSV
func ExportOrders(c *gin.Context) {
	svc, ok := orderService(c)
	if !ok {
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	content, rows, err := services.NewReportService(svc, nil).ExportCSV(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondServiceError(c, err, "ORDER_NOT_FOUND")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+services.ReportFilename("")+`"`)
	c.Header("X-Report-Rows", strconv.Itoa(rows))
	c.Data(http.StatusOK, services.ReportContentType, content)
}
