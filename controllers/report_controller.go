package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/canoasgas/pedidos-api/services"
	"github.com/gin-gonic/gin"
)

// ArchiveReport handles POST /api/v1/reports?q=&limit= - uploads the CSV
// export to the report bucket and returns a temporary download link
func ArchiveReport(c *gin.Context) {
	svc, ok := orderService(c)
	if !ok {
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	report, err := services.NewReportService(svc, services.GetS3Service()).Archive(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		var serviceErr *services.ServiceError
		switch {
		case errors.Is(err, services.ErrReportStorageDisabled):
			respondError(c, http.StatusServiceUnavailable, "REPORT_STORAGE_DISABLED", "Report storage is not configured")
		case errors.As(err, &serviceErr):
			respondServiceError(c, err, "ORDER_NOT_FOUND")
		default:
			log.Printf("Failed to archive report: %v", err)
			respondError(c, http.StatusBadGateway, "REPORT_ARCHIVE_FAILED", "Failed to archive report")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    report,
	})
}
