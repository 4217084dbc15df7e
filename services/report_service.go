package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/canoasgas/pedidos-api/models"
	"github.com/google/uuid"
)

// ReportContentType is the media type of exported reports
const ReportContentType = "text/csv; charset=utf-8"

const (
	reportDateLayout = "02/01/2006 15:04"
	utf8BOM          = "\ufeff"
)

var reportHeader = []string{"Data", "Cliente", "Canal", "Produto", "Endereço", "Pagamento", "Valor", "Entregador"}

// ErrReportStorageDisabled is returned when no bucket is configured for report archives
var ErrReportStorageDisabled = errors.New("report storage is not configured")

// ReportLocation is the time zone used for report dates
var ReportLocation = loadReportLocation()

func loadReportLocation() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.UTC
	}
	return loc
}

// WriteOrdersCSV writes the sales report the store opens in a spreadsheet:
// semicolon separated, UTF-8 with BOM, decimal comma values and the client
// data as it was when each order was taken.
func WriteOrdersCSV(buf *bytes.Buffer, orders []models.Order) error {
	buf.WriteString(utf8BOM)
	w := csv.NewWriter(buf)
	w.Comma = ';'

	if err := w.Write(reportHeader); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}
	for _, o := range orders {
		record := []string{
			o.CreatedAt.In(ReportLocation).Format(reportDateLayout),
			o.SnapshotName,
			o.Channel,
			o.Product,
			o.SnapshotAddress,
			o.PaymentMethod,
			strings.Replace(o.Value.StringFixed(2), ".", ",", 1),
			o.DeliveryPerson,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write order %d: %w", o.ID, err)
		}
	}
	w.Flush()
	return w.Error()
}

// ReportFilename names an exported report file; suffix keeps names unique
func ReportFilename(suffix string) string {
	name := "relatorio_vendas_" + time.Now().In(ReportLocation).Format("2006-01-02")
	if suffix != "" {
		name += "_" + suffix
	}
	return name + ".csv"
}

// ArchivedReport describes a report stored in the archive bucket
type ArchivedReport struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Rows int    `json:"rows"`
}

// ReportService exports the order history
type ReportService struct {
	orders  *OrderService
	storage S3Interface
}

// NewReportService creates a report service. storage may be nil when archiving is disabled.
func NewReportService(orders *OrderService, storage S3Interface) *ReportService {
	return &ReportService{orders: orders, storage: storage}
}

// ExportCSV returns the filtered order history as CSV along with the number of rows
func (s *ReportService) ExportCSV(ctx context.Context, filter string, limit int) ([]byte, int, error) {
	orders, err := s.orders.ListOrders(ctx, filter, limit)
	if err != nil {
		return nil, 0, err
	}
	var buf bytes.Buffer
	if err := WriteOrdersCSV(&buf, orders); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), len(orders), nil
}

// Archive exports the filtered order history and uploads it to the archive
// bucket, returning a presigned link to it
func (s *ReportService) Archive(ctx context.Context, filter string, limit int) (*ArchivedReport, error) {
	if s.storage == nil {
		return nil, ErrReportStorageDisabled
	}

	content, rows, err := s.ExportCSV(ctx, filter, limit)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("reports/%s/%s", time.Now().In(ReportLocation).Format("2006-01-02"), ReportFilename(uuid.NewString()))
	if err := s.storage.UploadFile(ctx, key, ReportContentType, content); err != nil {
		return nil, fmt.Errorf("failed to archive report: %w", err)
	}

	url, err := s.storage.GetPresignedURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to link archived report: %w", err)
	}
	return &ArchivedReport{Key: key, URL: url, Rows: rows}, nil
}
