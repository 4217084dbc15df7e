package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/canoasgas/pedidos-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// DefaultListLimit is used when ListOrders gets no explicit limit
	DefaultListLimit = 50
	// MaxListLimit is the largest page ListOrders returns
	MaxListLimit = 200
)

// OrderLedger stores orders and the messages attached to them
type OrderLedger struct {
	db *gorm.DB
}

// NewOrderLedger creates a ledger backed by db
func NewOrderLedger(db *gorm.DB) *OrderLedger {
	return &OrderLedger{db: db}
}

// WithTx returns a copy of the ledger that runs on tx
func (l *OrderLedger) WithTx(tx *gorm.DB) *OrderLedger {
	return &OrderLedger{db: tx}
}

// Create persists the order with its snapshot. The client relation is set
// through order.ClientID only; the client row itself is never written here.
func (l *OrderLedger) Create(ctx context.Context, order *models.Order) error {
	if order.ClientID == 0 {
		return &ValidationError{Field: "client_id", Message: "order must reference a client"}
	}
	if err := l.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return wrapDBError("create order", err)
	}
	return nil
}

// AttachMessage stores a generated text on an order. Empty content is not an
// error and stores nothing.
func (l *OrderLedger) AttachMessage(ctx context.Context, orderID uint, kind models.MessageKind, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	message := models.Message{OrderID: orderID, Kind: kind, Content: content}
	if err := l.db.WithContext(ctx).Create(&message).Error; err != nil {
		return nil, wrapDBError(fmt.Sprintf("attach %s message", kind), err)
	}
	return &message, nil
}

// Get returns an order with its client and messages
func (l *OrderLedger) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := l.withRelations(ctx).First(&order, id).Error
	if err != nil {
		return nil, wrapDBError(fmt.Sprintf("get order %d", id), err)
	}
	return &order, nil
}

// List returns the newest orders first. A non-empty filter keeps orders whose
// snapshot name, snapshot address or current client name contains it, ignoring case.
func (l *OrderLedger) List(ctx context.Context, filter string, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	query := l.withRelations(ctx)
	if filter = strings.TrimSpace(filter); filter != "" {
		pattern := containsPattern(filter)
		query = query.
			Select("orders.*").
			Joins("LEFT JOIN clients ON clients.id = orders.client_id").
			Where(`LOWER(orders.snapshot_name) LIKE LOWER(?) ESCAPE '\'`, pattern).
			Or(`LOWER(orders.snapshot_address) LIKE LOWER(?) ESCAPE '\'`, pattern).
			Or(`LOWER(clients.name) LIKE LOWER(?) ESCAPE '\'`, pattern)
	}

	orders := []models.Order{}
	err := query.
		Order("orders.created_at DESC").
		Order("orders.id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, wrapDBError("list orders", err)
	}
	return orders, nil
}

// Delete removes an order and its messages. The referenced client is kept.
func (l *OrderLedger) Delete(ctx context.Context, id uint) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return wrapDBError("delete order messages", err)
		}

		result := tx.Delete(&models.Order{}, id)
		if result.Error != nil {
			return wrapDBError("delete order", result.Error)
		}
		if result.RowsAffected == 0 {
			return notFound(fmt.Sprintf("order %d not found", id))
		}
		return nil
	})
}

func (l *OrderLedger) withRelations(ctx context.Context) *gorm.DB {
	return l.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Client").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.kind ASC")
		})
}
