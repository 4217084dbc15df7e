package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/canoasgas/pedidos-api/models"
	"github.com/canoasgas/pedidos-api/render"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxOrderValue is the first value that no longer fits the decimal(10,2) column
var maxOrderValue = decimal.New(1, 8)

// OrderInput is a raw order as submitted by the order form
type OrderInput struct {
	ClientName     string
	Phone          string
	Address        string
	Channel        string
	Product        string
	Info           string
	DeliveryPerson string
	PaymentMethod  string
	// Value and ValueFormatted may be given together; when only one is set
	// the other is derived from it.
	Value          *decimal.Decimal
	ValueFormatted string
}

// ClientInput carries the editable fields of a client
type ClientInput struct {
	Name    string
	Phone   string
	Address string
}

// RenderedMessages holds both texts generated for an order
type RenderedMessages struct {
	Delivery string `json:"delivery_message"`
	Client   string `json:"client_message"`
}

// OrderService implements the order form use cases on top of the client
// directory, the order ledger and the message renderer
type OrderService struct {
	db      *gorm.DB
	clients *ClientDirectory
	ledger  *OrderLedger
	catalog Catalog
	events  EventPublisher
}

var orderServiceInstance *OrderService

// NewOrderService wires the service to db. A nil publisher disables events.
func NewOrderService(db *gorm.DB, catalog Catalog, events EventPublisher) *OrderService {
	if events == nil {
		events = NoopPublisher{}
	}
	return &OrderService{
		db:      db,
		clients: NewClientDirectory(db),
		ledger:  NewOrderLedger(db),
		catalog: catalog,
		events:  events,
	}
}

// InitOrderService creates the process-wide order service
func InitOrderService(db *gorm.DB, catalog Catalog, events EventPublisher) *OrderService {
	orderServiceInstance = NewOrderService(db, catalog, events)
	return orderServiceInstance
}

// GetOrderService returns the initialized order service instance
func GetOrderService() *OrderService {
	return orderServiceInstance
}

// SetOrderService sets the order service instance (primarily for testing)
func SetOrderService(service *OrderService) {
	orderServiceInstance = service
}

// Catalog returns the option sets accepted by SubmitOrder
func (s *OrderService) Catalog() Catalog {
	return s.catalog
}

// SubmitOrder validates the input, resolves the client, stores the order with
// its client snapshot and both generated messages, all in one transaction.
// Validation problems return a *ValidationError; anything failing afterwards
// returns an error matching ErrOrderCreationFailed.
func (s *OrderService) SubmitOrder(ctx context.Context, input OrderInput) (*models.Order, error) {
	fields, value, err := s.normalize(input)
	if err != nil {
		return nil, err
	}
	messages := renderMessages(fields)

	var created *models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		clients := s.clients.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		client, err := clients.ResolveAndSync(ctx, fields.ClientName, fields.Phone, fields.Address)
		if err != nil {
			return err
		}

		order := &models.Order{
			Channel:         fields.Channel,
			Product:         fields.Product,
			DeliveryPerson:  fields.DeliveryPerson,
			PaymentMethod:   fields.PaymentMethod,
			Value:           value,
			ValueFormatted:  fields.ValueFormatted,
			ClientID:        client.ID,
			SnapshotName:    fields.ClientName,
			SnapshotPhone:   fields.Phone,
			SnapshotAddress: fields.Address,
		}
		if fields.Info != "" {
			info := fields.Info
			order.Info = &info
		}
		if err := ledger.Create(ctx, order); err != nil {
			return err
		}

		if _, err := ledger.AttachMessage(ctx, order.ID, models.MessageKindClient, messages.Client); err != nil {
			return err
		}
		if _, err := ledger.AttachMessage(ctx, order.ID, models.MessageKindDelivery, messages.Delivery); err != nil {
			return err
		}

		created, err = ledger.Get(ctx, order.ID)
		return err
	})
	if err != nil {
		log.Printf("Error creating order for %q: %v", fields.ClientName, err)
		return nil, &ServiceError{Code: CodeOrderCreationFailed, Message: "failed to create order", Err: err}
	}

	s.publish(ctx, NewOrderCreatedEvent(created))
	return created, nil
}

// PreviewMessages validates the input and renders both messages without storing anything
func (s *OrderService) PreviewMessages(input OrderInput) (RenderedMessages, error) {
	fields, _, err := s.normalize(input)
	if err != nil {
		return RenderedMessages{}, err
	}
	return renderMessages(fields), nil
}

// RecallClient returns the stored client for name, or nil when there is none.
// An unknown name is the common case and is not an error.
func (s *OrderService) RecallClient(ctx context.Context, name string) (*models.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	client, err := s.clients.FindByName(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

// SearchClients returns clients whose name contains term (see ClientDirectory.Search)
func (s *OrderService) SearchClients(ctx context.Context, term string) ([]models.Client, error) {
	return s.clients.Search(ctx, term)
}

// EditClient renames and updates the client currently named oldName.
// It returns an error matching ErrNotFound when no such client exists yet,
// which callers editing during a new-order flow may ignore.
func (s *OrderService) EditClient(ctx context.Context, oldName string, input ClientInput) (*models.Client, error) {
	oldName = strings.TrimSpace(oldName)
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "client name is required"}
	}

	var updated *models.Client
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		clients := s.clients.WithTx(tx)
		client, err := clients.FindByName(ctx, oldName)
		if errors.Is(err, ErrNotFound) {
			return notFound(fmt.Sprintf("client %q not found", oldName))
		}
		if err != nil {
			return err
		}
		updated, err = clients.Update(ctx, client.ID, name, strings.TrimSpace(input.Phone), strings.TrimSpace(input.Address))
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListOrders returns the newest orders, optionally filtered (see OrderLedger.List)
func (s *OrderService) ListOrders(ctx context.Context, filter string, limit int) ([]models.Order, error) {
	return s.ledger.List(ctx, filter, limit)
}

// GetOrder returns one order with its client and messages
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return s.ledger.Get(ctx, id)
}

// DeleteOrder removes an order and its messages
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	if err := s.ledger.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, OrderEvent{Type: EventOrderDeleted, OrderID: id, OccurredAt: time.Now().UTC()})
	return nil
}

func (s *OrderService) publish(ctx context.Context, event OrderEvent) {
	if err := s.events.Publish(ctx, event); err != nil {
		log.Printf("warning: order %d committed but %s event was not published: %v", event.OrderID, event.Type, err)
	}
}

// normalize trims the input, applies defaults and validates it. It returns
// the display fields together with the numeric value.
func (s *OrderService) normalize(input OrderInput) (render.Fields, decimal.Decimal, error) {
	f := render.Fields{
		ClientName:     strings.TrimSpace(input.ClientName),
		Phone:          strings.TrimSpace(input.Phone),
		Address:        strings.TrimSpace(input.Address),
		Channel:        strings.TrimSpace(input.Channel),
		Product:        strings.TrimSpace(input.Product),
		Info:           strings.TrimSpace(input.Info),
		DeliveryPerson: strings.TrimSpace(input.DeliveryPerson),
		PaymentMethod:  strings.TrimSpace(input.PaymentMethod),
		ValueFormatted: strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input.ValueFormatted), "R$")),
	}

	if f.ClientName == "" {
		return f, decimal.Zero, &ValidationError{Field: "client_name", Message: "client name is required"}
	}
	if f.Address == "" {
		return f, decimal.Zero, &ValidationError{Field: "address", Message: "address is required"}
	}
	if err := s.catalog.Validate(f.Channel, f.Product, f.PaymentMethod); err != nil {
		return f, decimal.Zero, err
	}

	var value decimal.Decimal
	switch {
	case input.Value != nil:
		value = *input.Value
		if f.ValueFormatted == "" {
			f.ValueFormatted = render.FormatBRL(value)
		}
	case f.ValueFormatted != "":
		parsed, err := render.ParseBRL(f.ValueFormatted)
		if err != nil {
			return f, decimal.Zero, &ValidationError{Field: "value_formatted", Message: err.Error()}
		}
		value = parsed
	default:
		return f, decimal.Zero, &ValidationError{Field: "value", Message: "value is required"}
	}
	if value.IsNegative() {
		return f, decimal.Zero, &ValidationError{Field: "value", Message: "value must not be negative"}
	}
	if value.GreaterThanOrEqual(maxOrderValue) {
		return f, decimal.Zero, &ValidationError{Field: "value", Message: "value is too large"}
	}

	if f.Phone == "" {
		f.Phone = models.NotInformed
	}
	if f.DeliveryPerson == "" {
		f.DeliveryPerson = models.NotInformed
	}
	return f, value.Round(2), nil
}

func renderMessages(f render.Fields) RenderedMessages {
	return RenderedMessages{
		Delivery: render.DeliveryMessage(f),
		Client:   render.ClientMessage(f),
	}
}
