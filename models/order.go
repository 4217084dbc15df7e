package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotInformed is stored when the operator leaves an optional contact field blank
const NotInformed = "Não informado"

// Order represents a single delivery order.
// The snapshot fields keep the client data as it was when the order was taken,
// they are never rewritten when the client record changes.
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Channel         string          `gorm:"not null" json:"channel"`
	Product         string          `gorm:"not null" json:"product"`
	DeliveryPerson  string          `gorm:"not null" json:"delivery_person"`
	PaymentMethod   string          `gorm:"not null" json:"payment_method"`
	Value           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"value"`
	ValueFormatted  string          `gorm:"not null" json:"value_formatted"`
	Info            *string         `gorm:"type:text" json:"info"` // nullable, shown to the courier only
	ClientID        uint            `gorm:"not null;index" json:"client_id"`
	Client          Client          `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"client"`
	SnapshotName    string          `gorm:"not null;index" json:"snapshot_name"`
	SnapshotPhone   string          `gorm:"not null" json:"snapshot_phone"`
	SnapshotAddress string          `gorm:"type:text;not null" json:"snapshot_address"`
	Messages        []Message       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"messages"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ClientMessage returns the customer-facing confirmation attached to the order, if any
func (o *Order) ClientMessage() *Message {
	return o.message(MessageKindClient)
}

// DeliveryMessage returns the courier ticket attached to the order, if any
func (o *Order) DeliveryMessage() *Message {
	return o.message(MessageKindDelivery)
}

func (o *Order) message(kind MessageKind) *Message {
	for i := range o.Messages {
		if o.Messages[i].Kind == kind {
			return &o.Messages[i]
		}
	}
	return nil
}
