package models

import (
	"time"
)

// MessageKind distinguishes the two texts generated for an order
type MessageKind string

const (
	MessageKindClient   MessageKind = "CLIENT"
	MessageKindDelivery MessageKind = "DELIVERY"
)

// Message is a generated text owned by an order (at most one per kind)
type Message struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"not null;uniqueIndex:ux_messages_order_kind" json:"order_id"` // foreign key to orders table
	Kind      MessageKind `gorm:"type:varchar(16);not null;uniqueIndex:ux_messages_order_kind" json:"kind"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{&Client{}, &Order{}, &Message{}}
}
