package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventProductCreated = "product_created"
	EventProductUpdated = "product_updated"
	EventProductRemoved = "product_removed"
)

// ProductEvent is published to SNS after a successful product write.
type ProductEvent struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	ProductID  int             `json:"product_id"`
	Name       string          `json:"name,omitempty"`
	Price      decimal.Decimal `json:"price"`
	CategoryID int             `json:"category_id,omitempty"`
	Status     bool            `json:"status"`
	HasImage   bool            `json:"has_image"`
	Timestamp  time.Time       `json:"timestamp"`
}
