// Package notify delivers order events to the systems that act on them:
// the restaurant chat bot through RabbitMQ and the summary archive on S3.
package notify

import (
	"context"
	"time"

	"restaurant-orders/internal/model"
)

// NewOrderEvent is emitted once an order has been committed.
type NewOrderEvent struct {
	OrderID      int64                   `json:"orderId"`
	RestaurantID int64                   `json:"restaurantId"`
	UserID       int64                   `json:"userId"`
	Action       model.FulfillmentAction `json:"action"`
	Status       model.OrderStatus       `json:"status"`
	OrderCode    string                  `json:"uniqueCode"`
	TotalPrice   int64                   `json:"totalPrice"`
	Summary      string                  `json:"summary"`
	CreatedAt    time.Time               `json:"createdAt"`
}

// StatusChangedEvent is emitted after an order moved to a new status.
type StatusChangedEvent struct {
	OrderID      int64                   `json:"orderId"`
	RestaurantID int64                   `json:"restaurantId"`
	UserID       int64                   `json:"userId"`
	Action       model.FulfillmentAction `json:"action"`
	From         model.OrderStatus       `json:"from"`
	To           model.OrderStatus       `json:"to"`
	ChangedAt    time.Time               `json:"changedAt"`
}

// Notifier delivers order events. Implementations must be safe for
// concurrent use.
type Notifier interface {
	NotifyNewOrder(ctx context.Context, event NewOrderEvent) error
	NotifyStatusChanged(ctx context.Context, event StatusChangedEvent) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) NotifyNewOrder(context.Context, NewOrderEvent) error           { return nil }
func (Nop) NotifyStatusChanged(context.Context, StatusChangedEvent) error { return nil }
