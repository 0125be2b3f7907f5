package model

import (
	"time"
)

// FulfillmentAction is how the customer receives the order.
type FulfillmentAction string

const (
	ActionDelivery FulfillmentAction = "delivery"
	ActionTakeaway FulfillmentAction = "takeaway"
	ActionDineIn   FulfillmentAction = "inside"
)

// Valid reports whether a is one of the known actions.
func (a FulfillmentAction) Valid() bool {
	switch a {
	case ActionDelivery, ActionTakeaway, ActionDineIn:
		return true
	}
	return false
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusCreated    OrderStatus = "created"
	StatusInProgress OrderStatus = "in_progress"
	StatusInDelivery OrderStatus = "in_delivery"
	StatusCooked     OrderStatus = "cooked"
	StatusDone       OrderStatus = "done"
	StatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusInProgress, StatusInDelivery, StatusCooked, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// PaymentMethod is how the customer pays on receipt.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// CookStartASAP asks the kitchen to start as soon as possible.
const CookStartASAP = "asap"

// Order represents a persisted customer order.
type Order struct {
	ID           int64             `json:"id" db:"id"`
	UserID       int64             `json:"userId" db:"user_id"`
	RestaurantID int64             `json:"restaurantId" db:"restaurant_id"`
	AddressID    int64             `json:"addressId" db:"address_id"`
	Action       FulfillmentAction `json:"action" db:"order_action"`
	Status       OrderStatus       `json:"status" db:"status"`
	TotalPrice   int64             `json:"totalPrice" db:"total_price"`
	CreatedAt    time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time         `json:"updatedAt" db:"updated_at"`
}

// OrderLine represents a line item in an order. FinalPrice is the price of
// one unit including ingredient additions.
type OrderLine struct {
	ID         int64 `json:"id" db:"id"`
	OrderID    int64 `json:"-" db:"order_id"`
	VariantID  int64 `json:"variantId" db:"food_variant_id"`
	Quantity   int   `json:"quantity" db:"quantity"`
	FinalPrice int64 `json:"finalPrice" db:"final_price"`
}

// IngredientLinkKind tells whether an ingredient was added to or removed from a line.
type IngredientLinkKind string

const (
	IngredientAdded   IngredientLinkKind = "added"
	IngredientRemoved IngredientLinkKind = "removed"
)

// LineIngredient links an order line to an added or removed ingredient.
// Count is the number of added portions and is ignored for removals.
type LineIngredient struct {
	OrderLineID  int64
	IngredientID int64
	Kind         IngredientLinkKind
	Count        int
}

// OrderRequest represents the request payload for placing an order.
type OrderRequest struct {
	Restaurant         SelectedRestaurant `json:"selectedRestaurant"`
	Lines              []RequestedLine    `json:"orderList"`
	AddressID          int64              `json:"addressId"`
	Quantity           int                `json:"orderQuantity"`
	CookStart          string             `json:"cookStart"`
	Comment            *string            `json:"comment,omitempty"`
	PaymentMethod      PaymentMethod      `json:"paymentMethod"`
	MakeAddressPrimary bool               `json:"makeAddressPrimary,omitempty"`
}

// SelectedRestaurant is the client's copy of the restaurant it ordered from.
type SelectedRestaurant struct {
	ID      int64             `json:"id"`
	Action  FulfillmentAction `json:"action"`
	Address string            `json:"address"`
	Phone   string            `json:"phone"`
}

// RequestedLine is a single position in an order request. Price and Name are
// the client's view of the catalog and are only compared, never trusted.
type RequestedLine struct {
	VariantID int64           `json:"size"`
	Name      string          `json:"name"`
	Price     int64           `json:"price"`
	Quantity  int             `json:"quantity"`
	Add       []IngredientAdd `json:"addings,omitempty"`
	Remove    []int64         `json:"removedIngredients,omitempty"`
}

// IngredientAdd asks for Count extra portions of an ingredient.
type IngredientAdd struct {
	IngredientID int64 `json:"ingredientId"`
	Count        int   `json:"count"`
}

// PlaceOrderResponse represents the response payload for a placed order.
type PlaceOrderResponse struct {
	OrderID      int64             `json:"id"`
	UserID       int64             `json:"userId"`
	RestaurantID int64             `json:"restaurantId"`
	AddressID    int64             `json:"addressId"`
	Action       FulfillmentAction `json:"orderAction"`
	TotalPrice   int64             `json:"totalPrice"`
	Status       OrderStatus       `json:"status"`
	OrderCode    string            `json:"uniqueCode"`
}

// OrderResponse represents an order with its lines.
type OrderResponse struct {
	Order
	Lines []OrderLine `json:"lines"`
}

// StatusUpdateRequest represents the payload for changing an order's status.
type StatusUpdateRequest struct {
	Status OrderStatus `json:"status"`
}
