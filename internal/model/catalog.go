package model

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FoodVariant is a priced, sellable configuration of a dish.
type FoodVariant struct {
	ID                      int64
	FoodID                  int64
	FoodName                string
	MeasureUnit             string
	Price                   int64
	IngredientPriceModifier decimal.Decimal
	IsActive                bool
	MeasureValues           []string
	Associations            []IngredientAssociation
}

// MeasureValue returns the first non-empty measure characteristic of the variant.
func (v FoodVariant) MeasureValue() string {
	for _, mv := range v.MeasureValues {
		if mv != "" {
			return mv
		}
	}
	return ""
}

// IngredientAssociation says whether an ingredient may be added to a dish
// and whether it is part of the dish by default.
type IngredientAssociation struct {
	IngredientID int64
	IsAddable    bool
	IsDefault    bool
}

// Ingredient is a catalog ingredient with its base price.
type Ingredient struct {
	ID    int64
	Name  string
	Price int64
}

// Restaurant holds the restaurant data the order engine checks against.
type Restaurant struct {
	ID          int64
	Address     string
	Phone       string
	HasDelivery bool
	HasTakeaway bool
	HasDineIn   bool
	IsActive    bool
}

// Supports reports whether the restaurant offers the given action.
func (r Restaurant) Supports(action FulfillmentAction) bool {
	switch action {
	case ActionDelivery:
		return r.HasDelivery
	case ActionTakeaway:
		return r.HasTakeaway
	case ActionDineIn:
		return r.HasDineIn
	}
	return false
}

// Address is a user's delivery address.
type Address struct {
	ID        int64
	UserID    int64
	Address   string
	Entrance  string
	Floor     *int
	Apartment string
	IsPrimary bool
}

// FullAddress renders the address on one line, skipping empty parts.
func (a Address) FullAddress() string {
	parts := make([]string, 0, 4)
	if a.Address != "" {
		parts = append(parts, "Address: "+a.Address)
	}
	if a.Entrance != "" {
		parts = append(parts, "Entrance: "+a.Entrance)
	}
	if a.Floor != nil && *a.Floor != 0 {
		parts = append(parts, "Floor: "+strconv.Itoa(*a.Floor))
	}
	if a.Apartment != "" {
		parts = append(parts, "Apartment: "+a.Apartment)
	}
	return strings.Join(parts, ", ")
}

// User is the ordering customer.
type User struct {
	ID       int64
	Phone    string
	IsBanned bool
}
