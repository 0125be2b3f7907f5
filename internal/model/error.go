package model

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string   `json:"error"`
	Message       string   `json:"message"`
	Details       []string `json:"details,omitempty"`
	CorrelationID string   `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON             = "INVALID_JSON"
	ErrCodeInvalidRequest          = "INVALID_REQUEST"
	ErrCodeUnauthorised            = "UNAUTHORIZED"
	ErrCodeForbidden               = "FORBIDDEN"
	ErrCodeInternalError           = "INTERNAL_ERROR"
	ErrCodeUserBanned              = "USER_BANNED"
	ErrCodeRestaurantNotFound      = "RESTAURANT_NOT_FOUND"
	ErrCodeAddressNotFound         = "ADDRESS_NOT_FOUND"
	ErrCodeVariantsNotFound        = "VARIANTS_NOT_FOUND"
	ErrCodeIngredientsNotFound     = "INGREDIENTS_NOT_FOUND"
	ErrCodeOrderNotFound           = "ORDER_NOT_FOUND"
	ErrCodePriceMismatch           = "PRICE_MISMATCH"
	ErrCodeNameMismatch            = "NAME_MISMATCH"
	ErrCodeRestaurantMismatch      = "RESTAURANT_MISMATCH"
	ErrCodeQuantityMismatch        = "QUANTITY_MISMATCH"
	ErrCodeInvalidIngredients      = "INVALID_INGREDIENTS"
	ErrCodeActionNotSupported      = "ACTION_NOT_SUPPORTED"
	ErrCodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	ErrCodeConcurrentModification  = "CONCURRENT_MODIFICATION"
	ErrCodeDatabase                = "DATABASE_ERROR"
)

// DomainError is a business rule violation. Details lists every offending
// item so the client gets one actionable response.
type DomainError struct {
	Code    string
	Message string
	Details []string
}

func (e *DomainError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, details ...string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// AsDomainError unwraps err into a *DomainError if it carries one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Infrastructure errors raised while committing an order.
var (
	ErrConcurrentModification = NewDomainError(ErrCodeConcurrentModification, "Order data changed while the order was being placed, please retry")
	ErrDatabase               = NewDomainError(ErrCodeDatabase, "Database failure while placing the order")
)

func NewInvalidRequestError(problems []string) *DomainError {
	return NewDomainError(ErrCodeInvalidRequest, "Order request is malformed", problems...)
}

func NewUserBannedError() *DomainError {
	return NewDomainError(ErrCodeUserBanned, "User is not allowed to place orders")
}

func NewRestaurantNotFoundError(id int64) *DomainError {
	return NewDomainError(ErrCodeRestaurantNotFound, fmt.Sprintf("Restaurant %d not found", id))
}

func NewActionNotSupportedError(action FulfillmentAction) *DomainError {
	return NewDomainError(ErrCodeActionNotSupported, fmt.Sprintf("Action %s is not available for this restaurant", action))
}

func NewRestaurantMismatchError(details ...string) *DomainError {
	return NewDomainError(ErrCodeRestaurantMismatch, "Restaurant data does not match", details...)
}

// NewAddressNotFoundError does not reveal whether the address exists for
// another user.
func NewAddressNotFoundError(id int64) *DomainError {
	return NewDomainError(ErrCodeAddressNotFound, fmt.Sprintf("Address %d not found", id))
}

func NewVariantsNotFoundError(ids []int64) *DomainError {
	return NewDomainError(ErrCodeVariantsNotFound, "Food variants not found", formatIDs(ids)...)
}

func NewIngredientsNotFoundError(ids []int64) *DomainError {
	return NewDomainError(ErrCodeIngredientsNotFound, "Ingredients not found", formatIDs(ids)...)
}

func NewPriceMismatchError(variantID, claimed, actual int64) *DomainError {
	return NewDomainError(ErrCodePriceMismatch,
		fmt.Sprintf("Price %d for variant %d does not match current price %d", claimed, variantID, actual))
}

func NewNameMismatchError(variantID int64, claimed, actual string) *DomainError {
	return NewDomainError(ErrCodeNameMismatch,
		fmt.Sprintf("Variant %d has a different name: %q != %q", variantID, actual, claimed))
}

func NewInvalidIngredientsError(violations []string) *DomainError {
	return NewDomainError(ErrCodeInvalidIngredients, "Unavailable ingredients", violations...)
}

func NewQuantityMismatchError(declared, actual int) *DomainError {
	return NewDomainError(ErrCodeQuantityMismatch,
		fmt.Sprintf("Declared order quantity %d does not match line quantities %d", declared, actual))
}

func NewOrderNotFoundError(id int64) *DomainError {
	return NewDomainError(ErrCodeOrderNotFound, fmt.Sprintf("Order %d not found", id))
}

func NewInvalidStatusTransitionError(from, to OrderStatus) *DomainError {
	return NewDomainError(ErrCodeInvalidStatusTransition,
		fmt.Sprintf("Order cannot move from %s to %s", from, to))
}

func formatIDs(ids []int64) []string {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := make([]string, len(sorted))
	for i, id := range sorted {
		out[i] = strconv.FormatInt(id, 10)
	}
	return out
}
