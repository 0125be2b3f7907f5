package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"restaurant-orders/internal/middleware"
	"restaurant-orders/internal/model"
	"restaurant-orders/internal/service"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps order request bodies.
const maxBodyBytes = 1 << 20

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.unauthorised(w, r)
		return
	}

	var req model.OrderRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.PlaceOrder(r.Context(), userID, &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.unauthorised(w, r)
		return
	}

	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.service.GetByID(r.Context(), userID, orderID)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PATCH /api/orders/{id}/status requests.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req model.StatusUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrorResponse{
			Error:   model.ErrCodeInvalidJSON,
			Message: "invalid request body",
			Details: []string{err.Error()},
		}, h.logger)
		return false
	}
	return true
}

func (h *OrderHandler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, model.ErrorResponse{
			Error:   model.ErrCodeInvalidRequest,
			Message: "invalid order ID format",
		}, h.logger)
		return 0, false
	}
	return id, true
}

func (h *OrderHandler) unauthorised(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusUnauthorized, model.ErrorResponse{
		Error:   model.ErrCodeUnauthorised,
		Message: "user is not authenticated",
	}, h.logger)
}
