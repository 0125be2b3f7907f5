package service

import (
	"context"
	"fmt"
	"time"

	"restaurant-orders/internal/model"
	"restaurant-orders/internal/notify"
	"restaurant-orders/internal/ordering"
	"restaurant-orders/internal/repository"

	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orders    repository.OrderRepository
	gatherer  *snapshotGatherer
	persister *orderPersister
	notifier  notify.Notifier
	codes     *ordering.CodeGenerator
	reserver  ordering.CodeReserver
	opts      Options
	logger    zerolog.Logger
}

// NewOrderService creates a new order service. A nil notifier discards
// events, a nil code generator is seeded from the clock and a nil reserver
// hands out codes without reserving them.
func NewOrderService(
	repos Repositories,
	notifier notify.Notifier,
	codes *ordering.CodeGenerator,
	reserver ordering.CodeReserver,
	opts Options,
	logger zerolog.Logger,
) OrderService {
	logger = logger.With().Str("service", "order").Logger()

	if notifier == nil {
		notifier = notify.Nop{}
	}
	if codes == nil {
		codes = ordering.NewCodeGenerator(nil)
	}
	if opts.IsoLevel == "" {
		opts.IsoLevel = DefaultOptions().IsoLevel
	}
	if opts.CodeAttempts < 1 {
		opts.CodeAttempts = 1
	}

	return &orderService{
		orders: repos.Orders,
		gatherer: &snapshotGatherer{
			catalog:     repos.Catalog,
			restaurants: repos.Restaurants,
			addresses:   repos.Addresses,
			users:       repos.Users,
			limit:       opts.SnapshotConcurrency,
		},
		persister: &orderPersister{
			orders:    repos.Orders,
			addresses: repos.Addresses,
			isoLevel:  opts.IsoLevel,
			logger:    logger,
		},
		notifier: notifier,
		codes:    codes,
		reserver: reserver,
		opts:     opts,
		logger:   logger,
	}
}

// PlaceOrder validates the request against current catalog state, prices
// it from server-side data and persists it atomically. A rejected request
// leaves no trace in storage. Notification happens after commit and its
// failure does not fail the placement.
func (s *orderService) PlaceOrder(ctx context.Context, userID int64, req *model.OrderRequest) (*model.PlaceOrderResponse, error) {
	if err := ordering.ValidateRequest(req); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", userID).Msg("malformed order request")
		return nil, err
	}

	snap, user, err := s.gatherer.Gather(ctx, userID, req)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to gather order snapshot")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if user == nil {
		s.logger.Warn().Int64("user_id", userID).Msg("unknown user")
		return nil, model.NewDomainError(model.ErrCodeUnauthorised, "Unknown user")
	}
	if user.IsBanned {
		s.logger.Warn().Int64("user_id", userID).Msg("banned user tried to place an order")
		return nil, model.NewUserBannedError()
	}

	validated, err := ordering.Validate(req, userID, snap)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int64("user_id", userID).
			Int64("restaurant_id", req.Restaurant.ID).
			Msg("order rejected")
		return nil, err
	}

	priced := ordering.Price(validated)

	order, err := s.persister.Persist(ctx, priced)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Int64("restaurant_id", req.Restaurant.ID).
			Msg("failed to persist order")
		return nil, err
	}

	code := s.assignCode(ctx, order.RestaurantID)
	summary := ordering.FormatSummary(priced, code, user.Phone)

	event := notify.NewOrderEvent{
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		UserID:       order.UserID,
		Action:       order.Action,
		Status:       order.Status,
		OrderCode:    code,
		TotalPrice:   order.TotalPrice,
		Summary:      summary,
		CreatedAt:    order.CreatedAt,
	}
	if err := s.notifier.NotifyNewOrder(ctx, event); err != nil {
		s.logger.Error().
			Err(err).
			Int64("order_id", order.ID).
			Msg("failed to notify about new order")
	}

	s.logger.Info().
		Int64("order_id", order.ID).
		Int64("user_id", userID).
		Int64("restaurant_id", order.RestaurantID).
		Int64("total_price", order.TotalPrice).
		Int("line_count", len(priced.Lines)).
		Str("order_code", code).
		Msg("order placed successfully")

	return &model.PlaceOrderResponse{
		OrderID:      order.ID,
		UserID:       order.UserID,
		RestaurantID: order.RestaurantID,
		AddressID:    order.AddressID,
		Action:       order.Action,
		TotalPrice:   order.TotalPrice,
		Status:       order.Status,
		OrderCode:    code,
	}, nil
}

// assignCode draws a display code and, when a reserver is configured, tries
// to claim it for the restaurant. A reserver failure or running out of
// attempts yields an unreserved code.
func (s *orderService) assignCode(ctx context.Context, restaurantID int64) string {
	code := s.codes.Generate()
	if s.reserver == nil {
		return code
	}

	for attempt := 1; attempt <= s.opts.CodeAttempts; attempt++ {
		ok, err := s.reserver.Reserve(ctx, restaurantID, code)
		if err != nil {
			s.logger.Warn().Err(err).Int64("restaurant_id", restaurantID).Msg("order code reservation unavailable")
			return code
		}
		if ok {
			return code
		}
		code = s.codes.Generate()
	}

	s.logger.Warn().
		Int64("restaurant_id", restaurantID).
		Int("attempts", s.opts.CodeAttempts).
		Msg("no free order code found, using an unreserved one")
	return code
}

// GetByID retrieves an order with its lines if it belongs to the user.
func (s *orderService) GetByID(ctx context.Context, userID, id int64) (*model.OrderResponse, error) {
	order, lines, err := s.orders.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil || order.UserID != userID {
		s.logger.Debug().Int64("order_id", id).Int64("user_id", userID).Msg("order not found")
		return nil, model.NewOrderNotFoundError(id)
	}

	return &model.OrderResponse{
		Order: *order,
		Lines: lines,
	}, nil
}

// UpdateStatus moves an order to status if the transition is allowed for
// its fulfillment action, then notifies about the change.
func (s *orderService) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, model.NewInvalidRequestError([]string{fmt.Sprintf("unknown status %q", status)})
	}

	order, _, err := s.orders.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to get order")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if order == nil {
		return nil, model.NewOrderNotFoundError(id)
	}

	from := order.Status
	if !ordering.CanTransition(order.Action, from, status) {
		s.logger.Warn().
			Int64("order_id", id).
			Str("from", string(from)).
			Str("to", string(status)).
			Msg("status transition rejected")
		return nil, model.NewInvalidStatusTransitionError(from, status)
	}

	updated, err := s.orders.UpdateStatus(ctx, id, from, status)
	if err != nil {
		return nil, repository.ClassifyError(err)
	}
	if !updated {
		s.logger.Warn().Int64("order_id", id).Msg("order status changed concurrently")
		return nil, model.ErrConcurrentModification
	}

	order.Status = status
	order.UpdatedAt = time.Now().UTC()

	event := notify.StatusChangedEvent{
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		UserID:       order.UserID,
		Action:       order.Action,
		From:         from,
		To:           status,
		ChangedAt:    order.UpdatedAt,
	}
	if err := s.notifier.NotifyStatusChanged(ctx, event); err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to notify about status change")
	}

	s.logger.Info().
		Int64("order_id", id).
		Str("from", string(from)).
		Str("to", string(status)).
		Msg("order status updated")

	return order, nil
}
