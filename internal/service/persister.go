package service

import (
	"context"

	"restaurant-orders/internal/model"
	"restaurant-orders/internal/ordering"
	"restaurant-orders/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// orderPersister writes a priced order in one transaction: the header, its
// lines, the ingredient links and the optional primary address retag.
// Either all of it is committed or none of it is.
type orderPersister struct {
	orders    repository.OrderRepository
	addresses repository.AddressRepository
	isoLevel  pgx.TxIsoLevel
	logger    zerolog.Logger
}

// Persist stores the order and returns it with generated IDs. Storage
// errors are classified as ErrConcurrentModification or ErrDatabase.
func (p *orderPersister) Persist(ctx context.Context, priced *ordering.PricedOrder) (order *model.Order, err error) {
	tx, err := p.orders.BeginTx(ctx, p.isoLevel)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, repository.ClassifyError(err)
	}

	defer func() {
		if err != nil {
			// Roll back even if ctx was cancelled.
			if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
				p.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order = &model.Order{
		UserID:       priced.UserID,
		RestaurantID: priced.Restaurant.ID,
		AddressID:    priced.Address.ID,
		Action:       priced.Request.Restaurant.Action,
		Status:       model.StatusCreated,
		TotalPrice:   priced.Total,
	}
	if err = p.orders.CreateOrder(ctx, tx, order); err != nil {
		return nil, repository.ClassifyError(err)
	}

	lines := make([]model.OrderLine, len(priced.Lines))
	for i, pl := range priced.Lines {
		lines[i] = model.OrderLine{
			OrderID:    order.ID,
			VariantID:  pl.Variant.ID,
			Quantity:   pl.Line.Quantity,
			FinalPrice: pl.UnitPrice,
		}
	}
	if err = p.orders.CreateOrderLines(ctx, tx, lines); err != nil {
		return nil, repository.ClassifyError(err)
	}

	if err = p.orders.CreateLineIngredients(ctx, tx, lineIngredients(priced, lines)); err != nil {
		return nil, repository.ClassifyError(err)
	}

	if priced.Request.MakeAddressPrimary && !priced.Address.IsPrimary {
		if err = p.addresses.SetPrimary(ctx, tx, priced.UserID, priced.Address.ID); err != nil {
			return nil, repository.ClassifyError(err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		p.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to commit transaction")
		return nil, repository.ClassifyError(err)
	}

	p.logger.Debug().
		Int64("order_id", order.ID).
		Int("line_count", len(lines)).
		Msg("order persisted")

	return order, nil
}

// lineIngredients builds the link rows for persisted lines. lines[i] must
// be the stored row of priced.Lines[i].
func lineIngredients(priced *ordering.PricedOrder, lines []model.OrderLine) []model.LineIngredient {
	var links []model.LineIngredient
	for i, pl := range priced.Lines {
		for _, add := range pl.Additions {
			links = append(links, model.LineIngredient{
				OrderLineID:  lines[i].ID,
				IngredientID: add.Ingredient.ID,
				Kind:         model.IngredientAdded,
				Count:        add.Count,
			})
		}
		for _, removed := range pl.Removals {
			links = append(links, model.LineIngredient{
				OrderLineID:  lines[i].ID,
				IngredientID: removed.ID,
				Kind:         model.IngredientRemoved,
			})
		}
	}
	return links
}
