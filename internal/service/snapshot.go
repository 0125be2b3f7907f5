package service

import (
	"context"
	"fmt"

	"restaurant-orders/internal/model"
	"restaurant-orders/internal/ordering"
	"restaurant-orders/internal/repository"

	"golang.org/x/sync/errgroup"
)

// snapshotGatherer reads everything validation needs in parallel. Every
// read is an independent statement; no transaction is held.
type snapshotGatherer struct {
	catalog     repository.CatalogRepository
	restaurants repository.RestaurantRepository
	addresses   repository.AddressRepository
	users       repository.UserRepository
	limit       int
}

// Gather returns the validation snapshot and the ordering user. The user is
// nil if it does not exist.
func (g *snapshotGatherer) Gather(ctx context.Context, userID int64, req *model.OrderRequest) (*ordering.Snapshot, *model.User, error) {
	var (
		user        *model.User
		restaurant  *model.Restaurant
		address     *model.Address
		variants    []model.FoodVariant
		ingredients []model.Ingredient
	)

	eg, egCtx := errgroup.WithContext(ctx)
	if g.limit > 0 {
		eg.SetLimit(g.limit)
	}

	eg.Go(func() error {
		var err error
		user, err = g.users.GetByID(egCtx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		restaurant, err = g.restaurants.GetByID(egCtx, req.Restaurant.ID)
		if err != nil {
			return fmt.Errorf("failed to load restaurant: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		address, err = g.addresses.GetUserAddress(egCtx, req.AddressID, userID)
		if err != nil {
			return fmt.Errorf("failed to load address: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		variants, err = g.catalog.GetVariantsByIDs(egCtx, ordering.VariantIDs(req))
		if err != nil {
			return fmt.Errorf("failed to load food variants: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		ingredients, err = g.catalog.GetIngredientsByIDs(egCtx, ordering.IngredientIDs(req))
		if err != nil {
			return fmt.Errorf("failed to load ingredients: %w", err)
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	snap := &ordering.Snapshot{
		Restaurant:  restaurant,
		Address:     address,
		Variants:    make(map[int64]model.FoodVariant, len(variants)),
		Ingredients: make(map[int64]model.Ingredient, len(ingredients)),
	}
	for _, v := range variants {
		snap.Variants[v.ID] = v
	}
	for _, i := range ingredients {
		snap.Ingredients[i.ID] = i
	}

	return snap, user, nil
}
