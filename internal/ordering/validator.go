package ordering

import (
	"fmt"
	"strings"

	"restaurant-orders/internal/model"
)

// Snapshot is every row the validator needs, read before validation starts.
// A nil Restaurant or Address means the read found nothing.
type Snapshot struct {
	Restaurant  *model.Restaurant
	Address     *model.Address
	Variants    map[int64]model.FoodVariant
	Ingredients map[int64]model.Ingredient
}

// ValidatedOrder is an order request that passed every check, together with
// the catalog rows it was checked against.
type ValidatedOrder struct {
	Request     *model.OrderRequest
	UserID      int64
	Restaurant  model.Restaurant
	Address     model.Address
	Variants    map[int64]model.FoodVariant
	Ingredients map[int64]model.Ingredient
}

// Validate cross-checks a shape-valid request against the snapshot. Checks
// run in a fixed order and the first failing check is returned; ingredient
// legality collects all violations before failing.
func Validate(req *model.OrderRequest, userID int64, snap *Snapshot) (*ValidatedOrder, error) {
	restaurant, err := checkRestaurant(req.Restaurant, snap.Restaurant)
	if err != nil {
		return nil, err
	}

	if snap.Address == nil || snap.Address.ID != req.AddressID || snap.Address.UserID != userID {
		return nil, model.NewAddressNotFoundError(req.AddressID)
	}

	var missing []int64
	for _, id := range VariantIDs(req) {
		v, ok := snap.Variants[id]
		if !ok || !v.IsActive {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, model.NewVariantsNotFoundError(missing)
	}

	for _, line := range req.Lines {
		v := snap.Variants[line.VariantID]
		if line.Price != v.Price {
			return nil, model.NewPriceMismatchError(v.ID, line.Price, v.Price)
		}
		if line.Name != v.FoodName {
			return nil, model.NewNameMismatchError(v.ID, line.Name, v.FoodName)
		}
	}

	if violations := ingredientViolations(req, snap.Variants); len(violations) > 0 {
		return nil, model.NewInvalidIngredientsError(violations)
	}

	missing = missing[:0]
	for _, id := range IngredientIDs(req) {
		if _, ok := snap.Ingredients[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, model.NewIngredientsNotFoundError(missing)
	}

	total := 0
	for _, line := range req.Lines {
		total += line.Quantity
	}
	if total != req.Quantity {
		return nil, model.NewQuantityMismatchError(req.Quantity, total)
	}

	return &ValidatedOrder{
		Request:     req,
		UserID:      userID,
		Restaurant:  *restaurant,
		Address:     *snap.Address,
		Variants:    snap.Variants,
		Ingredients: snap.Ingredients,
	}, nil
}

func checkRestaurant(selected model.SelectedRestaurant, restaurant *model.Restaurant) (*model.Restaurant, error) {
	if restaurant == nil || !restaurant.IsActive {
		return nil, model.NewRestaurantNotFoundError(selected.ID)
	}

	if !restaurant.Supports(selected.Action) {
		return nil, model.NewActionNotSupportedError(selected.Action)
	}

	var details []string
	if strings.TrimSpace(selected.Address) != restaurant.Address {
		details = append(details, fmt.Sprintf("address %q does not match the restaurant address", selected.Address))
	}
	if phone, ok := NormalizePhone(selected.Phone); !ok || phone != restaurant.Phone {
		details = append(details, fmt.Sprintf("phone %q does not match the restaurant phone", selected.Phone))
	}
	if len(details) > 0 {
		return nil, model.NewRestaurantMismatchError(details...)
	}

	return restaurant, nil
}

// ingredientViolations checks each line's additions and removals against
// the dish's ingredient associations. Only addable ingredients may be added
// and only default ingredients may be removed.
func ingredientViolations(req *model.OrderRequest, variants map[int64]model.FoodVariant) []string {
	var violations []string

	for _, line := range req.Lines {
		v := variants[line.VariantID]
		assocs := make(map[int64]model.IngredientAssociation, len(v.Associations))
		for _, a := range v.Associations {
			assocs[a.IngredientID] = a
		}

		for _, add := range line.Add {
			assoc, ok := assocs[add.IngredientID]
			switch {
			case !ok:
				violations = append(violations,
					fmt.Sprintf("ingredient %d is not available for variant %d", add.IngredientID, v.ID))
			case !assoc.IsAddable:
				violations = append(violations,
					fmt.Sprintf("ingredient %d cannot be added to variant %d", add.IngredientID, v.ID))
			case assoc.IsDefault:
				violations = append(violations,
					fmt.Sprintf("ingredient %d is already included in variant %d", add.IngredientID, v.ID))
			}
		}

		for _, id := range line.Remove {
			assoc, ok := assocs[id]
			switch {
			case !ok:
				violations = append(violations,
					fmt.Sprintf("ingredient %d is not available for variant %d", id, v.ID))
			case !assoc.IsDefault:
				violations = append(violations,
					fmt.Sprintf("ingredient %d cannot be removed from variant %d", id, v.ID))
			}
		}
	}

	return violations
}
