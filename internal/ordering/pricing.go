package ordering

import (
	"strings"

	"restaurant-orders/internal/model"

	"github.com/shopspring/decimal"
)

// PricedAddition is one added ingredient on a line with its per-portion price.
type PricedAddition struct {
	Ingredient model.Ingredient
	UnitPrice  int64
	Count      int
}

// PricedLine is a requested line priced from catalog data.
type PricedLine struct {
	Line        model.RequestedLine
	Variant     model.FoodVariant
	DisplayName string
	Additions   []PricedAddition
	Removals    []model.Ingredient
	UnitPrice   int64
	Total       int64
}

// PricedOrder is a validated order with authoritative prices.
type PricedOrder struct {
	*ValidatedOrder
	Lines []PricedLine
	Total int64
}

// IngredientUnitPrice is the price of one added portion of an ingredient:
// the base price scaled by the variant modifier, rounded up to a whole unit.
// Rounding applies per portion, before multiplying by the add count.
func IngredientUnitPrice(basePrice int64, modifier decimal.Decimal) int64 {
	return decimal.NewFromInt(basePrice).Mul(modifier).Ceil().IntPart()
}

// Price recomputes every line from the catalog rows in the validated order.
// Client-claimed prices are never used. Removed ingredients do not change
// the price.
func Price(v *ValidatedOrder) *PricedOrder {
	priced := &PricedOrder{
		ValidatedOrder: v,
		Lines:          make([]PricedLine, 0, len(v.Request.Lines)),
	}

	for _, line := range v.Request.Lines {
		variant := v.Variants[line.VariantID]

		pl := PricedLine{
			Line:        line,
			Variant:     variant,
			DisplayName: DisplayName(variant),
			Additions:   make([]PricedAddition, 0, len(line.Add)),
			Removals:    make([]model.Ingredient, 0, len(line.Remove)),
		}

		var ingredientsCost int64
		for _, add := range line.Add {
			ingredient := v.Ingredients[add.IngredientID]
			unit := IngredientUnitPrice(ingredient.Price, variant.IngredientPriceModifier)
			ingredientsCost += unit * int64(add.Count)
			pl.Additions = append(pl.Additions, PricedAddition{
				Ingredient: ingredient,
				UnitPrice:  unit,
				Count:      add.Count,
			})
		}
		for _, id := range line.Remove {
			pl.Removals = append(pl.Removals, v.Ingredients[id])
		}

		pl.UnitPrice = variant.Price + ingredientsCost
		pl.Total = pl.UnitPrice * int64(line.Quantity)
		priced.Total += pl.Total
		priced.Lines = append(priced.Lines, pl)
	}

	return priced
}

// DisplayName joins the dish name, measure value and measure unit, skipping
// empty parts.
func DisplayName(v model.FoodVariant) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{v.FoodName, v.MeasureValue(), v.MeasureUnit} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
