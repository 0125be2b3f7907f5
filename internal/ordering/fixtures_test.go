package ordering

import (
	"restaurant-orders/internal/model"

	"github.com/shopspring/decimal"
)

const (
	testUserID       int64 = 7
	testRestaurantID int64 = 1
	testAddressID    int64 = 10

	margheritaID int64 = 100
	colaID       int64 = 101

	cheeseID int64 = 1
	onionID  int64 = 2
	basilID  int64 = 3
	tomatoID int64 = 4
)

func testSnapshot() *Snapshot {
	floor := 3
	return &Snapshot{
		Restaurant: &model.Restaurant{
			ID:          testRestaurantID,
			Address:     "Lenina 1",
			Phone:       "+79990000000",
			HasDelivery: true,
			HasTakeaway: true,
			HasDineIn:   false,
			IsActive:    true,
		},
		Address: &model.Address{
			ID:        testAddressID,
			UserID:    testUserID,
			Address:   "Mira 5",
			Entrance:  "2",
			Floor:     &floor,
			Apartment: "12",
		},
		Variants: map[int64]model.FoodVariant{
			margheritaID: {
				ID:                      margheritaID,
				FoodID:                  50,
				FoodName:                "Margherita",
				MeasureUnit:             "cm",
				Price:                   500,
				IngredientPriceModifier: decimal.RequireFromString("2.0"),
				IsActive:                true,
				MeasureValues:           []string{"30"},
				Associations: []model.IngredientAssociation{
					{IngredientID: cheeseID, IsAddable: true, IsDefault: false},
					{IngredientID: onionID, IsAddable: false, IsDefault: true},
					{IngredientID: basilID, IsAddable: false, IsDefault: false},
					{IngredientID: tomatoID, IsAddable: true, IsDefault: true},
				},
			},
			colaID: {
				ID:                      colaID,
				FoodID:                  51,
				FoodName:                "Cola",
				MeasureUnit:             "l",
				Price:                   120,
				IngredientPriceModifier: decimal.NewFromInt(1),
				IsActive:                true,
				MeasureValues:           []string{"0.5"},
			},
		},
		Ingredients: map[int64]model.Ingredient{
			cheeseID: {ID: cheeseID, Name: "Cheese", Price: 70},
			onionID:  {ID: onionID, Name: "Onion", Price: 30},
			basilID:  {ID: basilID, Name: "Basil", Price: 45},
			tomatoID: {ID: tomatoID, Name: "Tomato", Price: 25},
		},
	}
}

func testRequest() *model.OrderRequest {
	return &model.OrderRequest{
		Restaurant: model.SelectedRestaurant{
			ID:      testRestaurantID,
			Action:  model.ActionDelivery,
			Address: "Lenina 1",
			Phone:   "+79990000000",
		},
		Lines: []model.RequestedLine{
			{
				VariantID: margheritaID,
				Name:      "Margherita",
				Price:     500,
				Quantity:  2,
				Add:       []model.IngredientAdd{{IngredientID: cheeseID, Count: 1}},
				Remove:    []int64{onionID},
			},
		},
		AddressID:     testAddressID,
		Quantity:      2,
		CookStart:     model.CookStartASAP,
		PaymentMethod: model.PaymentCash,
	}
}
