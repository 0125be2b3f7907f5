package ordering

import "restaurant-orders/internal/model"

var transitions = map[model.OrderStatus][]model.OrderStatus{
	model.StatusCreated:    {model.StatusInProgress, model.StatusCancelled},
	model.StatusInProgress: {model.StatusInDelivery, model.StatusCooked, model.StatusDone, model.StatusCancelled},
	model.StatusInDelivery: {model.StatusDone, model.StatusCancelled},
	model.StatusCooked:     {model.StatusDone, model.StatusCancelled},
}

// CanTransition reports whether an order fulfilled by action may move from
// one status to another. Only delivery orders go out for delivery; the rest
// are marked cooked for pickup or serving.
func CanTransition(action model.FulfillmentAction, from, to model.OrderStatus) bool {
	if to == model.StatusInDelivery && action != model.ActionDelivery {
		return false
	}
	if to == model.StatusCooked && action == model.ActionDelivery {
		return false
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
