package ordering

import (
	"fmt"
	"strings"

	"restaurant-orders/internal/model"
)

var paymentLabels = map[model.PaymentMethod]string{
	model.PaymentCash: "Cash",
	model.PaymentCard: "Card",
}

// FormatSummary renders the order for restaurant staff. The output depends
// only on its arguments.
func FormatSummary(p *PricedOrder, orderCode, customerPhone string) string {
	req := p.Request
	var b strings.Builder

	cookStart := req.CookStart
	if cookStart == model.CookStartASAP {
		cookStart = "As soon as possible"
	}
	payment, ok := paymentLabels[req.PaymentMethod]
	if !ok {
		payment = string(req.PaymentMethod)
	}

	fmt.Fprintf(&b, "Order № %s.\n", orderCode)
	fmt.Fprintf(&b, "Cook start: %s.\n", cookStart)
	fmt.Fprintf(&b, "Payment method: %s.\n", payment)
	fmt.Fprintf(&b, "Customer phone: %s.\n", customerPhone)
	fmt.Fprintf(&b, "Delivery address: %s\n\n", p.Address.FullAddress())
	if req.Comment != nil && strings.TrimSpace(*req.Comment) != "" {
		fmt.Fprintf(&b, "Comment: %s\n\n", strings.TrimSpace(*req.Comment))
	}

	for i, line := range p.Lines {
		fmt.Fprintf(&b, "%d. %s - %d - %d pcs\n", i+1, line.DisplayName, line.Variant.Price, line.Line.Quantity)
		if len(line.Additions) > 0 {
			b.WriteString("Add:\n")
			for _, a := range line.Additions {
				fmt.Fprintf(&b, "\t- %s - %d - %d pcs\n", a.Ingredient.Name, a.UnitPrice, a.Count)
			}
		}
		if len(line.Removals) > 0 {
			b.WriteString("Remove:\n")
			for _, r := range line.Removals {
				fmt.Fprintf(&b, "\t- %s\n", r.Name)
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Total: %d", p.Total)

	return b.String()
}
