// Package ordering holds the order engine: request validation, snapshot
// validation, pricing and summary rendering. Nothing in this package does
// I/O; callers gather a Snapshot first and persist afterwards.
package ordering

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"restaurant-orders/internal/model"
)

// Request shape limits.
const (
	MinLineQuantity  = 1
	MaxLineQuantity  = 19
	MinAddCount      = 1
	MaxAddCount      = 10
	MinOrderQuantity = 1
	MaxOrderQuantity = 99
)

var (
	cookStartPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	phonePattern     = regexp.MustCompile(`^(\+7|7|8)?[\s\-]?\(?(\d{3})\)?[\s\-]?(\d{3})[\s\-]?(\d{2})[\s\-]?(\d{2})$`)
)

// NormalizePhone accepts Russian numbers written as +7, 7, 8 or with no
// prefix, optionally with spaces, dashes and a parenthesised area code, and
// returns them as +7XXXXXXXXXX.
func NormalizePhone(phone string) (string, bool) {
	m := phonePattern.FindStringSubmatch(strings.TrimSpace(phone))
	if m == nil {
		return "", false
	}
	return "+7" + m[2] + m[3] + m[4] + m[5], true
}

// ValidateRequest checks the shape of an order request before anything is
// read from the database. It reports every shape problem at once as
// InvalidRequest, then rejects lines that add and remove the same ingredient
// with InvalidIngredients. A request that passes is normalized in place: the
// restaurant phone is rewritten as +7XXXXXXXXXX and each line's removed
// ingredients become a set, keeping first-seen order.
func ValidateRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewInvalidRequestError([]string{"order request is nil"})
	}

	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if req.Restaurant.ID < 1 {
		add("restaurant id must be greater than 0")
	}
	if !req.Restaurant.Action.Valid() {
		add("unknown order action %q", req.Restaurant.Action)
	}
	if strings.TrimSpace(req.Restaurant.Address) == "" {
		add("restaurant address cannot be empty")
	}
	phone, phoneOK := NormalizePhone(req.Restaurant.Phone)
	if !phoneOK {
		add("restaurant phone %q is not a valid Russian phone number", req.Restaurant.Phone)
	}
	if req.AddressID < 1 {
		add("address id must be greater than 0")
	}
	if req.Quantity < MinOrderQuantity || req.Quantity > MaxOrderQuantity {
		add("order quantity must be between %d and %d", MinOrderQuantity, MaxOrderQuantity)
	}
	if req.CookStart != model.CookStartASAP && !cookStartPattern.MatchString(req.CookStart) {
		add("cook start must be %q or in HH:MM format", model.CookStartASAP)
	}
	if req.PaymentMethod != model.PaymentCash && req.PaymentMethod != model.PaymentCard {
		add("payment method must be %q or %q", model.PaymentCash, model.PaymentCard)
	}
	if len(req.Lines) == 0 {
		add("order must contain at least one position")
	}

	for i, line := range req.Lines {
		if line.VariantID < 1 {
			add("position %d: size must be greater than 0", i+1)
		}
		if strings.TrimSpace(line.Name) == "" {
			add("position %d: name cannot be empty", i+1)
		}
		if line.Price < 0 {
			add("position %d: price cannot be negative", i+1)
		}
		if line.Quantity < MinLineQuantity || line.Quantity > MaxLineQuantity {
			add("position %d: quantity must be between %d and %d", i+1, MinLineQuantity, MaxLineQuantity)
		}
		seen := make(map[int64]struct{}, len(line.Add))
		for _, a := range line.Add {
			if a.IngredientID < 1 {
				add("position %d: adding id must be greater than 0", i+1)
			}
			if a.Count < MinAddCount || a.Count > MaxAddCount {
				add("position %d: adding %d count must be between %d and %d", i+1, a.IngredientID, MinAddCount, MaxAddCount)
			}
			if _, dup := seen[a.IngredientID]; dup {
				add("position %d: adding %d is listed more than once", i+1, a.IngredientID)
			}
			seen[a.IngredientID] = struct{}{}
		}
		for _, id := range line.Remove {
			if id < 1 {
				add("position %d: removed ingredient id must be greater than 0", i+1)
			}
		}
	}

	if len(problems) > 0 {
		return model.NewInvalidRequestError(problems)
	}

	req.Restaurant.Phone = phone
	for i := range req.Lines {
		req.Lines[i].Remove = dedupe(req.Lines[i].Remove)
	}

	var overlaps []string
	for _, line := range req.Lines {
		added := make(map[int64]struct{}, len(line.Add))
		for _, a := range line.Add {
			added[a.IngredientID] = struct{}{}
		}
		for _, id := range line.Remove {
			if _, ok := added[id]; ok {
				overlaps = append(overlaps,
					fmt.Sprintf("ingredient %d is both added and removed for variant %d", id, line.VariantID))
			}
		}
	}
	if len(overlaps) > 0 {
		return model.NewInvalidIngredientsError(overlaps)
	}

	return nil
}

// VariantIDs returns the distinct food variant ids referenced by the request, ascending.
func VariantIDs(req *model.OrderRequest) []int64 {
	set := make(map[int64]struct{}, len(req.Lines))
	for _, line := range req.Lines {
		set[line.VariantID] = struct{}{}
	}
	return sortedKeys(set)
}

// IngredientIDs returns the distinct ingredient ids referenced anywhere in
// the request, added or removed, ascending.
func IngredientIDs(req *model.OrderRequest) []int64 {
	set := make(map[int64]struct{})
	for _, line := range req.Lines {
		for _, a := range line.Add {
			set[a.IngredientID] = struct{}{}
		}
		for _, id := range line.Remove {
			set[id] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func dedupe(ids []int64) []int64 {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func sortedKeys(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
