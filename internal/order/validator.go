package order

import (
	"math"
	"strings"

	"ms-booths/internal/apperr"
	"ms-booths/internal/models"
)

const DefaultClosedMessage = "Ordering at this booth is temporarily paused."

// Priced is the outcome of a successful validation.
type Priced struct {
	Total int64
	Items []models.LineItem
}

// Validate prices the requested items against the booth's own menu. menus must
// contain only items belonging to booth; identifiers from other booths are
// therefore unknown here. Option price deltas are not applied to the total.
func Validate(booth models.Booth, menus []models.MenuItem, items []models.OrderItemRequest) (Priced, error) {
	if !booth.IsOpen {
		reason := booth.ClosedReason
		if reason == "" {
			reason = DefaultClosedMessage
		}
		return Priced{}, apperr.Closedf("%s", reason)
	}

	byID := make(map[string]models.MenuItem, len(menus))
	for _, m := range menus {
		if m.BoothID == booth.ID {
			byID[m.ID] = m
		}
	}

	var total int64
	normalized := make([]models.LineItem, 0, len(items))
	for _, it := range items {
		menuID := strings.TrimSpace(it.MenuID)
		qty := int(it.Qty)
		if qty <= 0 {
			continue
		}

		menu, ok := byID[menuID]
		if !ok {
			return Priced{}, apperr.Invalidf("menu %s does not exist or belongs to another booth", menuID)
		}

		if menu.MaxQty > 0 && qty > menu.MaxQty {
			name := menu.Name
			if name == "" {
				name = menuID
			}
			return Priced{}, apperr.Invalidf("%s: at most %d per order", name, menu.MaxQty)
		}

		if menu.Price > 0 && int64(qty) > math.MaxInt64/menu.Price {
			return Priced{}, apperr.Invalidf("quantity for %s is too large", menuID)
		}
		line := menu.Price * int64(qty)
		if total > math.MaxInt64-line {
			return Priced{}, apperr.Invalidf("order total is too large")
		}
		total += line
		normalized = append(normalized, models.LineItem{MenuID: menuID, Qty: qty})
	}

	if len(normalized) == 0 {
		return Priced{}, apperr.Invalidf("no valid order items")
	}
	return Priced{Total: total, Items: normalized}, nil
}
