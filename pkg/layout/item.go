package layout

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Item is one billable row as the pagination engine sees it.
// Description is the already-resolved effective description.
type Item struct {
	Key         string          `json:"key"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	Synthetic   bool            `json:"synthetic,omitempty"`
}

// EstimatedItem is an Item annotated with its estimated row height
type EstimatedItem struct {
	Item
	Height float64 `json:"height"`
}

// EstimateHeight classifies an item by the character length of its description
func EstimateHeight(item Item, tiers HeightTiers) float64 {
	n := utf8.RuneCountInString(item.Description)
	switch {
	case n > tiers.TallOver:
		return tiers.TallHeight
	case n > tiers.MediumOver:
		return tiers.MediumHeight
	default:
		return tiers.ShortHeight
	}
}

// Estimate computes every item's height once, preserving order
func Estimate(items []Item, tiers HeightTiers) []EstimatedItem {
	out := make([]EstimatedItem, len(items))
	for i, item := range items {
		out[i] = EstimatedItem{Item: item, Height: EstimateHeight(item, tiers)}
	}
	return out
}
