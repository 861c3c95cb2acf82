// Package layout decides how quote and invoice line items are split across
// PDF pages. It is a pure computation: no I/O, no shared state, safe to call
// from concurrent render requests.
package layout

import (
	"errors"
	"fmt"
)

// Document kinds with a built-in profile
const (
	KindQuote   = "quote"
	KindInvoice = "invoice"
)

// Budget is the soft capacity of one page in layout units and rows
type Budget struct {
	MaxHeight float64 `json:"max_height" yaml:"max_height"`
	MaxItems  int     `json:"max_items" yaml:"max_items"`
}

// HeightTiers classifies a description length into a row height
type HeightTiers struct {
	TallOver     int     `json:"tall_over" yaml:"tall_over"`
	TallHeight   float64 `json:"tall_height" yaml:"tall_height"`
	MediumOver   int     `json:"medium_over" yaml:"medium_over"`
	MediumHeight float64 `json:"medium_height" yaml:"medium_height"`
	ShortHeight  float64 `json:"short_height" yaml:"short_height"`
}

// Profile holds every constant the pagination algorithm depends on.
// Quotes reserve less room per page than invoices because their last page
// also carries the banking and signature block.
type Profile struct {
	Kind           string      `json:"kind" yaml:"kind"`
	First          Budget      `json:"first" yaml:"first"`
	Continuation   Budget      `json:"continuation" yaml:"continuation"`
	PackThreshold  int         `json:"pack_threshold" yaml:"pack_threshold"`
	TrailingHeight float64     `json:"trailing_height" yaml:"trailing_height"`
	HasBanking     bool        `json:"has_banking" yaml:"has_banking"`
	Tiers          HeightTiers `json:"tiers" yaml:"tiers"`
}

// DefaultTiers returns the row height tiers tuned against the PDF renderer
func DefaultTiers() HeightTiers {
	return HeightTiers{
		TallOver:     150,
		TallHeight:   70,
		MediumOver:   80,
		MediumHeight: 55,
		ShortHeight:  40,
	}
}

// QuoteProfile returns the built-in quote profile
func QuoteProfile() Profile {
	return Profile{
		Kind:           KindQuote,
		First:          Budget{MaxHeight: 400, MaxItems: 10},
		Continuation:   Budget{MaxHeight: 600, MaxItems: 15},
		PackThreshold:  8,
		TrailingHeight: 180, // summary + banking/signature + footer
		HasBanking:     true,
		Tiers:          DefaultTiers(),
	}
}

// InvoiceProfile returns the built-in invoice profile
func InvoiceProfile() Profile {
	return Profile{
		Kind:           KindInvoice,
		First:          Budget{MaxHeight: 450, MaxItems: 12},
		Continuation:   Budget{MaxHeight: 650, MaxItems: 18},
		PackThreshold:  8,
		TrailingHeight: 120, // summary + footer
		HasBanking:     false,
		Tiers:          DefaultTiers(),
	}
}

// ProfileFor returns the built-in profile for a document kind
func ProfileFor(kind string) (Profile, bool) {
	switch kind {
	case KindQuote:
		return QuoteProfile(), true
	case KindInvoice:
		return InvoiceProfile(), true
	default:
		return Profile{}, false
	}
}

// ErrInvalidProfile is returned by Validate for unusable constants
var ErrInvalidProfile = errors.New("layout: invalid profile")

// Validate rejects profiles the packing loop cannot work with
func (p Profile) Validate() error {
	switch {
	case p.First.MaxHeight <= 0 || p.Continuation.MaxHeight <= 0:
		return fmt.Errorf("%w: %s page heights must be positive", ErrInvalidProfile, p.Kind)
	case p.First.MaxItems < 1 || p.Continuation.MaxItems < 1:
		return fmt.Errorf("%w: %s item ceilings must be at least 1", ErrInvalidProfile, p.Kind)
	case p.PackThreshold < 0:
		return fmt.Errorf("%w: %s pack threshold is negative", ErrInvalidProfile, p.Kind)
	case p.TrailingHeight < 0:
		return fmt.Errorf("%w: %s trailing height is negative", ErrInvalidProfile, p.Kind)
	case p.Tiers.ShortHeight <= 0 || p.Tiers.MediumOver > p.Tiers.TallOver:
		return fmt.Errorf("%w: %s height tiers are inconsistent", ErrInvalidProfile, p.Kind)
	}
	return nil
}

// budgetFor returns the budget of the chunk being built after closed chunks
func (p Profile) budgetFor(closed int) Budget {
	if closed == 0 {
		return p.First
	}
	return p.Continuation
}

// lastPageAllowance is the room available to the final chunk plus the trailing block
func (p Profile) lastPageAllowance(chunks int) float64 {
	if chunks == 1 {
		return p.First.MaxHeight
	}
	return p.Continuation.MaxHeight
}
