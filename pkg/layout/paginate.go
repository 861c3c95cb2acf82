package layout

import (
	"errors"
	"fmt"
)

// Layout is the full pagination decision for one document
type Layout struct {
	Profile              Profile          `json:"profile"`
	Packed               bool             `json:"packed"`
	Chunks               []Chunk          `json:"-"`
	SeparateTrailingPage bool             `json:"separate_trailing_page"`
	Pages                []PageDescriptor `json:"pages"`
}

// Paginate runs height estimation, packing, trailing placement and assembly.
// The result depends only on its arguments.
func Paginate(items []Item, p Profile) Layout {
	estimated := Estimate(items, p.Tiers)
	chunks := Pack(estimated, p)
	separate := NeedsSeparatePage(chunks, p)

	return Layout{
		Profile:              p,
		Packed:               len(items) > p.PackThreshold,
		Chunks:               chunks,
		SeparateTrailingPage: separate,
		Pages:                Assemble(chunks, separate),
	}
}

// PageCount returns the number of pages in the layout
func (l Layout) PageCount() int {
	return len(l.Pages)
}

// ContentItems returns the placed items of every page, in page order
func (l Layout) ContentItems() []PlacedItem {
	var out []PlacedItem
	for _, page := range l.Pages {
		out = append(out, page.Items...)
	}
	return out
}

// ErrInconsistentLayout wraps every Validate failure
var ErrInconsistentLayout = errors.New("layout: inconsistent pagination")

// Validate checks a layout against the original item sequence: every item
// appears once and in order, ordinals are continuous, content pages are
// non-empty, ceilings hold except for oversized singletons, and the trailing
// block is on exactly one page.
func (l Layout) Validate(items []Item) error {
	placed := l.ContentItems()
	if len(placed) != len(items) {
		return fmt.Errorf("%w: %d items placed, want %d", ErrInconsistentLayout, len(placed), len(items))
	}
	for i, p := range placed {
		if p.Key != items[i].Key {
			return fmt.Errorf("%w: position %d holds %q, want %q", ErrInconsistentLayout, i, p.Key, items[i].Key)
		}
		if p.Ordinal != i+1 {
			return fmt.Errorf("%w: item %q has ordinal %d, want %d", ErrInconsistentLayout, p.Key, p.Ordinal, i+1)
		}
	}

	trailing := 0
	for i, page := range l.Pages {
		if page.ShowTrailing {
			trailing++
		}
		if page.Number != i+1 || page.Total != len(l.Pages) {
			return fmt.Errorf("%w: page %d numbered %d/%d", ErrInconsistentLayout, i+1, page.Number, page.Total)
		}
		if len(page.Items) == 0 && !page.TrailingOnly() && len(items) > 0 {
			return fmt.Errorf("%w: page %d is empty", ErrInconsistentLayout, page.Number)
		}
	}
	if trailing != 1 {
		return fmt.Errorf("%w: trailing block on %d pages", ErrInconsistentLayout, trailing)
	}

	if l.Packed {
		for i, chunk := range l.Chunks {
			if chunk.Overflow() && len(chunk.Items) > 1 {
				return fmt.Errorf("%w: chunk %d exceeds its height ceiling", ErrInconsistentLayout, i+1)
			}
		}
	}
	return nil
}
