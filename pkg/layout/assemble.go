package layout

// HeaderVariant selects the header drawn at the top of a page
type HeaderVariant string

const (
	// HeaderFull carries logo, status, number, dates and client block
	HeaderFull HeaderVariant = "full"
	// HeaderContinuation is the abbreviated header with the page index
	HeaderContinuation HeaderVariant = "continuation"
)

// PlacedItem is an item positioned on a page with its document-wide ordinal
type PlacedItem struct {
	EstimatedItem
	Ordinal int `json:"ordinal"`
}

// PageDescriptor is everything a renderer needs to lay out one page
type PageDescriptor struct {
	Number       int           `json:"number"`
	Total        int           `json:"total"`
	Header       HeaderVariant `json:"header"`
	Items        []PlacedItem  `json:"items"`
	ShowTrailing bool          `json:"show_trailing"`
	Overflow     bool          `json:"overflow,omitempty"`
}

// TrailingOnly reports whether the page exists only to hold the trailing block
func (d PageDescriptor) TrailingOnly() bool {
	return len(d.Items) == 0 && d.ShowTrailing
}

// Assemble turns chunks and the placement decision into page descriptors.
// Ordinals run continuously across pages.
func Assemble(chunks []Chunk, separate bool) []PageDescriptor {
	total := len(chunks)
	if separate {
		total++
	}

	pages := make([]PageDescriptor, 0, total)
	ordinal := 0
	for i, chunk := range chunks {
		page := PageDescriptor{
			Number:       i + 1,
			Total:        total,
			Header:       headerFor(i),
			Items:        make([]PlacedItem, len(chunk.Items)),
			ShowTrailing: i == len(chunks)-1 && !separate,
			Overflow:     chunk.Overflow(),
		}
		for j, item := range chunk.Items {
			ordinal++
			page.Items[j] = PlacedItem{EstimatedItem: item, Ordinal: ordinal}
		}
		pages = append(pages, page)
	}

	if separate {
		pages = append(pages, PageDescriptor{
			Number:       total,
			Total:        total,
			Header:       headerFor(total - 1),
			Items:        []PlacedItem{},
			ShowTrailing: true,
		})
	}
	return pages
}

func headerFor(index int) HeaderVariant {
	if index == 0 {
		return HeaderFull
	}
	return HeaderContinuation
}
