package layout

// Chunk is a contiguous run of items rendered on one page
type Chunk struct {
	Items  []EstimatedItem `json:"items"`
	Height float64         `json:"height"`
	Budget Budget          `json:"budget"`
}

// Overflow reports whether the chunk is a single item taller than its page
// budget. Unpacked small documents may exceed the budget and are not flagged.
func (c Chunk) Overflow() bool {
	return len(c.Items) == 1 && c.Height > c.Budget.MaxHeight
}

// Pack greedily partitions items into page-sized chunks, left to right,
// without lookahead. Small documents are never split.
func Pack(items []EstimatedItem, p Profile) []Chunk {
	if len(items) <= p.PackThreshold {
		return []Chunk{newChunk(items, p.First)}
	}

	var chunks []Chunk
	var acc []EstimatedItem
	var accHeight float64

	for _, item := range items {
		budget := p.budgetFor(len(chunks))

		// an oversized item still lands on an empty page
		overHeight := len(acc) > 0 && accHeight+item.Height > budget.MaxHeight
		if overHeight || len(acc) >= budget.MaxItems {
			chunks = append(chunks, Chunk{Items: acc, Height: accHeight, Budget: budget})
			acc = []EstimatedItem{item}
			accHeight = item.Height
			continue
		}

		acc = append(acc, item)
		accHeight += item.Height
	}

	if len(acc) > 0 {
		chunks = append(chunks, Chunk{Items: acc, Height: accHeight, Budget: p.budgetFor(len(chunks))})
	}

	if len(chunks) == 0 {
		return []Chunk{newChunk(items, p.First)}
	}
	return chunks
}

func newChunk(items []EstimatedItem, budget Budget) Chunk {
	c := Chunk{Items: items, Budget: budget}
	if c.Items == nil {
		c.Items = []EstimatedItem{}
	}
	for _, item := range items {
		c.Height += item.Height
	}
	return c
}
