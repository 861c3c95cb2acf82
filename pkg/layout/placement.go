package layout

// NeedsSeparatePage reports whether the trailing block must move to a
// dedicated final page. The block is never split: it goes entirely on the
// last content page or entirely on a page of its own.
func NeedsSeparatePage(chunks []Chunk, p Profile) bool {
	if len(chunks) == 0 {
		return false
	}
	last := chunks[len(chunks)-1]

	var height float64
	for _, item := range last.Items {
		height += item.Height
	}

	return height+p.TrailingHeight > p.lastPageAllowance(len(chunks))
}
