package takeoff

// DefaultPageGap is the vertical world-space gap inserted between
// consecutive pages when stacking a multi-page document.
const DefaultPageGap = 24.0

// PageSize is the world-space size of a single plan page.
type PageSize struct {
	Width, Height float64
}

// PageMetadata describes one page's placement in a vertically stacked
// multi-page document. OffsetY is the cumulative top offset of the page
// in world space.
type PageMetadata struct {
	PageNumber int // 1-indexed
	Width      float64
	Height     float64
	OffsetY    float64
}

// DocumentBounds is the world-space extent of a stacked multi-page
// document: Width is the widest page, Height the total stacked height
// including inter-page gaps. Pages are ordered by PageNumber with
// monotonically non-decreasing OffsetY. A DocumentBounds is immutable
// once built; a document reload replaces it wholesale.
type DocumentBounds struct {
	Width  float64
	Height float64
	Pages  []PageMetadata
}

// StackPages lays out pages top to bottom separated by gap and returns
// the resulting bounds. Returns nil for an empty size list.
func StackPages(sizes []PageSize, gap float64) *DocumentBounds {
	if len(sizes) == 0 {
		return nil
	}
	b := &DocumentBounds{
		Pages: make([]PageMetadata, 0, len(sizes)),
	}
	offsetY := 0.0
	for i, s := range sizes {
		if i > 0 {
			offsetY += gap
		}
		b.Pages = append(b.Pages, PageMetadata{
			PageNumber: i + 1,
			Width:      s.Width,
			Height:     s.Height,
			OffsetY:    offsetY,
		})
		if s.Width > b.Width {
			b.Width = s.Width
		}
		offsetY += s.Height
	}
	b.Height = offsetY
	return b
}

// PageRect returns the world-space rectangle of the page with the given
// 1-indexed number. ok is false for out-of-range page numbers.
func (b *DocumentBounds) PageRect(pageNumber int) (r Rect, ok bool) {
	if b == nil || pageNumber < 1 || pageNumber > len(b.Pages) {
		return Rect{}, false
	}
	p := b.Pages[pageNumber-1]
	return Rect{X: 0, Y: p.OffsetY, Width: p.Width, Height: p.Height}, true
}

// PageAt returns the 1-indexed number of the page containing the given
// world-space Y coordinate, or 0 when y falls in a gap or outside the
// document.
func (b *DocumentBounds) PageAt(y float64) int {
	if b == nil {
		return 0
	}
	for _, p := range b.Pages {
		if y >= p.OffsetY && y <= p.OffsetY+p.Height {
			return p.PageNumber
		}
	}
	return 0
}
