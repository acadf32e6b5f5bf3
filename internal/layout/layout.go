package layout

// Size is a width/height pair in layout units (CSS-pixel sized floats).
type Size struct {
	Width  float64
	Height float64
}

// Margins describes the printable-area insets of a page.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Layout is the already-paginated document structure produced by the
// external measurement stage.
type Layout struct {
	// PageSize is the default page size; individual pages may override it.
	PageSize Size

	// Pages in document order.
	Pages []Page
}

// Page is a single paginated page with its positioned fragments.
type Page struct {
	// Number is the 1-based printed page number.
	Number int

	// Size overrides Layout.PageSize when non-nil (mixed-orientation docs).
	Size *Size

	// Margins overrides the section margins when non-nil.
	Margins *Margins

	// Fragments in top-to-bottom paint order.
	Fragments []Fragment
}

// EffectiveSize returns the page's own size, or the layout default.
func (p *Page) EffectiveSize(l *Layout) Size {
	if p.Size != nil {
		return *p.Size
	}
	return l.PageSize
}

// PageHeights returns the per-page heights used by the virtualization
// window manager's prefix sums.
func (l *Layout) PageHeights() []float64 {
	heights := make([]float64, len(l.Pages))
	for i := range l.Pages {
		heights[i] = l.Pages[i].EffectiveSize(l).Height
	}
	return heights
}
