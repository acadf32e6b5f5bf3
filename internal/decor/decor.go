// Package decor supplies page decorations: the header and footer content
// placed on each page by per-page provider callbacks.
//
// Providers are external collaborators; the painter only calls them and
// places the result in a disjoint subtree with its own position space.
package decor

import "github.com/dshills/folio/internal/layout"

// Decoration is a provider's result for one page.
type Decoration struct {
	// Fragments are measured decoration fragments, resolved against the
	// header/footer block lookups.
	Fragments []layout.Fragment

	// Text is a plain fallback rendered as a single line when no
	// fragments are supplied (scripted providers use this).
	Text string

	// Height is the reserved band height.
	Height float64

	// ContentHeight is the measured content height within the band; 0
	// means equal to Height.
	ContentHeight float64

	// Offset shifts the band from the page edge.
	Offset float64

	// MarginLeft and ContentWidth override the horizontal placement when
	// non-zero.
	MarginLeft   float64
	ContentWidth float64
}

// Provider returns the decoration for a page, or nil for none. It is
// called once per page per section (header, footer).
type Provider func(pageNumber int, margins *layout.Margins, page *layout.Page) *Decoration

// Static returns a provider that serves the same decoration on every
// page.
func Static(d *Decoration) Provider {
	return func(int, *layout.Margins, *layout.Page) *Decoration {
		return d
	}
}
