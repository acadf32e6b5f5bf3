package layout

import "fmt"

// FragmentKind identifies the variant of a fragment.
type FragmentKind uint8

const (
	// FragParagraph is a slice of a body paragraph.
	FragParagraph FragmentKind = iota

	// FragListItem is a paragraph slice with a list marker.
	FragListItem

	// FragImage is an inline or anchored image placement.
	FragImage

	// FragDrawing is a vector drawing placement.
	FragDrawing

	// FragTable is a slice of table rows.
	FragTable
)

// String returns the string representation of the fragment kind.
func (k FragmentKind) String() string {
	switch k {
	case FragParagraph:
		return "para"
	case FragListItem:
		return "list-item"
	case FragImage:
		return "image"
	case FragDrawing:
		return "drawing"
	case FragTable:
		return "table"
	default:
		return "unknown"
	}
}

// Fragment is a positioned, paginated slice of one logical content block.
// It is a closed union: Paragraph, ListItem, Image, Drawing and Table are
// the only implementations, and consumers switch exhaustively on them.
type Fragment interface {
	// Kind returns the variant discriminator.
	Kind() FragmentKind

	// Base returns the geometry and identity shared by all variants.
	Base() *FragmentBase

	fragment() // sealed
}

// FragmentBase carries the identity, geometry, continuation flags and
// cached document-position range shared by every fragment variant.
type FragmentBase struct {
	// BlockID identifies the owning logical content block.
	BlockID string

	// Position and extent on the page, in layout units.
	X, Y, Width float64

	// Height is the measured fragment height; 0 means derived from content.
	Height float64

	// ContinuesFromPrev is true when the block started on an earlier page.
	ContinuesFromPrev bool

	// ContinuesOnNext is true when the block continues on a later page.
	ContinuesOnNext bool

	// PMStart and PMEnd are the cached document-position range covered by
	// this fragment. They are patched in place across simple edits and are
	// never used for identity.
	PMStart, PMEnd int
}

// Right returns the fragment's right edge.
func (b *FragmentBase) Right() float64 { return b.X + b.Width }

// Paragraph is a slice of a body paragraph: a contiguous line range into
// the owning block's measure.
type Paragraph struct {
	FragmentBase

	// LineStart and LineEnd delimit the half-open line range
	// [LineStart, LineEnd) into the block measure.
	LineStart, LineEnd int
}

func (*Paragraph) Kind() FragmentKind    { return FragParagraph }
func (p *Paragraph) Base() *FragmentBase { return &p.FragmentBase }
func (*Paragraph) fragment()             {}

// Marker is a list marker rendered before a list item's first line.
type Marker struct {
	// Text is the rendered marker text ("1.", "•", …).
	Text string

	// Width is the measured marker width including its suffix spacer.
	Width float64
}

// ListItem is a paragraph slice carrying a list marker. The marker and its
// suffix spacer live outside the line's justification span.
type ListItem struct {
	Paragraph

	// Marker is present only on the fragment containing the item's first
	// rendered line.
	Marker *Marker
}

func (*ListItem) Kind() FragmentKind { return FragListItem }
func (*ListItem) fragment()          {}

// Image is an image placement. Decoding is out of scope; Src is treated as
// an opaque, untrusted reference subject to the painter's link policy.
type Image struct {
	FragmentBase

	// Src is the untrusted image reference.
	Src string

	// Alt is the alternative text carried through to the visual node.
	Alt string
}

func (*Image) Kind() FragmentKind    { return FragImage }
func (i *Image) Base() *FragmentBase { return &i.FragmentBase }
func (*Image) fragment()             {}

// Drawing is a vector drawing placement identified by a preset shape name.
type Drawing struct {
	FragmentBase

	// Shape is the preset shape identifier; lookup happens outside the core.
	Shape string
}

func (*Drawing) Kind() FragmentKind    { return FragDrawing }
func (d *Drawing) Base() *FragmentBase { return &d.FragmentBase }
func (*Drawing) fragment()             {}

// Table is a slice of table rows from the owning table block.
type Table struct {
	FragmentBase

	// RowStart and RowEnd delimit the half-open row range
	// [RowStart, RowEnd) into the block measure.
	RowStart, RowEnd int
}

func (*Table) Kind() FragmentKind    { return FragTable }
func (t *Table) Base() *FragmentBase { return &t.FragmentBase }
func (*Table) fragment()             {}

// Key returns the stable reconciliation key for a fragment: a composite of
// kind, owning block and local range that survives re-paints with unchanged
// geometry. Keys are unique within a page.
func Key(f Fragment) string {
	b := f.Base()
	switch fr := f.(type) {
	case *Paragraph:
		return fmt.Sprintf("para/%s/%d-%d", b.BlockID, fr.LineStart, fr.LineEnd)
	case *ListItem:
		return fmt.Sprintf("li/%s/%d-%d", b.BlockID, fr.LineStart, fr.LineEnd)
	case *Image:
		return fmt.Sprintf("img/%s", b.BlockID)
	case *Drawing:
		return fmt.Sprintf("drw/%s", b.BlockID)
	case *Table:
		return fmt.Sprintf("tbl/%s/%d-%d", b.BlockID, fr.RowStart, fr.RowEnd)
	default:
		return fmt.Sprintf("%s/%s", f.Kind(), b.BlockID)
	}
}
