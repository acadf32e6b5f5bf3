package layout

// Alignment is the paragraph alignment of a block.
type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

// String returns the string representation of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "unknown"
	}
}

// ContainerInfo is the structured-content container metadata of a block.
// Blocks sharing a container key belong to the same container and are
// grouped by the boundary grouper, possibly across pages.
type ContainerInfo struct {
	// Key identifies the container instance.
	Key string

	// Label is the container's display label, shown once per paint pass.
	Label string
}

// Block is the logical content block a fragment slices. Only properties
// the painter consults are modeled; everything else is folded into the
// entry's version string by the producer.
type Block struct {
	// ID is the stable block identity.
	ID string

	// Alignment is the paragraph alignment (paragraph/list blocks).
	Alignment Alignment

	// StyleName is the resolved paragraph style name, carried onto nodes
	// and into snapshots.
	StyleName string

	// Container is non-nil when the block belongs to a structured-content
	// container.
	Container *ContainerInfo

	// EndsWithBreak is true when the block's content ends in an explicit
	// line break, which moves justification onto the visually final line.
	EndsWithBreak bool
}

// TableCell is a measured table cell: positioned lines within the cell box.
type TableCell struct {
	X, Width float64
	Lines    []Line
}

// TableRow is a measured table row.
type TableRow struct {
	Height float64
	Cells  []TableCell
}

// Measure is the measured content of a block. Paragraph blocks carry
// Lines; table blocks carry Rows; image and drawing blocks carry Natural.
type Measure struct {
	Lines   []Line
	Rows    []TableRow
	Natural Size
}

// BlockEntry pairs a block with its measure and a derived version string.
// Version captures every visually relevant property of the block and is
// used purely for change detection, never for identity.
type BlockEntry struct {
	Block   *Block
	Measure *Measure
	Version string
}

// BlockLookup maps block ids to their entries for one paint generation.
type BlockLookup map[string]BlockEntry
