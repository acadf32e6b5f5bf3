package layout

// RunKind identifies the variant of a run.
type RunKind uint8

const (
	// RunText is styled text.
	RunText RunKind = iota

	// RunTab is a tab advance to the next stop.
	RunTab

	// RunImage is an inline image.
	RunImage

	// RunLineBreak is an explicit line break within a paragraph.
	RunLineBreak

	// RunBreak is a page or column break.
	RunBreak

	// RunField is a field annotation (page number, date, …) rendered as text.
	RunField
)

// String returns the string representation of the run kind.
func (k RunKind) String() string {
	switch k {
	case RunText:
		return "text"
	case RunTab:
		return "tab"
	case RunImage:
		return "image"
	case RunLineBreak:
		return "lineBreak"
	case RunBreak:
		return "break"
	case RunField:
		return "fieldAnnotation"
	default:
		return "unknown"
	}
}

// Run is the smallest styled unit inside a line. It is a closed union:
// TextRun, TabRun, ImageRun, LineBreakRun, BreakRun and FieldRun are the
// only implementations.
type Run interface {
	// Kind returns the variant discriminator.
	Kind() RunKind

	run() // sealed
}

// RunStyle carries the character-level formatting of a text run.
type RunStyle struct {
	FontFamily    string
	FontSize      float64
	Bold          bool
	Italic        bool
	Underline     bool
	Strike        bool
	Color         string // hex, empty = inherit
	Highlight     string // hex, empty = none
	LetterSpacing float64
}

// TrackedChangeKind distinguishes tracked insertions from deletions.
type TrackedChangeKind uint8

const (
	TrackedNone TrackedChangeKind = iota
	TrackedInsert
	TrackedDelete
)

// TextRun is a slice of styled text with its document-position range and
// annotation metadata.
type TextRun struct {
	Text  string
	Style RunStyle

	// Link is an untrusted hyperlink target; the painter's link policy
	// decides whether it is carried onto the node or blocked.
	Link string

	// Tracked marks the run as part of a tracked change.
	Tracked TrackedChangeKind

	// CommentIDs lists the comment threads covering this run.
	CommentIDs []string

	// PMStart and PMEnd are the cached document-position range.
	PMStart, PMEnd int
}

func (*TextRun) Kind() RunKind { return RunText }
func (*TextRun) run()          {}

// TabRun is a tab advance. Width is the measured advance to the stop.
type TabRun struct {
	Width          float64
	PMStart, PMEnd int
}

func (*TabRun) Kind() RunKind { return RunTab }
func (*TabRun) run()          {}

// ImageRun is an inline image sized by the measurement stage.
type ImageRun struct {
	Src            string
	Width, Height  float64
	PMStart, PMEnd int
}

func (*ImageRun) Kind() RunKind { return RunImage }
func (*ImageRun) run()          {}

// LineBreakRun is an explicit line break inside a paragraph.
type LineBreakRun struct {
	PMStart, PMEnd int
}

func (*LineBreakRun) Kind() RunKind { return RunLineBreak }
func (*LineBreakRun) run()          {}

// BreakRun is a page or column break.
type BreakRun struct {
	// Page is true for page breaks, false for column breaks.
	Page           bool
	PMStart, PMEnd int
}

func (*BreakRun) Kind() RunKind { return RunBreak }
func (*BreakRun) run()          {}

// FieldRun is a field annotation rendered with its current text value.
type FieldRun struct {
	// Field names the field ("PAGE", "DATE", …).
	Field string

	// Text is the field's rendered value.
	Text           string
	Style          RunStyle
	PMStart, PMEnd int
}

func (*FieldRun) Kind() RunKind { return RunField }
func (*FieldRun) run()          {}

// Line is a measured text line within a paragraph measure.
type Line struct {
	// CharStart and CharEnd delimit the character range within the block.
	CharStart, CharEnd int

	// Width is the natural (measured) line width.
	Width float64

	// AvailWidth is the maximum width the line may occupy; justification
	// stretches (or compresses) the line toward it.
	AvailWidth float64

	// SpaceCount is the number of inter-word gaps measured for the line.
	SpaceCount int

	// ExplicitX holds per-segment X positions when the line was laid out
	// against tab stops. Non-nil ExplicitX bypasses justification.
	ExplicitX []float64

	// Runs in visual order.
	Runs []Run

	// EndsWithBreak is true when the line's content ends in an explicit
	// line break.
	EndsWithBreak bool
}
