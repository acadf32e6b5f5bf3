// Package core provides the shared vocabulary of the paint pipeline:
// node kinds, attribute names, and small geometry helpers used by the
// reconciler, the render targets and the snapshot capturer.
package core

// NodeKind identifies the role of a visual node.
type NodeKind uint8

const (
	// KindRoot is the mount root owned by the target.
	KindRoot NodeKind = iota

	// KindPage is one page subtree.
	KindPage

	// KindSpacer is a virtualization filler sized to absent pages.
	KindSpacer

	// KindFragment is one mounted fragment subtree.
	KindFragment

	// KindLine is one rendered text line.
	KindLine

	// KindRun is one rendered run within a line.
	KindRun

	// KindMarker is a list marker, outside the justification span.
	KindMarker

	// KindHeader is a page header subtree (disjoint position space).
	KindHeader

	// KindFooter is a page footer subtree (disjoint position space).
	KindFooter

	// KindLabel is a structured-content container label.
	KindLabel

	// KindError is the labeled placeholder substituted for a fragment
	// whose rendering failed.
	KindError
)

// String returns the string representation of the node kind.
func (k NodeKind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindPage:
		return "page"
	case KindSpacer:
		return "spacer"
	case KindFragment:
		return "fragment"
	case KindLine:
		return "line"
	case KindRun:
		return "run"
	case KindMarker:
		return "marker"
	case KindHeader:
		return "header"
	case KindFooter:
		return "footer"
	case KindLabel:
		return "label"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Attribute names used across the pipeline. Geometry and cached positions
// are stored as node attributes so patching can update them without
// touching rendered content.
const (
	AttrX      = "x"
	AttrY      = "y"
	AttrWidth  = "width"
	AttrHeight = "height"

	// AttrPMStart and AttrPMEnd are the cached document-position range.
	// The position mapper rewrites them in place after simple edits.
	AttrPMStart = "pm-start"
	AttrPMEnd   = "pm-end"

	// AttrKey is the reconciliation key of a fragment node.
	AttrKey = "key"

	// AttrSignature is the change-detection signature of a fragment node.
	AttrSignature = "signature"

	AttrPageNumber = "page-number"
	AttrPageIndex  = "page-index"
	AttrStyle      = "style"
	AttrSpacing    = "word-spacing"
	AttrAlign      = "align"

	// AttrLink carries a policy-approved hyperlink target; AttrBlocked
	// marks content the link policy rejected (fail closed).
	AttrLink    = "link"
	AttrBlocked = "blocked"

	AttrTracked       = "tracked"
	AttrComment       = "comment"
	AttrActiveComment = "comment-active"
	AttrColor         = "color"
	AttrHighlight     = "highlight"

	// Boundary grouping results.
	AttrBoundaryStart = "boundary-start"
	AttrBoundaryEnd   = "boundary-end"
	AttrBoundaryWidth = "boundary-width"
	AttrBoundaryPad   = "boundary-pad"

	AttrInTableFragment  = "in-table-fragment"
	AttrInTableParagraph = "in-table-paragraph"

	AttrShape = "shape"
	AttrSrc   = "src"
	AttrAlt   = "alt"

	// Run variant markers.
	AttrTab       = "tab"
	AttrLineBreak = "line-break"
	AttrBreak     = "break"
	AttrField     = "field"

	// Character formatting carried onto run nodes.
	AttrBold      = "bold"
	AttrItalic    = "italic"
	AttrUnderline = "underline"
	AttrStrike    = "strike"

	// AttrErrorLabel is the visible label on an error placeholder.
	AttrErrorLabel = "error-label"
)
