// Package style owns the painter's theme: the colors written onto nodes
// for container chrome, tracked changes, comment highlights and error
// placeholders.
//
// The theme is explicit state owned by the painter instance, not a
// process-wide singleton; constructing two painters with different themes
// is safe.
package style

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Theme is the resolved color set for one painter instance.
type Theme struct {
	// ContainerChrome is the outline color of structured-content
	// container chrome.
	ContainerChrome string

	// ContainerLabel is the label background, derived from chrome.
	ContainerLabel string

	// TrackedInsert and TrackedDelete decorate tracked-change runs.
	TrackedInsert string
	TrackedDelete string

	// CommentHighlight marks runs covered by a comment; ActiveComment is
	// the stronger shade for the currently active comment thread.
	CommentHighlight string
	ActiveComment    string

	// ErrorBackground and ErrorText style the labeled placeholder
	// substituted for a fragment whose rendering failed.
	ErrorBackground string
	ErrorText       string
}

// DefaultTheme returns the stock theme.
func DefaultTheme() Theme {
	return Theme{
		ContainerChrome:  "#6b7280",
		ContainerLabel:   deriveLabel("#6b7280"),
		TrackedInsert:    "#15803d",
		TrackedDelete:    "#b91c1c",
		CommentHighlight: "#fef3c7",
		ActiveComment:    deriveActive("#fef3c7"),
		ErrorBackground:  "#fee2e2",
		ErrorText:        "#991b1b",
	}
}

// Resolve fills derived colors from the base colors, falling back to the
// defaults for anything unset or unparsable.
func Resolve(base Theme) Theme {
	def := DefaultTheme()
	out := base
	if out.ContainerChrome == "" || !valid(out.ContainerChrome) {
		out.ContainerChrome = def.ContainerChrome
	}
	out.ContainerLabel = deriveLabel(out.ContainerChrome)
	if out.TrackedInsert == "" || !valid(out.TrackedInsert) {
		out.TrackedInsert = def.TrackedInsert
	}
	if out.TrackedDelete == "" || !valid(out.TrackedDelete) {
		out.TrackedDelete = def.TrackedDelete
	}
	if out.CommentHighlight == "" || !valid(out.CommentHighlight) {
		out.CommentHighlight = def.CommentHighlight
	}
	out.ActiveComment = deriveActive(out.CommentHighlight)
	if out.ErrorBackground == "" || !valid(out.ErrorBackground) {
		out.ErrorBackground = def.ErrorBackground
	}
	if out.ErrorText == "" || !valid(out.ErrorText) {
		out.ErrorText = def.ErrorText
	}
	return out
}

func valid(hex string) bool {
	_, err := colorful.Hex(hex)
	return err == nil
}

// deriveLabel lightens the chrome color toward white for the label
// background so the label text stays legible on it.
func deriveLabel(chromeHex string) string {
	c, err := colorful.Hex(chromeHex)
	if err != nil {
		return chromeHex
	}
	white, _ := colorful.Hex("#ffffff")
	return c.BlendLab(white, 0.85).Clamped().Hex()
}

// deriveActive darkens and saturates the comment highlight for the active
// thread so it stands out against sibling comment spans.
func deriveActive(highlightHex string) string {
	c, err := colorful.Hex(highlightHex)
	if err != nil {
		return highlightHex
	}
	h, s, l := c.Hsl()
	s += (1 - s) * 0.5
	l *= 0.82
	return colorful.Hsl(h, s, l).Clamped().Hex()
}
