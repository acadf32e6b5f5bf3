// Package justify computes per-line inter-word spacing for justified
// paragraphs.
//
// Justification never applies to the true terminal line of a paragraph,
// with one exception: a paragraph whose content ends in an explicit line
// break is justified on its visually final line too, because the logical
// terminal line (the empty line after the break) is never rendered.
package justify

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/folio/internal/layout"
)

// Input is everything the calculator needs about one line.
type Input struct {
	// Width is the natural (measured) line width.
	Width float64

	// AvailWidth is the width the line may occupy.
	AvailWidth float64

	// SpaceCount is the number of inter-word gaps after normalization.
	SpaceCount int

	// Alignment is the owning paragraph's alignment.
	Alignment layout.Alignment

	// Explicit is true when the line uses explicit per-segment positions
	// (tab-stop layout), which bypasses justification entirely.
	Explicit bool

	// LastRendered is true for the last rendered line of the fragment.
	LastRendered bool

	// ContinuesOnNext is true when the paragraph continues past this
	// fragment, so the fragment's last line is not the paragraph's last.
	ContinuesOnNext bool

	// EndsWithBreak is true when the paragraph's final content is an
	// explicit line break.
	EndsWithBreak bool
}

// Applies reports whether justification spacing applies to the line.
func Applies(in Input) bool {
	if in.Alignment != layout.AlignJustify || in.Explicit {
		return false
	}
	terminal := in.LastRendered && !in.ContinuesOnNext
	if terminal && !in.EndsWithBreak {
		return false
	}
	return true
}

// Spacing returns the extra width added to each inter-word gap, or 0 when
// justification does not apply. The result is negative when the line was
// allowed to slightly overflow during measurement and must be compressed
// back to fit.
func Spacing(in Input) float64 {
	if !Applies(in) || in.SpaceCount <= 0 {
		return 0
	}
	return (in.AvailWidth - in.Width) / float64(in.SpaceCount)
}

// NormalizeRuns prepares a line's runs for space counting:
//
//   - whitespace-only text runs introduced by slicing at a style boundary
//     are merged into an adjacent text run, so a styled gap never counts
//     as its own stretch point;
//   - when wrapped is true, trailing whitespace at the wrap point is
//     trimmed from the last non-empty text run so it never contributes
//     phantom stretch.
//
// The input slice is not mutated.
func NormalizeRuns(runs []layout.Run, wrapped bool) []layout.Run {
	out := make([]layout.Run, 0, len(runs))

	for _, r := range runs {
		tr, ok := r.(*layout.TextRun)
		if !ok || !whitespaceOnly(tr.Text) || tr.Text == "" {
			out = append(out, r)
			continue
		}
		// Merge a whitespace-only run into the preceding text run when
		// one exists; otherwise keep it and let the next text run absorb
		// nothing (a leading gap still occupies measured width).
		if len(out) > 0 {
			if prev, ok := out[len(out)-1].(*layout.TextRun); ok {
				merged := *prev
				merged.Text = prev.Text + tr.Text
				merged.PMEnd = tr.PMEnd
				out[len(out)-1] = &merged
				continue
			}
		}
		out = append(out, r)
	}

	if wrapped {
		out = trimTrailingWhitespace(out)
	}
	return out
}

// trimTrailingWhitespace trims trailing whitespace graphemes from the
// last non-empty text run, dropping the run entirely when nothing is
// left.
func trimTrailingWhitespace(runs []layout.Run) []layout.Run {
	for i := len(runs) - 1; i >= 0; i-- {
		tr, ok := runs[i].(*layout.TextRun)
		if !ok {
			// A non-text run (tab, image) ends the line; nothing to trim.
			return runs
		}
		if tr.Text == "" {
			continue
		}

		trimmed := strings.TrimRight(tr.Text, " \t\u00a0")
		if trimmed == tr.Text {
			return runs
		}

		out := make([]layout.Run, len(runs))
		copy(out, runs)
		if trimmed == "" {
			return append(out[:i], out[i+1:]...)
		}
		clone := *tr
		clone.Text = trimmed
		out[i] = &clone
		return out
	}
	return runs
}

// CountSpaces counts the inter-word gaps across a line's text runs.
// Counting walks grapheme clusters so multi-codepoint clusters never
// split a gap in two. List markers are not runs and therefore never
// participate.
func CountSpaces(runs []layout.Run) int {
	count := 0
	for _, r := range runs {
		tr, ok := r.(*layout.TextRun)
		if !ok {
			continue
		}
		g := uniseg.NewGraphemes(tr.Text)
		for g.Next() {
			if isSpaceCluster(g.Str()) {
				count++
			}
		}
	}
	return count
}

func isSpaceCluster(s string) bool {
	return s == " " || s == "\u00a0"
}

func whitespaceOnly(s string) bool {
	return strings.TrimLeft(s, " \t\u00a0") == ""
}
