package painter

import (
	"fmt"
	"hash/fnv"
	"io"

	"github.com/dshills/folio/internal/layout"
)

// deriveVersion folds every visually relevant property of a block and its
// measure into a short version string. Cached document positions are
// excluded on purpose: they shift on every upstream edit and are patched
// in place, so they must never force a rebuild on their own.
func deriveVersion(b *layout.Block, m *layout.Measure) string {
	h := fnv.New64a()

	fmt.Fprintf(h, "b|%s|%d|%s|%t", b.ID, b.Alignment, b.StyleName, b.EndsWithBreak)
	if b.Container != nil {
		fmt.Fprintf(h, "|c%s:%s", b.Container.Key, b.Container.Label)
	}

	if m != nil {
		for _, line := range m.Lines {
			hashLine(h, line)
		}
		for _, row := range m.Rows {
			fmt.Fprintf(h, "r|%g", row.Height)
			for _, cell := range row.Cells {
				fmt.Fprintf(h, "c|%g|%g", cell.X, cell.Width)
				for _, line := range cell.Lines {
					hashLine(h, line)
				}
			}
		}
		fmt.Fprintf(h, "n|%gx%g", m.Natural.Width, m.Natural.Height)
	}

	return fmt.Sprintf("%016x", h.Sum64())
}

func hashLine(h io.Writer, line layout.Line) {
	fmt.Fprintf(h, "l|%d-%d|%g|%g|%d|%t",
		line.CharStart, line.CharEnd, line.Width, line.AvailWidth, line.SpaceCount, line.EndsWithBreak)
	for _, x := range line.ExplicitX {
		fmt.Fprintf(h, "|x%g", x)
	}
	for _, r := range line.Runs {
		hashRun(h, r)
	}
}

func hashRun(h io.Writer, r layout.Run) {
	switch rn := r.(type) {
	case *layout.TextRun:
		fmt.Fprintf(h, "t|%s|%+v|%s|%d", rn.Text, rn.Style, rn.Link, rn.Tracked)
		for _, id := range rn.CommentIDs {
			fmt.Fprintf(h, "|#%s", id)
		}
	case *layout.TabRun:
		fmt.Fprintf(h, "tb|%g", rn.Width)
	case *layout.ImageRun:
		fmt.Fprintf(h, "i|%s|%gx%g", rn.Src, rn.Width, rn.Height)
	case *layout.LineBreakRun:
		io.WriteString(h, "lb")
	case *layout.BreakRun:
		fmt.Fprintf(h, "bk|%t", rn.Page)
	case *layout.FieldRun:
		fmt.Fprintf(h, "f|%s|%s|%+v", rn.Field, rn.Text, rn.Style)
	}
}
