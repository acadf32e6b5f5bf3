package painter

import (
	"fmt"
	"log"
	"strings"

	"github.com/dshills/folio/internal/layout"
	"github.com/dshills/folio/internal/painter/boundary"
	"github.com/dshills/folio/internal/painter/core"
	"github.com/dshills/folio/internal/painter/justify"
	"github.com/dshills/folio/internal/painter/reconcile"
	"github.com/dshills/folio/internal/painter/target"
)

// signature derives the change-detection signature of a fragment: the
// variant, the owning block's version, the local range, continuation
// flags, variant extras and the boundary grouping class. Geometry (x, y)
// is deliberately excluded so pure repositioning patches in place.
func (p *Painter) signature(f layout.Fragment, rec boundary.Record) string {
	b := f.Base()
	version := "?"
	if entry, ok := p.lookup[b.BlockID]; ok {
		version = entry.Version
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s|%s|%t%t", f.Kind(), version, b.ContinuesFromPrev, b.ContinuesOnNext)

	switch fr := f.(type) {
	case *layout.Paragraph:
		fmt.Fprintf(&sb, "|%d-%d", fr.LineStart, fr.LineEnd)
	case *layout.ListItem:
		fmt.Fprintf(&sb, "|%d-%d|m%t", fr.LineStart, fr.LineEnd, fr.Marker != nil)
	case *layout.Image:
		fmt.Fprintf(&sb, "|%s|%gx%g", fr.Src, b.Width, b.Height)
	case *layout.Drawing:
		fmt.Fprintf(&sb, "|%s|%gx%g", fr.Shape, b.Width, b.Height)
	case *layout.Table:
		fmt.Fprintf(&sb, "|%d-%d", fr.RowStart, fr.RowEnd)
	}

	if cls := rec.Class(); cls != "" {
		sb.WriteString("|" + cls)
	}
	return sb.String()
}

// createFrag renders a fragment subtree and wraps it in tracked state.
func (p *Painter) createFrag(f layout.Fragment, keyed reconcile.Keyed, rec boundary.Record) *fragState {
	node := p.renderFragment(p.lookup, f, rec)
	node.SetAttr(core.AttrKey, keyed.Key)
	node.SetAttr(core.AttrSignature, keyed.Signature)
	return &fragState{
		key:       keyed.Key,
		signature: keyed.Signature,
		frag:      f,
		node:      node,
		rec:       rec,
	}
}

// renderFragment builds the subtree for one fragment. A panic while
// rendering is contained to the fragment: the partial subtree is released
// and a labeled error placeholder takes its place, so one malformed
// fragment never takes down the paint pass.
func (p *Painter) renderFragment(lookup layout.BlockLookup, f layout.Fragment, rec boundary.Record) (node target.Node) {
	defer func() {
		if r := recover(); r != nil {
			if node != nil {
				p.tgt.Release(node)
			}
			log.Printf("painter: fragment %s panicked: %v", layout.Key(f), r)
			node = p.errorNode(f, fmt.Sprintf("render failed: %v", r))
		}
	}()

	b := f.Base()
	entry, ok := lookup[b.BlockID]
	if !ok || entry.Block == nil || entry.Measure == nil {
		return p.errorNode(f, "missing block data: "+b.BlockID)
	}

	node = p.tgt.CreateNode(core.KindFragment.String())
	p.setBaseAttrs(node, b)
	p.setBoundaryAttrs(node, f, rec, lookup)

	switch fr := f.(type) {
	case *layout.Paragraph:
		p.renderLines(node, entry, fr.LineStart, fr.LineEnd, nil, b.ContinuesOnNext, false)
	case *layout.ListItem:
		p.renderLines(node, entry, fr.LineStart, fr.LineEnd, fr.Marker, b.ContinuesOnNext, false)
	case *layout.Image:
		node.SetAttr(core.AttrAlt, fr.Alt)
		p.setLinkAttr(node, core.AttrSrc, fr.Src)
	case *layout.Drawing:
		node.SetAttr(core.AttrShape, fr.Shape)
	case *layout.Table:
		node.SetAttr(core.AttrInTableFragment, "true")
		p.renderRows(node, entry, fr.RowStart, fr.RowEnd, b.ContinuesOnNext)
	}
	return node
}

func (p *Painter) setBaseAttrs(node target.Node, b *layout.FragmentBase) {
	target.SetFloatAttr(node, core.AttrX, b.X)
	target.SetFloatAttr(node, core.AttrY, b.Y)
	target.SetFloatAttr(node, core.AttrWidth, b.Width)
	if b.Height > 0 {
		target.SetFloatAttr(node, core.AttrHeight, b.Height)
	}
	target.SetIntAttr(node, core.AttrPMStart, b.PMStart)
	target.SetIntAttr(node, core.AttrPMEnd, b.PMEnd)
}

func (p *Painter) setBoundaryAttrs(node target.Node, f layout.Fragment, rec boundary.Record, lookup layout.BlockLookup) {
	if rec.Key == "" {
		return
	}
	if rec.IsStart {
		node.SetAttr(core.AttrBoundaryStart, "true")
	}
	if rec.IsEnd {
		node.SetAttr(core.AttrBoundaryEnd, "true")
	}
	if rec.WidthOverride > 0 {
		target.SetFloatAttr(node, core.AttrBoundaryWidth, rec.WidthOverride)
	}
	if rec.PaddingBottomOverride > 0 {
		target.SetFloatAttr(node, core.AttrBoundaryPad, rec.PaddingBottomOverride)
	}
	node.SetAttr(core.AttrColor, p.opts.Theme.ContainerChrome)

	if rec.ShowLabel {
		entry := lookup[f.Base().BlockID]
		if entry.Block != nil && entry.Block.Container != nil && entry.Block.Container.Label != "" {
			label := p.tgt.CreateNode(core.KindLabel.String())
			label.SetText(entry.Block.Container.Label)
			label.SetAttr(core.AttrHighlight, p.opts.Theme.ContainerLabel)
			node.InsertChild(label, node.ChildCount())
		}
	}
}

// renderLines renders the [start, end) line range of a paragraph measure.
// A marker, when present, attaches to the first rendered line and stays
// outside justification.
func (p *Painter) renderLines(parent target.Node, entry layout.BlockEntry, start, end int, marker *layout.Marker, continuesOnNext, inTable bool) {
	lines := entry.Measure.Lines
	if start < 0 || end > len(lines) || start > end {
		panic(fmt.Sprintf("line range [%d,%d) out of measure bounds %d", start, end, len(lines)))
	}

	for i := start; i < end; i++ {
		var m *layout.Marker
		if i == start {
			m = marker
		}
		lastRendered := i == end-1
		ln := p.renderLine(lines[i], entry.Block, m, lastRendered, continuesOnNext, inTable)
		parent.InsertChild(ln, parent.ChildCount())
	}
}

// renderLine builds one line node with its marker and run children and
// the computed inter-word spacing.
func (p *Painter) renderLine(line layout.Line, block *layout.Block, marker *layout.Marker, lastRendered, continuesOnNext, inTable bool) target.Node {
	node := p.tgt.CreateNode(core.KindLine.String())
	target.SetFloatAttr(node, core.AttrWidth, line.Width)
	if block.StyleName != "" {
		node.SetAttr(core.AttrStyle, block.StyleName)
	}
	node.SetAttr(core.AttrAlign, block.Alignment.String())
	if inTable {
		node.SetAttr(core.AttrInTableFragment, "true")
		node.SetAttr(core.AttrInTableParagraph, "true")
	}

	// Whitespace-only runs merge and wrap-point trailing whitespace trims
	// before counting, so styled gaps never stretch twice.
	runs := justify.NormalizeRuns(line.Runs, !line.EndsWithBreak)
	spaceCount := justify.CountSpaces(runs)
	if len(line.Runs) == 0 {
		spaceCount = line.SpaceCount
	}

	spacing := justify.Spacing(justify.Input{
		Width:           line.Width,
		AvailWidth:      line.AvailWidth,
		SpaceCount:      spaceCount,
		Alignment:       block.Alignment,
		Explicit:        len(line.ExplicitX) > 0,
		LastRendered:    lastRendered,
		ContinuesOnNext: continuesOnNext,
		EndsWithBreak:   block.EndsWithBreak,
	})
	if spacing != 0 {
		target.SetFloatAttr(node, core.AttrSpacing, spacing)
	}

	if marker != nil {
		m := p.tgt.CreateNode(core.KindMarker.String())
		m.SetText(marker.Text)
		target.SetFloatAttr(m, core.AttrWidth, marker.Width)
		node.InsertChild(m, 0)
	}

	for _, r := range runs {
		node.InsertChild(p.renderRun(r), node.ChildCount())
	}
	return node
}

// renderRows renders the [start, end) row range of a table measure.
func (p *Painter) renderRows(parent target.Node, entry layout.BlockEntry, start, end int, continuesOnNext bool) {
	rows := entry.Measure.Rows
	if start < 0 || end > len(rows) || start > end {
		panic(fmt.Sprintf("row range [%d,%d) out of measure bounds %d", start, end, len(rows)))
	}

	for ri := start; ri < end; ri++ {
		for _, cell := range rows[ri].Cells {
			for li, line := range cell.Lines {
				last := li == len(cell.Lines)-1
				ln := p.renderLine(line, entry.Block, nil, last, continuesOnNext && ri == end-1, true)
				target.SetFloatAttr(ln, core.AttrX, cell.X)
				parent.InsertChild(ln, parent.ChildCount())
			}
		}
	}
}

// renderRun builds one run node; the switch over the run union is
// exhaustive by construction.
func (p *Painter) renderRun(r layout.Run) target.Node {
	node := p.tgt.CreateNode(core.KindRun.String())

	switch rn := r.(type) {
	case *layout.TextRun:
		node.SetText(rn.Text)
		target.SetIntAttr(node, core.AttrPMStart, rn.PMStart)
		target.SetIntAttr(node, core.AttrPMEnd, rn.PMEnd)
		p.setTextAttrs(node, rn)

	case *layout.TabRun:
		node.SetAttr(core.AttrTab, "true")
		target.SetFloatAttr(node, core.AttrWidth, rn.Width)
		target.SetIntAttr(node, core.AttrPMStart, rn.PMStart)
		target.SetIntAttr(node, core.AttrPMEnd, rn.PMEnd)

	case *layout.ImageRun:
		target.SetFloatAttr(node, core.AttrWidth, rn.Width)
		target.SetFloatAttr(node, core.AttrHeight, rn.Height)
		target.SetIntAttr(node, core.AttrPMStart, rn.PMStart)
		target.SetIntAttr(node, core.AttrPMEnd, rn.PMEnd)
		p.setLinkAttr(node, core.AttrSrc, rn.Src)

	case *layout.LineBreakRun:
		node.SetAttr(core.AttrLineBreak, "true")
		target.SetIntAttr(node, core.AttrPMStart, rn.PMStart)
		target.SetIntAttr(node, core.AttrPMEnd, rn.PMEnd)

	case *layout.BreakRun:
		if rn.Page {
			node.SetAttr(core.AttrBreak, "page")
		} else {
			node.SetAttr(core.AttrBreak, "column")
		}
		target.SetIntAttr(node, core.AttrPMStart, rn.PMStart)
		target.SetIntAttr(node, core.AttrPMEnd, rn.PMEnd)

	case *layout.FieldRun:
		node.SetText(rn.Text)
		node.SetAttr(core.AttrField, rn.Field)
		target.SetIntAttr(node, core.AttrPMStart, rn.PMStart)
		target.SetIntAttr(node, core.AttrPMEnd, rn.PMEnd)
		if rn.Style.Color != "" {
			node.SetAttr(core.AttrColor, rn.Style.Color)
		}
	}
	return node
}

// setTextAttrs carries a text run's formatting, tracked-change state,
// comment coverage and policy-checked hyperlink onto the node.
func (p *Painter) setTextAttrs(node target.Node, rn *layout.TextRun) {
	s := rn.Style
	if s.Bold {
		node.SetAttr(core.AttrBold, "true")
	}
	if s.Italic {
		node.SetAttr(core.AttrItalic, "true")
	}
	if s.Underline {
		node.SetAttr(core.AttrUnderline, "true")
	}
	if s.Strike {
		node.SetAttr(core.AttrStrike, "true")
	}
	if s.Color != "" {
		node.SetAttr(core.AttrColor, s.Color)
	}
	if s.Highlight != "" {
		node.SetAttr(core.AttrHighlight, s.Highlight)
	}

	switch rn.Tracked {
	case layout.TrackedInsert:
		node.SetAttr(core.AttrTracked, "insert")
		node.SetAttr(core.AttrUnderline, "true")
		node.SetAttr(core.AttrColor, p.opts.Theme.TrackedInsert)
	case layout.TrackedDelete:
		node.SetAttr(core.AttrTracked, "delete")
		node.SetAttr(core.AttrStrike, "true")
		node.SetAttr(core.AttrColor, p.opts.Theme.TrackedDelete)
	}

	if len(rn.CommentIDs) > 0 {
		node.SetAttr(core.AttrComment, strings.Join(rn.CommentIDs, ","))
		node.SetAttr(core.AttrHighlight, p.opts.Theme.CommentHighlight)
		for _, id := range rn.CommentIDs {
			if id == p.activeComment && id != "" {
				node.SetAttr(core.AttrActiveComment, "true")
				node.SetAttr(core.AttrHighlight, p.opts.Theme.ActiveComment)
				break
			}
		}
	}

	if rn.Link != "" {
		p.setLinkAttr(node, core.AttrLink, rn.Link)
	}
}

// setLinkAttr applies the link policy to an untrusted reference. Blocked
// references fail closed: the node is marked blocked, the counter bumps,
// and the reference is never carried onto the tree.
func (p *Painter) setLinkAttr(node target.Node, attr, ref string) {
	if ref == "" {
		return
	}
	resolved, ok := p.opts.LinkPolicy(ref)
	if !ok {
		node.SetAttr(core.AttrBlocked, "true")
		p.metrics.blockedRe.Add(1)
		return
	}
	node.SetAttr(attr, resolved)
}

// errorNode builds the labeled placeholder substituted for a fragment
// whose rendering failed.
func (p *Painter) errorNode(f layout.Fragment, label string) target.Node {
	p.metrics.fragErrs.Add(1)

	node := p.tgt.CreateNode(core.KindError.String())
	b := f.Base()
	target.SetFloatAttr(node, core.AttrX, b.X)
	target.SetFloatAttr(node, core.AttrY, b.Y)
	target.SetFloatAttr(node, core.AttrWidth, b.Width)
	if b.Height > 0 {
		target.SetFloatAttr(node, core.AttrHeight, b.Height)
	}
	node.SetAttr(core.AttrErrorLabel, label)
	node.SetAttr(core.AttrColor, p.opts.Theme.ErrorText)
	node.SetAttr(core.AttrHighlight, p.opts.Theme.ErrorBackground)
	node.SetText(label)
	return node
}
