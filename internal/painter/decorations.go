package painter

import (
	"github.com/dshills/folio/internal/decor"
	"github.com/dshills/folio/internal/layout"
	"github.com/dshills/folio/internal/painter/boundary"
	"github.com/dshills/folio/internal/painter/core"
	"github.com/dshills/folio/internal/painter/target"
)

// renderDecorations rebuilds the page's header and footer subtrees from
// the current providers. Decorations live in a position space disjoint
// from the body, so the position mapper never touches them.
func (p *Painter) renderDecorations(page *layout.Page, ps *pageState) {
	if ps.headerNode != nil {
		ps.node.RemoveChild(ps.headerNode)
		p.tgt.Release(ps.headerNode)
		ps.headerNode = nil
	}
	if ps.footerNode != nil {
		ps.node.RemoveChild(ps.footerNode)
		p.tgt.Release(ps.footerNode)
		ps.footerNode = nil
	}

	if p.headerProv != nil {
		if d := p.headerProv(page.Number, page.Margins, page); d != nil {
			ps.headerNode = p.renderDecoration(core.KindHeader, d, p.headerLookup)
			ps.node.InsertChild(ps.headerNode, 0)
		}
	}
	if p.footerProv != nil {
		if d := p.footerProv(page.Number, page.Margins, page); d != nil {
			ps.footerNode = p.renderDecoration(core.KindFooter, d, p.footerLookup)
			ps.node.InsertChild(ps.footerNode, ps.node.ChildCount())
		}
	}
}

// renderDecoration builds one header or footer subtree. Measured
// fragments resolve against the section's own block lookup; a bare text
// decoration renders as a single line.
func (p *Painter) renderDecoration(kind core.NodeKind, d *decor.Decoration, lookup layout.BlockLookup) target.Node {
	node := p.tgt.CreateNode(kind.String())
	target.SetFloatAttr(node, core.AttrHeight, d.Height)
	if d.ContentHeight > 0 {
		target.SetFloatAttr(node, "content-height", d.ContentHeight)
	}
	if d.Offset != 0 {
		target.SetFloatAttr(node, "offset", d.Offset)
	}
	if d.MarginLeft != 0 {
		target.SetFloatAttr(node, core.AttrX, d.MarginLeft)
	}
	if d.ContentWidth > 0 {
		target.SetFloatAttr(node, core.AttrWidth, d.ContentWidth)
	}

	for _, f := range d.Fragments {
		child := p.renderFragment(lookup, f, boundary.Record{})
		node.InsertChild(child, node.ChildCount())
	}

	if len(d.Fragments) == 0 && d.Text != "" {
		line := p.tgt.CreateNode(core.KindLine.String())
		run := p.tgt.CreateNode(core.KindRun.String())
		run.SetText(d.Text)
		line.InsertChild(run, 0)
		node.InsertChild(line, node.ChildCount())
	}
	return node
}
