package painter

import (
	"github.com/dshills/folio/internal/layout"
	"github.com/dshills/folio/internal/painter/boundary"
	"github.com/dshills/folio/internal/painter/core"
	"github.com/dshills/folio/internal/painter/posmap"
	"github.com/dshills/folio/internal/painter/reconcile"
	"github.com/dshills/folio/internal/painter/target"
)

// pageState is the cached per-index state of a page. While mounted, node
// is a child of the root; on eviction the fragment states are destroyed
// and only the node shell (with its decorations) is cached for reuse.
type pageState struct {
	index int
	node  target.Node

	frags []*fragState
	byKey map[string]*fragState

	decorGen   uint64
	headerNode target.Node
	footerNode target.Node
}

// fragState is one mounted fragment: the retained node plus the key and
// signature that decide patch vs replace on the next paint.
type fragState struct {
	key       string
	signature string
	frag      layout.Fragment
	node      target.Node
	rec       boundary.Record
}

// applyWindow mounts, unmounts and reconciles pages so the mounted set
// matches needed. With mountOnly set (scroll updates), retained pages
// are left untouched and only newly mounted pages render.
func (p *Painter) applyWindow(l *layout.Layout, needed []int, mapping *layout.Mapping, mountOnly bool) {
	root := p.tgt.Root()

	needSet := make(map[int]struct{}, len(needed))
	for _, i := range needed {
		needSet[i] = struct{}{}
	}

	// Evict pages that fell out of the needed set.
	for idx, ps := range p.pages {
		if _, keep := needSet[idx]; keep {
			continue
		}
		if ps.node.Parent() != nil {
			p.evictPage(ps)
			root.RemoveChild(ps.node)
		}
	}

	// Mount and reconcile needed pages.
	for _, idx := range needed {
		if idx < 0 || idx >= len(l.Pages) {
			continue
		}
		page := &l.Pages[idx]

		ps, cached := p.pages[idx]
		if !cached {
			ps = &pageState{
				index: idx,
				node:  p.tgt.CreateNode(core.KindPage.String()),
				byKey: make(map[string]*fragState),
			}
			p.pages[idx] = ps
		}
		wasMounted := ps.node.Parent() != nil

		size := page.EffectiveSize(l)
		target.SetIntAttr(ps.node, core.AttrPageIndex, idx)
		target.SetIntAttr(ps.node, core.AttrPageNumber, page.Number)
		target.SetFloatAttr(ps.node, core.AttrWidth, size.Width)
		target.SetFloatAttr(ps.node, core.AttrHeight, size.Height)

		if !mountOnly || !wasMounted {
			p.reconcilePage(page, ps, mapping)
		}
		if ps.decorGen != p.decorGen || !wasMounted && ps.headerNode == nil && ps.footerNode == nil {
			p.renderDecorations(page, ps)
			ps.decorGen = p.decorGen
		}
	}

	p.arrangeRoot(needed)
}

// evictPage destroys the page's fragment states, keeping the node shell
// for remount reuse.
func (p *Painter) evictPage(ps *pageState) {
	for _, st := range ps.frags {
		ps.node.RemoveChild(st.node)
		p.tgt.Release(st.node)
		p.metrics.removed.Add(1)
	}
	ps.frags = nil
	ps.byKey = make(map[string]*fragState)
}

// reconcilePage makes the page node's fragment children represent
// page.Fragments, reusing keyed state where signatures allow.
func (p *Painter) reconcilePage(page *layout.Page, ps *pageState, mapping *layout.Mapping) {
	records := boundary.Annotate(page.Fragments, p.lookup, p.labeled)

	prev := make([]reconcile.Keyed, len(ps.frags))
	for i, st := range ps.frags {
		prev[i] = reconcile.Keyed{Key: st.key, Signature: st.signature}
	}

	desired := make([]reconcile.Keyed, len(page.Fragments))
	byKey := make(map[string]int, len(page.Fragments))
	for i, f := range page.Fragments {
		desired[i] = reconcile.Keyed{
			Key:       layout.Key(f),
			Signature: p.signature(f, records[i]),
		}
		byKey[desired[i].Key] = i
	}

	plan := reconcile.Plan(prev, desired)
	next := make([]*fragState, len(desired))

	for _, ins := range plan {
		switch ins.Op {
		case reconcile.OpRemove:
			st, ok := ps.byKey[ins.Key]
			if !ok {
				continue
			}
			delete(ps.byKey, ins.Key)
			ps.node.RemoveChild(st.node)
			p.tgt.Release(st.node)
			p.metrics.removed.Add(1)

		case reconcile.OpCreate:
			i := byKey[ins.Key]
			next[ins.Index] = p.createFrag(page.Fragments[i], desired[i], records[i])
			p.metrics.created.Add(1)

		case reconcile.OpReplace:
			if st, ok := ps.byKey[ins.Key]; ok {
				delete(ps.byKey, ins.Key)
				ps.node.RemoveChild(st.node)
				p.tgt.Release(st.node)
			}
			i := byKey[ins.Key]
			next[ins.Index] = p.createFrag(page.Fragments[i], desired[i], records[i])
			p.metrics.replaced.Add(1)

		case reconcile.OpPatch:
			st, ok := ps.byKey[ins.Key]
			if !ok {
				continue
			}
			i := byKey[ins.Key]
			frag := page.Fragments[i]

			// A dirty block or an unreliable mapping escalates the
			// patch to a replace.
			_, blockDirty := p.dirty[frag.Base().BlockID]
			unreliable := mapping != nil && !posmap.Reliable(st.node, mapping, frag.Base().PMStart)
			if blockDirty || unreliable {
				delete(ps.byKey, ins.Key)
				ps.node.RemoveChild(st.node)
				p.tgt.Release(st.node)
				next[ins.Index] = p.createFrag(frag, desired[i], records[i])
				p.metrics.replaced.Add(1)
				continue
			}

			p.patchFrag(st, frag, records[i], mapping)
			next[ins.Index] = st
			p.metrics.patched.Add(1)

		case reconcile.OpMove:
			// Ordering is restored by the reorder pass below.
		}
	}

	ps.frags = ps.frags[:0]
	ps.byKey = make(map[string]*fragState, len(next))
	for _, st := range next {
		if st == nil {
			continue
		}
		ps.frags = append(ps.frags, st)
		ps.byKey[st.key] = st
	}

	p.arrangePage(ps)
}

// patchFrag updates geometry and boundary padding in place and, when a
// simple mapping is active, delegates position patching to the position
// mapper instead of touching rendered content.
func (p *Painter) patchFrag(st *fragState, f layout.Fragment, rec boundary.Record, mapping *layout.Mapping) {
	b := f.Base()
	target.SetFloatAttr(st.node, core.AttrX, b.X)
	target.SetFloatAttr(st.node, core.AttrY, b.Y)
	target.SetFloatAttr(st.node, core.AttrWidth, b.Width)
	if b.Height > 0 {
		target.SetFloatAttr(st.node, core.AttrHeight, b.Height)
	}
	if rec.PaddingBottomOverride > 0 {
		target.SetFloatAttr(st.node, core.AttrBoundaryPad, rec.PaddingBottomOverride)
	} else {
		st.node.RemoveAttr(core.AttrBoundaryPad)
	}

	if mapping != nil {
		// Mapper failures are logged inside Patch; stale positions on a
		// node that will be replaced next paint are tolerable.
		_, _ = posmap.Patch(st.node, mapping)
	}

	st.frag = f
	st.rec = rec
}

// arrangePage reorders the page node's children to mirror the desired
// fragment order: header first, fragments in order, footer last.
func (p *Painter) arrangePage(ps *pageState) {
	idx := 0
	if ps.headerNode != nil {
		ps.node.InsertChild(ps.headerNode, idx)
		idx++
	}
	for _, st := range ps.frags {
		ps.node.InsertChild(st.node, idx)
		idx++
	}
	if ps.footerNode != nil {
		ps.node.InsertChild(ps.footerNode, idx)
	}
}

// arrangeRoot rebuilds the root's child order: leading spacer, mounted
// pages with gap spacers between non-contiguous indices, trailing
// spacer. Spacer heights come from the offset prefix sums so total
// scrollable extent stays correct.
func (p *Painter) arrangeRoot(needed []int) {
	root := p.tgt.Root()

	// Drop previous spacers; they are cheap and recomputed each pass.
	for _, child := range root.Children() {
		if child.KindName() == core.KindSpacer.String() {
			root.RemoveChild(child)
			p.tgt.Release(child)
		}
	}

	if p.opts.Mode != ModeFlowing {
		for i, idx := range needed {
			if ps, ok := p.pages[idx]; ok {
				root.InsertChild(ps.node, i)
			}
		}
		return
	}

	pos := 0
	if len(needed) > 0 {
		if h := p.vm.LeadingHeight(needed[0]); h > 0 {
			pos = p.insertSpacer(root, pos, h)
		}
	}
	for i, idx := range needed {
		if i > 0 {
			if h := p.vm.GapHeight(needed[i-1], idx); h > 0 {
				pos = p.insertSpacer(root, pos, h)
			}
		}
		if ps, ok := p.pages[idx]; ok {
			root.InsertChild(ps.node, pos)
			pos++
		}
	}
	if len(needed) > 0 {
		last := needed[len(needed)-1]
		if h := p.vm.TrailingHeight(last); h > 0 {
			p.insertSpacer(root, pos, h)
		}
	}
}

func (p *Painter) insertSpacer(root target.Node, pos int, height float64) int {
	sp := p.tgt.CreateNode(core.KindSpacer.String())
	target.SetFloatAttr(sp, core.AttrHeight, height)
	root.InsertChild(sp, pos)
	return pos + 1
}

// refreshSpacers resizes existing spacers without remounting anything.
func (p *Painter) refreshSpacers(needed []int) {
	if p.opts.Mode != ModeFlowing {
		return
	}
	root := p.tgt.Root()

	// Walk children pairing spacers with the page indices around them.
	lastPage := -1
	ni := 0
	for _, child := range root.Children() {
		switch child.KindName() {
		case core.KindPage.String():
			if ni < len(needed) {
				lastPage = needed[ni]
				ni++
			}
		case core.KindSpacer.String():
			var h float64
			switch {
			case lastPage < 0 && len(needed) > 0:
				h = p.vm.LeadingHeight(needed[0])
			case ni < len(needed):
				h = p.vm.GapHeight(lastPage, needed[ni])
			default:
				h = p.vm.TrailingHeight(lastPage)
			}
			target.SetFloatAttr(child, core.AttrHeight, h)
		}
	}
}
