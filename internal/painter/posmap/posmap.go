// Package posmap patches cached document-position attributes on retained
// nodes after a simple incremental edit, without rebuilding the nodes.
//
// Patching keeps node identity stable, which is what keeps focus and
// selection intact in the host surface across small edits.
package posmap

import (
	"fmt"
	"log"

	"github.com/dshills/folio/internal/layout"
	"github.com/dshills/folio/internal/painter/core"
	"github.com/dshills/folio/internal/painter/target"
)

// Patch remaps the cached position range of a retained node and every
// position-tagged descendant.
//
// If remapping the node's cached end position with a prefer-earlier bias
// is a no-op, the node lies entirely before the edit point and is skipped.
// Otherwise start attributes are remapped with a prefer-earlier bias and
// end attributes with a prefer-later bias, so ranges neither swallow
// adjacent insertions nor lose their own edges.
//
// Header and footer subtrees use a disjoint position-coordinate space and
// are always skipped by a body-document mapping.
//
// Any failure (including a panicking mapping function) is caught and
// logged; the node keeps a stale-but-harmless cached position and the
// paint proceeds.
func Patch(n target.Node, m *layout.Mapping) (patched bool, err error) {
	if n == nil || m == nil || m.Map == nil {
		return false, nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("posmap: mapping failed: %v", r)
			log.Printf("posmap: leaving stale position on %s node: %v", n.KindName(), r)
		}
	}()

	end, ok := target.IntAttr(n, core.AttrPMEnd)
	if ok && m.Map(end, layout.BiasBefore) == end {
		// Entirely before the edit point.
		return false, nil
	}

	remapSubtree(n, m)
	return true, nil
}

func remapSubtree(n target.Node, m *layout.Mapping) {
	switch n.KindName() {
	case core.KindHeader.String(), core.KindFooter.String():
		return
	}

	if start, ok := target.IntAttr(n, core.AttrPMStart); ok {
		target.SetIntAttr(n, core.AttrPMStart, m.Map(start, layout.BiasBefore))
	}
	if end, ok := target.IntAttr(n, core.AttrPMEnd); ok {
		target.SetIntAttr(n, core.AttrPMEnd, m.Map(end, layout.BiasAfter))
	}

	for _, c := range n.Children() {
		remapSubtree(c, m)
	}
}

// Reliable reports whether a simple mapping reproduces a fragment's new
// start position from a node's cached start. When it does not, the
// mapping cannot be trusted for that node and the caller replaces the
// node instead of patching it.
func Reliable(n target.Node, m *layout.Mapping, newStart int) bool {
	if m == nil || m.Map == nil {
		return true
	}
	cached, ok := target.IntAttr(n, core.AttrPMStart)
	if !ok {
		return false
	}

	reliable := true
	func() {
		defer func() {
			if r := recover(); r != nil {
				reliable = false
			}
		}()
		reliable = m.Map(cached, layout.BiasBefore) == newStart
	}()
	return reliable
}
