// Package painter paints a precomputed, paginated document layout into a
// retained visual tree and keeps the tree synchronized as the document or
// viewport changes.
//
// A Painter owns one render target. Paint calls are synchronous and run
// to completion on the calling goroutine; callers must serialize calls on
// the same painter. All mutable state (mounted fragment maps, the
// virtualization window, the per-pass label set) is private to the
// instance.
package painter

import (
	"strings"
	"sync"

	"github.com/dshills/folio/internal/decor"
	"github.com/dshills/folio/internal/layout"
	"github.com/dshills/folio/internal/painter/snapshot"
	"github.com/dshills/folio/internal/painter/style"
	"github.com/dshills/folio/internal/painter/target"
	"github.com/dshills/folio/internal/painter/virtual"
)

// Mode selects how pages are presented.
type Mode uint8

const (
	// ModeFlowing lays pages out in a flowing vertical scroll and
	// virtualizes them.
	ModeFlowing Mode = iota

	// ModeAll mounts every page; no virtualization.
	ModeAll
)

// LinkPolicy decides whether an untrusted reference may be carried onto
// a node. It returns the (possibly rewritten) reference and true to
// allow, or false to block.
type LinkPolicy func(ref string) (string, bool)

// DefaultLinkPolicy allows http and https references only.
func DefaultLinkPolicy(ref string) (string, bool) {
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return ref, true
	}
	return "", false
}

// SchemeLinkPolicy allows the given URL schemes.
func SchemeLinkPolicy(schemes []string) LinkPolicy {
	if len(schemes) == 0 {
		return DefaultLinkPolicy
	}
	allowed := make(map[string]struct{}, len(schemes))
	for _, s := range schemes {
		allowed[strings.ToLower(s)] = struct{}{}
	}
	return func(ref string) (string, bool) {
		scheme, _, ok := strings.Cut(ref, "://")
		if !ok {
			return "", false
		}
		if _, ok := allowed[strings.ToLower(scheme)]; !ok {
			return "", false
		}
		return ref, true
	}
}

// Options configures a painter.
type Options struct {
	// Mode selects page presentation.
	Mode Mode

	// Virtual configures the virtualization window (ModeFlowing only).
	Virtual virtual.Options

	// Theme is the resolved color set.
	Theme style.Theme

	// LinkPolicy filters untrusted references; nil means
	// DefaultLinkPolicy.
	LinkPolicy LinkPolicy
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Mode:       ModeFlowing,
		Virtual:    virtual.DefaultOptions(),
		Theme:      style.DefaultTheme(),
		LinkPolicy: DefaultLinkPolicy,
	}
}

// Painter is the paint/reconciliation engine.
type Painter struct {
	mu sync.Mutex

	opts Options
	tgt  target.Target

	// Block data set by SetData.
	lookup       layout.BlockLookup
	headerLookup layout.BlockLookup
	footerLookup layout.BlockLookup

	// versions remembers the last seen version per block id; dirty is
	// the set of blocks whose version changed since the previous
	// SetData call.
	versions map[string]string
	dirty    map[string]struct{}

	headerProv decor.Provider
	footerProv decor.Provider
	decorGen   uint64

	vm        *virtual.Manager
	scrollPos float64

	// pages caches per-index page state; mounted page nodes are children
	// of the root, evicted pages keep only their node shell.
	pages      map[int]*pageState
	lastNeeded []int

	// labeled tracks container keys labeled during the current paint
	// pass so virtualized remounts never duplicate a label.
	labeled map[string]struct{}

	activeComment string

	painted    bool
	lastLayout *layout.Layout

	metrics Metrics
}

// New creates a painter for a render target.
func New(tgt target.Target, opts Options) (*Painter, error) {
	if tgt == nil {
		return nil, ErrNilTarget
	}
	if opts.LinkPolicy == nil {
		opts.LinkPolicy = DefaultLinkPolicy
	}
	if opts.Theme == (style.Theme{}) {
		opts.Theme = style.DefaultTheme()
	}

	return &Painter{
		opts:     opts,
		tgt:      tgt,
		versions: make(map[string]string),
		dirty:    make(map[string]struct{}),
		vm:       virtual.NewManager(opts.Virtual),
		pages:    make(map[int]*pageState),
		labeled:  make(map[string]struct{}),
	}, nil
}

// SetData replaces the block/measure data for the body, header and
// footer coordinate spaces. Each blocks/measures pair must have matching
// lengths. Versions are derived from the visually relevant properties of
// each pair, and blocks whose version changed since the previous call
// are marked dirty for the next paint.
func (p *Painter) SetData(blocks []*layout.Block, measures []*layout.Measure,
	headerBlocks []*layout.Block, headerMeasures []*layout.Measure,
	footerBlocks []*layout.Block, footerMeasures []*layout.Measure) error {

	if len(blocks) != len(measures) ||
		len(headerBlocks) != len(headerMeasures) ||
		len(footerBlocks) != len(footerMeasures) {
		return ErrLengthMismatch
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.lookup = buildLookup(blocks, measures)
	p.headerLookup = buildLookup(headerBlocks, headerMeasures)
	p.footerLookup = buildLookup(footerBlocks, footerMeasures)

	p.dirty = make(map[string]struct{})
	next := make(map[string]string, len(p.lookup))
	for id, entry := range p.lookup {
		next[id] = entry.Version
		if old, seen := p.versions[id]; !seen || old != entry.Version {
			p.dirty[id] = struct{}{}
		}
	}
	p.versions = next
	return nil
}

func buildLookup(blocks []*layout.Block, measures []*layout.Measure) layout.BlockLookup {
	lookup := make(layout.BlockLookup, len(blocks))
	for i, b := range blocks {
		if b == nil {
			continue
		}
		lookup[b.ID] = layout.BlockEntry{
			Block:   b,
			Measure: measures[i],
			Version: deriveVersion(b, measures[i]),
		}
	}
	return lookup
}

// SetProviders replaces the header/footer decoration providers. Existing
// decorations are rebuilt on the next paint.
func (p *Painter) SetProviders(header, footer decor.Provider) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.headerProv = header
	p.footerProv = footer
	p.decorGen++
}

// SetVirtualizationPins pins page indices so they stay mounted
// regardless of the scroll position.
func (p *Painter) SetVirtualizationPins(indices []int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.vm.SetPins(indices)
}

// SetActiveComment sets the active comment thread id; the empty string
// clears it. Runs covered by the thread restyle on the next paint.
func (p *Painter) SetActiveComment(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.activeComment == id {
		return
	}
	p.activeComment = id
	// Comment styling is version-invisible; force a repaint of text.
	for blockID := range p.lookup {
		p.dirty[blockID] = struct{}{}
	}
}

// ActiveComment returns the active comment thread id.
func (p *Painter) ActiveComment() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.activeComment
}

// OnScroll records the content-space scroll position and cheaply updates
// the virtualization window: newly visible pages mount, evicted pages
// unmount, spacers resize. Retained pages are not re-rendered.
func (p *Painter) OnScroll(pos float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.scrollPos = pos
	if !p.painted || p.lastLayout == nil {
		return
	}

	needed := p.neededPages(p.lastLayout)
	if virtual.SameNeeded(needed, p.lastNeeded) {
		p.refreshSpacers(needed)
		return
	}
	p.applyWindow(p.lastLayout, needed, nil, true)
	p.lastNeeded = needed
}

// Metrics returns a snapshot of the paint counters.
func (p *Painter) Metrics() MetricsSnapshot {
	return p.metrics.Snapshot()
}

// Snapshot captures the rendered line/marker/tab geometry of the current
// tree for diff-based regression testing.
func (p *Painter) Snapshot() (*snapshot.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tgt == nil || p.tgt.Root() == nil {
		return nil, ErrInvalidTarget
	}
	return snapshot.Capture(p.tgt.Root())
}

// Paint synchronously makes the target's visual subtree represent the
// layout. Repeated calls with an unchanged layout and no dirty blocks
// are idempotent: no node identities change.
//
// A mapping with more than one step is complex: every block is marked
// dirty and the paint proceeds as a full rebuild, trading performance
// for certainty on structurally ambiguous edits.
func (p *Painter) Paint(l *layout.Layout, mapping *layout.Mapping) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tgt == nil {
		return ErrNilTarget
	}
	if p.tgt.Root() == nil {
		return ErrInvalidTarget
	}
	if l == nil {
		return ErrNilLayout
	}

	if mapping.Complex() {
		for id := range p.lookup {
			p.dirty[id] = struct{}{}
		}
		mapping = nil
	}

	needed := p.neededPages(l)

	// Short-circuit: unchanged needed set, no dirty blocks, same
	// processed layout. Only spacer sizes are refreshed.
	if p.painted && l == p.lastLayout && len(p.dirty) == 0 && mapping == nil &&
		virtual.SameNeeded(needed, p.lastNeeded) {
		p.refreshSpacers(needed)
		return nil
	}

	// The label set is per paint pass.
	p.labeled = make(map[string]struct{})

	p.applyWindow(l, needed, mapping, false)

	p.lastNeeded = needed
	p.lastLayout = l
	p.painted = true
	p.dirty = make(map[string]struct{})
	return nil
}

// neededPages returns the sorted page indices that must be mounted.
func (p *Painter) neededPages(l *layout.Layout) []int {
	if p.opts.Mode != ModeFlowing {
		all := make([]int, len(l.Pages))
		for i := range all {
			all[i] = i
		}
		return all
	}
	p.vm.SetHeights(l.PageHeights())
	return p.vm.Needed(p.scrollPos)
}
