// Package boundary groups consecutive fragments that belong to the same
// structured-content container, so the container's visual chrome (outline
// and label) can span several fragments, including across a page break.
package boundary

import (
	"fmt"

	"github.com/dshills/folio/internal/layout"
)

// Record annotates one fragment of a page with its grouping results.
type Record struct {
	// Key is the container key, empty for ungrouped fragments.
	Key string

	// IsStart is true for the first fragment of a run on this page that
	// also starts the container (no continuation from a previous page).
	IsStart bool

	// IsEnd is true for the last fragment of a run that also ends the
	// container (no continuation onto a following page).
	IsEnd bool

	// WidthOverride forces the fragment's chrome to the run's shared
	// right edge; 0 means no override.
	WidthOverride float64

	// PaddingBottomOverride fills the vertical gap to the next member of
	// the same run; 0 means no override.
	PaddingBottomOverride float64

	// ShowLabel is true only for the first occurrence of the container
	// key in the current paint pass, so remounted or virtualized pages
	// never show a duplicate label.
	ShowLabel bool
}

// Class returns the signature contribution of the record: any change in
// grouping class forces a fragment rebuild.
func (r Record) Class() string {
	if r.Key == "" {
		return ""
	}
	return fmt.Sprintf("%s:%t:%t:%g", r.Key, r.IsStart, r.IsEnd, r.WidthOverride)
}

// Annotate derives a grouping record per fragment of one page.
//
// A fragment's container key comes from its owning block's container
// metadata; no key means the fragment is not grouped and yields a zero
// record. Maximal runs of consecutive fragments sharing a key are scanned
// once; labeled tracks container keys already labeled during this paint
// pass and is updated in place.
func Annotate(frags []layout.Fragment, lookup layout.BlockLookup, labeled map[string]struct{}) []Record {
	records := make([]Record, len(frags))

	keys := make([]string, len(frags))
	for i, f := range frags {
		keys[i] = containerKey(f, lookup)
	}

	for start := 0; start < len(frags); {
		key := keys[start]
		if key == "" {
			start++
			continue
		}

		end := start
		for end+1 < len(frags) && keys[end+1] == key {
			end++
		}

		annotateRun(frags, records, start, end, key, lookup, labeled)
		start = end + 1
	}

	return records
}

func annotateRun(frags []layout.Fragment, records []Record, start, end int, key string, lookup layout.BlockLookup, labeled map[string]struct{}) {
	// Shared right edge: narrower members still draw full-width chrome.
	var maxRight float64
	for i := start; i <= end; i++ {
		if r := frags[i].Base().Right(); r > maxRight {
			maxRight = r
		}
	}

	for i := start; i <= end; i++ {
		b := frags[i].Base()
		rec := Record{Key: key}

		if i == start && !b.ContinuesFromPrev {
			rec.IsStart = true
		}
		if i == end && !b.ContinuesOnNext {
			rec.IsEnd = true
		}

		if w := maxRight - b.X; w > b.Width {
			rec.WidthOverride = w
		}

		if i < end {
			next := frags[i+1].Base()
			if gap := next.Y - (b.Y + b.Height); gap > 0 && b.Height > 0 {
				rec.PaddingBottomOverride = gap
			}
		}

		// Label on the first occurrence of the key in this paint pass,
		// whether or not that occurrence starts the container.
		if i == start {
			if _, seen := labeled[key]; !seen {
				rec.ShowLabel = true
				labeled[key] = struct{}{}
			}
		}

		records[i] = rec
	}
}

func containerKey(f layout.Fragment, lookup layout.BlockLookup) string {
	entry, ok := lookup[f.Base().BlockID]
	if !ok || entry.Block == nil || entry.Block.Container == nil {
		return ""
	}
	return entry.Block.Container.Key
}

// Label returns the container label for a key, when the block carrying it
// is present in the lookup.
func Label(key string, frags []layout.Fragment, lookup layout.BlockLookup) string {
	for _, f := range frags {
		entry, ok := lookup[f.Base().BlockID]
		if !ok || entry.Block == nil || entry.Block.Container == nil {
			continue
		}
		if entry.Block.Container.Key == key {
			return entry.Block.Container.Label
		}
	}
	return ""
}
