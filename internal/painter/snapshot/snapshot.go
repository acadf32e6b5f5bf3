// Package snapshot captures a serializable, order-stable description of
// rendered line/marker/tab geometry from a painted tree.
//
// Snapshots exist for diff-based regression testing: paint, capture,
// paint again, capture again, and compare within floating-point
// tolerance.
package snapshot

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/folio/internal/painter/core"
	"github.com/dshills/folio/internal/painter/target"
)

// FormatVersion identifies the snapshot schema.
const FormatVersion = 1

// Line describes one rendered line.
type Line struct {
	Index            int       `json:"index"`
	InTableFragment  bool      `json:"inTableFragment"`
	InTableParagraph bool      `json:"inTableParagraph"`
	Style            string    `json:"style"`
	Markers          []string  `json:"markers"`
	Tabs             []float64 `json:"tabs"`
	WordSpacing      float64   `json:"wordSpacing"`
}

// Page describes one rendered page.
type Page struct {
	Index      int    `json:"index"`
	PageNumber int    `json:"pageNumber"`
	LineCount  int    `json:"lineCount"`
	Lines      []Line `json:"lines"`
}

// Snapshot is the full capture of a painted tree.
type Snapshot struct {
	FormatVersion int    `json:"formatVersion"`
	PageCount     int    `json:"pageCount"`
	LineCount     int    `json:"lineCount"`
	MarkerCount   int    `json:"markerCount"`
	TabCount      int    `json:"tabCount"`
	Pages         []Page `json:"pages"`
}

// Capture walks a painted tree and records every page's rendered lines,
// markers and tabs in paint order.
func Capture(root target.Node) (*Snapshot, error) {
	if root == nil {
		return nil, fmt.Errorf("snapshot: nil root")
	}

	snap := &Snapshot{FormatVersion: FormatVersion}

	pageIdx := 0
	for _, child := range root.Children() {
		if child.KindName() != core.KindPage.String() {
			continue
		}

		page := Page{Index: pageIdx}
		if num, ok := target.IntAttr(child, core.AttrPageNumber); ok {
			page.PageNumber = num
		}

		collectLines(child, &page)
		page.LineCount = len(page.Lines)

		snap.Pages = append(snap.Pages, page)
		snap.LineCount += page.LineCount
		for _, l := range page.Lines {
			snap.MarkerCount += len(l.Markers)
			snap.TabCount += len(l.Tabs)
		}
		pageIdx++
	}

	snap.PageCount = len(snap.Pages)
	return snap, nil
}

func collectLines(n target.Node, page *Page) {
	for _, child := range n.Children() {
		if child.KindName() == core.KindLine.String() {
			page.Lines = append(page.Lines, captureLine(child, len(page.Lines)))
			continue
		}
		collectLines(child, page)
	}
}

func captureLine(n target.Node, index int) Line {
	line := Line{
		Index:       index,
		Markers:     []string{},
		Tabs:        []float64{},
		WordSpacing: target.FloatAttr(n, core.AttrSpacing),
	}
	if v, ok := n.Attr(core.AttrInTableFragment); ok {
		line.InTableFragment = v == "true"
	}
	if v, ok := n.Attr(core.AttrInTableParagraph); ok {
		line.InTableParagraph = v == "true"
	}
	if v, ok := n.Attr(core.AttrStyle); ok {
		line.Style = v
	}

	for _, child := range n.Children() {
		switch child.KindName() {
		case core.KindMarker.String():
			line.Markers = append(line.Markers, child.Text())
		case core.KindRun.String():
			if _, tab := child.Attr("tab"); tab {
				line.Tabs = append(line.Tabs, target.FloatAttr(child, core.AttrWidth))
			}
		}
	}

	return line
}

// JSON serializes the snapshot.
func (s *Snapshot) JSON() ([]byte, error) {
	return json.Marshal(s)
}

// Normalize rounds every numeric value in a snapshot JSON document to six
// decimal places, producing byte-stable regression fixtures across
// platforms with differing float formatting.
func Normalize(data []byte) ([]byte, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("snapshot: invalid JSON")
	}

	out := data
	var err error
	walkNumbers(gjson.ParseBytes(data), "", func(path string, v float64) {
		if err != nil {
			return
		}
		rounded := math.Round(v*1e6) / 1e6
		if rounded == v {
			return
		}
		out, err = sjson.SetBytes(out, path, rounded)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func walkNumbers(v gjson.Result, prefix string, fn func(path string, v float64)) {
	switch v.Type {
	case gjson.Number:
		fn(prefix, v.Float())
	case gjson.JSON:
		v.ForEach(func(key, val gjson.Result) bool {
			var path string
			if v.IsArray() {
				path = joinPath(prefix, strconv.Itoa(int(key.Int())))
			} else {
				path = joinPath(prefix, key.String())
			}
			walkNumbers(val, path, fn)
			return true
		})
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// Diff compares two snapshot JSON documents and returns a human-readable
// difference per mismatching path. Numbers compare within tol; everything
// else compares exactly. A nil result means the snapshots match.
func Diff(a, b []byte, tol float64) []string {
	var diffs []string
	ra, rb := gjson.ParseBytes(a), gjson.ParseBytes(b)
	diffValue(ra, rb, "", tol, &diffs)
	return diffs
}

func diffValue(a, b gjson.Result, path string, tol float64, diffs *[]string) {
	if a.Type != b.Type {
		*diffs = append(*diffs, fmt.Sprintf("%s: type %s != %s", orRoot(path), a.Type, b.Type))
		return
	}

	switch a.Type {
	case gjson.Number:
		if math.Abs(a.Float()-b.Float()) > tol {
			*diffs = append(*diffs, fmt.Sprintf("%s: %v != %v", orRoot(path), a.Float(), b.Float()))
		}
	case gjson.JSON:
		aArr, bArr := a.IsArray(), b.IsArray()
		if aArr != bArr {
			*diffs = append(*diffs, fmt.Sprintf("%s: array/object mismatch", orRoot(path)))
			return
		}
		if aArr {
			av, bv := a.Array(), b.Array()
			if len(av) != len(bv) {
				*diffs = append(*diffs, fmt.Sprintf("%s: length %d != %d", orRoot(path), len(av), len(bv)))
				return
			}
			for i := range av {
				diffValue(av[i], bv[i], joinPath(path, strconv.Itoa(i)), tol, diffs)
			}
			return
		}

		keys := make(map[string]struct{})
		a.ForEach(func(k, _ gjson.Result) bool { keys[k.String()] = struct{}{}; return true })
		b.ForEach(func(k, _ gjson.Result) bool { keys[k.String()] = struct{}{}; return true })
		for k := range keys {
			diffValue(a.Get(k), b.Get(k), joinPath(path, k), tol, diffs)
		}
	default:
		if a.Raw != b.Raw {
			*diffs = append(*diffs, fmt.Sprintf("%s: %s != %s", orRoot(path), a.Raw, b.Raw))
		}
	}
}

func orRoot(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}
