package layout

import (
	"strings"
	"testing"
)

const sampleDoc = `{
  "pageSize": {"width": 612, "height": 792},
  "pages": [
    {
      "number": 1,
      "margins": {"top": 72, "right": 72, "bottom": 72, "left": 72},
      "fragments": [
        {"kind": "para", "blockId": "p1", "x": 72, "y": 72, "width": 468,
         "height": 40, "lineStart": 0, "lineEnd": 2, "pmStart": 1, "pmEnd": 50},
        {"kind": "list-item", "blockId": "li1", "x": 72, "y": 120, "width": 468,
         "lineStart": 0, "lineEnd": 1,
         "marker": {"text": "1.", "width": 18}},
        {"kind": "image", "blockId": "img1", "x": 72, "y": 160, "width": 200,
         "height": 100, "src": "https://example.com/a.png", "alt": "a"},
        {"kind": "drawing", "blockId": "d1", "x": 72, "y": 280, "width": 80,
         "shape": "roundRect"},
        {"kind": "table", "blockId": "t1", "x": 72, "y": 380, "width": 468,
         "rowStart": 0, "rowEnd": 1, "continuesOnNext": true}
      ]
    },
    {"number": 2, "size": {"width": 792, "height": 612}, "fragments": []}
  ],
  "blocks": {
    "p1": {
      "version": "v1",
      "block": {"alignment": "both", "style": "Body", "endsWithBreak": false,
                "container": {"key": "box-1", "label": "Callout"}},
      "measure": {
        "lines": [
          {"charStart": 0, "charEnd": 20, "width": 140, "availWidth": 160,
           "spaceCount": 4,
           "runs": [
             {"kind": "text", "text": "hello world", "pmStart": 1, "pmEnd": 12,
              "style": {"bold": true, "color": "#112233"},
              "tracked": "insert", "comments": ["c1", "c2"],
              "link": "https://example.com"},
             {"kind": "tab", "width": 36},
             {"kind": "lineBreak"},
             {"kind": "fieldAnnotation", "field": "PAGE", "text": "1"}
           ]},
          {"charStart": 20, "charEnd": 30, "width": 90, "availWidth": 160,
           "spaceCount": 1, "endsWithBreak": true,
           "explicitX": [0, 80]}
        ]
      }
    },
    "t1": {
      "version": "v7",
      "block": {"alignment": "left"},
      "measure": {
        "rows": [
          {"height": 30, "cells": [
            {"x": 0, "width": 234, "lines": [
              {"charStart": 0, "charEnd": 5, "width": 50, "availWidth": 220}
            ]}
          ]}
        ]
      }
    }
  }
}`

func TestDecode(t *testing.T) {
	doc, err := Decode([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := doc.Layout
	if l.PageSize.Width != 612 || l.PageSize.Height != 792 {
		t.Errorf("page size = %+v", l.PageSize)
	}
	if len(l.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(l.Pages))
	}

	p1 := l.Pages[0]
	if p1.Number != 1 || p1.Margins == nil || p1.Margins.Top != 72 {
		t.Errorf("page 1 = %+v", p1)
	}
	if len(p1.Fragments) != 5 {
		t.Fatalf("expected 5 fragments, got %d", len(p1.Fragments))
	}

	// Landscape override on page 2.
	if got := l.Pages[1].EffectiveSize(l); got.Width != 792 || got.Height != 612 {
		t.Errorf("page 2 effective size = %+v", got)
	}

	para, ok := p1.Fragments[0].(*Paragraph)
	if !ok || para.LineStart != 0 || para.LineEnd != 2 {
		t.Errorf("fragment 0 = %#v", p1.Fragments[0])
	}
	if para.PMStart != 1 || para.PMEnd != 50 {
		t.Errorf("paragraph pm range = [%d,%d]", para.PMStart, para.PMEnd)
	}

	li, ok := p1.Fragments[1].(*ListItem)
	if !ok || li.Marker == nil || li.Marker.Text != "1." || li.Marker.Width != 18 {
		t.Errorf("fragment 1 = %#v", p1.Fragments[1])
	}

	img, ok := p1.Fragments[2].(*Image)
	if !ok || img.Src != "https://example.com/a.png" || img.Alt != "a" {
		t.Errorf("fragment 2 = %#v", p1.Fragments[2])
	}

	drw, ok := p1.Fragments[3].(*Drawing)
	if !ok || drw.Shape != "roundRect" {
		t.Errorf("fragment 3 = %#v", p1.Fragments[3])
	}

	tbl, ok := p1.Fragments[4].(*Table)
	if !ok || tbl.RowStart != 0 || tbl.RowEnd != 1 || !tbl.ContinuesOnNext {
		t.Errorf("fragment 4 = %#v", p1.Fragments[4])
	}
}

func TestDecodeBlocks(t *testing.T) {
	doc, err := Decode([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, ok := doc.Blocks["p1"]
	if !ok {
		t.Fatalf("missing block p1")
	}
	if entry.Version != "v1" {
		t.Errorf("version = %q, want v1", entry.Version)
	}
	b := entry.Block
	if b.Alignment != AlignJustify {
		t.Errorf("alignment %q decoded as %v, want justify", "both", b.Alignment)
	}
	if b.StyleName != "Body" || b.Container == nil || b.Container.Key != "box-1" {
		t.Errorf("block = %+v", b)
	}

	lines := entry.Measure.Lines
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	l0 := lines[0]
	if l0.Width != 140 || l0.AvailWidth != 160 || l0.SpaceCount != 4 {
		t.Errorf("line 0 = %+v", l0)
	}
	if len(l0.Runs) != 4 {
		t.Fatalf("expected 4 runs, got %d", len(l0.Runs))
	}

	tr, ok := l0.Runs[0].(*TextRun)
	if !ok {
		t.Fatalf("run 0 = %#v", l0.Runs[0])
	}
	if tr.Text != "hello world" || !tr.Style.Bold || tr.Style.Color != "#112233" {
		t.Errorf("text run = %+v", tr)
	}
	if tr.Tracked != TrackedInsert || len(tr.CommentIDs) != 2 {
		t.Errorf("annotations = tracked %d comments %v", tr.Tracked, tr.CommentIDs)
	}
	if tr.Link != "https://example.com" {
		t.Errorf("link = %q", tr.Link)
	}

	if _, ok := l0.Runs[1].(*TabRun); !ok {
		t.Errorf("run 1 = %#v", l0.Runs[1])
	}
	if _, ok := l0.Runs[2].(*LineBreakRun); !ok {
		t.Errorf("run 2 = %#v", l0.Runs[2])
	}
	fr, ok := l0.Runs[3].(*FieldRun)
	if !ok || fr.Field != "PAGE" || fr.Text != "1" {
		t.Errorf("run 3 = %#v", l0.Runs[3])
	}

	if len(lines[1].ExplicitX) != 2 || !lines[1].EndsWithBreak {
		t.Errorf("line 1 = %+v", lines[1])
	}

	rows := doc.Blocks["t1"].Measure.Rows
	if len(rows) != 1 || len(rows[0].Cells) != 1 || rows[0].Height != 30 {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].Cells[0].Width != 234 || len(rows[0].Cells[0].Lines) != 1 {
		t.Errorf("cell = %+v", rows[0].Cells[0])
	}
}

func TestDecodeRejectsUnknownKinds(t *testing.T) {
	frag := `{"pages": [{"number": 1, "fragments": [{"kind": "hologram", "blockId": "x"}]}]}`
	if _, err := Decode([]byte(frag)); err == nil || !strings.Contains(err.Error(), "hologram") {
		t.Errorf("expected unsupported fragment kind error, got %v", err)
	}

	run := `{"blocks": {"b": {"block": {}, "measure": {"lines": [{"runs": [{"kind": "sparkle"}]}]}}}}`
	if _, err := Decode([]byte(run)); err == nil || !strings.Contains(err.Error(), "sparkle") {
		t.Errorf("expected unsupported run kind error, got %v", err)
	}
}

func TestDecodeRejectsInvalidJSON(t *testing.T) {
	if _, err := Decode([]byte("{")); err == nil {
		t.Errorf("expected an error for invalid JSON")
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		frag Fragment
		want string
	}{
		{"paragraph", &Paragraph{FragmentBase: FragmentBase{BlockID: "b1"}, LineStart: 2, LineEnd: 5}, "para/b1/2-5"},
		{"list item", &ListItem{Paragraph: Paragraph{FragmentBase: FragmentBase{BlockID: "b2"}, LineStart: 0, LineEnd: 1}}, "li/b2/0-1"},
		{"image", &Image{FragmentBase: FragmentBase{BlockID: "b3"}}, "img/b3"},
		{"drawing", &Drawing{FragmentBase: FragmentBase{BlockID: "b4"}}, "drw/b4"},
		{"table", &Table{FragmentBase: FragmentBase{BlockID: "b5"}, RowStart: 1, RowEnd: 3}, "tbl/b5/1-3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.frag); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPageHeights(t *testing.T) {
	l := &Layout{
		PageSize: Size{Width: 612, Height: 792},
		Pages: []Page{
			{Number: 1},
			{Number: 2, Size: &Size{Width: 792, Height: 612}},
		},
	}
	heights := l.PageHeights()
	if len(heights) != 2 || heights[0] != 792 || heights[1] != 612 {
		t.Errorf("PageHeights() = %v", heights)
	}
}
