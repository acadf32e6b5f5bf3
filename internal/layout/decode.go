package layout

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Document bundles a decoded layout with its block lookup, the two inputs
// a paint call consumes.
type Document struct {
	Layout *Layout
	Blocks BlockLookup
}

// Decode parses a layout document from JSON. The format mirrors the
// structure handed over by the measurement stage:
//
//	{
//	  "pageSize": {"width": 612, "height": 792},
//	  "pages":    [{"number": 1, "fragments": [...]}],
//	  "blocks":   {"<id>": {"version": "...", "block": {...}, "measure": {...}}}
//	}
//
// Unknown fragment or run kinds are an error: the unions are closed and a
// new kind means the decoder must be extended in step with them.
func Decode(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("layout: invalid JSON")
	}
	root := gjson.ParseBytes(data)

	doc := &Document{
		Layout: &Layout{
			PageSize: decodeSize(root.Get("pageSize")),
		},
		Blocks: make(BlockLookup),
	}

	var err error
	root.Get("pages").ForEach(func(_, pv gjson.Result) bool {
		page, perr := decodePage(pv)
		if perr != nil {
			err = perr
			return false
		}
		doc.Layout.Pages = append(doc.Layout.Pages, page)
		return true
	})
	if err != nil {
		return nil, err
	}

	root.Get("blocks").ForEach(func(id, bv gjson.Result) bool {
		entry, berr := decodeBlockEntry(id.String(), bv)
		if berr != nil {
			err = berr
			return false
		}
		doc.Blocks[id.String()] = entry
		return true
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func decodeSize(v gjson.Result) Size {
	return Size{
		Width:  v.Get("width").Float(),
		Height: v.Get("height").Float(),
	}
}

func decodeMargins(v gjson.Result) *Margins {
	if !v.Exists() {
		return nil
	}
	return &Margins{
		Top:    v.Get("top").Float(),
		Right:  v.Get("right").Float(),
		Bottom: v.Get("bottom").Float(),
		Left:   v.Get("left").Float(),
	}
}

func decodePage(v gjson.Result) (Page, error) {
	page := Page{
		Number:  int(v.Get("number").Int()),
		Margins: decodeMargins(v.Get("margins")),
	}
	if sz := v.Get("size"); sz.Exists() {
		s := decodeSize(sz)
		page.Size = &s
	}

	var err error
	v.Get("fragments").ForEach(func(_, fv gjson.Result) bool {
		frag, ferr := decodeFragment(fv)
		if ferr != nil {
			err = ferr
			return false
		}
		page.Fragments = append(page.Fragments, frag)
		return true
	})
	return page, err
}

func decodeBase(v gjson.Result) FragmentBase {
	return FragmentBase{
		BlockID:           v.Get("blockId").String(),
		X:                 v.Get("x").Float(),
		Y:                 v.Get("y").Float(),
		Width:             v.Get("width").Float(),
		Height:            v.Get("height").Float(),
		ContinuesFromPrev: v.Get("continuesFromPrev").Bool(),
		ContinuesOnNext:   v.Get("continuesOnNext").Bool(),
		PMStart:           int(v.Get("pmStart").Int()),
		PMEnd:             int(v.Get("pmEnd").Int()),
	}
}

func decodeFragment(v gjson.Result) (Fragment, error) {
	base := decodeBase(v)
	switch kind := v.Get("kind").String(); kind {
	case "para":
		return &Paragraph{
			FragmentBase: base,
			LineStart:    int(v.Get("lineStart").Int()),
			LineEnd:      int(v.Get("lineEnd").Int()),
		}, nil
	case "list-item":
		li := &ListItem{
			Paragraph: Paragraph{
				FragmentBase: base,
				LineStart:    int(v.Get("lineStart").Int()),
				LineEnd:      int(v.Get("lineEnd").Int()),
			},
		}
		if mv := v.Get("marker"); mv.Exists() {
			li.Marker = &Marker{
				Text:  mv.Get("text").String(),
				Width: mv.Get("width").Float(),
			}
		}
		return li, nil
	case "image":
		return &Image{
			FragmentBase: base,
			Src:          v.Get("src").String(),
			Alt:          v.Get("alt").String(),
		}, nil
	case "drawing":
		return &Drawing{
			FragmentBase: base,
			Shape:        v.Get("shape").String(),
		}, nil
	case "table":
		return &Table{
			FragmentBase: base,
			RowStart:     int(v.Get("rowStart").Int()),
			RowEnd:       int(v.Get("rowEnd").Int()),
		}, nil
	default:
		return nil, fmt.Errorf("layout: unsupported fragment kind %q", kind)
	}
}

func decodeBlockEntry(id string, v gjson.Result) (BlockEntry, error) {
	bv := v.Get("block")
	block := &Block{
		ID:            id,
		Alignment:     decodeAlignment(bv.Get("alignment").String()),
		StyleName:     bv.Get("style").String(),
		EndsWithBreak: bv.Get("endsWithBreak").Bool(),
	}
	if cv := bv.Get("container"); cv.Exists() {
		block.Container = &ContainerInfo{
			Key:   cv.Get("key").String(),
			Label: cv.Get("label").String(),
		}
	}

	measure, err := decodeMeasure(v.Get("measure"))
	if err != nil {
		return BlockEntry{}, fmt.Errorf("layout: block %s: %w", id, err)
	}

	return BlockEntry{
		Block:   block,
		Measure: measure,
		Version: v.Get("version").String(),
	}, nil
}

func decodeAlignment(s string) Alignment {
	switch s {
	case "center":
		return AlignCenter
	case "right":
		return AlignRight
	case "justify", "both":
		return AlignJustify
	default:
		return AlignLeft
	}
}

func decodeMeasure(v gjson.Result) (*Measure, error) {
	m := &Measure{
		Natural: decodeSize(v.Get("natural")),
	}

	var err error
	v.Get("lines").ForEach(func(_, lv gjson.Result) bool {
		line, lerr := decodeLine(lv)
		if lerr != nil {
			err = lerr
			return false
		}
		m.Lines = append(m.Lines, line)
		return true
	})
	if err != nil {
		return nil, err
	}

	v.Get("rows").ForEach(func(_, rv gjson.Result) bool {
		row := TableRow{Height: rv.Get("height").Float()}
		rv.Get("cells").ForEach(func(_, cv gjson.Result) bool {
			cell := TableCell{
				X:     cv.Get("x").Float(),
				Width: cv.Get("width").Float(),
			}
			cv.Get("lines").ForEach(func(_, lv gjson.Result) bool {
				line, lerr := decodeLine(lv)
				if lerr != nil {
					err = lerr
					return false
				}
				cell.Lines = append(cell.Lines, line)
				return true
			})
			row.Cells = append(row.Cells, cell)
			return err == nil
		})
		m.Rows = append(m.Rows, row)
		return err == nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

func decodeLine(v gjson.Result) (Line, error) {
	line := Line{
		CharStart:     int(v.Get("charStart").Int()),
		CharEnd:       int(v.Get("charEnd").Int()),
		Width:         v.Get("width").Float(),
		AvailWidth:    v.Get("availWidth").Float(),
		SpaceCount:    int(v.Get("spaceCount").Int()),
		EndsWithBreak: v.Get("endsWithBreak").Bool(),
	}
	v.Get("explicitX").ForEach(func(_, xv gjson.Result) bool {
		line.ExplicitX = append(line.ExplicitX, xv.Float())
		return true
	})

	var err error
	v.Get("runs").ForEach(func(_, rv gjson.Result) bool {
		run, rerr := decodeRun(rv)
		if rerr != nil {
			err = rerr
			return false
		}
		line.Runs = append(line.Runs, run)
		return true
	})
	return line, err
}

func decodeRunStyle(v gjson.Result) RunStyle {
	return RunStyle{
		FontFamily:    v.Get("fontFamily").String(),
		FontSize:      v.Get("fontSize").Float(),
		Bold:          v.Get("bold").Bool(),
		Italic:        v.Get("italic").Bool(),
		Underline:     v.Get("underline").Bool(),
		Strike:        v.Get("strike").Bool(),
		Color:         v.Get("color").String(),
		Highlight:     v.Get("highlight").String(),
		LetterSpacing: v.Get("letterSpacing").Float(),
	}
}

func decodeRun(v gjson.Result) (Run, error) {
	pmStart := int(v.Get("pmStart").Int())
	pmEnd := int(v.Get("pmEnd").Int())

	switch kind := v.Get("kind").String(); kind {
	case "text":
		run := &TextRun{
			Text:    v.Get("text").String(),
			Style:   decodeRunStyle(v.Get("style")),
			Link:    v.Get("link").String(),
			PMStart: pmStart,
			PMEnd:   pmEnd,
		}
		switch v.Get("tracked").String() {
		case "insert":
			run.Tracked = TrackedInsert
		case "delete":
			run.Tracked = TrackedDelete
		}
		v.Get("comments").ForEach(func(_, cv gjson.Result) bool {
			run.CommentIDs = append(run.CommentIDs, cv.String())
			return true
		})
		return run, nil
	case "tab":
		return &TabRun{
			Width:   v.Get("width").Float(),
			PMStart: pmStart,
			PMEnd:   pmEnd,
		}, nil
	case "image":
		return &ImageRun{
			Src:     v.Get("src").String(),
			Width:   v.Get("width").Float(),
			Height:  v.Get("height").Float(),
			PMStart: pmStart,
			PMEnd:   pmEnd,
		}, nil
	case "lineBreak":
		return &LineBreakRun{PMStart: pmStart, PMEnd: pmEnd}, nil
	case "break":
		return &BreakRun{
			Page:    v.Get("page").Bool(),
			PMStart: pmStart,
			PMEnd:   pmEnd,
		}, nil
	case "fieldAnnotation":
		return &FieldRun{
			Field:   v.Get("field").String(),
			Text:    v.Get("text").String(),
			Style:   decodeRunStyle(v.Get("style")),
			PMStart: pmStart,
			PMEnd:   pmEnd,
		}, nil
	default:
		return nil, fmt.Errorf("layout: unsupported run kind %q", kind)
	}
}
