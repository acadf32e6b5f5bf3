// Package termview rasterizes a painted tree onto a terminal screen for
// quick visual inspection of a layout without a host UI.
//
// The viewer is a debugging surface, not a print preview: one text line
// per cell row, page chrome as box-drawing characters, geometry scaled
// from layout units to cells.
package termview

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/folio/internal/painter/core"
	"github.com/dshills/folio/internal/painter/target"
)

// DefaultScale is the number of layout units per cell row.
const DefaultScale = 16.0

// Viewer draws painted pages onto a tcell screen.
type Viewer struct {
	mu       sync.Mutex
	screen   tcell.Screen
	scale    float64
	scroll   float64
	onScroll func(pos float64)
}

// New creates a viewer on a real terminal screen.
func New() (*Viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen), nil
}

// NewWithScreen creates a viewer on the given screen. Tests pass a
// tcell simulation screen.
func NewWithScreen(screen tcell.Screen) *Viewer {
	return &Viewer{screen: screen, scale: DefaultScale}
}

// Init initializes the underlying screen.
func (v *Viewer) Init() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.screen.Init()
}

// Close shuts the screen down.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.screen.Fini()
}

// OnScroll registers a callback invoked with the new content-space scroll
// position after every scroll key, so the owner can update its
// virtualization window before the next Render.
func (v *Viewer) OnScroll(fn func(pos float64)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onScroll = fn
}

// Scroll returns the current content-space scroll position.
func (v *Viewer) Scroll() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scroll
}

// Render draws the tree and flushes the screen.
func (v *Viewer) Render(root target.Node) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.screen.Clear()
	width, height := v.screen.Size()

	// Content-space row of the top of the viewport.
	topRow := int(v.scroll / v.scale)

	row := 0
	for _, child := range root.Children() {
		switch child.KindName() {
		case core.KindSpacer.String():
			row += v.rows(target.FloatAttr(child, core.AttrHeight))
		case core.KindPage.String():
			row = v.drawPage(child, row, topRow, width, height)
		}
	}

	v.screen.Show()
}

// Run renders and then processes events until the user quits. Each
// scroll key adjusts the position, notifies the owner and re-renders.
func (v *Viewer) Run(root func() target.Node) error {
	v.Render(root())
	for {
		ev := v.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			v.screen.Sync()
			v.Render(root())
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
				return nil
			case ev.Key() == tcell.KeyDown || ev.Rune() == 'j':
				v.scrollBy(v.scale)
				v.Render(root())
			case ev.Key() == tcell.KeyUp || ev.Rune() == 'k':
				v.scrollBy(-v.scale)
				v.Render(root())
			case ev.Key() == tcell.KeyPgDn || ev.Rune() == ' ':
				_, h := v.screen.Size()
				v.scrollBy(float64(h) * v.scale)
				v.Render(root())
			case ev.Key() == tcell.KeyPgUp:
				_, h := v.screen.Size()
				v.scrollBy(float64(-h) * v.scale)
				v.Render(root())
			}
		}
	}
}

func (v *Viewer) scrollBy(delta float64) {
	v.mu.Lock()
	v.scroll += delta
	if v.scroll < 0 {
		v.scroll = 0
	}
	pos := v.scroll
	fn := v.onScroll
	v.mu.Unlock()
	if fn != nil {
		fn(pos)
	}
}

func (v *Viewer) rows(layoutUnits float64) int {
	n := int(layoutUnits / v.scale)
	if n < 1 && layoutUnits > 0 {
		n = 1
	}
	return n
}

// drawPage draws one page box and its content lines, returning the next
// content-space row after the page.
func (v *Viewer) drawPage(page target.Node, row, topRow, width, height int) int {
	pageRows := v.rows(target.FloatAttr(page, core.AttrHeight))
	pageCols := v.rows(target.FloatAttr(page, core.AttrWidth))
	if pageCols > width-2 {
		pageCols = width - 2
	}

	border := tcell.StyleDefault.Foreground(tcell.ColorGray)
	v.drawBox(row-topRow, pageRows, pageCols, border, height)

	// Content lines in paint order, one cell row each, inset by the box.
	line := row + 1
	v.drawLines(page, &line, topRow, pageCols, height)

	return row + pageRows
}

func (v *Viewer) drawBox(top, rows, cols int, style tcell.Style, screenH int) {
	bottom := top + rows - 1
	for y := top; y <= bottom; y++ {
		if y < 0 || y >= screenH {
			continue
		}
		for x := 0; x <= cols+1; x++ {
			var r rune
			switch {
			case y == top && x == 0:
				r = tcell.RuneULCorner
			case y == top && x == cols+1:
				r = tcell.RuneURCorner
			case y == bottom && x == 0:
				r = tcell.RuneLLCorner
			case y == bottom && x == cols+1:
				r = tcell.RuneLRCorner
			case y == top || y == bottom:
				r = tcell.RuneHLine
			case x == 0 || x == cols+1:
				r = tcell.RuneVLine
			default:
				continue
			}
			v.screen.SetContent(x, y, r, nil, style)
		}
	}
}

func (v *Viewer) drawLines(n target.Node, line *int, topRow, cols, screenH int) {
	for _, child := range n.Children() {
		switch child.KindName() {
		case core.KindLine.String():
			v.drawLine(child, *line-topRow, cols, screenH)
			*line++
		case core.KindError.String():
			v.drawText(child.Text(), 1, *line-topRow, cols, screenH,
				styleFor(child).Reverse(true))
			*line++
		default:
			v.drawLines(child, line, topRow, cols, screenH)
		}
	}
}

func (v *Viewer) drawLine(line target.Node, y, cols, screenH int) {
	if y < 0 || y >= screenH {
		return
	}
	x := 1
	for _, child := range line.Children() {
		switch child.KindName() {
		case core.KindMarker.String():
			x = v.drawText(child.Text()+" ", x, y, cols, screenH, tcell.StyleDefault.Bold(true))
		case core.KindRun.String():
			if _, tab := child.Attr(core.AttrTab); tab {
				x += v.rows(target.FloatAttr(child, core.AttrWidth))
				continue
			}
			x = v.drawText(child.Text(), x, y, cols, screenH, styleFor(child))
		}
	}
}

func (v *Viewer) drawText(text string, x, y, cols, screenH int, style tcell.Style) int {
	if y < 0 || y >= screenH {
		return x
	}
	for _, r := range text {
		if x > cols {
			break
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

// styleFor converts run node attributes to a tcell style.
func styleFor(n target.Node) tcell.Style {
	style := tcell.StyleDefault
	if _, ok := n.Attr(core.AttrBold); ok {
		style = style.Bold(true)
	}
	if _, ok := n.Attr(core.AttrItalic); ok {
		style = style.Italic(true)
	}
	if _, ok := n.Attr(core.AttrUnderline); ok {
		style = style.Underline(true)
	}
	if _, ok := n.Attr(core.AttrStrike); ok {
		style = style.StrikeThrough(true)
	}
	if hex, ok := n.Attr(core.AttrColor); ok {
		style = style.Foreground(tcell.GetColor(hex))
	}
	if hex, ok := n.Attr(core.AttrHighlight); ok {
		style = style.Background(tcell.GetColor(hex))
	}
	return style
}
