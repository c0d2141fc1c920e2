// Package term paints a page into terminal cells with tcell. The page is
// expected to be laid out in cell units (page.CellMeasurer, a viewport the
// size of the screen).
package term

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"droplayer/pkg/css"
	"droplayer/pkg/drop"
	"droplayer/pkg/geom"
	"droplayer/pkg/html"
	"droplayer/pkg/page"
)

// Painter draws pages. The zero value marks no drop containers; use Draw or
// set DropClass.
type Painter struct {
	// DropClass marks drop containers, which get a box-drawing frame.
	DropClass string
}

// Draw paints p onto screen with the default drop class and shows it.
func Draw(screen tcell.Screen, p *page.Page) {
	Painter{DropClass: drop.DefaultBaseClass}.Draw(screen, p)
}

func (pt Painter) Draw(screen tcell.Screen, p *page.Page) {
	screen.Clear()
	w, h := screen.Size()
	bounds := cellRect{x0: 0, y0: 0, x1: w, y1: h}

	type framed struct{ box, clip cellRect }
	var frames []framed
	for _, it := range p.PaintList() {
		clip := bounds.intersect(toCells(it.Clip))
		if clip.empty() {
			continue
		}
		if it.Node.Type == html.TextNode {
			drawText(screen, it, clip)
			continue
		}
		style := it.Node.Style()
		box := toCells(it.Box)
		if bg, ok := style.Get("background-color"); ok {
			if c, ok := css.ParseColor(bg); ok && c.A > 0 {
				fill(screen, box.intersect(clip), tcell.StyleDefault.Background(toTcell(c)))
			}
		}
		if pt.DropClass != "" && it.Node.HasClass(pt.DropClass) {
			frames = append(frames, framed{box, clip})
		}
	}
	// frames go over the drop content
	for _, f := range frames {
		frame(screen, f.box, f.clip)
	}
	screen.Show()
}

type cellRect struct {
	x0, y0, x1, y1 int
}

func toCells(b geom.Box) cellRect {
	return cellRect{
		x0: int(math.Floor(b.Left)),
		y0: int(math.Floor(b.Top)),
		x1: int(math.Ceil(b.Right())),
		y1: int(math.Ceil(b.Bottom())),
	}
}

func (r cellRect) intersect(o cellRect) cellRect {
	return cellRect{
		x0: max(r.x0, o.x0),
		y0: max(r.y0, o.y0),
		x1: min(r.x1, o.x1),
		y1: min(r.y1, o.y1),
	}
}

func (r cellRect) empty() bool {
	return r.x1 <= r.x0 || r.y1 <= r.y0
}

func (r cellRect) contains(x, y int) bool {
	return x >= r.x0 && x < r.x1 && y >= r.y0 && y < r.y1
}

func fill(screen tcell.Screen, r cellRect, style tcell.Style) {
	for y := r.y0; y < r.y1; y++ {
		for x := r.x0; x < r.x1; x++ {
			screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// frame draws a single-line border on the box edges, keeping each cell's
// background.
func frame(screen tcell.Screen, box, clip cellRect) {
	if box.x1-box.x0 < 2 || box.y1-box.y0 < 2 {
		return
	}
	set := func(x, y int, r rune) {
		if clip.contains(x, y) {
			_, _, style, _ := screen.GetContent(x, y)
			screen.SetContent(x, y, r, nil, style)
		}
	}
	right, bottom := box.x1-1, box.y1-1
	for x := box.x0 + 1; x < right; x++ {
		set(x, box.y0, tcell.RuneHLine)
		set(x, bottom, tcell.RuneHLine)
	}
	for y := box.y0 + 1; y < bottom; y++ {
		set(box.x0, y, tcell.RuneVLine)
		set(right, y, tcell.RuneVLine)
	}
	set(box.x0, box.y0, tcell.RuneULCorner)
	set(right, box.y0, tcell.RuneURCorner)
	set(box.x0, bottom, tcell.RuneLLCorner)
	set(right, bottom, tcell.RuneLRCorner)
}

func drawText(screen tcell.Screen, it page.Item, clip cellRect) {
	fg := tcell.ColorDefault
	if parent := it.Node.Parent; parent != nil {
		if v, ok := parent.Style().Get("color"); ok {
			if c, ok := css.ParseColor(v); ok {
				fg = toTcell(c)
			}
		}
	}
	box := toCells(it.Box)
	x := box.x0
	for _, r := range it.Node.Text {
		if clip.contains(x, box.y0) {
			_, _, style, _ := screen.GetContent(x, box.y0)
			screen.SetContent(x, box.y0, r, nil, style.Foreground(fg))
		}
		x += runewidth.RuneWidth(r)
	}
}

func toTcell(c css.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
