package page

import (
	"math"

	"droplayer/pkg/css"
	"droplayer/pkg/geom"
	"droplayer/pkg/html"
)

// The page uses a deliberately small layout model:
//
//   - every in-flow child starts on a new line below the previous one, at
//     the parent's left edge (block flow, text included);
//   - left/top on an in-flow element shift it from that slot (relative);
//   - position: absolute or fixed takes the element out of flow and places it
//     at left/top inside its parent;
//   - width/height from the inline style win; otherwise an in-flow block is
//     as wide as its parent, an absolute or detached one shrinks to its
//     widest child, and the height is the total of the in-flow children;
//   - text is one line, sized by the measurer;
//   - display: none takes no space and is not painted;
//   - a scrolling parent shifts its children up by its scroll offset.

// BoundingBox returns el's box in viewport coordinates.
func (p *Page) BoundingBox(el *html.Node) geom.Box {
	if p.isDocumentLevel(el) {
		return p.documentBox()
	}
	if el.Parent == nil {
		// detached: measured in place at the origin
		return geom.Box{Width: p.width(el), Height: p.height(el)}
	}
	parent := p.BoundingBox(el.Parent)
	x, y := p.offsetInParent(el)
	scroll := p.scroll[el.Parent]
	return geom.Box{
		Left:   parent.Left + x - scroll.x,
		Top:    parent.Top + y - scroll.y,
		Width:  p.width(el),
		Height: p.height(el),
	}
}

// documentBox is the body's box: the viewport width, at least the viewport
// height, moved up by the window scroll.
func (p *Page) documentBox() geom.Box {
	return geom.Box{
		Left:   -p.windowScroll.x,
		Top:    -p.windowScroll.y,
		Width:  p.viewport.Width,
		Height: math.Max(p.viewport.Height, p.flowHeight(p.body)),
	}
}

// ScrollAncestors returns el's scrolling ancestors, innermost first, ending
// with the document itself.
func (p *Page) ScrollAncestors(el *html.Node) []*html.Node {
	var out []*html.Node
	for _, a := range el.Ancestors() {
		if p.isDocumentLevel(a) {
			break
		}
		if a.Type == html.ElementNode && a.Style().Scrolls() {
			out = append(out, a)
		}
	}
	return append(out, p.doc.Root)
}

func (p *Page) offsetInParent(el *html.Node) (float64, float64) {
	var style *css.Style
	if el.Type == html.ElementNode {
		style = el.Style()
	}
	if style != nil && outOfFlow(style) {
		left, _ := style.GetLength("left")
		top, _ := style.GetLength("top")
		return left, top
	}

	y := 0.0
	for _, sib := range el.Parent.Children {
		if sib == el {
			break
		}
		if inFlow(sib) {
			y += p.height(sib)
		}
	}
	x := 0.0
	if style != nil {
		if left, ok := style.GetLength("left"); ok {
			x = left
		}
		if top, ok := style.GetLength("top"); ok {
			y += top
		}
	}
	return x, y
}

func (p *Page) width(el *html.Node) float64 {
	if el.Type == html.TextNode {
		w, _ := p.measurer.MeasureText(el.Text)
		return w
	}
	style := el.Style()
	if hidden(style) {
		return 0
	}
	if w, ok := style.GetLength("width"); ok {
		return w
	}
	if p.isDocumentLevel(el) {
		return p.viewport.Width
	}
	if el.Parent == nil || outOfFlow(style) {
		return p.preferredWidth(el)
	}
	return p.width(el.Parent)
}

// preferredWidth is the shrink-to-fit width: the widest in-flow child at its
// own preferred width.
func (p *Page) preferredWidth(el *html.Node) float64 {
	if el.Type == html.TextNode {
		w, _ := p.measurer.MeasureText(el.Text)
		return w
	}
	style := el.Style()
	if hidden(style) {
		return 0
	}
	if w, ok := style.GetLength("width"); ok {
		return w
	}
	widest := 0.0
	for _, c := range el.Children {
		if !inFlow(c) {
			continue
		}
		x := 0.0
		if c.Type == html.ElementNode {
			x, _ = c.Style().GetLength("left")
		}
		widest = math.Max(widest, x+p.preferredWidth(c))
	}
	return widest
}

func (p *Page) height(el *html.Node) float64 {
	if el.Type == html.TextNode {
		_, h := p.measurer.MeasureText(el.Text)
		return h
	}
	style := el.Style()
	if hidden(style) {
		return 0
	}
	if h, ok := style.GetLength("height"); ok {
		return h
	}
	return p.flowHeight(el)
}

func (p *Page) flowHeight(el *html.Node) float64 {
	total := 0.0
	for _, c := range el.Children {
		if inFlow(c) {
			total += p.height(c)
		}
	}
	return total
}

func inFlow(n *html.Node) bool {
	if n.Type == html.TextNode {
		return true
	}
	s := n.Style()
	return !outOfFlow(s) && !hidden(s)
}

func outOfFlow(s *css.Style) bool {
	pos := s.GetPosition()
	return pos == css.PositionAbsolute || pos == css.PositionFixed
}

func hidden(s *css.Style) bool {
	d, ok := s.Get("display")
	return ok && d == "none"
}
