package page

import (
	"math"

	"droplayer/pkg/geom"
	"droplayer/pkg/html"
)

// Item is one node ready to paint.
type Item struct {
	Node *html.Node
	Box  geom.Box
	// Clip is the visible region: the viewport intersected with every
	// scrolling ancestor's box.
	Clip geom.Box
}

// PaintList returns the body's visible descendants in paint order: in-flow
// content in tree order first, then out-of-flow subtrees (drops among them)
// on top.
func (p *Page) PaintList() []Item {
	vp := geom.Box{Width: p.viewport.Width, Height: p.viewport.Height}
	var flow, positioned []Item
	var visit func(n *html.Node, clip geom.Box, out *[]Item)
	visit = func(n *html.Node, clip geom.Box, out *[]Item) {
		for _, c := range n.Children {
			if c.Type == html.ElementNode && hidden(c.Style()) {
				continue
			}
			target := out
			if c.Type == html.ElementNode && outOfFlow(c.Style()) {
				target = &positioned
			}
			box := p.BoundingBox(c)
			*target = append(*target, Item{Node: c, Box: box, Clip: clip})
			if c.Type != html.ElementNode {
				continue
			}
			childClip := clip
			if c.Style().Scrolls() {
				childClip = intersect(clip, box)
			}
			visit(c, childClip, target)
		}
	}
	visit(p.body, vp, &flow)
	return append(flow, positioned...)
}

func intersect(a, b geom.Box) geom.Box {
	left := math.Max(a.Left, b.Left)
	top := math.Max(a.Top, b.Top)
	right := math.Min(a.Right(), b.Right())
	bottom := math.Min(a.Bottom(), b.Bottom())
	if right < left {
		right = left
	}
	if bottom < top {
		bottom = top
	}
	return geom.Box{Left: left, Top: top, Width: right - left, Height: bottom - top}
}
