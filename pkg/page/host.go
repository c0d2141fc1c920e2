package page

import (
	"fmt"

	"droplayer/pkg/css"
	"droplayer/pkg/drop"
	"droplayer/pkg/html"
)

// CreateContainer returns a detached, absolutely positioned <div>.
func (p *Page) CreateContainer() *html.Node {
	n := html.NewElement("div")
	s := css.NewStyle()
	s.Set("position", string(css.PositionAbsolute))
	n.SetStyle(s)
	return n
}

func (p *Page) SetID(el *html.Node, id string) {
	el.SetAttribute("id", id)
}

func (p *Page) SetClassName(el *html.Node, className string) {
	el.SetClassName(className)
}

func (p *Page) InsertFirst(root, child *html.Node) {
	root.InsertBefore(child, root.FirstChild())
}

func (p *Page) Detach(el *html.Node) {
	if el.Parent != nil {
		el.Parent.RemoveChild(el)
	}
	delete(p.scroll, el)
}

var placementProps = []string{"left", "top", "width"}

func (p *Page) ClearPlacement(el *html.Node) {
	s := el.Style()
	for _, prop := range placementProps {
		s.Delete(prop)
	}
	el.SetStyle(s)
}

func (p *Page) ApplyPlacement(el *html.Node, pl drop.Placement) {
	s := el.Style()
	s.Set("position", string(css.PositionAbsolute))
	s.SetLength("left", pl.Left)
	s.SetLength("top", pl.Top)
	s.SetLength("width", pl.Width)
	el.SetStyle(s)
}

// Render mounts an HTML fragment as the container's children, replacing what
// was there.
func (p *Page) Render(content string, container *html.Node) error {
	nodes, err := html.ParseFragment(content)
	if err != nil {
		return fmt.Errorf("parsing drop content: %w", err)
	}
	container.RemoveChildren()
	for _, n := range nodes {
		container.AddChild(n)
	}
	return nil
}

func (p *Page) Unrender(container *html.Node) {
	container.RemoveChildren()
}
