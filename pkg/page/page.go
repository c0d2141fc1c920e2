// Package page hosts drops in an html.Document. It answers the geometry
// queries the placement engine makes, mounts drop content parsed from HTML
// fragments and runs the single-threaded event loop (scroll, resize and
// next-tick work) that keeps drops placed.
package page

import (
	"droplayer/pkg/drop"
	"droplayer/pkg/geom"
	"droplayer/pkg/html"
	"droplayer/pkg/signal"
)

var _ drop.Host[*html.Node, string] = (*Page)(nil)

type offset struct {
	x, y float64
}

// Page is a laid-out document shown in a viewport. It is not safe for
// concurrent use; every call belongs to the host's event loop.
type Page struct {
	doc      *html.Document
	body     *html.Node
	viewport geom.Size
	measurer TextMeasurer

	windowScroll offset
	scroll       map[*html.Node]offset

	scrollSignals map[*html.Node]*signal.Signal
	resize        signal.Signal
	queue         signal.Queue
}

// New wraps doc. The document gets a <body> if it had none.
func New(doc *html.Document, viewport geom.Size) *Page {
	return &Page{
		doc:           doc,
		body:          doc.Body(),
		viewport:      viewport,
		measurer:      NewGGMeasurer(),
		scroll:        make(map[*html.Node]offset),
		scrollSignals: make(map[*html.Node]*signal.Signal),
	}
}

// Parse parses markup and wraps the resulting document.
func Parse(markup string, viewport geom.Size) (*Page, error) {
	doc, err := html.Parse(markup)
	if err != nil {
		return nil, err
	}
	return New(doc, viewport), nil
}

// SetMeasurer replaces the text measurer.
func (p *Page) SetMeasurer(m TextMeasurer) {
	if m != nil {
		p.measurer = m
	}
}

func (p *Page) Document() *html.Document { return p.doc }

// Body is the overlay root drops are inserted into.
func (p *Page) Body() *html.Node { return p.body }

// Viewport returns the current viewport size.
func (p *Page) Viewport() geom.Size { return p.viewport }

// Element returns the element with the given id or nil.
func (p *Page) Element(id string) *html.Node {
	return p.doc.GetElementByID(id)
}

// Resize changes the viewport and fires the resize signal.
func (p *Page) Resize(size geom.Size) {
	p.viewport = size
	p.resize.Emit()
}

// ScrollWindow scrolls the document and fires the document's scroll signal.
func (p *Page) ScrollWindow(y float64) {
	p.windowScroll.y = clampScroll(y)
	p.signalFor(p.doc.Root).Emit()
}

// WindowScroll returns the document scroll offset.
func (p *Page) WindowScroll() float64 {
	return p.windowScroll.y
}

// ScrollTo sets the vertical scroll offset of el and fires its scroll
// signal. Scrolling the body or the document scrolls the window.
func (p *Page) ScrollTo(el *html.Node, y float64) {
	if p.isDocumentLevel(el) {
		p.ScrollWindow(y)
		return
	}
	off := p.scroll[el]
	off.y = clampScroll(y)
	p.scroll[el] = off
	p.signalFor(el).Emit()
}

// ScrollTop returns the vertical scroll offset of el.
func (p *Page) ScrollTop(el *html.Node) float64 {
	if p.isDocumentLevel(el) {
		return p.windowScroll.y
	}
	return p.scroll[el].y
}

func clampScroll(y float64) float64 {
	if y < 0 {
		return 0
	}
	return y
}

// Tick runs the work deferred to the next tick and returns how many tasks
// ran.
func (p *Page) Tick() int {
	return p.queue.RunPending()
}

// Pending returns the number of tasks waiting for the next tick.
func (p *Page) Pending() int {
	return p.queue.Pending()
}

// Listeners counts live scroll and resize subscriptions.
func (p *Page) Listeners() int {
	n := p.resize.Len()
	for _, s := range p.scrollSignals {
		n += s.Len()
	}
	return n
}

func (p *Page) OnScroll(el *html.Node, fn func()) func() {
	if p.isDocumentLevel(el) {
		el = p.doc.Root
	}
	return p.signalFor(el).Subscribe(fn)
}

func (p *Page) OnResize(fn func()) func() {
	return p.resize.Subscribe(fn)
}

func (p *Page) NextTick(fn func()) func() {
	return p.queue.Schedule(fn)
}

func (p *Page) signalFor(el *html.Node) *signal.Signal {
	s, ok := p.scrollSignals[el]
	if !ok {
		s = &signal.Signal{}
		p.scrollSignals[el] = s
	}
	return s
}

// isDocumentLevel reports whether el scrolls with the window.
func (p *Page) isDocumentLevel(el *html.Node) bool {
	if el == p.doc.Root || el == p.body {
		return true
	}
	return el.Type == html.ElementNode && el.TagName == "html" && el.Parent == p.doc.Root
}
