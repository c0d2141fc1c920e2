package page

import (
	"testing"

	"droplayer/pkg/drop"
	"droplayer/pkg/geom"
	"droplayer/pkg/html"
)

// fixedMeasurer gives every rune 8x16.
type fixedMeasurer struct{}

func (fixedMeasurer) MeasureText(s string) (float64, float64) {
	return float64(len([]rune(s))) * 8, 16
}

const testPage = `<html><body>
<div id="header" style="height: 40px"></div>
<div id="scroller" style="overflow: auto; height: 200px; width: 300px">
  <div style="height: 460px"></div>
  <button id="anchor" style="width: 100px; height: 20px; left: 10px">Open</button>
  <div style="height: 400px"></div>
</div>
</body></html>`

const menu = `<div style="width: 150px; height: 300px">menu</div>`

func newTestPage(t *testing.T) *Page {
	t.Helper()
	p, err := Parse(testPage, geom.Size{Width: 800, Height: 600})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p.SetMeasurer(fixedMeasurer{})
	return p
}

func TestBoundingBox(t *testing.T) {
	p := newTestPage(t)
	tests := []struct {
		id   string
		want geom.Box
	}{
		{"header", geom.Box{Left: 0, Top: 0, Width: 800, Height: 40}},
		{"scroller", geom.Box{Left: 0, Top: 40, Width: 300, Height: 200}},
		{"anchor", geom.Box{Left: 10, Top: 500, Width: 100, Height: 20}},
	}
	for _, tt := range tests {
		if got := p.BoundingBox(p.Element(tt.id)); got != tt.want {
			t.Errorf("%s box = %+v, want %+v", tt.id, got, tt.want)
		}
	}
	body := p.BoundingBox(p.Body())
	if body.Top != 0 || body.Width != 800 || body.Height != 600 {
		t.Errorf("body box = %+v", body)
	}
}

func TestIntrinsicSize(t *testing.T) {
	p := newTestPage(t)
	el := html.NewElement("div")
	if err := p.Render(`<span>abcd</span><p>ab</p>`, el); err != nil {
		t.Fatal(err)
	}
	got := p.BoundingBox(el)
	if got.Width != 32 || got.Height != 32 {
		t.Errorf("intrinsic box = %+v, want 32x32", got)
	}
}

func TestScrollMovesDescendants(t *testing.T) {
	p := newTestPage(t)
	anchor := p.Element("anchor")
	p.ScrollTo(p.Element("scroller"), 300)
	if got := p.BoundingBox(anchor).Top; got != 200 {
		t.Errorf("anchor top after element scroll = %v, want 200", got)
	}
	p.ScrollWindow(50)
	if got := p.BoundingBox(anchor).Top; got != 150 {
		t.Errorf("anchor top after window scroll = %v, want 150", got)
	}
	if got := p.BoundingBox(p.Body()).Top; got != -50 {
		t.Errorf("body top = %v, want -50", got)
	}
	p.ScrollTo(p.Element("scroller"), -10)
	if p.ScrollTop(p.Element("scroller")) != 0 {
		t.Error("negative scroll not clamped")
	}
}

func TestScrollAncestors(t *testing.T) {
	p := newTestPage(t)
	got := p.ScrollAncestors(p.Element("anchor"))
	if len(got) != 2 || got[0] != p.Element("scroller") || got[1] != p.Document().Root {
		t.Errorf("ScrollAncestors = %v", got)
	}
	if got := p.ScrollAncestors(p.Element("header")); len(got) != 1 {
		t.Errorf("header ancestors = %d, want only the document", len(got))
	}
}

func TestHiddenAndAbsoluteOutOfFlow(t *testing.T) {
	p, err := Parse(`<div id="a" style="height: 10px"></div>
<div style="display: none; height: 99px"></div>
<div style="position: absolute; top: 5px; height: 99px"></div>
<div id="b" style="height: 10px"></div>`, geom.Size{Width: 100, Height: 100})
	if err != nil {
		t.Fatal(err)
	}
	if got := p.BoundingBox(p.Element("b")).Top; got != 10 {
		t.Errorf("b top = %v, want 10", got)
	}
}

func TestDropLifecycleOnPage(t *testing.T) {
	p := newTestPage(t)
	m := drop.NewManager[*html.Node, string](p, p.Body())
	d, err := m.Add(p.Element("anchor"), menu, drop.Options{ClassName: "menu"})
	if err != nil {
		t.Fatal(err)
	}

	c := d.Container()
	if p.Body().FirstChild() != c {
		t.Error("container is not the body's first child")
	}
	if c.ClassName() != "drop menu" {
		t.Errorf("class = %q", c.ClassName())
	}
	if got, _ := c.GetAttribute("style"); got != "position: absolute; left: 10px; top: 300px; width: 150px" {
		t.Errorf("style = %q", got)
	}
	if got := p.BoundingBox(c); got != (geom.Box{Left: 10, Top: 300, Width: 150, Height: 300}) {
		t.Errorf("container box = %+v", got)
	}
	// scroller + document + resize
	if p.Listeners() != 3 {
		t.Errorf("listeners = %d, want 3", p.Listeners())
	}

	d.Remove()
	if p.Listeners() != 0 {
		t.Errorf("listeners after remove = %d", p.Listeners())
	}
	if c.Parent != nil || len(c.Children) != 0 {
		t.Error("container not unrendered and detached")
	}
	p.ScrollTo(p.Element("scroller"), 100)
	p.Resize(geom.Size{Width: 400, Height: 400})
	if got, _ := c.GetAttribute("style"); got != "position: absolute; left: 10px; top: 300px; width: 150px" {
		t.Errorf("removed container restyled: %q", got)
	}
}

func TestDropFollowsScroll(t *testing.T) {
	p := newTestPage(t)
	m := drop.NewManager[*html.Node, string](p, p.Body())
	d, err := m.Add(p.Element("anchor"), menu, drop.Options{Align: drop.Align{Top: drop.AlignBottom}})
	if err != nil {
		t.Fatal(err)
	}
	if pl, _ := d.Placement(); pl.ViewportTop != 200 {
		t.Errorf("initial top = %v, want 200 (flipped above)", pl.ViewportTop)
	}

	p.ScrollTo(p.Element("scroller"), 300)
	if pl, _ := d.Placement(); pl.ViewportTop != 220 {
		t.Errorf("top after scroll = %v, want 220", pl.ViewportTop)
	}

	p.ScrollWindow(50)
	pl, _ := d.Placement()
	if pl.ViewportTop != 170 || pl.Top != 220 {
		t.Errorf("after window scroll = %+v, want viewport top 170, document top 220", pl)
	}
	if got := p.BoundingBox(d.Container()).Top; got != 170 {
		t.Errorf("container box top = %v, want 170", got)
	}
}

func TestDropRenderWaitsForTick(t *testing.T) {
	p := newTestPage(t)
	m := drop.NewManager[*html.Node, string](p, p.Body())
	d, err := m.Add(p.Element("anchor"), menu, drop.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Render(`<div style="width: 400px; height: 50px"></div>`); err != nil {
		t.Fatal(err)
	}
	if pl, _ := d.Placement(); pl.Width != 150 {
		t.Errorf("width before tick = %v", pl.Width)
	}
	if p.Tick() != 1 {
		t.Fatal("expected one deferred placement")
	}
	pl, _ := d.Placement()
	if pl.Width != 400 || pl.ViewportTop != 500 {
		t.Errorf("after tick = %+v, want width 400 top 500", pl)
	}

	_ = d.Render(menu)
	d.Remove()
	if p.Tick() != 0 {
		t.Error("deferred placement ran after Remove")
	}
}

func TestDropRenderBadMarkup(t *testing.T) {
	p := newTestPage(t)
	m := drop.NewManager[*html.Node, string](p, p.Body())
	if _, err := m.Add(p.Element("anchor"), `<div class="x`, drop.Options{}); err == nil {
		t.Fatal("expected error for bad markup")
	}
	if p.Listeners() != 0 || p.Body().FirstChild().ID() != "header" {
		t.Error("failed Add left state behind")
	}
}

func TestPaintListOrder(t *testing.T) {
	p := newTestPage(t)
	m := drop.NewManager[*html.Node, string](p, p.Body())
	d, err := m.Add(p.Element("anchor"), menu, drop.Options{})
	if err != nil {
		t.Fatal(err)
	}
	items := p.PaintList()
	if len(items) == 0 {
		t.Fatal("empty paint list")
	}
	// the drop is inserted first in the tree but painted after the page
	containerAt := -1
	anchorAt := -1
	for i, it := range items {
		switch it.Node {
		case d.Container():
			containerAt = i
		case p.Element("anchor"):
			anchorAt = i
			want := geom.Box{Left: 0, Top: 40, Width: 300, Height: 200}
			if it.Clip != want {
				t.Errorf("anchor clip = %+v, want %+v", it.Clip, want)
			}
		}
	}
	if containerAt < anchorAt {
		t.Errorf("container painted at %d, before anchor at %d", containerAt, anchorAt)
	}
}

func TestMeasurers(t *testing.T) {
	w, h := NewGGMeasurer().MeasureText("abc")
	if w != 21 || h <= 0 {
		t.Errorf("gg measure = %v x %v, want 21 wide", w, h)
	}
	w, h = CellMeasurer{}.MeasureText("日本a")
	if w != 5 || h != 1 {
		t.Errorf("cell measure = %v x %v, want 5x1", w, h)
	}
}
