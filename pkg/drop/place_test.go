package drop

import (
	"math"
	"testing"

	"droplayer/pkg/geom"
)

var viewport800x600 = geom.Size{Width: 800, Height: 600}

func box(left, top, width, height float64) geom.Box {
	return geom.Box{Left: left, Top: top, Width: width, Height: height}
}

func TestComputeWorkedScenario(t *testing.T) {
	got := Compute(Input{
		Anchor:   box(10, 500, 100, 20),
		Overlay:  box(0, 0, 150, 300),
		Viewport: viewport800x600,
		Align:    Align{Top: AlignTop, Left: AlignLeft},
	})
	want := Placement{Left: 10, Top: 300, Width: 150, ViewportTop: 300}
	if got != want {
		t.Errorf("Compute = %+v, want %+v", got, want)
	}
}

func TestComputeVertical(t *testing.T) {
	anchor := box(10, 200, 100, 20)
	tests := []struct {
		name    string
		align   Align
		anchor  geom.Box
		height  float64
		wantTop float64
	}{
		{"top to top", Align{Top: AlignTop}, anchor, 50, 200},
		{"top to bottom hangs below", Align{Top: AlignBottom}, anchor, 50, 220},
		{"bottom to top stands above", Align{Bottom: AlignTop}, anchor, 50, 150},
		{"bottom to bottom", Align{Bottom: AlignBottom}, anchor, 50, 170},
		{"near wins over far", Align{Top: AlignBottom, Bottom: AlignTop}, anchor, 50, 220},
		{"negative clamps to zero", Align{Bottom: AlignTop}, box(10, 10, 100, 20), 50, 0},
		{"flip above on overflow", Align{Top: AlignBottom}, box(10, 500, 100, 20), 300, 200},
		{"flip ignores remaining overflow", Align{Top: AlignBottom}, box(10, 100, 100, 20), 700, -600},
		{"slide up by overflow", Align{Top: AlignTop}, box(10, 100, 100, 20), 560, 40},
		{"slide stops at anchor bottom", Align{Top: AlignTop}, box(10, 590, 100, 20), 100, 510},
		{"bottom to bottom overflow held by anchor bottom", Align{Bottom: AlignBottom}, box(10, 650, 100, 20), 50, 620},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.align.Left = AlignLeft
			got := Compute(Input{
				Anchor:   tt.anchor,
				Overlay:  box(0, 0, 100, tt.height),
				Viewport: viewport800x600,
				Align:    tt.align,
			})
			if got.ViewportTop != tt.wantTop {
				t.Errorf("top = %v, want %v", got.ViewportTop, tt.wantTop)
			}
		})
	}
}

func TestComputeHorizontal(t *testing.T) {
	anchor := box(300, 100, 100, 20)
	tests := []struct {
		name      string
		align     Align
		anchor    geom.Box
		width     float64
		wantLeft  float64
		wantWidth float64
	}{
		{"left to left", Align{Left: AlignLeft}, anchor, 150, 300, 150},
		{"left to right", Align{Left: AlignRight}, anchor, 150, 150, 150},
		{"right to left", Align{Right: AlignLeft}, anchor, 150, 150, 150},
		{"right to right", Align{Right: AlignRight}, anchor, 150, 250, 150},
		{"near wins over far", Align{Left: AlignLeft, Right: AlignRight}, anchor, 150, 300, 150},
		{"never narrower than anchor", Align{Left: AlignLeft}, anchor, 40, 300, 100},
		{"overflow shifts left", Align{Left: AlignLeft}, box(700, 100, 100, 20), 150, 650, 150},
		{"negative clamps to zero", Align{Left: AlignRight}, box(50, 100, 100, 20), 150, 0, 150},
		{"wider than viewport", Align{Left: AlignLeft}, box(10, 100, 100, 20), 1000, 0, 800},
		{"wider than viewport right aligned", Align{Left: AlignRight}, box(10, 100, 100, 20), 1000, 0, 800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.align.Top = AlignTop
			got := Compute(Input{
				Anchor:   tt.anchor,
				Overlay:  box(0, 0, tt.width, 50),
				Viewport: viewport800x600,
				Align:    tt.align,
			})
			if got.Left != tt.wantLeft || got.Width != tt.wantWidth {
				t.Errorf("left/width = %v/%v, want %v/%v", got.Left, got.Width, tt.wantLeft, tt.wantWidth)
			}
		})
	}
}

func TestComputeWidthBounds(t *testing.T) {
	for _, vw := range []float64{50, 320, 800} {
		for _, aw := range []float64{0, 20, 100, 900} {
			for _, ow := range []float64{0, 60, 400, 1200} {
				p := Compute(Input{
					Anchor:   box(10, 10, aw, 20),
					Overlay:  box(0, 0, ow, 40),
					Viewport: geom.Size{Width: vw, Height: 600},
				})
				if p.Width > vw {
					t.Errorf("vw=%v aw=%v ow=%v: width %v exceeds viewport", vw, aw, ow, p.Width)
				}
				if p.Width < math.Min(aw, vw) {
					t.Errorf("vw=%v aw=%v ow=%v: width %v narrower than anchor", vw, aw, ow, p.Width)
				}
				if p.Left < 0 {
					t.Errorf("vw=%v aw=%v ow=%v: negative left %v", vw, aw, ow, p.Left)
				}
			}
		}
	}
}

func TestComputeBodyOffset(t *testing.T) {
	in := Input{
		Anchor:   box(10, 100, 100, 20),
		Overlay:  box(0, 0, 100, 50),
		Body:     box(0, -150, 800, 2000),
		Viewport: viewport800x600,
		Align:    Align{Top: AlignBottom, Left: AlignLeft},
	}
	got := Compute(in)
	if got.ViewportTop != 120 {
		t.Errorf("ViewportTop = %v, want 120", got.ViewportTop)
	}
	if got.Top != 270 {
		t.Errorf("Top = %v, want 270", got.Top)
	}
}

func TestComputeUnresolvedAlignUsesDefaults(t *testing.T) {
	in := Input{
		Anchor:   box(40, 100, 100, 20),
		Overlay:  box(0, 0, 100, 50),
		Viewport: viewport800x600,
	}
	got := Compute(in)
	if got.Left != 40 || got.ViewportTop != 100 {
		t.Errorf("got %+v, want left 40 top 100", got)
	}
}

func TestComputeIdempotent(t *testing.T) {
	in := Input{
		Anchor:   box(700, 580, 100, 20),
		Overlay:  box(0, 0, 200, 100),
		Viewport: viewport800x600,
		Align:    Align{Bottom: AlignBottom, Right: AlignRight},
	}
	if a, b := Compute(in), Compute(in); a != b {
		t.Errorf("Compute not deterministic: %+v vs %+v", a, b)
	}
}
