package page

import (
	"github.com/fogleman/gg"
	"github.com/mattn/go-runewidth"
)

// TextMeasurer sizes a run of text on a single line.
type TextMeasurer interface {
	MeasureText(s string) (width, height float64)
}

// GGMeasurer measures text in pixels with gg's current font face. The
// default face is gg's built-in 7x13 bitmap font, so no font files are
// needed.
type GGMeasurer struct {
	dc *gg.Context
}

func NewGGMeasurer() *GGMeasurer {
	return &GGMeasurer{dc: gg.NewContext(1, 1)}
}

// LoadFontFace switches to a TrueType face.
func (m *GGMeasurer) LoadFontFace(path string, points float64) error {
	return m.dc.LoadFontFace(path, points)
}

func (m *GGMeasurer) MeasureText(s string) (float64, float64) {
	w, _ := m.dc.MeasureString(s)
	return w, m.dc.FontHeight()
}

// CellMeasurer measures text in terminal cells: one row high, as wide as the
// string's display width.
type CellMeasurer struct{}

func (CellMeasurer) MeasureText(s string) (float64, float64) {
	return float64(runewidth.StringWidth(s)), 1
}
