// Package render paints a page, drops included, into an image with gg.
package render

import (
	"image"
	"io"

	"github.com/fogleman/gg"

	"droplayer/pkg/css"
	"droplayer/pkg/drop"
	"droplayer/pkg/html"
	"droplayer/pkg/page"
)

var (
	defaultText   = css.Color{A: 1}
	defaultBorder = css.Color{R: 96, G: 96, B: 96, A: 1}
	scrollbar     = css.Color{R: 200, G: 200, B: 200, A: 1}
)

const scrollbarWidth = 6.0

type Renderer struct {
	context   *gg.Context
	dropClass string
}

func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		context:   gg.NewContext(width, height),
		dropClass: drop.DefaultBaseClass,
	}
}

// NewRendererForImage draws straight into target.
func NewRendererForImage(target *image.RGBA) *Renderer {
	return &Renderer{
		context:   gg.NewContextForRGBA(target),
		dropClass: drop.DefaultBaseClass,
	}
}

// SetDropClass sets the class that marks drop containers. They get a border.
func (r *Renderer) SetDropClass(class string) {
	r.dropClass = class
}

// Render clears the canvas and paints p's visible content in paint order.
func (r *Renderer) Render(p *page.Page) {
	r.context.ResetClip()
	r.context.SetRGB(1, 1, 1)
	r.context.Clear()

	for _, it := range p.PaintList() {
		if it.Clip.Width <= 0 || it.Clip.Height <= 0 {
			continue
		}
		// gg keeps the clip mask across Push/Pop, so reset it per item
		r.context.ResetClip()
		r.context.DrawRectangle(it.Clip.Left, it.Clip.Top, it.Clip.Width, it.Clip.Height)
		r.context.Clip()
		r.drawItem(it)
	}
	r.context.ResetClip()
}

func (r *Renderer) drawItem(it page.Item) {
	n := it.Node
	if n.Type == html.TextNode {
		r.drawText(it)
		return
	}
	style := n.Style()
	b := it.Box

	if bg, ok := style.Get("background-color"); ok {
		if c, ok := css.ParseColor(bg); ok && c.A > 0 && b.Width > 0 && b.Height > 0 {
			r.setColor(c)
			r.context.DrawRectangle(b.Left, b.Top, b.Width, b.Height)
			r.context.Fill()
		}
	}

	if r.dropClass != "" && n.HasClass(r.dropClass) {
		c := defaultBorder
		if v, ok := style.Get("border-color"); ok {
			if parsed, ok := css.ParseColor(v); ok {
				c = parsed
			}
		}
		r.setColor(c)
		r.context.SetLineWidth(1)
		r.context.DrawRectangle(b.Left+0.5, b.Top+0.5, b.Width-1, b.Height-1)
		r.context.Stroke()
	}

	if style.Scrolls() {
		r.drawScrollbar(it)
	}
}

func (r *Renderer) drawText(it page.Item) {
	c := defaultText
	if parent := it.Node.Parent; parent != nil {
		if v, ok := parent.Style().Get("color"); ok {
			if parsed, ok := css.ParseColor(v); ok {
				c = parsed
			}
		}
	}
	r.setColor(c)
	// anchored at the top-left corner of the text box
	r.context.DrawStringAnchored(it.Node.Text, it.Box.Left, it.Box.Top, 0, 1)
}

// drawScrollbar draws a vertical track on the right edge of a scrolling box.
func (r *Renderer) drawScrollbar(it page.Item) {
	b := it.Box
	if b.Width <= scrollbarWidth {
		return
	}
	r.setColor(scrollbar)
	r.context.DrawRectangle(b.Right()-scrollbarWidth, b.Top, scrollbarWidth, b.Height)
	r.context.Fill()
}

func (r *Renderer) setColor(c css.Color) {
	r.context.SetRGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, c.A)
}

// Image returns the canvas.
func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

// SavePNG writes the rendered output to a PNG file.
func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}

// EncodePNG writes the rendered output as PNG to w.
func (r *Renderer) EncodePNG(w io.Writer) error {
	return r.context.EncodePNG(w)
}
