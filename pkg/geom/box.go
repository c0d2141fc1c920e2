// Package geom holds the read-only geometry snapshots exchanged between the
// placement engine and its hosts.
package geom

// Box is a rectangle in viewport coordinates. Boxes are snapshots: a host
// builds a fresh one for every placement pass and nothing retains them.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the right edge.
func (b Box) Right() float64 {
	return b.Left + b.Width
}

// Bottom returns the bottom edge.
func (b Box) Bottom() float64 {
	return b.Top + b.Height
}

// Size returns the box dimensions.
func (b Box) Size() Size {
	return Size{Width: b.Width, Height: b.Height}
}

// Translate returns the box moved by dx, dy.
func (b Box) Translate(dx, dy float64) Box {
	b.Left += dx
	b.Top += dy
	return b
}

// Contains reports whether the point lies inside the box.
// The right and bottom edges are exclusive.
func (b Box) Contains(x, y float64) bool {
	return x >= b.Left && x < b.Right() && y >= b.Top && y < b.Bottom()
}

// Size is a width/height pair, used for the viewport.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
