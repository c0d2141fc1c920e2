package drop

import (
	"math"

	"droplayer/pkg/geom"
)

// Input is everything one placement pass reads. All boxes are in viewport
// coordinates; Body is the overlay root, whose top offset converts the
// result into document coordinates.
type Input struct {
	Anchor   geom.Box
	Overlay  geom.Box
	Body     geom.Box
	Viewport geom.Size
	Align    Align
}

// Placement is the computed overlay position. Left and Width are applied as
// they are; Top is relative to the overlay root. ViewportTop is the same edge
// before that translation.
type Placement struct {
	Left        float64 `json:"left"`
	Top         float64 `json:"top"`
	Width       float64 `json:"width"`
	ViewportTop float64 `json:"viewportTop"`
}

// Compute places an overlay next to its anchor. It is a pure function of its
// input. An unresolved alignment gets the defaults (top/left).
func Compute(in Input) Placement {
	align := in.Align.withDefaults()
	anchor, overlay, vp := in.Anchor, in.Overlay, in.Viewport

	// never narrower than the anchor or the content, never wider than the viewport
	width := math.Min(math.Max(anchor.Width, overlay.Width), vp.Width)

	left := horizontal(anchor, width, align)
	// Both clamps run in order. The second can still fire after the first.
	if left+width > vp.Width {
		left -= (left + width) - vp.Width
	}
	if left < 0 {
		left = 0
	}

	top := vertical(anchor, overlay, align)
	if top+overlay.Height > vp.Height {
		if align.Top == AlignBottom {
			// requested below the anchor and there is no room: flip above
			top = anchor.Top - overlay.Height
		} else {
			// slide up, but not past the anchor's bottom edge
			top = math.Max(anchor.Bottom()-overlay.Height, top-((top+overlay.Height)-vp.Height))
		}
	} else if top < 0 {
		top = 0
	}

	return Placement{
		Left:        left,
		Top:         top - in.Body.Top,
		Width:       width,
		ViewportTop: top,
	}
}

func horizontal(anchor geom.Box, width float64, align Align) float64 {
	switch {
	case align.Left == AlignLeft:
		return anchor.Left
	case align.Left == AlignRight:
		return anchor.Left - width
	case align.Right == AlignLeft:
		return anchor.Left - width
	case align.Right == AlignRight:
		return anchor.Right() - width
	}
	return anchor.Left
}

func vertical(anchor, overlay geom.Box, align Align) float64 {
	switch {
	case align.Top == AlignTop:
		return anchor.Top
	case align.Top == AlignBottom:
		return anchor.Bottom()
	case align.Bottom == AlignTop:
		return anchor.Top - overlay.Height
	case align.Bottom == AlignBottom:
		return anchor.Bottom() - overlay.Height
	}
	return anchor.Top
}
