package render

import (
	"fmt"
	"image"
)

// Difference summarises a pixel comparison.
type Difference struct {
	Pixels  int // pixels whose largest channel difference exceeds the tolerance
	Total   int
	MaxDiff int // largest channel difference seen, 0-255
}

// Same reports whether no pixel differed.
func (d Difference) Same() bool {
	return d.Pixels == 0
}

// Compare compares two images channel by channel. A pixel differs when any
// 8-bit channel is more than tolerance apart. Images of different bounds are
// an error.
func Compare(actual, expected image.Image, tolerance int) (Difference, error) {
	ab, eb := actual.Bounds(), expected.Bounds()
	if ab != eb {
		return Difference{}, fmt.Errorf("image bounds differ: actual=%v, expected=%v", ab, eb)
	}

	d := Difference{Total: ab.Dx() * ab.Dy()}
	for y := ab.Min.Y; y < ab.Max.Y; y++ {
		for x := ab.Min.X; x < ab.Max.X; x++ {
			ar, ag, abl, aa := actual.At(x, y).RGBA()
			er, eg, ebl, ea := expected.At(x, y).RGBA()
			diff := max(
				channelDiff(ar, er),
				channelDiff(ag, eg),
				channelDiff(abl, ebl),
				channelDiff(aa, ea),
			)
			d.MaxDiff = max(d.MaxDiff, diff)
			if diff > tolerance {
				d.Pixels++
			}
		}
	}
	return d, nil
}

// channelDiff compares two 16-bit channels at 8-bit precision.
func channelDiff(a, b uint32) int {
	diff := int(a>>8) - int(b>>8)
	if diff < 0 {
		return -diff
	}
	return diff
}
