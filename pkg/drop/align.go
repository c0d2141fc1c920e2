package drop

import (
	"fmt"
	"strings"
)

// VAlign is a vertical edge name.
type VAlign string

// HAlign is a horizontal edge name.
type HAlign string

const (
	AlignTop    VAlign = "top"
	AlignBottom VAlign = "bottom"
	AlignLeft   HAlign = "left"
	AlignRight  HAlign = "right"
)

var (
	verticalOptions   = []string{string(AlignTop), string(AlignBottom)}
	horizontalOptions = []string{string(AlignRight), string(AlignLeft)}
)

// Align says which edges of the overlay and the anchor coincide.
//
// Top and Bottom name the overlay edge; their value names the anchor edge it
// lines up with. Top: "bottom" hangs the overlay below the anchor, Bottom:
// "top" stands it above. Left and Right work the same way horizontally. The
// near field (Top, Left) wins over the far field (Bottom, Right) when both are
// set. Empty means unset.
type Align struct {
	Top    VAlign `json:"top,omitempty" toml:"top"`
	Bottom VAlign `json:"bottom,omitempty" toml:"bottom"`
	Left   HAlign `json:"left,omitempty" toml:"left"`
	Right  HAlign `json:"right,omitempty" toml:"right"`
}

// IsZero reports whether no field is set.
func (a Align) IsZero() bool {
	return a == Align{}
}

// String renders the descriptor in the key=value form accepted by ParseAlign.
func (a Align) String() string {
	var parts []string
	if a.Top != "" {
		parts = append(parts, "top="+string(a.Top))
	}
	if a.Bottom != "" {
		parts = append(parts, "bottom="+string(a.Bottom))
	}
	if a.Left != "" {
		parts = append(parts, "left="+string(a.Left))
	}
	if a.Right != "" {
		parts = append(parts, "right="+string(a.Right))
	}
	return strings.Join(parts, ",")
}

// Options configures one drop.
type Options struct {
	Align      Align  `json:"align"`
	ClassName  string `json:"className,omitempty"`
	ColorIndex string `json:"colorIndex,omitempty"`
}

// Warning reports an alignment value outside its allowed set. It never stops
// a placement: the field is treated as unset and the default applies.
type Warning struct {
	Field   string
	Value   string
	Allowed []string
}

func (w Warning) Error() string {
	return fmt.Sprintf("invalid align.%s value %q, expected one of [%s]",
		w.Field, w.Value, strings.Join(w.Allowed, ","))
}

// Resolve validates the alignment in opts and fills in the defaults: top to
// top when no vertical field survives validation, left to left when no
// horizontal field does. ClassName and ColorIndex pass through untouched.
// Resolve has no side effects; the caller decides what to do with the
// warnings.
func Resolve(opts Options) (Options, []Warning) {
	var warnings []Warning
	a := opts.Align

	if a.Top != "" && !validV(a.Top) {
		warnings = append(warnings, Warning{Field: "top", Value: string(a.Top), Allowed: verticalOptions})
		a.Top = ""
	}
	if a.Bottom != "" && !validV(a.Bottom) {
		warnings = append(warnings, Warning{Field: "bottom", Value: string(a.Bottom), Allowed: verticalOptions})
		a.Bottom = ""
	}
	if a.Left != "" && !validH(a.Left) {
		warnings = append(warnings, Warning{Field: "left", Value: string(a.Left), Allowed: horizontalOptions})
		a.Left = ""
	}
	if a.Right != "" && !validH(a.Right) {
		warnings = append(warnings, Warning{Field: "right", Value: string(a.Right), Allowed: horizontalOptions})
		a.Right = ""
	}

	opts.Align = a.withDefaults()
	return opts, warnings
}

// withDefaults applies the default edges without validating.
func (a Align) withDefaults() Align {
	if a.Top == "" && a.Bottom == "" {
		a.Top = AlignTop
	}
	if a.Left == "" && a.Right == "" {
		a.Left = AlignLeft
	}
	return a
}

func validV(v VAlign) bool {
	return v == AlignTop || v == AlignBottom
}

func validH(h HAlign) bool {
	return h == AlignLeft || h == AlignRight
}
