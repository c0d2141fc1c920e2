package drop

import (
	"fmt"
	"math"
	"strings"
)

var alignKeys = []string{"top", "bottom", "left", "right"}

// OptionsFromMap converts a loosely typed options object (decoded JSON, a
// script object) into Options.
//
// Two shapes are accepted. The current one nests the alignment:
//
//	{"align": {"top": "bottom"}, "className": "menu", "colorIndex": "neutral-1"}
//
// The older one put the alignment fields at the top level. When any of top,
// bottom, left or right is present at the top level the whole map is read as
// an alignment descriptor and nothing else, so className and colorIndex are
// ignored in that shape.
func OptionsFromMap(m map[string]any) Options {
	if isLegacyShape(m) {
		return Options{Align: alignFromMap(m)}
	}
	var opts Options
	if nested, ok := m["align"].(map[string]any); ok {
		opts.Align = alignFromMap(nested)
	}
	opts.ClassName = stringValue(m["className"])
	opts.ColorIndex = stringValue(m["colorIndex"])
	return opts
}

func isLegacyShape(m map[string]any) bool {
	for _, k := range alignKeys {
		if stringValue(m[k]) != "" {
			return true
		}
	}
	return false
}

func alignFromMap(m map[string]any) Align {
	return Align{
		Top:    VAlign(stringValue(m["top"])),
		Bottom: VAlign(stringValue(m["bottom"])),
		Left:   HAlign(stringValue(m["left"])),
		Right:  HAlign(stringValue(m["right"])),
	}
}

// stringValue stringifies scalars so that a wrong type still reaches Resolve
// and produces a warning. Falsy values (absent, nil, false, empty, 0, NaN)
// are unset.
func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
		return "true"
	case int:
		if t == 0 {
			return ""
		}
	case int64:
		if t == 0 {
			return ""
		}
	case float64:
		if t == 0 || math.IsNaN(t) {
			return ""
		}
	}
	return fmt.Sprint(v)
}

// ParseAlign parses "top=bottom,left=right". Keys must be alignment field
// names; values are not checked here, Resolve reports them.
func ParseAlign(s string) (Align, error) {
	var a Align
	s = strings.TrimSpace(s)
	if s == "" {
		return a, nil
	}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return Align{}, fmt.Errorf("align %q: expected key=value", pair)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.ToLower(strings.TrimSpace(value))
		switch key {
		case "top":
			a.Top = VAlign(value)
		case "bottom":
			a.Bottom = VAlign(value)
		case "left":
			a.Left = HAlign(value)
		case "right":
			a.Right = HAlign(value)
		default:
			return Align{}, fmt.Errorf("align %q: unknown field %q", pair, key)
		}
	}
	return a, nil
}
