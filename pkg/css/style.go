package css

import (
	"strconv"
	"strings"
)

// Style is an inline style declaration block. Properties keep their
// declaration order so that serialising is deterministic.
type Style struct {
	Properties map[string]string
	order      []string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	if _, ok := s.Properties[property]; !ok {
		s.order = append(s.order, property)
	}
	s.Properties[property] = value
}

// Delete removes property. Removing an absent property is a no-op.
func (s *Style) Delete(property string) {
	if _, ok := s.Properties[property]; !ok {
		return
	}
	delete(s.Properties, property)
	for i, p := range s.order {
		if p == property {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Keys returns property names in declaration order.
func (s *Style) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Style) Len() int {
	return len(s.order)
}

func (s *Style) GetLength(property string) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	return ParseLength(val)
}

// SetLength stores v as a px length.
func (s *Style) SetLength(property string, v float64) {
	s.Set(property, FormatLength(v))
}

// String serialises the block as a style attribute value.
func (s *Style) String() string {
	parts := make([]string, 0, len(s.order))
	for _, p := range s.order {
		parts = append(parts, p+": "+s.Properties[p])
	}
	return strings.Join(parts, "; ")
}

// ParseLength parses a length value (e.g., "100px" or "100")
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	val = strings.TrimSuffix(val, "px")
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

// FormatLength renders v in px with no trailing zeros: 12 -> "12px",
// 12.5 -> "12.5px".
func FormatLength(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	declarations := strings.Split(styleAttr, ";")
	for _, decl := range declarations {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		parts := strings.SplitN(decl, ":", 2)
		if len(parts) != 2 {
			continue
		}
		property := strings.TrimSpace(strings.ToLower(parts[0]))
		value := strings.TrimSpace(parts[1])
		if property == "" {
			continue
		}
		expandShorthand(style, property, value)
	}
	return style
}

// expandShorthand expands the shorthands the page geometry reads.
func expandShorthand(style *Style, property, value string) {
	switch property {
	case "overflow":
		// overflow: auto -> overflow-x/overflow-y: auto
		parts := strings.Fields(value)
		switch len(parts) {
		case 1:
			style.Set("overflow-x", parts[0])
			style.Set("overflow-y", parts[0])
		case 2:
			style.Set("overflow-x", parts[0])
			style.Set("overflow-y", parts[1])
		}
	case "inset":
		parts := strings.Fields(value)
		if len(parts) == 1 {
			style.Set("top", parts[0])
			style.Set("left", parts[0])
		} else if len(parts) >= 2 {
			style.Set("top", parts[0])
			style.Set("left", parts[len(parts)-1])
		}
	default:
		style.Set(property, value)
	}
}

// PositionType is the CSS position property.
type PositionType string

const (
	PositionStatic   PositionType = "static"
	PositionRelative PositionType = "relative"
	PositionAbsolute PositionType = "absolute"
	PositionFixed    PositionType = "fixed"
)

// GetPosition returns the position value (default: static)
func (s *Style) GetPosition() PositionType {
	if pos, ok := s.Get("position"); ok {
		switch PositionType(strings.TrimSpace(pos)) {
		case PositionRelative, PositionAbsolute, PositionFixed:
			return PositionType(strings.TrimSpace(pos))
		}
	}
	return PositionStatic
}

// Scrolls reports whether either overflow axis lets the element scroll.
func (s *Style) Scrolls() bool {
	for _, p := range []string{"overflow-x", "overflow-y"} {
		if v, ok := s.Get(p); ok {
			switch strings.TrimSpace(v) {
			case "auto", "scroll", "overlay":
				return true
			}
		}
	}
	return false
}
