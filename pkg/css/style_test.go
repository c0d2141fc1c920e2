package css

import "testing"

func TestParseInlineStyle(t *testing.T) {
	s := ParseInlineStyle("left: 10px; TOP:20px;; width : 30.5px; bogus")
	tests := []struct {
		prop string
		want float64
	}{
		{"left", 10},
		{"top", 20},
		{"width", 30.5},
	}
	for _, tt := range tests {
		got, ok := s.GetLength(tt.prop)
		if !ok || got != tt.want {
			t.Errorf("%s = %v (%v), want %v", tt.prop, got, ok, tt.want)
		}
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}
}

func TestStyleStringKeepsOrder(t *testing.T) {
	s := NewStyle()
	s.Set("position", "absolute")
	s.SetLength("left", 10)
	s.SetLength("top", 12.5)
	s.Set("left", "11px")
	if got := s.String(); got != "position: absolute; left: 11px; top: 12.5px" {
		t.Errorf("String = %q", got)
	}
	s.Delete("left")
	s.Delete("missing")
	if got := s.String(); got != "position: absolute; top: 12.5px" {
		t.Errorf("String after delete = %q", got)
	}
	round := ParseInlineStyle(s.String())
	if round.String() != s.String() {
		t.Errorf("round trip = %q", round.String())
	}
}

func TestOverflowShorthand(t *testing.T) {
	if !ParseInlineStyle("overflow: auto").Scrolls() {
		t.Error("overflow: auto should scroll")
	}
	if !ParseInlineStyle("overflow: hidden scroll").Scrolls() {
		t.Error("overflow-y scroll should scroll")
	}
	if ParseInlineStyle("overflow: hidden").Scrolls() {
		t.Error("overflow: hidden should not scroll")
	}
	if !ParseInlineStyle("overflow-y: auto").Scrolls() {
		t.Error("overflow-y: auto should scroll")
	}
}

func TestGetPosition(t *testing.T) {
	if got := ParseInlineStyle("position: absolute").GetPosition(); got != PositionAbsolute {
		t.Errorf("got %q", got)
	}
	if got := ParseInlineStyle("position: sticky").GetPosition(); got != PositionStatic {
		t.Errorf("unknown position = %q, want static", got)
	}
}

func TestFormatLength(t *testing.T) {
	tests := map[float64]string{12: "12px", 12.5: "12.5px", -3: "-3px", 0: "0px"}
	for in, want := range tests {
		if got := FormatLength(in); got != want {
			t.Errorf("FormatLength(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"red", Color{255, 0, 0, 1}, true},
		{" Navy ", Color{0, 0, 128, 1}, true},
		{"#fff", Color{255, 255, 255, 1}, true},
		{"#1a2b3c", Color{0x1a, 0x2b, 0x3c, 1}, true},
		{"transparent", Color{0, 0, 0, 0}, true},
		{"#12", Color{}, false},
		{"#zzzzzz", Color{}, false},
		{"chartreuse-ish", Color{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseColor(%q) = %+v, %v; want %+v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
