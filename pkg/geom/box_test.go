package geom

import "testing"

func TestBoxEdges(t *testing.T) {
	b := Box{Left: 10, Top: 500, Width: 100, Height: 20}
	if b.Right() != 110 {
		t.Errorf("Right = %v, want 110", b.Right())
	}
	if b.Bottom() != 520 {
		t.Errorf("Bottom = %v, want 520", b.Bottom())
	}
	if got := b.Size(); got != (Size{Width: 100, Height: 20}) {
		t.Errorf("Size = %+v", got)
	}
}

func TestBoxTranslate(t *testing.T) {
	b := Box{Left: 1, Top: 2, Width: 3, Height: 4}.Translate(10, -2)
	want := Box{Left: 11, Top: 0, Width: 3, Height: 4}
	if b != want {
		t.Errorf("Translate = %+v, want %+v", b, want)
	}
}

func TestBoxContains(t *testing.T) {
	b := Box{Left: 0, Top: 0, Width: 10, Height: 10}
	tests := []struct {
		x, y float64
		want bool
	}{
		{0, 0, true},
		{9.5, 9.5, true},
		{10, 5, false},
		{5, 10, false},
		{-1, 5, false},
	}
	for _, tt := range tests {
		if got := b.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
