package value

import "testing"

func TestParseColorNamed(t *testing.T) {
	c, ok := ParseColor(source(t, "red"))
	if !ok || c != (Color{R: 255, A: 255}) {
		t.Fatalf("got %+v, %v", c, ok)
	}
}

func TestParseColorCurrentColor(t *testing.T) {
	c, ok := ParseColor(source(t, "currentColor"))
	if !ok || !c.IsCurrentColor {
		t.Fatalf("got %+v, %v, want IsCurrentColor", c, ok)
	}
}

func TestParseColorHash(t *testing.T) {
	cases := []struct {
		in   string
		want Color
	}{
		{"#fff", Color{R: 255, G: 255, B: 255, A: 255}},
		{"#ff0000", Color{R: 255, A: 255}},
		{"#ff000080", Color{R: 255, A: 128}},
	}
	for _, c := range cases {
		got, ok := ParseColor(source(t, c.in))
		if !ok || got != c.want {
			t.Errorf("ParseColor(%q) = %+v, %v, want %+v", c.in, got, ok, c.want)
		}
	}
}

func TestParseColorRGBFunction(t *testing.T) {
	got, ok := ParseColor(source(t, "rgb(255, 0, 0)"))
	if !ok || got != (Color{R: 255, A: 255}) {
		t.Fatalf("rgb(255,0,0) = %+v, %v", got, ok)
	}
	got, ok = ParseColor(source(t, "rgba(0, 255, 0, 0.5)"))
	if !ok || got.G != 255 || got.A != 127 {
		t.Fatalf("rgba(0,255,0,0.5) = %+v, %v", got, ok)
	}
	got, ok = ParseColor(source(t, "rgb(50%, 50%, 50%)"))
	if !ok || got.R != 127 {
		t.Fatalf("rgb(50%%,...) = %+v, %v", got, ok)
	}
}

func TestParseColorRejectsGarbage(t *testing.T) {
	src := source(t, "42px")
	mark := src.Mark()
	_, ok := ParseColor(src)
	if ok {
		t.Fatal("expected no match")
	}
	if src.Mark() != mark {
		t.Error("cursor should be restored on mismatch")
	}
}
