package value

import (
	"testing"

	"github.com/tusf-zss/zss/cssom"
)

func source(t *testing.T, css string) *Source {
	t.Helper()
	tree := cssom.ParseComponentValues([]byte(css))
	return NewSource(tree, 0, tree.Len())
}

func TestParseZIndex(t *testing.T) {
	cases := []struct {
		in       string
		wantAuto bool
		wantVal  int64
		wantOK   bool
	}{
		{"auto", true, 0, true},
		{"6", false, 6, true},
		{"-5", false, -5, true},
		{"red", false, 0, false},
	}
	for _, c := range cases {
		z, ok := ParseZIndex(source(t, c.in))
		if ok != c.wantOK {
			t.Fatalf("ParseZIndex(%q) ok = %v, want %v", c.in, ok, c.wantOK)
		}
		if ok && (z.Auto != c.wantAuto || z.Value != c.wantVal) {
			t.Errorf("ParseZIndex(%q) = %+v, want auto=%v val=%d", c.in, z, c.wantAuto, c.wantVal)
		}
	}
}

func TestParseZIndexOverflowClampedByTokenizer(t *testing.T) {
	z, ok := ParseZIndex(source(t, "9999999999999999"))
	if !ok {
		t.Fatal("expected a match")
	}
	if z.Value != 0 {
		t.Errorf("z-index overflow should clamp to declared-value 0 via tokenizer, got %d", z.Value)
	}
}

func TestParseBackgroundRepeatSingleThenInvalid(t *testing.T) {
	src := source(t, "space invalid")
	r, ok := ParseBackgroundRepeat(src)
	if !ok || r.X != Space || r.Y != Space {
		t.Fatalf("got %+v, %v, want {Space Space} true", r, ok)
	}
	rest := src.Next()
	if rest == nil || src.Keyword(rest.Index) != "invalid" {
		t.Fatalf("cursor should be left at 'invalid', got %+v", rest)
	}
}

func TestParseBackgroundRepeatTwoKeywords(t *testing.T) {
	r, ok := ParseBackgroundRepeat(source(t, "repeat-x"))
	if !ok || r.X != Repeat || r.Y != NoRepeat {
		t.Fatalf("repeat-x: got %+v, %v", r, ok)
	}
	r, ok = ParseBackgroundRepeat(source(t, "round space"))
	if !ok || r.X != Round || r.Y != Space {
		t.Fatalf("round space: got %+v, %v", r, ok)
	}
}

func TestParseBackgroundPositionSingleTop(t *testing.T) {
	bp, ok := ParseBackgroundPosition(source(t, "top"))
	if !ok {
		t.Fatal("expected a match")
	}
	want := BackgroundPosition{
		X: PositionComponent{Edge: EdgeCenter, Offset: zeroPercent()},
		Y: PositionComponent{Edge: EdgeStart, Offset: zeroPercent()},
	}
	if bp != want {
		t.Errorf("got %+v, want %+v", bp, want)
	}
}

func TestParseBackgroundPositionFourValue(t *testing.T) {
	bp, ok := ParseBackgroundPosition(source(t, "bottom 50% left 20px"))
	if !ok {
		t.Fatal("expected a match")
	}
	if bp.X.Edge != EdgeStart || bp.X.Offset.Kind != LPLength {
		t.Errorf("x = %+v, want start/20px", bp.X)
	}
	if bp.Y.Edge != EdgeEnd || bp.Y.Offset.Kind != LPPercent || bp.Y.Offset.Percent != 50 {
		t.Errorf("y = %+v, want end/50%%", bp.Y)
	}
}

func TestParseBackgroundPositionCenterCenterPercent(t *testing.T) {
	src := source(t, "center center 50%")
	bp, ok := ParseBackgroundPosition(src)
	if !ok {
		t.Fatal("expected a match")
	}
	want := BackgroundPosition{
		X: PositionComponent{Edge: EdgeCenter, Offset: zeroPercent()},
		Y: PositionComponent{Edge: EdgeCenter, Offset: zeroPercent()},
	}
	if bp != want {
		t.Errorf("got %+v, want %+v", bp, want)
	}
	if !src.AtEnd() {
		t.Error("all three tokens should be consumed")
	}
}

func TestParseBorderWidthKeywords(t *testing.T) {
	u, ok := ParseBorderWidth(source(t, "medium"))
	if !ok || u <= 0 {
		t.Fatalf("medium: got %v, %v", u, ok)
	}
	u2, ok := ParseBorderWidth(source(t, "thick"))
	if !ok || u2 <= u {
		t.Fatalf("thick should be wider than medium: thick=%v medium=%v", u2, u)
	}
}

func TestParseBackgroundImage(t *testing.T) {
	img, ok := ParseBackgroundImage(source(t, "none"))
	if !ok || img.Kind != BGImageNone {
		t.Fatalf("none: got %+v, %v", img, ok)
	}
	img, ok = ParseBackgroundImage(source(t, `url(foo.png)`))
	if !ok || img.Kind != BGImageURL || img.URL != "foo.png" {
		t.Fatalf("url(foo.png): got %+v, %v", img, ok)
	}
	_, ok = ParseBackgroundImage(source(t, "linear-gradient(red, blue)"))
	if ok {
		t.Error("gradients are unparsed and should not match")
	}
}

func TestDetectWideKeyword(t *testing.T) {
	tree := cssom.ParseComponentValues([]byte("inherit"))
	if w := DetectWideKeyword(tree, 0, tree.Len()); w != Inherit {
		t.Errorf("got %v, want Inherit", w)
	}
	tree = cssom.ParseComponentValues([]byte("10px"))
	if w := DetectWideKeyword(tree, 0, tree.Len()); w != NotWide {
		t.Errorf("got %v, want NotWide", w)
	}
}
