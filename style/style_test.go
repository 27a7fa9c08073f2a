package style

import (
	"testing"

	"github.com/tusf-zss/zss/element"
	"github.com/tusf-zss/zss/stylesheet"
	"github.com/tusf-zss/zss/value"
)

func newComputer(t *testing.T, css string, tree element.Tree) *Computer {
	t.Helper()
	c := NewComputer(tree)
	c.AddStylesheet(stylesheet.Parse([]byte(css)), Author)
	return c
}

func TestCascadeSpecificityWins(t *testing.T) {
	tree := element.NewStatic()
	root := tree.AddElement(element.NoRef, "", "html", nil)
	div := tree.AddElement(root, "", "div", map[string]string{"id": "main"})

	c := newComputer(t, `div { color: red } #main { color: blue }`, tree)
	c.SetRootElement(root)
	c.PushElement(Cosmetic, div)

	v, ok := c.GetSpecifiedValue(Cosmetic, "color")
	if !ok {
		t.Fatal("expected color to resolve")
	}
	if v.Color.R != 0 || v.Color.B != 255 {
		t.Errorf("got %+v, want blue (id selector wins on specificity)", v.Color)
	}
}

func TestCascadeImportantOutranksSpecificity(t *testing.T) {
	tree := element.NewStatic()
	root := tree.AddElement(element.NoRef, "", "html", nil)
	div := tree.AddElement(root, "", "div", map[string]string{"id": "main"})

	c := newComputer(t, `#main { color: blue } div { color: red !important }`, tree)
	c.PushElement(BoxGen, div)

	v, _ := c.GetSpecifiedValue(BoxGen, "color")
	if v.Color.R != 255 {
		t.Errorf("got %+v, want red (important beats higher specificity)", v.Color)
	}
}

func TestCascadeSourceOrderTiebreak(t *testing.T) {
	tree := element.NewStatic()
	root := tree.AddElement(element.NoRef, "", "html", nil)
	div := tree.AddElement(root, "", "div", nil)

	c := newComputer(t, `div { color: red } div { color: green }`, tree)
	c.PushElement(BoxGen, div)

	v, _ := c.GetSpecifiedValue(BoxGen, "color")
	if v.Color.G != 128 || v.Color.R != 0 {
		t.Errorf("got %+v, want green (later rule wins a specificity tie)", v.Color)
	}
}

func TestInheritanceFromParentComputed(t *testing.T) {
	tree := element.NewStatic()
	root := tree.AddElement(element.NoRef, "", "html", nil)
	div := tree.AddElement(root, "", "div", nil)
	span := tree.AddElement(div, "", "span", nil)

	c := newComputer(t, `div { color: green }`, tree)
	c.PushElement(BoxGen, root)
	rootColor, _ := c.GetSpecifiedValue(BoxGen, "color")
	c.SetComputedValue(BoxGen, "color", rootColor)

	c.PushElement(BoxGen, div)
	divColor, _ := c.GetSpecifiedValue(BoxGen, "color")
	c.SetComputedValue(BoxGen, "color", divColor)

	c.PushElement(BoxGen, span)
	spanColor, _ := c.GetSpecifiedValue(BoxGen, "color")
	if spanColor.Color.G != 128 {
		t.Errorf("span should inherit color:green from div, got %+v", spanColor.Color)
	}
}

func TestNonInheritedPropertyDoesNotInherit(t *testing.T) {
	tree := element.NewStatic()
	root := tree.AddElement(element.NoRef, "", "html", nil)
	div := tree.AddElement(root, "", "div", nil)
	span := tree.AddElement(div, "", "span", nil)

	c := newComputer(t, `div { background-color: blue }`, tree)
	c.PushElement(BoxGen, div)
	divBG, _ := c.GetSpecifiedValue(BoxGen, "background-color")
	c.SetComputedValue(BoxGen, "background-color", divBG)

	c.PushElement(BoxGen, span)
	spanBG, _ := c.GetSpecifiedValue(BoxGen, "background-color")
	if spanBG.Color.B == 255 {
		t.Error("background-color must not inherit")
	}
}

func TestWideKeywordInherit(t *testing.T) {
	tree := element.NewStatic()
	root := tree.AddElement(element.NoRef, "", "html", nil)
	div := tree.AddElement(root, "", "div", nil)
	span := tree.AddElement(div, "", "span", nil)

	c := newComputer(t, `div { background-color: blue } span { background-color: inherit }`, tree)
	c.PushElement(BoxGen, div)
	divBG, _ := c.GetSpecifiedValue(BoxGen, "background-color")
	c.SetComputedValue(BoxGen, "background-color", divBG)

	c.PushElement(BoxGen, span)
	spanBG, _ := c.GetSpecifiedValue(BoxGen, "background-color")
	if spanBG.Color.B != 255 {
		t.Errorf("span background-color:inherit should pull div's blue, got %+v", spanBG.Color)
	}
}

func TestWideKeywordInitial(t *testing.T) {
	tree := element.NewStatic()
	root := tree.AddElement(element.NoRef, "", "html", nil)
	div := tree.AddElement(root, "", "div", nil)

	c := newComputer(t, `div { display: block } div { display: initial }`, tree)
	c.PushElement(BoxGen, div)
	v, _ := c.GetSpecifiedValue(BoxGen, "display")
	if v.Keyword != "inline" {
		t.Errorf("display:initial should reset to the initial value inline, got %v", v.Keyword)
	}
}

func TestUnknownPropertyNotResolved(t *testing.T) {
	tree := element.NewStatic()
	root := tree.AddElement(element.NoRef, "", "html", nil)
	c := newComputer(t, `html {}`, tree)
	c.PushElement(BoxGen, root)
	if _, ok := c.GetSpecifiedValue(BoxGen, "not-a-property"); ok {
		t.Error("unrecognized property should not resolve")
	}
}

func TestDisplayDefaultsToInline(t *testing.T) {
	tree := element.NewStatic()
	root := tree.AddElement(element.NoRef, "", "html", nil)
	span := tree.AddElement(root, "", "span", nil)
	c := newComputer(t, `html {}`, tree)
	c.PushElement(BoxGen, span)
	v, ok := c.GetSpecifiedValue(BoxGen, "display")
	if !ok || v.Keyword != "inline" {
		t.Errorf("got %+v, want initial display=inline", v)
	}
}

func TestFontSizeInheritsDefaultingTo16px(t *testing.T) {
	tree := element.NewStatic()
	root := tree.AddElement(element.NoRef, "", "html", nil)
	div := tree.AddElement(root, "", "div", nil)
	span := tree.AddElement(div, "", "span", nil)

	c := newComputer(t, `div { font-size: 20px }`, tree)
	c.PushElement(BoxGen, div)
	divSize, _ := c.GetSpecifiedValue(BoxGen, "font-size")
	c.SetComputedValue(BoxGen, "font-size", divSize)

	c.PushElement(BoxGen, span)
	spanSize, _ := c.GetSpecifiedValue(BoxGen, "font-size")
	if spanSize.Length.Length.ToPixels() != 20 {
		t.Errorf("got %v, want span to inherit div's 20px font-size", spanSize.Length.Length.ToPixels())
	}
}

func TestResolveColorCurrentColor(t *testing.T) {
	tree := element.NewStatic()
	root := tree.AddElement(element.NoRef, "", "html", nil)
	div := tree.AddElement(root, "", "div", nil)

	c := newComputer(t, `div { color: green; border-top-color: currentColor }`, tree)
	c.PushElement(Cosmetic, div)
	colorVal, _ := c.GetSpecifiedValue(Cosmetic, "color")
	borderColorVal, _ := c.GetSpecifiedValue(Cosmetic, "border-top-color")

	resolved, err := ResolveColor(borderColorVal, colorVal)
	if err != nil {
		t.Fatalf("ResolveColor: %v", err)
	}
	if resolved.G != 128 {
		t.Errorf("got %+v, want green via currentColor", resolved)
	}
}

func TestResolveColorCurrentColorUnresolvedIsError(t *testing.T) {
	unresolved := Value{Kind: KindColor, Color: value.Color{IsCurrentColor: true}}
	borderColor := Value{Kind: KindColor, Color: value.Color{IsCurrentColor: true}}
	if _, err := ResolveColor(borderColor, unresolved); err == nil {
		t.Error("expected an error when currentColor has nothing concrete to resolve against")
	}
}
