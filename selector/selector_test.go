package selector

import "testing"

func mustParse(t *testing.T, css string) *List {
	t.Helper()
	l, err := ParseString(css)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", css, err)
	}
	return l
}

func TestParseSimpleCompound(t *testing.T) {
	l := mustParse(t, "div.foo#bar[data-x=y]")
	if len(l.Complex) != 1 || len(l.Complex[0].Compounds) != 1 {
		t.Fatalf("got %+v", l)
	}
	c := l.Complex[0].Compounds[0]
	if c.Type == nil || c.Type.Name != "div" {
		t.Errorf("type = %+v", c.Type)
	}
	if len(c.Classes) != 1 || c.Classes[0] != "foo" {
		t.Errorf("classes = %v", c.Classes)
	}
	if len(c.IDs) != 1 || c.IDs[0] != "bar" {
		t.Errorf("ids = %v", c.IDs)
	}
	if len(c.Attrs) != 1 || c.Attrs[0].Name != "data-x" || c.Attrs[0].Op != AttrEquals || c.Attrs[0].Value != "y" {
		t.Errorf("attrs = %+v", c.Attrs)
	}
}

func TestParseCombinators(t *testing.T) {
	cases := []struct {
		in   string
		want []Combinator
	}{
		{"a b", []Combinator{Descendant, NoCombinator}},
		{"a > b", []Combinator{Child, NoCombinator}},
		{"a + b", []Combinator{NextSibling, NoCombinator}},
		{"a ~ b", []Combinator{SubsequentSibling, NoCombinator}},
		{"a b > c", []Combinator{Descendant, Child, NoCombinator}},
	}
	for _, c := range cases {
		l := mustParse(t, c.in)
		if len(l.Complex) != 1 {
			t.Fatalf("%q: got %d complex selectors", c.in, len(l.Complex))
		}
		got := l.Complex[0].Compounds
		if len(got) != len(c.want) {
			t.Fatalf("%q: got %d compounds, want %d", c.in, len(got), len(c.want))
		}
		for i, g := range got {
			if g.Combinator != c.want[i] {
				t.Errorf("%q: compound %d combinator = %v, want %v", c.in, i, g.Combinator, c.want[i])
			}
		}
	}
}

func TestParseSelectorList(t *testing.T) {
	l := mustParse(t, "a, b.c, #d")
	if len(l.Complex) != 3 {
		t.Fatalf("got %d complex selectors, want 3", len(l.Complex))
	}
}

func TestSpecificity(t *testing.T) {
	cases := []struct {
		in   string
		want Specificity
	}{
		{"div", Specificity{0, 0, 1}},
		{".foo", Specificity{0, 1, 0}},
		{"#bar", Specificity{1, 0, 0}},
		{"div.foo#bar", Specificity{1, 1, 1}},
		{"a b c", Specificity{0, 0, 3}},
		{"*", Specificity{0, 0, 0}},
	}
	for _, c := range cases {
		l := mustParse(t, c.in)
		got := l.Complex[0].Specificity()
		if got != c.want {
			t.Errorf("Specificity(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestSpecificityCompare(t *testing.T) {
	low := Specificity{0, 1, 0}
	high := Specificity{1, 0, 0}
	if low.Compare(high) >= 0 {
		t.Error("one id should outrank any number of classes")
	}
	if high.Compare(low) <= 0 {
		t.Error("comparison should be antisymmetric")
	}
	if low.Compare(low) != 0 {
		t.Error("equal specificities should compare equal")
	}
}

func TestParsePseudoClassNot(t *testing.T) {
	l := mustParse(t, "div:not(.foo)")
	pc := l.Complex[0].Compounds[0].PseudoClass
	if len(pc) != 1 || pc[0].Name != "not" || pc[0].Nested == nil {
		t.Fatalf("got %+v", pc)
	}
	if len(pc[0].Nested.Complex) != 1 || pc[0].Nested.Complex[0].Compounds[0].Classes[0] != "foo" {
		t.Errorf("nested selector = %+v", pc[0].Nested)
	}
}

func TestParsePseudoElementDoesNotAffectSpecificityAsClass(t *testing.T) {
	l := mustParse(t, "div::before")
	c := l.Complex[0].Compounds[0]
	if c.PseudoElem == nil || c.PseudoElem.Name != "before" {
		t.Fatalf("got %+v", c.PseudoElem)
	}
	if got := l.Complex[0].Specificity(); got != (Specificity{0, 0, 2}) {
		t.Errorf("specificity = %+v, want type+pseudo-element = 2 in C", got)
	}
}

func TestUniversalAndNamespace(t *testing.T) {
	l := mustParse(t, "*")
	if l.Complex[0].Compounds[0].Type.Name != "*" {
		t.Fatalf("got %+v", l.Complex[0].Compounds[0].Type)
	}
	l = mustParse(t, "svg|rect")
	ts := l.Complex[0].Compounds[0].Type
	if !ts.HasNS || ts.Namespace != "svg" || ts.Name != "rect" {
		t.Errorf("got %+v", ts)
	}
}
