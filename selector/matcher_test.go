package selector

import (
	"testing"

	"github.com/tusf-zss/zss/element"
)

func TestMatchesTypeClassID(t *testing.T) {
	tree := element.NewStatic()
	root := tree.AddElement(element.NoRef, "", "html", nil)
	div := tree.AddElement(root, "", "div", map[string]string{"id": "main", "class": "box active"})

	cases := []struct {
		sel  string
		want bool
	}{
		{"div", true},
		{"span", false},
		{"#main", true},
		{"#other", false},
		{".box", true},
		{".missing", false},
		{"div.box#main", true},
		{"div.missing#main", false},
	}
	for _, c := range cases {
		l := mustParse(t, c.sel)
		if got := l.Matches(tree, div); got != c.want {
			t.Errorf("%q.Matches(div) = %v, want %v", c.sel, got, c.want)
		}
	}
}

func TestMatchesDescendantAndChild(t *testing.T) {
	tree := element.NewStatic()
	root := tree.AddElement(element.NoRef, "", "html", nil)
	body := tree.AddElement(root, "", "body", nil)
	ul := tree.AddElement(body, "", "ul", nil)
	li := tree.AddElement(ul, "", "li", nil)

	if !mustParse(t, "html li").Matches(tree, li) {
		t.Error("descendant combinator should match across multiple levels")
	}
	if mustParse(t, "html > li").Matches(tree, li) {
		t.Error("child combinator should not match a grandchild")
	}
	if !mustParse(t, "ul > li").Matches(tree, li) {
		t.Error("child combinator should match a direct child")
	}
}

func TestMatchesSiblingCombinators(t *testing.T) {
	tree := element.NewStatic()
	root := tree.AddElement(element.NoRef, "", "html", nil)
	a := tree.AddElement(root, "", "p", nil)
	b := tree.AddElement(root, "", "p", nil)
	c := tree.AddElement(root, "", "span", nil)
	_ = a

	if !mustParse(t, "p + p").Matches(tree, b) {
		t.Error("next-sibling should match an immediately preceding sibling of the same type")
	}
	if mustParse(t, "p + span").Matches(tree, b) {
		t.Error("next-sibling should not match span for the p+p pair")
	}
	if !mustParse(t, "p ~ span").Matches(tree, c) {
		t.Error("subsequent-sibling should match any preceding sibling")
	}
}

func TestMatchesFirstLastChild(t *testing.T) {
	tree := element.NewStatic()
	root := tree.AddElement(element.NoRef, "", "ul", nil)
	a := tree.AddElement(root, "", "li", nil)
	b := tree.AddElement(root, "", "li", nil)
	c := tree.AddElement(root, "", "li", nil)

	if !mustParse(t, "li:first-child").Matches(tree, a) {
		t.Error("a should be first-child")
	}
	if mustParse(t, "li:first-child").Matches(tree, b) {
		t.Error("b should not be first-child")
	}
	if !mustParse(t, "li:last-child").Matches(tree, c) {
		t.Error("c should be last-child")
	}
}

func TestMatchesNthChild(t *testing.T) {
	tree := element.NewStatic()
	root := tree.AddElement(element.NoRef, "", "ul", nil)
	refs := make([]element.Ref, 5)
	for i := range refs {
		refs[i] = tree.AddElement(root, "", "li", nil)
	}
	odd := mustParse(t, "li:nth-child(odd)")
	for i, r := range refs {
		want := (i+1)%2 == 1
		if got := odd.Matches(tree, r); got != want {
			t.Errorf("nth-child(odd) at position %d = %v, want %v", i+1, got, want)
		}
	}
}

func TestMatchesNot(t *testing.T) {
	tree := element.NewStatic()
	root := tree.AddElement(element.NoRef, "", "html", nil)
	a := tree.AddElement(root, "", "div", map[string]string{"class": "skip"})
	b := tree.AddElement(root, "", "div", nil)

	l := mustParse(t, "div:not(.skip)")
	if l.Matches(tree, a) {
		t.Error(":not(.skip) should not match the element carrying class skip")
	}
	if !l.Matches(tree, b) {
		t.Error(":not(.skip) should match the element without class skip")
	}
}

func TestMatchesAttribute(t *testing.T) {
	tree := element.NewStatic()
	root := tree.AddElement(element.NoRef, "", "html", nil)
	e := tree.AddElement(root, "", "a", map[string]string{"href": "https://example.com/path", "lang": "en-US"})

	cases := []struct {
		sel  string
		want bool
	}{
		{"a[href]", true},
		{"a[missing]", false},
		{"a[href=\"https://example.com/path\"]", true},
		{"a[href^=\"https://\"]", true},
		{"a[href$=\"/path\"]", true},
		{"a[href*=\"example\"]", true},
		{"a[lang|=\"en\"]", true},
		{"a[lang|=\"fr\"]", false},
	}
	for _, c := range cases {
		l := mustParse(t, c.sel)
		if got := l.Matches(tree, e); got != c.want {
			t.Errorf("%q.Matches = %v, want %v", c.sel, got, c.want)
		}
	}
}

func TestMatchesPseudoElementNeverMatches(t *testing.T) {
	tree := element.NewStatic()
	root := tree.AddElement(element.NoRef, "", "html", nil)
	e := tree.AddElement(root, "", "div", nil)

	if mustParse(t, "div::before").Matches(tree, e) {
		t.Error("a pseudo-element-bearing compound must never match a real element")
	}
}
