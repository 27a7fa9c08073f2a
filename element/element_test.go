package element

import "testing"

func TestHasClass(t *testing.T) {
	s := NewStatic()
	root := s.AddElement(NoRef, "", "div", map[string]string{"class": "a b  c"})

	cases := []struct {
		name string
		want bool
	}{
		{"a", true},
		{"b", true},
		{"c", true},
		{"d", false},
		{"ab", false},
	}
	for _, c := range cases {
		if got := HasClass(s, root, c.name); got != c.want {
			t.Errorf("HasClass(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestStaticNavigation(t *testing.T) {
	s := NewStatic()
	root := s.AddElement(NoRef, "", "div", nil)
	a := s.AddElement(root, "", "span", nil)
	b := s.AddElement(root, "", "span", nil)
	s.AddText(b, "hello")

	var kids []Ref
	Children(s, root, func(r Ref) bool {
		kids = append(kids, r)
		return true
	})
	if len(kids) != 2 || kids[0] != a || kids[1] != b {
		t.Fatalf("Children(root) = %v, want [%v %v]", kids, a, b)
	}

	if p, ok := s.Parent(a); !ok || p != root {
		t.Errorf("Parent(a) = %v,%v want %v,true", p, ok, root)
	}
	if n, ok := s.NextSibling(a); !ok || n != b {
		t.Errorf("NextSibling(a) = %v,%v want %v,true", n, ok, b)
	}
	if p, ok := s.PrevSibling(b); !ok || p != a {
		t.Errorf("PrevSibling(b) = %v,%v want %v,true", p, ok, a)
	}

	child, ok := s.FirstChild(b)
	if !ok || s.Category(child) != Text || s.Text(child) != "hello" {
		t.Fatalf("FirstChild(b) text node mismatch: ref=%v ok=%v", child, ok)
	}
}

func TestAttrLookup(t *testing.T) {
	s := NewStatic()
	e := s.AddElement(NoRef, "", "a", map[string]string{"href": "x"})
	if v, ok := s.Attr(e, "", "href"); !ok || v != "x" {
		t.Errorf("Attr(href) = %q,%v want x,true", v, ok)
	}
	if _, ok := s.Attr(e, "", "missing"); ok {
		t.Error("Attr(missing) should be absent")
	}
}
