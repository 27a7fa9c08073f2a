package stylesheet

import (
	"testing"
)

func declText(t *testing.T, d Declaration) string {
	t.Helper()
	var out []byte
	for i := d.ValueStart; i < d.ValueEnd; i = d.Tree.Skip(i) {
		out = append(out, []byte(d.Tree.Value[i])...)
	}
	return string(out)
}

func TestAssembleSimpleRule(t *testing.T) {
	s := Parse([]byte(`div.foo { color: red; width: 10px }`))
	if len(s.Rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(s.Rules))
	}
	r := s.Rules[0]
	if len(r.Selectors.Complex) != 1 {
		t.Fatalf("got %d complex selectors, want 1", len(r.Selectors.Complex))
	}
	if len(r.Declarations) != 2 {
		t.Fatalf("got %d declarations, want 2", len(r.Declarations))
	}
	if r.Declarations[0].Property != "color" {
		t.Errorf("decl 0 property = %q", r.Declarations[0].Property)
	}
	if r.Declarations[1].Property != "width" {
		t.Errorf("decl 1 property = %q", r.Declarations[1].Property)
	}
}

func TestAssembleImportantFlag(t *testing.T) {
	s := Parse([]byte(`p { color: red !important; width: auto }`))
	r := s.Rules[0]
	if !r.Declarations[0].Important {
		t.Error("color declaration should be marked important")
	}
	if r.Declarations[1].Important {
		t.Error("width declaration should not be marked important")
	}
}

func TestAssembleMultipleRules(t *testing.T) {
	s := Parse([]byte(`a { color: red } b { color: blue } c { color: green }`))
	if len(s.Rules) != 3 {
		t.Fatalf("got %d rules, want 3", len(s.Rules))
	}
}

func TestAssembleUnknownAtRuleSkipped(t *testing.T) {
	s := Parse([]byte(`@media screen { a { color: red } } b { color: blue }`))
	if len(s.Rules) != 1 {
		t.Fatalf("got %d rules, want 1 (nested media rule is not assembled)", len(s.Rules))
	}
	if r := s.Rules[0]; r.Declarations[0].Property != "color" {
		t.Errorf("got %+v", r)
	}
}

func TestAssembleNamespaceDefault(t *testing.T) {
	s := Parse([]byte(`@namespace "http://www.w3.org/1999/xhtml"; a {}`))
	if s.DefaultNamespace == 0 {
		t.Error("expected a default namespace to be recorded")
	}
}

func TestAssembleNamespacePrefixed(t *testing.T) {
	s := Parse([]byte(`@namespace svg url(http://www.w3.org/2000/svg); a {}`))
	if id, ok := s.Namespaces["svg"]; !ok || id == 0 {
		t.Errorf("got Namespaces = %+v", s.Namespaces)
	}
}

func TestAssembleNamespaceInvalidExtraTokens(t *testing.T) {
	s := Parse([]byte(`@namespace svg url(http://example.com) extra; a {}`))
	if _, ok := s.Namespaces["svg"]; ok {
		t.Error("a namespace rule with trailing tokens should be invalidated")
	}
}
