package selector

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tusf-zss/zss/element"
)

// Matches reports whether the list matches e, trying each complex selector
// (a list matches if any member does).
func (l *List) Matches(tree element.Tree, e element.Ref) bool {
	for _, c := range l.Complex {
		if c.Matches(tree, e) {
			return true
		}
	}
	return false
}

// Matches walks right to left: match the rightmost compound against e, then
// walk backward across combinators re-testing ancestors/parents/siblings
// (spec.md §4.D).
func (c Complex) Matches(tree element.Tree, e element.Ref) bool {
	if len(c.Compounds) == 0 {
		return false
	}
	i := len(c.Compounds) - 1
	if !c.Compounds[i].matches(tree, e) {
		return false
	}
	cur := e
	for i > 0 {
		combinator := c.Compounds[i-1].Combinator
		i--
		switch combinator {
		case Descendant:
			found := false
			for p, ok := tree.Parent(cur); ok; p, ok = tree.Parent(p) {
				if tree.Category(p) == element.Normal && c.Compounds[i].matches(tree, p) {
					cur, found = p, true
					break
				}
			}
			if !found {
				return false
			}
		case Child:
			p, ok := tree.Parent(cur)
			if !ok || tree.Category(p) != element.Normal || !c.Compounds[i].matches(tree, p) {
				return false
			}
			cur = p
		case NextSibling:
			p, ok := prevElementSibling(tree, cur)
			if !ok || !c.Compounds[i].matches(tree, p) {
				return false
			}
			cur = p
		case SubsequentSibling:
			found := false
			for p, ok := prevElementSibling(tree, cur); ok; p, ok = prevElementSibling(tree, p) {
				if c.Compounds[i].matches(tree, p) {
					cur, found = p, true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func prevElementSibling(tree element.Tree, e element.Ref) (element.Ref, bool) {
	for s, ok := tree.PrevSibling(e); ok; s, ok = tree.PrevSibling(s) {
		if tree.Category(s) == element.Normal {
			return s, true
		}
	}
	return element.NoRef, false
}

func nextElementSibling(tree element.Tree, e element.Ref) (element.Ref, bool) {
	for s, ok := tree.NextSibling(e); ok; s, ok = tree.NextSibling(s) {
		if tree.Category(s) == element.Normal {
			return s, true
		}
	}
	return element.NoRef, false
}

func (c Compound) matches(tree element.Tree, e element.Ref) bool {
	if tree.Category(e) != element.Normal {
		return false
	}
	// A pseudo-element-bearing compound never matches: box generation for
	// pseudo-elements is out of scope (spec.md §4.D.1).
	if c.PseudoElem != nil {
		return false
	}
	if c.Type != nil && !matchType(c.Type, tree, e) {
		return false
	}
	if len(c.IDs) > 0 {
		id := element.ID(tree, e)
		for _, want := range c.IDs {
			if id != want {
				return false
			}
		}
	}
	for _, want := range c.Classes {
		if !element.HasClass(tree, e, want) {
			return false
		}
	}
	for _, attr := range c.Attrs {
		if !matchAttr(&attr, tree, e) {
			return false
		}
	}
	for _, pc := range c.PseudoClass {
		if !matchPseudoClass(&pc, tree, e) {
			return false
		}
	}
	return true
}

func matchType(ts *TypeSelector, tree element.Tree, e element.Ref) bool {
	if ts.Name == "*" {
		return true
	}
	_, local := tree.TagName(e)
	return strings.EqualFold(local, ts.Name)
}

func matchAttr(attr *AttributeMatcher, tree element.Tree, e element.Ref) bool {
	ns := attr.Namespace
	if ns == "*" {
		ns = "" // no per-namespace attribute enumeration without a prefix map here
	}
	value, ok := tree.Attr(e, ns, attr.Name)
	if !ok {
		return false
	}
	if attr.Op == AttrExists {
		return true
	}
	want := attr.Value
	if attr.CaseInsensitive {
		value = strings.ToLower(value)
		want = strings.ToLower(want)
	}
	switch attr.Op {
	case AttrEquals:
		return value == want
	case AttrIncludes:
		for _, word := range strings.Fields(value) {
			if attr.CaseInsensitive {
				word = strings.ToLower(word)
			}
			if word == want {
				return true
			}
		}
		return false
	case AttrDashMatch:
		return value == want || strings.HasPrefix(value, want+"-")
	case AttrPrefix:
		return want != "" && strings.HasPrefix(value, want)
	case AttrSuffix:
		return want != "" && strings.HasSuffix(value, want)
	case AttrSubstring:
		return want != "" && strings.Contains(value, want)
	}
	return false
}

func matchPseudoClass(pc *PseudoClass, tree element.Tree, e element.Ref) bool {
	switch pc.Name {
	case "first-child":
		_, ok := prevElementSibling(tree, e)
		return !ok
	case "last-child":
		_, ok := nextElementSibling(tree, e)
		return !ok
	case "only-child":
		_, prevOK := prevElementSibling(tree, e)
		_, nextOK := nextElementSibling(tree, e)
		return !prevOK && !nextOK
	case "first-of-type":
		_, local := tree.TagName(e)
		for p, ok := prevElementSibling(tree, e); ok; p, ok = prevElementSibling(tree, p) {
			if _, pl := tree.TagName(p); pl == local {
				return false
			}
		}
		return true
	case "last-of-type":
		_, local := tree.TagName(e)
		for n, ok := nextElementSibling(tree, e); ok; n, ok = nextElementSibling(tree, n) {
			if _, nl := tree.TagName(n); nl == local {
				return false
			}
		}
		return true
	case "only-of-type":
		return matchPseudoClass(&PseudoClass{Name: "first-of-type"}, tree, e) &&
			matchPseudoClass(&PseudoClass{Name: "last-of-type"}, tree, e)
	case "nth-child":
		return matchNth(pc.Argument, tree, e, false, false)
	case "nth-last-child":
		return matchNth(pc.Argument, tree, e, true, false)
	case "nth-of-type":
		return matchNth(pc.Argument, tree, e, false, true)
	case "nth-last-of-type":
		return matchNth(pc.Argument, tree, e, true, true)
	case "not":
		if pc.Nested == nil {
			return true
		}
		return !pc.Nested.Matches(tree, e)
	case "is", "where", "matches", "any":
		if pc.Nested == nil {
			return false
		}
		return pc.Nested.Matches(tree, e)
	case "root":
		_, ok := tree.Parent(e)
		return !ok
	case "empty":
		_, ok := tree.FirstChild(e)
		return !ok
	default:
		// Dynamic UI states (:hover, :active, :focus, :visited, ...) have
		// no tracked runtime state in this engine; they never match,
		// matching the teacher's own stance on these pseudo-classes.
		return false
	}
}

func matchNth(arg string, tree element.Tree, e element.Ref, fromLast, ofType bool) bool {
	a, b := parseAnPlusB(arg)
	pos := 1
	_, local := tree.TagName(e)
	if fromLast {
		for n, ok := nextElementSibling(tree, e); ok; n, ok = nextElementSibling(tree, n) {
			if _, nl := tree.TagName(n); !ofType || nl == local {
				pos++
			}
		}
	} else {
		for p, ok := prevElementSibling(tree, e); ok; p, ok = prevElementSibling(tree, p) {
			if _, pl := tree.TagName(p); !ofType || pl == local {
				pos++
			}
		}
	}
	if a == 0 {
		return pos == b
	}
	diff := pos - b
	if a > 0 {
		return diff >= 0 && diff%a == 0
	}
	return diff <= 0 && diff%a == 0
}

var anPlusBPattern = regexp.MustCompile(`^([+-]?\d*)n(?:([+-]\d+))?$`)

// parseAnPlusB parses the An+B micro-syntax used by :nth-child() and kin.
func parseAnPlusB(s string) (a, b int) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
	switch s {
	case "odd":
		return 2, 1
	case "even":
		return 2, 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return 0, v
	}
	m := anPlusBPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0
	}
	a = 1
	switch m[1] {
	case "", "+":
		a = 1
	case "-":
		a = -1
	default:
		if v, err := strconv.Atoi(m[1]); err == nil {
			a = v
		}
	}
	if m[2] != "" {
		if v, err := strconv.Atoi(m[2]); err == nil {
			b = v
		}
	}
	return a, b
}
