// Package element defines the narrow, read-only contract the layout
// engine expects of a caller-supplied element tree (spec.md §3,
// "Element Tree (external)"). It is deliberately not a DOM: no mutation,
// no live collections, no event system — just enough navigation and
// declaration lookup for the style computer and layout to walk the tree.
package element

// Category distinguishes the two kinds of node the engine lays out
// differently: a normal element (participates in box generation per its
// computed display) or a text node (always laid out as an inline run).
type Category int

const (
	Normal Category = iota
	Text
)

func (c Category) String() string {
	if c == Text {
		return "text"
	}
	return "normal"
}

// Ref is an opaque handle into a Tree. NoRef (-1) is never a valid
// reference, while the zero value may be one (Static uses 0 for its first
// element); Tree implementations define their own representation
// underneath (an index, a pointer-sized id, …) and must treat Ref as
// comparable.
type Ref int

// NoRef is the sentinel "no such element" value returned by navigation
// methods at the edges of the tree.
const NoRef Ref = -1

// Declaration is one raw, unparsed property/value pair attached directly
// to an element (e.g. from a `style` attribute), as opposed to a rule
// matched from a stylesheet. The style computer parses Value on demand
// via cssom.ParseComponentValues, the same as a stylesheet declaration's
// body — inline declarations are not a special case past this point.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Tree is the contract a caller implements over its own element/DOM
// representation. All methods are read-only; layout never mutates it.
type Tree interface {
	Category(e Ref) Category

	// TagName returns the element's namespace (empty for "no namespace")
	// and local name. Called only for Category == Normal.
	TagName(e Ref) (namespace, local string)

	Parent(e Ref) (Ref, bool)
	FirstChild(e Ref) (Ref, bool)
	NextSibling(e Ref) (Ref, bool)
	PrevSibling(e Ref) (Ref, bool)

	// Attr looks up an attribute by local name (namespace "" matches an
	// unprefixed attribute). ok is false if the attribute is absent.
	Attr(e Ref, namespace, name string) (value string, ok bool)

	// Declarations returns e's own inline declarations, in source order.
	Declarations(e Ref) []Declaration

	// Text returns the text content of a Category == Text node.
	Text(e Ref) string
}

// Children walks t starting at the first child of e, calling yield for
// each direct child in document order until yield returns false.
func Children(t Tree, e Ref, yield func(Ref) bool) {
	child, ok := t.FirstChild(e)
	for ok {
		if !yield(child) {
			return
		}
		child, ok = t.NextSibling(child)
	}
}

// ID returns the element's `id` attribute, or "" if absent.
func ID(t Tree, e Ref) string {
	v, _ := t.Attr(e, "", "id")
	return v
}

// HasClass reports whether name appears in e's space-separated `class`
// attribute.
func HasClass(t Tree, e Ref, name string) bool {
	v, ok := t.Attr(e, "", "class")
	if !ok {
		return false
	}
	start := -1
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ' ' || v[i] == '\t' || v[i] == '\n' {
			if start >= 0 && v[start:i] == name {
				return true
			}
			start = -1
		} else if start < 0 {
			start = i
		}
	}
	return false
}
