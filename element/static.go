package element

// Static is a small in-memory Tree used by this module's own tests (and
// available to callers that want a reference implementation rather than
// writing their own). It is built by describing nodes as a literal slice;
// Ref values are indices into that slice.
type Static struct {
	nodes []staticNode
}

type staticNode struct {
	category        Category
	namespace, name string
	text            string
	attrs           map[string]string
	decls           []Declaration
	parent          Ref
	firstChild      Ref
	nextSibling     Ref
	prevSibling     Ref
}

// NewStatic returns an empty tree; use AddElement/AddText to populate it.
func NewStatic() *Static {
	return &Static{}
}

// AddElement appends a new normal element as the last child of parent
// (or as a root if parent is NoRef) and returns its Ref.
func (s *Static) AddElement(parent Ref, namespace, name string, attrs map[string]string, decls ...Declaration) Ref {
	return s.add(parent, staticNode{
		category:  Normal,
		namespace: namespace,
		name:      name,
		attrs:     attrs,
		decls:     decls,
	})
}

// AddText appends a new text node as the last child of parent.
func (s *Static) AddText(parent Ref, text string) Ref {
	return s.add(parent, staticNode{category: Text, text: text})
}

func (s *Static) add(parent Ref, n staticNode) Ref {
	n.parent = parent
	n.firstChild = NoRef
	n.nextSibling = NoRef
	n.prevSibling = NoRef
	ref := Ref(len(s.nodes))
	s.nodes = append(s.nodes, n)

	if parent == NoRef {
		return ref
	}
	p := &s.nodes[parent]
	if p.firstChild == NoRef {
		p.firstChild = ref
		return ref
	}
	last := p.firstChild
	for s.nodes[last].nextSibling != NoRef {
		last = s.nodes[last].nextSibling
	}
	s.nodes[last].nextSibling = ref
	s.nodes[ref].prevSibling = last
	return ref
}

func (s *Static) Category(e Ref) Category { return s.nodes[e].category }

func (s *Static) TagName(e Ref) (string, string) {
	n := s.nodes[e]
	return n.namespace, n.name
}

func (s *Static) Parent(e Ref) (Ref, bool) {
	p := s.nodes[e].parent
	return p, p != NoRef
}

func (s *Static) FirstChild(e Ref) (Ref, bool) {
	c := s.nodes[e].firstChild
	return c, c != NoRef
}

func (s *Static) NextSibling(e Ref) (Ref, bool) {
	n := s.nodes[e].nextSibling
	return n, n != NoRef
}

func (s *Static) PrevSibling(e Ref) (Ref, bool) {
	p := s.nodes[e].prevSibling
	return p, p != NoRef
}

func (s *Static) Attr(e Ref, namespace, name string) (string, bool) {
	if namespace != "" {
		return "", false
	}
	v, ok := s.nodes[e].attrs[name]
	return v, ok
}

func (s *Static) Declarations(e Ref) []Declaration {
	return s.nodes[e].decls
}

func (s *Static) Text(e Ref) string {
	return s.nodes[e].text
}
