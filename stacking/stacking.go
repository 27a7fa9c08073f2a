// Package stacking implements the stacking-context manager (spec.md
// §4.G): the tag/context stack machinery layout uses while walking the
// element tree, and the skip-encoded stacking-context tree it builds as a
// side effect.
package stacking

import (
	"fmt"

	"github.com/tusf-zss/zss/boxtree"
)

// Kind is what a Push call creates.
type Kind int

const (
	None Kind = iota
	Parentable
	NonParentable
)

// Info is the push argument: info.Kind == None ignores ZIndex.
type Info struct {
	Kind   Kind
	ZIndex int
}

// Entry is one node of the skip-encoded stacking-context tree (spec.md
// §3, "Stacking-Context Tree"). IFCs is reserved for the layout package
// to attach inline-formatting-context indices to once painting order is
// known; this package never populates it.
type Entry struct {
	Skip   int
	ID     int
	ZIndex int
	Ref    boxtree.BlockRef
	IFCs   []int
}

// debugTracker records contexts pushed via PushWithoutBlock whose ref is
// not yet set. A no-op in release builds, set-backed when debug is
// requested at construction — a runtime-selected strategy rather than a
// build tag, since Go has no compile-time conditional compilation for
// this.
type debugTracker interface {
	markIncomplete(id int)
	markComplete(id int)
	empty() bool
}

type noopTracker struct{}

func (noopTracker) markIncomplete(int) {}
func (noopTracker) markComplete(int)   {}
func (noopTracker) empty() bool        { return true }

type setTracker struct{ ids map[int]bool }

func newSetTracker() *setTracker { return &setTracker{ids: map[int]bool{}} }
func (t *setTracker) markIncomplete(id int) { t.ids[id] = true }
func (t *setTracker) markComplete(id int)   { delete(t.ids, id) }
func (t *setTracker) empty() bool           { return len(t.ids) == 0 }

// child is one parent's bookkeeping entry for a context it hosts: enough
// to place the next sibling (its zIndex and final skip) without needing
// to re-walk the flat tree.
type child struct {
	id     int
	zIndex int
	skip   int
}

// openContext is a currently open parentable context (or the implicit
// root holding the top-level contexts).
type openContext struct {
	nodeIndex int // this context's own position in the flat tree; -1 for the implicit root
	id        int
	zIndex    int
	children  []child
}

// Manager is the stacking-context manager. The zero value is not usable;
// construct with NewManager.
type Manager struct {
	tree    []Entry
	tagStack []Kind
	contextStack []*openContext
	root    *openContext

	nextID       int
	currentIndex int
	tracker      debugTracker
}

// NewManager returns an empty Manager. debug enables incomplete-context
// tracking for PushWithoutBlock/SetBlock pairing (spec.md §4.G's
// debug-build "incompletes" set).
func NewManager(debug bool) *Manager {
	var tracker debugTracker = noopTracker{}
	if debug {
		tracker = newSetTracker()
	}
	root := &openContext{nodeIndex: -1}
	return &Manager{
		contextStack: []*openContext{root},
		root:         root,
		nextID:       1,
		currentIndex: -1,
		tracker:      tracker,
	}
}

func (m *Manager) currentParent() *openContext {
	return m.contextStack[len(m.contextStack)-1]
}

// insertionIndex returns the position within parent.children where a new
// context with zIndex z belongs: after every existing child with z <= z,
// before the first with a strictly greater z (spec.md §4.G: "inserted
// after all equal-z existing children — stable, paint order = document
// order among equals").
func insertionIndex(children []child, z int) int {
	i := 0
	for i < len(children) && children[i].zIndex <= z {
		i++
	}
	return i
}

func sumSkip(children []child, upTo int) int {
	total := 0
	for i := 0; i < upTo; i++ {
		total += children[i].skip
	}
	return total
}

// Push opens a context (or, for info.Kind == None, just a tag) per
// spec.md §4.G. Returns the allocated id, or 0 for Kind == None.
func (m *Manager) Push(info Info, ref boxtree.BlockRef) int {
	if info.Kind == None {
		m.tagStack = append(m.tagStack, None)
		return 0
	}

	parent := m.currentParent()
	idx := insertionIndex(parent.children, info.ZIndex)
	offset := parent.nodeIndex + 1 + sumSkip(parent.children, idx)

	id := m.nextID
	m.nextID++

	entry := Entry{Skip: 1, ID: id, ZIndex: info.ZIndex, Ref: ref}
	m.tree = append(m.tree, Entry{})
	copy(m.tree[offset+1:], m.tree[offset:])
	m.tree[offset] = entry

	c := child{id: id, zIndex: info.ZIndex, skip: 1}
	parent.children = append(parent.children, child{})
	copy(parent.children[idx+1:], parent.children[idx:])
	parent.children[idx] = c

	switch info.Kind {
	case Parentable:
		m.tagStack = append(m.tagStack, Parentable)
		ctx := &openContext{nodeIndex: offset, id: id, zIndex: info.ZIndex}
		m.contextStack = append(m.contextStack, ctx)
		m.currentIndex = offset
	case NonParentable:
		m.tagStack = append(m.tagStack, NonParentable)
		// No context pushed — anything created beneath a non-parentable
		// context attaches to its nearest parentable ancestor instead.
	}

	return id
}

// PushWithoutBlock is Push with a placeholder ref; the caller must later
// call SetBlock(id, ref) or the context is left with an invalid ref
// (safety-checked undefined per spec.md §4.G — Done reports it in debug
// builds).
func (m *Manager) PushWithoutBlock(info Info) int {
	id := m.Push(info, boxtree.BlockRef{SubtreeID: -1, BlockIndex: -1})
	if info.Kind != None {
		m.tracker.markIncomplete(id)
	}
	return id
}

// SetBlock scans the tree for id and patches its ref, completing a
// PushWithoutBlock.
func (m *Manager) SetBlock(id int, ref boxtree.BlockRef) {
	for i := range m.tree {
		if m.tree[i].ID == id {
			m.tree[i].Ref = ref
			m.tracker.markComplete(id)
			return
		}
	}
}

// Pop closes the innermost open tag. If it was parentable, the
// accumulated skip is written back into its tree entry and folded into
// its parent's running skip; current_index is updated to the parent.
func (m *Manager) Pop() {
	n := len(m.tagStack)
	if n == 0 {
		return
	}
	kind := m.tagStack[n-1]
	m.tagStack = m.tagStack[:n-1]
	if kind != Parentable {
		return
	}

	ctx := m.contextStack[len(m.contextStack)-1]
	m.contextStack = m.contextStack[:len(m.contextStack)-1]

	finalSkip := 1 + sumSkip(ctx.children, len(ctx.children))
	m.tree[ctx.nodeIndex].Skip = finalSkip

	parent := m.currentParent()
	for i := range parent.children {
		if parent.children[i].id == ctx.id {
			parent.children[i].skip = finalSkip
			break
		}
	}

	if len(m.contextStack) > 1 {
		m.currentIndex = m.currentParent().nodeIndex
	} else {
		m.currentIndex = -1
	}
}

// Tree returns the stacking-context tree built so far, in document
// (preorder) order.
func (m *Manager) Tree() []Entry { return m.tree }

// CurrentIndex is the tree index of the innermost open parentable
// context, or -1 at the root.
func (m *Manager) CurrentIndex() int { return m.currentIndex }

// Done reports whether the manager has returned to its initial state:
// both stacks empty and (in debug builds) no incomplete contexts. Callers
// invoke this once layout finishes, matching spec.md §4.G's destruction
// invariant.
func (m *Manager) Done() error {
	if len(m.tagStack) != 0 {
		return fmt.Errorf("stacking: %d unclosed tag(s) at manager destruction", len(m.tagStack))
	}
	if len(m.contextStack) != 1 {
		return fmt.Errorf("stacking: %d unclosed context(s) at manager destruction", len(m.contextStack)-1)
	}
	if !m.tracker.empty() {
		return fmt.Errorf("stacking: incomplete context(s) with no block set at manager destruction")
	}
	return nil
}
