// Package boxtree defines the box tree layout produces (spec.md §3, "Box
// Tree"): a set of flat, skip-encoded block subtrees (subtree 0 for the
// initial containing block and normal flow, one more per inline-block),
// plus the typed error set layout entry points return on capacity failure.
package boxtree

import (
	"fmt"

	"github.com/tusf-zss/zss/value"
	"github.com/tusf-zss/zss/zssunit"
)

// ErrorKind enumerates exactly spec.md §6's error set.
type ErrorKind int

const (
	InvalidValue ErrorKind = iota
	OutOfMemory
	OutOfRefs
	TooManyBlockSubtrees
	TooManyBlocks
	TooManyIfcs
	TooManyInlineBoxes
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidValue:
		return "InvalidValue"
	case OutOfMemory:
		return "OutOfMemory"
	case OutOfRefs:
		return "OutOfRefs"
	case TooManyBlockSubtrees:
		return "TooManyBlockSubtrees"
	case TooManyBlocks:
		return "TooManyBlocks"
	case TooManyIfcs:
		return "TooManyIfcs"
	case TooManyInlineBoxes:
		return "TooManyInlineBoxes"
	default:
		return "Unknown"
	}
}

// Error is the typed error layout entry points bubble up on a capacity
// boundary (spec.md §7 class 3). The box tree under construction is
// dropped in full when one occurs — there is no partial commit.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return "boxtree: " + e.Kind.String()
	}
	return fmt.Sprintf("boxtree: %s: %s", e.Kind, e.Msg)
}

// BoxType distinguishes the kinds of block a subtree entry can be.
type BoxType int

const (
	BlockLevel BoxType = iota
	InlineBlockLevel
)

// BlockIndex indexes into one Subtree's parallel columns.
type BlockIndex int

// BlockRef identifies a block across subtrees — the box tree holds several
// subtrees, so a ref naming a block elsewhere in the box tree always needs
// both halves.
type BlockRef struct {
	SubtreeID  int
	BlockIndex BlockIndex
}

// InitialContainingBlock is block 0 of subtree 0, sized to the viewport
// by the layout entry point before any content is laid out.
var InitialContainingBlock = BlockRef{SubtreeID: 0, BlockIndex: 0}

// Sides holds one value per physical side, top/right/bottom/left — used
// for both border widths and margins.
type Sides struct {
	Top, Right, Bottom, Left zssunit.Unit
}

// Subtree is one flat, skip-encoded array of blocks. Layout opens subtree
// 0 for the initial containing block and every normal-flow block, and one
// more per inline-block. A positioned block that creates a stacking
// context does not get a subtree of its own: it stays in its parent's
// subtree, marked by its StackingContextID.
type Subtree struct {
	ID int

	Skip  []int
	Type  []BoxType
	StackingContextID []int // -1 if the block does not itself own a context

	BorderX, BorderY   []zssunit.Unit // border box top-left
	ContentX, ContentY []zssunit.Unit // content box top-left
	BorderSizeW, BorderSizeH []zssunit.Unit
	ContentSizeW, ContentSizeH []zssunit.Unit

	BorderWidth []Sides
	BorderColor [][4]value.Color // top,right,bottom,left
	Margin      []Sides

	Background []value.Color

	// IFCIndex maps a block to the inline formatting context flushed
	// directly into it, or -1 if the block has no inline content of its
	// own (spec.md §4.H: "at the end of the run the IFC is flushed into
	// the subtree").
	IFCIndex []int
	IFCs     []IFC
}

// InlineBox is one laid-out, line-broken run of text within an inline
// formatting context. Shaping and line-breaking happen before an
// InlineBox exists; by the time one is appended its geometry is final.
type InlineBox struct {
	X, Y          zssunit.Unit
	Width, Height zssunit.Unit
	Text          string
	Color         value.Color // filled by the cosmetic pass; zero until then
}

// IFC is one inline formatting context: the ordered sequence of inline
// boxes produced by line-breaking a run of inline-level content inside a
// single containing block.
type IFC struct {
	Boxes []InlineBox
}

// Tree is the full layout result: every opened Subtree, indexable by id.
type Tree struct {
	Subtrees []*Subtree
}

// NewTree returns an empty Tree with subtree 0 pre-opened (the initial
// containing block always lives there).
func NewTree() *Tree {
	t := &Tree{}
	t.OpenSubtree()
	return t
}

// OpenSubtree appends a new, empty Subtree and returns its id.
func (t *Tree) OpenSubtree() int {
	id := len(t.Subtrees)
	t.Subtrees = append(t.Subtrees, &Subtree{ID: id})
	return id
}

// Subtree returns the subtree with the given id, or nil if out of range.
func (t *Tree) Subtree(id int) *Subtree {
	if id < 0 || id >= len(t.Subtrees) {
		return nil
	}
	return t.Subtrees[id]
}

// AppendBlock appends a new block to s with Skip 1 (callers patch Skip
// once the block's descendants have all been appended) and every other
// column zero-valued. It returns the new block's index.
func (s *Subtree) AppendBlock(typ BoxType) BlockIndex {
	s.Skip = append(s.Skip, 1)
	s.Type = append(s.Type, typ)
	s.StackingContextID = append(s.StackingContextID, -1)
	s.BorderX = append(s.BorderX, 0)
	s.BorderY = append(s.BorderY, 0)
	s.ContentX = append(s.ContentX, 0)
	s.ContentY = append(s.ContentY, 0)
	s.BorderSizeW = append(s.BorderSizeW, 0)
	s.BorderSizeH = append(s.BorderSizeH, 0)
	s.ContentSizeW = append(s.ContentSizeW, 0)
	s.ContentSizeH = append(s.ContentSizeH, 0)
	s.BorderWidth = append(s.BorderWidth, Sides{})
	s.BorderColor = append(s.BorderColor, [4]value.Color{})
	s.Margin = append(s.Margin, Sides{})
	s.Background = append(s.Background, value.Color{})
	s.IFCIndex = append(s.IFCIndex, -1)
	return BlockIndex(len(s.Skip) - 1)
}

// AppendIFC appends an empty IFC and wires it to block i, returning the
// IFC's index within s.IFCs. A block owns at most one IFC.
func (s *Subtree) AppendIFC(i BlockIndex) int {
	idx := len(s.IFCs)
	s.IFCs = append(s.IFCs, IFC{})
	s.IFCIndex[i] = idx
	return idx
}

// Len returns the number of blocks appended to s so far.
func (s *Subtree) Len() int { return len(s.Skip) }

// SetSkip patches a previously appended block's skip once its descendant
// range is fully known (mirroring cssom.Tree's own skip-patch pattern —
// children are appended depth-first before the parent's final skip value
// is knowable).
func (s *Subtree) SetSkip(i BlockIndex, skip int) { s.Skip[i] = skip }

// Children yields the direct children of the block at i, the same
// O(children) walk cssom.Tree.Children provides for component nodes.
func (s *Subtree) Children(i BlockIndex) []BlockIndex {
	var out []BlockIndex
	end := int(i) + s.Skip[i]
	c := int(i) + 1
	for c < end {
		out = append(out, BlockIndex(c))
		c += s.Skip[c]
	}
	return out
}
