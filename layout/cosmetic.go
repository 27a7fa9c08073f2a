package layout

import (
	"github.com/tusf-zss/zss/boxtree"
	"github.com/tusf-zss/zss/element"
	"github.com/tusf-zss/zss/style"
	"github.com/tusf-zss/zss/value"
)

// runCosmeticPass is the second traversal spec.md §4.H describes: it walks
// the same element structure the box-gen pass already visited and writes
// background/border colours into the box tree's cosmetic columns. It never
// touches geometry, never opens a subtree or stacking context, and never
// fails on capacity — every block it visits was already counted during
// box-gen.
//
// parentIdx is the block within s that introduced the current recursion
// level's running block index, or nil at the root.
func (b *builder) runCosmeticPass(s *boxtree.Subtree, idx boxtree.BlockIndex, e element.Ref, parentIdx *boxtree.BlockIndex) {
	if b.elements.Category(e) == element.Text {
		b.paintTextRuns(s, idx)
		return
	}

	s.Background[idx] = b.color(style.Cosmetic, "background-color")
	s.BorderColor[idx] = [4]value.Color{
		b.color(style.Cosmetic, "border-top-color"),
		b.color(style.Cosmetic, "border-right-color"),
		b.color(style.Cosmetic, "border-bottom-color"),
		b.color(style.Cosmetic, "border-left-color"),
	}

	b.paintTextRuns(s, idx)

	b.descendCosmetic(s, idx, e)
}

// paintTextRuns resolves the current element's text colour into every
// InlineBox belonging to the IFC flushed into idx, if any.
func (b *builder) paintTextRuns(s *boxtree.Subtree, idx boxtree.BlockIndex) {
	ifcIdx := s.IFCIndex[idx]
	if ifcIdx < 0 {
		return
	}
	c := b.color(style.Cosmetic, "color")
	boxes := s.IFCs[ifcIdx].Boxes
	for i := range boxes {
		boxes[i].Color = c
	}
}

// descendCosmetic repeats the box-gen pass's block/inline-block
// recursion structure purely to keep the style computer's ancestry stack
// synchronized with each descendant while resolving cosmetic properties.
func (b *builder) descendCosmetic(s *boxtree.Subtree, idx boxtree.BlockIndex, e element.Ref) {
	nextBlock := int(idx) + 1
	element.Children(b.elements, e, func(child element.Ref) bool {
		if b.elements.Category(child) == element.Text {
			return true
		}
		b.computer.PushElement(style.Cosmetic, child)
		display := b.effectiveDisplay(child, false)
		if display == "none" {
			b.computer.PopElement(style.Cosmetic)
			return true
		}
		if display == "inline" {
			b.descendCosmeticInline(s, idx, child)
			b.computer.PopElement(style.Cosmetic)
			return true
		}
		if display == "block" {
			childIdx := boxtree.BlockIndex(nextBlock)
			b.runCosmeticPass(s, childIdx, child, &idx)
			nextBlock += s.Skip[childIdx]
			b.computer.PopElement(style.Cosmetic)
			return true
		}
		// inline-block: its geometry lives in its own subtree rather than
		// this flat array; paintInlineBlockRef runs its cosmetic recursion
		// right here, in element order.
		b.paintInlineBlockRef(child)
		b.computer.PopElement(style.Cosmetic)
		return true
	})
}

// descendCosmeticInline recurses through a plain `display: inline`
// wrapper, painting its own text runs (which share idx's IFC) and
// descending into its children the same way.
func (b *builder) descendCosmeticInline(s *boxtree.Subtree, idx boxtree.BlockIndex, e element.Ref) {
	ifcIdx := s.IFCIndex[idx]
	c := b.color(style.Cosmetic, "color")
	element.Children(b.elements, e, func(child element.Ref) bool {
		if b.elements.Category(child) == element.Text {
			if ifcIdx >= 0 {
				boxes := s.IFCs[ifcIdx].Boxes
				for i := range boxes {
					boxes[i].Color = c
				}
			}
			return true
		}
		b.computer.PushElement(style.Cosmetic, child)
		display := b.effectiveDisplay(child, false)
		switch display {
		case "none":
		case "inline":
			b.descendCosmeticInline(s, idx, child)
		default:
			b.paintInlineBlockRef(child)
		}
		b.computer.PopElement(style.Cosmetic)
		return true
	})
}

// paintInlineBlockRef walks an inline-block's own subtree to paint its
// cosmetic columns. The subtree was created during box-gen; since the
// parent's IFC carries no subtree reference, this pass finds it by
// advancing cosmeticSubtreeCursor, mirroring box-gen's own subtree
// allocation order, and recurses into it rooted at e.
func (b *builder) paintInlineBlockRef(e element.Ref) {
	// The box-gen pass allocated exactly one subtree per inline-block in
	// element-visitation order; the cosmetic pass repeats that same
	// traversal order, so the next unvisited subtree is always this one.
	b.cosmeticSubtreeCursor++
	sub := b.tree.Subtree(b.cosmeticSubtreeCursor)
	b.runCosmeticPass(sub, 0, e, nil)
}
