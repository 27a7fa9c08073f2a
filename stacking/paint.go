package stacking

import "github.com/tusf-zss/zss/boxtree"

// PaintKind distinguishes the two command shapes Paint emits.
type PaintKind int

const (
	PaintBackground PaintKind = iota
	PaintIFC
)

// PaintCommand is one step of the consumer-facing paint sequence spec.md
// §6's "Box tree consumer contract" describes. Block is valid when Kind
// is PaintBackground; IFCIndex is valid when Kind is PaintIFC.
type PaintCommand struct {
	Kind      PaintKind
	SubtreeID int
	Block     boxtree.BlockIndex
	IFCIndex  int
}

// Paint enumerates tree in spec.md §6's paint order: a preorder walk of
// the stacking-context tree (entries, as built by a Manager and returned
// by its Tree method — already sorted by z-index, document order among
// equals); for each context, its owning block's subtree paints root
// block background, descendant block backgrounds, then inline formatting
// contexts, in that order. A descendant block that itself owns a
// stacking context (and its whole descendant range) is skipped here —
// it paints on its own turn, at its own position in entries.
func Paint(tree *boxtree.Tree, entries []Entry) []PaintCommand {
	var out []PaintCommand
	for i := range entries {
		paintContext(tree, entries[i].Ref, &out)
	}
	return out
}

func paintContext(tree *boxtree.Tree, ref boxtree.BlockRef, out *[]PaintCommand) {
	s := tree.Subtree(ref.SubtreeID)
	if s == nil {
		return
	}
	root := ref.BlockIndex
	end := int(root) + s.Skip[root]

	*out = append(*out, PaintCommand{Kind: PaintBackground, SubtreeID: s.ID, Block: root})
	for i := int(root) + 1; i < end; {
		bi := boxtree.BlockIndex(i)
		if s.StackingContextID[bi] >= 0 {
			i += s.Skip[bi]
			continue
		}
		*out = append(*out, PaintCommand{Kind: PaintBackground, SubtreeID: s.ID, Block: bi})
		i++
	}

	if s.IFCIndex[root] >= 0 {
		*out = append(*out, PaintCommand{Kind: PaintIFC, SubtreeID: s.ID, IFCIndex: s.IFCIndex[root]})
	}
	for i := int(root) + 1; i < end; {
		bi := boxtree.BlockIndex(i)
		if s.StackingContextID[bi] >= 0 {
			i += s.Skip[bi]
			continue
		}
		if s.IFCIndex[bi] >= 0 {
			*out = append(*out, PaintCommand{Kind: PaintIFC, SubtreeID: s.ID, IFCIndex: s.IFCIndex[bi]})
		}
		i++
	}
}
