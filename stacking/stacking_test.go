package stacking

import (
	"testing"

	"github.com/tusf-zss/zss/boxtree"
)

func TestPushNoneIsTagOnly(t *testing.T) {
	m := NewManager(true)
	id := m.Push(Info{Kind: None}, boxtree.BlockRef{})
	if id != 0 {
		t.Errorf("got id %d, want 0 for Kind: None", id)
	}
	if len(m.Tree()) != 0 {
		t.Errorf("Kind: None must not create a tree entry, got %v", m.Tree())
	}
	m.Pop()
	if err := m.Done(); err != nil {
		t.Errorf("Done: %v", err)
	}
}

func TestPushParentableAssignsSequentialIDs(t *testing.T) {
	m := NewManager(false)
	a := m.Push(Info{Kind: Parentable}, boxtree.BlockRef{SubtreeID: 1})
	m.Pop()
	b := m.Push(Info{Kind: Parentable}, boxtree.BlockRef{SubtreeID: 2})
	m.Pop()
	if a != 1 || b != 2 {
		t.Errorf("got ids %d, %d, want 1, 2", a, b)
	}
}

func TestZIndexStableInsertion(t *testing.T) {
	m := NewManager(false)

	a := m.Push(Info{Kind: Parentable, ZIndex: 5}, boxtree.BlockRef{})
	m.Pop()
	b := m.Push(Info{Kind: Parentable, ZIndex: 2}, boxtree.BlockRef{})
	m.Pop()
	c := m.Push(Info{Kind: Parentable, ZIndex: 5}, boxtree.BlockRef{})
	m.Pop()

	tree := m.Tree()
	if len(tree) != 3 {
		t.Fatalf("got %d entries, want 3", len(tree))
	}
	gotIDs := []int{tree[0].ID, tree[1].ID, tree[2].ID}
	wantIDs := []int{b, a, c}
	for i := range gotIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Errorf("entry %d: got id %d, want %d (b before a, c after the existing z:5 sibling)", i, gotIDs[i], wantIDs[i])
		}
	}
	for i := 1; i < len(tree); i++ {
		if tree[i].ZIndex < tree[i-1].ZIndex {
			t.Errorf("tree not sorted by z-index: %+v", tree)
		}
	}
}

func TestNestedParentableAccumulatesSkip(t *testing.T) {
	m := NewManager(false)

	a := m.Push(Info{Kind: Parentable}, boxtree.BlockRef{})
	b := m.Push(Info{Kind: Parentable}, boxtree.BlockRef{})
	m.Pop() // closes b
	m.Pop() // closes a

	tree := m.Tree()
	if len(tree) != 2 {
		t.Fatalf("got %d entries, want 2", len(tree))
	}
	if tree[0].ID != a || tree[1].ID != b {
		t.Fatalf("got ids %d, %d, want %d, %d", tree[0].ID, tree[1].ID, a, b)
	}
	if tree[0].Skip != 2 {
		t.Errorf("a.Skip = %d, want 2 (covers itself and b)", tree[0].Skip)
	}
	if tree[1].Skip != 1 {
		t.Errorf("b.Skip = %d, want 1 (leaf)", tree[1].Skip)
	}
}

func TestNonParentableSiblingPromotion(t *testing.T) {
	m := NewManager(false)

	a := m.Push(Info{Kind: Parentable}, boxtree.BlockRef{})
	n := m.Push(Info{Kind: NonParentable}, boxtree.BlockRef{})
	m.Pop() // closes n; n has no children of its own
	c := m.Push(Info{Kind: Parentable, ZIndex: 1}, boxtree.BlockRef{})
	m.Pop() // closes c
	m.Pop() // closes a

	tree := m.Tree()
	if len(tree) != 3 {
		t.Fatalf("got %d entries, want 3", len(tree))
	}
	if tree[0].ID != a || tree[1].ID != n || tree[2].ID != c {
		t.Errorf("got ids %d,%d,%d, want %d,%d,%d (c attaches to a, as n's sibling)",
			tree[0].ID, tree[1].ID, tree[2].ID, a, n, c)
	}
	if tree[0].Skip != 3 {
		t.Errorf("a.Skip = %d, want 3 (covers a, n, and c)", tree[0].Skip)
	}
	if tree[1].Skip != 1 {
		t.Errorf("n.Skip = %d, want 1 (non-parentable, no descendants)", tree[1].Skip)
	}
}

func TestPushWithoutBlockAndSetBlock(t *testing.T) {
	m := NewManager(true)

	id := m.PushWithoutBlock(Info{Kind: Parentable})
	m.Pop()

	if err := m.Done(); err == nil {
		t.Error("expected Done to report the context with no block set yet")
	}

	ref := boxtree.BlockRef{SubtreeID: 3, BlockIndex: 7}
	m.SetBlock(id, ref)

	if err := m.Done(); err != nil {
		t.Errorf("Done after SetBlock: %v", err)
	}
	if m.Tree()[0].Ref != ref {
		t.Errorf("got ref %+v, want %+v", m.Tree()[0].Ref, ref)
	}
}

func TestDoneReportsUnclosedTag(t *testing.T) {
	m := NewManager(false)
	m.Push(Info{Kind: Parentable}, boxtree.BlockRef{})
	if err := m.Done(); err == nil {
		t.Error("expected Done to report the unclosed tag")
	}
}

func TestPaintSkipsDescendantsOwningTheirOwnContext(t *testing.T) {
	tree := boxtree.NewTree()
	s := tree.Subtree(0)
	root := s.AppendBlock(boxtree.BlockLevel)    // 0
	child := s.AppendBlock(boxtree.BlockLevel)   // 1, owns its own stacking context
	_ = s.AppendBlock(boxtree.BlockLevel)        // 2, grandchild of root, nested inside child
	s.SetSkip(child, 2)
	s.SetSkip(root, 3)
	s.AppendIFC(root)

	m := NewManager(false)
	rootCtx := m.Push(Info{Kind: Parentable}, boxtree.BlockRef{SubtreeID: 0, BlockIndex: root})
	s.StackingContextID[root] = rootCtx
	childCtx := m.Push(Info{Kind: Parentable}, boxtree.BlockRef{SubtreeID: 0, BlockIndex: child})
	s.StackingContextID[child] = childCtx
	m.Pop()
	m.Pop()

	cmds := Paint(tree, m.Tree())

	wantKinds := []PaintKind{PaintBackground, PaintIFC, PaintBackground, PaintBackground}
	wantBlocks := []boxtree.BlockIndex{root, -1, child, 2}
	if len(cmds) != len(wantKinds) {
		t.Fatalf("got %d commands, want %d: %+v", len(cmds), len(wantKinds), cmds)
	}
	for i, c := range cmds {
		if c.Kind != wantKinds[i] {
			t.Errorf("command %d: got kind %v, want %v (%+v)", i, c.Kind, wantKinds[i], cmds)
		}
		if c.Kind == PaintBackground && c.Block != wantBlocks[i] {
			t.Errorf("command %d: got block %d, want %d", i, c.Block, wantBlocks[i])
		}
	}
}

func TestCurrentIndexTracksInnermostContext(t *testing.T) {
	m := NewManager(false)
	if m.CurrentIndex() != -1 {
		t.Errorf("got %d, want -1 at the root", m.CurrentIndex())
	}
	m.Push(Info{Kind: Parentable}, boxtree.BlockRef{})
	if m.CurrentIndex() != 0 {
		t.Errorf("got %d, want 0 after opening the first context", m.CurrentIndex())
	}
	m.Pop()
	if m.CurrentIndex() != -1 {
		t.Errorf("got %d, want -1 after closing back to the root", m.CurrentIndex())
	}
}
