// Package layout implements the two-pass flow layout algorithm (spec.md
// §4.H): a box-generation pass that walks the element tree and produces
// the box tree's geometry, stacking contexts, and inline formatting
// contexts, followed by a cosmetic pass that fills in colours and
// backgrounds without touching geometry.
package layout

import (
	"context"
	"fmt"

	"github.com/tusf-zss/zss/boxtree"
	"github.com/tusf-zss/zss/element"
	"github.com/tusf-zss/zss/font"
	"github.com/tusf-zss/zss/image"
	"github.com/tusf-zss/zss/stacking"
	"github.com/tusf-zss/zss/style"
	"github.com/tusf-zss/zss/stylesheet"
	"github.com/tusf-zss/zss/zssunit"
)

// Stylesheet pairs a parsed stylesheet with the cascade origin it
// contributes at (spec.md §4.F); Run adds each to its style computer in
// the order given before box-gen begins.
type Stylesheet struct {
	Sheet  *stylesheet.Stylesheet
	Origin style.Origin
}

// Viewport is the initial containing block's size, in CSS pixels.
type Viewport struct {
	Width, Height float64
}

// Config bounds the resources one layout run may consume (spec.md §5:
// "arenas are used for per-stage allocations"; this engine instead bounds
// allocation with explicit ceilings and fails with a typed error, the
// closest equivalent without implementing its own arena allocator).
// Zero fields fall back to DefaultConfig's ceilings.
type Config struct {
	MaxBlockSubtrees int
	MaxBlocks        int
	MaxIFCs          int
	MaxInlineBoxes   int
}

// DefaultConfig returns generous ceilings suitable for a single document.
func DefaultConfig() Config {
	return Config{
		MaxBlockSubtrees: 4096,
		MaxBlocks:        1 << 16,
		MaxIFCs:          1 << 16,
		MaxInlineBoxes:   1 << 18,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxBlockSubtrees <= 0 {
		c.MaxBlockSubtrees = d.MaxBlockSubtrees
	}
	if c.MaxBlocks <= 0 {
		c.MaxBlocks = d.MaxBlocks
	}
	if c.MaxIFCs <= 0 {
		c.MaxIFCs = d.MaxIFCs
	}
	if c.MaxInlineBoxes <= 0 {
		c.MaxInlineBoxes = d.MaxInlineBoxes
	}
	return c
}

// Error is the typed error layout.Run returns on a capacity or value
// failure (spec.md §6's LayoutError, §7 class 3). Kind reuses boxtree's
// error-kind enum directly rather than duplicating it — both packages
// describe the same failure set.
type Error struct {
	Kind  boxtree.ErrorKind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("layout: %s", e.Kind)
	}
	return fmt.Sprintf("layout: %s: %v", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func capacityError(kind boxtree.ErrorKind) error { return &Error{Kind: kind} }

// containingBlock is what a child needs from its containing block to
// resolve its own box: the content width/height available, and whether
// the height is definite (a percentage height resolves against it only
// when it is).
type containingBlock struct {
	Width, Height  zssunit.Unit
	HeightDefinite bool
	// OriginX, OriginY is where this containing block's content box sits,
	// in the owning subtree's coordinate space; children are placed
	// relative to it.
	OriginX, OriginY zssunit.Unit
}

type builder struct {
	tree     *boxtree.Tree
	elements element.Tree
	images   image.Set
	fonts    font.Collaborator
	computer *style.Computer
	stack    *stacking.Manager
	cfg      Config

	blocks      int
	ifcs        int
	inlineBoxes int
	subtrees    int

	// cosmeticSubtreeCursor tracks the next subtree id the cosmetic pass
	// should descend into for an inline-block, matching box-gen's subtree
	// allocation order (see cosmetic.go's paintInlineBlockRef).
	cosmeticSubtreeCursor int
}

func (b *builder) newSubtree() (*boxtree.Subtree, error) {
	if b.subtrees+1 > b.cfg.MaxBlockSubtrees {
		return nil, capacityError(boxtree.TooManyBlockSubtrees)
	}
	id := b.tree.OpenSubtree()
	b.subtrees++
	return b.tree.Subtree(id), nil
}

func (b *builder) appendBlock(s *boxtree.Subtree, typ boxtree.BoxType) (boxtree.BlockIndex, error) {
	if b.blocks+1 > b.cfg.MaxBlocks {
		return 0, capacityError(boxtree.TooManyBlocks)
	}
	b.blocks++
	return s.AppendBlock(typ), nil
}

func (b *builder) appendIFC(s *boxtree.Subtree, i boxtree.BlockIndex) (int, error) {
	if b.ifcs+1 > b.cfg.MaxIFCs {
		return 0, capacityError(boxtree.TooManyIfcs)
	}
	b.ifcs++
	return s.AppendIFC(i), nil
}

func (b *builder) appendInlineBox(s *boxtree.Subtree, ifcIdx int, ib boxtree.InlineBox) error {
	if b.inlineBoxes+1 > b.cfg.MaxInlineBoxes {
		return capacityError(boxtree.TooManyInlineBoxes)
	}
	b.inlineBoxes++
	s.IFCs[ifcIdx].Boxes = append(s.IFCs[ifcIdx].Boxes, ib)
	return nil
}

// Run lays out elements starting at root against viewport, producing a
// complete box tree plus the stacking-context tree entries spec.md §6's
// "Box tree consumer contract" enumerates paint order from (pass both to
// stacking.Paint), or a typed error. It is synchronous; ctx is checked
// for cancellation once between the box-gen and cosmetic passes, matching
// spec.md §5's "the caller may abort between phases".
func Run(ctx context.Context, elements element.Tree, root element.Ref, sheets []Stylesheet, images image.Set, fonts font.Collaborator, viewport Viewport, cfg Config) (*boxtree.Tree, []stacking.Entry, error) {
	cfg = cfg.withDefaults()
	tree := boxtree.NewTree()
	computer := style.NewComputer(elements)
	computer.SetRootElement(root)
	for _, sheet := range sheets {
		computer.AddStylesheet(sheet.Sheet, sheet.Origin)
	}

	b := &builder{
		tree:     tree,
		elements: elements,
		images:   images,
		fonts:    fonts,
		computer: computer,
		stack:    stacking.NewManager(true),
		cfg:      cfg,
		subtrees: 1,
	}

	icb := tree.Subtree(0)
	icbIdx, err := b.appendBlock(icb, boxtree.BlockLevel)
	if err != nil {
		return nil, nil, err
	}
	w, h := zssunit.FromPixels(viewport.Width), zssunit.FromPixels(viewport.Height)
	icb.ContentSizeW[icbIdx] = w
	icb.ContentSizeH[icbIdx] = h
	icb.BorderSizeW[icbIdx] = w
	icb.BorderSizeH[icbIdx] = h

	ctxID := b.stack.Push(stacking.Info{Kind: stacking.Parentable}, boxtree.InitialContainingBlock)
	icb.StackingContextID[icbIdx] = ctxID

	cb := containingBlock{Width: w, Height: h, HeightDefinite: true}

	computer.PushElement(style.BoxGen, root)
	err = b.layoutRoot(icb, root, cb)
	computer.PopElement(style.BoxGen)
	if err != nil {
		return nil, nil, err
	}

	b.stack.Pop()
	icb.SetSkip(icbIdx, icb.Len())

	// spec.md §4.G's destruction invariant: a completed layout leaves the
	// stacking manager's tag/context stacks empty and every pushed context
	// resolved to a real block. A violation here means this package's own
	// push/pop discipline is broken, not that the input was bad.
	if err := b.stack.Done(); err != nil {
		panic(fmt.Sprintf("layout: internal error: %v", err))
	}

	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	default:
	}

	computer.PushElement(style.Cosmetic, root)
	b.runCosmeticPass(icb, icbIdx, root, nil)
	computer.PopElement(style.Cosmetic)

	return tree, b.stack.Tree(), nil
}
