package layout

import (
	"github.com/tusf-zss/zss/boxtree"
	"github.com/tusf-zss/zss/element"
	"github.com/tusf-zss/zss/stacking"
	"github.com/tusf-zss/zss/style"
	"github.com/tusf-zss/zss/value"
	"github.com/tusf-zss/zss/zssunit"
)

// sizes holds one element's fully resolved box-model values, mirroring
// the grouping the teacher's calculateBlockWidth/calculateBlockPosition
// build up field by field before writing them into a LayoutBox.
type sizes struct {
	marginTop, marginRight, marginBottom, marginLeft           zssunit.Unit
	marginLeftAuto, marginRightAuto                            bool
	paddingTop, paddingRight, paddingBottom, paddingLeft       zssunit.Unit
	borderTop, borderRight, borderBottom, borderLeft           zssunit.Unit
	borderColor                                                 [4]value.Color
	contentWidth, contentHeight                                 zssunit.Unit
	heightAuto                                                  bool
	background                                                  value.Color
	position                                                    string
	zIndex                                                       value.ZIndex
	display                                                      string
}

func (b *builder) specifiedValue(stage style.Stage, prop string) (style.Value, bool) {
	return b.computer.GetSpecifiedValue(stage, prop)
}

func (b *builder) length(stage style.Stage, prop string) value.LengthPercentage {
	v, ok := b.specifiedValue(stage, prop)
	if !ok || v.Kind != style.KindLength {
		return value.LengthPercentage{Kind: value.LPLength}
	}
	return v.Length
}

func (b *builder) keyword(stage style.Stage, prop string) string {
	v, ok := b.specifiedValue(stage, prop)
	if !ok || v.Kind != style.KindKeyword {
		return ""
	}
	return string(v.Keyword)
}

func (b *builder) color(stage style.Stage, prop string) value.Color {
	v, ok := b.specifiedValue(stage, prop)
	currentColor, _ := b.specifiedValue(stage, "color")
	if !ok {
		return value.Color{}
	}
	resolved, err := style.ResolveColor(v, currentColor)
	if err != nil {
		return value.Color{}
	}
	return resolved
}

// resolve turns a length-percentage into a concrete unit against
// containing: percentages resolve against it, auto yields autoVal.
func resolve(lp value.LengthPercentage, containing, autoVal zssunit.Unit) zssunit.Unit {
	switch lp.Kind {
	case value.LPPercent:
		return zssunit.Unit(float64(containing) * lp.Percent / 100)
	case value.LPAuto:
		return autoVal
	default:
		return lp.Length
	}
}

func clampNonNegative(u zssunit.Unit) zssunit.Unit {
	if u < 0 {
		return 0
	}
	return u
}

// effectiveDisplay resolves the specified display into the set flow
// layout distinguishes: block, inline, inline-block, none, or text (for
// a Category == Text node, which never has its own style).
func (b *builder) effectiveDisplay(e element.Ref, asRoot bool) string {
	if b.elements.Category(e) == element.Text {
		return "text"
	}
	d := b.keyword(style.BoxGen, "display")
	if d == "" {
		d = "inline"
	}
	if asRoot && (d == "inline" || d == "inline-block") {
		d = "block"
	}
	return d
}

// readBoxModel gathers every box-model property flow layout needs for one
// element, already pushed onto the style computer. containingWidth is the
// containing block's width, which CSS2.1 §8.3 resolves percentages in
// all four margins against (including the vertical ones).
func (b *builder) readBoxModel(containingWidth zssunit.Unit) sizes {
	var s sizes
	s.marginTop = resolve(b.length(style.BoxGen, "margin-top"), containingWidth, 0)
	s.marginBottom = resolve(b.length(style.BoxGen, "margin-bottom"), containingWidth, 0)

	mlLP := b.length(style.BoxGen, "margin-left")
	mrLP := b.length(style.BoxGen, "margin-right")
	s.marginLeftAuto = mlLP.Kind == value.LPAuto
	s.marginRightAuto = mrLP.Kind == value.LPAuto
	s.marginLeft = resolve(mlLP, containingWidth, 0)
	s.marginRight = resolve(mrLP, containingWidth, 0)

	s.paddingTop = clampNonNegative(resolve(b.length(style.BoxGen, "padding-top"), containingWidth, 0))
	s.paddingRight = clampNonNegative(resolve(b.length(style.BoxGen, "padding-right"), containingWidth, 0))
	s.paddingBottom = clampNonNegative(resolve(b.length(style.BoxGen, "padding-bottom"), containingWidth, 0))
	s.paddingLeft = clampNonNegative(resolve(b.length(style.BoxGen, "padding-left"), containingWidth, 0))

	borderStyleOf := func(prop string) string { return b.keyword(style.BoxGen, prop) }
	widthIfVisible := func(styleProp, widthProp string) zssunit.Unit {
		if borderStyleOf(styleProp) == "none" {
			return 0
		}
		return clampNonNegative(resolve(b.length(style.BoxGen, widthProp), 0, 0))
	}
	s.borderTop = widthIfVisible("border-top-style", "border-top-width")
	s.borderRight = widthIfVisible("border-right-style", "border-right-width")
	s.borderBottom = widthIfVisible("border-bottom-style", "border-bottom-width")
	s.borderLeft = widthIfVisible("border-left-style", "border-left-width")

	s.position = b.keyword(style.BoxGen, "position")
	s.zIndex = b.specifiedZIndex()
	s.display = b.keyword(style.BoxGen, "display")
	return s
}

func (b *builder) specifiedZIndex() value.ZIndex {
	v, ok := b.specifiedValue(style.BoxGen, "z-index")
	if !ok || v.Kind != style.KindZIndex {
		return value.ZIndex{Auto: true}
	}
	return v.ZIndex
}

// createsStackingContext reports whether this box, given its resolved
// position/display, opens a stacking context, and whether that context is
// parentable (spec.md §4.H: relative is parentable; absolute/fixed and
// inline-block are non-parentable).
//
// A positioned element creates a context regardless of whether its
// z-index is auto (spec.md §9's open question: the strictly spec-correct
// CSS behaviour would skip context creation for z-index:auto, but the
// documented fixture (E3) expects one anyway — this is a known,
// deliberate divergence, preserved rather than silently corrected).
func createsStackingContext(s sizes, isInlineBlock bool) (creates, parentable bool) {
	if isInlineBlock {
		return true, false
	}
	switch s.position {
	case "relative":
		return true, true
	case "absolute", "fixed", "sticky":
		return true, false
	}
	return false, false
}

// layoutRoot implements spec.md §4.H's "initial pass": size a root block
// to the viewport contents and recurse, or run inline layout directly if
// the root is itself a text node.
func (b *builder) layoutRoot(icb *boxtree.Subtree, root element.Ref, cb containingBlock) error {
	if b.elements.Category(root) == element.Text {
		ifcIdx, err := b.appendIFC(icb, 0)
		if err != nil {
			return err
		}
		runCB := cb
		runCB.OriginX = icb.ContentX[0]
		runCB.OriginY = icb.ContentY[0]
		_, err = b.layoutInlineFormattingContext(icb, ifcIdx, []element.Ref{root}, runCB)
		return err
	}

	display := b.effectiveDisplay(root, true)
	if display == "none" {
		return nil
	}

	idx, _, err := b.appendBlockChild(icb, root, cb)
	_ = idx
	return err
}

// appendBlockChild appends one block-level element to s, resolving its
// box model against cb, recursing into its own content, and returning the
// new block's index and its margin-box height (for the parent's running
// auto-height accumulation).
func (b *builder) appendBlockChild(s *boxtree.Subtree, e element.Ref, cb containingBlock) (boxtree.BlockIndex, zssunit.Unit, error) {
	bm := b.readBoxModel(cb.Width)

	widthLP := b.length(style.BoxGen, "width")
	widthAuto := widthLP.Kind == value.LPAuto
	contentWidth := resolve(widthLP, cb.Width, 0)

	total := bm.marginLeft + bm.marginRight + bm.paddingLeft + bm.paddingRight + bm.borderLeft + bm.borderRight
	if !widthAuto {
		total += contentWidth
	}
	underflow := cb.Width - total

	switch {
	case !widthAuto && !bm.marginLeftAuto && !bm.marginRightAuto:
		bm.marginRight += underflow
	case !widthAuto && !bm.marginLeftAuto && bm.marginRightAuto:
		bm.marginRight = underflow
	case !widthAuto && bm.marginLeftAuto && !bm.marginRightAuto:
		bm.marginLeft = underflow
	case !widthAuto && bm.marginLeftAuto && bm.marginRightAuto:
		bm.marginLeft = underflow / 2
		bm.marginRight = underflow / 2
	case widthAuto:
		if bm.marginLeftAuto {
			bm.marginLeft = 0
		}
		if bm.marginRightAuto {
			bm.marginRight = 0
		}
		if underflow >= 0 {
			contentWidth = underflow
		} else {
			contentWidth = 0
			bm.marginRight += underflow
		}
	}

	minWidth := resolve(b.length(style.BoxGen, "min-width"), cb.Width, 0)
	maxWLP := b.length(style.BoxGen, "max-width")
	maxWidth := contentWidth
	if maxWLP.Kind != value.LPAuto {
		maxWidth = resolve(maxWLP, cb.Width, contentWidth)
		contentWidth = zssunit.Clamp(contentWidth, minWidth, maxWidth)
	} else if contentWidth < minWidth {
		contentWidth = minWidth
	}

	idx, err := b.appendBlock(s, boxtree.BlockLevel)
	if err != nil {
		return 0, 0, err
	}

	s.Margin[idx] = boxtree.Sides{Top: bm.marginTop, Right: bm.marginRight, Bottom: bm.marginBottom, Left: bm.marginLeft}
	s.BorderWidth[idx] = boxtree.Sides{Top: bm.borderTop, Right: bm.borderRight, Bottom: bm.borderBottom, Left: bm.borderLeft}
	s.ContentSizeW[idx] = contentWidth

	originX := cb.OriginX + bm.marginLeft
	originY := cb.OriginY + bm.marginTop
	s.BorderX[idx] = originX
	s.BorderY[idx] = originY
	s.ContentX[idx] = originX + bm.borderLeft + bm.paddingLeft
	s.ContentY[idx] = originY + bm.borderTop + bm.paddingTop

	_, parentable := createsStackingContext(bm, false)
	creates, _ := createsStackingContext(bm, false)
	var ctxID int
	if creates {
		kind := stacking.NonParentable
		if parentable {
			kind = stacking.Parentable
		}
		ctxID = b.stack.PushWithoutBlock(stacking.Info{Kind: kind, ZIndex: int(bm.zIndex.Value)})
		s.StackingContextID[idx] = ctxID
	} else {
		s.StackingContextID[idx] = -1
	}

	childCB := containingBlock{
		Width:          contentWidth,
		OriginX:        s.ContentX[idx],
		OriginY:        s.ContentY[idx],
		HeightDefinite: false,
	}
	contentHeight, err := b.layoutNormalFlow(s, idx, e, childCB)
	if err != nil {
		return 0, 0, err
	}

	heightLP := b.length(style.BoxGen, "height")
	if heightLP.Kind != value.LPAuto && (heightLP.Kind != value.LPPercent || cb.HeightDefinite) {
		contentHeight = resolve(heightLP, cb.Height, contentHeight)
	}
	minHeight := resolve(b.length(style.BoxGen, "min-height"), cb.Height, 0)
	if contentHeight < minHeight {
		contentHeight = minHeight
	}
	maxHLP := b.length(style.BoxGen, "max-height")
	if maxHLP.Kind != value.LPAuto && (maxHLP.Kind != value.LPPercent || cb.HeightDefinite) {
		maxHeight := resolve(maxHLP, cb.Height, contentHeight)
		if contentHeight > maxHeight {
			contentHeight = maxHeight
		}
	}
	s.ContentSizeH[idx] = contentHeight
	s.BorderSizeW[idx] = contentWidth + bm.paddingLeft + bm.paddingRight + bm.borderLeft + bm.borderRight
	s.BorderSizeH[idx] = contentHeight + bm.paddingTop + bm.paddingBottom + bm.borderTop + bm.borderBottom

	s.SetSkip(idx, s.Len()-int(idx))

	if creates {
		b.stack.SetBlock(ctxID, boxtree.BlockRef{SubtreeID: s.ID, BlockIndex: idx})
		b.stack.Pop()
	}

	marginBoxHeight := s.BorderSizeH[idx] + bm.marginTop + bm.marginBottom
	return idx, marginBoxHeight, nil
}

// layoutNormalFlow walks e's children: block-level children become nested
// blocks in s; consecutive inline-level children (text, inline,
// inline-block) accumulate into one inline formatting context belonging
// to ownerIdx (a block owns at most one IFC — separate inline runs
// interleaved with block-level siblings all flush into the same IFC, one
// after another), flushed once a block-level sibling is reached or the
// children run out.
func (b *builder) layoutNormalFlow(s *boxtree.Subtree, ownerIdx boxtree.BlockIndex, e element.Ref, cb containingBlock) (zssunit.Unit, error) {
	var cursorY zssunit.Unit
	var run []element.Ref
	var outerErr error
	ifcIdx := -1

	flush := func() error {
		if len(run) == 0 {
			return nil
		}
		if ifcIdx < 0 {
			var err error
			ifcIdx, err = b.appendIFC(s, ownerIdx)
			if err != nil {
				return err
			}
		}
		runCB := cb
		runCB.OriginY += cursorY
		h, err := b.layoutInlineFormattingContext(s, ifcIdx, run, runCB)
		run = run[:0]
		if err != nil {
			return err
		}
		cursorY += h
		return nil
	}

	element.Children(b.elements, e, func(child element.Ref) bool {
		if b.elements.Category(child) == element.Text {
			run = append(run, child)
			return true
		}
		b.computer.PushElement(style.BoxGen, child)
		display := b.effectiveDisplay(child, false)
		if display == "none" {
			b.computer.PopElement(style.BoxGen)
			return true
		}
		if display == "inline" {
			b.flattenInlineChildren(child, &run)
			b.computer.PopElement(style.BoxGen)
			return true
		}
		if display != "block" {
			b.computer.PopElement(style.BoxGen)
			run = append(run, child)
			return true
		}
		if err := flush(); err != nil {
			b.computer.PopElement(style.BoxGen)
			outerErr = err
			return false
		}
		childCB := cb
		childCB.Height = 0
		childCB.HeightDefinite = false
		_, h, err := b.appendBlockChild(s, child, childCB)
		b.computer.PopElement(style.BoxGen)
		if err != nil {
			outerErr = err
			return false
		}
		cursorY += h
		return true
	})
	if outerErr != nil {
		return 0, outerErr
	}
	if err := flush(); err != nil {
		return 0, err
	}
	return cursorY, nil
}
