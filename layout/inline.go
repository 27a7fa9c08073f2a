package layout

import (
	"github.com/tusf-zss/zss/boxtree"
	"github.com/tusf-zss/zss/element"
	"github.com/tusf-zss/zss/font"
	"github.com/tusf-zss/zss/stacking"
	"github.com/tusf-zss/zss/style"
	"github.com/tusf-zss/zss/value"
	"github.com/tusf-zss/zss/zssunit"
)

func (b *builder) fontSizePx() float64 {
	v, ok := b.specifiedValue(style.BoxGen, "font-size")
	if !ok || v.Kind != style.KindLength {
		return 16
	}
	return v.Length.Length.ToPixels()
}

// word is one non-whitespace run within a text node, with its byte range
// into the node's text — line-breaking operates on words, never splitting
// one apart.
type word struct {
	text       string
	start, end int
}

func words(text string) []word {
	var out []word
	start := -1
	for i, r := range text {
		if r == ' ' || r == '\t' || r == '\n' {
			if start >= 0 {
				out = append(out, word{text: text[start:i], start: start, end: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, word{text: text[start:], start: start, end: len(text)})
	}
	return out
}

func wordWidth(run font.Run, w word) zssunit.Unit {
	var total zssunit.Unit
	for _, g := range run.Glyphs {
		if g.ClusterPos >= w.start && g.ClusterPos < w.end {
			total += g.Advance
		}
	}
	return total
}

// flattenInlineChildren collects e's descendant leaves (text nodes and
// inline-block elements) into run, recursing through plain `display:
// inline` wrappers without giving them a box of their own — this engine
// does not model anonymous inline boxes, only the inline formatting
// context's flattened leaf sequence.
func (b *builder) flattenInlineChildren(e element.Ref, run *[]element.Ref) {
	element.Children(b.elements, e, func(child element.Ref) bool {
		if b.elements.Category(child) == element.Text {
			*run = append(*run, child)
			return true
		}
		b.computer.PushElement(style.BoxGen, child)
		display := b.effectiveDisplay(child, false)
		switch display {
		case "none":
		case "inline":
			b.flattenInlineChildren(child, run)
		default:
			*run = append(*run, child)
		}
		b.computer.PopElement(style.BoxGen)
		return true
	})
}

// layoutInlineFormattingContext lays out a flattened run of inline-level
// leaves (text nodes, inline-block elements) into ifcIdx, line-breaking on
// word boundaries against cb.Width. It returns the total height consumed.
func (b *builder) layoutInlineFormattingContext(s *boxtree.Subtree, ifcIdx int, items []element.Ref, cb containingBlock) (zssunit.Unit, error) {
	var cursorX, lineY, lineHeight, totalHeight zssunit.Unit

	newLine := func() {
		totalHeight += lineHeight
		lineY += lineHeight
		cursorX = 0
		lineHeight = 0
	}

	for _, item := range items {
		if b.elements.Category(item) == element.Text {
			sizePx := b.fontSizePx()
			text := b.elements.Text(item)
			run := b.fonts.ShapeText(text, sizePx)
			spaceWidth := b.fonts.Advance(' ', sizePx)

			for i, w := range words(text) {
				width := wordWidth(run, w)
				if i > 0 {
					cursorX += spaceWidth
				}
				if cursorX > 0 && cursorX+width > cb.Width {
					newLine()
				}
				ib := boxtree.InlineBox{
					X:      cb.OriginX + cursorX,
					Y:      cb.OriginY + lineY,
					Width:  width,
					Height: run.Ascender,
					Text:   w.text,
				}
				if err := b.appendInlineBox(s, ifcIdx, ib); err != nil {
					return 0, err
				}
				cursorX += width
				if run.Ascender > lineHeight {
					lineHeight = run.Ascender
				}
			}
			continue
		}

		b.computer.PushElement(style.BoxGen, item)
		outerW, outerH, err := b.layoutInlineBlock(item, cb, cursorX, lineY)
		b.computer.PopElement(style.BoxGen)
		if err != nil {
			return 0, err
		}
		if cursorX > 0 && cursorX+outerW > cb.Width {
			newLine()
		}
		cursorX += outerW
		if outerH > lineHeight {
			lineHeight = outerH
		}
	}
	newLine()
	return totalHeight, nil
}

// layoutInlineBlock lays out e as an inline-block: its own subtree,
// shrink-to-fit sized (spec.md §4.H: "produces a nested flow subtree
// shrunk to its content; its outer behaviour is inline"), always opening
// a non-parentable stacking context. It returns the outer (margin-box)
// width/height the caller's line-breaking cursor advances by.
func (b *builder) layoutInlineBlock(e element.Ref, cb containingBlock, cursorX, lineY zssunit.Unit) (outerWidth, outerHeight zssunit.Unit, err error) {
	bm := b.readBoxModel(cb.Width)

	widthLP := b.length(style.BoxGen, "width")
	contentWidth := b.shrinkToFitWidth(e, cb.Width)
	if widthLP.Kind != value.LPAuto {
		contentWidth = resolve(widthLP, cb.Width, 0)
	}
	minWidth := resolve(b.length(style.BoxGen, "min-width"), cb.Width, 0)
	maxWLP := b.length(style.BoxGen, "max-width")
	if maxWLP.Kind != value.LPAuto {
		maxWidth := resolve(maxWLP, cb.Width, contentWidth)
		contentWidth = zssunit.Clamp(contentWidth, minWidth, maxWidth)
	} else if contentWidth < minWidth {
		contentWidth = minWidth
	}

	sub, err := b.newSubtree()
	if err != nil {
		return 0, 0, err
	}
	idx, err := b.appendBlock(sub, boxtree.InlineBlockLevel)
	if err != nil {
		return 0, 0, err
	}

	sub.Margin[idx] = boxtree.Sides{Top: bm.marginTop, Right: bm.marginRight, Bottom: bm.marginBottom, Left: bm.marginLeft}
	sub.BorderWidth[idx] = boxtree.Sides{Top: bm.borderTop, Right: bm.borderRight, Bottom: bm.borderBottom, Left: bm.borderLeft}
	sub.ContentSizeW[idx] = contentWidth

	originX := cb.OriginX + cursorX + bm.marginLeft
	originY := cb.OriginY + lineY + bm.marginTop
	sub.BorderX[idx] = originX
	sub.BorderY[idx] = originY
	sub.ContentX[idx] = originX + bm.borderLeft + bm.paddingLeft
	sub.ContentY[idx] = originY + bm.borderTop + bm.paddingTop

	ctxID := b.stack.PushWithoutBlock(stacking.Info{Kind: stacking.NonParentable, ZIndex: int(bm.zIndex.Value)})
	sub.StackingContextID[idx] = ctxID

	childCB := containingBlock{
		Width:   contentWidth,
		OriginX: sub.ContentX[idx],
		OriginY: sub.ContentY[idx],
	}
	contentHeight, err := b.layoutNormalFlow(sub, idx, e, childCB)
	if err != nil {
		return 0, 0, err
	}

	heightLP := b.length(style.BoxGen, "height")
	if heightLP.Kind == value.LPLength {
		contentHeight = resolve(heightLP, 0, contentHeight)
	}

	sub.ContentSizeH[idx] = contentHeight
	sub.BorderSizeW[idx] = contentWidth + bm.paddingLeft + bm.paddingRight + bm.borderLeft + bm.borderRight
	sub.BorderSizeH[idx] = contentHeight + bm.paddingTop + bm.paddingBottom + bm.borderTop + bm.borderBottom
	sub.SetSkip(idx, sub.Len()-int(idx))

	b.stack.SetBlock(ctxID, boxtree.BlockRef{SubtreeID: sub.ID, BlockIndex: idx})
	b.stack.Pop()

	outerWidth = sub.BorderSizeW[idx] + bm.marginLeft + bm.marginRight
	outerHeight = sub.BorderSizeH[idx] + bm.marginTop + bm.marginBottom
	return outerWidth, outerHeight, nil
}

// shrinkToFitWidth estimates e's shrink-to-fit width (its preferred,
// unwrapped width; no min-content width is computed) within an available
// width of avail, summing its flattened inline
// content's word widths (spec.md §4.H.1 / DESIGN.md's adapted intrinsic
// sizing helper).
func (b *builder) shrinkToFitWidth(e element.Ref, avail zssunit.Unit) zssunit.Unit {
	return b.shrinkToFit(e, avail)
}
