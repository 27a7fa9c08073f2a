package layout

import (
	"github.com/tusf-zss/zss/element"
	"github.com/tusf-zss/zss/style"
	"github.com/tusf-zss/zss/zssunit"
)

// shrinkToFit estimates e's shrink-to-fit width (CSS2.1 §10.3.9): the sum of
// its flattened inline content's preferred widths, clamped to avail. Unlike
// a full min/max-content pass this never actually line-breaks — it is an
// estimate used only to size an inline-block before its real content is
// laid out.
func (b *builder) shrinkToFit(e element.Ref, avail zssunit.Unit) zssunit.Unit {
	preferred := b.preferredWidth(e)
	if preferred > avail {
		return avail
	}
	return preferred
}

// preferredWidth sums the preferred (unwrapped) width of e's content: the
// widths of its shaped text words plus its block/inline-block children's
// own preferred widths, mirroring the teacher's recursive content-size
// estimate but driven by the real font collaborator instead of a
// character-count heuristic.
func (b *builder) preferredWidth(e element.Ref) zssunit.Unit {
	if b.elements.Category(e) == element.Text {
		sizePx := b.fontSizePx()
		text := b.elements.Text(e)
		run := b.fonts.ShapeText(text, sizePx)
		spaceWidth := b.fonts.Advance(' ', sizePx)
		var total zssunit.Unit
		ws := words(text)
		for i, w := range ws {
			if i > 0 {
				total += spaceWidth
			}
			total += wordWidth(run, w)
		}
		return total
	}

	var total zssunit.Unit
	var lineMax zssunit.Unit
	element.Children(b.elements, e, func(child element.Ref) bool {
		if b.elements.Category(child) == element.Text {
			total += b.preferredWidth(child)
			return true
		}
		b.computer.PushElement(style.BoxGen, child)
		display := b.effectiveDisplay(child, false)
		if display == "none" {
			b.computer.PopElement(style.BoxGen)
			return true
		}
		if display == "block" {
			w := b.preferredWidth(child) + b.horizontalBoxModel(child)
			if w > lineMax {
				lineMax = w
			}
			b.computer.PopElement(style.BoxGen)
			return true
		}
		total += b.preferredWidth(child) + b.horizontalBoxModel(child)
		b.computer.PopElement(style.BoxGen)
		return true
	})
	if lineMax > total {
		total = lineMax
	}
	return total
}

// horizontalBoxModel sums e's own margin/border/padding in the inline
// direction — callers must have already pushed e's style onto the computer.
func (b *builder) horizontalBoxModel(_ element.Ref) zssunit.Unit {
	left := resolve(b.length(style.BoxGen, "margin-left"), 0, 0)
	right := resolve(b.length(style.BoxGen, "margin-right"), 0, 0)
	padLeft := resolve(b.length(style.BoxGen, "padding-left"), 0, 0)
	padRight := resolve(b.length(style.BoxGen, "padding-right"), 0, 0)
	var borderLeft, borderRight zssunit.Unit
	if b.keyword(style.BoxGen, "border-left-style") != "none" {
		borderLeft = resolve(b.length(style.BoxGen, "border-left-width"), 0, 0)
	}
	if b.keyword(style.BoxGen, "border-right-style") != "none" {
		borderRight = resolve(b.length(style.BoxGen, "border-right-width"), 0, 0)
	}
	return left + right + padLeft + padRight + borderLeft + borderRight
}
