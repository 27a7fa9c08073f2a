package value

import (
	"github.com/tusf-zss/zss/cssom"
	"github.com/tusf-zss/zss/zssunit"
)

// ZIndex is `auto | <integer>`. The tokenizer clamps an integer literal
// whose magnitude overflows a signed 32-bit integer to 0 before it ever
// reaches this parser (token.Tokenizer.consumeNumber, spec.md §8
// boundary 8), so no further range checking happens here.
type ZIndex struct {
	Auto  bool
	Value int64
}

// ParseZIndex recognizes `auto` or an integer token.
func ParseZIndex(src *Source) (ZIndex, bool) {
	save := src.Mark()
	it := src.Next()
	if it == nil {
		return ZIndex{}, false
	}
	if it.Kind == Keyword && src.Keyword(it.Index) == "auto" {
		return ZIndex{Auto: true}, true
	}
	if it.Kind == Integer {
		return ZIndex{Value: int64(src.Num(it.Index))}, true
	}
	src.Reset(save)
	return ZIndex{}, false
}

// LPKind distinguishes the three legal shapes of a length-percentage.
type LPKind int

const (
	LPLength LPKind = iota
	LPPercent
	LPAuto
)

// LengthPercentage is `<dim px> | <pct> | auto`. Only the px unit is
// recognized — this engine does not carry a full CSS unit/em-resolution
// system (Non-goal: full CSS conformance).
type LengthPercentage struct {
	Kind    LPKind
	Length  zssunit.Unit
	Percent float64
}

func lengthPercentageFromItem(src *Source, it *Item) (LengthPercentage, bool) {
	switch it.Kind {
	case Dimension:
		if src.Unit(it.Index) != "px" {
			return LengthPercentage{}, false
		}
		return LengthPercentage{Kind: LPLength, Length: zssunit.FromPixels(src.Num(it.Index))}, true
	case Percentage:
		return LengthPercentage{Kind: LPPercent, Percent: src.Num(it.Index)}, true
	case Integer, Number:
		// Bare zero is the one unitless length CSS permits.
		if src.Num(it.Index) == 0 {
			return LengthPercentage{Kind: LPLength, Length: 0}, true
		}
		return LengthPercentage{}, false
	default:
		return LengthPercentage{}, false
	}
}

// ParseLengthPercentage recognizes `<dim px> | <pct>` (no `auto`).
func ParseLengthPercentage(src *Source) (LengthPercentage, bool) {
	save := src.Mark()
	it := src.Next()
	if it == nil {
		return LengthPercentage{}, false
	}
	lp, ok := lengthPercentageFromItem(src, it)
	if !ok {
		src.Reset(save)
	}
	return lp, ok
}

// ParseLengthPercentageAuto recognizes `<dim px> | <pct> | auto`.
func ParseLengthPercentageAuto(src *Source) (LengthPercentage, bool) {
	save := src.Mark()
	it := src.Next()
	if it == nil {
		return LengthPercentage{}, false
	}
	if it.Kind == Keyword && src.Keyword(it.Index) == "auto" {
		return LengthPercentage{Kind: LPAuto}, true
	}
	lp, ok := lengthPercentageFromItem(src, it)
	if !ok {
		src.Reset(save)
	}
	return lp, ok
}

// borderWidthKeywords gives the UA-conventional pixel sizes for the
// `thin`/`medium`/`thick` border-width keywords (CSS doesn't mandate
// exact values; these match the sizes in common use, matching the
// teacher's `border-width: medium` initial-value convention in
// css/cascade.go).
var borderWidthKeywords = map[string]float64{
	"thin":   1,
	"medium": 3,
	"thick":  5,
}

// ParseBorderWidth recognizes `<length> | thin | medium | thick`.
func ParseBorderWidth(src *Source) (zssunit.Unit, bool) {
	save := src.Mark()
	it := src.Next()
	if it == nil {
		return 0, false
	}
	if it.Kind == Keyword {
		if px, ok := borderWidthKeywords[src.Keyword(it.Index)]; ok {
			return zssunit.FromPixels(px), true
		}
		src.Reset(save)
		return 0, false
	}
	lp, ok := lengthPercentageFromItem(src, it)
	if !ok || lp.Kind != LPLength {
		src.Reset(save)
		return 0, false
	}
	return lp.Length, true
}

// BGImageKind distinguishes the recognized forms of background-image.
type BGImageKind int

const (
	BGImageNone BGImageKind = iota
	BGImageURL
)

// BackgroundImage is `none | url(…)`. Gradients are not recognized
// (spec.md §4.C: "gradients currently unparsed") — a gradient function
// simply fails to match, same as any other unsupported value.
type BackgroundImage struct {
	Kind BGImageKind
	URL  string
}

// ParseBackgroundImage recognizes `none` or a URL (either a url-token or
// a quoted `url("…")` function).
func ParseBackgroundImage(src *Source) (BackgroundImage, bool) {
	save := src.Mark()
	it := src.Next()
	if it == nil {
		return BackgroundImage{}, false
	}
	switch it.Kind {
	case Keyword:
		if src.Keyword(it.Index) == "none" {
			return BackgroundImage{Kind: BGImageNone}, true
		}
	case URL:
		return BackgroundImage{Kind: BGImageURL, URL: src.Tree.Value[it.Index]}, true
	case Function:
		if src.FunctionName(it.Index) == "url" {
			args := src.FunctionArgs(it.Index)
			if s := args.Next(); s != nil && src.Tree.Tag[s.Index] == cssom.TokString {
				return BackgroundImage{Kind: BGImageURL, URL: args.Tree.Value[s.Index]}, true
			}
		}
	}
	src.Reset(save)
	return BackgroundImage{}, false
}

// RepeatStyle is one axis of background-repeat.
type RepeatStyle int

const (
	Repeat RepeatStyle = iota
	Space
	Round
	NoRepeat
)

var repeatStyleKeywords = map[string]RepeatStyle{
	"repeat":    Repeat,
	"space":     Space,
	"round":     Round,
	"no-repeat": NoRepeat,
}

// BackgroundRepeat is the resolved {x, y} repeat style pair.
type BackgroundRepeat struct {
	X, Y RepeatStyle
}

// ParseBackgroundRepeat recognizes `repeat-x | repeat-y | [repeat|space|
// round|no-repeat]{1,2}`. If only the first keyword matches, y defaults
// to x and the second token (whatever it is) is left unconsumed — spec.md
// §8 boundary 9: `space invalid` → `{x: space, y: space}`, one token
// consumed, cursor left at `invalid`.
func ParseBackgroundRepeat(src *Source) (BackgroundRepeat, bool) {
	save := src.Mark()
	first := src.Expect(Keyword)
	if first == nil {
		return BackgroundRepeat{}, false
	}
	name := src.Keyword(first.Index)
	switch name {
	case "repeat-x":
		return BackgroundRepeat{X: Repeat, Y: NoRepeat}, true
	case "repeat-y":
		return BackgroundRepeat{X: NoRepeat, Y: Repeat}, true
	}
	x, ok := repeatStyleKeywords[name]
	if !ok {
		src.Reset(save)
		return BackgroundRepeat{}, false
	}

	mark := src.Mark()
	second := src.Expect(Keyword)
	if second != nil {
		if y, ok := repeatStyleKeywords[src.Keyword(second.Index)]; ok {
			return BackgroundRepeat{X: x, Y: y}, true
		}
	}
	src.Reset(mark)
	return BackgroundRepeat{X: x, Y: x}, true
}

// Edge names which side of an axis a background-position component is
// anchored to.
type Edge int

const (
	EdgeStart Edge = iota
	EdgeEnd
	EdgeCenter
)

// PositionComponent is one axis of a resolved background-position.
type PositionComponent struct {
	Edge   Edge
	Offset LengthPercentage
}

// BackgroundPosition is the fully resolved two-axis position.
type BackgroundPosition struct {
	X, Y PositionComponent
}

func zeroPercent() LengthPercentage { return LengthPercentage{Kind: LPPercent, Percent: 0} }

// edgeAxis reports the axis a keyword is pinned to (0 = x, 1 = y, -1 =
// either, i.e. `center`) and the Edge it denotes.
func edgeAxis(name string) (axis int, edge Edge, ok bool) {
	switch name {
	case "left":
		return 0, EdgeStart, true
	case "right":
		return 0, EdgeEnd, true
	case "top":
		return 1, EdgeStart, true
	case "bottom":
		return 1, EdgeEnd, true
	case "center":
		return -1, EdgeCenter, true
	default:
		return 0, 0, false
	}
}

// ParseBackgroundPosition recognizes 1-4 tokens, trying the 3-or-4-value
// form (two edge keywords, each optionally followed by an offset) before
// falling back to the 1-or-2-value form (spec.md §4.C).
func ParseBackgroundPosition(src *Source) (BackgroundPosition, bool) {
	save := src.Mark()
	if bp, ok := parsePosition34(src); ok {
		return bp, true
	}
	src.Reset(save)
	if bp, ok := parsePosition12(src); ok {
		return bp, true
	}
	src.Reset(save)
	return BackgroundPosition{}, false
}

func parseEdgeWithOffset(src *Source) (axis int, edge Edge, offset LengthPercentage, ok bool) {
	it := src.Expect(Keyword)
	if it == nil {
		return 0, 0, LengthPercentage{}, false
	}
	axis, edge, ok = edgeAxis(src.Keyword(it.Index))
	if !ok {
		return 0, 0, LengthPercentage{}, false
	}
	offset = zeroPercent()

	mark := src.Mark()
	if off := src.Next(); off != nil && (off.Kind == Percentage || off.Kind == Dimension) {
		lp, lpOK := lengthPercentageFromItem(src, off)
		if lpOK {
			if edge != EdgeCenter {
				offset = lp
			}
			// A trailing offset after `center` is still consumed (not
			// applied) — matches spec.md §8 boundary 11.
			return axis, edge, offset, true
		}
	}
	src.Reset(mark)
	return axis, edge, offset, true
}

func parsePosition34(src *Source) (BackgroundPosition, bool) {
	axis1, edge1, off1, ok := parseEdgeWithOffset(src)
	if !ok {
		return BackgroundPosition{}, false
	}
	axis2, edge2, off2, ok := parseEdgeWithOffset(src)
	if !ok {
		return BackgroundPosition{}, false
	}
	return resolvePosition(axis1, edge1, off1, axis2, edge2, off2)
}

func resolvePosition(axis1 int, edge1 Edge, off1 LengthPercentage, axis2 int, edge2 Edge, off2 LengthPercentage) (BackgroundPosition, bool) {
	if axis1 != -1 && axis2 != -1 && axis1 == axis2 {
		return BackgroundPosition{}, false
	}
	if axis1 == -1 && axis2 == -1 {
		axis1, axis2 = 0, 1
	} else if axis1 == -1 {
		axis1 = 1 - axis2
	} else if axis2 == -1 {
		axis2 = 1 - axis1
	}
	comp1 := PositionComponent{Edge: edge1, Offset: off1}
	comp2 := PositionComponent{Edge: edge2, Offset: off2}
	var bp BackgroundPosition
	if axis1 == 0 {
		bp.X, bp.Y = comp1, comp2
	} else {
		bp.X, bp.Y = comp2, comp1
	}
	return bp, true
}

func parsePosition12(src *Source) (BackgroundPosition, bool) {
	first := src.Next()
	if first == nil {
		return BackgroundPosition{}, false
	}
	var axis1 int
	var edge1 Edge
	var off1 LengthPercentage
	switch first.Kind {
	case Keyword:
		a, e, ok := edgeAxis(src.Keyword(first.Index))
		if !ok {
			return BackgroundPosition{}, false
		}
		axis1, edge1, off1 = a, e, zeroPercent()
	case Percentage, Dimension:
		lp, ok := lengthPercentageFromItem(src, first)
		if !ok {
			return BackgroundPosition{}, false
		}
		axis1, edge1, off1 = 0, EdgeStart, lp
	default:
		return BackgroundPosition{}, false
	}

	mark := src.Mark()
	second := src.Next()
	if second == nil {
		return fillMissingAxis(axis1, edge1, off1), true
	}

	var axis2 int
	var edge2 Edge
	var off2 LengthPercentage
	switch second.Kind {
	case Keyword:
		a, e, ok := edgeAxis(src.Keyword(second.Index))
		if !ok {
			src.Reset(mark)
			return fillMissingAxis(axis1, edge1, off1), true
		}
		axis2, edge2, off2 = a, e, zeroPercent()
	case Percentage, Dimension:
		lp, ok := lengthPercentageFromItem(src, second)
		if !ok {
			src.Reset(mark)
			return fillMissingAxis(axis1, edge1, off1), true
		}
		axis2, edge2, off2 = 1, EdgeStart, lp
	default:
		src.Reset(mark)
		return fillMissingAxis(axis1, edge1, off1), true
	}

	bp, ok := resolvePosition(axis1, edge1, off1, axis2, edge2, off2)
	if !ok {
		src.Reset(mark)
		return fillMissingAxis(axis1, edge1, off1), true
	}
	return bp, true
}

// fillMissingAxis implements spec.md §4.C's "the second form defaults the
// missing axis to center 0%".
func fillMissingAxis(axis int, edge Edge, off LengthPercentage) BackgroundPosition {
	comp := PositionComponent{Edge: edge, Offset: off}
	other := PositionComponent{Edge: EdgeCenter, Offset: zeroPercent()}
	if axis == 0 {
		return BackgroundPosition{X: comp, Y: other}
	}
	return BackgroundPosition{X: other, Y: comp}
}

// BackgroundSize is `cover | contain | [<length-percentage>|auto]{1,2}`.
// Keyword is "cover"/"contain" when one of those matched, "" otherwise
// (in which case W/H hold the resolved sizes).
type BackgroundSize struct {
	Keyword string
	W, H    LengthPercentage
}

// ParseBackgroundSize recognizes the grammar above. When only one size
// component is given, the height defaults to `auto` (not a copy of the
// width), per the CSS Backgrounds & Borders shorthand.
func ParseBackgroundSize(src *Source) (BackgroundSize, bool) {
	save := src.Mark()
	kw := src.Expect(Keyword)
	if kw != nil {
		name := src.Keyword(kw.Index)
		if name == "cover" || name == "contain" {
			return BackgroundSize{Keyword: name}, true
		}
		src.Reset(save)
	}

	w, ok := ParseLengthPercentageAuto(src)
	if !ok {
		src.Reset(save)
		return BackgroundSize{}, false
	}
	mark := src.Mark()
	if h, ok := ParseLengthPercentageAuto(src); ok {
		return BackgroundSize{W: w, H: h}, true
	}
	src.Reset(mark)
	return BackgroundSize{W: w, H: LengthPercentage{Kind: LPAuto}}, true
}
