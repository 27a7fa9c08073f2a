// Package style implements the cascade and computed-style resolution used
// by the two layout passes (spec.md §4.F): box-gen, which needs layout-
// affecting properties, and cosmetic, which needs paint-only ones. Both
// passes share the same cascade machinery; only the set of properties
// each actually queries differs.
package style

import (
	"github.com/tusf-zss/zss/value"
	"github.com/tusf-zss/zss/zssunit"
)

// Stage distinguishes which of the two layout passes is querying the
// computer. Each stage gets its own specified/computed cache and ancestry
// stack (spec.md §4.F), since a property resolved for box-gen and the same
// property resolved again during cosmetic are independent queries against
// independent per-pass state.
type Stage int

const (
	BoxGen Stage = iota
	Cosmetic
	numStages
)

func (s Stage) String() string {
	if s == Cosmetic {
		return "cosmetic"
	}
	return "box-gen"
}

// Kind tags which field of Value is meaningful.
type Kind int

const (
	KindKeyword Kind = iota
	KindLength
	KindColor
	KindZIndex
	KindBGImage
	KindBGRepeat
	KindBGPosition
	KindBGSize
)

// Keyword is a bare-identifier property value (display: block, position:
// static, ...).
type Keyword string

// Value is the tagged union every recognized property resolves to. Only
// the field named by Kind is meaningful — the same "one struct, several
// fields, one used at a time" shape as the teacher's own ComputedValue.
type Value struct {
	Kind       Kind
	Keyword    Keyword
	Length     value.LengthPercentage
	Color      value.Color
	ZIndex     value.ZIndex
	BGImage    value.BackgroundImage
	BGRepeat   value.BackgroundRepeat
	BGPosition value.BackgroundPosition
	BGSize     value.BackgroundSize
}

func keywordValue(k string) Value { return Value{Kind: KindKeyword, Keyword: Keyword(k)} }

// propertyDef describes one recognized property: whether it inherits, its
// initial value, and how to parse a declaration's value range into a Value.
type propertyDef struct {
	Kind      Kind
	Inherited bool
	Initial   Value
	Parse     func(*value.Source) (Value, bool)
}

func keywordDef(inherited bool, initial string, allowed ...string) propertyDef {
	set := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		set[a] = true
	}
	return propertyDef{
		Kind:      KindKeyword,
		Inherited: inherited,
		Initial:   keywordValue(initial),
		Parse: func(src *value.Source) (Value, bool) {
			save := src.Mark()
			it := src.Next()
			if it == nil || it.Kind != value.Keyword {
				src.Reset(save)
				return Value{}, false
			}
			kw := src.Keyword(it.Index)
			if !set[kw] {
				src.Reset(save)
				return Value{}, false
			}
			return keywordValue(kw), true
		},
	}
}

func lengthDef(inherited bool, initial value.LengthPercentage, auto bool) propertyDef {
	parse := value.ParseLengthPercentage
	if auto {
		parse = value.ParseLengthPercentageAuto
	}
	return propertyDef{
		Kind:      KindLength,
		Inherited: inherited,
		Initial:   Value{Kind: KindLength, Length: initial},
		Parse: func(src *value.Source) (Value, bool) {
			lp, ok := parse(src)
			if !ok {
				return Value{}, false
			}
			return Value{Kind: KindLength, Length: lp}, true
		},
	}
}

var zeroLength = value.LengthPercentage{Kind: value.LPLength}
var autoLength = value.LengthPercentage{Kind: value.LPAuto}

// PropertyDefaults is the full set of properties the style computer
// recognizes (SPEC_FULL.md §4.F.1), keyed by lowercase property name.
var PropertyDefaults = map[string]propertyDef{
	"display":  keywordDef(false, "inline", "block", "inline", "inline-block", "none"),
	"position": keywordDef(false, "static", "static", "relative", "absolute", "fixed", "sticky"),
	"float":    keywordDef(false, "none", "none", "left", "right"),

	"z-index": {
		Kind:      KindZIndex,
		Inherited: false,
		Initial:   Value{Kind: KindZIndex, ZIndex: value.ZIndex{Auto: true}},
		Parse: func(src *value.Source) (Value, bool) {
			z, ok := value.ParseZIndex(src)
			if !ok {
				return Value{}, false
			}
			return Value{Kind: KindZIndex, ZIndex: z}, true
		},
	},

	"width":      lengthDef(false, autoLength, true),
	"height":     lengthDef(false, autoLength, true),
	"min-width":  lengthDef(false, zeroLength, false),
	"min-height": lengthDef(false, zeroLength, false),
	"max-width":  lengthDef(false, autoLength, true),
	"max-height": lengthDef(false, autoLength, true),

	"margin-top":    lengthDef(false, zeroLength, true),
	"margin-right":  lengthDef(false, zeroLength, true),
	"margin-bottom": lengthDef(false, zeroLength, true),
	"margin-left":   lengthDef(false, zeroLength, true),

	"padding-top":    lengthDef(false, zeroLength, false),
	"padding-right":  lengthDef(false, zeroLength, false),
	"padding-bottom": lengthDef(false, zeroLength, false),
	"padding-left":   lengthDef(false, zeroLength, false),

	"top":    lengthDef(false, autoLength, true),
	"right":  lengthDef(false, autoLength, true),
	"bottom": lengthDef(false, autoLength, true),
	"left":   lengthDef(false, autoLength, true),

	"border-top-width":    borderWidthDef(),
	"border-right-width":  borderWidthDef(),
	"border-bottom-width": borderWidthDef(),
	"border-left-width":   borderWidthDef(),

	"border-top-style":    keywordDef(false, "none", "none", "solid", "dashed", "dotted", "double", "hidden"),
	"border-right-style":  keywordDef(false, "none", "none", "solid", "dashed", "dotted", "double", "hidden"),
	"border-bottom-style": keywordDef(false, "none", "none", "solid", "dashed", "dotted", "double", "hidden"),
	"border-left-style":   keywordDef(false, "none", "none", "solid", "dashed", "dotted", "double", "hidden"),

	"border-top-color":    borderColorDef(),
	"border-right-color":  borderColorDef(),
	"border-bottom-color": borderColorDef(),
	"border-left-color":   borderColorDef(),

	"color":     colorDefWithInitial(true, value.Color{A: 255}), // black, inherited
	"font-size": lengthDef(true, value.LengthPercentage{Kind: value.LPLength, Length: zssunit.FromPixels(16)}, false),

	"background-color": colorDefWithInitial(false, value.Color{}), // transparent

	"background-image": {
		Kind: KindBGImage, Inherited: false,
		Initial: Value{Kind: KindBGImage, BGImage: value.BackgroundImage{Kind: value.BGImageNone}},
		Parse: func(src *value.Source) (Value, bool) {
			v, ok := value.ParseBackgroundImage(src)
			if !ok {
				return Value{}, false
			}
			return Value{Kind: KindBGImage, BGImage: v}, true
		},
	},
	"background-repeat": {
		Kind: KindBGRepeat, Inherited: false,
		Initial: Value{Kind: KindBGRepeat, BGRepeat: value.BackgroundRepeat{X: value.Repeat, Y: value.Repeat}},
		Parse: func(src *value.Source) (Value, bool) {
			v, ok := value.ParseBackgroundRepeat(src)
			if !ok {
				return Value{}, false
			}
			return Value{Kind: KindBGRepeat, BGRepeat: v}, true
		},
	},
	"background-position": {
		Kind: KindBGPosition, Inherited: false,
		Initial: Value{Kind: KindBGPosition, BGPosition: value.BackgroundPosition{}},
		Parse: func(src *value.Source) (Value, bool) {
			v, ok := value.ParseBackgroundPosition(src)
			if !ok {
				return Value{}, false
			}
			return Value{Kind: KindBGPosition, BGPosition: v}, true
		},
	},
	"background-size": {
		Kind: KindBGSize, Inherited: false,
		Initial: Value{Kind: KindBGSize, BGSize: value.BackgroundSize{Keyword: ""}},
		Parse: func(src *value.Source) (Value, bool) {
			v, ok := value.ParseBackgroundSize(src)
			if !ok {
				return Value{}, false
			}
			return Value{Kind: KindBGSize, BGSize: v}, true
		},
	},

	"background-attachment": keywordDef(false, "scroll", "scroll", "fixed", "local"),
	"background-origin":     keywordDef(false, "padding-box", "padding-box", "border-box", "content-box"),
	"background-clip":       keywordDef(false, "border-box", "border-box", "border-box", "padding-box", "content-box"),
}

func borderWidthDef() propertyDef {
	return propertyDef{
		Kind:      KindLength,
		Inherited: false,
		Initial:   Value{Kind: KindLength, Length: value.LengthPercentage{Kind: value.LPLength, Length: zssunit.FromPixels(3)}}, // initial border-width: medium
		Parse: func(src *value.Source) (Value, bool) {
			w, ok := value.ParseBorderWidth(src)
			if !ok {
				return Value{}, false
			}
			return Value{Kind: KindLength, Length: value.LengthPercentage{Kind: value.LPLength, Length: w}}, true
		},
	}
}

func colorDef(inherited bool) propertyDef {
	return colorDefWithInitial(inherited, value.Color{})
}

// borderColorDef's initial value is `currentColor` (CSS Backgrounds &
// Borders §3), not transparent — a border with no color declared paints
// in the element's own text color.
func borderColorDef() propertyDef {
	def := colorDef(false)
	def.Initial = Value{Kind: KindColor, Color: value.Color{IsCurrentColor: true}}
	return def
}

func colorDefWithInitial(inherited bool, initial value.Color) propertyDef {
	return propertyDef{
		Kind:      KindColor,
		Inherited: inherited,
		Initial:   Value{Kind: KindColor, Color: initial},
		Parse: func(src *value.Source) (Value, bool) {
			c, ok := value.ParseColor(src)
			if !ok {
				return Value{}, false
			}
			return Value{Kind: KindColor, Color: c}, true
		},
	}
}
