package style

import (
	"sort"

	"github.com/tusf-zss/zss/element"
	"github.com/tusf-zss/zss/selector"
	"github.com/tusf-zss/zss/stylesheet"
	"github.com/tusf-zss/zss/value"
)

// Origin is the cascade origin of a stylesheet (CSS Cascade §6).
type Origin int

const (
	UserAgent Origin = iota
	User
	Author
)

type sheetEntry struct {
	sheet  *stylesheet.Stylesheet
	origin Origin
}

// frame is one element's slot on a stage's ancestry stack: a lazily
// populated specified-value cache, and whatever computed values the
// caller has written back via SetComputedValue.
type frame struct {
	elem      element.Ref
	specified map[string]Value
	computed  map[string]Value
}

// Computer resolves cascaded, inherited, computed style values against a
// caller-supplied element tree and a set of origin-tagged stylesheets
// (spec.md §4.F). Each Stage gets its own ancestry stack, since box-gen
// and cosmetic are two independent traversals of the same tree run one
// after the other, never interleaved.
type Computer struct {
	tree   element.Tree
	sheets []sheetEntry
	root   element.Ref
	stacks [numStages][]*frame
}

// NewComputer returns a Computer with no stylesheets attached; call
// AddStylesheet before resolving any value.
func NewComputer(tree element.Tree) *Computer {
	return &Computer{tree: tree}
}

// AddStylesheet registers a stylesheet at the given cascade origin.
// Stylesheets are consulted in the order added within an origin.
func (c *Computer) AddStylesheet(sheet *stylesheet.Stylesheet, origin Origin) {
	c.sheets = append(c.sheets, sheetEntry{sheet: sheet, origin: origin})
}

// SetRootElement records the tree's root, per spec.md's `set_root_element`.
// The root itself carries no special cascade treatment here — callers
// still Push it like any other element. Only RootElement reads the
// recorded value; ElementCategory and selector matching do not.
func (c *Computer) SetRootElement(e element.Ref) {
	c.root = e
}

// RootElement returns the element set by SetRootElement.
func (c *Computer) RootElement() element.Ref { return c.root }

// ElementCategory delegates to the underlying element tree.
func (c *Computer) ElementCategory(e element.Ref) element.Category {
	return c.tree.Category(e)
}

// PushElement opens a new ancestry-stack frame for e at stage. Callers
// must push elements in document (parent-before-child) order: inherited
// properties are resolved by reading the nearest open ancestor frame's
// computed cache, falling back to that ancestor's own specified value
// when the caller has not set a computed value for it at that stage.
func (c *Computer) PushElement(stage Stage, e element.Ref) {
	c.stacks[stage] = append(c.stacks[stage], &frame{
		elem:      e,
		specified: map[string]Value{},
		computed:  map[string]Value{},
	})
}

// PopElement closes the innermost open frame for stage.
func (c *Computer) PopElement(stage Stage) {
	s := c.stacks[stage]
	if len(s) == 0 {
		return
	}
	c.stacks[stage] = s[:len(s)-1]
}

// AdvanceElement records that e (e.g. a `display: none` subtree) is
// skipped entirely for stage: no frame is opened, so it never
// contributes to descendants' inheritance chain. Provided for symmetry
// with spec.md's named `advance_element` operation; skipping an element
// this way is otherwise just "don't call PushElement for it".
func (c *Computer) AdvanceElement(stage Stage, e element.Ref) {}

func (c *Computer) top(stage Stage) *frame {
	s := c.stacks[stage]
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

func (c *Computer) frameIndex(stage Stage, f *frame) int {
	for i, ff := range c.stacks[stage] {
		if ff == f {
			return i
		}
	}
	return -1
}

// GetSpecifiedValue resolves property against the innermost open element
// of stage: matching declarations are cascaded, CSS-wide keywords and
// inheritance are applied, and the result is cached on the frame so
// repeated queries for the same property don't re-run the cascade.
func (c *Computer) GetSpecifiedValue(stage Stage, property string) (Value, bool) {
	f := c.top(stage)
	if f == nil {
		return Value{}, false
	}
	return c.resolve(stage, f, property)
}

// SetComputedValue records property's computed value for the innermost
// open element of stage, available to descendants that inherit it.
func (c *Computer) SetComputedValue(stage Stage, property string, v Value) {
	f := c.top(stage)
	if f == nil {
		return
	}
	f.computed[property] = v
}

func (c *Computer) resolve(stage Stage, f *frame, property string) (Value, bool) {
	if v, ok := f.specified[property]; ok {
		return v, true
	}
	def, ok := PropertyDefaults[property]
	if !ok {
		return Value{}, false
	}

	resolved := def.Initial
	if def.Inherited {
		resolved = c.inheritedOrInitial(stage, f, property, def)
	}

	matched := c.collectMatching(f.elem, property)
	sortByPrecedence(matched)
	for _, m := range matched {
		switch value.DetectWideKeyword(m.decl.Tree, m.decl.ValueStart, m.decl.ValueEnd) {
		case value.Initial:
			resolved = def.Initial
		case value.Inherit:
			resolved = c.inheritedOrInitial(stage, f, property, def)
		case value.Unset:
			if def.Inherited {
				resolved = c.inheritedOrInitial(stage, f, property, def)
			} else {
				resolved = def.Initial
			}
		default:
			src := value.NewSource(m.decl.Tree, m.decl.ValueStart, m.decl.ValueEnd)
			if v, ok := def.Parse(src); ok {
				resolved = v
			}
		}
	}

	f.specified[property] = resolved
	return resolved, true
}

// inheritedOrInitial reads the nearest ancestor frame's computed value
// for property, resolving that ancestor's own specified value first
// (recursively) if the caller hasn't written a computed value yet for
// it. Falls back to the property's initial value at the root.
func (c *Computer) inheritedOrInitial(stage Stage, f *frame, property string, def propertyDef) Value {
	idx := c.frameIndex(stage, f)
	if idx <= 0 {
		return def.Initial
	}
	parent := c.stacks[stage][idx-1]
	if v, ok := parent.computed[property]; ok {
		return v
	}
	v, _ := c.resolve(stage, parent, property)
	return v
}

func (c *Computer) collectMatching(e element.Ref, property string) []matchedDecl {
	var out []matchedDecl
	order := 0
	for _, se := range c.sheets {
		for _, rule := range se.sheet.Rules {
			comp, ok := matchingComplex(rule.Selectors, c.tree, e)
			if !ok {
				continue
			}
			for _, d := range rule.Declarations {
				if d.Property != property {
					continue
				}
				out = append(out, matchedDecl{
					decl:        d,
					origin:      se.origin,
					important:   d.Important,
					specificity: comp.Specificity(),
					order:       order,
				})
			}
			order++
		}
	}
	return out
}

func matchingComplex(l *selector.List, tree element.Tree, e element.Ref) (selector.Complex, bool) {
	for _, comp := range l.Complex {
		if comp.Matches(tree, e) {
			return comp, true
		}
	}
	return selector.Complex{}, false
}

type matchedDecl struct {
	decl        stylesheet.Declaration
	origin      Origin
	important   bool
	specificity selector.Specificity
	order       int
}

// sortByPrecedence orders matched declarations lowest-to-highest
// precedence so that applying them in order leaves the last one
// winning, per CSS Cascade §4: important declarations outrank normal
// ones with origin order reversed within the important group, then
// specificity, then source order — grounded on the teacher's
// cascadeLayer/sortByPrecedence pair in css/cascade.go.
func sortByPrecedence(ms []matchedDecl) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i], ms[j]
		al, bl := cascadeLayer(a.origin, a.important), cascadeLayer(b.origin, b.important)
		if al != bl {
			return al < bl
		}
		if cmp := a.specificity.Compare(b.specificity); cmp != 0 {
			return cmp < 0
		}
		return a.order < b.order
	})
}

func cascadeLayer(o Origin, important bool) int {
	if important {
		switch o {
		case Author:
			return 3
		case User:
			return 4
		case UserAgent:
			return 5
		}
		return 3
	}
	switch o {
	case UserAgent:
		return 0
	case User:
		return 1
	case Author:
		return 2
	}
	return 0
}
