// Package selector implements the CSS selector parser and matcher: complex
// selector lists built from compound selectors joined by combinators,
// specificity calculation, and right-to-left element matching (spec.md
// §4.D).
package selector

import (
	"strings"

	"github.com/tusf-zss/zss/cssom"
)

// Combinator is the relationship between two adjacent compound selectors
// in a complex selector.
type Combinator int

const (
	// NoCombinator marks the last compound in a chain.
	NoCombinator Combinator = iota
	Descendant
	Child
	NextSibling
	SubsequentSibling
)

// AttrOp is the operator of an attribute selector.
type AttrOp int

const (
	AttrExists AttrOp = iota
	AttrEquals
	AttrIncludes
	AttrDashMatch
	AttrPrefix
	AttrSuffix
	AttrSubstring
)

// AttributeMatcher is one `[namespace|name op value]` clause. Namespace is
// "" for no namespace, "*" for any namespace; resolution against a
// stylesheet's prefix map happens one level up, in package stylesheet.
type AttributeMatcher struct {
	Namespace       string
	Name            string
	Op              AttrOp
	Value           string
	CaseInsensitive bool
}

// PseudoClass is a parsed `:name` or `:name(argument)`. Selector-taking
// pseudo-classes (`:not()`, `:is()`, `:where()`) populate Nested instead of
// Argument.
type PseudoClass struct {
	Name     string
	Argument string
	Nested   *List
}

// PseudoElement is a parsed `::name`. It is carried through parsing and
// specificity (so it doesn't corrupt either) but never matches: box
// generation for pseudo-elements is a declared Non-goal (spec.md §4.D.1).
type PseudoElement struct {
	Name string
}

// TypeSelector is a tag-name or universal (`*`) selector, with an optional
// namespace prefix ("" = no namespace, "*" = any namespace).
type TypeSelector struct {
	Namespace string
	Name      string // "*" for universal
	HasNS     bool   // true if a namespace prefix was written at all
}

// Compound is a sequence of simple selectors sharing one subject element,
// plus the combinator that joins it to the next compound in its chain.
type Compound struct {
	Type        *TypeSelector
	IDs         []string
	Classes     []string
	Attrs       []AttributeMatcher
	PseudoClass []PseudoClass
	PseudoElem  *PseudoElement
	Combinator  Combinator
}

// Complex is a chain of compounds, ordered left to right as written; the
// last entry is the subject (has NoCombinator).
type Complex struct {
	Compounds []Compound
}

// List is a comma-separated selector list.
type List struct {
	Complex []Complex
}

// Specificity is (A, B, C): id count, class+attribute+pseudo-class count,
// type+pseudo-element count, compared lexicographically (Selectors 4 §17).
type Specificity struct {
	A, B, C int
}

// Compare returns -1, 0, or 1 as s is less than, equal to, or greater than
// other.
func (s Specificity) Compare(other Specificity) int {
	if s.A != other.A {
		return sign(s.A - other.A)
	}
	if s.B != other.B {
		return sign(s.B - other.B)
	}
	return sign(s.C - other.C)
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

// Specificity returns the specificity of a single complex selector.
func (c Complex) Specificity() Specificity {
	var s Specificity
	for _, cmp := range c.Compounds {
		s.A += len(cmp.IDs)
		s.B += len(cmp.Classes) + len(cmp.Attrs) + len(cmp.PseudoClass)
		if cmp.Type != nil && cmp.Type.Name != "*" {
			s.C++
		}
		if cmp.PseudoElem != nil {
			s.C++
		}
	}
	return s
}

// Specificity returns the maximum specificity among the list's complex
// selectors, as a list matches if any of its members does.
func (l List) Specificity() Specificity {
	var max Specificity
	for i, c := range l.Complex {
		s := c.Specificity()
		if i == 0 || max.Compare(s) < 0 {
			max = s
		}
	}
	return max
}

// Parse parses a selector list from a component subrange (spec.md §4.E's
// qualified-rule prelude range, or a `:not()` argument).
func Parse(tree *cssom.Tree, start, end int) (*List, error) {
	p := &parser{tree: tree, pos: start, end: end}
	return p.parseList()
}

// ParseString parses a selector list from raw CSS text (used for
// selectors embedded in a pseudo-class argument already flattened to a
// string, and by tests).
func ParseString(css string) (*List, error) {
	tree := cssom.ParseComponentValues([]byte(css))
	return Parse(tree, 0, tree.Len())
}

type parser struct {
	tree *cssom.Tree
	pos  int
	end  int
}

func (p *parser) atEnd() bool { return p.pos >= p.end }

func (p *parser) tag() cssom.Tag {
	if p.atEnd() {
		return cssom.TokCDO // sentinel: never matches any real case below
	}
	return p.tree.Tag[p.pos]
}

func (p *parser) skipWhitespace() bool {
	skipped := false
	for !p.atEnd() && p.tree.Tag[p.pos].IsSkippable() {
		p.pos = p.tree.Skip(p.pos)
		skipped = true
	}
	return skipped
}

func (p *parser) delim() (rune, bool) {
	if p.atEnd() || p.tree.Tag[p.pos] != cssom.TokDelim {
		return 0, false
	}
	return rune(p.tree.Extra[p.pos]), true
}

func (p *parser) value() string { return p.tree.Value[p.pos] }

func (p *parser) advance() { p.pos = p.tree.Skip(p.pos) }

func (p *parser) parseList() (*List, error) {
	l := &List{}
	p.skipWhitespace()
	for {
		c, err := p.parseComplex()
		if err != nil {
			return nil, err
		}
		if c != nil {
			l.Complex = append(l.Complex, *c)
		}
		p.skipWhitespace()
		if p.tag() == cssom.TokComma {
			p.advance()
			p.skipWhitespace()
			continue
		}
		break
	}
	return l, nil
}

func (p *parser) parseComplex() (*Complex, error) {
	c := &Complex{}
	for {
		compound, err := p.parseCompound()
		if err != nil {
			return nil, err
		}
		if compound == nil {
			break
		}
		c.Compounds = append(c.Compounds, *compound)

		hadWS := p.skipWhitespace()
		if d, ok := p.delim(); ok {
			switch d {
			case '>':
				p.advance()
				c.Compounds[len(c.Compounds)-1].Combinator = Child
				p.skipWhitespace()
				continue
			case '+':
				p.advance()
				c.Compounds[len(c.Compounds)-1].Combinator = NextSibling
				p.skipWhitespace()
				continue
			case '~':
				p.advance()
				c.Compounds[len(c.Compounds)-1].Combinator = SubsequentSibling
				p.skipWhitespace()
				continue
			}
		}
		if p.atEnd() || p.tag() == cssom.TokComma {
			break
		}
		if hadWS {
			c.Compounds[len(c.Compounds)-1].Combinator = Descendant
			continue
		}
		break
	}
	if len(c.Compounds) == 0 {
		return nil, nil
	}
	return c, nil
}

func (p *parser) parseCompound() (*Compound, error) {
	c := &Compound{}
	has := false

	if ts, ok := p.tryTypeSelector(); ok {
		c.Type = ts
		has = true
	}

	for {
		if p.atEnd() {
			break
		}
		switch p.tag() {
		case cssom.TokHash:
			c.IDs = append(c.IDs, p.value())
			p.advance()
			has = true
		case cssom.TokDelim:
			d, _ := p.delim()
			switch d {
			case '.':
				p.advance()
				if p.tag() == cssom.TokIdent {
					c.Classes = append(c.Classes, p.value())
					p.advance()
					has = true
				}
			case ':':
				p.advance()
				if p.tag() == cssom.TokColon {
					p.advance()
					pe, err := p.parsePseudoElement()
					if err != nil {
						return nil, err
					}
					c.PseudoElem = pe
					has = true
				} else {
					pc, err := p.parsePseudoClass()
					if err != nil {
						return nil, err
					}
					c.PseudoClass = append(c.PseudoClass, *pc)
					has = true
				}
			default:
				goto done
			}
		case cssom.TokColon:
			p.advance()
			if p.tag() == cssom.TokColon {
				p.advance()
				pe, err := p.parsePseudoElement()
				if err != nil {
					return nil, err
				}
				c.PseudoElem = pe
			} else {
				pc, err := p.parsePseudoClass()
				if err != nil {
					return nil, err
				}
				c.PseudoClass = append(c.PseudoClass, *pc)
			}
			has = true
		case cssom.SimpleBlockBracket:
			attr, err := p.parseAttribute()
			if err != nil {
				return nil, err
			}
			c.Attrs = append(c.Attrs, *attr)
			has = true
		default:
			goto done
		}
	}
done:
	if !has {
		return nil, nil
	}
	return c, nil
}

func (p *parser) tryTypeSelector() (*TypeSelector, bool) {
	ts := &TypeSelector{}
	if p.tag() == cssom.TokIdent {
		name := p.value()
		p.advance()
		if d, ok := p.delim(); ok && d == '|' {
			p.advance()
			ts.Namespace = name
			ts.HasNS = true
			if p.tag() == cssom.TokIdent {
				ts.Name = strings.ToLower(p.value())
				p.advance()
			} else if d2, ok := p.delim(); ok && d2 == '*' {
				p.advance()
				ts.Name = "*"
			}
			return ts, true
		}
		ts.Name = strings.ToLower(name)
		return ts, true
	}
	if d, ok := p.delim(); ok && d == '*' {
		p.advance()
		if d2, ok := p.delim(); ok && d2 == '|' {
			p.advance()
			ts.Namespace = "*"
			ts.HasNS = true
			if p.tag() == cssom.TokIdent {
				ts.Name = strings.ToLower(p.value())
				p.advance()
			} else {
				ts.Name = "*"
			}
			return ts, true
		}
		ts.Name = "*"
		return ts, true
	}
	return nil, false
}

// parseAttribute parses a `[...]` attribute selector. p.pos names the
// SimpleBlockBracket container node; its children occupy [p.pos+1, end).
func (p *parser) parseAttribute() (*AttributeMatcher, error) {
	attr := &AttributeMatcher{}
	end := p.tree.NextSibling[p.pos]
	child := &parser{tree: p.tree, pos: p.pos + 1, end: end}
	p.pos = end

	child.skipWhitespace()

	if d, ok := child.delim(); ok && d == '*' {
		child.advance()
		if d2, ok := child.delim(); ok && d2 == '|' {
			child.advance()
			attr.Namespace = "*"
		}
	} else if d, ok := child.delim(); ok && d == '|' {
		child.advance()
		attr.Namespace = ""
	} else if child.tag() == cssom.TokIdent {
		// Could be a namespace prefix (ident '|' ident) or the attribute
		// name itself — don't consume it as a namespace unless a bare
		// '|' (not '|=') is followed by a second identifier.
		name := child.value()
		savedPos := child.pos
		child.advance()
		matchedNS := false
		if d, ok := child.delim(); ok && d == '|' {
			afterPipe := child.pos
			child.advance()
			if child.tag() == cssom.TokIdent {
				attr.Namespace = name
				matchedNS = true
			} else {
				child.pos = afterPipe
			}
		}
		if !matchedNS {
			child.pos = savedPos
		}
	}

	if child.tag() == cssom.TokIdent {
		attr.Name = strings.ToLower(child.value())
		child.advance()
	}
	child.skipWhitespace()

	if child.atEnd() {
		attr.Op = AttrExists
		return attr, nil
	}
	if d, ok := child.delim(); ok {
		switch d {
		case '=':
			child.advance()
			attr.Op = AttrEquals
		case '~':
			child.advance()
			if d2, ok := child.delim(); ok && d2 == '=' {
				child.advance()
				attr.Op = AttrIncludes
			}
		case '|':
			child.advance()
			if d2, ok := child.delim(); ok && d2 == '=' {
				child.advance()
				attr.Op = AttrDashMatch
			}
		case '^':
			child.advance()
			if d2, ok := child.delim(); ok && d2 == '=' {
				child.advance()
				attr.Op = AttrPrefix
			}
		case '$':
			child.advance()
			if d2, ok := child.delim(); ok && d2 == '=' {
				child.advance()
				attr.Op = AttrSuffix
			}
		case '*':
			child.advance()
			if d2, ok := child.delim(); ok && d2 == '=' {
				child.advance()
				attr.Op = AttrSubstring
			}
		}
	}
	child.skipWhitespace()
	if child.tag() == cssom.TokString || child.tag() == cssom.TokIdent {
		attr.Value = child.value()
		child.advance()
	}
	child.skipWhitespace()
	if child.tag() == cssom.TokIdent {
		v := child.value()
		if v == "i" || v == "I" {
			attr.CaseInsensitive = true
			child.advance()
		} else if v == "s" || v == "S" {
			child.advance()
		}
	}
	return attr, nil
}

// attrStart returns end unchanged. Nothing calls it: parseAttribute takes
// a bracket block's child range [blockIndex+1, NextSibling) directly from
// the block node.
func attrStart(tree *cssom.Tree, end int) int {
	return end
}

func (p *parser) parsePseudoClass() (*PseudoClass, error) {
	pc := &PseudoClass{}
	switch p.tag() {
	case cssom.TokIdent:
		pc.Name = strings.ToLower(p.value())
		p.advance()
	case cssom.Function:
		pc.Name = strings.ToLower(p.value())
		argStart, argEnd := p.pos+1, p.tree.NextSibling[p.pos]
		p.advance()
		switch pc.Name {
		case "not", "is", "where", "has":
			sub, err := Parse(p.tree, argStart, argEnd)
			if err != nil {
				return nil, err
			}
			pc.Nested = sub
		default:
			pc.Argument = strings.TrimSpace(flattenText(p.tree, argStart, argEnd))
		}
	}
	return pc, nil
}

func (p *parser) parsePseudoElement() (*PseudoElement, error) {
	pe := &PseudoElement{}
	switch p.tag() {
	case cssom.TokIdent:
		pe.Name = strings.ToLower(p.value())
		p.advance()
	case cssom.Function:
		pe.Name = strings.ToLower(p.value())
		p.advance()
	}
	return pe, nil
}

func flattenText(tree *cssom.Tree, start, end int) string {
	var b strings.Builder
	for i := start; i < end; i = tree.Skip(i) {
		switch tree.Tag[i] {
		case cssom.TokWhitespace:
			b.WriteByte(' ')
		case cssom.TokIdent, cssom.TokString:
			b.WriteString(tree.Value[i])
		case cssom.TokNumber, cssom.TokPercentage:
			b.WriteString(strings.TrimSpace(tree.Value[i]))
		case cssom.TokDimension:
			b.WriteString(tree.Value[i])
		case cssom.TokDelim:
			b.WriteRune(rune(tree.Extra[i]))
		}
	}
	return b.String()
}
