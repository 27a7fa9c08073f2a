// Package stylesheet assembles a parsed component tree's top-level
// rule_list into a Stylesheet: a namespace prefix map plus an ordered list
// of style rules, each a selector list paired with its declarations
// (spec.md §4.E).
package stylesheet

import (
	"log"
	"strings"

	"github.com/tusf-zss/zss/cssom"
	"github.com/tusf-zss/zss/selector"
)

func warn(v ...interface{}) {
	log.Println(v...)
}

func warnf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// Declaration is one `property: value [!important]` pair. Value is kept as
// a raw component range rather than eagerly parsed — package value parses
// it on demand, the same deferred-parsing shape as element.Declaration.
type Declaration struct {
	Property        string
	Tree            *cssom.Tree
	ValueStart, ValueEnd int
	Important       bool
}

// StyleRule is one qualified rule: a selector list and the declarations in
// its block.
type StyleRule struct {
	Selectors    *selector.List
	Declarations []Declaration
}

// Stylesheet is the assembled result of walking a rule_list.
type Stylesheet struct {
	Rules []StyleRule

	// Namespaces maps a declared prefix to a namespace id (monotonically
	// assigned in declaration order); "" maps to the default namespace if
	// one was declared via an unprefixed @namespace rule.
	Namespaces       map[string]int
	DefaultNamespace int // 0 means "no default namespace declared"
	nextNamespaceID  int
}

// Parse assembles a Stylesheet from CSS source text.
func Parse(css []byte) *Stylesheet {
	tree := cssom.ParseStylesheet(css)
	return Assemble(tree)
}

// Assemble walks an already-parsed top-level rule_list (root index 0) and
// builds a Stylesheet, per spec.md §4.E: dispatch each child by tag,
// `@import`/`@namespace` handled specially, other at-rules logged and
// skipped, qualified rules turned into selector-list+declarations pairs.
func Assemble(tree *cssom.Tree) *Stylesheet {
	s := &Stylesheet{Namespaces: map[string]int{}}
	if tree.Len() == 0 {
		return s
	}
	for _, child := range tree.Children(0) {
		switch tree.Tag[child] {
		case cssom.AtRule:
			s.assembleAtRule(tree, child)
		case cssom.QualifiedRule:
			s.assembleQualifiedRule(tree, child)
		}
	}
	return s
}

func (s *Stylesheet) assembleAtRule(tree *cssom.Tree, idx int) {
	name := strings.ToLower(tree.Value[idx])
	preludeStart, preludeEnd := idx+1, tree.Extra[idx]
	if preludeEnd == 0 {
		preludeEnd = tree.NextSibling[idx]
	}
	switch name {
	case "namespace":
		s.assembleNamespace(tree, preludeStart, preludeEnd)
	case "import":
		// @import has no consumer in this engine (no network fetch, per
		// spec.md §1's scope boundary) — logged and otherwise ignored.
		warn("stylesheet: @import ignored (no fetch collaborator)")
	default:
		warnf("stylesheet: unknown at-rule @%s skipped", name)
	}
}

// assembleNamespace implements `@namespace [prefix]? <url|string>`. Any
// extra tokens beyond an optional prefix and one url/string invalidate the
// rule (spec.md §8 boundary 12).
func (s *Stylesheet) assembleNamespace(tree *cssom.Tree, start, end int) {
	i := start
	for i < end && tree.Tag[i].IsSkippable() {
		i = tree.Skip(i)
	}
	prefix := ""
	if i < end && tree.Tag[i] == cssom.TokIdent {
		prefix = tree.Value[i]
		i = tree.Skip(i)
		for i < end && tree.Tag[i].IsSkippable() {
			i = tree.Skip(i)
		}
	}
	if i >= end || (tree.Tag[i] != cssom.TokString && tree.Tag[i] != cssom.TokURL) {
		warn("stylesheet: invalid @namespace rule, missing url/string")
		return
	}
	i = tree.Skip(i)
	for i < end && tree.Tag[i].IsSkippable() {
		i = tree.Skip(i)
	}
	if i != end {
		warn("stylesheet: invalid @namespace rule, unexpected trailing tokens")
		return
	}

	s.nextNamespaceID++
	id := s.nextNamespaceID
	if prefix == "" {
		s.DefaultNamespace = id
	} else {
		s.Namespaces[prefix] = id
	}
}

func (s *Stylesheet) assembleQualifiedRule(tree *cssom.Tree, idx int) {
	bodyIdx := tree.Extra[idx]
	if bodyIdx == 0 {
		return
	}
	sel, err := selector.Parse(tree, idx+1, bodyIdx)
	if err != nil {
		warnf("stylesheet: invalid selector, rule skipped: %v", err)
		return
	}
	decls := parseDeclarations(tree, bodyIdx)
	s.Rules = append(s.Rules, StyleRule{Selectors: sel, Declarations: decls})
}

// parseDeclarations walks a simple_block_curly body's children as a
// declaration list: `ident ':' value (';' | end)`, tolerating stray
// qualified/at rules nested in the block by skipping them (no nesting
// support, matching spec.md's flat cascade model).
func parseDeclarations(tree *cssom.Tree, blockIdx int) []Declaration {
	end := tree.NextSibling[blockIdx]
	var decls []Declaration
	i := blockIdx + 1
	for i < end {
		for i < end && (tree.Tag[i].IsSkippable() || tree.Tag[i] == cssom.TokSemicolon) {
			i = tree.Skip(i)
		}
		if i >= end {
			break
		}
		if tree.Tag[i] != cssom.TokIdent {
			// Not a declaration (could be a stray nested rule); skip it.
			i = tree.Skip(i)
			continue
		}
		property := strings.ToLower(tree.Value[i])
		i = tree.Skip(i)
		for i < end && tree.Tag[i].IsSkippable() {
			i = tree.Skip(i)
		}
		if i >= end || tree.Tag[i] != cssom.TokColon {
			continue
		}
		i = tree.Skip(i) // past ':'

		valueStart := i
		for i < end && tree.Tag[i] != cssom.TokSemicolon {
			i = tree.Skip(i)
		}
		valueEnd := i

		important := false
		valueEnd, important = stripImportant(tree, valueStart, valueEnd)

		decls = append(decls, Declaration{
			Property:   property,
			Tree:       tree,
			ValueStart: valueStart,
			ValueEnd:   valueEnd,
			Important:  important,
		})
	}
	return decls
}

// stripImportant trims a trailing `!important` (case-insensitively, any
// whitespace between `!` and `important`) off a declaration's value range.
func stripImportant(tree *cssom.Tree, start, end int) (newEnd int, important bool) {
	j := end
	for j > start && tree.Tag[j-1].IsSkippable() {
		j--
	}
	if j <= start || tree.Tag[j-1] != cssom.TokIdent || !strings.EqualFold(tree.Value[j-1], "important") {
		return end, false
	}
	j--
	for j > start && tree.Tag[j-1].IsSkippable() {
		j--
	}
	if j <= start || tree.Tag[j-1] != cssom.TokDelim || rune(tree.Extra[j-1]) != '!' {
		return end, false
	}
	j--
	return j, true
}
