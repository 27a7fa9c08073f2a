// Package cssom implements the CSS Syntax Module Level 3 "component tree":
// a flat, skip-encoded parse tree of rules, blocks, functions and tokens.
//
// Unlike an owning-pointer AST, every node lives at a fixed index in a set
// of parallel slices. A container node's NextSibling is the index one past
// its last descendant, so a consumer can skip an entire subtree — or walk
// only its direct children — in O(1) per step, without recursion.
package cssom

// Tag identifies what kind of node occupies a tree index: either one of
// the container shapes (rule_list, at_rule, qualified_rule, a simple
// block, a function) or a leaf carrying a single token.
type Tag int

const (
	RuleList Tag = iota
	AtRule
	QualifiedRule
	SimpleBlockCurly
	SimpleBlockBracket
	SimpleBlockParen
	Function

	TokIdent
	TokAtKeyword
	TokHash
	TokString
	TokBadString
	TokURL
	TokBadURL
	TokDelim
	TokNumber
	TokPercentage
	TokDimension
	TokWhitespace
	TokComment
	TokColon
	TokSemicolon
	TokComma
	TokCDO
	TokCDC

	// These only appear as leaves when a closing delimiter shows up with
	// no corresponding opener in scope (a stray token, passed through
	// verbatim rather than treated as an error).
	TokLeftCurly
	TokRightCurly
	TokLeftBracket
	TokRightBracket
	TokLeftParen
	TokRightParen
)

func (t Tag) String() string {
	switch t {
	case RuleList:
		return "rule_list"
	case AtRule:
		return "at_rule"
	case QualifiedRule:
		return "qualified_rule"
	case SimpleBlockCurly:
		return "simple_block_curly"
	case SimpleBlockBracket:
		return "simple_block_bracket"
	case SimpleBlockParen:
		return "simple_block_paren"
	case Function:
		return "function"
	case TokIdent:
		return "ident"
	case TokAtKeyword:
		return "at-keyword"
	case TokHash:
		return "hash"
	case TokString:
		return "string"
	case TokBadString:
		return "bad-string"
	case TokURL:
		return "url"
	case TokBadURL:
		return "bad-url"
	case TokDelim:
		return "delim"
	case TokNumber:
		return "number"
	case TokPercentage:
		return "percentage"
	case TokDimension:
		return "dimension"
	case TokWhitespace:
		return "whitespace"
	case TokComment:
		return "comment"
	case TokColon:
		return "colon"
	case TokSemicolon:
		return "semicolon"
	case TokComma:
		return "comma"
	case TokCDO:
		return "cdo"
	case TokCDC:
		return "cdc"
	default:
		return "token"
	}
}

// IsContainer reports whether a node of this tag owns a subtree (its
// NextSibling spans descendants rather than pointing at itself+1).
func (t Tag) IsContainer() bool {
	switch t {
	case RuleList, AtRule, QualifiedRule, SimpleBlockCurly, SimpleBlockBracket, SimpleBlockParen, Function:
		return true
	default:
		return false
	}
}

// IsSkippable reports whether a tag is whitespace or a comment — the two
// tags value sources and the selector/declaration assemblers skip over.
func (t Tag) IsSkippable() bool {
	return t == TokWhitespace || t == TokComment
}

// Tree is a complete parsed component tree, stored as parallel columns
// indexed by node position. Node i's descendants (if IsContainer) occupy
// [i+1, NextSibling[i]).
type Tree struct {
	Tag         []Tag
	Location    []int
	NextSibling []int

	// Extra carries the body-block index for at_rule/qualified_rule
	// nodes that have one (zero otherwise), and the delimiter code point
	// for TokDelim nodes.
	Extra []int

	// Value carries the decoded text payload for ident/at-keyword/hash/
	// string/bad-string/url/bad-url nodes, and the unit for dimension
	// nodes.
	Value []string

	// Num and NumFlag carry the pre-parsed numeric payload for number/
	// percentage/dimension nodes.
	Num     []float64
	NumFlag []int // token.NumberFlag, stored untyped to avoid an import cycle concern; see token.NumberFlag
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.Tag) }

func (t *Tree) append(tag Tag, loc int) int {
	idx := len(t.Tag)
	t.Tag = append(t.Tag, tag)
	t.Location = append(t.Location, loc)
	// Leaves never get a NextSibling fixup, so default it to idx+1 (a
	// one-node subtree); container nodes overwrite this when they pop.
	t.NextSibling = append(t.NextSibling, idx+1)
	t.Extra = append(t.Extra, 0)
	t.Value = append(t.Value, "")
	t.Num = append(t.Num, 0)
	t.NumFlag = append(t.NumFlag, 0)
	return idx
}

// truncate drops every node from idx onward, used when a qualified rule
// hits EOF before its block and must be discarded per the parser's error
// policy.
func (t *Tree) truncate(idx int) {
	t.Tag = t.Tag[:idx]
	t.Location = t.Location[:idx]
	t.NextSibling = t.NextSibling[:idx]
	t.Extra = t.Extra[:idx]
	t.Value = t.Value[:idx]
	t.Num = t.Num[:idx]
	t.NumFlag = t.NumFlag[:idx]
}

// Children returns the indices of i's direct children, in document order.
// i must be a container node.
func (t *Tree) Children(i int) []int {
	var out []int
	end := t.NextSibling[i]
	for c := i + 1; c < end; c = t.NextSibling[c] {
		out = append(out, c)
	}
	return out
}

// Skip returns the index one past node i's entire subtree: i+1 for a
// leaf, NextSibling[i] for a container.
func (t *Tree) Skip(i int) int {
	if t.Tag[i].IsContainer() {
		return t.NextSibling[i]
	}
	return i + 1
}
