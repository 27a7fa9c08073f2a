package cssom

import "github.com/tusf-zss/zss/token"

// frameKind names the legal states of the parser's explicit stack, per
// the CSS Syntax Module Level 3 "consume a list of rules" / "consume a
// qualified rule" / "consume an at-rule" / "consume a simple block" /
// "consume a function" algorithms. There is no frameRoot entry in the
// tree's Tag set — it is a sentinel that is never popped by the driver,
// only used to detect "stack has more work".
type frameKind int

const (
	frameRoot frameKind = iota
	frameListOfRules
	frameListOfComponentValues
	frameQualifiedRule
	frameAtRule
	frameSimpleBlock
	frameFunction
)

type frame struct {
	kind frameKind

	// node is the tree index of the container this frame owns. frameRoot
	// owns no node (its node field is left 0 and never read), and the
	// top-level frameListOfComponentValues, which owns no wrapping node of
	// its own, carries -1.
	node int

	topLevel bool // frameListOfRules only: true for the document root

	close token.Kind // frameSimpleBlock only: the matching closing token

	// awaitingClose is set on a qualified_rule/at_rule frame once its
	// body block has been pushed; the next time the driver revisits this
	// frame (after the child block has popped), it pops immediately.
	awaitingClose bool
}

// Parser drives the tokenizer through the stack machine described above,
// building a Tree. It holds exactly one token of lookahead, mirroring the
// "current input token" / "reconsume" vocabulary of the CSS Syntax spec.
type Parser struct {
	tz     *token.Tokenizer
	tree   Tree
	stack  []frame
	cur    token.Token
	curSet bool
}

func newParser(src []byte) *Parser {
	return &Parser{tz: token.New(src)}
}

func (p *Parser) peek() token.Token {
	if !p.curSet {
		p.cur = p.tz.Next()
		p.curSet = true
	}
	return p.cur
}

// advance discards the current token so the next peek() fetches a fresh
// one. There is no explicit "reconsume": a step function that decides not
// to consume the peeked token simply does not call advance.
func (p *Parser) advance() { p.curSet = false }

func (p *Parser) push(f frame)  { p.stack = append(p.stack, f) }
func (p *Parser) pop() frame    { f := p.stack[len(p.stack)-1]; p.stack = p.stack[:len(p.stack)-1]; return f }
func (p *Parser) top() *frame   { return &p.stack[len(p.stack)-1] }

// ParseStylesheet parses src as a top-level stylesheet: a single rule_list
// container over the document's rules. Infallible except for allocation —
// malformed input degrades to a shorter tree, never an error.
func ParseStylesheet(src []byte) *Tree {
	p := newParser(src)
	p.push(frame{kind: frameRoot})
	root := p.tree.append(RuleList, 0)
	p.push(frame{kind: frameListOfRules, node: root, topLevel: true})
	p.run()
	return &p.tree
}

// ParseComponentValues parses src as a bare list of component values (no
// rule-list wrapping), as used for a declaration's value or any other
// standalone component-value range.
func ParseComponentValues(src []byte) *Tree {
	p := newParser(src)
	p.push(frame{kind: frameRoot})
	p.push(frame{kind: frameListOfComponentValues, node: -1})
	p.run()
	return &p.tree
}

func (p *Parser) run() {
	for len(p.stack) > 1 {
		switch p.top().kind {
		case frameListOfRules:
			p.stepListOfRules()
		case frameListOfComponentValues:
			p.stepListOfComponentValues()
		case frameQualifiedRule:
			p.stepQualifiedRule()
		case frameAtRule:
			p.stepAtRule()
		case frameSimpleBlock:
			p.stepSimpleBlock()
		case frameFunction:
			p.stepFunction()
		}
	}
}

// stepListOfRules implements "consume a list of rules". Leading
// whitespace and CDO/CDC between rules are discarded, not tokenized.
func (p *Parser) stepListOfRules() {
	for {
		t := p.peek()
		switch t.Kind {
		case token.Whitespace, token.CDO, token.CDC:
			p.advance()
			continue
		case token.EOF:
			closed := p.pop()
			p.tree.NextSibling[closed.node] = p.tree.Len()
			return
		case token.AtKeyword:
			p.advance()
			idx := p.tree.append(AtRule, t.Location)
			p.tree.Value[idx] = t.Value
			p.push(frame{kind: frameAtRule, node: idx})
			return
		default:
			idx := p.tree.append(QualifiedRule, t.Location)
			p.push(frame{kind: frameQualifiedRule, node: idx})
			return
		}
	}
}

// stepListOfComponentValues implements "consume a list of component
// values" for the top-level entry point: every component value is
// appended (or opens a child frame) until EOF.
func (p *Parser) stepListOfComponentValues() {
	if p.peek().Kind == token.EOF {
		p.pop()
		return
	}
	p.consumeComponentValue()
}

// stepQualifiedRule implements "consume a qualified rule": the prelude is
// every component value up to (not including) a top-level `{`-block,
// which becomes the rule's body. EOF before a block truncates the rule
// entirely, per the parser's error policy.
func (p *Parser) stepQualifiedRule() {
	f := p.top()
	if f.awaitingClose {
		closed := p.pop()
		p.tree.NextSibling[closed.node] = p.tree.Len()
		return
	}
	t := p.peek()
	switch t.Kind {
	case token.EOF:
		closed := p.pop()
		p.tree.truncate(closed.node)
		return
	case token.LeftCurly:
		p.advance()
		blockIdx := p.tree.append(SimpleBlockCurly, t.Location)
		p.tree.Extra[f.node] = blockIdx
		f.awaitingClose = true
		p.push(frame{kind: frameSimpleBlock, node: blockIdx, close: token.RightCurly})
		return
	default:
		p.consumeComponentValue()
	}
}

// stepAtRule implements "consume an at-rule". The prelude runs to `;`,
// a `{`-block, or EOF — all three end the rule cleanly (an at-rule is
// never truncated, unlike a qualified rule: see spec.md §4.B).
func (p *Parser) stepAtRule() {
	f := p.top()
	if f.awaitingClose {
		closed := p.pop()
		p.tree.NextSibling[closed.node] = p.tree.Len()
		return
	}
	t := p.peek()
	switch t.Kind {
	case token.EOF:
		closed := p.pop()
		p.tree.NextSibling[closed.node] = p.tree.Len()
		return
	case token.Semicolon:
		p.advance()
		closed := p.pop()
		p.tree.NextSibling[closed.node] = p.tree.Len()
		return
	case token.LeftCurly:
		p.advance()
		blockIdx := p.tree.append(SimpleBlockCurly, t.Location)
		p.tree.Extra[f.node] = blockIdx
		f.awaitingClose = true
		p.push(frame{kind: frameSimpleBlock, node: blockIdx, close: token.RightCurly})
		return
	default:
		p.consumeComponentValue()
	}
}

// stepSimpleBlock implements "consume a simple block": runs until the
// matching closing token or EOF, either of which simply ends the block
// (no truncation — only a qualified rule without its block is discarded).
func (p *Parser) stepSimpleBlock() {
	f := p.top()
	t := p.peek()
	if t.Kind == f.close || t.Kind == token.EOF {
		if t.Kind == f.close {
			p.advance()
		}
		closed := p.pop()
		p.tree.NextSibling[closed.node] = p.tree.Len()
		return
	}
	p.consumeComponentValue()
}

// stepFunction implements "consume a function": runs until `)` or EOF.
func (p *Parser) stepFunction() {
	t := p.peek()
	if t.Kind == token.RightParen || t.Kind == token.EOF {
		if t.Kind == token.RightParen {
			p.advance()
		}
		closed := p.pop()
		p.tree.NextSibling[closed.node] = p.tree.Len()
		return
	}
	p.consumeComponentValue()
}

// consumeComponentValue implements "consume a component value": an
// opening bracket/brace/paren opens a simple block, a function token
// opens a function, anything else is appended as a leaf. It never pops
// the current frame — callers loop back to re-inspect it.
func (p *Parser) consumeComponentValue() {
	t := p.peek()
	switch t.Kind {
	case token.LeftCurly:
		p.advance()
		idx := p.tree.append(SimpleBlockCurly, t.Location)
		p.push(frame{kind: frameSimpleBlock, node: idx, close: token.RightCurly})
	case token.LeftSquare:
		p.advance()
		idx := p.tree.append(SimpleBlockBracket, t.Location)
		p.push(frame{kind: frameSimpleBlock, node: idx, close: token.RightSquare})
	case token.LeftParen:
		p.advance()
		idx := p.tree.append(SimpleBlockParen, t.Location)
		p.push(frame{kind: frameSimpleBlock, node: idx, close: token.RightParen})
	case token.Function:
		p.advance()
		idx := p.tree.append(Function, t.Location)
		p.tree.Value[idx] = t.Value
		p.push(frame{kind: frameFunction, node: idx})
	default:
		p.advance()
		p.appendLeaf(t)
	}
}

func (p *Parser) appendLeaf(t token.Token) {
	tag, ok := leafTag(t.Kind)
	if !ok {
		return
	}
	idx := p.tree.append(tag, t.Location)
	switch t.Kind {
	case token.Ident, token.AtKeyword, token.Hash, token.String, token.BadString, token.URL, token.BadURL:
		p.tree.Value[idx] = t.Value
	case token.Delim:
		p.tree.Extra[idx] = int(t.Delim)
	case token.Number, token.Percentage, token.Dimension:
		p.tree.Num[idx] = t.Num
		p.tree.NumFlag[idx] = int(t.NumFlag)
		if t.Kind == token.Dimension {
			p.tree.Value[idx] = t.Value
		}
	}
}

func leafTag(k token.Kind) (Tag, bool) {
	switch k {
	case token.Ident:
		return TokIdent, true
	case token.AtKeyword:
		return TokAtKeyword, true
	case token.Hash:
		return TokHash, true
	case token.String:
		return TokString, true
	case token.BadString:
		return TokBadString, true
	case token.URL:
		return TokURL, true
	case token.BadURL:
		return TokBadURL, true
	case token.Delim:
		return TokDelim, true
	case token.Number:
		return TokNumber, true
	case token.Percentage:
		return TokPercentage, true
	case token.Dimension:
		return TokDimension, true
	case token.Whitespace:
		return TokWhitespace, true
	case token.Comment:
		return TokComment, true
	case token.Colon:
		return TokColon, true
	case token.Semicolon:
		return TokSemicolon, true
	case token.Comma:
		return TokComma, true
	case token.CDO:
		return TokCDO, true
	case token.CDC:
		return TokCDC, true
	case token.LeftCurly:
		return TokLeftCurly, true
	case token.RightCurly:
		return TokRightCurly, true
	case token.LeftSquare:
		return TokLeftBracket, true
	case token.RightSquare:
		return TokRightBracket, true
	case token.LeftParen:
		return TokLeftParen, true
	case token.RightParen:
		return TokRightParen, true
	default:
		return 0, false
	}
}
