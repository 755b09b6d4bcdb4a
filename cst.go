package styx

import "strings"

// SyntaxKind labels a CST node. The CST groups raw tokens (including
// whitespace and comments) purely by bracket nesting; it does not
// re-derive the Event Parser's entry/key/value grammar, so there is no
// SynEntry/SynKey/SynTag split here -- only the structural shapes that
// need their own open/close bracket bookkeeping, plus a leaf wrapping
// every other token verbatim. See DESIGN.md for why.
type SyntaxKind int

const (
	SynDocument SyntaxKind = iota
	SynObject
	SynSequence
	SynToken
)

// SyntaxNode is one node of the concrete syntax tree: either an
// internal node grouping children by bracket nesting, or a leaf
// wrapping one raw Token verbatim.
type SyntaxNode struct {
	Kind     SyntaxKind
	Children []*SyntaxNode
	Tok      *Token // set only when Kind == SynToken
}

// String reassembles the node's exact source text. For the document
// root this satisfies the roundtrip invariant: ParseCST(src).Root.String() == src.
func (n *SyntaxNode) String() string {
	if n.Kind == SynToken {
		return n.Tok.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.String())
	}
	return b.String()
}

// Span covers every token under n; the zero Span if n has no children.
func (n *SyntaxNode) Span() Span {
	if n.Kind == SynToken {
		return n.Tok.Span
	}
	if len(n.Children) == 0 {
		return Span{}
	}
	first := n.Children[0].Span()
	last := n.Children[len(n.Children)-1].Span()
	return first.Cover(last)
}

// ParseError is one CST-level structural defect: an unclosed bracket
// found at Offset, reported with Message.
type ParseError struct {
	Offset  uint32
	Message string
}

// CST is the result of parsing a document into its concrete syntax
// tree: every byte of the source, plus any unclosed-bracket errors.
type CST struct {
	Root   *SyntaxNode
	Errors []ParseError
}

// ParseCST tokenizes src (via the raw Tokenizer, not the Lexer, so
// whitespace and comments are preserved) and groups the tokens into a
// bracket-nested tree.
func ParseCST(src string) CST {
	tok := NewTokenizer(src)
	var toks []Token
	for {
		t := tok.NextToken()
		toks = append(toks, t)
		if t.Kind == TokEof {
			break
		}
	}

	b := &cstBuilder{toks: toks}
	root := b.group(SynDocument, TokEof)
	return CST{Root: root, Errors: b.errors}
}

type cstBuilder struct {
	toks   []Token
	pos    int
	errors []ParseError
}

// group consumes tokens into one node of kind, closing on closeKind
// (ignored for the document root, which always closes on TokEof).
func (b *cstBuilder) group(kind SyntaxKind, closeKind TokenKind) *SyntaxNode {
	n := &SyntaxNode{Kind: kind}
	for {
		t := b.toks[b.pos]
		switch {
		case kind != SynDocument && t.Kind == closeKind:
			b.pos++
			n.Children = append(n.Children, &SyntaxNode{Kind: SynToken, Tok: &b.toks[b.pos-1]})
			return n
		case t.Kind == TokEof:
			if kind != SynDocument {
				b.errors = append(b.errors, ParseError{Offset: t.Span.Start, Message: "unclosed bracket"})
			}
			n.Children = append(n.Children, &SyntaxNode{Kind: SynToken, Tok: &b.toks[b.pos]})
			return n
		case t.Kind == TokLBrace:
			b.pos++
			child := b.group(SynObject, TokRBrace)
			n.Children = append(n.Children, b.prependOpen(t, child))
		case t.Kind == TokLParen:
			b.pos++
			child := b.group(SynSequence, TokRParen)
			n.Children = append(n.Children, b.prependOpen(t, child))
		default:
			b.pos++
			n.Children = append(n.Children, &SyntaxNode{Kind: SynToken, Tok: &b.toks[b.pos-1]})
		}
	}
}

func (b *cstBuilder) prependOpen(open Token, child *SyntaxNode) *SyntaxNode {
	child.Children = append([]*SyntaxNode{{Kind: SynToken, Tok: &open}}, child.Children...)
	return child
}
