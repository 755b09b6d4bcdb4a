package styx

// ScalarKind distinguishes how a scalar lexeme's text was spelled in the
// source, which the Format Writer later uses to decide how to requote it.
type ScalarKind int

const (
	ScalarBare ScalarKind = iota
	ScalarQuoted
	ScalarRaw
	ScalarHeredoc
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarBare:
		return "Bare"
	case ScalarQuoted:
		return "Quoted"
	case ScalarRaw:
		return "Raw"
	case ScalarHeredoc:
		return "Heredoc"
	default:
		return "Unknown"
	}
}

// LexemeKind enumerates the semantic atoms the Lexer hands to the Event
// Parser, one level above raw tokenizer output.
type LexemeKind int

const (
	LexScalar LexemeKind = iota
	LexUnit
	LexTag
	LexObjectStart
	LexObjectEnd
	LexSeqStart
	LexSeqEnd
	LexComma
	LexNewline
	LexAttrKey
	LexComment
	LexDocComment
	LexError
	LexEof
)

// Lexeme is one output unit of the Lexer.
type Lexeme struct {
	Kind LexemeKind
	Span Span

	// Scalar (LexScalar): decoded text and how it was spelled.
	Value      string
	ScalarKind ScalarKind

	// Tag (LexTag): name without the leading '@'.
	TagName    string
	HasPayload bool

	// AttrKey (LexAttrKey): key text and the span of the key alone
	// (excluding the '>').
	Key     string
	KeySpan Span

	// Comment / DocComment: raw comment text with the leading slashes
	// stripped.
	Text string

	// Error: human-readable message.
	Message string
}
