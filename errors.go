package styx

import (
	"fmt"
	"strconv"
	"strings"
)

// LineCol is a 1-based line/column position, for rendering a Span
// against its source text.
type LineCol struct {
	Line   int
	Column int
}

// LocateOffset converts a byte offset into src to a 1-based line/column.
func LocateOffset(src string, offset uint32) LineCol {
	line, col := 1, 1
	for i := uint32(0); i < offset && int(i) < len(src); i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return LineCol{Line: line, Column: col}
}

// RenderedError is a parser Error event rendered against its source:
// a one-line message plus a caret pointing at the offending span.
type RenderedError struct {
	Kind     ErrorKind
	Start    LineCol
	End      LineCol
	Message  string
	SrcLine  string
}

// RenderError formats ev (which must be an EvError event) against src.
func RenderError(src string, ev Event) RenderedError {
	start := LocateOffset(src, ev.Span.Start)
	end := LocateOffset(src, ev.Span.End)
	return RenderedError{
		Kind:    ev.ErrKind,
		Start:   start,
		End:     end,
		Message: describeError(src, ev),
		SrcLine: sourceLine(src, ev.Span.Start),
	}
}

func sourceLine(src string, offset uint32) string {
	start := offset
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	end := offset
	for int(end) < len(src) && src[end] != '\n' {
		end++
	}
	return src[start:end]
}

// String renders e the way a CLI diagnostic would: `line:col: message`
// followed by the source line and a caret.
func (e RenderedError) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d:%d: %s\n", e.Start.Line, e.Start.Column, e.Message)
	b.WriteString(e.SrcLine)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", e.Start.Column-1))
	width := e.End.Column - e.Start.Column
	if width < 1 {
		width = 1
	}
	b.WriteString(strings.Repeat("^", width))
	return b.String()
}

func describeError(src string, ev Event) string {
	switch ev.ErrKind {
	case ErrUnexpectedToken:
		return "unexpected token"
	case ErrUnclosedObject:
		return "unclosed object: missing `}`"
	case ErrUnclosedSequence:
		return "unclosed sequence: missing `)`"
	case ErrInvalidEscape:
		return "invalid escape sequence"
	case ErrExpectedKey:
		return "expected a key"
	case ErrExpectedValue:
		return "expected a value"
	case ErrUnexpectedEof:
		return "unexpected end of input"
	case ErrDuplicateKey:
		orig := LocateOffset(src, ev.OriginalSpan.Start)
		return fmt.Sprintf("duplicate key (first defined at %d:%d)", orig.Line, orig.Column)
	case ErrInvalidTagName:
		return "invalid tag name"
	case ErrInvalidKey:
		return "invalid key"
	case ErrDanglingDocComment:
		return "doc comment not attached to any entry"
	case ErrTooManyAtoms:
		return "too many values in this entry"
	case ErrReopenedPath:
		return "path `" + strings.Join(ev.Path, ".") + "` was already closed"
	case ErrNestIntoTerminal:
		return "cannot nest into `" + strings.Join(ev.Path, ".") + "`, which already holds a value"
	case ErrCommaInSequence:
		return "sequences are separated by whitespace, not commas"
	case ErrMissingWhitespaceBeforeBlock:
		return "missing whitespace before `{` or `(`"
	case ErrTrailingContent:
		return "unexpected content after the document's value"
	default:
		return "error " + strconv.Itoa(int(ev.ErrKind))
	}
}

// CollectErrors filters events down to its EvError members.
func CollectErrors(events []Event) []Event {
	var out []Event
	for _, e := range events {
		if e.Kind == EvError {
			out = append(out, e)
		}
	}
	return out
}
