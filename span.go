package styx

import "fmt"

// Span is a half-open byte range [Start, End) into a source document.
// Every token, lexeme, parse event, tree node, and error carries one.
type Span struct {
	Start uint32
	End   uint32
}

// NewSpan builds a Span, panicking if the range is inverted.
func NewSpan(start, end uint32) Span {
	if end < start {
		panic(fmt.Sprintf("styx: inverted span [%d,%d)", start, end))
	}
	return Span{Start: start, End: end}
}

// Len returns the byte length of the span.
func (s Span) Len() uint32 { return s.End - s.Start }

// IsEmpty reports whether the span covers zero bytes.
func (s Span) IsEmpty() bool { return s.Start == s.End }

// Slice returns the bytes of src covered by s.
func (s Span) Slice(src string) string { return src[s.Start:s.End] }

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	start := s.Start
	if other.Start < start {
		start = other.Start
	}
	end := s.End
	if other.End > end {
		end = other.End
	}
	return Span{Start: start, End: end}
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}
