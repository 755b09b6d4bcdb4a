package styx

import (
	"strconv"
	"strings"

	runewidth "github.com/mattn/go-runewidth"
)

// ForceStyle overrides the Format Writer's inline/multiline heuristic
// for a structural value.
type ForceStyle int

const (
	StyleAuto ForceStyle = iota
	StyleInline
	StyleMultiline
)

// FormatOptions controls the Format Writer's layout decisions.
type FormatOptions struct {
	Indent               int
	MaxWidth             int
	MinInlineWidth       int
	ForceStyle           ForceStyle
	HeredocLineThreshold int
}

// DefaultFormatOptions returns the writer's baseline layout: two-space
// indent, an 80-column wrap target, and heredocs kicking in at three
// or more embedded newlines.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{Indent: 2, MaxWidth: 80, MinInlineWidth: 40, ForceStyle: StyleAuto, HeredocLineThreshold: 3}
}

// StyxWriter incrementally builds formatted Styx source. FormatValue
// drives it for a whole Value tree; callers needing finer control
// (a schema pretty-printer emitting keys it doesn't have a Value for
// yet, say) can call its methods directly.
type StyxWriter struct {
	opts  FormatOptions
	buf   strings.Builder
	depth int

	// skipSeparator suppresses the automatic ", "/newline separator
	// before the next value, used right after FieldKeyRaw or
	// WriteDocCommentAndKeyRaw so no separator lands between a key and
	// its value.
	skipSeparator bool

	// commaAt records buffer offsets of inline ", " separators written
	// since the enclosing struct/seq began, so a late decision to force
	// multiline (fixCommaSeparators) can rewrite them in place.
	commaAt []int
	firstAt int // buffer offset where the current scope's first field/element starts
}

// NewStyxWriter returns a writer ready to emit at the document root.
func NewStyxWriter(opts FormatOptions) *StyxWriter {
	return &StyxWriter{opts: opts}
}

func (w *StyxWriter) String() string { return w.buf.String() }

func (w *StyxWriter) indent() string {
	if w.depth <= 0 {
		return ""
	}
	return strings.Repeat(" ", w.opts.Indent*w.depth)
}

// --- struct (object) ------------------------------------------------------

// BeginStruct opens an object using the writer's configured ForceStyle.
func (w *StyxWriter) BeginStruct() { w.BeginStructWithOptions(w.opts.ForceStyle) }

// BeginStructWithOptions opens an object. The style argument is not
// applied: EndStruct decides inline versus multiline from the writer's
// configured ForceStyle, as for BeginStruct.
func (w *StyxWriter) BeginStructWithOptions(style ForceStyle) {
	w.beginStructAfterTag(style, false)
}

// BeginStructAfterTag is BeginStruct for an object that is a tag's
// payload, where no leading separator is needed before the brace.
func (w *StyxWriter) BeginStructAfterTag() { w.beginStructAfterTag(w.opts.ForceStyle, true) }

func (w *StyxWriter) beginStructAfterTag(style ForceStyle, afterTag bool) {
	_ = afterTag
	_ = style
	w.buf.WriteByte('{')
	w.depth++
	w.commaAt = nil
	w.firstAt = w.buf.Len()
	w.skipSeparator = true
}

// FieldKey writes a bare-spelled field key followed by its separating space.
func (w *StyxWriter) FieldKey(key string) { w.FieldKeyRaw(quoteScalar(key, w.opts)) }

// FieldKeyRaw writes key verbatim (already quoted/escaped by the caller).
func (w *StyxWriter) FieldKeyRaw(key string) {
	w.writeSeparator()
	w.buf.WriteString(w.indent())
	w.buf.WriteString(key)
	w.buf.WriteByte(' ')
	w.skipSeparator = true
}

// WriteDocCommentAndKey writes a `///`-prefixed doc comment (one line
// per element) followed by the field key.
func (w *StyxWriter) WriteDocCommentAndKey(lines []string, key string) {
	w.WriteDocCommentAndKeyRaw(lines, quoteScalar(key, w.opts))
}

// WriteDocCommentAndKeyRaw is WriteDocCommentAndKey for an already-quoted key.
func (w *StyxWriter) WriteDocCommentAndKeyRaw(lines []string, key string) {
	for _, l := range lines {
		w.writeSeparator()
		w.buf.WriteString(w.indent())
		w.buf.WriteString("///")
		w.buf.WriteString(l)
		w.buf.WriteByte('\n')
	}
	w.buf.WriteString(w.indent())
	w.buf.WriteString(key)
	w.buf.WriteByte(' ')
	w.skipSeparator = true
}

// ClearSkipBeforeValue cancels a pending skipSeparator, for callers
// that write a key but then decide not to write a value after all.
func (w *StyxWriter) ClearSkipBeforeValue() { w.skipSeparator = false }

// EndStruct closes the innermost object, deciding between inline and
// multiline based on the scope's rendered width.
func (w *StyxWriter) EndStruct() {
	w.depth--
	w.closeScope('}')
}

// --- sequence --------------------------------------------------------------

func (w *StyxWriter) BeginSeq() { w.beginSeq() }

// BeginSeqAfterTag is BeginSeq for a sequence that is a tag's payload.
func (w *StyxWriter) BeginSeqAfterTag() { w.beginSeq() }

func (w *StyxWriter) beginSeq() {
	w.buf.WriteByte('(')
	w.depth++
	w.commaAt = nil
	w.firstAt = w.buf.Len()
	w.skipSeparator = true
}

func (w *StyxWriter) EndSeq() {
	w.depth--
	w.closeScope(')')
}

func (w *StyxWriter) closeScope(close byte) {
	body := w.buf.String()[w.firstAt:]
	inline := w.fitsInline(body)
	if !inline {
		w.fixCommaSeparators()
		w.buf.WriteByte('\n')
		w.buf.WriteString(w.indent())
	}
	w.buf.WriteByte(close)
	w.skipSeparator = false
}

func (w *StyxWriter) fitsInline(body string) bool {
	switch w.opts.ForceStyle {
	case StyleInline:
		return true
	case StyleMultiline:
		return false
	}
	if strings.Contains(body, "\n") {
		return false
	}
	width := runewidth.StringWidth(body) + w.opts.Indent*w.depth
	return width <= w.opts.MaxWidth || width <= w.opts.MinInlineWidth
}

// writeSeparator writes ", " (the optimistic inline separator) before
// a field/element, unless one was just suppressed by a key write or
// this is the scope's first entry. Positions are remembered so
// fixCommaSeparators can rewrite them to newlines if the scope turns
// out to need multiline layout.
func (w *StyxWriter) writeSeparator() {
	if w.skipSeparator {
		w.skipSeparator = false
		return
	}
	if w.buf.Len() == w.firstAt {
		return
	}
	w.commaAt = append(w.commaAt, w.buf.Len())
	w.buf.WriteString(", ")
}

// FixCommaSeparators rewrites every ", " separator recorded for the
// current scope into a newline plus indent, for when a scope started
// optimistically inline but grew past the width budget.
func (w *StyxWriter) fixCommaSeparators() {
	if len(w.commaAt) == 0 {
		return
	}
	src := w.buf.String()
	var b strings.Builder
	b.Grow(len(src) + len(w.commaAt)*w.opts.Indent*w.depth)
	prev := 0
	indent := "\n" + w.indent()
	for _, pos := range w.commaAt {
		b.WriteString(src[prev:pos])
		b.WriteString(indent)
		prev = pos + 2 // length of ", "
	}
	b.WriteString(src[prev:])
	w.buf.Reset()
	w.buf.WriteString(b.String())
	w.commaAt = nil
}

// FixCommaSeparators is the exported form, for callers driving the
// writer's low-level methods directly instead of through FormatValue.
func (w *StyxWriter) FixCommaSeparators() { w.fixCommaSeparators() }

// --- leaf writers ------------------------------------------------------

func (w *StyxWriter) writeLeaf(s string) {
	w.writeSeparator()
	w.buf.WriteString(s)
}

func (w *StyxWriter) WriteNull()         { w.writeLeaf("@") }
func (w *StyxWriter) WriteBool(b bool)   { w.writeLeaf(strconv.FormatBool(b)) }
func (w *StyxWriter) WriteI64(v int64)   { w.writeLeaf(strconv.FormatInt(v, 10)) }
func (w *StyxWriter) WriteU64(v uint64)  { w.writeLeaf(strconv.FormatUint(v, 10)) }
func (w *StyxWriter) WriteI128(s string) { w.writeLeaf(s) }
func (w *StyxWriter) WriteU128(s string) { w.writeLeaf(s) }
func (w *StyxWriter) WriteF64(v float64) { w.writeLeaf(strconv.FormatFloat(v, 'g', -1, 64)) }
func (w *StyxWriter) WriteChar(r rune)   { w.writeLeaf(quoteScalar(string(r), w.opts)) }
func (w *StyxWriter) WriteString(s string) { w.writeLeaf(quoteScalar(s, w.opts)) }
func (w *StyxWriter) WriteBytes(b []byte)  { w.writeLeaf(quoteScalar(string(b), w.opts)) }

// WriteTag writes `@name` as a standalone value with no payload.
func (w *StyxWriter) WriteTag(name string) {
	w.writeSeparator()
	w.buf.WriteByte('@')
	w.buf.WriteString(name)
}

// WriteScalar writes a scalar value, honoring its recorded spelling
// only insofar as the quoting policy agrees; otherwise it requotes.
func (w *StyxWriter) WriteScalar(text string, _ ScalarKind) { w.writeLeaf(quoteScalar(text, w.opts)) }

// --- FormatValue -----------------------------------------------------------

// FormatValue renders v as a complete Styx document (if v is an
// object) or standalone expression (otherwise) using opts.
func FormatValue(v Value, opts FormatOptions) string {
	w := NewStyxWriter(opts)
	w.writeDocumentOrValue(v)
	return w.buf.String()
}

func (w *StyxWriter) writeDocumentOrValue(v Value) {
	if v.Tag == nil {
		if entries, ok := v.AsEntries(); ok {
			w.writeRootEntries(entries)
			return
		}
	}
	w.writeValue(v)
}

// writeRootEntries writes an object's entries unbraced, one per
// top-level line, matching the writer's document-mode convention for
// the implicit root object.
func (w *StyxWriter) writeRootEntries(entries []Entry) {
	for i, e := range entries {
		if i > 0 {
			w.buf.WriteByte('\n')
		}
		w.writeEntry(e)
	}
}

func (w *StyxWriter) writeEntry(e Entry) {
	for _, l := range e.Doc {
		w.buf.WriteString("///")
		w.buf.WriteString(l)
		w.buf.WriteByte('\n')
	}
	w.writeKey(e.Key)
	w.buf.WriteByte(' ')
	w.writeValue(e.Value)
}

func (w *StyxWriter) writeKey(k Value) {
	if name, ok := k.TagName(); ok {
		w.buf.WriteByte('@')
		w.buf.WriteString(name)
		if text, ok := k.AsString(); ok {
			w.buf.WriteString(quoteScalar(text, w.opts))
		}
		return
	}
	if text, ok := k.AsString(); ok {
		w.buf.WriteString(quoteScalar(text, w.opts))
		return
	}
	w.buf.WriteByte('@') // unit key
}

func (w *StyxWriter) writeValue(v Value) {
	if name, ok := v.TagName(); ok {
		w.buf.WriteByte('@')
		w.buf.WriteString(name)
		if !v.IsUnit() {
			untagged := v
			untagged.Tag = nil
			w.writeValue(untagged)
		}
		return
	}
	switch {
	case v.IsUnit():
		w.buf.WriteByte('@')
	default:
		if text, ok := v.AsString(); ok {
			w.buf.WriteString(quoteScalar(text, w.opts))
		} else if entries, ok := v.AsEntries(); ok {
			w.writeObjectLiteral(entries)
		} else if items, ok := v.AsItems(); ok {
			w.writeSeqLiteral(items)
		}
	}
}

func (w *StyxWriter) writeObjectLiteral(entries []Entry) {
	w.BeginStruct()
	for _, e := range entries {
		w.writeSeparator()
		for _, l := range e.Doc {
			w.buf.WriteString(w.indent())
			w.buf.WriteString("///")
			w.buf.WriteString(l)
			w.buf.WriteByte('\n')
		}
		w.buf.WriteString(w.indent())
		w.writeKeyInline(e.Key)
		w.buf.WriteByte(' ')
		w.writeValue(e.Value)
	}
	w.EndStruct()
}

func (w *StyxWriter) writeKeyInline(k Value) { w.writeKey(k) }

func (w *StyxWriter) writeSeqLiteral(items []Value) {
	w.BeginSeq()
	for _, it := range items {
		w.writeSeparator()
		w.buf.WriteString(w.indent())
		w.writeValue(it)
	}
	w.EndSeq()
}

// --- scalar quoting policy ---------------------------------------------

// quoteScalar picks the least-decorated spelling that round-trips:
// bare, then heredoc (past the newline threshold), then raw string,
// then an escaped quoted string.
func quoteScalar(text string, opts FormatOptions) string {
	if isBareEligible(text) {
		return text
	}
	if strings.Count(text, "\n") >= opts.HeredocLineThreshold {
		return formatHeredoc(text, opts)
	}
	if canRawString(text) {
		return formatRawString(text)
	}
	return formatQuoted(text)
}

func isBareEligible(text string) bool {
	if text == "" {
		return false
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		if i == 0 {
			if !isBareScalarStart(c) {
				return false
			}
			continue
		}
		if !isBareScalarContinue(c) {
			return false
		}
	}
	return true
}

func canRawString(text string) bool {
	if strings.Contains(text, "\"#") {
		return false
	}
	escapable := strings.Count(text, "\\") + strings.Count(text, "\"") + strings.Count(text, "\n") + strings.Count(text, "\t") + strings.Count(text, "\r")
	return escapable > 3
}

// formatRawString wraps text in the fewest `#` markers that still let
// the closing `"#...` delimiter round-trip unambiguously.
func formatRawString(text string) string {
	hashes := 0
	check := `"`
	for strings.Contains(text, check) {
		hashes++
		check = `"` + strings.Repeat("#", hashes)
	}
	h := strings.Repeat("#", hashes)
	return "r" + h + `"` + text + `"` + h
}

func formatQuoted(text string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range text {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// heredocDelimiters is the fixed candidate list tried in order; the
// first one absent from the content is used, falling back to the first
// entry if every candidate somehow occurs.
var heredocDelimiters = []string{"TEXT", "END", "HEREDOC", "DOC", "STR", "CONTENT"}

func formatHeredoc(text string, opts FormatOptions) string {
	tag := heredocDelimiters[0]
	for _, d := range heredocDelimiters {
		if !strings.Contains(text, d) {
			tag = d
			break
		}
	}
	var b strings.Builder
	b.WriteString("<<")
	b.WriteString(tag)
	b.WriteByte('\n')
	b.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat(" ", opts.Indent))
	b.WriteString(tag)
	return b.String()
}
