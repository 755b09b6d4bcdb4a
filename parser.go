package styx

import "strings"

// Parser turns a Lexer's stream into the linear, well-bracketed parse
// events described by the document grammar (Document, Entry, Key,
// Value, Trivia). It drives the whole document eagerly at
// construction time and hands events out one at a time through
// NextEvent, so Save/Restore are a cheap cursor snapshot rather than a
// deep clone of in-flight lexer/lookahead state.
type Parser struct {
	lx     *Lexer
	buf    []Lexeme // pushback buffer; last element is returned first
	events []Event
	cursor int
}

// SavePoint is an opaque cursor into a Parser's event stream, as
// returned by Save and accepted by Restore.
type SavePoint struct {
	idx int
}

// New parses src as a whole document.
func New(src string) *Parser {
	p := &Parser{lx: NewLexer(src)}
	p.runDocument()
	return p
}

// NewExpr parses src as a single standalone value, with no entries or
// document wrapper. Used for schema defaults and CLI one-off literals.
func NewExpr(src string) *Parser {
	p := &Parser{lx: NewLexer(src)}
	p.runExpression()
	return p
}

// NextEvent returns the next event and true, or a zero Event and false
// once the stream is exhausted.
func (p *Parser) NextEvent() (Event, bool) {
	if p.cursor >= len(p.events) {
		return Event{}, false
	}
	ev := p.events[p.cursor]
	p.cursor++
	return ev, true
}

// ParseToVec drains the parser and returns every event in order. Safe
// to call regardless of how much of the stream NextEvent has already
// consumed; it returns the whole document, not just the remainder.
func (p *Parser) ParseToVec() []Event {
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// Save captures the current read position for later Restore.
func (p *Parser) Save() SavePoint { return SavePoint{idx: p.cursor} }

// Restore rewinds to a position previously returned by Save.
func (p *Parser) Restore(sp SavePoint) { p.cursor = sp.idx }

// --- lexeme-level lookahead -------------------------------------------------

func (p *Parser) next() Lexeme {
	if n := len(p.buf); n > 0 {
		lx := p.buf[n-1]
		p.buf = p.buf[:n-1]
		return lx
	}
	return p.lx.NextLexeme()
}

func (p *Parser) peek() Lexeme {
	lx := p.next()
	p.buf = append(p.buf, lx)
	return lx
}

func (p *Parser) pushback(lx Lexeme) {
	p.buf = append(p.buf, lx)
}

func isEntryBoundary(k LexemeKind) bool {
	switch k {
	case LexNewline, LexComma, LexObjectEnd, LexSeqEnd, LexEof:
		return true
	default:
		return false
	}
}

func isAtomStart(k LexemeKind) bool {
	switch k {
	case LexScalar, LexUnit, LexTag, LexObjectStart, LexSeqStart, LexAttrKey:
		return true
	default:
		return false
	}
}

// --- atoms -------------------------------------------------------------

// atom is one value-shaped thing collected while scanning an entry:
// a scalar, a unit, a tag (with an optional nested payload atom), or a
// fully-parsed container (object, sequence, or attribute block) whose
// events are already built.
type atom struct {
	span Span

	keyable bool
	akind   int // atomUnit, atomScalar, atomTag, or atomContainer

	scalarValue string
	scalarKind  ScalarKind

	tagName    string
	tagPayload *atom

	container string // "object", "sequence", "attrblock" (akind == atomContainer only)
	events    []Event
}

const (
	atomUnit = iota
	atomScalar
	atomTag
	atomContainer = -1
)

func errEvent(kind ErrorKind, span Span) Event {
	return Event{Kind: EvError, ErrKind: kind, Span: span}
}

// parseAtom consumes exactly one atom starting at the current lookahead
// lexeme, recursively parsing any container it opens. The caller must
// already know the lookahead is an atom start.
func (p *Parser) parseAtom() *atom {
	lx := p.next()
	switch lx.Kind {
	case LexScalar:
		return &atom{span: lx.Span, keyable: true, akind: atomScalar, scalarValue: lx.Value, scalarKind: lx.ScalarKind}
	case LexUnit:
		return &atom{span: lx.Span, keyable: true, akind: atomUnit}
	case LexTag:
		a := &atom{span: lx.Span, akind: atomTag, tagName: lx.TagName}
		if lx.HasPayload {
			payload := p.parseAtom()
			if payload != nil {
				a.tagPayload = payload
				a.span = a.span.Cover(payload.span)
			}
		}
		a.keyable = a.tagPayload == nil || a.tagPayload.akind == atomUnit || a.tagPayload.akind == atomScalar
		return a
	case LexAttrKey:
		return p.parseAttrBlock(lx)
	case LexObjectStart:
		return p.parseObjectAtom(lx.Span)
	case LexSeqStart:
		return p.parseSeqAtom(lx.Span)
	default:
		p.pushback(lx)
		return nil
	}
}

func keyEventFor(a *atom) Event {
	switch a.akind {
	case atomUnit:
		return Event{Kind: EvKey, Span: a.span}
	case atomScalar:
		return Event{Kind: EvKey, Span: a.span, Value: a.scalarValue, ScalarKind: a.scalarKind}
	case atomTag:
		ev := Event{Kind: EvKey, Span: a.span, HasTag: true, Tag: a.tagName}
		if a.tagPayload != nil {
			switch a.tagPayload.akind {
			case atomScalar:
				ev.Value = a.tagPayload.scalarValue
				ev.ScalarKind = a.tagPayload.scalarKind
			}
		}
		return ev
	default:
		return Event{Kind: EvKey, Span: a.span}
	}
}

func emitValueEvents(a *atom) []Event {
	if a == nil {
		return []Event{{Kind: EvUnit}}
	}
	switch a.akind {
	case atomUnit:
		return []Event{{Kind: EvUnit, Span: a.span}}
	case atomScalar:
		return []Event{{Kind: EvScalar, Span: a.span, Value: a.scalarValue, ScalarKind: a.scalarKind}}
	case atomTag:
		out := []Event{{Kind: EvTagStart, Span: a.span, Tag: a.tagName}}
		if a.tagPayload != nil {
			out = append(out, emitValueEvents(a.tagPayload)...)
		}
		out = append(out, Event{Kind: EvTagEnd, Span: a.span})
		return out
	default:
		return a.events
	}
}

// canonicalKey returns an identity string for a keyable atom, used for
// duplicate-key detection and, for bare scalar keys, as a root-level
// PathState segment. Scalar keys are already escape-decoded by the
// Lexer, so two differently-quoted spellings of the same text collide
// here naturally; a bare key's identity is its raw text with no
// prefix, so a plain key `a` and the first segment of a dotted path
// `a.b` name the same PathState node.
func canonicalKey(a *atom) string {
	switch a.akind {
	case atomUnit:
		return "\x00unit"
	case atomScalar:
		return a.scalarValue
	case atomTag:
		payload := "\x00none"
		if a.tagPayload != nil {
			switch a.tagPayload.akind {
			case atomUnit:
				payload = "\x00unit"
			case atomScalar:
				payload = a.tagPayload.scalarValue
			}
		}
		return "\x00tag:" + a.tagName + ":" + payload
	default:
		return ""
	}
}

func makeConflictEvent(c PathConflict, span Span) Event {
	ev := Event{Kind: EvError, ErrKind: c.ErrKind, Span: span}
	switch c.ErrKind {
	case ErrDuplicateKey:
		ev.OriginalSpan = c.OriginalSpan
	case ErrReopenedPath, ErrNestIntoTerminal:
		ev.Path = c.ClosedPath
	}
	return ev
}

// --- containers ----------------------------------------------------------

func (p *Parser) parseObjectAtom(openSpan Span) *atom {
	seenKeys := map[string]Span{}
	var evs []Event
	evs = append(evs, Event{Kind: EvObjectStart, Span: openSpan})
	var pendingDoc []string

	for {
		lx := p.peek()
		switch lx.Kind {
		case LexNewline, LexComma:
			p.next()
		case LexComment:
			p.next()
			evs = append(evs, Event{Kind: EvComment, Span: lx.Span, Text: lx.Text})
		case LexDocComment:
			p.next()
			pendingDoc = append(pendingDoc, lx.Text)
		case LexObjectEnd:
			p.next()
			if len(pendingDoc) > 0 {
				evs = append(evs, errEvent(ErrDanglingDocComment, lx.Span))
			}
			evs = append(evs, Event{Kind: EvObjectEnd, Span: lx.Span})
			return &atom{span: Span{openSpan.Start, lx.Span.End}, akind: atomContainer, container: "object", events: evs}
		case LexEof:
			if len(pendingDoc) > 0 {
				evs = append(evs, errEvent(ErrDanglingDocComment, openSpan))
			}
			evs = append(evs, errEvent(ErrUnclosedObject, openSpan))
			evs = append(evs, Event{Kind: EvObjectEnd, Span: Span{lx.Span.Start, lx.Span.Start}})
			return &atom{span: Span{openSpan.Start, lx.Span.Start}, akind: atomContainer, container: "object", events: evs}
		default:
			doc := pendingDoc
			pendingDoc = nil
			evs = append(evs, p.parseEntryEvents(false, nil, seenKeys, doc)...)
		}
	}
}

func (p *Parser) parseSeqAtom(openSpan Span) *atom {
	var evs []Event
	evs = append(evs, Event{Kind: EvSequenceStart, Span: openSpan})

	for {
		lx := p.peek()
		switch lx.Kind {
		case LexNewline:
			p.next()
		case LexComma:
			p.next()
			evs = append(evs, errEvent(ErrCommaInSequence, lx.Span))
		case LexComment:
			p.next()
			evs = append(evs, Event{Kind: EvComment, Span: lx.Span, Text: lx.Text})
		case LexDocComment:
			p.next()
			evs = append(evs, errEvent(ErrDanglingDocComment, lx.Span))
		case LexSeqEnd:
			p.next()
			evs = append(evs, Event{Kind: EvSequenceEnd, Span: lx.Span})
			return &atom{span: Span{openSpan.Start, lx.Span.End}, akind: atomContainer, container: "sequence", events: evs}
		case LexEof:
			evs = append(evs, errEvent(ErrUnclosedSequence, openSpan))
			evs = append(evs, Event{Kind: EvSequenceEnd, Span: Span{lx.Span.Start, lx.Span.Start}})
			return &atom{span: Span{openSpan.Start, lx.Span.Start}, akind: atomContainer, container: "sequence", events: evs}
		default:
			elem := p.parseAtom()
			if elem == nil {
				continue
			}
			evs = append(evs, emitValueEvents(elem)...)
		}
	}
}

// parseAttrBlock parses a key>value (, key>value)* chain into one
// synthetic, non-keyable object atom. The value after '>' must be
// byte-adjacent to it; anything else is ExpectedValue on the attribute
// key's span.
func (p *Parser) parseAttrBlock(first Lexeme) *atom {
	var evs []Event
	spanStart := first.Span.Start
	evs = append(evs, Event{Kind: EvObjectStart, Span: first.Span})
	lastEnd := first.Span.End
	cur := first

	for {
		keyAtom := &atom{span: cur.KeySpan, keyable: true, akind: atomScalar, scalarValue: cur.Key, scalarKind: ScalarBare}
		nxt := p.peek()
		pairSpan := cur.Span
		evs = append(evs, Event{Kind: EvEntryStart, Span: pairSpan})
		if nxt.Span.Start != cur.Span.End || !isAtomStart(nxt.Kind) {
			evs = append(evs, errEvent(ErrExpectedValue, cur.Span))
			evs = append(evs, keyEventFor(keyAtom))
			evs = append(evs, Event{Kind: EvUnit})
			lastEnd = cur.Span.End
		} else {
			val := p.parseAtom()
			evs = append(evs, keyEventFor(keyAtom))
			evs = append(evs, emitValueEvents(val)...)
			lastEnd = val.span.End
			pairSpan = pairSpan.Cover(val.span)
		}
		evs = append(evs, Event{Kind: EvEntryEnd, Span: pairSpan})

		after := p.peek()
		if after.Kind == LexComma {
			comma := p.next()
			again := p.peek()
			if again.Kind == LexAttrKey {
				cur = p.next()
				continue
			}
			p.pushback(again)
			p.pushback(comma)
			break
		}
		if after.Kind == LexAttrKey && after.Span.Start == lastEnd {
			cur = p.next()
			continue
		}
		break
	}

	evs = append(evs, Event{Kind: EvObjectEnd, Span: Span{lastEnd, lastEnd}})
	return &atom{span: Span{spanStart, lastEnd}, akind: atomContainer, container: "attrblock", events: evs}
}

// --- entries -------------------------------------------------------------

// parseEntryEvents collects one entry's atoms and returns its full
// event sequence (EntryStart .. EntryEnd, or the degenerate
// EntryStart/InvalidKey/EntryEnd frame for a malformed dotted path).
// ps is non-nil only at the document root; seenKeys is non-nil only
// inside an explicit object (root or nested), where dotted paths are
// unfolded the same way but checked against a flat local table instead
// of PathState's reopening/nesting rules.
func (p *Parser) parseEntryEvents(isRoot bool, ps *PathState, seenKeys map[string]Span, pendingDoc []string) []Event {
	var atoms []*atom
	var extraErrors []Event

	for {
		lx := p.peek()
		if isEntryBoundary(lx.Kind) || lx.Kind == LexComment || lx.Kind == LexDocComment {
			break
		}
		a := p.parseAtom()
		if a == nil {
			break
		}
		// Only the key position (the first atom collected) is subject to
		// this rule; a bare scalar *value* immediately followed by `{`/`(`
		// is a separate atom boundary, not a missing-whitespace defect.
		if len(atoms) == 0 && a.keyable && a.akind == atomScalar && a.scalarKind == ScalarBare {
			nxt := p.peek()
			if nxt.Span.Start == a.span.End && (nxt.Kind == LexObjectStart || nxt.Kind == LexSeqStart) {
				extraErrors = append(extraErrors, errEvent(ErrMissingWhitespaceBeforeBlock, nxt.Span))
			}
		}
		atoms = append(atoms, a)
	}
	if len(atoms) == 0 {
		return nil
	}

	entrySpan := atoms[0].span
	for _, a := range atoms[1:] {
		entrySpan = entrySpan.Cover(a.span)
	}

	keyAtom := atoms[0]
	if keyAtom.keyable && keyAtom.akind == atomScalar && keyAtom.scalarKind == ScalarBare && strings.Contains(keyAtom.scalarValue, ".") {
		return p.finishDottedEntry(entrySpan, keyAtom, atoms[1:], extraErrors, isRoot, ps, seenKeys, pendingDoc)
	}
	return p.finishSimpleEntry(entrySpan, atoms, extraErrors, isRoot, ps, seenKeys, pendingDoc)
}

func pathKindOf(valueAtom *atom) PathKind {
	if valueAtom != nil && valueAtom.akind == atomContainer && (valueAtom.container == "object" || valueAtom.container == "attrblock") {
		return PathObject
	}
	return PathTerminal
}

func (p *Parser) finishSimpleEntry(entrySpan Span, atoms []*atom, extraErrors []Event, isRoot bool, ps *PathState, seenKeys map[string]Span, pendingDoc []string) []Event {
	keyAtom := atoms[0]
	var valueAtom *atom
	if len(atoms) >= 2 {
		valueAtom = atoms[1]
	}
	kind := pathKindOf(valueAtom)

	var conflict *Event
	if keyAtom.keyable {
		identity := canonicalKey(keyAtom)
		if isRoot {
			if c := ps.Observe([]string{identity}, keyAtom.span, kind); c.Fatal {
				ev := makeConflictEvent(c, keyAtom.span)
				conflict = &ev
			}
		} else if seenKeys != nil {
			if orig, ok := seenKeys[identity]; ok {
				ev := Event{Kind: EvError, ErrKind: ErrDuplicateKey, Span: keyAtom.span, OriginalSpan: orig}
				conflict = &ev
			} else {
				seenKeys[identity] = keyAtom.span
			}
		}
	}

	var out []Event
	out = append(out, Event{Kind: EvEntryStart, Span: entrySpan})
	if len(pendingDoc) > 0 {
		out = append(out, Event{Kind: EvDocComment, Span: entrySpan, Lines: pendingDoc})
	}

	if !keyAtom.keyable {
		out = append(out, errEvent(ErrInvalidKey, keyAtom.span))
		out = append(out, Event{Kind: EvKey, Span: keyAtom.span})
	} else {
		if conflict != nil {
			out = append(out, *conflict)
		}
		out = append(out, keyEventFor(keyAtom))
	}
	out = append(out, extraErrors...)

	switch {
	case valueAtom == nil && !keyAtom.keyable:
		// A sole, non-keyable atom (an object/sequence/attribute block
		// used where a key was expected): its content becomes the
		// entry's value rather than being discarded, since that loses
		// no information and a synthetic unit key is already in place.
		out = append(out, emitValueEvents(keyAtom)...)
	case valueAtom == nil:
		out = append(out, Event{Kind: EvUnit})
	default:
		out = append(out, emitValueEvents(valueAtom)...)
		if len(atoms) >= 3 {
			out = append(out, errEvent(ErrTooManyAtoms, atoms[2].span))
		}
	}
	out = append(out, Event{Kind: EvEntryEnd, Span: entrySpan})
	return out
}

func segSpans(keySpan Span, segs []string) []Span {
	spans := make([]Span, len(segs))
	pos := keySpan.Start
	for i, s := range segs {
		end := pos + uint32(len(s))
		spans[i] = Span{pos, end}
		pos = end + 1
	}
	return spans
}

func (p *Parser) finishDottedEntry(entrySpan Span, keyAtom *atom, restAtoms []*atom, extraErrors []Event, isRoot bool, ps *PathState, seenKeys map[string]Span, pendingDoc []string) []Event {
	segs := strings.Split(keyAtom.scalarValue, ".")
	for _, s := range segs {
		if s == "" {
			var out []Event
			out = append(out, Event{Kind: EvEntryStart, Span: entrySpan})
			if len(pendingDoc) > 0 {
				out = append(out, Event{Kind: EvDocComment, Span: entrySpan, Lines: pendingDoc})
			}
			out = append(out, errEvent(ErrInvalidKey, keyAtom.span))
			out = append(out, Event{Kind: EvEntryEnd, Span: entrySpan})
			return out
		}
	}

	var valueAtom *atom
	if len(restAtoms) >= 1 {
		valueAtom = restAtoms[0]
	}
	kind := pathKindOf(valueAtom)

	var conflict *Event
	if isRoot {
		if c := ps.Observe(segs, keyAtom.span, kind); c.Fatal {
			ev := makeConflictEvent(c, keyAtom.span)
			conflict = &ev
		}
	} else if seenKeys != nil {
		if orig, ok := seenKeys[keyAtom.scalarValue]; ok {
			ev := Event{Kind: EvError, ErrKind: ErrDuplicateKey, Span: keyAtom.span, OriginalSpan: orig}
			conflict = &ev
		} else {
			seenKeys[keyAtom.scalarValue] = keyAtom.span
		}
	}

	spans := segSpans(keyAtom.span, segs)
	n := len(segs)
	var out []Event
	for i := 0; i < n; i++ {
		out = append(out, Event{Kind: EvEntryStart, Span: entrySpan})
		if i == 0 {
			if len(pendingDoc) > 0 {
				out = append(out, Event{Kind: EvDocComment, Span: entrySpan, Lines: pendingDoc})
			}
			if conflict != nil {
				out = append(out, *conflict)
			}
		}
		out = append(out, Event{Kind: EvKey, Span: spans[i], Value: segs[i], ScalarKind: ScalarBare})
		if i < n-1 {
			out = append(out, Event{Kind: EvObjectStart, Span: spans[i]})
		}
	}
	out = append(out, extraErrors...)

	if valueAtom == nil {
		out = append(out, Event{Kind: EvUnit})
	} else {
		out = append(out, emitValueEvents(valueAtom)...)
		if len(restAtoms) >= 2 {
			out = append(out, errEvent(ErrTooManyAtoms, restAtoms[1].span))
		}
	}
	for i := 0; i < n-1; i++ {
		out = append(out, Event{Kind: EvObjectEnd, Span: entrySpan})
	}
	for i := 0; i < n; i++ {
		out = append(out, Event{Kind: EvEntryEnd, Span: entrySpan})
	}
	return out
}

// --- document / expression drivers ----------------------------------------

func (p *Parser) runDocument() {
	p.events = append(p.events, Event{Kind: EvDocumentStart, Span: Span{0, 0}})

	var pendingDoc []string
	for {
		lx := p.peek()
		switch lx.Kind {
		case LexNewline, LexComma:
			p.next()
			continue
		case LexComment:
			p.next()
			p.events = append(p.events, Event{Kind: EvComment, Span: lx.Span, Text: lx.Text})
			continue
		case LexDocComment:
			p.next()
			pendingDoc = append(pendingDoc, lx.Text)
			continue
		}
		break
	}

	first := p.peek()
	if first.Kind == LexObjectStart {
		p.next()
		if len(pendingDoc) > 0 {
			p.events = append(p.events, errEvent(ErrDanglingDocComment, first.Span))
		}
		root := p.parseObjectAtom(first.Span)
		p.events = append(p.events, root.events...)
		p.finishAfterRootValue()
		return
	}

	ps := NewPathState()
	for {
		lx := p.peek()
		switch lx.Kind {
		case LexNewline, LexComma:
			p.next()
		case LexComment:
			p.next()
			p.events = append(p.events, Event{Kind: EvComment, Span: lx.Span, Text: lx.Text})
		case LexDocComment:
			p.next()
			pendingDoc = append(pendingDoc, lx.Text)
		case LexEof:
			if len(pendingDoc) > 0 {
				p.events = append(p.events, errEvent(ErrDanglingDocComment, lx.Span))
			}
			p.events = append(p.events, Event{Kind: EvDocumentEnd, Span: lx.Span})
			return
		default:
			doc := pendingDoc
			pendingDoc = nil
			p.events = append(p.events, p.parseEntryEvents(true, ps, nil, doc)...)
		}
	}
}

// finishAfterRootValue handles the trailing-trivia and TrailingContent
// check after an explicit-root object (`{ ... }` as the whole document).
func (p *Parser) finishAfterRootValue() {
	for {
		lx := p.peek()
		switch lx.Kind {
		case LexNewline, LexComma:
			p.next()
		case LexComment:
			p.next()
			p.events = append(p.events, Event{Kind: EvComment, Span: lx.Span, Text: lx.Text})
		case LexDocComment:
			p.next()
			p.events = append(p.events, errEvent(ErrDanglingDocComment, lx.Span))
		case LexEof:
			p.events = append(p.events, Event{Kind: EvDocumentEnd, Span: lx.Span})
			return
		default:
			start := lx.Span.Start
			end := p.drainToEof()
			p.events = append(p.events, errEvent(ErrTrailingContent, Span{start, end}))
			p.events = append(p.events, Event{Kind: EvDocumentEnd, Span: Span{end, end}})
			return
		}
	}
}

func (p *Parser) drainToEof() uint32 {
	for {
		lx := p.next()
		if lx.Kind == LexEof {
			return lx.Span.Start
		}
	}
}

func (p *Parser) runExpression() {
	for {
		lx := p.peek()
		switch lx.Kind {
		case LexNewline, LexComma, LexComment, LexDocComment:
			p.next()
			continue
		}
		break
	}
	a := p.parseAtom()
	p.events = append(p.events, emitValueEvents(a)...)
}
