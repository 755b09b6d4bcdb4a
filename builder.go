package styx

// BuildFromSource parses src and folds its event stream into a Value
// tree in one step. The returned error slice holds every EvError event
// encountered, in document order; a nil slice means a clean parse.
func BuildFromSource(src string) (Value, []Event) {
	p := New(src)
	return BuildTree(p.ParseToVec())
}

// BuildTree folds an already-parsed event stream (as returned by
// Parser.ParseToVec) into a Value tree, mirroring its document shape:
// an explicit root object becomes that Object value directly, while a
// flat run of root-level entries becomes an implicit root Object.
func BuildTree(events []Event) (Value, []Event) {
	b := &treeBuilder{events: events}
	if len(b.events) > 0 && b.events[0].Kind == EvDocumentStart {
		b.pos = 1
	}

	for b.pos < len(b.events) {
		e := b.peek()
		switch e.Kind {
		case EvComment:
			b.next()
		case EvError:
			b.errors = append(b.errors, b.next())
		case EvDocumentEnd:
			b.next()
			return Object(), b.errors
		case EvObjectStart:
			v := b.buildValue()
			b.skipToDocumentEnd()
			return v, b.errors
		case EvEntryStart:
			entries := b.buildEntries()
			b.skipToDocumentEnd()
			return Object(entries...), b.errors
		default:
			b.next()
		}
	}
	return Object(), b.errors
}

// treeBuilder walks an already-materialized event slice with a plain
// cursor; no lookahead stash is needed since the whole stream is
// already in memory.
type treeBuilder struct {
	events []Event
	pos    int
	errors []Event
}

func (b *treeBuilder) done() bool { return b.pos >= len(b.events) }

func (b *treeBuilder) peek() Event {
	if b.done() {
		return Event{Kind: EvDocumentEnd}
	}
	return b.events[b.pos]
}

func (b *treeBuilder) next() Event {
	e := b.peek()
	if !b.done() {
		b.pos++
	}
	return e
}

func (b *treeBuilder) skipToDocumentEnd() {
	for !b.done() {
		e := b.next()
		if e.Kind == EvError {
			b.errors = append(b.errors, e)
		}
		if e.Kind == EvDocumentEnd {
			return
		}
	}
}

func (b *treeBuilder) buildEntries() []Entry {
	var entries []Entry
	for !b.done() {
		switch b.peek().Kind {
		case EvEntryStart:
			entries = append(entries, b.buildOneEntry())
		case EvComment:
			b.next()
		case EvError:
			b.errors = append(b.errors, b.next())
		default:
			return entries
		}
	}
	return entries
}

func (b *treeBuilder) buildOneEntry() Entry {
	b.next() // EntryStart
	var doc []string
	if b.peek().Kind == EvDocComment {
		doc = b.next().Lines
	}
	for b.peek().Kind == EvError {
		b.errors = append(b.errors, b.next())
	}
	if b.peek().Kind != EvKey {
		// Malformed-dotted-path frame: EntryStart, Error, EntryEnd with
		// no Key or Value at all.
		if b.peek().Kind == EvEntryEnd {
			b.next()
		}
		return Entry{Key: Unit(), Value: Unit(), Doc: doc}
	}
	key := eventToKeyValue(b.next())
	for b.peek().Kind == EvError {
		b.errors = append(b.errors, b.next())
	}
	val := b.buildValue()
	for !b.done() && b.peek().Kind == EvError {
		b.errors = append(b.errors, b.next())
	}
	if !b.done() && b.peek().Kind == EvEntryEnd {
		b.next()
	}
	return Entry{Key: key, Value: val, Doc: doc}
}

func (b *treeBuilder) buildValue() Value {
	e := b.next()
	switch e.Kind {
	case EvUnit:
		return Unit()
	case EvScalar:
		return Scalar(e.Value, e.ScalarKind)
	case EvTagStart:
		if b.peek().Kind == EvTagEnd {
			b.next()
			return Tagged(e.Tag, Unit())
		}
		inner := b.buildValue()
		for !b.done() && b.peek().Kind == EvError {
			b.errors = append(b.errors, b.next())
		}
		if !b.done() && b.peek().Kind == EvTagEnd {
			b.next()
		}
		return Tagged(e.Tag, inner)
	case EvObjectStart:
		entries := b.buildEntries()
		for !b.done() && b.peek().Kind == EvError {
			b.errors = append(b.errors, b.next())
		}
		if !b.done() && b.peek().Kind == EvObjectEnd {
			b.next()
		}
		return Object(entries...)
	case EvSequenceStart:
		var items []Value
		for !b.done() {
			switch b.peek().Kind {
			case EvSequenceEnd:
				b.next()
				return Seq(items...)
			case EvComment:
				b.next()
			case EvError:
				b.errors = append(b.errors, b.next())
			default:
				items = append(items, b.buildValue())
			}
		}
		return Seq(items...)
	default:
		return Unit()
	}
}

// eventToKeyValue mirrors keyEventFor's encoding, rebuilding the Value
// a Key event represents. An untagged unit key and a payload-less
// tagged key both carry Value=="" with ScalarKind==ScalarBare (the
// zero value), since a *bare* scalar can never be empty text -- but a
// genuinely empty *quoted* string key also has Value=="", with
// ScalarKind==ScalarQuoted, so the ScalarKind must be checked too or
// that key collapses into Unit and silently loses its quoted-ness.
func eventToKeyValue(e Event) Value {
	isEmptyUnit := e.Value == "" && e.ScalarKind == ScalarBare
	if e.HasTag {
		if isEmptyUnit {
			return Tagged(e.Tag, Unit())
		}
		return Tagged(e.Tag, Scalar(e.Value, e.ScalarKind))
	}
	if isEmptyUnit {
		return Unit()
	}
	return Scalar(e.Value, e.ScalarKind)
}
