package styx

import "testing"

func parseEvents(t *testing.T, src string) []Event {
	t.Helper()
	p := New(src)
	return p.ParseToVec()
}

func errKinds(events []Event) []ErrorKind {
	var out []ErrorKind
	for _, e := range events {
		if e.Kind == EvError {
			out = append(out, e.ErrKind)
		}
	}
	return out
}

func TestParserSimpleEntry(t *testing.T) {
	events := parseEvents(t, `name "Alice"`)
	var kinds []EventKind
	for _, e := range events {
		kinds = append(kinds, e.Kind)
	}
	want := []EventKind{EvDocumentStart, EvEntryStart, EvKey, EvScalar, EvEntryEnd, EvDocumentEnd}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kind[%d] = %v, want %v (%v)", i, kinds[i], want[i], kinds)
		}
	}
}

func TestParserUnitValue(t *testing.T) {
	events := parseEvents(t, `debug`)
	foundUnit := false
	for _, e := range events {
		if e.Kind == EvUnit {
			foundUnit = true
		}
	}
	if !foundUnit {
		t.Fatalf("expected implicit Unit value: %+v", events)
	}
}

func TestParserDottedPathUnfolds(t *testing.T) {
	events := parseEvents(t, `a.b.c 1`)
	var objStarts, entryStarts int
	for _, e := range events {
		if e.Kind == EvObjectStart {
			objStarts++
		}
		if e.Kind == EvEntryStart {
			entryStarts++
		}
	}
	if objStarts != 2 {
		t.Fatalf("objStarts = %d, want 2", objStarts)
	}
	if entryStarts != 3 {
		t.Fatalf("entryStarts = %d, want 3", entryStarts)
	}
}

func TestParserDuplicateKeyAtRoot(t *testing.T) {
	events := parseEvents(t, "a 1\na 2\n")
	kinds := errKinds(events)
	if len(kinds) != 1 || kinds[0] != ErrDuplicateKey {
		t.Fatalf("errors = %v", kinds)
	}
}

func TestParserReopenedPath(t *testing.T) {
	events := parseEvents(t, "a.b 1\nc 2\na.d 3\n")
	kinds := errKinds(events)
	if len(kinds) != 1 || kinds[0] != ErrReopenedPath {
		t.Fatalf("errors = %v", kinds)
	}
}

func TestParserNestIntoTerminal(t *testing.T) {
	events := parseEvents(t, "a 1\na.b 2\n")
	kinds := errKinds(events)
	if len(kinds) != 1 || kinds[0] != ErrNestIntoTerminal {
		t.Fatalf("errors = %v", kinds)
	}
}

func TestParserTooManyAtoms(t *testing.T) {
	events := parseEvents(t, `a 1 2`)
	kinds := errKinds(events)
	if len(kinds) != 1 || kinds[0] != ErrTooManyAtoms {
		t.Fatalf("errors = %v", kinds)
	}
}

func TestParserCommaInSequence(t *testing.T) {
	events := parseEvents(t, `a (1, 2)`)
	kinds := errKinds(events)
	if len(kinds) != 1 || kinds[0] != ErrCommaInSequence {
		t.Fatalf("errors = %v", kinds)
	}
}

func TestParserMissingWhitespaceBeforeBlock(t *testing.T) {
	events := parseEvents(t, `foo{bar 1}`)
	kinds := errKinds(events)
	if len(kinds) != 1 || kinds[0] != ErrMissingWhitespaceBeforeBlock {
		t.Fatalf("errors = %v", kinds)
	}
}

func TestParserMissingWhitespaceBeforeBlockOnlyGatesKeyPosition(t *testing.T) {
	events := parseEvents(t, `a b{c 1}`)
	kinds := errKinds(events)
	if len(kinds) != 1 || kinds[0] != ErrTooManyAtoms {
		t.Fatalf("errors = %v, want only ErrTooManyAtoms (the value atom `b` touching `{` is not a key)", kinds)
	}
}

func TestParserUnclosedObject(t *testing.T) {
	events := parseEvents(t, `a {b 1`)
	kinds := errKinds(events)
	if len(kinds) != 1 || kinds[0] != ErrUnclosedObject {
		t.Fatalf("errors = %v", kinds)
	}
}

func TestParserExplicitRootTrailingContent(t *testing.T) {
	events := parseEvents(t, "{ a 1 }\nextra")
	kinds := errKinds(events)
	if len(kinds) != 1 || kinds[0] != ErrTrailingContent {
		t.Fatalf("errors = %v", kinds)
	}
}

func TestParserExplicitRootNoTrailingContent(t *testing.T) {
	events := parseEvents(t, "{ a 1 }\n")
	if len(errKinds(events)) != 0 {
		t.Fatalf("errors = %v", errKinds(events))
	}
}

func TestParserAttributeBlockChain(t *testing.T) {
	events := parseEvents(t, `server port>8080, host>"x"`)
	var keys []string
	for _, e := range events {
		if e.Kind == EvKey && e.Value != "" {
			keys = append(keys, e.Value)
		}
	}
	if len(keys) < 2 {
		t.Fatalf("keys = %v, events = %+v", keys, events)
	}
}

func TestParserTagAsValue(t *testing.T) {
	events := parseEvents(t, `point @pair(1 2)`)
	hasTagStart, hasSeqStart := false, false
	for _, e := range events {
		if e.Kind == EvTagStart {
			hasTagStart = true
		}
		if e.Kind == EvSequenceStart {
			hasSeqStart = true
		}
	}
	if !hasTagStart || !hasSeqStart {
		t.Fatalf("events = %+v", events)
	}
}
