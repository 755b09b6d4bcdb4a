package styx

import "testing"

func lexAll(src string) []Lexeme {
	l := NewLexer(src)
	var out []Lexeme
	for {
		lx := l.NextLexeme()
		out = append(out, lx)
		if lx.Kind == LexEof {
			break
		}
	}
	return out
}

func TestLexerSkipsWhitespace(t *testing.T) {
	lxs := lexAll("  foo   ")
	if len(lxs) != 2 {
		t.Fatalf("got %d lexemes, want 2 (scalar + eof): %+v", len(lxs), lxs)
	}
	if lxs[0].Kind != LexScalar || lxs[0].Value != "foo" {
		t.Fatalf("lxs[0] = %+v", lxs[0])
	}
}

func TestLexerAttrKey(t *testing.T) {
	lxs := lexAll("port>8080")
	if lxs[0].Kind != LexAttrKey || lxs[0].Key != "port" {
		t.Fatalf("got %+v", lxs[0])
	}
	if lxs[1].Kind != LexScalar || lxs[1].Value != "8080" {
		t.Fatalf("got %+v", lxs[1])
	}
}

func TestLexerTagWithPayload(t *testing.T) {
	lxs := lexAll(`@point"1,2"`)
	if lxs[0].Kind != LexTag || lxs[0].TagName != "point" || !lxs[0].HasPayload {
		t.Fatalf("got %+v", lxs[0])
	}
}

func TestLexerTagWithoutPayload(t *testing.T) {
	lxs := lexAll(`@unit `)
	if lxs[0].Kind != LexTag || lxs[0].HasPayload {
		t.Fatalf("got %+v", lxs[0])
	}
}

func TestLexerQuotedEscapes(t *testing.T) {
	lxs := lexAll(`"a\nb\u{1F600}"`)
	if lxs[0].Kind != LexScalar {
		t.Fatalf("got %+v", lxs[0])
	}
	if lxs[0].Value != "a\nb\U0001F600" {
		t.Fatalf("value = %q", lxs[0].Value)
	}
}

func TestLexerInvalidEscapeStillYieldsScalar(t *testing.T) {
	lxs := lexAll(`"a\qb"`)
	if lxs[0].Kind != LexError {
		t.Fatalf("expected leading error lexeme, got %+v", lxs[0])
	}
	if lxs[1].Kind != LexScalar {
		t.Fatalf("expected trailing scalar lexeme, got %+v", lxs[1])
	}
}

func TestLexerHeredocDedent(t *testing.T) {
	src := "<<EOF\n  one\n  two\n  EOF"
	lxs := lexAll(src)
	if lxs[0].Kind != LexScalar || lxs[0].ScalarKind != ScalarHeredoc {
		t.Fatalf("got %+v", lxs[0])
	}
	if got := lxs[0].Value; got == "  one\n  two\n" || got == "" {
		t.Fatalf("expected dedented content, got %q", got)
	}
}
