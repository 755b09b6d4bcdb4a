package styx

import (
	"strings"
	"testing"
)

func TestFormatValueRootEntries(t *testing.T) {
	v := Object(
		Field("name", String("Alice")),
		Field("age", Bare("30")),
	)
	got := FormatValue(v, DefaultFormatOptions())
	if !strings.Contains(got, `name Alice`) {
		t.Fatalf("got = %q", got)
	}
	if !strings.Contains(got, "age 30") {
		t.Fatalf("got = %q", got)
	}
}

func TestFormatValueUnitField(t *testing.T) {
	v := Object(Field("debug", Unit()))
	got := FormatValue(v, DefaultFormatOptions())
	if !strings.Contains(got, "debug @") {
		t.Fatalf("got = %q", got)
	}
}

func TestFormatValueRoundtripsThroughBuilder(t *testing.T) {
	src := `server { host "localhost", port 8080 }`
	v, errs := BuildFromSource(src)
	if len(errs) != 0 {
		t.Fatalf("errs = %+v", errs)
	}
	out := FormatValue(v, DefaultFormatOptions())
	v2, errs2 := BuildFromSource(out)
	if len(errs2) != 0 {
		t.Fatalf("re-parse errs = %+v, formatted = %q", errs2, out)
	}
	host, ok := v2.Get("server.host")
	if !ok {
		t.Fatalf("server.host missing after roundtrip: %q", out)
	}
	if text, _ := host.AsString(); text != "localhost" {
		t.Fatalf("host = %q", text)
	}
}

func TestQuoteScalarBarePreferred(t *testing.T) {
	opts := DefaultFormatOptions()
	if got := quoteScalar("foo-bar.baz", opts); got != "foo-bar.baz" {
		t.Fatalf("got = %q", got)
	}
}

func TestQuoteScalarNeedsQuoting(t *testing.T) {
	opts := DefaultFormatOptions()
	got := quoteScalar("has space", opts)
	if got != `"has space"` {
		t.Fatalf("got = %q", got)
	}
}

func TestQuoteScalarHeredocForManyLines(t *testing.T) {
	opts := DefaultFormatOptions()
	text := "one\ntwo\nthree\nfour\n"
	got := quoteScalar(text, opts)
	if !strings.HasPrefix(got, "<<") {
		t.Fatalf("got = %q", got)
	}
}

func TestQuoteScalarHeredocSkipsDelimiterThatOccursInContent(t *testing.T) {
	opts := DefaultFormatOptions()
	text := "one\nTEXT\nthree\nfour\n"
	got := quoteScalar(text, opts)
	if !strings.HasPrefix(got, "<<END\n") {
		t.Fatalf("got = %q, want delimiter to skip past TEXT to END", got)
	}
	if !strings.HasSuffix(got, "END") {
		t.Fatalf("got = %q, closing delimiter mismatch", got)
	}
}

func TestFormatRawStringMinimalHashes(t *testing.T) {
	got := formatRawString(`has "quotes" but no hash-quote run`)
	if got != `r#"has "quotes" but no hash-quote run"#` {
		t.Fatalf("got = %q", got)
	}
	got2 := formatRawString(`already has a "# sequence`)
	if got2 != `r##"already has a "# sequence"##` {
		t.Fatalf("got = %q", got2)
	}
}

func TestFormatValueTaggedSequence(t *testing.T) {
	v := Object(Field("point", Tagged("pair", Seq(Bare("1"), Bare("2")))))
	got := FormatValue(v, DefaultFormatOptions())
	if !strings.Contains(got, "@pair") {
		t.Fatalf("got = %q", got)
	}
}
