package styx

import "testing"

func TestLocateOffset(t *testing.T) {
	src := "abc\ndef\nghi"
	lc := LocateOffset(src, 5) // 'e'
	if lc.Line != 2 || lc.Column != 2 {
		t.Fatalf("lc = %+v", lc)
	}
}

func TestRenderErrorDuplicateKey(t *testing.T) {
	src := "a 1\na 2\n"
	events := New(src).ParseToVec()
	errs := CollectErrors(events)
	if len(errs) != 1 {
		t.Fatalf("errs = %+v", errs)
	}
	rendered := RenderError(src, errs[0])
	if rendered.Kind != ErrDuplicateKey {
		t.Fatalf("kind = %v", rendered.Kind)
	}
	if rendered.Start.Line != 2 {
		t.Fatalf("start line = %d, want 2", rendered.Start.Line)
	}
	if rendered.String() == "" {
		t.Fatal("expected non-empty rendered string")
	}
}

func TestRenderErrorTooManyAtoms(t *testing.T) {
	src := `a 1 2`
	events := New(src).ParseToVec()
	errs := CollectErrors(events)
	if len(errs) != 1 || errs[0].ErrKind != ErrTooManyAtoms {
		t.Fatalf("errs = %+v", errs)
	}
	rendered := RenderError(src, errs[0])
	if rendered.Message == "" {
		t.Fatal("expected a message")
	}
}
