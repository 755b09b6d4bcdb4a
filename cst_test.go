package styx

import "testing"

func TestParseCSTRoundtrips(t *testing.T) {
	src := "name \"Alice\"\nserver { port 8080 }\nnums (1 2 3)\n"
	cst := ParseCST(src)
	if len(cst.Errors) != 0 {
		t.Fatalf("errors = %+v", cst.Errors)
	}
	if got := cst.Root.String(); got != src {
		t.Fatalf("roundtrip mismatch:\ngot:  %q\nwant: %q", got, src)
	}
}

func TestParseCSTUnclosedObject(t *testing.T) {
	cst := ParseCST(`a { b 1`)
	if len(cst.Errors) != 1 {
		t.Fatalf("errors = %+v", cst.Errors)
	}
}

func TestParseCSTNestedShapes(t *testing.T) {
	cst := ParseCST(`a { b (1 2) }`)
	if len(cst.Errors) != 0 {
		t.Fatalf("errors = %+v", cst.Errors)
	}
	var findKind func(n *SyntaxNode, k SyntaxKind) bool
	findKind = func(n *SyntaxNode, k SyntaxKind) bool {
		if n.Kind == k {
			return true
		}
		for _, c := range n.Children {
			if findKind(c, k) {
				return true
			}
		}
		return false
	}
	if !findKind(cst.Root, SynObject) {
		t.Fatal("expected a SynObject node")
	}
	if !findKind(cst.Root, SynSequence) {
		t.Fatal("expected a SynSequence node")
	}
}
