// Package pathtrie backs the Event Parser's root-level dotted-path
// bookkeeping (PathState) with a persistent radix tree instead of
// validate.go's flat map[string]bool buckets. Each lookup joins the
// path's segments into one key and probes the tree once; checking a
// path's proper prefixes takes one lookup per prefix.
package pathtrie

import (
	"strings"

	iradix "github.com/hashicorp/go-immutable-radix/v2"
)

// Kind records whether an assigned path became an object (it has
// children) or a terminal (it holds a scalar/unit/sequence value).
type Kind int

const (
	KindObject Kind = iota
	KindTerminal
)

// Assignment is the value recorded for a path that has been written.
// SpanStart/SpanEnd echo the byte span of the entry that assigned the
// path, for DuplicateKey's original-span reporting; the package stays
// free of the styx package's Span type to avoid an import cycle.
type Assignment struct {
	Kind      Kind
	SpanStart uint32
	SpanEnd   uint32
}

// Index tracks closed paths and assigned paths for one document's
// root-level PathState, backed by two immutable radix trees.
type Index struct {
	closed   *iradix.Tree[struct{}]
	assigned *iradix.Tree[Assignment]
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		closed:   iradix.New[struct{}](),
		assigned: iradix.New[Assignment](),
	}
}

// key joins path segments with a NUL separator so the radix tree's byte
// ordering lines up with path nesting.
func key(path []string) []byte {
	return []byte(strings.Join(path, "\x00"))
}

// Assigned looks up a previously recorded path.
func (ix *Index) Assigned(path []string) (Assignment, bool) {
	return ix.assigned.Get(key(path))
}

// IsClosed reports whether path has been closed (a sibling at or above
// it has since been written).
func (ix *Index) IsClosed(path []string) bool {
	_, ok := ix.closed.Get(key(path))
	return ok
}

// Close marks path as closed.
func (ix *Index) Close(path []string) {
	tree, _, _ := ix.closed.Insert(key(path), struct{}{})
	ix.closed = tree
}

// Assign records path with the given assignment, replacing any existing
// record (callers check Assigned first when an overwrite would be a
// bug, e.g. object prefixes that must not clobber an existing record).
func (ix *Index) Assign(path []string, a Assignment) {
	tree, _, _ := ix.assigned.Insert(key(path), a)
	ix.assigned = tree
}
