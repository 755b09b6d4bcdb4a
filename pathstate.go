package styx

import "github.com/softdevca/styx/internal/pathtrie"

// PathKind classifies how a root-level dotted path was assigned: as an
// Object (it has, or will have, children) or a Terminal (it holds a
// scalar/unit/sequence value and cannot be nested into further).
type PathKind = pathtrie.Kind

const (
	PathObject   = pathtrie.KindObject
	PathTerminal = pathtrie.KindTerminal
)

// PathState tracks dotted-path uniqueness, reopening, and
// terminal-nesting for one document's root-level entries. It mirrors
// validate.go's tableState/docValidator conflict tracking, swapping the
// flat map[string]bool buckets for a radix-tree-backed index; each
// proper prefix of a path is still checked with its own lookup.
type PathState struct {
	current []string
	idx     *pathtrie.Index
}

// NewPathState returns an empty PathState for a fresh document.
func NewPathState() *PathState {
	return &PathState{idx: pathtrie.New()}
}

// PathConflict describes why a path could not be recorded. The zero
// value (Fatal == false) means no conflict.
type PathConflict struct {
	Fatal        bool
	ErrKind      ErrorKind
	OriginalSpan Span     // DuplicateKey
	ClosedPath   []string // ReopenedPath / NestIntoTerminal
}

// Observe runs the PathState algorithm for a newly-seen path p (already
// split on '.') about to be assigned at span with the given kind. It
// returns the first conflict found, if any; callers still proceed to
// emit events for the entry regardless of a conflict (recovery is
// local), but should interleave the returned error event.
func (ps *PathState) Observe(p []string, span Span, kind PathKind) PathConflict {
	if a, ok := ps.idx.Assigned(p); ok {
		return PathConflict{
			Fatal:        true,
			ErrKind:      ErrDuplicateKey,
			OriginalSpan: Span{a.SpanStart, a.SpanEnd},
		}
	}

	for i := 1; i < len(p); i++ {
		prefix := p[:i]
		if ps.idx.IsClosed(prefix) {
			return PathConflict{Fatal: true, ErrKind: ErrReopenedPath, ClosedPath: clonePath(prefix)}
		}
		if a, ok := ps.idx.Assigned(prefix); ok && a.Kind == PathTerminal {
			return PathConflict{Fatal: true, ErrKind: ErrNestIntoTerminal, ClosedPath: clonePath(prefix)}
		}
	}

	k := commonPrefixLen(ps.current, p)
	for i := k; i < len(ps.current); i++ {
		ps.idx.Close(ps.current[:i+1])
	}

	for i := 1; i < len(p); i++ {
		prefix := p[:i]
		if _, ok := ps.idx.Assigned(prefix); !ok {
			ps.idx.Assign(prefix, pathtrie.Assignment{Kind: PathObject})
		}
	}
	ps.idx.Assign(p, pathtrie.Assignment{Kind: kind, SpanStart: span.Start, SpanEnd: span.End})
	ps.current = clonePath(p)

	return PathConflict{}
}

func clonePath(p []string) []string {
	out := make([]string, len(p))
	copy(out, p)
	return out
}

func commonPrefixLen(a, b []string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
