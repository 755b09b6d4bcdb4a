package styx

import (
	"strconv"
	"strings"
)

// Get resolves a dotted accessor path against v, e.g. "server.ports[0]"
// or "a.b.c". Object segments look up an entry whose key's decoded
// scalar text matches; a trailing "[n]" on a segment indexes into that
// segment's sequence value. Reports false if any segment is missing,
// out of range, or applied to a value of the wrong shape.
func (v Value) Get(path string) (Value, bool) {
	cur := v
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			return Value{}, false
		}
		name, idx, hasIdx := splitIndex(seg)
		entries, ok := cur.AsEntries()
		if !ok {
			return Value{}, false
		}
		next, ok := lookupField(entries, name)
		if !ok {
			return Value{}, false
		}
		cur = next
		if hasIdx {
			items, ok := cur.AsItems()
			if !ok || idx < 0 || idx >= len(items) {
				return Value{}, false
			}
			cur = items[idx]
		}
	}
	return cur, true
}

// splitIndex splits "name[n]" into ("name", n, true), or returns
// (seg, 0, false) when seg has no trailing index.
func splitIndex(seg string) (string, int, bool) {
	open := strings.IndexByte(seg, '[')
	if open < 0 || seg[len(seg)-1] != ']' {
		return seg, 0, false
	}
	n, err := strconv.Atoi(seg[open+1 : len(seg)-1])
	if err != nil {
		return seg, 0, false
	}
	return seg[:open], n, true
}

func lookupField(entries []Entry, name string) (Value, bool) {
	for _, e := range entries {
		if text, ok := e.Key.AsString(); ok && text == name {
			return e.Value, true
		}
	}
	return Value{}, false
}
