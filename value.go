package styx

// Tag is the `@name` attached to a value or a key.
type Tag struct {
	Name string
}

// Entry is one key/value pair inside an Object payload, with an
// optional doc comment that preceded it in the source.
type Entry struct {
	Key   Value
	Value Value
	Doc   []string
}

// PayloadKind distinguishes the four shapes a Value's payload can
// take (unit, scalar, sequence, object); a Value with no tag and a
// Unit payload is the unit value.
type PayloadKind int

const (
	PayloadUnit PayloadKind = iota
	PayloadScalar
	PayloadSequence
	PayloadObject
)

// Payload is the untagged content of a Value: nothing, a scalar, a
// sequence of values, or an object's entries.
type Payload struct {
	Kind ScalarPayloadKindOrStructural
	// Fields below are valid per Kind.
	ScalarText string
	ScalarKind ScalarKind
	Items      []Value
	Fields     []Entry
}

// ScalarPayloadKindOrStructural is Payload's discriminant. Named
// distinctly from PayloadKind so the zero value (unit) reads the same
// way at both the Value and Payload level.
type ScalarPayloadKindOrStructural = PayloadKind

// Value is one node of the parsed tree: an optional tag plus a
// payload. The zero Value is the untagged unit value.
type Value struct {
	Tag     *Tag
	Payload Payload
}

// IsUnit reports whether v carries no payload (regardless of tag).
func (v Value) IsUnit() bool { return v.Payload.Kind == PayloadUnit }

// TagName returns v's tag name and true, or "" and false if v is untagged.
func (v Value) TagName() (string, bool) {
	if v.Tag == nil {
		return "", false
	}
	return v.Tag.Name, true
}

// AsString returns v's scalar text and true, or "" and false if v is
// not a scalar.
func (v Value) AsString() (string, bool) {
	if v.Payload.Kind != PayloadScalar {
		return "", false
	}
	return v.Payload.ScalarText, true
}

// AsItems returns v's sequence elements and true, or nil and false if
// v is not a sequence.
func (v Value) AsItems() ([]Value, bool) {
	if v.Payload.Kind != PayloadSequence {
		return nil, false
	}
	return v.Payload.Items, true
}

// AsEntries returns v's object entries and true, or nil and false if v
// is not an object.
func (v Value) AsEntries() ([]Entry, bool) {
	if v.Payload.Kind != PayloadObject {
		return nil, false
	}
	return v.Payload.Fields, true
}

// --- constructors ----------------------------------------------------------
//
// Named after the shape they build, mirroring the teacher's
// NewString/NewInteger-style value constructors: each returns a fresh,
// untagged Value; chain Tagged to attach a tag.

// Unit returns the untagged unit value.
func Unit() Value { return Value{} }

// Scalar returns an untagged scalar value spelled as kind in the
// source (Bare unless the caller has a reason to force quoting/raw/
// heredoc form when the tree is later formatted).
func Scalar(text string, kind ScalarKind) Value {
	return Value{Payload: Payload{Kind: PayloadScalar, ScalarText: text, ScalarKind: kind}}
}

// String is shorthand for Scalar(text, ScalarQuoted).
func String(text string) Value { return Scalar(text, ScalarQuoted) }

// Bare is shorthand for Scalar(text, ScalarBare).
func Bare(text string) Value { return Scalar(text, ScalarBare) }

// Seq returns an untagged sequence value.
func Seq(items ...Value) Value {
	return Value{Payload: Payload{Kind: PayloadSequence, Items: items}}
}

// Object returns an untagged object value.
func Object(entries ...Entry) Value {
	return Value{Payload: Payload{Kind: PayloadObject, Fields: entries}}
}

// Field builds an Entry from a bare-text key and value, with no doc comment.
func Field(key string, value Value) Entry {
	return Entry{Key: Bare(key), Value: value}
}

// Tagged returns v with its tag replaced by name.
func Tagged(name string, v Value) Value {
	v.Tag = &Tag{Name: name}
	return v
}
