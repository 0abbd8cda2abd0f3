package yamlbind

import (
	"sort"
	"strings"

	"github.com/reoring/yamlbind/i18n"
)

// Node is one element of a parsed document tree. The set of implementations
// is closed: *Scalar, *Null, *List, *Map and *Tagged. Nodes are immutable
// once constructed.
type Node interface {
	// Location is where the node starts in the source document.
	Location() Location
	// EquivalentContentTo reports whether other has the same content,
	// ignoring source locations and formatting.
	EquivalentContentTo(other Node) bool
	// ContentToString renders the content for diagnostics. It is not a
	// round-trippable serialization.
	ContentToString() string

	node()
}

// Scalar is a bare or quoted leaf value. Its content is untyped text until
// coerced by one of the To* methods.
type Scalar struct {
	content string
	loc     Location
}

// NewScalar returns a scalar node.
func NewScalar(content string, loc Location) *Scalar {
	return &Scalar{content: content, loc: loc}
}

func (s *Scalar) node() {}

// Content returns the raw text of the scalar.
func (s *Scalar) Content() string { return s.content }

func (s *Scalar) Location() Location { return s.loc }

func (s *Scalar) EquivalentContentTo(other Node) bool {
	o, ok := other.(*Scalar)
	return ok && o.content == s.content
}

func (s *Scalar) ContentToString() string { return "'" + s.content + "'" }

// Null is the literal null or empty value.
type Null struct {
	loc Location
}

// NewNull returns a null node.
func NewNull(loc Location) *Null { return &Null{loc: loc} }

func (n *Null) node() {}

func (n *Null) Location() Location { return n.loc }

func (n *Null) EquivalentContentTo(other Node) bool {
	_, ok := other.(*Null)
	return ok
}

func (n *Null) ContentToString() string { return "null" }

// List is an ordered sequence of nodes.
type List struct {
	items []Node
	loc   Location
}

// NewList returns a list node. The items slice is copied.
func NewList(items []Node, loc Location) *List {
	cp := make([]Node, len(items))
	copy(cp, items)
	return &List{items: cp, loc: loc}
}

func (l *List) node() {}

// Items returns the list elements in document order. Callers must not
// modify the returned slice.
func (l *List) Items() []Node { return l.items }

// Len returns the number of items.
func (l *List) Len() int { return len(l.items) }

func (l *List) Location() Location { return l.loc }

func (l *List) EquivalentContentTo(other Node) bool {
	o, ok := other.(*List)
	if !ok {
		return false
	}
	if len(l.items) != len(o.items) {
		return false
	}
	for i := range l.items {
		if !l.items[i].EquivalentContentTo(o.items[i]) {
			return false
		}
	}
	return true
}

func (l *List) ContentToString() string {
	parts := make([]string, len(l.items))
	for i, it := range l.items {
		parts[i] = it.ContentToString()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MapEntry is a single key/value pair of a Map.
type MapEntry struct {
	Key   Node
	Value Node
}

// Map is a mapping from nodes to nodes. No two keys of a Map are
// content-equivalent; NewMap enforces this.
type Map struct {
	entries []MapEntry
	loc     Location
}

// NewMap builds a mapping node, rejecting duplicate keys. Keys are visited in
// source order (line, then column; ties keep input order) and the first key
// equivalent to an earlier one is reported as the duplicate of that earlier
// key.
func NewMap(entries []MapEntry, loc Location) (*Map, error) {
	keys := make([]Node, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].Location().before(keys[j].Location())
	})
	for i, k := range keys {
		for _, earlier := range keys[:i] {
			if earlier.EquivalentContentTo(k) {
				return nil, newDuplicateKeyError(earlier.Location(), k.Location(), k.ContentToString())
			}
		}
	}
	cp := make([]MapEntry, len(entries))
	copy(cp, entries)
	return &Map{entries: cp, loc: loc}, nil
}

func (m *Map) node() {}

// Entries returns the entries in document order. Callers must not modify the
// returned slice.
func (m *Map) Entries() []MapEntry { return m.entries }

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

func (m *Map) Location() Location { return m.loc }

func (m *Map) EquivalentContentTo(other Node) bool {
	o, ok := other.(*Map)
	if !ok {
		return false
	}
	if len(m.entries) != len(o.entries) {
		return false
	}
	used := make([]bool, len(o.entries))
	for _, mine := range m.entries {
		found := false
		for j, theirs := range o.entries {
			if used[j] {
				continue
			}
			if theirs.Key.EquivalentContentTo(mine.Key) && theirs.Value.EquivalentContentTo(mine.Value) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (m *Map) ContentToString() string {
	parts := make([]string, len(m.entries))
	for i, e := range m.entries {
		parts[i] = e.Key.ContentToString() + ": " + e.Value.ContentToString()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Get returns the value whose key is a scalar with the given content, or nil.
func (m *Map) Get(key string) Node {
	for _, e := range m.entries {
		if s, ok := e.Key.(*Scalar); ok && s.content == key {
			return e.Value
		}
	}
	return nil
}

// GetScalar is like Get but requires the value, when present, to be a scalar.
// It returns (nil, nil) when the key is absent.
func (m *Map) GetScalar(key string) (*Scalar, error) {
	n := m.Get(key)
	if n == nil {
		return nil, nil
	}
	s, ok := n.(*Scalar)
	if !ok {
		return nil, &IncorrectTypeError{
			Loc: n.Location(),
			Msg: i18n.T(i18n.MsgNotScalar, map[string]string{"key": key}),
		}
	}
	return s, nil
}

// Tagged wraps a node annotated with a type tag. Its location is the
// location of the inner node.
type Tagged struct {
	tag   string
	inner Node
}

// NewTagged returns a tagged node.
func NewTagged(tag string, inner Node) *Tagged {
	return &Tagged{tag: tag, inner: inner}
}

func (t *Tagged) node() {}

// Tag returns the tag name without the leading '!'.
func (t *Tagged) Tag() string { return t.tag }

// Inner returns the tagged node.
func (t *Tagged) Inner() Node { return t.inner }

func (t *Tagged) Location() Location { return t.inner.Location() }

func (t *Tagged) EquivalentContentTo(other Node) bool {
	o, ok := other.(*Tagged)
	if !ok {
		return false
	}
	return t.tag == o.tag && t.inner.EquivalentContentTo(o.inner)
}

func (t *Tagged) ContentToString() string { return "!" + t.tag + " " + t.inner.ContentToString() }

var (
	_ Node = (*Scalar)(nil)
	_ Node = (*Null)(nil)
	_ Node = (*List)(nil)
	_ Node = (*Map)(nil)
	_ Node = (*Tagged)(nil)
)
