package yamlbind

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Kind is the shape of a decode target.
type Kind int

const (
	KindString Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindChar
	KindList
	KindMap
	KindRecord
	KindEnum
	KindTagged
	KindCustom
	KindAny
)

var kindNames = map[Kind]string{
	KindString:  "string",
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindUint8:   "uint8",
	KindUint16:  "uint16",
	KindUint32:  "uint32",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindBool:    "bool",
	KindChar:    "char",
	KindList:    "list",
	KindMap:     "map",
	KindRecord:  "record",
	KindEnum:    "enum",
	KindTagged:  "tagged",
	KindCustom:  "custom",
	KindAny:     "any",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "<unknown kind>"
}

// IsPrimitive reports whether k decodes from a single scalar via coercion.
func (k Kind) IsPrimitive() bool { return k <= KindChar }

// Char is a single character. Use it instead of rune for struct fields so
// that reflection can tell characters from 32-bit integers.
type Char rune

// TaggedValue is the decoded form of a tagged node when the target has no Go
// interface type (KindAny, or TaggedOf with a nil type).
type TaggedValue struct {
	Tag   string
	Value any
}

// CustomFunc is an opaque decode step. It receives the node being decoded;
// d.CurrentLocation() reports that node's location.
type CustomFunc func(d *Decoder, n Node) (any, error)

// Field describes one named field of a record.
type Field struct {
	// Name is the property name in the document.
	Name string
	// GoField names the struct field the value is stored in. Ignored for
	// records without a Go type; defaults to Name.
	GoField string
	Schema  *Schema
	// Optional fields may be absent; they then take Default, or the zero
	// value when Default is nil.
	Optional bool
	Default  any

	index    []int
	defValue reflect.Value
}

// Schema describes the shape of a decode target. Schemas are immutable once
// built and safe for concurrent use.
type Schema struct {
	kind     Kind
	typ      reflect.Type
	nullable bool
	inner    *Schema // nullable wrappers only

	elem     *Schema
	key, val *Schema

	fields []Field
	byName map[string]int
	names  []string // sorted field names

	variants []string
	tags     map[string]*Schema

	custom CustomFunc
}

var (
	anyType         = reflect.TypeOf((*any)(nil)).Elem()
	charType        = reflect.TypeOf(Char(0))
	taggedValueType = reflect.TypeOf(TaggedValue{})
	recordMapType   = reflect.TypeOf(map[string]any(nil))
)

func primitive(k Kind, sample any) *Schema {
	return &Schema{kind: k, typ: reflect.TypeOf(sample)}
}

// String returns the schema of a string target.
func String() *Schema { return primitive(KindString, "") }

// Int8 returns the schema of an 8-bit integer target.
func Int8() *Schema { return primitive(KindInt8, int8(0)) }

// Int16 returns the schema of a 16-bit integer target.
func Int16() *Schema { return primitive(KindInt16, int16(0)) }

// Int32 returns the schema of a 32-bit integer target.
func Int32() *Schema { return primitive(KindInt32, int32(0)) }

// Int64 returns the schema of a 64-bit integer target.
func Int64() *Schema { return primitive(KindInt64, int64(0)) }

// Uint8 returns the schema of an unsigned 8-bit integer target.
func Uint8() *Schema { return primitive(KindUint8, uint8(0)) }

// Uint16 returns the schema of an unsigned 16-bit integer target.
func Uint16() *Schema { return primitive(KindUint16, uint16(0)) }

// Uint32 returns the schema of an unsigned 32-bit integer target.
func Uint32() *Schema { return primitive(KindUint32, uint32(0)) }

// Uint64 returns the schema of an unsigned 64-bit integer target.
func Uint64() *Schema { return primitive(KindUint64, uint64(0)) }

// Float32 returns the schema of a 32-bit float target.
func Float32() *Schema { return primitive(KindFloat32, float32(0)) }

// Float64 returns the schema of a 64-bit float target.
func Float64() *Schema { return primitive(KindFloat64, float64(0)) }

// Bool returns the schema of a boolean target.
func Bool() *Schema { return primitive(KindBool, false) }

// CharSchema returns the schema of a single-character target.
func CharSchema() *Schema { return primitive(KindChar, Char(0)) }

// Any returns a schema accepting any node. Scalars decode to string, null to
// nil, lists to []any, maps to map[string]any and tagged nodes to
// TaggedValue.
func Any() *Schema { return &Schema{kind: KindAny, typ: anyType} }

// Nullable marks s as accepting null. The Go target becomes a pointer to
// the target of s (nil for null), except for interface targets which are
// nil directly.
func Nullable(s *Schema) *Schema {
	if s.nullable {
		return s
	}
	t := s.typ
	if t.Kind() != reflect.Interface {
		t = reflect.PointerTo(t)
	}
	return &Schema{kind: s.kind, typ: t, nullable: true, inner: s}
}

// ListOf returns the schema of an ordered sequence of elem.
func ListOf(elem *Schema) *Schema {
	return &Schema{kind: KindList, typ: reflect.SliceOf(elem.typ), elem: elem}
}

// MapOf returns the schema of a mapping with arbitrary keys. It panics if
// the Go target of key is not comparable.
func MapOf(key, value *Schema) *Schema {
	if !key.typ.Comparable() {
		panic(fmt.Sprintf("yamlbind: map key type %s is not comparable", key.typ))
	}
	return &Schema{kind: KindMap, typ: reflect.MapOf(key.typ, value.typ), key: key, val: value}
}

// EnumOf returns the schema of an enumeration. t is the Go target, which
// must have a string or integer kind (integer targets store the variant
// index); a nil t decodes to string.
func EnumOf(t reflect.Type, variants ...string) *Schema {
	if t == nil {
		t = reflect.TypeOf("")
	}
	switch t.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		panic(fmt.Sprintf("yamlbind: enum type %s must have a string or integer kind", t))
	}
	return &Schema{kind: KindEnum, typ: t, variants: append([]string(nil), variants...)}
}

// RecordOf returns the schema of a fixed-shape record. t must be a struct
// type, or nil to decode into map[string]any. It panics on duplicate field
// names or fields missing from t.
func RecordOf(t reflect.Type, fields ...Field) *Schema {
	s := &Schema{kind: KindRecord, typ: t}
	if t == nil {
		s.typ = recordMapType
	}
	if err := s.setFields(t, fields); err != nil {
		panic(err.Error())
	}
	return s
}

func (s *Schema) setFields(t reflect.Type, fields []Field) error {
	s.fields = make([]Field, len(fields))
	s.byName = make(map[string]int, len(fields))
	s.names = make([]string, 0, len(fields))
	for i, f := range fields {
		if f.Schema == nil {
			return fmt.Errorf("yamlbind: field %q has no schema", f.Name)
		}
		if _, dup := s.byName[f.Name]; dup {
			return fmt.Errorf("yamlbind: duplicate field name %q", f.Name)
		}
		if t != nil && f.index == nil {
			gf := f.GoField
			if gf == "" {
				gf = f.Name
			}
			sf, ok := t.FieldByName(gf)
			if !ok {
				return fmt.Errorf("yamlbind: %s has no field %s", t, gf)
			}
			f.index = sf.Index
		}
		if f.Default != nil && !f.defValue.IsValid() {
			dv := reflect.ValueOf(f.Default)
			if !dv.Type().ConvertibleTo(f.Schema.typ) {
				return fmt.Errorf("yamlbind: default for field %q has type %s, want %s", f.Name, dv.Type(), f.Schema.typ)
			}
			f.defValue = dv.Convert(f.Schema.typ)
			f.Optional = true
		}
		s.fields[i] = f
		s.byName[f.Name] = i
		s.names = append(s.names, f.Name)
	}
	sort.Strings(s.names)
	return nil
}

// TaggedOf returns the schema of a polymorphic target dispatched on the tag
// name. t is the Go interface every variant implements; a nil t decodes to
// TaggedValue.
func TaggedOf(t reflect.Type, variants map[string]*Schema) *Schema {
	if t == nil {
		t = taggedValueType
	} else {
		for name, v := range variants {
			if !v.typ.AssignableTo(t) {
				panic(fmt.Sprintf("yamlbind: tag %q target %s does not implement %s", name, v.typ, t))
			}
		}
	}
	tags := make(map[string]*Schema, len(variants))
	for k, v := range variants {
		tags[k] = v
	}
	return &Schema{kind: KindTagged, typ: t, tags: tags}
}

// CustomOf returns a schema whose decoding is delegated to fn. Values
// returned by fn must be assignable to t; a nil t means any.
func CustomOf(t reflect.Type, fn CustomFunc) *Schema {
	if t == nil {
		t = anyType
	}
	return &Schema{kind: KindCustom, typ: t, custom: fn}
}

// Kind returns the target kind. Nullable schemas report the kind of the
// wrapped schema.
func (s *Schema) Kind() Kind { return s.kind }

// Type returns the Go type decoded values have.
func (s *Schema) Type() reflect.Type { return s.typ }

// IsNullable reports whether null is accepted.
func (s *Schema) IsNullable() bool { return s.nullable }

// NonNull returns the schema with nullability removed.
func (s *Schema) NonNull() *Schema {
	if s.nullable {
		return s.inner
	}
	return s
}

// Elem returns the element schema of a list.
func (s *Schema) Elem() *Schema { return s.NonNull().elem }

// Key returns the key schema of a map.
func (s *Schema) Key() *Schema { return s.NonNull().key }

// Value returns the value schema of a map.
func (s *Schema) Value() *Schema { return s.NonNull().val }

// Fields returns the record fields in declaration order.
func (s *Schema) Fields() []Field { return append([]Field(nil), s.NonNull().fields...) }

// Field looks up a record field by property name.
func (s *Schema) Field(name string) (Field, bool) {
	b := s.NonNull()
	i, ok := b.byName[name]
	if !ok {
		return Field{}, false
	}
	return b.fields[i], true
}

// FieldNames returns the record's property names, sorted.
func (s *Schema) FieldNames() []string { return append([]string(nil), s.NonNull().names...) }

// Variants returns the enum variant names in declaration order.
func (s *Schema) Variants() []string { return append([]string(nil), s.NonNull().variants...) }

// Tags returns the registered tag names, sorted.
func (s *Schema) Tags() []string {
	b := s.NonNull()
	out := make([]string, 0, len(b.tags))
	for k := range b.tags {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// TagSchema returns the schema registered for a tag name.
func (s *Schema) TagSchema(tag string) (*Schema, bool) {
	v, ok := s.NonNull().tags[tag]
	return v, ok
}

// Describe renders the schema for diagnostics, for example
// "record{age: int32, name: string?}".
func (s *Schema) Describe() string {
	return s.describe(map[*Schema]bool{})
}

func (s *Schema) describe(seen map[*Schema]bool) string {
	if s.nullable {
		return s.inner.describe(seen) + "?"
	}
	switch s.kind {
	case KindList:
		return "list<" + s.elem.describe(seen) + ">"
	case KindMap:
		return "map<" + s.key.describe(seen) + ", " + s.val.describe(seen) + ">"
	case KindRecord:
		if seen[s] {
			return s.typ.String()
		}
		seen[s] = true
		parts := make([]string, 0, len(s.names))
		for _, n := range s.names {
			parts = append(parts, n+": "+s.fields[s.byName[n]].Schema.describe(seen))
		}
		delete(seen, s)
		return "record{" + strings.Join(parts, ", ") + "}"
	case KindEnum:
		return "enum(" + strings.Join(s.variants, "|") + ")"
	case KindTagged:
		tags := s.Tags()
		for i, t := range tags {
			tags[i] = "!" + t
		}
		return "tagged(" + strings.Join(tags, "|") + ")"
	default:
		return s.kind.String()
	}
}
