package yamlbind

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Enum is implemented by Go types that decode from a fixed set of variant
// names. String-kinded types store the name, integer-kinded types store the
// variant index.
type Enum interface {
	YAMLVariants() []string
}

// NodeUnmarshaler is implemented by types that decode themselves from a node.
// The method is called on a pointer to a fresh zero value.
type NodeUnmarshaler interface {
	UnmarshalYAMLNode(d *Decoder, n Node) error
}

// SchemaError reports a Go type that cannot be described as a schema.
type SchemaError struct {
	Type    reflect.Type
	Message string
	Err     error
}

func (e *SchemaError) Error() string {
	if e.Type != nil {
		return fmt.Sprintf("yamlbind: schema error for %s: %s", e.Type, e.Message)
	}
	return "yamlbind: schema error: " + e.Message
}

func (e *SchemaError) Unwrap() error { return e.Err }

var (
	enumType            = reflect.TypeOf((*Enum)(nil)).Elem()
	nodeUnmarshalerType = reflect.TypeOf((*NodeUnmarshaler)(nil)).Elem()

	schemaCache sync.Map // reflect.Type -> *Schema

	taggedMu       sync.RWMutex
	taggedRegistry = map[reflect.Type]map[string]reflect.Type{}
)

// RegisterTagged declares the tag names under which the implementations of
// the interface I appear in documents. Fields of type I then decode from
// tagged nodes such as "!circle {radius: 2}".
func RegisterTagged[I any](variants map[string]reflect.Type) error {
	iface := reflect.TypeOf((*I)(nil)).Elem()
	if iface.Kind() != reflect.Interface {
		return &SchemaError{Type: iface, Message: "tagged target must be an interface type"}
	}
	copied := make(map[string]reflect.Type, len(variants))
	for tag, t := range variants {
		if t == nil || !t.AssignableTo(iface) {
			return &SchemaError{Type: iface, Message: fmt.Sprintf("variant for tag '%s' does not implement the interface", tag)}
		}
		copied[tag] = t
	}
	taggedMu.Lock()
	taggedRegistry[iface] = copied
	taggedMu.Unlock()
	// derived schemas may embed the previous registration
	schemaCache.Range(func(k, _ any) bool {
		schemaCache.Delete(k)
		return true
	})
	return nil
}

func taggedVariants(iface reflect.Type) (map[string]reflect.Type, bool) {
	taggedMu.RLock()
	defer taggedMu.RUnlock()
	v, ok := taggedRegistry[iface]
	return v, ok
}

// SchemaOf derives the schema of T; see SchemaFor.
func SchemaOf[T any]() (*Schema, error) {
	return SchemaFor(reflect.TypeOf((*T)(nil)).Elem())
}

// SchemaFor derives a schema from a Go type. Struct fields are named by their
// yaml tag, falling back to the field name; "-" skips a field, ",omitempty"
// makes it optional and ",inline" flattens an embedded struct. A
// `default:"text"` tag makes the field optional and supplies the value used
// when it is absent, written in document syntax. Pointers are nullable.
// Results are cached per type.
func SchemaFor(t reflect.Type) (*Schema, error) {
	if t == nil {
		return nil, &SchemaError{Message: "nil type"}
	}
	if s, ok := schemaCache.Load(t); ok {
		return s.(*Schema), nil
	}
	b := &deriver{building: map[reflect.Type]*Schema{}}
	s, err := b.schema(t)
	if err != nil {
		return nil, err
	}
	schemaCache.Store(t, s)
	return s, nil
}

type deriver struct {
	// building holds struct schemas under construction, for recursive types
	building map[reflect.Type]*Schema
}

func (b *deriver) schema(t reflect.Type) (*Schema, error) {
	if s, ok := b.building[t]; ok {
		return s, nil
	}
	if s, ok := schemaCache.Load(t); ok {
		return s.(*Schema), nil
	}
	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(nodeUnmarshalerType) {
		return CustomOf(t, unmarshalerStep(t)), nil
	}
	if t == charType {
		return CharSchema(), nil
	}
	if t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface && t.Implements(enumType) {
		variants := reflect.Zero(t).Interface().(Enum).YAMLVariants()
		return enumFor(t, variants)
	}

	switch t.Kind() {
	case reflect.Pointer:
		inner, err := b.schema(t.Elem())
		if err != nil {
			return nil, err
		}
		return Nullable(inner), nil
	case reflect.String:
		return withType(String(), t), nil
	case reflect.Bool:
		return withType(Bool(), t), nil
	case reflect.Int8:
		return withType(Int8(), t), nil
	case reflect.Int16:
		return withType(Int16(), t), nil
	case reflect.Int32:
		return withType(Int32(), t), nil
	case reflect.Int64, reflect.Int:
		return withType(Int64(), t), nil
	case reflect.Uint8:
		return withType(Uint8(), t), nil
	case reflect.Uint16:
		return withType(Uint16(), t), nil
	case reflect.Uint32:
		return withType(Uint32(), t), nil
	case reflect.Uint64, reflect.Uint:
		return withType(Uint64(), t), nil
	case reflect.Float32:
		return withType(Float32(), t), nil
	case reflect.Float64:
		return withType(Float64(), t), nil
	case reflect.Slice:
		elem, err := b.schema(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Schema{kind: KindList, typ: t, elem: elem}, nil
	case reflect.Map:
		key, err := b.schema(t.Key())
		if err != nil {
			return nil, err
		}
		val, err := b.schema(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Schema{kind: KindMap, typ: t, key: key, val: val}, nil
	case reflect.Struct:
		return b.record(t)
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return &Schema{kind: KindAny, typ: t}, nil
		}
		return b.tagged(t)
	}
	return nil, &SchemaError{Type: t, Message: fmt.Sprintf("unsupported kind %s", t.Kind())}
}

// withType rebinds a primitive schema to a named Go type of the same kind.
func withType(s *Schema, t reflect.Type) *Schema {
	s.typ = t
	return s
}

func enumFor(t reflect.Type, variants []string) (s *Schema, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, &SchemaError{Type: t, Message: fmt.Sprint(r)}
		}
	}()
	return EnumOf(t, variants...), nil
}

func (b *deriver) tagged(t reflect.Type) (*Schema, error) {
	variants, ok := taggedVariants(t)
	if !ok {
		return nil, &SchemaError{Type: t, Message: "interface has no registered tagged variants"}
	}
	s := &Schema{kind: KindTagged, typ: t, tags: make(map[string]*Schema, len(variants))}
	b.building[t] = s
	defer delete(b.building, t)
	for tag, vt := range variants {
		vs, err := b.schema(vt)
		if err != nil {
			return nil, err
		}
		s.tags[tag] = vs
	}
	return s, nil
}

func (b *deriver) record(t reflect.Type) (*Schema, error) {
	s := &Schema{kind: KindRecord, typ: t}
	b.building[t] = s
	defer delete(b.building, t)

	var fields []Field
	if err := b.collectFields(t, nil, &fields); err != nil {
		return nil, err
	}
	if err := s.setFields(t, fields); err != nil {
		return nil, &SchemaError{Type: t, Message: err.Error()}
	}
	return s, nil
}

type fieldTag struct {
	name      string
	skip      bool
	omitempty bool
	inline    bool
}

// parseFieldTag resolves the property name of a struct field.
// Priority: yaml tag name > field name; "-" disables the field.
func parseFieldTag(sf reflect.StructField) fieldTag {
	ft := fieldTag{name: sf.Name}
	yt, ok := sf.Tag.Lookup("yaml")
	if !ok {
		return ft
	}
	if yt == "-" {
		ft.skip = true
		return ft
	}
	parts := strings.Split(yt, ",")
	if parts[0] != "" {
		ft.name = parts[0]
	}
	for _, p := range parts[1:] {
		switch strings.TrimSpace(p) {
		case "omitempty":
			ft.omitempty = true
		case "inline":
			ft.inline = true
		}
	}
	return ft
}

func (b *deriver) collectFields(t reflect.Type, prefix []int, out *[]Field) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		ft := parseFieldTag(sf)
		if ft.skip {
			continue
		}
		index := append(append([]int(nil), prefix...), i)
		if ft.inline {
			if !sf.Anonymous || sf.Type.Kind() != reflect.Struct {
				return &SchemaError{Type: t, Message: fmt.Sprintf("field %s: inline requires an embedded struct", sf.Name)}
			}
			if err := b.collectFields(sf.Type, index, out); err != nil {
				return err
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		fs, err := b.schema(sf.Type)
		if err != nil {
			var se *SchemaError
			if asSchemaError(err, &se) && se.Type != t {
				return &SchemaError{Type: t, Message: fmt.Sprintf("field %s: %s", sf.Name, se.Message), Err: err}
			}
			return err
		}
		f := Field{Name: ft.name, GoField: sf.Name, Schema: fs, Optional: ft.omitempty, index: index}
		if text, ok := sf.Tag.Lookup("default"); ok {
			v, err := defaultValue(fs, text)
			if err != nil {
				return &SchemaError{Type: t, Message: fmt.Sprintf("field %s: invalid default %q: %s", sf.Name, text, messageOf(err)), Err: err}
			}
			f.Optional = true
			f.defValue = v
			f.Default = v.Interface()
		}
		*out = append(*out, f)
	}
	return nil
}

func asSchemaError(err error, target **SchemaError) bool {
	se, ok := err.(*SchemaError)
	if ok {
		*target = se
	}
	return ok
}

// defaultValue decodes a default tag written in document syntax.
func defaultValue(s *Schema, text string) (reflect.Value, error) {
	var n Node = NewScalar("", Location{})
	if text != "" {
		var err error
		if n, err = ParseNode([]byte(text)); err != nil {
			return reflect.Value{}, err
		}
	}
	return newDecoder(context.Background()).decode(s, n)
}

func unmarshalerStep(t reflect.Type) CustomFunc {
	return func(d *Decoder, n Node) (any, error) {
		p := reflect.New(t)
		if err := p.Interface().(NodeUnmarshaler).UnmarshalYAMLNode(d, n); err != nil {
			return nil, err
		}
		return p.Elem().Interface(), nil
	}
}
