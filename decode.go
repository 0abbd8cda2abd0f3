package yamlbind

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/reoring/yamlbind/i18n"
)

// Decoder walks a node tree under the direction of a Schema. Custom decode
// steps receive the active Decoder to query the current location or decode
// sub-nodes.
type Decoder struct {
	ctx context.Context
	loc Location
}

func newDecoder(ctx context.Context) *Decoder {
	return &Decoder{ctx: ctx}
}

// Context returns the context of the decode call.
func (d *Decoder) Context() context.Context { return d.ctx }

// CurrentLocation returns the location of the node being decoded.
func (d *Decoder) CurrentLocation() Location { return d.loc }

// Decode decodes n with s and stores the result in the value out points to.
// It is meant for custom steps that delegate parts of their node.
func (d *Decoder) Decode(s *Schema, n Node, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("yamlbind: Decode target must be a non-nil pointer, got %T", out)
	}
	v, err := d.decode(s, n)
	if err != nil {
		return err
	}
	return assign(rv.Elem(), v)
}

// assign stores v into dst, converting between compatible types.
func assign(dst, v reflect.Value) error {
	switch {
	case !v.IsValid():
		dst.SetZero()
	case v.Type().AssignableTo(dst.Type()):
		dst.Set(v)
	case v.Type().ConvertibleTo(dst.Type()) && v.Kind() != reflect.Interface:
		dst.Set(v.Convert(dst.Type()))
	default:
		return fmt.Errorf("yamlbind: cannot store %s in %s", v.Type(), dst.Type())
	}
	return nil
}

func describeNode(n Node) string {
	switch n.(type) {
	case *Scalar:
		return "a scalar value"
	case *Null:
		return "null"
	case *List:
		return "a list"
	case *Map:
		return "a map"
	case *Tagged:
		return "a tagged value"
	}
	return "an unknown node"
}

func incorrectType(n Node, expected string) *IncorrectTypeError {
	return &IncorrectTypeError{
		Loc: n.Location(),
		Msg: i18n.T(i18n.MsgIncorrectType, map[string]string{"expected": expected, "actual": describeNode(n)}),
	}
}

// expect returns n as T, reporting null as UnexpectedNullError and any other
// variant as IncorrectTypeError.
func expect[T Node](n Node, expected string) (T, error) {
	if t, ok := n.(T); ok {
		return t, nil
	}
	var zero T
	if _, ok := n.(*Null); ok {
		return zero, &UnexpectedNullError{Loc: n.Location()}
	}
	return zero, incorrectType(n, expected)
}

// decode returns a fresh value of type s.Type(). Nothing is written to
// caller-owned memory, so a failed decode leaves no partial result.
func (d *Decoder) decode(s *Schema, n Node) (reflect.Value, error) {
	if err := d.ctx.Err(); err != nil {
		return reflect.Value{}, err
	}
	prev := d.loc
	d.loc = n.Location()
	defer func() { d.loc = prev }()

	if s.nullable {
		if _, ok := n.(*Null); ok {
			return reflect.Zero(s.typ), nil
		}
		v, err := d.decode(s.inner, n)
		if err != nil || s.typ.Kind() != reflect.Pointer {
			return v, err
		}
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		return p, nil
	}

	switch s.kind {
	case KindList:
		return d.list(s, n)
	case KindMap:
		return d.mapping(s, n)
	case KindRecord:
		return d.record(s, n)
	case KindEnum:
		return d.enum(s, n)
	case KindTagged:
		return d.tagged(s, n)
	case KindCustom:
		return d.custom(s, n)
	case KindAny:
		v, err := d.dynamic(n)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(s.typ).Elem()
		if v != nil {
			out.Set(reflect.ValueOf(v))
		}
		return out, nil
	}

	sc, err := expect[*Scalar](n, "a scalar value")
	if err != nil {
		return reflect.Value{}, err
	}
	var x any
	switch s.kind {
	case KindString:
		x, err = sc.Content(), nil
	case KindInt8:
		x, err = sc.ToInt8()
	case KindInt16:
		x, err = sc.ToInt16()
	case KindInt32:
		x, err = sc.ToInt32()
	case KindInt64:
		x, err = sc.ToInt64()
	case KindUint8:
		x, err = sc.ToUint8()
	case KindUint16:
		x, err = sc.ToUint16()
	case KindUint32:
		x, err = sc.ToUint32()
	case KindUint64:
		x, err = sc.ToUint64()
	case KindFloat32:
		x, err = sc.ToFloat32()
	case KindFloat64:
		x, err = sc.ToFloat64()
	case KindBool:
		x, err = sc.ToBool()
	case KindChar:
		x, err = sc.ToChar()
	default:
		return reflect.Value{}, fmt.Errorf("yamlbind: unsupported schema kind %s", s.kind)
	}
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(x).Convert(s.typ), nil
}

func (d *Decoder) list(s *Schema, n Node) (reflect.Value, error) {
	l, err := expect[*List](n, "a list")
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.MakeSlice(s.typ, 0, l.Len())
	for _, item := range l.Items() {
		v, err := d.decode(s.elem, item)
		if err != nil {
			return reflect.Value{}, err
		}
		out = reflect.Append(out, v)
	}
	return out, nil
}

func (d *Decoder) mapping(s *Schema, n Node) (reflect.Value, error) {
	m, err := expect[*Map](n, "a map")
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.MakeMapWithSize(s.typ, m.Len())
	for _, e := range m.Entries() {
		k, err := d.decode(s.key, e.Key)
		if err != nil {
			return reflect.Value{}, err
		}
		v, err := d.decode(s.val, e.Value)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(k, v)
	}
	return out, nil
}

func (d *Decoder) record(s *Schema, n Node) (reflect.Value, error) {
	m, err := expect[*Map](n, "a map")
	if err != nil {
		return reflect.Value{}, err
	}
	dynamic := s.typ == recordMapType
	var out reflect.Value
	if dynamic {
		out = reflect.MakeMapWithSize(s.typ, len(s.fields))
	} else {
		out = reflect.New(s.typ).Elem()
	}
	store := func(f *Field, v reflect.Value) {
		if dynamic {
			if !v.IsValid() {
				v = reflect.Zero(out.Type().Elem())
			}
			out.SetMapIndex(reflect.ValueOf(f.Name), v)
			return
		}
		out.FieldByIndex(f.index).Set(v)
	}

	seen := make([]bool, len(s.fields))
	for _, e := range m.Entries() {
		key, ok := e.Key.(*Scalar)
		if !ok {
			return reflect.Value{}, malformed(m.Location(), i18n.MsgMalformedKey, nil)
		}
		i, ok := s.byName[key.Content()]
		if !ok {
			return reflect.Value{}, &UnknownPropertyError{
				Loc:             key.Location(),
				Property:        key.Content(),
				ValidProperties: append([]string(nil), s.names...),
			}
		}
		f := &s.fields[i]
		v, err := d.decode(f.Schema, e.Value)
		if err != nil {
			if _, ok := err.(Diagnostic); ok {
				return reflect.Value{}, NewInvalidPropertyValueError(f.Name, e.Value.Location(), err)
			}
			return reflect.Value{}, err
		}
		seen[i] = true
		store(f, v)
	}

	for i := range s.fields {
		if seen[i] {
			continue
		}
		f := &s.fields[i]
		switch {
		case f.defValue.IsValid():
			store(f, f.defValue)
		case f.Optional, f.Schema.nullable:
			if !dynamic {
				continue
			}
			if f.Schema.nullable {
				store(f, reflect.Value{})
			}
		default:
			return reflect.Value{}, NewInvalidPropertyValueError(f.Name, m.Location(), &UnexpectedNullError{Loc: m.Location()})
		}
	}
	return out, nil
}

func (d *Decoder) enum(s *Schema, n Node) (reflect.Value, error) {
	sc, err := expect[*Scalar](n, "a scalar value")
	if err != nil {
		return reflect.Value{}, err
	}
	for i, name := range s.variants {
		if name != sc.Content() {
			continue
		}
		out := reflect.New(s.typ).Elem()
		switch s.typ.Kind() {
		case reflect.String:
			out.SetString(name)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			out.SetUint(uint64(i))
		default:
			out.SetInt(int64(i))
		}
		return out, nil
	}
	return reflect.Value{}, sc.formatError("option", i18n.MsgInvalidEnum, map[string]string{
		"choices": strings.Join(s.variants, ", "),
	})
}

func (d *Decoder) tagged(s *Schema, n Node) (reflect.Value, error) {
	t, err := expect[*Tagged](n, "a tagged value")
	if err != nil {
		return reflect.Value{}, err
	}
	vs, ok := s.tags[t.Tag()]
	if !ok {
		return reflect.Value{}, malformed(t.Location(), i18n.MsgUnknownTag, map[string]string{
			"tag":   t.Tag(),
			"known": strings.Join(s.Tags(), ", "),
		})
	}
	v, err := d.decode(vs, t.Inner())
	if err != nil {
		return reflect.Value{}, err
	}
	if s.typ == taggedValueType {
		return reflect.ValueOf(TaggedValue{Tag: t.Tag(), Value: v.Interface()}), nil
	}
	out := reflect.New(s.typ).Elem()
	out.Set(v)
	return out, nil
}

func (d *Decoder) custom(s *Schema, n Node) (reflect.Value, error) {
	x, err := s.custom(d, n)
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(s.typ).Elem()
	if x == nil {
		return out, nil
	}
	if err := assign(out, reflect.ValueOf(x)); err != nil {
		return reflect.Value{}, err
	}
	return out, nil
}

// dynamic decodes n without a target shape.
func (d *Decoder) dynamic(n Node) (any, error) {
	switch t := n.(type) {
	case *Scalar:
		return t.Content(), nil
	case *Null:
		return nil, nil
	case *List:
		out := make([]any, 0, t.Len())
		for _, item := range t.Items() {
			v, err := d.dynamic(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case *Map:
		out := make(map[string]any, t.Len())
		for _, e := range t.Entries() {
			k, ok := e.Key.(*Scalar)
			if !ok {
				return nil, malformed(e.Key.Location(), i18n.MsgMalformedAnyKey, map[string]string{"actual": describeNode(e.Key)})
			}
			v, err := d.dynamic(e.Value)
			if err != nil {
				return nil, err
			}
			out[k.Content()] = v
		}
		return out, nil
	case *Tagged:
		v, err := d.dynamic(t.Inner())
		if err != nil {
			return nil, err
		}
		return TaggedValue{Tag: t.Tag(), Value: v}, nil
	}
	return nil, incorrectType(n, "a node")
}
