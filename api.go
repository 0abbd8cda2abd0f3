package yamlbind

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strconv"

	"github.com/reoring/yamlbind/i18n"
)

// Unmarshal decodes a single YAML document into the value v points to. The
// schema is derived from the type of *v with SchemaFor. On error *v is left
// untouched.
func Unmarshal(ctx context.Context, data []byte, v any, opts ...DecodeOpt) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("yamlbind: Unmarshal target must be a non-nil pointer, got %T", v)
	}
	s, err := SchemaFor(rv.Elem().Type())
	if err != nil {
		return err
	}
	n, err := ParseNode(data, opts...)
	if err != nil {
		return err
	}
	out, err := newDecoder(ctx).decode(s, n)
	if err != nil {
		return err
	}
	return assign(rv.Elem(), out)
}

// Decode parses data and decodes it into a T.
func Decode[T any](ctx context.Context, data []byte, opts ...DecodeOpt) (T, error) {
	var out T
	if err := Unmarshal(ctx, data, &out, opts...); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// DecodeReader reads a document from r and decodes it into a T. When MaxBytes
// is set reading stops once the limit is exceeded.
func DecodeReader[T any](ctx context.Context, r io.Reader, opts ...DecodeOpt) (T, error) {
	var zero T
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 {
		r = io.LimitReader(r, opt.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return zero, err
	}
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return zero, malformed(Location{}, i18n.MsgTooLarge, map[string]string{
			"size": ">" + strconv.FormatInt(opt.MaxBytes, 10),
			"max":  strconv.FormatInt(opt.MaxBytes, 10),
		})
	}
	return Decode[T](ctx, data, opts...)
}

// DecodeNode decodes an already built node tree into a T.
func DecodeNode[T any](ctx context.Context, n Node) (T, error) {
	var zero T
	s, err := SchemaOf[T]()
	if err != nil {
		return zero, err
	}
	out, err := newDecoder(ctx).decode(s, n)
	if err != nil {
		return zero, err
	}
	var v T
	if err := assign(reflect.ValueOf(&v).Elem(), out); err != nil {
		return zero, err
	}
	return v, nil
}

// DecodeWith parses data and decodes it with a hand-built schema. The result
// has the Go type s.Type().
func DecodeWith(ctx context.Context, s *Schema, data []byte, opts ...DecodeOpt) (any, error) {
	n, err := ParseNode(data, opts...)
	if err != nil {
		return nil, err
	}
	return DecodeNodeWith(ctx, s, n)
}

// DecodeNodeWith decodes a node tree with a hand-built schema.
func DecodeNodeWith(ctx context.Context, s *Schema, n Node) (any, error) {
	if s == nil {
		return nil, &SchemaError{Message: "nil schema"}
	}
	out, err := newDecoder(ctx).decode(s, n)
	if err != nil {
		return nil, err
	}
	return out.Interface(), nil
}
