package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/reoring/yamlbind"
)

// schemaType names the kinds a schema file may use.
type schemaType string

func (schemaType) YAMLVariants() []string {
	return []string{
		"string", "int8", "int16", "int32", "int64",
		"uint8", "uint16", "uint32", "uint64",
		"float32", "float64", "bool", "char",
		"list", "map", "record", "enum", "tagged", "any",
	}
}

// rawNode keeps a node undecoded until its schema is known.
type rawNode struct {
	Node yamlbind.Node
}

func (r *rawNode) UnmarshalYAMLNode(_ *yamlbind.Decoder, n yamlbind.Node) error {
	r.Node = n
	return nil
}

// schemaDoc is the document form of a schema, for example:
//
//	type: record
//	fields:
//	  name: {type: string}
//	  port: {type: int32, default: 8080}
//	  tags: {type: list, of: {type: string}, optional: true}
type schemaDoc struct {
	Type     schemaType            `yaml:"type"`
	Nullable bool                  `yaml:"nullable" default:"false"`
	Optional bool                  `yaml:"optional" default:"false"`
	Default  *rawNode              `yaml:"default,omitempty"`
	Fields   map[string]*schemaDoc `yaml:"fields,omitempty"`
	Variants []string              `yaml:"variants,omitempty"`
	Of       *schemaDoc            `yaml:"of,omitempty"`
	Key      *schemaDoc            `yaml:"key,omitempty"`
	Value    *schemaDoc            `yaml:"value,omitempty"`
	Tags     map[string]*schemaDoc `yaml:"tags,omitempty"`
}

// loadSchemaFile decodes a schema document and builds the schema it
// describes.
func loadSchemaFile(ctx context.Context, data []byte, opt yamlbind.DecodeOpt) (*yamlbind.Schema, error) {
	sd, err := yamlbind.Decode[schemaDoc](ctx, data, opt)
	if err != nil {
		return nil, err
	}
	return buildSchema(ctx, &sd, "/")
}

func buildSchema(ctx context.Context, sd *schemaDoc, path string) (*yamlbind.Schema, error) {
	s, err := buildNonNull(ctx, sd, path)
	if err != nil {
		return nil, err
	}
	if sd.Nullable {
		s = yamlbind.Nullable(s)
	}
	return s, nil
}

func child(ctx context.Context, sd *schemaDoc, path, name string) (*yamlbind.Schema, error) {
	if sd == nil {
		return nil, fmt.Errorf("schema %s: %q is required", path, name)
	}
	return buildSchema(ctx, sd, path+name+"/")
}

func buildNonNull(ctx context.Context, sd *schemaDoc, path string) (*yamlbind.Schema, error) {
	switch sd.Type {
	case "string":
		return yamlbind.String(), nil
	case "int8":
		return yamlbind.Int8(), nil
	case "int16":
		return yamlbind.Int16(), nil
	case "int32":
		return yamlbind.Int32(), nil
	case "int64":
		return yamlbind.Int64(), nil
	case "uint8":
		return yamlbind.Uint8(), nil
	case "uint16":
		return yamlbind.Uint16(), nil
	case "uint32":
		return yamlbind.Uint32(), nil
	case "uint64":
		return yamlbind.Uint64(), nil
	case "float32":
		return yamlbind.Float32(), nil
	case "float64":
		return yamlbind.Float64(), nil
	case "bool":
		return yamlbind.Bool(), nil
	case "char":
		return yamlbind.CharSchema(), nil
	case "any":
		return yamlbind.Any(), nil
	case "enum":
		if len(sd.Variants) == 0 {
			return nil, fmt.Errorf("schema %s: enum needs variants", path)
		}
		return yamlbind.EnumOf(nil, sd.Variants...), nil
	case "list":
		elem, err := child(ctx, sd.Of, path, "of")
		if err != nil {
			return nil, err
		}
		return yamlbind.ListOf(elem), nil
	case "map":
		key := yamlbind.String()
		if sd.Key != nil {
			var err error
			if key, err = child(ctx, sd.Key, path, "key"); err != nil {
				return nil, err
			}
		}
		val, err := child(ctx, sd.Value, path, "value")
		if err != nil {
			return nil, err
		}
		return yamlbind.MapOf(key, val), nil
	case "tagged":
		tags := make(map[string]*yamlbind.Schema, len(sd.Tags))
		for name, ts := range sd.Tags {
			s, err := child(ctx, ts, path+"tags/", name)
			if err != nil {
				return nil, err
			}
			tags[name] = s
		}
		return yamlbind.TaggedOf(nil, tags), nil
	case "record":
		return buildRecord(ctx, sd, path)
	}
	return nil, fmt.Errorf("schema %s: unsupported type %q", path, sd.Type)
}

func buildRecord(ctx context.Context, sd *schemaDoc, path string) (*yamlbind.Schema, error) {
	names := make([]string, 0, len(sd.Fields))
	for name := range sd.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	fields := make([]yamlbind.Field, 0, len(names))
	for _, name := range names {
		fs, err := child(ctx, sd.Fields[name], path+"fields/", name)
		if err != nil {
			return nil, err
		}
		f := yamlbind.Field{Name: name, Schema: fs, Optional: sd.Fields[name].Optional}
		if d := sd.Fields[name].Default; d != nil {
			v, err := yamlbind.DecodeNodeWith(ctx, fs, d.Node)
			if err != nil {
				return nil, defaultError(path+"fields/"+name, d.Node.Location(), err)
			}
			f.Default = v
		}
		fields = append(fields, f)
	}
	return yamlbind.RecordOf(nil, fields...), nil
}

// defaultError reports an invalid default against the schema document,
// wrapping err once per property on the way from the root to the default.
func defaultError(path string, loc yamlbind.Location, err error) error {
	var d yamlbind.Diagnostic
	if !errors.As(err, &d) {
		return fmt.Errorf("schema %s: invalid default: %w", path, err)
	}
	err = yamlbind.NewInvalidPropertyValueError("default", loc, err)
	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	for i := len(segments) - 1; i >= 0; i-- {
		err = yamlbind.NewInvalidPropertyValueError(segments[i], loc, err)
	}
	return err
}
