// Package yamlbind decodes YAML documents into typed Go values and reports
// every problem with the line and column it was found at.
//
// Decoding happens in two steps. A YAMLDriver tokenizes the text into events
// which BuildNode assembles into an immutable tree of Node values (Scalar,
// Null, List, Map and Tagged), rejecting duplicate keys on the way. The
// engine then walks that tree under the direction of a Schema, derived from
// a Go type with SchemaFor or built by hand with String, ListOf, RecordOf and
// friends.
//
// Errors implement Diagnostic and come in a fixed set of types:
// MalformedDocumentError, DuplicateKeyError, IncorrectTypeError,
// ScalarFormatError, UnexpectedNullError, UnknownPropertyError and
// InvalidPropertyValueError. AsIssues flattens any of them into Issues with a
// JSON Pointer path for tooling.
//
// Typical usage:
//
//	type Server struct {
//		Host string `yaml:"host"`
//		Port int32  `yaml:"port" default:"8080"`
//	}
//	srv, err := yamlbind.Decode[Server](ctx, data)
//	// line 2, column 7: Value for 'port' is invalid: Value 'x' is not a valid integer value.
//
// The default driver is backed by gopkg.in/yaml.v3; source/goccy provides an
// alternative backed by github.com/goccy/go-yaml.
package yamlbind
