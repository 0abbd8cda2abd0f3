package yamlbind

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/yamlbind/i18n"
)

// Issue codes, one per taxonomy error type.
const (
	CodeParseError      = "parse_error"
	CodeDuplicateKey    = "duplicate_key"
	CodeInvalidType     = "invalid_type"
	CodeInvalidFormat   = "invalid_format"
	CodeUnexpectedNull  = "unexpected_null"
	CodeUnknownKey      = "unknown_key"
	CodeInvalidProperty = "invalid_property"
)

// Diagnostic is implemented by every error the package returns for document
// problems. Message excludes the location; Error includes it.
type Diagnostic interface {
	error
	Position() Location
	Message() string
	Code() string
}

func formatDiagnostic(loc Location, msg string) string {
	if !loc.IsKnown() {
		return msg
	}
	return fmt.Sprintf("line %d, column %d: %s", loc.Line, loc.Column, msg)
}

// MalformedDocumentError reports a structural problem: a bad event sequence,
// an invalid key type, a tokenizer syntax error or an unknown tag.
type MalformedDocumentError struct {
	Loc Location
	Msg string
	// Err is the tokenizer error, if any.
	Err error
}

func (e *MalformedDocumentError) Error() string      { return formatDiagnostic(e.Loc, e.Msg) }
func (e *MalformedDocumentError) Position() Location { return e.Loc }
func (e *MalformedDocumentError) Message() string    { return e.Msg }
func (e *MalformedDocumentError) Code() string       { return CodeParseError }
func (e *MalformedDocumentError) Unwrap() error      { return e.Err }

func malformed(loc Location, id string, data map[string]string) *MalformedDocumentError {
	return &MalformedDocumentError{Loc: loc, Msg: i18n.T(id, data)}
}

// DuplicateKeyError reports two content-equivalent keys in one mapping.
type DuplicateKeyError struct {
	Original  Location
	Duplicate Location
	// Key is the rendered content of the duplicated key.
	Key string
	msg string
}

func newDuplicateKeyError(original, duplicate Location, key string) *DuplicateKeyError {
	return &DuplicateKeyError{
		Original:  original,
		Duplicate: duplicate,
		Key:       key,
		msg: i18n.T(i18n.MsgDuplicateKey, map[string]string{
			"key":    key,
			"line":   strconv.Itoa(original.Line),
			"column": strconv.Itoa(original.Column),
		}),
	}
}

func (e *DuplicateKeyError) Error() string      { return formatDiagnostic(e.Duplicate, e.msg) }
func (e *DuplicateKeyError) Position() Location { return e.Duplicate }
func (e *DuplicateKeyError) Message() string    { return e.msg }
func (e *DuplicateKeyError) Code() string       { return CodeDuplicateKey }

// IncorrectTypeError reports a node of a different variant than expected.
type IncorrectTypeError struct {
	Loc Location
	Msg string
}

func (e *IncorrectTypeError) Error() string      { return formatDiagnostic(e.Loc, e.Msg) }
func (e *IncorrectTypeError) Position() Location { return e.Loc }
func (e *IncorrectTypeError) Message() string    { return e.Msg }
func (e *IncorrectTypeError) Code() string       { return CodeInvalidType }

// ScalarFormatError reports scalar text that does not satisfy the coercion
// rule of the requested kind.
type ScalarFormatError struct {
	Loc Location
	// Value is the raw scalar text.
	Value string
	// Expected describes the requested kind, for example "integer".
	Expected string
	Msg      string
}

func (e *ScalarFormatError) Error() string      { return formatDiagnostic(e.Loc, e.Msg) }
func (e *ScalarFormatError) Position() Location { return e.Loc }
func (e *ScalarFormatError) Message() string    { return e.Msg }
func (e *ScalarFormatError) Code() string       { return CodeInvalidFormat }

// UnexpectedNullError reports a null where the target is not nullable.
type UnexpectedNullError struct {
	Loc Location
}

func (e *UnexpectedNullError) Error() string      { return formatDiagnostic(e.Loc, e.Message()) }
func (e *UnexpectedNullError) Position() Location { return e.Loc }
func (e *UnexpectedNullError) Message() string    { return i18n.T(i18n.MsgUnexpectedNull, nil) }
func (e *UnexpectedNullError) Code() string       { return CodeUnexpectedNull }

// UnknownPropertyError reports a record key that matches no declared field.
type UnknownPropertyError struct {
	Loc      Location
	Property string
	// ValidProperties is the sorted set of declared field names.
	ValidProperties []string
}

func (e *UnknownPropertyError) Error() string      { return formatDiagnostic(e.Loc, e.Message()) }
func (e *UnknownPropertyError) Position() Location { return e.Loc }
func (e *UnknownPropertyError) Code() string       { return CodeUnknownKey }
func (e *UnknownPropertyError) Message() string {
	return i18n.T(i18n.MsgUnknownProperty, map[string]string{
		"property": e.Property,
		"known":    strings.Join(e.ValidProperties, ", "),
	})
}

// InvalidPropertyValueError wraps an error raised while decoding the value of
// a named record field.
type InvalidPropertyValueError struct {
	Loc      Location
	Property string
	// Reason is the message of the wrapped error.
	Reason string
	Err    error
}

// NewInvalidPropertyValueError wraps err as a problem with the value of
// property located at loc.
func NewInvalidPropertyValueError(property string, loc Location, err error) *InvalidPropertyValueError {
	return &InvalidPropertyValueError{Loc: loc, Property: property, Reason: messageOf(err), Err: err}
}

func (e *InvalidPropertyValueError) Error() string      { return formatDiagnostic(e.Loc, e.Message()) }
func (e *InvalidPropertyValueError) Position() Location { return e.Loc }
func (e *InvalidPropertyValueError) Code() string       { return CodeInvalidProperty }
func (e *InvalidPropertyValueError) Unwrap() error      { return e.Err }
func (e *InvalidPropertyValueError) Message() string {
	return i18n.T(i18n.MsgInvalidProperty, map[string]string{"property": e.Property, "reason": e.Reason})
}

// messageOf returns the location-free message of err.
func messageOf(err error) string {
	if d, ok := err.(Diagnostic); ok {
		return d.Message()
	}
	return err.Error()
}

var (
	_ Diagnostic = (*MalformedDocumentError)(nil)
	_ Diagnostic = (*DuplicateKeyError)(nil)
	_ Diagnostic = (*IncorrectTypeError)(nil)
	_ Diagnostic = (*ScalarFormatError)(nil)
	_ Diagnostic = (*UnexpectedNullError)(nil)
	_ Diagnostic = (*UnknownPropertyError)(nil)
	_ Diagnostic = (*InvalidPropertyValueError)(nil)
)
