package yamlbind

import (
	"errors"
	"strconv"
	"sync"

	"github.com/reoring/yamlbind/i18n"
	"github.com/reoring/yamlbind/internal/yamlv3"
)

// YAMLDriver turns document text into parse events via a pluggable SPI. The
// default implementation is based on gopkg.in/yaml.v3 and may be swapped with
// SetYAMLDriver.
type YAMLDriver interface {
	NewEvents(data []byte) (EventSource, error)
	Name() string
}

var (
	yamlDriverMu      sync.RWMutex
	currentYAMLDriver YAMLDriver = defaultYAMLDriver{}
)

// SetYAMLDriver replaces the global YAML driver; nil values are ignored.
func SetYAMLDriver(d YAMLDriver) {
	if d == nil {
		return
	}
	yamlDriverMu.Lock()
	currentYAMLDriver = d
	yamlDriverMu.Unlock()
}

// UseDefaultYAMLDriver restores the default yaml.v3-backed driver.
func UseDefaultYAMLDriver() {
	yamlDriverMu.Lock()
	currentYAMLDriver = defaultYAMLDriver{}
	yamlDriverMu.Unlock()
}

// CurrentYAMLDriver returns the driver used when DecodeOpt.Driver is nil.
func CurrentYAMLDriver() YAMLDriver {
	yamlDriverMu.RLock()
	d := currentYAMLDriver
	yamlDriverMu.RUnlock()
	return d
}

// DefaultYAMLDriver returns the yaml.v3-backed driver.
func DefaultYAMLDriver() YAMLDriver { return defaultYAMLDriver{} }

// defaultYAMLDriver wraps the yaml.v3 implementation.
type defaultYAMLDriver struct{}

func (defaultYAMLDriver) Name() string { return "yaml.v3" }

func (defaultYAMLDriver) NewEvents(data []byte) (EventSource, error) {
	evs, err := yamlv3.Events(data)
	if err != nil {
		return nil, fromYAMLv3Error(err)
	}
	out := make([]Event, len(evs))
	for i, e := range evs {
		out[i] = Event{Kind: fromYAMLv3Kind(e.Kind), Value: e.Value, Location: Location{Line: e.Line, Column: e.Column}}
	}
	return SliceSource(out...), nil
}

func fromYAMLv3Kind(k yamlv3.Kind) EventKind {
	switch k {
	case yamlv3.KindScalar:
		return EventScalar
	case yamlv3.KindNull:
		return EventNull
	case yamlv3.KindStartSequence:
		return EventStartSequence
	case yamlv3.KindEndSequence:
		return EventEndSequence
	case yamlv3.KindStartMapping:
		return EventStartMapping
	case yamlv3.KindEndMapping:
		return EventEndMapping
	case yamlv3.KindTag:
		return EventTag
	default:
		return EventNull
	}
}

func fromYAMLv3Error(err error) error {
	var se *yamlv3.SyntaxError
	if !errors.As(err, &se) {
		return err
	}
	loc := Location{}
	if se.Line > 0 {
		loc = Location{Line: se.Line, Column: 1}
	}
	if errors.Is(se, yamlv3.ErrMultipleDocuments) {
		e := MultipleDocumentsError(loc)
		e.Err = err
		return e
	}
	return SyntaxError(loc, se.Detail, err)
}

// SyntaxError builds the error drivers report for text their tokenizer
// rejects.
func SyntaxError(loc Location, detail string, cause error) *MalformedDocumentError {
	e := malformed(loc, i18n.MsgSyntax, map[string]string{"detail": detail})
	e.Err = cause
	return e
}

// MultipleDocumentsError builds the error drivers report for input holding
// more than one document.
func MultipleDocumentsError(loc Location) *MalformedDocumentError {
	return malformed(loc, i18n.MsgMultiDocument, nil)
}

// ParseNode tokenizes data and builds its node tree. The driver, depth and
// size limits come from opts.
func ParseNode(data []byte, opts ...DecodeOpt) (Node, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, malformed(Location{}, i18n.MsgTooLarge, map[string]string{
			"size": strconv.Itoa(len(data)),
			"max":  strconv.FormatInt(opt.MaxBytes, 10),
		})
	}
	src, err := opt.driver().NewEvents(data)
	if err != nil {
		return nil, err
	}
	return BuildNode(src, BuildOpt{MaxDepth: opt.MaxDepth})
}
