// Package yamlv3 flattens a gopkg.in/yaml.v3 document into positioned parse
// events. It is the default tokenizer of the root package.
package yamlv3

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind represents event kinds; it mirrors the root package's EventKind.
type Kind int

const (
	KindScalar Kind = iota
	KindNull
	KindStartSequence
	KindEndSequence
	KindStartMapping
	KindEndMapping
	KindTag
)

// Event is a parse event with a 1-based position. End events carry no
// position.
type Event struct {
	Kind   Kind
	Value  string
	Line   int
	Column int
}

// ErrMultipleDocuments is wrapped by SyntaxError when the input holds more
// than one document.
var ErrMultipleDocuments = errors.New("yamlv3: multiple documents")

// SyntaxError reports input the tokenizer could not parse.
type SyntaxError struct {
	Line   int // 1-based; 0 when unknown
	Detail string
	Err    error
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("yaml: line %d: %s", e.Line, e.Detail)
	}
	return "yaml: " + e.Detail
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// eg "yaml: line 2: found character that cannot start any token"
var lineErrRegexp = regexp.MustCompile(`^yaml: line (\d+): (.+)$`)

func syntaxError(err error) *SyntaxError {
	msg := err.Error()
	if m := lineErrRegexp.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return &SyntaxError{Line: line, Detail: m[2], Err: err}
	}
	return &SyntaxError{Detail: strings.TrimPrefix(msg, "yaml: "), Err: err}
}

var nullSpellings = map[string]bool{"": true, "~": true, "null": true, "Null": true, "NULL": true}

// Events parses data as a single YAML document. An empty document yields a
// single null event at 1:1.
func Events(data []byte) ([]Event, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var root yaml.Node
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return []Event{{Kind: KindNull, Line: 1, Column: 1}}, nil
		}
		return nil, syntaxError(err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); err == nil {
		return nil, &SyntaxError{Line: extra.Line, Detail: "multiple documents", Err: ErrMultipleDocuments}
	} else if !errors.Is(err, io.EOF) {
		return nil, syntaxError(err)
	}
	w := &walker{active: map[*yaml.Node]bool{}}
	if err := w.walk(&root); err != nil {
		return nil, err
	}
	return w.events, nil
}

type walker struct {
	events []Event
	// active holds alias targets being expanded, to reject cycles
	active map[*yaml.Node]bool
}

func (w *walker) emit(k Kind, v string, n *yaml.Node) {
	w.events = append(w.events, Event{Kind: k, Value: v, Line: n.Line, Column: n.Column})
}

func (w *walker) walk(n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			w.events = append(w.events, Event{Kind: KindNull, Line: 1, Column: 1})
			return nil
		}
		return w.walk(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return &SyntaxError{Line: n.Line, Detail: "unknown anchor '" + n.Value + "' referenced"}
		}
		if w.active[n.Alias] {
			return &SyntaxError{Line: n.Line, Detail: "anchor '" + n.Value + "' value contains itself"}
		}
		w.active[n.Alias] = true
		start := len(w.events)
		err := w.walk(n.Alias)
		delete(w.active, n.Alias)
		if err == nil && start < len(w.events) {
			// the expansion starts where the alias is written
			w.events[start].Line, w.events[start].Column = n.Line, n.Column
		}
		return err
	}

	custom := customTag(n.Tag)
	if custom != "" {
		w.emit(KindTag, custom, n)
	}
	switch n.Kind {
	case yaml.ScalarNode:
		if isNull(n, custom != "") {
			w.emit(KindNull, "", n)
		} else {
			w.emit(KindScalar, n.Value, n)
		}
	case yaml.SequenceNode:
		w.emit(KindStartSequence, "", n)
		for _, c := range n.Content {
			if err := w.walk(c); err != nil {
				return err
			}
		}
		w.events = append(w.events, Event{Kind: KindEndSequence})
	case yaml.MappingNode:
		w.emit(KindStartMapping, "", n)
		for _, c := range n.Content {
			if err := w.walk(c); err != nil {
				return err
			}
		}
		w.events = append(w.events, Event{Kind: KindEndMapping})
	default:
		return &SyntaxError{Line: n.Line, Detail: fmt.Sprintf("unsupported node kind %d", n.Kind)}
	}
	return nil
}

// customTag returns the name of a non-standard tag, or "" for standard
// (!!) and non-specific (!) tags.
func customTag(tag string) string {
	if tag == "" || tag == "!" || strings.HasPrefix(tag, "!!") {
		return ""
	}
	return strings.TrimPrefix(tag, "!")
}

func isNull(n *yaml.Node, customTagged bool) bool {
	if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
		return false
	}
	if customTagged {
		return nullSpellings[n.Value]
	}
	return n.Tag == "!!null"
}
