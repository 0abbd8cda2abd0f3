// Package goccy provides a yamlbind.YAMLDriver backed by github.com/goccy/go-yaml.
//
// Install it process-wide with yamlbind.SetYAMLDriver(goccy.Driver()) or per
// call through yamlbind.DecodeOpt.Driver.
package goccy

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"

	"github.com/reoring/yamlbind"
)

// Driver returns a yamlbind.YAMLDriver backed by goccy/go-yaml.
func Driver() yamlbind.YAMLDriver { return driverGoccy{} }

type driverGoccy struct{}

func (driverGoccy) Name() string { return "go-yaml" }

func (driverGoccy) NewEvents(data []byte) (yamlbind.EventSource, error) {
	evs, err := Events(data)
	if err != nil {
		return nil, err
	}
	return yamlbind.SliceSource(evs...), nil
}

// eg "[1:5] mapping value is not allowed in this context"
var posErrRegexp = regexp.MustCompile(`^\[(\d+):(\d+)\]\s*(.*)$`)

func syntaxError(err error) error {
	first := strings.TrimSpace(strings.SplitN(err.Error(), "\n", 2)[0])
	if m := posErrRegexp.FindStringSubmatch(first); m != nil {
		line, _ := strconv.Atoi(m[1])
		col, _ := strconv.Atoi(m[2])
		return yamlbind.SyntaxError(yamlbind.Location{Line: line, Column: col}, m[3], err)
	}
	return yamlbind.SyntaxError(yamlbind.Location{}, first, err)
}

// Events parses data as a single YAML document and flattens it into events
// following the same rules as the default driver.
func Events(data []byte) ([]yamlbind.Event, error) {
	f, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, syntaxError(err)
	}
	var docs []*ast.DocumentNode
	for _, d := range f.Docs {
		if d != nil && d.Body != nil {
			docs = append(docs, d)
		}
	}
	if len(docs) == 0 {
		return []yamlbind.Event{{Kind: yamlbind.EventNull, Location: yamlbind.Location{Line: 1, Column: 1}}}, nil
	}
	if len(docs) > 1 {
		return nil, yamlbind.MultipleDocumentsError(locOf(docs[1].Body))
	}
	w := &walker{anchors: map[string]ast.Node{}, active: map[string]bool{}}
	if err := w.walk(docs[0].Body, yamlbind.Location{}); err != nil {
		return nil, err
	}
	return w.events, nil
}

type walker struct {
	events  []yamlbind.Event
	anchors map[string]ast.Node
	// active holds aliases being expanded, to reject cycles
	active map[string]bool
}

func posOf(tk *token.Token) yamlbind.Location {
	if tk == nil || tk.Position == nil {
		return yamlbind.Location{}
	}
	return yamlbind.Location{Line: tk.Position.Line, Column: tk.Position.Column}
}

func locOf(n ast.Node) yamlbind.Location {
	switch t := n.(type) {
	case *ast.MappingNode:
		if !t.IsFlowStyle && len(t.Values) > 0 {
			return locOf(t.Values[0])
		}
		return posOf(t.Start)
	case *ast.MappingValueNode:
		return locOf(t.Key)
	case *ast.MappingKeyNode:
		return locOf(t.Value)
	case *ast.SequenceNode:
		return posOf(t.Start)
	case *ast.TagNode:
		return locOf(t.Value)
	case *ast.AnchorNode:
		return locOf(t.Value)
	case *ast.LiteralNode:
		return posOf(t.Start)
	}
	if n == nil {
		return yamlbind.Location{}
	}
	return posOf(n.GetToken())
}

func (w *walker) emit(k yamlbind.EventKind, v string, loc yamlbind.Location) {
	w.events = append(w.events, yamlbind.Event{Kind: k, Value: v, Location: loc})
}

// walk emits the events of n. fallback is used when the tokenizer did not
// record a position (implicit null values).
func (w *walker) walk(n ast.Node, fallback yamlbind.Location) error {
	loc := locOf(n)
	if !loc.IsKnown() {
		loc = fallback
	}
	switch t := n.(type) {
	case nil:
		w.emit(yamlbind.EventNull, "", fallback)
	case *ast.NullNode:
		w.emit(yamlbind.EventNull, "", loc)
	case *ast.StringNode:
		w.emit(yamlbind.EventScalar, t.Value, loc)
	case *ast.LiteralNode:
		w.emit(yamlbind.EventScalar, t.Value.Value, loc)
	case *ast.IntegerNode, *ast.FloatNode, *ast.BoolNode, *ast.InfinityNode, *ast.NanNode, *ast.MergeKeyNode:
		w.emit(yamlbind.EventScalar, n.GetToken().Value, loc)
	case *ast.TagNode:
		tag := t.Start.Value
		if tag == "!" || strings.HasPrefix(tag, "!!") {
			return w.walk(t.Value, loc)
		}
		w.emit(yamlbind.EventTag, strings.TrimPrefix(tag, "!"), loc)
		return w.walk(t.Value, loc)
	case *ast.AnchorNode:
		w.anchors[anchorName(t.Name)] = t.Value
		return w.walk(t.Value, loc)
	case *ast.AliasNode:
		name := anchorName(t.Value)
		target, ok := w.anchors[name]
		if !ok {
			return yamlbind.SyntaxError(posOf(t.Start), fmt.Sprintf("unknown anchor '%s' referenced", name), nil)
		}
		if w.active[name] {
			return yamlbind.SyntaxError(posOf(t.Start), fmt.Sprintf("anchor '%s' value contains itself", name), nil)
		}
		w.active[name] = true
		start := len(w.events)
		err := w.walk(target, loc)
		delete(w.active, name)
		if err == nil && start < len(w.events) {
			// the expansion starts where the alias is written
			w.events[start].Location = posOf(t.Start)
		}
		return err
	case *ast.SequenceNode:
		w.emit(yamlbind.EventStartSequence, "", loc)
		for _, v := range t.Values {
			if err := w.walk(v, loc); err != nil {
				return err
			}
		}
		w.emit(yamlbind.EventEndSequence, "", yamlbind.Location{})
	case *ast.MappingNode:
		w.emit(yamlbind.EventStartMapping, "", loc)
		for _, mv := range t.Values {
			if err := w.entry(mv); err != nil {
				return err
			}
		}
		w.emit(yamlbind.EventEndMapping, "", yamlbind.Location{})
	case *ast.MappingValueNode:
		w.emit(yamlbind.EventStartMapping, "", loc)
		if err := w.entry(t); err != nil {
			return err
		}
		w.emit(yamlbind.EventEndMapping, "", yamlbind.Location{})
	default:
		return yamlbind.SyntaxError(loc, fmt.Sprintf("unsupported node %s", n.Type()), nil)
	}
	return nil
}

func (w *walker) entry(mv *ast.MappingValueNode) error {
	var key ast.Node = mv.Key
	if k, ok := key.(*ast.MappingKeyNode); ok {
		key = k.Value
	}
	keyLoc := locOf(key)
	if err := w.walk(key, keyLoc); err != nil {
		return err
	}
	return w.walk(mv.Value, keyLoc)
}

func anchorName(n ast.Node) string {
	if n == nil {
		return ""
	}
	if tk := n.GetToken(); tk != nil {
		return tk.Value
	}
	return n.String()
}
