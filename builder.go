package yamlbind

import (
	"errors"
	"io"
	"strconv"

	"github.com/reoring/yamlbind/i18n"
)

// BuildOpt bounds tree construction.
type BuildOpt struct {
	// MaxDepth limits sequence/mapping nesting; 0 means unlimited.
	MaxDepth int
}

// BuildNode consumes the events of exactly one document and returns its
// root node. Structural problems in the event sequence are reported as
// *MalformedDocumentError; duplicate keys as *DuplicateKeyError.
func BuildNode(src EventSource, opts ...BuildOpt) (Node, error) {
	var opt BuildOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	b := &builder{src: src, opt: opt, last: Location{Line: 1, Column: 1}}
	ev, err := b.next()
	if err != nil {
		return nil, err
	}
	root, err := b.value(ev, 0)
	if err != nil {
		return nil, err
	}
	extra, err := b.src.NextEvent()
	if err == nil {
		return nil, malformed(b.at(extra), i18n.MsgTrailingContent, nil)
	}
	if !errors.Is(err, io.EOF) {
		return nil, err
	}
	return root, nil
}

type builder struct {
	src  EventSource
	opt  BuildOpt
	last Location // last known event location, used for end-of-stream errors
}

// next returns the next event, turning io.EOF into a malformed document
// error since every caller still expects content.
func (b *builder) next() (Event, error) {
	ev, err := b.src.NextEvent()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Event{}, malformed(b.last, i18n.MsgUnexpectedEOF, nil)
		}
		return Event{}, err
	}
	if ev.Location.IsKnown() {
		b.last = ev.Location
	}
	return ev, nil
}

func (b *builder) at(ev Event) Location {
	if ev.Location.IsKnown() {
		return ev.Location
	}
	return b.last
}

func (b *builder) value(ev Event, depth int) (Node, error) {
	switch ev.Kind {
	case EventScalar:
		return NewScalar(ev.Value, ev.Location), nil
	case EventNull:
		return NewNull(ev.Location), nil
	case EventTag:
		inner, err := b.src.NextEvent()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, malformed(b.at(ev), i18n.MsgDanglingTag, map[string]string{"tag": ev.Value})
			}
			return nil, err
		}
		if inner.Location.IsKnown() {
			b.last = inner.Location
		}
		if inner.Kind == EventEndSequence || inner.Kind == EventEndMapping {
			return nil, malformed(b.at(ev), i18n.MsgDanglingTag, map[string]string{"tag": ev.Value})
		}
		n, err := b.value(inner, depth)
		if err != nil {
			return nil, err
		}
		return NewTagged(ev.Value, n), nil
	case EventStartSequence:
		if err := b.enter(ev, depth); err != nil {
			return nil, err
		}
		return b.sequence(ev, depth+1)
	case EventStartMapping:
		if err := b.enter(ev, depth); err != nil {
			return nil, err
		}
		return b.mapping(ev, depth+1)
	default:
		return nil, b.unexpected(ev)
	}
}

func (b *builder) enter(ev Event, depth int) error {
	if b.opt.MaxDepth > 0 && depth+1 > b.opt.MaxDepth {
		return malformed(b.at(ev), i18n.MsgMaxDepth, map[string]string{"max": strconv.Itoa(b.opt.MaxDepth)})
	}
	return nil
}

func (b *builder) unexpected(ev Event) error {
	return malformed(b.at(ev), i18n.MsgUnexpectedEvent, map[string]string{"event": ev.Kind.String()})
}

func (b *builder) sequence(start Event, depth int) (Node, error) {
	var items []Node
	for {
		ev, err := b.next()
		if err != nil {
			return nil, err
		}
		switch ev.Kind {
		case EventEndSequence:
			return NewList(items, start.Location), nil
		case EventEndMapping:
			return nil, b.unexpected(ev)
		}
		item, err := b.value(ev, depth)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

func (b *builder) mapping(start Event, depth int) (Node, error) {
	var entries []MapEntry
	for {
		kev, err := b.next()
		if err != nil {
			return nil, err
		}
		switch kev.Kind {
		case EventEndMapping:
			m, err := NewMap(entries, start.Location)
			if err != nil {
				return nil, err
			}
			return m, nil
		case EventEndSequence:
			return nil, b.unexpected(kev)
		}
		key, err := b.value(kev, depth)
		if err != nil {
			return nil, err
		}
		vev, err := b.next()
		if err != nil {
			return nil, err
		}
		if vev.Kind == EventEndMapping || vev.Kind == EventEndSequence {
			return nil, b.unexpected(vev)
		}
		val, err := b.value(vev, depth)
		if err != nil {
			return nil, err
		}
		entries = append(entries, MapEntry{Key: key, Value: val})
	}
}
