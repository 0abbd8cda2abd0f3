package yamlbind

import "io"

// EventKind enumerates parse event kinds produced by a tokenizer.
type EventKind int

const (
	EventScalar EventKind = iota
	EventNull
	EventStartSequence
	EventEndSequence
	EventStartMapping
	EventEndMapping
	// EventTag annotates the node produced by the events that follow it.
	EventTag
)

func (k EventKind) String() string {
	switch k {
	case EventScalar:
		return "scalar"
	case EventNull:
		return "null"
	case EventStartSequence:
		return "start of sequence"
	case EventEndSequence:
		return "end of sequence"
	case EventStartMapping:
		return "start of mapping"
	case EventEndMapping:
		return "end of mapping"
	case EventTag:
		return "tag"
	default:
		return "<unknown event>"
	}
}

// Event is a positioned parse event. Value holds the scalar text or the tag
// name (without the leading '!'). End markers may carry a zero Location.
type Event struct {
	Kind     EventKind
	Value    string
	Location Location
}

// EventSource abstracts over tokenizers. NextEvent returns io.EOF once the
// stream is exhausted.
type EventSource interface {
	NextEvent() (Event, error)
}

// SliceSource replays a fixed list of events.
func SliceSource(events ...Event) EventSource {
	return &sliceSource{events: events}
}

type sliceSource struct {
	events []Event
	pos    int
}

func (s *sliceSource) NextEvent() (Event, error) {
	if s.pos >= len(s.events) {
		return Event{}, io.EOF
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}
