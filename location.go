package yamlbind

import "fmt"

// Location is a 1-based position in the source document. The zero value
// means the position is unknown (for example a schema-declared default).
type Location struct {
	Line   int
	Column int
}

// IsKnown reports whether the location points into a document.
func (l Location) IsKnown() bool { return l.Line >= 1 && l.Column >= 1 }

func (l Location) String() string {
	if !l.IsKnown() {
		return "unknown location"
	}
	return fmt.Sprintf("line %d, column %d", l.Line, l.Column)
}

// before orders locations by line, then column.
func (l Location) before(o Location) bool {
	if l.Line != o.Line {
		return l.Line < o.Line
	}
	return l.Column < o.Column
}
