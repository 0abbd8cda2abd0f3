package yamlbind

import (
	"errors"
	"fmt"
	"strings"
)

// Issue is a flat, serializable projection of a Diagnostic.
type Issue struct {
	Path    string `json:"path"` // JSON Pointer of the record fields leading to the problem (for example: /server/port).
	Code    string `json:"code"` // One of the Code* constants.
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	// Params carries structured parameters (e.g., {"property":"abc", "valid":[...]})
	// for i18n and tooling.
	Params map[string]any `json:"params,omitempty"`
	Cause  error          `json:"-"`
}

// Issues is a collection of problems that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. unknown_key at /server (line 3, column 5)
		fmt.Fprintf(b, "%s at %s (line %d, column %d)", it.Code, it.Path, it.Line, it.Column)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error. Issues values are returned as-is;
// a Diagnostic is projected to a single Issue whose path follows the chain of
// InvalidPropertyValueError wrappers and whose code, message and position
// come from the innermost diagnostic.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	it, ok := issueFromDiagnostic(err)
	if !ok {
		return nil, false
	}
	return Issues{it}, true
}

func issueFromDiagnostic(err error) (Issue, bool) {
	var d Diagnostic
	if !errors.As(err, &d) {
		return Issue{}, false
	}
	var parts []string
	cur := d
	for {
		ipv, ok := cur.(*InvalidPropertyValueError)
		if !ok {
			break
		}
		parts = append(parts, escapePointer(ipv.Property))
		var inner Diagnostic
		if !errors.As(ipv.Err, &inner) {
			break
		}
		cur = inner
	}
	path := "/"
	if len(parts) > 0 {
		path = "/" + strings.Join(parts, "/")
	}
	loc := cur.Position()
	return Issue{
		Path:    path,
		Code:    cur.Code(),
		Message: cur.Message(),
		Line:    loc.Line,
		Column:  loc.Column,
		Params:  paramsOf(cur),
		Cause:   err,
	}, true
}

func paramsOf(d Diagnostic) map[string]any {
	switch e := d.(type) {
	case *UnknownPropertyError:
		return map[string]any{"property": e.Property, "valid": e.ValidProperties}
	case *ScalarFormatError:
		return map[string]any{"value": e.Value, "expected": e.Expected}
	case *DuplicateKeyError:
		return map[string]any{"key": e.Key, "originalLine": e.Original.Line, "originalColumn": e.Original.Column}
	case *InvalidPropertyValueError:
		return map[string]any{"property": e.Property, "reason": e.Reason}
	}
	return nil
}

// escape '~' -> '~0', '/' -> '~1' per RFC6901
func escapePointer(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}
