package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/goccy/go-json"

	"github.com/reoring/yamlbind"
)

// FileIssues is the JSON form of the problems found in one file.
type FileIssues struct {
	File   string          `json:"file"`
	Issues yamlbind.Issues `json:"issues"`
}

type printer struct {
	w    io.Writer
	file *color.Color
	fail *color.Color
	ok   *color.Color
}

func newPrinter(w io.Writer, enabled bool) *printer {
	p := &printer{
		w:    w,
		file: color.New(color.Bold),
		fail: color.New(color.FgRed, color.Bold),
		ok:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.file, p.fail, p.ok} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// diagnostic prints "file:line:col: error: message".
func (p *printer) diagnostic(file string, err error) {
	var d yamlbind.Diagnostic
	if !errors.As(err, &d) {
		fmt.Fprintf(p.w, "%s: %s %s\n", p.file.Sprint(file), p.fail.Sprint("error:"), err)
		return
	}
	pos := file
	if l := d.Position(); l.IsKnown() {
		pos = fmt.Sprintf("%s:%d:%d", file, l.Line, l.Column)
	}
	fmt.Fprintf(p.w, "%s: %s %s\n", p.file.Sprint(pos), p.fail.Sprint("error:"), d.Message())
}

func (p *printer) success(file string) {
	fmt.Fprintf(p.w, "%s: %s\n", p.file.Sprint(file), p.ok.Sprint("ok"))
}

// issuesOf projects err for JSON output; errors that are not diagnostics
// become a single parse_error issue.
func issuesOf(err error) yamlbind.Issues {
	if iss, ok := yamlbind.AsIssues(err); ok {
		return iss
	}
	return yamlbind.Issues{{Path: "/", Code: yamlbind.CodeParseError, Message: err.Error(), Cause: err}}
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}
