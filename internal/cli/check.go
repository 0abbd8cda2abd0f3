package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/yamlbind"
)

// CheckOptions configures the check command.
type CheckOptions struct {
	Format string
}

func newCheckCmd(o *RootOptions) *cobra.Command {
	co := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Check that files are well-formed single YAML documents without duplicate keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return co.Run(o, args)
		},
	}
	cmd.Flags().StringVar(&co.Format, "format", "text", "output format: text or json")
	return cmd
}

// Run parses every file and reports all problems before failing. Results go
// to Out and diagnostics to Err, as with the other commands.
func (co *CheckOptions) Run(o *RootOptions, files []string) error {
	out, diag := o.printer(o.Out), o.printer(o.Err)
	var report []FileIssues
	failed := false
	for _, file := range files {
		err := o.parseFile(file)
		if err != nil {
			failed = true
		}
		switch {
		case co.Format == "json":
			fi := FileIssues{File: file, Issues: yamlbind.AppendIssues(nil)}
			if err != nil {
				fi.Issues = yamlbind.AppendIssues(fi.Issues, issuesOf(err)...)
			}
			report = append(report, fi)
		case err != nil:
			diag.diagnostic(file, err)
		default:
			out.success(file)
		}
	}
	if co.Format == "json" {
		if err := writeJSON(o.Out, report); err != nil {
			return err
		}
	}
	if failed {
		return ErrFailed
	}
	return nil
}

func (o *RootOptions) readFile(file string) ([]byte, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	o.log.Debug("file read", "file", file, "bytes", len(data))
	return data, nil
}

func (o *RootOptions) parseFile(file string) error {
	_, err := o.parseNode(file)
	return err
}

func (o *RootOptions) parseNode(file string) (yamlbind.Node, error) {
	data, err := o.readFile(file)
	if err != nil {
		return nil, err
	}
	return yamlbind.ParseNode(data, o.opt)
}
