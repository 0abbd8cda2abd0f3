package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/reoring/yamlbind"
)

// ValidateOptions configures the validate command.
type ValidateOptions struct {
	SchemaFile string
	Format     string
}

func newValidateCmd(o *RootOptions) *cobra.Command {
	vo := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate --schema SCHEMA FILE",
		Short: "Decode a file against a schema document and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return vo.Run(cmd.Context(), o, args[0])
		},
	}
	cmd.Flags().StringVarP(&vo.SchemaFile, "schema", "s", "", "schema document (required)")
	cmd.Flags().StringVar(&vo.Format, "format", "text", "error output format: text or json")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

// Run decodes file with the schema and writes the value as JSON. Problems in
// the schema document itself are reported against the schema file.
func (vo *ValidateOptions) Run(ctx context.Context, o *RootOptions, file string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	raw, err := o.readFile(vo.SchemaFile)
	if err != nil {
		return err
	}
	s, err := loadSchemaFile(ctx, raw, o.opt)
	if err != nil {
		return vo.report(o, vo.SchemaFile, err)
	}
	o.log.Debug("schema loaded", "file", vo.SchemaFile, "schema", s.Describe())

	data, err := o.readFile(file)
	if err != nil {
		return err
	}
	v, err := yamlbind.DecodeWith(ctx, s, data, o.opt)
	if err != nil {
		return vo.report(o, file, err)
	}
	return writeJSON(o.Out, v)
}

func (vo *ValidateOptions) report(o *RootOptions, file string, err error) error {
	var d yamlbind.Diagnostic
	if !errors.As(err, &d) {
		return err
	}
	if vo.Format == "json" {
		if werr := writeJSON(o.Out, []FileIssues{{File: file, Issues: issuesOf(err)}}); werr != nil {
			return werr
		}
		return ErrFailed
	}
	o.printer(o.Err).diagnostic(file, err)
	return ErrFailed
}
