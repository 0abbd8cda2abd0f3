// Package cli implements the yamlbind command.
package cli

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/reoring/yamlbind"
	"github.com/reoring/yamlbind/i18n"
)

// ErrFailed is returned when a command already reported its problems; the
// caller should exit with status 1 without printing anything else.
var ErrFailed = errors.New("yamlbind: failed")

// RootOptions holds the global flags and the state derived from them.
type RootOptions struct {
	ConfigPath string
	Driver     string
	MaxDepth   int
	Debug      bool
	NoColor    bool
	Lang       string

	Out io.Writer
	Err io.Writer

	cfg Config
	opt yamlbind.DecodeOpt
	log *slog.Logger
}

// NewDefaultRootOptions writes to the process stdout and stderr.
func NewDefaultRootOptions() *RootOptions {
	return &RootOptions{Out: os.Stdout, Err: os.Stderr}
}

// NewDefaultCmd builds the command tree with default options.
func NewDefaultCmd() *cobra.Command {
	return NewCmd(NewDefaultRootOptions())
}

// NewCmd builds the command tree.
func NewCmd(o *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "yamlbind",
		Short:   "yamlbind checks and decodes YAML documents with location-tagged errors",
		Version: Version,
		// Affects children as well
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.setup(cmd)
		},
	}
	cmd.DisableAutoGenTag = true
	cmd.SetOut(o.Out)
	cmd.SetErr(o.Err)

	f := cmd.PersistentFlags()
	f.StringVar(&o.ConfigPath, "config", "", "config file (default "+DefaultConfigFile+" when present)")
	f.StringVar(&o.Driver, "driver", "", "YAML driver: yaml.v3 or go-yaml")
	f.IntVar(&o.MaxDepth, "max-depth", 0, "maximum nesting depth (0 = unlimited)")
	f.BoolVar(&o.Debug, "debug", false, "enable debug logging")
	f.BoolVar(&o.NoColor, "no-color", false, "disable coloured output")
	f.StringVar(&o.Lang, "lang", "", "message language: en or ja")

	cmd.AddCommand(newCheckCmd(o))
	cmd.AddCommand(newDumpCmd(o))
	cmd.AddCommand(newValidateCmd(o))
	cmd.AddCommand(newVersionCmd(o))
	return cmd
}

func (o *RootOptions) setup(cmd *cobra.Command) error {
	o.log = newLogger(o.Err, o.Debug)

	path, explicit := o.ConfigPath, o.ConfigPath != ""
	if !explicit {
		path = DefaultConfigFile
	}
	cfg, err := LoadConfig(path, explicit)
	if err != nil {
		return err
	}
	o.log.Debug("config loaded", "path", path, "driver", cfg.Driver, "max_depth", cfg.MaxDepth)
	if err := cfg.CheckVersion(Version); err != nil {
		return err
	}

	// flags win over the config file
	if cmd.Flags().Changed("driver") {
		cfg.Driver = o.Driver
	}
	if cmd.Flags().Changed("max-depth") {
		cfg.MaxDepth = o.MaxDepth
	}
	if cmd.Flags().Changed("lang") {
		cfg.Language = o.Lang
	}
	if o.NoColor {
		off := false
		cfg.Color = &off
	}
	o.cfg = cfg

	if o.opt, err = cfg.DecodeOpt(); err != nil {
		return err
	}
	o.log.Debug("driver selected", "name", o.opt.Driver.Name())
	if cfg.Language != "" {
		i18n.SetLanguage(cfg.Language)
	}
	return nil
}

// printer writes to w, colouring only when w is a terminal unless the
// configuration decides.
func (o *RootOptions) printer(w io.Writer) *printer {
	return newPrinter(w, o.colorEnabled(w))
}

func (o *RootOptions) colorEnabled(w io.Writer) bool {
	if o.cfg.Color != nil {
		return *o.cfg.Color
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}
