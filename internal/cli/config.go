package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-version"

	"github.com/reoring/yamlbind"
	"github.com/reoring/yamlbind/source/goccy"
)

// DefaultConfigFile is read from the working directory when --config is not
// given. A missing default file is not an error.
const DefaultConfigFile = ".yamlbind.toml"

// Config is the content of a .yamlbind.toml file.
type Config struct {
	Driver   string `toml:"driver"`
	MaxDepth int    `toml:"max_depth"`
	MaxBytes int64  `toml:"max_bytes"`
	Language string `toml:"language"`
	// Color forces coloured output on or off; unset means auto-detect.
	Color *bool `toml:"color"`
	// Requires is a version constraint the running binary must satisfy,
	// for example ">= 0.1, < 1.0".
	Requires string `toml:"requires"`
}

// LoadConfig reads path. When explicit is false a missing file yields the
// zero Config.
func LoadConfig(path string, explicit bool) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// CheckVersion verifies the running version against Requires.
func (c Config) CheckVersion(current string) error {
	if c.Requires == "" {
		return nil
	}
	constraint, err := version.NewConstraint(c.Requires)
	if err != nil {
		return fmt.Errorf("config: invalid requires %q: %w", c.Requires, err)
	}
	v, err := version.NewVersion(current)
	if err != nil {
		return fmt.Errorf("config: invalid version %q: %w", current, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("config requires yamlbind %s, but this is %s", c.Requires, current)
	}
	return nil
}

// driverByName resolves a driver name; "" selects the default driver.
func driverByName(name string) (yamlbind.YAMLDriver, error) {
	switch name {
	case "", "yaml.v3":
		return yamlbind.DefaultYAMLDriver(), nil
	case "go-yaml":
		return goccy.Driver(), nil
	}
	return nil, fmt.Errorf("unknown driver %q (known drivers: go-yaml, yaml.v3)", name)
}

// DecodeOpt turns the configuration into library options.
func (c Config) DecodeOpt() (yamlbind.DecodeOpt, error) {
	d, err := driverByName(c.Driver)
	if err != nil {
		return yamlbind.DecodeOpt{}, err
	}
	return yamlbind.DecodeOpt{MaxDepth: c.MaxDepth, MaxBytes: c.MaxBytes, Driver: d}, nil
}
