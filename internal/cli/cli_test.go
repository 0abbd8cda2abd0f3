package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/reoring/yamlbind"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewCmd(&RootOptions{Out: &out, Err: &errOut})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCheck_Text(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", "a: 1\nb: [x, y]\n")
	dup := writeFile(t, dir, "dup.yaml", "thing: value\nthing: other\n")

	out, errOut, err := run(t, "check", "--no-color", good, dup)
	require.ErrorIs(t, err, ErrFailed)
	require.Equal(t, good+": ok\n", out)
	require.True(t, strings.HasPrefix(errOut, dup+":2:1: error: Duplicate key"), errOut)
	require.Contains(t, errOut, "line 1, column 1")
}

func TestCheck_JSON(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", "a: 1\n")
	bad := writeFile(t, dir, "bad.yaml", "a: [1, 2\n")

	out, _, err := run(t, "check", "--format", "json", good, bad)
	require.ErrorIs(t, err, ErrFailed)

	require.Contains(t, out, `"issues": []`)
	var report []FileIssues
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report, 2)
	require.Equal(t, good, report[0].File)
	require.Empty(t, report[0].Issues)
	require.Equal(t, bad, report[1].File)
	require.Len(t, report[1].Issues, 1)
	require.Equal(t, yamlbind.CodeParseError, report[1].Issues[0].Code)
}

func TestCheck_ColorFollowsConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "cfg.toml", "color = true\n")
	dup := writeFile(t, dir, "dup.yaml", "k: 1\nk: 2\n")

	_, errOut, err := run(t, "check", "--config", cfg, dup)
	require.ErrorIs(t, err, ErrFailed)
	require.Contains(t, errOut, "\x1b[")

	_, errOut, err = run(t, "check", "--config", cfg, "--no-color", dup)
	require.ErrorIs(t, err, ErrFailed)
	require.NotContains(t, errOut, "\x1b[")
}

func TestCheck_MaxDepthFlag(t *testing.T) {
	dir := t.TempDir()
	deep := writeFile(t, dir, "deep.yaml", "a: [[[1]]]\n")

	_, _, err := run(t, "check", deep)
	require.NoError(t, err)

	out, errOut, err := run(t, "check", "--max-depth", "2", "--no-color", deep)
	require.ErrorIs(t, err, ErrFailed)
	require.Empty(t, out)
	require.Contains(t, errOut, "Maximum nesting depth of 2 exceeded.")
}

func TestCheck_MissingFile(t *testing.T) {
	_, _, err := run(t, "check", filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, ErrFailed)
}

func TestDump(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "doc.yaml", "a: [x, ~]\nb: !t y\n")

	for _, driver := range []string{"yaml.v3", "go-yaml"} {
		out, _, err := run(t, "dump", "--driver", driver, file)
		require.NoError(t, err, driver)
		require.Equal(t, "{'a': ['x', null], 'b': !t 'y'}\n", out, driver)
	}

	_, _, err := run(t, "dump", "--driver", "nope", file)
	require.ErrorContains(t, err, `unknown driver "nope"`)
}

func TestDump_ReportsErrors(t *testing.T) {
	file := writeFile(t, t.TempDir(), "dup.yaml", "k: 1\nk: 2\n")
	out, errOut, err := run(t, "dump", "--no-color", file)
	require.ErrorIs(t, err, ErrFailed)
	require.Empty(t, out)
	require.True(t, strings.HasPrefix(errOut, file+":2:1: error: "), errOut)
}

const serverSchema = `type: record
fields:
  host: {type: string}
  port: {type: int32, default: 8080}
  mode: {type: enum, variants: [dev, prod]}
  tags: {type: list, of: {type: string}, optional: true}
  owner: {type: string, nullable: true}
  extra:
    type: map
    value: {type: any}
    optional: true
`

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", serverSchema)
	doc := writeFile(t, dir, "doc.yaml", "host: example.com\nmode: prod\nowner: null\nextra: {k: [1]}\n")

	out, _, err := run(t, "validate", "--schema", schema, doc)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, map[string]any{
		"host":  "example.com",
		"port":  float64(8080),
		"mode":  "prod",
		"owner": nil,
		"extra": map[string]any{"k": []any{"1"}},
	}, got)
}

func TestValidate_Errors(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", serverSchema)
	doc := writeFile(t, dir, "doc.yaml", "host: example.com\nport: abc\nmode: prod\nowner: me\n")

	_, errOut, err := run(t, "validate", "--no-color", "-s", schema, doc)
	require.ErrorIs(t, err, ErrFailed)
	require.Equal(t, doc+":2:7: error: Value for 'port' is invalid: Value 'abc' is not a valid integer value.\n", errOut)

	out, _, err := run(t, "validate", "--format", "json", "-s", schema, doc)
	require.ErrorIs(t, err, ErrFailed)
	var report []FileIssues
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report, 1)
	require.Len(t, report[0].Issues, 1)
	require.Equal(t, "/port", report[0].Issues[0].Path)
	require.Equal(t, yamlbind.CodeInvalidFormat, report[0].Issues[0].Code)
}

func TestValidate_BadSchema(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "doc.yaml", "a: 1\n")

	schema := writeFile(t, dir, "unknown.yaml", "type: recrod\n")
	_, errOut, err := run(t, "validate", "--no-color", "-s", schema, doc)
	require.ErrorIs(t, err, ErrFailed)
	require.True(t, strings.HasPrefix(errOut, schema+":1:7: error: "), errOut)

	schema = writeFile(t, dir, "nolist.yaml", "type: list\n")
	_, _, err = run(t, "validate", "-s", schema, doc)
	require.ErrorContains(t, err, `schema /: "of" is required`)

	schema = writeFile(t, dir, "baddefault.yaml", "type: record\nfields:\n  n: {type: int8, default: 300}\n")
	_, errOut, err = run(t, "validate", "--no-color", "-s", schema, doc)
	require.ErrorIs(t, err, ErrFailed)
	require.Equal(t, schema+":3:28: error: Value for 'fields' is invalid: Value for 'n' is invalid: "+
		"Value for 'default' is invalid: Value '300' is not a valid byte value.\n", errOut)

	out, _, err := run(t, "validate", "--format", "json", "-s", schema, doc)
	require.ErrorIs(t, err, ErrFailed)
	var report []FileIssues
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, schema, report[0].File)
	require.Equal(t, "/fields/n/default", report[0].Issues[0].Path)
	require.Equal(t, yamlbind.CodeInvalidFormat, report[0].Issues[0].Code)

	_, _, err = run(t, "validate", doc)
	require.ErrorContains(t, err, `required flag(s) "schema" not set`)
}

func TestValidate_Tagged(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", `type: list
of:
  type: tagged
  tags:
    circle: {type: record, fields: {radius: {type: float64}}}
    label: {type: string}
`)
	doc := writeFile(t, dir, "doc.yaml", "- !circle {radius: 1.5}\n- !label hi\n")
	out, _, err := run(t, "validate", "-s", schema, doc)
	require.NoError(t, err)
	require.JSONEq(t, `[
		{"Tag": "circle", "Value": {"radius": 1.5}},
		{"Tag": "label", "Value": "hi"}
	]`, out)
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cfg.toml", "driver = \"go-yaml\"\nmax_depth = 3\ncolor = false\nrequires = \">= 0.1, < 1.0\"\n")
	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)
	require.Equal(t, "go-yaml", cfg.Driver)
	require.Equal(t, 3, cfg.MaxDepth)
	require.NotNil(t, cfg.Color)
	require.False(t, *cfg.Color)
	require.NoError(t, cfg.CheckVersion("0.1.0"))
	require.ErrorContains(t, cfg.CheckVersion("1.2.0"), "config requires yamlbind >= 0.1, < 1.0")

	opt, err := cfg.DecodeOpt()
	require.NoError(t, err)
	require.Equal(t, "go-yaml", opt.Driver.Name())
	require.Equal(t, 3, opt.MaxDepth)
}

func TestConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(filepath.Join(dir, "absent.toml"), false)
	require.NoError(t, err)
	require.Equal(t, Config{}, cfg)

	_, err = LoadConfig(filepath.Join(dir, "absent.toml"), true)
	require.Error(t, err)

	path := writeFile(t, dir, "typo.toml", "drivr = \"go-yaml\"\n")
	_, err = LoadConfig(path, true)
	require.ErrorContains(t, err, "unknown keys: drivr")

	require.ErrorContains(t, Config{Requires: "!!"}.CheckVersion("0.1.0"), "invalid requires")
}

func TestConfig_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "cfg.toml", "max_depth = 1\n")
	file := writeFile(t, dir, "doc.yaml", "a: [1]\n")

	_, _, err := run(t, "check", "--config", cfg, file)
	require.ErrorIs(t, err, ErrFailed)

	_, _, err = run(t, "check", "--config", cfg, "--max-depth", "0", file)
	require.NoError(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	require.Equal(t, "yamlbind version "+Version+"\n", out)
}

func TestDebugLogging(t *testing.T) {
	file := writeFile(t, t.TempDir(), "doc.yaml", "a: 1\n")
	_, errOut, err := run(t, "check", "--debug", file)
	require.NoError(t, err)
	require.Contains(t, errOut, "level=DEBUG msg=\"file read\"")
	require.NotContains(t, errOut, "time=")
}
