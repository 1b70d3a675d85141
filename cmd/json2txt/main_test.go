package main

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arnodel/kvjson/extract"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runJson2txt(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func parseFlags(t *testing.T, args ...string) (*flag.FlagSet, string) {
	t.Helper()
	flags, configPath := newFlagSet(io.Discard, io.Discard)
	require.NoError(t, flags.Parse(args))
	return flags, *configPath
}

func TestLoadConfigDefaults(t *testing.T) {
	flags, configPath := parseFlags(t)
	cfg, err := loadConfig(flags, configPath)
	require.NoError(t, err)
	assert.Equal(t, extract.DefaultConfig(), cfg)
}

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yml", `
input_file: from-file.json
output_file: from-file.txt
convert_type: value
sort_output: false
`)
	t.Setenv("JSON2TXT_OUTPUT_FILE", "from-env.txt")
	t.Setenv("JSON2TXT_SORT_OUTPUT", "true")

	flags, _ := parseFlags(t, "-config", configPath, "-mode", "key")
	cfg, err := loadConfig(flags, configPath)
	require.NoError(t, err)

	assert.Equal(t, "from-file.json", cfg.InputFile)
	assert.Equal(t, "from-env.txt", cfg.OutputFile)
	assert.Equal(t, extract.ModeKey, cfg.ConvertType)
	assert.Equal(t, "name", cfg.FieldToExtract)
	assert.True(t, cfg.SortOutput)
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	t.Setenv("JSON2TXT_FIELD_TO_EXTRACT", "from-env")

	flags, configPath := parseFlags(t, "-in", "a.json", "-out", "b.txt", "-mode", "field", "-field", "title", "-sort")
	cfg, err := loadConfig(flags, configPath)
	require.NoError(t, err)

	assert.Equal(t, "a.json", cfg.InputFile)
	assert.Equal(t, "b.txt", cfg.OutputFile)
	assert.Equal(t, extract.ModeField, cfg.ConvertType)
	assert.Equal(t, "title", cfg.FieldToExtract)
	assert.True(t, cfg.SortOutput)
}

func TestEveryFlagSetsAConfigKey(t *testing.T) {
	flags, _ := newFlagSet(io.Discard, io.Discard)
	flags.VisitAll(func(f *flag.Flag) {
		if f.Name == "config" {
			return
		}
		assert.Contains(t, flagKeys, f.Name, "flag -%s has no configuration key", f.Name)
	})
	for name := range flagKeys {
		assert.NotNil(t, flags.Lookup(name), "configuration key for unknown flag -%s", name)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	flags, _ := parseFlags(t)
	_, err := loadConfig(flags, filepath.Join(t.TempDir(), "absent.yml"))
	assert.ErrorContains(t, err, "reading config file")
}

func TestRunWithFlags(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.json", `[{"name": "pear"}, {"name": "apple", "id": 2}]`)
	out := filepath.Join(dir, "out.txt")

	code, _, stderr := runJson2txt(t, "-in", in, "-out", out, "-sort")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "processed 2 elements")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "apple\npear", string(data))
}

func TestRunWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.json", `[{"b": 2}, {"a": 1}]`)
	out := filepath.Join(dir, "out.txt")
	configYAML, err := yaml.Marshal(map[string]string{
		"input_file":   in,
		"output_file":  out,
		"convert_type": "key",
	})
	require.NoError(t, err)
	configPath := writeFile(t, dir, "config.yml", string(configYAML))

	code, _, stderr := runJson2txt(t, "-config", configPath)
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "b\na", string(data))
}

func TestRunFailures(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", `[{"name": "x"`)
	out := filepath.Join(dir, "out.txt")

	code, _, stderr := runJson2txt(t, "-in", bad, "-out", out)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "error: the file is not valid JSON")
	assert.NoFileExists(t, out)

	code, _, stderr = runJson2txt(t, "-out", out)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "conversion error: input_file and output_file must be set")

	code, stdout, _ := runJson2txt(t, "extra")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "Usage: json2txt")
}
