package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "./input", cfg.InputDir)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "./reports.db", cfg.Database.DSN)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, DefaultColumns(), cfg.Columns)
	assert.True(t, cfg.ShouldArchive())
	assert.True(t, cfg.ShouldContinueOnError())
	assert.DirExists(t, filepath.Join(dir, "input"))
	assert.DirExists(t, filepath.Join(dir, "output"))
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
input_dir: `+filepath.Join(dir, "in")+`
output_dir: `+filepath.Join(dir, "out")+`
input_archive_dir: `+filepath.Join(dir, "arch")+`
archive_inputs: false
database:
  driver: postgres
  dsn: host=localhost dbname=airport
log_level: debug
log_format: json
max_concurrency: 2
csv:
  delimiter: semicolon
  encoding: Windows-1250
columns:
  code: 1
  quantity: 3
  amount: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=localhost dbname=airport", cfg.Database.DSN)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 2, cfg.MaxConcurrency)
	assert.False(t, cfg.ShouldArchive())
	assert.Equal(t, "semicolon", cfg.CSV.Delimiter)
	assert.Equal(t, "Windows-1250", cfg.CSV.Encoding)
	assert.Equal(t, Columns{Code: 1, Quantity: 3, Amount: 4}, cfg.Columns)
	assert.DirExists(t, filepath.Join(dir, "arch"))
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
input_dir = "`+filepath.ToSlash(filepath.Join(dir, "in"))+`"
output_dir = "`+filepath.ToSlash(filepath.Join(dir, "out"))+`"
input_archive_dir = "`+filepath.ToSlash(filepath.Join(dir, "arch"))+`"
log_level = "warn"

[database]
driver = "sqlite"
dsn = "reports-test.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "reports-test.db", cfg.Database.DSN)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "bad yaml", file: "bad.yaml", content: "input_dir: [unterminated"},
		{name: "unknown driver", file: "driver.yaml", content: "database:\n  driver: oracle\n"},
		{name: "unknown log format", file: "format.yaml", content: "log_format: xml\n"},
		{name: "negative column", file: "cols.yaml", content: "columns:\n  code: -1\n  quantity: 5\n  amount: 7\n"},
		{name: "unsupported extension", file: "config.ini", content: "x=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, dir)
			path := writeFile(t, dir, tt.file, tt.content)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
