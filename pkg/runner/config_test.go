package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grafana/dskit/flagext"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	flagext.DefaultValues(&cfg)

	require.Equal(t, Config{
		Function:  "cardinality",
		BatchSize: 1024,
		Format:    FormatJSON,
		LogLevel:  "info",
	}, cfg)

	require.ErrorContains(t, cfg.Validate(), "input type must be set")

	cfg.InputType = "map<utf8, int64>"
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{
		InputType: "list<",
		BatchSize: 0,
		Format:    "csv",
		LogLevel:  "verbose",
	}

	err := cfg.Validate()
	require.Error(t, err)
	for _, msg := range []string{
		"function must be set",
		"invalid input type",
		"batch size must be positive",
		`unsupported format "csv"`,
		`unsupported log level "verbose"`,
	} {
		require.ErrorContains(t, err, msg)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("overrides defaults", func(t *testing.T) {
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("input_type: large_list<int64>\nbatch_size: 16\nformat: table\n"), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, Config{
			Function:  "cardinality",
			InputType: "large_list<int64>",
			BatchSize: 16,
			Format:    FormatTable,
			LogLevel:  "info",
		}, cfg)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, 1024, cfg.BatchSize)
	})

	t.Run("unknown field", func(t *testing.T) {
		path := filepath.Join(dir, "unknown.yaml")
		require.NoError(t, os.WriteFile(path, []byte("batch_sise: 16\n"), 0o644))

		_, err := LoadConfig(path)
		require.ErrorContains(t, err, "batch_sise")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
		require.Error(t, err)
	})
}
