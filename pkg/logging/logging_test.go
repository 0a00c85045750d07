package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/taxsync/pkg/logging"
)

func TestConfigFunctions(t *testing.T) {
	t.Run("DefaultConfig returns sensible defaults", func(t *testing.T) {
		cfg := logging.DefaultConfig()
		require.NotNil(t, cfg)
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "auto", cfg.Format)
		assert.Equal(t, "stderr", cfg.Output)
		assert.False(t, cfg.AddCaller)
	})

	t.Run("json output to file respects level", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "taxsync.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "warn",
			Format: "json",
			Output: path,
			Fields: map[string]any{"run": "test"},
		})

		logger.Info().Msg("info message")
		logger.Warn().Str("tax_id", "9999").Msg("warn message")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		output := string(content)
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warn message")
		assert.Contains(t, output, `"tax_id":"9999"`)
		assert.Contains(t, output, `"run":"test"`)
	})

	t.Run("console format writes short level names", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "console.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:   "info",
			Format:  "console",
			Output:  path,
			NoColor: true,
		})
		logger.Info().Msg("console test")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "console test")
		assert.Contains(t, string(content), "INF")
	})

	t.Run("auto format on a file falls back to json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "auto.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{Format: "auto", Output: path})
		logger.Info().Msg("auto")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"message":"auto"`)
	})

	t.Run("discard output does not panic", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(&logging.Config{Output: "discard"})
		assert.NotPanics(t, func() { logger.Error().Msg("dropped") })
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(nil)
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})
}

func TestLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := logging.NewLoggerFromConfig(&logging.Config{Level: tt.level, Output: "discard"})
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestComponent(t *testing.T) {
	tl := logging.NewTestLogger(t)
	logging.Component(tl.Logger, "entrez").Debug().Msg("efetch")

	tl.AssertContains(t, `"component":"entrez"`)
	assert.Equal(t, 1, tl.CountContaining("efetch"))
}

func TestSetDefault(t *testing.T) {
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	tl := logging.NewTestLogger(t)
	logging.SetDefault(*tl.Logger)
	logging.Default().Warn().Msg("swapped")

	tl.AssertContains(t, "swapped")
}
