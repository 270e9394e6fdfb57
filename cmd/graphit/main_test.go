package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/graphit/ai"
	"github.com/poiesic/graphit/ai/mock"
	"github.com/poiesic/graphit/core"
	"github.com/poiesic/graphit/decode"
	"github.com/poiesic/graphit/pipeline"
	"github.com/poiesic/graphit/storage/badger"
)

func findStringFlag(t *testing.T, flags []cli.Flag, name string) *cli.StringFlag {
	t.Helper()
	for _, flag := range flags {
		if f, ok := flag.(*cli.StringFlag); ok && f.Name == name {
			return f
		}
	}
	t.Fatalf("flag %q not found", name)
	return nil
}

func TestStoreFlags(t *testing.T) {
	flags := storeFlags()

	db := findStringFlag(t, flags, "db")
	assert.Equal(t, "./graphit_db", db.Value)
	assert.Equal(t, []string{"GRAPHIT_DB"}, db.EnvVars)

	store := findStringFlag(t, flags, "store")
	assert.Equal(t, "badger", store.Value)
	assert.Equal(t, []string{"GRAPHIT_STORE"}, store.EnvVars)
}

func TestAIFlags_HaveEnvVars(t *testing.T) {
	flags := aiFlags()

	for _, name := range []string{"embedding-host", "embedding-model", "extractor-host", "extractor-model"} {
		flag := findStringFlag(t, flags, name)
		assert.NotEmpty(t, flag.EnvVars, "%s should have an env var fallback", name)
		assert.Empty(t, flag.Value, "%s should have no baked-in default", name)
	}
}

func TestAIConfigFromFlags_FlagsWin(t *testing.T) {
	base := ai.NewConfig(
		ai.WithEmbeddingHost("http://from-config:1/v1"),
		ai.WithEmbeddingModel("config-model"),
	)

	app := &cli.App{
		Flags: aiFlags(),
		Action: func(c *cli.Context) error {
			merged := aiConfigFromFlags(c, base)
			assert.Equal(t, "http://from-flag:2/v1", merged.EmbeddingHost)
			assert.Equal(t, "config-model", merged.EmbeddingModel, "unset flags keep the base value")
			return nil
		},
	}

	require.NoError(t, app.Run([]string{"graphit", "--embedding-host", "http://from-flag:2/v1"}))
}

func TestSetupLogger(t *testing.T) {
	run := func(level string) error {
		app := &cli.App{
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Value: "info"},
			},
			Before: setupLogger,
			Action: func(*cli.Context) error { return nil },
		}
		if level == "" {
			return app.Run([]string{"graphit"})
		}
		return app.Run([]string{"graphit", "--log-level", level})
	}

	t.Run("accepts valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG"} {
			assert.NoError(t, run(level), "level %q", level)
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		err := run("verbose")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("default is info", func(t *testing.T) {
		require.NoError(t, run(""))
		assert.True(t, slog.Default().Enabled(nil, slog.LevelInfo))
	})
}

func newTestFactory(t *testing.T) *pipeline.Factory {
	t.Helper()

	_, graph, _, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	return pipeline.NewFactory(decode.NewRegistry(), mock.NewMockProvider(), graph)
}

func TestBuildPipeline(t *testing.T) {
	factory := newTestFactory(t)

	t.Run("auto follows the format", func(t *testing.T) {
		pl, err := buildPipeline(factory, "auto", 0, core.FormatCSV)
		require.NoError(t, err)
		assert.Equal(t, "tabular", pl.Name())

		pl, err = buildPipeline(factory, "auto", 0, core.FormatText)
		require.NoError(t, err)
		assert.Equal(t, "default", pl.Name())
	})

	t.Run("explicit composition", func(t *testing.T) {
		pl, err := buildPipeline(factory, "minimal", 0, core.FormatCSV)
		require.NoError(t, err)
		assert.Equal(t, "minimal", pl.Name())
	})

	t.Run("batch size forces a custom build with the same stages", func(t *testing.T) {
		base, err := buildPipeline(factory, "tabular", 0, core.FormatCSV)
		require.NoError(t, err)

		custom, err := buildPipeline(factory, "tabular", 7, core.FormatCSV)
		require.NoError(t, err)
		assert.Equal(t, base.StageNames(), custom.StageNames())
	})

	t.Run("unknown composition errors", func(t *testing.T) {
		_, err := buildPipeline(factory, "streaming", 0, core.FormatCSV)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "streaming")

		_, err = buildPipeline(factory, "streaming", 5, core.FormatCSV)
		require.Error(t, err)
	})
}
