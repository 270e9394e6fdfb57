package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/graphit/ai"
)

// StoreConfig selects the storage backend for the server.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// AIConfig mirrors the ai.Config fields the server needs.
type AIConfig struct {
	EmbeddingHost  string  `yaml:"embedding_host"`
	EmbeddingModel string  `yaml:"embedding_model"`
	ExtractorHost  string  `yaml:"extractor_host"`
	ExtractorModel string  `yaml:"extractor_model"`
	MinConfidence  float64 `yaml:"min_confidence"`
}

// ServerConfig is the optional YAML configuration for the serve command.
// Explicit CLI flags override anything set here.
type ServerConfig struct {
	Addr    string      `yaml:"addr"`
	Store   StoreConfig `yaml:"store"`
	AI      AIConfig    `yaml:"ai"`
	Workers int         `yaml:"workers"`
}

// DefaultServerConfig returns the configuration used when no file and no
// flags are given.
func DefaultServerConfig() *ServerConfig {
	defaults := ai.DefaultConfig()
	return &ServerConfig{
		Addr: ":8080",
		Store: StoreConfig{
			Backend: "badger",
			Path:    "./graphit_db",
		},
		AI: AIConfig{
			EmbeddingHost:  defaults.EmbeddingHost,
			EmbeddingModel: defaults.EmbeddingModel,
			ExtractorHost:  defaults.ExtractorHost,
			ExtractorModel: defaults.ExtractorModel,
			MinConfidence:  defaults.MinConfidence,
		},
	}
}

// LoadServerConfig reads a YAML config file over the defaults.
func LoadServerConfig(path string) (*ServerConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := DefaultServerConfig()
	if err := yaml.Unmarshal(raw, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if config.Store.Backend != "badger" && config.Store.Backend != "sqlite" {
		return nil, fmt.Errorf("unknown store backend %q: must be badger or sqlite", config.Store.Backend)
	}

	return config, nil
}

// aiConfig converts the YAML shape into the provider configuration.
func (c *AIConfig) aiConfig() *ai.Config {
	opts := []ai.ConfigOption{}
	if c.EmbeddingHost != "" {
		opts = append(opts, ai.WithEmbeddingHost(c.EmbeddingHost))
	}
	if c.EmbeddingModel != "" {
		opts = append(opts, ai.WithEmbeddingModel(c.EmbeddingModel))
	}
	if c.ExtractorHost != "" {
		opts = append(opts, ai.WithExtractorHost(c.ExtractorHost))
	}
	if c.ExtractorModel != "" {
		opts = append(opts, ai.WithExtractorModel(c.ExtractorModel))
	}
	if c.MinConfidence > 0 {
		opts = append(opts, ai.WithMinConfidence(c.MinConfidence))
	}
	return ai.NewConfig(opts...)
}
