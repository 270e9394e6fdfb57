// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/graphit"
	"github.com/poiesic/graphit/ai"
	"github.com/poiesic/graphit/core"
	"github.com/poiesic/graphit/export"
	"github.com/poiesic/graphit/ingestion"
	"github.com/poiesic/graphit/pipeline"
	"github.com/poiesic/graphit/reindex"
	"github.com/poiesic/graphit/server"
)

func main() {
	// Best effort; a missing .env file is not an error
	godotenv.Load()

	app := &cli.App{
		Name:  "graphit",
		Usage: "Document ingestion pipeline and entity graph",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the REST API server",
				Action: serveCommand,
				Flags: append(storeFlags(), append(aiFlags(),
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address",
						Value:   ":8080",
						EnvVars: []string{"GRAPHIT_ADDR"},
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to YAML config file",
					},
					&cli.IntFlag{
						Name:    "workers",
						Usage:   "Async ingestion worker count (0 = half the CPUs)",
						EnvVars: []string{"GRAPHIT_WORKERS"},
					},
				)...),
			},
			{
				Name:      "ingest",
				Usage:     "Ingest one or more files and print per-file summaries",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags: append(storeFlags(), append(aiFlags(),
					&cli.StringFlag{
						Name:  "format",
						Usage: "Source format override (csv, tsv, json, txt); empty derives from the extension",
					},
					&cli.StringFlag{
						Name:  "pipeline",
						Usage: "Pipeline composition (auto, default, tabular, minimal)",
						Value: "auto",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Storage batch size override (0 = pipeline default)",
					},
				)...),
			},
			{
				Name:      "status",
				Usage:     "Show one document's lifecycle status",
				ArgsUsage: "DOCUMENT_ID",
				Action:    statusCommand,
				Flags:     storeFlags(),
			},
			{
				Name:   "documents",
				Usage:  "List ingested documents, newest first",
				Action: documentsCommand,
				Flags: append(storeFlags(), &cli.IntFlag{
					Name:  "limit",
					Usage: "Maximum documents to list",
					Value: 20,
				}),
			},
			{
				Name:      "search",
				Usage:     "Search entities by meaning and name",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: append(storeFlags(), append(aiFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum matches to return",
						Value: 10,
					},
				)...),
			},
			{
				Name:   "stats",
				Usage:  "Show graph node and relationship totals",
				Action: statsCommand,
				Flags:  storeFlags(),
			},
			{
				Name:   "export",
				Usage:  "Export the graph as D3 force-layout JSON",
				Action: exportCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Output file path",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum relations to export (0 = no limit)",
					},
				),
			},
			{
				Name:   "clear",
				Usage:  "Delete every entity, relation, and vector",
				Action: clearCommand,
				Flags: append(storeFlags(), &cli.BoolFlag{
					Name:  "yes",
					Usage: "Skip the confirmation prompt",
				}),
			},
			{
				Name:   "reindex",
				Usage:  "Rebuild the entity vector index",
				Action: reindexCommand,
				Flags: append(storeFlags(), append(aiFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of entities to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N entities",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				)...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to the database (directory for badger, file for sqlite)",
			Value:   "./graphit_db",
			EnvVars: []string{"GRAPHIT_DB"},
		},
		&cli.StringFlag{
			Name:    "store",
			Usage:   "Storage backend (badger or sqlite)",
			Value:   "badger",
			EnvVars: []string{"GRAPHIT_STORE"},
		},
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			EnvVars: []string{"GRAPHIT_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			EnvVars: []string{"GRAPHIT_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "extractor-host",
			Usage:   "Extraction service host URL",
			EnvVars: []string{"GRAPHIT_EXTRACTOR_HOST"},
		},
		&cli.StringFlag{
			Name:    "extractor-model",
			Usage:   "Extraction model name",
			EnvVars: []string{"GRAPHIT_EXTRACTOR_MODEL"},
		},
	}
}

// aiConfigFromFlags builds the provider config, starting from base (the
// YAML file for serve, defaults elsewhere) with explicit flags winning.
func aiConfigFromFlags(c *cli.Context, base *ai.Config) *ai.Config {
	config := *base
	if host := c.String("embedding-host"); host != "" {
		config.EmbeddingHost = host
	}
	if model := c.String("embedding-model"); model != "" {
		config.EmbeddingModel = model
	}
	if host := c.String("extractor-host"); host != "" {
		config.ExtractorHost = host
	}
	if model := c.String("extractor-model"); model != "" {
		config.ExtractorModel = model
	}
	return &config
}

// openDatabase opens the backend selected by --store / --db.
func openDatabase(c *cli.Context, aiConfig *ai.Config) (*graphit.Database, error) {
	opts := []graphit.DatabaseOption{graphit.WithAIConfig(aiConfig)}

	switch backend := c.String("store"); backend {
	case "badger":
	case "sqlite":
		opts = append(opts, graphit.WithSQLite())
	default:
		return nil, fmt.Errorf("unknown store backend %q: must be badger or sqlite", backend)
	}

	return graphit.NewDatabase(c.String("db"), opts...)
}

func serveCommand(c *cli.Context) error {
	config := DefaultServerConfig()
	if path := c.String("config"); path != "" {
		loaded, err := LoadServerConfig(path)
		if err != nil {
			return err
		}
		config = loaded
	}

	// Explicit flags win over the config file
	if c.IsSet("addr") {
		config.Addr = c.String("addr")
	}
	if c.IsSet("db") {
		config.Store.Path = c.String("db")
	}
	if c.IsSet("store") {
		config.Store.Backend = c.String("store")
	}
	if c.IsSet("workers") {
		config.Workers = c.Int("workers")
	}

	aiConfig := aiConfigFromFlags(c, config.AI.aiConfig())

	opts := []graphit.DatabaseOption{graphit.WithAIConfig(aiConfig)}
	if config.Store.Backend == "sqlite" {
		opts = append(opts, graphit.WithSQLite())
	} else if config.Store.Backend != "badger" {
		return fmt.Errorf("unknown store backend %q: must be badger or sqlite", config.Store.Backend)
	}

	db, err := graphit.NewDatabase(config.Store.Path, opts...)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var orchestratorOpts []ingestion.Option
	if config.Workers > 0 {
		orchestratorOpts = append(orchestratorOpts, ingestion.WithWorkers(config.Workers))
	}

	orchestrator, err := db.NewOrchestrator(orchestratorOpts...)
	if err != nil {
		return fmt.Errorf("creating orchestrator: %w", err)
	}
	defer orchestrator.Release()

	searcher, err := db.NewSearcher()
	if err != nil {
		return fmt.Errorf("creating searcher: %w", err)
	}

	srv, err := server.NewServer(db.DocumentRepository(), db.GraphRepository(), db.VectorIndex(), orchestrator, searcher)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	slog.Info("starting server", "addr", config.Addr, "store", config.Store.Backend, "db", config.Store.Path)
	return srv.Run(config.Addr)
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file argument is required")
	}

	db, err := openDatabase(c, aiConfigFromFlags(c, ai.DefaultConfig()))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	orchestrator, err := db.NewOrchestrator()
	if err != nil {
		return fmt.Errorf("creating orchestrator: %w", err)
	}
	defer orchestrator.Release()

	format := core.SourceFormat(c.String("format"))
	composition := c.String("pipeline")
	batchSize := c.Int("batch-size")

	ctx := context.Background()
	failures := 0
	for _, path := range c.Args().Slice() {
		var result *ingestion.Result
		if composition == "auto" && batchSize <= 0 {
			result, err = orchestrator.Process(ctx, path, format)
		} else {
			result, err = runWithComposition(ctx, db, composition, batchSize, path, format)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failures++
			continue
		}
		printResult(path, result)
		if !result.Success {
			failures++
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d files failed", failures, c.NArg())
	}
	return nil
}

// runWithComposition bypasses the orchestrator's per-format pipeline
// selection to honor an explicit --pipeline or --batch-size.
func runWithComposition(ctx context.Context, db *graphit.Database, composition string, batchSize int, path string, format core.SourceFormat) (*ingestion.Result, error) {
	if format == "" {
		format = core.FormatFromPath(path)
	}
	if _, err := db.Registry().Decoder(format); err != nil {
		return nil, err
	}

	factory := pipeline.NewFactory(db.Registry(), db.Provider(), db.GraphRepository())
	pl, err := buildPipeline(factory, composition, batchSize, format)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	doc := core.NewDocument(filepath.Base(path), format, info.Size())
	documents := db.DocumentRepository()
	if err := documents.PutDocument(ctx, doc); err != nil {
		return nil, err
	}

	pc := pipeline.NewContext(doc.Filename, format, info.Size(), func() (io.ReadCloser, error) {
		return os.Open(path)
	})

	start := time.Now()
	if err := pl.Execute(ctx, pc, doc); err != nil {
		return nil, err
	}
	if err := documents.PutDocument(ctx, doc); err != nil {
		return nil, err
	}

	return ingestion.Summarize(doc, pc, time.Since(start)), nil
}

func buildPipeline(factory *pipeline.Factory, composition string, batchSize int, format core.SourceFormat) (*pipeline.Pipeline, error) {
	if batchSize <= 0 {
		switch composition {
		case "auto":
			return factory.ForFormat(format), nil
		case "default":
			return factory.Default(), nil
		case "tabular":
			return factory.Tabular(), nil
		case "minimal":
			return factory.Minimal(), nil
		default:
			return nil, fmt.Errorf("unknown pipeline %q: must be auto, default, tabular, or minimal", composition)
		}
	}

	cfg := pipeline.CustomConfig{BatchSize: batchSize}
	if composition == "auto" {
		if format == core.FormatCSV || format == core.FormatTSV {
			composition = "tabular"
		} else {
			composition = "default"
		}
	}
	switch composition {
	case "default":
		cfg.Chunking = true
		cfg.Embedding = true
		cfg.NER = true
		cfg.Transformation = true
		cfg.Enrichment = true
		cfg.Validation = true
	case "tabular":
		cfg.Transformation = true
		cfg.Validation = true
	case "minimal":
	default:
		return nil, fmt.Errorf("unknown pipeline %q: must be auto, default, tabular, or minimal", composition)
	}
	return factory.Custom(cfg), nil
}

func printResult(path string, result *ingestion.Result) {
	status := "ok"
	if !result.Success {
		status = "failed"
	}

	fmt.Printf("%s: %s (document %s, %v)\n", path, status, result.Document.Id, result.Duration.Round(time.Millisecond))
	fmt.Printf("  entities: %d extracted, %d stored\n", result.TotalEntities, result.EntitiesStored)
	fmt.Printf("  relations: %d extracted, %d stored\n", result.TotalRelations, result.RelationsStored)
	for _, stage := range result.Stages {
		line := fmt.Sprintf("  stage %-14s %s (%v)", stage.Name, stage.Status, stage.Duration.Round(time.Millisecond))
		if stage.Error != "" {
			line += ": " + stage.Error
		}
		fmt.Println(line)
	}
	for _, msg := range result.Errors {
		fmt.Printf("  error: %s\n", msg)
	}
}

func statusCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one document ID argument is required")
	}

	db, err := openDatabase(c, ai.DefaultConfig())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	doc, err := db.DocumentRepository().GetDocument(context.Background(), c.Args().First())
	if err != nil {
		return err
	}

	fmt.Printf("Document:  %s\n", doc.Id)
	fmt.Printf("Filename:  %s (%s, %d bytes)\n", doc.Filename, doc.Format, doc.SizeBytes)
	fmt.Printf("Status:    %s (%.0f%%)\n", doc.Status, doc.Progress)
	fmt.Printf("Uploaded:  %s\n", doc.UploadedAt.Format(time.RFC3339))
	if !doc.ProcessedAt.IsZero() {
		fmt.Printf("Processed: %s\n", doc.ProcessedAt.Format(time.RFC3339))
	}
	fmt.Printf("Entities:  %d\n", doc.EntitiesExtracted)
	fmt.Printf("Relations: %d\n", doc.RelationsExtracted)
	if doc.Error != "" {
		fmt.Printf("Error:     %s\n", doc.Error)
	}
	return nil
}

func documentsCommand(c *cli.Context) error {
	db, err := openDatabase(c, ai.DefaultConfig())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	docs, err := db.DocumentRepository().ListDocuments(context.Background(), c.Int("limit"))
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		fmt.Println("No documents.")
		return nil
	}

	for _, doc := range docs {
		fmt.Printf("%s  %-12s  %5.0f%%  %s\n", doc.Id, doc.Status, doc.Progress, doc.Filename)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("a query argument is required")
	}

	db, err := openDatabase(c, aiConfigFromFlags(c, ai.DefaultConfig()))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return fmt.Errorf("creating searcher: %w", err)
	}

	query := strings.Join(c.Args().Slice(), " ")
	matches, err := searcher.FindSimilar(context.Background(), query, c.Int("limit"))
	if err != nil {
		return err
	}

	fmt.Printf("Found %d matches\n", len(matches))
	for i, match := range matches {
		fmt.Printf("%d: %s (%s) [%.3f]\n", i+1, match.Entity.Name, match.Entity.Type, match.Score)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	db, err := openDatabase(c, ai.DefaultConfig())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	stats, err := db.GraphRepository().Stats(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Nodes:         %d\n", stats.TotalNodes)
	fmt.Printf("Relationships: %d\n", stats.TotalRelationships)
	for label, count := range stats.NodesByLabel {
		fmt.Printf("  %-12s %d\n", label, count)
	}
	for relType, count := range stats.RelationshipsByType {
		fmt.Printf("  %-12s %d\n", relType, count)
	}
	return nil
}

func exportCommand(c *cli.Context) error {
	db, err := openDatabase(c, ai.DefaultConfig())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	data, err := db.GraphRepository().Visualize(context.Background(), c.Int("limit"))
	if err != nil {
		return err
	}

	graph := export.FromGraphData(data)
	if err := graph.WriteFile(c.String("out")); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	fmt.Printf("Exported %d nodes and %d links to %s\n", len(graph.Nodes), len(graph.Links), c.String("out"))
	return nil
}

func clearCommand(c *cli.Context) error {
	if !c.Bool("yes") {
		return fmt.Errorf("refusing to clear the graph without --yes")
	}

	db, err := openDatabase(c, ai.DefaultConfig())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.GraphRepository().Clear(ctx); err != nil {
		return err
	}
	if err := db.VectorIndex().Clear(ctx); err != nil {
		return err
	}

	fmt.Println("Graph and vector index cleared.")
	return nil
}

func reindexCommand(c *cli.Context) error {
	db, err := openDatabase(c, aiConfigFromFlags(c, ai.DefaultConfig()))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	config := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reindexer := reindex.NewReindexer(db.GraphRepository(), db.VectorIndex(), db.Provider().Embedder(), config, os.Stderr)

	if err := reindexer.Run(context.Background()); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
