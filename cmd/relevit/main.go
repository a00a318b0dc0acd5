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
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/relevit"
	"github.com/poiesic/relevit/ai"
	"github.com/poiesic/relevit/llm"
	"github.com/poiesic/relevit/search"
	"github.com/poiesic/relevit/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "relevit",
		Usage: "Retrieval and generation over tenant and shared passage indexes",
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
				Name:      "ask",
				Usage:     "Answer a question from indexed passages",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.StringFlag{
						Name:  "llm-config",
						Usage: "Path to routing/pricing/budget TOML file",
					},
					&cli.StringFlag{
						Name:  "redis",
						Usage: "Redis URL for the search cache (default: embedded cache)",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of passages to retrieve",
						Value: search.DefaultTopK,
					},
					&cli.BoolFlag{
						Name:  "hyde",
						Usage: "Expand the query with a hypothetical answer",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "rerank",
						Usage: "Rerank retrieved passages with a language model",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "shared",
						Usage: "Include the shared index",
						Value: true,
					},
					&cli.Float64Flag{
						Name:  "shared-boost",
						Usage: "Weight applied to shared index scores",
						Value: 1.0,
					},
				},
			},
			{
				Name:   "usage",
				Usage:  "Show language model spend and usage history",
				Action: usageCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "days",
						Usage: "How many days of history to list",
						Value: 30,
					},
					&cli.Float64Flag{
						Name:  "budget",
						Usage: "Monthly budget in USD (display only)",
						Value: 50,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	llmConfig := llm.DefaultConfig()
	if path := c.String("llm-config"); path != "" {
		var err error
		llmConfig, err = llm.LoadConfig(path)
		if err != nil {
			return err
		}
	}

	opts := []relevit.EngineOption{
		relevit.WithAIConfig(ai.NewConfig(
			ai.WithEmbeddingHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
		)),
		relevit.WithLLMConfig(llmConfig),
		relevit.WithSharedBoost(float32(c.Float64("shared-boost"))),
	}
	if redisURL := c.String("redis"); redisURL != "" {
		opts = append(opts, relevit.WithRedisCache(redisURL))
	}

	engine, err := relevit.NewEngine(c.String("db"), opts...)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	answer, err := engine.Ask(context.Background(), question, search.Options{
		TopK:          c.Int("top-k"),
		UseHyde:       c.Bool("hyde"),
		UseReranker:   c.Bool("rerank"),
		IncludeShared: c.Bool("shared"),
	})
	if err != nil {
		return err
	}

	fmt.Println(answer.Content)
	fmt.Println()
	fmt.Println("Sources:")
	for i, source := range answer.Sources {
		tag := "tenant"
		if source.IsShared {
			tag = "shared"
		}
		fmt.Printf("  [%d] %s (%s) [%0.3f]\n", i+1, source.Name, tag, source.Score)
	}
	fmt.Printf("\n%s/%s  $%0.4f\n", answer.Provider, answer.Model, answer.Cost)
	return nil
}

func usageCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	store, err := badger.NewUsageStore(backend, c.Float64("budget"))
	if err != nil {
		return fmt.Errorf("failed to open usage store: %w", err)
	}
	defer store.Close()

	state, err := store.GetBudgetState(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Period starting %s: spent $%0.4f of $%0.2f ($%0.4f remaining)\n\n",
		state.PeriodStart.Format("2006-01-02"), state.SpentToDate, state.MonthlyLimit, state.Remaining())

	since := time.Now().UTC().AddDate(0, 0, -c.Int("days"))
	records, err := store.ListUsage(ctx, since)
	if err != nil {
		return err
	}

	for _, record := range records {
		fmt.Printf("%s  %-10s %-28s %-12s in=%-6d out=%-6d $%0.6f\n",
			record.Timestamp.Format(time.RFC3339), record.Provider, record.Model,
			record.TaskType, record.TokensIn, record.TokensOut, record.Cost)
	}
	fmt.Printf("\n%d calls in the last %d days\n", len(records), c.Int("days"))
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
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
