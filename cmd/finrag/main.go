// Copyright 2025 Shailesh Dhama
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
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/ShaileshDhama/finrag"
	"github.com/ShaileshDhama/finrag/config"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "finrag",
		Usage: "Hybrid dense and sparse retrieval over a document corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
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
				Name:      "ingest",
				Usage:     "Add documents to the corpus",
				ArgsUsage: "[text ...]",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Read documents from a file, one per line",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run a hybrid query against the corpus",
				ArgsUsage: "query",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top",
						Aliases: []string{"k"},
						Usage:   "Number of results to return",
						Value:   3,
					},
					&cli.Float64Flag{
						Name:    "alpha",
						Aliases: []string{"a"},
						Usage:   "Dense weight: 1.0 is purely semantic, 0.0 purely lexical",
						Value:   0.5,
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Ranking mode: hybrid, dense or sparse",
						Value: "hybrid",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show corpus statistics",
				Action: statsCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
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
		return fmt.Errorf("invalid log level: %s", levelStr)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
	return nil
}

func openEngine(ctx context.Context, c *cli.Context) (*finrag.Engine, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	return finrag.NewEngine(ctx, cfg)
}

func ingestCommand(c *cli.Context) error {
	texts := c.Args().Slice()

	if path := c.String("file"); path != "" {
		fromFile, err := linesFromFile(path)
		if err != nil {
			return err
		}
		texts = append(texts, fromFile...)
	}
	if len(texts) == 0 {
		return fmt.Errorf("nothing to ingest: pass texts as arguments or use --file")
	}

	ctx := context.Background()
	engine, err := openEngine(ctx, c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.Ingest(ctx, texts); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Ingested %d documents, corpus now holds %d\n", len(texts), engine.Len())
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("query required")
	}
	query := strings.Join(c.Args().Slice(), " ")

	ctx := context.Background()
	engine, err := openEngine(ctx, c)
	if err != nil {
		return err
	}
	defer engine.Close()

	k := c.Int("top")
	switch c.String("mode") {
	case "hybrid":
		hits, err := engine.HybridSearch(ctx, query, k, c.Float64("alpha"))
		if err != nil {
			return err
		}
		fmt.Printf("Found %d hits\n", len(hits))
		for i, hit := range hits {
			fmt.Printf("%d: [%0.4f] %s\n", i, hit.Score, hit.Text)
		}
	case "dense":
		matches, err := engine.DenseSearch(ctx, query, k)
		if err != nil {
			return err
		}
		fmt.Printf("Found %d matches (squared L2 distance, lower is closer)\n", len(matches))
		for i, m := range matches {
			text, getErr := engine.Document(m.Id)
			if getErr != nil {
				return getErr
			}
			fmt.Printf("%d: (%d)[%0.4f] %s\n", i, m.Id, m.Score, text)
		}
	case "sparse":
		matches, err := engine.SparseSearch(query, k)
		if err != nil {
			return err
		}
		fmt.Printf("Found %d matches (BM25 score, higher is better)\n", len(matches))
		for i, m := range matches {
			text, getErr := engine.Document(m.Id)
			if getErr != nil {
				return getErr
			}
			fmt.Printf("%d: (%d)[%0.4f] %s\n", i, m.Id, m.Score, text)
		}
	default:
		return fmt.Errorf("unknown mode %q", c.String("mode"))
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()
	engine, err := openEngine(ctx, c)
	if err != nil {
		return err
	}
	defer engine.Close()

	fmt.Printf("Documents: %d\n", engine.Len())
	fmt.Printf("State:     %s\n", engine.State())
	return nil
}

// linesFromFile reads non-empty lines from a file.
func linesFromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
