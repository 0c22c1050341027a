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


// Command seeder initializes a corpus from a knowledge-base directory.
// Each .txt file is split into paragraphs on blank lines; every
// paragraph becomes one document.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ShaileshDhama/finrag"
	"github.com/ShaileshDhama/finrag/config"
)

// sampleCorpus seeds an empty installation when no knowledge base is given.
var sampleCorpus = []string{
	"Interest rates are the cost of borrowing money, set largely by central bank policy.",
	"When central banks raise interest rates, borrowing becomes more expensive and spending tends to slow.",
	"Inflation measures the rate at which the general level of prices for goods and services rises.",
	"Stocks represent ownership shares in a company and entitle holders to a portion of its profits.",
	"Bond prices move inversely to interest rates: when rates rise, existing bond prices fall.",
	"Diversification spreads investments across asset classes to reduce exposure to any single risk.",
	"A recession is a significant decline in economic activity lasting more than a few months.",
	"Exchange rates express the value of one currency in terms of another.",
	"Dividend yield is a company's annual dividend payments divided by its share price.",
	"Compound interest is interest earned on both the principal and previously accumulated interest.",
}

var (
	kbDir      = flag.String("kb", "", "knowledge base directory of .txt files")
	configPath = flag.String("config", "", "path to YAML configuration file")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// loadKnowledgeBase reads every .txt file in the directory in name order
// and splits each into paragraph chunks.
func loadKnowledgeBase(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".txt") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var chunks []string
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, splitParagraphs(string(content))...)
	}
	return chunks, nil
}

// splitParagraphs breaks text into non-empty chunks on blank lines.
func splitParagraphs(content string) []string {
	var paragraphs []string
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			paragraphs = append(paragraphs, block)
		}
	}
	return paragraphs
}

func main() {
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("error loading configuration", "err", err)
		os.Exit(1)
	}

	chunks := sampleCorpus
	if *kbDir != "" {
		chunks, err = loadKnowledgeBase(*kbDir)
		if err != nil {
			slog.Error("error loading knowledge base", "dir", *kbDir, "err", err)
			os.Exit(1)
		}
		if len(chunks) == 0 {
			slog.Error("no text chunks found in knowledge base", "dir", *kbDir)
			os.Exit(1)
		}
	}

	engine, err := finrag.NewEngine(ctx, cfg)
	if err != nil {
		slog.Error("error creating engine", "err", err)
		os.Exit(1)
	}
	defer engine.Close()

	if err := engine.Ingest(ctx, chunks); err != nil {
		slog.Error("error ingesting documents", "err", err)
		os.Exit(1)
	}

	slog.Info("knowledge base initialized",
		"chunks", len(chunks), "documents", engine.Len())
}
