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
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/graphit"
	"github.com/poiesic/graphit/core"
	"github.com/poiesic/graphit/search"
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// printingMonitor traces each search phase to stdout.
type printingMonitor struct{}

var _ search.SearchMonitor = (*printingMonitor)(nil)

func (m *printingMonitor) Start(query string) {
	fmt.Printf("searching for %q\n", query)
}

func (m *printingMonitor) AfterQueryEmbedding(embedding []float32) {
	fmt.Printf("  query embedded (%d dimensions)\n", len(embedding))
}

func (m *printingMonitor) AfterSemanticSearch(ids []core.ID) {
	fmt.Printf("  semantic search: %d candidates\n", len(ids))
}

func (m *printingMonitor) AfterNameLookup(entities []*core.Entity) {
	fmt.Printf("  name lookup: %d candidates\n", len(entities))
}

func (m *printingMonitor) SemanticAndNameHit(entity *core.Entity) {
	fmt.Printf("  both: %s (%s)\n", entity.Name, entity.Type)
}

func (m *printingMonitor) SemanticHit(entity *core.Entity) {
	fmt.Printf("  semantic only: %s (%s)\n", entity.Name, entity.Type)
}

func (m *printingMonitor) NameHit(entity *core.Entity) {
	fmt.Printf("  name only: %s (%s)\n", entity.Name, entity.Type)
}

func (m *printingMonitor) Finish(results []*core.EntityMatch) {
	fmt.Printf("  %d matches above threshold\n", len(results))
}

func main() {
	db, err := graphit.NewDatabase("./graphit_db")
	if err != nil {
		panic(err)
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		panic(err)
	}

	query := "Tom Hanks"
	if len(os.Args) > 1 {
		query = strings.Join(os.Args[1:], " ")
	}

	ctx := context.Background()
	matches, err := searcher.FindSimilarWithMonitor(ctx, query, 5, &printingMonitor{})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Found %d hits\n", len(matches))
	for i, hit := range matches {
		fmt.Printf("%d: %s (%s) [%0.3f]\n", i+1, hit.Entity.Name, hit.Entity.Type, hit.Score)
	}
}
