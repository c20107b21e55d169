package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nulzo/provider-engine/internal/store"
	"github.com/nulzo/provider-engine/internal/store/model"
	"github.com/nulzo/provider-engine/internal/store/sqlite"
)

// Seeds a local database with a small catalog and a starting selection so the
// engine can boot without a reachable catalog source.
func main() {
	repo, err := sqlite.NewSQLiteStorage("file:engine.db?cache=shared&mode=rwc&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	ctx := context.Background()

	rows := []model.ProviderRow{
		{
			Name:         "openai",
			DisplayName:  "OpenAI",
			Priority:     1,
			Models:       `["gpt-4o","gpt-4o-mini"]`,
			Capabilities: `{"text":true,"image":true,"analysis":true}`,
			Enabled:      true,
			Position:     0,
		},
		{
			Name:         "anthropic",
			DisplayName:  "Anthropic",
			Priority:     2,
			Models:       `["claude-sonnet-4-5"]`,
			Capabilities: `{"text":true,"analysis":true}`,
			Enabled:      true,
			Position:     1,
		},
		{
			Name:         "ollama",
			DisplayName:  "Ollama Local",
			Priority:     10,
			Models:       `["llama3.2"]`,
			Capabilities: `{"text":true}`,
			Enabled:      true,
			Position:     2,
		},
	}

	err = repo.WithTx(ctx, func(repo store.Repository) error {
		return repo.Catalog().ReplaceSnapshot(ctx, rows)
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Seeded catalog snapshot with %d providers\n", len(rows))

	if err := repo.Selection().Set(ctx, "openai"); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Seeded selection: openai")

	// one synthetic probe outcome per provider so the health log is non-empty
	for _, r := range rows {
		entry := &model.HealthLog{
			ID:        uuid.New().String(),
			Provider:  r.Name,
			Healthy:   true,
			LatencyMS: 0,
			CheckedAt: time.Now(),
		}
		if err := repo.Health().Log(ctx, entry); err != nil {
			log.Fatal(err)
		}
	}

	fmt.Println("\nSuccessfully seeded database!")
}
