package main

import (
	"context"
	"log"
	"sort"

	"github.com/nahoc/boundless-ws/migrations"
	"github.com/nahoc/boundless-ws/pkg/config"
	"github.com/nahoc/boundless-ws/pkg/postgresql"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client, err := postgresql.NewClient(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to initialize postgresql client: %v", err)
	}
	defer client.Close()

	entries, err := migrations.Files.ReadDir(".")
	if err != nil {
		log.Fatalf("Failed to read migrations: %v", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		ddl, err := migrations.Files.ReadFile(name)
		if err != nil {
			log.Fatalf("Failed to read migration %s: %v", name, err)
		}
		if err := client.Exec(ctx, string(ddl)); err != nil {
			log.Fatalf("Failed to apply migration %s: %v", name, err)
		}
		log.Printf("Applied migration %s", name)
	}
}
