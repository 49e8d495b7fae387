// Command migrate runs schema operations for the backend.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"campushub/internal/config"
	"campushub/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate/main.go <auto|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	cmd := strings.ToLower(strings.TrimSpace(flag.Arg(0)))
	switch cmd {
	case "auto":
		// Connect skips AutoMigrate in production, so apply it explicitly.
		if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
			return fmt.Errorf("automigrations failed: %w", err)
		}
		log.Println("automigrations applied")
	case "status":
		migrator := db.Migrator()
		missing := 0
		for _, model := range database.PersistentModels() {
			if !migrator.HasTable(model) {
				missing++
				log.Printf("missing: %T", model)
			}
		}
		log.Printf("env=%s models=%d missing_tables=%d", cfg.Env, len(database.PersistentModels()), missing)
	default:
		return usage()
	}

	return nil
}
