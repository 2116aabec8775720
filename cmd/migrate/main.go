package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"pos-service/config"
	"pos-service/internal/store"
)

func main() {
	cmd := flag.String("cmd", "up", "migration command: up|down|status")
	flag.Parse()

	cfg := config.Load()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch *cmd {
	case "up":
		err = db.MigrateUp()
	case "down":
		err = db.MigrateDown()
	case "status":
		err = db.MigrationStatus()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", *cmd)
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}
