package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"heliosign/internal/config"
)

const usage = "Usage: migrate [up|down|steps N|force V|version]"

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	src := os.Getenv("HELIOSIGN_MIGRATIONS_PATH")
	if src == "" {
		src = "file://db/migrations"
	}

	m, err := migrate.New(src, cfg.DB.DSN())
	if err != nil {
		log.Fatalf("failed to create migrate instance: %v", err)
	}
	defer m.Close()

	switch os.Args[1] {
	case "up":
		report(m.Up(), "schema is up to date")

	case "down":
		report(m.Down(), "schema rolled back")

	case "steps":
		if len(os.Args) < 3 {
			log.Fatal("steps requires a number argument")
		}
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatalf("invalid steps argument: %v", err)
		}
		report(m.Steps(n), fmt.Sprintf("applied %d migration steps", n))

	case "force":
		if len(os.Args) < 3 {
			log.Fatal("force requires a version argument")
		}
		v, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatalf("invalid force argument: %v", err)
		}
		if err := m.Force(v); err != nil {
			log.Fatalf("force failed: %v", err)
		}
		log.Printf("forced schema version to %d", v)

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("no migrations applied")
			return
		}
		if err != nil {
			log.Fatalf("failed to get version: %v", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Printf("unknown command: %s\n", os.Args[1])
		fmt.Println(usage)
		os.Exit(1)
	}
}

func report(err error, ok string) {
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migration failed: %v", err)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		log.Println("no schema changes to apply")
		return
	}
	log.Println(ok)
}
