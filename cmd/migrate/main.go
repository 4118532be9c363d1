package main

import (
	"errors"
	"flag"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/noah-isme/academic-calendar-api/pkg/config"
	"github.com/noah-isme/academic-calendar-api/pkg/database"
)

func main() {
	dir := flag.String("path", "migrations", "directory holding the migration files")
	down := flag.Bool("down", false, "roll back every applied migration")
	steps := flag.Int("steps", 0, "apply (or roll back with a negative value) this many migrations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	m, err := migrate.New("file://"+*dir, database.URL(cfg.Database))
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close() //nolint:errcheck

	switch {
	case *steps != 0:
		err = m.Steps(*steps)
	case *down:
		err = m.Down()
	default:
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal(err)
	}

	version, dirty, _ := m.Version()
	log.Printf("migration complete: version=%d dirty=%t", version, dirty)
}
