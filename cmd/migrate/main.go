package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [up|drop|seed]")
		os.Exit(1)
	}
	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

// createTables creates the five tables the voting core writes in one
// transaction: profiles, votes, device locks, per-warzone rollups and
// the single-row global summary.
func createTables(ctx context.Context, conn *pgx.Conn) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id         TEXT PRIMARY KEY,
			age_group       TEXT NOT NULL DEFAULT '',
			gender          TEXT NOT NULL DEFAULT '',
			warzone_id      TEXT NOT NULL DEFAULT '',
			country         TEXT NOT NULL DEFAULT '',
			city            TEXT NOT NULL DEFAULT '',
			has_profile     BOOLEAN NOT NULL DEFAULT FALSE,
			has_voted       BOOLEAN NOT NULL DEFAULT FALSE,
			current_stance  TEXT NOT NULL DEFAULT '',
			current_reasons TEXT[] NOT NULL DEFAULT '{}',
			current_vote_id TEXT NOT NULL DEFAULT '',
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS votes (
			id                TEXT PRIMARY KEY,
			user_id           TEXT NOT NULL,
			device_id         TEXT NOT NULL DEFAULT '',
			status            TEXT NOT NULL,
			reasons           TEXT[] NOT NULL DEFAULT '{}',
			warzone_id        TEXT NOT NULL DEFAULT '',
			age_group         TEXT NOT NULL DEFAULT '',
			gender            TEXT NOT NULL DEFAULT '',
			country           TEXT NOT NULL DEFAULT '',
			city              TEXT NOT NULL DEFAULT '',
			had_warzone_stats BOOLEAN NOT NULL DEFAULT FALSE,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_user_id ON votes(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_warzone_id ON votes(warzone_id)`,

		`CREATE TABLE IF NOT EXISTS device_locks (
			device_id    TEXT PRIMARY KEY,
			last_vote_id TEXT NOT NULL DEFAULT '',
			active       BOOLEAN NOT NULL DEFAULT TRUE,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS warzone_stats (
			warzone_id  TEXT PRIMARY KEY,
			total_votes INTEGER NOT NULL DEFAULT 0,
			goat        INTEGER NOT NULL DEFAULT 0,
			fraud       INTEGER NOT NULL DEFAULT 0,
			king        INTEGER NOT NULL DEFAULT 0,
			mercenary   INTEGER NOT NULL DEFAULT 0,
			machine     INTEGER NOT NULL DEFAULT 0,
			stat_padder INTEGER NOT NULL DEFAULT 0,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS global_summary (
			id                    TEXT PRIMARY KEY,
			total_votes           INTEGER NOT NULL DEFAULT 0,
			goat                  INTEGER NOT NULL DEFAULT 0,
			fraud                 INTEGER NOT NULL DEFAULT 0,
			king                  INTEGER NOT NULL DEFAULT 0,
			mercenary             INTEGER NOT NULL DEFAULT 0,
			machine               INTEGER NOT NULL DEFAULT 0,
			stat_padder           INTEGER NOT NULL DEFAULT 0,
			recent_votes          JSONB NOT NULL DEFAULT '[]',
			reason_counts_like    JSONB NOT NULL DEFAULT '{}',
			reason_counts_dislike JSONB NOT NULL DEFAULT '{}',
			country_counts        JSONB NOT NULL DEFAULT '{}',
			updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}
	return nil
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	tables := []string{"global_summary", "warzone_stats", "device_locks", "votes", "profiles"}
	for _, table := range tables {
		if _, err := conn.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}

// seedData creates the zero-state global summary row so the first read
// does not depend on the first vote.
func seedData(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx, `
		INSERT INTO global_summary (id)
		VALUES ('global_summary')
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to seed global summary: %w", err)
	}
	return nil
}
