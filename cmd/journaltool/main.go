package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"dewpoint-server/internal/config"
	"dewpoint-server/internal/db"
	"dewpoint-server/internal/journal"
	"dewpoint-server/internal/logging"
	"dewpoint-server/internal/migrate"
)

const (
	appName      = "journaltool"
	version      = "dev"
	defaultLimit = 20
)

const usage = `usage: %s <command>
  migrate     apply pending journal migrations
  recent [n]  print the last n calculations as JSON lines (default %d)
  count       print the number of journaled calculations
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usage, os.Args[0], defaultLimit)
		os.Exit(1)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if !cfg.JournalEnabled() {
		fmt.Fprintln(os.Stderr, "JOURNAL_PATH is required")
		os.Exit(1)
	}

	logger := logging.NewWithWriter(os.Stderr, cfg, version, appName)
	slog.SetDefault(logger)

	conn, err := db.Open(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db open: %v\n", err)
		os.Exit(1)
	}

	err = run(conn, os.Args[1:])
	if closeErr := db.Close(conn); closeErr != nil {
		slog.Error("db close", "err", closeErr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func run(conn *sql.DB, args []string) error {
	switch args[0] {
	case "migrate":
		if err := migrate.Run(conn); err != nil {
			return err
		}
		fmt.Println("migrations applied")
		return nil
	case "recent":
		limit := defaultLimit
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid limit %q", args[1])
			}
			limit = n
		}
		calcs, err := journal.NewRepository(conn).GetRecentCalculations(limit)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		for _, c := range calcs {
			if err := enc.Encode(c); err != nil {
				return err
			}
		}
		return nil
	case "count":
		n, err := journal.NewRepository(conn).GetCalculationsCount()
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil
	default:
		return fmt.Errorf("unknown command")
	}
}
