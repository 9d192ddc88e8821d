package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/wom/internal/config"
	"github.com/MrJamesThe3rd/wom/internal/database"
)

const usage = `usage: wom <command> [flags]

commands:
  migrate          create missing tables, constraints and indexes
  import-manifest  add a manifest file to a supplier deposit
  overdue          list a seller's unpaid line items past their due date
  apply-event      apply a payment processor status event to a transaction
`

type command func(ctx context.Context, app *app, args []string) error

var commands = map[string]command{
	"migrate":         runMigrate,
	"import-manifest": runImportManifest,
	"overdue":         runOverdue,
	"apply-event":     runApplyEvent,
}

type app struct {
	cfg *config.Config
	db  *sql.DB
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, &app{cfg: cfg, db: db}, os.Args[2:]); err != nil {
		slog.Error("command failed", "app", cfg.App.Name, "command", os.Args[1], "error", err)
		stop()
		db.Close()
		os.Exit(1)
	}
}
