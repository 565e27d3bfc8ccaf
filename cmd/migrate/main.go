// Command migrate manages the inventory database schema.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/infrastructure/config"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/infrastructure/logger"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/infrastructure/migration"
)

const usage = `Inventory schema migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    apply all pending migrations
  down                  roll back all migrations
  step <n>              apply n migrations (negative rolls back)
  goto <version>        migrate to an exact version
  version               print the current schema version
  force <version>       overwrite the recorded version (dirty-state recovery)
  drop -confirm         drop every database object
  create <name> [desc]  scaffold a new up/down migration pair
  list                  list the migration pairs on disk

Flags:
  -path string          migrations directory (default: ./migrations)
  -log-level string     debug, info, warn, or error (default: info)

Database settings come from config.toml or INV_DATABASE_* variables.`

func main() {
	var (
		path     string
		logLevel string
	)
	flag.StringVar(&path, "path", "migrations", "migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "log level")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{Level: logLevel, Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	path, err = filepath.Abs(path)
	if err != nil {
		log.Fatal("Failed to resolve migrations path", zap.Error(err))
	}

	command, args := args[0], args[1:]
	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("migrations_path", path),
	)

	// create and list work on files alone, no database needed.
	switch command {
	case "create":
		runCreate(log, path, args)
		return
	case "list":
		runList(log, path)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to reach database", zap.Error(err))
	}

	mg, err := migration.New(db, path, log)
	if err != nil {
		log.Fatal("Failed to build migrator", zap.Error(err))
	}
	defer mg.Close()

	switch command {
	case "up":
		err = mg.Up()
	case "down":
		err = mg.Down()
	case "step":
		err = mg.Steps(intArg(log, args, "step count"))
	case "goto":
		err = mg.GoTo(uint(intArg(log, args, "target version")))
	case "version":
		runVersion(log, mg)
	case "force":
		err = mg.Force(intArg(log, args, "version"))
	case "drop":
		if !hasConfirmFlag(args) {
			log.Fatal("Drop refused without -confirm")
		}
		err = mg.Drop()
	default:
		fmt.Fprintln(os.Stderr, usage)
		log.Fatal("Unknown command", zap.String("command", command))
	}
	if err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func runCreate(log *zap.Logger, path string, args []string) {
	if len(args) == 0 {
		log.Fatal("Migration name required")
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}
	mf, err := migration.CreateMigration(path, args[0], description)
	if err != nil {
		log.Fatal("Failed to create migration", zap.Error(err))
	}
	log.Info("Migration created",
		zap.String("version", mf.Version),
		zap.String("up", mf.UpPath),
		zap.String("down", mf.DownPath),
	)
}

func runList(log *zap.Logger, path string) {
	names, err := migration.ListMigrations(path)
	if err != nil {
		log.Fatal("Failed to list migrations", zap.Error(err))
	}
	if len(names) == 0 {
		log.Info("No migrations found")
		return
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

func runVersion(log *zap.Logger, mg *migration.Migrator) {
	version, dirty, err := mg.Version()
	if err != nil {
		log.Fatal("Failed to read version", zap.Error(err))
	}
	if version == 0 {
		log.Info("No migrations applied")
		return
	}
	log.Info("Current schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
}

func intArg(log *zap.Logger, args []string, what string) int {
	if len(args) == 0 {
		log.Fatal("Missing argument", zap.String("argument", what))
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		log.Fatal("Argument must be a number",
			zap.String("argument", what),
			zap.String("value", args[0]),
		)
	}
	return n
}

func hasConfirmFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-confirm" || arg == "--confirm" {
			return true
		}
	}
	return false
}
