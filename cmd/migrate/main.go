// Command migrate manages the catalogue database schema.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/catalogue/backend/internal/infrastructure/config"
	"github.com/catalogue/backend/internal/infrastructure/logger"
	"github.com/catalogue/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

// session is what a command runs against. migrator is nil for commands
// that only touch the migrations directory.
type session struct {
	log      *zap.Logger
	dir      string
	migrator *migration.Migrator
}

type command struct {
	args    string
	summary string
	minArgs int
	offline bool
	run     func(s *session, args []string) error
}

var commands = map[string]command{
	"up": {summary: "Apply all pending migrations", run: func(s *session, _ []string) error {
		return s.migrator.Up()
	}},
	"down": {summary: "Roll back every migration", run: func(s *session, _ []string) error {
		return s.migrator.Down()
	}},
	"step": {args: "<n>", summary: "Apply n migrations, negative n rolls back", minArgs: 1, run: runStep},
	"goto": {args: "<version>", summary: "Migrate up or down to version", minArgs: 1, run: runGoto},
	"force": {args: "<version>", summary: "Set the recorded version without migrating", minArgs: 1, run: runForce},
	"version": {summary: "Show the applied version", run: runVersion},
	"status": {summary: "Show the applied version and pending migrations", run: runStatus},
	"create": {args: "<name> [description]", summary: "Write a new up/down migration pair", minArgs: 1, offline: true, run: runCreate},
	"list": {summary: "List migrations on disk", offline: true, run: runList},
}

func main() {
	dir := flag.String("path", "", "migrations directory (default: ./migrations)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		usage()
		os.Exit(2)
	}
	if len(args)-1 < cmd.minArgs {
		fmt.Fprintf(os.Stderr, "usage: migrate %s %s\n", args[0], cmd.args)
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{
		Level:      *logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(log, *dir, args[0], cmd, args[1:]); err != nil {
		log.Error("Migration command failed", zap.String("command", args[0]), zap.Error(err))
		_ = logger.Sync(log)
		os.Exit(1)
	}
	_ = logger.Sync(log)
}

func run(log *zap.Logger, dir, name string, cmd command, args []string) error {
	dir, err := resolveDir(dir)
	if err != nil {
		return err
	}
	log.Debug("Running migration command", zap.String("command", name), zap.String("dir", dir))

	s := &session{log: log, dir: dir}
	if cmd.offline {
		return cmd.run(s, args)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	s.migrator, err = migration.New(db, dir, log)
	if err != nil {
		return err
	}
	defer func() { _ = s.migrator.Close() }()
	return cmd.run(s, args)
}

// resolveDir picks the migrations directory: the flag, then ./migrations,
// then the repository root relative to a binary under bin/<os>/.
func resolveDir(flagValue string) (string, error) {
	dir := flagValue
	if dir == "" {
		dir = defaultMigrationsDir
		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			if exe, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsDir)
				if _, err := os.Stat(candidate); err == nil {
					dir = candidate
				}
			}
		}
	}
	return filepath.Abs(dir)
}

func runStep(s *session, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil || n == 0 {
		return fmt.Errorf("invalid step count %q", args[0])
	}
	return s.migrator.Steps(n)
}

func runGoto(s *session, args []string) error {
	version, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q", args[0])
	}
	return s.migrator.GoTo(uint(version))
}

func runForce(s *session, args []string) error {
	version, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid version %q", args[0])
	}
	s.log.Warn("Forcing migration version", zap.Int("version", version))
	return s.migrator.Force(version)
}

func runVersion(s *session, _ []string) error {
	version, dirty, err := s.migrator.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		s.log.Info("No migrations applied")
		return nil
	}
	s.log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func runStatus(s *session, _ []string) error {
	status, err := s.migrator.Status(s.dir)
	if err != nil {
		return err
	}
	s.log.Info("Migration status",
		zap.Uint("version", status.Version),
		zap.Bool("dirty", status.Dirty),
		zap.Int("pending", len(status.Pending)),
	)
	for _, name := range status.Pending {
		fmt.Println("  pending:", name)
	}
	return nil
}

func runCreate(s *session, args []string) error {
	description := ""
	if len(args) > 1 {
		description = args[1]
	}
	mf, err := migration.CreateMigration(s.dir, args[0], description)
	if err != nil {
		return err
	}
	s.log.Info("Migration created",
		zap.String("version", mf.Version),
		zap.String("up", mf.UpPath),
		zap.String("down", mf.DownPath),
	)
	return nil
}

func runList(s *session, _ []string) error {
	names, err := migration.ListMigrations(s.dir)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		s.log.Info("No migrations found", zap.String("dir", s.dir))
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "Catalogue schema migrations\n\nUsage:\n  migrate [flags] <command> [arguments]\n\nCommands:")
	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(out, "  %-28s %s\n", name+" "+cmd.args, cmd.summary)
	}
	fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
	fmt.Fprintln(out, "\nThe database is configured through DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME and DB_SSL_MODE.")
}
