package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pressly/goose/v3"
)

const DefaultDir = "pkg/migrate/migrations"

// The SQL files declare Postgres enum types, so the goose provider always
// speaks postgres. SQLite schemas come from AutoMigrate instead.
func newProvider(db *sql.DB, dir string) (*goose.Provider, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	if dir == "" {
		return nil, errors.New("dir is required")
	}
	p, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("goose provider for %s: %w", dir, err)
	}
	return p, nil
}

// Run executes up, down (one step) or status against dir and reports each
// migration touched to out.
func Run(ctx context.Context, db *sql.DB, dir string, command string, out io.Writer) error {
	p, err := newProvider(db, dir)
	if err != nil {
		return err
	}
	defer p.Close()

	switch command {
	case "up":
		results, err := p.Up(ctx)
		report(out, results...)
		return wrapGoose("up", err)
	case "down":
		result, err := p.Down(ctx)
		if result != nil {
			report(out, result)
		}
		return wrapGoose("down", err)
	case "status":
		statuses, err := p.Status(ctx)
		if err != nil {
			return wrapGoose("status", err)
		}
		for _, s := range statuses {
			applied := "pending"
			if s.State == goose.StateApplied {
				applied = s.AppliedAt.UTC().Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(out, "%-22s %s\n", applied, s.Source.Path)
		}
		return nil
	default:
		return fmt.Errorf("unsupported migrate command %q", command)
	}
}

// MigrateToVersion moves the schema up or down until the applied version
// equals target (YYYYMMDDHHMMSS).
func MigrateToVersion(ctx context.Context, db *sql.DB, dir string, target string, out io.Writer) error {
	version, err := strconv.ParseInt(target, 10, 64)
	if err != nil || len(target) != len(versionLayout) {
		return fmt.Errorf("version %q is not a YYYYMMDDHHMMSS timestamp", target)
	}
	p, err := newProvider(db, dir)
	if err != nil {
		return err
	}
	defer p.Close()

	current, err := p.GetDBVersion(ctx)
	if err != nil {
		return wrapGoose("version", err)
	}

	var results []*goose.MigrationResult
	switch {
	case current < version:
		results, err = p.UpTo(ctx, version)
	case current > version:
		results, err = p.DownTo(ctx, version)
	}
	report(out, results...)
	return wrapGoose("version", err)
}

func report(out io.Writer, results ...*goose.MigrationResult) {
	if out == nil {
		return
	}
	for _, r := range results {
		if r == nil || r.Source == nil {
			continue
		}
		fmt.Fprintf(out, "%-4s %s (%s)\n", r.Direction, r.Source.Path, r.Duration.Round(time.Millisecond))
	}
}

func wrapGoose(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("goose %s: %w", op, err)
}
