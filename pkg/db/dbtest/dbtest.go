// Package dbtest opens isolated in-memory SQLite databases with the full
// schema for package tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/riderhub/riderhub-backend/pkg/config"
	"github.com/riderhub/riderhub-backend/pkg/db"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
)

// Open returns a client over a fresh schema. Foreign keys are enforced and the
// pool is pinned to one connection so transactions never contend for locks.
func Open(t testing.TB) *db.Client {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + uuid.NewString()[:8]
	client, err := db.New(context.Background(), config.DBConfig{
		Driver:       config.DriverSQLite,
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name),
		MaxOpenConns: 1,
	}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.AutoMigrate(context.Background(), models.All()...); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return client
}
