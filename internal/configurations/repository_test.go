package configurations_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/veridoc-io/veridoc/internal/configurations"
	"github.com/veridoc-io/veridoc/pkg/repository/repositorytest"
)

var configColumns = []string{
	"group_key", "name", "value", "description", "active", "created_at", "updated_at",
}

func configRow(group, name, value string, active bool, updatedAt time.Time) []driver.Value {
	return []driver.Value{group, name, value, nil, active, updatedAt, updatedAt}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUpdateStaleTokenConflicts(t *testing.T) {
	db := repositorytest.New(
		// optimistic update matches nothing
		repositorytest.Step{Columns: configColumns},
		// the row exists, so the token was stale
		repositorytest.Step{Columns: []string{"exists"}, Rows: [][]driver.Value{{true}}},
	)

	system := configurations.New(db.Open(), testLogger())

	_, err := system.Update(context.Background(), configurations.UpdateCommand{
		Group:             configurations.GroupModels,
		Name:              "LITE",
		Value:             "amazon.nova-pro-v1:0",
		ExpectedUpdatedAt: time.Now().UTC().Add(-time.Hour),
	})
	if !errors.Is(err, configurations.ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}

	calls := db.Calls()
	if len(calls) != 2 {
		t.Fatalf("statements = %d, want update then existence check", len(calls))
	}
}

func TestUpdateMissingRowNotFound(t *testing.T) {
	db := repositorytest.New(
		repositorytest.Step{Columns: configColumns},
		repositorytest.Step{Columns: []string{"exists"}, Rows: [][]driver.Value{{false}}},
	)

	system := configurations.New(db.Open(), testLogger())

	_, err := system.Update(context.Background(), configurations.UpdateCommand{
		Group:             configurations.GroupModels,
		Name:              "GHOST",
		Value:             "amazon.nova-pro-v1:0",
		ExpectedUpdatedAt: time.Now().UTC(),
	})
	if !errors.Is(err, configurations.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdateModelInvalidatesActiveCache(t *testing.T) {
	now := time.Now().UTC()
	db := repositorytest.New(
		// first ActiveModel read primes the cache
		repositorytest.Step{
			Columns: configColumns,
			Rows:    [][]driver.Value{configRow("MODEL_IDS", "LITE", "amazon.nova-lite-v1:0", true, now)},
		},
		// optimistic update succeeds
		repositorytest.Step{
			Columns: configColumns,
			Rows:    [][]driver.Value{configRow("MODEL_IDS", "LITE", "amazon.nova-pro-v1:0", true, now.Add(time.Second))},
		},
		// post-write ActiveModel must re-read instead of serving the cache
		repositorytest.Step{
			Columns: configColumns,
			Rows:    [][]driver.Value{configRow("MODEL_IDS", "LITE", "amazon.nova-pro-v1:0", true, now.Add(time.Second))},
		},
	)

	system := configurations.New(db.Open(), testLogger())
	ctx := context.Background()

	if _, err := system.ActiveModel(ctx); err != nil {
		t.Fatalf("prime active model failed: %v", err)
	}
	if _, err := system.ActiveModel(ctx); err != nil {
		t.Fatalf("cached active model failed: %v", err)
	}
	if got := len(db.Calls()); got != 1 {
		t.Fatalf("statements after cached read = %d, want 1", got)
	}

	if _, err := system.Update(ctx, configurations.UpdateCommand{
		Group:             configurations.GroupModels,
		Name:              "LITE",
		Value:             "amazon.nova-pro-v1:0",
		Active:            true,
		ExpectedUpdatedAt: now,
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	c, err := system.ActiveModel(ctx)
	if err != nil {
		t.Fatalf("active model after write failed: %v", err)
	}
	if c.Value != "amazon.nova-pro-v1:0" {
		t.Errorf("active model value = %s, want updated selector", c.Value)
	}
	if got := len(db.Calls()); got != 3 {
		t.Errorf("statements = %d, want 3 (write invalidates the cache)", got)
	}
}
