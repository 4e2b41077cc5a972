package prompts_test

import (
	"context"
	"database/sql/driver"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/veridoc-io/veridoc/internal/prompts"
	"github.com/veridoc-io/veridoc/pkg/pagination"
	"github.com/veridoc-io/veridoc/pkg/repository/repositorytest"
)

var promptColumns = []string{"id", "role", "tasks", "active", "created_at", "updated_at"}

func promptRow(id uuid.UUID, active bool, updatedAt time.Time) []driver.Value {
	return []driver.Value{id.String(), "You are an expert.", "Verify documents.", active, updatedAt, updatedAt}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPages() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestActivateSweepsAndRefreshesActive(t *testing.T) {
	now := time.Now().UTC()
	current := uuid.New()
	next := uuid.New()

	db := repositorytest.New(
		// prime the active cache with the current prompt
		repositorytest.Step{Columns: promptColumns, Rows: [][]driver.Value{promptRow(current, true, now)}},
		// Activate: target lookup
		repositorytest.Step{Columns: promptColumns, Rows: [][]driver.Value{promptRow(next, false, now)}},
		// sweep scan finds the current prompt still active
		repositorytest.Step{Columns: promptColumns, Rows: [][]driver.Value{promptRow(current, true, now)}},
		// sweep deactivates it
		repositorytest.Step{Affected: 1},
		// target flips active
		repositorytest.Step{Columns: promptColumns, Rows: [][]driver.Value{promptRow(next, true, now.Add(time.Second))}},
		// post-sweep Active must re-read instead of serving the cache
		repositorytest.Step{Columns: promptColumns, Rows: [][]driver.Value{promptRow(next, true, now.Add(time.Second))}},
	)

	system := prompts.New(db.Open(), testLogger(), testPages())
	ctx := context.Background()

	before, err := system.Active(ctx)
	if err != nil {
		t.Fatalf("prime active failed: %v", err)
	}
	if before.ID != current {
		t.Fatalf("active = %s, want %s", before.ID, current)
	}

	activated, err := system.Activate(ctx, next)
	if err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if activated.ID != next || !activated.Active {
		t.Errorf("activated = %s active=%t, want %s active", activated.ID, activated.Active, next)
	}

	after, err := system.Active(ctx)
	if err != nil {
		t.Fatalf("active after sweep failed: %v", err)
	}
	if after.ID != next {
		t.Errorf("active after sweep = %s, want %s", after.ID, next)
	}

	calls := db.Calls()
	if len(calls) != 6 {
		t.Fatalf("statements = %d, want 6", len(calls))
	}

	sweep := calls[3]
	if !strings.Contains(sweep.SQL, "active = false") {
		t.Errorf("statement %q, want the deactivation sweep", sweep.SQL)
	}
	if len(sweep.Args) != 1 || sweep.Args[0] != current.String() {
		t.Errorf("sweep args = %v, want only %s deactivated", sweep.Args, current)
	}
}

func TestActivateSkipsAlreadyActiveTarget(t *testing.T) {
	now := time.Now().UTC()
	id := uuid.New()

	db := repositorytest.New(
		// target lookup
		repositorytest.Step{Columns: promptColumns, Rows: [][]driver.Value{promptRow(id, true, now)}},
		// sweep scan finds only the target, so nothing is deactivated
		repositorytest.Step{Columns: promptColumns, Rows: [][]driver.Value{promptRow(id, true, now)}},
		// target flips active (idempotent)
		repositorytest.Step{Columns: promptColumns, Rows: [][]driver.Value{promptRow(id, true, now.Add(time.Second))}},
	)

	system := prompts.New(db.Open(), testLogger(), testPages())

	p, err := system.Activate(context.Background(), id)
	if err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if p.ID != id || !p.Active {
		t.Errorf("activated = %s active=%t, want %s active", p.ID, p.Active, id)
	}

	for _, call := range db.Calls() {
		if strings.Contains(call.SQL, "active = false") {
			t.Errorf("target was swept by its own activation: %s", call.SQL)
		}
	}
}
